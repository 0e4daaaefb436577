package report

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/chemviz/chemviz/pkg/entities"
)

const (
	reportTitle  = "Chemical Equipment Analysis Report"
	reportFooter = "Generated by Chemical Equipment Parameter Visualizer"

	pageWidth    = 190.0
	columnWidth  = pageWidth / 2
	rowHeight    = 8.0
	headerHeight = 10.0
)

// PDFRenderer lays out a dataset summary as a one or two page letter-sized PDF.
type PDFRenderer struct{}

func formatAverage(value *float64) string {
	if value == nil {
		return "N/A"
	}

	return strconv.FormatFloat(*value, 'f', 2, 64)
}

type typeCount struct {
	name  string
	count int
}

// sortedTypes orders the distribution by count, most frequent first, then by name.
func sortedTypes(types map[string]int) []typeCount {
	counts := make([]typeCount, 0, len(types))
	for name, count := range types {
		counts = append(counts, typeCount{name: name, count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}

		return counts[i].name < counts[j].name
	})

	return counts
}

func (PDFRenderer) Render(dataset *entities.Dataset, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(reportTitle, true)
	pdf.SetCreator("chemviz", true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetModificationDate(generatedAt)

	// Core fonts are cp1252; translate so names like "Kühler" survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%s - page %d", reportFooter, pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, reportTitle, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range [][2]string{
		{"Dataset", dataset.Name},
		{"Upload Date", dataset.UploadedAt.Format("2006-01-02 15:04")},
		{"Generated", generatedAt.Format("2006-01-02 15:04")},
	} {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(30, 7, line[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, tr(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	table := func(title string, header [2]string, rows [][2]string) {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

		pdf.SetFillColor(128, 128, 128)
		pdf.SetTextColor(245, 245, 245)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(columnWidth, headerHeight, header[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(columnWidth, headerHeight, header[1], "1", 1, "L", true, 0, "")

		pdf.SetFillColor(245, 245, 220)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 11)
		for _, row := range rows {
			pdf.CellFormat(columnWidth, rowHeight, tr(row[0]), "1", 0, "L", true, 0, "")
			pdf.CellFormat(columnWidth, rowHeight, tr(row[1]), "1", 1, "L", true, 0, "")
		}
		pdf.Ln(8)
	}

	table("Summary Statistics", [2]string{"Metric", "Value"}, [][2]string{
		{"Total Equipment", strconv.Itoa(dataset.Summary.TotalCount)},
		{"Average Flowrate", formatAverage(dataset.Summary.AvgFlowrate)},
		{"Average Pressure", formatAverage(dataset.Summary.AvgPressure)},
		{"Average Temperature", formatAverage(dataset.Summary.AvgTemperature)},
	})

	if len(dataset.Summary.EquipmentTypes) > 0 {
		types := sortedTypes(dataset.Summary.EquipmentTypes)
		rows := make([][2]string, len(types))
		for i, t := range types {
			rows[i] = [2]string{t.name, strconv.Itoa(t.count)}
		}

		table("Equipment Type Distribution", [2]string{"Type", "Count"}, rows)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	return buf.Bytes(), nil
}
