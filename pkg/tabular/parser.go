package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/entities"
)

// Result is the outcome of parsing one uploaded table.
type Result struct {
	Header []string
	Rows   []entities.Row
	// Rejected counts data rows skipped for structural reasons: wrong cell count,
	// invalid UTF-8, unreadable quoting or a blank Equipment Name or Type.
	Rejected int
	// InvalidValues counts numeric cells holding something other than a number.
	// The cell is treated as absent and the row is kept.
	InvalidValues int
	// MissingColumns lists the numeric columns absent from the header.
	MissingColumns []string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads delimited text with a header row into typed rows.
func Parse(reader io.Reader, opts Options) (*Result, *contract.Error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, contract.NewErrorWith(contract.ErrorCode_PARSE_ERROR, "failed to read uploaded file", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, contract.NewError(contract.ErrorCode_PARSE_ERROR, "CSV file is empty")
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = detectDelimiter(data)
	}

	csvReader := csv.NewReader(bytes.NewReader(data))
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	// Bare quotes inside unquoted cells (6" Valve) are kept as text.
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, contract.NewError(contract.ErrorCode_PARSE_ERROR, "missing header row")
		}

		return nil, contract.NewErrorWith(contract.ErrorCode_PARSE_ERROR, "invalid CSV format in header row", err)
	}

	for _, cell := range header {
		if !utf8.ValidString(cell) {
			return nil, contract.NewError(contract.ErrorCode_PARSE_ERROR, "header row is not valid UTF-8 text")
		}
	}

	mapping, present := mapColumns(header)
	if cErr := checkColumns(present); cErr != nil {
		return nil, cErr
	}

	result := &Result{
		Header: headerNames(mapping),
		Rows:   make([]entities.Row, 0),
	}

	for _, c := range requiredColumns {
		if !present[c.field] {
			result.MissingColumns = append(result.MissingColumns, c.header)
		}
	}

	processed := 0

	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err == nil && isBlank(record) {
			continue
		}

		processed++
		if opts.MaxRows > 0 && processed > opts.MaxRows {
			return nil, contract.NewError(
				contract.ErrorCode_PARSE_ERROR,
				fmt.Sprintf("file exceeds the limit of %d data rows", opts.MaxRows),
			)
		}

		if err != nil {
			result.Rejected++

			continue
		}

		row, invalid, ok := buildRow(mapping, record)
		if !ok {
			result.Rejected++

			continue
		}

		result.InvalidValues += invalid
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

func checkColumns(present map[field]bool) *contract.Error {
	if len(present) == 0 {
		names := make([]string, len(requiredColumns))
		for i, c := range requiredColumns {
			names[i] = c.header
		}

		return contract.NewError(
			contract.ErrorCode_PARSE_ERROR,
			"no recognized columns in header, expected: "+strings.Join(names, ", "),
		)
	}

	var missing []string
	if !present[fieldEquipmentName] {
		missing = append(missing, entities.ColumnEquipmentName)
	}
	if !present[fieldType] {
		missing = append(missing, entities.ColumnType)
	}

	if len(missing) > 0 {
		return contract.NewError(
			contract.ErrorCode_PARSE_ERROR,
			"Missing required columns: "+strings.Join(missing, ", "),
		)
	}

	return nil
}

func headerNames(mapping []column) []string {
	headers := make([]string, len(mapping))
	for i, c := range mapping {
		headers[i] = c.header
	}

	return headers
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// buildRow returns the typed row, the number of non-numeric numeric cells and whether
// the row is structurally valid.
func buildRow(mapping []column, record []string) (entities.Row, int, bool) {
	var row entities.Row

	if len(record) != len(mapping) {
		return row, 0, false
	}

	invalid := 0

	for i, cell := range record {
		if !utf8.ValidString(cell) {
			return row, 0, false
		}

		value := strings.TrimSpace(cell)

		switch mapping[i].field {
		case fieldEquipmentName:
			row.EquipmentName = value
		case fieldType:
			row.Type = value
		case fieldFlowrate:
			row.Flowrate = parseMeasure(value, &invalid)
		case fieldPressure:
			row.Pressure = parseMeasure(value, &invalid)
		case fieldTemperature:
			row.Temperature = parseMeasure(value, &invalid)
		case fieldExtra:
			if row.Extra == nil {
				row.Extra = make(map[string]string)
			}
			row.Extra[mapping[i].header] = value
		}
	}

	if row.EquipmentName == "" || row.Type == "" {
		return row, 0, false
	}

	return row, invalid, true
}

var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

func parseMeasure(value string, invalid *int) *float64 {
	if missingMarkers[strings.ToLower(value)] {
		return nil
	}

	number, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(number, 0) || math.IsNaN(number) {
		*invalid++

		return nil
	}

	return &number
}

// detectDelimiter picks the most frequent candidate separator on the header line.
func detectDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}

	best, bestCount := ',', 0
	for _, candidate := range []rune{',', ';', '\t'} {
		if count := bytes.Count(line, []byte(string(candidate))); count > bestCount {
			best, bestCount = candidate, count
		}
	}

	return best
}
