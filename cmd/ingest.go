package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/report"
	"github.com/chemviz/chemviz/pkg/service"
	"github.com/chemviz/chemviz/pkg/store/sql"
)

var ingestName string

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Parse a CSV file, store it as a dataset and print its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		store, err := sql.NewSQLStore(cmd.Context(), logrus.StandardLogger(), cfg)
		if err != nil {
			return fmt.Errorf("failed to open dataset store: %w", err)
		}
		defer store.Close()

		gate := report.NewGate(report.SecretFromConfig(cfg.Report), store, report.PDFRenderer{})
		datasets := service.NewDatasetService(cfg, store, gate)

		output, cErr := datasets.IngestDataset(cmd.Context(), &contract.IngestDataset{
			Name:     ingestName,
			Filename: filepath.Base(args[0]),
			Content:  string(content),
		})
		if cErr != nil {
			return cErr
		}

		printSummary(cmd.OutOrStdout(), output)

		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "dataset name (default is the file name)")
}

func average(value *float64) string {
	if value == nil {
		return "N/A"
	}

	return fmt.Sprintf("%.2f", *value)
}

func printSummary(w io.Writer, output *contract.IngestDatasetResponse) {
	dataset := output.Dataset
	summary := dataset.Summary

	fmt.Fprintf(w, "Dataset %d (%s) stored at %s\n", dataset.ID, dataset.Name, dataset.UploadedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  %-20s %d\n", "Total equipment:", summary.TotalCount)
	fmt.Fprintf(w, "  %-20s %s\n", "Avg flowrate:", average(summary.AvgFlowrate))
	fmt.Fprintf(w, "  %-20s %s\n", "Avg pressure:", average(summary.AvgPressure))
	fmt.Fprintf(w, "  %-20s %s\n", "Avg temperature:", average(summary.AvgTemperature))

	if dataset.RejectedRows > 0 {
		fmt.Fprintf(w, "  %-20s %d\n", "Rejected rows:", dataset.RejectedRows)
	}
	if output.InvalidValues > 0 {
		fmt.Fprintf(w, "  %-20s %d\n", "Invalid values:", output.InvalidValues)
	}
	for _, column := range output.MissingColumns {
		fmt.Fprintf(w, "  Missing column: %s\n", column)
	}

	types := make([]string, 0, len(summary.EquipmentTypes))
	for name := range summary.EquipmentTypes {
		types = append(types, name)
	}
	sort.Strings(types)

	fmt.Fprintln(w, "  Equipment types:")
	for _, name := range types {
		fmt.Fprintf(w, "    %-18s %d\n", name, summary.EquipmentTypes[name])
	}
}
