package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chemviz/chemviz/pkg/history"
	"github.com/chemviz/chemviz/pkg/store/sql"
)

var (
	historyLimit  int
	historyFilter string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the most recent datasets",
	Example: `  chemviz history
  chemviz history --limit 20 --filter "avg_pressure > 4 AND types.Pump >= 2"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := sql.NewSQLStore(cmd.Context(), logrus.StandardLogger(), cfg)
		if err != nil {
			return fmt.Errorf("failed to open dataset store: %w", err)
		}
		defer store.Close()

		index := history.NewIndex(store, cfg.History.DefaultLimit, cfg.History.MaxLimit)

		entries, cErr := index.Recent(cmd.Context(), historyLimit, historyFilter)
		if cErr != nil {
			return cErr
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tUPLOADED\tCOUNT\tFLOWRATE\tPRESSURE\tTEMPERATURE")

		for _, entry := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
				entry.ID,
				entry.Name,
				entry.UploadedAt.Local().Format("2006-01-02 15:04:05"),
				entry.TotalCount,
				average(entry.AvgFlowrate),
				average(entry.AvgPressure),
				average(entry.AvgTemperature),
			)
		}

		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum number of datasets (default is history.default_limit)")
	historyCmd.Flags().StringVar(&historyFilter, "filter", "", "filter expression, e.g. \"total_count > 10\"")
}
