package commands

import (
	"fmt"
	"os"
	"time"

	"openfuel-backend/lib/configutil"
	"openfuel-backend/services/fuelprices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	runsConfig *string
	runsLimit  *int64
)

func init() {
	runsConfig = runsCmd.Flags().String("config", "config.json5", "The pipeline configuration file.")
	runsLimit = runsCmd.Flags().Int64("limit", 20, "The maximum number of runs to display.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [--config <config.json5>] [--limit <n>]",
	Short: "Displays recent pipeline runs from the run archive.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configutil.ReadConfig[fuelprices.Config](*runsConfig)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		if cfg.Archive.Url == "" {
			return fmt.Errorf("no run archive configured in %q", *runsConfig)
		}

		archive, err := fuelprices.OpenArchive(cfg.Archive.Driver, cfg.Archive.Url)
		if err != nil {
			return err
		}
		defer archive.Close()

		runs, err := archive.RecentRuns(cmd.Context(), *runsLimit)
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"run id", "started at", "written", "reason", "petrol", "diesel", "error"})
		for _, run := range runs {
			t.AppendRow(table.Row{
				run.RunID,
				time.Unix(run.StartedAt, 0).Format(time.RFC3339),
				run.Written,
				run.Reason,
				run.PetrolCount,
				run.DieselCount,
				run.Error,
			})
		}
		t.Render()
		return nil
	},
}
