package commands

import (
	"log/slog"
	"os"
	"time"

	"openfuel-backend/lib/configutil"
	"openfuel-backend/lib/serviceutil"
	"openfuel-backend/services/fuelprices"

	"github.com/spf13/cobra"
)

var (
	scrapeConfig *string
	scrapeOut    *string
)

func init() {
	scrapeConfig = scrapeCmd.Flags().String("config", "config.json5", "The pipeline configuration file.")
	scrapeOut = scrapeCmd.Flags().String("out", "", "Override the output file from the config.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--config <config.json5>] [--out <prices.json>]",
	Short: "Runs one full scrape pass and publishes the price snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[fuelprices.Config](*scrapeConfig)
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to read config", err)
		}
		if os.IsNotExist(err) {
			slog.Info("no config found, using defaults", "config", *scrapeConfig)
		}
		if *scrapeOut != "" {
			cfg.Output = *scrapeOut
		}

		svc, err := fuelprices.NewService(cfg)
		if err != nil {
			serviceutil.Fatal("failed to initialize pipeline", err)
		}
		defer svc.Close()

		ctx := serviceutil.SignalContext()

		t1 := time.Now()
		result, err := svc.Run(ctx)
		if err != nil {
			serviceutil.Fatal("pipeline run failed", err)
		}
		t2 := time.Now()

		slog.Info(
			"scrape complete",
			"written", result.Written,
			"reason", result.Reason,
			"seconds", t2.Sub(t1).Seconds(),
		)
	},
}
