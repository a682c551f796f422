package commands

import (
	"fmt"
	"os"

	"openfuel-backend/services/fuelprices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showFile *string

func init() {
	showFile = showCmd.Flags().String("file", "prices.json", "The published snapshot to display.")
	rootCmd.AddCommand(showCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

var showCmd = &cobra.Command{
	Use:   "show [--file <prices.json>]",
	Short: "Displays the published price snapshot as a table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := fuelprices.NewStore(*showFile)
		snap, ok, err := store.Load()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no snapshot published at %q yet", *showFile)
		}

		fmt.Println("last updated:", snap.LastUpdatedIST)
		for _, kind := range fuelprices.Kinds {
			t := newTable()
			t.AppendHeader(table.Row{"city", fmt.Sprintf("%s price", kind)})
			for _, entry := range snap.Entries(kind) {
				t.AppendRow(table.Row{entry.City, fmt.Sprintf("%.2f", entry.Price)})
			}
			t.Render()
		}
		return nil
	},
}
