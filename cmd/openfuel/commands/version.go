package commands

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the build version.",
	Run: func(cmd *cobra.Command, args []string) {
		info, ok := debug.ReadBuildInfo()
		if !ok || info.Main.Version == "" {
			fmt.Println("openfuel (unknown build)")
			return
		}
		fmt.Println("openfuel", info.Main.Version)
	},
}
