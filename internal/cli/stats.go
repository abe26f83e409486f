package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	catalog := openCatalog(cmd)

	stats, err := catalog.Stats()
	if err != nil {
		exitErr("stats", err)
	}

	if textOutput() {
		renderStats(os.Stdout, stats)
		return
	}
	printJSON(stats)
}
