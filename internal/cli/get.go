package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	catalog := openCatalog(cmd)

	rec, err := catalog.Get(args[0])
	if err != nil {
		exitErr("get", err)
	}

	if textOutput() {
		renderRecipe(os.Stdout, rec)
		return
	}
	printJSON(rec)
}
