package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/recipebook/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories in use with recipe counts",
		Run:   runCategories,
	}

	RootCmd.AddCommand(cmd)
}

func runCategories(cmd *cobra.Command, args []string) {
	catalog := openCatalog(cmd)

	counts := store.Categories(catalog.Records())
	if textOutput() {
		renderCategories(os.Stdout, counts)
		return
	}
	if counts == nil {
		counts = []store.CategoryCount{}
	}
	printJSON(counts)
}
