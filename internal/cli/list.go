package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/recipebook/internal/model"
	"github.com/rcliao/recipebook/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog recipes",
		Run:   runList,
	}

	cmd.Flags().String("category", "", "Filter by category")
	cmd.Flags().StringP("difficulty", "d", "", "Filter by difficulty")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	cmd.Flags().Bool("ids-only", false, "Only output recipe ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	catalog := openCatalog(cmd)
	records := store.Filter(catalog.Records(), store.FilterParams{
		Category:   category,
		Difficulty: difficulty,
		Limit:      limit,
	})

	if idsOnly {
		for _, r := range records {
			fmt.Println(r.ID)
		}
		return
	}
	if textOutput() {
		renderList(os.Stdout, records)
		return
	}
	if records == nil {
		records = []model.Recipe{}
	}
	printJSON(records)
}
