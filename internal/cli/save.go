package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/recipebook/internal/model"
	"github.com/rcliao/recipebook/internal/recipe"
)

func init() {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Commit the draft as a catalog recipe",
		Long: "Commit the draft together with the recipe fields. Instructions come from --instructions or stdin,\n" +
			"one step per line. Fields entered on a failed attempt are kept, so a retry only needs the missing ones.",
		Run: runSave,
	}

	cmd.Flags().StringP("name", "n", "", "Recipe name")
	cmd.Flags().StringP("author", "a", "", "Author (defaults to the last one used)")
	cmd.Flags().IntP("time", "t", 0, "Cooking time in minutes (default 30)")
	cmd.Flags().StringP("difficulty", "d", "", "Difficulty: easy, medium, hard (default easy)")
	cmd.Flags().String("category", "", "Category, e.g. "+strings.Join(model.KnownCategories, ", "))
	cmd.Flags().StringP("instructions", "i", "", "Instructions, one step per line")

	RootCmd.AddCommand(cmd)
}

func runSave(cmd *cobra.Command, args []string) {
	var f recipe.Fields
	f.Name, _ = cmd.Flags().GetString("name")
	f.Author, _ = cmd.Flags().GetString("author")
	f.CookingTime, _ = cmd.Flags().GetInt("time")
	f.Difficulty, _ = cmd.Flags().GetString("difficulty")
	f.Category, _ = cmd.Flags().GetString("category")
	f.Instructions, _ = cmd.Flags().GetString("instructions")

	if f.Instructions == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			f.Instructions = string(b)
		}
	}

	repo, s := openSession(cmd)
	defer repo.Close()
	catalog := openCatalog(cmd)

	rec, err := s.Save(cmd.Context(), newCommitter(), catalog, f)
	if serr := repo.Save(cmd.Context(), s); serr != nil {
		// The record is already in the catalog at this point if err is nil.
		log.Warn("session not persisted", zap.String("session", s.ID), zap.Error(serr))
	}
	if err != nil {
		exitErr("save", err)
	}

	if textOutput() {
		renderRecipe(os.Stdout, rec)
		return
	}
	printJSON(rec)
}
