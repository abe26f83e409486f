package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rcliao/recipebook/internal/model"
	"github.com/rcliao/recipebook/internal/recipe"
	"github.com/rcliao/recipebook/internal/steps"
	"github.com/rcliao/recipebook/internal/store"
)

// Styles for --format text
var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	})
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	})
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	})
)

func formatIngredient(ing model.Ingredient) string {
	var qty string
	if ing.Unit.QuantityFree() {
		qty = string(ing.Unit)
	} else {
		qty = ing.Amount.String() + " " + string(ing.Unit)
	}
	line := fmt.Sprintf("%s: %s", ing.Name, qty)
	if ing.NeedsPreparation {
		line += " " + warnStyle.Render("(prep)")
	}
	return line
}

func createdAgo(created string) string {
	t, err := time.ParseInLocation(model.CreatedDateLayout, created, time.Local)
	if err != nil {
		return created
	}
	return humanize.Time(t)
}

func renderRecipe(w io.Writer, r model.Recipe) {
	meta := []string{string(r.Difficulty), fmt.Sprintf("%d min", r.CookingTime)}
	if c := r.Category.Primary(); c != "" {
		meta = append([]string{c}, meta...)
	}
	fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(r.Name), mutedStyle.Render("("+strings.Join(meta, ", ")+")"))

	byline := "by " + r.AuthorOrUnknown()
	if r.CreatedDate != "" {
		byline += ", added " + createdAgo(r.CreatedDate)
	}
	fmt.Fprintf(w, "%s\n", mutedStyle.Render(byline))
	fmt.Fprintf(w, "%s\n", mutedStyle.Render("id "+r.ID))

	fmt.Fprintln(w, accentStyle.Render("Ingredients"))
	for _, ing := range r.Ingredients {
		fmt.Fprintf(w, "  - %s\n", formatIngredient(ing))
	}
	fmt.Fprintln(w, accentStyle.Render("Steps"))
	for _, s := range steps.Numbered(r.Instructions) {
		fmt.Fprintf(w, "  %s\n", s)
	}
}

func renderList(w io.Writer, records []model.Recipe) {
	if len(records) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no recipes"))
		return
	}
	for _, r := range records {
		cat := r.Category.Primary()
		if cat == "" {
			cat = "-"
		}
		fmt.Fprintf(w, "%s  %s  %s\n",
			mutedStyle.Render(r.ID),
			titleStyle.Render(r.Name),
			mutedStyle.Render(fmt.Sprintf("%s, %s, %d min, by %s", cat, r.Difficulty, r.CookingTime, r.AuthorOrUnknown())))
	}
}

func renderDraft(w io.Writer, entries []model.Ingredient, pending recipe.Fields) {
	if pending.Name != "" {
		fmt.Fprintln(w, titleStyle.Render(pending.Name))
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("draft is empty"))
		return
	}
	for i, ing := range entries {
		fmt.Fprintf(w, "%s %s\n", mutedStyle.Render(fmt.Sprintf("%2d.", i+1)), formatIngredient(ing))
	}
}

func renderStats(w io.Writer, st *store.Stats) {
	fmt.Fprintf(w, "%s %s (%s)\n", titleStyle.Render("Catalog"), st.CatalogPath, st.Size)
	fmt.Fprintf(w, "  recipes:           %s\n", humanize.Comma(int64(st.TotalRecipes)))
	if st.Unreadable > 0 {
		fmt.Fprintf(w, "  %s\n", warnStyle.Render(fmt.Sprintf("unreadable:        %d", st.Unreadable)))
	}
	fmt.Fprintf(w, "  without author:    %d\n", st.WithoutAuthor)
	fmt.Fprintf(w, "  legacy categories: %d\n", st.LegacyCategory)
	fmt.Fprintf(w, "  prep ingredients:  %d\n", st.PrepIngredients)
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
		fmt.Fprintf(w, "  %-18s %d\n", string(d)+":", st.ByDifficulty[string(d)])
	}
}

func renderCategories(w io.Writer, counts []store.CategoryCount) {
	if len(counts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no categories"))
		return
	}
	for _, c := range counts {
		fmt.Fprintf(w, "%-16s %d\n", c.Category, c.Count)
	}
}
