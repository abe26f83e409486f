package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/recipebook/internal/draft"
	"github.com/rcliao/recipebook/internal/model"
	"github.com/rcliao/recipebook/internal/session"
)

func init() {
	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "Build the ingredient list of the next recipe",
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add an ingredient to the draft",
		Args:  cobra.MinimumNArgs(1),
		Run:   runDraftAdd,
	}
	addCmd.Flags().Float64P("amount", "a", draft.DefaultAmount, "Amount (ignored for \"to taste\")")
	addCmd.Flags().StringP("unit", "u", string(model.UnitGram), "Unit: "+unitList())
	addCmd.Flags().BoolP("prep", "p", false, "Needs preparation")

	editCmd := &cobra.Command{
		Use:   "edit [n]",
		Short: "Change one field of the nth ingredient",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftEdit,
	}
	editCmd.Flags().String("name", "", "New name")
	editCmd.Flags().Float64P("amount", "a", 0, "New amount")
	editCmd.Flags().StringP("unit", "u", "", "New unit: "+unitList())
	editCmd.Flags().BoolP("prep", "p", false, "Needs preparation")

	rmCmd := &cobra.Command{
		Use:   "rm [n...]",
		Short: "Remove ingredients by position",
		Args:  cobra.MinimumNArgs(1),
		Run:   runDraftRm,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the draft and the recipe fields entered so far",
		Run:   runDraftShow,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every ingredient from the draft",
		Run:   runDraftClear,
	}

	discardCmd := &cobra.Command{
		Use:   "discard",
		Short: "End the session, dropping the draft and any entered fields",
		Run:   runDraftDiscard,
	}

	draftCmd.AddCommand(addCmd, editCmd, rmCmd, showCmd, clearCmd, discardCmd)
	RootCmd.AddCommand(draftCmd)
}

func unitList() string {
	names := make([]string, len(model.Units))
	for i, u := range model.Units {
		names[i] = string(u)
	}
	return strings.Join(names, ", ")
}

// position converts a 1-based argument to a draft index.
func position(arg string) int {
	n, err := strconv.Atoi(arg)
	if err != nil {
		exitErr("position", fmt.Errorf("%q is not a number", arg))
	}
	return n - 1
}

type draftView struct {
	Session     string             `json:"session"`
	Ingredients []model.Ingredient `json:"ingredients"`
	Pending     pendingView        `json:"pending"`
	Author      string             `json:"remembered_author,omitempty"`
}

// pendingView mirrors recipe.Fields for output.
type pendingView struct {
	Name         string `json:"name,omitempty"`
	Author       string `json:"author,omitempty"`
	CookingTime  int    `json:"cooking_time,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	Category     string `json:"category,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

func printDraft(s *session.Session) {
	if textOutput() {
		renderDraft(os.Stdout, s.Draft.Ingredients(), s.Pending)
		return
	}
	entries := s.Draft.Ingredients()
	if entries == nil {
		entries = []model.Ingredient{}
	}
	printJSON(draftView{
		Session:     s.ID,
		Ingredients: entries,
		Pending:     pendingView(s.Pending),
		Author:      s.Author,
	})
}

func saveSession(cmd *cobra.Command, repo *session.Repo, s *session.Session) {
	if err := repo.Save(cmd.Context(), s); err != nil {
		exitErr("save session", err)
	}
}

func runDraftAdd(cmd *cobra.Command, args []string) {
	name := strings.Join(args, " ")
	amount, _ := cmd.Flags().GetFloat64("amount")
	unitStr, _ := cmd.Flags().GetString("unit")
	prep, _ := cmd.Flags().GetBool("prep")

	unit, err := model.ParseUnit(unitStr)
	if err != nil {
		exitErr("draft add", err)
	}

	repo, s := openSession(cmd)
	defer repo.Close()

	if !cmd.Flags().Changed("amount") {
		amount = cfg.DefaultAmount
	}
	if _, err := s.Draft.Add(name, amount, unit, prep); err != nil {
		exitErr("draft add", err)
	}
	saveSession(cmd, repo, s)
	printDraft(s)
}

func runDraftEdit(cmd *cobra.Command, args []string) {
	index := position(args[0])

	var p draft.Patch
	if cmd.Flags().Changed("name") {
		v, _ := cmd.Flags().GetString("name")
		p.Name = &v
	}
	if cmd.Flags().Changed("amount") {
		v, _ := cmd.Flags().GetFloat64("amount")
		p.Amount = &v
	}
	if cmd.Flags().Changed("unit") {
		v, _ := cmd.Flags().GetString("unit")
		u, err := model.ParseUnit(v)
		if err != nil {
			exitErr("draft edit", err)
		}
		p.Unit = &u
	}
	if cmd.Flags().Changed("prep") {
		v, _ := cmd.Flags().GetBool("prep")
		p.NeedsPreparation = &v
	}

	repo, s := openSession(cmd)
	defer repo.Close()

	if _, err := s.Draft.Update(index, p); err != nil {
		exitErr("draft edit", err)
	}
	saveSession(cmd, repo, s)
	printDraft(s)
}

func runDraftRm(cmd *cobra.Command, args []string) {
	indices := make([]int, len(args))
	for i, a := range args {
		indices[i] = position(a)
	}

	repo, s := openSession(cmd)
	defer repo.Close()

	if _, err := s.Draft.RemoveBatch(indices...); err != nil {
		exitErr("draft rm", err)
	}
	saveSession(cmd, repo, s)
	printDraft(s)
}

func runDraftShow(cmd *cobra.Command, args []string) {
	repo, s := openSession(cmd)
	defer repo.Close()
	printDraft(s)
}

func runDraftClear(cmd *cobra.Command, args []string) {
	repo, s := openSession(cmd)
	defer repo.Close()

	s.Draft.Clear()
	saveSession(cmd, repo, s)
	printDraft(s)
}

func runDraftDiscard(cmd *cobra.Command, args []string) {
	repo, s := openSession(cmd)
	defer repo.Close()

	if err := repo.End(cmd.Context(), s.ID); err != nil {
		exitErr("draft discard", err)
	}
	fmt.Printf(`{"ok":true,"session":%q}`+"\n", s.ID)
}
