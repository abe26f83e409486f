// Package recipe validates a draft plus its recipe-level fields and turns
// them into an immutable catalog record.
package recipe

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/recipebook/internal/model"
	"github.com/rcliao/recipebook/internal/steps"
)

// Rules toggles the checks that changed between catalog versions.
type Rules struct {
	RequireAuthor   bool
	RequireCategory bool
}

// DefaultRules requires both author and category.
func DefaultRules() Rules {
	return Rules{RequireAuthor: true, RequireCategory: true}
}

// Fields are the recipe-level values entered alongside the draft.
type Fields struct {
	Name         string
	Author       string
	CookingTime  int
	Difficulty   string // empty means easy
	Category     string
	Instructions string // free text, one step per line
}

// IngredientSource supplies the draft's ingredient list.
type IngredientSource interface {
	Ingredients() []model.Ingredient
}

// IDGenerator produces record identifiers.
type IDGenerator interface {
	NewID() string
}

// Committer checks drafts and produces records. It never clears the draft or
// persists anything; callers do that after a successful commit.
type Committer struct {
	rules Rules
	ids   IDGenerator
	now   func() time.Time
	log   *zap.Logger
}

// Option configures a Committer.
type Option func(*Committer)

// WithClock overrides the time source used for CreatedDate.
func WithClock(now func() time.Time) Option {
	return func(c *Committer) { c.now = now }
}

// NewCommitter returns a committer applying rules.
func NewCommitter(rules Rules, ids IDGenerator, log *zap.Logger, opts ...Option) *Committer {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Committer{rules: rules, ids: ids, now: time.Now, log: log}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Rules returns the active rules.
func (c *Committer) Rules() Rules { return c.rules }

// Validate runs every check and returns all failures, or nil.
func (c *Committer) Validate(src IngredientSource, f Fields) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(f.Name) == "" {
		errs.add(FieldName, ErrRequired)
	}
	if c.rules.RequireAuthor && strings.TrimSpace(f.Author) == "" {
		errs.add(FieldAuthor, ErrRequired)
	}

	ingredients := src.Ingredients()
	if len(ingredients) == 0 {
		errs.add(FieldIngredients, ErrNoIngredients)
	}
	for i, ing := range ingredients {
		if err := ing.Validate(); err != nil {
			errs.add(fmt.Sprintf("%s[%d]", FieldIngredients, i), err)
		}
	}

	if strings.TrimSpace(f.Instructions) == "" {
		errs.add(FieldInstructions, ErrRequired)
	}
	if c.rules.RequireCategory && strings.TrimSpace(f.Category) == "" {
		errs.add(FieldCategory, ErrRequired)
	}
	if f.CookingTime <= 0 {
		errs.add(FieldCookingTime, ErrNonPositiveTime)
	}
	if f.Difficulty != "" {
		if _, err := model.ParseDifficulty(f.Difficulty); err != nil {
			errs.add(FieldDifficulty, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Commit validates and, on success, returns a new record with a fresh id, a
// copy of the draft's ingredients, the split instructions, and the current
// time. On failure the error is ValidationErrors.
func (c *Committer) Commit(src IngredientSource, f Fields) (*model.Recipe, error) {
	if errs := c.Validate(src, f); errs != nil {
		c.log.Debug("commit rejected", zap.Int("failures", len(errs)))
		return nil, errs
	}

	difficulty := model.DifficultyEasy
	if f.Difficulty != "" {
		difficulty, _ = model.ParseDifficulty(f.Difficulty)
	}

	r := &model.Recipe{
		ID:           c.ids.NewID(),
		Name:         strings.TrimSpace(f.Name),
		Author:       strings.TrimSpace(f.Author),
		Difficulty:   difficulty,
		CookingTime:  f.CookingTime,
		Category:     model.CurrentCategory(strings.TrimSpace(f.Category)),
		Ingredients:  append([]model.Ingredient(nil), src.Ingredients()...),
		Instructions: steps.Split(f.Instructions),
		CreatedDate:  c.now().Format(model.CreatedDateLayout),
	}
	c.log.Debug("recipe committed", zap.String("id", r.ID), zap.String("name", r.Name))
	return r, nil
}
