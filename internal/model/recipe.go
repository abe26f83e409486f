// Package model defines the core recipe data types.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnknownAuthor is shown for records written before authors were recorded.
const UnknownAuthor = "unknown"

// CreatedDateLayout is the layout of Recipe.CreatedDate.
const CreatedDateLayout = "2006-01-02 15:04:05"

// Ingredient is one entry of a recipe's ingredient list.
type Ingredient struct {
	Name             string `json:"name"`
	Amount           Amount `json:"amount"`
	Unit             Unit   `json:"unit"`
	NeedsPreparation bool   `json:"needs_preparation"`
}

// NewIngredient builds an entry and applies the amount/unit rule: the
// quantity-free unit always gets the unspecified amount, whatever was passed.
func NewIngredient(name string, amount float64, unit Unit, needsPreparation bool) (Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ingredient{}, ErrEmptyName
	}
	if !ValidUnits[unit] {
		return Ingredient{}, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	ing := Ingredient{Name: name, Unit: unit, NeedsPreparation: needsPreparation}
	if unit.QuantityFree() {
		ing.Amount = Unspecified
		return ing, nil
	}
	if amount < 0 {
		return Ingredient{}, ErrNegativeAmount
	}
	ing.Amount = Quantity(amount)
	return ing, nil
}

// Validate checks the entry's invariants.
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if !ValidUnits[i.Unit] {
		return fmt.Errorf("%w: %q", ErrUnknownUnit, i.Unit)
	}
	if i.Unit.QuantityFree() != i.Amount.IsUnspecified() {
		if i.Unit.QuantityFree() {
			return fmt.Errorf("%s: %w", i.Name, ErrQuantityFree)
		}
		return fmt.Errorf("%s: unit %q needs a numeric amount", i.Name, i.Unit)
	}
	if i.Amount.Value() < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Recipe is a committed catalog entry. Values returned by the store are
// copies; mutating them does not change the catalog.
type Recipe struct {
	ID           string
	Name         string
	Author       string
	Difficulty   Difficulty
	CookingTime  int
	Category     Category
	Ingredients  []Ingredient
	Instructions []string
	CreatedDate  string
}

// AuthorOrUnknown returns the author, or UnknownAuthor when absent.
func (r Recipe) AuthorOrUnknown() string {
	if strings.TrimSpace(r.Author) == "" {
		return UnknownAuthor
	}
	return r.Author
}

// PrepIngredients returns the entries flagged as needing preparation.
func (r Recipe) PrepIngredients() []Ingredient {
	var out []Ingredient
	for _, ing := range r.Ingredients {
		if ing.NeedsPreparation {
			out = append(out, ing)
		}
	}
	return out
}

// Clone returns a deep copy of r.
func (r Recipe) Clone() Recipe {
	cp := r
	cp.Category = r.Category.clone()
	if r.Ingredients != nil {
		cp.Ingredients = make([]Ingredient, len(r.Ingredients))
		copy(cp.Ingredients, r.Ingredients)
	}
	if r.Instructions != nil {
		cp.Instructions = make([]string, len(r.Instructions))
		copy(cp.Instructions, r.Instructions)
	}
	return cp
}

// recipeJSON is the on-disk shape. Exactly one of Category and Categories is
// written, matching the shape the record was read or created with.
type recipeJSON struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name"`
	Author       string       `json:"author,omitempty"`
	Category     *string      `json:"category,omitempty"`
	Categories   *[]string    `json:"categories,omitempty"`
	Difficulty   Difficulty   `json:"difficulty"`
	CookingTime  int          `json:"cooking_time"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	CreatedDate  string       `json:"created_date,omitempty"`
}

func (r Recipe) MarshalJSON() ([]byte, error) {
	out := recipeJSON{
		ID:           r.ID,
		Name:         r.Name,
		Author:       r.Author,
		Difficulty:   r.Difficulty,
		CookingTime:  r.CookingTime,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		CreatedDate:  r.CreatedDate,
	}
	if out.Ingredients == nil {
		out.Ingredients = []Ingredient{}
	}
	if out.Instructions == nil {
		out.Instructions = []string{}
	}
	switch {
	case r.Category.IsLegacy():
		tags := r.Category.Tags()
		out.Categories = &tags
	case r.Category.IsSet():
		v := r.Category.Primary()
		out.Category = &v
	}
	return json.Marshal(out)
}

// recipeIn is the read shape. Category fields are classified by the shape
// of their value, not by key, and cooking_time tolerates quoted numbers.
type recipeIn struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Author       string          `json:"author"`
	Category     json.RawMessage `json:"category"`
	Categories   json.RawMessage `json:"categories"`
	Difficulty   Difficulty      `json:"difficulty"`
	CookingTime  looseInt        `json:"cooking_time"`
	Ingredients  []Ingredient    `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	CreatedDate  string          `json:"created_date"`
}

func (r *Recipe) UnmarshalJSON(b []byte) error {
	var in recipeIn
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*r = Recipe{
		ID:           in.ID,
		Name:         in.Name,
		Author:       in.Author,
		Difficulty:   in.Difficulty,
		CookingTime:  int(in.CookingTime),
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		CreatedDate:  in.CreatedDate,
	}
	for _, f := range []struct {
		key string
		raw json.RawMessage
	}{{"category", in.Category}, {"categories", in.Categories}} {
		c, err := categoryFromJSON(f.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		if c.IsSet() {
			r.Category = c
			break
		}
	}
	return nil
}

// categoryFromJSON reads a category value: a string is the current shape,
// an array of strings the legacy one. Absent and null leave it unset.
func categoryFromJSON(raw json.RawMessage) (Category, error) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return Category{}, nil
	}
	switch t[0] {
	case '"':
		var v string
		if err := json.Unmarshal(t, &v); err != nil {
			return Category{}, err
		}
		return CurrentCategory(v), nil
	case '[':
		var tags []string
		if err := json.Unmarshal(t, &tags); err != nil {
			return Category{}, fmt.Errorf("expected a string or a list of strings: %w", err)
		}
		return LegacyCategory(tags...), nil
	}
	return Category{}, fmt.Errorf("expected a string or a list of strings, got %s", t)
}

// looseInt decodes a whole number written as a JSON number or a numeric
// string. Null and "" decode to 0.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)
	if bytes.Equal(t, []byte("null")) {
		*n = 0
		return nil
	}
	if len(t) > 0 && t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return err
		}
		t = []byte(strings.TrimSpace(s))
		if len(t) == 0 {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(string(t), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("%s is not a whole number", b)
	}
	*n = looseInt(f)
	return nil
}
