// Package draft holds the ingredient list of a recipe that has not been saved yet.
package draft

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/recipebook/internal/model"
)

// DefaultAmount is used when an entry leaves the quantity-free unit and the
// caller supplies no amount.
const DefaultAmount = 100

// ErrIndexOutOfRange is returned for an index that does not name an entry.
var ErrIndexOutOfRange = errors.New("ingredient index out of range")

// Patch describes an in-place edit. Nil fields are left unchanged.
type Patch struct {
	Name             *string
	Amount           *float64
	Unit             *model.Unit
	NeedsPreparation *bool
}

// Builder is the mutable ingredient list of one draft. Not safe for
// concurrent use.
type Builder struct {
	entries       []model.Ingredient
	defaultAmount float64
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{defaultAmount: DefaultAmount}
}

// Restore returns a builder holding a copy of entries.
func Restore(entries []model.Ingredient) *Builder {
	b := New()
	b.entries = append([]model.Ingredient(nil), entries...)
	return b
}

// SetDefaultAmount changes the amount used when leaving the quantity-free unit.
func (b *Builder) SetDefaultAmount(v float64) {
	if v >= 0 {
		b.defaultAmount = v
	}
}

// Len returns the number of entries.
func (b *Builder) Len() int { return len(b.entries) }

// Ingredients returns a copy of the entries in insertion order.
func (b *Builder) Ingredients() []model.Ingredient {
	out := make([]model.Ingredient, len(b.entries))
	copy(out, b.entries)
	return out
}

// Add appends a new entry.
func (b *Builder) Add(name string, amount float64, unit model.Unit, needsPreparation bool) (model.Ingredient, error) {
	ing, err := model.NewIngredient(name, amount, unit, needsPreparation)
	if err != nil {
		return model.Ingredient{}, err
	}
	b.entries = append(b.entries, ing)
	return ing, nil
}

// Update edits the entry at index in place. Moving to the quantity-free unit
// forces the unspecified amount; moving away from it takes p.Amount or the
// default amount. A failed update leaves the entry untouched.
func (b *Builder) Update(index int, p Patch) (model.Ingredient, error) {
	if err := b.check(index); err != nil {
		return model.Ingredient{}, err
	}
	ing := b.entries[index]

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return model.Ingredient{}, model.ErrEmptyName
		}
		ing.Name = name
	}
	if p.NeedsPreparation != nil {
		ing.NeedsPreparation = *p.NeedsPreparation
	}
	if p.Amount != nil && *p.Amount < 0 {
		return model.Ingredient{}, model.ErrNegativeAmount
	}

	unit := ing.Unit
	if p.Unit != nil {
		if !model.ValidUnits[*p.Unit] {
			return model.Ingredient{}, fmt.Errorf("%w: %q", model.ErrUnknownUnit, *p.Unit)
		}
		unit = *p.Unit
	}

	switch {
	case unit.QuantityFree():
		if p.Amount != nil && p.Unit == nil {
			return model.Ingredient{}, model.ErrQuantityFree
		}
		ing.Amount = model.Unspecified
	case p.Amount != nil:
		ing.Amount = model.Quantity(*p.Amount)
	case ing.Amount.IsUnspecified():
		ing.Amount = model.Quantity(b.defaultAmount)
	}
	ing.Unit = unit

	b.entries[index] = ing
	return ing, nil
}

// Remove deletes the entry at index; later entries shift down by one.
func (b *Builder) Remove(index int) (model.Ingredient, error) {
	if err := b.check(index); err != nil {
		return model.Ingredient{}, err
	}
	removed := b.entries[index]
	b.entries = append(b.entries[:index], b.entries[index+1:]...)
	return removed, nil
}

// RemoveBatch deletes every listed index, all referring to positions before
// the call. Indices are applied highest first so earlier removals do not
// shift later ones. Nothing is removed if any index is invalid.
func (b *Builder) RemoveBatch(indices ...int) ([]model.Ingredient, error) {
	for _, i := range indices {
		if err := b.check(i); err != nil {
			return nil, err
		}
	}

	uniq := make([]int, 0, len(indices))
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if !seen[i] {
			seen[i] = true
			uniq = append(uniq, i)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(uniq)))

	removed := make([]model.Ingredient, 0, len(uniq))
	for _, i := range uniq {
		ing, _ := b.Remove(i)
		removed = append(removed, ing)
	}
	return removed, nil
}

// Clear empties the list.
func (b *Builder) Clear() {
	b.entries = nil
}

func (b *Builder) check(index int) error {
	if index < 0 || index >= len(b.entries) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(b.entries))
	}
	return nil
}
