package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Unit is a measurement unit for an ingredient amount.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
	UnitPiece      Unit = "pcs"
	// UnitToTaste is the quantity-free unit: no numeric amount applies.
	UnitToTaste Unit = "to taste"
)

// Units lists the valid units in display order.
var Units = []Unit{UnitGram, UnitMilliliter, UnitTablespoon, UnitTeaspoon, UnitPiece, UnitToTaste}

// ValidUnits are the allowed units.
var ValidUnits = map[Unit]bool{
	UnitGram:       true,
	UnitMilliliter: true,
	UnitTablespoon: true,
	UnitTeaspoon:   true,
	UnitPiece:      true,
	UnitToTaste:    true,
}

// unitAliases maps spellings found in older catalogs to the canonical unit.
var unitAliases = map[string]Unit{
	"г":        UnitGram,
	"мл":       UnitMilliliter,
	"ст.л.":    UnitTablespoon,
	"ч.л.":     UnitTeaspoon,
	"шт":       UnitPiece,
	"по вкусу": UnitToTaste,
	"gram":     UnitGram,
	"grams":    UnitGram,
	"piece":    UnitPiece,
	"pieces":   UnitPiece,
}

// QuantityFree reports whether u is the placeholder unit that carries no amount.
func (u Unit) QuantityFree() bool { return u == UnitToTaste }

// ParseUnit normalizes s to a known unit.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if ValidUnits[Unit(s)] {
		return Unit(s), nil
	}
	if u, ok := unitAliases[strings.ToLower(s)]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// UnmarshalJSON accepts canonical units and legacy aliases. Unknown units are
// kept verbatim so old records still load.
func (u *Unit) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if parsed, err := ParseUnit(s); err == nil {
		*u = parsed
		return nil
	}
	*u = Unit(s)
	return nil
}

// Difficulty is the effort level of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ValidDifficulties are the allowed difficulty levels.
var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

var difficultyAliases = map[string]Difficulty{
	"легко":  DifficultyEasy,
	"средне": DifficultyMedium,
	"сложно": DifficultyHard,
}

// ParseDifficulty normalizes s to a known difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if ValidDifficulties[Difficulty(s)] {
		return Difficulty(s), nil
	}
	if d, ok := difficultyAliases[s]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

func (d *Difficulty) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if parsed, err := ParseDifficulty(s); err == nil {
		*d = parsed
		return nil
	}
	*d = Difficulty(s)
	return nil
}

// KnownCategories are the categories offered when composing a recipe.
var KnownCategories = []string{"breakfast", "lunch", "dinner", "salad", "soup", "dessert", "snack"}
