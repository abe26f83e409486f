package recipe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rcliao/recipebook/internal/draft"
	"github.com/rcliao/recipebook/internal/ident"
	"github.com/rcliao/recipebook/internal/model"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

func newTestCommitter(rules Rules) *Committer {
	return NewCommitter(rules, ident.New(), zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
}

func validFields() Fields {
	return Fields{
		Name:         " Quinoa Salad ",
		Author:       "Ann",
		CookingTime:  25,
		Difficulty:   "medium",
		Category:     "salad",
		Instructions: "Cook quinoa\n\n  Chop avocado  \nMix",
	}
}

func quinoaDraft(t *testing.T) *draft.Builder {
	t.Helper()
	b := draft.New()
	_, err := b.Add("quinoa", 100, model.UnitGram, false)
	require.NoError(t, err)
	_, err = b.Add("salt", 0, model.UnitToTaste, false)
	require.NoError(t, err)
	return b
}

func TestCommitSuccess(t *testing.T) {
	c := newTestCommitter(DefaultRules())
	b := quinoaDraft(t)

	r, err := c.Commit(b, validFields())
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "Quinoa Salad", r.Name)
	assert.Equal(t, model.DifficultyMedium, r.Difficulty)
	assert.Equal(t, "salad", r.Category.Primary())
	assert.False(t, r.Category.IsLegacy())
	assert.Equal(t, []string{"Cook quinoa", "Chop avocado", "Mix"}, r.Instructions)
	assert.Equal(t, "2025-03-14 09:26:53", r.CreatedDate)
	assert.Len(t, r.Ingredients, 2)

	// Commit leaves the draft alone.
	assert.Equal(t, 2, b.Len())
}

func TestCommitSnapshotIsIndependentOfDraft(t *testing.T) {
	c := newTestCommitter(DefaultRules())
	b := quinoaDraft(t)

	r, err := c.Commit(b, validFields())
	require.NoError(t, err)

	name := "millet"
	_, err = b.Update(0, draft.Patch{Name: &name})
	require.NoError(t, err)
	_, err = b.Remove(1)
	require.NoError(t, err)

	assert.Equal(t, "quinoa", r.Ingredients[0].Name)
	assert.Len(t, r.Ingredients, 2)
}

func TestCommitReportsEveryFailure(t *testing.T) {
	c := newTestCommitter(DefaultRules())
	b := draft.New()

	r, err := c.Commit(b, Fields{Difficulty: "impossible"})
	assert.Nil(t, r)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	for _, field := range []string{FieldName, FieldAuthor, FieldIngredients, FieldInstructions, FieldCategory, FieldCookingTime, FieldDifficulty} {
		assert.True(t, verrs.Has(field), "missing failure for %s", field)
	}
	assert.ErrorIs(t, err, ErrNoIngredients)
	assert.Equal(t, 0, b.Len())
}

func TestCommitFailureKeepsDraftEntries(t *testing.T) {
	c := newTestCommitter(DefaultRules())
	b := quinoaDraft(t)

	f := validFields()
	f.Name = "   "
	_, err := c.Commit(b, f)
	require.Error(t, err)
	assert.Equal(t, 2, b.Len())
}

func TestRulesAreConfigurable(t *testing.T) {
	c := newTestCommitter(Rules{})
	f := validFields()
	f.Author = ""
	f.Category = ""

	r, err := c.Commit(quinoaDraft(t), f)
	require.NoError(t, err)
	assert.Equal(t, model.UnknownAuthor, r.AuthorOrUnknown())
	assert.True(t, r.Category.IsSet())
	assert.Equal(t, "", r.Category.Primary())
}

func TestCommitDefaultsDifficulty(t *testing.T) {
	c := newTestCommitter(DefaultRules())
	f := validFields()
	f.Difficulty = ""

	r, err := c.Commit(quinoaDraft(t), f)
	require.NoError(t, err)
	assert.Equal(t, model.DifficultyEasy, r.Difficulty)
}

func TestWhitespaceOnlyInstructionsRejected(t *testing.T) {
	c := newTestCommitter(DefaultRules())
	f := validFields()
	f.Instructions = " \n\t\n"

	_, err := c.Commit(quinoaDraft(t), f)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has(FieldInstructions))
	assert.Len(t, verrs, 1)
}

type staticSource []model.Ingredient

func (s staticSource) Ingredients() []model.Ingredient { return s }

func TestCommitRejectsBrokenIngredient(t *testing.T) {
	c := newTestCommitter(DefaultRules())
	src := staticSource{{Name: "salt", Amount: model.Quantity(5), Unit: model.UnitToTaste}}

	_, err := c.Commit(src, validFields())
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has(FieldIngredients))
	assert.ErrorIs(t, err, model.ErrQuantityFree)
}

func TestCommitCopiesSourceSlice(t *testing.T) {
	c := newTestCommitter(DefaultRules())
	src := staticSource{{Name: "rice", Amount: model.Quantity(5), Unit: model.UnitGram}}

	r, err := c.Commit(src, validFields())
	require.NoError(t, err)
	src[0].Name = "changed"
	assert.Equal(t, "rice", r.Ingredients[0].Name)
}
