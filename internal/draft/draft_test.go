package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/recipebook/internal/model"
)

func ptr[T any](v T) *T { return &v }

func newFilled(t *testing.T, names ...string) *Builder {
	t.Helper()
	b := New()
	for _, n := range names {
		_, err := b.Add(n, 10, model.UnitGram, false)
		require.NoError(t, err)
	}
	return b
}

func names(b *Builder) []string {
	var out []string
	for _, ing := range b.Ingredients() {
		out = append(out, ing.Name)
	}
	return out
}

func TestAddTrimsAndAppends(t *testing.T) {
	b := New()
	ing, err := b.Add("  chicken breast ", 200, model.UnitGram, true)
	require.NoError(t, err)
	assert.Equal(t, "chicken breast", ing.Name)
	assert.True(t, ing.NeedsPreparation)
	assert.Equal(t, 1, b.Len())
}

func TestAddEmptyName(t *testing.T) {
	b := New()
	_, err := b.Add(" \t", 1, model.UnitGram, false)
	assert.ErrorIs(t, err, model.ErrEmptyName)
	assert.Equal(t, 0, b.Len())
}

func TestAddToTasteForcesSentinel(t *testing.T) {
	b := New()
	ing, err := b.Add("salt", 100, model.UnitToTaste, false)
	require.NoError(t, err)
	assert.True(t, ing.Amount.IsUnspecified())
}

func TestUpdateToQuantityFreeAndBack(t *testing.T) {
	b := newFilled(t, "pepper")

	ing, err := b.Update(0, Patch{Unit: ptr(model.UnitToTaste)})
	require.NoError(t, err)
	assert.True(t, ing.Amount.IsUnspecified())

	ing, err = b.Update(0, Patch{Unit: ptr(model.UnitPiece)})
	require.NoError(t, err)
	assert.False(t, ing.Amount.IsUnspecified())
	assert.Equal(t, float64(DefaultAmount), ing.Amount.Value())

	_, err = b.Update(0, Patch{Unit: ptr(model.UnitToTaste)})
	require.NoError(t, err)
	ing, err = b.Update(0, Patch{Unit: ptr(model.UnitMilliliter), Amount: ptr(30.0)})
	require.NoError(t, err)
	assert.Equal(t, 30.0, ing.Amount.Value())
}

func TestUpdateCustomDefaultAmount(t *testing.T) {
	b := New()
	b.SetDefaultAmount(1)
	_, err := b.Add("egg", 0, model.UnitToTaste, false)
	require.NoError(t, err)

	ing, err := b.Update(0, Patch{Unit: ptr(model.UnitPiece)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, ing.Amount.Value())
}

func TestUpdateRejectsAmountOnQuantityFree(t *testing.T) {
	b := New()
	_, err := b.Add("salt", 0, model.UnitToTaste, false)
	require.NoError(t, err)

	_, err = b.Update(0, Patch{Amount: ptr(5.0), Name: ptr("sea salt")})
	assert.ErrorIs(t, err, model.ErrQuantityFree)

	got := b.Ingredients()[0]
	assert.Equal(t, "salt", got.Name, "failed update must not mutate")
	assert.True(t, got.Amount.IsUnspecified())
}

func TestUpdateErrors(t *testing.T) {
	b := newFilled(t, "rice")

	_, err := b.Update(3, Patch{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = b.Update(-1, Patch{})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = b.Update(0, Patch{Name: ptr("  ")})
	assert.ErrorIs(t, err, model.ErrEmptyName)

	_, err = b.Update(0, Patch{Unit: ptr(model.Unit("cup"))})
	assert.ErrorIs(t, err, model.ErrUnknownUnit)

	_, err = b.Update(0, Patch{Amount: ptr(-1.0)})
	assert.ErrorIs(t, err, model.ErrNegativeAmount)

	assert.Equal(t, []string{"rice"}, names(b))
}

func TestUpdateFieldsInPlace(t *testing.T) {
	b := newFilled(t, "a", "b")
	_, err := b.Update(1, Patch{Name: ptr("beans"), Amount: ptr(250.0), NeedsPreparation: ptr(true)})
	require.NoError(t, err)

	got := b.Ingredients()[1]
	assert.Equal(t, "beans", got.Name)
	assert.Equal(t, 250.0, got.Amount.Value())
	assert.True(t, got.NeedsPreparation)
	assert.Equal(t, []string{"a", "beans"}, names(b))
}

func TestRemoveShiftsDown(t *testing.T) {
	b := newFilled(t, "a", "b", "c")
	removed, err := b.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "b", removed.Name)
	assert.Equal(t, []string{"a", "c"}, names(b))

	_, err = b.Remove(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRemoveBatchOrderIndependent(t *testing.T) {
	for _, order := range [][]int{{2, 0}, {0, 2}} {
		b := newFilled(t, "a", "b", "c", "d")
		removed, err := b.RemoveBatch(order...)
		require.NoError(t, err)
		assert.Len(t, removed, 2)
		assert.Equal(t, []string{"b", "d"}, names(b), "order %v", order)
	}
}

func TestRemoveBatchDuplicatesAndInvalid(t *testing.T) {
	b := newFilled(t, "a", "b", "c")
	_, err := b.RemoveBatch(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, names(b))

	_, err = b.RemoveBatch(0, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, []string{"a", "c"}, names(b), "invalid batch must remove nothing")
}

func TestIngredientsIsCopy(t *testing.T) {
	b := newFilled(t, "a")
	snap := b.Ingredients()
	snap[0].Name = "changed"
	assert.Equal(t, []string{"a"}, names(b))
}

func TestRestoreAndClear(t *testing.T) {
	entries := []model.Ingredient{{Name: "x", Amount: model.Quantity(1), Unit: model.UnitPiece}}
	b := Restore(entries)
	entries[0].Name = "y"
	assert.Equal(t, []string{"x"}, names(b))

	b.Clear()
	assert.Equal(t, 0, b.Len())
}
