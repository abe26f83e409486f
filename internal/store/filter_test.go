package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/recipebook/internal/model"
)

func sampleRecords() []model.Recipe {
	return []model.Recipe{
		{ID: "1", Name: "Porridge", Difficulty: model.DifficultyEasy, Category: model.LegacyCategory("breakfast", "snack")},
		{ID: "2", Name: "Borscht", Difficulty: model.DifficultyHard, Category: model.CurrentCategory("soup")},
		{ID: "3", Name: "Granola", Difficulty: model.DifficultyEasy, Category: model.CurrentCategory("snack")},
		{ID: "4", Name: "Mystery", Difficulty: model.DifficultyMedium},
	}
}

func ids(records []model.Recipe) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	recs := sampleRecords()

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(Filter(recs, FilterParams{})))
	assert.Equal(t, []string{"1", "3"}, ids(Filter(recs, FilterParams{Category: "snack"})))
	assert.Equal(t, []string{"1", "3"}, ids(Filter(recs, FilterParams{Difficulty: "легко"})))
	assert.Equal(t, []string{"2"}, ids(Filter(recs, FilterParams{Category: "soup", Difficulty: "hard"})))
	assert.Empty(t, Filter(recs, FilterParams{Category: "soup", Difficulty: "easy"}))
	assert.Equal(t, []string{"1"}, ids(Filter(recs, FilterParams{Category: "snack", Limit: 1})))
	assert.Empty(t, Filter(recs, FilterParams{Category: "dessert"}))
}

func TestCategories(t *testing.T) {
	got := Categories(sampleRecords())
	assert.Equal(t, []CategoryCount{
		{Category: "snack", Count: 2},
		{Category: "breakfast", Count: 1},
		{Category: "soup", Count: 1},
	}, got)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, r := range sampleRecords() {
		r.Ingredients = []model.Ingredient{{Name: "x", Amount: model.Quantity(1), Unit: model.UnitGram, NeedsPreparation: r.ID == "2"}}
		_, err := s.Append(ctx, r)
		require.NoError(t, err)
	}

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, st.TotalRecipes)
	assert.Equal(t, 1, st.LegacyCategory)
	assert.Equal(t, 4, st.WithoutAuthor)
	assert.Equal(t, 1, st.PrepIngredients)
	assert.Equal(t, 2, st.ByDifficulty["easy"])
	assert.Greater(t, st.SizeBytes, int64(0))
	assert.NotEmpty(t, st.Size)
	assert.Len(t, st.Categories, 3)
}
