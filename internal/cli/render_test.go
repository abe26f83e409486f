package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/recipebook/internal/model"
	"github.com/rcliao/recipebook/internal/recipe"
	"github.com/rcliao/recipebook/internal/store"
)

func sampleRecipe() model.Recipe {
	return model.Recipe{
		ID:          "01HZX",
		Name:        "Quinoa Salad",
		Difficulty:  model.DifficultyEasy,
		CookingTime: 20,
		Category:    model.CurrentCategory("salad"),
		Ingredients: []model.Ingredient{
			{Name: "quinoa", Amount: model.Quantity(100), Unit: model.UnitGram},
			{Name: "salt", Amount: model.Unspecified, Unit: model.UnitToTaste},
			{Name: "avocado", Amount: model.Quantity(1), Unit: model.UnitPiece, NeedsPreparation: true},
		},
		Instructions: []string{"Cook quinoa", "Mix"},
		CreatedDate:  time.Now().Add(-2 * time.Hour).Format(model.CreatedDateLayout),
	}
}

func TestRenderRecipe(t *testing.T) {
	var buf bytes.Buffer
	renderRecipe(&buf, sampleRecipe())
	out := buf.String()

	assert.Contains(t, out, "Quinoa Salad")
	assert.Contains(t, out, "salad, easy, 20 min")
	assert.Contains(t, out, "by unknown")
	assert.Contains(t, out, "hours ago")
	assert.Contains(t, out, "quinoa: 100 g")
	assert.Contains(t, out, "salt: to taste")
	assert.NotContains(t, out, "unspecified")
	assert.Contains(t, out, "(prep)")
	assert.Contains(t, out, "1. Cook quinoa")
	assert.Contains(t, out, "2. Mix")
}

func TestRenderRecipeLegacyCategoryAndBadDate(t *testing.T) {
	r := sampleRecipe()
	r.Author = "Ann"
	r.Category = model.LegacyCategory("breakfast", "snack")
	r.CreatedDate = "yesterday-ish"

	var buf bytes.Buffer
	renderRecipe(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "breakfast, easy")
	assert.Contains(t, out, "by Ann")
	assert.Contains(t, out, "yesterday-ish")
}

func TestRenderListAndDraft(t *testing.T) {
	var buf bytes.Buffer
	renderList(&buf, nil)
	assert.Contains(t, buf.String(), "no recipes")

	buf.Reset()
	renderList(&buf, []model.Recipe{sampleRecipe()})
	assert.Contains(t, buf.String(), "01HZX")
	assert.Contains(t, buf.String(), "salad, easy, 20 min, by unknown")

	buf.Reset()
	renderDraft(&buf, nil, recipe.Fields{Name: "Soup"})
	assert.Contains(t, buf.String(), "Soup")
	assert.Contains(t, buf.String(), "draft is empty")

	buf.Reset()
	renderDraft(&buf, sampleRecipe().Ingredients, recipe.Fields{})
	assert.Contains(t, buf.String(), " 1.")
	assert.Contains(t, buf.String(), " 3.")
	assert.Contains(t, buf.String(), "avocado: 1 pcs")
}

func TestRenderCategories(t *testing.T) {
	var buf bytes.Buffer
	renderCategories(&buf, []store.CategoryCount{{Category: "soup", Count: 3}})
	assert.Contains(t, buf.String(), "soup")
	assert.Contains(t, buf.String(), "3")
}
