package store

import (
	"sort"
	"strings"

	"github.com/rcliao/recipebook/internal/model"
)

// CategoryCount is the number of recipes carrying a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Filter returns the records matching every non-empty field of p, in
// catalog order. Category matches any legacy tag as well as the current value.
func Filter(records []model.Recipe, p FilterParams) []model.Recipe {
	category := strings.TrimSpace(p.Category)
	difficulty := model.Difficulty(strings.TrimSpace(p.Difficulty))
	if d, err := model.ParseDifficulty(p.Difficulty); err == nil {
		difficulty = d
	}

	var out []model.Recipe
	for _, r := range records {
		if category != "" && !r.Category.Matches(category) {
			continue
		}
		if difficulty != "" && r.Difficulty != difficulty {
			continue
		}
		out = append(out, r)
		if p.Limit > 0 && len(out) == p.Limit {
			break
		}
	}
	return out
}

// Categories counts every category used in records, most used first.
func Categories(records []model.Recipe) []CategoryCount {
	counts := make(map[string]int)
	for _, r := range records {
		for _, t := range r.Category.Tags() {
			if t = strings.TrimSpace(t); t != "" {
				counts[t]++
			}
		}
	}

	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}
