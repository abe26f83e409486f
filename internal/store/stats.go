package store

import (
	"os"

	"github.com/dustin/go-humanize"

	"github.com/rcliao/recipebook/internal/model"
)

// Stats holds catalog statistics.
type Stats struct {
	CatalogPath     string          `json:"catalog_path"`
	SizeBytes       int64           `json:"size_bytes"`
	Size            string          `json:"size"`
	TotalRecipes    int             `json:"total_recipes"`
	Unreadable      int             `json:"unreadable_records"`
	LegacyCategory  int             `json:"legacy_category_records"`
	WithoutAuthor   int             `json:"without_author"`
	PrepIngredients int             `json:"prep_ingredients"`
	ByDifficulty    map[string]int  `json:"by_difficulty"`
	Categories      []CategoryCount `json:"categories"`
}

// Stats returns catalog statistics.
func (s *JSONStore) Stats() (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}

	st := &Stats{CatalogPath: s.path, ByDifficulty: make(map[string]int)}
	if info, err := os.Stat(s.path); err == nil {
		st.SizeBytes = info.Size()
	}
	st.Size = humanize.Bytes(uint64(st.SizeBytes))

	st.TotalRecipes = len(s.records)
	st.Unreadable = len(s.unreadable)
	for _, r := range s.records {
		if r.Category.IsLegacy() {
			st.LegacyCategory++
		}
		if r.AuthorOrUnknown() == model.UnknownAuthor {
			st.WithoutAuthor++
		}
		st.PrepIngredients += len(r.PrepIngredients())
		st.ByDifficulty[string(r.Difficulty)]++
	}
	st.Categories = Categories(s.records)
	return st, nil
}
