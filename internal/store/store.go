// Package store provides the recipe catalog interface and its JSON-file implementation.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/recipebook/internal/model"
)

// DuplicatePolicy decides what bulk replacement does with a repeated id.
type DuplicatePolicy string

const (
	// DuplicateReject fails the whole replacement.
	DuplicateReject DuplicatePolicy = "reject"
	// DuplicateRegenerate gives later occurrences a fresh id.
	DuplicateRegenerate DuplicatePolicy = "regenerate"
)

// ParseDuplicatePolicy accepts "reject" or "regenerate".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DuplicateReject, DuplicateRegenerate:
		return p, nil
	case "":
		return DuplicateReject, nil
	}
	return "", fmt.Errorf("unknown duplicate policy %q (use reject or regenerate)", s)
}

// FilterParams holds equality filters for listing recipes.
type FilterParams struct {
	Category   string
	Difficulty string
	Limit      int // 0 means no limit
}

// Artifact is a serialized snapshot of the catalog, ready to hand to the user.
type Artifact struct {
	Name    string         `json:"name"`
	Records []model.Recipe `json:"-"`
	Data    []byte         `json:"-"`
}

// ArtifactName returns the export file name for t.
func ArtifactName(t time.Time) string {
	return "recipes_" + t.Format("20060102_150405") + ".json"
}

// Catalog defines the recipe catalog interface.
type Catalog interface {
	// Load reads the backing file. A missing or blank file is an empty
	// catalog. Unparseable content is reported as *CorruptionError and the
	// file is reset to an empty array.
	Load(ctx context.Context) ([]model.Recipe, error)

	// Records returns a copy of the loaded collection in insertion order.
	Records() []model.Recipe

	// Get returns the record with id.
	Get(id string) (model.Recipe, error)

	// Append adds r at the end and rewrites the file.
	Append(ctx context.Context, r model.Recipe) (model.Recipe, error)

	// DeleteByID removes the record with id and returns it.
	DeleteByID(ctx context.Context, id string) (model.Recipe, error)

	// ReplaceAll swaps the whole collection for the records in raw, a JSON
	// array in the on-disk format. Nothing changes unless every element is
	// well formed.
	ReplaceAll(ctx context.Context, raw []byte) (int, error)

	// Export serializes the current collection without changing it.
	Export() (*Artifact, error)

	// Clear empties the collection and the file. Call it only after the
	// export has been delivered.
	Clear(ctx context.Context) error

	// ExportAndClear exports then clears in one destructive read.
	ExportAndClear(ctx context.Context) (*Artifact, error)
}
