// Package session owns the state of one editing session: the draft being
// built, the form values typed so far, and the remembered author.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/recipebook/internal/draft"
	"github.com/rcliao/recipebook/internal/model"
	"github.com/rcliao/recipebook/internal/recipe"
)

// DefaultCookingTime is offered when no cooking time has been entered.
const DefaultCookingTime = 30

// Session is created at session start and discarded at session end.
type Session struct {
	ID        string
	Draft     *draft.Builder
	Author    string        // remembered from the last successful save
	Pending   recipe.Fields // form values kept across failed saves
	StartedAt time.Time
	UpdatedAt time.Time
}

// New returns an empty session.
func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Draft:     draft.New(),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Appender is the part of the catalog a save needs.
type Appender interface {
	Append(ctx context.Context, r model.Recipe) (model.Recipe, error)
}

// Fill merges f over the pending form values: non-empty fields in f win.
// The remembered author and the default cooking time fill remaining gaps.
func (s *Session) Fill(f recipe.Fields) recipe.Fields {
	out := s.Pending
	if f.Name != "" {
		out.Name = f.Name
	}
	if f.Author != "" {
		out.Author = f.Author
	}
	if f.CookingTime != 0 {
		out.CookingTime = f.CookingTime
	}
	if f.Difficulty != "" {
		out.Difficulty = f.Difficulty
	}
	if f.Category != "" {
		out.Category = f.Category
	}
	if f.Instructions != "" {
		out.Instructions = f.Instructions
	}
	if out.Author == "" {
		out.Author = s.Author
	}
	if out.CookingTime == 0 {
		out.CookingTime = DefaultCookingTime
	}
	return out
}

// Save commits the draft with f and appends the record to the catalog.
// Only when both succeed are the draft and pending values cleared and the
// author remembered. On any failure the draft and the values entered so far
// are kept.
func (s *Session) Save(ctx context.Context, c *recipe.Committer, catalog Appender, f recipe.Fields) (model.Recipe, error) {
	fields := s.Fill(f)
	s.Pending = fields
	s.UpdatedAt = time.Now()

	rec, err := c.Commit(s.Draft, fields)
	if err != nil {
		return model.Recipe{}, err
	}
	stored, err := catalog.Append(ctx, *rec)
	if err != nil {
		return model.Recipe{}, fmt.Errorf("save recipe: %w", err)
	}

	s.Draft.Clear()
	s.Pending = recipe.Fields{}
	if stored.Author != "" {
		s.Author = stored.Author
	}
	return stored, nil
}
