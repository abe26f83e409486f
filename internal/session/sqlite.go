package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/rcliao/recipebook/internal/draft"
	"github.com/rcliao/recipebook/internal/model"
)

const prefAuthor = "author"

// Repo persists the active session in SQLite so a draft survives between
// separate invocations of the CLI.
type Repo struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// OpenRepo opens or creates the session database at dbPath.
func OpenRepo(dbPath string, log *zap.Logger) (*Repo, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	r := &Repo{db: db, log: log, now: time.Now}

	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *Repo) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL DEFAULT '',
		author       TEXT NOT NULL DEFAULT '',
		cooking_time INTEGER NOT NULL DEFAULT 0,
		difficulty   TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL DEFAULT '',
		instructions TEXT NOT NULL DEFAULT '',
		started_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		ended_at     TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_active ON sessions(ended_at, started_at DESC);

	CREATE TABLE IF NOT EXISTS draft_ingredients (
		session_id        TEXT NOT NULL REFERENCES sessions(id),
		seq               INTEGER NOT NULL,
		name              TEXT NOT NULL,
		amount            REAL,
		unit              TEXT NOT NULL,
		needs_preparation INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, seq)
	);

	CREATE TABLE IF NOT EXISTS prefs (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Current returns the active session, starting a new one if none is open.
func (r *Repo) Current(ctx context.Context) (*Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, author, cooking_time, difficulty, category, instructions, started_at, updated_at
		 FROM sessions WHERE ended_at IS NULL
		 ORDER BY started_at DESC LIMIT 1`)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		s = New(uuid.NewString(), r.now().UTC())
		if err := r.Save(ctx, s); err != nil {
			return nil, err
		}
		r.log.Debug("session started", zap.String("session", s.ID))
	} else if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	} else if err := r.loadDraft(ctx, s); err != nil {
		return nil, err
	}

	author, err := r.pref(ctx, prefAuthor)
	if err != nil {
		return nil, err
	}
	s.Author = author
	return s, nil
}

func (r *Repo) loadDraft(ctx context.Context, s *Session) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, amount, unit, needs_preparation FROM draft_ingredients
		 WHERE session_id = ? ORDER BY seq`, s.ID)
	if err != nil {
		return fmt.Errorf("load draft: %w", err)
	}
	defer rows.Close()

	var entries []model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		var amount sql.NullFloat64
		var unit string
		var prep int
		if err := rows.Scan(&ing.Name, &amount, &unit, &prep); err != nil {
			return fmt.Errorf("scan draft: %w", err)
		}
		ing.Unit = model.Unit(unit)
		if amount.Valid {
			ing.Amount = model.Quantity(amount.Float64)
		}
		ing.NeedsPreparation = prep != 0
		entries = append(entries, ing)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load draft: %w", err)
	}
	s.Draft = draft.Restore(entries)
	return nil
}

// Save writes the session, its draft, and the remembered author.
func (r *Repo) Save(ctx context.Context, s *Session) error {
	now := r.now().UTC()
	s.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p := s.Pending
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, name, author, cooking_time, difficulty, category, instructions, started_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, author = excluded.author, cooking_time = excluded.cooking_time,
		   difficulty = excluded.difficulty, category = excluded.category,
		   instructions = excluded.instructions, updated_at = excluded.updated_at`,
		s.ID, p.Name, p.Author, p.CookingTime, p.Difficulty, p.Category, p.Instructions,
		s.StartedAt.UTC().Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM draft_ingredients WHERE session_id = ?`, s.ID); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	for i, ing := range s.Draft.Ingredients() {
		var amount sql.NullFloat64
		if !ing.Amount.IsUnspecified() {
			amount = sql.NullFloat64{Float64: ing.Amount.Value(), Valid: true}
		}
		prep := 0
		if ing.NeedsPreparation {
			prep = 1
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO draft_ingredients (session_id, seq, name, amount, unit, needs_preparation)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, i, ing.Name, amount, string(ing.Unit), prep)
		if err != nil {
			return fmt.Errorf("insert draft ingredient: %w", err)
		}
	}

	if s.Author != "" {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO prefs (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, prefAuthor, s.Author)
		if err != nil {
			return fmt.Errorf("save author: %w", err)
		}
	}

	return tx.Commit()
}

// End closes the session. Its draft is dropped; the remembered author stays.
func (r *Repo) End(ctx context.Context, id string) error {
	now := r.now().UTC().Format(time.RFC3339Nano)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM draft_ingredients WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("drop draft: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`, now, id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session not active: %s", id)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.log.Debug("session ended", zap.String("session", id))
	return nil
}

func (r *Repo) pref(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read pref %s: %w", key, err)
	}
	return v, nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (*Session, error) {
	s := &Session{}
	var startedAt, updatedAt string
	err := row.Scan(
		&s.ID, &s.Pending.Name, &s.Pending.Author, &s.Pending.CookingTime,
		&s.Pending.Difficulty, &s.Pending.Category, &s.Pending.Instructions,
		&startedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	s.Draft = draft.New()
	return s, nil
}
