package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/recipebook/internal/ident"
	"github.com/rcliao/recipebook/internal/model"
)

// Compile-time interface check.
var _ Catalog = (*JSONStore)(nil)

// IDGenerator produces record identifiers.
type IDGenerator interface {
	NewID() string
}

// Options configures a JSONStore.
type Options struct {
	DuplicatePolicy DuplicatePolicy
	LockTimeout     time.Duration // 0 disables the lock file
	IDs             IDGenerator
	Logger          *zap.Logger
	Now             func() time.Time
}

// JSONStore implements Catalog on top of a single JSON file holding the
// whole collection. Every mutation rewrites the file through a temp file and
// a rename, and the in-memory collection changes only after the rename.
type JSONStore struct {
	mu      sync.Mutex
	path    string
	policy  DuplicatePolicy
	ids     IDGenerator
	log     *zap.Logger
	now     func() time.Time
	lock    *fileLock
	loaded  bool
	records []model.Recipe
	// unreadable holds catalog elements that did not decode. They are
	// written back unchanged until the catalog is cleared or replaced.
	unreadable []json.RawMessage
}

// NewJSONStore returns an unloaded store for path. Call Load before anything else.
func NewJSONStore(path string, opts Options) *JSONStore {
	s := &JSONStore{
		path:   path,
		policy: opts.DuplicatePolicy,
		ids:    opts.IDs,
		log:    opts.Logger,
		now:    opts.Now,
		lock:   newFileLock(path, opts.LockTimeout),
	}
	if s.policy == "" {
		s.policy = DuplicateReject
	}
	if s.ids == nil {
		s.ids = ident.New()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// OpenJSONStore creates a store and loads it. A *CorruptionError or an
// *UnreadableRecordsError still returns a usable store.
func OpenJSONStore(ctx context.Context, path string, opts Options) (*JSONStore, error) {
	s := NewJSONStore(path, opts)
	_, err := s.Load(ctx)
	var cerr *CorruptionError
	var uerr *UnreadableRecordsError
	if err != nil && !errors.As(err, &cerr) && !errors.As(err, &uerr) {
		return nil, err
	}
	return s, err
}

// Path returns the backing file path.
func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Load(ctx context.Context) ([]model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readFile(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		s.setLoaded(nil)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		s.setLoaded(nil)
		return nil, nil
	}

	records, unreadable, problems, err := decodeCatalog(data)
	if err != nil {
		cerr := &CorruptionError{Path: s.path, Err: err}
		s.log.Warn("catalog corrupt, resetting to empty", zap.String("path", s.path), zap.Error(err))
		if werr := s.write(ctx, nil, nil); werr != nil {
			cerr.ResetErr = werr
			s.log.Error("catalog reset failed", zap.String("path", s.path), zap.Error(werr))
		}
		s.setLoaded(nil)
		return nil, cerr
	}

	// Records from before ids existed, or with a repeated id, get a fresh one.
	// Persist right away so the new ids are stable.
	fixed, _ := s.assignIDs(records, DuplicateRegenerate)
	if fixed > 0 {
		s.log.Info("assigned ids to catalog records", zap.String("path", s.path), zap.Int("count", fixed))
		if err := s.write(ctx, records, unreadable); err != nil {
			s.log.Warn("could not persist assigned ids", zap.String("path", s.path), zap.Error(err))
		}
	}

	s.setLoaded(records)
	s.unreadable = unreadable
	s.log.Debug("catalog loaded", zap.String("path", s.path), zap.Int("count", len(records)))
	if len(problems) > 0 {
		uerr := &UnreadableRecordsError{Path: s.path, Elements: problems}
		s.log.Warn("catalog has unreadable records", zap.String("path", s.path), zap.Int("count", len(problems)), zap.Error(uerr))
		return cloneAll(records), uerr
	}
	return cloneAll(records), nil
}

func (s *JSONStore) Records() []model.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.records)
}

// Len returns the number of loaded records.
func (s *JSONStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *JSONStore) Get(id string) (model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return model.Recipe{}, ErrNotLoaded
	}
	i := s.indexOf(id)
	if i < 0 {
		return model.Recipe{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.records[i].Clone(), nil
}

func (s *JSONStore) Append(ctx context.Context, r model.Recipe) (model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return model.Recipe{}, ErrNotLoaded
	}
	r = r.Clone()
	if r.ID == "" {
		r.ID = s.ids.NewID()
	}
	if s.indexOf(r.ID) >= 0 {
		return model.Recipe{}, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
	}

	next := make([]model.Recipe, 0, len(s.records)+1)
	next = append(next, s.records...)
	next = append(next, r)
	if err := s.write(ctx, next, s.unreadable); err != nil {
		return model.Recipe{}, err
	}
	s.records = next
	s.log.Debug("recipe appended", zap.String("id", r.ID), zap.Int("count", len(next)))
	return r.Clone(), nil
}

func (s *JSONStore) DeleteByID(ctx context.Context, id string) (model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return model.Recipe{}, ErrNotLoaded
	}
	i := s.indexOf(id)
	if i < 0 {
		return model.Recipe{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	removed := s.records[i]
	next := make([]model.Recipe, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	next = append(next, s.records[i+1:]...)
	if err := s.write(ctx, next, s.unreadable); err != nil {
		return model.Recipe{}, err
	}
	s.records = next
	s.log.Debug("recipe deleted", zap.String("id", id), zap.Int("count", len(next)))
	return removed, nil
}

func (s *JSONStore) setLoaded(records []model.Recipe) {
	s.records = records
	s.unreadable = nil
	s.loaded = true
}

func (s *JSONStore) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// assignIDs fills missing ids and resolves repeated ones in place according
// to policy. It returns how many ids were generated.
func (s *JSONStore) assignIDs(records []model.Recipe, policy DuplicatePolicy) (int, error) {
	seen := make(map[string]bool, len(records))
	changed := 0
	for i := range records {
		id := records[i].ID
		switch {
		case id == "":
			records[i].ID = s.ids.NewID()
			changed++
		case seen[id]:
			if policy != DuplicateRegenerate {
				return 0, fmt.Errorf("%w: %s (element %d)", ErrDuplicateID, id, i)
			}
			s.log.Info("regenerating duplicate id", zap.String("id", id), zap.Int("index", i))
			records[i].ID = s.ids.NewID()
			changed++
		}
		seen[records[i].ID] = true
	}
	return changed, nil
}

// readFile reads the catalog under a shared lock. A missing file yields an
// error matching fs.ErrNotExist.
func (s *JSONStore) readFile(ctx context.Context) ([]byte, error) {
	unlock, err := s.lock.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return os.ReadFile(s.path)
}

// write replaces the backing file with records followed by the raw
// elements in keep.
func (s *JSONStore) write(ctx context.Context, records []model.Recipe, keep []json.RawMessage) error {
	data, err := encodeCatalog(records, keep)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	unlock, err := s.lock.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

func encodeCatalog(records []model.Recipe, keep []json.RawMessage) ([]byte, error) {
	elems := make([]any, 0, len(records)+len(keep))
	for _, r := range records {
		elems = append(elems, r)
	}
	for _, raw := range keep {
		elems = append(elems, raw)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(elems); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temp file next to path, syncs it, and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func cloneAll(records []model.Recipe) []model.Recipe {
	if records == nil {
		return nil
	}
	out := make([]model.Recipe, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
