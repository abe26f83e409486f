package store

import (
	"context"

	"go.uber.org/zap"
)

// Export returns the current collection serialized in the on-disk format,
// named after the current time. Unreadable elements kept from Load are part
// of Data but not of Records.
func (s *JSONStore) Export() (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return s.exportLocked()
}

func (s *JSONStore) exportLocked() (*Artifact, error) {
	data, err := encodeCatalog(s.records, s.unreadable)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Name:    ArtifactName(s.now()),
		Records: cloneAll(s.records),
		Data:    data,
	}, nil
}

func (s *JSONStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	return s.clearLocked(ctx)
}

func (s *JSONStore) clearLocked(ctx context.Context) error {
	if err := s.write(ctx, nil, nil); err != nil {
		return err
	}
	s.log.Info("catalog cleared", zap.String("path", s.path), zap.Int("removed", len(s.records)))
	s.records = nil
	s.unreadable = nil
	return nil
}

// ExportAndClear returns a snapshot and then empties the catalog. If
// clearing fails the snapshot is still returned along with the error and the
// catalog keeps its records.
func (s *JSONStore) ExportAndClear(ctx context.Context) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}
	art, err := s.exportLocked()
	if err != nil {
		return nil, err
	}
	if err := s.clearLocked(ctx); err != nil {
		return art, err
	}
	return art, nil
}

// ReplaceAll validates every element of raw before touching the catalog.
// Missing ids are generated; repeated ids follow the store's DuplicatePolicy.
func (s *JSONStore) ReplaceAll(ctx context.Context, raw []byte) (int, error) {
	records, err := decodeStrict(raw)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return 0, ErrNotLoaded
	}
	if _, err := s.assignIDs(records, s.policy); err != nil {
		return 0, err
	}
	if err := s.write(ctx, records, nil); err != nil {
		return 0, err
	}
	s.records = records
	s.unreadable = nil
	s.log.Info("catalog replaced", zap.String("path", s.path), zap.Int("count", len(records)))
	return len(records), nil
}
