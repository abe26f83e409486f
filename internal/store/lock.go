package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockPollInterval = 50 * time.Millisecond

// fileLock guards the catalog against a second process rewriting it at the
// same time. A zero timeout disables locking.
type fileLock struct {
	fl      *flock.Flock
	timeout time.Duration
}

func newFileLock(catalogPath string, timeout time.Duration) *fileLock {
	if timeout <= 0 {
		return &fileLock{}
	}
	return &fileLock{fl: flock.New(catalogPath + ".lock"), timeout: timeout}
}

// acquire takes an exclusive lock for writes or a shared lock for reads and
// returns the release func.
func (l *fileLock) acquire(ctx context.Context, exclusive bool) (func(), error) {
	if l.fl == nil {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(l.fl.Path()), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var locked bool
	var err error
	if exclusive {
		locked, err = l.fl.TryLockContext(ctx, lockPollInterval)
	} else {
		locked, err = l.fl.TryRLockContext(ctx, lockPollInterval)
	}
	if errors.Is(err, context.DeadlineExceeded) || (err == nil && !locked) {
		return nil, fmt.Errorf("timeout after %s waiting for catalog lock %s (another recipebook process may be writing)", l.timeout, l.fl.Path())
	}
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	return func() { _ = l.fl.Unlock() }, nil
}
