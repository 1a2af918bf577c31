package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is the name of the single-writer lock inside the data directory.
const LockFile = ".arrsnap.lock"

// ErrLocked is returned when another process holds the data directory.
var ErrLocked = errors.New("another sync is already running")

// Lock takes the single-writer lock for dir without blocking. The caller
// must Unlock the returned lock when done.
func Lock(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	path := filepath.Join(dir, LockFile)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return fl, nil
}
