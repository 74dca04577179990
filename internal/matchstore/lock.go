package matchstore

import (
	"fmt"
	"os"
	"path/filepath"
)

type storeLock struct {
	file *os.File
}

// acquireStoreLock takes an exclusive, non-blocking lock next to the
// database file. In-memory stores (empty dbPath) need no lock.
func acquireStoreLock(dbPath string) (*storeLock, error) {
	if dbPath == "" {
		return &storeLock{}, nil
	}

	lockPath := filepath.Join(filepath.Dir(dbPath), "store.lock")
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open store lock: %w", err)
	}

	if err := lockFileExclusiveNonBlocking(lockFile); err != nil {
		lockFile.Close()
		if isWouldBlockError(err) {
			return nil, ErrStoreLocked
		}
		return nil, fmt.Errorf("failed to acquire store lock: %w", err)
	}

	return &storeLock{file: lockFile}, nil
}

func (l *storeLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
