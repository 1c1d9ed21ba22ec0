// Package lock serializes collection cycles across processes. Two
// orchestrators appending to the same telemetry log would interleave
// rows, so a cycle takes a filesystem lock first. The primitive is
// mkdir: creating the lock directory either succeeds atomically or fails
// because another holder got there first.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meshwatch/meshwatch/internal/config"
	mwerrors "github.com/meshwatch/meshwatch/internal/errors"
)

// retryInterval is how long a waiting acquirer sleeps between attempts.
var retryInterval = 2 * time.Second

// Lock represents an acquired collection lock.
type Lock struct {
	Dir  string    // the lock directory
	Info *LockInfo // who we are
}

// LockDir returns the directory path used for the lock under cfg.Dir.
func LockDir(cfg config.LockConfig) string {
	baseDir := cfg.Dir
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return filepath.Join(baseDir, "meshwatch.lock")
}

// Acquire takes the collection lock, waiting up to cfg.Timeout for a
// current holder to release it. Locks older than cfg.Stale are treated
// as abandoned by a crashed process and removed.
func Acquire(cfg config.LockConfig, command string) (*Lock, error) {
	lockDir := LockDir(cfg)
	infoFile := filepath.Join(lockDir, "info.json")

	info := NewLockInfo(command)

	startTime := time.Now()
	for {
		if time.Since(startTime) > cfg.Timeout {
			holder := readLockHolder(infoFile)
			return nil, mwerrors.New(mwerrors.ErrLock,
				fmt.Sprintf("Timed out waiting for collection lock after %s", cfg.Timeout),
				fmt.Sprintf("Lock held by: %s. Wait for the running collection to finish or use 'meshwatch unlock'.", holder))
		}

		if isLockStale(infoFile, cfg.Stale) {
			if err := os.RemoveAll(lockDir); err == nil {
				continue
			}
		}

		err := os.Mkdir(lockDir, 0755)
		if err == nil {
			infoJSON, merr := info.Marshal()
			if merr != nil {
				os.RemoveAll(lockDir) //nolint:errcheck // Cleanup, error not actionable
				return nil, mwerrors.WrapWithCode(merr, mwerrors.ErrLock,
					"Failed to serialize lock info",
					"This shouldn't happen")
			}
			if werr := os.WriteFile(infoFile, infoJSON, 0644); werr != nil {
				os.RemoveAll(lockDir) //nolint:errcheck // Cleanup, error not actionable
				return nil, mwerrors.WrapWithCode(werr, mwerrors.ErrLock,
					"Failed to write lock info file",
					"Check disk space and permissions on the lock directory")
			}
			return &Lock{Dir: lockDir, Info: info}, nil
		}
		if !os.IsExist(err) {
			return nil, mwerrors.WrapWithCode(err, mwerrors.ErrLock,
				fmt.Sprintf("Failed to create lock directory: %s", lockDir),
				"Check permissions on the lock directory's parent")
		}

		// Held by someone else, wait before retrying.
		time.Sleep(retryInterval)
	}
}

// Release removes the lock, allowing others to acquire it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.RemoveAll(l.Dir); err != nil {
		return mwerrors.WrapWithCode(err, mwerrors.ErrLock,
			fmt.Sprintf("Failed to remove lock directory: %s", l.Dir),
			"Remove it manually")
	}
	return nil
}

// ForceRelease removes a lock directory regardless of who holds it.
// Use with caution - this should only be used for stuck or abandoned locks.
func ForceRelease(cfg config.LockConfig) error {
	lockDir := LockDir(cfg)
	if err := os.RemoveAll(lockDir); err != nil {
		return mwerrors.WrapWithCode(err, mwerrors.ErrLock,
			fmt.Sprintf("Failed to remove lock directory: %s", lockDir),
			"Check permissions on the lock directory")
	}
	return nil
}

// Holder returns a description of the current lock holder, or "none"
// when the lock is free.
func Holder(cfg config.LockConfig) string {
	lockDir := LockDir(cfg)
	if _, err := os.Stat(lockDir); os.IsNotExist(err) {
		return "none"
	}
	return readLockHolder(filepath.Join(lockDir, "info.json"))
}

// isLockStale checks if the lock's info file is older than the stale threshold.
func isLockStale(infoFile string, staleThreshold time.Duration) bool {
	if staleThreshold <= 0 {
		return false
	}

	data, err := os.ReadFile(infoFile)
	if err != nil {
		return false // Can't read, assume not stale
	}

	info, err := ParseLockInfo(data)
	if err != nil {
		return false
	}

	return info.Age() > staleThreshold
}

// readLockHolder reads the lock info file and returns a description of the holder.
func readLockHolder(infoFile string) string {
	data, err := os.ReadFile(infoFile)
	if err != nil {
		return "unknown"
	}

	info, err := ParseLockInfo(data)
	if err != nil {
		return "unknown"
	}

	return info.String()
}
