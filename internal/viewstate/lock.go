package viewstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// LockTimeout is the timeout for acquiring the state file lock.
const LockTimeout = 2 * time.Second

// lockPollInterval is the wait between non-blocking flock attempts.
const lockPollInterval = 10 * time.Millisecond

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// Lock errors.
var (
	errLockTimeout  = errors.New("lock timeout")
	errLockFileOpen = errors.New("failed to open lock file")
)

// withLock executes handler while holding an exclusive lock on path.
// The lock lives in a sibling "<name>.lock" file so the state file itself
// can be replaced atomically while locked.
func withLock(path string, handler func() error) error {
	lock, lockErr := acquireLock(path, LockTimeout)
	if lockErr != nil {
		return fmt.Errorf("acquiring lock: %w", lockErr)
	}

	defer lock.release()

	return handler()
}

// fileLock represents a held flock.
type fileLock struct {
	path string
	file *os.File
}

// release removes the lock file while still holding the lock, then unlocks.
func (l *fileLock) release() {
	if l.file != nil {
		_ = os.Remove(l.path)
		_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
		_ = l.file.Close()
		l.file = nil
	}
}

// acquireLock takes an exclusive flock on path+".lock", polling with
// LOCK_NB until timeout. After the flock is granted the inode is compared
// with the path again: a previous holder may have removed and a third party
// recreated the file in between.
func acquireLock(path string, timeout time.Duration) (*fileLock, error) {
	lockPath := path + ".lock"
	deadline := time.Now().Add(timeout)

	mkdirErr := os.MkdirAll(filepath.Dir(lockPath), dirPerms)
	if mkdirErr != nil {
		return nil, fmt.Errorf("creating state dir: %w", mkdirErr)
	}

	for {
		file, openErr := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerms)
		if openErr != nil {
			return nil, fmt.Errorf("%w: %w", errLockFileOpen, openErr)
		}

		fd := int(file.Fd())

		var openStat unix.Stat_t

		err := unix.Fstat(fd, &openStat)
		if err != nil {
			_ = file.Close()

			return nil, fmt.Errorf("fstat lock file: %w", err)
		}

		err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err != nil {
			_ = file.Close()

			if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
				return nil, fmt.Errorf("flock: %w", err)
			}

			if !time.Now().Before(deadline) {
				return nil, fmt.Errorf("%w: %s", errLockTimeout, path)
			}

			time.Sleep(min(lockPollInterval, time.Until(deadline)))

			continue
		}

		var pathStat unix.Stat_t

		statErr := unix.Stat(lockPath, &pathStat)
		if statErr != nil || pathStat.Ino != openStat.Ino {
			_ = unix.Flock(fd, unix.LOCK_UN)
			_ = file.Close()

			continue
		}

		return &fileLock{path: lockPath, file: file}, nil
	}
}
