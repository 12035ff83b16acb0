package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LockFileName is created in the artifacts root for the duration of a run.
const LockFileName = ".crdbcerts.lock"

// FileLock marks an artifacts root as owned by the current process.
type FileLock struct {
	path string

	// Reclaimed holds the contents of a stale lock that was replaced.
	Reclaimed string
}

// Lock claims root for this process. If the lock file already exists the
// returned FilesystemError wraps ErrInUse, unless the lock was written on
// this host by a process that no longer exists; such a lock is replaced.
func Lock(root string) (*FileLock, error) {
	path := filepath.Join(root, LockFileName)

	lock, err := createLock(path)
	if err == nil || !errors.Is(err, fs.ErrExist) {
		return lock, wrapLockErr(path, err)
	}

	holder, _ := os.ReadFile(path) // #nosec G304
	if stale(holder) {
		if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			return nil, &FilesystemError{Op: "lock", Path: path, Err: rerr}
		}
		lock, err = createLock(path)
		if err == nil {
			lock.Reclaimed = trimHolder(holder)
			return lock, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, wrapLockErr(path, err)
		}
		holder, _ = os.ReadFile(path) // #nosec G304
	}

	return nil, &FilesystemError{
		Op:   "lock",
		Path: path,
		Err:  fmt.Errorf("%w (%s); remove the lock file if no other run is active", ErrInUse, trimHolder(holder)),
	}
}

func createLock(path string) (*FileLock, error) {
	// #nosec G304
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}

	_, werr := fmt.Fprintf(f, "pid=%d host=%s started=%s\n", os.Getpid(), hostname(), time.Now().UTC().Format(time.RFC3339))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return nil, errors.Join(werr, cerr)
	}
	return &FileLock{path: path}, nil
}

func wrapLockErr(path string, err error) error {
	if err == nil {
		return nil
	}
	return &FilesystemError{Op: "lock", Path: path, Err: err}
}

// stale reports whether holder was written on this host by a process that
// has exited. Locks without a pid or host are never stale.
func stale(holder []byte) bool {
	var pid int
	var host string
	for _, field := range strings.Fields(string(holder)) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "pid":
			pid, _ = strconv.Atoi(value)
		case "host":
			host = value
		}
	}
	if pid <= 0 || host == "" || host != hostname() || pid == os.Getpid() {
		return false
	}
	return !processAlive(pid)
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

// Path returns the lock file location.
func (l *FileLock) Path() string { return l.path }

// Release removes the lock file. Releasing twice is a no-op.
func (l *FileLock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	path := l.path
	l.path = ""
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &FilesystemError{Op: "unlock", Path: path, Err: err}
	}
	return nil
}

func trimHolder(b []byte) string {
	s := string(b)
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	if s == "" {
		return "holder unknown"
	}
	return s
}
