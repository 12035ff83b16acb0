package fsutil

import (
	"errors"
	"fmt"
)

// ErrInUse is wrapped by the FilesystemError returned when another run holds
// the artifacts root lock.
var ErrInUse = errors.New("artifacts root is in use by another run")

// FilesystemError reports a directory create/remove or lock failure.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// CopyError reports a failure to propagate a file between directories,
// either because the source is missing or the destination is unwritable.
type CopyError struct {
	Src string
	Dst string
	Err error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s to %s: %v", e.Src, e.Dst, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }
