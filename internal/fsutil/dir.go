package fsutil

import (
	"errors"
	"io/fs"
	"os"
)

// DirMode is the permission used for every certificate directory.
const DirMode os.FileMode = 0o700

// RemoveAll removes path and everything below it. A path that does not exist
// is not an error and is reported with removed=false.
func RemoveAll(path string) (removed bool, err error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &FilesystemError{Op: "stat", Path: path, Err: err}
	}
	if err := os.RemoveAll(path); err != nil {
		return false, &FilesystemError{Op: "remove", Path: path, Err: err}
	}
	return true, nil
}

// RecreateDir removes path if present and creates it empty.
func RecreateDir(path string) error {
	if _, err := RemoveAll(path); err != nil {
		return err
	}
	if err := os.MkdirAll(path, DirMode); err != nil {
		return &FilesystemError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

// EnsureDir creates path and its parents if missing.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, DirMode); err != nil {
		return &FilesystemError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

// ListFiles returns the names of the regular files directly in dir, sorted.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
