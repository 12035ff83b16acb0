// Package fsutil holds the filesystem primitives used while laying out
// certificate material: idempotent directory recreation, file copies, CA
// bundle concatenation and the artifacts-root run lock.
//
// Failures are reported as *FilesystemError (directory create/remove, lock)
// or *CopyError (propagating files between directories).
package fsutil
