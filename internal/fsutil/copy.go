package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies src into dstDir under the same base name, keeping the
// source permissions.
func CopyFile(src, dstDir string) error {
	dst := filepath.Join(dstDir, filepath.Base(src))
	if err := copyFile(src, dst); err != nil {
		return &CopyError{Src: src, Dst: dst, Err: err}
	}
	return nil
}

// CopyDirFiles copies every regular file directly in srcDir into dstDir.
func CopyDirFiles(srcDir, dstDir string) error {
	names, err := ListFiles(srcDir)
	if err != nil {
		return &CopyError{Src: srcDir, Dst: dstDir, Err: err}
	}
	for _, name := range names {
		if err := CopyFile(filepath.Join(srcDir, name), dstDir); err != nil {
			return err
		}
	}
	return nil
}

// AppendFiles appends the content of each source to dst. dst and each
// appended chunk are newline terminated so PEM blocks never run together.
func AppendFiles(dst string, srcs ...string) error {
	// #nosec G304
	existing, err := os.ReadFile(dst)
	if err != nil {
		return &CopyError{Src: fmt.Sprint(srcs), Dst: dst, Err: err}
	}

	// #nosec G304
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return &CopyError{Src: fmt.Sprint(srcs), Dst: dst, Err: err}
	}
	defer out.Close()

	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		if _, err := out.Write([]byte{'\n'}); err != nil {
			return &CopyError{Src: fmt.Sprint(srcs), Dst: dst, Err: err}
		}
	}

	for _, src := range srcs {
		// #nosec G304
		data, err := os.ReadFile(src)
		if err != nil {
			return &CopyError{Src: src, Dst: dst, Err: err}
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		if _, err := out.Write(data); err != nil {
			return &CopyError{Src: src, Dst: dst, Err: err}
		}
	}

	if err := out.Close(); err != nil {
		return &CopyError{Src: fmt.Sprint(srcs), Dst: dst, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	// #nosec G304
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	// #nosec G304
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
