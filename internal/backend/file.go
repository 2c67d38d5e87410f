package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// File is the file-handle backend.
type File struct {
	path string
	auth Authorizer
}

// NewFile returns a backend over the data file at path.
func NewFile(path string, auth Authorizer) *File {
	return &File{path: path, auth: auth}
}

func (f *File) Kind() Kind { return KindFileHandle }

// Path returns the data file location.
func (f *File) Path() string { return f.path }

// Read verifies read permission and returns the file contents. An empty file
// reads as nil so the caller can seed it.
func (f *File) Read(ctx context.Context) ([]byte, error) {
	if err := verifyPermission(ctx, f.auth, f.path, ModeRead); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read data file %s (it may have been moved): %w", f.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// Write verifies write permission and replaces the file contents. The new
// contents are written beside the file and renamed over it, so a failed
// write leaves the previous document in place.
func (f *File) Write(ctx context.Context, data []byte) error {
	if err := verifyPermission(ctx, f.auth, f.path, ModeReadWrite); err != nil {
		return err
	}
	return writeFileAtomic(f.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write data file: close: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("write data file: chmod: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write data file: rename: %w", err)
	}
	return nil
}
