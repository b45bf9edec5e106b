package mediastore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir implements Store on a local directory tree. Clip names resolve
// relative to the configured root.
type Dir struct {
	root string
}

// NewDir creates a Dir store rooted at dir, creating the directory (with
// parents) if needed.
func NewDir(dir string) (*Dir, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Dir{root: abs}, nil
}

func (d *Dir) resolve(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(name))
}

// Open opens the named clip for reading.
func (d *Dir) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(d.resolve(name))
}

// Put writes the named clip, creating parent directories as needed and
// truncating any previous content.
func (d *Dir) Put(_ context.Context, name string, r io.Reader) error {
	full := d.resolve(name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Delete removes the named clip; removing a missing clip is a no-op.
func (d *Dir) Delete(_ context.Context, name string) error {
	err := os.Remove(d.resolve(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether the named clip is present.
func (d *Dir) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(d.resolve(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

var _ Store = (*Dir)(nil)
