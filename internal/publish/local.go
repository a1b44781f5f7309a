package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// localTarget writes artifacts below a directory.
type localTarget struct {
	root string
}

func newLocalTarget(root string) *localTarget {
	return &localTarget{root: root}
}

func (d *localTarget) abs(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(name))
}

func (d *localTarget) Put(_ context.Context, name string, r io.Reader) error {
	full := d.abs(name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("publish/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("publish/local: create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("publish/local: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("publish/local: close %s: %w", name, err)
	}
	return nil
}

func (d *localTarget) Location(name string) string {
	return d.abs(name)
}
