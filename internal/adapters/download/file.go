// Package download saves exported snapshots to a local directory.
package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrInvalidName is returned for names that would escape the directory
var ErrInvalidName = errors.New("invalid download name")

// Dir writes downloads into one directory, replacing files of the same name.
type Dir struct {
	path   string
	logger *slog.Logger
}

// NewDir creates a Dir rooted at path. The directory is created on first use.
func NewDir(path string, logger *slog.Logger) *Dir {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dir{path: path, logger: logger}
}

// Path returns the directory downloads go to
func (d *Dir) Path() string { return d.path }

// Download writes data to name inside the directory. The file is written to
// a temporary name first and renamed, so readers never see a partial image.
func (d *Dir) Download(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.path, "."+name+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}

	target := filepath.Join(d.path, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	d.logger.Info("download saved", "path", target, "bytes", len(data))
	return nil
}
