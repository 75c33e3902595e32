// Package local implements storage.Storage on a flat directory.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kbukum/streamscribe/logger"
	"github.com/kbukum/streamscribe/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(cfg storage.Config, _ *logger.Logger) (storage.Storage, error) {
		c := &Config{BasePath: cfg.BasePath}
		c.ApplyDefaults()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return New(c)
	})
}

// Storage implements storage.Storage using the local filesystem.
type Storage struct {
	basePath string
	dirMode  fs.FileMode
	fileMode fs.FileMode
}

var _ storage.Storage = (*Storage)(nil)

// New creates the base directory if needed.
func New(cfg *Config) (*Storage, error) {
	cfg.ApplyDefaults()
	abs, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, fs.FileMode(cfg.DirMode)); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Storage{basePath: abs, dirMode: fs.FileMode(cfg.DirMode), fileMode: fs.FileMode(cfg.FileMode)}, nil
}

// BasePath returns the absolute storage root.
func (s *Storage) BasePath() string { return s.basePath }

// resolve maps a flat object name to a path inside the root.
func (s *Storage) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidName, name)
	}
	return filepath.Join(s.basePath, name), nil
}

// Upload writes to a temporary file and renames it into place, so readers
// never see a partial object and a failed copy leaves nothing behind.
func (s *Storage) Upload(ctx context.Context, name string, reader io.Reader) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: create file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := io.Copy(tmp, contextReader{ctx: ctx, r: reader}); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("storage: write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("storage: close file: %w", err)
	}
	if err := os.Chmod(tmpName, s.fileMode); err != nil {
		cleanup()
		return fmt.Errorf("storage: chmod file: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		cleanup()
		return fmt.Errorf("storage: rename file: %w", err)
	}
	return nil
}

// Delete removes a file. Missing files are ignored.
func (s *Storage) Delete(_ context.Context, name string) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// Exists checks whether a file exists.
func (s *Storage) Exists(_ context.Context, name string) (bool, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat file: %w", err)
	}
	return true, nil
}

// Path returns the absolute filesystem path of an existing file.
func (s *Storage) Path(ctx context.Context, name string) (string, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return fullPath, nil
}

// List returns regular files in the root whose name starts with prefix.
// In-flight temporary uploads are skipped.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: list files: %w", err)
	}

	files := make([]storage.FileInfo, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".upload-") || !strings.HasPrefix(name, prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		ct := mime.TypeByExtension(filepath.Ext(name))
		if ct == "" {
			ct = "application/octet-stream"
		}
		files = append(files, storage.FileInfo{
			Path:         name,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  ct,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
