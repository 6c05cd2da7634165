// Package store loads and saves Markdown posts by absolute file path.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/frontmatter"
	"github.com/starford/fehu/internal/models"
)

// Provider is the interface for post file operations.
type Provider interface {
	// Load reads and parses the post at an absolute path.
	Load(path string) (*models.Post, error)
	// Save serialises the post and overwrites the file at an absolute path.
	Save(path string, post *models.Post) error
}

// FS implements Provider backed by the local file system.
type FS struct{}

// NewFS creates a new file-system provider.
func NewFS() *FS {
	return &FS{}
}

// Load reads the file at path and splits it into frontmatter and body.
// The path must be absolute and name an existing regular file.
func (f *FS) Load(path string) (*models.Post, error) {
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidPath, path)
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: file %s", apperr.ErrNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	meta, body, err := frontmatter.Split(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &models.Post{Path: path, Meta: meta, Body: body}, nil
}

// Save writes the post's serialised form over the file at path. The write
// goes through a temp file in the same directory followed by a rename, so
// readers never observe a torn file.
func (f *FS) Save(path string, post *models.Post) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidPath, path)
	}

	content, err := frontmatter.Render(post.Meta, post.Body)
	if err != nil {
		return fmt.Errorf("store: render %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".fehu-tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	success = true
	return nil
}

// StatDir validates that path is an absolute path to an existing directory.
func StatDir(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidPath, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: directory %s", apperr.ErrNotFound, path)
		}
		return fmt.Errorf("store: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: directory %s", apperr.ErrNotFound, path)
	}
	return nil
}
