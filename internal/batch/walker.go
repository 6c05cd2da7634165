// Package batch implements the directory-wide scan, aggregate, and rewrite
// operations. Each operation walks every Markdown file under a root,
// isolating per-file failures so one malformed post never blocks the rest.
package batch

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/store"
)

// visitFunc receives each candidate file. Exactly one of post and loadErr
// is non-nil. Returning from the callback never stops the walk.
type visitFunc func(path string, post *models.Post, loadErr error)

// walk enumerates .md files under root (depth-1 unless recursive) in
// lexicographic path order, loads each one, and invokes visit. The scanned
// count covers every candidate regular file, loadable or not. The returned
// error is non-nil only for directory-level failures, which fail the whole
// call before any file is visited.
func (s *Service) walk(root string, recursive bool, visit visitFunc) (scanned int, err error) {
	if err := store.StatDir(root); err != nil {
		return 0, err
	}

	paths, err := candidates(root, recursive)
	if err != nil {
		return 0, err
	}

	for _, p := range paths {
		scanned++
		post, loadErr := s.store.Load(p)
		if loadErr != nil {
			visit(p, nil, loadErr)
			continue
		}
		visit(p, post, nil)
	}
	return scanned, nil
}

// candidates collects the .md regular files under root in sorted order.
func candidates(root string, recursive bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// A subdirectory that vanishes or denies access mid-walk is
			// skipped rather than failing the batch.
			if p == root {
				return walkErr
			}
			return nil
		}
		if d.IsDir() {
			if !recursive && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
