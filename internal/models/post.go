// Package models defines the domain types for Fehu.
package models

// Post represents a Markdown file split into frontmatter and body.
// Instances are transient: built on every load, discarded after save.
type Post struct {
	Path string         `json:"path"`
	Meta map[string]any `json:"frontmatter"`
	Body string         `json:"-"`
}

// FileError is a structured per-file failure inside a batch operation.
type FileError struct {
	FilePath string `json:"file_path"`
	Error    string `json:"error"`
}

// Warning is a structured per-file diagnostic for conditions that skip a
// file (or a value inside it) without failing the batch.
type Warning struct {
	FilePath string `json:"file_path"`
	Message  string `json:"message"`
}
