// Package apperr defines the sentinel errors shared across Fehu operations.
package apperr

import "errors"

var (
	// ErrInvalidPath means a path argument was not absolute.
	ErrInvalidPath = errors.New("path must be absolute")
	// ErrNotFound means no regular file or directory exists at the path.
	ErrNotFound = errors.New("not found")
	// ErrParse means the YAML frontmatter block could not be decoded.
	ErrParse = errors.New("frontmatter parse error")
	// ErrNotAList means a list operation targeted a field that is neither
	// absent, a string, nor a list of strings.
	ErrNotAList = errors.New("field is not a list")
	// ErrTypeMismatch means a typed setter received a value of the wrong kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrInvalidArgument means an operation argument failed validation,
	// such as a blank list item.
	ErrInvalidArgument = errors.New("invalid argument")
)
