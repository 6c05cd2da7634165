package batch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/store"
)

// TagListResult aggregates tag usage across a directory.
type TagListResult struct {
	DirectoryPath  string           `json:"directory_path"`
	Recursive      bool             `json:"recursive"`
	FilesProcessed int              `json:"files_processed"`
	FilesWithTags  int              `json:"files_with_tags"`
	TagCounts      map[string]int   `json:"tag_counts"`
	Warnings       []models.Warning `json:"warnings,omitempty"`
}

// TagSearchResult lists the posts carrying a given tag.
type TagSearchResult struct {
	DirectoryPath  string           `json:"directory_path"`
	TagSearched    string           `json:"tag_searched"`
	Recursive      bool             `json:"recursive"`
	FilesProcessed int              `json:"files_processed"`
	MatchingFiles  []string         `json:"matching_files"`
	Warnings       []models.Warning `json:"warnings,omitempty"`
}

// RenameResult reports a directory-wide tag rename.
type RenameResult struct {
	DirectoryPath string             `json:"directory_path"`
	OldTag        string             `json:"old_tag"`
	NewTag        string             `json:"new_tag"`
	Recursive     bool               `json:"recursive"`
	FilesScanned  int                `json:"files_scanned"`
	ModifiedFiles []string           `json:"modified_files"`
	Errors        []models.FileError `json:"errors"`
	// NoOp is set when old and new tags are equal; no walk happens.
	NoOp    bool   `json:"-"`
	Message string `json:"message,omitempty"`
}

// InvalidDate is one entry that failed the date-format audit.
type InvalidDate struct {
	FilePath string `json:"file_path"`
	Value    string `json:"value"`
	Error    string `json:"error"`
}

// DateValidationResult reports a read-only date-format audit.
type DateValidationResult struct {
	DirectoryPath  string        `json:"directory_path"`
	FieldName      string        `json:"field_name_validated"`
	ExpectedFormat string        `json:"expected_format"`
	Recursive      bool          `json:"recursive"`
	FilesScanned   int           `json:"files_scanned"`
	FilesWithField int           `json:"files_with_field"`
	InvalidEntries []InvalidDate `json:"invalid_date_entries"`
}

// Service runs batch operations over a content tree.
type Service struct {
	store  store.Provider
	logger *slog.Logger
}

// NewService creates a new batch service.
func NewService(store store.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ListTags counts every string tag in the "tags" field across the tree.
// Files that fail to load, and non-string entries inside a tags list, are
// reported as warnings and skipped.
func (s *Service) ListTags(root string, recursive bool) (*TagListResult, error) {
	res := &TagListResult{
		DirectoryPath: root,
		Recursive:     recursive,
		TagCounts:     map[string]int{},
	}

	scanned, err := s.walk(root, recursive, func(path string, post *models.Post, loadErr error) {
		if loadErr != nil {
			res.Warnings = append(res.Warnings, models.Warning{FilePath: path, Message: loadErr.Error()})
			s.logger.Warn("list tags: skipping file", slog.String("path", path), slog.String("error", loadErr.Error()))
			return
		}
		raw, ok := post.Meta["tags"].([]any)
		if !ok {
			return
		}
		res.FilesWithTags++
		for _, t := range raw {
			tag, isStr := t.(string)
			if !isStr {
				res.Warnings = append(res.Warnings, models.Warning{
					FilePath: path,
					Message:  fmt.Sprintf("non-string tag: %v", t),
				})
				continue
			}
			res.TagCounts[tag]++
		}
	})
	if err != nil {
		return nil, err
	}
	res.FilesProcessed = scanned
	return res, nil
}

// FindByTag collects every post whose "tags" field contains tag. A scalar
// string tags field counts as a one-element list. Non-string entries in a
// list never match but do not disqualify the list.
func (s *Service) FindByTag(root, tag string, recursive bool) (*TagSearchResult, error) {
	res := &TagSearchResult{
		DirectoryPath: root,
		TagSearched:   tag,
		Recursive:     recursive,
		MatchingFiles: []string{},
	}

	scanned, err := s.walk(root, recursive, func(path string, post *models.Post, loadErr error) {
		if loadErr != nil {
			res.Warnings = append(res.Warnings, models.Warning{FilePath: path, Message: loadErr.Error()})
			s.logger.Warn("find by tag: skipping file", slog.String("path", path), slog.String("error", loadErr.Error()))
			return
		}
		raw, present := post.Meta["tags"]
		if !present {
			return
		}
		if scalar, isStr := raw.(string); isStr {
			if scalar == tag {
				res.MatchingFiles = append(res.MatchingFiles, path)
			}
			return
		}
		items, isList := listItems(raw)
		if !isList {
			return
		}
		for _, item := range items {
			if str, isStr := item.(string); isStr && str == tag {
				res.MatchingFiles = append(res.MatchingFiles, path)
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	res.FilesProcessed = scanned
	return res, nil
}

// RenameTag replaces oldTag with newTag across the tree. Every string
// occurrence of oldTag is removed and newTag appended once if no string
// element already carries it, so duplicates collapse; non-string elements
// pass through untouched. A scalar tags field equal to oldTag becomes the
// one-element list [newTag]. Per-file load and save failures are collected
// and the walk continues.
func (s *Service) RenameTag(root, oldTag, newTag string, recursive bool) (*RenameResult, error) {
	res := &RenameResult{
		DirectoryPath: root,
		OldTag:        oldTag,
		NewTag:        newTag,
		Recursive:     recursive,
		ModifiedFiles: []string{},
		Errors:        []models.FileError{},
	}

	if oldTag == newTag {
		res.NoOp = true
		res.Message = "Old and new tags are the same. No changes will be made."
		return res, nil
	}

	scanned, err := s.walk(root, recursive, func(path string, post *models.Post, loadErr error) {
		if loadErr != nil {
			res.Errors = append(res.Errors, models.FileError{FilePath: path, Error: loadErr.Error()})
			return
		}

		raw, present := post.Meta["tags"]
		if !present {
			return
		}

		var renamed []any
		if scalar, isStr := raw.(string); isStr {
			if scalar != oldTag {
				return
			}
			renamed = []any{newTag}
		} else {
			items, isList := listItems(raw)
			if !isList {
				return
			}
			var changed bool
			renamed, changed = renameInList(items, oldTag, newTag)
			if !changed {
				return
			}
		}

		post.Meta["tags"] = renamed
		if saveErr := s.store.Save(path, post); saveErr != nil {
			res.Errors = append(res.Errors, models.FileError{FilePath: path, Error: saveErr.Error()})
			return
		}
		res.ModifiedFiles = append(res.ModifiedFiles, path)
	})
	if err != nil {
		return nil, err
	}
	res.FilesScanned = scanned
	return res, nil
}

// ValidateDates audits one frontmatter field against a strftime format.
// The audit performs no writes. Files missing the field are skipped; string
// values that fail to parse, and values that are neither strings nor native
// dates, are reported. Native YAML timestamps are inherently valid.
func (s *Service) ValidateDates(root, field, format string, recursive bool) (*DateValidationResult, error) {
	layout, err := strftime.Layout(format)
	if err != nil {
		return nil, fmt.Errorf("invalid date format %q: %w", format, err)
	}

	res := &DateValidationResult{
		DirectoryPath:  root,
		FieldName:      field,
		ExpectedFormat: format,
		Recursive:      recursive,
		InvalidEntries: []InvalidDate{},
	}

	scanned, err := s.walk(root, recursive, func(path string, post *models.Post, loadErr error) {
		if loadErr != nil {
			res.InvalidEntries = append(res.InvalidEntries, InvalidDate{
				FilePath: path,
				Value:    "N/A - Load Error",
				Error:    fmt.Sprintf("file load error: %v", loadErr),
			})
			return
		}

		raw, present := post.Meta[field]
		if !present {
			return
		}
		res.FilesWithField++

		switch v := raw.(type) {
		case string:
			if _, parseErr := time.Parse(layout, v); parseErr != nil {
				res.InvalidEntries = append(res.InvalidEntries, InvalidDate{
					FilePath: path,
					Value:    v,
					Error:    parseErr.Error(),
				})
			}
		case time.Time:
			// Already a structured date; nothing to check.
		default:
			res.InvalidEntries = append(res.InvalidEntries, InvalidDate{
				FilePath: path,
				Value:    fmt.Sprintf("%v", v),
				Error:    fmt.Sprintf("field value is not a string or date object (type: %s)", models.Classify(raw, present)),
			})
		}
	})
	if err != nil {
		return nil, err
	}
	res.FilesScanned = scanned
	return res, nil
}

// listItems normalises the two in-memory list shapes to []any.
func listItems(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case []string:
		return models.ToAnyList(val), true
	}
	return nil, false
}

// renameInList drops every string element equal to oldTag and appends
// newTag once unless a string element already carries it. Non-string
// elements keep their positions. changed is false when oldTag never
// occurred, in which case the list must not be rewritten.
func renameInList(items []any, oldTag, newTag string) (out []any, changed bool) {
	hasNew := false
	out = make([]any, 0, len(items))
	for _, item := range items {
		s, isStr := item.(string)
		if isStr && s == oldTag {
			changed = true
			continue
		}
		if isStr && s == newTag {
			hasNew = true
		}
		out = append(out, item)
	}
	if !changed {
		return nil, false
	}
	if !hasNew {
		out = append(out, newTag)
	}
	return out, true
}
