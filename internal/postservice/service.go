// Package postservice implements the single-file frontmatter operations.
package postservice

import (
	"fmt"
	"strings"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/store"
)

// ListAction selects the mutation applied by ModifyList.
type ListAction string

const (
	ActionAdd    ListAction = "add"
	ActionRemove ListAction = "remove"
)

// FieldUpdate is the result of a successful scalar field set.
type FieldUpdate struct {
	FilePath    string         `json:"file_path"`
	FieldName   string         `json:"field_name"`
	NewValue    any            `json:"new_value"`
	Message     string         `json:"message"`
	Frontmatter map[string]any `json:"updated_frontmatter"`
}

// ListChange is the result of a list-field mutation. NoOp is true when the
// requested state already held and no file write happened.
type ListChange struct {
	FilePath    string         `json:"file_path"`
	FieldName   string         `json:"field_name"`
	Action      ListAction     `json:"action"`
	ItemValue   string         `json:"item_value"`
	Message     string         `json:"message"`
	List        []string       `json:"-"`
	Frontmatter map[string]any `json:"updated_frontmatter"`
	NoOp        bool           `json:"-"`
}

// Service coordinates loads, pure metadata edits, and saves.
type Service struct {
	store store.Provider
}

// NewService creates a new post service.
func NewService(store store.Provider) *Service {
	return &Service{store: store}
}

// GetFrontmatter loads the post and returns its full metadata mapping.
func (s *Service) GetFrontmatter(path string) (*models.Post, error) {
	return s.store.Load(path)
}

// GetField returns the value of one frontmatter field and whether it exists.
func (s *Service) GetField(path, name string) (value any, exists bool, err error) {
	post, err := s.store.Load(path)
	if err != nil {
		return nil, false, err
	}
	value, exists = post.Meta[name]
	return value, exists, nil
}

// SetField type-checks value against want, then load-modify-saves the post.
// A kind mismatch fails before any file access; any load or save failure
// leaves the file untouched.
func (s *Service) SetField(path, name string, value any, want models.ValueKind) (*FieldUpdate, error) {
	got := models.Classify(value, true)
	if got != want {
		return nil, fmt.Errorf("%w: value for %q must be of type %s, got %s",
			apperr.ErrTypeMismatch, name, want, got)
	}

	post, err := s.store.Load(path)
	if err != nil {
		return nil, err
	}

	post.Meta[name] = value
	if err := s.store.Save(path, post); err != nil {
		return nil, err
	}

	return &FieldUpdate{
		FilePath:    path,
		FieldName:   name,
		NewValue:    value,
		Message:     fmt.Sprintf("Field %q updated and file saved successfully.", name),
		Frontmatter: post.Meta,
	}, nil
}

// ModifyList adds or removes an item on a list-of-strings field. Absent
// fields are treated as empty lists and a scalar string as a one-element
// list; any other shape is an apperr.ErrNotAList. Adding a present item or
// removing an absent one is a no-op success with zero file mutation.
// Removing deletes every occurrence of the item.
func (s *Service) ModifyList(action ListAction, path, field, item string) (*ListChange, error) {
	if strings.TrimSpace(item) == "" {
		return nil, fmt.Errorf("%w: item for %q must be a non-empty string", apperr.ErrInvalidArgument, field)
	}

	post, err := s.store.Load(path)
	if err != nil {
		return nil, err
	}

	raw, present := post.Meta[field]
	list, ok := models.AsStringList(raw, present)
	if !ok {
		return nil, fmt.Errorf("%w: field %q exists but is not a list (type: %s)",
			apperr.ErrNotAList, field, models.Classify(raw, present))
	}

	change := &ListChange{
		FilePath:    path,
		FieldName:   field,
		Action:      action,
		ItemValue:   item,
		Frontmatter: post.Meta,
	}

	switch action {
	case ActionAdd:
		if contains(list, item) {
			change.NoOp = true
			change.List = list
			change.Message = fmt.Sprintf("Item %q already exists in %q. No changes made.", item, field)
			return change, nil
		}
		list = append(list, item)
	case ActionRemove:
		if !contains(list, item) {
			change.NoOp = true
			change.List = list
			change.Message = fmt.Sprintf("Item %q not found in %q. No changes made.", item, field)
			return change, nil
		}
		list = removeAll(list, item)
	default:
		return nil, fmt.Errorf("invalid list action %q", action)
	}

	post.Meta[field] = models.ToAnyList(list)
	if err := s.store.Save(path, post); err != nil {
		return nil, err
	}

	verb := "added"
	if action == ActionRemove {
		verb = "removed"
	}
	change.List = list
	change.Message = fmt.Sprintf("Item %q %s for field %q. File saved.", item, verb, field)
	return change, nil
}

// Payload renders the wire shape of the change. The no-op variant keys the
// unchanged list under the field name itself.
func (c *ListChange) Payload() map[string]any {
	if c.NoOp {
		return map[string]any{
			"message":             c.Message,
			"file_path":           c.FilePath,
			c.FieldName:           c.List,
			"updated_frontmatter": c.Frontmatter,
		}
	}
	return map[string]any{
		"file_path":           c.FilePath,
		"field_name":          c.FieldName,
		"action":              string(c.Action),
		"item_value":          c.ItemValue,
		"message":             c.Message,
		"updated_frontmatter": c.Frontmatter,
	}
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}

// removeAll drops every occurrence of item, preserving the order of the rest.
func removeAll(list []string, item string) []string {
	out := list[:0]
	for _, s := range list {
		if s != item {
			out = append(out, s)
		}
	}
	return out
}
