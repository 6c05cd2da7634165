package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SetFieldRequest is the request body for the scalar field setters.
// Value is untyped JSON; the service enforces the field's expected kind.
type SetFieldRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Validate validates the set-field request.
func (r *SetFieldRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Value, validation.NotNil),
	)
}

// ListItemRequest is the request body for tag and image list mutations.
type ListItemRequest struct {
	Path string `json:"path"`
	Item string `json:"item"`
}

// Validate validates the list mutation request.
func (r *ListItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Item, validation.Required),
	)
}

// RenameTagRequest is the request body for the directory-wide tag rename.
type RenameTagRequest struct {
	Path      string `json:"path"`
	OldTag    string `json:"old_tag"`
	NewTag    string `json:"new_tag"`
	Recursive *bool  `json:"recursive,omitempty"`
}

// Validate validates the rename request.
func (r *RenameTagRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.OldTag, validation.Required),
		validation.Field(&r.NewTag, validation.Required),
	)
}
