package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/batch"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/postservice"
)

// Handler holds API route handlers.
type Handler struct {
	posts *postservice.Service
	batch *batch.Service
}

// NewHandler creates a new Handler.
func NewHandler(posts *postservice.Service, batchSvc *batch.Service) *Handler {
	return &Handler{posts: posts, batch: batchSvc}
}

// scalarFields maps the URL field segment to its frontmatter key and kind.
var scalarFields = map[string]struct {
	key  string
	kind models.ValueKind
}{
	"title":       {"title", models.KindString},
	"date":        {"date", models.KindString},
	"publishDate": {"publishDate", models.KindString},
	"description": {"description", models.KindString},
	"draft":       {"draft", models.KindBool},
}

// writeOpError maps a service error onto an HTTP status with the
// structured {error, file_path} body shared with the MCP surface.
func writeOpError(w http.ResponseWriter, err error, filePath string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidPath),
		errors.Is(err, apperr.ErrTypeMismatch),
		errors.Is(err, apperr.ErrNotAList),
		errors.Is(err, apperr.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error(), filePath))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error(), filePath))
	case errors.Is(err, apperr.ErrParse):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error(), filePath))
	default:
		slog.Error("operation failed", slog.String("path", filePath), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error(), filePath))
	}
}

// recursiveParam parses the ?recursive= query flag, defaulting to true.
func recursiveParam(r *http.Request) bool {
	raw := r.URL.Query().Get("recursive")
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

// GetFrontmatter handles GET /frontmatter.
//
//	@Summary	Read the full frontmatter of one post
//	@Tags		posts
//	@Produce	json
//	@Param		path	query	string	true	"Absolute file path"
//	@Security	BearerAuth
//	@Router		/frontmatter [get]
func (h *Handler) GetFrontmatter(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required", ""))
		return
	}
	post, err := h.posts.GetFrontmatter(path)
	if err != nil {
		writeOpError(w, err, path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path":   path,
		"frontmatter": post.Meta,
	})
}

// GetField handles GET /frontmatter/field.
//
//	@Summary	Read one frontmatter field
//	@Tags		posts
//	@Produce	json
//	@Param		path	query	string	true	"Absolute file path"
//	@Param		name	query	string	true	"Field name"
//	@Security	BearerAuth
//	@Router		/frontmatter/field [get]
func (h *Handler) GetField(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path, name := q.Get("path"), q.Get("name")
	if path == "" || name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameters 'path' and 'name' are required", ""))
		return
	}
	value, exists, err := h.posts.GetField(path, name)
	if err != nil {
		writeOpError(w, err, path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path": path,
		"field":     name,
		"value":     value,
		"exists":    exists,
	})
}

// SetField handles PUT /frontmatter/fields/{field}.
//
//	@Summary	Set a typed scalar frontmatter field
//	@Tags		posts
//	@Accept		json
//	@Produce	json
//	@Param		field	path	string			true	"Field name"	Enums(title, date, publishDate, description, draft)
//	@Param		body	body	SetFieldRequest	true	"Path and new value"
//	@Security	BearerAuth
//	@Router		/frontmatter/fields/{field} [put]
func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	spec, ok := scalarFields[field]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown field: "+field, ""))
		return
	}

	var req SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body", ""))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error(), ""))
		return
	}

	update, err := h.posts.SetField(req.Path, spec.key, req.Value, spec.kind)
	if err != nil {
		writeOpError(w, err, req.Path)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

// modifyList handles the shared flow of the tag and image list routes.
func (h *Handler) modifyList(w http.ResponseWriter, r *http.Request, action postservice.ListAction, field string) {
	var req ListItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body", ""))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error(), ""))
		return
	}

	change, err := h.posts.ModifyList(action, req.Path, field, req.Item)
	if err != nil {
		writeOpError(w, err, req.Path)
		return
	}
	writeJSON(w, http.StatusOK, change.Payload())
}

// AddTag handles POST /tags.
//
//	@Summary	Add a tag to a post
//	@Tags		tags
//	@Accept		json
//	@Produce	json
//	@Param		body	body	ListItemRequest	true	"Path and tag"
//	@Security	BearerAuth
//	@Router		/tags [post]
func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	h.modifyList(w, r, postservice.ActionAdd, "tags")
}

// RemoveTag handles DELETE /tags.
func (h *Handler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	h.modifyList(w, r, postservice.ActionRemove, "tags")
}

// AddImage handles POST /images.
func (h *Handler) AddImage(w http.ResponseWriter, r *http.Request) {
	h.modifyList(w, r, postservice.ActionAdd, "images")
}

// RemoveImage handles DELETE /images.
func (h *Handler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	h.modifyList(w, r, postservice.ActionRemove, "images")
}

// ListTags handles GET /directories/tags.
//
//	@Summary	Count tags across a directory of posts
//	@Tags		batch
//	@Produce	json
//	@Param		path		query	string	true	"Absolute directory path"
//	@Param		recursive	query	bool	false	"Descend into subdirectories (default true)"
//	@Security	BearerAuth
//	@Router		/directories/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required", ""))
		return
	}
	res, err := h.batch.ListTags(path, recursiveParam(r))
	if err != nil {
		writeOpError(w, err, path)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// FindByTag handles GET /directories/posts.
//
//	@Summary	Find posts carrying a tag
//	@Tags		batch
//	@Produce	json
//	@Param		path		query	string	true	"Absolute directory path"
//	@Param		tag			query	string	true	"Tag to search for"
//	@Param		recursive	query	bool	false	"Descend into subdirectories (default true)"
//	@Security	BearerAuth
//	@Router		/directories/posts [get]
func (h *Handler) FindByTag(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path, tag := q.Get("path"), q.Get("tag")
	if path == "" || tag == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameters 'path' and 'tag' are required", ""))
		return
	}
	res, err := h.batch.FindByTag(path, tag, recursiveParam(r))
	if err != nil {
		writeOpError(w, err, path)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RenameTag handles POST /directories/tags/rename.
//
//	@Summary	Rename a tag across a directory of posts
//	@Tags		batch
//	@Accept		json
//	@Produce	json
//	@Param		body	body	RenameTagRequest	true	"Directory, old tag, new tag"
//	@Security	BearerAuth
//	@Router		/directories/tags/rename [post]
func (h *Handler) RenameTag(w http.ResponseWriter, r *http.Request) {
	var req RenameTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body", ""))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error(), ""))
		return
	}
	recursive := true
	if req.Recursive != nil {
		recursive = *req.Recursive
	}

	res, err := h.batch.RenameTag(req.Path, req.OldTag, req.NewTag, recursive)
	if err != nil {
		writeOpError(w, err, req.Path)
		return
	}
	if res.NoOp {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": res.Message,
			"old_tag": res.OldTag,
			"new_tag": res.NewTag,
		})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ValidateDates handles GET /directories/dates/validate.
//
//	@Summary	Audit a date field against a strftime format
//	@Tags		batch
//	@Produce	json
//	@Param		path		query	string	true	"Absolute directory path"
//	@Param		field		query	string	false	"Field to validate (default date)"
//	@Param		format		query	string	false	"strftime format (default %Y-%m-%d)"
//	@Param		recursive	query	bool	false	"Descend into subdirectories (default true)"
//	@Security	BearerAuth
//	@Router		/directories/dates/validate [get]
func (h *Handler) ValidateDates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required", ""))
		return
	}
	field := q.Get("field")
	if field == "" {
		field = "date"
	}
	format := q.Get("format")
	if format == "" {
		format = "%Y-%m-%d"
	}

	res, err := h.batch.ValidateDates(path, field, format, recursiveParam(r))
	if err != nil {
		writeOpError(w, err, path)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
