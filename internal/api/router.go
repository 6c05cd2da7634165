package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/batch"
	"github.com/starford/fehu/internal/postservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(posts *postservice.Service, batchSvc *batch.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(posts, batchSvc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Single-post frontmatter operations.
	r.Get("/frontmatter", h.GetFrontmatter)
	r.Get("/frontmatter/field", h.GetField)
	r.Put("/frontmatter/fields/{field}", h.SetField)

	// List-field mutations.
	r.Post("/tags", h.AddTag)
	r.Delete("/tags", h.RemoveTag)
	r.Post("/images", h.AddImage)
	r.Delete("/images", h.RemoveImage)

	// Batch directory operations.
	r.Get("/directories/tags", h.ListTags)
	r.Get("/directories/posts", h.FindByTag)
	r.Post("/directories/tags/rename", h.RenameTag)
	r.Get("/directories/dates/validate", h.ValidateDates)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
