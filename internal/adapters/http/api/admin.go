// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// Reindexer rebuilds the similarity index from the corpus directory.
// Implementations that also satisfy Dependencies get the reindex route
// registered; others simply don't expose it.
type Reindexer interface {
	Reindex(ctx context.Context) error
}

// AdminHandler handles operational requests that mutate service state.
type AdminHandler struct {
	reindexer Reindexer
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(reindexer Reindexer) *AdminHandler {
	return &AdminHandler{reindexer: reindexer}
}

// HandleReindex handles POST /api/reindex requests. It re-scans the
// corpus directory and rebuilds the index, so matches dropped into the
// directory after startup become searchable without a restart.
func (h *AdminHandler) HandleReindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}

	if err := h.reindexer.Reindex(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reindex_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reindexed"})
}
