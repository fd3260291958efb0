package api

import (
	"errors"
	"net/http"

	"github.com/lumian-ai/sellerchat/internal/facts"
	"github.com/lumian-ai/sellerchat/internal/log"
)

// factsHandler exposes the saved-facts store for UI inspection and
// correction.
type factsHandler struct {
	store  *facts.Store
	logger log.Logger
}

// list returns all recorded facts, oldest first.
func (h *factsHandler) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"facts": h.store.List()}, h.logger)
}

// save marks a fact as saved.
func (h *factsHandler) save(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.store.Save)
}

// discard marks a fact as discarded.
func (h *factsHandler) discard(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.store.Discard)
}

func (h *factsHandler) setStatus(w http.ResponseWriter, r *http.Request, apply func(id string) error) {
	id := r.PathValue("id")
	if err := apply(id); err != nil {
		if errors.Is(err, facts.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fact_not_found", "fact not found", h.logger)
			return
		}
		h.logger.Error("updating fact status", "fact_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update fact", h.logger)
		return
	}

	fact, err := h.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "fact_not_found", "fact not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, fact, h.logger)
}
