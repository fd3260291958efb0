package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/lumian-ai/sellerchat/internal/log"
	"github.com/lumian-ai/sellerchat/internal/sop"
	"github.com/lumian-ai/sellerchat/internal/widget"
)

// DocumentStore fetches SOP documents for the preview endpoint.
type DocumentStore interface {
	Document(ctx context.Context, sopID string) (*sop.Document, error)
}

// sopsHandler serves SOP documents with a rendered widget preview so the
// UI can show a procedure outside a chat turn.
type sopsHandler struct {
	documents DocumentStore
	logger    log.Logger
}

func (h *sopsHandler) get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := h.documents.Document(r.Context(), id)
	if err != nil {
		if errors.Is(err, sop.ErrNotFound) {
			writeError(w, http.StatusNotFound, "sop_not_found", "SOP not found", h.logger)
			return
		}
		h.logger.Error("retrieving SOP", "sop_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to retrieve SOP", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sop":       doc,
		"widget":    widget.SOPCard(doc),
		"copy_text": widget.SOPCopyText(doc),
	}, h.logger)
}
