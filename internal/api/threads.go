package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lumian-ai/sellerchat/internal/log"
	"github.com/lumian-ai/sellerchat/internal/thread"
)

// threadsHandler exposes thread CRUD and item history.
type threadsHandler struct {
	store  thread.Store
	logger log.Logger
}

// create makes a new empty thread.
func (h *threadsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	// An empty body is fine; the title is optional.
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&req)

	th := thread.NewThread(req.Title)
	if err := h.store.SaveThread(r.Context(), th); err != nil {
		h.logger.Error("creating thread", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create thread", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, th, h.logger)
}

// get returns thread metadata.
func (h *threadsHandler) get(w http.ResponseWriter, r *http.Request) {
	th, err := h.store.Thread(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, thread.ErrThreadNotFound) {
			writeError(w, http.StatusNotFound, "thread_not_found", "thread not found", h.logger)
			return
		}
		h.logger.Error("loading thread", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load thread", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, th, h.logger)
}

// items lists thread items. Query parameters: after (exclusive item ID
// cursor), limit, order (asc or desc, default asc).
func (h *threadsHandler) items(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("id")
	q := r.URL.Query()

	var after *string
	if cursor := q.Get("after"); cursor != "" {
		after = &cursor
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer", h.logger)
			return
		}
		limit = n
	}

	order := thread.OrderAsc
	if raw := q.Get("order"); raw != "" {
		order = thread.Order(raw)
		if order != thread.OrderAsc && order != thread.OrderDesc {
			writeError(w, http.StatusBadRequest, "invalid_order", "order must be asc or desc", h.logger)
			return
		}
	}

	items, err := h.store.Items(r.Context(), threadID, after, limit, order)
	if err != nil {
		if errors.Is(err, thread.ErrThreadNotFound) {
			writeError(w, http.StatusNotFound, "thread_not_found", "thread not found", h.logger)
			return
		}
		h.logger.Error("listing thread items", "thread_id", threadID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list items", h.logger)
		return
	}

	envelopes := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, err := thread.MarshalItem(item)
		if err != nil {
			h.logger.Error("marshaling thread item", "item_id", item.Meta().ID, "error", err)
			continue
		}
		envelopes = append(envelopes, data)
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": envelopes}, h.logger)
}
