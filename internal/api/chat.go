package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/lumian-ai/sellerchat/internal/agent"
	"github.com/lumian-ai/sellerchat/internal/log"
	"github.com/lumian-ai/sellerchat/internal/thread"
	"github.com/lumian-ai/sellerchat/internal/turn"
)

// Responder executes one conversational turn and streams its events.
// Implemented by turn.Server; narrowed to an interface so handler tests
// can use a fake.
type Responder interface {
	Respond(ctx context.Context, th *thread.Thread, item thread.Item, meta map[string]any) iter.Seq2[turn.Event, error]
}

// chatHandler serves the streaming chat endpoint.
type chatHandler struct {
	responder Responder
	store     thread.Store
	logger    log.Logger
}

// SSE event types for chat streaming.
const (
	EventChunk          = "chunk"            // Partial assistant text
	EventItem           = "item"             // Thread item (widget, hidden context, message)
	EventToolStart      = "tool_start"       // Tool began executing
	EventToolComplete   = "tool_complete"    // Tool finished successfully
	EventToolError      = "tool_error"       // Tool execution failed
	EventClientToolCall = "client_tool_call" // Action the client must perform
	EventDone           = "done"             // Stream completed successfully
	EventError          = "error"            // Error occurred during streaming
)

// ChatRequest is the body of POST /v1/chat/stream.
type ChatRequest struct {
	ThreadID string `json:"threadId,omitempty"`
	Message  string `json:"message"`
}

// ChunkPayload is the SSE data payload for streaming text chunks.
type ChunkPayload struct {
	Text string `json:"text"`
}

// ItemPayload is the SSE data payload for thread items. Item carries the
// tagged envelope produced by thread.MarshalItem.
type ItemPayload struct {
	Item json.RawMessage `json:"item"`
}

// ToolPayload is the SSE data payload for tool lifecycle events.
type ToolPayload struct {
	Name string `json:"name"`
}

// DonePayload is the SSE data payload when streaming completes successfully.
type DonePayload struct {
	ThreadID string `json:"threadId"`
	Response string `json:"response"`
}

// ErrorPayload is the SSE data payload when an error occurs.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stream handles SSE streaming chat requests. It appends the user message
// to the thread (creating the thread when no ID is given), runs a turn,
// and relays the turn's events to the client.
func (h *chatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var req ChatRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1024*1024) // Limit request size to 1MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{
			Code:    "INVALID_REQUEST",
			Message: "Invalid request body",
		})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{Code: "MISSING_MESSAGE", Message: "message is required"})
		return
	}

	ctx := r.Context()

	th, err := h.loadOrCreateThread(ctx, req.ThreadID)
	if err != nil {
		if errors.Is(err, thread.ErrThreadNotFound) {
			_ = writeEvent(w, flusher, EventError, ErrorPayload{Code: "THREAD_NOT_FOUND", Message: "thread not found"})
			return
		}
		h.logger.Error("loading thread", "thread_id", req.ThreadID, "error", err)
		_ = writeEvent(w, flusher, EventError, ErrorPayload{Code: "STORE_ERROR", Message: "failed to load thread"})
		return
	}

	userMsg := thread.NewUserMessage(th.ID, thread.TextPart(req.Message))
	if err := h.store.AddItem(ctx, userMsg); err != nil {
		h.logger.Error("appending user message", "thread_id", th.ID, "error", err)
		_ = writeEvent(w, flusher, EventError, ErrorPayload{Code: "STORE_ERROR", Message: "failed to store message"})
		return
	}

	h.logger.Debug("SSE stream started", "thread_id", th.ID)

	var (
		response  strings.Builder
		streamErr error
	)

	for ev, err := range h.responder.Respond(ctx, th, userMsg, nil) {
		select {
		case <-ctx.Done():
			h.logger.Info("client disconnected", "thread_id", th.ID)
			return
		default:
		}

		if err != nil {
			streamErr = err
			break
		}

		if writeErr := h.relayEvent(w, flusher, ev); writeErr != nil {
			h.logger.Error("failed to write event", "err", writeErr)
			return // Write failure usually means connection closed
		}
		if ev.Type == turn.EventText {
			response.WriteString(ev.Text)
		}
	}

	if streamErr != nil {
		h.handleStreamError(w, flusher, streamErr)
		return
	}

	_ = writeEvent(w, flusher, EventDone, DonePayload{
		ThreadID: th.ID,
		Response: response.String(),
	})

	h.logger.Info("SSE stream completed", "thread_id", th.ID)
}

// loadOrCreateThread fetches the thread by ID, or creates a fresh one
// when no ID is given.
func (h *chatHandler) loadOrCreateThread(ctx context.Context, threadID string) (*thread.Thread, error) {
	if threadID != "" {
		return h.store.Thread(ctx, threadID)
	}

	th := thread.NewThread("")
	if err := h.store.SaveThread(ctx, th); err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}
	return th, nil
}

// relayEvent maps one turn event to its SSE representation.
func (h *chatHandler) relayEvent(w io.Writer, f http.Flusher, ev turn.Event) error {
	switch ev.Type {
	case turn.EventText:
		return writeEvent(w, f, EventChunk, ChunkPayload{Text: ev.Text})

	case turn.EventItem:
		data, err := thread.MarshalItem(ev.Item)
		if err != nil {
			// Skip the item rather than kill the stream.
			h.logger.Error("failed to marshal thread item", "error", err)
			return nil
		}
		return writeEvent(w, f, EventItem, ItemPayload{Item: data})

	case turn.EventToolStart:
		return writeEvent(w, f, EventToolStart, ToolPayload{Name: ev.ToolName})

	case turn.EventToolComplete:
		return writeEvent(w, f, EventToolComplete, ToolPayload{Name: ev.ToolName})

	case turn.EventToolError:
		return writeEvent(w, f, EventToolError, ToolPayload{Name: ev.ToolName})

	case turn.EventClientAction:
		return writeEvent(w, f, EventClientToolCall, ev.Action)

	default:
		h.logger.Warn("unknown turn event type", "type", ev.Type)
		return nil
	}
}

// handleStreamError maps turn errors to SSE error events.
func (*chatHandler) handleStreamError(w io.Writer, f http.Flusher, err error) {
	code := "STREAM_ERROR"

	switch {
	case errors.Is(err, turn.ErrAttachmentsUnsupported):
		code = "ATTACHMENTS_UNSUPPORTED"
	case errors.Is(err, agent.ErrExecutionFailed):
		code = "EXECUTION_FAILED"
	case errors.Is(err, agent.ErrRateLimited):
		code = "RATE_LIMITED"
	case errors.Is(err, agent.ErrModelUnavailable):
		code = "MODEL_UNAVAILABLE"
	}

	_ = writeEvent(w, f, EventError, ErrorPayload{
		Code:    code,
		Message: err.Error(),
	})
}

// writeEvent writes a single SSE event with JSON-encoded data.
// SSE format: "event: <type>\ndata: <json>\n\n"
func writeEvent[T any](w io.Writer, flusher http.Flusher, event string, data T) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	flusher.Flush()
	return nil
}
