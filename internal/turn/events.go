package turn

import (
	"context"

	"github.com/lumian-ai/sellerchat/internal/thread"
)

// EventType represents the type of event yielded by Server.Respond.
type EventType int

const (
	// EventText is a partial assistant text chunk.
	EventText EventType = iota

	// EventItem is a thread item produced during the turn (widgets,
	// hidden context, the final assistant message).
	EventItem

	// EventToolStart signals a tool began executing.
	EventToolStart

	// EventToolComplete signals a tool finished successfully.
	EventToolComplete

	// EventToolError signals a tool execution failed.
	EventToolError

	// EventClientAction is the pending client tool call, emitted at most
	// once after the model stream has finished.
	EventClientAction
)

// Event is a single element of the turn's output stream.
type Event struct {
	Type     EventType
	Text     string
	Item     thread.Item
	ToolName string
	Action   *ClientAction
}

// ClientAction is a tool invocation the client must perform, such as
// switching the UI theme.
type ClientAction struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// emitterKey uses an empty struct for zero-allocation context keys.
type emitterKey struct{}

// ToolEventEmitter receives tool lifecycle events. The interface is
// minimal so tools stay decoupled from the transport relaying the events.
type ToolEventEmitter interface {
	OnToolStart(name string)
	OnToolComplete(name string)
	OnToolError(name string)
}

// EmitterFromContext retrieves the ToolEventEmitter from context.
// Returns nil if not set; callers degrade gracefully by emitting nothing.
func EmitterFromContext(ctx context.Context) ToolEventEmitter {
	emitter, _ := ctx.Value(emitterKey{}).(ToolEventEmitter)
	return emitter
}

// ContextWithEmitter stores a ToolEventEmitter in context.
func ContextWithEmitter(ctx context.Context, emitter ToolEventEmitter) context.Context {
	return context.WithValue(ctx, emitterKey{}, emitter)
}
