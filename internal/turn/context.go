package turn

import (
	"context"
	"fmt"
	"sync"

	"github.com/lumian-ai/sellerchat/internal/thread"
)

// Context carries the per-turn state shared between the orchestrator and
// the tools: the thread, the item store, request metadata, the output
// stream, and the single pending client action slot.
//
// A Context is created for each turn and never shared across turns, so
// concurrent turns cannot observe each other's pending actions.
type Context struct {
	thread *thread.Thread
	store  thread.Store
	meta   map[string]any
	emit   func(item thread.Item) error

	mu      sync.Mutex
	pending *ClientAction
}

// NewContext creates the per-turn context. emit forwards an item to the
// turn's output stream and may be called from tool handlers.
func NewContext(th *thread.Thread, store thread.Store, meta map[string]any, emit func(item thread.Item) error) *Context {
	return &Context{
		thread: th,
		store:  store,
		meta:   meta,
		emit:   emit,
	}
}

// Thread returns the thread this turn operates on.
func (c *Context) Thread() *thread.Thread { return c.thread }

// Store returns the thread item store.
func (c *Context) Store() thread.Store { return c.store }

// RequestMeta returns the caller-supplied request metadata.
func (c *Context) RequestMeta() map[string]any { return c.meta }

// StreamItem persists an item to the thread and forwards it to the
// turn's output stream.
func (c *Context) StreamItem(ctx context.Context, item thread.Item) error {
	if err := c.store.AddItem(ctx, item); err != nil {
		return fmt.Errorf("persist streamed item: %w", err)
	}
	if err := c.emit(item); err != nil {
		return fmt.Errorf("emit streamed item: %w", err)
	}
	return nil
}

// StreamWidget wraps a widget tree in a thread item and streams it.
func (c *Context) StreamWidget(ctx context.Context, w any, copyText string) error {
	return c.StreamItem(ctx, thread.NewWidgetItem(c.thread.ID, w, copyText))
}

// SetClientAction records the pending client tool call for this turn.
// At most one action survives the turn; a later call replaces an earlier
// one. The orchestrator reads and clears the slot after the model stream
// has finished.
func (c *Context) SetClientAction(name string, args map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &ClientAction{Name: name, Arguments: args}
}

// takeClientAction returns the pending action and clears the slot.
func (c *Context) takeClientAction() *ClientAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	action := c.pending
	c.pending = nil
	return action
}

// turnKey uses an empty struct for zero-allocation context keys.
type turnKey struct{}

// FromContext retrieves the per-turn Context. Returns nil when the call
// is not running inside a turn.
func FromContext(ctx context.Context) *Context {
	c, _ := ctx.Value(turnKey{}).(*Context)
	return c
}

// ContextWith stores the per-turn Context for tool handlers to retrieve.
func ContextWith(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, turnKey{}, c)
}
