// Package turn orchestrates one conversational turn: it resolves the
// agent input from the thread, runs the streaming model agent, relays
// text chunks and thread items to the caller, and surfaces the pending
// client tool call after the model stream has finished.
package turn

import (
	"context"
	"errors"
	"iter"

	"github.com/lumian-ai/sellerchat/internal/agent"
	"github.com/lumian-ai/sellerchat/internal/log"
	"github.com/lumian-ai/sellerchat/internal/thread"
)

// ServerConfig contains the required dependencies for a Server.
type ServerConfig struct {
	Runner agent.Runner
	Store  thread.Store
	Logger log.Logger

	// Converter optionally overrides the built-in item-to-input
	// conversion. See Converter for the probed capabilities.
	Converter Converter
}

// Server executes turns. It is stateless across turns; all per-turn
// state lives in the Context created inside Respond, so concurrent
// turns are fully isolated.
type Server struct {
	runner    agent.Runner
	store     thread.Store
	logger    log.Logger
	converter Converter
}

// NewServer creates a turn server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Runner == nil {
		return nil, errors.New("runner is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Server{
		runner:    cfg.Runner,
		store:     cfg.Store,
		logger:    cfg.Logger,
		converter: cfg.Converter,
	}, nil
}

// eventBuffer sizes the channel between the runner goroutine and the
// consumer. Tools block on emit only when the consumer falls this far
// behind.
const eventBuffer = 16

// chanEmitter forwards tool lifecycle events into the turn's event
// channel.
type chanEmitter struct {
	ctx    context.Context //nolint:containedctx // bound to a single turn
	events chan<- Event
}

func (e *chanEmitter) send(ev Event) {
	select {
	case e.events <- ev:
	case <-e.ctx.Done():
	}
}

func (e *chanEmitter) OnToolStart(name string)    { e.send(Event{Type: EventToolStart, ToolName: name}) }
func (e *chanEmitter) OnToolComplete(name string) { e.send(Event{Type: EventToolComplete, ToolName: name}) }
func (e *chanEmitter) OnToolError(name string)    { e.send(Event{Type: EventToolError, ToolName: name}) }

var _ ToolEventEmitter = (*chanEmitter)(nil)

// Respond executes one turn and returns its event stream.
//
// The target item is the explicit item when non-nil, otherwise the
// thread's latest item; a store failure there resolves to no target and
// the turn is skipped. A skipped turn yields nothing.
//
// Tool failures never abort the turn; they surface to the model as tool
// errors. Resolver and runner failures terminate the sequence with an
// error. After a successful run the final assistant message is persisted
// and yielded, followed by the pending client action, if any, exactly
// once.
func (s *Server) Respond(ctx context.Context, th *thread.Thread, item thread.Item, meta map[string]any) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		target := item
		if target == nil {
			latest, err := thread.Latest(ctx, s.store, th.ID)
			if err != nil {
				// Treated as "nothing to respond to" rather than a failure.
				s.logger.Warn("loading latest thread item", "thread_id", th.ID, "error", err)
				latest = nil
			}
			target = latest
		}

		input, ok, err := resolveInput(ctx, s.converter, th, target)
		if err != nil {
			s.logger.Error("resolving agent input", "thread_id", th.ID, "error", err)
			yield(Event{}, err)
			return
		}
		if !ok {
			s.logger.Debug("turn skipped", "thread_id", th.ID)
			return
		}

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		events := make(chan Event, eventBuffer)

		tc := NewContext(th, s.store, meta, func(it thread.Item) error {
			select {
			case events <- Event{Type: EventItem, Item: it}:
				return nil
			case <-runCtx.Done():
				return runCtx.Err()
			}
		})
		runCtx = ContextWith(runCtx, tc)
		runCtx = ContextWithEmitter(runCtx, &chanEmitter{ctx: runCtx, events: events})

		type runResult struct {
			resp *agent.Response
			err  error
		}
		resCh := make(chan runResult, 1)

		go func() {
			defer close(events)
			resp, err := s.runner.Run(runCtx, agent.Input{ThreadID: th.ID, Text: input}, func(cctx context.Context, text string) error {
				select {
				case events <- Event{Type: EventText, Text: text}:
					return nil
				case <-cctx.Done():
					return cctx.Err()
				}
			})
			resCh <- runResult{resp, err}
		}()

		for ev := range events {
			if !yield(ev, nil) {
				cancel()
				for range events { // drain until the runner goroutine exits
				}
				<-resCh
				return
			}
		}

		res := <-resCh
		if res.err != nil {
			s.logger.Error("agent run failed", "thread_id", th.ID, "error", res.err)
			yield(Event{}, res.err)
			return
		}

		if res.resp.Text != "" {
			msg := thread.NewAssistantMessage(th.ID, res.resp.Text)
			if err := s.store.AddItem(ctx, msg); err != nil {
				// Best-effort: the client already has the streamed text.
				s.logger.Warn("persisting assistant message", "thread_id", th.ID, "error", err)
			}
			if !yield(Event{Type: EventItem, Item: msg}, nil) {
				return
			}
		}

		if action := tc.takeClientAction(); action != nil {
			yield(Event{Type: EventClientAction, Action: action}, nil)
		}
	}
}
