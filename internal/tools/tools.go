// Package tools provides the agent tool kit: SOP retrieval, reference
// image galleries, structured guides, theme switching, weather lookup,
// and best-effort fact capture.
//
// Tool handlers read their per-turn state (thread, output stream, pending
// client action slot) from the context via the turn package. Handlers are
// wrapped with WithEvents so tool lifecycle events reach the client.
package tools

import (
	"context"
	"errors"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/lumian-ai/sellerchat/internal/facts"
	"github.com/lumian-ai/sellerchat/internal/log"
	"github.com/lumian-ai/sellerchat/internal/sop"
	"github.com/lumian-ai/sellerchat/internal/turn"
	"github.com/lumian-ai/sellerchat/internal/weather"
)

// ErrNoActiveTurn indicates a tool was invoked outside a turn, so no
// per-turn context is available.
var ErrNoActiveTurn = errors.New("no active turn")

// ToolError is a structured business failure returned to the model inside
// the tool output. Genkit aborts the whole generate call when a handler
// returns a Go error, so handlers reserve Go errors for context
// cancellation and report everything else here, where the model can read
// the message and retry or explain.
type ToolError struct {
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e == nil {
		return "<nil ToolError>"
	}
	if e.ErrorType == "" {
		return e.Message
	}
	return e.ErrorType + ": " + e.Message
}

// businessError extracts the business failure carried by a tool output,
// if the output type exposes one.
func businessError(result any) *ToolError {
	r, ok := result.(interface{ toolError() *ToolError })
	if !ok {
		return nil
	}
	return r.toolError()
}

// DocumentStore fetches SOP documents. Defined on the consumer side so
// tests can substitute a fake for the S3-backed client.
type DocumentStore interface {
	Document(ctx context.Context, sopID string) (*sop.Document, error)
}

// Config holds all required dependencies for the Kit.
type Config struct {
	Documents DocumentStore
	Weather   weather.Provider
	Facts     *facts.Store
	Logger    log.Logger
}

// Kit provides the tool collection for the seller assistant agent.
type Kit struct {
	documents DocumentStore
	weather   weather.Provider
	facts     *facts.Store
	logger    log.Logger
}

// NewKit creates a tool kit with all required dependencies.
func NewKit(cfg Config) (*Kit, error) {
	if cfg.Documents == nil {
		return nil, errors.New("document store is required")
	}
	if cfg.Weather == nil {
		return nil, errors.New("weather provider is required")
	}
	if cfg.Facts == nil {
		return nil, errors.New("fact store is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Kit{
		documents: cfg.Documents,
		weather:   cfg.Weather,
		facts:     cfg.Facts,
		logger:    cfg.Logger,
	}, nil
}

// Register registers all tools with Genkit and returns them for the
// runner's tool list.
func (k *Kit) Register(g *genkit.Genkit) ([]ai.Tool, error) {
	if g == nil {
		return nil, errors.New("genkit instance is required")
	}

	tools := []ai.Tool{
		genkit.DefineTool(g, "get_sop",
			"Retrieve internal SOP content for your reference. Returns the procedure text and image URLs. "+
				"This information is for your use only - do not display it to the user or mention SOP names.",
			WithEvents("get_sop", k.GetSOP)),

		genkit.DefineTool(g, "show_reference_images",
			"Display reference images to help the user understand the steps. Pass the image URLs you "+
				"collected from get_sop calls. Images will be numbered sequentially.",
			WithEvents("show_reference_images", k.ShowReferenceImages)),

		genkit.DefineTool(g, "show_structured_guide",
			"Display a structured step-by-step guide with inline images. Use this for multi-step procedures "+
				"where each step has associated images. Pass a list of steps with their descriptions and image URLs.",
			WithEvents("show_structured_guide", k.ShowStructuredGuide)),

		genkit.DefineTool(g, "switch_theme",
			"Switch the chat interface between light and dark color schemes.",
			WithEvents("switch_theme", k.SwitchTheme)),

		genkit.DefineTool(g, "get_weather",
			"Look up the current weather and upcoming forecast for a location and render an interactive "+
				"weather dashboard.",
			WithEvents("get_weather", k.GetWeather)),

		genkit.DefineTool(g, "save_fact",
			"Record a fact shared by the user so it is saved immediately.",
			WithEvents("save_fact", k.SaveFact)),
	}

	k.logger.Info("registered agent tools", "count", len(tools))
	return tools, nil
}

// WithEvents wraps a typed tool handler to emit lifecycle events.
//
// The wrapper retrieves the emitter from context (nil outside a turn, in
// which case it degrades to a plain pass-through), emits OnToolStart
// before execution and OnToolComplete or OnToolError after. A business
// failure in the output counts as a tool error even though the Go error
// is nil.
func WithEvents[In, Out any](name string, fn func(*ai.ToolContext, In) (Out, error)) func(*ai.ToolContext, In) (Out, error) {
	return func(ctx *ai.ToolContext, input In) (Out, error) {
		emitter := turn.EmitterFromContext(ctx.Context)

		if emitter != nil {
			emitter.OnToolStart(name)
		}

		result, err := fn(ctx, input)

		if emitter != nil {
			if err != nil || businessError(result) != nil {
				emitter.OnToolError(name)
			} else {
				emitter.OnToolComplete(name)
			}
		}

		return result, err
	}
}
