package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/lumian-ai/sellerchat/internal/log"
)

// GenkitConfig contains all required parameters for the Genkit runner.
type GenkitConfig struct {
	Genkit       *genkit.Genkit
	Logger       log.Logger
	Tools        []ai.Tool // Pre-registered tools from the tool kit

	// ModelName is the provider-qualified model name,
	// e.g. "googleai/gemini-2.5-flash".
	ModelName string

	// Instructions is the system prompt, including the SOP table of
	// contents.
	Instructions string

	// MaxTurns bounds the agentic tool-calling loop.
	MaxTurns int

	// RateLimiter proactively throttles model calls (nil = use default).
	RateLimiter *rate.Limiter
}

// validate checks if all required parameters are present.
func (cfg GenkitConfig) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if len(cfg.Tools) == 0 {
		return errors.New("at least one tool is required")
	}
	return nil
}

// GenkitRunner executes agent turns through Genkit's Generate API.
//
// All configuration is captured immutably at construction time to ensure
// thread-safe concurrent access.
type GenkitRunner struct {
	g            *genkit.Genkit
	logger       log.Logger
	modelName    string
	instructions string
	maxTurns     int
	rateLimiter  *rate.Limiter
	toolRefs     []ai.ToolRef
	toolNames    string // cached comma-separated list for logging
}

var _ Runner = (*GenkitRunner)(nil)

// NewGenkitRunner creates a runner with the given configuration.
func NewGenkitRunner(cfg GenkitConfig) (*GenkitRunner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 8
	}

	// Default: 10 requests/sec sustained, burst of 30.
	rl := cfg.RateLimiter
	if rl == nil {
		rl = rate.NewLimiter(10, 30)
	}

	// Cache tool refs and names at construction.
	toolRefs := make([]ai.ToolRef, len(cfg.Tools))
	names := make([]string, len(cfg.Tools))
	for i, t := range cfg.Tools {
		toolRefs[i] = t
		names[i] = t.Name()
	}

	r := &GenkitRunner{
		g:            cfg.Genkit,
		logger:       cfg.Logger,
		modelName:    cfg.ModelName,
		instructions: cfg.Instructions,
		maxTurns:     maxTurns,
		rateLimiter:  rl,
		toolRefs:     toolRefs,
		toolNames:    strings.Join(names, ", "),
	}

	r.logger.Info("agent runner initialized",
		"model", r.modelName,
		"totalTools", len(r.toolRefs),
		"maxTurns", r.maxTurns,
	)
	return r, nil
}

// Run executes one agent turn. Partial text is delivered through cb as
// the model generates it; the final text is returned after the agentic
// loop completes.
func (r *GenkitRunner) Run(ctx context.Context, input Input, cb StreamCallback) (*Response, error) {
	if err := r.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	r.logger.Debug("executing agent turn",
		"thread_id", input.ThreadID,
		"tools", r.toolNames,
		"queryLength", len(input.Text),
	)

	opts := []ai.GenerateOption{
		ai.WithSystem(r.instructions),
		ai.WithMessages(ai.NewUserMessage(ai.NewTextPart(input.Text))),
		ai.WithTools(r.toolRefs...),
		ai.WithMaxTurns(r.maxTurns),
	}
	if r.modelName != "" {
		opts = append(opts, ai.WithModelName(r.modelName))
	}
	if cb != nil {
		opts = append(opts, ai.WithStreaming(func(cctx context.Context, chunk *ai.ModelResponseChunk) error {
			text := chunk.Text()
			if text == "" {
				return nil
			}
			return cb(cctx, text)
		}))
	}

	resp, err := genkit.Generate(ctx, r.g, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}

	return &Response{Text: resp.Text()}, nil
}
