// Package agent runs the streaming model agent behind a narrow Runner
// interface so the turn orchestrator can be tested with a fake.
package agent

import (
	"context"
	"errors"
)

// Sentinel errors for agent operations.
var (
	// ErrExecutionFailed indicates model generation failed.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrRateLimited indicates the request was rejected by the rate limiter.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelUnavailable indicates the model backend is unreachable.
	ErrModelUnavailable = errors.New("model unavailable")
)

// Input is a single turn's input for the agent.
type Input struct {
	ThreadID string
	Text     string
}

// Response is the final result of an agent run.
type Response struct {
	Text string
}

// StreamCallback is called for each partial text chunk as the model
// generates it. Returning an error aborts the run.
type StreamCallback func(ctx context.Context, text string) error

// Runner executes one agent turn with streaming output. Tool calls happen
// inside Run; tools read their per-turn state from ctx.
type Runner interface {
	Run(ctx context.Context, input Input, cb StreamCallback) (*Response, error)
}
