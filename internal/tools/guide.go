package tools

import (
	"strconv"

	"github.com/firebase/genkit/go/ai"

	"github.com/lumian-ai/sellerchat/internal/turn"
	"github.com/lumian-ai/sellerchat/internal/widget"
)

// ShowStructuredGuideInput carries the guide steps in display order.
type ShowStructuredGuideInput struct {
	Steps []widget.GuideStep `json:"steps" jsonschema_description:"Guide steps in display order, each with an optional inline image"`
}

// ShowStructuredGuideOutput reports what was rendered.
type ShowStructuredGuideOutput struct {
	Status     string     `json:"status"`
	StepCount  string     `json:"step_count,omitempty"`
	ImageCount string     `json:"image_count,omitempty"`
	Message    string     `json:"message"`
	Error      *ToolError `json:"error,omitempty"`
}

func (o *ShowStructuredGuideOutput) toolError() *ToolError {
	if o == nil {
		return nil
	}
	return o.Error
}

// ShowStructuredGuide streams a step-by-step guide widget with inline
// images into the thread.
func (k *Kit) ShowStructuredGuide(ctx *ai.ToolContext, input ShowStructuredGuideInput) (*ShowStructuredGuideOutput, error) {
	tc := turn.FromContext(ctx.Context)
	if tc == nil {
		return nil, ErrNoActiveTurn
	}

	if len(input.Steps) == 0 {
		return &ShowStructuredGuideOutput{
			Status:  "no_steps",
			Message: "No steps to display",
		}, nil
	}

	root := widget.Guide(input.Steps)
	copyText := widget.GuideCopyText(input.Steps)
	if err := tc.StreamWidget(ctx.Context, root, copyText); err != nil {
		if ctx.Context.Err() != nil {
			return nil, err
		}
		k.logger.Error("streaming structured guide widget", "thread_id", tc.Thread().ID, "error", err)
		return &ShowStructuredGuideOutput{
			Status:  "error",
			Message: "Failed to display the guide",
			Error:   &ToolError{ErrorType: "DisplayFailed", Message: err.Error()},
		}, nil
	}

	images := 0
	for _, step := range input.Steps {
		if step.ImageURL != "" {
			images++
		}
	}

	steps := len(input.Steps)
	return &ShowStructuredGuideOutput{
		Status:     "success",
		StepCount:  strconv.Itoa(steps),
		ImageCount: strconv.Itoa(images),
		Message:    "Displayed " + strconv.Itoa(steps) + " steps with " + strconv.Itoa(images) + " images",
	}, nil
}
