package tools

import (
	"strconv"

	"github.com/firebase/genkit/go/ai"

	"github.com/lumian-ai/sellerchat/internal/turn"
	"github.com/lumian-ai/sellerchat/internal/widget"
)

// ShowReferenceImagesInput lists the image URLs to display.
type ShowReferenceImagesInput struct {
	ImageURLs []string `json:"image_urls" jsonschema_description:"Image URLs to display, numbered in the order given"`
}

// ShowReferenceImagesOutput reports what was rendered.
type ShowReferenceImagesOutput struct {
	Status     string     `json:"status"`
	ImageCount string     `json:"image_count,omitempty"`
	Message    string     `json:"message"`
	Error      *ToolError `json:"error,omitempty"`
}

func (o *ShowReferenceImagesOutput) toolError() *ToolError {
	if o == nil {
		return nil
	}
	return o.Error
}

// ShowReferenceImages streams a numbered image gallery widget into the
// thread.
func (k *Kit) ShowReferenceImages(ctx *ai.ToolContext, input ShowReferenceImagesInput) (*ShowReferenceImagesOutput, error) {
	tc := turn.FromContext(ctx.Context)
	if tc == nil {
		return nil, ErrNoActiveTurn
	}

	if len(input.ImageURLs) == 0 {
		return &ShowReferenceImagesOutput{
			Status:  "no_images",
			Message: "No images to display",
		}, nil
	}

	root := widget.Gallery(input.ImageURLs)
	copyText := widget.GalleryCopyText(input.ImageURLs)
	if err := tc.StreamWidget(ctx.Context, root, copyText); err != nil {
		if ctx.Context.Err() != nil {
			return nil, err
		}
		k.logger.Error("streaming reference images widget", "thread_id", tc.Thread().ID, "error", err)
		return &ShowReferenceImagesOutput{
			Status:  "error",
			Message: "Failed to display the reference images",
			Error:   &ToolError{ErrorType: "DisplayFailed", Message: err.Error()},
		}, nil
	}

	n := len(input.ImageURLs)
	return &ShowReferenceImagesOutput{
		Status:     "success",
		ImageCount: strconv.Itoa(n),
		Message:    "Displayed " + strconv.Itoa(n) + " reference images",
	}, nil
}
