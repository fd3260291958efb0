package tools

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/firebase/genkit/go/ai"

	"github.com/lumian-ai/sellerchat/internal/sop"
)

// GetSOPInput identifies the SOP document to retrieve.
type GetSOPInput struct {
	SOPID string `json:"sop_id" jsonschema_description:"Identifier of the SOP document, as listed in the SOP library"`
}

// GetSOPOutput carries the SOP content back to the model. Counts are
// strings so the model treats them as opaque display values.
type GetSOPOutput struct {
	SOPID      string     `json:"sop_id"`
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	Content    string     `json:"content"`
	ImageURLs  []string   `json:"image_urls"`
	ImageCount string     `json:"image_count"`
	Error      *ToolError `json:"error,omitempty"`
}

func (o *GetSOPOutput) toolError() *ToolError {
	if o == nil {
		return nil
	}
	return o.Error
}

// GetSOP fetches an SOP document with presigned image URLs. The content
// is returned to the model only; nothing is streamed to the client.
// Lookup failures go back to the model in the output so it can correct
// the ID or explain; only context cancellation returns a Go error.
func (k *Kit) GetSOP(ctx *ai.ToolContext, input GetSOPInput) (*GetSOPOutput, error) {
	doc, err := k.documents.Document(ctx.Context, input.SOPID)
	if err != nil {
		if ctx.Context.Err() != nil {
			return nil, err
		}
		if errors.Is(err, sop.ErrNotFound) {
			return &GetSOPOutput{SOPID: input.SOPID, Error: &ToolError{
				ErrorType: "SOPNotFound",
				Message:   fmt.Sprintf("SOP '%s' not found in the library. Please check the SOP ID and try again.", input.SOPID),
			}}, nil
		}
		k.logger.Error("retrieving SOP", "sop_id", input.SOPID, "error", err)
		return &GetSOPOutput{SOPID: input.SOPID, Error: &ToolError{
			ErrorType: "SOPUnavailable",
			Message:   fmt.Sprintf("failed to retrieve SOP '%s': %v", input.SOPID, err),
		}}, nil
	}

	k.logger.Debug("retrieved SOP", "sop_id", doc.ID, "images", len(doc.Images))

	return &GetSOPOutput{
		SOPID:      doc.ID,
		Title:      doc.Title,
		Category:   doc.Category,
		Content:    doc.Content,
		ImageURLs:  doc.Images,
		ImageCount: strconv.Itoa(len(doc.Images)),
	}, nil
}
