package turn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lumian-ai/sellerchat/internal/thread"
)

// ErrAttachmentsUnsupported indicates the target message carries file
// attachments, which this server does not ingest. The error is fatal for
// the turn.
var ErrAttachmentsUnsupported = errors.New("file attachments are not supported")

// Converter optionally turns a thread item into agent input, overriding
// the built-in user-message conversion. A converter is probed for the
// following capabilities, in order, first match wins:
//
//	ToInputItem(ctx, item, thread) / ToInputItem(ctx, item)
//	Convert(ctx, item, thread) / Convert(ctx, item)
//	ConvertItem(ctx, item, thread) / ConvertItem(ctx, item)
//	ConvertThreadItem(ctx, item, thread) / ConvertThreadItem(ctx, item)
//
// The matched method's result is used verbatim; its error fails the turn.
type Converter any

// convertInput runs the converter probe. found reports whether any
// capability matched.
func convertInput(ctx context.Context, conv Converter, th *thread.Thread, item thread.Item) (input string, found bool, err error) {
	if conv == nil {
		return "", false, nil
	}

	switch c := conv.(type) {
	case interface {
		ToInputItem(context.Context, thread.Item, *thread.Thread) (string, error)
	}:
		input, err = c.ToInputItem(ctx, item, th)
	case interface {
		ToInputItem(context.Context, thread.Item) (string, error)
	}:
		input, err = c.ToInputItem(ctx, item)
	case interface {
		Convert(context.Context, thread.Item, *thread.Thread) (string, error)
	}:
		input, err = c.Convert(ctx, item, th)
	case interface {
		Convert(context.Context, thread.Item) (string, error)
	}:
		input, err = c.Convert(ctx, item)
	case interface {
		ConvertItem(context.Context, thread.Item, *thread.Thread) (string, error)
	}:
		input, err = c.ConvertItem(ctx, item, th)
	case interface {
		ConvertItem(context.Context, thread.Item) (string, error)
	}:
		input, err = c.ConvertItem(ctx, item)
	case interface {
		ConvertThreadItem(context.Context, thread.Item, *thread.Thread) (string, error)
	}:
		input, err = c.ConvertThreadItem(ctx, item, th)
	case interface {
		ConvertThreadItem(context.Context, thread.Item) (string, error)
	}:
		input, err = c.ConvertThreadItem(ctx, item)
	default:
		return "", false, nil
	}

	if err != nil {
		return "", true, fmt.Errorf("convert thread item: %w", err)
	}
	return input, true, nil
}

// resolveInput determines the agent input for a turn.
//
// ok=false means the turn is skipped without error: no target item, the
// target is a completed client tool call, or no conversion applies.
func resolveInput(ctx context.Context, conv Converter, th *thread.Thread, item thread.Item) (input string, ok bool, err error) {
	if item == nil {
		return "", false, nil
	}
	if _, completed := item.(*thread.ClientToolCall); completed {
		return "", false, nil
	}

	if converted, found, err := convertInput(ctx, conv, th, item); found {
		if err != nil {
			return "", false, err
		}
		return converted, true, nil
	}

	msg, isUser := item.(*thread.UserMessage)
	if !isUser {
		return "", false, nil
	}
	if len(msg.Attachments) > 0 {
		return "", false, ErrAttachmentsUnsupported
	}
	return userMessageText(msg), true, nil
}

// userMessageText joins the text parts of a user message with single
// spaces and trims the result.
func userMessageText(msg *thread.UserMessage) string {
	var parts []string
	for _, p := range msg.Parts {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
