package turn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lumian-ai/sellerchat/internal/thread"
)

func TestResolveInput_SkipCases(t *testing.T) {
	t.Parallel()

	th := thread.NewThread("")
	ctx := context.Background()

	tests := []struct {
		name string
		item thread.Item
	}{
		{name: "nil item", item: nil},
		{name: "completed client tool call", item: thread.NewClientToolCall(th.ID, "switch_theme", nil)},
		{name: "assistant message", item: thread.NewAssistantMessage(th.ID, "hello")},
		{name: "hidden context", item: thread.NewHiddenContext(th.ID, "secret")},
		{name: "widget item", item: thread.NewWidgetItem(th.ID, map[string]any{}, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			input, ok, err := resolveInput(ctx, nil, th, tt.item)
			if err != nil {
				t.Fatalf("resolveInput() error = %v, want nil", err)
			}
			if ok {
				t.Errorf("resolveInput() ok = true, input = %q, want skip", input)
			}
		})
	}
}

func TestResolveInput_UserMessageText(t *testing.T) {
	t.Parallel()

	th := thread.NewThread("")
	msg := thread.NewUserMessage(th.ID,
		thread.TextPart("  hello"),
		thread.ContentPart{Kind: "image"},
		thread.TextPart("world  "),
	)

	input, ok, err := resolveInput(context.Background(), nil, th, msg)
	if err != nil {
		t.Fatalf("resolveInput() error = %v", err)
	}
	if !ok {
		t.Fatal("resolveInput() ok = false, want true")
	}
	if input != "hello world" {
		t.Errorf("resolveInput() input = %q, want %q", input, "hello world")
	}
}

func TestResolveInput_AttachmentsFatal(t *testing.T) {
	t.Parallel()

	th := thread.NewThread("")
	msg := thread.NewUserMessage(th.ID, thread.TextPart("see attached"))
	msg.Attachments = []thread.Attachment{{ID: "att_1"}}

	_, ok, err := resolveInput(context.Background(), nil, th, msg)
	if !errors.Is(err, ErrAttachmentsUnsupported) {
		t.Errorf("resolveInput() error = %v, want ErrAttachmentsUnsupported", err)
	}
	if ok {
		t.Error("resolveInput() ok = true, want false")
	}
}

// Converter fakes covering the probed capability set.

type toInputItemConverter struct{ calls []string }

func (c *toInputItemConverter) ToInputItem(_ context.Context, _ thread.Item, _ *thread.Thread) (string, error) {
	c.calls = append(c.calls, "ToInputItem3")
	return "from ToInputItem3", nil
}

// Convert should never be reached while ToInputItem exists.
func (c *toInputItemConverter) Convert(_ context.Context, _ thread.Item) (string, error) {
	c.calls = append(c.calls, "Convert2")
	return "from Convert2", nil
}

type convertOnlyConverter struct{}

func (convertOnlyConverter) Convert(_ context.Context, _ thread.Item) (string, error) {
	return "from Convert2", nil
}

type convertThreadItemConverter struct{}

func (convertThreadItemConverter) ConvertThreadItem(_ context.Context, _ thread.Item, _ *thread.Thread) (string, error) {
	return "from ConvertThreadItem3", nil
}

type failingConverter struct{}

func (failingConverter) ConvertItem(_ context.Context, _ thread.Item) (string, error) {
	return "", fmt.Errorf("schema mismatch")
}

type unrelatedConverter struct{}

func (unrelatedConverter) Translate(_ thread.Item) string { return "" }

func TestConvertInput_ProbeOrder(t *testing.T) {
	t.Parallel()

	th := thread.NewThread("")
	item := thread.NewUserMessage(th.ID, thread.TextPart("hi"))
	ctx := context.Background()

	conv := &toInputItemConverter{}
	input, found, err := convertInput(ctx, conv, th, item)
	if err != nil || !found {
		t.Fatalf("convertInput() = (%q, %v, %v)", input, found, err)
	}
	if input != "from ToInputItem3" {
		t.Errorf("convertInput() input = %q, want ToInputItem to win", input)
	}
	if len(conv.calls) != 1 || conv.calls[0] != "ToInputItem3" {
		t.Errorf("convertInput() calls = %v, want only ToInputItem3", conv.calls)
	}
}

func TestConvertInput_Capabilities(t *testing.T) {
	t.Parallel()

	th := thread.NewThread("")
	item := thread.NewUserMessage(th.ID, thread.TextPart("hi"))
	ctx := context.Background()

	tests := []struct {
		name      string
		conv      Converter
		wantFound bool
		wantInput string
	}{
		{name: "nil converter", conv: nil, wantFound: false},
		{name: "two-arg Convert", conv: convertOnlyConverter{}, wantFound: true, wantInput: "from Convert2"},
		{name: "three-arg ConvertThreadItem", conv: convertThreadItemConverter{}, wantFound: true, wantInput: "from ConvertThreadItem3"},
		{name: "no matching capability", conv: unrelatedConverter{}, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			input, found, err := convertInput(ctx, tt.conv, th, item)
			if err != nil {
				t.Fatalf("convertInput() error = %v", err)
			}
			if found != tt.wantFound {
				t.Fatalf("convertInput() found = %v, want %v", found, tt.wantFound)
			}
			if found && input != tt.wantInput {
				t.Errorf("convertInput() input = %q, want %q", input, tt.wantInput)
			}
		})
	}
}

func TestResolveInput_ConverterErrorIsFatal(t *testing.T) {
	t.Parallel()

	th := thread.NewThread("")
	item := thread.NewUserMessage(th.ID, thread.TextPart("hi"))

	_, ok, err := resolveInput(context.Background(), failingConverter{}, th, item)
	if err == nil {
		t.Fatal("resolveInput() error = nil, want converter failure")
	}
	if ok {
		t.Error("resolveInput() ok = true, want false")
	}
}

func TestResolveInput_ConverterOverridesDefault(t *testing.T) {
	t.Parallel()

	th := thread.NewThread("")
	// Converter applies even to non-user items the default path would skip.
	item := thread.NewAssistantMessage(th.ID, "recap")

	input, ok, err := resolveInput(context.Background(), convertOnlyConverter{}, th, item)
	if err != nil || !ok {
		t.Fatalf("resolveInput() = (%q, %v, %v)", input, ok, err)
	}
	if input != "from Convert2" {
		t.Errorf("resolveInput() input = %q, want converter result verbatim", input)
	}
}
