package thread

import (
	"strings"
	"testing"
)

func TestMarshalItemRoundTrip(t *testing.T) {
	t.Parallel()

	msg := NewUserMessage("thread_ab12cd34", TextPart("where is my payout"))
	msg.Attachments = []Attachment{{ID: "att_1", Name: "screenshot.png"}}

	data, err := MarshalItem(msg)
	if err != nil {
		t.Fatalf("MarshalItem() error = %v", err)
	}

	decoded, err := UnmarshalItem(data)
	if err != nil {
		t.Fatalf("UnmarshalItem() error = %v", err)
	}

	got, ok := decoded.(*UserMessage)
	if !ok {
		t.Fatalf("UnmarshalItem() type = %T, want *UserMessage", decoded)
	}
	if got.ID != msg.ID || got.ThreadID != msg.ThreadID {
		t.Errorf("round trip meta = %s/%s, want %s/%s", got.ID, got.ThreadID, msg.ID, msg.ThreadID)
	}
	if len(got.Parts) != 1 || got.Parts[0].Text != "where is my payout" {
		t.Errorf("round trip parts = %+v", got.Parts)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Name != "screenshot.png" {
		t.Errorf("round trip attachments = %+v", got.Attachments)
	}
}

func TestUnmarshalItemSelectsConcreteType(t *testing.T) {
	t.Parallel()

	items := []Item{
		NewAssistantMessage("thread_x", "done"),
		NewHiddenContext("thread_x", "<FACT_SAVED>note</FACT_SAVED>"),
		NewClientToolCall("thread_x", "switch_theme", map[string]any{"theme": "dark"}),
		NewWidgetItem("thread_x", map[string]any{"type": "Card"}, "copy text"),
	}
	wantTypes := []ItemType{
		ItemTypeAssistantMessage,
		ItemTypeHiddenContext,
		ItemTypeClientToolCall,
		ItemTypeWidget,
	}

	for i, item := range items {
		data, err := MarshalItem(item)
		if err != nil {
			t.Fatalf("MarshalItem(%s) error = %v", wantTypes[i], err)
		}
		decoded, err := UnmarshalItem(data)
		if err != nil {
			t.Fatalf("UnmarshalItem(%s) error = %v", wantTypes[i], err)
		}
		if decoded.Type() != wantTypes[i] {
			t.Errorf("UnmarshalItem() type = %s, want %s", decoded.Type(), wantTypes[i])
		}
	}
}

func TestUnmarshalItemUnknownType(t *testing.T) {
	t.Parallel()

	_, err := UnmarshalItem([]byte(`{"type":"telepathy","payload":{}}`))
	if err == nil || !strings.Contains(err.Error(), "unknown item type") {
		t.Errorf("UnmarshalItem(unknown type) error = %v, want unknown item type", err)
	}
}
