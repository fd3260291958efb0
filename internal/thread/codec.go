package thread

import (
	"encoding/json"
	"fmt"
)

// itemEnvelope is the wire and storage representation of an Item.
// The payload layout is the item struct itself; the type tag selects
// the concrete Go type on decode.
type itemEnvelope struct {
	Type    ItemType        `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalItem encodes an item into its tagged JSON envelope.
// This is the format stored in the items table and sent over SSE.
func MarshalItem(item Item) ([]byte, error) {
	payload, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("marshal item payload: %w", err)
	}
	data, err := json.Marshal(itemEnvelope{Type: item.Type(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal item envelope: %w", err)
	}
	return data, nil
}

// UnmarshalItem decodes a tagged JSON envelope back into a concrete item.
func UnmarshalItem(data []byte) (Item, error) {
	var env itemEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal item envelope: %w", err)
	}

	var item Item
	switch env.Type {
	case ItemTypeUserMessage:
		item = &UserMessage{}
	case ItemTypeAssistantMessage:
		item = &AssistantMessage{}
	case ItemTypeHiddenContext:
		item = &HiddenContext{}
	case ItemTypeClientToolCall:
		item = &ClientToolCall{}
	case ItemTypeWidget:
		item = &WidgetItem{}
	default:
		return nil, fmt.Errorf("unknown item type %q", env.Type)
	}

	if err := json.Unmarshal(env.Payload, item); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
	}
	return item, nil
}
