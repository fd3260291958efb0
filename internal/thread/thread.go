// Package thread provides the conversation thread data model and persistence.
//
// A thread is an append-only sequence of items: user messages, assistant
// messages, hidden context injected for the model, client tool calls, and
// rendered widgets. Items are identified by short prefixed IDs and ordered
// by insertion.
package thread

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// ID prefixes for the item kinds that generate identifiers.
const (
	PrefixThread  = "thread"
	PrefixMessage = "msg"
	PrefixWidget  = "widget"
	PrefixFact    = "fact"
)

// NewID generates a short prefixed identifier, e.g. "msg_3fa85f64".
// The suffix is the first 8 hex characters of a random UUID.
func NewID(prefix string) string {
	u := uuid.New()
	return prefix + "_" + hex.EncodeToString(u[:])[:8]
}

// Thread represents a conversation thread.
type Thread struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewThread creates a thread with a generated ID.
func NewThread(title string) *Thread {
	return &Thread{
		ID:        NewID(PrefixThread),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
}

// ItemType discriminates the item kinds stored in a thread.
type ItemType string

const (
	ItemTypeUserMessage      ItemType = "user_message"
	ItemTypeAssistantMessage ItemType = "assistant_message"
	ItemTypeHiddenContext    ItemType = "hidden_context"
	ItemTypeClientToolCall   ItemType = "client_tool_call"
	ItemTypeWidget           ItemType = "widget"
)

// ItemMeta holds the fields common to all thread items.
type ItemMeta struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is the sealed interface implemented by all thread item kinds.
// The unexported marker method keeps the set of implementations closed
// to this package.
type Item interface {
	Meta() *ItemMeta
	Type() ItemType
	item()
}

// ContentPart is a single part of a user message. Only text parts carry
// input for the agent; other kinds are preserved but ignored.
type ContentPart struct {
	Kind string `json:"type"`
	Text string `json:"text,omitempty"`
}

// PartKindText marks a text content part.
const PartKindText = "text"

// TextPart creates a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Kind: PartKindText, Text: text}
}

// Attachment is a file reference attached to a user message.
// Attachment ingestion is not supported; resolving a message that carries
// attachments fails the turn.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// UserMessage is an end-user message composed of content parts.
type UserMessage struct {
	ItemMeta
	Parts       []ContentPart `json:"parts"`
	Attachments []Attachment  `json:"attachments,omitempty"`
}

// AssistantMessage is a model-produced message.
type AssistantMessage struct {
	ItemMeta
	Text string `json:"text"`
}

// HiddenContext carries opaque agent-visible context that is never shown
// to the end user.
type HiddenContext struct {
	ItemMeta
	Content string `json:"content"`
}

// ClientToolCall records a tool invocation the client must perform,
// e.g. switching the UI theme.
type ClientToolCall struct {
	ItemMeta
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// WidgetItem is a rendered widget tree streamed to the client.
// Widget is an arbitrary JSON-serializable node tree.
type WidgetItem struct {
	ItemMeta
	Widget any    `json:"widget"`
	Copy   string `json:"copy,omitempty"`
}

func (m *ItemMeta) Meta() *ItemMeta { return m }

func (*UserMessage) Type() ItemType      { return ItemTypeUserMessage }
func (*AssistantMessage) Type() ItemType { return ItemTypeAssistantMessage }
func (*HiddenContext) Type() ItemType    { return ItemTypeHiddenContext }
func (*ClientToolCall) Type() ItemType   { return ItemTypeClientToolCall }
func (*WidgetItem) Type() ItemType       { return ItemTypeWidget }

func (*UserMessage) item()      {}
func (*AssistantMessage) item() {}
func (*HiddenContext) item()    {}
func (*ClientToolCall) item()   {}
func (*WidgetItem) item()       {}

// NewUserMessage creates a user message item bound to a thread.
func NewUserMessage(threadID string, parts ...ContentPart) *UserMessage {
	return &UserMessage{
		ItemMeta: newMeta(threadID, PrefixMessage),
		Parts:    parts,
	}
}

// NewAssistantMessage creates an assistant message item bound to a thread.
func NewAssistantMessage(threadID, text string) *AssistantMessage {
	return &AssistantMessage{ItemMeta: newMeta(threadID, PrefixMessage), Text: text}
}

// NewHiddenContext creates a hidden context item bound to a thread.
func NewHiddenContext(threadID, content string) *HiddenContext {
	return &HiddenContext{ItemMeta: newMeta(threadID, PrefixMessage), Content: content}
}

// NewClientToolCall creates a client tool call item bound to a thread.
func NewClientToolCall(threadID, name string, args map[string]any) *ClientToolCall {
	return &ClientToolCall{ItemMeta: newMeta(threadID, PrefixMessage), Name: name, Arguments: args}
}

// NewWidgetItem creates a widget item bound to a thread.
func NewWidgetItem(threadID string, widget any, copyText string) *WidgetItem {
	return &WidgetItem{ItemMeta: newMeta(threadID, PrefixWidget), Widget: widget, Copy: copyText}
}

func newMeta(threadID, prefix string) ItemMeta {
	return ItemMeta{
		ID:        NewID(prefix),
		ThreadID:  threadID,
		CreatedAt: time.Now().UTC(),
	}
}
