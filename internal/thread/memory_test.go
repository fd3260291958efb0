package thread

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_SaveAndGetThread(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	th := NewThread("Returns question")
	if err := store.SaveThread(ctx, th); err != nil {
		t.Fatalf("SaveThread() error = %v", err)
	}

	got, err := store.Thread(ctx, th.ID)
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if got.ID != th.ID || got.Title != "Returns question" {
		t.Errorf("Thread() = %+v, want id=%s title=%q", got, th.ID, "Returns question")
	}

	// Returned thread is a copy; mutating it must not affect the store.
	got.Title = "mutated"
	again, err := store.Thread(ctx, th.ID)
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if again.Title != "Returns question" {
		t.Error("Thread() returned a shared pointer, mutation leaked into store")
	}
}

func TestMemoryStore_ThreadNotFound(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if _, err := store.Thread(context.Background(), "thread_missing"); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("Thread(missing) error = %v, want ErrThreadNotFound", err)
	}
}

func TestMemoryStore_AddItemUnknownThread(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	msg := NewUserMessage("thread_missing", TextPart("hello"))
	if err := store.AddItem(context.Background(), msg); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("AddItem(unknown thread) error = %v, want ErrThreadNotFound", err)
	}
}

func TestMemoryStore_ItemsOrderingAndCursor(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	th := NewThread("")
	if err := store.SaveThread(ctx, th); err != nil {
		t.Fatalf("SaveThread() error = %v", err)
	}

	first := NewUserMessage(th.ID, TextPart("one"))
	second := NewAssistantMessage(th.ID, "two")
	third := NewHiddenContext(th.ID, "three")
	for _, item := range []Item{first, second, third} {
		if err := store.AddItem(ctx, item); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
	}

	asc, err := store.Items(ctx, th.ID, nil, 0, OrderAsc)
	if err != nil {
		t.Fatalf("Items(asc) error = %v", err)
	}
	if len(asc) != 3 {
		t.Fatalf("Items(asc) len = %d, want 3", len(asc))
	}
	if asc[0].Meta().ID != first.ID || asc[2].Meta().ID != third.ID {
		t.Error("Items(asc) not in insertion order")
	}

	desc, err := store.Items(ctx, th.ID, nil, 1, OrderDesc)
	if err != nil {
		t.Fatalf("Items(desc, limit=1) error = %v", err)
	}
	if len(desc) != 1 || desc[0].Meta().ID != third.ID {
		t.Errorf("Items(desc, limit=1) = %v, want latest item %s", desc, third.ID)
	}

	afterFirst, err := store.Items(ctx, th.ID, &first.ID, 0, OrderAsc)
	if err != nil {
		t.Fatalf("Items(after) error = %v", err)
	}
	if len(afterFirst) != 2 || afterFirst[0].Meta().ID != second.ID {
		t.Errorf("Items(after first) = %d items starting %s, want 2 starting %s",
			len(afterFirst), afterFirst[0].Meta().ID, second.ID)
	}
}

func TestMemoryStore_ItemsInvalidOrder(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if _, err := store.Items(context.Background(), "thread_x", nil, 0, Order("sideways")); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("Items(invalid order) error = %v, want ErrInvalidOrder", err)
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	th := NewThread("")
	if err := store.SaveThread(ctx, th); err != nil {
		t.Fatalf("SaveThread() error = %v", err)
	}

	// Empty thread has no latest item.
	latest, err := Latest(ctx, store, th.ID)
	if err != nil {
		t.Fatalf("Latest(empty) error = %v", err)
	}
	if latest != nil {
		t.Errorf("Latest(empty) = %v, want nil", latest)
	}

	msg := NewUserMessage(th.ID, TextPart("hello"))
	if err := store.AddItem(ctx, msg); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	widget := NewWidgetItem(th.ID, map[string]any{"type": "Card"}, "copy")
	if err := store.AddItem(ctx, widget); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	latest, err = Latest(ctx, store, th.ID)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.Meta().ID != widget.ID {
		t.Errorf("Latest() = %s, want %s", latest.Meta().ID, widget.ID)
	}
}

func TestNewID(t *testing.T) {
	t.Parallel()

	id := NewID(PrefixMessage)
	if len(id) != len(PrefixMessage)+1+8 {
		t.Errorf("NewID() = %q, want prefix plus 8 hex chars", id)
	}
	if id[:len(PrefixMessage)+1] != PrefixMessage+"_" {
		t.Errorf("NewID() = %q, want %q prefix", id, PrefixMessage+"_")
	}
	if NewID(PrefixMessage) == id {
		t.Error("NewID() returned duplicate IDs")
	}
}
