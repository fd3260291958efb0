package thread_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lumian-ai/sellerchat/internal/log"
	"github.com/lumian-ai/sellerchat/internal/testutil"
	"github.com/lumian-ai/sellerchat/internal/thread"
)

// setupPostgresStore starts a container-backed store. Skipped in short
// mode; the container startup dominates the test runtime.
func setupPostgresStore(t *testing.T) *thread.PostgresStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	db, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)
	return thread.NewPostgresStore(db.Pool, log.NewNop())
}

func TestPostgresStore_ThreadRoundTrip(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	th := thread.NewThread("Returns")
	if err := store.SaveThread(ctx, th); err != nil {
		t.Fatalf("SaveThread() error = %v", err)
	}

	got, err := store.Thread(ctx, th.ID)
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if got.ID != th.ID || got.Title != "Returns" {
		t.Errorf("Thread() = %+v, want %+v", got, th)
	}

	// Saving again updates the title in place.
	th.Title = "Returns and refunds"
	if err := store.SaveThread(ctx, th); err != nil {
		t.Fatalf("SaveThread(update) error = %v", err)
	}
	got, err = store.Thread(ctx, th.ID)
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if got.Title != "Returns and refunds" {
		t.Errorf("Thread() title = %q after update", got.Title)
	}

	if _, err := store.Thread(ctx, "thread_missing"); !errors.Is(err, thread.ErrThreadNotFound) {
		t.Errorf("Thread(missing) error = %v, want ErrThreadNotFound", err)
	}
}

func TestPostgresStore_ItemsOrderingAndCursor(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	th := thread.NewThread("")
	if err := store.SaveThread(ctx, th); err != nil {
		t.Fatalf("SaveThread() error = %v", err)
	}

	first := thread.NewUserMessage(th.ID, thread.TextPart("one"))
	second := thread.NewAssistantMessage(th.ID, "two")
	third := thread.NewHiddenContext(th.ID, "three")
	for _, item := range []thread.Item{first, second, third} {
		if err := store.AddItem(ctx, item); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
	}

	items, err := store.Items(ctx, th.ID, nil, 0, thread.OrderAsc)
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Items() = %d items, want 3", len(items))
	}
	wantIDs := []string{first.ID, second.ID, third.ID}
	for i, item := range items {
		if item.Meta().ID != wantIDs[i] {
			t.Errorf("items[%d].ID = %s, want %s", i, item.Meta().ID, wantIDs[i])
		}
	}

	// Items survive the JSONB round trip with their concrete types.
	um, ok := items[0].(*thread.UserMessage)
	if !ok || um.Parts[0].Text != "one" {
		t.Errorf("items[0] = %+v, want user message %q", items[0], "one")
	}

	// The cursor is exclusive.
	tail, err := store.Items(ctx, th.ID, &first.ID, 0, thread.OrderAsc)
	if err != nil {
		t.Fatalf("Items(after) error = %v", err)
	}
	if len(tail) != 2 || tail[0].Meta().ID != second.ID {
		t.Errorf("Items(after first) = %+v, want [second third]", tail)
	}

	// Descending with a limit returns the newest item.
	newest, err := store.Items(ctx, th.ID, nil, 1, thread.OrderDesc)
	if err != nil {
		t.Fatalf("Items(desc) error = %v", err)
	}
	if len(newest) != 1 || newest[0].Meta().ID != third.ID {
		t.Errorf("Items(desc limit 1) = %+v, want [third]", newest)
	}

	if _, err := store.Items(ctx, th.ID, nil, 0, thread.Order("sideways")); !errors.Is(err, thread.ErrInvalidOrder) {
		t.Errorf("Items(bad order) error = %v, want ErrInvalidOrder", err)
	}
}

func TestPostgresStore_AddItemUnknownThread(t *testing.T) {
	store := setupPostgresStore(t)

	item := thread.NewUserMessage("thread_missing", thread.TextPart("hi"))
	if err := store.AddItem(context.Background(), item); !errors.Is(err, thread.ErrThreadNotFound) {
		t.Errorf("AddItem(unknown thread) error = %v, want ErrThreadNotFound", err)
	}
}

func TestPostgresStore_ConcurrentAppends(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	th := thread.NewThread("")
	if err := store.SaveThread(ctx, th); err != nil {
		t.Fatalf("SaveThread() error = %v", err)
	}

	// The per-thread row lock must serialize sequence assignment.
	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.AddItem(ctx, thread.NewAssistantMessage(th.ID, "concurrent"))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("AddItem() error = %v", err)
		}
	}

	items, err := store.Items(ctx, th.ID, nil, 0, thread.OrderAsc)
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}
	if len(items) != workers {
		t.Errorf("Items() = %d items, want %d", len(items), workers)
	}
}
