package thread

import (
	"context"
	"errors"
)

// Order controls the sort direction of item listings.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Sentinel errors for store operations.
var (
	// ErrThreadNotFound indicates the requested thread does not exist.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrInvalidOrder indicates an unsupported listing order.
	ErrInvalidOrder = errors.New("invalid order")
)

// Store persists threads and their items.
//
// Items(ctx, threadID, after, limit, order) lists items of a thread.
// after, when non-nil, is an exclusive cursor: only items inserted after
// the item with that ID are returned. limit <= 0 means no limit.
//
// Implementations must be safe for concurrent use.
type Store interface {
	SaveThread(ctx context.Context, t *Thread) error
	Thread(ctx context.Context, id string) (*Thread, error)
	AddItem(ctx context.Context, item Item) error
	Items(ctx context.Context, threadID string, after *string, limit int, order Order) ([]Item, error)
}

// Latest returns the most recently added item of a thread, or nil when
// the thread has no items.
func Latest(ctx context.Context, s Store, threadID string) (Item, error) {
	items, err := s.Items(ctx, threadID, nil, 1, OrderDesc)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}
