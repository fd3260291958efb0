package thread

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumian-ai/sellerchat/internal/log"
)

// PostgresStore persists threads and items in PostgreSQL.
// Items are stored as JSONB envelopes (see MarshalItem) with a per-thread
// sequence number assigned under a row lock, so concurrent appends to the
// same thread never collide.
//
// PostgresStore is safe for concurrent use by multiple goroutines.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger log.Logger
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(pool *pgxpool.Pool, logger log.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, logger: logger}
}

var _ Store = (*PostgresStore)(nil)

// SaveThread inserts a thread, or updates its title if it already exists.
func (s *PostgresStore) SaveThread(ctx context.Context, t *Thread) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO threads (id, title, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title`,
		t.ID, t.Title, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("save thread %s: %w", t.ID, err)
	}
	s.logger.Debug("saved thread", "thread_id", t.ID)
	return nil
}

// Thread returns a thread by ID.
func (s *PostgresStore) Thread(ctx context.Context, id string) (*Thread, error) {
	var t Thread
	err := s.pool.QueryRow(ctx,
		`SELECT id, COALESCE(title, ''), created_at FROM threads WHERE id = $1`, id).
		Scan(&t.ID, &t.Title, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("thread %s: %w", id, ErrThreadNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get thread %s: %w", id, err)
	}
	return &t, nil
}

// AddItem appends an item to its thread inside a transaction.
// The thread row is locked first so the sequence number assignment is
// race-free under concurrent appends.
func (s *PostgresStore) AddItem(ctx context.Context, item Item) error {
	meta := item.Meta()

	payload, err := MarshalItem(item)
	if err != nil {
		return fmt.Errorf("encode item %s: %w", meta.ID, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.logger.Debug("transaction rollback", "error", err)
		}
	}()

	var lockedID string
	err = tx.QueryRow(ctx, `SELECT id FROM threads WHERE id = $1 FOR UPDATE`, meta.ThreadID).Scan(&lockedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("thread %s: %w", meta.ThreadID, ErrThreadNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock thread %s: %w", meta.ThreadID, err)
	}

	var maxSeq int32
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sequence_number), 0) FROM thread_items WHERE thread_id = $1`,
		meta.ThreadID).Scan(&maxSeq)
	if err != nil {
		return fmt.Errorf("get max sequence number: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO thread_items (id, thread_id, sequence_number, item_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		meta.ID, meta.ThreadID, maxSeq+1, string(item.Type()), payload, meta.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert item %s: %w", meta.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Debug("added item", "thread_id", meta.ThreadID, "item_id", meta.ID, "type", item.Type())
	return nil
}

// Items lists items of a thread. See Store for cursor semantics.
func (s *PostgresStore) Items(ctx context.Context, threadID string, after *string, limit int, order Order) ([]Item, error) {
	var dir string
	switch order {
	case OrderAsc:
		dir = "ASC"
	case OrderDesc:
		dir = "DESC"
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}

	// The cursor translates to a sequence-number bound; resolve it first.
	afterSeq := int32(0)
	if after != nil {
		err := s.pool.QueryRow(ctx,
			`SELECT sequence_number FROM thread_items WHERE id = $1 AND thread_id = $2`,
			*after, threadID).Scan(&afterSeq)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("resolve cursor %s: %w", *after, err)
		}
	}

	query := fmt.Sprintf(`
		SELECT payload FROM thread_items
		WHERE thread_id = $1 AND sequence_number > $2
		ORDER BY sequence_number %s`, dir)
	args := []any{threadID, afterSeq}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items for thread %s: %w", threadID, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item, err := UnmarshalItem(payload)
		if err != nil {
			// Skip malformed rows rather than failing the whole listing.
			s.logger.Warn("skipping malformed item", "thread_id", threadID, "error", err)
			continue
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}
