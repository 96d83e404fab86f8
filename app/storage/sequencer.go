package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// Sequencer allocates strictly increasing per-conversation sequence numbers.
// The read-max-then-write-next section of an append must run under the
// conversation's lock so concurrent appends never collide or reorder.
// Cross-conversation appends share nothing.
type Sequencer struct {
	db    *sql.DB
	locks sync.Map // conversation id -> *sync.Mutex
}

// Lock returns the mutex guarding sequence allocation for the conversation.
// The caller holds it across reading the max sequence and inserting the row.
func (q *Sequencer) Lock(conversationID int64) *sync.Mutex {
	actual, _ := q.locks.LoadOrStore(conversationID, &sync.Mutex{})

	return actual.(*sync.Mutex)
}

// Next returns max(sequence)+1 for the conversation, or 1 if it has no
// messages. The caller verifies the conversation exists and holds its lock.
func (q *Sequencer) Next(ctx context.Context, conversationID int64) (int64, error) {
	var next int64

	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sequence), 0) + 1 FROM messages WHERE conversation_id = ?`,
		conversationID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to query max sequence: %w", err)
	}

	return next, nil
}
