package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"profmailgen/app/apperr"
)

// AppendMessage validates and persists a new message at the next sequence
// number, bumping the parent conversation's updated_at in the same
// transaction. The conversation's sequencer lock is held for the whole
// read-max-then-insert section.
func (s *Store) AppendMessage(ctx context.Context, conversationID int64, content string, direction Direction) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content must not be empty", apperr.ErrInvalidInput)
	}
	if direction != DirectionSent && direction != DirectionReceived {
		return nil, fmt.Errorf("%w: direction must be %q or %q, got %q",
			apperr.ErrInvalidInput, DirectionSent, DirectionReceived, direction)
	}

	mu := s.seq.Lock(conversationID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.conversationExists(ctx, conversationID); err != nil {
		return nil, err
	}

	seq, err := s.seq.Next(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, content, direction, sequence, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		conversationID, content, string(direction), seq, now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`, now.Unix(), conversationID,
	); err != nil {
		return nil, fmt.Errorf("failed to bump conversation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get message id: %w", err)
	}

	return &Message{
		ID:             id,
		ConversationID: conversationID,
		Content:        content,
		Direction:      direction,
		Sequence:       seq,
		CreatedAt:      now,
	}, nil
}

// ListMessages returns all messages of the conversation ordered by sequence
// ascending. Fails with NotFound when the conversation does not exist.
func (s *Store) ListMessages(ctx context.Context, conversationID int64) ([]Message, error) {
	if err := s.conversationExists(ctx, conversationID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, content, direction, sequence, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY sequence`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	result := make([]Message, 0)

	for rows.Next() {
		var (
			msg       Message
			direction string
			createdAt int64
		)

		if err = rows.Scan(&msg.ID, &msg.ConversationID, &msg.Content, &direction,
			&msg.Sequence, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		msg.Direction = Direction(direction)
		msg.CreatedAt = time.Unix(createdAt, 0)
		result = append(result, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return result, nil
}
