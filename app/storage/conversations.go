package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"profmailgen/app/apperr"
)

func (s *Store) CreateConversation(ctx context.Context, contactID int64, title string) (*Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: conversation title must not be empty", apperr.ErrInvalidInput)
	}

	if _, err := s.GetContact(ctx, contactID); err != nil {
		return nil, err
	}

	now := time.Now()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (contact_id, title, status, context_summary, created_at, updated_at)
		 VALUES (?, ?, ?, '', ?, ?)`,
		contactID, title, StatusActive, now.Unix(), now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert conversation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation id: %w", err)
	}

	return &Conversation{
		ID:        id,
		ContactID: contactID,
		Title:     title,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Store) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	var (
		conv      Conversation
		createdAt int64
		updatedAt int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, contact_id, title, status, context_summary, created_at, updated_at
		 FROM conversations WHERE id = ?`, id,
	).Scan(&conv.ID, &conv.ContactID, &conv.Title, &conv.Status, &conv.ContextSummary,
		&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: conversation %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}

	conv.CreatedAt = time.Unix(createdAt, 0)
	conv.UpdatedAt = time.Unix(updatedAt, 0)

	return &conv, nil
}

func (s *Store) ListConversations(ctx context.Context, contactID int64) ([]ConversationOverview, error) {
	if _, err := s.GetContact(ctx, contactID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.contact_id, c.title, c.status, c.context_summary, c.created_at, c.updated_at,
		       COUNT(m.id), COALESCE(MAX(m.created_at), 0)
		FROM conversations c
		LEFT JOIN messages m ON c.id = m.conversation_id
		WHERE c.contact_id = ?
		GROUP BY c.id
		ORDER BY c.updated_at DESC`, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	result := make([]ConversationOverview, 0)

	for rows.Next() {
		var (
			overview      ConversationOverview
			createdAt     int64
			updatedAt     int64
			lastMessageAt int64
		)

		if err = rows.Scan(&overview.ID, &overview.ContactID, &overview.Title, &overview.Status,
			&overview.ContextSummary, &createdAt, &updatedAt,
			&overview.MessageCount, &lastMessageAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}

		overview.CreatedAt = time.Unix(createdAt, 0)
		overview.UpdatedAt = time.Unix(updatedAt, 0)
		if lastMessageAt > 0 {
			overview.LastMessageAt = time.Unix(lastMessageAt, 0)
		}

		result = append(result, overview)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}

	return result, nil
}

// UpdateSummary stores a freshly computed context summary and stamps updated_at.
func (s *Store) UpdateSummary(ctx context.Context, id int64, summary string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET context_summary = ?, updated_at = ? WHERE id = ?`,
		summary, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update summary: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: conversation %d", apperr.ErrNotFound, id)
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) error {
	if status != StatusActive && status != StatusClosed {
		return fmt.Errorf("%w: status must be %q or %q", apperr.ErrInvalidInput, StatusActive, StatusClosed)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: conversation %d", apperr.ErrNotFound, id)
	}

	return nil
}

func (s *Store) conversationExists(ctx context.Context, id int64) error {
	var one int

	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM conversations WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: conversation %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to query conversation: %w", err)
	}

	return nil
}
