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

func (s *Store) CreateContact(ctx context.Context, name, email, designation, company, notes string) (*Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: contact name must not be empty", apperr.ErrInvalidInput)
	}

	now := time.Now()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (name, email, designation, company, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		name, email, designation, company, notes, now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get contact id: %w", err)
	}

	return &Contact{
		ID:          id,
		Name:        name,
		Email:       email,
		Designation: designation,
		Company:     company,
		Notes:       notes,
		CreatedAt:   now,
	}, nil
}

func (s *Store) GetContact(ctx context.Context, id int64) (*Contact, error) {
	var (
		contact   Contact
		createdAt int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, designation, company, notes, created_at FROM contacts WHERE id = ?`, id,
	).Scan(&contact.ID, &contact.Name, &contact.Email, &contact.Designation,
		&contact.Company, &contact.Notes, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: contact %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query contact: %w", err)
	}

	contact.CreatedAt = time.Unix(createdAt, 0)

	return &contact, nil
}

func (s *Store) ListContacts(ctx context.Context) ([]Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, designation, company, notes, created_at FROM contacts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	result := make([]Contact, 0)

	for rows.Next() {
		var (
			contact   Contact
			createdAt int64
		)

		if err = rows.Scan(&contact.ID, &contact.Name, &contact.Email, &contact.Designation,
			&contact.Company, &contact.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}

		contact.CreatedAt = time.Unix(createdAt, 0)
		result = append(result, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return result, nil
}
