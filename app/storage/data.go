package storage

import "time"

type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

const (
	StatusActive = "active"
	StatusClosed = "closed"
)

type Contact struct {
	ID          int64
	Name        string
	Email       string
	Designation string
	Company     string
	Notes       string
	CreatedAt   time.Time
}

type Conversation struct {
	ID             int64
	ContactID      int64
	Title          string
	Status         string
	ContextSummary string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ConversationOverview is the list view of a conversation, with aggregates
// over its messages.
type ConversationOverview struct {
	Conversation

	MessageCount  int64
	LastMessageAt time.Time
}

type Message struct {
	ID             int64
	ConversationID int64
	Content        string
	Direction      Direction
	Sequence       int64
	CreatedAt      time.Time
}
