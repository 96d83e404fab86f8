package server

import (
	"time"

	"profmailgen/app/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

type createContactRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
	Company     string `json:"company"`
	Notes       string `json:"notes"`
}

type createConversationRequest struct {
	Title string `json:"title" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active closed"`
}

type recordMessageRequest struct {
	Content   string `json:"content" validate:"required"`
	Direction string `json:"direction" validate:"required"`
}

type generateReplyRequest struct {
	Intent string `json:"intent" validate:"required"`
}

type composeEmailRequest struct {
	ContactID    int64  `json:"contact_id" validate:"required"`
	Context      string `json:"context" validate:"required"`
	Relationship string `json:"relationship"`
}

type optimizeReplyRequest struct {
	Reply        string `json:"reply" validate:"required"`
	OptimizeType string `json:"optimize_type" validate:"required"`
}

type contactResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Designation string    `json:"designation"`
	Company     string    `json:"company"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

type conversationResponse struct {
	ID             int64     `json:"id"`
	ContactID      int64     `json:"contact_id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	ContextSummary string    `json:"context_summary"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type conversationOverviewResponse struct {
	conversationResponse

	MessageCount  int64      `json:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

type messageResponse struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Content        string    `json:"content"`
	Direction      string    `json:"direction"`
	Sequence       int64     `json:"sequence"`
	CreatedAt      time.Time `json:"created_at"`
}

type contextResponse struct {
	Summary string            `json:"summary"`
	Recent  []messageResponse `json:"recent"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

type emailResponse struct {
	Email string `json:"email"`
}

func toContactResponse(contact *storage.Contact) contactResponse {
	return contactResponse{
		ID:          contact.ID,
		Name:        contact.Name,
		Email:       contact.Email,
		Designation: contact.Designation,
		Company:     contact.Company,
		Notes:       contact.Notes,
		CreatedAt:   contact.CreatedAt,
	}
}

func toConversationResponse(conv *storage.Conversation) conversationResponse {
	return conversationResponse{
		ID:             conv.ID,
		ContactID:      conv.ContactID,
		Title:          conv.Title,
		Status:         conv.Status,
		ContextSummary: conv.ContextSummary,
		CreatedAt:      conv.CreatedAt,
		UpdatedAt:      conv.UpdatedAt,
	}
}

func toOverviewResponse(overview storage.ConversationOverview) conversationOverviewResponse {
	result := conversationOverviewResponse{
		conversationResponse: toConversationResponse(&overview.Conversation),
		MessageCount:         overview.MessageCount,
	}

	if !overview.LastMessageAt.IsZero() {
		t := overview.LastMessageAt
		result.LastMessageAt = &t
	}

	return result
}

func toMessageResponse(msg storage.Message) messageResponse {
	return messageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Content:        msg.Content,
		Direction:      string(msg.Direction),
		Sequence:       msg.Sequence,
		CreatedAt:      msg.CreatedAt,
	}
}
