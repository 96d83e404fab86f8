// Package reply is the top-level orchestrator: it assembles the conversation
// context, requests a generated email, persists it and refreshes the summary.
package reply

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"profmailgen/app/apperr"
	"profmailgen/app/client/llm"
	"profmailgen/app/config"
	"profmailgen/app/service/conversation"
	"profmailgen/app/service/summarizer"
	"profmailgen/app/storage"

	_ "embed"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/prompts"
)

//go:embed reply_prompt_template.txt
var replyPromptTemplate string

//go:embed compose_prompt_template.txt
var composePromptTemplate string

const (
	maxGenerateDuration = 30 * time.Second

	notSpecified             = "Not specified"
	startOfConversationLabel = "This is the start of the conversation."
	noMessagesLabel          = "No messages yet."
)

const (
	OptimizeLonger  = "longer"
	OptimizeShorter = "shorter"
)

type Service struct {
	cfg             *config.Config
	store           *storage.Store
	conversationSvc *conversation.Service
	completer       llm.Completer

	replyPrompt   prompts.PromptTemplate
	composePrompt prompts.PromptTemplate
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(
		cfg,
		do.MustInvoke[*storage.Store](di),
		do.MustInvoke[*conversation.Service](di),
		llm.NewClient(cfg.OpenAI.Reply),
	), nil
}

func NewService(
	cfg *config.Config,
	store *storage.Store,
	conversationSvc *conversation.Service,
	completer llm.Completer,
) *Service {
	return &Service{
		cfg:             cfg,
		store:           store,
		conversationSvc: conversationSvc,
		completer:       completer,
		replyPrompt: prompts.NewPromptTemplate(replyPromptTemplate, []string{
			"contact_name", "contact_role", "contact_company", "contact_email",
			"summary", "recent_exchange", "intent",
		}),
		composePrompt: prompts.NewPromptTemplate(composePromptTemplate, []string{
			"contact_name", "context", "relationship",
		}),
	}
}

// GenerateReply produces an email reply fulfilling the caller's intent and
// persists it as the conversation's next sent message. The summary refresh
// afterwards is best-effort: its failure is reported but the persisted reply
// is still returned.
func (s *Service) GenerateReply(ctx context.Context, conversationID int64, intent string) (*storage.Message, error) {
	intent = strings.TrimSpace(intent)
	if intent == "" {
		return nil, fmt.Errorf("%w: intent must not be empty", apperr.ErrInvalidInput)
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	contact, err := s.store.GetContact(ctx, conv.ContactID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.buildReplyPrompt(contact, conv, messages, intent)
	if err != nil {
		return nil, err
	}

	text, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	msg, err := s.store.AppendMessage(ctx, conversationID, text, storage.DirectionSent)
	if err != nil {
		return nil, err
	}

	if _, err = s.conversationSvc.RefreshSummary(ctx, conversationID); err != nil {
		slog.Warn("Summary refresh failed after reply",
			"conversation_id", conversationID,
			"error", err,
		)
	}

	slog.Info("Generated reply",
		"conversation_id", conversationID,
		"sequence", msg.Sequence,
	)

	return msg, nil
}

// ComposeEmail generates a fresh outbound email outside any conversation
// thread. Nothing is persisted.
func (s *Service) ComposeEmail(ctx context.Context, contactID int64, emailContext, relationship string) (string, error) {
	emailContext = strings.TrimSpace(emailContext)
	if emailContext == "" {
		return "", fmt.Errorf("%w: email context must not be empty", apperr.ErrInvalidInput)
	}

	contact, err := s.store.GetContact(ctx, contactID)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(relationship) == "" {
		relationship = "a professional contact"
	}

	prompt, err := s.composePrompt.Format(map[string]any{
		"contact_name": contact.Name,
		"context":      emailContext,
		"relationship": relationship,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format compose prompt: %w", err)
	}

	return s.complete(ctx, prompt)
}

// OptimizeReply rewrites a drafted reply to be longer or shorter while
// keeping the professional tone. Nothing is persisted.
func (s *Service) OptimizeReply(ctx context.Context, text, mode string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: reply text must not be empty", apperr.ErrInvalidInput)
	}

	var instruction string

	switch mode {
	case OptimizeLonger:
		instruction = "more detailed and longer"
	case OptimizeShorter:
		instruction = "more concise and shorter"
	default:
		return "", fmt.Errorf("%w: optimize mode must be %q or %q, got %q",
			apperr.ErrInvalidInput, OptimizeLonger, OptimizeShorter, mode)
	}

	prompt := fmt.Sprintf(
		"Here is an email reply:\n\n%s\n\nPlease rewrite it to be %s, while keeping the professional tone.",
		text, instruction)

	return s.complete(ctx, prompt)
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, maxGenerateDuration)
	defer cancel()

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("completer.Complete: %w", err)
	}

	return text, nil
}

func (s *Service) buildReplyPrompt(
	contact *storage.Contact,
	conv *storage.Conversation,
	messages []storage.Message,
	intent string,
) (string, error) {
	summary := conv.ContextSummary
	if summary == "" {
		summary = startOfConversationLabel
	}

	recent := conversation.RecentWindow(messages, s.cfg.Context.RecentWindow)

	recentExchange := noMessagesLabel
	if len(recent) > 0 {
		recentExchange = summarizer.RenderTranscript(contact.Name, recent)
	}

	prompt, err := s.replyPrompt.Format(map[string]any{
		"contact_name":    contact.Name,
		"contact_role":    orNotSpecified(contact.Designation),
		"contact_company": orNotSpecified(contact.Company),
		"contact_email":   orNotSpecified(contact.Email),
		"summary":         summary,
		"recent_exchange": recentExchange,
		"intent":          intent,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format reply prompt: %w", err)
	}

	return prompt, nil
}

func orNotSpecified(value string) string {
	if strings.TrimSpace(value) == "" {
		return notSpecified
	}

	return value
}
