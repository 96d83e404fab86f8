// Package conversation assembles the bounded reply context for a
// conversation and keeps its rolling summary fresh.
package conversation

import (
	"context"
	"fmt"

	"profmailgen/app/config"
	"profmailgen/app/service/summarizer"
	"profmailgen/app/storage"

	"github.com/samber/do"
)

// ContextBundle is the {rolling summary, recency window} pair fed to the
// generation capability instead of the full transcript.
type ContextBundle struct {
	Summary string
	Recent  []storage.Message
}

type Service struct {
	cfg           *config.Config
	store         *storage.Store
	summarizerSvc *summarizer.Service
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*storage.Store](di),
		do.MustInvoke[*summarizer.Service](di),
	), nil
}

func NewService(cfg *config.Config, store *storage.Store, summarizerSvc *summarizer.Service) *Service {
	return &Service{
		cfg:           cfg,
		store:         store,
		summarizerSvc: summarizerSvc,
	}
}

// BuildContext returns the stored summary plus the last k messages
// oldest-first. Pure read: no generation, no writes.
func (s *Service) BuildContext(ctx context.Context, conversationID int64) (*ContextBundle, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	return &ContextBundle{
		Summary: conv.ContextSummary,
		Recent:  RecentWindow(messages, s.cfg.Context.RecentWindow),
	}, nil
}

// RefreshSummary regenerates the rolling summary from the full ordered
// message list and stores it. Idempotent; a history of fewer than two
// messages yields the empty string without generation or writes.
func (s *Service) RefreshSummary(ctx context.Context, conversationID int64) (string, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return "", err
	}

	messages, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return "", err
	}

	if len(messages) < 2 {
		return "", nil
	}

	contact, err := s.store.GetContact(ctx, conv.ContactID)
	if err != nil {
		return "", err
	}

	summary, err := s.summarizerSvc.Summarize(ctx, contact.Name, messages)
	if err != nil {
		return "", fmt.Errorf("summarizerSvc.Summarize: %w", err)
	}

	if err = s.store.UpdateSummary(ctx, conversationID, summary); err != nil {
		return "", err
	}

	return summary, nil
}

// RecentWindow returns the last k messages of an ordered list, oldest-first.
func RecentWindow(messages []storage.Message, k int) []storage.Message {
	if len(messages) <= k {
		return messages
	}

	return messages[len(messages)-k:]
}
