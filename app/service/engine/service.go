// Package engine drains the refresh queue, regenerating conversation
// summaries in the background.
package engine

import (
	"context"
	"log/slog"
	"time"

	"profmailgen/app/service/conversation"
	"profmailgen/app/service/queue"

	"github.com/samber/do"
)

type Service struct {
	conversationSvc *conversation.Service
	queueSvc        *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*conversation.Service](di),
		do.MustInvoke[*queue.Service](di),
	), nil
}

func NewService(conversationSvc *conversation.Service, queueSvc *queue.Service) *Service {
	return &Service{
		conversationSvc: conversationSvc,
		queueSvc:        queueSvc,
	}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case conversationID, ok := <-s.queueSvc.Channel():
			if !ok {
				return nil
			}

			start := time.Now()

			if _, err := s.conversationSvc.RefreshSummary(ctx, conversationID); err != nil {
				slog.Warn("Summary refresh failed",
					"conversation_id", conversationID,
					"error", err,
				)

				continue
			}

			slog.Info("Refreshed conversation summary",
				"conversation_id", conversationID,
				"duration", time.Since(start),
			)
		}
	}
}
