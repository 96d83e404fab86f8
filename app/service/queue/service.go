// Package queue buffers summary-refresh requests keyed by conversation id.
// A refresh is enqueued after every externally recorded message, so the
// stored summary lags the latest message by at most one append.
package queue

import (
	"log/slog"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

type Service struct {
	queue chan int64
}

func New(_ *do.Injector) (*Service, error) {
	return NewService(), nil
}

func NewService() *Service {
	return &Service{
		queue: make(chan int64, bufferSize),
	}
}

// Add enqueues a refresh for the conversation without blocking. When the
// queue is full the request is dropped with a warning; the next append will
// enqueue again.
func (s *Service) Add(conversationID int64) {
	defer func() {
		// Add after Shutdown is a no-op.
		_ = recover()
	}()

	select {
	case s.queue <- conversationID:
	default:
		slog.Warn("summary refresh queue is full", "conversation_id", conversationID)
	}
}

func (s *Service) Channel() <-chan int64 {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
