// Package server exposes the conversation manager over HTTP. It is the only
// layer allowed to call the storage, context and reply services, and it maps
// the error taxonomy to status codes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"profmailgen/app/apperr"
	"profmailgen/app/config"
	"profmailgen/app/service/conversation"
	"profmailgen/app/service/queue"
	"profmailgen/app/service/reply"
	"profmailgen/app/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg             *config.Config
	app             *fiber.App
	store           *storage.Store
	conversationSvc *conversation.Service
	replySvc        *reply.Service
	queueSvc        *queue.Service
	validate        *validator.Validate
}

func New(di *do.Injector) (*Server, error) {
	return NewServer(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*storage.Store](di),
		do.MustInvoke[*conversation.Service](di),
		do.MustInvoke[*reply.Service](di),
		do.MustInvoke[*queue.Service](di),
	), nil
}

func NewServer(
	cfg *config.Config,
	store *storage.Store,
	conversationSvc *conversation.Service,
	replySvc *reply.Service,
	queueSvc *queue.Service,
) *Server {
	s := &Server{
		cfg:             cfg,
		store:           store,
		conversationSvc: conversationSvc,
		replySvc:        replySvc,
		queueSvc:        queueSvc,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}

	app := fiber.New(fiber.Config{
		AppName:               "profmailgen",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	api := app.Group("/api")

	api.Post("/contacts", s.createContact)
	api.Get("/contacts", s.listContacts)
	api.Get("/contacts/:id", s.getContact)
	api.Post("/contacts/:id/conversations", s.createConversation)
	api.Get("/contacts/:id/conversations", s.listConversations)

	api.Get("/conversations/:id", s.getConversation)
	api.Patch("/conversations/:id/status", s.updateStatus)
	api.Get("/conversations/:id/messages", s.listMessages)
	api.Post("/conversations/:id/messages", s.recordMessage)
	api.Get("/conversations/:id/context", s.buildContext)
	api.Post("/conversations/:id/refresh-summary", s.refreshSummary)
	api.Post("/conversations/:id/reply", s.generateReply)

	api.Post("/compose", s.composeEmail)
	api.Post("/optimize", s.optimizeReply)

	s.app = app

	return s
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.app.Listen(fmt.Sprintf(":%d", s.cfg.Server.Port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Warn("Server shutdown failed", "error", err)
		}

		return ctx.Err()
	}
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(errorResponse{Error: fiberErr.Message})
	}

	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperr.ErrGenerationFailed):
		status = fiber.StatusBadGateway
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("Request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}

	return c.Status(status).JSON(errorResponse{Error: err.Error()})
}

func (s *Server) parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	if err := s.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	return nil
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", apperr.ErrInvalidInput, c.Params("id"))
	}

	return int64(id), nil
}
