package server

import (
	"github.com/elliotchance/pie/v2"
	"github.com/gofiber/fiber/v2"

	"profmailgen/app/storage"
)

func (s *Server) createContact(c *fiber.Ctx) error {
	var req createContactRequest
	if err := s.parseBody(c, &req); err != nil {
		return err
	}

	contact, err := s.store.CreateContact(c.Context(), req.Name, req.Email, req.Designation, req.Company, req.Notes)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toContactResponse(contact))
}

func (s *Server) listContacts(c *fiber.Ctx) error {
	contacts, err := s.store.ListContacts(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(pie.Map(contacts, func(contact storage.Contact) contactResponse {
		return toContactResponse(&contact)
	}))
}

func (s *Server) getContact(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	contact, err := s.store.GetContact(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(toContactResponse(contact))
}

func (s *Server) createConversation(c *fiber.Ctx) error {
	contactID, err := pathID(c)
	if err != nil {
		return err
	}

	var req createConversationRequest
	if err = s.parseBody(c, &req); err != nil {
		return err
	}

	conv, err := s.store.CreateConversation(c.Context(), contactID, req.Title)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toConversationResponse(conv))
}

func (s *Server) listConversations(c *fiber.Ctx) error {
	contactID, err := pathID(c)
	if err != nil {
		return err
	}

	overviews, err := s.store.ListConversations(c.Context(), contactID)
	if err != nil {
		return err
	}

	return c.JSON(pie.Map(overviews, toOverviewResponse))
}

func (s *Server) getConversation(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	conv, err := s.store.GetConversation(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(toConversationResponse(conv))
}

func (s *Server) updateStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err = s.parseBody(c, &req); err != nil {
		return err
	}

	if err = s.store.UpdateStatus(c.Context(), id, req.Status); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listMessages(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	messages, err := s.store.ListMessages(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(pie.Map(messages, toMessageResponse))
}

// recordMessage appends an externally authored message (either side of the
// exchange) and queues a background summary refresh for the conversation.
func (s *Server) recordMessage(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req recordMessageRequest
	if err = s.parseBody(c, &req); err != nil {
		return err
	}

	msg, err := s.store.AppendMessage(c.Context(), id, req.Content, storage.Direction(req.Direction))
	if err != nil {
		return err
	}

	s.queueSvc.Add(id)

	return c.Status(fiber.StatusCreated).JSON(toMessageResponse(*msg))
}

func (s *Server) buildContext(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	bundle, err := s.conversationSvc.BuildContext(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(contextResponse{
		Summary: bundle.Summary,
		Recent:  pie.Map(bundle.Recent, toMessageResponse),
	})
}

func (s *Server) refreshSummary(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	summary, err := s.conversationSvc.RefreshSummary(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(summaryResponse{Summary: summary})
}

func (s *Server) generateReply(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req generateReplyRequest
	if err = s.parseBody(c, &req); err != nil {
		return err
	}

	msg, err := s.replySvc.GenerateReply(c.Context(), id, req.Intent)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toMessageResponse(*msg))
}

func (s *Server) composeEmail(c *fiber.Ctx) error {
	var req composeEmailRequest
	if err := s.parseBody(c, &req); err != nil {
		return err
	}

	email, err := s.replySvc.ComposeEmail(c.Context(), req.ContactID, req.Context, req.Relationship)
	if err != nil {
		return err
	}

	return c.JSON(emailResponse{Email: email})
}

func (s *Server) optimizeReply(c *fiber.Ctx) error {
	var req optimizeReplyRequest
	if err := s.parseBody(c, &req); err != nil {
		return err
	}

	email, err := s.replySvc.OptimizeReply(c.Context(), req.Reply, req.OptimizeType)
	if err != nil {
		return err
	}

	return c.JSON(emailResponse{Email: email})
}
