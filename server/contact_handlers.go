package server

import (
	"context"
	"time"

	"inkwell/mail"
	"inkwell/middleware"
	"inkwell/validation"

	"github.com/gofiber/fiber/v2"
)

// sendTimeout bounds the whole contact submission, SMTP dial included.
const sendTimeout = 15 * time.Second

// ContactRequest is the contact form payload. Phone is optional.
type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
}

// ShowContact handles GET /contact
func (s *Server) ShowContact(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"form":  ContactRequest{},
		"flash": popFlash(c),
	})
}

// Contact handles POST /contact. The submission is delivered before the
// visitor is told anything: success is only flashed once the mail
// transaction has actually completed, and a failed delivery is surfaced
// rather than swallowed.
func (s *Server) Contact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		setFlash(c, "One or more fields were missing or incorrect.")
		return c.Redirect("/contact", fiber.StatusSeeOther)
	}

	if err := validation.Required(map[string]string{
		"name": req.Name, "email": req.Email, "message": req.Message,
	}); err != nil {
		setFlash(c, err.Error())
		return c.Redirect("/contact", fiber.StatusSeeOther)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), sendTimeout)
	defer cancel()

	err := s.mailer.Send(ctx, mail.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		middleware.Logger.Error("contact delivery failed", "error", err)
		setFlash(c, "Your message could not be sent. Please try again later.")
		return c.Redirect("/contact", fiber.StatusSeeOther)
	}

	setFlash(c, "Your message was sent!")
	return c.Redirect("/contact", fiber.StatusSeeOther)
}
