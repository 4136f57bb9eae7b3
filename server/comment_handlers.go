package server

import (
	"strings"

	"inkwell/models"

	"github.com/gofiber/fiber/v2"
)

// CommentRequest is the comment form payload.
type CommentRequest struct {
	Text string `json:"text" form:"text"`
}

// CreateComment handles POST /post/:id: an authenticated visitor leaves
// a comment and is sent back to the post, where it must already appear.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	user, err := requireAuthenticated(c)
	if err != nil {
		return redirectToLogin(c, "You need to be logged in to post a comment!")
	}

	post, err := s.posts.GetByID(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", postID))
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		setFlash(c, "A comment needs some text!")
		return c.Redirect("/post/"+c.Params("id"), fiber.StatusSeeOther)
	}

	comment := &models.Comment{
		Text:   req.Text,
		UserID: user.ID,
		PostID: post.ID,
	}

	if err := s.comments.Create(c.UserContext(), comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Redirect("/post/"+c.Params("id"), fiber.StatusSeeOther)
}
