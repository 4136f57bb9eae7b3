package server

import (
	"strconv"
	"time"

	"inkwell/cache"
	"inkwell/models"
	"inkwell/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	postsCacheKey = "posts:all"
	postsCacheTTL = time.Minute
)

// PostRequest is the shared payload for creating and editing posts.
type PostRequest struct {
	Title    string `json:"title" form:"title"`
	Subtitle string `json:"subtitle" form:"subtitle"`
	Body     string `json:"body" form:"body"`
	ImageURL string `json:"image_url" form:"image_url"`
}

func (s *Server) validatePostRequest(req *PostRequest) error {
	return validation.Required(map[string]string{
		"title":     req.Title,
		"subtitle":  req.Subtitle,
		"body":      req.Body,
		"image_url": req.ImageURL,
	})
}

// GetAllPosts handles GET /: every post, cache-aside through Redis.
func (s *Server) GetAllPosts(c *fiber.Ctx) error {
	var posts []models.Post
	err := cache.CacheAside(c.UserContext(), s.redis, postsCacheKey, &posts, postsCacheTTL, func() error {
		var err error
		posts, err = s.posts.List(c.UserContext())
		return err
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"flash": popFlash(c),
	})
}

// ShowPost handles GET /post/:id: the post with its comments.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	postID, err := parseID(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.posts.GetByID(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", postID))
	}

	comments, err := s.comments.ListByPost(c.UserContext(), post.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
		"flash":    popFlash(c),
	})
}

// NewPostForm handles GET /new-post. Anonymous visitors are sent to the
// login page instead of being handed a post-creation form.
func (s *Server) NewPostForm(c *fiber.Ctx) error {
	if _, err := requireAuthenticated(c); err != nil {
		return redirectToLogin(c, "You need to be logged in to write a post!")
	}

	return c.JSON(fiber.Map{
		"form":  PostRequest{},
		"flash": popFlash(c),
	})
}

// CreatePost handles POST /new-post: any authenticated user may author
// a post; it is dated today and attributed to the current principal.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user, err := requireAuthenticated(c)
	if err != nil {
		return redirectToLogin(c, "You need to be logged in to write a post!")
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		setFlash(c, "One or more fields were missing or incorrect.")
		return c.Redirect("/new-post", fiber.StatusSeeOther)
	}
	if err := s.validatePostRequest(&req); err != nil {
		setFlash(c, err.Error())
		return c.Redirect("/new-post", fiber.StatusSeeOther)
	}

	post := &models.Post{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		Date:     time.Now().Format(models.PostDateFormat),
		AuthorID: user.ID,
	}

	if err := s.posts.Create(c.UserContext(), post); err != nil {
		if models.HasCode(err, models.CodeConstraintViolation) {
			setFlash(c, "A post with that title already exists!")
			return c.Redirect("/new-post", fiber.StatusSeeOther)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.Invalidate(c.UserContext(), s.redis, postsCacheKey)

	return c.Redirect("/", fiber.StatusSeeOther)
}

// EditPostForm handles GET /edit-post/:id (admin only): returns the
// existing post data to pre-fill the edit form.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}

	postID, err := parseID(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.posts.GetByID(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", postID))
	}

	return c.JSON(fiber.Map{
		"form": PostRequest{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			Body:     post.Body,
			ImageURL: post.ImageURL,
		},
		"flash": popFlash(c),
	})
}

// UpdatePost handles POST /edit-post/:id (admin only). Author and date
// are left untouched; only the editable fields are overwritten.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}

	postID, err := parseID(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.posts.GetByID(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", postID))
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		setFlash(c, "One or more fields were missing or incorrect.")
		return c.Redirect("/edit-post/"+c.Params("id"), fiber.StatusSeeOther)
	}
	if err := s.validatePostRequest(&req); err != nil {
		setFlash(c, err.Error())
		return c.Redirect("/edit-post/"+c.Params("id"), fiber.StatusSeeOther)
	}

	post.Title = req.Title
	post.Subtitle = req.Subtitle
	post.Body = req.Body
	post.ImageURL = req.ImageURL

	if err := s.posts.Update(c.UserContext(), post); err != nil {
		if models.HasCode(err, models.CodeConstraintViolation) {
			setFlash(c, "A post with that title already exists!")
			return c.Redirect("/edit-post/"+c.Params("id"), fiber.StatusSeeOther)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.Invalidate(c.UserContext(), s.redis, postsCacheKey)

	return c.Redirect("/post/"+c.Params("id"), fiber.StatusSeeOther)
}

// DeletePost handles GET /delete/:id (admin only): removes the post and
// every comment on it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}

	postID, err := parseID(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.posts.GetByID(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", postID))
	}

	if err := s.posts.Delete(c.UserContext(), post.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.Invalidate(c.UserContext(), s.redis, postsCacheKey)

	return c.Redirect("/", fiber.StatusSeeOther)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, models.NewValidationError("Invalid post ID")
	}
	return uint(id), nil
}
