package server

import (
	"fmt"

	"inkwell/auth"
	"inkwell/models"
	"inkwell/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest is the registration form payload.
type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ShowRegister handles GET /register
func (s *Server) ShowRegister(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"form":  fiber.Map{"name": "", "email": "", "password": ""},
		"flash": popFlash(c),
	})
}

// Register handles POST /register: validate, reject duplicate emails,
// hash the password, persist, and log the new user straight in.
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		setFlash(c, "One or more fields were missing or incorrect.")
		return c.Redirect("/register", fiber.StatusSeeOther)
	}

	if err := validation.Required(map[string]string{
		"name": req.Name, "email": req.Email, "password": req.Password,
	}); err != nil {
		setFlash(c, err.Error())
		return c.Redirect("/register", fiber.StatusSeeOther)
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		setFlash(c, err.Error())
		return c.Redirect("/register", fiber.StatusSeeOther)
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		setFlash(c, err.Error())
		return c.Redirect("/register", fiber.StatusSeeOther)
	}

	existing, err := s.users.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if existing != nil {
		setFlash(c, "A user with that email already exists!")
		return c.Redirect("/register", fiber.StatusSeeOther)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
	}

	if err := s.users.Create(c.UserContext(), user); err != nil {
		// Lost the race against a concurrent registration with the
		// same email; the unique index is the source of truth.
		if models.HasCode(err, models.CodeConstraintViolation) {
			setFlash(c, "A user with that email already exists!")
			return c.Redirect("/register", fiber.StatusSeeOther)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.issueSession(c, user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	setFlash(c, "Successfully registered! You are logged in now.")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// ShowLogin handles GET /login
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"form":  fiber.Map{"email": "", "password": ""},
		"flash": popFlash(c),
	})
}

// Login handles POST /login
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		setFlash(c, "One or more fields were missing or incorrect.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	user, err := s.users.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		setFlash(c, "No user was found with that email")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		setFlash(c, "Password was incorrect.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	if err := s.issueSession(c, user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	setFlash(c, fmt.Sprintf("Successfully logged in, %s!", user.Name))
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout handles GET /logout: invalidation is unconditional, there is
// nothing to fail for an anonymous visitor.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSession(c)
	setFlash(c, "Successfully logged out.")
	return c.Redirect("/", fiber.StatusSeeOther)
}
