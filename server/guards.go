package server

import (
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
)

// requireAuthenticated returns the current principal, or an
// Unauthenticated error for anonymous requests. Callers convert the
// error into a redirect to the login page.
func requireAuthenticated(c *fiber.Ctx) (*models.User, error) {
	user := currentUser(c)
	if user == nil {
		return nil, models.NewUnauthenticatedError("You need to be logged in to do that")
	}
	return user, nil
}

// requireAdmin returns the current principal only when it is the site
// administrator. Anonymous and non-admin principals both get Forbidden.
func requireAdmin(c *fiber.Ctx) (*models.User, error) {
	user := currentUser(c)
	if user == nil || !user.IsAdmin() {
		return nil, models.NewForbiddenError("Admin access required")
	}
	return user, nil
}

// redirectToLogin flashes the reason and sends the visitor to the login page.
func redirectToLogin(c *fiber.Ctx, message string) error {
	setFlash(c, message)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
