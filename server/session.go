package server

import (
	"strconv"
	"time"

	"inkwell/cache"
	"inkwell/middleware"
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookie = "session"
	sessionTTL    = 7 * 24 * time.Hour

	tokenIssuer   = "inkwell"
	tokenAudience = "inkwell-web"

	principalKey = "principal"
)

// issueSession signs a session token for the user and sets it as an
// HttpOnly cookie. The token carries only the user ID and the usual
// integrity claims; everything else lives server-side.
func (s *Server) issueSession(c *fiber.Ctx, user *models.User) error {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(sessionTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AppSecretKey))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// clearSession invalidates the current session. The cookie is expired
// for the browser and the token's jti is denylisted in Redis for the
// remainder of its lifetime, so a replayed cookie stays dead.
func (s *Server) clearSession(c *fiber.Ctx) {
	if claims, err := s.parseSessionToken(c.Cookies(sessionCookie)); err == nil {
		jti, _ := claims["jti"].(string)
		var ttl time.Duration
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			ttl = time.Until(exp.Time)
		}
		if err := cache.RevokeSession(c.Context(), s.redis, jti, ttl); err != nil {
			middleware.Logger.Warn("session revocation failed", "error", err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// parseSessionToken validates signature, signing method, issuer, and
// audience, returning the claims of a live token.
func (s *Server) parseSessionToken(tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.config.AppSecretKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// WithCurrentUser resolves the session cookie into a principal for
// every request. An invalid, revoked, or absent token leaves the
// request anonymous; it never blocks.
func (s *Server) WithCurrentUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := s.parseSessionToken(c.Cookies(sessionCookie))
		if err != nil {
			return c.Next()
		}

		if jti, _ := claims["jti"].(string); cache.IsSessionRevoked(c.Context(), s.redis, jti) {
			return c.Next()
		}

		sub, err := claims.GetSubject()
		if err != nil {
			return c.Next()
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return c.Next()
		}

		user, err := s.users.GetByID(c.UserContext(), uint(userID))
		if err != nil || user == nil {
			return c.Next()
		}

		c.Locals(principalKey, user)
		c.Locals("userID", user.ID)

		return c.Next()
	}
}

// currentUser returns the authenticated principal, or nil for anonymous requests.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(principalKey).(*models.User)
	return user
}
