package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bookingapi/internal/auth"
	"bookingapi/internal/model"
)

const (
	// SessionCookie carries the opaque session token for browser clients.
	SessionCookie = "session"
	// SessionHeader carries the session token for non-browser clients.
	SessionHeader = "X-Session-Token"
	// UserLocalKey holds the authenticated *model.User in Fiber locals.
	UserLocalKey = "user"
)

// Authenticate resolves the caller from a bearer JWT, falling back to a session
// token. Requests with neither, or with rejected credentials, fail with 401.
func Authenticate(reg *auth.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		strategy, token := credentialsFrom(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		u, err := reg.Authenticate(c.UserContext(), strategy, auth.Credentials{Token: token})
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) || errors.Is(err, auth.ErrUnknownStrategy) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
			}
			return err
		}

		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

func credentialsFrom(c *fiber.Ctx) (strategy, token string) {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return auth.StrategyJWT, strings.TrimSpace(tok)
		}
	}
	return auth.StrategySession, SessionToken(c)
}

// SessionToken reads the session token from the header or cookie.
func SessionToken(c *fiber.Ctx) string {
	if t := c.Get(SessionHeader); t != "" {
		return t
	}
	return c.Cookies(SessionCookie)
}

// CurrentUser returns the user stored by Authenticate, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}
