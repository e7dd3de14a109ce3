package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bookingapi/internal/auth"
	"bookingapi/internal/http/middleware"
	"bookingapi/internal/logging"
	"bookingapi/internal/mail"
	"bookingapi/internal/model"
	"bookingapi/internal/service"
)

const (
	oauthStateCookie = "oauth_state"
	// securityList is the mailing list of sign-in alerts.
	securityList = "security"
)

// AuthDeps groups what the sign-in handlers need. Google is nil when OAuth is not
// configured. Usage and Notifications are optional.
type AuthDeps struct {
	Registry      *auth.Registry
	Tokens        *auth.TokenIssuer
	Sessions      *auth.SessionStore
	Google        *auth.GoogleStrategy
	Usage         service.UsageService
	Notifications service.NotificationService
	Log           logrus.FieldLogger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string      `json:"token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	SessionToken string      `json:"session_token"`
	User         *model.User `json:"user"`
}

// Login authenticates with email and password and returns a JWT plus a session.
func Login(d AuthDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body loginRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		u, err := d.Registry.Authenticate(c.UserContext(), auth.StrategyLocal, auth.Credentials{
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return completeLogin(c, d, u)
	}
}

// GoogleLogin redirects to the Google consent page with a fresh state cookie.
func GoogleLogin(d AuthDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d.Google == nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "google sign-in is not configured")
		}
		state := uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Expires:  time.Now().Add(10 * time.Minute),
			HTTPOnly: true,
			Secure:   c.Protocol() == "https",
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.Redirect(d.Google.AuthCodeURL(state), fiber.StatusFound)
	}
}

// GoogleCallback checks state, exchanges the code and completes the login.
func GoogleCallback(d AuthDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d.Google == nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "google sign-in is not configured")
		}
		state := c.Query("state")
		if state == "" || state != c.Cookies(oauthStateCookie) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATE", "oauth state mismatch")
		}
		c.ClearCookie(oauthStateCookie)

		u, err := d.Registry.Authenticate(c.UserContext(), auth.StrategyGoogle, auth.Credentials{Code: c.Query("code")})
		if err != nil {
			return writeServiceError(c, err)
		}
		return completeLogin(c, d, u)
	}
}

// Logout destroys the caller's session. It succeeds for unknown sessions.
func Logout(d AuthDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := d.Sessions.Destroy(c.UserContext(), middleware.SessionToken(c)); err != nil {
			return writeServiceError(c, err)
		}
		c.ClearCookie(middleware.SessionCookie)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func completeLogin(c *fiber.Ctx, d AuthDeps, u *model.User) error {
	ctx := c.UserContext()
	token, exp, err := d.Tokens.Issue(u)
	if err != nil {
		return writeServiceError(c, err)
	}
	sess, err := d.Sessions.Create(ctx, u.ID)
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess,
		Expires:  time.Now().Add(d.Sessions.TTL()),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	if d.Usage != nil {
		if _, err := d.Usage.RecordUse(ctx, u.ID, time.Now(), u.Timezone); err != nil && !errors.Is(err, service.ErrInvalidInput) {
			logging.Component(d.Log, "http").WithField("user_id", u.ID).WithError(err).Warn("usage_record_failed")
		}
	}

	if d.Notifications != nil {
		// fiber reuses request buffers after the handler returns.
		ip, agent := c.IP(), strings.Clone(c.Get(fiber.HeaderUserAgent))
		go notifySignIn(context.WithoutCancel(ctx), d, u, ip, agent)
	}

	return c.JSON(loginResponse{Token: token, ExpiresAt: exp, SessionToken: sess, User: u})
}

func notifySignIn(ctx context.Context, d AuthDeps, u *model.User, ip, agent string) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg := mail.Message{
		Subject: "New sign-in to your account",
		Text: fmt.Sprintf("Your account was signed in from %s (%s) at %s.",
			ip, agent, time.Now().UTC().Format(time.RFC1123)),
	}
	err := d.Notifications.Send(ctx, u.ID, securityList, mail.TransportNoReply, msg)
	if err != nil && !errors.Is(err, service.ErrUnsubscribed) {
		logging.Component(d.Log, "http").WithField("user_id", u.ID).WithError(err).Warn("signin_alert_failed")
	}
}
