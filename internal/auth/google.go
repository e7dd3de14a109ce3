package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"bookingapi/internal/config"
	"bookingapi/internal/model"
	"bookingapi/internal/service"
)

// GoogleUserInfoURL is the OpenID Connect userinfo endpoint.
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleOAuthConfig builds the OAuth2 client for Google sign-in.
func GoogleOAuthConfig(cfg config.AuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

type googleProfile struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleStrategy exchanges an authorization code and resolves the Google account
// to a user: by Google id first, then by verified email (linking the account),
// and finally by creating a new user.
type GoogleStrategy struct {
	oauth       *oauth2.Config
	userInfoURL string
	users       Users
}

func NewGoogleStrategy(oc *oauth2.Config, userInfoURL string, users Users) *GoogleStrategy {
	if userInfoURL == "" {
		userInfoURL = GoogleUserInfoURL
	}
	return &GoogleStrategy{oauth: oc, userInfoURL: userInfoURL, users: users}
}

func (s *GoogleStrategy) Name() string { return StrategyGoogle }

// AuthCodeURL returns the consent page URL carrying state.
func (s *GoogleStrategy) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *GoogleStrategy) Authenticate(ctx context.Context, c Credentials) (*model.User, error) {
	if c.Code == "" {
		return nil, unauthorized("missing authorization code", nil)
	}
	tok, err := s.oauth.Exchange(ctx, c.Code)
	if err != nil {
		return nil, unauthorized("code exchange", err)
	}
	p, err := s.profile(ctx, tok)
	if err != nil {
		return nil, err
	}
	if p.Sub == "" {
		return nil, unauthorized("profile has no subject", nil)
	}

	u, err := s.users.GetByGoogleID(ctx, p.Sub)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, service.ErrNotFound) {
		return nil, err
	}
	if p.Email == "" || !p.EmailVerified {
		return nil, unauthorized("google email is not verified", nil)
	}

	u, err = s.users.GetByEmail(ctx, p.Email)
	switch {
	case err == nil:
		u.GoogleID = p.Sub
		return s.users.Update(ctx, u)
	case errors.Is(err, service.ErrNotFound):
		return s.users.Create(ctx, &model.User{Email: p.Email, Name: p.Name, GoogleID: p.Sub})
	default:
		return nil, err
	}
}

func (s *GoogleStrategy) profile(ctx context.Context, tok *oauth2.Token) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, unauthorized(fmt.Sprintf("userinfo status %d", resp.StatusCode), nil)
	}
	var p googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("google userinfo decode: %w", err)
	}
	return &p, nil
}
