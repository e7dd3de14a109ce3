package auth

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingapi/internal/logging"
	"bookingapi/internal/model"
	"bookingapi/internal/service"
	serviceMocks "bookingapi/internal/service/mocks"
)

func TestLocalStrategy(t *testing.T) {
	ctx := context.Background()
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		users := new(serviceMocks.MockUserService)
		users.On("GetForLogin", ctx, "ann@example.com").Return(&model.User{ID: "u-1", PasswordHash: hash}, nil).Once()

		u, err := NewLocalStrategy(users).Authenticate(ctx, Credentials{Email: " ann@example.com ", Password: "pw"})

		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
		users.AssertExpectations(t)
	})

	tests := []struct {
		name       string
		creds      Credentials
		user       *model.User
		err        error
		wantUnauth bool
	}{
		{name: "missing password", creds: Credentials{Email: "a@b.c"}, wantUnauth: true},
		{name: "wrong password", creds: Credentials{Email: "a@b.c", Password: "nope"}, user: &model.User{ID: "u-1", PasswordHash: hash}, wantUnauth: true},
		{name: "oauth only account", creds: Credentials{Email: "a@b.c", Password: "pw"}, user: &model.User{ID: "u-1"}, wantUnauth: true},
		{name: "unknown user", creds: Credentials{Email: "a@b.c", Password: "pw"}, err: service.ErrNotFound, wantUnauth: true},
		{name: "store down", creds: Credentials{Email: "a@b.c", Password: "pw"}, err: errors.New("conn refused")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(serviceMocks.MockUserService)
			if tt.user != nil || tt.err != nil {
				if tt.user != nil {
					users.On("GetForLogin", ctx, "a@b.c").Return(tt.user, nil)
				} else {
					users.On("GetForLogin", ctx, "a@b.c").Return(nil, tt.err)
				}
			}

			_, err := NewLocalStrategy(users).Authenticate(ctx, tt.creds)

			require.Error(t, err)
			assert.Equal(t, tt.wantUnauth, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestJWTStrategy(t *testing.T) {
	ctx := context.Background()
	ti := newTestIssuer(t)
	users := new(serviceMocks.MockUserService)
	s := NewJWTStrategy(ti, users)

	tok, _, err := ti.Issue(&model.User{ID: "u-1"})
	require.NoError(t, err)

	users.On("Get", ctx, "u-1").Return(&model.User{ID: "u-1"}, nil).Once()
	u, err := s.Authenticate(ctx, Credentials{Token: tok})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	users.On("Get", ctx, "u-1").Return(nil, service.ErrNotFound).Once()
	_, err = s.Authenticate(ctx, Credentials{Token: tok})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Authenticate(ctx, Credentials{Token: "junk"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	users.AssertExpectations(t)
}

func TestSessionStrategy(t *testing.T) {
	ctx := context.Background()
	_, sessions := newTestSessions(t)
	users := new(serviceMocks.MockUserService)
	s := NewSessionStrategy(sessions, users)

	tok, err := sessions.Create(ctx, "u-1")
	require.NoError(t, err)

	users.On("Get", ctx, "u-1").Return(&model.User{ID: "u-1"}, nil).Once()
	u, err := s.Authenticate(ctx, Credentials{Token: tok})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	_, err = s.Authenticate(ctx, Credentials{})
	assert.ErrorIs(t, err, ErrUnauthorized)
	users.AssertExpectations(t)
}

type stubStrategy struct {
	name string
	user *model.User
	err  error
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Authenticate(context.Context, Credentials) (*model.User, error) {
	return s.user, s.err
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	r := NewRegistry(logging.New("debug", &buf),
		stubStrategy{name: "ok", user: &model.User{ID: "u-1"}},
		stubStrategy{name: "deny", err: unauthorized("nope", nil)},
	)
	r.Register(stubStrategy{name: "broken", err: errors.New("boom")})

	assert.Equal(t, []string{"broken", "deny", "ok"}, r.Names())
	_, ok := r.Get("deny")
	assert.True(t, ok)

	u, err := r.Authenticate(ctx, "ok", Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	_, err = r.Authenticate(ctx, "deny", Credentials{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = r.Authenticate(ctx, "broken", Credentials{})
	assert.EqualError(t, err, "boom")

	_, err = r.Authenticate(ctx, "saml", Credentials{})
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	assert.Contains(t, buf.String(), `"msg":"auth_rejected"`)
	assert.Contains(t, buf.String(), `"msg":"auth_failed"`)
}
