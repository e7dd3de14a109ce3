package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"bookingapi/internal/auth"
	"bookingapi/internal/config"
	"bookingapi/internal/http/middleware"
	"bookingapi/internal/logging"
	"bookingapi/internal/mail"
	"bookingapi/internal/model"
	"bookingapi/internal/service"
	serviceMocks "bookingapi/internal/service/mocks"
)

type authFixture struct {
	deps  AuthDeps
	users *serviceMocks.MockUserService
	usage *serviceMocks.MockUsageService
	redis *miniredis.Miniredis
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens, err := auth.NewTokenIssuer(config.AuthConfig{JWTSecret: "test", JWTIssuer: "bookingapi", JWTTTL: time.Hour})
	require.NoError(t, err)
	sessions := auth.NewSessionStore(client, config.SessionConfig{Prefix: "sess", TTL: time.Hour})
	users := new(serviceMocks.MockUserService)
	usage := new(serviceMocks.MockUsageService)

	return &authFixture{
		deps: AuthDeps{
			Registry: auth.NewRegistry(logging.Discard(),
				auth.NewLocalStrategy(users),
				auth.NewJWTStrategy(tokens, users),
				auth.NewSessionStrategy(sessions, users),
			),
			Tokens:   tokens,
			Sessions: sessions,
			Usage:    usage,
			Log:      logging.Discard(),
		},
		users: users,
		usage: usage,
		redis: mr,
	}
}

func (f *authFixture) bearer(t *testing.T, u *model.User) string {
	t.Helper()
	tok, _, err := f.deps.Tokens.Issue(u)
	require.NoError(t, err)
	return "Bearer " + tok
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(PostgresDependency(db), RedisDependency(rdb)))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("postgres down", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
		assert.Equal(t, "postgres unavailable", body.Error.Message)
	})

	t.Run("redis down", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)
		mr.Close()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "redis unavailable", decodeError(t, resp).Error.Message)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	user := &model.User{ID: "u-1", Email: "ann@example.com", PasswordHash: hash, Timezone: "UTC"}

	post := func(app *fiber.App, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture(t)
		app := fiber.New()
		app.Post("/auth/login", Login(f.deps))
		f.users.On("GetForLogin", mock.Anything, "ann@example.com").Return(user, nil).Once()
		f.usage.On("RecordUse", mock.Anything, "u-1", mock.Anything, "UTC").Return("2024-06-01", nil).Once()

		resp := post(app, `{"email":"ann@example.com","password":"pw"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEmpty(t, body["token"])
		sess, _ := body["session_token"].(string)
		assert.True(t, f.redis.Exists("sess:"+sess))
		assert.NotContains(t, body["user"], "password_hash")

		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == middleware.SessionCookie {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.Equal(t, sess, cookie.Value)
		assert.True(t, cookie.HttpOnly)

		f.users.AssertExpectations(t)
		f.usage.AssertExpectations(t)
	})

	t.Run("usage failure does not block login", func(t *testing.T) {
		f := newAuthFixture(t)
		app := fiber.New()
		app.Post("/auth/login", Login(f.deps))
		f.users.On("GetForLogin", mock.Anything, "ann@example.com").Return(user, nil).Once()
		f.usage.On("RecordUse", mock.Anything, "u-1", mock.Anything, "UTC").Return("", errors.New("mongo down")).Once()

		resp := post(app, `{"email":"ann@example.com","password":"pw"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		app := fiber.New()
		app.Post("/auth/login", Login(f.deps))
		f.users.On("GetForLogin", mock.Anything, "ann@example.com").Return(user, nil).Once()

		resp := post(app, `{"email":"ann@example.com","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
		f.usage.AssertNotCalled(t, "RecordUse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid body", func(t *testing.T) {
		f := newAuthFixture(t)
		app := fiber.New()
		app.Post("/auth/login", Login(f.deps))

		resp := post(app, `{"email":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	app := fiber.New()
	app.Post("/auth/logout", Logout(f.deps))

	tok, err := f.deps.Sessions.Create(t.Context(), "u-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set(middleware.SessionHeader, tok)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, f.redis.Exists("sess:"+tok))
}

func TestGoogleLogin(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		f := newAuthFixture(t)
		app := fiber.New()
		app.Get("/auth/google", GoogleLogin(f.deps))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/auth/google", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("redirects with state", func(t *testing.T) {
		f := newAuthFixture(t)
		f.deps.Google = auth.NewGoogleStrategy(&oauth2.Config{
			ClientID: "cid",
			Endpoint: oauth2.Endpoint{AuthURL: "https://idp.example.com/auth", TokenURL: "https://idp.example.com/token"},
		}, "", f.users)
		app := fiber.New()
		app.Get("/auth/google", GoogleLogin(f.deps))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/auth/google", nil))

		require.Equal(t, http.StatusFound, resp.StatusCode)
		var state string
		for _, c := range resp.Cookies() {
			if c.Name == oauthStateCookie {
				state = c.Value
			}
		}
		require.NotEmpty(t, state)
		loc := resp.Header.Get("Location")
		assert.True(t, strings.HasPrefix(loc, "https://idp.example.com/auth?"))
		assert.Contains(t, loc, "state="+state)
	})
}

func TestGoogleCallback_StateMismatch(t *testing.T) {
	f := newAuthFixture(t)
	f.deps.Google = auth.NewGoogleStrategy(&oauth2.Config{}, "", f.users)
	app := fiber.New()
	app.Get("/auth/google/callback", GoogleCallback(f.deps))

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc&code=x", nil)
	req.Header.Set("Cookie", oauthStateCookie+"=def")
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", decodeError(t, resp).Error.Code)
}

type routed struct {
	app          *fiber.App
	auth         *authFixture
	schedules    *serviceMocks.MockScheduleService
	sessionTypes *serviceMocks.MockSessionTypeService
	chats        *serviceMocks.MockChatService
	meta         *serviceMocks.MockUserMetaService
}

func newRoutedApp(t *testing.T) *routed {
	t.Helper()
	r := &routed{
		auth:         newAuthFixture(t),
		schedules:    new(serviceMocks.MockScheduleService),
		sessionTypes: new(serviceMocks.MockSessionTypeService),
		chats:        new(serviceMocks.MockChatService),
		meta:         new(serviceMocks.MockUserMetaService),
	}
	r.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(r.app, Deps{
		Metrics:      prometheus.NewRegistry(),
		Auth:         r.auth.deps,
		Schedules:    r.schedules,
		SessionTypes: r.sessionTypes,
		Chats:        r.chats,
		Usage:        r.auth.usage,
		UserMeta:     r.meta,
	})
	return r
}

// do sends an authenticated request as user.
func (r *routed) do(t *testing.T, method, path string, user *model.User) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", r.auth.bearer(t, user))
	resp, err := r.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestListMySchedules(t *testing.T) {
	r := newRoutedApp(t)
	app, schedules := r.app, r.schedules
	user := &model.User{ID: "u-1"}
	r.auth.users.On("Get", mock.Anything, "u-1").Return(user, nil)

	t.Run("success", func(t *testing.T) {
		schedules.On("ListByUser", mock.Anything, "u-1").
			Return([]model.UserSchedule{{ID: "s-1", UserID: "u-1", Name: "Weekdays"}}, nil).Once()

		resp := r.do(t, http.MethodGet, "/me/schedules", user)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result struct {
			Data []model.UserSchedule `json:"data"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		require.Len(t, result.Data, 1)
		assert.Equal(t, "Weekdays", result.Data[0].Name)
		schedules.AssertExpectations(t)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/me/schedules", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		schedules.On("ListByUser", mock.Anything, "u-1").Return(nil, errors.New("db error")).Once()

		resp := r.do(t, http.MethodGet, "/me/schedules", user)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
	})
}

func TestListMySessionTypes_SessionAuthAndEmptyList(t *testing.T) {
	r := newRoutedApp(t)
	app, f, sessionTypes := r.app, r.auth, r.sessionTypes
	f.users.On("Get", mock.Anything, "u-1").Return(&model.User{ID: "u-1"}, nil)
	sessionTypes.On("ListByUser", mock.Anything, "u-1").Return(nil, nil).Once()

	tok, err := f.deps.Sessions.Create(t.Context(), "u-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me/session-types", nil)
	req.Header.Set("Cookie", middleware.SessionCookie+"="+tok)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.JSONEq(t, `[]`, string(body["data"]))
	sessionTypes.AssertExpectations(t)
}

func TestExportMySchedule(t *testing.T) {
	r := newRoutedApp(t)
	schedules := r.schedules
	user := &model.User{ID: "u-1"}
	r.auth.users.On("Get", mock.Anything, "u-1").Return(user, nil)

	get := func(id string) *http.Response {
		return r.do(t, http.MethodGet, "/me/schedules/"+id+"/export", user)
	}

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		schedules.On("Get", mock.Anything, id).Return(&model.UserSchedule{ID: id, UserID: "u-1"}, nil).Once()
		schedules.On("Export", mock.Anything, id).Return("https://minio/signed", nil).Once()

		resp := get(id)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "https://minio/signed", body["url"])
	})

	t.Run("someone else's schedule", func(t *testing.T) {
		id := uuid.NewString()
		schedules.On("Get", mock.Anything, id).Return(&model.UserSchedule{ID: id, UserID: "u-2"}, nil).Once()

		resp := get(id)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		schedules.AssertNotCalled(t, "Export", mock.Anything, id)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		schedules.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		resp := get(id)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := get("invalid-uuid")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("export disabled", func(t *testing.T) {
		id := uuid.NewString()
		schedules.On("Get", mock.Anything, id).Return(&model.UserSchedule{ID: id, UserID: "u-1"}, nil).Once()
		schedules.On("Export", mock.Anything, id).Return("", service.ErrExportDisabled).Once()

		resp := get(id)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_INPUT", decodeError(t, resp).Error.Code)
	})
}

func TestRouting(t *testing.T) {
	app := newRoutedApp(t).app

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestListMyChats(t *testing.T) {
	r := newRoutedApp(t)
	user := &model.User{ID: "u-1"}
	r.auth.users.On("Get", mock.Anything, "u-1").Return(user, nil)

	t.Run("success", func(t *testing.T) {
		r.chats.On("ListChats", mock.Anything, "u-1", 5, 10).
			Return(&service.ListResult[model.Chat]{Items: []model.Chat{{ID: "c-1"}}, Total: 11}, nil).Once()

		resp := r.do(t, http.MethodGet, "/me/chats?limit=5&offset=10", user)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.ListResult[model.Chat]
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 11, result.Total)
		r.chats.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp := r.do(t, http.MethodGet, "/me/chats?limit=abc", user)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp := r.do(t, http.MethodGet, "/me/chats?offset=-x", user)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})
}

func TestGetMyUsage(t *testing.T) {
	r := newRoutedApp(t)
	user := &model.User{ID: "u-1"}
	r.auth.users.On("Get", mock.Anything, "u-1").Return(user, nil)
	r.auth.usage.On("Get", mock.Anything, "u-1").
		Return(&model.Usage{UserID: "u-1", Days: map[string]bool{"2024-06-01": true}}, nil).Once()

	resp := r.do(t, http.MethodGet, "/me/usage", user)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var usage model.Usage
	json.NewDecoder(resp.Body).Decode(&usage)
	assert.True(t, usage.UsedOn("2024-06-01"))
}

func TestSetMailingList(t *testing.T) {
	r := newRoutedApp(t)
	user := &model.User{ID: "u-1"}
	r.auth.users.On("Get", mock.Anything, "u-1").Return(user, nil)

	r.meta.On("Unsubscribe", mock.Anything, "u-1", "digest").Return(nil).Once()
	resp := r.do(t, http.MethodDelete, "/me/mailing-lists/digest", user)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	r.meta.On("Resubscribe", mock.Anything, "u-1", "digest").Return(nil).Once()
	resp = r.do(t, http.MethodPut, "/me/mailing-lists/digest", user)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	r.meta.On("Unsubscribe", mock.Anything, "u-1", "digest").Return(errors.New("mongo down")).Once()
	resp = r.do(t, http.MethodDelete, "/me/mailing-lists/digest", user)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	r.meta.AssertExpectations(t)
}

func TestLogin_SendsSignInAlert(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	user := &model.User{ID: "u-1", Email: "ann@example.com", PasswordHash: hash, Timezone: "UTC"}

	f := newAuthFixture(t)
	notifications := new(serviceMocks.MockNotificationService)
	f.deps.Notifications = notifications
	f.users.On("GetForLogin", mock.Anything, "ann@example.com").Return(user, nil).Once()
	f.usage.On("RecordUse", mock.Anything, "u-1", mock.Anything, "UTC").Return("2024-06-01", nil).Once()

	sent := make(chan mail.Message, 1)
	notifications.On("Send", mock.Anything, "u-1", securityList, mail.TransportNoReply, mock.Anything).
		Run(func(args mock.Arguments) { sent <- args.Get(4).(mail.Message) }).
		Return(nil).Once()

	app := fiber.New()
	app.Post("/auth/login", Login(f.deps))
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ann@example.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "curl/8.0")
	resp, _ := app.Test(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case msg := <-sent:
		assert.Equal(t, "New sign-in to your account", msg.Subject)
		assert.Contains(t, msg.Text, "curl/8.0")
	case <-time.After(2 * time.Second):
		t.Fatal("sign-in alert was not sent")
	}
}
