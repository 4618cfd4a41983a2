package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"toyblog/app/logging"
	"toyblog/app/middleware"
	"toyblog/app/models"
	"toyblog/app/repositories/mock"
	"toyblog/app/services"
	"toyblog/app/views"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	blogRepo    *mock.BlogRepository
	commentRepo *mock.CommentRepository
	userRepo    *mock.UserRepository
	sessions    *services.SessionService
	auth        *services.AuthService
	views       *Renderer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	renderer, err := NewRenderer(views.FS, logging.Discard())
	require.NoError(t, err)
	users := mock.NewUserRepository()
	return &testEnv{
		blogRepo:    mock.NewBlogRepository(),
		commentRepo: mock.NewCommentRepository(),
		userRepo:    users,
		sessions:    services.NewSessionService(mock.NewSessionStore(), "test-secret", time.Hour),
		auth:        services.NewAuthService(users, bcrypt.MinCost),
		views:       renderer,
	}
}

// signIn registers a user with role and returns a request decorator that
// attaches the live session to the request context.
func (env *testEnv) signIn(t *testing.T, email string, role models.Role) func(*http.Request) *http.Request {
	t.Helper()
	user, err := env.auth.Register(context.Background(), services.RegisterInput{Email: email, Password: "secret1", Password2: "secret1"})
	require.NoError(t, err)
	if role != models.RoleUser {
		user, err = services.NewAccountService(env.userRepo).SetRoleByEmail(context.Background(), email, role)
		require.NoError(t, err)
	}
	token, _, err := env.sessions.Start(context.Background(), user)
	require.NoError(t, err)
	return func(r *http.Request) *http.Request {
		session, err := env.sessions.Resolve(r.Context(), token)
		require.NoError(t, err)
		return r.WithContext(middleware.WithSession(r.Context(), session))
	}
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type jsonEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) jsonEnvelope {
	t.Helper()
	var env jsonEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
