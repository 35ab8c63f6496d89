package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stashbox/backend/internal/config"
	"github.com/stashbox/backend/internal/db/memory"
	"github.com/stashbox/backend/internal/logging"
	"github.com/stashbox/backend/internal/service"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router *gin.Engine
	tokens *service.TokenIssuer
	store  *memory.Store
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithPinger(t, nil)
}

func newTestServerWithPinger(t *testing.T, pinger Pinger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	if pinger == nil {
		pinger = store
	}
	tokens, err := service.NewTokenIssuer([]byte("handler-test-secret"), time.Hour)
	require.NoError(t, err)

	log := logging.Discard()
	router := NewRouter(RouterDeps{
		Auth:      service.NewAuthService(store, service.NewBcryptHasher(bcrypt.MinCost), tokens, log),
		Notes:     service.NewNoteService(store, log),
		Bookmarks: service.NewBookmarkService(store, nil, log),
		Store:     pinger,
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://app.test"}},
		Log:       log,
	})
	return &testServer{router: router, tokens: tokens, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// login signs up email and returns a fresh token.
func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"email": email, "password": "pw-" + email})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": "pw-" + email})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	decode(t, w, &res)
	require.NotEmpty(t, res.Token)
	return res.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var res struct {
		Error string `json:"error"`
	}
	decode(t, w, &res)
	return res.Error
}

var errDown = errors.New("db down")
