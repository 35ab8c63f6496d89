package handler

import (
	"net/http"
	"testing"

	"github.com/stashbox/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Signup, login, empty list, create, then a second user is refused the note.
func TestSignupLoginNotesFlow(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "a@x.com", "password": "pw1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var signup model.SignupResponse
	decode(t, w, &signup)

	w = srv.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code)
	var login model.LoginResponse
	decode(t, w, &login)
	token := login.Token

	w = srv.do(t, http.MethodGet, "/api/notes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = srv.do(t, http.MethodPost, "/api/notes", token, map[string]string{"title": "t", "content": "c"})
	require.Equal(t, http.StatusCreated, w.Code)
	var note model.Note
	decode(t, w, &note)
	assert.Equal(t, signup.UserID, note.OwnerID)

	other := srv.login(t, "b@x.com")
	w = srv.do(t, http.MethodGet, "/api/notes/"+note.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
