package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zhaolong57/mood-diary/internal/apperr"
	"github.com/zhaolong57/mood-diary/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	registerErr error
	loginErr    error
	user        model.User
}

func (f *fakeAuth) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	u := f.user
	return &u, nil
}

func (f *fakeAuth) Login(ctx context.Context, usernameOrEmail, password string) (*model.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	u := f.user
	return &u, nil
}

func authRouter(auth AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(auth)
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterSuccessShape(t *testing.T) {
	r := authRouter(&fakeAuth{user: model.User{ID: "u-1", Username: "alice", Email: "a@example.com"}})

	w := post(r, "/api/register", `{"username":"alice","email":"a@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "u-1", resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.Token)
}

func TestRegisterValidationIs400(t *testing.T) {
	r := authRouter(&fakeAuth{registerErr: apperr.Validation("username must be 3-20 characters")})

	w := post(r, "/api/register", `{"username":"ab","email":"a@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username must be 3-20 characters")
}

func TestRegisterConflictIs400(t *testing.T) {
	r := authRouter(&fakeAuth{registerErr: apperr.Conflict("username or email already taken")})

	w := post(r, "/api/register", `{"username":"alice","email":"a@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already taken")
}

func TestLoginBadCredentialsIs401(t *testing.T) {
	r := authRouter(&fakeAuth{loginErr: apperr.ErrBadCredentials})

	w := post(r, "/api/login", `{"username":"alice","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperr.ErrBadCredentials.Error(), resp.Error)
}

func TestMalformedBodyIs400(t *testing.T) {
	r := authRouter(&fakeAuth{})

	assert.Equal(t, http.StatusBadRequest, post(r, "/api/register", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/api/login", `{`).Code)
}

func TestUnexpectedErrorIsOpaque500(t *testing.T) {
	r := authRouter(&fakeAuth{loginErr: context.DeadlineExceeded})

	w := post(r, "/api/login", `{"username":"alice","password":"secret1"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal error")
	assert.NotContains(t, w.Body.String(), "deadline")
}
