package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/zhaolong57/mood-diary/internal/apperr"
	"github.com/zhaolong57/mood-diary/internal/logger"
	"github.com/zhaolong57/mood-diary/internal/middleware"
	"github.com/zhaolong57/mood-diary/internal/model"

	"github.com/gin-gonic/gin"
)

// AuthService is implemented by service.AuthService.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*model.User, error)
}

type AuthHandler struct{ auth AuthService }

func NewAuthHandler(auth AuthService) *AuthHandler { return &AuthHandler{auth: auth} }

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	logger.Info("register.ok", "uid", u.ID, "username", u.Username)
	respondWithToken(c, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Warn("login.failed", "username", req.Username)
		writeError(c, err)
		return
	}

	logger.Info("login.ok", "uid", u.ID, "username", u.Username)
	respondWithToken(c, u)
}

func respondWithToken(c *gin.Context, u *model.User) {
	token, err := middleware.IssueToken(u.ID, u.Username)
	if err != nil {
		logger.Error("token issue failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, model.AuthResponse{Success: true, User: u.Public(), Token: token})
}

// writeError maps the error taxonomy onto wire statuses: validation and
// conflict are 400, bad credentials 401, anything else an opaque 500.
func writeError(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	var ce *apperr.ConflictError
	switch {
	case errors.As(err, &ve), errors.As(err, &ce):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
