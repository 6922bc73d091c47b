package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zhaolong57/mood-diary/internal/apperr"
	"github.com/zhaolong57/mood-diary/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct{ db *gorm.DB }

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{db: db} }

// ValidateRegistration enforces the account rules: all fields present,
// username 3-20 characters, password at least 6.
func ValidateRegistration(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return apperr.Validation("username, email and password are required")
	}
	if len(username) < 3 || len(username) > 20 {
		return apperr.Validation("username must be 3-20 characters")
	}
	if len(password) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if err := ValidateRegistration(username, email, password); err != nil {
		return nil, err
	}

	var existing model.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("username or email already taken")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// Login accepts a username or an email. Both a missing user and a wrong
// password produce the same error, so account existence cannot be probed.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.ErrBadCredentials
	}
	return &u, nil
}
