// internal/domain/user/service.go
package user

import (
	"context"
	"strings"
	"time"

	"github.com/estim-games/estim-api/internal/pkg/auth"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service handles account registration and token issuance
type Service struct {
	db              *gorm.DB
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	rotateRefresh   bool
	logger          logrus.FieldLogger
}

// NewService creates a new user service
func NewService(db *gorm.DB, passwords *auth.PasswordManager, tokens *auth.JWTManager, rotateRefresh bool, logger logrus.FieldLogger) *Service {
	return &Service{
		db:              db,
		passwordManager: passwords,
		jwtManager:      tokens,
		rotateRefresh:   rotateRefresh,
		logger:          logger,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest carries a username or email with its password
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// PasswordChangeRequest represents a password change
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new account and signs it in
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 || len(username) > 50 {
		return nil, ErrInvalidUsername
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existing users")
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashed, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(ErrWeakPassword, err.Error())
	}

	user := User{
		Username: username,
		Email:    email,
		Password: hashed,
		IsActive: true,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")

	return s.issue(ctx, &user)
}

// Login authenticates by username or email
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	login := strings.TrimSpace(req.Username)

	var user User
	result := s.db.WithContext(ctx).
		Where("(username = ? OR email = ?) AND is_active = ?", login, strings.ToLower(login), true).
		First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(result.Error, "failed to load user")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, &user)
}

// RefreshToken exchanges a refresh token for a new access token. The refresh
// token itself is rotated when rotation is enabled.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	user, err := s.GetProfile(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	refresh := refreshToken
	if s.rotateRefresh {
		refresh, err = s.jwtManager.GenerateRefreshToken(user.ID, user.Username)
		if err != nil {
			return nil, err
		}
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}

// GetProfile loads an active user
func (s *Service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	var user User
	result := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to load user")
	}

	return &user, nil
}

// ChangePassword replaces the password after verifying the current one
func (s *Service) ChangePassword(ctx context.Context, userID uint, req *PasswordChangeRequest) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.passwordManager.VerifyPassword(req.CurrentPassword, user.Password); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := s.passwordManager.HashPassword(req.NewPassword)
	if err != nil {
		return errors.Wrap(ErrWeakPassword, err.Error())
	}

	if err := s.db.WithContext(ctx).Model(user).Update("password", hashed).Error; err != nil {
		return errors.Wrap(err, "failed to update password")
	}

	s.logger.WithField("user_id", userID).Info("Password changed")
	return nil
}

func (s *Service) issue(ctx context.Context, user *User) (*AuthResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Model(user).Update("last_login_at", now).Error; err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}
