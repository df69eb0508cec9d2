package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clinic-admin-backend/internal/models"
	"clinic-admin-backend/internal/repository"
	"clinic-admin-backend/pkg/utils"

	"gorm.io/gorm"
)

type AuthService struct {
	userRepo *repository.UserRepository
	jwt      *utils.JWTManager
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthService(userRepo *repository.UserRepository, jwt *utils.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterInput mirrors the sign-up form
type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"required,max=254,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"-"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register creates a new user account and signs it in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResponse, error) {
	user, err := s.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// CreateUser validates the input and stores a new active user without signing in
func (s *AuthService) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	ve := validateStruct(&in)
	if !ve.Has("username") {
		taken, err := s.userRepo.UsernameTaken(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("username", "a user with that username already exists")
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	// Hash the password
	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Active:       true,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("username", "a user with that username already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !user.Active || !utils.ComparePassword(user.PasswordHash, password) {
		s.logger.WarnContext(ctx, "login rejected", "username", user.Username)
		return nil, ErrUnauthorized
	}

	s.recordLogin(ctx, user, password)
	return s.issueTokens(ctx, user)
}

// recordLogin stamps the login time and upgrades the hash when the bcrypt cost changed.
// Failures are logged only; they must not block a valid login.
func (s *AuthService) recordLogin(ctx context.Context, user *models.User, password string) {
	now := s.now()
	user.LastLoginAt = &now
	if utils.NeedsRehash(user.PasswordHash) {
		if hash, err := utils.HashPassword(password); err == nil {
			user.PasswordHash = hash
		}
	}
	if err := s.userRepo.RecordLogin(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "failed to record login", "user_id", user.ID, "error", err)
	}
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	token, err := s.userRepo.FindRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	if s.now().After(token.ExpiresAt) || !token.User.Active {
		return "", ErrUnauthorized
	}

	accessToken, err := s.jwt.GenerateAccessToken(token.User.ID, token.User.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.userRepo.RevokeRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// PruneRefreshTokens deletes refresh tokens that are expired or revoked
func (s *AuthService) PruneRefreshTokens(ctx context.Context) (int64, error) {
	n, err := s.userRepo.DeleteStaleRefreshTokens(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to prune refresh tokens: %w", err)
	}
	s.logger.InfoContext(ctx, "refresh tokens pruned", "deleted", n)
	return n, nil
}

// RefreshTokenExpiry is the lifetime of refresh tokens issued at login
func (s *AuthService) RefreshTokenExpiry() time.Duration {
	return s.jwt.RefreshTokenExpiry()
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	// Only the hash of the refresh token is stored
	refreshToken := utils.GenerateRefreshToken()
	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashRefreshToken(refreshToken),
		ExpiresAt: s.now().Add(s.jwt.RefreshTokenExpiry()),
	}
	if err := s.userRepo.CreateRefreshToken(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	}, nil
}
