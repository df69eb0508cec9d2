package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"clinic-admin-backend/internal/models"
	"clinic-admin-backend/internal/repository"
	"clinic-admin-backend/internal/testutil"
	"clinic-admin-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	utils.BcryptCost = bcrypt.MinCost
	db := testutil.NewDB(t)
	jwt := utils.NewJWTManager("test-secret", time.Minute, time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(repository.NewUserRepo(db), jwt, logger), db
}

var validRegistration = RegisterInput{
	Username:        "reception",
	Email:           "reception@example.com",
	Password:        "s3cret-pass",
	PasswordConfirm: "s3cret-pass",
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegistration)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "reception", resp.User.Username)

	_, err = svc.Register(ctx, validRegistration)
	requireFields(t, err, "username")

	in := validRegistration
	in.Username = "other"
	in.PasswordConfirm = "different"
	_, err = svc.Register(ctx, in)
	requireFields(t, err, "password_confirm")

	_, err = svc.Register(ctx, RegisterInput{Username: "ab", Email: "nope", Password: "short", PasswordConfirm: "short"})
	requireFields(t, err, "username", "email", "password")
}

func TestAuthService_Login(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, validRegistration)
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "reception", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, "reception", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "reception").Update("active", false).Error)
	_, err = svc.Login(ctx, "reception", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_LoginRecordsAndRehashes(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, validRegistration)
	require.NoError(t, err)
	assert.Nil(t, user.LastLoginAt)

	utils.BcryptCost = bcrypt.MinCost + 1
	defer func() { utils.BcryptCost = bcrypt.MinCost }()

	_, err = svc.Login(ctx, "reception", "s3cret-pass")
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.NotNil(t, stored.LastLoginAt)
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)

	_, err = svc.Login(ctx, "reception", "s3cret-pass")
	assert.NoError(t, err, "the upgraded hash still verifies")
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegistration)
	require.NoError(t, err)

	token, err := svc.RefreshAccessToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.RefreshAccessToken(ctx, "unknown")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, resp.RefreshToken))
	_, err = svc.RefreshAccessToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_PruneRefreshTokens(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, validRegistration)
	require.NoError(t, err)
	second, err := svc.Login(ctx, "reception", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, first.RefreshToken))

	svc.now = func() time.Time { return time.Now().Add(30 * time.Minute) }
	_, err = svc.RefreshAccessToken(ctx, second.RefreshToken)
	require.NoError(t, err, "not expired yet")

	n, err := svc.PruneRefreshTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "only the revoked token goes")

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.RefreshAccessToken(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	n, err = svc.PruneRefreshTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var remaining int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
