package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
)

type fakeCacheRepo struct {
	values map[string]string
	counts map[string]int64
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]string), counts: make(map[string]int64)}
}

func (c *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	return c.values[key], nil
}

func (c *fakeCacheRepo) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *fakeCacheRepo) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	c.counts[key]++
	return c.counts[key], nil
}

func (c *fakeCacheRepo) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	delete(c.counts, key)
	return nil
}

func newAuthServiceEnv(t *testing.T) (AuthServiceInterface, *fakeUserRepo, *fakeCacheRepo) {
	t.Helper()

	users := newFakeUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("правильный-пароль"), bcrypt.MinCost)
	require.NoError(t, err)
	users.items[1] = entities.User{
		ID:       1,
		Fio:      "Менеджер",
		Email:    "manager@test",
		Password: string(hash),
		Role:     constants.RoleManager,
	}

	cache := newFakeCacheRepo()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, time.Hour*24)
	authCfg := config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: time.Minute * 15}

	svc := NewAuthService(users, cache, jwtSvc, authCfg, zap.NewNop())
	return svc, users, cache
}

func TestAuthService_LoginSuccess(t *testing.T) {
	svc, _, _ := newAuthServiceEnv(t)

	tokens, err := svc.Login(context.Background(), dto.LoginDTO{Email: "manager@test", Password: "правильный-пароль"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)
	assert.Equal(t, int64(24*3600), tokens.RefreshExpiresIn)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthServiceEnv(t)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "manager@test", Password: "не тот"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

// Неизвестный email даёт ту же ошибку, что и неверный пароль.
func TestAuthService_LoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthServiceEnv(t)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "ghost@test", Password: "любой"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_LockoutAfterFailedAttempts(t *testing.T) {
	svc, _, _ := newAuthServiceEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, dto.LoginDTO{Email: "manager@test", Password: "не тот"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	// после трёх неудач аккаунт заблокирован даже с верным паролем
	_, err := svc.Login(ctx, dto.LoginDTO{Email: "manager@test", Password: "правильный-пароль"})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
}

func TestAuthService_SuccessfulLoginResetsAttempts(t *testing.T) {
	svc, _, cache := newAuthServiceEnv(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginDTO{Email: "manager@test", Password: "не тот"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginDTO{Email: "manager@test", Password: "правильный-пароль"})
	require.NoError(t, err)
	assert.Zero(t, cache.counts["login_attempts:1"], "счётчик неудач сброшен")
}

func TestAuthService_RefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newAuthServiceEnv(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, dto.LoginDTO{Email: "manager@test", Password: "правильный-пароль"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_RefreshDeletedUser(t *testing.T) {
	svc, users, _ := newAuthServiceEnv(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, dto.LoginDTO{Email: "manager@test", Password: "правильный-пароль"})
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(ctx, 1))

	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
