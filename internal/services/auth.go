package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/config"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
)

const (
	cacheKeyLoginAttempts = "login_attempts:%d"
	cacheKeyLockout       = "lockout:%d"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, data dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	jwtSvc    service.JWTService
	authCfg   config.AuthConfig
	logger    *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtSvc service.JWTService,
	authCfg config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		jwtSvc:    jwtSvc,
		authCfg:   authCfg,
		logger:    logger,
	}
}

func (s *AuthService) Login(ctx context.Context, data dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, data.Email)
	if err != nil {
		// Не раскрываем, существует ли аккаунт.
		return nil, apperrors.ErrInvalidCredentials
	}

	lockKey := fmt.Sprintf(cacheKeyLockout, user.ID)
	if locked, err := s.cacheRepo.Get(ctx, lockKey); err == nil && locked != "" {
		s.logger.Warn("Попытка входа в заблокированный аккаунт", zap.Uint64("userID", user.ID))
		return nil, apperrors.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(data.Password)); err != nil {
		attemptsKey := fmt.Sprintf(cacheKeyLoginAttempts, user.ID)
		attempts, incErr := s.cacheRepo.Incr(ctx, attemptsKey, s.authCfg.LockoutDuration)
		if incErr == nil && attempts >= int64(s.authCfg.MaxLoginAttempts) {
			_ = s.cacheRepo.Set(ctx, lockKey, "locked", s.authCfg.LockoutDuration)
			s.logger.Warn("Аккаунт заблокирован после неудачных попыток входа",
				zap.Uint64("userID", user.ID), zap.Int64("attempts", attempts))
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	_ = s.cacheRepo.Delete(ctx, fmt.Sprintf(cacheKeyLoginAttempts, user.ID))

	accessToken, refreshToken, err := s.jwtSvc.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Пользователь вошёл в систему", zap.Uint64("userID", user.ID))
	return s.tokenPair(accessToken, refreshToken), nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtSvc.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	// Пользователь мог быть удалён после выдачи токена.
	if _, err := s.userRepo.FindUserByID(ctx, claims.UserID); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	accessToken, newRefreshToken, err := s.jwtSvc.GenerateTokens(claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.tokenPair(accessToken, newRefreshToken), nil
}

func (s *AuthService) tokenPair(accessToken, refreshToken string) *dto.TokenPairDTO {
	return &dto.TokenPairDTO{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        int64(s.jwtSvc.GetAccessTokenTTL().Seconds()),
		RefreshExpiresIn: int64(s.jwtSvc.GetRefreshTokenTTL().Seconds()),
	}
}
