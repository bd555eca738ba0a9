package service

import (
	"context"
	"errors"

	"user-management/internal/constant"
	"user-management/internal/dto"
	"user-management/internal/model"
	"user-management/internal/repository"
	"user-management/internal/utils/errcode"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	jwtService       *JwtService
	userRepository   *repository.UserRepository
	blacklistService *BlacklistService
	logger           *logrus.Logger
	tracer           trace.Tracer
}

func NewAuthService(jwtService *JwtService, userRepository *repository.UserRepository, blacklistService *BlacklistService, logger *logrus.Logger) *AuthService {
	return &AuthService{jwtService, userRepository, blacklistService, logger, otel.Tracer("AuthService")}
}

// Login authenticates by username or email and returns a token pair.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	logger := s.logger.WithContext(spanCtx)

	user := new(model.User)
	if err := s.userRepository.FindByLogin(spanCtx, user, req.Username); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithError(err).Error("Failed to look up user during login")
			return nil, errcode.NewStoreError(err)
		}
		logger.Warn("User not found during login")
		return nil, errcode.ErrInvalidUsernameOrPassword
	}

	if user.Password == nil {
		logger.WithField("userId", user.ID).Warn("Login attempt for user without password")
		return nil, errcode.ErrInvalidUsernameOrPassword
	}

	_, passwordSpan := s.tracer.Start(spanCtx, "CompareHashPassword")
	err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password))
	passwordSpan.End()
	if err != nil {
		logger.WithError(err).Warn("Invalid password attempt")
		return nil, errcode.ErrInvalidUsernameOrPassword
	}

	return s.issueTokens(spanCtx, user.ID)
}

// RefreshToken exchanges a valid refresh token for a new pair. The old
// refresh token is revoked.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AuthService.RefreshToken")
	defer span.End()

	logger := s.logger.WithContext(spanCtx)

	if err := s.blacklistService.IsTokenBlacklisted(spanCtx, refreshToken, constant.TokenTypeRefresh); err != nil {
		logger.WithError(err).Warn("Refresh token rejected")
		return nil, err
	}

	claims, err := s.jwtService.ValidateRefreshToken(spanCtx, refreshToken)
	if err != nil {
		logger.WithError(err).Warn("Invalid refresh token")
		return nil, err
	}

	count, err := s.userRepository.CountById(spanCtx, claims.UserID)
	if err != nil {
		logger.WithError(err).Error("Failed to look up token owner")
		return nil, errcode.NewStoreError(err)
	}
	if count == 0 {
		logger.WithField("userId", claims.UserID).Warn("Refresh token owner no longer exists")
		return nil, errcode.ErrInvalidToken
	}

	tokens, err := s.issueTokens(spanCtx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.blacklistService.Add(spanCtx, refreshToken, constant.TokenTypeRefresh); err != nil {
		logger.WithError(err).Error("Failed to blacklist old refresh token")
		return nil, err
	}

	return tokens, nil
}

// Logout revokes both tokens of a session.
func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	spanCtx, span := s.tracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	logger := s.logger.WithContext(spanCtx)

	if err := s.blacklistService.Add(spanCtx, req.AccessToken, constant.TokenTypeAccess); err != nil {
		logger.WithError(err).Error("Failed to invalidate access token")
		return err
	}

	if err := s.blacklistService.Add(spanCtx, req.RefreshToken, constant.TokenTypeRefresh); err != nil {
		logger.WithError(err).Error("Failed to invalidate refresh token")
		return err
	}

	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID uint) (*dto.TokenResponse, error) {
	logger := s.logger.WithContext(ctx).WithField("userId", userID)

	accessToken, err := s.jwtService.GenerateAccessToken(ctx, userID)
	if err != nil {
		logger.WithError(err).Error("Error generating access token")
		return nil, errcode.ErrAccessTokenGeneration
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(ctx, userID)
	if err != nil {
		logger.WithError(err).Error("Error generating refresh token")
		return nil, errcode.ErrRefreshTokenGeneration
	}

	return &dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
