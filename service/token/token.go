package token

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/dependencies"
	"github.com/Xushengqwer/identity_hub/models/entities"
	"github.com/Xushengqwer/identity_hub/models/vo"
	"github.com/Xushengqwer/identity_hub/repository/mysql"
	"github.com/Xushengqwer/identity_hub/repository/redis"
)

// AuthTokenService manages sessions after they have been issued.
type AuthTokenService interface {
	// Verify resolves an access token to its identity. The identity must be
	// active and not deleted.
	Verify(ctx context.Context, accessToken string) (*entities.Identity, error)

	// RefreshToken rotates a refresh token: the old JTI is blacklisted and a
	// new pair is issued.
	RefreshToken(ctx context.Context, refreshToken string) (vo.TokenPair, error)

	// Logout blacklists a refresh token for its remaining lifetime. An
	// unparsable or expired token is treated as already logged out.
	Logout(ctx context.Context, refreshToken string) error
}

type authTokenService struct {
	tokenBlackRepo redis.TokenBlackRepo
	identityRepo   mysql.IdentityRepository
	jwtUtil        dependencies.JWTTokenInterface
	db             *gorm.DB
	logger         *zap.Logger
}

func NewAuthTokenService(
	tokenBlackRepo redis.TokenBlackRepo,
	identityRepo mysql.IdentityRepository,
	jwtUtil dependencies.JWTTokenInterface,
	db *gorm.DB,
	logger *zap.Logger,
) AuthTokenService {
	return &authTokenService{
		tokenBlackRepo: tokenBlackRepo,
		identityRepo:   identityRepo,
		jwtUtil:        jwtUtil,
		db:             db,
		logger:         logger,
	}
}

func (s *authTokenService) Verify(ctx context.Context, accessToken string) (*entities.Identity, error) {
	const operation = "AuthTokenService.Verify"
	claims, err := s.jwtUtil.ParseAccessToken(accessToken)
	if err != nil {
		s.logger.Debug("access token rejected", zap.String("operation", operation), zap.Error(err))
		return nil, constants.ErrInvalidToken
	}
	return s.loadUsable(ctx, operation, claims.IdentityID)
}

func (s *authTokenService) Logout(ctx context.Context, refreshToken string) error {
	const operation = "AuthTokenService.Logout"
	claims, err := s.jwtUtil.ParseRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("logout with invalid refresh token", zap.String("operation", operation), zap.Error(err))
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.tokenBlackRepo.AddJtiToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("blacklisting refresh token failed",
			zap.String("operation", operation),
			zap.String("jti", claims.ID),
			zap.String("identityID", claims.IdentityID),
			zap.Error(err),
		)
		return constants.ErrIdentityStore
	}
	s.logger.Info("refresh token revoked",
		zap.String("operation", operation),
		zap.String("jti", claims.ID),
		zap.String("identityID", claims.IdentityID),
	)
	return nil
}

func (s *authTokenService) RefreshToken(ctx context.Context, refreshToken string) (vo.TokenPair, error) {
	const operation = "AuthTokenService.RefreshToken"

	claims, err := s.jwtUtil.ParseRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("refresh token rejected", zap.String("operation", operation), zap.Error(err))
		return vo.TokenPair{}, constants.ErrInvalidToken
	}

	revoked, err := s.tokenBlackRepo.IsJtiBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("blacklist check failed", zap.String("operation", operation), zap.String("jti", claims.ID), zap.Error(err))
		return vo.TokenPair{}, constants.ErrIdentityStore
	}
	if revoked {
		s.logger.Warn("revoked refresh token presented",
			zap.String("operation", operation),
			zap.String("jti", claims.ID),
			zap.String("identityID", claims.IdentityID),
		)
		return vo.TokenPair{}, constants.ErrInvalidToken
	}

	identity, err := s.loadUsable(ctx, operation, claims.IdentityID)
	if err != nil {
		return vo.TokenPair{}, err
	}

	pair, err := s.jwtUtil.IssuePair(identity.ID, identity.Role)
	if err != nil {
		s.logger.Error("token issue failed", zap.String("operation", operation), zap.Error(err))
		return vo.TokenPair{}, constants.ErrIdentityStore
	}

	if err := s.tokenBlackRepo.AddJtiToBlacklist(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		// The new pair is still handed out; the old token expires on its own.
		s.logger.Error("blacklisting rotated refresh token failed",
			zap.String("operation", operation),
			zap.String("jti", claims.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("tokens refreshed",
		zap.String("operation", operation),
		zap.String("identityID", identity.ID),
		zap.String("oldJti", claims.ID),
	)
	return pair, nil
}

func (s *authTokenService) loadUsable(ctx context.Context, operation, identityID string) (*entities.Identity, error) {
	identity, err := s.identityRepo.GetIdentityByID(ctx, s.db, identityID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("token for unknown identity", zap.String("operation", operation), zap.String("identityID", identityID))
			return nil, constants.ErrInvalidToken
		}
		s.logger.Error("identity lookup failed", zap.String("operation", operation), zap.Error(err))
		return nil, constants.ErrIdentityStore
	}
	if identity.Deleted {
		return nil, constants.ErrAccountDeleted
	}
	if !identity.Active {
		return nil, constants.ErrAccountInactive
	}
	return identity, nil
}
