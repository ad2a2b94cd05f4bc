package auth

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/dependencies"
	"github.com/Xushengqwer/identity_hub/models/dto"
	"github.com/Xushengqwer/identity_hub/models/entities"
	"github.com/Xushengqwer/identity_hub/models/enums"
	"github.com/Xushengqwer/identity_hub/models/vo"
	"github.com/Xushengqwer/identity_hub/repository/mysql"
	"github.com/Xushengqwer/identity_hub/repository/redis"
	"github.com/Xushengqwer/identity_hub/utils"
)

// AccountService handles email/password identities.
type AccountService interface {
	// Register creates an identity with a password credential and returns it
	// with a fresh session. Errors: constants.ErrEmailTaken,
	// constants.ErrPhoneConflict, constants.ErrIdentityStore.
	Register(ctx context.Context, data dto.RegisterData) (vo.LoginResult, error)

	// Login checks the credential. A wrong password is recorded as a failed
	// history entry before constants.ErrInvalidCredentials is returned.
	// Errors: constants.ErrInvalidCredentials, constants.ErrAccountDeleted,
	// constants.ErrAccountInactive, constants.ErrTooManyAttempts,
	// constants.ErrIdentityStore.
	Login(ctx context.Context, data dto.LoginData, meta utils.ClientMeta) (vo.LoginResult, error)
}

type accountService struct {
	identityRepo mysql.IdentityRepository
	historyRepo  mysql.LoginHistoryRepository
	attemptRepo  redis.LoginAttemptRepo
	jwtUtil      dependencies.JWTTokenInterface
	db           *gorm.DB
	limit        config.LoginLimitConfig
	now          func() time.Time
	logger       *zap.Logger
}

// NewAccountService wires the credential login. attemptRepo may be nil,
// which turns throttling off.
func NewAccountService(
	identityRepo mysql.IdentityRepository,
	historyRepo mysql.LoginHistoryRepository,
	attemptRepo redis.LoginAttemptRepo,
	jwtUtil dependencies.JWTTokenInterface,
	db *gorm.DB,
	limit config.LoginLimitConfig,
	logger *zap.Logger,
) AccountService {
	return &accountService{
		identityRepo: identityRepo,
		historyRepo:  historyRepo,
		attemptRepo:  attemptRepo,
		jwtUtil:      jwtUtil,
		db:           db,
		limit:        limit,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *accountService) Register(ctx context.Context, data dto.RegisterData) (vo.LoginResult, error) {
	const operation = "AccountService.Register"
	email := utils.NormalizeEmail(data.Email)
	phone := utils.NormalizePhone(data.PhoneNumber)
	role := data.Role
	if role == "" {
		role = enums.RoleClient
	}

	identity := &entities.Identity{
		ID:          uuid.New().String(),
		DisplayName: data.Name,
		Email:       email,
		Phone:       utils.OptionalString(phone),
		Role:        role,
		Active:      true,
	}
	if err := identity.SetPassword(data.Password); err != nil {
		s.logger.Error("password hashing failed", zap.String("operation", operation), zap.Error(err))
		return vo.LoginResult{}, constants.ErrIdentityStore
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.identityRepo.GetIdentityByEmail(ctx, tx, email); err == nil {
			return constants.ErrEmailTaken
		} else if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			return err
		}
		if phone != "" {
			if _, err := s.identityRepo.GetIdentityByPhone(ctx, tx, phone); err == nil {
				return constants.ErrPhoneConflict
			} else if !errors.Is(err, commonerrors.ErrRepoNotFound) {
				return err
			}
		}
		if err := s.identityRepo.CreateIdentity(ctx, tx, identity); err != nil {
			if mysql.IsDuplicateKey(err) {
				return constants.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, constants.ErrEmailTaken) || errors.Is(txErr, constants.ErrPhoneConflict) {
			s.logger.Warn("registration refused",
				zap.String("operation", operation),
				zap.String("email", email),
				zap.Error(txErr),
			)
			return vo.LoginResult{}, txErr
		}
		s.logger.Error("registration transaction failed",
			zap.String("operation", operation),
			zap.String("email", email),
			zap.Error(txErr),
		)
		return vo.LoginResult{}, constants.ErrIdentityStore
	}

	tokens, err := s.jwtUtil.IssuePair(identity.ID, identity.Role)
	if err != nil {
		s.logger.Error("token issue failed", zap.String("operation", operation), zap.String("identityID", identity.ID), zap.Error(err))
		return vo.LoginResult{}, constants.ErrIdentityStore
	}

	s.logger.Info("identity registered",
		zap.String("operation", operation),
		zap.String("identityID", identity.ID),
	)
	return vo.LoginResult{Identity: identity, Tokens: tokens}, nil
}

func (s *accountService) Login(ctx context.Context, data dto.LoginData, meta utils.ClientMeta) (vo.LoginResult, error) {
	const operation = "AccountService.Login"
	email := utils.NormalizeEmail(data.Email)

	if s.throttled(ctx, email) {
		s.logger.Warn("login throttled", zap.String("operation", operation), zap.String("email", email))
		return vo.LoginResult{}, constants.ErrTooManyAttempts
	}

	identity, err := s.identityRepo.GetIdentityByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("login for unknown email", zap.String("operation", operation), zap.String("email", email))
			s.recordFailure(ctx, email)
			return vo.LoginResult{}, constants.ErrInvalidCredentials
		}
		s.logger.Error("identity lookup failed", zap.String("operation", operation), zap.Error(err))
		return vo.LoginResult{}, constants.ErrIdentityStore
	}

	if identity.Deleted {
		s.logger.Warn("login to deleted identity", zap.String("operation", operation), zap.String("identityID", identity.ID))
		return vo.LoginResult{}, constants.ErrAccountDeleted
	}
	if !identity.Active {
		s.logger.Warn("login to inactive identity", zap.String("operation", operation), zap.String("identityID", identity.ID))
		return vo.LoginResult{}, constants.ErrAccountInactive
	}

	if !identity.CheckPassword(data.Password) {
		entry := &entities.LoginHistory{
			IdentityID: identity.ID,
			IPAddress:  utils.OptionalString(meta.IPAddress),
			UserAgent:  utils.OptionalString(meta.UserAgent),
			Success:    false,
		}
		if err := s.historyRepo.AppendEntry(ctx, s.db, entry); err != nil {
			s.logger.Error("recording failed login failed", zap.String("operation", operation), zap.Error(err))
			return vo.LoginResult{}, constants.ErrIdentityStore
		}
		s.recordFailure(ctx, email)
		s.logger.Warn("wrong password", zap.String("operation", operation), zap.String("identityID", identity.ID))
		return vo.LoginResult{}, constants.ErrInvalidCredentials
	}

	var tokens vo.TokenPair
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The password check ran on an unlocked read; the row may have been
		// deleted or disabled since.
		locked, err := s.identityRepo.LockIdentityByID(ctx, tx, identity.ID)
		if err != nil {
			return err
		}
		if locked.Deleted {
			return constants.ErrAccountDeleted
		}
		if !locked.Active {
			return constants.ErrAccountInactive
		}
		identity = locked

		now := s.now()
		identity.LastLoginAt = &now
		if err := s.identityRepo.UpdateIdentity(ctx, tx, identity); err != nil {
			return err
		}
		entry := &entities.LoginHistory{
			IdentityID: identity.ID,
			IPAddress:  utils.OptionalString(meta.IPAddress),
			UserAgent:  utils.OptionalString(meta.UserAgent),
			Success:    true,
		}
		if err := s.historyRepo.AppendEntry(ctx, tx, entry); err != nil {
			return err
		}
		tokens, err = s.jwtUtil.IssuePair(identity.ID, identity.Role)
		return err
	})
	if errors.Is(txErr, constants.ErrAccountDeleted) || errors.Is(txErr, constants.ErrAccountInactive) {
		s.logger.Warn("identity state changed during login",
			zap.String("operation", operation),
			zap.String("identityID", identity.ID),
			zap.Error(txErr),
		)
		return vo.LoginResult{}, txErr
	}
	if txErr != nil {
		s.logger.Error("login transaction failed",
			zap.String("operation", operation),
			zap.String("identityID", identity.ID),
			zap.Error(txErr),
		)
		return vo.LoginResult{}, constants.ErrIdentityStore
	}

	s.resetFailures(ctx, email)
	s.logger.Info("password login succeeded", zap.String("operation", operation), zap.String("identityID", identity.ID))
	return vo.LoginResult{Identity: identity, Tokens: tokens}, nil
}

func (s *accountService) throttleEnabled() bool {
	return s.attemptRepo != nil && s.limit.MaxAttempts > 0
}

// throttled fails open: a Redis outage must not lock everyone out.
func (s *accountService) throttled(ctx context.Context, email string) bool {
	if !s.throttleEnabled() {
		return false
	}
	failures, err := s.attemptRepo.Failures(ctx, email)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
		return false
	}
	return failures >= int64(s.limit.MaxAttempts)
}

func (s *accountService) recordFailure(ctx context.Context, email string) {
	if !s.throttleEnabled() {
		return
	}
	window := s.limit.Window
	if window <= 0 {
		window = 15 * time.Minute
	}
	if _, err := s.attemptRepo.RecordFailure(ctx, email, window); err != nil {
		s.logger.Warn("recording login failure in throttle failed", zap.Error(err))
	}
}

func (s *accountService) resetFailures(ctx context.Context, email string) {
	if !s.throttleEnabled() {
		return
	}
	if err := s.attemptRepo.Reset(ctx, email); err != nil {
		s.logger.Warn("resetting login throttle failed", zap.Error(err))
	}
}
