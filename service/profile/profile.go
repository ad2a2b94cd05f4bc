package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/dependencies"
	"github.com/Xushengqwer/identity_hub/models/dto"
	"github.com/Xushengqwer/identity_hub/models/entities"
	"github.com/Xushengqwer/identity_hub/repository/mysql"
	"github.com/Xushengqwer/identity_hub/utils"
)

// ProfileService is the self-service side of an identity: reading and
// editing it, changing the password, deleting it and listing recent logins.
// Every method expects an identity resolved from a valid access token. The
// token outlives account changes, so each call re-checks the row: deleted
// identities yield constants.ErrAccountDeleted and disabled ones
// constants.ErrAccountInactive. Missing identities yield
// commonerrors.ErrRepoNotFound.
type ProfileService interface {
	GetProfile(ctx context.Context, identityID string) (*entities.Identity, error)

	// UpdateProfile applies the fields present in data. avatar is optional
	// and is uploaded before the row is written.
	// Errors: constants.ErrPhoneConflict, constants.ErrEmailTaken,
	// constants.ErrAvatarStorageOff, constants.ErrAccountDeleted.
	UpdateProfile(ctx context.Context, identityID string, data dto.UpdateProfileDTO, avatar *dto.AvatarUpload) (*entities.Identity, error)

	// ChangePassword requires the current password. Identities created by the
	// chat-bot login have none, so they can never pass this check.
	ChangePassword(ctx context.Context, identityID string, data dto.ChangePasswordDTO) error

	// DeleteAccount soft-deletes the identity. Deleting twice is a no-op.
	DeleteAccount(ctx context.Context, identityID string) error

	// LoginHistory lists the most recent attempts, newest first.
	LoginHistory(ctx context.Context, identityID string) ([]*entities.LoginHistory, error)
}

type profileService struct {
	identityRepo mysql.IdentityRepository
	historyRepo  mysql.LoginHistoryRepository
	cosClient    dependencies.COSClientInterface
	db           *gorm.DB
	now          func() time.Time
	logger       *zap.Logger
}

// NewProfileService wires the profile operations. cosClient may be nil when
// avatar storage is disabled.
func NewProfileService(
	identityRepo mysql.IdentityRepository,
	historyRepo mysql.LoginHistoryRepository,
	cosClient dependencies.COSClientInterface,
	db *gorm.DB,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		identityRepo: identityRepo,
		historyRepo:  historyRepo,
		cosClient:    cosClient,
		db:           db,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *profileService) GetProfile(ctx context.Context, identityID string) (*entities.Identity, error) {
	identity, err := s.identityRepo.GetIdentityByID(ctx, s.db, identityID)
	if err != nil {
		return nil, s.lookupError("ProfileService.GetProfile", identityID, err)
	}
	if err := usable(identity); err != nil {
		return nil, err
	}
	return identity, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, identityID string, data dto.UpdateProfileDTO, avatar *dto.AvatarUpload) (*entities.Identity, error) {
	const operation = "ProfileService.UpdateProfile"

	var avatarURL string
	if avatar != nil {
		if s.cosClient == nil {
			return nil, constants.ErrAvatarStorageOff
		}
		url, err := s.cosClient.UploadAvatar(ctx, identityID, avatar.FileName, avatar.Reader, avatar.Size)
		if err != nil {
			s.logger.Error("avatar upload failed", zap.String("operation", operation), zap.String("identityID", identityID), zap.Error(err))
			return nil, constants.ErrIdentityStore
		}
		avatarURL = url
	}

	var updated *entities.Identity
	emailChanged := false
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		identity, err := s.identityRepo.LockIdentityByID(ctx, tx, identityID)
		if err != nil {
			return err
		}
		if err := usable(identity); err != nil {
			return err
		}

		if data.Name != nil {
			identity.DisplayName = *data.Name
		}
		if data.PhoneNumber != nil {
			phone := utils.NormalizePhone(*data.PhoneNumber)
			if identity.Phone == nil || *identity.Phone != phone {
				if holder, err := s.identityRepo.GetIdentityByPhone(ctx, tx, phone); err == nil && holder.ID != identity.ID {
					return constants.ErrPhoneConflict
				} else if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
					return err
				}
				identity.Phone = &phone
			}
		}
		if data.Email != nil {
			email := utils.NormalizeEmail(*data.Email)
			if identity.Email != email {
				if holder, err := s.identityRepo.GetIdentityByEmail(ctx, tx, email); err == nil && holder.ID != identity.ID {
					return constants.ErrEmailTaken
				} else if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
					return err
				}
				identity.Email = email
				emailChanged = true
			}
		}
		if data.Role != nil {
			identity.Role = *data.Role
		}
		if avatarURL != "" {
			identity.AvatarRef = &avatarURL
		}

		if err := s.identityRepo.UpdateIdentity(ctx, tx, identity); err != nil {
			if mysql.IsDuplicateKey(err) {
				if emailChanged {
					return constants.ErrEmailTaken
				}
				return constants.ErrPhoneConflict
			}
			return err
		}
		updated = identity
		return nil
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, constants.ErrPhoneConflict),
			errors.Is(txErr, constants.ErrEmailTaken),
			errors.Is(txErr, constants.ErrAccountDeleted),
			errors.Is(txErr, constants.ErrAccountInactive),
			errors.Is(txErr, commonerrors.ErrRepoNotFound):
			return nil, txErr
		}
		s.logger.Error("profile update failed", zap.String("operation", operation), zap.String("identityID", identityID), zap.Error(txErr))
		return nil, constants.ErrIdentityStore
	}

	s.logger.Info("profile updated", zap.String("operation", operation), zap.String("identityID", identityID))
	return updated, nil
}

func (s *profileService) ChangePassword(ctx context.Context, identityID string, data dto.ChangePasswordDTO) error {
	const operation = "ProfileService.ChangePassword"
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		identity, err := s.identityRepo.LockIdentityByID(ctx, tx, identityID)
		if err != nil {
			return err
		}
		if err := usable(identity); err != nil {
			return err
		}
		if !identity.CheckPassword(data.OldPassword) {
			return constants.ErrOldPasswordIncorrect
		}
		if err := identity.SetPassword(data.NewPassword); err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		return s.identityRepo.UpdateIdentity(ctx, tx, identity)
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, constants.ErrOldPasswordIncorrect):
			s.logger.Warn("old password mismatch", zap.String("operation", operation), zap.String("identityID", identityID))
			return txErr
		case errors.Is(txErr, constants.ErrAccountDeleted),
			errors.Is(txErr, constants.ErrAccountInactive),
			errors.Is(txErr, commonerrors.ErrRepoNotFound):
			return txErr
		}
		s.logger.Error("password update failed", zap.String("operation", operation), zap.String("identityID", identityID), zap.Error(txErr))
		return constants.ErrIdentityStore
	}
	s.logger.Info("password changed", zap.String("operation", operation), zap.String("identityID", identityID))
	return nil
}

func (s *profileService) DeleteAccount(ctx context.Context, identityID string) error {
	const operation = "ProfileService.DeleteAccount"
	deleted := false
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		identity, err := s.identityRepo.LockIdentityByID(ctx, tx, identityID)
		if err != nil {
			return err
		}
		if identity.Deleted {
			return nil
		}
		identity.SoftDelete(s.now())
		if err := s.identityRepo.UpdateIdentity(ctx, tx, identity); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, commonerrors.ErrRepoNotFound) {
			return txErr
		}
		s.logger.Error("soft delete failed", zap.String("operation", operation), zap.String("identityID", identityID), zap.Error(txErr))
		return constants.ErrIdentityStore
	}
	if deleted {
		s.logger.Info("identity soft-deleted", zap.String("operation", operation), zap.String("identityID", identityID))
	}
	return nil
}

func (s *profileService) LoginHistory(ctx context.Context, identityID string) ([]*entities.LoginHistory, error) {
	if _, err := s.GetProfile(ctx, identityID); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.ListByIdentity(ctx, s.db, identityID, constants.LoginHistoryLimit)
	if err != nil {
		s.logger.Error("login history query failed", zap.String("identityID", identityID), zap.Error(err))
		return nil, constants.ErrIdentityStore
	}
	return entries, nil
}

// usable rejects identities an access token may no longer act for.
func usable(identity *entities.Identity) error {
	if identity.Deleted {
		return constants.ErrAccountDeleted
	}
	if !identity.Active {
		return constants.ErrAccountInactive
	}
	return nil
}

func (s *profileService) lookupError(operation, identityID string, err error) error {
	if errors.Is(err, commonerrors.ErrRepoNotFound) {
		return err
	}
	s.logger.Error("identity lookup failed", zap.String("operation", operation), zap.String("identityID", identityID), zap.Error(err))
	return constants.ErrIdentityStore
}
