package oAuth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/dependencies"
	"github.com/Xushengqwer/identity_hub/models/dto"
	"github.com/Xushengqwer/identity_hub/models/entities"
	"github.com/Xushengqwer/identity_hub/models/enums"
	"github.com/Xushengqwer/identity_hub/models/vo"
	"github.com/Xushengqwer/identity_hub/repository/mysql"
	"github.com/Xushengqwer/identity_hub/utils"
)

const (
	// maxTxAttempts bounds reruns of a login transaction aborted by a lock conflict.
	maxTxAttempts = 3

	// repeatedRejectionThreshold is the rejection count per external id from
	// which every further rejection is logged as a warning.
	repeatedRejectionThreshold = 3

	// DefaultDisplayName names identities whose payload carries neither a name nor a handle.
	DefaultDisplayName = "Telegram User"
	// DefaultEmailDomain suffixes synthesized emails when none is configured.
	DefaultEmailDomain = "telegram.local"
)

// TelegramAuthService resolves a mini-app login payload into an identity and a session.
type TelegramAuthService interface {
	// LoginOrRegister verifies data, then in one transaction fetches or
	// creates the identity keyed by the Telegram user id, merges the phone
	// number, restores a soft-deleted identity, stamps the login, appends a
	// successful history entry and issues a token pair.
	//
	// Errors: constants.ErrSignatureInvalid, constants.ErrPayloadStale,
	// constants.ErrPhoneConflict, or constants.ErrIdentityStore for anything
	// unexpected. On error nothing is written except the rejected-attempt
	// record of a failed verification.
	LoginOrRegister(ctx context.Context, data dto.TelegramAuthData, meta utils.ClientMeta) (vo.TelegramLoginResult, error)
}

type telegramAuthService struct {
	verifier     dependencies.TelegramVerifier
	identityRepo mysql.IdentityRepository
	historyRepo  mysql.LoginHistoryRepository
	attemptRepo  mysql.AuthAttemptRepository
	jwtUtil      dependencies.JWTTokenInterface
	db           *gorm.DB
	emailDomain  string
	now          func() time.Time
	logger       *zap.Logger
}

func NewTelegramAuthService(
	verifier dependencies.TelegramVerifier,
	identityRepo mysql.IdentityRepository,
	historyRepo mysql.LoginHistoryRepository,
	attemptRepo mysql.AuthAttemptRepository,
	jwtUtil dependencies.JWTTokenInterface,
	db *gorm.DB,
	emailDomain string,
	logger *zap.Logger,
) TelegramAuthService {
	if emailDomain == "" {
		emailDomain = DefaultEmailDomain
	}
	return &telegramAuthService{
		verifier:     verifier,
		identityRepo: identityRepo,
		historyRepo:  historyRepo,
		attemptRepo:  attemptRepo,
		jwtUtil:      jwtUtil,
		db:           db,
		emailDomain:  emailDomain,
		now:          time.Now,
		logger:       logger,
	}
}

// SyntheticEmail is the placeholder address of a bot-created identity. The
// full external id is used, so distinct ids never share an address.
func SyntheticEmail(externalID int64, domain string) string {
	return fmt.Sprintf("tg_%d@%s", externalID, domain)
}

// DisplayName joins first and last name, falling back to the handle and then
// to DefaultDisplayName.
func DisplayName(firstName, lastName, username string) string {
	if name := strings.TrimSpace(firstName + " " + lastName); name != "" {
		return name
	}
	if handle := strings.TrimSpace(username); handle != "" {
		return handle
	}
	return DefaultDisplayName
}

func (s *telegramAuthService) LoginOrRegister(ctx context.Context, data dto.TelegramAuthData, meta utils.ClientMeta) (vo.TelegramLoginResult, error) {
	const operation = "TelegramAuthService.LoginOrRegister"
	var result vo.TelegramLoginResult

	if err := s.verifier.Verify(data.Fields()); err != nil {
		s.logger.Warn("telegram payload rejected",
			zap.String("operation", operation),
			zap.Int64("externalID", data.ID),
			zap.String("ip", meta.IPAddress),
			zap.Error(err),
		)
		s.recordRejected(ctx, data.ID, err, meta)
		return result, err
	}

	name := DisplayName(data.FirstName, data.LastName, data.Username)
	phone := utils.NormalizePhone(data.PhoneNumber)

	var txErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		result, txErr = s.resolve(ctx, data, name, phone, meta)
		if !mysql.IsRetryableTx(txErr) {
			break
		}
		s.logger.Warn("telegram login transaction aborted by a lock conflict",
			zap.String("operation", operation),
			zap.Int64("externalID", data.ID),
			zap.Int("attempt", attempt),
			zap.Error(txErr),
		)
	}
	if txErr != nil {
		if errors.Is(txErr, constants.ErrPhoneConflict) {
			s.logger.Warn("phone number bound to another identity",
				zap.String("operation", operation),
				zap.Int64("externalID", data.ID),
			)
			return vo.TelegramLoginResult{}, constants.ErrPhoneConflict
		}
		s.logger.Error("telegram login transaction failed",
			zap.String("operation", operation),
			zap.Int64("externalID", data.ID),
			zap.Error(txErr),
		)
		return vo.TelegramLoginResult{}, constants.ErrIdentityStore
	}

	s.logger.Info("telegram login succeeded",
		zap.String("operation", operation),
		zap.String("identityID", result.Identity.ID),
		zap.Int64("externalID", data.ID),
		zap.Bool("created", result.Created),
	)
	return result, nil
}

// resolve runs one attempt of the login transaction.
func (s *telegramAuthService) resolve(ctx context.Context, data dto.TelegramAuthData, name, phone string, meta utils.ClientMeta) (vo.TelegramLoginResult, error) {
	var result vo.TelegramLoginResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		identity, created, err := s.fetchOrCreate(ctx, tx, data, name, phone)
		if err != nil {
			return err
		}

		if !created && phone != "" && (identity.Phone == nil || *identity.Phone != phone) {
			if err := s.ensurePhoneFree(ctx, tx, phone, identity.ID); err != nil {
				return err
			}
			identity.Phone = &phone
		}

		if identity.Deleted {
			identity.Restore()
			s.logger.Info("restoring soft-deleted identity",
				zap.String("operation", "TelegramAuthService.LoginOrRegister"),
				zap.String("identityID", identity.ID),
			)
		}

		now := s.now()
		identity.LastLoginAt = &now
		if err := s.identityRepo.UpdateIdentity(ctx, tx, identity); err != nil {
			if mysql.IsDuplicateKey(err) {
				return constants.ErrPhoneConflict
			}
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

		tokens, err := s.jwtUtil.IssuePair(identity.ID, identity.Role)
		if err != nil {
			return err
		}

		result = vo.TelegramLoginResult{Identity: identity, Created: created, Tokens: tokens}
		return nil
	})
	if err != nil {
		return vo.TelegramLoginResult{}, err
	}
	return result, nil
}

// fetchOrCreate returns the identity owning data.ID, creating it when absent.
// The insert runs in a savepoint: losing a create race to a concurrent
// request surfaces as a duplicate key, after which the winner's row is read.
func (s *telegramAuthService) fetchOrCreate(ctx context.Context, tx *gorm.DB, data dto.TelegramAuthData, name, phone string) (*entities.Identity, bool, error) {
	// Plain read first: the row lock is taken only once the row is known to exist.
	if _, err := s.identityRepo.GetIdentityByExternalID(ctx, tx, data.ID, false); err == nil {
		identity, err := s.identityRepo.GetIdentityByExternalID(ctx, tx, data.ID, true)
		if err != nil {
			return nil, false, err
		}
		return identity, false, nil
	} else if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return nil, false, err
	}

	if phone != "" {
		if err := s.ensurePhoneFree(ctx, tx, phone, ""); err != nil {
			return nil, false, err
		}
	}

	externalID := data.ID
	candidate := &entities.Identity{
		ID:          uuid.New().String(),
		ExternalID:  &externalID,
		DisplayName: name,
		Handle:      utils.OptionalString(data.Username),
		Email:       SyntheticEmail(data.ID, s.emailDomain),
		Phone:       utils.OptionalString(phone),
		AvatarRef:   utils.OptionalString(data.PhotoURL),
		Role:        enums.RoleClient,
		Active:      true,
	}
	createErr := tx.Transaction(func(sp *gorm.DB) error {
		return s.identityRepo.CreateIdentity(ctx, sp, candidate)
	})
	if createErr == nil {
		return candidate, true, nil
	}
	if !mysql.IsDuplicateKey(createErr) {
		return nil, false, createErr
	}

	s.logger.Info("identity create collided, re-reading",
		zap.Int64("externalID", data.ID),
		zap.Error(createErr),
	)
	existing, err := s.identityRepo.GetIdentityByExternalID(ctx, tx, data.ID, true)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return nil, false, err
	}
	if phone != "" {
		if err := s.ensurePhoneFree(ctx, tx, phone, ""); err != nil {
			return nil, false, err
		}
	}
	// Another external id holds the synthesized email.
	return nil, false, fmt.Errorf("%w: synthetic email %s is taken", constants.ErrIdentityStore, candidate.Email)
}

// ensurePhoneFree fails with ErrPhoneConflict when phone belongs to an
// identity other than ownerID.
func (s *telegramAuthService) ensurePhoneFree(ctx context.Context, tx *gorm.DB, phone, ownerID string) error {
	holder, err := s.identityRepo.GetIdentityByPhone(ctx, tx, phone)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil
		}
		return err
	}
	if holder.ID != ownerID {
		return constants.ErrPhoneConflict
	}
	return nil
}

// recordRejected keeps a trace of a failed verification. It is best effort
// and runs outside any transaction.
func (s *telegramAuthService) recordRejected(ctx context.Context, externalID int64, cause error, meta utils.ClientMeta) {
	reason := enums.RejectSignature
	if errors.Is(cause, constants.ErrPayloadStale) {
		reason = enums.RejectStale
	}
	attempt := &entities.RejectedAuthAttempt{
		Reason:    reason,
		IPAddress: utils.OptionalString(meta.IPAddress),
		UserAgent: utils.OptionalString(meta.UserAgent),
	}
	if externalID != 0 {
		attempt.ExternalID = &externalID
	}
	if err := s.attemptRepo.RecordRejected(ctx, s.db, attempt); err != nil {
		s.logger.Error("recording rejected telegram attempt failed",
			zap.Int64("externalID", externalID),
			zap.Error(err),
		)
		return
	}
	if attempt.ExternalID == nil {
		return
	}
	count, err := s.attemptRepo.CountRejected(ctx, s.db, externalID)
	if err != nil {
		s.logger.Error("counting rejected telegram attempts failed", zap.Int64("externalID", externalID), zap.Error(err))
		return
	}
	if count >= repeatedRejectionThreshold {
		s.logger.Warn("repeated rejected telegram attempts",
			zap.Int64("externalID", externalID),
			zap.Int64("rejectedCount", count),
			zap.String("ip", meta.IPAddress),
		)
	}
}
