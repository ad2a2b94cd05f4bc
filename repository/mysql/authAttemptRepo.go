package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Xushengqwer/identity_hub/models/entities"
)

// AuthAttemptRepository records chat-bot login payloads that failed
// verification.
type AuthAttemptRepository interface {
	RecordRejected(ctx context.Context, db *gorm.DB, attempt *entities.RejectedAuthAttempt) error

	// CountRejected counts rejections recorded for externalID.
	CountRejected(ctx context.Context, db *gorm.DB, externalID int64) (int64, error)
}

type authAttemptRepository struct{}

func NewAuthAttemptRepository() AuthAttemptRepository {
	return &authAttemptRepository{}
}

func (r *authAttemptRepository) RecordRejected(ctx context.Context, db *gorm.DB, attempt *entities.RejectedAuthAttempt) error {
	if err := db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("authAttemptRepo.RecordRejected: insert failed: %w", err)
	}
	return nil
}

func (r *authAttemptRepository) CountRejected(ctx context.Context, db *gorm.DB, externalID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entities.RejectedAuthAttempt{}).
		Where("external_id = ?", externalID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("authAttemptRepo.CountRejected: count failed (external id: %d): %w", externalID, err)
	}
	return count, nil
}
