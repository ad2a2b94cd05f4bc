package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Xushengqwer/identity_hub/models/entities"
)

// LoginHistoryRepository is the append-only login audit trail. It has no
// update or delete.
type LoginHistoryRepository interface {
	AppendEntry(ctx context.Context, db *gorm.DB, entry *entities.LoginHistory) error

	// ListByIdentity returns up to limit entries, newest first.
	ListByIdentity(ctx context.Context, db *gorm.DB, identityID string, limit int) ([]*entities.LoginHistory, error)
}

type loginHistoryRepository struct{}

func NewLoginHistoryRepository() LoginHistoryRepository {
	return &loginHistoryRepository{}
}

func (r *loginHistoryRepository) AppendEntry(ctx context.Context, db *gorm.DB, entry *entities.LoginHistory) error {
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("loginHistoryRepo.AppendEntry: append failed (identity: %s): %w", entry.IdentityID, err)
	}
	return nil
}

func (r *loginHistoryRepository) ListByIdentity(ctx context.Context, db *gorm.DB, identityID string, limit int) ([]*entities.LoginHistory, error) {
	var entries []*entities.LoginHistory
	err := db.WithContext(ctx).
		Where("identity_id = ?", identityID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("loginHistoryRepo.ListByIdentity: query failed (identity: %s): %w", identityID, err)
	}
	return entries, nil
}
