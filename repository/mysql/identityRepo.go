package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/identity_hub/models/entities"
)

// IdentityRepository stores identities. Every method runs on the handle it
// is given, so callers can pass either the pool or an open transaction.
// Lookups return commonerrors.ErrRepoNotFound for a missing row and include
// soft-deleted identities.
type IdentityRepository interface {
	// CreateIdentity inserts a new identity. A unique-index violation is
	// returned wrapped; check it with IsDuplicateKey.
	CreateIdentity(ctx context.Context, db *gorm.DB, identity *entities.Identity) error

	GetIdentityByID(ctx context.Context, db *gorm.DB, identityID string) (*entities.Identity, error)

	// LockIdentityByID reads the identity with FOR UPDATE. Use it inside a
	// transaction before writing the row back with UpdateIdentity.
	LockIdentityByID(ctx context.Context, db *gorm.DB, identityID string) (*entities.Identity, error)

	// GetIdentityByExternalID locks the row for update when forUpdate is set.
	// Only lock an id known to exist: on MySQL a locking read of a missing key
	// takes a gap lock, and two such locks deadlock the inserts that follow.
	GetIdentityByExternalID(ctx context.Context, db *gorm.DB, externalID int64, forUpdate bool) (*entities.Identity, error)

	GetIdentityByEmail(ctx context.Context, db *gorm.DB, email string) (*entities.Identity, error)

	GetIdentityByPhone(ctx context.Context, db *gorm.DB, phone string) (*entities.Identity, error)

	// UpdateIdentity writes every column of identity. The row must have been
	// read with a lock in the same transaction, or concurrent writes are lost.
	UpdateIdentity(ctx context.Context, db *gorm.DB, identity *entities.Identity) error
}

type identityRepository struct{}

func NewIdentityRepository() IdentityRepository {
	return &identityRepository{}
}

func (r *identityRepository) CreateIdentity(ctx context.Context, db *gorm.DB, identity *entities.Identity) error {
	if err := db.WithContext(ctx).Create(identity).Error; err != nil {
		return fmt.Errorf("identityRepo.CreateIdentity: create identity failed: %w", err)
	}
	return nil
}

func (r *identityRepository) GetIdentityByID(ctx context.Context, db *gorm.DB, identityID string) (*entities.Identity, error) {
	return r.first(ctx, db, "GetIdentityByID", "id = ?", identityID)
}

func (r *identityRepository) LockIdentityByID(ctx context.Context, db *gorm.DB, identityID string) (*entities.Identity, error) {
	return r.first(ctx, db.Clauses(clause.Locking{Strength: "UPDATE"}), "LockIdentityByID", "id = ?", identityID)
}

func (r *identityRepository) GetIdentityByExternalID(ctx context.Context, db *gorm.DB, externalID int64, forUpdate bool) (*entities.Identity, error) {
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.first(ctx, db, "GetIdentityByExternalID", "external_id = ?", externalID)
}

func (r *identityRepository) GetIdentityByEmail(ctx context.Context, db *gorm.DB, email string) (*entities.Identity, error) {
	return r.first(ctx, db, "GetIdentityByEmail", "email = ?", email)
}

func (r *identityRepository) GetIdentityByPhone(ctx context.Context, db *gorm.DB, phone string) (*entities.Identity, error) {
	return r.first(ctx, db, "GetIdentityByPhone", "phone = ?", phone)
}

func (r *identityRepository) first(ctx context.Context, db *gorm.DB, op string, query string, arg interface{}) (*entities.Identity, error) {
	var identity entities.Identity
	err := db.WithContext(ctx).Where(query, arg).First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("identityRepo.%s: query failed (%v): %w", op, arg, err)
	}
	return &identity, nil
}

func (r *identityRepository) UpdateIdentity(ctx context.Context, db *gorm.DB, identity *entities.Identity) error {
	if err := db.WithContext(ctx).Save(identity).Error; err != nil {
		return fmt.Errorf("identityRepo.UpdateIdentity: update identity failed (ID: %s): %w", identity.ID, err)
	}
	return nil
}
