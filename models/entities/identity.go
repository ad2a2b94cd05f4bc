package entities

import (
	"time"

	"github.com/Xushengqwer/identity_hub/models/enums"
	"github.com/Xushengqwer/identity_hub/utils"
)

// Identity is the durable user record.
//
// ExternalID, Email and Phone are unique across all rows, deleted ones
// included: a soft-deleted identity keeps its slots and is restored in place.
// Deleted implies !Active; only SoftDelete and Restore touch those flags.
type Identity struct {
	// UUID primary key, assigned at creation and never changed
	ID string `gorm:"type:char(36);primaryKey"`

	// Telegram user id, present only for identities created by the bot login
	ExternalID *int64 `gorm:"uniqueIndex:idx_identities_external_id"`

	DisplayName string  `gorm:"type:varchar(250)"`
	Handle      *string `gorm:"type:varchar(64)"`

	// Real address for registered users, synthesized for bot-created ones
	Email string `gorm:"type:varchar(255);not null;uniqueIndex:idx_identities_email"`

	// Digits only, no leading '+'
	Phone *string `gorm:"type:varchar(21);uniqueIndex:idx_identities_phone"`

	AvatarRef *string `gorm:"type:varchar(512)"`

	Role enums.Role `gorm:"type:varchar(10);not null"`

	// bcrypt hash; empty for identities that never set a password
	PasswordHash string `gorm:"type:varchar(255)"`

	Active    bool `gorm:"not null"`
	Deleted   bool `gorm:"not null"`
	DeletedAt *time.Time

	LastLoginAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SoftDelete marks the identity deleted and inactive.
func (i *Identity) SoftDelete(now time.Time) {
	i.Deleted = true
	i.Active = false
	i.DeletedAt = &now
}

// Restore undoes SoftDelete on the same row.
func (i *Identity) Restore() {
	i.Deleted = false
	i.Active = true
	i.DeletedAt = nil
}

// SetPassword replaces the stored credential with a hash of plaintext.
func (i *Identity) SetPassword(plaintext string) error {
	hashed, err := utils.HashPassword(plaintext)
	if err != nil {
		return err
	}
	i.PasswordHash = hashed
	return nil
}

// CheckPassword reports whether plaintext matches the stored credential.
// Identities without a password never match.
func (i *Identity) CheckPassword(plaintext string) bool {
	if i.PasswordHash == "" {
		return false
	}
	return utils.CheckPassword(i.PasswordHash, plaintext) == nil
}
