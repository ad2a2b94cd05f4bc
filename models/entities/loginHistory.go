package entities

import "time"

// LoginHistory is one login attempt against a resolved identity. Rows are
// append-only.
type LoginHistory struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	IdentityID string `gorm:"type:char(36);not null;index:idx_login_histories_identity_created,priority:1"`

	// Set once by GORM on insert
	CreatedAt time.Time `gorm:"not null;index:idx_login_histories_identity_created,priority:2"`

	IPAddress *string `gorm:"type:varchar(45)"`
	UserAgent *string `gorm:"type:varchar(512)"`

	Success bool `gorm:"not null"`
}
