package entities

import (
	"time"

	"github.com/Xushengqwer/identity_hub/models/enums"
)

// RejectedAuthAttempt records a chat-bot login payload that failed
// verification. There is no identity to attach it to, so it is keyed by the
// external id the payload claimed.
type RejectedAuthAttempt struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	ExternalID *int64 `gorm:"index"`

	Reason enums.RejectReason `gorm:"type:varchar(16);not null"`

	IPAddress *string `gorm:"type:varchar(45)"`
	UserAgent *string `gorm:"type:varchar(512)"`

	CreatedAt time.Time `gorm:"not null;index"`
}
