package vo

import (
	"time"

	"github.com/Xushengqwer/identity_hub/models/entities"
)

// LoginHistoryItem is one entry of the login-history listing.
type LoginHistoryItem struct {
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address,omitempty" example:"203.0.113.7"`
	UserAgent string    `json:"user_agent,omitempty"`
	Success   bool      `json:"success" example:"true"`
}

type LoginHistoryList struct {
	Items []LoginHistoryItem `json:"items"`
}

func NewLoginHistoryList(entries []*entities.LoginHistory) LoginHistoryList {
	items := make([]LoginHistoryItem, 0, len(entries))
	for _, e := range entries {
		item := LoginHistoryItem{Timestamp: e.CreatedAt, Success: e.Success}
		if e.IPAddress != nil {
			item.IPAddress = *e.IPAddress
		}
		if e.UserAgent != nil {
			item.UserAgent = *e.UserAgent
		}
		items = append(items, item)
	}
	return LoginHistoryList{Items: items}
}
