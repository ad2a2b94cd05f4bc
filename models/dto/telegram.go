package dto

import "github.com/Xushengqwer/identity_hub/dependencies"

// TelegramAuthData is the login payload posted by the mini-app. PhoneNumber is
// attached by the bot from the shared contact and is not covered by Hash.
type TelegramAuthData struct {
	ID          int64  `json:"id" binding:"required" example:"123456789"`
	FirstName   string `json:"first_name" example:"Ali"`
	LastName    string `json:"last_name" example:""`
	Username    string `json:"username" example:"ali_b"`
	PhotoURL    string `json:"photo_url" binding:"omitempty,url" example:"https://t.me/i/userpic/320/ali.jpg"`
	PhoneNumber string `json:"phone_number" binding:"required" example:"998901234567"`
	AuthDate    int64  `json:"auth_date" binding:"required" example:"1717000000"`
	Hash        string `json:"hash" binding:"required,hexadecimal" example:"c0ffee..."`
}

// Fields renders the payload as the string map the verifier checks.
func (d *TelegramAuthData) Fields() map[string]string {
	return dependencies.TelegramFields(d.ID, d.FirstName, d.LastName, d.Username, d.PhotoURL, d.AuthDate, d.PhoneNumber, d.Hash)
}
