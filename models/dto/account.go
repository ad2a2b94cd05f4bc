package dto

import "github.com/Xushengqwer/identity_hub/models/enums"

type RegisterData struct {
	Name        string     `json:"name" binding:"required,max=250" example:"Ali Valiyev"`
	Email       string     `json:"email" binding:"required,email" example:"ali@example.com"`
	PhoneNumber string     `json:"phone_number" binding:"omitempty,UzPhone" example:"+998901234567"`
	Role        enums.Role `json:"role" binding:"omitempty,Role" example:"client"`
	Password    string     `json:"password" binding:"required,Password" example:"s3cretPass"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email" example:"ali@example.com"`
	Password string `json:"password" binding:"required" example:"s3cretPass"`
}

// RefreshData carries a refresh token; controllers fall back to the refresh
// cookie when it is empty.
type RefreshData struct {
	Refresh string `json:"refresh" example:"eyJhbGciOiJIUzI1NiIs..."`
}

type VerifyData struct {
	Token string `json:"token" binding:"required" example:"eyJhbGciOiJIUzI1NiIs..."`
}
