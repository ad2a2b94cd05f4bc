package dto

import (
	"io"

	"github.com/Xushengqwer/identity_hub/models/enums"
)

// UpdateProfileDTO changes only the fields that are present.
type UpdateProfileDTO struct {
	Name        *string     `json:"name,omitempty" form:"name" binding:"omitempty,min=1,max=250" example:"Ali"`
	PhoneNumber *string     `json:"phone_number,omitempty" form:"phone_number" binding:"omitempty,UzPhone" example:"998901234567"`
	Email       *string     `json:"email,omitempty" form:"email" binding:"omitempty,email" example:"ali@example.com"`
	Role        *enums.Role `json:"role,omitempty" form:"role" binding:"omitempty,Role" example:"seller"`
}

// AvatarUpload is a photo received as a multipart file.
type AvatarUpload struct {
	FileName string
	Size     int64
	Reader   io.Reader
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" binding:"required" example:"s3cretPass"`
	NewPassword string `json:"new_password" binding:"required,Password" example:"n3wSecret!"`
}
