package utils

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Xushengqwer/identity_hub/models/enums"
)

var (
	// uzPhoneRegex matches Uzbek mobile numbers with or without the leading '+':
	// country code 998 followed by nine digits.
	uzPhoneRegex = regexp.MustCompile(`^\+?998\d{9}$`)
)

// ValidateUzPhone checks that the field is an Uzbek phone number.
func ValidateUzPhone(fl validator.FieldLevel) bool {
	return uzPhoneRegex.MatchString(fl.Field().String())
}

// ValidatePassword requires 8 to 72 bytes with at least one letter and one digit.
// 72 is the bcrypt input limit.
func ValidatePassword(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	if len(pwd) < 8 || len(pwd) > 72 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, char := range pwd {
		if unicode.IsLetter(char) {
			hasLetter = true
		} else if unicode.IsDigit(char) {
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return true
		}
	}
	return false
}

// ValidRole accepts an empty value (field not provided) or a defined role.
func ValidRole(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return enums.Role(s).Valid()
}

// RegisterCustomValidators registers the project tags on gin's validator
// engine, e.g. `binding:"required,UzPhone"`.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	validations := map[string]validator.Func{
		"UzPhone":  ValidateUzPhone,
		"Password": ValidatePassword,
		"Role":     ValidRole,
	}
	for tag, validation := range validations {
		if err := v.RegisterValidation(tag, validation); err != nil {
			return fmt.Errorf("register validator %q: %w", tag, err)
		}
	}
	return nil
}
