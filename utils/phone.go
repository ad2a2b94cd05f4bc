package utils

import "strings"

// NormalizePhone strips surrounding whitespace and a leading '+', so
// "+998901234567" and "998901234567" occupy the same uniqueness slot.
func NormalizePhone(phone string) string {
	return strings.TrimPrefix(strings.TrimSpace(phone), "+")
}

// NormalizeEmail lower-cases and trims an email address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
