package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for newly stored credentials.
const PasswordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a stored bcrypt hash with a plaintext candidate.
// A mismatch returns bcrypt.ErrMismatchedHashAndPassword.
func CheckPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
