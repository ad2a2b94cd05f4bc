package constants

import "errors"

// Domain errors returned by the service layer. Controllers translate them
// into HTTP statuses; anything not listed here is an internal failure.
var (
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrSignatureInvalid and ErrPayloadStale are reported to callers with the
	// same message so a forger cannot tell which check rejected the payload.
	ErrSignatureInvalid = errors.New("telegram signature invalid")
	ErrPayloadStale     = errors.New("telegram payload stale")

	ErrPhoneConflict = errors.New("phone number is already bound to another account")
	ErrEmailTaken    = errors.New("email is already registered")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("user account is disabled")
	ErrAccountDeleted     = errors.New("user account is deleted")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")

	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrOldPasswordIncorrect = errors.New("old password is incorrect")
	ErrAvatarStorageOff     = errors.New("avatar storage is not configured")

	ErrIdentityStore = errors.New("identity store failure")
)
