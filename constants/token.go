package constants

import (
	"time"
)

const (
	// Lifetimes of the issued session tokens

	AccessTokenTTL = 15 * time.Minute // access token lifetime

	RefreshTokenTTL = 10 * 24 * time.Hour // refresh token lifetime

	// BlacklistKeyPrefix prefixes the Redis keys of revoked refresh-token JTIs.
	BlacklistKeyPrefix = "identity_hub:blacklist"

	// LoginAttemptKeyPrefix prefixes the Redis counters of failed password logins.
	LoginAttemptKeyPrefix = "identity_hub:login_failures"
)
