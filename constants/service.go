package constants

const (
	ServiceName    = "identity-hub"
	ServiceVersion = "1.0.0"
)

// ContextKey names values stored in the gin context by the auth middleware.
type ContextKey string

const (
	IdentityIDKey ContextKey = "IdentityID"
	RoleKey       ContextKey = "Role"
)

// LoginHistoryLimit caps the entries returned by the login-history endpoint.
const LoginHistoryLimit = 20
