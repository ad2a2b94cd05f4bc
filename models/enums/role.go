package enums

import "fmt"

// Role is the marketplace role of an identity.
type Role string

const (
	RoleSeller Role = "seller" // sells on the marketplace
	RoleClient Role = "client" // default for every new identity
)

// RoleFromString parses the wire value of a role.
func RoleFromString(s string) (Role, error) {
	switch Role(s) {
	case RoleSeller, RoleClient:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleSeller || r == RoleClient
}
