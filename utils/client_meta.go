package utils

import "github.com/gin-gonic/gin"

// ClientMeta is the request metadata stored with login audit rows.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// ClientMetaFromGin extracts the client address and user agent of a request.
// gin resolves X-Forwarded-For against the engine's trusted proxies.
func ClientMetaFromGin(c *gin.Context) ClientMeta {
	return ClientMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// OptionalString returns nil for an empty string, so optional columns stay NULL.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
