package utils

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/identity_hub/config"
)

// ParseSameSiteString maps the configured SameSite value to http.SameSite.
// Unknown values fall back to Lax.
func ParseSameSiteString(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// SetRefreshCookie mirrors the refresh token into an HttpOnly cookie. It does
// nothing when no cookie name is configured. A non-positive ttl clears the cookie.
func SetRefreshCookie(c *gin.Context, cfg config.CookieConfig, token string, ttl time.Duration) {
	if cfg.RefreshTokenName == "" {
		return
	}
	maxAge := int(ttl.Seconds())
	if ttl <= 0 {
		maxAge = -1
		token = ""
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.RefreshTokenName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Secure:   cfg.Secure,
		HttpOnly: cfg.HttpOnly,
		SameSite: ParseSameSiteString(cfg.SameSite),
	})
}

// RefreshTokenFromCookie reads the refresh cookie, or "" when it is absent
// or disabled.
func RefreshTokenFromCookie(c *gin.Context, cfg config.CookieConfig) string {
	if cfg.RefreshTokenName == "" {
		return ""
	}
	v, err := c.Cookie(cfg.RefreshTokenName)
	if err != nil {
		return ""
	}
	return v
}
