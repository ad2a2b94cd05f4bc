package config

// CookieConfig controls the HttpOnly cookie that mirrors the refresh token.
// An empty RefreshTokenName disables the cookie; tokens are always returned
// in the response body as well.
type CookieConfig struct {
	Domain   string `mapstructure:"domain" json:"domain" yaml:"domain"`
	Path     string `mapstructure:"path" json:"path" yaml:"path"`
	Secure   bool   `mapstructure:"secure" json:"secure" yaml:"secure"`
	HttpOnly bool   `mapstructure:"http_only" json:"http_only" yaml:"http_only"`

	// "Lax" (default), "Strict" or "None" (requires Secure)
	SameSite string `mapstructure:"same_site" json:"same_site" yaml:"same_site"`

	RefreshTokenName string `mapstructure:"refresh_token_name" json:"refresh_token_name" yaml:"refresh_token_name"`
}
