package config

import "time"

// JWTConfig holds the keys and lifetimes of issued session tokens.
type JWTConfig struct {
	SecretKey     string `mapstructure:"secret_key" yaml:"secret_key"`         // signs access tokens
	Issuer        string `mapstructure:"issuer" yaml:"issuer"`                 // iss claim, checked on parse
	RefreshSecret string `mapstructure:"refresh_secret" yaml:"refresh_secret"` // signs refresh tokens

	// Optional overrides of constants.AccessTokenTTL / constants.RefreshTokenTTL
	AccessTTL  time.Duration `mapstructure:"access_ttl" yaml:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl" yaml:"refresh_ttl"`
}
