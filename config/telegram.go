package config

import "time"

// TelegramConfig configures verification of mini-app login payloads.
type TelegramConfig struct {
	// BotToken is the bot's private token; the HMAC secret is derived from it.
	BotToken string `mapstructure:"bot_token" json:"bot_token" yaml:"bot_token"`

	// MaxAuthAge rejects payloads whose auth_date is older than this. Zero means 24h.
	MaxAuthAge time.Duration `mapstructure:"max_auth_age" json:"max_auth_age" yaml:"max_auth_age"`

	// EmailDomain is the suffix of the placeholder email synthesized for
	// bot-created identities. Empty means "telegram.local".
	EmailDomain string `mapstructure:"email_domain" json:"email_domain" yaml:"email_domain"`
}
