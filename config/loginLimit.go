package config

import "time"

// LoginLimitConfig throttles email/password logins and controls how account
// state is reported to callers.
type LoginLimitConfig struct {
	// MaxAttempts failed logins per email within Window; 0 disables throttling.
	MaxAttempts int           `mapstructure:"max_attempts" json:"max_attempts" yaml:"max_attempts"`
	Window      time.Duration `mapstructure:"window" json:"window" yaml:"window"`

	// CollapseAccountErrors answers inactive and deleted accounts with the same
	// message as a wrong password.
	CollapseAccountErrors bool `mapstructure:"collapse_account_errors" json:"collapse_account_errors" yaml:"collapse_account_errors"`
}
