package config

// MySQLConfig configures the identity store connection.
type MySQLConfig struct {
	// Driver selects the GORM dialector: "mysql" (default) or "sqlite" for local runs.
	Driver      string `mapstructure:"driver" yaml:"driver"`
	DSN         string `mapstructure:"dsn" yaml:"dsn"`                     // e.g. "user:password@tcp(host:port)/identity_hub?charset=utf8mb4&parseTime=True&loc=Local"
	MaxOpenConn int    `mapstructure:"max_open_conn" yaml:"max_open_conn"` // max open connections
	MaxIdleConn int    `mapstructure:"max_idle_conn" yaml:"max_idle_conn"` // max idle connections
}
