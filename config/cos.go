package config

// COSConfig configures Tencent Cloud COS, where uploaded avatars are stored.
// Leaving Enabled false turns avatar upload off.
type COSConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	SecretID   string `mapstructure:"secret_id" yaml:"secret_id"`
	SecretKey  string `mapstructure:"secret_key" yaml:"secret_key"`
	BucketName string `mapstructure:"bucket_name" yaml:"bucket_name"`
	AppID      string `mapstructure:"app_id" yaml:"app_id"`     // numeric APPID of the bucket
	Region     string `mapstructure:"region" yaml:"region"`     // e.g. ap-guangzhou
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"` // optional CDN/custom domain for public URLs
}
