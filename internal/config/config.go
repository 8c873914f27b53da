package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// Quorum is the minimum member count before a room can punch.
	Quorum          int   `mapstructure:"quorum" yaml:"quorum"`
	MaxMessageBytes int64 `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`

	CredentialsFile string        `mapstructure:"credentials_file" yaml:"credentials_file"`
	TokenStoreFile  string        `mapstructure:"token_store_file" yaml:"token_store_file"`
	TokenExpiry     time.Duration `mapstructure:"token_expiry" yaml:"token_expiry"`

	GitHub GitHubConfig `mapstructure:"github" yaml:"github"`
}

// GitHubConfig configures the GitHub App used to mint delegated tokens.
type GitHubConfig struct {
	AppID          string `mapstructure:"app_id" yaml:"app_id"`
	InstallationID string `mapstructure:"installation_id" yaml:"installation_id"`
	PrivateKey     string `mapstructure:"private_key" yaml:"private_key"`
	APIURL         string `mapstructure:"api_url" yaml:"api_url"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		Quorum:            2,
		MaxMessageBytes:   1 << 20,
		CredentialsFile:   "credentials.csv",
		TokenStoreFile:    "tokens.json",
		TokenExpiry:       15 * time.Minute,
		GitHub: GitHubConfig{
			APIURL: "https://api.github.com",
		},
	}
}
