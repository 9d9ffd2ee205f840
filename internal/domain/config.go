package domain

import "time"

// DefaultUserAgent is the browser-like User-Agent sent to upstream APIs
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Relay    RelayConfig    `mapstructure:"relay"`
	History  HistoryConfig  `mapstructure:"history"`
	Lambda   LambdaConfig   `mapstructure:"lambda"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// UpstreamConfig describes the downloader backend APIs
type UpstreamConfig struct {
	BaseURL      string            `mapstructure:"base_url"`
	Paths        map[string]string `mapstructure:"paths"` // platform -> path segment
	Timeout      time.Duration     `mapstructure:"timeout"`
	UserAgent    string            `mapstructure:"user_agent"`
	MaxBodyBytes int64             `mapstructure:"max_body_bytes"`
}

// PathFor returns the endpoint path segment for a platform
func (c UpstreamConfig) PathFor(platform Platform) string {
	if p, ok := c.Paths[string(platform)]; ok && p != "" {
		return p
	}
	return string(platform)
}

// RelayConfig contains relay upload configuration
type RelayConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Provider    string        `mapstructure:"provider"` // catbox, transfer
	Platforms   []string      `mapstructure:"platforms"`
	CatboxURL   string        `mapstructure:"catbox_url"`
	TransferURL string        `mapstructure:"transfer_url"`
	UserHash    string        `mapstructure:"user_hash"` // optional catbox account hash
	TempDir     string        `mapstructure:"temp_dir"`
	MaxBytes    int64         `mapstructure:"max_bytes"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RelaysPlatform checks if resolved media of a platform should be relayed
func (c RelayConfig) RelaysPlatform(platform Platform) bool {
	if !c.Enabled {
		return false
	}
	for _, p := range c.Platforms {
		if NormalizePlatform(p) == platform {
			return true
		}
	}
	return false
}

// HistoryConfig contains the resolution audit trail configuration
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// LambdaConfig contains AWS Lambda entrypoint configuration
type LambdaConfig struct {
	PayloadVersion string `mapstructure:"payload_version"` // v1 (REST API), v2 (HTTP API / function URL)
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
	LogsDir    string `mapstructure:"logs_dir"`    // enables categorized log files when set
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://dev-priyanshi.onrender.com/api",
			Paths: map[string]string{
				string(PlatformYouTube):   "youtubev2",
				string(PlatformTwitter):   "twitter",
				string(PlatformTikTok):    "tiktok",
				string(PlatformFacebook):  "facebook",
				string(PlatformInstagram): "instagram",
				string(PlatformGDrive):    "gdrive",
			},
			Timeout:      30 * time.Second,
			UserAgent:    DefaultUserAgent,
			MaxBodyBytes: 4 << 20,
		},
		Relay: RelayConfig{
			Enabled:     false,
			Provider:    string(RelayCatbox),
			Platforms:   []string{string(PlatformYouTube)},
			CatboxURL:   "https://catbox.moe/user/api.php",
			TransferURL: "https://transfer.sh",
			TempDir:     "",
			MaxBytes:    200 << 20,
			Timeout:     5 * time.Minute,
		},
		History: HistoryConfig{
			Enabled:      false,
			DatabasePath: "$HOME/.media-resolve/history.db",
		},
		Lambda: LambdaConfig{
			PayloadVersion: "v2",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
