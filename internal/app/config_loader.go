package app

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/media-resolve-go/internal/domain"
)

// EnvPrefix is the prefix of environment overrides, e.g. MEDIARESOLVE_UPSTREAM_BASE_URL
const EnvPrefix = "MEDIARESOLVE"

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.media-resolve")
		v.AddConfigPath("/etc/media-resolve")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// bindEnvKeys registers every known key so AutomaticEnv overrides apply
// even when no config file mentions them
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"server.host", "server.port",
		"upstream.base_url", "upstream.timeout", "upstream.user_agent", "upstream.max_body_bytes",
		"relay.enabled", "relay.provider", "relay.platforms", "relay.catbox_url", "relay.transfer_url",
		"relay.user_hash", "relay.temp_dir", "relay.max_bytes", "relay.timeout",
		"history.enabled", "history.database_path",
		"lambda.payload_version",
		"logging.level", "logging.format", "logging.output_path", "logging.logs_dir",
	}
	for _, platform := range domain.AllPlatforms() {
		keys = append(keys, "upstream.paths."+string(platform))
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Relay.TempDir = expandPath(config.Relay.TempDir)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)
	config.Logging.LogsDir = expandPath(config.Logging.LogsDir)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.Contains(path, "$HOME") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	u, err := url.Parse(config.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream base_url must be an absolute http(s) URL: %q", config.Upstream.BaseURL)
	}

	if config.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream timeout cannot be negative")
	}

	if config.Relay.Enabled {
		switch domain.RelayProvider(strings.ToLower(config.Relay.Provider)) {
		case domain.RelayCatbox:
			if config.Relay.CatboxURL == "" {
				return fmt.Errorf("relay catbox_url not configured")
			}
		case domain.RelayTransfer:
			if config.Relay.TransferURL == "" {
				return fmt.Errorf("relay transfer_url not configured")
			}
		default:
			return fmt.Errorf("unknown relay provider: %s", config.Relay.Provider)
		}

		for _, p := range config.Relay.Platforms {
			if !domain.ValidatePlatform(domain.NormalizePlatform(p)) {
				return fmt.Errorf("unknown relay platform: %s", p)
			}
		}
	}

	if config.History.Enabled && config.History.DatabasePath == "" {
		return fmt.Errorf("history database path not configured")
	}

	switch config.Lambda.PayloadVersion {
	case "v1", "v2":
	case "":
		config.Lambda.PayloadVersion = "v2"
	default:
		return fmt.Errorf("invalid lambda payload_version: %s", config.Lambda.PayloadVersion)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}
