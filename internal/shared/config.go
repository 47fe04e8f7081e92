package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Resolver    ResolverConfig    `toml:"resolver"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains the Spotify application registration.
//
// Only a client ID is needed: the tool uses the authorization-code flow with
// PKCE, which does not require a client secret.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ResolverConfig tunes the resolution pipeline.
type ResolverConfig struct {
	RateLimit             float64 `toml:"rate_limit"`              // search requests per second
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"` // per-call HTTP timeout
}

// RequestTimeout returns the per-request timeout as a [time.Duration],
// falling back to 15 seconds when unset.
func (rc ResolverConfig) RequestTimeout() time.Duration {
	if rc.RequestTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(rc.RequestTimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
