package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	pkgerrors "github.com/zhubert/vkterm/internal/errors"
)

// Environment variables read by Load.
const (
	EnvToken      = "TOKEN"
	EnvWidth      = "TWIDTH"
	EnvNotify     = "VKTERM_NOTIFY"
	EnvConfigPath = "VKTERM_CONFIG"
)

// Defaults match the cadence of the web client: lists refresh every 2s,
// presence is cheaper to leave stale and refreshes every 5s.
const (
	DefaultWidth             = 120
	DefaultRefreshInterval   = 2 * time.Second
	DefaultPresenceInterval  = 5 * time.Second
	DefaultRequestTimeout    = 15 * time.Second
	DefaultHistoryCount      = 20
	DefaultConversationCount = 20
	DefaultAPIURL            = "https://api.vk.com/method"
	DefaultAPIVersion        = "5.199"

	// MinWidth is the narrowest display that still fits the name column and a preview.
	MinWidth = 40
	// MaxPageCount is the largest count the VK list methods accept.
	MaxPageCount = 200
)

// Duration is a time.Duration that reads and writes as a string ("2s", "500ms") in JSON.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"2s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config holds the application configuration. It is loaded once at startup
// and treated as read-only afterwards.
type Config struct {
	Width             int      `json:"width,omitempty"`              // Display width in columns
	RefreshInterval   Duration `json:"refresh_interval,omitempty"`   // Friends, conversations and history cadence
	PresenceInterval  Duration `json:"presence_interval,omitempty"`  // Online status cadence
	RequestTimeout    Duration `json:"request_timeout,omitempty"`    // Per-request deadline
	HistoryCount      int      `json:"history_count,omitempty"`      // Messages fetched per dialog refresh
	ConversationCount int      `json:"conversation_count,omitempty"` // Conversations fetched per refresh
	APIURL            string   `json:"api_url,omitempty"`            // Base URL for API methods
	APIVersion        string   `json:"api_version,omitempty"`        // API version sent with every call
	Notifications     bool     `json:"notifications,omitempty"`      // Desktop notification on incoming messages
	LogPath           string   `json:"log_path,omitempty"`           // Debug log destination

	// Token is only ever read from the environment.
	Token string `json:"-"`

	filePath string
}

// Default returns a config with every setting at its default value.
func Default() *Config {
	return &Config{
		Width:             DefaultWidth,
		RefreshInterval:   Duration(DefaultRefreshInterval),
		PresenceInterval:  Duration(DefaultPresenceInterval),
		RequestTimeout:    Duration(DefaultRequestTimeout),
		HistoryCount:      DefaultHistoryCount,
		ConversationCount: DefaultConversationCount,
		APIURL:            DefaultAPIURL,
		APIVersion:        DefaultAPIVersion,
	}
}

// configPath returns the path to the config file
func configPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vkterm", "config.json"), nil
}

// Load builds the configuration from, in increasing precedence: defaults,
// the optional JSON config file, a .env file in the working directory, and
// the process environment. It does not require a token; see RequireToken.
func Load() (*Config, error) {
	// A missing .env is the normal case. Existing environment variables win over it.
	_ = godotenv.Load()

	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.filePath = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, pkgerrors.ConfigLoadFailed(path, err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, pkgerrors.ConfigLoadFailed(path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays settings from the process environment.
func (c *Config) applyEnv() error {
	c.Token = strings.TrimSpace(os.Getenv(EnvToken))

	if raw := strings.TrimSpace(os.Getenv(EnvWidth)); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil {
			return pkgerrors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", EnvWidth, raw))
		}
		c.Width = w
	}

	if raw := strings.TrimSpace(os.Getenv(EnvNotify)); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return pkgerrors.ConfigInvalid(fmt.Sprintf("%s must be a boolean, got %q", EnvNotify, raw))
		}
		c.Notifications = enabled
	}
	return nil
}

// Validate checks the settings for consistency. It does not check the token.
func (c *Config) Validate() error {
	if c.Width < MinWidth {
		return pkgerrors.ConfigInvalid(fmt.Sprintf("width must be at least %d, got %d", MinWidth, c.Width))
	}
	if c.RefreshInterval <= 0 {
		return pkgerrors.ConfigInvalid("refresh_interval must be positive")
	}
	if c.PresenceInterval <= 0 {
		return pkgerrors.ConfigInvalid("presence_interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return pkgerrors.ConfigInvalid("request_timeout must be positive")
	}
	if c.HistoryCount < 1 || c.HistoryCount > MaxPageCount {
		return pkgerrors.ConfigInvalid(fmt.Sprintf("history_count must be between 1 and %d", MaxPageCount))
	}
	if c.ConversationCount < 1 || c.ConversationCount > MaxPageCount {
		return pkgerrors.ConfigInvalid(fmt.Sprintf("conversation_count must be between 1 and %d", MaxPageCount))
	}
	if c.APIURL == "" {
		return pkgerrors.ConfigInvalid("api_url must not be empty")
	}
	if c.APIVersion == "" {
		return pkgerrors.ConfigInvalid("api_version must not be empty")
	}
	return nil
}

// RequireToken returns an error when no access token was provided.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return pkgerrors.TokenMissing(EnvToken)
	}
	return nil
}

// FilePath returns the config file path Load looked at.
func (c *Config) FilePath() string {
	return c.filePath
}

// Refresh returns the list and history polling interval.
func (c *Config) Refresh() time.Duration { return time.Duration(c.RefreshInterval) }

// Presence returns the presence polling interval.
func (c *Config) Presence() time.Duration { return time.Duration(c.PresenceInterval) }

// Timeout returns the per-request deadline.
func (c *Config) Timeout() time.Duration { return time.Duration(c.RequestTimeout) }
