// Package config loads nippo settings from a TOML file and NIPPO_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alexanderramin/nippo/internal/github"
	"github.com/alexanderramin/nippo/internal/llm"
)

type Config struct {
	LogLevel  string          `toml:"log_level,omitempty"`
	GitHub    GitHubConfig    `toml:"github"`
	LLM       LLMSection      `toml:"llm"`
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Templates TemplatesConfig `toml:"templates"`
}

type GitHubConfig struct {
	APIURL         string `toml:"api_url,omitempty"`
	Token          string `toml:"token,omitempty"`
	AppID          int64  `toml:"app_id,omitempty"`
	PrivateKeyPath string `toml:"private_key_path,omitempty"`
	MaxConcurrency int    `toml:"max_concurrency,omitempty"` // 0 fans out to every branch at once
	TimeoutSec     int    `toml:"timeout_sec,omitempty"`
}

type LLMSection struct {
	Provider   string `toml:"provider,omitempty"`
	Endpoint   string `toml:"endpoint,omitempty"`
	Model      string `toml:"model,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	TimeoutMs  int    `toml:"timeout_ms,omitempty"`
	MaxRetries *int   `toml:"max_retries,omitempty"`
	LogCalls   bool   `toml:"log_calls,omitempty"`
}

type ServerConfig struct {
	Addr string `toml:"addr,omitempty"`
}

type StorageConfig struct {
	DBPath string `toml:"db_path,omitempty"`
}

type TemplatesConfig struct {
	Dir string `toml:"dir,omitempty"`
}

// DefaultPath returns $NIPPO_CONFIG, or <user config dir>/nippo/config.toml.
func DefaultPath() string {
	if p := os.Getenv("NIPPO_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".nippo"
	}
	return filepath.Join(dir, "nippo")
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dir := configDir()
	return Config{
		LogLevel: "info",
		GitHub: GitHubConfig{
			APIURL:     github.DefaultBaseURL,
			TimeoutSec: 30,
		},
		LLM: LLMSection{
			Provider:  string(llm.ProviderGemini),
			Model:     llm.DefaultConfig().Model,
			TimeoutMs: llm.DefaultConfig().TimeoutMs,
		},
		Server:    ServerConfig{Addr: "127.0.0.1:8080"},
		Storage:   StorageConfig{DBPath: filepath.Join(dir, "nippo.db")},
		Templates: TemplatesConfig{Dir: filepath.Join(dir, "templates")},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.expandPaths()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NIPPO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("NIPPO_GITHUB_API_URL"); v != "" {
		c.GitHub.APIURL = v
	}
	if v := os.Getenv("NIPPO_GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	} else if v := os.Getenv("GITHUB_TOKEN"); v != "" && c.GitHub.Token == "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("NIPPO_GITHUB_APP_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.GitHub.AppID = n
		}
	}
	if v := os.Getenv("NIPPO_GITHUB_PRIVATE_KEY_PATH"); v != "" {
		c.GitHub.PrivateKeyPath = v
	}
	if v := os.Getenv("NIPPO_GITHUB_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.GitHub.MaxConcurrency = n
		}
	}
	if v := os.Getenv("NIPPO_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("NIPPO_DB_PATH"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("NIPPO_TEMPLATES_DIR"); v != "" {
		c.Templates.Dir = v
	}
}

func (c *Config) expandPaths() {
	c.GitHub.PrivateKeyPath = expandHome(c.GitHub.PrivateKeyPath)
	c.Templates.Dir = expandHome(c.Templates.Dir)
	if c.Storage.DBPath != ":memory:" {
		c.Storage.DBPath = expandHome(c.Storage.DBPath)
	}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// LLMConfig merges the [llm] section and NIPPO_LLM_* variables over the
// client defaults.
func (c Config) LLMConfig() llm.LLMConfig {
	out := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		out.Provider = llm.Provider(c.LLM.Provider)
	}
	out.Endpoint = llm.DefaultEndpoint(out.Provider)
	if c.LLM.Endpoint != "" {
		out.Endpoint = c.LLM.Endpoint
	}
	if c.LLM.Model != "" {
		out.Model = c.LLM.Model
	}
	out.APIKey = c.LLM.APIKey
	if c.LLM.TimeoutMs > 0 {
		out.TimeoutMs = c.LLM.TimeoutMs
	}
	if c.LLM.MaxRetries != nil && *c.LLM.MaxRetries >= 0 {
		out.MaxRetries = *c.LLM.MaxRetries
	}
	out.LogCalls = c.LLM.LogCalls
	llm.ApplyEnv(&out)
	return out
}

// ClientConfig returns the hosting client settings.
func (g GitHubConfig) ClientConfig() github.Config {
	return github.Config{
		BaseURL: g.APIURL,
		Timeout: time.Duration(g.TimeoutSec) * time.Second,
	}
}

// UsesApp reports whether GitHub App credentials are configured.
func (g GitHubConfig) UsesApp() bool {
	return g.AppID != 0 && g.PrivateKeyPath != ""
}

// SlogLevel maps log_level onto a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save writes cfg to path as TOML, creating the parent directory.
// Secrets are written as given.
func Save(path string, cfg Config) error {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
