package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/nippo/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"NIPPO_GITHUB_TOKEN", "GITHUB_TOKEN", "NIPPO_LLM_API_KEY", "GEMINI_API_KEY",
		"NIPPO_LLM_PROVIDER", "NIPPO_LLM_MODEL", "NIPPO_LLM_ENDPOINT", "NIPPO_DB_PATH",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, 30, cfg.GitHub.TimeoutSec)
	assert.Equal(t, 0, cfg.GitHub.MaxConcurrency)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
log_level = "debug"

[github]
token = "ghp_file"
max_concurrency = 4

[llm]
provider = "ollama"
model = "llama3.2"
max_retries = 2

[storage]
db_path = "/tmp/nippo-test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ghp_file", cfg.GitHub.Token)
	assert.Equal(t, 4, cfg.GitHub.MaxConcurrency)
	assert.Equal(t, 30, cfg.GitHub.TimeoutSec, "unset keys keep defaults")
	assert.Equal(t, "/tmp/nippo-test.db", cfg.Storage.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOllama, lc.Provider)
	assert.Equal(t, llm.DefaultOllamaEndpoint, lc.Endpoint)
	assert.Equal(t, "llama3.2", lc.Model)
	assert.Equal(t, 2, lc.MaxRetries)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[github]\ntoken = \"ghp_file\"\n")
	t.Setenv("NIPPO_GITHUB_TOKEN", "ghp_env")
	t.Setenv("NIPPO_LLM_API_KEY", "gem_env")
	t.Setenv("NIPPO_DB_PATH", ":memory:")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ghp_env", cfg.GitHub.Token)
	assert.Equal(t, ":memory:", cfg.Storage.DBPath)
	assert.Equal(t, "gem_env", cfg.LLMConfig().APIKey)
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "[github\n"))
	assert.ErrorContains(t, err, "parsing config")
}

func TestLLMConfig_DefaultsToNoRetries(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderGemini, lc.Provider)
	assert.Equal(t, llm.DefaultGeminiEndpoint, lc.Endpoint)
	assert.Equal(t, 0, lc.MaxRetries)
}

func TestGitHubConfig_Helpers(t *testing.T) {
	g := GitHubConfig{APIURL: "https://ghe.example.com/api/v3", TimeoutSec: 5}
	assert.Equal(t, 5*time.Second, g.ClientConfig().Timeout)
	assert.False(t, g.UsesApp())

	g.AppID = 42
	g.PrivateKeyPath = "/keys/app.pem"
	assert.True(t, g.UsesApp())
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.GitHub.Token = "ghp_saved"
	cfg.Storage.DBPath = "/tmp/x.db"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ghp_saved", loaded.GitHub.Token)
	assert.Equal(t, "/tmp/x.db", loaded.Storage.DBPath)
}
