package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	applyDefaults(v)
	v.SetEnvPrefix("HAGGLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ProviderGemini, cfg.Generation.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Generation.Model)
	assert.Equal(t, 20*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 12, cfg.Negotiation.MaxRounds)
	assert.Equal(t, 6, cfg.Negotiation.MinRounds)
	assert.Equal(t, 10.0, cfg.Negotiation.ConvergenceThreshold)
	assert.Equal(t, 10, cfg.Negotiation.HistoryLimit)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "*", cfg.Server.AllowedOrigin)
	assert.Empty(t, cfg.Validate(), "defaults must validate")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := loadFrom(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, Default().Negotiation, cfg.Negotiation)
	assert.Equal(t, 20*time.Second, cfg.Generation.Timeout)
	assert.False(t, cfg.Generation.HasAPIKey())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HAGGLE_GENERATION_PROVIDER", "offline")
	t.Setenv("HAGGLE_NEGOTIATION_MAX_ROUNDS", "20")
	t.Setenv("HAGGLE_GENERATION_TIMEOUT", "5s")

	cfg, err := loadFrom(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, ProviderOffline, cfg.Generation.Provider)
	assert.Equal(t, 20, cfg.Negotiation.MaxRounds)
	assert.Equal(t, 5*time.Second, cfg.Generation.Timeout)
}

func TestLoad_GeminiAPIKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := loadFrom(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Generation.APIKey)

	t.Setenv("HAGGLE_GENERATION_API_KEY", "explicit")
	cfg, err = loadFrom(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Generation.APIKey)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  driver: mysql
  dsn: "haggle:secret@tcp(localhost:3306)/haggle"
negotiation:
  history_limit: 25
server:
  allowed_origin: "https://shop.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Negotiation.HistoryLimit)
	assert.Equal(t, "https://shop.example.com", cfg.Server.AllowedOrigin)
	assert.Equal(t, 12, cfg.Negotiation.MaxRounds)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("HAGGLE_DATABASE_DRIVER", "postgres")

	_, err := loadFrom(newTestViper())
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "database.driver", verrs[0].Field)
}

func TestNegotiationConfig_Rules(t *testing.T) {
	n := NegotiationConfig{MaxRounds: 8, MinRounds: 4, ConvergenceThreshold: 2.5}
	rules := n.Rules()

	assert.Equal(t, 8, rules.MaxRounds)
	assert.Equal(t, 4, rules.MinRounds)
	assert.Equal(t, 2.5, rules.ConvergenceThreshold)
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/haggle", ConfigDir())
	assert.Equal(t, "/tmp/xdg/haggle/config.yaml", ConfigFile())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err == nil {
		assert.Equal(t, filepath.Join(home, ".config", "haggle"), ConfigDir())
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("HAGGLE_TEST_DOTENV=loaded\n"), 0644))
	t.Setenv("HAGGLE_TEST_DOTENV", "")
	os.Unsetenv("HAGGLE_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("HAGGLE_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")), "missing file is not an error")
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "haggle", "config.yaml")

	require.NoError(t, WriteDefault(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "gemini-2.0-flash", v.GetString("generation.model"))
	assert.Equal(t, 12, v.GetInt("negotiation.max_rounds"))

	assert.Error(t, WriteDefault(path), "existing file must not be overwritten")
}
