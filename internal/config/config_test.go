package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{Port: "8080"},
		Data:   DataConfig{BasePath: "/tmp/atlas-data"},
		Chat: ChatConfig{
			Model:          "gpt-4o-mini",
			Build:          "atlas_chat_2026_01_06e",
			CacheTTL:       600 * time.Second,
			RequestTimeout: 45 * time.Second,
			RateRPS:        1,
			RateBurst:      5,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty environment", func(c *Config) { c.App.Environment = "" }, "ENV is required"},
		{"bad environment", func(c *Config) { c.App.Environment = "test" }, "invalid environment"},
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }, "invalid log level"},
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }, "data base path"},
		{"empty model", func(c *Config) { c.Chat.Model = "" }, "chat model"},
		{"zero rate", func(c *Config) { c.Chat.RateRPS = 0 }, "invalid chat rate limit"},
		{"missing api key is allowed", func(c *Config) { c.Chat.APIKey = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("ATLAS_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "ATLAS_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "ATLAS_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "ATLAS_TEST_MISSING", "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("ATLAS_TEST_INT", "300")
	t.Setenv("ATLAS_TEST_BAD_INT", "not a number")

	assert.Equal(t, 300, getIntConfigValue("", "ATLAS_TEST_INT", 600))
	assert.Equal(t, 600, getIntConfigValue("", "ATLAS_TEST_BAD_INT", 600))
	assert.Equal(t, 600, getIntConfigValue("", "ATLAS_TEST_INT_MISSING", 600))
	assert.Equal(t, 42, getIntConfigValue("42", "ATLAS_TEST_INT", 600))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n\nATLAS_ENVFILE_A=hello\nATLAS_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ATLAS_ENVFILE_A", "")
	t.Setenv("ATLAS_ENVFILE_B", "")
	os.Unsetenv("ATLAS_ENVFILE_A")
	os.Unsetenv("ATLAS_ENVFILE_B")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("ATLAS_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("ATLAS_ENVFILE_B"))
}

func TestLoadEnvFileDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ATLAS_ENVFILE_C=file\n"), 0o600))

	t.Setenv("ATLAS_ENVFILE_C", "process")
	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "process", os.Getenv("ATLAS_ENVFILE_C"))
}

func TestLoadEnvFileBadLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(path))
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)

	got, err = expandPath("/already/abs", "")
	require.NoError(t, err)
	assert.Equal(t, "/already/abs", got)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err = expandPath("~/atlas", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "atlas"), got)
}
