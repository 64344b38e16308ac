// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Server ServerConfig
	Data   DataConfig
	Chat   ChatConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 60s, must cover the model call)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// DataConfig holds catalog storage configuration.
type DataConfig struct {
	// BasePath is the directory holding the Badger database.
	BasePath string
}

// ChatConfig holds the recommendation chat configuration.
type ChatConfig struct {
	// Model is the OpenAI model used for recommendations (default: gpt-4o-mini).
	Model string
	// APIKey is the OpenAI credential. Empty is allowed at startup: the
	// chat endpoint fails per-request with a machine-readable code.
	APIKey string
	// Build identifies the running revision in every response envelope.
	Build string
	// CacheTTL is how long a catalog snapshot stays fresh (default: 600s).
	CacheTTL time.Duration
	// RequestTimeout bounds the blocking model call (default: 45s).
	RequestTimeout time.Duration
	// Debug forces debug blocks into every response.
	Debug bool
	// RateRPS/RateBurst shape the per-client rate limit on the chat endpoint.
	RateRPS   float64
	RateBurst int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for catalog storage")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 60s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	// Chat flags
	chatModel := flag.String("chat-model", "", "OpenAI model for recommendations (default: gpt-4o-mini)")
	chatBuild := flag.String("chat-build", "", "Build identifier returned in every envelope")
	chatCacheTTL := flag.String("chat-cache-ttl", "", "Catalog cache TTL in seconds (default: 600)")
	chatTimeout := flag.String("chat-timeout", "", "OpenAI request timeout (default: 45s)")
	chatDebug := flag.String("chat-debug", "", "Force debug blocks in every response (default: false)")
	chatRateRPS := flag.String("chat-rate-rps", "", "Chat endpoint rate limit per client, requests/sec (default: 1)")
	chatRateBurst := flag.String("chat-rate-burst", "", "Chat endpoint rate limit burst (default: 5)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Chat: ChatConfig{
			Model:     getConfigValue(*chatModel, "ATLAS_CHAT_MODEL", "gpt-4o-mini"),
			APIKey:    getConfigValue("", "OPENAI_API_KEY", ""),
			Build:     getConfigValue(*chatBuild, "ATLAS_CHAT_BUILD", "atlas_chat_2026_01_06e"),
			Debug:     getConfigValue(*chatDebug, "ATLAS_CHAT_DEBUG", "") == "1",
			RateRPS:   float64(getIntConfigValue(*chatRateRPS, "CHAT_RATE_RPS", 1)),
			RateBurst: getIntConfigValue(*chatRateBurst, "CHAT_RATE_BURST", 5),
		},
	}

	// Cache TTL is specified in whole seconds for frontend parity.
	ttlSec := getIntConfigValue(*chatCacheTTL, "ATLAS_CHAT_CACHE_TTL_SEC", 600)
	if ttlSec <= 0 {
		return nil, fmt.Errorf("invalid chat cache ttl: %d", ttlSec)
	}
	cfg.Chat.CacheTTL = time.Duration(ttlSec) * time.Second

	chatTimeoutStr := getConfigValue(*chatTimeout, "ATLAS_CHAT_TIMEOUT", "45s")
	chatTimeoutDuration, err := time.ParseDuration(chatTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid chat timeout %q: %w", chatTimeoutStr, err)
	}
	cfg.Chat.RequestTimeout = chatTimeoutDuration

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	// The write timeout must outlast the blocking model call.
	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "60s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Expand and validate the data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Chat.Model == "" {
		return errors.New("chat model cannot be empty")
	}

	if c.Chat.RateRPS <= 0 || c.Chat.RateBurst <= 0 {
		return fmt.Errorf("invalid chat rate limit: rps=%v burst=%d", c.Chat.RateRPS, c.Chat.RateBurst)
	}

	// Chat.APIKey may be empty: the chat endpoint reports
	// missing_openai_api_key per request rather than refusing to start,
	// so the catalog endpoints stay usable without a credential.

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Atlas", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
