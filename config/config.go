package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	SuggestionSourceHistory = "history"
	SuggestionSourceRemote  = "remote"
)

const (
	defaultHistoryCap       = 10
	DefaultSuggestionDelay  = 100 * time.Millisecond
	defaultSuggestionSource = SuggestionSourceHistory
	defaultMaxViews         = 1024
)

type Config struct {
	config *viper.Viper
}

func Load() (*Config, error) {

	env := os.Getenv(keyEnv)
	if len(env) == 0 {
		env = envLocal
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

// getString prefers the environment variable over the key in the config file.
func (c *Config) getString(envKey string, fileKey string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(fileKey)
	}

	return value
}

func (c *Config) getInt(envKey string, fileKey string) int {
	if c.config.IsSet(envKey) {
		return c.config.GetInt(envKey)
	}

	return c.config.GetInt(fileKey)
}

func (c *Config) GetPort() string {
	return c.getString("PORT", "server.port")
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", "log.level")
}

func (c *Config) GetKVDBPath() string {
	return c.getString("KVDB_PATH", "database.kvdb_path")
}

// GetBackendURL is the base URL of the search backend that serves /search and /suggestions.
func (c *Config) GetBackendURL() string {
	return c.getString("BACKEND_URL", "backend.url")
}

func (c *Config) GetHistoryCap() int {
	historyCap := c.getInt("HISTORY_CAP", "history.cap")
	if historyCap <= 0 {
		historyCap = defaultHistoryCap
	}

	return historyCap
}

// GetSuggestionSource is either SuggestionSourceHistory or SuggestionSourceRemote.
func (c *Config) GetSuggestionSource() string {
	source := c.getString("SUGGESTION_SOURCE", "suggestions.source")
	if len(source) == 0 {
		source = defaultSuggestionSource
	}

	return source
}

func (c *Config) GetSuggestionDelay() time.Duration {
	raw := c.getString("SUGGESTION_DELAY", "suggestions.delay")
	if len(raw) == 0 {
		return DefaultSuggestionDelay
	}
	delay, err := time.ParseDuration(raw)
	if err != nil || delay < 0 {
		slog.Warn("invalid suggestion delay, using default", "value", raw)
		return DefaultSuggestionDelay
	}

	return delay
}

func (c *Config) GetMaxViews() int {
	maxViews := c.getInt("MAX_VIEWS", "search.max_views")
	if maxViews <= 0 {
		maxViews = defaultMaxViews
	}

	return maxViews
}

func (c *Config) GetStubPort() string {
	return c.getString("STUB_PORT", "stub.port")
}

// GetStubIndexPath is empty when the stub backend should keep its index in memory.
func (c *Config) GetStubIndexPath() string {
	return c.getString("STUB_INDEX_PATH", "stub.index_path")
}

func (c *Config) GetStubDocumentsPath() string {
	return c.getString("STUB_DOCUMENTS_PATH", "stub.documents_path")
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
