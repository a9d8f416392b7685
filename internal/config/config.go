package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	SQLDatabase   DatabaseConfig  `yaml:"sql_database"`   // SQLite for workspaces, prompts and snapshots
	NoSQLDatabase DatabaseConfig  `yaml:"nosql_database"` // MongoDB for raw results and citations
	Providers     ProviderConfig  `yaml:"providers"`
	Server        ServerConfig    `yaml:"server"`
	Scheduler     SchedulerConfig `yaml:"scheduler"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Provider string            `yaml:"provider"` // sqlite, mongodb
	URI      string            `yaml:"uri"`
	Database string            `yaml:"database"`
	Options  map[string]string `yaml:"options,omitempty"`
}

// ProviderConfig holds the API keys for the LLM vendors
type ProviderConfig struct {
	OpenAIAPIKey     string `yaml:"openai_api_key,omitempty"`
	AnthropicAPIKey  string `yaml:"anthropic_api_key,omitempty"`
	PerplexityAPIKey string `yaml:"perplexity_api_key,omitempty"`
	GeminiAPIKey     string `yaml:"gemini_api_key,omitempty"` // embeddings only
}

// ServerConfig represents HTTP API server configuration
type ServerConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// SchedulerConfig represents the daily measurement scheduler configuration
type SchedulerConfig struct {
	CronExpr string `yaml:"cron_expr,omitempty"` // default: daily at 06:00
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		SQLDatabase: DatabaseConfig{
			Provider: "sqlite",
			URI:      "brandlens.db",
			Database: "brandlens",
		},
		NoSQLDatabase: DatabaseConfig{
			Provider: "mongodb",
			URI:      "mongodb://localhost:27017",
			Database: "brandlens",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Scheduler: SchedulerConfig{
			CronExpr: "0 6 * * *",
		},
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".brandlens/config.yaml"
	}
	return filepath.Join(home, ".brandlens", "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
