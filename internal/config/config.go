package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config holds all codemend configuration
type Config struct {
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	Loop      LoopConfig      `mapstructure:"loop"`
	Run       RunConfig       `mapstructure:"run"`
	Installer InstallerConfig `mapstructure:"installer"`
	Classify  ClassifyConfig  `mapstructure:"classify"`
}

// OllamaConfig holds model gateway settings
type OllamaConfig struct {
	URL                 string `mapstructure:"url"`
	Model               string `mapstructure:"model"`
	Command             string `mapstructure:"command"`
	StartTimeoutSeconds int    `mapstructure:"start_timeout_seconds"`
}

// LoopConfig holds repair loop settings
type LoopConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

// RunConfig holds script execution settings
type RunConfig struct {
	Python string `mapstructure:"python"`
	Stream bool   `mapstructure:"stream"`
}

// InstallerConfig holds dependency installer settings
type InstallerConfig struct {
	Quiet bool `mapstructure:"quiet"`
}

// ClassifyConfig holds failure classification settings
type ClassifyConfig struct {
	AliasesFile string `mapstructure:"aliases_file"`
}

// LoadConfigWithFile loads configuration from a specific file if provided,
// otherwise falls back to LoadConfig with the working directory.
func LoadConfigWithFile(workDir, configFile string) (*Config, error) {
	if configFile != "" {
		return LoadConfigFromPath(configFile)
	}
	return LoadConfig(workDir)
}

// LoadConfig loads configuration from codemend.yaml in the given directory.
// If no config file exists, sensible defaults are returned.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("codemend")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// Read config file (ignore not found errors)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigFromPath loads configuration from a specific file path
func LoadConfigFromPath(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Check if file exists
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			cfg := &Config{}
			if err := v.Unmarshal(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	// Configure viper to read from specific file
	v.SetConfigFile(configPath)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults sets all default values for configuration
func setDefaults(v *viper.Viper) {
	// Ollama defaults
	v.SetDefault("ollama.url", DefaultOllamaURL)
	v.SetDefault("ollama.model", DefaultModel)
	v.SetDefault("ollama.command", DefaultOllamaCommand)
	v.SetDefault("ollama.start_timeout_seconds", DefaultStartTimeoutSeconds)

	// Loop defaults
	v.SetDefault("loop.max_attempts", DefaultMaxAttempts)

	// Run defaults
	v.SetDefault("run.python", DefaultPython)
	v.SetDefault("run.stream", DefaultStream)

	// Installer defaults
	v.SetDefault("installer.quiet", DefaultInstallerQuiet)

	// Classify defaults
	v.SetDefault("classify.aliases_file", DefaultAliasesFile)
}
