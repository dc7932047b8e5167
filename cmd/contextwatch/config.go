package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the contextwatch configuration file
// (~/.config/contextwatch/config.yaml). Numeric fields are pointers so an
// absent key can be told apart from an explicit zero.
type Config struct {
	// Demo model
	Vocab        *int64 `yaml:"vocab"`
	Hidden       *int64 `yaml:"hidden"`
	ModelContext *int64 `yaml:"model_context"`
	ContextLimit *int64 `yaml:"context_limit"`
	Seed         *int64 `yaml:"seed"`
	EOSToken     *int64 `yaml:"eos_token"`

	// Instrumentation defaults
	MaxTokens     *int64   `yaml:"max_tokens"`
	WarnThreshold *float64 `yaml:"warn_threshold"`
	Window        *int64   `yaml:"window"`
	MemoryCadence *int64   `yaml:"memory_cadence"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "contextwatch", "config.yaml")
}

// applyLoggingConfig applies config file logging defaults when the
// corresponding CLI flag was not explicitly set.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") && !c.IsSet("debug") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyModelConfig applies config file demo model defaults.
func applyModelConfig(c *cli.Command, cfg Config) {
	if cfg.Vocab != nil && !c.IsSet("vocab") {
		vocabSize = *cfg.Vocab
	}
	if cfg.Hidden != nil && !c.IsSet("hidden") {
		hiddenSize = *cfg.Hidden
	}
	if cfg.ModelContext != nil && !c.IsSet("model-context") {
		modelContext = *cfg.ModelContext
	}
	if cfg.ContextLimit != nil && !c.IsSet("context-limit") && !c.IsSet("ctx") && !c.IsSet("c") {
		contextLimit = *cfg.ContextLimit
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		seed = *cfg.Seed
	}
	if cfg.EOSToken != nil && !c.IsSet("eos") {
		eosToken = *cfg.EOSToken
	}
}

// applyRunConfig applies config file instrumentation defaults shared by
// the run and bench commands.
func applyRunConfig(c *cli.Command, cfg Config,
	maxTokens *int64, warnThreshold *float64, window *int64, memoryCadence *int64,
) {
	if cfg.MaxTokens != nil && !c.IsSet("max-tokens") && !c.IsSet("n") {
		*maxTokens = *cfg.MaxTokens
	}
	if cfg.WarnThreshold != nil && !c.IsSet("warn-threshold") {
		*warnThreshold = *cfg.WarnThreshold
	}
	if cfg.Window != nil && !c.IsSet("window") {
		*window = *cfg.Window
	}
	if cfg.MemoryCadence != nil && !c.IsSet("memory-cadence") {
		*memoryCadence = *cfg.MemoryCadence
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or cannot be parsed.
func LoadConfig() Config {
	return loadConfigFrom(configPath())
}

func loadConfigFrom(path string) Config {
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
