// Package config handles loading and validating the talfront configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the talfront frontend.
type Config struct {
	Frontend   FrontendConfig   `mapstructure:"frontend"`
	Normalizer NormalizerConfig `mapstructure:"normalizer"`
	G2P        G2PConfig        `mapstructure:"g2p"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// FrontendConfig holds the defaults for a pipeline run.
type FrontendConfig struct {
	Language string `mapstructure:"language"` // BCP-47 tag, e.g. "is-IS"
	Alphabet string `mapstructure:"alphabet"` // ipa, x-sampa, x-sampa+syll+stress
}

// NormalizerConfig selects and configures the text normalization stage.
type NormalizerConfig struct {
	Backend string `mapstructure:"backend"` // "basic" or "remote"
	Address string `mapstructure:"address"` // grpc://host:port, remote backend only
}

// G2PConfig configures the grapheme-to-phoneme translator chain: lexicon
// lookups first, then a transcription engine for out-of-vocabulary words.
type G2PConfig struct {
	Lexicons        map[string]string `mapstructure:"lexicons"` // language tag -> lexicon file path
	LexiconAlphabet string            `mapstructure:"lexicon_alphabet"`
	Engine          string            `mapstructure:"engine"` // "goruut" or "remote"
	Goruut          GoruutConfig      `mapstructure:"goruut"`
	Remote          RemoteG2PConfig   `mapstructure:"remote"`
}

// GoruutConfig holds in-process phonemizer settings.
type GoruutConfig struct {
	Language string `mapstructure:"language"` // goruut language name, e.g. "icelandic"
}

// RemoteG2PConfig holds settings for an external transcription service.
type RemoteG2PConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./talfront.yaml, ./configs/talfront.yaml, /etc/talfront/talfront.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("frontend.language", "is-IS")
	v.SetDefault("frontend.alphabet", "x-sampa")
	v.SetDefault("normalizer.backend", "basic")
	v.SetDefault("normalizer.address", "grpc://localhost:8080")
	v.SetDefault("g2p.lexicon_alphabet", "x-sampa")
	v.SetDefault("g2p.engine", "goruut")
	v.SetDefault("g2p.goruut.language", "icelandic")
	v.SetDefault("g2p.remote.timeout_seconds", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("talfront")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/talfront")
	}

	// Environment variables: TALFRONT_FRONTEND_LANGUAGE, TALFRONT_NORMALIZER_BACKEND, etc.
	v.SetEnvPrefix("TALFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${G2P_API_KEY}")
	cfg.G2P.Remote.APIKey = resolveEnvRef(cfg.G2P.Remote.APIKey)

	return &cfg, nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
