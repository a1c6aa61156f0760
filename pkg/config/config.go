// Package config reads the service configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/yumyai/bgcclass/pkg/db"
)

const (
	EnvConfig   = "BGC_CONFIG"
	EnvData     = "BGC_DATA"
	EnvAddr     = "BGC_ADDR"
	EnvLogLevel = "BGC_LOG_LEVEL"
)

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadMB     int64         `yaml:"max_upload_mb"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ModelsConfig locates the artifacts. File names are relative to Dir.
type ModelsConfig struct {
	Dir              string `yaml:"dir"`
	db.ArtifactFiles `yaml:",inline"`
}

type EmbeddingConfig struct {
	K            int  `yaml:"kmer"`
	AllowUnknown bool `yaml:"allow_unknown"`
	CacheSize    int  `yaml:"cache_size"`
}

// ResultsConfig bounds the in-memory result store. Max 0 disables it.
type ResultsConfig struct {
	Max int           `yaml:"max"`
	TTL time.Duration `yaml:"ttl"`
}

type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Models    ModelsConfig    `yaml:"models"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Results   ResultsConfig   `yaml:"results"`
	// Classes names the classifier outputs in probability order.
	Classes []string `yaml:"classes"`
}

// Load reads a config from path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault reads the file named by BGC_CONFIG, or ./config.yaml.
func LoadDefault() (*AppConfig, string, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func (c *AppConfig) Validate() error {
	if len(c.Classes) != 3 {
		return fmt.Errorf("classes: expected 3 class names, got %d", len(c.Classes))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Results.Max < 0 {
		return fmt.Errorf("results.max must not be negative, got %d", c.Results.Max)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	return nil
}

// LogLevel is Log.Level parsed; Validate has already rejected bad values.
func (c *AppConfig) LogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func (c *AppConfig) MaxUploadBytes() int64 { return c.Server.MaxUploadMB << 20 }

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadMB:     32,
		},
		Log:       LogConfig{Level: "info", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28},
		Models:    ModelsConfig{Dir: "./models"},
		Embedding: EmbeddingConfig{K: 3, CacheSize: 4096},
		Results:   ResultsConfig{Max: 1000, TTL: time.Hour},
		Classes:   []string{"PKS", "NRPS", "Terpene"},
	}
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv(EnvData); v != "" {
		cfg.Models.Dir = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

// applyConfigDefaults fills artifact names after decoding; a default classifier map would
// otherwise be merged with the configured one.
func applyConfigDefaults(cfg *AppConfig) {
	def := db.DefaultArtifactFiles()
	if cfg.Models.Embedding == "" {
		cfg.Models.Embedding = def.Embedding
	}
	if cfg.Models.Scaler == "" {
		cfg.Models.Scaler = def.Scaler
	}
	if cfg.Models.Reducer == "" {
		cfg.Models.Reducer = def.Reducer
	}
	if len(cfg.Models.Classifiers) == 0 {
		cfg.Models.Classifiers = def.Classifiers
	}
	if cfg.Embedding.K == 0 {
		cfg.Embedding.K = 3
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
