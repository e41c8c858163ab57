// Package config loads cluso-globe settings from a YAML or TOML file,
// then applies environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-globe/pkg/globe"
	globetls "github.com/dd0wney/cluso-globe/pkg/tls"
	"github.com/dd0wney/cluso-globe/pkg/validation"
)

// Environments accepted for Server.Environment.
var Environments = []string{"development", "test", "production"}

// LogLevels accepted for Log.Level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// ErrUnknownConfigFormat is returned for files that are neither YAML nor TOML.
var ErrUnknownConfigFormat = errors.New("unknown config file format")

type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Dataset DatasetConfig `yaml:"dataset" toml:"dataset"`
	Client  ClientConfig  `yaml:"client" toml:"client"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	Globe   globe.Config  `yaml:"globe" toml:"globe"`
}

type ServerConfig struct {
	Port            int             `yaml:"port" toml:"port"`
	Delay           time.Duration   `yaml:"delay" toml:"delay"`
	Environment     string          `yaml:"environment" toml:"environment"`
	CORSOrigins     []string        `yaml:"corsOrigins" toml:"corsOrigins"`
	MaxBodyBytes    int64           `yaml:"maxBodyBytes" toml:"maxBodyBytes"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout" toml:"shutdownTimeout"`
	GraphQLMaxDepth int             `yaml:"graphqlMaxDepth" toml:"graphqlMaxDepth"`
	TLS             globetls.Config `yaml:"tls" toml:"tls"`
}

// DatasetConfig selects where the served dataset comes from. Path wins over
// S3; with neither set the embedded dataset is served.
type DatasetConfig struct {
	Path     string `yaml:"path" toml:"path"`
	S3Bucket string `yaml:"s3Bucket" toml:"s3Bucket"`
	S3Key    string `yaml:"s3Key" toml:"s3Key"`
	S3Region string `yaml:"s3Region" toml:"s3Region"`
}

type ClientConfig struct {
	BaseURL string        `yaml:"baseURL" toml:"baseURL"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            3000,
			Delay:           500 * time.Millisecond,
			Environment:     "development",
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: 15 * time.Second,
			GraphQLMaxDepth: 5,
			TLS:             globetls.DefaultConfig(),
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:3000",
			Timeout: 30 * time.Second,
		},
		Log:   LogConfig{Level: "info"},
		Globe: globe.DefaultConfig(),
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigFormat, path)
	}
	return nil
}

// ApplyEnv overrides fields from GLOBE_PORT, GLOBE_DELAY, GLOBE_ENV,
// CORS_ALLOWED_ORIGINS, GLOBE_DATASET, GLOBE_API_URL and LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	c.Server.Port = getEnvInt("GLOBE_PORT", c.Server.Port)

	if v := os.Getenv("GLOBE_DELAY"); v != "" {
		d, err := parseDelay(v)
		if err != nil {
			return fmt.Errorf("GLOBE_DELAY: %w", err)
		}
		c.Server.Delay = d
	}
	if v := os.Getenv("GLOBE_ENV"); v != "" {
		c.Server.Environment = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("GLOBE_DATASET"); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv("GLOBE_API_URL"); v != "" {
		c.Client.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	err := validation.NewConfigValidator("config").
		RangeInt("server.port", c.Server.Port, 1, 65535).
		RangeDuration("server.delay", c.Server.Delay, 0, time.Minute).
		OneOf("server.environment", c.Server.Environment, Environments).
		Positive("server.maxBodyBytes", c.Server.MaxBodyBytes).
		RangeDuration("server.shutdownTimeout", c.Server.ShutdownTimeout, time.Second, 5*time.Minute).
		RangeInt("server.graphqlMaxDepth", c.Server.GraphQLMaxDepth, 1, 20).
		When(c.Server.TLS.Enabled && !c.Server.TLS.AutoGenerate, func(cv *validation.ConfigValidator) {
			cv.Required("server.tls.certFile", c.Server.TLS.CertFile).
				Required("server.tls.keyFile", c.Server.TLS.KeyFile)
		}).
		When(c.Dataset.S3Bucket != "", func(cv *validation.ConfigValidator) {
			cv.Required("dataset.s3Key", c.Dataset.S3Key)
		}).
		Required("client.baseURL", c.Client.BaseURL).
		Positive("client.timeout", int64(c.Client.Timeout)).
		OneOf("log.level", c.Log.Level, LogLevels).
		Validate()
	if err != nil {
		return err
	}
	return c.Globe.Validate()
}

// Addr is the listen address for the server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// parseDelay accepts a Go duration ("250ms") or a bare millisecond count ("250").
func parseDelay(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
