package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	configErrors "github.com/Motmedel/results_go/internal/config/errors"
	motmedelEnv "github.com/Motmedel/results_go/pkg/env"
	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "RESULTS_"

	ObserverSlog       = "slog"
	ObserverZap        = "zap"
	ObserverPrometheus = "prometheus"

	minimumSigningKeyLength = 32
)

type Auth struct {
	SigningKey       string        `yaml:"signing_key"`
	CookieName       string        `yaml:"cookie_name"`
	Issuer           string        `yaml:"issuer"`
	LoginPath        string        `yaml:"login_path"`
	AccessDeniedPath string        `yaml:"access_denied_path"`
	Lifetime         time.Duration `yaml:"lifetime"`
	Insecure         bool          `yaml:"insecure"`
}

type Json struct {
	Indent     string `yaml:"indent"`
	EscapeHtml bool   `yaml:"escape_html"`
}

type Config struct {
	Address         string        `yaml:"address"`
	PathBase        string        `yaml:"path_base"`
	StaticDirectory string        `yaml:"static_directory"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// Observers names the result observers to install: slog, zap or prometheus.
	Observers []string `yaml:"observers"`
	Auth      Auth     `yaml:"auth"`
	Json      Json     `yaml:"json"`
}

func Default() *Config {
	return &Config{
		Address:         "127.0.0.1:8080",
		StaticDirectory: "static",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
		Observers:       []string{ObserverSlog, ObserverPrometheus},
		Auth: Auth{
			CookieName:       "results_session",
			Issuer:           "results_demo",
			LoginPath:        "/login",
			AccessDeniedPath: "",
			Lifetime:         time.Hour,
		},
	}
}

// Decode reads YAML from reader on top of the defaults. Unknown keys are rejected.
func Decode(reader io.Reader) (*Config, error) {
	config := Default()

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, motmedelErrors.New(fmt.Errorf("yaml decoder decode: %w", err))
	}

	return config, nil
}

// ApplyEnv overrides settings with RESULTS_* environment variables.
func (config *Config) ApplyEnv() error {
	motmedelEnv.OverrideString(EnvPrefix+"ADDRESS", &config.Address)
	motmedelEnv.OverrideString(EnvPrefix+"PATH_BASE", &config.PathBase)
	motmedelEnv.OverrideString(EnvPrefix+"STATIC_DIRECTORY", &config.StaticDirectory)
	motmedelEnv.OverrideString(EnvPrefix+"LOG_LEVEL", &config.LogLevel)
	motmedelEnv.OverrideString(EnvPrefix+"SIGNING_KEY", &config.Auth.SigningKey)
	motmedelEnv.OverrideString(EnvPrefix+"COOKIE_NAME", &config.Auth.CookieName)

	var errs []error
	errs = append(errs, motmedelEnv.OverrideDuration(EnvPrefix+"SHUTDOWN_TIMEOUT", &config.ShutdownTimeout))
	errs = append(errs, motmedelEnv.OverrideDuration(EnvPrefix+"SESSION_LIFETIME", &config.Auth.Lifetime))
	errs = append(errs, motmedelEnv.OverrideBool(EnvPrefix+"COOKIE_INSECURE", &config.Auth.Insecure))

	return errors.Join(errs...)
}

func (config *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		return 0, motmedelErrors.New(
			fmt.Errorf("%w: %w", configErrors.ErrUnknownLogLevel, err),
			config.LogLevel,
		)
	}
	return level, nil
}

func (config *Config) Validate() error {
	switch length := len(config.Auth.SigningKey); {
	case length == 0:
		return motmedelErrors.NewWithTrace(configErrors.ErrMissingSigningKey)
	case length < minimumSigningKeyLength:
		return motmedelErrors.NewWithTrace(configErrors.ErrShortSigningKey, length)
	}

	if _, err := config.Level(); err != nil {
		return err
	}

	for _, name := range config.Observers {
		switch name {
		case ObserverSlog, ObserverZap, ObserverPrometheus:
		default:
			return motmedelErrors.NewWithTrace(fmt.Errorf("%w: %q", configErrors.ErrUnknownObserver, name), name)
		}
	}

	return nil
}

// Load reads the optional YAML file at path, then the optional dotenv files, and finally applies
// the environment overrides. Dotenv files never replace variables that are already set.
func Load(path string, dotEnvPaths ...string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, motmedelErrors.NewWithTrace(fmt.Errorf("os read file: %w", err), path)
		}
	}

	config, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, motmedelErrors.New(fmt.Errorf("decode: %w", err), path)
	}

	for _, dotEnvPath := range dotEnvPaths {
		if err := godotenv.Load(dotEnvPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, motmedelErrors.NewWithTrace(fmt.Errorf("godotenv load: %w", err), dotEnvPath)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("apply env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	return config, nil
}
