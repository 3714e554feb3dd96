package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/avakit/swapcore/core/transport"
)

// ConfigRaw is what the yaml file carries.
type ConfigRaw struct {
	APIBaseURL   string `yaml:"api_base_url"`
	APIKeyID     string `yaml:"api_key_id"`
	APIKeySecret string `yaml:"api_key_secret"`

	// production or development; controls log encoding and level
	Environment string `yaml:"environment"`

	Network      string `yaml:"network"`
	PaymasterURL string `yaml:"paymaster_url"`

	// TelemetryEnabled is decided here, once, at process start. Nothing
	// reads the environment at call time.
	TelemetryEnabled bool `yaml:"telemetry_enabled"`
}

// Config is the resolved runtime configuration shared by the CLI and any
// embedding service.
type Config struct {
	APIBaseURL       string
	Network          string
	PaymasterURL     string
	TelemetryEnabled bool

	Logger  *zap.Logger
	AuthKey *transport.AuthKey
}

// NewConfig loads and resolves the yaml config at configFilePath.
func NewConfig(configFilePath string) (*Config, error) {
	raw := ConfigRaw{
		APIBaseURL:  DefaultAPIBaseURL,
		Environment: "production",
		Network:     DefaultNetwork,
	}

	if configFilePath != "" {
		data, err := os.ReadFile(configFilePath)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", configFilePath, err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", configFilePath, err)
		}
	}

	logger, err := newLogger(raw.Environment)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:       raw.APIBaseURL,
		Network:          raw.Network,
		PaymasterURL:     raw.PaymasterURL,
		TelemetryEnabled: raw.TelemetryEnabled,
		Logger:           logger,
	}

	if raw.APIKeyID != "" {
		cfg.AuthKey, err = transport.NewAuthKey(raw.APIKeyID, raw.APIKeySecret)
		if err != nil {
			return nil, fmt.Errorf("cannot load api key: %w", err)
		}
	}

	return cfg, nil
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
