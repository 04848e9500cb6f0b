// Package config defines the configuration of the FES mock. Configuration is
// loaded once at startup and is immutable thereafter.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any invalid value causes startup to fail immediately.
package config

import "fesmock/internal/fes"

// Config is the top-level configuration struct for the FES mock.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local test ci"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server  ServerConfig
	FES     FESConfig
	Metrics MetricsConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP listener and error rendering configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8001" validate:"required,numeric"`

	// Status used for client errors raised without an explicit status.
	FallbackErrorStatus int `envconfig:"FES_FALLBACK_ERROR_STATUS" default:"400" validate:"min=400,max=599"`
	// Status used for generic mock failures (e.g. missing access token).
	FallbackGenericStatus int `envconfig:"FES_FALLBACK_GENERIC_STATUS" default:"500" validate:"min=400,max=599"`
}

// FESConfig holds the hosts the mock answers for.
type FESConfig struct {
	OrgDomain   string   `envconfig:"FES_ORG_DOMAIN" default:"standardsubdomainfes.test:8001" validate:"required,hostname_port|hostname"`
	AbsentHosts []string `envconfig:"FES_ABSENT_HOSTS" default:"fes.localhost:8001,fes.google.mock.flowcryptlocal.test:8001"`
}

// Settings converts the FES configuration into dispatcher settings.
func (c FESConfig) Settings() fes.Settings {
	return fes.Settings{
		OrgDomain:   c.OrgDomain,
		AbsentHosts: append([]string(nil), c.AbsentHosts...),
	}
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool `envconfig:"FES_METRICS_ENABLED" default:"true"`
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
	// ErrDotenv indicates an existing .env file could not be read.
	ErrDotenv ConfigErrorType = "DOTENV_FAILED"
)
