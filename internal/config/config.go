package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the auth service configuration, loaded from environment
// variables.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR"         envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"  envDefault:"10s"`

	MongoURI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"auth"`

	// Base URLs embedded into emails for link-based flows.
	AppPasswordSetupURL string `env:"APP_PASSWORD_SETUP_URL"`
	AppPasswordResetURL string `env:"APP_PASSWORD_RESET_URL"`

	VerificationCodeExpiresIn   time.Duration `env:"VERIFICATION_CODE_EXPIRES_IN"    envDefault:"10m"`
	PasswordResetCodeExpiresIn  time.Duration `env:"PASSWORD_RESET_CODE_EXPIRES_IN"  envDefault:"10m"`
	PasswordSetupTokenExpiresIn time.Duration `env:"PASSWORD_SETUP_TOKEN_EXPIRES_IN" envDefault:"24h"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"1h"`
}

// Load parses the service configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AppPasswordSetupURL == "" {
		return fmt.Errorf("missing APP_PASSWORD_SETUP_URL environment variable")
	}
	if c.AppPasswordResetURL == "" {
		return fmt.Errorf("missing APP_PASSWORD_RESET_URL environment variable")
	}

	return nil
}
