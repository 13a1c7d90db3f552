package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by every subcommand. Values come from the
// environment first and can be overridden by flags.
type Config struct {
	// Address is the relay host to connect to
	Address string `env:"DODCHAT_ADDRESS" envDefault:"localhost"`
	// Port is the relay TCP port
	Port int `env:"DODCHAT_PORT" envDefault:"14001"`
	// Verbose enables debug-level logging
	Verbose bool `env:"DODCHAT_VERBOSE"`
}

// LoadConfig reads defaults from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
