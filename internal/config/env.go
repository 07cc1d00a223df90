// Package config holds the environment configuration shared by the
// command line tools.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return eris.Wrap(err, "parse env")
	}
	return nil
}
