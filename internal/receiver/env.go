// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package receiver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")
)

type config struct {
	ReceiverHost          string `env:"RECEIVER_HOST" envDefault:"0.0.0.0"`
	ReceiverPort          int    `env:"RECEIVER_PORT" envDefault:"5000"`
	HTTPPort              int    `env:"RECEIVER_HTTP_PORT" envDefault:"3000"`
	DisableStartupMessage bool   `env:"DISABLE_STARTUP_MESSAGE" envDefault:"true"`
}

func loadConfig() (*config, error) {
	var envVars config
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if err := validateEnvironmentVariables(&envVars); err != nil {
		return nil, err
	}
	return &envVars, nil
}

func validateEnvironmentVariables(envVars *config) error {
	envError := make([]string, 0)

	if envVars.ReceiverPort < 1 || envVars.ReceiverPort > 65535 {
		envError = append(envError, "RECEIVER_PORT is out of valid range (1-65535)")
	}
	if envVars.HTTPPort < 1 || envVars.HTTPPort > 65535 {
		envError = append(envError, "RECEIVER_HTTP_PORT is out of valid range (1-65535)")
	}

	if len(envError) > 0 {
		return fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, strings.Join(envError, ", "))
	}
	return nil
}
