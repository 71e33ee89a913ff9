// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

func (cfg *ClientConfig) print() {
	log.Debug().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Msg("Starting SEPET")

	configYAML, err := cfg.YAML()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().
		Str("config", string(configYAML)).
		Msg("Application configuration")
}

// YAML marshals the configuration with durations in their string form.
func (cfg *ClientConfig) YAML() ([]byte, error) {
	return yaml.MarshalWithOptions(
		cfg,
		GetDurationEncoderOption(),
		yaml.Indent(2),
	)
}
