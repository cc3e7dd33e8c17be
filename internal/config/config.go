// Package config loads the optional YAML configuration overlay for
// ecpridecode, falling back to the documented defaults for anything the
// file doesn't set.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults match spec.md §6's configuration constants.
const (
	DefaultMantissa       = 9
	DefaultMaxPacketCount = 10000
	DefaultOutputPath     = "iq_data.txt"
)

// Config is the fully-resolved set of run-time knobs, after applying any
// YAML overlay on top of the defaults.
type Config struct {
	Mantissa       uint   `yaml:"mantissa"`
	MaxPacketCount int    `yaml:"max_packet_count"`
	OutputPath     string `yaml:"output_path"`
}

// Default returns a Config populated with the documented defaults.
func Default() Config {
	return Config{
		Mantissa:       DefaultMantissa,
		MaxPacketCount: DefaultMaxPacketCount,
		OutputPath:     DefaultOutputPath,
	}
}

// Load reads path as a YAML overlay on top of Default. A zero-valued
// field in the file leaves the corresponding default in place.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var overlay Config
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return Config{}, err
	}

	if overlay.Mantissa != 0 {
		cfg.Mantissa = overlay.Mantissa
	}
	if overlay.MaxPacketCount != 0 {
		cfg.MaxPacketCount = overlay.MaxPacketCount
	}
	if overlay.OutputPath != "" {
		cfg.OutputPath = overlay.OutputPath
	}

	return cfg, nil
}
