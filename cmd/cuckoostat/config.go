package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// cliConfig holds defaults optionally supplied via --config, overridden
// by any flag the user passes explicitly.
type cliConfig struct {
	Capacity    uint64 `yaml:"capacity"`
	BitsPerItem uint   `yaml:"bits_per_item"`
}

func defaultConfig() cliConfig {
	return cliConfig{Capacity: 100000, BitsPerItem: 16}
}

func loadConfig(path string) (cliConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
