//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional on-disk counterpart to the -port/-origins/
// -store-capacity flags; flags always win when both are set.
type fileConfig struct {
	Port          int    `yaml:"port"`
	StoreCapacity int    `yaml:"store_capacity"`
	Origins       string `yaml:"origins"`
}

// loadFileConfig reads and parses a YAML config file. An empty path is not
// an error — it simply means no file was requested.
func loadFileConfig(path string) (*fileConfig, error) {
	if path == "" {
		return nil, nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(body, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}
