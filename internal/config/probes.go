package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProbeConfig extends the built-in GPU candidate lists. Extra paths are tried
// after the defaults, in file order.
type ProbeConfig struct {
	GPU struct {
		FreqPaths    []string `yaml:"freq_paths"`
		BusyPaths    []string `yaml:"busy_paths"`
		ThermalNames []string `yaml:"thermal_names"`
	} `yaml:"gpu"`
	CPU struct {
		ThermalNames []string `yaml:"thermal_names"`
	} `yaml:"cpu"`
}

func LoadProbes(path string) (*ProbeConfig, error) {
	pc := &ProbeConfig{}
	if path == "" {
		return pc, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read probe config: %w", err)
	}

	if err := yaml.Unmarshal(raw, pc); err != nil {
		return nil, fmt.Errorf("failed to parse probe config %s: %w", path, err)
	}

	return pc, nil
}
