package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig is the schema of the optional .pypar.yml project file.
type fileConfig struct {
	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude"`
	Workers  int      `yaml:"workers"`
	Coverage bool     `yaml:"coverage"`
	FailFast bool     `yaml:"fail_fast"`
}

// findConfigFile walks from dir upwards looking for the project config
// file. Returns "" when no file exists in the tree.
func findConfigFile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func readConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// apply copies the file's settings onto cfg. Flags applied later still win.
func (fc *fileConfig) apply(cfg *Config) {
	if len(fc.Include) > 0 {
		cfg.Paths = fc.Include
	}
	if len(fc.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, fc.Exclude...)
	}
	if fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if fc.Coverage {
		cfg.Coverage = true
	}
	if fc.FailFast {
		cfg.FailFast = true
	}
}
