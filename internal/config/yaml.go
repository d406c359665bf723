// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// defaultConfigFile is searched when no --config path is given.
const defaultConfigFile = "pitchbatch.yaml"

// fileConfig mirrors the YAML shape of a config file. All fields are
// optional; zero values leave the in-memory config untouched.
type fileConfig struct {
	LogLevel     string `yaml:"log_level"`
	StepMS       int    `yaml:"step_ms"`
	Workers      int    `yaml:"workers"`
	Seed         int64  `yaml:"seed"`
	ProgressAddr string `yaml:"progress_addr"`
}

// LoadFile overlays settings from a YAML file onto c. An empty path tries
// the default candidate; a missing default is not an error, a missing
// explicit path is. Environment overrides are applied after the file.
func (c *Config) LoadFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
		c.applyFile(fc)
	case explicit:
		return fmt.Errorf("read config file: %w", err)
	}

	c.applyEnvOverrides()
	return nil
}

func (c *Config) applyFile(fc fileConfig) {
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.StepMS != 0 {
		c.StepMS = fc.StepMS
	}
	if fc.Workers != 0 {
		c.Workers = fc.Workers
	}
	if fc.Seed != 0 {
		c.Seed = fc.Seed
	}
	if fc.ProgressAddr != "" {
		c.ProgressAddr = fc.ProgressAddr
	}
}

// applyEnvOverrides applies ENV_* variables on top of file values.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("ENV_STEP_MS"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.StepMS = n
		}
	}
	if val, ok := os.LookupEnv("ENV_WORKERS"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.Workers = n
		}
	}
	if val, ok := os.LookupEnv("ENV_PROGRESS_ADDR"); ok {
		c.ProgressAddr = val
	}
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		c.LogLevel = val
	}
}
