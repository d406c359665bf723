// SPDX-License-Identifier: MIT

// Package config holds runtime configuration for the batch pitch shifter.
package config

import (
	"fmt"
	"strings"
)

// Defaults and limits for the batch pipeline.
const (
	DefaultStepMS       = 2500 // analysis hop in milliseconds
	DefaultWorkers      = 1    // sequential by default
	DefaultSeed         = 0    // 0 means seed from the clock
	DefaultProgressAddr = ""   // progress server disabled
	DefaultLogLevel     = "info"

	MinStepMS  = 10
	MaxWorkers = 64
)

// Config holds all runtime options. It is built from defaults, then an
// optional YAML file, then command line flags (flags win).
type Config struct {
	// Batch arguments.
	SourceDir  string // directory of input wav files
	DestDir    string // directory for shifted files and the report
	ReportName string // report base name, extension exclusive

	// Pipeline tuning.
	StepMS  int   // analysis hop in milliseconds
	Workers int   // concurrent file pipelines
	Seed    int64 // target selector seed, 0 = non-reproducible

	// Operational options.
	ProgressAddr string // websocket progress server address, "" = off
	LogLevel     string
	Verbose      bool

	// One-off subcommand dispatch.
	Command    string // "", "probe" or "play"
	CommandArg string
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		StepMS:       DefaultStepMS,
		Workers:      DefaultWorkers,
		Seed:         DefaultSeed,
		ProgressAddr: DefaultProgressAddr,
		LogLevel:     DefaultLogLevel,
	}
}

// Validate checks option ranges. Directory existence is checked by the
// batch runner, not here, so one-off commands skip it.
func (c *Config) Validate() error {
	if c.StepMS < MinStepMS {
		return fmt.Errorf("analysis step must be at least %d ms, got %d", MinStepMS, c.StepMS)
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be in [1, %d], got %d", MaxWorkers, c.Workers)
	}
	if c.Command == "" {
		if strings.ContainsAny(c.ReportName, `/\`) {
			return fmt.Errorf("report name must not contain path separators: %q", c.ReportName)
		}
		if c.ReportName == "" {
			return fmt.Errorf("report name must not be empty")
		}
	}
	return nil
}
