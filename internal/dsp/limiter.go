// SPDX-License-Identifier: MIT

// Package dsp implements the signal operations of the pitch-shift chain:
// gain limiting, duration-preserving pitch shifting, and the fixed
// downmix -> limit -> shift -> limit transform.
package dsp

import (
	"fmt"
	"math"
)

const (
	defaultLimiterThresholdDB = -0.1
	defaultLimiterReleaseMs   = 100.0
	defaultLimiterLookaheadMs = 3.0

	minLimiterThresholdDB = -24.0
	maxLimiterThresholdDB = 0.0
	minLimiterReleaseMs   = 1.0
	maxLimiterReleaseMs   = 5000.0
	minLimiterLookaheadMs = 0.0
	maxLimiterLookaheadMs = 200.0
)

// Limiter constrains peak amplitude to a threshold. The detector reads
// ahead of the program path so transients are caught before they clip, and
// gain recovers along an exponential release curve.
type Limiter struct {
	sampleRate  float64
	thresholdDB float64
	releaseMs   float64
	lookaheadMs float64

	threshold   float64 // linear
	releaseCoef float64
	lookahead   int // samples
}

// NewLimiter creates a limiter with production defaults.
func NewLimiter(sampleRate float64) (*Limiter, error) {
	if !isFinitePositive(sampleRate) {
		return nil, fmt.Errorf("limiter sample rate must be positive and finite: %f", sampleRate)
	}

	l := &Limiter{sampleRate: sampleRate}
	if err := l.SetThreshold(defaultLimiterThresholdDB); err != nil {
		return nil, err
	}
	if err := l.SetRelease(defaultLimiterReleaseMs); err != nil {
		return nil, err
	}
	if err := l.SetLookahead(defaultLimiterLookaheadMs); err != nil {
		return nil, err
	}
	return l, nil
}

// SetThreshold sets the limiting threshold in dB.
func (l *Limiter) SetThreshold(dB float64) error {
	if dB < minLimiterThresholdDB || dB > maxLimiterThresholdDB || !isFinite(dB) {
		return fmt.Errorf("limiter threshold must be in [%f, %f]: %f",
			minLimiterThresholdDB, maxLimiterThresholdDB, dB)
	}
	l.thresholdDB = dB
	l.threshold = math.Pow(10, dB/20)
	return nil
}

// SetRelease sets the gain recovery time in milliseconds.
func (l *Limiter) SetRelease(ms float64) error {
	if ms < minLimiterReleaseMs || ms > maxLimiterReleaseMs || !isFinite(ms) {
		return fmt.Errorf("limiter release must be in [%f, %f]: %f",
			minLimiterReleaseMs, maxLimiterReleaseMs, ms)
	}
	l.releaseMs = ms
	l.releaseCoef = math.Exp(-1.0 / (ms * 0.001 * l.sampleRate))
	return nil
}

// SetLookahead sets the detector lead in milliseconds.
func (l *Limiter) SetLookahead(ms float64) error {
	if ms < minLimiterLookaheadMs || ms > maxLimiterLookaheadMs || !isFinite(ms) {
		return fmt.Errorf("limiter lookahead must be in [%f, %f]: %f",
			minLimiterLookaheadMs, maxLimiterLookaheadMs, ms)
	}
	l.lookaheadMs = ms
	l.lookahead = int(math.Round(ms * 0.001 * l.sampleRate))
	return nil
}

// Threshold returns the threshold in dB.
func (l *Limiter) Threshold() float64 { return l.thresholdDB }

// Release returns the release time in milliseconds.
func (l *Limiter) Release() float64 { return l.releaseMs }

// Lookahead returns the detector lead in milliseconds.
func (l *Limiter) Lookahead() float64 { return l.lookaheadMs }

// Process returns a gain-limited copy of input with equal length. The
// limiter itself carries no state across calls.
func (l *Limiter) Process(input []float64) []float64 {
	out := make([]float64, len(input))
	env := 0.0

	for i := range input {
		det := i + l.lookahead
		if det >= len(input) {
			det = len(input) - 1
		}

		peak := math.Abs(input[det])
		if peak > env {
			env = peak // instant attack
		} else {
			env = peak + (env-peak)*l.releaseCoef
		}

		gain := 1.0
		if env > l.threshold {
			gain = l.threshold / env
		}
		out[i] = input[i] * gain
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isFinitePositive(v float64) bool {
	return v > 0 && isFinite(v)
}
