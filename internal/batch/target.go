// SPDX-License-Identifier: MIT
package batch

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Target pitch window in Hz: inclusive low bound, exclusive high bound.
const (
	TargetLowHz  = 250
	TargetHighHz = 300
)

// ExtremeSemitones is the magnitude above which a shift is flagged extreme
// (more than one octave). Exactly one octave is not extreme.
const ExtremeSemitones = 12.0

// ErrDegenerateMedian is returned when a source median frequency is zero or
// negative, which makes the semitone computation undefined.
var ErrDegenerateMedian = errors.New("source median frequency is not positive")

// Selector draws randomized target frequencies. Safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a selector from the given source. A nil source seeds
// from the clock, making runs non-reproducible by design; tests inject a
// fixed-seed source instead.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Selector{rng: rand.New(src)}
}

// Pick draws a target frequency uniformly from [TargetLowHz, TargetHighHz)
// and returns it together with the semitone shift needed to move median
// there. The delta is not clamped; its magnitude only affects output
// naming downstream.
func (s *Selector) Pick(median float64) (target int, semitones float64, err error) {
	if !(median > 0) {
		return 0, 0, fmt.Errorf("%w: %f", ErrDegenerateMedian, median)
	}

	s.mu.Lock()
	target = TargetLowHz + s.rng.Intn(TargetHighHz-TargetLowHz)
	s.mu.Unlock()

	return target, Semitones(float64(target), median), nil
}

// Semitones returns the signed semitone distance from source to target:
// 12 * log2(target/source).
func Semitones(target, source float64) float64 {
	return 12 * math.Log2(target/source)
}

// Extreme reports whether a shift exceeds one octave in magnitude.
func Extreme(semitones float64) bool {
	return math.Abs(semitones) > ExtremeSemitones
}
