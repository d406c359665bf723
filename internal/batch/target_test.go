// SPDX-License-Identifier: MIT
package batch

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestPickRange(t *testing.T) {
	s := NewSelector(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		target, _, err := s.Pick(200)
		if err != nil {
			t.Fatalf("Pick: %v", err)
		}
		if target < TargetLowHz || target >= TargetHighHz {
			t.Fatalf("target %d outside [%d, %d)", target, TargetLowHz, TargetHighHz)
		}
	}
}

func TestPickDeterministicWithFixedSeed(t *testing.T) {
	a := NewSelector(rand.NewSource(7))
	b := NewSelector(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		ta, _, err := a.Pick(180)
		if err != nil {
			t.Fatal(err)
		}
		tb, _, err := b.Pick(180)
		if err != nil {
			t.Fatal(err)
		}
		if ta != tb {
			t.Fatalf("draw %d diverged: %d != %d", i, ta, tb)
		}
	}
}

func TestPickDegenerateMedian(t *testing.T) {
	s := NewSelector(rand.NewSource(1))

	for _, median := range []float64{0, -5, math.Inf(-1)} {
		if _, _, err := s.Pick(median); !errors.Is(err, ErrDegenerateMedian) {
			t.Errorf("Pick(%f) error = %v, want ErrDegenerateMedian", median, err)
		}
	}
}

func TestSemitones(t *testing.T) {
	tests := []struct {
		target, source, want float64
	}{
		{260, 200, 12 * math.Log2(1.3)}, // ~4.53, the canonical case
		{250, 250, 0},
		{400, 200, 12},
		{200, 400, -12},
	}

	for _, tt := range tests {
		got := Semitones(tt.target, tt.source)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Semitones(%f, %f) = %f, want %f", tt.target, tt.source, got, tt.want)
		}
	}

	// Sign follows the direction of the shift.
	if Semitones(260, 200) <= 0 {
		t.Error("upward shift should be positive")
	}
	if Semitones(260, 300) >= 0 {
		t.Error("downward shift should be negative")
	}
}

func TestExtremeBoundary(t *testing.T) {
	tests := []struct {
		semitones float64
		want      bool
	}{
		{12.0, false}, // exactly one octave is not extreme
		{-12.0, false},
		{12.0001, true},
		{-12.0001, true},
		{4.53, false},
		{25, true},
	}

	for _, tt := range tests {
		if got := Extreme(tt.semitones); got != tt.want {
			t.Errorf("Extreme(%f) = %v, want %v", tt.semitones, got, tt.want)
		}
	}
}

func TestShiftedName(t *testing.T) {
	tests := []struct {
		name      string
		semitones float64
		want      string
	}{
		{"speech.wav", 4.53, "speech_ps.wav"},
		{"speech.wav", 12.0, "speech_ps.wav"},
		{"speech.wav", 12.0001, "speech_pse.wav"},
		{"speech.wav", -14, "speech_pse.wav"},
		{"a.b.wav", 3, "a.b_ps.wav"},
	}

	for _, tt := range tests {
		if got := ShiftedName(tt.name, tt.semitones); got != tt.want {
			t.Errorf("ShiftedName(%q, %f) = %q, want %q", tt.name, tt.semitones, got, tt.want)
		}
	}
}
