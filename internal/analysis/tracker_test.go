// SPDX-License-Identifier: MIT
package analysis

import (
	"math"
	"testing"

	"pitchbatch/internal/wave"
	"pitchbatch/pkg/utils"
)

// relError returns |got-want|/want.
func relError(got, want float64) float64 {
	return math.Abs(got-want) / want
}

func TestAnalyzeSine(t *testing.T) {
	tests := []struct {
		name string
		freq float64
	}{
		{"low male", 110},
		{"high male", 150},
		{"female", 220},
		{"child", 300},
	}

	tracker, err := NewTracker(DefaultFrameSize)
	if err != nil {
		t.Fatal(err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := wave.Buffer{
				Data:       utils.GenerateSineWave(16000, 8000, tt.freq),
				SampleRate: 8000,
				Channels:   1,
			}

			profile, err := tracker.Analyze(buf, 250)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}

			// The candidate grid quantizes to 1/24 octave, so allow 3%.
			if relError(profile.Median, tt.freq) > 0.03 {
				t.Errorf("median = %.2f Hz, want ~%.2f Hz", profile.Median, tt.freq)
			}
			if relError(profile.Mean, tt.freq) > 0.03 {
				t.Errorf("mean = %.2f Hz, want ~%.2f Hz", profile.Mean, tt.freq)
			}
			if profile.SampleRate != 8000 {
				t.Errorf("sample rate = %d, want 8000", profile.SampleRate)
			}
		})
	}
}

func TestAnalyzeHarmonicRich(t *testing.T) {
	// The fundamental carries only half the energy; harmonic summation must
	// still find 150 Hz rather than a harmonic or subharmonic.
	tracker, err := NewTracker(DefaultFrameSize)
	if err != nil {
		t.Fatal(err)
	}

	buf := wave.Buffer{
		Data:       utils.GenerateComplexWave(16000, 8000, 150),
		SampleRate: 8000,
		Channels:   1,
	}

	profile, err := tracker.Analyze(buf, 250)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if relError(profile.Median, 150) > 0.03 {
		t.Errorf("median = %.2f Hz, want ~150 Hz", profile.Median)
	}
}

func TestAnalyzeStereoMatchesMono(t *testing.T) {
	mono := wave.Buffer{
		Data:       utils.GenerateSineWave(16000, 8000, 200),
		SampleRate: 8000,
		Channels:   1,
	}
	stereo := wave.Buffer{
		Data:       utils.GenerateStereoSine(16000, 8000, 200),
		SampleRate: 8000,
		Channels:   2,
	}

	tracker, err := NewTracker(DefaultFrameSize)
	if err != nil {
		t.Fatal(err)
	}

	pm, err := tracker.Analyze(mono, 250)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := tracker.Analyze(stereo, 250)
	if err != nil {
		t.Fatal(err)
	}

	if pm.Median != ps.Median {
		t.Errorf("stereo median %.2f != mono median %.2f", ps.Median, pm.Median)
	}
}

func TestAnalyzeShortFileSingleFrame(t *testing.T) {
	// Hop (2500 ms) far exceeds the recording; the whole file becomes one
	// zero-padded frame instead of producing an empty trace.
	tracker, err := NewTracker(DefaultFrameSize)
	if err != nil {
		t.Fatal(err)
	}

	buf := wave.Buffer{
		Data:       utils.GenerateSineWave(4000, 8000, 220),
		SampleRate: 8000,
		Channels:   1,
	}

	profile, err := tracker.Analyze(buf, DefaultStepMS)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if profile.Min != profile.Max {
		t.Errorf("single frame should yield a flat trace: min=%.2f max=%.2f", profile.Min, profile.Max)
	}
	if relError(profile.Median, 220) > 0.03 {
		t.Errorf("median = %.2f Hz, want ~220 Hz", profile.Median)
	}
}

func TestAnalyzeEmptyBuffer(t *testing.T) {
	tracker, err := NewTracker(DefaultFrameSize)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := tracker.Analyze(wave.Buffer{SampleRate: 8000, Channels: 1}, 250); err != ErrEmptyBuffer {
		t.Errorf("Analyze(empty) error = %v, want ErrEmptyBuffer", err)
	}
}

func TestNewTrackerRejectsOddSizes(t *testing.T) {
	for _, n := range []int{0, -4096, 1000, 4097} {
		if _, err := NewTracker(n); err == nil {
			t.Errorf("NewTracker(%d) accepted a non power of two", n)
		}
	}
}

func TestProfileBounds(t *testing.T) {
	// Min <= Median <= Max and Min <= Mean <= Max on an arbitrary trace.
	p := profileFromTrace([]float64{180, 200, 220, 260, 190}, 8000)

	if p.Min != 180 || p.Max != 260 {
		t.Errorf("min/max = %.1f/%.1f, want 180/260", p.Min, p.Max)
	}
	if p.Median != 200 {
		t.Errorf("median = %.1f, want 200", p.Median)
	}
	if p.Mean < p.Min || p.Mean > p.Max {
		t.Errorf("mean %.1f outside [min, max]", p.Mean)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	tracker, err := NewTracker(DefaultFrameSize)
	if err != nil {
		b.Fatal(err)
	}
	buf := wave.Buffer{
		Data:       utils.GenerateComplexWave(80000, 8000, 180),
		SampleRate: 8000,
		Channels:   1,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tracker.Analyze(buf, 250); err != nil {
			b.Fatal(err)
		}
	}
}
