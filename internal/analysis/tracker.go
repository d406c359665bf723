// SPDX-License-Identifier: MIT

// Package analysis estimates the fundamental-frequency profile of a
// waveform. Each analysis frame is scored against a log-spaced grid of
// pitch candidates by summing harmonic magnitudes from its FFT spectrum;
// the per-frame scores are then decoded into a single smooth trajectory
// with a Viterbi pass.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"pitchbatch/internal/wave"
	"pitchbatch/pkg/bitint"
)

const (
	// DefaultFrameSize is the FFT length per analysis frame. At common
	// speech sample rates it spans several cycles of the lowest candidate.
	DefaultFrameSize = 4096

	// DefaultStepMS is the hop between analysis frames in milliseconds,
	// matching the coarse step the batch pipeline uses.
	DefaultStepMS = 2500

	// Candidate grid covering the speaking range with headroom above it.
	minCandidateHz    = 50.0
	maxCandidateHz    = 600.0
	candidatesPerOct  = 24
	candidateStepSemi = 12.0 / candidatesPerOct

	// Harmonic summation parameters.
	numHarmonics  = 5
	harmonicDecay = 0.8

	// Viterbi transition cost per semitone of pitch movement.
	transitionPenalty = 0.05
)

// ErrEmptyBuffer is returned when a waveform has no samples to analyze.
var ErrEmptyBuffer = errors.New("waveform has no samples")

// Tracker computes frequency profiles. It holds a reusable FFT plan and
// window; a Tracker must not be shared between goroutines.
type Tracker struct {
	fft        *fourier.FFT
	frameSize  int
	win        []float64
	candidates []float64
}

// NewTracker creates a tracker with the given FFT frame size, which must be
// a power of two.
func NewTracker(frameSize int) (*Tracker, error) {
	if !bitint.IsPowerOfTwo(frameSize) {
		return nil, fmt.Errorf("frame size must be a power of 2, got %d", frameSize)
	}

	win := make([]float64, frameSize)
	for i := range win {
		win[i] = 1.0
	}
	window.Hann(win)

	var candidates []float64
	ratio := math.Pow(2, 1.0/candidatesPerOct)
	for f := minCandidateHz; f <= maxCandidateHz; f *= ratio {
		candidates = append(candidates, f)
	}

	return &Tracker{
		fft:        fourier.NewFFT(frameSize),
		frameSize:  frameSize,
		win:        win,
		candidates: candidates,
	}, nil
}

// Analyze estimates the frequency profile of buf using analysis frames
// spaced stepMS milliseconds apart. Multi-channel buffers are downmixed to
// mono for analysis; buf itself is not modified. The waveform is always
// processed whole and at least one frame is produced, so short recordings
// still yield a profile.
func (t *Tracker) Analyze(buf wave.Buffer, stepMS int) (Profile, error) {
	if buf.Frames() == 0 {
		return Profile{}, ErrEmptyBuffer
	}
	if buf.SampleRate <= 0 {
		return Profile{}, fmt.Errorf("sample rate must be positive, got %d", buf.SampleRate)
	}
	if stepMS <= 0 {
		return Profile{}, fmt.Errorf("analysis step must be positive, got %d ms", stepMS)
	}

	samples := buf.Data
	if buf.Channels > 1 {
		samples = buf.Downmix().Data
	}

	hop := stepMS * buf.SampleRate / 1000
	if hop < 1 {
		hop = 1
	}

	var emissions [][]float64
	input := make([]float64, t.frameSize)
	spectrum := make([]complex128, t.frameSize/2+1)
	mags := make([]float64, t.frameSize/2+1)

	for start := 0; start == 0 || start < len(samples); start += hop {
		for i := range input {
			if start+i < len(samples) {
				input[i] = samples[start+i] * t.win[i]
			} else {
				input[i] = 0
			}
		}

		t.fft.Coefficients(spectrum, input)
		for i, c := range spectrum {
			mags[i] = cmplx.Abs(c)
		}

		emissions = append(emissions, t.frameEmissions(mags, buf.SampleRate))
	}

	path := viterbiDecode(emissions, candidateStepSemi, transitionPenalty)

	trace := make([]float64, len(path))
	for i, idx := range path {
		trace[i] = t.candidates[idx]
	}

	return profileFromTrace(trace, buf.SampleRate), nil
}

// frameEmissions scores every pitch candidate against one magnitude
// spectrum by weighted harmonic summation, normalized by the total spectral
// magnitude so frame loudness does not bias the decoder.
func (t *Tracker) frameEmissions(mags []float64, sampleRate int) []float64 {
	total := 1e-12
	for _, m := range mags {
		total += m
	}

	binHz := float64(sampleRate) / float64(t.frameSize)
	scores := make([]float64, len(t.candidates))
	for j, f0 := range t.candidates {
		sal := 0.0
		weight := 1.0
		for h := 1; h <= numHarmonics; h++ {
			bin := int(math.Round(float64(h) * f0 / binHz))
			if bin < 1 || bin >= len(mags) {
				break
			}
			sal += weight * mags[bin]
			weight *= harmonicDecay
		}
		scores[j] = sal / total
	}
	return scores
}
