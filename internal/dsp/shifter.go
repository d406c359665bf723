// SPDX-License-Identifier: MIT
package dsp

import (
	"fmt"
	"math"
)

const (
	// Speech-tuned WSOLA windows (SoundTouch's speech preset). Shorter
	// sequences than the music preset track formant transitions better.
	shifterSequenceMs = 40.0
	shifterOverlapMs  = 8.0
	shifterSearchMs   = 15.0

	minShifterRatio = 0.25
	maxShifterRatio = 4.0

	shifterIdentityEps = 1e-9
	shifterTiny        = 1e-12
)

// Shifter performs duration-preserving time-domain pitch shifting: a
// WSOLA-style time stretch by the pitch ratio followed by fractional
// resampling back to the input length. Plain resampling alone would change
// the duration, which the pipeline must preserve exactly.
//
// The shifter is mono and processes whole waveforms at once.
type Shifter struct {
	sampleRate float64
	ratio      float64

	seqLen     int
	overlapLen int
	searchLen  int
	hopOut     int

	fadeIn  []float64
	fadeOut []float64
}

// NewShifter constructs a pitch shifter for the given sample rate with an
// identity ratio.
func NewShifter(sampleRate float64) (*Shifter, error) {
	if !isFinitePositive(sampleRate) {
		return nil, fmt.Errorf("shifter sample rate must be positive and finite: %f", sampleRate)
	}

	s := &Shifter{sampleRate: sampleRate, ratio: 1.0}

	s.seqLen = int(math.Round(shifterSequenceMs * 0.001 * sampleRate))
	if s.seqLen < 32 {
		s.seqLen = 32
	}
	s.overlapLen = int(math.Round(shifterOverlapMs * 0.001 * sampleRate))
	if s.overlapLen < 8 {
		s.overlapLen = 8
	}
	if s.overlapLen >= s.seqLen {
		s.overlapLen = s.seqLen / 4
	}
	s.hopOut = s.seqLen - s.overlapLen
	s.searchLen = int(math.Round(shifterSearchMs * 0.001 * sampleRate))
	if s.searchLen < 1 {
		s.searchLen = 1
	}

	s.fadeIn = make([]float64, s.overlapLen)
	s.fadeOut = make([]float64, s.overlapLen)
	for i := range s.fadeIn {
		t := float64(i) / float64(s.overlapLen-1)
		in := 0.5 - 0.5*math.Cos(math.Pi*t)
		s.fadeIn[i] = in
		s.fadeOut[i] = 1 - in
	}

	return s, nil
}

// Ratio returns the current pitch ratio (2.0 = one octave up).
func (s *Shifter) Ratio() float64 { return s.ratio }

// Semitones returns the current shift in semitones.
func (s *Shifter) Semitones() float64 { return 12.0 * math.Log2(s.ratio) }

// SetSemitones sets the pitch shift in semitones. Shifts beyond two octaves
// in either direction exceed what the stretch stage can do cleanly and are
// rejected.
func (s *Shifter) SetSemitones(semitones float64) error {
	if !isFinite(semitones) {
		return fmt.Errorf("shift must be finite: %f", semitones)
	}
	ratio := math.Pow(2, semitones/12.0)
	if ratio < minShifterRatio || ratio > maxShifterRatio {
		return fmt.Errorf("shift of %.2f semitones is outside the supported ratio range [%.2f, %.2f]",
			semitones, minShifterRatio, maxShifterRatio)
	}
	s.ratio = ratio
	return nil
}

// Process pitch-shifts input and returns a new slice of equal length.
func (s *Shifter) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}
	if math.Abs(s.ratio-1) <= shifterIdentityEps {
		out := make([]float64, len(input))
		copy(out, input)
		return out
	}

	stretched := s.stretch(input)
	return resampleHermite(stretched, len(input))
}

// stretch time-stretches input by the pitch ratio using overlap-add with a
// correlation-guided segment search.
func (s *Shifter) stretch(input []float64) []float64 {
	targetLen := int(math.Round(float64(len(input)) * s.ratio))
	if targetLen < 1 {
		targetLen = 1
	}

	hopIn := float64(s.hopOut) / s.ratio
	if hopIn < 1 {
		hopIn = 1
	}

	out := make([]float64, targetLen+s.seqLen)
	for i := 0; i < s.seqLen; i++ {
		out[i] = sampleZero(input, i)
	}
	outLen := s.seqLen

	prev := 0
	nominal := hopIn
	ref := make([]float64, s.overlapLen)

	for outLen < targetLen+s.overlapLen {
		// The natural continuation of the previous segment.
		refStart := prev + s.hopOut
		for i := range ref {
			ref[i] = sampleZero(input, refStart+i)
		}

		cand := s.bestOverlap(ref, input, int(math.Round(nominal)))

		// Crossfade the overlap region, then copy the segment tail.
		base := outLen - s.overlapLen
		for i := 0; i < s.overlapLen; i++ {
			out[base+i] = out[base+i]*s.fadeOut[i] + sampleZero(input, cand+i)*s.fadeIn[i]
		}
		for i := s.overlapLen; i < s.seqLen; i++ {
			out[base+i] = sampleZero(input, cand+i)
		}

		outLen = base + s.seqLen
		prev = cand
		nominal += hopIn

		if prev > len(input)+s.seqLen && outLen >= targetLen {
			break
		}
	}

	if targetLen <= len(out) {
		return out[:targetLen]
	}
	padded := make([]float64, targetLen)
	copy(padded, out)
	return padded
}

// bestOverlap searches around predicted for the segment start whose first
// overlapLen samples correlate best with ref.
func (s *Shifter) bestOverlap(ref, input []float64, predicted int) int {
	refEnergy := shifterTiny
	for _, v := range ref {
		refEnergy += v * v
	}

	best := predicted
	bestScore := math.Inf(-1)
	for cand := predicted - s.searchLen; cand <= predicted+s.searchLen; cand++ {
		dot := 0.0
		energy := shifterTiny
		for i, rv := range ref {
			cv := sampleZero(input, cand+i)
			dot += rv * cv
			energy += cv * cv
		}
		if score := dot / math.Sqrt(refEnergy*energy); score > bestScore {
			bestScore = score
			best = cand
		}
	}
	return best
}

// resampleHermite maps input onto outLen samples with 4-point Hermite
// interpolation.
func resampleHermite(input []float64, outLen int) []float64 {
	if outLen <= 0 || len(input) == 0 {
		return nil
	}

	out := make([]float64, outLen)
	if len(input) == 1 || outLen == 1 {
		for i := range out {
			out[i] = input[0]
		}
		return out
	}

	step := float64(len(input)-1) / float64(outLen-1)
	pos := 0.0
	for i := range out {
		idx := int(pos)
		frac := pos - float64(idx)
		out[i] = hermite4(frac,
			sampleClamp(input, idx-1),
			sampleClamp(input, idx),
			sampleClamp(input, idx+1),
			sampleClamp(input, idx+2))
		pos += step
	}
	return out
}

// hermite4 evaluates 4-point, 3rd-order Hermite interpolation at frac
// between x0 and x1.
func hermite4(frac, xm1, x0, x1, x2 float64) float64 {
	c := (x1 - xm1) * 0.5
	v := x0 - x1
	w := c + v
	a := w + v + (x2-x0)*0.5
	b := w + a
	return ((a*frac-b)*frac+c)*frac + x0
}

func sampleZero(x []float64, idx int) float64 {
	if idx < 0 || idx >= len(x) {
		return 0
	}
	return x[idx]
}

func sampleClamp(x []float64, idx int) float64 {
	if idx < 0 {
		return x[0]
	}
	if idx >= len(x) {
		return x[len(x)-1]
	}
	return x[idx]
}
