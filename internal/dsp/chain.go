// SPDX-License-Identifier: MIT
package dsp

import (
	"errors"
	"fmt"

	"pitchbatch/internal/wave"
)

// ErrEmptyInput is returned when the transform chain is fed a waveform with
// no samples.
var ErrEmptyInput = errors.New("transform input has no samples")

// Chain applies the fixed transform sequence to a whole waveform:
// downmix to mono, gain limit, pitch shift by semitones, gain limit again.
// The result is a new mono buffer with the same sample rate and duration as
// the input. Any stage failure aborts the chain with an error; callers are
// expected to skip the file rather than act on a partial result.
func Chain(buf wave.Buffer, semitones float64) (wave.Buffer, error) {
	if buf.Frames() == 0 {
		return wave.Buffer{}, ErrEmptyInput
	}

	mono := buf.Downmix()
	rate := float64(mono.SampleRate)

	limiter, err := NewLimiter(rate)
	if err != nil {
		return wave.Buffer{}, fmt.Errorf("limiter stage: %w", err)
	}
	data := limiter.Process(mono.Data)

	shifter, err := NewShifter(rate)
	if err != nil {
		return wave.Buffer{}, fmt.Errorf("pitch stage: %w", err)
	}
	if err := shifter.SetSemitones(semitones); err != nil {
		return wave.Buffer{}, fmt.Errorf("pitch stage: %w", err)
	}
	data = shifter.Process(data)

	// Second pass absorbs any gain the overlap-add stage introduced.
	data = limiter.Process(data)

	return wave.Buffer{
		Data:       data,
		SampleRate: mono.SampleRate,
		Channels:   1,
	}, nil
}
