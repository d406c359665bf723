// SPDX-License-Identifier: MIT

// Package wave provides an immutable-by-convention waveform value type and
// WAV file I/O. Operations that change shape (downmix) return a new Buffer
// rather than mutating in place.
package wave

// Buffer holds a fully decoded waveform: interleaved float64 samples in
// [-1, 1], the sample rate in Hz and the channel count. Sample rate and
// channel count are fixed for the lifetime of a value.
type Buffer struct {
	Data       []float64
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames (samples per channel).
func (b Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// Duration returns the waveform length in seconds.
func (b Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Clone returns a deep copy of the buffer.
func (b Buffer) Clone() Buffer {
	data := make([]float64, len(b.Data))
	copy(data, b.Data)
	return Buffer{Data: data, SampleRate: b.SampleRate, Channels: b.Channels}
}

// Downmix collapses a multi-channel buffer to mono by averaging channels
// per frame. A mono buffer is returned as a copy, unchanged. Frame count,
// duration and sample rate are preserved.
func (b Buffer) Downmix() Buffer {
	if b.Channels <= 1 {
		return b.Clone()
	}

	frames := b.Frames()
	data := make([]float64, frames)
	scale := 1.0 / float64(b.Channels)
	for f := 0; f < frames; f++ {
		sum := 0.0
		base := f * b.Channels
		for c := 0; c < b.Channels; c++ {
			sum += b.Data[base+c]
		}
		data[f] = sum * scale
	}

	return Buffer{Data: data, SampleRate: b.SampleRate, Channels: 1}
}
