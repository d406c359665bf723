// SPDX-License-Identifier: MIT
package wave

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Ext is the single recognized waveform file extension.
const Ext = ".wav"

const storeBitDepth = 16

// Load decodes an entire WAV file into a Buffer. PCM samples are normalized
// to [-1, 1] by the source bit depth.
func Load(path string) (Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Buffer{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Buffer{}, fmt.Errorf("%s is not a valid wav file", path)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels <= 0 {
		return Buffer{}, fmt.Errorf("decode %s: missing format information", path)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = storeBitDepth
	}
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))

	data := make([]float64, len(pcm.Data))
	for i, s := range pcm.Data {
		data[i] = float64(s) * scale
	}

	return Buffer{
		Data:       data,
		SampleRate: pcm.Format.SampleRate,
		Channels:   pcm.Format.NumChannels,
	}, nil
}

// Store writes the buffer to path as 16-bit PCM WAV at the buffer's sample
// rate and channel count. Samples outside [-1, 1] are clamped.
func Store(path string, b Buffer) error {
	if b.SampleRate <= 0 || b.Channels <= 0 {
		return fmt.Errorf("store %s: buffer has no format (rate=%d channels=%d)",
			path, b.SampleRate, b.Channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, b.SampleRate, storeBitDepth, b.Channels, 1)

	max := float64(int64(1)<<(storeBitDepth-1)) - 1
	data := make([]int, len(b.Data))
	for i, s := range b.Data {
		v := math.Round(s * max)
		if v > max {
			v = max
		} else if v < -max-1 {
			v = -max - 1
		}
		data[i] = int(v)
	}

	pcm := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: b.Channels,
			SampleRate:  b.SampleRate,
		},
		Data:           data,
		SourceBitDepth: storeBitDepth,
	}

	if err := enc.Write(pcm); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return f.Close()
}
