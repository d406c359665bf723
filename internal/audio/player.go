// SPDX-License-Identifier: MIT

// Package audio plays decoded waveforms on the default output device, used
// by the play command to audition shifted results.
package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"pitchbatch/internal/wave"
)

const framesPerBuffer = 1024

// Initialize starts the PortAudio subsystem. Callers must pair it with
// Terminate.
func Initialize() error {
	return portaudio.Initialize()
}

// Terminate shuts the PortAudio subsystem down.
func Terminate() {
	portaudio.Terminate()
}

// Play streams buf to the default output device and blocks until the last
// sample has been handed to the driver.
func Play(buf wave.Buffer) error {
	if buf.Frames() == 0 {
		return fmt.Errorf("waveform has no samples to play")
	}

	pos := 0
	done := make(chan struct{})

	// The callback runs on the audio thread; it only advances pos and
	// signals completion once the buffer is drained.
	stream, err := portaudio.OpenDefaultStream(0, buf.Channels,
		float64(buf.SampleRate), framesPerBuffer, func(out []float32) {
			for i := range out {
				if pos < len(buf.Data) {
					out[i] = float32(buf.Data[pos])
					pos++
				} else {
					out[i] = 0
				}
			}
			if pos >= len(buf.Data) {
				select {
				case <-done:
				default:
					close(done)
				}
			}
		})
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start output stream: %w", err)
	}

	<-done

	if err := stream.Stop(); err != nil {
		stream.Close()
		return err
	}
	return stream.Close()
}
