// SPDX-License-Identifier: MIT

// Package utils provides shared test signal generators.
package utils

import "math"

// GenerateSineWave returns size samples of a sine at the given frequency,
// scaled to 90% of full scale to leave limiter headroom.
func GenerateSineWave(size int, sampleRate, frequency float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*frequency*t) * 0.9
	}
	return buffer
}

// GenerateComplexWave returns a fundamental plus two harmonics, the shape a
// voiced speech frame roughly has. Useful for exercising the pitch tracker
// with a signal whose fundamental is not the strongest partial.
func GenerateComplexWave(size int, sampleRate, fundamental float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*fundamental*t)*0.5 +
			math.Sin(2*math.Pi*2*fundamental*t)*0.3 +
			math.Sin(2*math.Pi*3*fundamental*t)*0.2
	}
	return buffer
}

// GenerateStereoSine returns an interleaved two-channel sine wave with the
// right channel at half the amplitude of the left.
func GenerateStereoSine(frames int, sampleRate, frequency float64) []float64 {
	buffer := make([]float64, frames*2)
	for i := 0; i < frames; i++ {
		t := float64(i) / sampleRate
		s := math.Sin(2 * math.Pi * frequency * t)
		buffer[2*i] = s * 0.8
		buffer[2*i+1] = s * 0.4
	}
	return buffer
}
