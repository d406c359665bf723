// SPDX-License-Identifier: MIT
package analysis

import "math"

// viterbiDecode finds the best path through a frames x candidates emission
// matrix. Adjacent candidates are stepSemitones apart; jumping between
// candidates costs penalty per semitone of distance. Returns one candidate
// index per frame.
//
// This is the dynamic-programming decoding stage: it trades per-frame greedy
// peaks for the globally smoothest trajectory, which suppresses octave
// errors on breathy or noisy speech frames.
func viterbiDecode(emissions [][]float64, stepSemitones, penalty float64) []int {
	nFrames := len(emissions)
	if nFrames == 0 {
		return nil
	}
	nCand := len(emissions[0])

	score := append([]float64(nil), emissions[0]...)
	back := make([][]int, nFrames)

	for t := 1; t < nFrames; t++ {
		next := make([]float64, nCand)
		back[t] = make([]int, nCand)

		for j := 0; j < nCand; j++ {
			best := math.Inf(-1)
			bestIdx := 0
			for i := 0; i < nCand; i++ {
				cost := penalty * stepSemitones * math.Abs(float64(i-j))
				if s := score[i] - cost; s > best {
					best = s
					bestIdx = i
				}
			}
			next[j] = best + emissions[t][j]
			back[t][j] = bestIdx
		}
		score = next
	}

	// Endpoint: the highest accumulated score.
	last := 0
	for j := 1; j < nCand; j++ {
		if score[j] > score[last] {
			last = j
		}
	}

	path := make([]int, nFrames)
	path[nFrames-1] = last
	for t := nFrames - 1; t > 0; t-- {
		path[t-1] = back[t][path[t]]
	}
	return path
}
