// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_device

import (
	"math"
	"sync"
)

// fftSize is the analysis window; fftSize/2 frequency bins are exposed.
const fftSize = 256

// analyser keeps a sliding window over the most recent PCM and renders it as
// frequency-bin magnitudes on demand. Shared by every device implementation
// so the level monitor sees the same contract regardless of backend.
type analyser struct {
	mu     sync.Mutex
	window [fftSize]float64
	pos    int
	filled bool
}

// push mixes interleaved LINEAR16 little-endian PCM down to mono and appends
// it to the sliding window.
func (a *analyser) push(pcm []byte, channels int) {
	if channels < 1 {
		channels = 1
	}
	frame := 2 * channels
	a.mu.Lock()
	defer a.mu.Unlock()
	for off := 0; off+frame <= len(pcm); off += frame {
		var sum float64
		for c := 0; c < channels; c++ {
			s := int16(uint16(pcm[off+2*c]) | uint16(pcm[off+2*c+1])<<8)
			sum += float64(s)
		}
		a.window[a.pos] = sum / float64(channels)
		a.pos++
		if a.pos == fftSize {
			a.pos = 0
			a.filled = true
		}
	}
}

// spectrum fills dst with per-bin magnitudes scaled to 0..255 and returns
// the bin count written.
func (a *analyser) spectrum(dst []float64) int {
	var samples [fftSize]float64
	a.mu.Lock()
	if !a.filled && a.pos == 0 {
		a.mu.Unlock()
		n := fftSize / 2
		if n > len(dst) {
			n = len(dst)
		}
		for i := 0; i < n; i++ {
			dst[i] = 0
		}
		return n
	}
	// Unroll the ring so samples are in arrival order.
	idx := a.pos
	for i := 0; i < fftSize; i++ {
		samples[i] = a.window[idx]
		idx++
		if idx == fftSize {
			idx = 0
		}
	}
	a.mu.Unlock()

	re := make([]float64, fftSize)
	im := make([]float64, fftSize)
	for i := 0; i < fftSize; i++ {
		// Hann window
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
		re[i] = samples[i] / 32768.0 * w
	}
	fft(re, im)

	n := fftSize / 2
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		mag := math.Hypot(re[i], im[i]) / float64(fftSize/4)
		dst[i] = math.Min(mag*255.0, 255.0)
	}
	return n
}

// fft is an in-place iterative radix-2 transform. len(re) must be a power
// of two.
func fft(re, im []float64) {
	n := len(re)
	// bit-reversal permutation
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		ang := -2 * math.Pi / float64(size)
		wr, wi := math.Cos(ang), math.Sin(ang)
		for start := 0; start < n; start += size {
			cwr, cwi := 1.0, 0.0
			for k := 0; k < size/2; k++ {
				i, j := start+k, start+k+size/2
				tr := re[j]*cwr - im[j]*cwi
				ti := re[j]*cwi + im[j]*cwr
				re[j], im[j] = re[i]-tr, im[i]-ti
				re[i], im[i] = re[i]+tr, im[i]+ti
				cwr, cwi = cwr*wr-cwi*wi, cwr*wi+cwi*wr
			}
		}
	}
}
