package analysis

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

// YIN estimator tuning. The absolute threshold is the d'(τ) cutoff from the
// original YIN paper; the pitch bounds cover the speech f0 range with margin
// for expressive intonation.
const (
	yinThreshold = 0.10
	yinMinPitch  = 50.0   // Hz
	yinMaxPitch  = 1000.0 // Hz
)

// yinScratch holds the per-call working buffers of the estimator. Instances
// are pooled and always returned before the extraction call returns, so
// repeated calls do not grow the heap.
type yinScratch struct {
	frame  []float64
	window []float64
	prefix []float64
	cmnd   []float64
}

var yinPool = sync.Pool{
	New: func() any { return new(yinScratch) },
}

func (s *yinScratch) resize(frameSize int) {
	s.frame = resizeFloats(s.frame, frameSize)
	s.window = resizeFloats(s.window, frameSize)
	s.prefix = resizeFloats(s.prefix, frameSize+1)
	s.cmnd = resizeFloats(s.cmnd, frameSize/2)
}

func resizeFloats(b []float64, n int) []float64 {
	if cap(b) < n {
		return make([]float64, n)
	}
	return b[:n]
}

// yinFrames runs the estimator over samples, returning parallel per-frame
// pitch (Hz, 0 when no candidate) and voiced-probability slices. Frames start
// every hopSize samples; a tail shorter than one frame is dropped. Input
// shorter than a single frame yields nil slices.
func yinFrames(samples []float32, sampleRate, frameSize, hopSize int) (pitch, prob []float64) {
	if len(samples) < frameSize || frameSize < 4 || hopSize <= 0 || sampleRate <= 0 {
		return nil, nil
	}
	numFrames := 1 + (len(samples)-frameSize)/hopSize
	pitch = make([]float64, numFrames)
	prob = make([]float64, numFrames)

	// Lag search bounds from the pitch range, kept inside the half-frame
	// integration window.
	w := frameSize / 2
	tauMin := int(float64(sampleRate) / yinMaxPitch)
	if tauMin < 2 {
		tauMin = 2
	}
	tauMax := int(float64(sampleRate)/yinMinPitch) + 1
	if tauMax > w {
		tauMax = w
	}
	if tauMin >= tauMax {
		return pitch, prob // rate too low to search; every frame unvoiced
	}

	scratch := yinPool.Get().(*yinScratch)
	defer yinPool.Put(scratch)
	scratch.resize(frameSize)

	for f := 0; f < numFrames; f++ {
		off := f * hopSize
		pitch[f], prob[f] = yinFrame(samples[off:off+frameSize], sampleRate, tauMin, tauMax, scratch)
	}
	return pitch, prob
}

// yinFrame estimates the fundamental of one frame: FFT-accelerated difference
// function, cumulative mean normalization, absolute-threshold lag pick with
// parabolic refinement. Returns (0, 0) for frames with no usable candidate.
func yinFrame(frame []float32, sampleRate, tauMin, tauMax int, s *yinScratch) (float64, float64) {
	n := len(frame)
	w := n / 2

	for i, v := range frame {
		s.frame[i] = float64(v)
	}
	copy(s.window, s.frame[:w])
	for i := w; i < n; i++ {
		s.window[i] = 0
	}

	// prefix[i] = sum of squares of the first i samples.
	s.prefix[0] = 0
	for i := 0; i < n; i++ {
		s.prefix[i+1] = s.prefix[i] + s.frame[i]*s.frame[i]
	}
	e0 := s.prefix[w]
	if e0 < 1e-12 {
		return 0, 0 // silent integration window
	}

	// C(τ) = Σ_{j<w} x[j]·x[j+τ] for all τ at once via the correlation
	// theorem. The window is zero beyond w and τ stays below w, so j+τ < n
	// and the circular product never wraps.
	xf := fft.FFTReal(s.frame)
	wf := fft.FFTReal(s.window)
	for k := range xf {
		xf[k] *= cmplx.Conj(wf[k])
	}
	corr := fft.IFFT(xf)

	// Difference function d(τ) = E(0) + E(τ) - 2C(τ), then cumulative mean
	// normalization with d'(0) = 1.
	cmnd := s.cmnd[:w]
	cmnd[0] = 1
	var cum float64
	for tau := 1; tau < w; tau++ {
		eTau := s.prefix[tau+w] - s.prefix[tau]
		d := e0 + eTau - 2*real(corr[tau])
		if d < 0 {
			d = 0 // numeric noise near perfect periodicity
		}
		cum += d
		if cum < 1e-12 {
			cmnd[tau] = 1
		} else {
			cmnd[tau] = d * float64(tau) / cum
		}
	}

	// First dip under the absolute threshold, extended to its local minimum;
	// fall back to the global minimum when nothing qualifies.
	best := -1
	for tau := tauMin; tau < tauMax; tau++ {
		if cmnd[tau] < yinThreshold {
			for tau+1 < tauMax && cmnd[tau+1] < cmnd[tau] {
				tau++
			}
			best = tau
			break
		}
	}
	if best < 0 {
		min := math.Inf(1)
		for tau := tauMin; tau < tauMax; tau++ {
			if cmnd[tau] < min {
				min = cmnd[tau]
				best = tau
			}
		}
	}
	if best < 0 {
		return 0, 0
	}

	conf := 1 - cmnd[best]
	if conf < 0 {
		conf = 0
	} else if conf > 1 {
		conf = 1
	}
	refined := parabolicLag(cmnd, best)
	if refined <= 0 {
		return 0, 0
	}
	return float64(sampleRate) / refined, conf
}

// parabolicLag refines the integer lag by fitting a parabola through the
// normalized difference at lag-1, lag, lag+1.
func parabolicLag(d []float64, lag int) float64 {
	if lag <= 0 || lag+1 >= len(d) {
		return float64(lag)
	}
	a, b, c := d[lag-1], d[lag], d[lag+1]
	den := a - 2*b + c
	if den == 0 {
		return float64(lag)
	}
	delta := 0.5 * (a - c) / den
	if delta > 1 || delta < -1 {
		return float64(lag)
	}
	return float64(lag) + delta
}
