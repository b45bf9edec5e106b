package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// WaveformPoint is one loudness sample of the envelope: T seconds from the
// segment start, Amp normalized into [0, 1].
type WaveformPoint struct {
	T   float64 `json:"t" msgpack:"t"`
	Amp float64 `json:"amp" msgpack:"amp"`
}

// Strategy selects how a bucket of samples reduces to one loudness value.
type Strategy string

const (
	// StrategyRMS is sqrt(mean(sample²)); smooth and robust.
	StrategyRMS Strategy = "rms"
	// StrategyPeak is max(|sample|); better at surfacing stressed syllables.
	StrategyPeak Strategy = "peak"
	// StrategyHybrid blends 0.6*peak + 0.4*rms.
	StrategyHybrid Strategy = "hybrid"
)

// Envelope resolution bounds and default.
const (
	MinEnvelopePoints     = 8
	MaxEnvelopePoints     = 2000
	DefaultEnvelopePoints = 200
)

// normEpsilon floors the global maximum during normalization so silent input
// divides safely and stays at zero.
const normEpsilon = 1e-9

// EnvelopeOptions configures [ComputeEnvelope]. The zero value asks for
// DefaultEnvelopePoints of RMS loudness without contrast shaping.
type EnvelopeOptions struct {
	// Points is the requested resolution, clamped into
	// [MinEnvelopePoints, MaxEnvelopePoints]. Zero means the default.
	Points int `json:"points,omitempty" yaml:"points"`
	// Strategy is one of rms, peak or hybrid; empty means rms.
	Strategy Strategy `json:"strategy,omitempty" yaml:"strategy"`
	// EnhanceContrast applies sqrt shaping and suppresses near-silence, which
	// sharpens the visual split between speech and pauses.
	EnhanceContrast bool `json:"enhanceContrast,omitempty" yaml:"enhance_contrast"`
}

// ComputeEnvelope reduces mono samples to a fixed-resolution loudness series.
//
// Samples partition into contiguous buckets of ceil(len/points) samples (the
// last may be short); each bucket reduces to one value per the strategy; all
// values are normalized by the global maximum; timestamps spread linearly
// across [0, duration] by bucket index, a single-point result getting t=0.
// Zero-length input or a non-positive sample rate yields nil, not an error.
func ComputeEnvelope(samples []float32, sampleRate int, opts EnvelopeOptions) []WaveformPoint {
	if len(samples) == 0 || sampleRate <= 0 {
		return nil
	}
	points := opts.Points
	if points <= 0 {
		points = DefaultEnvelopePoints
	}
	if points < MinEnvelopePoints {
		points = MinEnvelopePoints
	}
	if points > MaxEnvelopePoints {
		points = MaxEnvelopePoints
	}

	bucket := (len(samples) + points - 1) / points
	n := (len(samples) + bucket - 1) / bucket
	amps := make([]float64, n)
	for i := range amps {
		lo := i * bucket
		hi := lo + bucket
		if hi > len(samples) {
			hi = len(samples)
		}
		amps[i] = reduceBucket(samples[lo:hi], opts.Strategy)
	}

	max := floats.Max(amps)
	if max < normEpsilon {
		max = normEpsilon
	}
	floats.Scale(1/max, amps)

	if opts.EnhanceContrast {
		for i, a := range amps {
			a = math.Sqrt(a)
			if a < 0.1 {
				a /= 2
			}
			amps[i] = a
		}
	}

	duration := float64(len(samples)) / float64(sampleRate)
	out := make([]WaveformPoint, n)
	for i := range out {
		var t float64
		if n > 1 {
			t = duration * float64(i) / float64(n-1)
		}
		out[i] = WaveformPoint{T: t, Amp: amps[i]}
	}
	return out
}

func reduceBucket(b []float32, s Strategy) float64 {
	switch s {
	case StrategyPeak:
		return bucketPeak(b)
	case StrategyHybrid:
		return 0.6*bucketPeak(b) + 0.4*bucketRMS(b)
	default:
		return bucketRMS(b)
	}
}

func bucketRMS(b []float32) float64 {
	if len(b) == 0 {
		return 0
	}
	var sum float64
	for _, v := range b {
		f := float64(v)
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(b)))
}

func bucketPeak(b []float32) float64 {
	var peak float64
	for _, v := range b {
		if f := math.Abs(float64(v)); f > peak {
			peak = f
		}
	}
	return peak
}
