package analysis

import (
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// PitchPoint is one pitch sample aligned to an envelope timestamp. A nil
// PitchHz marks the instant unvoiced or indeterminate; consumers must render
// it as a gap, never as zero hertz.
type PitchPoint struct {
	T          float64  `json:"t" msgpack:"t"`
	PitchHz    *float64 `json:"pitchHz" msgpack:"pitchHz"`
	VoicedProb float64  `json:"voicedProb" msgpack:"voicedProb"`
}

// Pitch extraction defaults.
const (
	DefaultFrameSize       = 4096
	DefaultHopSize         = 256
	DefaultVoicedThreshold = 0.6
)

// maxPitchRate caps the sample rate fed to the estimator. The frame must keep
// the low end of the speech f0 range inside its half-frame search window, and
// 96 kHz sources would halve that coverage, so anything above 48 kHz is
// decimated first.
const maxPitchRate = 48000

// PitchOptions configures ExtractPitch. Zero fields take the package
// defaults.
type PitchOptions struct {
	FrameSize       int     `json:"frameSize,omitempty" yaml:"frame_size"`
	HopSize         int     `json:"hopSize,omitempty" yaml:"hop_size"`
	VoicedThreshold float64 `json:"voicedThreshold,omitempty" yaml:"voiced_threshold"`
}

func (o PitchOptions) withDefaults() PitchOptions {
	if o.FrameSize <= 0 {
		o.FrameSize = DefaultFrameSize
	}
	if o.HopSize <= 0 {
		o.HopSize = DefaultHopSize
	}
	if o.VoicedThreshold <= 0 {
		o.VoicedThreshold = DefaultVoicedThreshold
	}
	return o
}

// ExtractPitch runs the YIN estimator over samples and aligns the per-frame
// result onto the envelope's time grid, returning exactly one PitchPoint per
// envelope point.
//
// Each envelope timestamp maps to frame round(t / (hopSize/sampleRate)),
// clamped into range. The frame's pitch is accepted only when it is finite,
// positive and at least VoicedThreshold confident; otherwise the point stays
// unvoiced but still carries the frame's confidence. Input too short for a
// single frame, including no input at all, yields every point unvoiced rather
// than a shorter slice. Sources sampled above 48 kHz are decimated before
// framing and the frame grid uses the effective rate.
func ExtractPitch(samples []float32, sampleRate int, envelope []WaveformPoint, opts PitchOptions) []PitchPoint {
	if len(envelope) == 0 {
		return nil
	}
	opts = opts.withDefaults()
	samples, sampleRate = decimateForPitch(samples, sampleRate)
	pitch, prob := yinFrames(samples, sampleRate, opts.FrameSize, opts.HopSize)
	return mapFramesToEnvelope(envelope, pitch, prob, opts.HopSize, sampleRate, opts.VoicedThreshold)
}

// mapFramesToEnvelope projects per-frame estimates onto the envelope grid.
// With no frames at all the claim per point is unvoiced with zero confidence.
func mapFramesToEnvelope(envelope []WaveformPoint, pitch, prob []float64, hopSize, sampleRate int, minProb float64) []PitchPoint {
	var frameDur float64
	if sampleRate > 0 {
		frameDur = float64(hopSize) / float64(sampleRate)
	}
	out := make([]PitchPoint, len(envelope))
	for i, p := range envelope {
		pt := PitchPoint{T: p.T}
		if len(pitch) > 0 && frameDur > 0 {
			idx := int(math.Round(p.T / frameDur))
			if idx < 0 {
				idx = 0
			} else if idx >= len(pitch) {
				idx = len(pitch) - 1
			}
			pt.VoicedProb = prob[idx]
			if hz := pitch[idx]; hz > 0 && !math.IsInf(hz, 0) && !math.IsNaN(hz) && prob[idx] >= minProb {
				v := hz
				pt.PitchHz = &v
			}
		}
		out[i] = pt
	}
	return out
}

// decimateForPitch reduces sources above maxPitchRate down to it. On any
// converter failure the original audio passes through unchanged; the
// estimator still works, only with reduced low-f0 coverage.
func decimateForPitch(samples []float32, sampleRate int) ([]float32, int) {
	if sampleRate <= maxPitchRate || len(samples) == 0 {
		return samples, sampleRate
	}
	conv, err := resampling.New(&resampling.Config{
		InputRate:  float64(sampleRate),
		OutputRate: float64(maxPitchRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return samples, sampleRate
	}
	in := make([]float64, len(samples))
	for i, v := range samples {
		in[i] = float64(v)
	}
	out, err := conv.Process(in)
	if err != nil || len(out) == 0 {
		return samples, sampleRate
	}
	res := make([]float32, len(out))
	for i, v := range out {
		res[i] = float32(v)
	}
	return res, maxPitchRate
}
