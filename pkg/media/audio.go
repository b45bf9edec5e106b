package media

import "math"

// Audio is decoded PCM: one float array per channel, equal lengths, sample
// values in [-1, 1]. Instances are produced by the decode layer, never
// mutated afterwards, and shared read-only downstream.
type Audio struct {
	SampleRate int         `json:"sampleRate" msgpack:"sampleRate"`
	Channels   [][]float32 `json:"channels" msgpack:"channels"`
}

// NumSamples returns the per-channel sample count.
func (a *Audio) NumSamples() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Duration returns the clip length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(a.NumSamples()) / float64(a.SampleRate)
}

// MonoSegment is a transient single-channel slice of decoded audio, created
// per analysis call and never cached.
type MonoSegment struct {
	SampleRate int
	Samples    []float32
}

// Duration returns the segment length in seconds.
func (s MonoSegment) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// ExtractMonoSegment returns the [startSec, endSec) span of a as a single
// channel, downmixing by the arithmetic mean across channels.
//
// Seconds convert to sample indices via floor(start*rate) and ceil(end*rate),
// clamped to [0, NumSamples]. A range that is empty or inverted after
// clamping returns an empty segment rather than an error; callers handle the
// empty case.
func ExtractMonoSegment(a *Audio, startSec, endSec float64) MonoSegment {
	seg := MonoSegment{SampleRate: a.SampleRate}
	total := a.NumSamples()
	if total == 0 || a.SampleRate <= 0 {
		return seg
	}
	if math.IsNaN(startSec) || math.IsNaN(endSec) {
		return seg
	}
	start := int(math.Floor(startSec * float64(a.SampleRate)))
	end := int(math.Ceil(endSec * float64(a.SampleRate)))
	if start < 0 {
		start = 0
	}
	if end > total {
		end = total
	}
	if end <= start {
		return seg
	}

	out := make([]float32, end-start)
	if len(a.Channels) == 1 {
		copy(out, a.Channels[0][start:end])
	} else {
		n := float32(len(a.Channels))
		for i := range out {
			var sum float32
			for _, ch := range a.Channels {
				sum += ch[start+i]
			}
			out[i] = sum / n
		}
	}
	seg.Samples = out
	return seg
}
