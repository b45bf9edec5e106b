package media

import (
	"math"
	"testing"
)

func rampAudio(rate, n int, channels int) *Audio {
	a := &Audio{SampleRate: rate, Channels: make([][]float32, channels)}
	for ch := range a.Channels {
		s := make([]float32, n)
		for i := range s {
			s[i] = float32(ch+1) * float32(i) / float32(n)
		}
		a.Channels[ch] = s
	}
	return a
}

func TestExtractMonoSegmentRange(t *testing.T) {
	a := rampAudio(10, 10, 1) // 1 second of audio
	seg := ExtractMonoSegment(a, 0.25, 0.75)
	// floor(0.25*10)=2, ceil(0.75*10)=8
	if len(seg.Samples) != 6 {
		t.Fatalf("len = %d, want 6", len(seg.Samples))
	}
	if seg.SampleRate != 10 {
		t.Errorf("rate = %d, want 10", seg.SampleRate)
	}
	if seg.Samples[0] != a.Channels[0][2] {
		t.Errorf("segment does not start at sample 2")
	}
}

// Extracting the full duration must round-trip the per-channel sample count.
func TestExtractMonoSegmentRoundTrip(t *testing.T) {
	for _, n := range []int{1, 7, 1000, 44100} {
		a := rampAudio(44100, n, 1)
		seg := ExtractMonoSegment(a, 0, a.Duration())
		if len(seg.Samples) != n {
			t.Errorf("n=%d: round trip produced %d samples", n, len(seg.Samples))
		}
	}
}

func TestExtractMonoSegmentDownmix(t *testing.T) {
	a := &Audio{
		SampleRate: 4,
		Channels: [][]float32{
			{1, 1, 1, 1},
			{0, 0.5, -1, 0},
		},
	}
	seg := ExtractMonoSegment(a, 0, 1)
	want := []float32{0.5, 0.75, 0, 0.5}
	if len(seg.Samples) != len(want) {
		t.Fatalf("len = %d, want %d", len(seg.Samples), len(want))
	}
	for i := range want {
		if math.Abs(float64(seg.Samples[i]-want[i])) > 1e-7 {
			t.Errorf("sample %d = %v, want %v", i, seg.Samples[i], want[i])
		}
	}
}

func TestExtractMonoSegmentEdges(t *testing.T) {
	a := rampAudio(10, 10, 2)

	if seg := ExtractMonoSegment(a, 0.8, 0.3); len(seg.Samples) != 0 {
		t.Errorf("inverted range: %d samples, want 0", len(seg.Samples))
	}
	if seg := ExtractMonoSegment(a, 0.5, 0.5); len(seg.Samples) != 0 {
		t.Errorf("zero range: %d samples, want 0", len(seg.Samples))
	}
	// Out-of-bounds times clamp instead of failing.
	if seg := ExtractMonoSegment(a, -5, 99); len(seg.Samples) != 10 {
		t.Errorf("clamped range: %d samples, want 10", len(seg.Samples))
	}
	if seg := ExtractMonoSegment(a, 5, 9); len(seg.Samples) != 0 {
		t.Errorf("past-the-end range: %d samples, want 0", len(seg.Samples))
	}
	if seg := ExtractMonoSegment(a, math.NaN(), 1); len(seg.Samples) != 0 {
		t.Errorf("nan start: %d samples, want 0", len(seg.Samples))
	}

	empty := &Audio{SampleRate: 10}
	if seg := ExtractMonoSegment(empty, 0, 1); len(seg.Samples) != 0 {
		t.Errorf("empty audio: %d samples, want 0", len(seg.Samples))
	}
}

func TestAudioDuration(t *testing.T) {
	a := rampAudio(8000, 2000, 1)
	if got := a.Duration(); got != 0.25 {
		t.Errorf("Duration = %v, want 0.25", got)
	}
	if got := (&Audio{}).Duration(); got != 0 {
		t.Errorf("zero Audio Duration = %v, want 0", got)
	}
}
