package analysis

import (
	"math"
	"testing"
)

func TestYinFramesSine(t *testing.T) {
	const (
		rate  = 8000
		freq  = 220.0
		frame = 1024
		hop   = 256
	)
	samples := sineSamples(rate, freq, 1.0)
	pitch, prob := yinFrames(samples, rate, frame, hop)

	wantFrames := 1 + (len(samples)-frame)/hop
	if len(pitch) != wantFrames || len(prob) != wantFrames {
		t.Fatalf("got %d/%d frames, want %d", len(pitch), len(prob), wantFrames)
	}

	voiced := 0
	for i := range pitch {
		if prob[i] < 0.8 {
			continue
		}
		voiced++
		if !approxEqual(pitch[i], freq, 4) {
			t.Errorf("frame %d: pitch = %.2f Hz, want %.0f±4", i, pitch[i], freq)
		}
	}
	if voiced < wantFrames*9/10 {
		t.Errorf("only %d/%d frames confidently voiced", voiced, wantFrames)
	}
}

func TestYinFramesTracksChange(t *testing.T) {
	const (
		rate  = 8000
		frame = 1024
		hop   = 256
	)
	samples := append(sineSamples(rate, 220, 0.5), sineSamples(rate, 440, 0.5)...)
	pitch, prob := yinFrames(samples, rate, frame, hop)
	if len(pitch) == 0 {
		t.Fatal("no frames")
	}
	// Frames fully inside each half; the splice region in between is skipped.
	for f := 0; f <= 10; f++ {
		if prob[f] >= 0.8 && !approxEqual(pitch[f], 220, 4) {
			t.Errorf("frame %d: pitch = %.2f Hz, want 220±4", f, pitch[f])
		}
	}
	for f := 16; f < len(pitch); f++ {
		if prob[f] >= 0.8 && !approxEqual(pitch[f], 440, 8) {
			t.Errorf("frame %d: pitch = %.2f Hz, want 440±8", f, pitch[f])
		}
	}
}

func TestYinFramesSilence(t *testing.T) {
	samples := make([]float32, 8000)
	pitch, prob := yinFrames(samples, 8000, 1024, 256)
	for i := range pitch {
		if pitch[i] != 0 || prob[i] != 0 {
			t.Errorf("frame %d: (%v, %v), want silent frame to stay unvoiced", i, pitch[i], prob[i])
		}
	}
}

func TestYinFramesShortInput(t *testing.T) {
	pitch, prob := yinFrames(make([]float32, 100), 8000, 1024, 256)
	if pitch != nil || prob != nil {
		t.Fatalf("got %d/%d frames for sub-frame input, want none", len(pitch), len(prob))
	}
	if p, q := yinFrames(nil, 8000, 1024, 256); p != nil || q != nil {
		t.Fatal("nil input must yield no frames")
	}
}

func TestParabolicLag(t *testing.T) {
	tests := []struct {
		name string
		d    []float64
		lag  int
		want float64
	}{
		{"symmetric", []float64{1, 0.5, 0.2, 0.5, 1}, 2, 2.0},
		{"skewed", []float64{1, 0.4, 0.2, 0.6, 1}, 2, 2 - 1.0/6},
		{"flat", []float64{1, 1, 1}, 1, 1.0},
		{"left edge", []float64{0.2, 0.5, 1}, 0, 0.0},
		{"right edge", []float64{1, 0.5, 0.2}, 2, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parabolicLag(tt.d, tt.lag)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("parabolicLag(%v, %d) = %v, want %v", tt.d, tt.lag, got, tt.want)
			}
		})
	}
}

func BenchmarkYinFrames(b *testing.B) {
	samples := sineSamples(16000, 220, 1.0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		yinFrames(samples, 16000, 2048, 256)
	}
}
