package analysis

import (
	"math"
	"testing"
)

func sineSamples(rate int, freq, seconds float64) []float32 {
	n := int(seconds * float64(rate))
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestComputeEnvelopePointCount(t *testing.T) {
	tests := []struct {
		name    string
		samples int
		points  int
		want    int
	}{
		{"exact", 80000, 100, 100},
		{"default", 80000, 0, 200},
		{"clamped low", 80000, 1, 8},
		{"clamped high", 80000, 99999, 2000},
		{"short input", 5, 100, 5},
		{"single sample", 1, 50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]float32, tt.samples)
			for i := range samples {
				samples[i] = float32(i%7) / 7
			}
			env := ComputeEnvelope(samples, 16000, EnvelopeOptions{Points: tt.points})
			if len(env) != tt.want {
				t.Fatalf("len(env) = %d, want %d", len(env), tt.want)
			}
		})
	}
}

func TestComputeEnvelopeInvariants(t *testing.T) {
	samples := sineSamples(16000, 440, 1.0)
	env := ComputeEnvelope(samples, 16000, EnvelopeOptions{Points: 200, Strategy: StrategyHybrid})
	if len(env) != 200 {
		t.Fatalf("len(env) = %d, want 200", len(env))
	}
	if env[0].T != 0 {
		t.Errorf("first timestamp = %v, want 0", env[0].T)
	}
	if !approxEqual(env[len(env)-1].T, 1.0, 1e-9) {
		t.Errorf("last timestamp = %v, want 1.0", env[len(env)-1].T)
	}
	for i, p := range env {
		if p.Amp < 0 || p.Amp > 1 {
			t.Errorf("point %d: amp %v out of [0, 1]", i, p.Amp)
		}
		if i > 0 && p.T < env[i-1].T {
			t.Errorf("point %d: timestamp %v decreased from %v", i, p.T, env[i-1].T)
		}
	}
}

func TestComputeEnvelopeStrategies(t *testing.T) {
	// Eight buckets of four samples. The first is a lone full-scale click,
	// the rest are constant full scale, so the click bucket separates the
	// strategies: peak 1, rms 0.5, hybrid 0.8 before normalization by 1.
	samples := make([]float32, 32)
	samples[0] = 1
	for i := 4; i < 32; i++ {
		samples[i] = 1
	}
	tests := []struct {
		strategy Strategy
		want     float64
	}{
		{StrategyPeak, 1.0},
		{StrategyRMS, 0.5},
		{StrategyHybrid, 0.8},
		{Strategy(""), 0.5}, // empty falls back to rms
	}
	for _, tt := range tests {
		env := ComputeEnvelope(samples, 8, EnvelopeOptions{Points: 8, Strategy: tt.strategy})
		if len(env) != 8 {
			t.Fatalf("%s: len(env) = %d, want 8", tt.strategy, len(env))
		}
		if !approxEqual(env[0].Amp, tt.want, 1e-9) {
			t.Errorf("%s: click bucket amp = %v, want %v", tt.strategy, env[0].Amp, tt.want)
		}
		if !approxEqual(env[1].Amp, 1.0, 1e-9) {
			t.Errorf("%s: steady bucket amp = %v, want 1", tt.strategy, env[1].Amp)
		}
	}
}

func TestComputeEnvelopeScaleInvariant(t *testing.T) {
	loud := sineSamples(8000, 220, 0.5)
	quiet := make([]float32, len(loud))
	for i, v := range loud {
		quiet[i] = v * 0.125 // exact in float32
	}
	opts := EnvelopeOptions{Points: 50}
	a := ComputeEnvelope(loud, 8000, opts)
	b := ComputeEnvelope(quiet, 8000, opts)
	if len(a) != len(b) {
		t.Fatalf("len mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !approxEqual(a[i].Amp, b[i].Amp, 1e-9) {
			t.Fatalf("point %d: loud %v vs quiet %v", i, a[i].Amp, b[i].Amp)
		}
	}
}

func TestComputeEnvelopeContrast(t *testing.T) {
	// Constant buckets make rms equal the bucket value, so the normalized
	// amps before shaping are exactly the chosen levels.
	samples := make([]float32, 32)
	for i := 0; i < 4; i++ {
		samples[i] = 1
	}
	for i := 4; i < 8; i++ {
		samples[i] = 0.25
	}
	for i := 8; i < 12; i++ {
		samples[i] = 0.0049
	}
	env := ComputeEnvelope(samples, 8, EnvelopeOptions{Points: 8, EnhanceContrast: true})
	want := []float64{1, 0.5, 0.035, 0, 0, 0, 0, 0} // sqrt then halve below 0.1
	if len(env) != len(want) {
		t.Fatalf("len(env) = %d, want %d", len(env), len(want))
	}
	for i, w := range want {
		if !approxEqual(env[i].Amp, w, 1e-4) {
			t.Errorf("point %d: amp = %v, want %v", i, env[i].Amp, w)
		}
	}
}

func TestComputeEnvelopeSilence(t *testing.T) {
	samples := make([]float32, 4000)
	for _, contrast := range []bool{false, true} {
		env := ComputeEnvelope(samples, 8000, EnvelopeOptions{Points: 20, EnhanceContrast: contrast})
		if len(env) != 20 {
			t.Fatalf("len(env) = %d, want 20", len(env))
		}
		for i, p := range env {
			if p.Amp != 0 {
				t.Errorf("contrast=%v point %d: amp = %v, want 0", contrast, i, p.Amp)
			}
		}
	}
}

func TestComputeEnvelopeSinglePoint(t *testing.T) {
	env := ComputeEnvelope([]float32{0.5}, 8000, EnvelopeOptions{})
	if len(env) != 1 {
		t.Fatalf("len(env) = %d, want 1", len(env))
	}
	if env[0].T != 0 {
		t.Errorf("t = %v, want 0", env[0].T)
	}
	if !approxEqual(env[0].Amp, 1.0, 1e-9) {
		t.Errorf("amp = %v, want 1 (self-normalized)", env[0].Amp)
	}
}

func TestComputeEnvelopeEmpty(t *testing.T) {
	if env := ComputeEnvelope(nil, 8000, EnvelopeOptions{}); env != nil {
		t.Errorf("nil samples: got %d points, want none", len(env))
	}
	if env := ComputeEnvelope([]float32{0.1}, 0, EnvelopeOptions{}); env != nil {
		t.Errorf("zero rate: got %d points, want none", len(env))
	}
}

func BenchmarkComputeEnvelope(b *testing.B) {
	samples := sineSamples(16000, 220, 30)
	opts := EnvelopeOptions{Points: 200, Strategy: StrategyHybrid, EnhanceContrast: true}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeEnvelope(samples, 16000, opts)
	}
}
