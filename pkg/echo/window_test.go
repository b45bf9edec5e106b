package echo

import (
	"math"
	"testing"
)

func TestNormalizeWindow(t *testing.T) {
	cases := []struct {
		name       string
		active     bool
		start, end float64
		duration   float64
		want       *Window
	}{
		{"inactive", false, 2, 5, 10, nil},
		{"valid", true, 2, 5, 10, &Window{Start: 2, End: 5}},
		{"negative start", true, -1, 5, 10, nil},
		{"negative end", true, 2, -5, 10, nil},
		{"zero duration", true, 2, 5, 0, nil},
		{"negative duration", true, 2, 5, -3, nil},
		{"nan duration", true, 2, 5, math.NaN(), nil},
		{"inf duration", true, 2, 5, math.Inf(1), nil},
		{"nan start", true, math.NaN(), 5, 10, nil},
		{"start equals end", true, 5, 5, 10, nil},
		{"inverted", true, 5, 2, 10, nil},
		{"end clamped to duration", true, 2, 50, 10, &Window{Start: 2, End: 10}},
		{"collapses after clamp", true, 10, 50, 10, nil},
		{"full media", true, 0, 10, 10, &Window{Start: 0, End: 10}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := NormalizeWindow(c.active, c.start, c.end, c.duration)
			if (got == nil) != (c.want == nil) {
				t.Fatalf("NormalizeWindow(%v, %v, %v, %v) = %v, want %v",
					c.active, c.start, c.end, c.duration, got, c.want)
			}
			if got == nil {
				return
			}
			if got.Start != c.want.Start || got.End != c.want.End {
				t.Errorf("got window [%v,%v), want [%v,%v)",
					got.Start, got.End, c.want.Start, c.want.End)
			}
			// Non-nil windows always satisfy 0 <= Start < End <= duration.
			if got.Start < 0 || got.Start >= got.End || got.End > c.duration {
				t.Errorf("window [%v,%v) violates invariants for duration %v",
					got.Start, got.End, c.duration)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := &Window{Start: 2, End: 5}
	cases := []struct {
		t    float64
		want bool
	}{
		{1.9, false},
		{2, true},
		{4.999, true},
		{5, false}, // end is exclusive
	}
	for _, c := range cases {
		if got := w.Contains(c.t); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}
