package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/parlo-app/parlo/go/pkg/analysis"
)

// sparkLevels maps a normalized value onto block characters.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws one block character per value. Values outside [0,1] are
// clamped.
func Sparkline(values []float64) string {
	var b strings.Builder
	for _, v := range values {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		b.WriteRune(sparkLevels[int(v*float64(len(sparkLevels)-1)+0.5)])
	}
	return b.String()
}

// PitchContour draws voiced pitches scaled between the track's extremes;
// unvoiced points stay blank. The summary names the extremes so the scale
// is readable.
func PitchContour(points []analysis.PitchPoint) (line, summary string) {
	var voiced []float64
	for _, p := range points {
		if p.PitchHz != nil {
			voiced = append(voiced, *p.PitchHz)
		}
	}
	if len(voiced) == 0 {
		return "", "pitch: unvoiced"
	}

	sort.Float64s(voiced)
	lo, hi := voiced[0], voiced[len(voiced)-1]
	median := voiced[len(voiced)/2]

	var b strings.Builder
	for _, p := range points {
		if p.PitchHz == nil {
			b.WriteRune(' ')
			continue
		}
		a := 1.0
		if hi > lo {
			a = (*p.PitchHz - lo) / (hi - lo)
		}
		b.WriteRune(sparkLevels[int(a*float64(len(sparkLevels)-1)+0.5)])
	}

	pct := 100 * len(voiced) / len(points)
	summary = fmt.Sprintf("pitch %d%% voiced  %.0f-%.0f Hz  median %.0f Hz", pct, lo, hi, median)
	return b.String(), summary
}
