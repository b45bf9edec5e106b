package cli

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme for terminal rendering.
type Theme struct {
	Primary lipgloss.Color // envelope bars
	Accent  lipgloss.Color // pitch contour
	Dim     lipgloss.Color // labels and summaries
}

// DefaultTheme draws teal bars with an amber pitch line, readable on both
// dark and light terminals.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#2dd4bf"),
	Accent:  lipgloss.Color("#e5a13b"),
	Dim:     lipgloss.Color("#8b949e"),
}

// Styles bundles the lipgloss styles derived from one theme.
type Styles struct {
	Bar   lipgloss.Style
	Pitch lipgloss.Style
	Label lipgloss.Style
}

// NewStyles builds the render styles for t.
func NewStyles(t Theme) Styles {
	return Styles{
		Bar:   lipgloss.NewStyle().Foreground(t.Primary),
		Pitch: lipgloss.NewStyle().Foreground(t.Accent),
		Label: lipgloss.NewStyle().Foreground(t.Dim),
	}
}
