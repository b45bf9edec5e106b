// Package cli provides terminal presentation helpers for the parlo CLI:
// color themes, sparkline rendering and human-readable formatting.
package cli
