// Package ui renders CLI output, colouring it when the terminal allows.
package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorMuted  = 245 // medium gray
	colorOK     = 114 // green
	colorFail   = 203 // red
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderEffect returns an effect name in the accent (blue) color.
func RenderEffect(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderStatus returns s in green when ok, red otherwise.
func RenderStatus(ok bool, s string) string {
	if ok {
		return paint(colorOK, s)
	}
	return paint(colorFail, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
