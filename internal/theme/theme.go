// Package theme defines the color palette for lazycommit's terminal output.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used when rendering the staged set and the
// proposed commit message.
type Theme struct {
	Accent    lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
}

// Default returns the palette used for all output. Colors follow the
// Dracula scheme, which stays readable on both dark and light terminals.
func Default() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"), // Purple (draft box border)
		MutedFg:   lipgloss.Color("#6272A4"), // Comment (muted text)
		TextFg:    lipgloss.Color("#F8F8F2"), // Foreground (primary text)
		SuccessFg: lipgloss.Color("#50FA7B"), // Green (added)
		WarnFg:    lipgloss.Color("#FFB86C"), // Orange (modified)
		ErrorFg:   lipgloss.Color("#FF5555"), // Red (deleted)
	}
}
