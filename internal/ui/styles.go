// Package ui provides terminal styling for sib CLI output.
// Uses adaptive light/dark colors via lipgloss.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

// Semantic colors, adaptive to terminal background.
var (
	ColorGood = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorBad = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}
)

var (
	GoodStyle   = lipgloss.NewStyle().Foreground(ColorGood)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	BadStyle    = lipgloss.NewStyle().Foreground(ColorBad)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)

	// HeaderStyle for section headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
)

// Status icons
const (
	IconOk   = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
)

// RenderStatus renders a status label with its board color: open muted,
// in-progress blue, done green.
func RenderStatus(s types.Status) string {
	label := s.Display()
	if !ShouldUseColor() {
		return label
	}
	switch s {
	case types.StatusDone:
		return GoodStyle.Render(label)
	case types.StatusInProgress:
		return AccentStyle.Render(label)
	default:
		return MutedStyle.Render(label)
	}
}

// RenderPriority renders a priority label with its board color: high red,
// medium yellow, low green.
func RenderPriority(p types.Priority) string {
	label := p.Display()
	if !ShouldUseColor() {
		return label
	}
	switch p {
	case types.PriorityHigh:
		return BadStyle.Render(label)
	case types.PriorityMedium:
		return WarnStyle.Render(label)
	default:
		return GoodStyle.Render(label)
	}
}

// RenderMuted renders text in the muted style when color is on.
func RenderMuted(s string) string {
	if !ShouldUseColor() {
		return s
	}
	return MutedStyle.Render(s)
}

// RenderWarn renders text in the warning style when color is on.
func RenderWarn(s string) string {
	if !ShouldUseColor() {
		return s
	}
	return WarnStyle.Render(s)
}

// RenderHeader renders a bold accent header when color is on.
func RenderHeader(s string) string {
	if !ShouldUseColor() {
		return s
	}
	return HeaderStyle.Render(s)
}
