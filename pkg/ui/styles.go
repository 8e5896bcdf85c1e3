package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/gridview/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for contrast on white backgrounds
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	// Record status colors
	ColorStatusActive    = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorStatusPending   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorStatusCompleted = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}

	// Status background colors (for badges) - subtle backgrounds
	ColorStatusActiveBg    = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
	ColorStatusPendingBg   = lipgloss.AdaptiveColor{Light: "#FFE8CC", Dark: "#3D2A1A"}
	ColorStatusCompletedBg = lipgloss.AdaptiveColor{Light: "#E2E3E5", Dark: "#2A2A3D"}
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPONENT STYLES
// ══════════════════════════════════════════════════════════════════════════════

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	ColumnHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorSubtext).
				Bold(true)

	// ActiveSortStyle highlights the column the view is currently sorted by.
	ActiveSortStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	RowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Background(ColorBgHighlight).
				Bold(true)

	SkeletonStyle = lipgloss.NewStyle().
			Foreground(ColorBgSubtle)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	StatusBarErrStyle = lipgloss.NewStyle().
				Foreground(ColorDanger).
				Bold(true)

	FlashStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	ScrollbarTrackStyle = lipgloss.NewStyle().
				Foreground(ColorBgSubtle)

	ScrollbarThumbStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary)

	HelpOverlayStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)
)

// RenderStatusBadge returns a styled status badge, fixed at 9 cells so
// the column stays aligned.
func RenderStatusBadge(status model.Status) string {
	var fg, bg lipgloss.AdaptiveColor
	var label string

	switch status {
	case model.StatusActive:
		fg, bg, label = ColorStatusActive, ColorStatusActiveBg, "ACTIVE   "
	case model.StatusPending:
		fg, bg, label = ColorStatusPending, ColorStatusPendingBg, "PENDING  "
	case model.StatusCompleted:
		fg, bg, label = ColorStatusCompleted, ColorStatusCompletedBg, "COMPLETED"
	default:
		fg, bg, label = ColorMuted, ColorBgSubtle, "?????????"
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Render(label)
}
