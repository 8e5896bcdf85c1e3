package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# gv keys

## Navigation

| Key | Action |
|-----|--------|
| j / ↓ | move down |
| k / ↑ | move up |
| ctrl+d / ctrl+u | half page down / up |
| pgdn / pgup | full page down / up |
| g / home | jump to top |
| G / end | jump to bottom |

## View

| Key | Action |
|-----|--------|
| / | edit filter (esc to leave, ctrl+u to clear) |
| 1 / 2 / 3 | sort by id / name / value |
| s | cycle sort column |
| t | toggle stats line |
| y | copy selected row to clipboard |
| r | retry a failed load |

## Other

| Key | Action |
|-----|--------|
| ? | toggle this help |
| q / ctrl+c | quit |
`

// renderHelp renders the key reference as a markdown overlay sized to the
// terminal. Falls back to the raw markdown when glamour cannot build a
// renderer for the terminal profile.
func renderHelp(width int) string {
	wrap := width - 8
	if wrap < 40 {
		wrap = 40
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return HelpOverlayStyle.Render(helpMarkdown)
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		return HelpOverlayStyle.Render(helpMarkdown)
	}
	// Strip trailing whitespace that glamour adds.
	return HelpOverlayStyle.Render(strings.TrimRight(out, "\n"))
}
