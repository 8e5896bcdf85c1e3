package ui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncate shortens s to at most width display cells, appending an
// ellipsis when anything was cut. Width is measured in terminal cells,
// not runes, so wide characters count double.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}

// padRight pads s with spaces to exactly width display cells,
// truncating first when it is too long.
func padRight(s string, width int) string {
	s = truncate(s, width)
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// padLeft right-aligns s within width display cells.
func padLeft(s string, width int) string {
	s = truncate(s, width)
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return strings.Repeat(" ", gap) + s
}

// formatCount renders n with thousands separators: 10000 -> "10,000".
func formatCount(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
