package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Tab is one entry of the section bar
type Tab struct {
	Label string
	Count int // Shown after the label when >= 0
}

// RenderTabs draws the section bar with the active tab highlighted.
// Counts are dropped when the full bar would not fit.
func RenderTabs(tabs []Tab, active, width int) string {
	bar := renderTabs(tabs, active, true)
	if width > 0 && lipgloss.Width(bar) > width {
		bar = renderTabs(tabs, active, false)
	}
	return bar
}

func renderTabs(tabs []Tab, active int, counts bool) string {
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		label := t.Label
		if counts && t.Count >= 0 {
			label += " (" + strconv.Itoa(t.Count) + ")"
		}
		if i == active {
			parts[i] = styles.ActiveTabStyle.Render(label)
		} else {
			parts[i] = styles.TabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
