package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/vlahn/rewindtv/internal/catalog"
)

// linesPerItem is the number of terminal lines each channel occupies.
const linesPerItem = 2

// renderList renders the left panel: the channel list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.channels) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No channels")
	}

	var lines []string
	for i, ch := range m.channels {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatChannelLine(ch, width, i == m.cursor)...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatChannelLine formats a single channel as two lines:
//
//	line 1: [>] id  name
//	line 2:     group · catchup tag (dimmed)
func formatChannelLine(ch catalog.Channel, width int, selected bool) []string {
	name := ch.Name
	nameMax := width - 2 - 6 // prefix + id column
	if nameMax < 0 {
		nameMax = 0
	}
	if runewidth.StringWidth(name) > nameMax {
		name = runewidth.Truncate(name, nameMax, "")
	}

	line1 := fmt.Sprintf("%4d  %s", ch.ID, styleListNormal.Render(name))
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	group := ch.Group
	if group == "" {
		group = "ungrouped"
	}
	tag := styleNoCatchup.Render("live only")
	if ch.Catchup {
		tag = styleCatchup.Render(fmt.Sprintf("%dd catchup", ch.CatchupDays))
	}
	detail := styleGroup.Render(group) + " " + tag
	detailMax := width - 8
	if detailMax < 0 {
		detailMax = 0
	}
	if runewidth.StringWidth(group) > detailMax {
		detail = styleGroup.Render(runewidth.Truncate(group, detailMax, ""))
	}
	line2 := "        " + detail

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
