package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vlahn/rewindtv/internal/timeparse"
)

// Shown inside the prompt for any unresolvable input; the resolver does not
// distinguish unparseable from future-only expressions.
const resolveErrText = "invalid or future time expression"

func newTimePrompt() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. 2 hours ago"
	ti.Prompt = "watch from: "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 128
	return ti
}

// updateTimePrompt handles keys while the modal is open. It returns the
// updated model and whether the TUI should quit with a catchup selection.
func (m model) updateTimePrompt(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, modalKeys.Cancel):
		m.promptOpen = false
		m.promptErr = ""
		m.timePrompt.SetValue("")
		return m, nil

	case key.Matches(msg, modalKeys.Accept):
		expr := strings.TrimSpace(m.timePrompt.Value())
		pt, ok, err := timeparse.Resolve(expr, time.Now())
		if err != nil || !ok {
			m.promptErr = resolveErrText
			return m, nil
		}
		if ch := m.current(); ch != nil {
			m.selection = &Selection{Channel: *ch, When: &pt}
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.timePrompt, cmd = m.timePrompt.Update(msg)
	if m.promptErr != "" {
		m.promptErr = "" // typing clears a stale error
	}
	return m, cmd
}

// renderTimePrompt draws the modal centered over the channel panels.
func (m model) renderTimePrompt(width, height int) string {
	hints := timeparse.Examples()
	if len(hints) > 3 {
		hints = hints[:3]
	}

	var b strings.Builder
	b.WriteString(m.timePrompt.View())
	b.WriteString("\n")
	if m.promptErr != "" {
		b.WriteString(styleModalError.Render(m.promptErr))
	} else {
		b.WriteString(styleModalHint.Render("try: " + strings.Join(hints, " | ")))
	}
	b.WriteString("\n")
	b.WriteString(styleModalHint.Render("enter play | esc cancel"))

	box := styleModalBorder.Width(minInt(width-4, 64)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
