// Package tui is the interactive channel browser: filterable channel list,
// detail panel, and a modal prompt for catchup time expressions.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vlahn/rewindtv/internal/catalog"
	"github.com/vlahn/rewindtv/internal/timeparse"
)

const debounceDelay = 200 * time.Millisecond

// Selection is what the user chose before the TUI exited. A nil When means
// live playback.
type Selection struct {
	Channel catalog.Channel
	When    *timeparse.ParsedTime
}

// Options configures a TUI run.
type Options struct {
	Filter catalog.Options
	// LiveURL renders the live stream URL of a channel for clipboard copy.
	LiveURL func(catalog.Channel) (string, error)
}

// message types

type channelsMsg struct {
	query    string
	channels []catalog.Channel
	err      error
}

type debounceTickMsg struct {
	query string
}

type copiedMsg struct {
	err error
}

// model

type model struct {
	db          *catalog.DB
	opts        Options
	query       string
	channels    []catalog.Channel
	cursor      int
	listOffset  int
	filterInput textinput.Model
	timePrompt  textinput.Model
	promptOpen  bool
	promptErr   string
	statusNote  string
	width       int
	height      int
	ready       bool
	quitting    bool
	selection   *Selection
}

func initialModel(db *catalog.DB, opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "Filter channels..."
	ti.Focus()
	ti.SetValue(opts.Filter.Query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		db:          db,
		opts:        opts,
		query:       opts.Filter.Query,
		filterInput: ti,
		timePrompt:  newTimePrompt(),
	}
}

// Run starts the channel browser and blocks until it exits. It returns the
// user's selection, or nil when the browser was quit without choosing.
func Run(db *catalog.DB, opts Options) (*Selection, error) {
	m := initialModel(db, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	return finalModel.(model).selection, nil
}

func (m model) current() *catalog.Channel {
	if len(m.channels) == 0 || m.cursor >= len(m.channels) {
		return nil
	}
	ch := m.channels[m.cursor]
	return &ch
}

// Init loads the initial channel list.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.doFilter(m.query))
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if m.promptOpen {
			return m.updateTimePrompt(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if ch := m.current(); ch != nil {
				m.selection = &Selection{Channel: *ch}
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Catchup):
			if ch := m.current(); ch != nil {
				if !ch.Catchup {
					m.statusNote = fmt.Sprintf("%s has no catchup archive", ch.Name)
					return m, nil
				}
				m.promptOpen = true
				m.promptErr = ""
				m.timePrompt.SetValue("")
				m.timePrompt.Focus()
				return m, textinput.Blink
			}

		case key.Matches(msg, keys.CopyURL):
			return m, m.copyCurrentURL()

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.channels)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
			}
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.cursor -= m.visibleItems()
			if m.cursor < 0 {
				m.cursor = 0
			}
			m.adjustListScroll(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.cursor += m.visibleItems()
			if m.cursor > len(m.channels)-1 {
				m.cursor = len(m.channels) - 1
			}
			if m.cursor < 0 {
				m.cursor = 0
			}
			m.adjustListScroll(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to the filter input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		newQuery := m.filterInput.Value()
		if newQuery != m.query {
			m.query = newQuery
			m.statusNote = ""
			cmds = append(cmds, m.scheduleDebouncedFilter(newQuery))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || m.promptOpen || len(m.channels) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			maxOffset := len(m.channels) - m.visibleItems()
			if maxOffset < 0 {
				maxOffset = 0
			}
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.channels) {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
			}
			return m, nil
		}

		return m, nil

	case debounceTickMsg:
		// Only fire if the query hasn't changed since the debounce was scheduled
		if msg.query == m.query {
			cmds = append(cmds, m.doFilter(msg.query))
		}
		return m, tea.Batch(cmds...)

	case channelsMsg:
		if msg.query != m.query {
			return m, nil
		}
		if msg.err != nil {
			m.channels = nil
			m.cursor = 0
			m.listOffset = 0
			m.statusNote = "Error: " + msg.err.Error()
			return m, nil
		}
		m.channels = msg.channels
		m.cursor = 0
		m.listOffset = 0
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.statusNote = "copy failed: " + msg.err.Error()
		} else {
			m.statusNote = "stream URL copied"
		}
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	detailW := m.detailWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	var panels string
	if m.promptOpen {
		panels = m.renderTimePrompt(m.width, panelH+2)
	} else {
		listPanel := stylePanelBorder.
			Width(listW).
			Height(panelH).
			Render(m.renderList(listW, panelH))
		detailPanel := styleActiveBorder.
			Width(detailW).
			Height(panelH).
			Render(m.renderDetail(detailW, panelH))
		panels = lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	}

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

// renderDetail renders the right panel for the selected channel.
func (m model) renderDetail(width, height int) string {
	ch := m.current()
	if ch == nil {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("Select a channel")
	}

	group := ch.Group
	if group == "" {
		group = "ungrouped"
	}

	var b strings.Builder
	b.WriteString(styleDetailTitle.Render(ch.Name) + "\n\n")
	b.WriteString(styleDetailLabel.Render("id      ") + fmt.Sprintf("%d", ch.ID) + "\n")
	b.WriteString(styleDetailLabel.Render("group   ") + group + "\n")
	if ch.Catchup {
		b.WriteString(styleDetailLabel.Render("catchup ") +
			styleCatchup.Render(fmt.Sprintf("last %d days", ch.CatchupDays)) + "\n\n")
		b.WriteString(styleDetailLabel.Render("press C-t and describe a time, e.g.") + "\n")
		for _, ex := range timeparse.Examples() {
			b.WriteString("  " + styleModalHint.Render(ex) + "\n")
		}
	} else {
		b.WriteString(styleDetailLabel.Render("catchup ") + styleNoCatchup.Render("not available") + "\n")
	}
	return b.String()
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := m.width*55/100 - 4
	if w < 24 {
		w = 24
	}
	return w
}

func (m model) detailWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := m.width*45/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m model) visibleItems() int {
	n := m.panelHeight() / linesPerItem
	if n < 1 {
		n = 1
	}
	return n
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionDetail
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + (relY / linesPerItem)
	}
	if x > listBoxRight+1 {
		return regionDetail, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	if m.statusNote != "" {
		return styleStatusBar.Render(m.statusNote)
	}
	parts := []string{
		fmt.Sprintf("%d channels", len(m.channels)),
		"enter play live",
		"C-t catchup",
		"C-y copy url",
		"esc quit",
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) doFilter(query string) tea.Cmd {
	db := m.db
	opts := m.opts.Filter
	opts.Query = query
	return func() tea.Msg {
		channels, err := db.Filter(opts)
		return channelsMsg{query: query, channels: channels, err: err}
	}
}

func (m model) scheduleDebouncedFilter(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) copyCurrentURL() tea.Cmd {
	ch := m.current()
	if ch == nil || m.opts.LiveURL == nil {
		return nil
	}
	c := *ch
	urlFor := m.opts.LiveURL
	return func() tea.Msg {
		u, err := urlFor(c)
		if err != nil {
			return copiedMsg{err: err}
		}
		return copiedMsg{err: clipboard.WriteAll(u)}
	}
}
