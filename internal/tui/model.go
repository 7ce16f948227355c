// Package tui implements a two-pane browser for address books: a book list on
// the left and the selected book's contacts on the right.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/abook/internal/contact"
	"github.com/smileynet/abook/internal/manager"
	"github.com/smileynet/abook/internal/render"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// statusHeight is the number of lines above the contact listing.
const statusHeight = 2

// Source is the read side of the address book manager used by the browser.
type Source interface {
	BookNames() []string
	CountContactsInBook(name string) (int, error)
	SortContacts(name string, key manager.SortKey) ([]contact.Contact, error)
}

var _ Source = (*manager.Manager)(nil)

// Model is the Bubble Tea model for browsing address books.
type Model struct {
	src       Source
	books     []string
	cursor    int
	sortIdx   int
	filter    textinput.Model
	filtering bool
	shown     int
	err       error
	width     int
	height    int
	viewport  viewport.Model
	help      help.Model
	keys      browseKeys
}

// NewModel creates a Model over src, selecting the first book sorted by name.
func NewModel(src Source) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "city or state"

	vp := viewport.New(0, 0)
	keys := BrowseKeyMap()
	vp.KeyMap = viewport.KeyMap{PageUp: keys.PageUp, PageDown: keys.PageDown}

	m := Model{
		src:      src,
		books:    src.BookNames(),
		filter:   ti,
		viewport: vp,
		help:     help.New(),
		keys:     keys,
	}
	m.refresh()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Book returns the selected book name, or "" when there are no books.
func (m Model) Book() string {
	if len(m.books) == 0 {
		return ""
	}
	return m.books[m.cursor]
}

// SortKey returns the active sort key.
func (m Model) SortKey() manager.SortKey {
	return manager.SortKeys[m.sortIdx]
}

// Filter returns the active city/state filter. Matching is exact.
func (m Model) Filter() string {
	return m.filter.Value()
}

// Shown returns how many contacts the listing currently shows.
func (m Model) Shown() int {
	return m.shown
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_, rightWidth := PaneWidths(msg.Width)
		vpWidth := rightWidth - borderChrome
		if vpWidth < 0 {
			vpWidth = 0
		}
		m.viewport.Width = vpWidth
		m.viewport.Height = m.listHeight()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes key messages while browsing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.books)-1 {
			m.cursor++
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.Sort):
		m.sortIdx = (m.sortIdx + 1) % len(manager.SortKeys)
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Clear):
		m.filter.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleFilterKey routes keys to the filter input. The listing follows each keystroke.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fk := FilterKeyMap()
	switch {
	case key.Matches(msg, fk.Apply):
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case key.Matches(msg, fk.Cancel):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.refresh()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refresh()
	return m, cmd
}

// refresh reloads the selected book's listing with the current sort and filter.
func (m *Model) refresh() {
	m.err = nil
	m.shown = 0
	book := m.Book()
	if book == "" {
		m.viewport.SetContent(render.NoContacts)
		return
	}

	list, err := m.src.SortContacts(book, m.SortKey())
	if err != nil {
		m.err = err
		m.viewport.SetContent("")
		return
	}

	if loc := m.Filter(); loc != "" {
		filtered := list[:0]
		for _, c := range list {
			if c.City == loc || c.State == loc {
				filtered = append(filtered, c)
			}
		}
		list = filtered
	}

	m.shown = len(list)
	m.viewport.SetContent(listing(list))
	m.viewport.GotoTop()
}

// listing formats contacts one per line.
func listing(list []contact.Contact) string {
	if len(list) == 0 {
		return render.NoContacts
	}
	lines := make([]string, len(list))
	for i, c := range list {
		lines[i] = render.Line(c)
	}
	return strings.Join(lines, "\n")
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// listHeight returns the viewport height below the status lines.
func (m Model) listHeight() int {
	h := m.contentHeight() - statusHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the two-pane layout with help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	leftStyle := FocusedBorder()
	rightStyle := UnfocusedBorder()
	if m.filtering {
		leftStyle = UnfocusedBorder()
		rightStyle = FocusedBorder()
	}
	leftStyle = leftStyle.
		Width(leftWidth - borderChrome).
		Height(contentHeight)
	rightStyle = rightStyle.
		Width(rightWidth - borderChrome).
		Height(contentHeight)

	leftPane := leftStyle.Render(m.viewLeft())
	rightPane := rightStyle.Render(m.viewRight())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	var helpView string
	if m.filtering {
		helpView = m.help.View(FilterKeyMap())
	} else {
		helpView = m.help.View(m.keys)
	}

	return lipgloss.JoinVertical(lipgloss.Left, panes, helpView)
}

// viewLeft renders the book list with contact counts.
func (m Model) viewLeft() string {
	if len(m.books) == 0 {
		return dimStyle.Render("No address books.")
	}
	var b strings.Builder
	for i, name := range m.books {
		n, _ := m.src.CountContactsInBook(name)
		line := fmt.Sprintf("%s (%d)", name, n)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		if i < len(m.books)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// viewRight renders the status line, filter input, and contact listing.
func (m Model) viewRight() string {
	status := fmt.Sprintf("📖 %s · sorted by %s", m.Book(), m.SortKey())
	if f := m.Filter(); f != "" && !m.filtering {
		status += fmt.Sprintf(" · filter %q", f)
	}

	var second string
	switch {
	case m.filtering:
		second = m.filter.View()
	case m.err != nil:
		second = fmt.Sprintf("Error: %s", m.err)
	default:
		second = dimStyle.Render(fmt.Sprintf("%d shown", m.shown))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusStyle.Render(status),
		second,
		m.viewport.View(),
	)
}
