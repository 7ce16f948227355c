package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/smileynet/abook/internal/contact"
	"github.com/smileynet/abook/internal/manager"
	"github.com/smileynet/abook/internal/render"
)

func addContact(t *testing.T, m *manager.Manager, book, first, last, city, state, zip string) {
	t.Helper()
	c, err := contact.New(contact.Details{
		FirstName:   first,
		LastName:    last,
		Address:     "123 Main St",
		City:        city,
		State:       state,
		Zip:         zip,
		PhoneNumber: "9876543210",
		Email:       strings.ToLower(first) + "@example.com",
	})
	if err != nil {
		t.Fatalf("contact.New(%s %s) error = %v", first, last, err)
	}
	if _, err := m.AddContactToBook(book, c); err != nil {
		t.Fatalf("AddContactToBook() error = %v", err)
	}
}

func testManager(t *testing.T) *manager.Manager {
	t.Helper()
	m := manager.New()
	for _, b := range []string{"Family", "Work"} {
		if err := m.CreateAddressBook(b); err != nil {
			t.Fatal(err)
		}
	}
	addContact(t, m, "Family", "John", "Doe", "Los Angeles", "California", "900002")
	addContact(t, m, "Family", "Alice", "Johnson", "Seattle", "Washington", "981041")
	addContact(t, m, "Family", "Bob", "Smith", "Los Angeles", "California", "900001")
	addContact(t, m, "Work", "Carol", "White", "Boston", "Massachusetts", "021080")
	return m
}

func newSizedModel(t *testing.T, w, h int) Model {
	t.Helper()
	m := NewModel(testManager(t))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

func press(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(testManager(t))

	if m.Book() != "Family" {
		t.Errorf("Book() = %q, want Family", m.Book())
	}
	if m.SortKey() != manager.ByName {
		t.Errorf("SortKey() = %q, want %q", m.SortKey(), manager.ByName)
	}
	if m.Shown() != 3 {
		t.Errorf("Shown() = %d, want 3", m.Shown())
	}
}

func TestNewModel_NoBooks(t *testing.T) {
	m := NewModel(manager.New())
	if m.Book() != "" {
		t.Errorf("Book() = %q, want empty", m.Book())
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 20})
	view := updated.(Model).View()
	if !strings.Contains(view, "No address books.") {
		t.Errorf("view should mention no books:\n%s", view)
	}
}

func TestModel_ViewBeforeSize(t *testing.T) {
	m := NewModel(testManager(t))
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}

func TestModel_ViewListsBooksAndContacts(t *testing.T) {
	m := newSizedModel(t, 140, 20)
	view := m.View()

	for _, want := range []string{"Family (3)", "Work (1)", "sorted by name", "Alice Johnson , 9876543210"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Index(view, "Alice Johnson") > strings.Index(view, "John Doe") {
		t.Error("Alice Johnson should be listed before John Doe when sorted by name")
	}
}

func TestModel_CursorMovesBetweenBooks(t *testing.T) {
	m := newSizedModel(t, 120, 20)

	m = press(m, runes("j"))
	if m.Book() != "Work" || m.Shown() != 1 {
		t.Errorf("after j: Book() = %q, Shown() = %d", m.Book(), m.Shown())
	}

	// Down at the last book stays put.
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Book() != "Work" {
		t.Errorf("after down at end: Book() = %q, want Work", m.Book())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyUp}, runes("k"))
	if m.Book() != "Family" {
		t.Errorf("after up: Book() = %q, want Family", m.Book())
	}
}

func TestModel_SortCycles(t *testing.T) {
	m := newSizedModel(t, 120, 20)

	for _, want := range []manager.SortKey{manager.ByCity, manager.ByState, manager.ByZip, manager.ByName} {
		m = press(m, runes("s"))
		if m.SortKey() != want {
			t.Errorf("SortKey() = %q, want %q", m.SortKey(), want)
		}
	}
}

func TestModel_SortByZipOrdersListing(t *testing.T) {
	m := newSizedModel(t, 140, 20)
	m = press(m, runes("s"), runes("s"), runes("s"))

	view := m.View()
	if !strings.Contains(view, "sorted by zip") {
		t.Fatalf("view should show zip sort:\n%s", view)
	}
	bob := strings.Index(view, "Bob Smith")
	john := strings.Index(view, "John Doe")
	alice := strings.Index(view, "Alice Johnson")
	if bob > john || john > alice {
		t.Errorf("zip order wrong: Bob@%d John@%d Alice@%d", bob, john, alice)
	}
}

func TestModel_Filter(t *testing.T) {
	m := newSizedModel(t, 140, 20)

	// Given the filter input is opened and a state typed
	m = press(m, runes("/"))
	if !m.filtering {
		t.Fatal("/ should start filtering")
	}
	m = press(m, runes("Washington"))

	// Then the listing follows the typed text
	if m.Filter() != "Washington" || m.Shown() != 1 {
		t.Errorf("Filter() = %q, Shown() = %d; want Washington, 1", m.Filter(), m.Shown())
	}

	// When applied, browsing keys work again with the filter kept
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.filtering {
		t.Error("enter should stop filtering")
	}
	if !strings.Contains(m.View(), `filter "Washington"`) {
		t.Errorf("status should show the filter:\n%s", m.View())
	}

	// And esc clears it
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Filter() != "" || m.Shown() != 3 {
		t.Errorf("after esc: Filter() = %q, Shown() = %d", m.Filter(), m.Shown())
	}
}

func TestModel_FilterNoMatches(t *testing.T) {
	m := newSizedModel(t, 140, 20)
	m = press(m, runes("/"), runes("Nowhere"), tea.KeyMsg{Type: tea.KeyEnter})

	if m.Shown() != 0 {
		t.Errorf("Shown() = %d, want 0", m.Shown())
	}
	if !strings.Contains(m.View(), render.NoContacts) {
		t.Errorf("view should show %q:\n%s", render.NoContacts, m.View())
	}
}

func TestModel_FilterWithDuplicateFullNames(t *testing.T) {
	// Given two contacts sharing a full name after an unvalidated rename
	mgr := manager.New()
	if err := mgr.CreateAddressBook("Family"); err != nil {
		t.Fatal(err)
	}
	addContact(t, mgr, "Family", "John", "Doe", "Los Angeles", "California", "900001")
	addContact(t, mgr, "Family", "Jane", "Doe", "Seattle", "Washington", "981041")
	first := "John"
	if err := mgr.EditContact("Family", "Jane Doe", contact.Update{FirstName: &first}); err != nil {
		t.Fatal(err)
	}
	m := NewModel(mgr)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 20})
	m = updated.(Model)

	// When filtering on the renamed contact's city
	m = press(m, runes("/"), runes("Seattle"), tea.KeyMsg{Type: tea.KeyEnter})

	// Then only that contact is listed
	if m.Shown() != 1 {
		t.Errorf("Shown() = %d, want 1", m.Shown())
	}
	if strings.Contains(m.View(), "Los Angeles , California") {
		t.Errorf("Los Angeles contact should be filtered out:\n%s", m.View())
	}
}

func TestModel_FilterIsExact(t *testing.T) {
	tests := []struct {
		name   string
		filter string
	}{
		{"lowercase", "seattle"},
		{"trailing space", "Seattle "},
		{"prefix", "Seat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newSizedModel(t, 140, 20)
			m = press(m, runes("/"), runes(tt.filter), tea.KeyMsg{Type: tea.KeyEnter})

			if m.Filter() != tt.filter || m.Shown() != 0 {
				t.Errorf("Filter() = %q, Shown() = %d; want %q, 0", m.Filter(), m.Shown(), tt.filter)
			}
		})
	}
}

func TestModel_FilterCancelClears(t *testing.T) {
	m := newSizedModel(t, 120, 20)
	m = press(m, runes("/"), runes("Seattle"), tea.KeyMsg{Type: tea.KeyEsc})

	if m.filtering || m.Filter() != "" || m.Shown() != 3 {
		t.Errorf("after cancel: filtering=%v Filter()=%q Shown()=%d", m.filtering, m.Filter(), m.Shown())
	}
}

func TestModel_QWhileFilteringIsText(t *testing.T) {
	m := newSizedModel(t, 120, 20)
	m = press(m, runes("/"), runes("q"))

	if !m.filtering || m.Filter() != "q" {
		t.Errorf("filtering=%v Filter()=%q; want q typed into the filter", m.filtering, m.Filter())
	}
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"q", runes("q")},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newSizedModel(t, 90, 20)
			_, cmd := m.Update(tt.msg)
			if cmd == nil {
				t.Fatal("should return a quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("command produced %T, want tea.QuitMsg", cmd())
			}
		})
	}
}

type failingSource struct{ Source }

func (failingSource) BookNames() []string { return []string{"Broken"} }

func (failingSource) SortContacts(string, manager.SortKey) ([]contact.Contact, error) {
	return nil, errors.New("boom")
}

func (failingSource) CountContactsInBook(string) (int, error) { return 0, nil }

func TestModel_SourceErrorShown(t *testing.T) {
	m := NewModel(failingSource{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	if view := updated.(Model).View(); !strings.Contains(view, "Error: boom") {
		t.Errorf("view should show the error:\n%s", view)
	}
}

func TestPaneWidths(t *testing.T) {
	tests := []struct {
		total, left, right int
	}{
		{0, 0, 0},
		{40, MinLeftWidth, 40 - MinLeftWidth},
		{200, 50, 150},
	}
	for _, tt := range tests {
		l, r := PaneWidths(tt.total)
		if l != tt.left || r != tt.right {
			t.Errorf("PaneWidths(%d) = %d, %d; want %d, %d", tt.total, l, r, tt.left, tt.right)
		}
	}
}

// TestModel_Teatest_Browse drives the model through a real program loop.
func TestModel_Teatest_Browse(t *testing.T) {
	m := NewModel(testManager(t))

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 24))

	tm.Send(runes("s"))
	tm.Send(runes("/"))
	tm.Type("California")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(runes("q"))

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	if final.SortKey() != manager.ByCity {
		t.Errorf("SortKey() = %q, want %q", final.SortKey(), manager.ByCity)
	}
	if final.Filter() != "California" || final.Shown() != 2 {
		t.Errorf("Filter() = %q, Shown() = %d; want California, 2", final.Filter(), final.Shown())
	}
}
