package manager

import (
	"io"

	"github.com/smileynet/abook/internal/contact"
	"github.com/smileynet/abook/internal/render"
)

// DisplayContacts writes list in its given order, or a "no contacts found" line when empty.
func (m *Manager) DisplayContacts(w io.Writer, list []contact.Contact) error {
	return m.renderer.Contacts(w, list)
}

// DisplayAllBooks writes every book in registration order, each under its own header.
func (m *Manager) DisplayAllBooks(w io.Writer) error {
	for _, name := range m.BookNames() {
		list, err := m.Contacts(name)
		if err != nil {
			return err
		}
		if err := m.renderer.BookHeader(w, name); err != nil {
			return err
		}
		if err := m.renderer.Contacts(w, list); err != nil {
			return err
		}
	}
	return nil
}

// DisplayLocationCounts writes the city and state tallies for the named book.
func (m *Manager) DisplayLocationCounts(w io.Writer, name string) error {
	lc, err := m.CountByCityOrState(name)
	if err != nil {
		return err
	}
	if err := m.renderer.Tally(w, "Contacts by city", tallyRows(lc.Cities)); err != nil {
		return err
	}
	return m.renderer.Tally(w, "Contacts by state", tallyRows(lc.States))
}

func tallyRows(t Tally) []render.Count {
	rows := make([]render.Count, 0, t.Len())
	for _, k := range t.keys {
		rows = append(rows, render.Count{Key: k, N: t.counts[k]})
	}
	return rows
}
