package manager

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"github.com/smileynet/abook/internal/contact"
)

// SortKey selects the field a sort orders by.
type SortKey string

const (
	ByName  SortKey = "name"
	ByCity  SortKey = "city"
	ByState SortKey = "state"
	ByZip   SortKey = "zip"
)

// SortKeys lists every SortKey.
var SortKeys = []SortKey{ByName, ByCity, ByState, ByZip}

// ParseSortKey resolves a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(SortKeys))
	for i, k := range SortKeys {
		names[i] = string(k)
	}
	return "", fmt.Errorf("manager: unknown sort key %q (available: %s)", s, strings.Join(names, ", "))
}

// value extracts the sort field from c. Name sorts by full name.
func (k SortKey) value(c contact.Contact) string {
	switch k {
	case ByCity:
		return c.City
	case ByState:
		return c.State
	case ByZip:
		return c.Zip
	default:
		return c.FullName()
	}
}

// SearchByCityOrState returns contacts whose city or state equals location exactly,
// in their original order.
func (m *Manager) SearchByCityOrState(name, location string) ([]contact.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.books[name]
	if !ok {
		return nil, &BookNotFoundError{Book: name}
	}
	var out []contact.Contact
	for _, e := range entries {
		if e.contact.City == location || e.contact.State == location {
			out = append(out, e.contact)
		}
	}
	return out, nil
}

// SortContacts returns a new slice of the book's contacts ordered by key using the
// manager's collation locale. Contacts with equal keys keep their insertion order.
func (m *Manager) SortContacts(name string, key SortKey) ([]contact.Contact, error) {
	m.mu.RLock()
	list, err := m.snapshot(name)
	m.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	// collate.Collator is not safe for concurrent use.
	col := collate.New(m.locale)
	slices.SortStableFunc(list, func(a, b contact.Contact) int {
		return col.CompareString(key.value(a), key.value(b))
	})
	return list, nil
}

// SortContactsByName orders the book by full name.
func (m *Manager) SortContactsByName(name string) ([]contact.Contact, error) {
	return m.SortContacts(name, ByName)
}

// SortContactsByCity orders the book by city.
func (m *Manager) SortContactsByCity(name string) ([]contact.Contact, error) {
	return m.SortContacts(name, ByCity)
}

// SortContactsByState orders the book by state.
func (m *Manager) SortContactsByState(name string) ([]contact.Contact, error) {
	return m.SortContacts(name, ByState)
}

// SortContactsByZip orders the book by zip code.
func (m *Manager) SortContactsByZip(name string) ([]contact.Contact, error) {
	return m.SortContacts(name, ByZip)
}

// Tally counts occurrences of keys, remembering the order each key first appeared.
type Tally struct {
	keys   []string
	counts map[string]int
}

func newTally() Tally {
	return Tally{counts: make(map[string]int)}
}

func (t *Tally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.counts[key]++
}

// Keys returns the distinct keys in first-occurrence order.
func (t Tally) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Count returns the number of occurrences of key.
func (t Tally) Count(key string) int {
	return t.counts[key]
}

// Len returns the number of distinct keys.
func (t Tally) Len() int {
	return len(t.keys)
}

// LocationCounts holds independent city and state tallies for one book.
type LocationCounts struct {
	Cities Tally
	States Tally
}

// CountByCityOrState groups the book's contacts by city and by state.
func (m *Manager) CountByCityOrState(name string) (LocationCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.books[name]
	if !ok {
		return LocationCounts{}, &BookNotFoundError{Book: name}
	}
	lc := LocationCounts{Cities: newTally(), States: newTally()}
	for _, e := range entries {
		lc.Cities.add(e.contact.City)
		lc.States.add(e.contact.State)
	}
	return lc, nil
}
