// Package manager keeps named address books and enforces per-book uniqueness of contacts.
//
// Contacts are identified by full name within a book. Each stored contact also
// receives an immutable UUID at insertion, usable as a secondary lookup key.
package manager

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/smileynet/abook/internal/contact"
	"github.com/smileynet/abook/internal/render"
)

// EventKind identifies a successful mutation.
type EventKind string

const (
	BookCreated    EventKind = "book_created"
	ContactAdded   EventKind = "contact_added"
	ContactUpdated EventKind = "contact_updated"
	ContactDeleted EventKind = "contact_deleted"
)

// Event describes a completed mutation.
type Event struct {
	Kind     EventKind
	Book     string
	FullName string
	ID       uuid.UUID
}

// String returns the confirmation line for the event.
func (e Event) String() string {
	switch e.Kind {
	case BookCreated:
		return fmt.Sprintf("Address Book '%s' created.", e.Book)
	case ContactAdded:
		return fmt.Sprintf("Contact '%s' added to '%s'.", e.FullName, e.Book)
	case ContactUpdated:
		return fmt.Sprintf("Contact '%s' updated successfully.", e.FullName)
	case ContactDeleted:
		return fmt.Sprintf("Contact '%s' deleted successfully.", e.FullName)
	default:
		return string(e.Kind)
	}
}

// EventCallback receives mutation events. It is invoked after the mutation
// completes and outside the manager's lock, so it may call back into the Manager.
type EventCallback func(Event)

// entry is a stored contact with its insertion-time identifier.
type entry struct {
	id      uuid.UUID
	contact contact.Contact
}

// Manager owns a set of named address books.
//
// Mutations (create, add, edit, delete) take exclusive access; queries share access.
// Query results are copies; changing them does not affect stored contacts.
type Manager struct {
	mu       sync.RWMutex
	books    map[string][]entry
	order    []string
	locale   language.Tag
	strict   bool
	onEvent  EventCallback
	renderer *render.Renderer
}

// Option configures a Manager.
type Option func(*Manager)

// New creates an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		books:    make(map[string][]entry),
		locale:   language.English,
		renderer: &render.Renderer{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithLocale sets the collation locale used by the sort operations.
func WithLocale(tag language.Tag) Option {
	return func(m *Manager) { m.locale = tag }
}

// WithStrictEdits makes EditContact validate the merged record and reject
// renames that collide with another contact in the book.
func WithStrictEdits(strict bool) Option {
	return func(m *Manager) { m.strict = strict }
}

// WithEventCallback registers a callback for mutation events.
func WithEventCallback(cb EventCallback) Option {
	return func(m *Manager) { m.onEvent = cb }
}

// WithRenderer sets the renderer used by the Display methods.
func WithRenderer(r *render.Renderer) Option {
	return func(m *Manager) {
		if r != nil {
			m.renderer = r
		}
	}
}

func (m *Manager) emit(ev Event) {
	if m.onEvent != nil {
		m.onEvent(ev)
	}
}

// CreateAddressBook registers an empty book under name.
func (m *Manager) CreateAddressBook(name string) error {
	m.mu.Lock()
	if _, ok := m.books[name]; ok {
		m.mu.Unlock()
		return &DuplicateBookError{Book: name}
	}
	m.books[name] = []entry{}
	m.order = append(m.order, name)
	m.mu.Unlock()

	m.emit(Event{Kind: BookCreated, Book: name})
	return nil
}

// BookNames returns the registered book names in registration order.
func (m *Manager) BookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// AddContactToBook appends c to the named book and returns the identifier assigned to it.
// It fails if the book is missing, c was not built by contact.New, or the book already
// holds a contact with the same full name.
func (m *Manager) AddContactToBook(name string, c contact.Contact) (uuid.UUID, error) {
	m.mu.Lock()
	entries, ok := m.books[name]
	if !ok {
		m.mu.Unlock()
		return uuid.Nil, &BookNotFoundError{Book: name}
	}
	if err := contact.Check(&c); err != nil {
		m.mu.Unlock()
		return uuid.Nil, err
	}
	fullName := c.FullName()
	if indexOf(entries, fullName) >= 0 {
		m.mu.Unlock()
		return uuid.Nil, &DuplicateContactError{Book: name, FullName: fullName}
	}
	id := uuid.New()
	m.books[name] = append(entries, entry{id: id, contact: c})
	m.mu.Unlock()

	m.emit(Event{Kind: ContactAdded, Book: name, FullName: fullName, ID: id})
	return id, nil
}

// FindContactByName returns the first contact in the book whose full name equals fullName.
// Returns (contact, true, nil) if found, (zero, false, nil) if not found.
func (m *Manager) FindContactByName(name, fullName string) (contact.Contact, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.books[name]
	if !ok {
		return contact.Contact{}, false, &BookNotFoundError{Book: name}
	}
	i := indexOf(entries, fullName)
	if i < 0 {
		return contact.Contact{}, false, nil
	}
	return entries[i].contact, true, nil
}

// FindContactByID returns the contact assigned id on insertion.
func (m *Manager) FindContactByID(name string, id uuid.UUID) (contact.Contact, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.books[name]
	if !ok {
		return contact.Contact{}, false, &BookNotFoundError{Book: name}
	}
	for _, e := range entries {
		if e.id == id {
			return e.contact, true, nil
		}
	}
	return contact.Contact{}, false, nil
}

// EditContact merges u into the contact named fullName.
// Unless strict edits are enabled the merged values are not validated.
func (m *Manager) EditContact(name, fullName string, u contact.Update) error {
	m.mu.Lock()
	entries, ok := m.books[name]
	if !ok {
		m.mu.Unlock()
		return &BookNotFoundError{Book: name}
	}
	i := indexOf(entries, fullName)
	if i < 0 {
		m.mu.Unlock()
		return &ContactNotFoundError{Book: name, FullName: fullName}
	}

	if m.strict {
		merged := entries[i].contact
		merged.UpdateDetails(u)
		if err := merged.Revalidate(); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("edit %q in %q: %w", fullName, name, err)
		}
		if renamed := merged.FullName(); renamed != fullName && indexOf(entries, renamed) >= 0 {
			m.mu.Unlock()
			return &DuplicateContactError{Book: name, FullName: renamed}
		}
	}

	entries[i].contact.UpdateDetails(u)
	id := entries[i].id
	m.mu.Unlock()

	m.emit(Event{Kind: ContactUpdated, Book: name, FullName: fullName, ID: id})
	return nil
}

// DeleteContact removes the first contact named fullName, keeping the order of the rest.
func (m *Manager) DeleteContact(name, fullName string) error {
	m.mu.Lock()
	entries, ok := m.books[name]
	if !ok {
		m.mu.Unlock()
		return &BookNotFoundError{Book: name}
	}
	i := indexOf(entries, fullName)
	if i < 0 {
		m.mu.Unlock()
		return &ContactNotFoundError{Book: name, FullName: fullName}
	}
	id := entries[i].id
	m.books[name] = append(entries[:i:i], entries[i+1:]...)
	m.mu.Unlock()

	m.emit(Event{Kind: ContactDeleted, Book: name, FullName: fullName, ID: id})
	return nil
}

// CountContactsInBook returns the number of contacts in the named book.
func (m *Manager) CountContactsInBook(name string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.books[name]
	if !ok {
		return 0, &BookNotFoundError{Book: name}
	}
	return len(entries), nil
}

// CountTotalContacts returns the number of contacts across all books.
func (m *Manager) CountTotalContacts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, entries := range m.books {
		total += len(entries)
	}
	return total
}

// Contacts returns a copy of the named book's contacts in insertion order.
func (m *Manager) Contacts(name string) ([]contact.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(name)
}

// snapshot copies a book's contacts. Callers must hold mu.
func (m *Manager) snapshot(name string) ([]contact.Contact, error) {
	entries, ok := m.books[name]
	if !ok {
		return nil, &BookNotFoundError{Book: name}
	}
	out := make([]contact.Contact, len(entries))
	for i, e := range entries {
		out[i] = e.contact
	}
	return out, nil
}

// indexOf returns the position of the first entry named fullName, or -1.
func indexOf(entries []entry, fullName string) int {
	for i, e := range entries {
		if e.contact.FullName() == fullName {
			return i
		}
	}
	return -1
}
