// Package book provides a standalone, append-only list of contacts.
package book

import (
	"io"

	"github.com/smileynet/abook/internal/contact"
	"github.com/smileynet/abook/internal/render"
)

// AddressBook holds contacts in insertion order. It performs no duplicate checks.
type AddressBook struct {
	contacts []*contact.Contact
}

// New creates an empty AddressBook.
func New() *AddressBook {
	return &AddressBook{}
}

// Add appends c. It returns contact.ErrInvalidContact if c is nil or was not built by contact.New.
func (b *AddressBook) Add(c *contact.Contact) error {
	if err := contact.Check(c); err != nil {
		return err
	}
	b.contacts = append(b.contacts, c)
	return nil
}

// Contacts returns the stored contacts in insertion order.
func (b *AddressBook) Contacts() []*contact.Contact {
	return append([]*contact.Contact(nil), b.contacts...)
}

// Len returns the number of contacts.
func (b *AddressBook) Len() int {
	return len(b.contacts)
}

// Display writes one plain line per contact in insertion order. An empty book writes nothing.
func (b *AddressBook) Display(w io.Writer) error {
	if len(b.contacts) == 0 {
		return nil
	}
	list := make([]contact.Contact, len(b.contacts))
	for i, c := range b.contacts {
		list[i] = *c
	}
	return (&render.Renderer{}).Contacts(w, list)
}
