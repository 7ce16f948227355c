package manager

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrDuplicateBook    = errors.New("manager: address book already exists")
	ErrBookNotFound     = errors.New("manager: address book does not exist")
	ErrDuplicateContact = errors.New("manager: duplicate contact")
	ErrContactNotFound  = errors.New("manager: contact not found")
)

// DuplicateBookError indicates a book name is already registered.
type DuplicateBookError struct {
	Book string
}

func (e *DuplicateBookError) Error() string {
	return fmt.Sprintf("address book '%s' already exists", e.Book)
}

func (e *DuplicateBookError) Is(target error) bool { return target == ErrDuplicateBook }

// BookNotFoundError indicates an operation targeted an unregistered book.
type BookNotFoundError struct {
	Book string
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("address book '%s' does not exist", e.Book)
}

func (e *BookNotFoundError) Is(target error) bool { return target == ErrBookNotFound }

// DuplicateContactError indicates the book already holds a contact with the same full name.
type DuplicateContactError struct {
	Book     string
	FullName string
}

func (e *DuplicateContactError) Error() string {
	return fmt.Sprintf("duplicate contact '%s' found in '%s'", e.FullName, e.Book)
}

func (e *DuplicateContactError) Is(target error) bool { return target == ErrDuplicateContact }

// ContactNotFoundError indicates no contact with the full name exists in the book.
type ContactNotFoundError struct {
	Book     string
	FullName string
}

func (e *ContactNotFoundError) Error() string {
	return fmt.Sprintf("contact '%s' not found in '%s'", e.FullName, e.Book)
}

func (e *ContactNotFoundError) Is(target error) bool { return target == ErrContactNotFound }
