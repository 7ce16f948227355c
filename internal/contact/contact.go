// Package contact defines the validated contact record stored in address books.
package contact

import (
	"errors"
	"fmt"
	"regexp"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrValidation     = errors.New("contact: validation failed")
	ErrInvalidContact = errors.New("contact: invalid contact object")
)

// Field names a contact attribute. Values double as YAML keys.
type Field string

const (
	FirstName   Field = "first_name"
	LastName    Field = "last_name"
	Address     Field = "address"
	City        Field = "city"
	State       Field = "state"
	Zip         Field = "zip"
	PhoneNumber Field = "phone_number"
	Email       Field = "email"
)

// Fields lists every Field in validation order.
var Fields = []Field{FirstName, LastName, Address, City, State, Zip, PhoneNumber, Email}

// Label returns the human-readable name of the field.
func (f Field) Label() string {
	switch f {
	case FirstName:
		return "First Name"
	case LastName:
		return "Last Name"
	case Address:
		return "Address"
	case City:
		return "City"
	case State:
		return "State"
	case Zip:
		return "ZIP Code"
	case PhoneNumber:
		return "Phone Number"
	case Email:
		return "Email"
	default:
		return string(f)
	}
}

// ParseField resolves a field key such as "city" or "phone_number".
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("contact: unknown field %q", s)
}

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field Field
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact: invalid %s %q", e.Field.Label(), e.Value)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// space matches the same characters as \s in ECMAScript patterns, which is wider than RE2's \s.
const space = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	namePattern    = regexp.MustCompile(`^[A-Z][a-zA-Z]{2,}$`)
	addressPattern = regexp.MustCompile(`^[A-Za-z0-9` + space + `]{4,}$`)
	zipPattern     = regexp.MustCompile(`^[0-9]{6}$`)
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern   = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)
)

// patterns maps each field to the rule it must satisfy.
var patterns = map[Field]*regexp.Regexp{
	FirstName:   namePattern,
	LastName:    namePattern,
	Address:     addressPattern,
	City:        addressPattern,
	State:       addressPattern,
	Zip:         zipPattern,
	PhoneNumber: phonePattern,
	Email:       emailPattern,
}

// Details holds the raw attribute values of a contact.
type Details struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Address     string `yaml:"address"`
	City        string `yaml:"city"`
	State       string `yaml:"state"`
	Zip         string `yaml:"zip"`
	PhoneNumber string `yaml:"phone_number"`
	Email       string `yaml:"email"`
}

// Get returns the value of field f.
func (d Details) Get(f Field) string {
	switch f {
	case FirstName:
		return d.FirstName
	case LastName:
		return d.LastName
	case Address:
		return d.Address
	case City:
		return d.City
	case State:
		return d.State
	case Zip:
		return d.Zip
	case PhoneNumber:
		return d.PhoneNumber
	case Email:
		return d.Email
	default:
		return ""
	}
}

// Validate checks every field in order and returns a *ValidationError for the first violation.
func Validate(d Details) error {
	for _, f := range Fields {
		v := d.Get(f)
		if !patterns[f].MatchString(v) {
			return &ValidationError{Field: f, Value: v}
		}
	}
	return nil
}

// Contact is a person's record. Obtain one through New; the zero value is not a valid contact.
type Contact struct {
	Details
	built bool
}

// New validates d and returns a Contact. On failure no Contact is returned.
func New(d Details) (Contact, error) {
	if err := Validate(d); err != nil {
		return Contact{}, err
	}
	return Contact{Details: d, built: true}, nil
}

// MustNew is New for fixtures and tests. It panics on invalid input.
func MustNew(d Details) Contact {
	c, err := New(d)
	if err != nil {
		panic(err)
	}
	return c
}

// FullName returns first and last name joined by a single space.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Revalidate re-runs the construction rules over the current values.
func (c Contact) Revalidate() error {
	return Validate(c.Details)
}

// Check reports ErrInvalidContact unless c was produced by New.
func Check(c *Contact) error {
	if c == nil || !c.built {
		return ErrInvalidContact
	}
	return nil
}
