// Package script parses YAML scenarios of address book operations and runs them
// against a manager.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/smileynet/abook/internal/contact"
	"github.com/smileynet/abook/internal/manager"
)

// Op names a scenario step operation.
type Op string

const (
	OpCreateBook      Op = "create_book"
	OpAddContact      Op = "add_contact"
	OpEditContact     Op = "edit_contact"
	OpDeleteContact   Op = "delete_contact"
	OpFindContact     Op = "find_contact"
	OpCountContacts   Op = "count_contacts"
	OpCountTotal      Op = "count_total"
	OpSearch          Op = "search"
	OpCountByLocation Op = "count_by_location"
	OpSort            Op = "sort"
	OpDisplay         Op = "display"
	OpDisplayAll      Op = "display_all"
)

// Step is a single validated operation.
type Step struct {
	Op       Op
	Title    string // Optional heading printed before the step runs
	Book     string
	FullName string
	Location string
	SortBy   manager.SortKey
	Contact  contact.Details
	Update   contact.Update
}

// Scenario is an ordered list of steps.
type Scenario struct {
	Name  string
	Steps []Step
}

// stepYAML is the YAML representation of a Step.
type stepYAML struct {
	Op       string            `yaml:"op"`
	Title    string            `yaml:"title,omitempty"`
	Book     string            `yaml:"book,omitempty"`
	Name     string            `yaml:"name,omitempty"`     // Contact full name
	Location string            `yaml:"location,omitempty"` // City or state for search
	By       string            `yaml:"by,omitempty"`       // Sort key
	Contact  *contact.Details  `yaml:"contact,omitempty"`
	Set      map[string]string `yaml:"set,omitempty"` // Field updates for edit_contact
}

// scenarioFile is the top-level YAML structure for a scenario file.
type scenarioFile struct {
	Name  string     `yaml:"name"`
	Steps []stepYAML `yaml:"steps"`
}

// LoadFile loads a scenario from a YAML file.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("script: reading %s: %w", path, err)
	}
	return Parse(data)
}

// LoadFS loads a scenario named name from fsys.
func LoadFS(fsys fs.FS, name string) (Scenario, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Scenario{}, fmt.Errorf("script: reading %s: %w", name, err)
	}
	return Parse(data)
}

// Parse parses a scenario from YAML bytes.
func Parse(data []byte) (Scenario, error) {
	var file scenarioFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return Scenario{}, fmt.Errorf("script: parsing YAML: %w", err)
	}

	if len(file.Steps) == 0 {
		return Scenario{}, errors.New("script: no steps defined")
	}

	steps := make([]Step, len(file.Steps))
	for i, sy := range file.Steps {
		st, err := convertStep(sy)
		if err != nil {
			return Scenario{}, fmt.Errorf("script: steps[%d] %q: %w", i, sy.Op, err)
		}
		steps[i] = st
	}

	return Scenario{Name: file.Name, Steps: steps}, nil
}

// convertStep converts a stepYAML to a Step, checking the fields each op requires.
func convertStep(sy stepYAML) (Step, error) {
	st := Step{
		Op:       Op(sy.Op),
		Title:    sy.Title,
		Book:     sy.Book,
		FullName: sy.Name,
		Location: sy.Location,
	}

	switch st.Op {
	case OpCountTotal, OpDisplayAll:
		return st, nil
	case OpCreateBook, OpCountContacts, OpCountByLocation, OpDisplay:
		return st, requireBook(st)
	case OpAddContact:
		if sy.Contact == nil {
			return Step{}, errors.New("contact is required")
		}
		st.Contact = *sy.Contact
		return st, requireBook(st)
	case OpFindContact, OpDeleteContact:
		if err := requireBook(st); err != nil {
			return Step{}, err
		}
		return st, requireName(st)
	case OpEditContact:
		if err := requireBook(st); err != nil {
			return Step{}, err
		}
		if err := requireName(st); err != nil {
			return Step{}, err
		}
		u, err := parseUpdate(sy.Set)
		if err != nil {
			return Step{}, err
		}
		st.Update = u
		return st, nil
	case OpSearch:
		if err := requireBook(st); err != nil {
			return Step{}, err
		}
		if st.Location == "" {
			return Step{}, errors.New("location is required")
		}
		return st, nil
	case OpSort:
		if err := requireBook(st); err != nil {
			return Step{}, err
		}
		by := sy.By
		if by == "" {
			by = string(manager.ByName)
		}
		key, err := manager.ParseSortKey(by)
		if err != nil {
			return Step{}, err
		}
		st.SortBy = key
		return st, nil
	case "":
		return Step{}, errors.New("op is required")
	default:
		return Step{}, fmt.Errorf("unknown op %q", sy.Op)
	}
}

func requireBook(st Step) error {
	if st.Book == "" {
		return errors.New("book is required")
	}
	return nil
}

func requireName(st Step) error {
	if st.FullName == "" {
		return errors.New("name is required")
	}
	return nil
}

// parseUpdate converts field/value pairs into a contact.Update, rejecting unknown fields.
func parseUpdate(set map[string]string) (contact.Update, error) {
	if len(set) == 0 {
		return contact.Update{}, errors.New("set must name at least one field")
	}
	// Sorted keys give a deterministic error for the first unknown field.
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var u contact.Update
	for _, k := range keys {
		f, err := contact.ParseField(k)
		if err != nil {
			return contact.Update{}, err
		}
		if u, err = u.Set(f, set[k]); err != nil {
			return contact.Update{}, err
		}
	}
	return u, nil
}
