package script

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/smileynet/abook/internal/contact"
	"github.com/smileynet/abook/internal/manager"
	"github.com/smileynet/abook/internal/render"
)

// ErrStepsFailed is returned in continue mode when one or more steps failed.
var ErrStepsFailed = errors.New("script: one or more steps failed")

// FailureMode controls what happens after a step fails.
type FailureMode string

const (
	Abort    FailureMode = "abort"
	Continue FailureMode = "continue"
)

// StepError wraps the failure of a single step.
type StepError struct {
	Index int
	Op    Op
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Result summarizes a scenario run.
type Result struct {
	Executed int
	Failed   []*StepError
}

// Runner executes scenarios against a manager, writing query output to w.
type Runner struct {
	mgr  *manager.Manager
	w    io.Writer
	r    *render.Renderer
	mode FailureMode
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRenderer sets the renderer for headings and messages.
func WithRenderer(r *render.Renderer) RunnerOption {
	return func(rn *Runner) {
		if r != nil {
			rn.r = r
		}
	}
}

// WithFailureMode sets the failure mode. Empty means Abort.
func WithFailureMode(mode FailureMode) RunnerOption {
	return func(rn *Runner) {
		if mode != "" {
			rn.mode = mode
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(m *manager.Manager, w io.Writer, opts ...RunnerOption) *Runner {
	rn := &Runner{mgr: m, w: w, r: &render.Renderer{}, mode: Abort}
	for _, opt := range opts {
		opt(rn)
	}
	return rn
}

// Run executes the scenario's steps in order. In Abort mode the first failure is
// returned as a *StepError. In Continue mode each failure is reported to the
// writer and ErrStepsFailed is returned at the end.
func (rn *Runner) Run(ctx context.Context, s Scenario) (Result, error) {
	var res Result
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if st.Title != "" {
			if err := rn.r.Heading(rn.w, st.Title); err != nil {
				return res, err
			}
		}

		res.Executed++
		if err := rn.exec(st); err != nil {
			se := &StepError{Index: i, Op: st.Op, Err: err}
			res.Failed = append(res.Failed, se)
			if rn.mode != Continue {
				return res, se
			}
			_, _ = fmt.Fprintf(rn.w, "error: %v\n", se)
		}
	}

	if len(res.Failed) > 0 {
		return res, fmt.Errorf("%w (%d of %d)", ErrStepsFailed, len(res.Failed), res.Executed)
	}
	return res, nil
}

// exec runs a single step.
func (rn *Runner) exec(st Step) error {
	m := rn.mgr
	switch st.Op {
	case OpCreateBook:
		return m.CreateAddressBook(st.Book)

	case OpAddContact:
		c, err := contact.New(st.Contact)
		if err != nil {
			return err
		}
		_, err = m.AddContactToBook(st.Book, c)
		return err

	case OpEditContact:
		return m.EditContact(st.Book, st.FullName, st.Update)

	case OpDeleteContact:
		return m.DeleteContact(st.Book, st.FullName)

	case OpFindContact:
		c, found, err := m.FindContactByName(st.Book, st.FullName)
		if err != nil {
			return err
		}
		if !found {
			return rn.r.Message(rn.w, fmt.Sprintf("Contact '%s' not found in '%s'.", st.FullName, st.Book))
		}
		return m.DisplayContacts(rn.w, []contact.Contact{c})

	case OpCountContacts:
		n, err := m.CountContactsInBook(st.Book)
		if err != nil {
			return err
		}
		return rn.r.Message(rn.w, fmt.Sprintf("Contacts in '%s': %d", st.Book, n))

	case OpCountTotal:
		return rn.r.Message(rn.w, fmt.Sprintf("Total contacts: %d", m.CountTotalContacts()))

	case OpSearch:
		list, err := m.SearchByCityOrState(st.Book, st.Location)
		if err != nil {
			return err
		}
		return m.DisplayContacts(rn.w, list)

	case OpCountByLocation:
		return m.DisplayLocationCounts(rn.w, st.Book)

	case OpSort:
		list, err := m.SortContacts(st.Book, st.SortBy)
		if err != nil {
			return err
		}
		return m.DisplayContacts(rn.w, list)

	case OpDisplay:
		list, err := m.Contacts(st.Book)
		if err != nil {
			return err
		}
		return m.DisplayContacts(rn.w, list)

	case OpDisplayAll:
		return m.DisplayAllBooks(rn.w)

	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
}
