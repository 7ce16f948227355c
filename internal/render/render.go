// Package render writes contacts, book listings, and tallies as human-readable text.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/smileynet/abook/internal/contact"
)

// NoContacts is printed in place of an empty listing.
const NoContacts = "No contacts found."

// Format selects the listing layout.
type Format string

const (
	FormatPlain Format = "plain"
	FormatTable Format = "table"
)

// ParseFormat resolves a format name. Empty selects plain.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatPlain:
		return FormatPlain, nil
	case FormatTable:
		return FormatTable, nil
	default:
		return "", fmt.Errorf("render: unknown format %q (must be plain or table)", s)
	}
}

// Count is one row of a frequency table.
type Count struct {
	Key string
	N   int
}

// Renderer writes output in a fixed format. The zero value renders plain, uncolored text.
type Renderer struct {
	Format Format
	Color  bool
}

// New creates a Renderer.
func New(format Format, color bool) *Renderer {
	return &Renderer{Format: format, Color: color}
}

// Line formats a contact as: full name, phone, email, city, state, zip.
func Line(c contact.Contact) string {
	return strings.Join([]string{c.FullName(), c.PhoneNumber, c.Email, c.City, c.State, c.Zip}, " , ")
}

// Contacts writes one line per contact in the given order, or NoContacts if list is empty.
func (r *Renderer) Contacts(w io.Writer, list []contact.Contact) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, r.paint(w, dimStyle, NoContacts))
		return err
	}

	if r.Format == FormatTable {
		t := r.newTable(w)
		t.AppendHeader(table.Row{"Name", "Phone", "Email", "City", "State", "ZIP"})
		for _, c := range list {
			t.AppendRow(table.Row{c.FullName(), c.PhoneNumber, c.Email, c.City, c.State, c.Zip})
		}
		t.Render()
		_, err := fmt.Fprintf(w, "(%d contacts)\n", len(list))
		return err
	}

	for _, c := range list {
		if _, err := fmt.Fprintln(w, Line(c)); err != nil {
			return err
		}
	}
	return nil
}

// BookHeader writes the banner printed above a book's listing.
func (r *Renderer) BookHeader(w io.Writer, name string) error {
	_, err := fmt.Fprintf(w, "\n%s\n", r.paint(w, headerStyle, "📖 Address Book: "+name))
	return err
}

// Heading writes a section title preceded by a blank line.
func (r *Renderer) Heading(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, "\n%s\n", r.paint(w, titleStyle, title))
	return err
}

// Message writes a single line of text.
func (r *Renderer) Message(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, text)
	return err
}

// Tally writes a titled frequency table in the order given.
func (r *Renderer) Tally(w io.Writer, title string, counts []Count) error {
	if r.Format == FormatTable {
		t := r.newTable(w)
		t.SetTitle(title)
		t.AppendHeader(table.Row{"Key", "Count"})
		for _, c := range counts {
			t.AppendRow(table.Row{c.Key, c.N})
		}
		t.Render()
		return nil
	}

	if _, err := fmt.Fprintln(w, r.paint(w, titleStyle, title+":")); err != nil {
		return err
	}
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "  "+r.paint(w, dimStyle, "(none)"))
		return err
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(w, "  %s: %d\n", c.Key, c.N); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

type styleKind int

const (
	titleStyle styleKind = iota
	headerStyle
	dimStyle
)

// paint styles s for kind. Text passes through unchanged when color is off.
func (r *Renderer) paint(w io.Writer, kind styleKind, s string) string {
	if r == nil || !r.Color {
		return s
	}
	lr := lipgloss.NewRenderer(w)
	lr.SetColorProfile(termenv.ANSI256)
	style := lr.NewStyle().Bold(true)
	switch kind {
	case headerStyle:
		style = style.Foreground(lipgloss.Color("12"))
	case dimStyle:
		style = lr.NewStyle().Foreground(lipgloss.Color("245"))
	}
	return style.Render(s)
}

// ColorEnabled resolves a color mode ("auto", "always", "never") for writer w.
// Auto enables color only when w is a terminal.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return IsTTY(w)
	}
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
