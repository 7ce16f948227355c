package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/abook"
	"github.com/smileynet/abook/internal/config"
	"github.com/smileynet/abook/internal/contact"
	"github.com/smileynet/abook/internal/manager"
	"github.com/smileynet/abook/internal/render"
	"github.com/smileynet/abook/internal/script"
	"github.com/smileynet/abook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// localScenarioDir shadows the embedded scenarios.
const localScenarioDir = ".abook/scenarios"

// CLI is the top-level command structure for abook.
type CLI struct {
	Version  kong.VersionFlag `help:"Show version." short:"V"`
	Run      RunCmd           `cmd:"" help:"Run a scenario of address book operations."`
	Demo     DemoCmd          `cmd:"" help:"Run the built-in demo session."`
	Browse   BrowseCmd        `cmd:"" help:"Load a scenario and browse its address books."`
	Validate ValidateCmd      `cmd:"" help:"Check a single contact against the validation rules."`
}

// SessionFlags override configuration for commands that run scenarios.
type SessionFlags struct {
	Format          string `help:"Output format: plain or table." placeholder:"FORMAT"`
	Color           string `help:"Color mode: auto, always, or never." placeholder:"MODE"`
	Locale          string `help:"Collation locale for sorting (BCP 47)." placeholder:"TAG"`
	Strict          bool   `help:"Re-validate contacts on edit."`
	ContinueOnError bool   `help:"Keep running after a failed step."`
}

// apply overlays non-empty flags onto cfg and re-validates it.
func (f SessionFlags) apply(cfg *config.Config) error {
	if f.Format != "" {
		cfg.Display.Format = f.Format
	}
	if f.Color != "" {
		cfg.Display.Color = f.Color
	}
	if f.Locale != "" {
		cfg.Sort.Locale = f.Locale
	}
	if f.Strict {
		cfg.Edit.Strict = true
	}
	if f.ContinueOnError {
		cfg.Script.FailureMode = string(script.Continue)
	}
	return cfg.Validate()
}

// RunCmd runs a scenario file.
type RunCmd struct {
	Scenario string       `arg:"" help:"Scenario file, or name under .abook/scenarios or the built-ins."`
	Flags    SessionFlags `embed:""`
}

// Run executes the run command.
func (r *RunCmd) Run() error {
	cfg, err := sessionConfig(r.Flags)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	s, err := loadScenario(r.Scenario)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return runScenario(ctx, os.Stdout, cfg, s)
}

// DemoCmd runs the embedded demo scenario.
type DemoCmd struct {
	Flags SessionFlags `embed:""`
}

// Run executes the demo command.
func (d *DemoCmd) Run() error {
	cfg, err := sessionConfig(d.Flags)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return d.run(ctx, os.Stdout, cfg)
}

// run executes the demo with the given writer and config, enabling testable wiring.
func (d *DemoCmd) run(ctx context.Context, w io.Writer, cfg *config.Config) error {
	s, err := loadScenario(abook.DemoScenario)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	return runScenario(ctx, w, cfg, s)
}

// BrowseCmd loads a scenario without output and opens the browser TUI.
type BrowseCmd struct {
	Scenario string `arg:"" help:"Scenario file, or name under .abook/scenarios or the built-ins." optional:"" default:"demo.yaml"`
	Locale   string `help:"Collation locale for sorting (BCP 47)." placeholder:"TAG"`
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds the manager and launches the browser.
func (b *BrowseCmd) Run() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}

	m, err := b.load()
	if err != nil {
		return err
	}

	prog := tea.NewProgram(tui.NewModel(m), tea.WithAltScreen())
	return b.run(true, prog)
}

// load runs the scenario into a fresh manager, discarding its output.
func (b *BrowseCmd) load() (*manager.Manager, error) {
	cfg, err := sessionConfig(SessionFlags{Locale: b.Locale})
	if err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}
	s, err := loadScenario(b.Scenario)
	if err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}

	m := manager.New(
		manager.WithLocale(cfg.LocaleTag()),
		manager.WithStrictEdits(cfg.Edit.Strict),
	)
	runner := script.NewRunner(m, io.Discard, script.WithFailureMode(script.FailureMode(cfg.Script.FailureMode)))
	if _, err := runner.Run(context.Background(), s); err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}
	return m, nil
}

// run executes the tea program, enabling testable wiring.
func (b *BrowseCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// ValidateCmd checks one contact's fields.
type ValidateCmd struct {
	First   string `help:"First name." required:""`
	Last    string `help:"Last name." required:""`
	Address string `help:"Street address." required:""`
	City    string `help:"City." required:""`
	State   string `help:"State." required:""`
	Zip     string `help:"ZIP code (6 digits)." required:""`
	Phone   string `help:"Phone number (10 digits)." required:""`
	Email   string `help:"Email address." required:""`
}

// Run executes the validate command.
func (v *ValidateCmd) Run() error {
	return v.run(os.Stdout)
}

// run validates the contact and reports the result to w.
func (v *ValidateCmd) run(w io.Writer) error {
	c, err := contact.New(contact.Details{
		FirstName:   v.First,
		LastName:    v.Last,
		Address:     v.Address,
		City:        v.City,
		State:       v.State,
		Zip:         v.Zip,
		PhoneNumber: v.Phone,
		Email:       v.Email,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Valid contact: %s\n", render.Line(c))
	return nil
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/abook/config.yaml"),
		".abook/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sessionConfig loads config and applies command-line overrides.
func sessionConfig(flags SessionFlags) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadScenario reads name from disk if it exists, otherwise from the local
// scenario directory or the embedded built-ins.
func loadScenario(name string) (script.Scenario, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return script.LoadFile(name)
	}
	return script.LoadFS(abook.OverlayFS(localScenarioDir, abook.Scenarios), name)
}

// runScenario wires a manager and runner from cfg and executes s, writing to w.
func runScenario(ctx context.Context, w io.Writer, cfg *config.Config, s script.Scenario) error {
	format, err := render.ParseFormat(cfg.Display.Format)
	if err != nil {
		return err
	}
	r := render.New(format, render.ColorEnabled(cfg.Display.Color, w))

	m := manager.New(
		manager.WithLocale(cfg.LocaleTag()),
		manager.WithStrictEdits(cfg.Edit.Strict),
		manager.WithRenderer(r),
		manager.WithEventCallback(confirmationCallback(w, r)),
	)

	runner := script.NewRunner(m, w,
		script.WithRenderer(r),
		script.WithFailureMode(script.FailureMode(cfg.Script.FailureMode)),
	)
	_, err = runner.Run(ctx, s)
	return err
}

// confirmationCallback prints confirmations for edits and deletions.
func confirmationCallback(w io.Writer, r *render.Renderer) manager.EventCallback {
	return func(ev manager.Event) {
		switch ev.Kind {
		case manager.ContactUpdated, manager.ContactDeleted:
			_ = r.Message(w, ev.String())
		}
	}
}

const (
	exitSuccess   = 0
	exitOperation = 1
	exitSetup     = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *script.StepError
	if errors.As(err, &se) {
		return exitOperation
	}
	if errors.Is(err, script.ErrStepsFailed) || errors.Is(err, contact.ErrValidation) {
		return exitOperation
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Description("Manage address books of validated contacts."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
