// Package presenter provides consistent CLI output for user-facing
// messages: success, error, warning, and informational output with color
// support and a quiet mode. Log output goes through pkg/logger; everything
// the user is meant to read goes through here.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ColorMode controls colored output.
type ColorMode int

// Color modes.
const (
	// ColorAuto enables color when stdout is a terminal.
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output.
	ColorAlways
	// ColorNever disables colored output.
	ColorNever
)

// Presenter is the interface for user-facing CLI output.
type Presenter interface {
	Error(err error, context string)
	Success(message string)
	Warning(message string)
	Info(message string)
	Section(title string)
	Separator()
	SetQuiet(quiet bool)
	IsQuiet() bool
}

// TerminalPresenter implements Presenter for terminal output.
type TerminalPresenter struct {
	output      io.Writer
	errorOutput io.Writer
	quiet       bool
}

// New creates a TerminalPresenter writing to stdout/stderr with automatic
// color detection.
func New() *TerminalPresenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a TerminalPresenter with explicit outputs and
// color mode.
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *TerminalPresenter {
	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}
	return &TerminalPresenter{
		output:      output,
		errorOutput: errorOutput,
	}
}

// detectColorMode honors NO_COLOR; otherwise the color package's own
// terminal detection decides.
func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}
	return ColorAuto
}

// Error prints an error message with optional context to the error output.
// Errors are never suppressed by quiet mode.
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}
	prefix := color.New(color.FgRed, color.Bold).Sprint("Error:")
	if context != "" {
		fmt.Fprintf(p.errorOutput, "%s %s: %v\n", prefix, context, err)
		return
	}
	fmt.Fprintf(p.errorOutput, "%s %v\n", prefix, err)
}

// Success prints a success message.
func (p *TerminalPresenter) Success(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "%s %s\n", color.New(color.FgGreen, color.Bold).Sprint("✓"), message)
}

// Warning prints a warning message.
func (p *TerminalPresenter) Warning(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "%s %s\n", color.New(color.FgYellow, color.Bold).Sprint("Warning:"), message)
}

// Info prints an informational message.
func (p *TerminalPresenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, message)
}

// Section prints a section header.
func (p *TerminalPresenter) Section(title string) {
	if p.quiet {
		return
	}
	header := color.New(color.FgCyan, color.Bold).Sprint(title)
	fmt.Fprintf(p.output, "\n%s\n%s\n", header, strings.Repeat("-", len(title)))
}

// Separator prints a visual separator line.
func (p *TerminalPresenter) Separator() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, strings.Repeat("-", 40))
}

// SetQuiet toggles quiet mode, which suppresses everything but errors.
func (p *TerminalPresenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet reports whether quiet mode is enabled.
func (p *TerminalPresenter) IsQuiet() bool {
	return p.quiet
}

// Default is the package-level presenter used by the CLI commands.
var Default Presenter = New()

// Error prints via the default presenter.
func Error(err error, context string) { Default.Error(err, context) }

// Success prints via the default presenter.
func Success(message string) { Default.Success(message) }

// Warning prints via the default presenter.
func Warning(message string) { Default.Warning(message) }

// Info prints via the default presenter.
func Info(message string) { Default.Info(message) }

// Section prints via the default presenter.
func Section(title string) { Default.Section(title) }

// Separator prints via the default presenter.
func Separator() { Default.Separator() }

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) { Default.SetQuiet(quiet) }
