// Package tui decides whether terminal styling applies and renders the few
// styled lines bqkit prints.
package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette - keeping it minimal and accessible.
var (
	ColorPrimary = lipgloss.Color("39")  // Blue
	ColorSuccess = lipgloss.Color("34")  // Green
	ColorError   = lipgloss.Color("196") // Red
	ColorMuted   = lipgloss.Color("240") // Dark gray
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// SymbolCheck prefixes successful summary lines on a terminal.
const SymbolCheck = "✓"

// ColorEnabled reports whether styled output should be written to w.
//
// Returns false if:
//   - BQKIT_NO_COLOR=1, NO_COLOR or CI is set
//   - w is not an *os.File attached to a terminal
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("BQKIT_NO_COLOR") == "1" || os.Getenv("NO_COLOR") != "" || os.Getenv("CI") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes lines to w, styling them only when ColorEnabled(w).
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: ColorEnabled(w)}
}

// Write passes plain bytes through so a Printer can stand in for w.
func (p *Printer) Write(b []byte) (int, error) {
	return p.w.Write(b)
}

// Header prints a section header.
func (p *Printer) Header(format string, args ...any) {
	p.line(HeaderStyle, "", format, args...)
}

// Success prints a completion line.
func (p *Printer) Success(format string, args ...any) {
	p.line(SuccessStyle, SymbolCheck+" ", format, args...)
}

// Muted prints a secondary line.
func (p *Printer) Muted(format string, args ...any) {
	p.line(MutedStyle, "", format, args...)
}

func (p *Printer) line(style lipgloss.Style, symbol, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.color {
		msg = style.Render(symbol + msg)
	}
	fmt.Fprintln(p.w, msg)
}
