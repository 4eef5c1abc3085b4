package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorPrimary = lipgloss.Color("#2563EB")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleOff     = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	styleBold    = lipgloss.NewStyle().Bold(true)
)

// Printer writes command output, styling it only when the writer is a terminal
type Printer struct {
	w     io.Writer
	color bool
}

func NewPrinter(w io.Writer) *Printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{w: w, color: color}
}

func (p *Printer) render(style lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return style.Render(text)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p *Printer) Title(text string) {
	p.Println()
	p.Println(p.render(styleTitle, text))
}

func (p *Printer) Success(format string, a ...any) {
	p.Println(p.render(styleSuccess, "✓ "+fmt.Sprintf(format, a...)))
}

func (p *Printer) Warning(format string, a ...any) {
	p.Println(p.render(styleWarning, "⚠ "+fmt.Sprintf(format, a...)))
}

func (p *Printer) Error(format string, a ...any) {
	p.Println(p.render(styleError, "✗ "+fmt.Sprintf(format, a...)))
}

func (p *Printer) Muted(format string, a ...any) {
	p.Println(p.render(styleMuted, fmt.Sprintf(format, a...)))
}

// pad right-pads text to width display cells; wide characters count double
func pad(text string, width int) string {
	if gap := width - lipgloss.Width(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}
