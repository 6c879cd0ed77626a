// Package cui defines character user interfaces for I/O.
package cui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
)

// UI provides formatted output for the application.
type UI interface {
	Println(a interface{})
	InfoPrintln(a interface{})
	ErrPrintln(a interface{})

	Writer() io.Writer
	ErrWriter() io.Writer
}

type basicUI struct {
	writer, errWriter io.Writer
}

// New returns a new UI writing to stdout and stderr. The writers can be
// replaced by opts.
func New(opts ...Option) UI {
	ui := &basicUI{
		writer:    colorable.NewColorableStdout(),
		errWriter: colorable.NewColorableStderr(),
	}
	for _, opt := range opts {
		opt(ui)
	}
	return ui
}

func (u *basicUI) fprintln(w io.Writer, a interface{}) {
	if r, ok := a.(io.Reader); ok {
		io.Copy(w, r) //nolint:errcheck
		return
	}
	fmt.Fprintln(w, a)
}

// Println writes a to Writer with a line break.
func (u *basicUI) Println(a interface{}) {
	u.fprintln(u.writer, a)
}

// InfoPrintln is the same as Println, but distinguish these for composition.
func (u *basicUI) InfoPrintln(a interface{}) {
	u.fprintln(u.writer, a)
}

// ErrPrintln writes a to ErrWriter with a line break.
func (u *basicUI) ErrPrintln(a interface{}) {
	u.fprintln(u.errWriter, a)
}

func (u *basicUI) Writer() io.Writer {
	return u.writer
}

func (u *basicUI) ErrWriter() io.Writer {
	return u.errWriter
}

type coloredUI struct {
	UI
}

// NewColored wraps ui with colored output.
// If ui is already colored, NewColored returns it as it is.
func NewColored(ui UI) UI {
	if ui, ok := ui.(*coloredUI); ok {
		return ui
	}
	return &coloredUI{ui}
}

func (u *coloredUI) printWithColor(
	w func(a interface{}),
	color func(format string, a ...interface{}) string,
	a interface{},
) {
	switch t := a.(type) {
	case string:
		w(color("%s", t))
	case fmt.Stringer:
		w(color("%s", t.String()))
	case error:
		w(color("%s", t.Error()))
	default:
		w(t)
	}
}

func (u *coloredUI) InfoPrintln(a interface{}) {
	u.printWithColor(u.UI.InfoPrintln, color.BlueString, a)
}

func (u *coloredUI) ErrPrintln(a interface{}) {
	u.printWithColor(u.UI.ErrPrintln, color.RedString, a)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
