package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
	fgPink   = "\033[95m"
)

var (
	forceColor   bool
	disableColor bool
)

// SetColorForcing overrides TTY detection in either direction.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when stdout is a terminal.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY(os.Stdout) {
		return color + s + reset
	}
	return s
}

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(Current().Success, Current().SymOK+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(Current().Error, Current().SymFail+" "+msg)) }

// Hint prints a muted follow-up line under a failure.
func Hint(w io.Writer, msg string) { fmt.Fprintln(w, C(Current().Muted, msg)) }

// StderrIsTTY reports whether live progress can be drawn on stderr.
func StderrIsTTY() bool { return isTTY(os.Stderr) }

// ClearLine erases the current line of w, used after a live progress line.
func ClearLine(w io.Writer) { fmt.Fprint(w, "\r\033[2K") }
