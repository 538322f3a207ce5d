// Package output writes enumeration results and CLI status lines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Aman-CERP/gitglob/internal/scanner"
)

// Format selects how entries are printed.
type Format int

const (
	// FormatPlain prints one path per line.
	FormatPlain Format = iota
	// FormatTypes prints "<kind>\t<path>" per line.
	FormatTypes
	// FormatJSON prints one JSON object per line.
	FormatJSON
)

// ParseFormat maps the CLI flags to a Format. json wins over types.
func ParseFormat(types, jsonLines bool) Format {
	switch {
	case jsonLines:
		return FormatJSON
	case types:
		return FormatTypes
	default:
		return FormatPlain
	}
}

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	format Format
	count  int
}

// New creates a new output Writer printing plain paths.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// NewWithFormat creates a Writer printing entries in format.
func NewWithFormat(out io.Writer, format Format) *Writer {
	return &Writer{out: out, format: format}
}

// Count returns the number of entries written.
func (w *Writer) Count() int { return w.count }

type entryJSON struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// Entry prints one enumerated entry.
func (w *Writer) Entry(e scanner.Entry) error {
	w.count++
	switch w.format {
	case FormatJSON:
		data, err := json.Marshal(entryJSON{Path: e.Path, Type: e.Kind()})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w.out, "%s\n", data)
		return err
	case FormatTypes:
		_, err := fmt.Fprintf(w.out, "%s\t%s\n", e.Kind(), e.Path)
		return err
	default:
		_, err := fmt.Fprintln(w.out, e.Path)
		return err
	}
}

// Path prints a bare path, as JSON string lines in FormatJSON.
func (w *Writer) Path(p string) error {
	w.count++
	if w.format == FormatJSON {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w.out, "%s\n", data)
		return err
	}
	_, err := fmt.Fprintln(w.out, p)
	return err
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Code prints a block indented by two spaces, framed by blank lines.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(content, "\n") {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
