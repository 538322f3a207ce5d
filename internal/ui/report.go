package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/Aman-CERP/gitglob/internal/gitignore"
)

// ReasonRenderer prints check-ignore results in git's formats.
type ReasonRenderer struct {
	out    io.Writer
	styles Styles
}

// NewReasonRenderer creates a renderer writing to out.
func NewReasonRenderer(out io.Writer, noColor bool) *ReasonRenderer {
	return &ReasonRenderer{out: out, styles: GetStyles(noColor)}
}

// Render prints one verdict. Without verbose only ignored paths are
// printed, one per line. With verbose the deciding rule is printed as
// "<source>:<line>:<pattern>\t<path>", which includes re-including rules.
// nonMatching adds "::\t<path>" lines for paths no rule decided. It
// reports whether a line was written.
func (r *ReasonRenderer) Render(path string, reason *gitignore.Reason, verbose, nonMatching bool) bool {
	switch {
	case reason == nil && !nonMatching:
		return false
	case reason == nil:
		_, _ = fmt.Fprintf(r.out, "::\t%s\n", path)
		return true
	case !verbose && !reason.Ignored:
		return false
	case !verbose:
		_, _ = fmt.Fprintln(r.out, r.styles.Ignored.Render(path))
		return true
	}

	verdict := r.styles.Included
	if reason.Ignored {
		verdict = r.styles.Ignored
	}
	_, _ = fmt.Fprintf(r.out, "%s:%s:%s\t%s\n",
		r.styles.Source.Render(reason.Source),
		r.styles.Line.Render(strconv.Itoa(reason.Line)),
		verdict.Render(reason.Pattern),
		path)
	return true
}

// RenderJSON prints reasons as a JSON array. Entries with a nil reason
// are reported with only the path set.
func (r *ReasonRenderer) RenderJSON(paths []string, reasons []*gitignore.Reason) error {
	out := make([]gitignore.Reason, len(paths))
	for i, p := range paths {
		if reasons[i] != nil {
			out[i] = *reasons[i]
		}
		out[i].Path = p
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ChangeRenderer prints watch results: "+ path" for files that became
// visible and "- path" for files that disappeared or became ignored.
type ChangeRenderer struct {
	out    io.Writer
	styles Styles
}

// NewChangeRenderer creates a renderer writing to out.
func NewChangeRenderer(out io.Writer, noColor bool) *ChangeRenderer {
	return &ChangeRenderer{out: out, styles: GetStyles(noColor)}
}

// Added prints a file that entered the set.
func (r *ChangeRenderer) Added(path string) {
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.styles.Added.Render("+"), path)
}

// Removed prints a file that left the set.
func (r *ChangeRenderer) Removed(path string) {
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.styles.Removed.Render("-"), path)
}

// Notice prints a dimmed informational line.
func (r *ChangeRenderer) Notice(format string, args ...any) {
	_, _ = fmt.Fprintln(r.out, r.styles.Dim.Render(fmt.Sprintf(format, args...)))
}
