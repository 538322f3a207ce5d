package mcp

import (
	"fmt"
	"strings"
)

// FormatGlobResults formats glob matches as markdown.
func FormatGlobResults(pattern string, out GlobOutput) string {
	if len(out.Paths) == 0 {
		return fmt.Sprintf("No files match \"%s\"", pattern)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Files matching \"%s\"\n\n", pattern))
	writeCount(&sb, len(out.Paths), "file")
	if out.Truncated {
		sb.WriteString(" (truncated)")
	}
	sb.WriteString("\n\n")

	for i, p := range out.Paths {
		if len(out.Types) == len(out.Paths) {
			sb.WriteString(fmt.Sprintf("- `%s` (%s)\n", p, out.Types[i]))
		} else {
			sb.WriteString(fmt.Sprintf("- `%s`\n", p))
		}
	}
	return sb.String()
}

// FormatListResults formats a directory listing as markdown. Directories
// carry a trailing slash.
func FormatListResults(out ListOutput) string {
	if len(out.Entries) == 0 {
		return fmt.Sprintf("No entries in `%s`", out.Dir)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Contents of `%s`\n\n", out.Dir))
	writeCount(&sb, len(out.Entries), "entry")
	sb.WriteString("\n\n")

	for _, e := range out.Entries {
		name := e.Path
		if e.Type == "dir" {
			name += "/"
		}
		sb.WriteString(fmt.Sprintf("- `%s`\n", name))
	}
	return sb.String()
}

// FormatCheckIgnoreResults formats verdicts as a markdown table.
func FormatCheckIgnoreResults(out CheckIgnoreOutput) string {
	var sb strings.Builder
	sb.WriteString("## Ignore check\n\n")
	sb.WriteString("| Path | Ignored | Rule |\n")
	sb.WriteString("|------|---------|------|\n")

	for _, r := range out.Results {
		rule := "-"
		if r.Pattern != "" {
			rule = fmt.Sprintf("`%s` (%s:%d)", r.Pattern, r.Source, r.Line)
		}
		verdict := "no"
		if r.Ignored {
			verdict = "yes"
		}
		sb.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", r.Path, verdict, rule))
	}
	return sb.String()
}

// FormatLocateResults formats located ignore files and their globs.
func FormatLocateResults(out LocateOutput) string {
	if len(out.Files) == 0 {
		return "No .gitignore files apply."
	}

	var sb strings.Builder
	sb.WriteString("## Applicable .gitignore files\n\n")
	for _, f := range out.Files {
		sb.WriteString(fmt.Sprintf("### %s\n\n", f.Path))
		if len(f.Globs) == 0 {
			sb.WriteString("_no rules_\n\n")
			continue
		}
		sb.WriteString("```\n")
		for _, g := range f.Globs {
			sb.WriteString(g)
			sb.WriteString("\n")
		}
		sb.WriteString("```\n\n")
	}
	return sb.String()
}

func writeCount(sb *strings.Builder, n int, noun string) {
	sb.WriteString(fmt.Sprintf("Found %d %s", n, plural(noun, n)))
}

func plural(noun string, n int) string {
	if n == 1 {
		return noun
	}
	if strings.HasSuffix(noun, "y") {
		return strings.TrimSuffix(noun, "y") + "ies"
	}
	return noun + "s"
}

// clampLimit ensures limit is within bounds.
func clampLimit(limit, defaultVal, min, max int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}
