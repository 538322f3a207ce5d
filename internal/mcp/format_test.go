package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatGlobResults(t *testing.T) {
	tests := []struct {
		name string
		out  GlobOutput
		want []string
	}{
		{
			name: "empty",
			out:  GlobOutput{},
			want: []string{`No files match "*.rs"`},
		},
		{
			name: "single with types",
			out:  GlobOutput{Paths: []string{"a.rs"}, Types: []string{"file"}},
			want: []string{"Found 1 file\n", "- `a.rs` (file)"},
		},
		{
			name: "truncated",
			out:  GlobOutput{Paths: []string{"a.rs", "b.rs"}, Truncated: true},
			want: []string{"Found 2 files (truncated)", "- `b.rs`\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := FormatGlobResults("*.rs", tt.out)
			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
		})
	}
}

func TestFormatListResults(t *testing.T) {
	assert.Equal(t, "No entries in `.`", FormatListResults(ListOutput{Dir: "."}))

	text := FormatListResults(ListOutput{Dir: "src", Entries: []ListEntry{
		{Path: "main.go", Type: "file"},
		{Path: "pkg", Type: "dir"},
	}})
	assert.Contains(t, text, "Found 2 entries")
	assert.Contains(t, text, "- `pkg/`")
}

func TestFormatCheckIgnoreResults(t *testing.T) {
	text := FormatCheckIgnoreResults(CheckIgnoreOutput{Results: []CheckIgnoreResult{
		{Path: "keep.log", Source: ".gitignore", Line: 2, Pattern: "!keep.log"},
	}})

	assert.Contains(t, text, "| Path | Ignored | Rule |")
	assert.Contains(t, text, "| `keep.log` | no | `!keep.log` (.gitignore:2) |")
}

func TestFormatLocateResults(t *testing.T) {
	assert.Equal(t, "No .gitignore files apply.", FormatLocateResults(LocateOutput{}))

	text := FormatLocateResults(LocateOutput{Files: []GitignoreFile{
		{Path: "/repo/.gitignore", Globs: []string{"**/*.log"}},
		{Path: "/repo/docs/.gitignore"},
	}})
	assert.Contains(t, text, "### /repo/.gitignore\n\n```\n**/*.log\n```")
	assert.Contains(t, text, "### /repo/docs/.gitignore\n\n_no rules_")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1000, clampLimit(0, 1000, 1, 5000))
	assert.Equal(t, 1000, clampLimit(-3, 1000, 1, 5000))
	assert.Equal(t, 5000, clampLimit(9999, 1000, 1, 5000))
	assert.Equal(t, 7, clampLimit(7, 1000, 1, 5000))
}
