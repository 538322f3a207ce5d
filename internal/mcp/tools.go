package mcp

// GlobInput defines the input schema for the glob tool.
type GlobInput struct {
	Pattern string `json:"pattern" jsonschema:"glob matched against paths relative to the project root, e.g. **/*.go"`
	Types   bool   `json:"types,omitempty" jsonschema:"include the entry type (file, symlink) of each path"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of paths, default 1000"`
}

// GlobOutput defines the output schema for the glob tool.
type GlobOutput struct {
	Paths     []string `json:"paths" jsonschema:"matching non-ignored paths relative to the project root"`
	Types     []string `json:"types,omitempty" jsonschema:"entry type of each path when requested"`
	Truncated bool     `json:"truncated,omitempty" jsonschema:"true if more paths matched than the limit"`
}

// ListInput defines the input schema for the list tool.
type ListInput struct {
	Dir       string `json:"dir,omitempty" jsonschema:"directory relative to the project root, default the root"`
	Recursive bool   `json:"recursive,omitempty" jsonschema:"list the whole subtree instead of direct children"`
}

// ListOutput defines the output schema for the list tool.
type ListOutput struct {
	Dir     string      `json:"dir" jsonschema:"the listed directory"`
	Entries []ListEntry `json:"entries" jsonschema:"non-ignored entries sorted by path"`
}

// ListEntry is one listed path.
type ListEntry struct {
	Path string `json:"path" jsonschema:"path relative to the listed directory"`
	Type string `json:"type" jsonschema:"file, dir, symlink, or other"`
}

// CheckIgnoreInput defines the input schema for the check_ignore tool.
type CheckIgnoreInput struct {
	Paths []string `json:"paths" jsonschema:"paths relative to the project root"`
}

// CheckIgnoreOutput defines the output schema for the check_ignore tool.
type CheckIgnoreOutput struct {
	Results []CheckIgnoreResult `json:"results"`
}

// CheckIgnoreResult is the verdict for one path.
type CheckIgnoreResult struct {
	Path    string `json:"path"`
	Ignored bool   `json:"ignored" jsonschema:"true if git would ignore the path"`
	Source  string `json:"source,omitempty" jsonschema:"ignore file holding the deciding rule"`
	Line    int    `json:"line,omitempty" jsonschema:"1-based line of the deciding rule"`
	Pattern string `json:"pattern,omitempty" jsonschema:"the deciding rule as written, negations keep their !"`
}

// LocateInput defines the input schema for the locate_gitignores tool.
type LocateInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"directory relative to the project root, default the root"`
}

// LocateOutput defines the output schema for the locate_gitignores tool.
type LocateOutput struct {
	Files []GitignoreFile `json:"files" jsonschema:"ignore files outermost first"`
}

// GitignoreFile is one located ignore file with its normalized globs.
type GitignoreFile struct {
	Path  string   `json:"path" jsonschema:"absolute path of the file"`
	Globs []string `json:"globs" jsonschema:"globs relative to the project root, negations prefixed with !"`
}
