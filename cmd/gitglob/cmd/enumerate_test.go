package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ggerrors "github.com/Aman-CERP/gitglob/internal/errors"
)

// =============================================================================
// glob / walk
// =============================================================================

func TestGlobCmd(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "plain",
			args: []string{"glob", "**/*.go"},
			want: []string{"main.go", "pkg/util.go"},
		},
		{
			name: "types",
			args: []string{"glob", "**/*.go", "--types"},
			want: []string{"file\tmain.go", "file\tpkg/util.go"},
		},
		{
			name: "negation re-includes",
			args: []string{"glob", "*.log"},
			want: []string{"keep.log"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, append(tt.args, "--cwd", dir, "--stop-at-repo")...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sortedLines(stdout))
		})
	}
}

func TestGlobCmd_JSON(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)

	stdout, _, err := runCLI(t, "glob", "main.go", "--json", "--cwd", dir, "--stop-at-repo")

	require.NoError(t, err)
	var got struct {
		Path string `json:"path"`
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "main.go", got.Path)
	assert.Equal(t, "file", got.Type)
}

func TestGlobCmd_BadPattern(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)

	_, _, err := runCLI(t, "glob", "[a", "--cwd", dir)

	require.Error(t, err)
	assert.Equal(t, ggerrors.ErrCodeInvalidPattern, ggerrors.GetCode(err))
}

func TestGlobCmd_RequiresPattern(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "glob")

	assert.Error(t, err)
}

func TestWalkCmd(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)

	stdout, _, err := runCLI(t, "walk", "--cwd", dir, "--stop-at-repo")

	require.NoError(t, err)
	assert.Equal(t, []string{".gitignore", "keep.log", "main.go", "pkg/util.go"}, sortedLines(stdout))
}

func TestWalkCmd_ExcludeFrom(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)
	extra := filepath.Join(t.TempDir(), "extra.ignore")
	require.NoError(t, os.WriteFile(extra, []byte("*.go\n"), 0o644))

	stdout, _, err := runCLI(t, "walk", "--cwd", dir, "--stop-at-repo", "--exclude-from", extra)

	require.NoError(t, err)
	assert.Equal(t, []string{".gitignore", "keep.log"}, sortedLines(stdout))
}

func TestWalkCmd_ProjectConfigExcludes(t *testing.T) {
	isolateEnv(t)
	dir := writeProject(t, map[string]string{
		".gitglob.yaml":   "walk:\n  excludes_files:\n    - .gitglobignore\n  stop_at_repository: true\n",
		".gitglobignore":  "docs/\n",
		"docs/index.md":   "",
		"src/main.go":     "",
		"src/.gitignore":  "*.tmp\n",
		"src/scratch.tmp": "",
	})

	stdout, _, err := runCLI(t, "walk", "--cwd", dir)

	require.NoError(t, err)
	assert.Equal(t, []string{".gitglob.yaml", ".gitglobignore", "src/.gitignore", "src/main.go"}, sortedLines(stdout))
}

func TestWalkCmd_Subdirectory(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "trace.log"), nil, 0o644))

	stdout, _, err := runCLI(t, "walk", "--cwd", filepath.Join(dir, "pkg"), "--stop-at-repo")

	require.NoError(t, err)
	assert.Equal(t, []string{"util.go"}, sortedLines(stdout), "parent .gitignore applies")
}

// =============================================================================
// ls / locate / translate
// =============================================================================

func TestListCmd(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "shallow includes directories",
			args: []string{"ls"},
			want: []string{".gitignore", "keep.log", "main.go", "pkg"},
		},
		{
			name: "shallow with types",
			args: []string{"ls", "--types"},
			want: []string{"dir\tpkg", "file\t.gitignore", "file\tkeep.log", "file\tmain.go"},
		},
		{
			name: "recursive subdirectory",
			args: []string{"ls", "pkg", "-r"},
			want: []string{"util.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, append(tt.args, "--cwd", dir, "--stop-at-repo")...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sortedLines(stdout))
		})
	}
}

func TestListCmd_MissingDir(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)

	_, _, err := runCLI(t, "ls", "missing", "--cwd", dir)

	require.Error(t, err)
	assert.Equal(t, ggerrors.ErrCodeFileNotFound, ggerrors.GetCode(err))
}

func TestLocateCmd(t *testing.T) {
	isolateEnv(t)
	dir := writeProject(t, map[string]string{
		".gitignore":         "*.log\n",
		"src/.gitignore":     "*.tmp\n",
		"src/lib/handler.go": "",
	})
	base := filepath.ToSlash(dir)

	stdout, _, err := runCLI(t, "locate", "src/lib", "--cwd", dir, "--stop-at-repo")

	require.NoError(t, err)
	assert.Equal(t, []string{base + "/.gitignore", base + "/src/.gitignore"}, lines(stdout))
}

func TestTranslateCmd(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)

	stdout, _, err := runCLI(t, "translate", ".gitignore", "--cwd", dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"**/*.log", "**/build", "**/build/**", "!**/keep.log"}, lines(stdout))
}

func TestTranslateCmd_JSON(t *testing.T) {
	isolateEnv(t)
	dir := writeProject(t, map[string]string{"src/.gitignore": "/dist/\n"})

	stdout, _, err := runCLI(t, "translate", "src/.gitignore", "--json", "--cwd", dir)

	require.NoError(t, err)
	assert.Equal(t, []string{`"src/dist"`, `"src/dist/**"`}, lines(stdout))
}
