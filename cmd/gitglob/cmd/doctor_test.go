package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorCmd(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)

	// Given: a healthy project
	// When: running doctor
	stdout, _, err := runCLI(t, "doctor", "--cwd", dir)

	// Then: every check is reported and none is critical
	require.NoError(t, err)
	assert.Contains(t, stdout, "gitglob System Check")
	assert.Contains(t, stdout, "[PASS] directory:")
	assert.Contains(t, stdout, "[PASS] configuration:")
	assert.Contains(t, stdout, "ignore_files: 1 files, 3 rules")
}

func TestDoctorCmd_JSON(t *testing.T) {
	isolateEnv(t)
	dir := sampleProject(t)

	stdout, _, err := runCLI(t, "doctor", "--json", "--cwd", dir)
	require.NoError(t, err)

	var out DoctorJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.NotEqual(t, "failed", out.Status)
	assert.Empty(t, out.Errors)

	var names []string
	for _, c := range out.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"directory", "configuration", "ignore_files", "git_excludes", "file_descriptors", "inotify_watches",
	}, names)
}

func TestDoctorCmd_InvalidConfig(t *testing.T) {
	isolateEnv(t)
	dir := writeProject(t, map[string]string{
		".gitglob.yaml": "cache:\n  size: -1\n",
	})

	// When: the project config does not validate
	stdout, _, err := runCLI(t, "doctor", "--cwd", dir)

	// Then: the configuration check fails the command
	require.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, stdout, "[FAIL] configuration:")
	assert.Contains(t, stdout, "Status: FAILED")
	assert.Equal(t, 2, ExitCode(err))
}

func TestDoctorCmd_MissingCwd(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "doctor", "--cwd", "/nonexistent/gitglob-doctor")

	require.Error(t, err)
}
