// Package preflight diagnoses the environment gitglob runs in.
//
// The package validates:
//   - The search directory is readable
//   - The merged configuration loads and validates
//   - Every applicable .gitignore is readable
//   - The global git excludes file, when present, is readable
//   - File descriptor limits (minimum 1024)
//   - inotify watch capacity for `gitglob watch` (Linux)
//
// Use the Checker type to run all validations:
//
//	checker := preflight.New()
//	results := checker.RunAll(ctx, "/path/to/project")
//	if checker.HasCriticalFailures(results) {
//	    // Handle failures
//	}
package preflight
