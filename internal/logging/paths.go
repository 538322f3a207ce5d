package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvLogDir overrides the log directory.
const EnvLogDir = "GITGLOB_LOG_DIR"

// DefaultLogDir returns the log directory: $GITGLOB_LOG_DIR, else
// ~/.gitglob/logs, else a directory under the system temp dir.
func DefaultLogDir() string {
	if dir := os.Getenv(EnvLogDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".gitglob", "logs")
	}
	return filepath.Join(home, ".gitglob", "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "gitglob.log")
}

// FindLogFile returns explicit when it exists, else the default log file.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	p := DefaultLogPath()
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("no log file found, run a command with --debug first.\nExpected at: %s", p)
}
