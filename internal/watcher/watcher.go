package watcher

import (
	"fmt"
	"time"

	"github.com/Aman-CERP/gitglob/internal/gitignore"
)

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates a new file or directory was created.
	OpCreate Operation = iota
	// OpModify indicates an existing file was modified.
	OpModify
	// OpDelete indicates a file or directory was deleted.
	OpDelete
	// OpRename indicates a file or directory was renamed away.
	OpRename
	// OpGitignoreChange indicates a .gitignore file was created, modified,
	// or removed. Cached rules for it are stale.
	OpGitignoreChange
	// OpConfigChange indicates a gitglob project config file changed.
	OpConfigChange
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	case OpRename:
		return "RENAME"
	case OpGitignoreChange:
		return "GITIGNORE_CHANGE"
	case OpConfigChange:
		return "CONFIG_CHANGE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent represents a file system event.
type FileEvent struct {
	// Path is the slash-separated path relative to the watched root.
	Path string

	// Operation is the type of file system operation.
	Operation Operation

	// IsDir indicates if the event is for a directory.
	IsDir bool

	// Timestamp is when the event was detected.
	Timestamp time.Time
}

// Options configures the watcher behavior.
type Options struct {
	// DebounceWindow is the time to wait before emitting coalesced events.
	// Default: 200ms
	DebounceWindow time.Duration

	// EventBufferSize is the size of the batch channel buffer.
	// Default: 1000
	EventBufferSize int

	// CacheSize bounds the watcher's own parsed ignore file cache.
	// Default: 1000
	CacheSize int

	// ConfigNames are file names reported as OpConfigChange.
	ConfigNames []string

	// Collect selects the ignore sources used to skip directories.
	Collect gitignore.CollectOptions
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow:  200 * time.Millisecond,
		EventBufferSize: 1000,
		CacheSize:       1000,
		ConfigNames:     []string{".gitglob.yaml", ".gitglob.yml"},
	}
}

// Validate validates the options and returns an error if invalid.
func (o Options) Validate() error {
	if o.DebounceWindow < 0 {
		return fmt.Errorf("debounce window must be non-negative, got %s", o.DebounceWindow)
	}
	if o.EventBufferSize < 0 {
		return fmt.Errorf("event buffer size must be non-negative, got %d", o.EventBufferSize)
	}
	if o.CacheSize < 0 {
		return fmt.Errorf("cache size must be non-negative, got %d", o.CacheSize)
	}
	return nil
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.DebounceWindow == 0 {
		o.DebounceWindow = defaults.DebounceWindow
	}
	if o.EventBufferSize == 0 {
		o.EventBufferSize = defaults.EventBufferSize
	}
	if o.CacheSize == 0 {
		o.CacheSize = defaults.CacheSize
	}
	if o.ConfigNames == nil {
		o.ConfigNames = defaults.ConfigNames
	}
	return o
}
