package gitignore

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/Aman-CERP/gitglob/internal/fsys"
)

// DefaultCacheSize bounds the number of translated ignore files a caching
// Loader keeps.
const DefaultCacheSize = 1000

type cacheKey struct {
	name  string
	scope string
}

// Loader reads ignore files through an FS and translates them into rules.
// Without a cache every Load reads the file again, which is what one-shot
// traversals want. Long-running callers (watch, serve) enable the cache and
// invalidate entries when files change.
type Loader struct {
	fs    fsys.FS
	cache *lru.Cache[cacheKey, []Rule]
	group singleflight.Group
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithCache enables an LRU of translated files holding up to size entries.
func WithCache(size int) LoaderOption {
	return func(l *Loader) error {
		if size <= 0 {
			size = DefaultCacheSize
		}
		cache, err := lru.New[cacheKey, []Rule](size)
		if err != nil {
			return fmt.Errorf("failed to create gitignore cache: %w", err)
		}
		l.cache = cache
		return nil
	}
}

// NewLoader creates a Loader over fs.
func NewLoader(fs fsys.FS, opts ...LoaderOption) (*Loader, error) {
	l := &Loader{fs: fs}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// FS returns the filesystem the loader reads from.
func (l *Loader) FS() fsys.FS {
	return l.fs
}

// Load reads name and translates it with every rule scoped to scope. A
// missing or unreadable file yields no rules and no error; gitignore files
// are advisory.
func (l *Loader) Load(name, scope string) ([]Rule, error) {
	if l.cache == nil {
		return l.read(name, scope)
	}

	key := cacheKey{name: name, scope: scope}
	if rules, ok := l.cache.Get(key); ok {
		return rules, nil
	}

	v, err, _ := l.group.Do(scope+"\x00"+name, func() (any, error) {
		rules, err := l.read(name, scope)
		if err != nil {
			return nil, err
		}
		l.cache.Add(key, rules)
		return rules, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Rule), nil
}

func (l *Loader) read(name, scope string) ([]Rule, error) {
	data, err := l.fs.ReadFile(name)
	switch {
	case err == nil:
		return ParseRules(data, scope, name), nil
	case fsys.IsNotExist(err):
		return nil, nil
	case fsys.IsPermission(err):
		slog.Warn("ignore file unreadable, skipping",
			slog.String("path", name),
			slog.String("error", err.Error()))
		return nil, nil
	default:
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
}

// Invalidate drops every cached translation of name.
func (l *Loader) Invalidate(name string) {
	if l.cache == nil {
		return
	}
	for _, key := range l.cache.Keys() {
		if key.name == name {
			l.cache.Remove(key)
		}
	}
	slog.Debug("gitignore cache invalidated", slog.String("path", name))
}

// Purge empties the cache.
func (l *Loader) Purge() {
	if l.cache != nil {
		l.cache.Purge()
	}
}

// Cached reports how many translated files the cache currently holds.
func (l *Loader) Cached() int {
	if l.cache == nil {
		return 0
	}
	return l.cache.Len()
}
