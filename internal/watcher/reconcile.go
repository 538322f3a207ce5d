package watcher

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Source is the enumeration a Reconciler keeps current. *gitglob.Client
// satisfies it.
type Source interface {
	Walk(ctx context.Context) iter.Seq2[string, error]
	Invalidate(name string)
	TranslateGitignoreFile(name string) ([]string, error)
}

// Change is the effect of one event batch on the non-ignored file set.
type Change struct {
	// Added and Removed are sorted paths that entered or left the set.
	Added   []string
	Removed []string

	// RulesAdded and RulesRemoved are translated globs that changed in the
	// batch's ignore files.
	RulesAdded   []string
	RulesRemoved []string

	// ConfigChanged is set when a project config file changed. The
	// Reconciler does not reload configuration itself.
	ConfigChanged bool
}

// Empty reports whether the change carries nothing to print.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 &&
		len(c.RulesAdded) == 0 && len(c.RulesRemoved) == 0 && !c.ConfigChanged
}

// Reconciler tracks the non-ignored file set of a Source across event
// batches. It is safe for concurrent use.
type Reconciler struct {
	src     Source
	mu      sync.Mutex
	current []string
}

// NewReconciler creates a Reconciler over src. Call Prime before Apply.
func NewReconciler(src Source) *Reconciler {
	return &Reconciler{src: src}
}

// Prime records the current set and returns its size.
func (r *Reconciler) Prime(ctx context.Context) (int, error) {
	set, err := r.enumerate(ctx)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	r.current = set
	r.mu.Unlock()
	return len(set), nil
}

// Current returns a copy of the tracked set.
func (r *Reconciler) Current() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.current)
}

// Apply folds one batch into the tracked set. Ignore files named in the
// batch are invalidated in the Source first. A batch of modifications only
// cannot change the set and is answered without re-enumerating.
func (r *Reconciler) Apply(ctx context.Context, batch []FileEvent) (Change, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var change Change
	rescan := false
	for _, ev := range batch {
		switch ev.Operation {
		case OpModify:
		case OpConfigChange:
			change.ConfigChanged = true
		case OpGitignoreChange:
			added, removed := r.refreshRules(ev.Path)
			change.RulesAdded = append(change.RulesAdded, added...)
			change.RulesRemoved = append(change.RulesRemoved, removed...)
			rescan = true
		default:
			rescan = true
		}
	}
	if !rescan {
		return change, nil
	}

	next, err := r.enumerate(ctx)
	if err != nil {
		return change, err
	}
	change.Added, change.Removed = Diff(r.current, next)
	r.current = next

	slog.Debug("watch batch reconciled",
		slog.Int("events", len(batch)),
		slog.Int("added", len(change.Added)),
		slog.Int("removed", len(change.Removed)))
	return change, nil
}

// refreshRules invalidates one ignore file and diffs its translated globs
// before and after. The "before" side comes from the Source's cache.
func (r *Reconciler) refreshRules(name string) (added, removed []string) {
	before, err := r.src.TranslateGitignoreFile(name)
	if err != nil {
		slog.Debug("previous ignore rules unavailable",
			slog.String("path", name),
			slog.String("error", err.Error()))
	}
	r.src.Invalidate(name)
	after, err := r.src.TranslateGitignoreFile(name)
	if err != nil {
		slog.Warn("ignore file unreadable after change",
			slog.String("path", name),
			slog.String("error", err.Error()))
	}
	return DiffPatterns(before, after)
}

func (r *Reconciler) enumerate(ctx context.Context) ([]string, error) {
	var out []string
	for p, err := range r.src.Walk(ctx) {
		if err != nil {
			return nil, fmt.Errorf("enumerate: %w", err)
		}
		out = append(out, p)
	}
	slices.Sort(out)
	return out, nil
}

// Diff compares two sorted path lists.
func Diff(before, after []string) (added, removed []string) {
	i, j := 0, 0
	for i < len(before) && j < len(after) {
		switch c := strings.Compare(before[i], after[j]); {
		case c == 0:
			i++
			j++
		case c < 0:
			removed = append(removed, before[i])
			i++
		default:
			added = append(added, after[j])
			j++
		}
	}
	removed = append(removed, before[i:]...)
	added = append(added, after[j:]...)
	return added, removed
}

// DiffPatterns returns the patterns present in only one of two lists, in
// their original order.
func DiffPatterns(before, after []string) (added, removed []string) {
	oldSet := make(map[string]bool, len(before))
	for _, p := range before {
		oldSet[p] = true
	}
	newSet := make(map[string]bool, len(after))
	for _, p := range after {
		newSet[p] = true
	}

	for _, p := range after {
		if !oldSet[p] {
			added = append(added, p)
		}
	}
	for _, p := range before {
		if !newSet[p] {
			removed = append(removed, p)
		}
	}
	return added, removed
}
