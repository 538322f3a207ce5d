package gitignore

import (
	"strings"

	"github.com/Aman-CERP/gitglob/internal/fsys"
)

// Decision is the outcome of evaluating one candidate path.
type Decision struct {
	Excluded bool
	// Rule is the last rule that matched, or the rule that excluded an
	// enclosing directory. nil when nothing matched.
	Rule *Rule
}

// ExcludedDirs records directories already excluded during one traversal,
// keyed by absolute path. Anything below such a directory stays excluded
// whatever later rules say.
type ExcludedDirs map[string]*Rule

// Add records dir as excluded by r.
func (e ExcludedDirs) Add(dir string, r *Rule) {
	e[dir] = r
}

// Covering returns the rule of the nearest recorded directory strictly
// above p.
func (e ExcludedDirs) Covering(p string) (*Rule, bool) {
	if len(e) == 0 {
		return nil, false
	}
	for dir, ok := fsys.Parent(p); ok; dir, ok = fsys.Parent(dir) {
		if r, hit := e[dir]; hit {
			return r, true
		}
	}
	return nil, false
}

// Decide evaluates a root-relative candidate against the set. A trailing "/"
// marks the candidate as a directory.
func (s RuleSet) Decide(candidate string, excluded ExcludedDirs) Decision {
	isDir := strings.HasSuffix(candidate, "/")
	abs := fsys.Clean(s.Root, strings.TrimSuffix(candidate, "/"))
	return Decide(abs, isDir, s.Rules, excluded)
}

// Decide folds rules over an absolute path: later matches override earlier
// ones. A path below an excluded directory is excluded by that directory's
// rule before any rule is consulted, so negations cannot re-include it.
func Decide(abs string, isDir bool, rules []Rule, excluded ExcludedDirs) Decision {
	if r, ok := excluded.Covering(abs); ok {
		return Decision{Excluded: true, Rule: r}
	}

	var d Decision
	for i := range rules {
		r := &rules[i]
		if !r.appliesTo(abs) || !r.matches(fsys.Rel(r.Scope, abs), isDir) {
			continue
		}
		d = Decision{Excluded: !r.Negate, Rule: r}
	}
	return d
}

// Evaluator answers one-off questions about arbitrary paths by evaluating
// their ancestor directories top-down first, the way a traversal would have
// reached them. An Evaluator is not safe for concurrent use.
type Evaluator struct {
	set      RuleSet
	excluded ExcludedDirs
	visited  map[string]bool
}

// NewEvaluator returns an Evaluator over set.
func NewEvaluator(set RuleSet) *Evaluator {
	return &Evaluator{
		set:      set,
		excluded: make(ExcludedDirs),
		visited:  make(map[string]bool),
	}
}

// Evaluate decides an absolute path.
func (e *Evaluator) Evaluate(abs string, isDir bool) Decision {
	var ancestors []string
	for dir, ok := fsys.Parent(abs); ok; dir, ok = fsys.Parent(dir) {
		if e.visited[dir] {
			break
		}
		ancestors = append(ancestors, dir)
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		dir := ancestors[i]
		e.visited[dir] = true
		if d := Decide(dir, true, e.set.Rules, e.excluded); d.Excluded {
			if _, covered := e.excluded.Covering(dir); !covered {
				e.excluded.Add(dir, d.Rule)
			}
		}
	}
	return Decide(abs, isDir, e.set.Rules, e.excluded)
}

// IsExcluded decides a path relative to the set's root.
func (e *Evaluator) IsExcluded(rel string, isDir bool) bool {
	return e.Evaluate(fsys.Clean(e.set.Root, rel), isDir).Excluded
}
