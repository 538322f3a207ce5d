package gitignore

import (
	"context"

	"github.com/Aman-CERP/gitglob/internal/fsys"
)

// RuleSet is an ordered list of rules, outermost scope first and file order
// within a file. Candidate paths handed to Decide are relative to Root.
type RuleSet struct {
	Root  string
	Rules []Rule
}

// Extend returns a set with rules appended. The receiver is not modified, so
// sibling subtrees never observe each other's rules.
func (s RuleSet) Extend(rules []Rule) RuleSet {
	if len(rules) == 0 {
		return s
	}
	merged := make([]Rule, 0, len(s.Rules)+len(rules))
	merged = append(merged, s.Rules...)
	merged = append(merged, rules...)
	return RuleSet{Root: s.Root, Rules: merged}
}

// Len returns the number of rules.
func (s RuleSet) Len() int { return len(s.Rules) }

// CollectOptions selects the ignore sources Collect assembles.
type CollectOptions struct {
	// ExcludesFiles are extra ignore files scoped to ExcludesScope. They
	// rank below every .gitignore. Relative names resolve against
	// ExcludesScope.
	ExcludesFiles []string

	// ExcludesScope is the directory ExcludesFiles apply from, and the scope
	// of core.excludesFile outside a repository. Empty means the traversal
	// root.
	ExcludesScope string

	// GitExcludes adds the user's core.excludesFile and the repository's
	// .git/info/exclude.
	GitExcludes bool

	// GitEnv overrides where git configuration is read from when GitExcludes
	// is set. The zero value means the current process environment.
	GitEnv *GitEnv

	// Recursive also loads every .gitignore below the root up front. The
	// scanner leaves this off and loads files as it descends.
	Recursive bool

	LocateOptions
}

// Collect assembles the rule set for a traversal rooted at root: auxiliary
// and git exclude files, then .gitignore files from the filesystem root down
// to root, then (when Recursive) those below root, then the implicit .git
// rule.
func Collect(ctx context.Context, l *Loader, root string, opts CollectOptions) (RuleSet, error) {
	return collect(ctx, l, root, root, opts)
}

// collect climbs from start rather than root. Explain uses it to pick up the
// .gitignore files between root and the directory of the path in question.
func collect(ctx context.Context, l *Loader, root, start string, opts CollectOptions) (RuleSet, error) {
	set := RuleSet{Root: root}

	aux, err := auxiliaryRules(l, root, opts)
	if err != nil {
		return RuleSet{}, err
	}
	set.Rules = append(set.Rules, aux...)

	upward, err := FindUpward(l.FS(), start, opts.LocateOptions)
	if err != nil {
		return RuleSet{}, err
	}
	for _, name := range upward {
		if err := ctx.Err(); err != nil {
			return RuleSet{}, err
		}
		dir, _ := fsys.Parent(name)
		rules, err := l.Load(name, dir)
		if err != nil {
			return RuleSet{}, err
		}
		set.Rules = append(set.Rules, rules...)
	}

	if opts.Recursive {
		below, err := FindDownward(ctx, l.FS(), root)
		if err != nil {
			return RuleSet{}, err
		}
		for _, name := range below {
			dir, _ := fsys.Parent(name)
			if dir == root {
				continue
			}
			rules, err := l.Load(name, dir)
			if err != nil {
				return RuleSet{}, err
			}
			set.Rules = append(set.Rules, rules...)
		}
	}

	set.Rules = append(set.Rules, implicitGitRule(root))
	return set, nil
}

// auxiliaryRules loads the lower-priority sources in git's precedence
// order: core.excludesFile, then .git/info/exclude, then caller-supplied
// files. Inside a repository both git sources are scoped to the repository
// root, as git applies them.
func auxiliaryRules(l *Loader, root string, opts CollectOptions) ([]Rule, error) {
	type source struct{ name, scope string }
	var sources []source

	scope := opts.ExcludesScope
	if scope == "" {
		scope = root
	}

	if opts.GitExcludes {
		env := DefaultGitEnv()
		if opts.GitEnv != nil {
			env = *opts.GitEnv
		}
		global := source{GlobalExcludesFile(l.FS(), env), scope}
		exclude, repo, ok := RepositoryExclude(l.FS(), root)
		if ok {
			global.scope = repo
		}
		sources = append(sources, global)
		if ok {
			sources = append(sources, source{exclude, repo})
		}
	}
	for _, name := range opts.ExcludesFiles {
		sources = append(sources, source{fsys.Clean(scope, name), scope})
	}

	var rules []Rule
	for _, src := range sources {
		loaded, err := l.Load(src.name, src.scope)
		if err != nil {
			return nil, err
		}
		rules = append(rules, loaded...)
	}
	return rules, nil
}
