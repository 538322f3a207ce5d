package gitignore

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Aman-CERP/gitglob/internal/fsys"
)

// FileName is the per-directory ignore file name.
const FileName = ".gitignore"

// Rule is one translated line of an ignore file. Rules are immutable once
// built and are safe to share between goroutines.
type Rule struct {
	Pattern  string // line as written (trimmed), including a leading "!"
	Glob     string // match pattern with the !, leading / and trailing / markers removed
	Negate   bool   // line started with an unescaped "!"
	DirOnly  bool   // line ended with an unescaped "/"
	Anchored bool   // line started with "/"
	Scope    string // absolute slash-separated directory the rule is relative to
	Source   string // file the rule came from; empty for built-in rules
	Line     int    // 1-based line number in Source
}

// basename reports whether the rule matches against the last path segment
// only. Slash-free patterns are basename patterns unless anchored or
// already spelled with "**".
func (r *Rule) basename() bool {
	return !r.Anchored && !strings.Contains(r.Glob, "/") && !strings.Contains(r.Glob, "**")
}

// appliesTo reports whether abs lies inside the rule's scope.
func (r *Rule) appliesTo(abs string) bool {
	return fsys.Within(r.Scope, abs)
}

// matches tests a scope-relative path. Directory-only rules match the
// directory itself or anything nested under it.
func (r *Rule) matches(rel string, isDir bool) bool {
	if r.DirOnly {
		for i := 0; i < len(rel); i++ {
			if rel[i] == '/' && r.matchPath(rel[:i]) {
				return true
			}
		}
		return isDir && r.matchPath(rel)
	}
	return r.matchPath(rel)
}

func (r *Rule) matchPath(rel string) bool {
	switch {
	case r.Anchored:
		return globMatch(r.Glob, rel)
	case r.basename():
		return globMatch(r.Glob, path.Base(rel))
	default:
		return globMatch(r.Glob, rel) || globMatch("**/"+r.Glob, rel)
	}
}

// globMatch treats malformed patterns as non-matching; gitignore syntax has
// no reject state.
func globMatch(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// Patterns renders the glob strings a rule stands for, qualified relative
// to base. Negated rules are prefixed with "!".
func Patterns(r Rule, base string) []string {
	prefix := ""
	if r.Scope != base && fsys.Within(base, r.Scope) {
		prefix = fsys.Rel(base, r.Scope) + "/"
	}

	var globs []string
	switch {
	case r.Anchored:
		globs = []string{r.Glob}
	case r.basename():
		globs = []string{"**/" + r.Glob}
	default:
		globs = []string{r.Glob, "**/" + r.Glob}
	}

	out := make([]string, 0, len(globs)*2)
	for _, g := range globs {
		out = append(out, prefix+g)
		if r.DirOnly {
			out = append(out, prefix+g+"/**")
		}
	}
	if r.Negate {
		for i := range out {
			out[i] = "!" + out[i]
		}
	}
	return out
}

// String returns a compact debug form, e.g. "!build [dir,anchored] @/src".
func (r Rule) String() string {
	var flags []string
	if r.DirOnly {
		flags = append(flags, "dir")
	}
	if r.Anchored {
		flags = append(flags, "anchored")
	}
	s := r.Pattern
	if len(flags) > 0 {
		s += " [" + strings.Join(flags, ",") + "]"
	}
	return s + " @" + r.Scope
}
