package gitignore

import (
	"bytes"
	"strings"
	"unicode"
)

// Translate converts one ignore-file line into a Rule scoped to the given
// absolute directory. It returns false for blank lines, comments, and the
// bare line ".gitignore", which never produce a rule.
func Translate(line, scope string) (Rule, bool) {
	line = strings.TrimLeftFunc(trimTrailingSpace(line), unicode.IsSpace)

	if line == "" || line == FileName || strings.HasPrefix(line, "#") {
		return Rule{}, false
	}

	r := Rule{Pattern: line, Scope: scope}
	glob := line

	switch {
	case strings.HasPrefix(glob, `\!`), strings.HasPrefix(glob, `\#`):
		glob = glob[1:]
	case strings.HasPrefix(glob, "!"):
		r.Negate = true
		glob = glob[1:]
	}

	if strings.HasSuffix(glob, "/") && !strings.HasSuffix(glob, `\/`) {
		r.DirOnly = true
		glob = strings.TrimRight(glob, "/")
	}

	if strings.HasPrefix(glob, "/") {
		r.Anchored = true
		glob = strings.TrimLeft(glob, "/")
	}

	if glob == "" {
		return Rule{}, false
	}
	// "foo/**" matches what is inside foo, never foo itself
	if strings.HasSuffix(glob, "/**") {
		glob += "/*"
	}
	r.Glob = escapeBraces(glob)
	return r, true
}

// trimTrailingSpace drops trailing spaces and tabs unless the last one is
// escaped with a backslash, in which case it is kept.
func trimTrailingSpace(line string) string {
	end := len(line)
	for end > 0 && (line[end-1] == ' ' || line[end-1] == '\t') {
		if line[end-1] == ' ' && escaped(line, end-1) {
			break
		}
		end--
	}
	return line[:end]
}

// escaped reports whether the byte at i follows an odd run of backslashes.
func escaped(line string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// escapeBraces makes { and } literal for doublestar, which would otherwise
// read them as alternation.
func escapeBraces(glob string) string {
	if !strings.ContainsAny(glob, "{}") {
		return glob
	}
	var b strings.Builder
	b.Grow(len(glob) + 4)
	escaped := false
	for _, c := range glob {
		if (c == '{' || c == '}') && !escaped {
			b.WriteByte('\\')
		}
		escaped = c == '\\' && !escaped
		b.WriteRune(c)
	}
	return b.String()
}

// ParseRules translates the content of an ignore file. Every rule is scoped
// to scope and records source and its 1-based line number.
func ParseRules(content []byte, scope, source string) []Rule {
	var rules []Rule
	for i, line := range bytes.Split(content, []byte("\n")) {
		text := strings.TrimSuffix(string(line), "\r")
		r, ok := Translate(text, scope)
		if !ok {
			continue
		}
		r.Source = source
		r.Line = i + 1
		rules = append(rules, r)
	}
	return rules
}

// implicitGitRule hides repository metadata below root.
func implicitGitRule(root string) Rule {
	r, _ := Translate(".git", root)
	return r
}
