package gitignore

import (
	"context"
	"fmt"
	iofs "io/fs"
	"slices"
	"strings"

	"github.com/Aman-CERP/gitglob/internal/fsys"
)

// Reason explains which rule decided a path.
type Reason struct {
	Source  string `json:"source"`
	Line    int    `json:"line"`
	Pattern string `json:"pattern"`
	Path    string `json:"path"`
	Ignored bool   `json:"ignored"`
}

// String renders the reason the way `git check-ignore -v` does.
func (r *Reason) String() string {
	return fmt.Sprintf("%s:%d:%s\t%s", r.Source, r.Line, r.Pattern, r.Path)
}

// Explain reports the rule that decides p, resolved against cwd. The rule
// set is assembled as for a traversal rooted at cwd, plus any .gitignore
// between cwd and p's directory. Explain returns nil when no rule matches.
// When p sits inside an excluded directory the directory's rule is
// reported, even if a deeper negation names p.
func Explain(ctx context.Context, l *Loader, p, cwd string, opts CollectOptions) (*Reason, error) {
	abs := fsys.Clean(cwd, p)
	dir, ok := fsys.Parent(abs)
	if !ok {
		return nil, nil
	}

	set, err := collect(ctx, l, cwd, dir, opts)
	if err != nil {
		return nil, err
	}

	isDir := strings.HasSuffix(p, "/") || existsAsDir(l.FS(), dir, abs)
	d := NewEvaluator(set).Evaluate(abs, isDir)
	if d.Rule == nil {
		return nil, nil
	}
	return &Reason{
		Source:  d.Rule.Source,
		Line:    d.Rule.Line,
		Pattern: d.Rule.Pattern,
		Path:    p,
		Ignored: d.Excluded,
	}, nil
}

func existsAsDir(fs fsys.FS, parent, abs string) bool {
	entries, err := fs.ReadDir(parent)
	if err != nil {
		return false
	}
	name := abs[strings.LastIndexByte(abs, '/')+1:]
	i := slices.IndexFunc(entries, func(e iofs.DirEntry) bool { return e.Name() == name })
	return i >= 0 && entries[i].IsDir()
}
