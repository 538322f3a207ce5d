package preflight

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Aman-CERP/gitglob/internal/fsys"
	"github.com/Aman-CERP/gitglob/internal/gitignore"
	"github.com/Aman-CERP/gitglob/internal/scanner"
)

// countTimeout bounds the directory count on very large trees.
const countTimeout = 10 * time.Second

// CheckInotifyWatches compares the kernel's per-user inotify watch limit
// with the directories `gitglob watch` would register: every non-ignored
// directory on the way to a file, plus the root. Systems without inotify pass.
func (c *Checker) CheckInotifyWatches(ctx context.Context, projectPath string) CheckResult {
	result := CheckResult{
		Name: "inotify_watches",
	}

	data, err := os.ReadFile(filepath.Join(c.procRoot, "sys", "fs", "inotify", "max_user_watches"))
	if err != nil {
		result.Status = StatusPass
		result.Message = "not applicable"
		return result
	}
	limit, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("unreadable limit %q", strings.TrimSpace(string(data)))
		return result
	}

	loader, err := gitignore.NewLoader(c.fs)
	if err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("cannot count directories: %v", err)
		return result
	}
	ctx, cancel := context.WithTimeout(ctx, countTimeout)
	defer cancel()

	root := fsys.Clean("/", filepath.ToSlash(projectPath))
	dirs := map[string]bool{".": true}
	partial := false
	for res := range scanner.New(loader).Scan(ctx, scanner.Options{Root: root}) {
		if res.Error != nil {
			if ctx.Err() == nil {
				result.Status = StatusWarn
				result.Message = fmt.Sprintf("cannot count directories: %v", res.Error)
				return result
			}
			partial = true
			break
		}
		for d := path.Dir(res.Entry.Path); !dirs[d]; d = path.Dir(d) {
			dirs[d] = true
		}
	}
	if ctx.Err() != nil {
		partial = true
	}

	count := fmt.Sprintf("%d", len(dirs))
	if partial {
		count = "at least " + count
	}
	result.Message = fmt.Sprintf("%s directories (limit: %d)", count, limit)
	if len(dirs) > limit {
		result.Status = StatusWarn
		result.Details = "Run 'sudo sysctl fs.inotify.max_user_watches=524288' before 'gitglob watch'"
		return result
	}
	result.Status = StatusPass
	return result
}
