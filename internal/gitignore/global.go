package gitignore

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/adrg/xdg"
	gitconfig "github.com/go-git/go-git/v5/plumbing/format/config"

	"github.com/Aman-CERP/gitglob/internal/fsys"
)

// GitEnv locates the user's git configuration.
type GitEnv struct {
	Home       string // home directory, for ~/.gitconfig and "~/" expansion
	ConfigHome string // XDG config home, for git/config and git/ignore
}

// DefaultGitEnv reads the environment of the current process.
func DefaultGitEnv() GitEnv {
	home, _ := os.UserHomeDir()
	return GitEnv{
		Home:       fsys.Clean("/", home),
		ConfigHome: fsys.Clean("/", xdg.ConfigHome),
	}
}

// GlobalExcludesFile resolves core.excludesFile the way git does: the XDG
// config is read first and ~/.gitconfig overrides it. When neither sets the
// key the XDG default git/ignore is returned. The file may not exist.
func GlobalExcludesFile(fs fsys.FS, env GitEnv) string {
	var excludes string
	for _, name := range []string{
		fsys.Join(env.ConfigHome, "git/config"),
		fsys.Join(env.Home, ".gitconfig"),
	} {
		if v := readExcludesFile(fs, name); v != "" {
			excludes = v
		}
	}

	if excludes == "" {
		return fsys.Join(env.ConfigHome, "git/ignore")
	}
	if rest, ok := strings.CutPrefix(excludes, "~/"); ok {
		return fsys.Join(env.Home, rest)
	}
	return fsys.Clean(env.Home, excludes)
}

func readExcludesFile(fs fsys.FS, name string) string {
	data, err := fs.ReadFile(name)
	if err != nil {
		return ""
	}
	cfg := gitconfig.New()
	if err := gitconfig.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		slog.Warn("unparsable git config, ignoring",
			slog.String("path", name),
			slog.String("error", err.Error()))
		return ""
	}
	return cfg.Section("core").Options.Get("excludesfile")
}

// RepositoryExclude finds the repository enclosing dir and returns its
// .git/info/exclude path together with the repository root. ok is false
// outside a repository.
func RepositoryExclude(fs fsys.FS, dir string) (exclude, repoRoot string, ok bool) {
	for {
		if isDir(fs, fsys.Join(dir, ".git")) {
			return fsys.Join(dir, ".git/info/exclude"), dir, true
		}
		parent, more := fsys.Parent(dir)
		if !more {
			return "", "", false
		}
		dir = parent
	}
}

// isDir reports whether p is a readable directory. Worktree .git files are
// not directories and carry no info/exclude of their own.
func isDir(fs fsys.FS, p string) bool {
	_, err := fs.ReadDir(p)
	return err == nil
}
