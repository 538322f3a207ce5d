package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/gitglob/internal/logging"
)

// ProjectFile is the per-project configuration file name.
const ProjectFile = ".gitglob.yaml"

// Config is the complete gitglob configuration.
type Config struct {
	Version int         `yaml:"version" json:"version"`
	Walk    WalkConfig  `yaml:"walk" json:"walk"`
	Cache   CacheConfig `yaml:"cache" json:"cache"`
	Watch   WatchConfig `yaml:"watch" json:"watch"`
	Log     LogConfig   `yaml:"log" json:"log"`
}

// WalkConfig selects the ignore sources applied to every enumeration.
type WalkConfig struct {
	// ExcludesFiles are extra ignore files applied at the search root,
	// ranked below every .gitignore.
	ExcludesFiles []string `yaml:"excludes_files" json:"excludes_files"`

	// GitExcludes also applies core.excludesFile and .git/info/exclude.
	GitExcludes bool `yaml:"git_excludes" json:"git_excludes"`

	// StopAtRepository ends the upward .gitignore search at the enclosing
	// repository instead of the filesystem root.
	StopAtRepository bool `yaml:"stop_at_repository" json:"stop_at_repository"`
}

// CacheConfig sizes the parsed ignore file cache used by watch and serve.
type CacheConfig struct {
	Size int `yaml:"size" json:"size"`
}

// WatchConfig configures `gitglob watch`.
type WatchConfig struct {
	// Debounce is how long events are coalesced before re-enumerating,
	// as a Go duration string.
	Debounce string `yaml:"debounce" json:"debounce"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Walk: WalkConfig{
			ExcludesFiles: []string{},
		},
		Cache: CacheConfig{
			Size: 1000,
		},
		Watch: WatchConfig{
			Debounce: "200ms",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DebounceDuration parses Watch.Debounce. Validate guarantees it parses.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}

// GetUserConfigPath returns the user configuration file:
// $XDG_CONFIG_HOME/gitglob/config.yaml, by default
// ~/.config/gitglob/config.yaml.
func GetUserConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gitglob", "config.yaml")
	}
	return filepath.Join(xdg.ConfigHome, "gitglob", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// LoadUserConfig loads the user configuration file over the defaults.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	var cfg Config
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Load loads configuration for the project in dir, in increasing
// precedence:
//  1. Hardcoded defaults
//  2. User config ($XDG_CONFIG_HOME/gitglob/config.yaml)
//  3. Project config (.gitglob.yaml or .gitglob.yml in dir)
//  4. Environment variables (GITGLOB_*)
//
// Relative excludes files from the project config resolve against dir.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userCfg, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}
	if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ProjectConfigPath returns the project config file in dir, or "" when
// there is none. .yaml wins over .yml.
func ProjectConfigPath(dir string) string {
	for _, name := range []string{ProjectFile, ".gitglob.yml"} {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func (c *Config) loadFromFile(dir string) error {
	p := ProjectConfigPath(dir)
	if p == "" {
		return nil
	}

	var parsed Config
	if err := parsed.loadYAML(p); err != nil {
		return err
	}
	for i, f := range parsed.Walk.ExcludesFiles {
		if !filepath.IsAbs(f) && !strings.HasPrefix(f, "~") {
			parsed.Walk.ExcludesFiles[i] = filepath.Join(dir, f)
		}
	}
	c.mergeWith(&parsed)
	return nil
}

// loadYAML parses path into c without merging defaults.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// mergeWith merges non-zero values from other into c. Excludes files
// accumulate rather than replace.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if len(other.Walk.ExcludesFiles) > 0 {
		c.Walk.ExcludesFiles = append(c.Walk.ExcludesFiles, other.Walk.ExcludesFiles...)
	}
	if other.Walk.GitExcludes {
		c.Walk.GitExcludes = true
	}
	if other.Walk.StopAtRepository {
		c.Walk.StopAtRepository = true
	}

	if other.Cache.Size != 0 {
		c.Cache.Size = other.Cache.Size
	}
	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// applyEnvOverrides applies GITGLOB_* environment variable overrides.
// Malformed numbers and booleans are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GITGLOB_EXCLUDES_FILES"); v != "" {
		c.Walk.ExcludesFiles = append(c.Walk.ExcludesFiles, filepath.SplitList(v)...)
	}
	if v := os.Getenv("GITGLOB_GIT_EXCLUDES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Walk.GitExcludes = b
		}
	}
	if v := os.Getenv("GITGLOB_STOP_AT_REPOSITORY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Walk.StopAtRepository = b
		}
	}
	if v := os.Getenv("GITGLOB_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Cache.Size = n
		}
	}
	if v := os.Getenv("GITGLOB_WATCH_DEBOUNCE"); v != "" {
		c.Watch.Debounce = v
	}
	if v := os.Getenv("GITGLOB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// FindProjectRoot walks up from startDir to the first directory holding
// .git or a gitglob project config. Without either it returns startDir.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	if !dirExists(absDir) {
		return "", fmt.Errorf("directory does not exist: %s", absDir)
	}

	current := absDir
	for {
		if fileExists(filepath.Join(current, ".git")) || dirExists(filepath.Join(current, ".git")) ||
			ProjectConfigPath(current) != "" {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return absDir, nil
		}
		current = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must be non-negative, got %d", c.Cache.Size)
	}

	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("watch.debounce must be a duration such as \"200ms\", got %q", c.Watch.Debounce)
	}
	if d < 0 {
		return fmt.Errorf("watch.debounce must be non-negative, got %s", c.Watch.Debounce)
	}

	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Log.Level)
	}

	for _, f := range c.Walk.ExcludesFiles {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("walk.excludes_files must not contain empty entries")
		}
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file, creating its
// directory.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ExpandHome resolves a leading "~/" against the user's home directory.
func ExpandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
