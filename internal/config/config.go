// Package config loads git-tree settings from YAML, git config and command
// line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chmouel/git-tree/internal/git"
	"github.com/chmouel/git-tree/internal/theme"
	"github.com/chmouel/git-tree/internal/tree"
	"github.com/chmouel/git-tree/internal/utils"
	"gopkg.in/yaml.v3"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// AppConfig defines the git-tree configuration options.
type AppConfig struct {
	Theme       string // Theme name: see AvailableThemes in internal/theme
	Backend     string // "git" or "go-git"
	Color       string // "auto", "always" or "never"
	Format      string // "tree", "json", "yaml" or "toml"
	ShowIcons   bool   // Render Nerd Font icons in front of names (default: false)
	ShowIgnored bool
	Compact     bool // Join single-child directory chains
	DirsFirst   bool
	Summary     bool
	Depth       int
	Width       int // 0 disables truncation, -1 uses the terminal width
	DebugLog    string
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Theme:   theme.Default(),
		Backend: git.BackendGit,
		Color:   ColorAuto,
		Format:  string(tree.FormatTree),
	}
}

// Validate checks the enumerated settings.
func (cfg *AppConfig) Validate() error {
	if _, err := git.New(cfg.Backend); err != nil {
		return err
	}
	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", cfg.Color)
	}
	if _, err := tree.ParseFormat(cfg.Format); err != nil {
		return err
	}
	if theme.Normalize(cfg.Theme) == "" {
		return fmt.Errorf("unknown theme %q (want one of %s)", cfg.Theme, strings.Join(theme.AvailableThemes(), ", "))
	}
	if cfg.Depth < 0 {
		return fmt.Errorf("depth must not be negative: %d", cfg.Depth)
	}
	if cfg.Width < -1 {
		return fmt.Errorf("width must be -1, 0 or positive: %d", cfg.Width)
	}
	return nil
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func coerceString(value any, defaultVal string) string {
	if value == nil {
		return defaultVal
	}
	text := strings.TrimSpace(fmt.Sprintf("%v", value))
	if text == "" {
		return defaultVal
	}
	return text
}

// lastValue picks the final value of a multi-valued git config key.
func lastValue(value any) any {
	if values, ok := value.([]any); ok {
		if len(values) == 0 {
			return nil
		}
		return values[len(values)-1]
	}
	return value
}

// apply overlays the keys present in data on cfg. Keys use snake_case;
// dashes are accepted as well.
func (cfg *AppConfig) apply(data map[string]any) {
	norm := make(map[string]any, len(data))
	for key, value := range data {
		norm[strings.ReplaceAll(strings.ToLower(key), "-", "_")] = lastValue(value)
	}

	cfg.Theme = strings.ToLower(coerceString(norm["theme"], cfg.Theme))
	cfg.Backend = strings.ToLower(coerceString(norm["backend"], cfg.Backend))
	cfg.Color = strings.ToLower(coerceString(norm["color"], cfg.Color))
	cfg.Format = strings.ToLower(coerceString(norm["format"], cfg.Format))
	cfg.ShowIcons = coerceBool(norm["icons"], cfg.ShowIcons)
	cfg.ShowIgnored = coerceBool(norm["all"], cfg.ShowIgnored)
	cfg.Compact = coerceBool(norm["compact"], cfg.Compact)
	cfg.DirsFirst = coerceBool(norm["dirs_first"], cfg.DirsFirst)
	cfg.Summary = coerceBool(norm["summary"], cfg.Summary)
	cfg.Depth = coerceInt(norm["depth"], cfg.Depth)
	cfg.Width = coerceInt(norm["width"], cfg.Width)
	cfg.DebugLog = coerceString(norm["debug_log"], cfg.DebugLog)
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	cfg.apply(data)
	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// DefaultPaths lists the files LoadConfig tries without an explicit path.
func DefaultPaths() []string {
	base := filepath.Clean(filepath.Join(getConfigDir(), "git-tree"))
	return []string{
		filepath.Join(base, "config.yaml"),
		filepath.Join(base, "config.yml"),
	}
}

// LoadConfig reads the YAML configuration. An explicit configPath must
// exist; the default locations are optional. Global gittree.* git config
// values are applied on top of the file.
func LoadConfig(configPath string) (*AppConfig, error) {
	paths := DefaultPaths()
	if configPath != "" {
		expanded, err := utils.ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		if _, err := os.Stat(expanded); err != nil {
			return DefaultConfig(), fmt.Errorf("config file: %w", err)
		}
		paths = []string{expanded}
	}

	cfg := DefaultConfig()
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- the path is the user's own config file
		data, err := os.ReadFile(path)
		if err != nil {
			return DefaultConfig(), err
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
		}

		cfg = parseConfig(yamlData)
		break
	}

	gitCfg, err := loadGitConfig()
	if err != nil {
		return cfg, fmt.Errorf("git config: %w", err)
	}
	cfg.apply(gitCfg)

	return cfg, nil
}

// ApplyCLIOverrides applies --config gittree.key=value overrides.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	cfg.apply(data)
	return nil
}

