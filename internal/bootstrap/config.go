package bootstrap

import (
	"fmt"
	"io"

	"github.com/chmouel/git-tree/internal/config"
	"github.com/chmouel/git-tree/internal/log"
	"github.com/chmouel/git-tree/internal/utils"
	urfavecli "github.com/urfave/cli/v3"
)

// loadConfig resolves the configuration: defaults, the YAML file, global git
// config, --config overrides and finally the explicit flags.
func loadConfig(cmd *urfavecli.Command, stderr io.Writer) (*config.AppConfig, error) {
	// Set up debug logging before loading config
	if debugLog := cmd.String("debug-log"); debugLog != "" {
		openDebugLog(debugLog, stderr)
	}

	cfg, err := config.LoadConfig(cmd.String("config-file"))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		if cfg == nil {
			cfg = config.DefaultConfig()
		}
	}

	if configOverrides := cmd.StringSlice("config"); len(configOverrides) > 0 {
		if err := cfg.ApplyCLIOverrides(configOverrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	// If debug log wasn't set via flag, check if it's in the config
	if cmd.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			openDebugLog(cfg.DebugLog, stderr)
		} else {
			// No debug log configured, discard any buffered logs
			_ = log.SetFile("")
		}
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Printf("config: %+v", *cfg)
	return cfg, nil
}

// stderrLog sends the debug log to standard error.
const stderrLog = "-"

func openDebugLog(path string, stderr io.Writer) {
	if path == stderrLog {
		log.SetWriter(stderr)
		return
	}
	if expanded, err := utils.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

// applyFlags copies explicitly set flags over the configuration.
func applyFlags(cmd *urfavecli.Command, cfg *config.AppConfig) {
	if cmd.IsSet("all") {
		cfg.ShowIgnored = cmd.Bool("all")
	}
	if cmd.IsSet("depth") {
		cfg.Depth = cmd.Int("depth")
	}
	if cmd.IsSet("summary") {
		cfg.Summary = cmd.Bool("summary")
	}
	if cmd.IsSet("backend") {
		cfg.Backend = cmd.String("backend")
	}
	if cmd.IsSet("format") {
		cfg.Format = cmd.String("format")
	}
	if cmd.IsSet("color") {
		cfg.Color = cmd.String("color")
	}
	if cmd.IsSet("theme") {
		cfg.Theme = cmd.String("theme")
	}
	if cmd.IsSet("icons") {
		cfg.ShowIcons = cmd.Bool("icons")
	}
	if cmd.IsSet("compact") {
		cfg.Compact = cmd.Bool("compact")
	}
	if cmd.IsSet("dirs-first") {
		cfg.DirsFirst = cmd.Bool("dirs-first")
	}
	if cmd.IsSet("width") {
		cfg.Width = cmd.Int("width")
	}
}
