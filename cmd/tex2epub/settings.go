package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-tex2epub/internal/config"
	"github.com/alnah/go-tex2epub/internal/fileutil"
	"github.com/alnah/go-tex2epub/internal/hints"
)

// loadSettings loads the config named by the flags, applies the flags over
// it (CLI wins) and validates the result.
func loadSettings(f *convertFlags) (*config.Config, error) {
	cfg, err := loadConfig(f.common.config)
	if err != nil {
		return nil, err
	}

	mergeFlags(f, cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// loadConfig returns the defaults when nameOrPath is empty.
func loadConfig(nameOrPath string) (*config.Config, error) {
	if nameOrPath == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(nameOrPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			var searched []string
			if !strings.ContainsAny(nameOrPath, `/\`) {
				searched = config.SearchPaths(nameOrPath)
			}
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(searched))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	if f.source.extension != "" {
		cfg.Source.Extension = f.source.extension
	}
	if f.source.footnotes != "" {
		cfg.Footnotes.Mode = f.source.footnotes
	}

	if f.output.dir != "" {
		cfg.Output.DefaultDir = f.output.dir
	}
	if f.output.pattern != "" {
		cfg.Output.FilePattern = f.output.pattern
	}
	if f.output.language != "" {
		cfg.Output.Language = f.output.language
	}
	if f.changed != nil && f.changed("standalone") {
		cfg.Output.Standalone = f.output.standalone
	}

	if f.assets.style != "" {
		cfg.Assets.Style = f.assets.style
	}
	if f.assets.assetPath != "" {
		cfg.Assets.BasePath = f.assets.assetPath
	}
	if f.assets.noStyle {
		cfg.Assets.Style = ""
	}
}

// applyDefaults fills fields a config file left empty.
func applyDefaults(cfg *config.Config) {
	if cfg.Source.Extension == "" {
		cfg.Source.Extension = fileutil.DefaultExtension
	}
	if cfg.Output.FilePattern == "" {
		cfg.Output.FilePattern = config.DefaultFilePattern
	}
	if cfg.Output.Language == "" {
		cfg.Output.Language = config.DefaultLanguage
	}
}
