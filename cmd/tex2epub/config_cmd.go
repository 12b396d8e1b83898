package main

import (
	"fmt"

	"github.com/alnah/go-tex2epub/internal/config"
)

// runConfig prints the effective configuration: defaults, then the config
// file, then flags.
func runConfig(args []string, env *Environment) error {
	f, rest, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrUsage)
	}

	cfg, err := loadSettings(f)
	if err != nil {
		return err
	}

	out, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}
