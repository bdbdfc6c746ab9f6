// Package cli implements the energyd command tree: serve, register and models.
package cli

import (
	"fmt"
	"io"
	"os"

	"energyd/internal/config"
)

// Options are the persistent flags shared by every subcommand.
type Options struct {
	ConfigPath string
	EnvFile    string
	Addr       string
	StoreDir   string
	ModelsDir  string
	LogLevel   string
	LogFormat  string

	Stdout io.Writer
	Stderr io.Writer
}

// resolveConfig merges, in increasing precedence, defaults, the config file,
// the environment and explicit flags.
func resolveConfig(o *Options) (config.Config, error) {
	var cfg config.Config
	if err := config.LoadDotEnv(o.EnvFile); err != nil {
		return cfg, err
	}
	if o.ConfigPath != "" {
		c, err := config.Load(o.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	if err := config.ApplyEnv(&cfg, nil); err != nil {
		return cfg, err
	}
	if o.Addr != "" {
		cfg.Addr = o.Addr
	}
	if o.StoreDir != "" {
		cfg.StoreDir = o.StoreDir
	}
	if o.ModelsDir != "" {
		cfg.ModelsDir = o.ModelsDir
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
	config.Defaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// MainWithArgs runs the command tree and returns the process exit code.
func MainWithArgs(args []string) int {
	o := &Options{Stdout: os.Stdout, Stderr: os.Stderr}
	root := buildRootCmdWith(o)
	root.SetArgs(args)
	root.SetOut(o.Stdout)
	root.SetErr(o.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(o.Stderr, "error:", err)
		return 1
	}
	return 0
}

// Main returns an exit code for use by cmd/energyd.
func Main() int { return MainWithArgs(os.Args[1:]) }
