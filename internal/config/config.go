// Package config loads the provider wiring: which gatherer and renderer
// handles each component name. Builtin defaults cover the bundled providers;
// config files layer on top, later files winning per key.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/statectl/internal/providers"
	"github.com/danmuck/statectl/internal/shell"
)

// Config maps component names to handler factory ids.
type Config struct {
	Gather map[string]string `toml:"gather"`
	Render map[string]string `toml:"render"`
}

// Builtin returns the default provider wiring for the bundled providers.
func Builtin() Config {
	return Config{
		Gather: map[string]string{
			providers.HomebrewName: "homebrew",
			providers.AsdfName:     "asdf",
			providers.PipxName:     "pipx",
		},
		Render: map[string]string{
			providers.HomebrewName: "homebrew",
			providers.AsdfName:     "asdf",
			providers.PipxName:     "pipx",
		},
	}
}

// DefaultPaths lists the config files consulted when none are given
// explicitly. Missing files are skipped.
func DefaultPaths() []string {
	return []string{
		filepath.Join(configHome(), "statectl", "config.toml"),
		"./statectl.toml",
	}
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

// Load layers the default paths and then the explicitly given paths over
// the builtin wiring. Default paths may be absent; explicit paths must
// exist.
func Load(paths ...string) (Config, error) {
	cfg := Builtin()
	for _, path := range DefaultPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	for _, path := range paths {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	var layer Config
	if err := toml.Unmarshal(data, &layer); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	for name, factory := range layer.Gather {
		cfg.Gather[name] = factory
	}
	for name, factory := range layer.Render {
		cfg.Render[name] = factory
	}
	return nil
}

// Validate rejects blank component names and factory ids.
func Validate(cfg Config) error {
	for name, factory := range cfg.Gather {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(factory) == "" {
			return fmt.Errorf("gather config entry %q=%q is invalid", name, factory)
		}
	}
	for name, factory := range cfg.Render {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(factory) == "" {
			return fmt.Errorf("render config entry %q=%q is invalid", name, factory)
		}
	}
	return nil
}

// Registry builds the provider registry described by the config. Handlers
// are instantiated lazily on first use.
func (c Config) Registry(r shell.Runner) *providers.Registry {
	reg := providers.NewRegistry(r)
	for name, factory := range c.Gather {
		reg.DeferGatherer(name, factory)
	}
	for name, factory := range c.Render {
		reg.DeferRenderer(name, factory)
	}
	return reg
}
