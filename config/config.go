// Package config handles the optional termhost.toml host configuration.
package config

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/termhost/termhost/input"
)

// Config is the full host configuration. Every field has a usable default,
// so an absent or empty file is valid.
type Config struct {
	Display Display `toml:"display"`
	Input   Input   `toml:"input"`
	Guest   Guest   `toml:"guest"`
	Log     Log     `toml:"log"`
}

// Display selects the initial output encoding and zoom.
type Display struct {
	Encoding string `toml:"encoding"`
	Zoom     int    `toml:"zoom"`
}

// Input tunes key handling.
type Input struct {
	// ReleaseDelayMS is how long after a forwarded press the synthesized
	// release fires, since terminal backends deliver no key-up events.
	ReleaseDelayMS int `toml:"release-delay-ms"`

	// Keymap replaces the default modifier-simulation table. Keys are
	// single characters; values are guest key names (ctrl, alt, shift,
	// space, enter, escape, tab).
	Keymap map[string]string `toml:"keymap"`
}

// Guest sizes the shared linear memory.
type Guest struct {
	MemoryPages uint32 `toml:"memory-pages"`
}

// Log configures the host-side debug log. The terminal itself is occupied
// by the game, so logging goes to a file.
type Log struct {
	File string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Display: Display{Encoding: "Halfblocks", Zoom: 1},
		Input:   Input{ReleaseDelayMS: 150},
		Guest:   Guest{MemoryPages: 102},
	}
}

// Load parses a TOML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if cfg.Display.Zoom < 1 {
		return nil, fmt.Errorf("%s: display.zoom must be >= 1, got %d", path, cfg.Display.Zoom)
	}
	if cfg.Input.ReleaseDelayMS < 0 {
		return nil, fmt.Errorf("%s: input.release-delay-ms must not be negative", path)
	}
	if _, err := cfg.KeyOverrides(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// KeyOverrides resolves the keymap table into translator overrides. A nil
// result selects the translator's default modifier simulation.
func (c *Config) KeyOverrides() (map[rune]int32, error) {
	if len(c.Input.Keymap) == 0 {
		return nil, nil
	}

	overrides := make(map[rune]int32, len(c.Input.Keymap))
	for k, v := range c.Input.Keymap {
		r, size := utf8.DecodeRuneInString(k)
		if r == utf8.RuneError || size != len(k) {
			return nil, fmt.Errorf("keymap key %q is not a single character", k)
		}
		code, ok := input.GuestKeyByName(v)
		if !ok {
			return nil, fmt.Errorf("keymap value %q for key %q is not a known guest key", v, k)
		}
		overrides[r] = code
	}
	return overrides, nil
}

// ReleaseDelay returns the synthesized key-release delay as a duration.
func (c *Config) ReleaseDelay() time.Duration {
	return time.Duration(c.Input.ReleaseDelayMS) * time.Millisecond
}
