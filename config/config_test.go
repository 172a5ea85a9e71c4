package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/termhost/termhost/input"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termhost.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Display.Encoding != "Halfblocks" || cfg.Display.Zoom != 1 {
		t.Errorf("display defaults = %+v", cfg.Display)
	}
	if cfg.Guest.MemoryPages != 102 {
		t.Errorf("memory pages = %d, want 102", cfg.Guest.MemoryPages)
	}
	if cfg.ReleaseDelay() != 150*time.Millisecond {
		t.Errorf("release delay = %v, want 150ms", cfg.ReleaseDelay())
	}

	overrides, err := cfg.KeyOverrides()
	if err != nil {
		t.Fatalf("KeyOverrides failed: %v", err)
	}
	if overrides != nil {
		t.Error("empty keymap must yield nil overrides (translator defaults)")
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[display]
encoding = "ASCII"
zoom = 2

[input]
release-delay-ms = 80

[input.keymap]
j = "ctrl"
k = "space"

[guest]
memory-pages = 16

[log]
file = "/tmp/termhost.log"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Display.Encoding != "ASCII" || cfg.Display.Zoom != 2 {
		t.Errorf("display = %+v", cfg.Display)
	}
	if cfg.Guest.MemoryPages != 16 {
		t.Errorf("memory pages = %d, want 16", cfg.Guest.MemoryPages)
	}
	if cfg.Log.File != "/tmp/termhost.log" {
		t.Errorf("log file = %q", cfg.Log.File)
	}
	if cfg.ReleaseDelay() != 80*time.Millisecond {
		t.Errorf("release delay = %v, want 80ms", cfg.ReleaseDelay())
	}

	overrides, err := cfg.KeyOverrides()
	if err != nil {
		t.Fatalf("KeyOverrides failed: %v", err)
	}
	if overrides['j'] != input.GuestKeyCtrl || overrides['k'] != input.GuestKeySpace {
		t.Errorf("overrides = %v", overrides)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[display]
zoom = 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Display.Zoom != 3 {
		t.Errorf("zoom = %d, want 3", cfg.Display.Zoom)
	}
	if cfg.Display.Encoding != "Halfblocks" {
		t.Errorf("encoding = %q, want default Halfblocks", cfg.Display.Encoding)
	}
	if cfg.Guest.MemoryPages != 102 {
		t.Errorf("memory pages = %d, want default 102", cfg.Guest.MemoryPages)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zoom below one", "[display]\nzoom = 0\n"},
		{"negative delay", "[input]\nrelease-delay-ms = -1\n"},
		{"bad keymap key", "[input.keymap]\nzz = \"ctrl\"\n"},
		{"bad keymap value", "[input.keymap]\nj = \"hyper\"\n"},
		{"not toml", "display = [[[\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
