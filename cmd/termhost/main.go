package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/termhost/termhost/config"
	"github.com/termhost/termhost/guest"
	"github.com/termhost/termhost/term"
	"github.com/termhost/termhost/tui"
)

func main() {
	var (
		wasmFile   = flag.String("wasm", "", "Path to the game wasm module")
		configFile = flag.String("config", "", "Path to termhost.toml (optional)")
		logFile    = flag.String("log", "", "Debug log file (overrides config)")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: termhost -wasm <game.wasm> [-config termhost.toml] [-log host.log]")
		os.Exit(1)
	}

	if err := run(*wasmFile, *configFile, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, configFile, logFile string) error {
	ctx := context.Background()

	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	logger, err := newLogger(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logger.Sync()
	guest.SetLogger(logger)

	wasmBytes, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read module: %w", err)
	}

	overrides, err := cfg.KeyOverrides()
	if err != nil {
		return err
	}

	app := tui.New(tui.Options{
		Font:         term.QueryFontSize(int(os.Stdout.Fd())),
		Encoding:     cfg.Display.Encoding,
		Zoom:         cfg.Display.Zoom,
		ReleaseDelay: cfg.ReleaseDelay(),
		KeyOverrides: overrides,
		Logger:       logger,
	})

	// The app doubles as the hook surface, so it must exist before the guest.
	g, err := guest.Load(ctx, guest.Config{Pages: cfg.Guest.MemoryPages}, wasmBytes, app)
	if err != nil {
		return err
	}
	defer g.Close(ctx)
	app.SetDriver(g)

	if _, err := g.Init(ctx, 0, 0); err != nil {
		return err
	}

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return app.Err()
}

// newLogger builds the host debug logger. The terminal belongs to the game,
// so without a file everything is discarded.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
