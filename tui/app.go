// Package tui owns the host state and the main loop.
//
// The Bubble Tea update loop is the single thread of control: key messages,
// the millisecond step tick and the guest's reentrant draw callback all
// mutate the same App, never concurrently. While the guest is inside Step,
// control re-enters the App only through the guest hooks (a nested
// synchronous call), so no field needs locking.
package tui

import (
	"context"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/termhost/termhost/input"
	"github.com/termhost/termhost/render"
	"github.com/termhost/termhost/term"
)

// stepInterval paces the loop. It must stay below the guest's internal tick
// so a tick boundary is never missed by more than this; extra step calls are
// no-ops inside the guest.
const stepInterval = time.Millisecond

// GuestDriver is the slice of the guest surface the loop drives.
type GuestDriver interface {
	Step(ctx context.Context) error
	SubmitInput(ctx context.Context, kind, code int32) error
}

// Options configures a new App.
type Options struct {
	Font         term.FontSize
	Encoding     string
	Zoom         int
	ReleaseDelay time.Duration
	KeyOverrides map[rune]int32
	Logger       *zap.Logger
}

// App is the host state shared by the main loop and the guest callbacks:
// current frame, log line, zoom, encoding selection, FPS accounting and the
// exit path.
type App struct {
	driver     GuestDriver
	translator *input.Translator
	keys       keyMap
	cycle      *render.Cycle
	logger     *zap.Logger

	font         term.FontSize
	zoom         int
	releaseDelay time.Duration

	startedAt time.Time
	fps       *render.FPS

	lastLog      string
	lastLogError bool

	frame    *image.RGBA // raw frame as last drawn by the guest
	rendered string      // frame encoded for the active encoding and zoom
	dirty    bool        // rendered is stale

	err error // fatal error to report after the terminal is restored
}

// New creates the host state. The guest driver is attached separately
// because the guest's hooks need the App to exist first.
func New(opts Options) *App {
	if opts.Zoom < 1 {
		opts.Zoom = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	font := opts.Font
	if font.Width == 0 || font.Height == 0 {
		font = term.DefaultFontSize
	}

	cycle := render.DefaultCycle()
	if opts.Encoding != "" {
		cycle.Select(opts.Encoding)
	}

	return &App{
		translator:   input.NewTranslator(opts.KeyOverrides),
		keys:         defaultKeyMap(),
		cycle:        cycle,
		logger:       opts.Logger,
		font:         font,
		zoom:         opts.Zoom,
		releaseDelay: opts.ReleaseDelay,
		startedAt:    time.Now(),
		fps:          render.NewFPS(nil),
	}
}

// SetDriver attaches the guest. Must happen before the program runs.
func (a *App) SetDriver(d GuestDriver) {
	a.driver = d
}

// Err returns the fatal error that ended the loop, if any.
func (a *App) Err() error {
	return a.err
}

// Zoom returns the current zoom factor.
func (a *App) Zoom() int {
	return a.zoom
}

type stepMsg time.Time

type releaseMsg struct {
	code int32
}

func stepTick() tea.Cmd {
	return tea.Tick(stepInterval, func(t time.Time) tea.Msg {
		return stepMsg(t)
	})
}

func (a *App) Init() tea.Cmd {
	return stepTick()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, a.keys.CycleEncoding):
			a.cycle.Next()
			a.dirty = true
			a.logger.Debug("encoding cycled", zap.String("encoding", a.cycle.Current().Name()))

		case key.Matches(msg, a.keys.ZoomIn):
			a.zoom++
			a.dirty = true

		case key.Matches(msg, a.keys.ZoomOut):
			if a.zoom > 1 {
				a.zoom--
				a.dirty = true
			}

		default:
			return a, a.forwardKey(msg)
		}

	case stepMsg:
		if err := a.driver.Step(context.Background()); err != nil {
			a.err = err
			return a, tea.Quit
		}
		return a, stepTick()

	case releaseMsg:
		kind, _ := a.translator.EventKind(input.Release)
		if err := a.driver.SubmitInput(context.Background(), kind, msg.code); err != nil {
			a.err = err
			return a, tea.Quit
		}
	}

	return a, nil
}

// forwardKey translates a terminal key and submits it as a press, then
// schedules the synthesized release. Untranslatable keys are dropped.
func (a *App) forwardKey(msg tea.KeyMsg) tea.Cmd {
	k, ok := keyFromTea(msg)
	if !ok {
		return nil
	}
	code, ok := a.translator.KeyCode(k)
	if !ok {
		return nil
	}
	kind, ok := a.translator.EventKind(input.Press)
	if !ok {
		return nil
	}

	if err := a.driver.SubmitInput(context.Background(), kind, code); err != nil {
		a.err = err
		return tea.Quit
	}

	if a.releaseDelay <= 0 {
		return nil
	}
	return tea.Tick(a.releaseDelay, func(time.Time) tea.Msg {
		return releaseMsg{code: code}
	})
}

// keyFromTea maps a Bubble Tea key message onto the translator's key model.
func keyFromTea(msg tea.KeyMsg) (input.Key, bool) {
	switch s := msg.String(); s {
	case "enter":
		return input.Key{Code: input.CodeEnter}, true
	case "backspace":
		return input.Key{Code: input.CodeBackspace}, true
	case "left":
		return input.Key{Code: input.CodeLeft}, true
	case "right":
		return input.Key{Code: input.CodeRight}, true
	case "up":
		return input.Key{Code: input.CodeUp}, true
	case "down":
		return input.Key{Code: input.CodeDown}, true
	case "tab":
		return input.Key{Code: input.CodeTab}, true
	case "esc":
		return input.Key{Code: input.CodeEscape}, true
	default:
		if n, err := strconv.Atoi(strings.TrimPrefix(s, "f")); err == nil && strings.HasPrefix(s, "f") {
			return input.Key{Code: input.CodeFunction, F: n}, true
		}
		runes := []rune(s)
		if len(runes) == 1 {
			return input.Key{Code: input.CodeRune, Rune: runes[0]}, true
		}
		return input.Key{}, false
	}
}
