package tui

import (
	"time"

	"go.uber.org/zap"

	"github.com/termhost/termhost/guest"
	"github.com/termhost/termhost/render"
)

var _ guest.Hooks = (*App)(nil)

// LogNormal keeps the guest's latest log line for the status area.
func (a *App) LogNormal(text string) {
	a.lastLog = text
	a.lastLogError = false
	a.logger.Info("guest log", zap.String("text", text))
}

// LogError is LogNormal with error severity.
func (a *App) LogError(text string) {
	a.lastLog = text
	a.lastLogError = true
	a.logger.Warn("guest log", zap.String("text", text))
}

// ElapsedMS reports milliseconds since the host started. The guest paces its
// own ticks off this clock.
func (a *App) ElapsedMS() int32 {
	return int32(time.Since(a.startedAt).Milliseconds())
}

// DrawFrame accepts one complete frame from the guest. The guest calls this
// reentrantly from inside Step, so the new frame lands before the view is
// rebuilt. A frame of the wrong size is rejected and the previous frame
// stays on screen.
func (a *App) DrawFrame(pixels []byte) {
	img, err := render.NewFrame(pixels)
	if err != nil {
		a.lastLog = err.Error()
		a.lastLogError = true
		a.logger.Warn("frame rejected", zap.Error(err))
		return
	}

	a.frame = img
	a.dirty = true
	a.fps.Frame()
}
