package render

import "time"

// FPS tracks frames per second the way the draw callback observes them: a
// one-second anchor, a frame count since the anchor, and the last computed
// rate.
type FPS struct {
	now    func() time.Time
	anchor time.Time
	frames int
	rate   int
}

// NewFPS creates a counter anchored at the current time. now may be nil, in
// which case time.Now is used; tests inject a fake clock.
func NewFPS(now func() time.Time) *FPS {
	if now == nil {
		now = time.Now
	}
	return &FPS{now: now, anchor: now()}
}

// Frame records one completed frame and updates the rate when at least one
// second has elapsed since the anchor.
//
// When more than a second passed between frames (for example the loop was
// blocked by a terminal resize), the anchor advances in whole-second steps
// and the accumulated frames divide by the steps skipped, so a long stall
// reads as a momentary dip rather than a spike. The frame that closes a
// window seeds the next one, which keeps a steady one-frame-per-second
// stream reporting exactly 1.
func (f *FPS) Frame() {
	t := f.now()
	if t.Sub(f.anchor) < time.Second {
		f.frames++
		return
	}

	seconds := 0
	for t.Sub(f.anchor) >= time.Second {
		f.anchor = f.anchor.Add(time.Second)
		seconds++
	}
	f.rate = f.frames / seconds
	f.frames = 1
}

// Rate returns the most recently computed frames-per-second value.
func (f *FPS) Rate() int {
	return f.rate
}
