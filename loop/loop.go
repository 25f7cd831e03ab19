// Package loop provides a fixed time step main loop.
package loop

import (
	"time"
)

// EventProcessor wraps the ProcessEvents method.
//
// Graphical applications that need to swap buffers should swap their buffers in
// their ProcessEvents method, before actually processing events.
type EventProcessor interface {
	ProcessEvents() (quit bool)
}

// Updater is driven by FixedStep.Run.
type Updater interface {
	EventProcessor
	// Update advances the simulation by exactly one time step.
	Update(timestep time.Duration)
	// Draw renders a frame. partial is the simulation time not yet consumed
	// by Update, in [0, timestep).
	Draw(frameTime, partial time.Duration)
}

// FrameStarter is the interface implemented by any Updater that wants the time
// stamp at the beginning of each loop iteration.
type FrameStarter interface {
	FrameStart(time.Time)
}

// Default timings for FixedStep.
const (
	DefaultDT    time.Duration = time.Second / 60
	DefaultMaxFT time.Duration = time.Second / 4
)

// FixedStep calls Update at a fixed rate and Draw once per iteration.
type FixedStep struct {
	DT    time.Duration // timestep
	MaxFT time.Duration // maximum frame time, longer frames are truncated
	// Now returns the current time. It defaults to time.Now.
	Now func() time.Time
}

// Run runs the loop until a.ProcessEvents returns true.
func (l *FixedStep) Run(a Updater) {
	if l.DT <= 0 {
		l.DT = DefaultDT
	}
	if l.MaxFT <= 0 {
		l.MaxFT = DefaultMaxFT
	}
	now := l.Now
	if now == nil {
		now = time.Now
	}
	fStart, _ := a.(FrameStarter)

	var (
		tPrev = now()
		tAcc  time.Duration
	)
	for !a.ProcessEvents() {
		t := now()
		ft := t.Sub(tPrev)
		if ft > l.MaxFT {
			ft = l.MaxFT
		}
		tAcc += ft
		tPrev = t
		if fStart != nil {
			fStart.FrameStart(t)
		}
		for ; tAcc >= l.DT; tAcc -= l.DT {
			a.Update(l.DT)
		}
		a.Draw(ft, tAcc)
	}
}
