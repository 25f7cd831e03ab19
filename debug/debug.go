// Package debug provides a frame timer and an on-screen info box.
package debug

import (
	"fmt"
	"image/color"
	"time"

	"github.com/db47h/sprig"
)

const samples = 32

// Timer keeps a moving average of the last 32 frame times.
type Timer struct {
	times [samples]time.Duration
	index int
}

func (t *Timer) Add(dt time.Duration) {
	t.times[t.index] = dt
	t.index = (t.index + 1) & (samples - 1)
}

func (t *Timer) Average() time.Duration {
	var avg time.Duration
	for _, dt := range t.times {
		avg += dt
	}
	return avg / time.Duration(len(t.times))
}

func (t *Timer) AveragePerSecond() float64 {
	avg := t.Average()
	if avg == 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// Corner selects where InfoBox draws.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
)

// Background is the color of info boxes.
var Background = color.NRGBA{A: 192}

// InfoBox draws s in white over a dark box in the given corner of a viewport
// of the given width. It must be called between Begin and End.
func InfoBox(r *sprig.Renderer, width int, c Corner, size float32, s string) {
	const margin = 2
	sz := r.MeasureText(size, s).Add(sprig.Pt(2*margin, 2*margin))
	pos := sprig.Point{}
	if c == TopRight {
		pos.X = float32(width) - sz.X
	}
	r.DrawQuad(sprig.Extent{Pos: pos, Size: sz}, Background)
	r.DrawText(pos.Add(sprig.Pt(margin, margin)), size, color.White, s)
}

// StatsString formats renderer statistics and a frame rate for InfoBox.
func StatsString(s sprig.Stats, fps float64) string {
	return fmt.Sprintf("%.1f fps\ndraw calls: %d (%d forced)\nquads: %d glyphs: %d",
		fps, s.DrawCalls, s.ForcedFlushes, s.Quads, s.Glyphs)
}
