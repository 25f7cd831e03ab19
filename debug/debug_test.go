package debug_test

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/db47h/sprig"
	"github.com/db47h/sprig/debug"
	"github.com/db47h/sprig/gpu/gputest"
	"golang.org/x/image/font/gofont/goregular"
)

func TestTimer(t *testing.T) {
	var tm debug.Timer
	if tm.AveragePerSecond() != 0 {
		t.Fatal("empty timer reports a rate")
	}
	for i := 0; i < 64; i++ {
		tm.Add(time.Second / 50)
	}
	if avg := tm.Average(); avg != time.Second/50 {
		t.Fatalf("Average() = %v", avg)
	}
	if r := tm.AveragePerSecond(); r < 49.99 || r > 50.01 {
		t.Fatalf("AveragePerSecond() = %g", r)
	}
}

func TestInfoBox(t *testing.T) {
	var dev gputest.Device
	r, err := sprig.NewWithFont(&dev, goregular.TTF, sprig.Logger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	s := debug.StatsString(sprig.Stats{DrawCalls: 2, Quads: 3, Glyphs: 4}, 60)
	if !strings.Contains(s, "60.0 fps") || !strings.Contains(s, "draw calls: 2") {
		t.Fatalf("StatsString() = %q", s)
	}

	r.Begin(640, 480)
	debug.InfoBox(r, 640, debug.TopRight, 12, "ok")
	r.End()
	if len(dev.Calls) != 2 {
		t.Fatalf("%d draw calls", len(dev.Calls))
	}
	box := dev.Calls[0].Vertices.([]sprig.Vertex)
	if len(box) != 4 {
		t.Fatalf("%d box vertices", len(box))
	}
	if x := box[2].Position.X; x < 639.99 || x > 640.01 {
		t.Errorf("box right edge at %g, want 640", x)
	}
	if st := r.Stats(); st.Quads != 1 || st.Glyphs != 2 {
		t.Errorf("stats %+v", st)
	}
}
