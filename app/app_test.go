package app

import (
	"testing"
	"time"
)

type testApp struct {
	draws   int
	updates int
}

func (a *testApp) Init(Window) error                { return nil }
func (a *testApp) Terminate() error                 { return nil }
func (a *testApp) OnUpdate(time.Duration)           { a.updates++ }
func (a *testApp) OnDraw(w Window, _ time.Duration) { a.draws++ }

func TestRunner(t *testing.T) {
	var (
		a     testApp
		polls int
		swaps []bool
	)
	run(&a, nil, func(swap bool) bool {
		polls++
		swaps = append(swaps, swap)
		return polls > 3
	})
	if a.draws != 3 {
		t.Fatalf("%d draws, want 3", a.draws)
	}
	// no swap before the first frame, one swap after each frame.
	want := []bool{false, true, true, true}
	if len(swaps) != len(want) {
		t.Fatalf("%d polls", len(swaps))
	}
	for i := range want {
		if swaps[i] != want[i] {
			t.Errorf("poll %d: swap = %v", i, swaps[i])
		}
	}
}

func TestWinCfg(t *testing.T) {
	cfg := newWinCfg([]WindowOption{Title("t"), Size(320, 200), Pos(1, 2), VSync(false), Visible(false)})
	if cfg.title != "t" || cfg.w != 320 || cfg.h != 200 || cfg.x != 1 || cfg.y != 2 || cfg.vsync || !cfg.hidden {
		t.Errorf("bad config %+v", *cfg)
	}
	if cfg.deviceOptions() != nil {
		t.Error("device options without a logger")
	}
	if !newWinCfg(nil).vsync {
		t.Error("vsync not enabled by default")
	}
}
