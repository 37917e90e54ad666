package tiling

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moveCall struct {
	id     platform.WindowID
	bounds platform.Rect
	hints  bool
}

type fakeBackend struct {
	desktop int
	display platform.Display
	active  platform.WindowID
	clients []platform.Window
	failFor map[platform.WindowID]bool
	moves   []moveCall
}

func (f *fakeBackend) ActiveDisplay() (platform.Display, error) { return f.display, nil }
func (f *fakeBackend) CurrentDesktop() (int, error) { return f.desktop, nil }
func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) { return f.active, nil }
func (f *fakeBackend) ListClients() ([]platform.Window, error) { return f.clients, nil }

func (f *fakeBackend) MoveResize(id platform.WindowID, bounds platform.Rect, honorHints bool) error {
	if f.failFor[id] {
		return errors.New("BadWindow")
	}
	f.moves = append(f.moves, moveCall{id: id, bounds: bounds, hints: honorHints})
	return nil
}

func (f *fakeBackend) geometry(id platform.WindowID) (platform.Rect, bool) {
	for i := len(f.moves) - 1; i >= 0; i-- {
		if f.moves[i].id == id {
			return f.moves[i].bounds, true
		}
	}
	return platform.Rect{}, false
}

func screen() platform.Display {
	r := platform.Rect{Width: 1200, Height: 800}
	return platform.Display{ID: 0, Name: "DP-1", Bounds: r, Usable: r}
}

func client(id platform.WindowID) platform.Window {
	return platform.Window{
		ID:     id,
		Class:  "XTerm",
		Bounds: platform.Rect{X: 100, Y: 100, Width: 400, Height: 300},
		Normal: true,
	}
}

func clients(ids ...platform.WindowID) []platform.Window {
	out := make([]platform.Window, 0, len(ids))
	for _, id := range ids {
		out = append(out, client(id))
	}
	return out
}

func newTestTiler(t *testing.T, b *fakeBackend, cfg *config.Config) *Tiler {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return NewTiler(b, cfg, log.New(io.Discard))
}

func TestRetile_MasterAndStack(t *testing.T) {
	b := &fakeBackend{display: screen(), clients: clients(1, 2, 3, 4, 5)}
	cfg := config.DefaultConfig()
	tile := cfg.Layouts["tile"]
	tile.MasterFraction = 0.6
	cfg.Layouts["tile"] = tile

	pass, err := newTestTiler(t, b, cfg).Retile()
	require.NoError(t, err)
	require.Len(t, b.moves, 5)

	assert.Equal(t, platform.Rect{X: 0, Y: 0, Width: 720, Height: 800}, b.moves[0].bounds)
	for i := 1; i < 5; i++ {
		assert.Equal(t, platform.Rect{X: 720, Y: (i - 1) * 200, Width: 480, Height: 200}, b.moves[i].bounds)
	}
	assert.True(t, b.moves[0].hints)
	assert.Equal(t, "tile", pass.Tag.Layout)
	assert.Equal(t, "desktop-0", pass.Tag.Name)
}

func TestRetile_AppliesScreenPaddingAndBorders(t *testing.T) {
	b := &fakeBackend{display: screen()}
	w := client(1)
	w.BorderWidth = 2
	b.clients = []platform.Window{w}

	cfg := config.DefaultConfig()
	cfg.ScreenPadding = config.Padding{Top: 30, Left: 10}

	pass, err := newTestTiler(t, b, cfg).Retile()
	require.NoError(t, err)
	assert.Equal(t, layout.Rect{X: 10, Y: 30, Width: 1190, Height: 770}, pass.Area)
	require.Len(t, b.moves, 1)
	assert.Equal(t, platform.Rect{X: 10, Y: 30, Width: 1186, Height: 766}, b.moves[0].bounds)
}

func TestFilterTiled(t *testing.T) {
	cfg := config.DefaultConfig()
	display := layout.Rect{Width: 1200, Height: 800}

	normal := client(1)
	otherDesktop := client(2)
	otherDesktop.Desktop = 3
	sticky := client(3)
	sticky.Desktop = platform.DesktopSticky
	unassigned := client(11)
	unassigned.Desktop = platform.DesktopUnknown
	offscreen := client(4)
	offscreen.Bounds.X = 1500
	transient := client(5)
	transient.Transient = true
	fixed := client(6)
	fixed.Fixed = true
	hidden := client(7)
	hidden.Hidden = true
	dialog := client(8)
	dialog.Normal = false
	gimp := client(9)
	gimp.Class = "gimp"
	last := client(10)

	in := []platform.Window{normal, otherDesktop, sticky, offscreen, transient, fixed, hidden, dialog, gimp, last, unassigned}
	tiled, floating := FilterTiled(in, 0, display, cfg)

	ids := make([]platform.WindowID, 0, len(tiled))
	for _, w := range tiled {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []platform.WindowID{1, 10}, ids)
	assert.Equal(t, 5, floating)
}

func TestRetile_UsesDesktopTagConfig(t *testing.T) {
	b := &fakeBackend{display: screen(), desktop: 2, clients: clients(1, 2)}
	for i := range b.clients {
		b.clients[i].Desktop = 2
	}
	cfg := config.DefaultConfig()
	cfg.Tags[2] = config.TagConfig{Layout: "tilebottom"}

	pass, err := newTestTiler(t, b, cfg).Retile()
	require.NoError(t, err)
	assert.Equal(t, "tilebottom", pass.Tag.Layout)
	assert.Equal(t, platform.Rect{X: 0, Y: 0, Width: 1200, Height: 400}, b.moves[0].bounds)
	assert.Equal(t, platform.Rect{X: 0, Y: 400, Width: 1200, Height: 400}, b.moves[1].bounds)
}

func TestIncMaster_ToZeroStacksEverything(t *testing.T) {
	b := &fakeBackend{display: screen(), clients: clients(1, 2, 3)}
	tl := newTestTiler(t, b, nil)

	require.NoError(t, tl.IncMaster(-1))
	require.NoError(t, tl.IncMaster(-1))
	require.Len(t, b.moves, 6)
	for i, m := range b.moves[3:] {
		assert.Equal(t, 1200, m.bounds.Width, "window %d", i)
	}
	assert.Equal(t, 0, tl.Tags()[0].Params.MasterCount)
}

func TestAdjustFraction_StepsAndClamps(t *testing.T) {
	b := &fakeBackend{display: screen(), clients: clients(1, 2)}
	tl := newTestTiler(t, b, nil)

	require.NoError(t, tl.AdjustFraction(2))
	assert.InDelta(t, 0.6, tl.Tags()[0].Params.MasterFraction, 1e-9)
	got, _ := b.geometry(1)
	assert.Equal(t, 720, got.Width)

	require.NoError(t, tl.AdjustFraction(100))
	assert.InDelta(t, 0.95, tl.Tags()[0].Params.MasterFraction, 1e-9)
}

func TestIncColumns(t *testing.T) {
	b := &fakeBackend{display: screen(), clients: clients(1, 2, 3)}
	tl := newTestTiler(t, b, nil)

	require.NoError(t, tl.IncColumns(1))
	got2, _ := b.geometry(2)
	got3, _ := b.geometry(3)
	assert.Equal(t, platform.Rect{X: 600, Y: 0, Width: 300, Height: 800}, got2)
	assert.Equal(t, platform.Rect{X: 900, Y: 0, Width: 300, Height: 800}, got3)
}

func TestCycleLayout(t *testing.T) {
	b := &fakeBackend{display: screen(), clients: clients(1, 2)}
	tl := newTestTiler(t, b, nil)

	require.NoError(t, tl.CycleLayout(1))
	assert.Equal(t, "tileleft", tl.Tags()[0].Layout)
	master, _ := b.geometry(1)
	assert.Equal(t, platform.Rect{X: 600, Y: 0, Width: 600, Height: 800}, master)

	require.NoError(t, tl.CycleLayout(-2))
	assert.Equal(t, "tiletop", tl.Tags()[0].Layout)
}

func TestNextLayout(t *testing.T) {
	names := []string{"a", "b", "c"}
	assert.Equal(t, "b", nextLayout(names, "a", 1))
	assert.Equal(t, "a", nextLayout(names, "c", 1))
	assert.Equal(t, "c", nextLayout(names, "a", -1))
	assert.Equal(t, "a", nextLayout(names, "gone", 1))
}

func TestZoom(t *testing.T) {
	b := &fakeBackend{display: screen(), clients: clients(1, 2, 3), active: 3}
	tl := newTestTiler(t, b, nil)

	require.NoError(t, tl.Zoom())
	master, _ := b.geometry(3)
	assert.Equal(t, platform.Rect{X: 0, Y: 0, Width: 600, Height: 800}, master)

	// Zooming the master swaps it with the next window.
	require.NoError(t, tl.Zoom())
	master, _ = b.geometry(1)
	assert.Equal(t, platform.Rect{X: 0, Y: 0, Width: 600, Height: 800}, master)

	// Unknown windows leave the order alone.
	b.active = 99
	require.NoError(t, tl.Zoom())
	master, _ = b.geometry(1)
	assert.Equal(t, 0, master.X)
}

func TestRetile_KeepsOrderAcrossClientListChanges(t *testing.T) {
	b := &fakeBackend{display: screen(), clients: clients(1, 2, 3), active: 2}
	tl := newTestTiler(t, b, nil)
	require.NoError(t, tl.Zoom())

	b.clients = clients(1, 2, 3, 4)
	b.moves = nil
	pass, err := tl.Retile()
	require.NoError(t, err)

	var order []platform.WindowID
	for _, p := range pass.Placements {
		order = append(order, p.Window.ID)
	}
	assert.Equal(t, []platform.WindowID{2, 1, 3, 4}, order)
}

func TestRetile_FailedMoveDoesNotAbortPass(t *testing.T) {
	b := &fakeBackend{display: screen(), clients: clients(1, 2, 3), failFor: map[platform.WindowID]bool{2: true}}
	var logs bytes.Buffer
	_, err := NewTiler(b, config.DefaultConfig(), log.New(&logs)).Retile()
	require.NoError(t, err)
	require.Len(t, b.moves, 2)
	assert.Equal(t, platform.WindowID(1), b.moves[0].id)
	assert.Equal(t, platform.WindowID(3), b.moves[1].id)
	assert.Contains(t, logs.String(), "failed to place window")
	assert.Contains(t, logs.String(), "BadWindow")
}

func TestPlan_DoesNotMoveWindows(t *testing.T) {
	b := &fakeBackend{display: screen(), clients: clients(1, 2)}
	pass, err := newTestTiler(t, b, nil).Plan()
	require.NoError(t, err)
	assert.Len(t, pass.Placements, 2)
	assert.Empty(t, b.moves)
}

func TestReload_ResetsTags(t *testing.T) {
	b := &fakeBackend{display: screen(), clients: clients(1, 2)}
	tl := newTestTiler(t, b, nil)
	require.NoError(t, tl.IncMaster(1))
	assert.Equal(t, 2, tl.Tags()[0].Params.MasterCount)

	cfg := config.DefaultConfig()
	cfg.DefaultLayout = "tiletop"
	tl.Reload(cfg)
	assert.Empty(t, tl.Tags())

	pass, err := tl.Retile()
	require.NoError(t, err)
	assert.Equal(t, "tiletop", pass.Tag.Layout)
	assert.Equal(t, 1, pass.Tag.Params.MasterCount)
	assert.Same(t, cfg, tl.Config())
}

func TestRetile_NoWindows(t *testing.T) {
	b := &fakeBackend{display: screen()}
	pass, err := newTestTiler(t, b, nil).Retile()
	require.NoError(t, err)
	assert.Empty(t, pass.Placements)
	assert.Empty(t, b.moves)
}
