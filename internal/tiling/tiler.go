// Package tiling turns the window manager's client list into a layout pass:
// it picks the tiled windows of the current desktop, orders them through
// the desktop's tag, runs the layout engine and applies the result.
package tiling

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/tag"
	"github.com/charmbracelet/log"
)

// Pass describes one computed layout.
type Pass struct {
	Desktop    int
	Display    platform.Display
	Area       layout.Rect
	Tag        tag.Snapshot
	Placements layout.Placements
	Floating   int // windows on this desktop left untouched
}

// Tiler manages the tiling state across desktops. All passes and commands
// are serialized by one mutex.
type Tiler struct {
	mu      sync.Mutex
	backend platform.Backend
	config  *config.Config
	tags    *tag.Registry
	logger  *log.Logger
}

// NewTiler creates a new tiler instance
func NewTiler(backend platform.Backend, cfg *config.Config, logger *log.Logger) *Tiler {
	if logger == nil {
		logger = log.Default()
	}
	return &Tiler{
		backend: backend,
		config:  cfg,
		tags:    tag.NewRegistry(cfg.TagLayout),
		logger:  logger,
	}
}

// Config returns the configuration currently in effect.
func (t *Tiler) Config() *config.Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config
}

// Reload swaps in a new configuration. Every tag is rebuilt from it on the
// next pass, so command adjustments made since the last load are dropped.
func (t *Tiler) Reload(cfg *config.Config) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config = cfg
	t.tags.Reset(cfg.TagLayout)
	t.logger.Info("configuration applied", "default_layout", cfg.DefaultLayout, "layouts", len(cfg.Layouts))
}

// Tags returns the state of every desktop seen so far.
func (t *Tiler) Tags() []tag.Snapshot {
	return t.tags.Snapshots()
}

// Retile lays out the current desktop and applies the geometry.
func (t *Tiler) Retile() (Pass, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runLocked(nil, true)
}

// Plan computes the layout of the current desktop without moving anything.
func (t *Tiler) Plan() (Pass, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runLocked(nil, false)
}

// IncMaster changes the current tag's master count by delta and retiles.
func (t *Tiler) IncMaster(delta int) error {
	return t.command("inc_master", func(tg *tag.Tag) error {
		n := tg.IncMaster(delta)
		t.logger.Debug("master count", "tag", tg.Snapshot().Name, "count", n)
		return nil
	})
}

// AdjustFraction grows (steps > 0) or shrinks the master area by
// fraction_step per step and retiles.
func (t *Tiler) AdjustFraction(steps int) error {
	return t.command("adjust_fraction", func(tg *tag.Tag) error {
		f := tg.AdjustFraction(float64(steps) * t.config.FractionStep)
		t.logger.Debug("master fraction", "tag", tg.Snapshot().Name, "fraction", f)
		return nil
	})
}

// IncColumns changes the current tag's stack column count and retiles.
func (t *Tiler) IncColumns(delta int) error {
	return t.command("inc_columns", func(tg *tag.Tag) error {
		n := tg.IncColumns(delta)
		t.logger.Debug("stack columns", "tag", tg.Snapshot().Name, "columns", n)
		return nil
	})
}

// CycleLayout moves the current tag step presets forward (or backward for
// a negative step) through Config.LayoutNames and retiles.
func (t *Tiler) CycleLayout(step int) error {
	return t.command("cycle_layout", func(tg *tag.Tag) error {
		names := t.config.LayoutNames()
		if len(names) == 0 {
			return errors.New("no layouts configured")
		}
		next := nextLayout(names, tg.Snapshot().Layout, step)
		l, err := t.config.GetLayout(next)
		if err != nil {
			return err
		}
		if err := tg.ApplyLayout(next, l.Params()); err != nil {
			return err
		}
		t.logger.Info("layout", "tag", tg.Snapshot().Name, "name", next, "orientation", l.Orientation)
		return nil
	})
}

// Zoom promotes the focused window to the first master slot and retiles.
// Zooming the first master swaps it with the next window.
func (t *Tiler) Zoom() error {
	return t.command("zoom", func(tg *tag.Tag) error {
		active, err := t.backend.ActiveWindow()
		if err != nil {
			return fmt.Errorf("failed to get active window: %w", err)
		}
		if !tg.Zoom(active) {
			t.logger.Debug("zoom ignored, active window is not tiled", "window", active)
		}
		return nil
	})
}

func (t *Tiler) command(name string, fn func(*tag.Tag) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.runLocked(fn, true); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// runLocked performs one layout pass. mutate, when set, runs after the tag
// has reconciled its order with the client list and before the layout is
// computed.
func (t *Tiler) runLocked(mutate func(*tag.Tag) error, apply bool) (Pass, error) {
	cfg := t.config

	desktop, err := t.backend.CurrentDesktop()
	if err != nil {
		return Pass{}, fmt.Errorf("failed to get current desktop: %w", err)
	}
	display, err := t.backend.ActiveDisplay()
	if err != nil {
		return Pass{}, fmt.Errorf("failed to get active display: %w", err)
	}
	clients, err := t.backend.ListClients()
	if err != nil {
		return Pass{}, fmt.Errorf("failed to list clients: %w", err)
	}

	tg, err := t.tags.Get(desktop)
	if err != nil {
		return Pass{}, err
	}

	tiled, floating := FilterTiled(clients, desktop, display.Bounds, cfg)
	byID := make(map[layout.WindowID]platform.Window, len(tiled))
	ids := make([]layout.WindowID, 0, len(tiled))
	for _, w := range tiled {
		byID[w.ID] = w
		ids = append(ids, w.ID)
	}

	order := tg.Order(ids)
	if mutate != nil {
		if err := mutate(tg); err != nil {
			return Pass{}, err
		}
		order = tg.Order(ids)
	}

	windows := make([]layout.Window, 0, len(order))
	for _, id := range order {
		windows = append(windows, layout.Window{
			ID:             id,
			BorderWidth:    byID[id].BorderWidth,
			HonorSizeHints: cfg.HonorSizeHints,
		})
	}

	pad := cfg.ScreenPadding
	area := display.Usable.Inset(pad.Top, pad.Bottom, pad.Left, pad.Right)
	snap := tg.Snapshot()

	placements, err := layout.Compute(windows, area, snap.Params)
	if err != nil {
		return Pass{}, fmt.Errorf("tag %s: %w", snap.Name, err)
	}

	pass := Pass{
		Desktop:    desktop,
		Display:    display,
		Area:       area,
		Tag:        snap,
		Placements: placements,
		Floating:   floating,
	}
	if !apply {
		return pass, nil
	}

	for _, p := range placements {
		if err := t.backend.MoveResize(p.Window.ID, p.Geometry, p.Window.HonorSizeHints); err != nil {
			t.logger.Warn("failed to place window", "window", p.Window.ID, "geometry", p.Geometry, "err", err)
		}
	}
	t.logger.Info("tiled",
		"desktop", desktop,
		"display", display.Name,
		"layout", snap.Layout,
		"orientation", snap.Params.Orientation,
		"windows", len(placements),
		"floating", floating,
	)
	return pass, nil
}

// FilterTiled splits the client list into the windows a pass lays out and
// a count of the rest. A window is tiled when it is a normal, visible,
// resizable, non-transient window of a non-floating class on desktop whose
// centre lies on the display. Sticky windows and windows with no desktop
// assigned are never on desktop. Client order is preserved.
func FilterTiled(clients []platform.Window, desktop int, display layout.Rect, cfg *config.Config) ([]platform.Window, int) {
	tiled := make([]platform.Window, 0, len(clients))
	floating := 0
	for _, w := range clients {
		if w.Desktop != desktop {
			continue
		}
		if !display.ContainsPoint(w.Bounds.Center()) {
			continue
		}
		if !w.Normal || w.Hidden || w.Transient || w.Fixed || cfg.IsFloatingClass(w.Class) {
			floating++
			continue
		}
		tiled = append(tiled, w)
	}
	return tiled, floating
}

func nextLayout(names []string, current string, step int) string {
	idx := slices.Index(names, current)
	if idx < 0 {
		return names[0]
	}
	n := len(names)
	return names[((idx+step)%n+n)%n]
}
