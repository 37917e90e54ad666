package hotkeys

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/tiling"
	"github.com/1broseidon/tagtile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/charmbracelet/log"
)

// Commands is the set of tag operations a key can trigger.
type Commands interface {
	Retile() (tiling.Pass, error)
	IncMaster(delta int) error
	AdjustFraction(steps int) error
	IncColumns(delta int) error
	CycleLayout(step int) error
	Zoom() error
}

// Actions maps each hotkey name of config.Hotkeys to its command.
func Actions(c Commands) map[string]func() error {
	return map[string]func() error{
		"tile": func() error {
			_, err := c.Retile()
			return err
		},
		"inc_master":    func() error { return c.IncMaster(1) },
		"dec_master":    func() error { return c.IncMaster(-1) },
		"grow_master":   func() error { return c.AdjustFraction(1) },
		"shrink_master": func() error { return c.AdjustFraction(-1) },
		"inc_columns":   func() error { return c.IncColumns(1) },
		"dec_columns":   func() error { return c.IncColumns(-1) },
		"next_layout":   func() error { return c.CycleLayout(1) },
		"prev_layout":   func() error { return c.CycleLayout(-1) },
		"zoom":          c.Zoom,
	}
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions map[string]func() error
	logger  *log.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(conn *x11.Connection, cmds Commands, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})

	return &Handler{
		xu:      conn.XUtil,
		root:    conn.Root,
		actions: Actions(cmds),
		logger:  logger,
	}
}

// RegisterAll grabs every non-empty binding. Bindings that fail (usually
// because another client already grabbed the key) are reported together;
// the rest stay active.
func (h *Handler) RegisterAll(keys config.Hotkeys) error {
	var errs []error
	for _, b := range keys.Bindings() {
		name, seq := b[0], b[1]
		if seq == "" {
			continue
		}
		action, ok := h.actions[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: no such command", name))
			continue
		}
		if err := h.RegisterFunc(name, seq, action); err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", name, seq, err))
			continue
		}
		h.logger.Debug("hotkey bound", "command", name, "keys", seq)
	}
	return errors.Join(errs...)
}

// RegisterFunc registers an arbitrary hotkey callback. Failures of the
// callback are logged.
func (h *Handler) RegisterFunc(name, keySequence string, callback func() error) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.logger.Debug("hotkey", "command", name)
		if err := callback(); err != nil {
			h.logger.Error("hotkey command failed", "command", name, "err", err)
		}
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns every combination of the lock modifiers in base,
// including the empty one.
func ignoreMasks(base []uint16) []uint16 {
	out := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
