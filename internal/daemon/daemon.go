// Package daemon runs tagtile as a long-lived process: it retiles when the
// window manager's client list or current desktop changes, serves the
// hotkeys and reloads the config file when it is edited.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/hotkeys"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/tiling"
	"github.com/1broseidon/tagtile/internal/x11"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Options configures a daemon run.
type Options struct {
	// ConfigPath is watched for changes. Empty disables reloading.
	ConfigPath        string
	Debounce          time.Duration
	ReconcileInterval time.Duration
}

// Run connects to X, retiles once and then serves until ctx is cancelled
// or the event loop stops.
func Run(ctx context.Context, cfg *config.Config, opts Options, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return err
	}
	defer backend.Disconnect()
	conn := backend.Connection()

	tiler := tiling.NewTiler(backend, cfg, logger)

	handler := hotkeys.NewHandler(conn, tiler, logger)
	if err := handler.RegisterAll(cfg.Hotkeys); err != nil {
		logger.Warn("some hotkeys could not be bound", "err", err)
	}

	if err := conn.WatchRoot(); err != nil {
		return err
	}

	reconciler := NewReconciler(ReconcilerConfig{
		Debounce: opts.Debounce,
		Interval: opts.ReconcileInterval,
		Active:   func() bool { return tiler.Config().AutoRetile },
		Logger:   logger,
	}, func() error {
		_, err := tiler.Retile()
		return err
	})

	watchRoot(conn, func(prop string) {
		if tiler.Config().AutoRetile {
			reconciler.Trigger(prop)
		}
	})

	workers := []func(context.Context) error{
		func(ctx context.Context) error {
			reconciler.Run(ctx)
			return nil
		},
	}

	if opts.ConfigPath != "" {
		watcher := config.NewWatcher(opts.ConfigPath, logger)
		workers = append(workers, func(ctx context.Context) error {
			err := watcher.Run(ctx, func(res *config.LoadResult) {
				if res.Config.Hotkeys != tiler.Config().Hotkeys {
					logger.Warn("hotkey changes take effect after a restart")
				}
				tiler.Reload(res.Config)
				reconciler.Trigger("config")
			})
			if err != nil {
				// A missing config directory must not stop tiling.
				logger.Warn("config reloading disabled", "err", err)
			}
			return nil
		})
	}

	logger.Info("daemon started", "config", opts.ConfigPath, "auto_retile", cfg.AutoRetile)
	reconciler.Trigger("startup")

	if err := serve(ctx, conn, workers...); err != nil {
		return fmt.Errorf("daemon: %w", err)
	}
	logger.Info("daemon stopped")
	return nil
}

// errEventLoopExited is returned by serve when the event loop stops
// without being asked to, usually because the X server went away.
var errEventLoopExited = errors.New("x11 event loop exited")

// eventLoop is the blocking event dispatcher serve drives.
type eventLoop interface {
	EventLoop()
	Quit()
}

// serve runs loop and workers until ctx is cancelled or one of them fails.
// A loop that returns on its own counts as a failure: the workers are
// cancelled and serve returns errEventLoopExited.
func serve(ctx context.Context, loop eventLoop, workers ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		loop.EventLoop()
		if gctx.Err() != nil {
			return nil
		}
		return errEventLoopExited
	})
	g.Go(func() error {
		<-gctx.Done()
		loop.Quit()
		return nil
	})
	for _, work := range workers {
		work := work
		g.Go(func() error {
			return work(gctx)
		})
	}

	return g.Wait()
}

// watchRoot calls onChange with the property name whenever a root
// property that affects the layout changes.
func watchRoot(conn *x11.Connection, onChange func(prop string)) {
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name := conn.AtomName(ev.Atom)
		if triggersRetile(name) {
			onChange(name)
		}
	}).Connect(conn.XUtil, conn.Root)
}

// triggersRetile reports whether a change of the named root property can
// change the tiled window set or the usable area.
func triggersRetile(prop string) bool {
	switch prop {
	case "_NET_CLIENT_LIST", "_NET_CURRENT_DESKTOP", "_NET_WORKAREA", "_NET_DESKTOP_GEOMETRY":
		return true
	}
	return false
}
