package daemon

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	// Debounce is how long a burst of triggers must stay quiet before the
	// retile runs.
	Debounce time.Duration
	// Interval, when positive, also retiles periodically to undo drift
	// (windows moved by hand or by the window manager).
	Interval time.Duration
	// Active, when set, is consulted before each periodic retile. A false
	// result skips that tick. Explicit triggers are not affected.
	Active func() bool
	Logger *log.Logger
}

// Reconciler coalesces retile triggers and runs them one at a time.
type Reconciler struct {
	debounce time.Duration
	interval time.Duration
	active   func() bool
	retile   func() error
	trigger  chan string
	logger   *log.Logger
}

const defaultDebounce = 50 * time.Millisecond

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, retile func() error) *Reconciler {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Reconciler{
		debounce: debounce,
		interval: cfg.Interval,
		active:   cfg.Active,
		retile:   retile,
		trigger:  make(chan string, 1),
		logger:   logger,
	}
}

// Trigger requests a retile. It never blocks; a trigger arriving while one
// is already pending is folded into it.
func (r *Reconciler) Trigger(reason string) {
	select {
	case r.trigger <- reason:
	default:
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	timer := time.NewTimer(r.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	r.logger.Debug("reconciler started", "debounce", r.debounce, "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("reconciler stopped")
			return
		case reason := <-r.trigger:
			r.logger.Debug("retile requested", "reason", reason)
			timer.Reset(r.debounce)
		case <-timer.C:
			r.reconcile()
		case <-tick:
			if r.active != nil && !r.active() {
				continue
			}
			r.reconcile()
		}
	}
}

// reconcile performs a single retile.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("retile panic recovered", "err", err)
		}
	}()

	if err := r.retile(); err != nil {
		r.logger.Error("retile failed", "err", err)
	}
}
