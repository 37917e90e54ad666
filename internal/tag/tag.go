// Package tag holds the per-desktop layout state that user commands
// mutate. The layout engine never sees a Tag directly, only the value
// returned by Snapshot.
package tag

import (
	"fmt"
	"slices"
	"sync"

	"github.com/1broseidon/tagtile/internal/layout"
)

// Bounds applied by the user commands. The engine rejects out-of-range
// values rather than clamping, so clamping happens here.
const (
	MinFraction = 0.05
	MaxFraction = 0.95
	MinColumns  = 1
)

// Snapshot is an immutable copy of a tag's state.
type Snapshot struct {
	Name   string
	Layout string
	Params layout.Params
}

// Tag is the layout state of one virtual desktop.
type Tag struct {
	mu     sync.RWMutex
	name   string
	layout string
	params layout.Params
	order  []layout.WindowID
}

// New creates a tag using the named layout preset.
func New(name, layoutName string, params layout.Params) (*Tag, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("tag %s: %w", name, err)
	}
	return &Tag{name: name, layout: layoutName, params: params}, nil
}

// Snapshot returns a copy of the current state.
func (t *Tag) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{Name: t.name, Layout: t.layout, Params: t.params}
}

// ApplyLayout replaces the tag's parameters with a preset.
func (t *Tag) ApplyLayout(name string, params layout.Params) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("layout %s: %w", name, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.layout = name
	t.params = params
	return nil
}

// IncMaster changes the master count by delta, never going below zero.
func (t *Tag) IncMaster(delta int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.params.MasterCount = max(t.params.MasterCount+delta, 0)
	return t.params.MasterCount
}

// AdjustFraction changes the master fraction by delta, keeping it within
// [MinFraction, MaxFraction].
func (t *Tag) AdjustFraction(delta float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.params.MasterFraction = min(max(t.params.MasterFraction+delta, MinFraction), MaxFraction)
	return t.params.MasterFraction
}

// IncColumns changes the stack column count by delta, never going below
// MinColumns.
func (t *Tag) IncColumns(delta int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.params.Columns = max(max(t.params.Columns, MinColumns)+delta, MinColumns)
	return t.params.Columns
}

// SetOrientation switches the stack side without touching the other
// parameters.
func (t *Tag) SetOrientation(o layout.Orientation) error {
	if !o.Valid() {
		return fmt.Errorf("invalid orientation %d", int(o))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.params.Orientation = o
	return nil
}

// Order reconciles the remembered window order with the current client
// list. Windows the tag already knows keep their position, new windows
// are appended in client-list order, and windows that disappeared are
// forgotten. The returned slice is owned by the caller.
func (t *Tag) Order(clients []layout.WindowID) []layout.WindowID {
	t.mu.Lock()
	defer t.mu.Unlock()

	present := make(map[layout.WindowID]bool, len(clients))
	for _, id := range clients {
		present[id] = true
	}

	next := make([]layout.WindowID, 0, len(clients))
	known := make(map[layout.WindowID]bool, len(t.order))
	for _, id := range t.order {
		if present[id] && !known[id] {
			next = append(next, id)
			known[id] = true
		}
	}
	for _, id := range clients {
		if !known[id] {
			next = append(next, id)
			known[id] = true
		}
	}
	t.order = next
	return slices.Clone(next)
}

// Zoom moves id to the front of the order so it becomes the first master
// window. If id is already first, it swaps with the second window. It
// reports whether id was known to the tag.
func (t *Tag) Zoom(id layout.WindowID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := slices.Index(t.order, id)
	if idx < 0 {
		return false
	}
	if idx == 0 {
		if len(t.order) > 1 {
			t.order[0], t.order[1] = t.order[1], t.order[0]
		}
		return true
	}
	t.order = slices.Delete(t.order, idx, idx+1)
	t.order = slices.Insert(t.order, 0, id)
	return true
}
