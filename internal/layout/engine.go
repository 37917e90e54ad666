// Package layout computes master/stack tilings.
//
// Compute is a pure function: it reads an ordered window list, a usable
// area and a parameter snapshot, and returns one placement per window.
// All four orientations run the same stack-right computation; the result
// is then mirrored and/or transposed into the requested orientation, so
// stack-left is the exact mirror image of stack-right and stack-top the
// mirror of stack-bottom.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// WindowID identifies a window. It matches the X11 window id space.
type WindowID uint32

// Window is a tiled window as seen by the engine.
type Window struct {
	ID             WindowID
	BorderWidth    int
	HonorSizeHints bool
}

// Params is the per-tag parameter snapshot.
type Params struct {
	// MasterCount is the number of leading windows placed in the master area.
	MasterCount int
	// MasterFraction is the share of the usable area given to the master
	// area when both master and stack windows exist. Must be in (0, 1].
	MasterFraction float64
	// Columns is the number of stack columns. Zero or negative means one.
	Columns     int
	Orientation Orientation
}

// Placement is the computed destination of a single window.
type Placement struct {
	Window Window
	// Cell is the tile assigned to the window. Cells partition the area.
	Cell Rect
	// Geometry is Cell with twice the border width removed from each
	// dimension, ready for the resize operation.
	Geometry Rect
}

// Placements is the result of a layout pass, in input order.
type Placements []Placement

// Lookup returns the placement for id.
func (ps Placements) Lookup(id WindowID) (Placement, bool) {
	for _, p := range ps {
		if p.Window.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// ErrInvalidParams is wrapped by every error Compute returns.
var ErrInvalidParams = errors.New("invalid layout parameters")

// ParamError describes which input violated the engine's contract.
type ParamError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParams }

// Validate checks p against the engine's contract. Values are never
// clamped; callers that accept user input must bound it themselves.
func (p Params) Validate() error {
	if p.MasterCount < 0 {
		return &ParamError{Field: "master_count", Value: p.MasterCount, Reason: "must be >= 0"}
	}
	if math.IsNaN(p.MasterFraction) || p.MasterFraction <= 0 || p.MasterFraction > 1 {
		return &ParamError{Field: "master_fraction", Value: p.MasterFraction, Reason: "must be in (0, 1]"}
	}
	if !p.Orientation.Valid() {
		return &ParamError{Field: "orientation", Value: int(p.Orientation), Reason: "unknown orientation"}
	}
	return nil
}

// EffectiveColumns returns how many stack columns are used for stack
// windows given the configured column count.
func EffectiveColumns(stack, columns int) int {
	if stack <= 0 {
		return 0
	}
	if columns <= 0 {
		return 1
	}
	return min(stack, columns)
}

// ColumnCounts returns the number of windows in each stack column. The
// first stack%cols columns hold one extra window.
func ColumnCounts(stack, columns int) []int {
	cols := EffectiveColumns(stack, columns)
	if cols == 0 {
		return nil
	}
	base, rem := stack/cols, stack%cols
	counts := make([]int, cols)
	for c := range counts {
		counts[c] = base
		if c < rem {
			counts[c]++
		}
	}
	return counts
}

// Compute assigns a rectangle to every window.
func Compute(windows []Window, area Rect, p Params) (Placements, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if area.Width < 0 || area.Height < 0 {
		return nil, &ParamError{Field: "area", Value: area, Reason: "width and height must be >= 0"}
	}
	seen := make(map[WindowID]struct{}, len(windows))
	for _, w := range windows {
		if _, dup := seen[w.ID]; dup {
			return nil, &ParamError{Field: "windows", Value: w.ID, Reason: "window listed twice"}
		}
		seen[w.ID] = struct{}{}
		if w.BorderWidth < 0 {
			return nil, &ParamError{Field: "border_width", Value: w.BorderWidth, Reason: "must be >= 0"}
		}
	}
	if len(windows) == 0 {
		return Placements{}, nil
	}

	// Canonical space is stack-right: the split runs along x.
	width, height := area.Width, area.Height
	if p.Orientation.transposed() {
		width, height = height, width
	}

	cells := canonicalCells(len(windows), width, height, p)

	out := make(Placements, len(windows))
	for i, w := range windows {
		cell := orient(cells[i], area, width, p.Orientation)
		out[i] = Placement{
			Window:   w,
			Cell:     cell,
			Geometry: inset(cell, w.BorderWidth),
		}
	}
	return out, nil
}

// canonicalCells lays out n windows in a width x height box anchored at
// the origin with the master area on the left.
func canonicalCells(n, width, height int, p Params) []Rect {
	masters := min(n, p.MasterCount)
	stack := n - masters

	var masterWidth int
	switch {
	case masters == 0:
		masterWidth = 0
	case stack == 0:
		masterWidth = width
	default:
		// The epsilon keeps fractions like 0.29 from truncating a pixel short.
		masterWidth = int(math.Floor(float64(width)*p.MasterFraction + 1e-9))
	}

	cells := make([]Rect, 0, n)
	for i := 0; i < masters; i++ {
		y0, y1 := span(height, masters, i)
		cells = append(cells, Rect{X: 0, Y: y0, Width: masterWidth, Height: y1 - y0})
	}

	counts := ColumnCounts(stack, p.Columns)
	stackWidth := width - masterWidth
	for c, k := range counts {
		x0, x1 := span(stackWidth, len(counts), c)
		for j := 0; j < k; j++ {
			y0, y1 := span(height, k, j)
			cells = append(cells, Rect{
				X:      masterWidth + x0,
				Y:      y0,
				Width:  x1 - x0,
				Height: y1 - y0,
			})
		}
	}
	return cells
}

// span returns the [start, end) bounds of slot i when total is cut into
// n slots. Boundaries are computed cumulatively so the slots cover total
// exactly and differ in size by at most one.
func span(total, n, i int) (int, int) {
	return i * total / n, (i + 1) * total / n
}

// orient maps a canonical cell into area. width is the canonical width,
// which is the extent of area along the master/stack split axis.
func orient(c Rect, area Rect, width int, o Orientation) Rect {
	switch o {
	case StackLeft:
		c.X = width - c.X - c.Width
	case StackBottom:
		c = Rect{X: c.Y, Y: c.X, Width: c.Height, Height: c.Width}
	case StackTop:
		c = Rect{X: c.Y, Y: width - c.X - c.Width, Width: c.Height, Height: c.Width}
	}
	c.X += area.X
	c.Y += area.Y
	return c
}

func inset(r Rect, border int) Rect {
	r.Width = max(r.Width-2*border, 0)
	r.Height = max(r.Height-2*border, 0)
	return r
}
