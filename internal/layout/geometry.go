package layout

import (
	"fmt"
	"strings"
)

// Rect represents a window position and size
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Area returns Width*Height, or 0 for an empty rectangle.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width &&
		o.Y+o.Height <= r.Y+r.Height
}

// Intersect returns the overlap of r and o, or the zero Rect if they do
// not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1, y1 := max(r.X, o.X), max(r.Y, o.Y)
	x2, y2 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Center returns the midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// ContainsPoint reports whether (x, y) lies inside r.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Inset shrinks r by the given amounts on each side. The result is never
// smaller than zero in either dimension.
func (r Rect) Inset(top, bottom, left, right int) Rect {
	out := Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Orientation names the side of the usable area the stack occupies. The
// master area sits on the opposite edge.
type Orientation int

const (
	StackRight  Orientation = iota // master left, stack columns to the right
	StackLeft                      // master right, stack columns to the left
	StackTop                       // master bottom, stack rows above
	StackBottom                    // master top, stack rows below
)

var orientationNames = map[Orientation]string{
	StackRight:  "right",
	StackLeft:   "left",
	StackTop:    "top",
	StackBottom: "bottom",
}

// Orientations lists every orientation in cycling order.
func Orientations() []Orientation {
	return []Orientation{StackRight, StackLeft, StackBottom, StackTop}
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// Valid reports whether o is one of the four known orientations.
func (o Orientation) Valid() bool {
	_, ok := orientationNames[o]
	return ok
}

// transposed reports whether the master/stack split runs along the
// vertical axis (master area spans the full width).
func (o Orientation) transposed() bool {
	return o == StackTop || o == StackBottom
}

// ParseOrientation accepts the short names (right, left, top, bottom) and
// the classic layout names (tile, tileleft, tiletop, tilebottom).
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "tile", "stack-right":
		return StackRight, nil
	case "left", "tileleft", "stack-left":
		return StackLeft, nil
	case "top", "tiletop", "stack-top":
		return StackTop, nil
	case "bottom", "tilebottom", "stack-bottom":
		return StackBottom, nil
	default:
		return 0, fmt.Errorf("unknown orientation %q (want right, left, top or bottom)", s)
	}
}

// MarshalText implements encoding.TextMarshaler so orientations round-trip
// through YAML and JSON as their short names.
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
