package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windows(n int) []Window {
	out := make([]Window, n)
	for i := range out {
		out[i] = Window{ID: WindowID(100 + i)}
	}
	return out
}

func cells(ps Placements) []Rect {
	out := make([]Rect, len(ps))
	for i, p := range ps {
		out[i] = p.Cell
	}
	return out
}

func TestCompute_MasterAndSingleColumnStack(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 1200, Height: 800}
	ps, err := Compute(windows(5), area, Params{MasterCount: 1, MasterFraction: 0.6, Orientation: StackRight})
	require.NoError(t, err)
	require.Len(t, ps, 5)

	assert.Equal(t, Rect{X: 0, Y: 0, Width: 720, Height: 800}, ps[0].Geometry)
	for i := 0; i < 4; i++ {
		assert.Equal(t, Rect{X: 720, Y: i * 200, Width: 480, Height: 200}, ps[i+1].Geometry, "stack window %d", i)
	}
}

func TestCompute_NoMasterStacksEverything(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 1200, Height: 800}
	ps, err := Compute(windows(5), area, Params{MasterCount: 0, MasterFraction: 0.6, Orientation: StackRight})
	require.NoError(t, err)

	for i, p := range ps {
		assert.Equal(t, Rect{X: 0, Y: i * 160, Width: 1200, Height: 160}, p.Geometry)
	}
}

func TestColumnCounts_RemainderGoesToLeadingColumns(t *testing.T) {
	assert.Equal(t, []int{3, 2, 2}, ColumnCounts(7, 3))
	assert.Equal(t, []int{2, 2}, ColumnCounts(4, 2))
	assert.Equal(t, []int{1, 1}, ColumnCounts(2, 5))
	assert.Equal(t, []int{6}, ColumnCounts(6, 0))
	assert.Equal(t, []int{6}, ColumnCounts(6, -2))
	assert.Nil(t, ColumnCounts(0, 3))
}

func TestCompute_SevenStackWindowsInThreeColumns(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 900, Height: 600}
	ps, err := Compute(windows(7), area, Params{MasterCount: 0, MasterFraction: 0.5, Columns: 3, Orientation: StackRight})
	require.NoError(t, err)

	perColumn := map[int]int{}
	for _, p := range ps {
		perColumn[p.Cell.X]++
	}
	assert.Equal(t, map[int]int{0: 3, 300: 2, 600: 2}, perColumn)

	// Input order fills the first column before moving on.
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, ps[i].Cell.X)
		assert.Equal(t, i*200, ps[i].Cell.Y)
	}
	assert.Equal(t, Rect{X: 300, Y: 0, Width: 300, Height: 300}, ps[3].Cell)
	assert.Equal(t, Rect{X: 600, Y: 300, Width: 300, Height: 300}, ps[6].Cell)
}

func TestCompute_EmptyInput(t *testing.T) {
	ps, err := Compute(nil, Rect{Width: 100, Height: 100}, Params{MasterCount: 1, MasterFraction: 0.5})
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestCompute_BorderIsInsetNotOffset(t *testing.T) {
	ws := []Window{{ID: 1, BorderWidth: 2}, {ID: 2, BorderWidth: 1, HonorSizeHints: true}}
	ps, err := Compute(ws, Rect{X: 10, Y: 20, Width: 400, Height: 300}, Params{MasterCount: 1, MasterFraction: 0.5})
	require.NoError(t, err)

	assert.Equal(t, Rect{X: 10, Y: 20, Width: 200, Height: 300}, ps[0].Cell)
	assert.Equal(t, Rect{X: 10, Y: 20, Width: 196, Height: 296}, ps[0].Geometry)
	assert.Equal(t, Rect{X: 210, Y: 20, Width: 198, Height: 298}, ps[1].Geometry)
	assert.True(t, ps[1].Window.HonorSizeHints)
}

func TestCompute_BorderLargerThanCellClampsToZero(t *testing.T) {
	ws := []Window{{ID: 1, BorderWidth: 10}}
	ps, err := Compute(ws, Rect{Width: 15, Height: 40}, Params{MasterCount: 1, MasterFraction: 1})
	require.NoError(t, err)
	assert.Equal(t, Rect{Width: 0, Height: 20}, ps[0].Geometry)
}

func TestCompute_DegenerateAreaYieldsZeroSizedCells(t *testing.T) {
	for _, o := range Orientations() {
		ps, err := Compute(windows(4), Rect{X: 5, Y: 5, Width: 0, Height: 300}, Params{MasterCount: 1, MasterFraction: 0.5, Columns: 2, Orientation: o})
		require.NoError(t, err, o.String())
		require.Len(t, ps, 4)
		for _, p := range ps {
			assert.Zero(t, p.Cell.Area(), o.String())
		}
	}
}

func TestCompute_RejectsInvalidParams(t *testing.T) {
	area := Rect{Width: 100, Height: 100}
	tests := []struct {
		name    string
		windows []Window
		area    Rect
		params  Params
		field   string
	}{
		{"negative master", windows(2), area, Params{MasterCount: -1, MasterFraction: 0.5}, "master_count"},
		{"zero fraction", windows(2), area, Params{MasterCount: 1, MasterFraction: 0}, "master_fraction"},
		{"fraction above one", windows(2), area, Params{MasterCount: 1, MasterFraction: 1.2}, "master_fraction"},
		{"nan fraction", windows(2), area, Params{MasterCount: 1, MasterFraction: math.NaN()}, "master_fraction"},
		{"bad orientation", windows(2), area, Params{MasterCount: 1, MasterFraction: 0.5, Orientation: 9}, "orientation"},
		{"negative area", windows(2), Rect{Width: -1, Height: 10}, Params{MasterCount: 1, MasterFraction: 0.5}, "area"},
		{"duplicate window", []Window{{ID: 1}, {ID: 1}}, area, Params{MasterCount: 1, MasterFraction: 0.5}, "windows"},
		{"negative border", []Window{{ID: 1, BorderWidth: -1}}, area, Params{MasterCount: 1, MasterFraction: 0.5}, "border_width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.windows, tt.area, tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParams)

			var perr *ParamError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.field, perr.Field)
		})
	}
}

func TestCompute_NegativeColumnsMeansSingleColumn(t *testing.T) {
	area := Rect{Width: 300, Height: 300}
	a, err := Compute(windows(4), area, Params{MasterCount: 1, MasterFraction: 0.5, Columns: -3})
	require.NoError(t, err)
	b, err := Compute(windows(4), area, Params{MasterCount: 1, MasterFraction: 0.5, Columns: 1})
	require.NoError(t, err)
	assert.Equal(t, cells(b), cells(a))
}

func TestCompute_MasterAnchorsPerOrientation(t *testing.T) {
	area := Rect{X: 100, Y: 50, Width: 1000, Height: 600}
	params := Params{MasterCount: 1, MasterFraction: 0.5}

	tests := []struct {
		orientation Orientation
		master      Rect
	}{
		{StackRight, Rect{X: 100, Y: 50, Width: 500, Height: 600}},
		{StackLeft, Rect{X: 600, Y: 50, Width: 500, Height: 600}},
		{StackBottom, Rect{X: 100, Y: 50, Width: 1000, Height: 300}},
		{StackTop, Rect{X: 100, Y: 350, Width: 1000, Height: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.orientation.String(), func(t *testing.T) {
			params.Orientation = tt.orientation
			ps, err := Compute(windows(3), area, params)
			require.NoError(t, err)
			assert.Equal(t, tt.master, ps[0].Cell)
		})
	}
}

func TestCompute_MultipleMastersShareTheMasterArea(t *testing.T) {
	area := Rect{Width: 1000, Height: 600}
	ps, err := Compute(windows(4), area, Params{MasterCount: 2, MasterFraction: 0.6, Orientation: StackBottom})
	require.NoError(t, err)

	// Master windows sit side by side along the top edge.
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 500, Height: 360}, ps[0].Cell)
	assert.Equal(t, Rect{X: 500, Y: 0, Width: 500, Height: 360}, ps[1].Cell)
	// Stack row fills the rest, windows left to right.
	assert.Equal(t, Rect{X: 0, Y: 360, Width: 500, Height: 240}, ps[2].Cell)
	assert.Equal(t, Rect{X: 500, Y: 360, Width: 500, Height: 240}, ps[3].Cell)
}

func TestCompute_RemainderPixelsAreSpread(t *testing.T) {
	ps, err := Compute(windows(3), Rect{Width: 100, Height: 100}, Params{MasterCount: 3, MasterFraction: 0.5})
	require.NoError(t, err)

	heights := []int{ps[0].Cell.Height, ps[1].Cell.Height, ps[2].Cell.Height}
	assert.Equal(t, []int{33, 33, 34}, heights)
	assert.Equal(t, 100, ps[2].Cell.Y+ps[2].Cell.Height)
}

func TestPlacements_Lookup(t *testing.T) {
	ps, err := Compute(windows(2), Rect{Width: 10, Height: 10}, Params{MasterCount: 1, MasterFraction: 0.5})
	require.NoError(t, err)

	p, ok := ps.Lookup(101)
	require.True(t, ok)
	assert.Equal(t, 5, p.Cell.X)

	_, ok = ps.Lookup(7)
	assert.False(t, ok)
}

func TestParseOrientation(t *testing.T) {
	for input, want := range map[string]Orientation{
		"right": StackRight, "tile": StackRight,
		"left": StackLeft, "tileleft": StackLeft,
		"Top": StackTop, "tiletop": StackTop,
		" bottom ": StackBottom, "tilebottom": StackBottom,
	} {
		got, err := ParseOrientation(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseOrientation("diagonal")
	assert.Error(t, err)
}

func TestOrientation_TextRoundTrip(t *testing.T) {
	for _, o := range Orientations() {
		text, err := o.MarshalText()
		require.NoError(t, err)
		var back Orientation
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, o, back)
	}
	_, err := Orientation(42).MarshalText()
	assert.Error(t, err)
}

func TestRect_Inset(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	assert.Equal(t, Rect{X: 5, Y: 10, Width: 85, Height: 20}, r.Inset(10, 20, 5, 10))
	assert.Equal(t, Rect{X: 60, Y: 0, Width: 0, Height: 50}, r.Inset(0, 0, 60, 60))
}

func TestRect_IntersectAndCenter(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 50, Y: 80, Width: 100, Height: 100}
	assert.Equal(t, Rect{X: 50, Y: 80, Width: 50, Height: 20}, a.Intersect(b))
	assert.Equal(t, Rect{}, a.Intersect(Rect{X: 100, Y: 0, Width: 10, Height: 10}))

	x, y := b.Center()
	assert.Equal(t, 100, x)
	assert.Equal(t, 130, y)
	assert.True(t, a.ContainsPoint(0, 99))
	assert.False(t, a.ContainsPoint(100, 0))
}

func ExampleCompute() {
	ps, _ := Compute(
		[]Window{{ID: 1}, {ID: 2}, {ID: 3}},
		Rect{Width: 1200, Height: 800},
		Params{MasterCount: 1, MasterFraction: 0.6, Orientation: StackRight},
	)
	for _, p := range ps {
		fmt.Println(p.Window.ID, p.Geometry)
	}
	// Output:
	// 1 720x800+0+0
	// 2 480x400+720+0
	// 3 480x400+720+400
}
