package layout

import (
	"strconv"
	"strings"
)

// Render draws the cells of ps into a cols x rows character grid scaled
// from area. Each cell is outlined and labelled with its 1-based index.
// Cells narrower than three characters are filled instead: with the label
// itself when it is a single digit, otherwise with '#' and the label on
// the middle row when it fits.
func Render(area Rect, ps Placements, cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cols))
	}
	if area.Empty() {
		return joinRows(grid)
	}

	scaleX := func(x int) int { return (x - area.X) * cols / area.Width }
	scaleY := func(y int) int { return (y - area.Y) * rows / area.Height }

	for i, p := range ps {
		c := p.Cell
		if c.Empty() {
			continue
		}
		x0, x1 := scaleX(c.X), scaleX(c.X+c.Width)-1
		y0, y1 := scaleY(c.Y), scaleY(c.Y+c.Height)-1
		x1, y1 = max(x0, min(x1, cols-1)), max(y0, min(y1, rows-1))

		label := []rune(strconv.Itoa(i + 1))
		if x1-x0 < 2 || y1-y0 < 2 {
			fillCell(grid, x0, y0, x1, y1, label)
			continue
		}

		for x := x0; x <= x1; x++ {
			grid[y0][x] = '-'
			grid[y1][x] = '-'
		}
		for y := y0; y <= y1; y++ {
			grid[y][x0] = '|'
			grid[y][x1] = '|'
		}
		grid[y0][x0], grid[y0][x1] = '+', '+'
		grid[y1][x0], grid[y1][x1] = '+', '+'

		cy := y0 + (y1-y0)/2
		cx := x0 + (x1-x0)/2 - len(label)/2
		for k, r := range label {
			if x := cx + k; x > x0 && x < x1 {
				grid[cy][x] = r
			}
		}
	}
	return joinRows(grid)
}

func fillCell(grid [][]rune, x0, y0, x1, y1 int, label []rune) {
	fill := '#'
	if len(label) == 1 {
		fill = label[0]
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			grid[y][x] = fill
		}
	}
	if w := x1 - x0 + 1; len(label) > 1 && len(label) <= w {
		copy(grid[y0+(y1-y0)/2][x0+(w-len(label))/2:], label)
	}
}

func joinRows(grid [][]rune) []string {
	out := make([]string, len(grid))
	for i, row := range grid {
		out[i] = string(row)
	}
	return out
}
