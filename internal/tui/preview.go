package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagtile/internal/layout"
)

// previewScreen is the screen the preview placements are computed on. The
// result is scaled down to the character grid.
var previewScreen = layout.Rect{Width: 1920, Height: 1080}

var (
	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))

	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// Placements computes the layout of n windows on the preview screen.
func Placements(params layout.Params, n int) (layout.Placements, error) {
	windows := make([]layout.Window, max(n, 0))
	for i := range windows {
		windows[i] = layout.Window{ID: layout.WindowID(i + 1)}
	}
	return layout.Compute(windows, previewScreen, params)
}

// RenderPreview draws the layout of n windows into a bordered block of
// width x height characters, followed by a one-line summary.
func RenderPreview(params layout.Params, n, width, height int) (string, error) {
	ps, err := Placements(params, n)
	if err != nil {
		return "", err
	}
	cols, rows := max(width-2, 1), max(height-2, 1)
	grid := layout.Render(previewScreen, ps, cols, rows)
	block := previewStyle.Render(strings.Join(grid, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, block, summaryStyle.Render(Summarize(ps))), nil
}

// Summarize describes the cell sizes of a pass.
func Summarize(ps layout.Placements) string {
	if len(ps) == 0 {
		return "no windows"
	}
	minW, minH := ps[0].Cell.Width, ps[0].Cell.Height
	maxW, maxH := minW, minH
	for _, p := range ps[1:] {
		minW, minH = min(minW, p.Cell.Width), min(minH, p.Cell.Height)
		maxW, maxH = max(maxW, p.Cell.Width), max(maxH, p.Cell.Height)
	}
	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%d windows • %d×%d px each", len(ps), minW, minH)
	}
	return fmt.Sprintf("%d windows • min %d×%d • max %d×%d", len(ps), minW, minH, maxW, maxH)
}

// describeParams is the one-line form of a parameter set.
func describeParams(p layout.Params) string {
	return fmt.Sprintf("stack %s • master %d • fraction %.2f • columns %d",
		p.Orientation, p.MasterCount, p.MasterFraction, max(p.Columns, 1))
}
