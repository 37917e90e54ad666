package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/tui"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	gridStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
)

type previewOptions struct {
	layoutName  string
	windows     int
	width       int
	height      int
	border      int
	master      int
	fraction    float64
	columns     int
	orientation string
	cols        int
	rows        int
	table       bool
}

func (c *cli) previewCommand() *cobra.Command {
	opts := previewOptions{windows: 4, width: 1920, height: 1080}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Draw a layout in the terminal without touching any window",
		Long: `Compute the placements of a number of windows on a virtual screen and draw
them as text. Parameters start from a layout preset (the configured default
unless --layout is given) and can be overridden one by one.`,
		Example: `  tagtile preview --windows 5 --fraction 0.6
  tagtile preview --layout tilebottom --columns 3 --windows 7 --table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.loadConfig()
			if err != nil {
				return err
			}
			name := opts.layoutName
			if name == "" {
				name = res.Config.DefaultLayout
			}
			preset, err := res.Config.GetLayout(name)
			if err != nil {
				return err
			}

			params := preset.Params()
			flags := cmd.Flags()
			if flags.Changed("master") {
				params.MasterCount = opts.master
			}
			if flags.Changed("fraction") {
				params.MasterFraction = opts.fraction
			}
			if flags.Changed("columns") {
				params.Columns = opts.columns
			}
			if flags.Changed("orientation") {
				if params.Orientation, err = layout.ParseOrientation(opts.orientation); err != nil {
					return err
				}
			}

			out, err := renderPreview(name, params, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.layoutName, "layout", "l", "", "layout preset to start from")
	f.IntVarP(&opts.windows, "windows", "w", opts.windows, "number of tiled windows")
	f.IntVar(&opts.width, "width", opts.width, "screen width in pixels")
	f.IntVar(&opts.height, "height", opts.height, "screen height in pixels")
	f.IntVar(&opts.border, "border", 0, "window border width in pixels")
	f.IntVar(&opts.master, "master", 0, "master window count")
	f.Float64Var(&opts.fraction, "fraction", 0, "master area fraction, in (0, 1]")
	f.IntVar(&opts.columns, "columns", 0, "stack columns")
	f.StringVar(&opts.orientation, "orientation", "", "stack side: right, left, top, bottom")
	f.IntVar(&opts.cols, "cols", 0, "drawing width in characters (default: terminal width)")
	f.IntVar(&opts.rows, "rows", 0, "drawing height in characters (default: half the terminal height)")
	f.BoolVarP(&opts.table, "table", "t", false, "also list every placement")

	return cmd
}

// renderPreview computes the layout for opts and returns the drawing,
// a summary line and optionally the placements table.
func renderPreview(name string, params layout.Params, opts previewOptions) (string, error) {
	if opts.windows < 0 {
		return "", fmt.Errorf("windows must be >= 0")
	}
	area := layout.Rect{Width: opts.width, Height: opts.height}
	windows := make([]layout.Window, opts.windows)
	for i := range windows {
		windows[i] = layout.Window{ID: layout.WindowID(i + 1), BorderWidth: opts.border}
	}
	ps, err := layout.Compute(windows, area, params)
	if err != nil {
		return "", err
	}

	cols, rows := opts.cols, opts.rows
	if cols <= 0 || rows <= 0 {
		tw, th := terminalSize()
		if cols <= 0 {
			cols = tw - 2
		}
		if rows <= 0 {
			rows = th/2 - 2
		}
	}
	cols, rows = max(cols, 8), max(rows, 4)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s on %s: stack %s, master %d, fraction %.2f, columns %d\n",
		name, area, params.Orientation, params.MasterCount, params.MasterFraction, max(params.Columns, 1))
	sb.WriteString(gridStyle.Render(strings.Join(layout.Render(area, ps, cols, rows), "\n")))
	sb.WriteString("\n" + tui.Summarize(ps))
	if opts.table && len(ps) > 0 {
		sb.WriteString("\n" + placementsTable(ps))
	}
	return sb.String(), nil
}

func terminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// placementsTable lists each placement's cell and resize geometry.
func placementsTable(ps layout.Placements) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "window", "cell", "geometry").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for i, p := range ps {
		t.Row(strconv.Itoa(i+1), fmt.Sprintf("0x%x", uint32(p.Window.ID)), p.Cell.String(), p.Geometry.String())
	}
	return t.String()
}
