package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/tui"
)

func (c *cli) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect layout presets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List layout presets in cycling order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), layoutsTable(res))
			return nil
		},
	})

	return cmd
}

func layoutsTable(res *config.LoadResult) string {
	cfg := res.Config
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("layout", "base", "stack", "master", "fraction", "columns").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, name := range cfg.LayoutNames() {
		l := cfg.Layouts[name]
		label := name
		if name == cfg.DefaultLayout {
			label += " *"
		}
		t.Row(
			label,
			res.LayoutBases[name],
			l.Orientation.String(),
			strconv.Itoa(l.MasterCount),
			strconv.FormatFloat(l.MasterFraction, 'f', 2, 64),
			strconv.Itoa(max(l.Columns, 1)),
		)
	}
	return t.String()
}

func (c *cli) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and tweak layouts interactively",
		Long: `Open a terminal browser over the layout presets. The preview is computed
offline; adjusting a preset here does not change the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.loadConfig()
			if err != nil {
				return err
			}
			return tui.Run(res)
		},
	}
}
