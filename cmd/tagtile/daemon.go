package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/daemon"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/tiling"
)

func (c *cli) daemonCommand() *cobra.Command {
	var opts daemon.Options

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Tile continuously and serve the hotkeys",
		Long: `Run in the foreground: retile whenever the client list, the current desktop
or the work area changes, bind the configured hotkeys and reload the config
file when it is edited.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, path, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.ConfigPath = path
			return daemon.Run(cmd.Context(), res.Config, opts, c.logger)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 50*time.Millisecond, "quiet period before a burst of window changes is retiled")
	cmd.Flags().DurationVar(&opts.ReconcileInterval, "reconcile-interval", 0, "also retile periodically (0 disables)")

	return cmd
}

func (c *cli) tileCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Tile the current desktop once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.loadConfig()
			if err != nil {
				return err
			}

			backend, err := platform.NewLinuxBackendFromDisplay()
			if err != nil {
				return err
			}
			defer backend.Disconnect()

			tiler := tiling.NewTiler(backend, res.Config, c.logger)
			run := tiler.Retile
			if dryRun {
				run = tiler.Plan
			}
			pass, err := run()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "desktop %d on %s: %s, %d tiled, %d floating\n",
				pass.Desktop, pass.Display.Name, describeTag(pass), len(pass.Placements), pass.Floating)
			if len(pass.Placements) > 0 {
				fmt.Fprintln(out, placementsTable(pass.Placements))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the layout without moving windows")

	return cmd
}

func describeTag(pass tiling.Pass) string {
	p := pass.Tag.Params
	return fmt.Sprintf("%s (stack %s, master %d, fraction %.2f, columns %d)",
		pass.Tag.Layout, p.Orientation, p.MasterCount, p.MasterFraction, max(p.Columns, 1))
}
