package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli holds the state shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool
	logger     *log.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "tagtile",
		Short: "Master/stack tiling for EWMH window managers",
		Long: `tagtile tiles the windows of the current desktop into a master area and a
stack, the way dwm and awesome do, on top of any EWMH-compliant window manager.

Each desktop is a tag with its own layout: master count, master fraction,
stack columns and the side the stack occupies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if c.verbose {
				level = log.DebugLevel
			}
			c.logger = newLogger(cmd.ErrOrStderr(), level)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ~/.config/tagtile/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.daemonCommand())
	root.AddCommand(c.tileCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.browseCommand())

	return root
}

// newLogger creates a logger writing to w at the given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "tagtile",
	})
}

func (c *cli) resolvedConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the config file and applies its log level unless
// --verbose was given.
func (c *cli) loadConfig() (*config.LoadResult, string, error) {
	path, err := c.resolvedConfigPath()
	if err != nil {
		return nil, "", err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	if !c.verbose {
		if level, err := log.ParseLevel(res.Config.LogLevel); err == nil {
			c.logger.SetLevel(level)
		}
	}
	c.logger.Debug("config loaded", "path", path, "files", len(res.Files))
	return res, path, nil
}
