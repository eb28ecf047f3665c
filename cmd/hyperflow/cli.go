package main

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"hyperflow/pkg/config"
	"hyperflow/pkg/resource"
	"hyperflow/pkg/window"
)

type cli struct {
	logger *log.Logger
	cfg    config.Config

	configPath string
	network    bool
	baseDir    string
}

func newCLI(w io.Writer) *cli {
	return &cli{
		logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           log.InfoLevel,
		}),
		cfg: config.Default(),
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "hyperflow",
		Short:        "Lay out and render documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.configPath != "" {
				cfg, err := config.Load(c.configPath)
				if err != nil {
					return err
				}
				c.cfg = cfg
			}
			level, err := log.ParseLevel(c.cfg.Log.Level)
			if err != nil {
				return err
			}
			c.logger.SetLevel(level)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")
	flags.BoolVar(&c.network, "network", false, "allow http and https documents and images")
	flags.StringVar(&c.baseDir, "base", "", "directory or URL relative documents resolve against")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.linksCommand())
	root.AddCommand(c.hitCommand())
	root.AddCommand(c.compareCommand())
	return root
}

// open loads uri into a window of the given size. Zero sizes use the
// configured viewport.
func (c *cli) open(ctx context.Context, uri string, width, height int) (*window.Window, error) {
	if width <= 0 {
		width = c.cfg.Window.Width
	}
	if height <= 0 {
		height = c.cfg.Window.Height
	}
	r := resource.NewPageRenderer(resource.NewFetcher(c.baseDir, c.network), c.cfg, c.logger)
	return r.Open(ctx, uri, width, height)
}
