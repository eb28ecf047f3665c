package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hyperflow/pkg/render"
	"hyperflow/pkg/resource"
	"hyperflow/pkg/visualtest"
)

type renderOpts struct {
	output string
	width  int
	height int
	full   bool // grow the viewport to the whole document height
}

func (c *cli) renderCommand() *cobra.Command {
	opts := renderOpts{output: "out.png"}
	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render a document to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := c.open(cmd.Context(), args[0], opts.width, opts.height)
			if err != nil {
				return err
			}
			defer w.Close()

			width, height := w.Size()
			if opts.full {
				if _, docH := w.DocumentSize(); docH > height {
					height = docH
					w.Resize(width, height)
				}
			}
			r := render.NewRaster(width, height)
			w.Draw(r)
			if err := r.SavePNG(opts.output); err != nil {
				return fmt.Errorf("saving %s: %w", opts.output, err)
			}
			c.logger.Info("rendered", "document", args[0], "output", opts.output, "size", fmt.Sprintf("%dx%d", width, height))
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output PNG file")
	cmd.Flags().IntVar(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&opts.full, "full", false, "render the whole document instead of the first screen")
	return cmd
}

func (c *cli) dumpCommand() *cobra.Command {
	var width int
	var draw bool
	cmd := &cobra.Command{
		Use:   "dump [document]",
		Short: "Print the layout tree of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := c.open(cmd.Context(), args[0], width, 0)
			if err != nil {
				return err
			}
			defer w.Close()

			out := cmd.OutOrStdout()
			if !draw {
				return w.Print(out)
			}
			var rec render.Recorder
			w.Draw(&rec)
			return rec.Dump(out)
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "viewport width (default from config)")
	cmd.Flags().BoolVar(&draw, "draw", false, "print draw instructions instead of the tree")
	return cmd
}

func (c *cli) linksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "links [document]",
		Short: "List link sources and destinations with their rectangles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := c.open(cmd.Context(), args[0], 0, 0)
			if err != nil {
				return err
			}
			defer w.Close()

			out := cmd.OutOrStdout()
			for _, l := range w.Links().Sources() {
				fmt.Fprintf(out, "source %s %q %v\n", l.Dest, l.Title, l.Rects)
			}
			for _, l := range w.Links().Dests() {
				fmt.Fprintf(out, "dest %s %v\n", l.Name, l.Rects)
			}
			return nil
		},
	}
}

func (c *cli) hitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hit [document] [x] [y]",
		Short: "Report the link under a window position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}
			w, err := c.open(cmd.Context(), args[0], 0, 0)
			if err != nil {
				return err
			}
			defer w.Close()

			out := cmd.OutOrStdout()
			title, _ := w.HoverLink(x, y)
			if title == "" {
				fmt.Fprintln(out, "no link")
				return nil
			}
			dest, _ := w.ActivateLink(x, y)
			fmt.Fprintf(out, "%s -> %s\n", title, dest)
			return nil
		},
	}
}

func (c *cli) compareCommand() *cobra.Command {
	opts := visualtest.DefaultOptions()
	var width, height int
	var update bool
	var diffPath string
	cmd := &cobra.Command{
		Use:   "compare [document] [reference.png]",
		Short: "Compare a rendering with a reference image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 {
				width = c.cfg.Window.Width
			}
			if height <= 0 {
				height = c.cfg.Window.Height
			}
			opts.Diff = diffPath != ""
			r := resource.NewPageRenderer(resource.NewFetcher(c.baseDir, c.network), c.cfg, c.logger)
			res, err := visualtest.CheckReference(cmd.Context(), r, args[0], args[1], width, height, opts, update)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			if res.Match {
				return nil
			}
			if res.Diff != nil {
				if err := visualtest.WritePNG(diffPath, res.Diff); err != nil {
					return err
				}
			}
			return fmt.Errorf("%s does not match %s", args[0], args[1])
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&width, "width", 0, "viewport width (default from config)")
	flags.IntVar(&height, "height", 0, "viewport height (default from config)")
	flags.IntVar(&opts.Tolerance, "tolerance", opts.Tolerance, "largest channel difference counted as equal")
	flags.IntVar(&opts.Radius, "radius", 0, "accept matches this many pixels away")
	flags.Float64Var(&opts.MaxPercent, "max-percent", 0, "accept up to this percentage of differing pixels")
	flags.BoolVar(&update, "update", false, "write the rendering as the new reference")
	flags.StringVar(&diffPath, "diff", "", "write a difference image here on mismatch")
	return cmd
}
