// Command hfview is a small document viewer. Hovering a link shows its
// title in the status bar; clicking follows it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"hyperflow/pkg/config"
	"hyperflow/pkg/resource"
	"hyperflow/pkg/window"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	network := flag.Bool("network", false, "allow http and https documents")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
	})
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	a := app.New()
	fw := a.NewWindow("hfview")
	fw.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	status := widget.NewLabel("Enter a document and press Enter")
	view := newPageView()
	entry := widget.NewEntry()
	entry.SetPlaceHolder("file.html")

	var load func(uri string)
	r := resource.NewPageRenderer(resource.NewFetcher("", *network), cfg, logger,
		window.WithStatus(func(msg string) { status.SetText(msg) }),
		window.WithRedraw(func() { fyne.Do(view.repaint) }),
		window.WithNavigator(func(dest string) { go load(dest) }),
	)
	load = func(uri string) {
		fyne.Do(func() { status.SetText("Loading " + uri + "...") })
		w, err := r.Open(context.Background(), uri, cfg.Window.Width, cfg.Window.Height)
		fyne.Do(func() {
			if err != nil {
				status.SetText("Error: " + err.Error())
				return
			}
			if old := view.win; old != nil {
				old.Close()
			}
			view.SetWindow(w)
			entry.SetText(uri)
			status.SetText(uri)
			title := w.Title()
			if title == "" {
				title = uri
			}
			fw.SetTitle("hfview: " + title)
		})
	}
	entry.OnSubmitted = func(uri string) { go load(uri) }

	content := container.NewBorder(entry, status, nil, nil, view)
	fw.SetContent(content)
	fw.Canvas().Focus(entry)

	if flag.NArg() > 0 {
		go load(flag.Arg(0))
	}
	fw.ShowAndRun()
}
