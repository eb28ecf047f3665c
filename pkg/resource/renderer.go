package resource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"hyperflow/pkg/builder"
	"hyperflow/pkg/config"
	"hyperflow/pkg/render"
	"hyperflow/pkg/window"
)

// Renderer renders a document onto an image.
type Renderer interface {
	Render(ctx context.Context, uri string, target *image.RGBA) error
}

// PageRenderer loads documents into windows of its session.
type PageRenderer struct {
	fetcher *DefaultFetcher
	session *window.Session
	cfg     config.Config
	logger  *log.Logger
	opts    []window.Option
}

// NewPageRenderer returns a renderer fetching through f. Extra options are
// passed to every window it opens.
func NewPageRenderer(f *DefaultFetcher, cfg config.Config, logger *log.Logger, opts ...window.Option) *PageRenderer {
	if logger == nil {
		logger = log.Default()
	}
	return &PageRenderer{
		fetcher: f,
		session: window.NewSession(logger, nil),
		cfg:     cfg,
		logger:  logger,
		opts:    opts,
	}
}

func (r *PageRenderer) Session() *window.Session { return r.session }

// Open fetches uri and builds it into a new window sized width by height.
// A fragment in uri becomes the window's scroll target.
func (r *PageRenderer) Open(ctx context.Context, uri string, width, height int) (*window.Window, error) {
	doc, err := r.fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	if ct := strings.ToLower(doc.ContentType); ct != "" && !strings.Contains(ct, "html") && !strings.HasPrefix(ct, "text/") {
		return nil, fmt.Errorf("%s: unexpected content type %s", doc.URI, doc.ContentType)
	}

	cfg := r.cfg
	cfg.Window.Width, cfg.Window.Height = width, height
	opts := append([]window.Option{
		window.WithConfig(cfg),
		window.WithImageFetch(NewFetcher(doc.Base, r.fetcher.network).FetchImage),
	}, r.opts...)
	w := r.session.Open(opts...)
	if doc.IsFile() {
		w.SetBaseDir(doc.Base)
	}

	start := time.Now()
	if err := builder.New(w).Build(bytes.NewReader(doc.Body)); err != nil {
		w.Close()
		return nil, fmt.Errorf("%s: %w", doc.URI, err)
	}
	if doc.Fragment != "" {
		w.SetTarget(doc.Fragment)
		w.Resize(width, height)
	}
	w.Logger().Debug("document loaded", "uri", doc.URI, "objects", w.Tree().Len(), "took", time.Since(start))
	return w, nil
}

// Render loads uri at the size of target and paints it there. The window
// is closed afterwards.
func (r *PageRenderer) Render(ctx context.Context, uri string, target *image.RGBA) error {
	b := target.Bounds()
	w, err := r.Open(ctx, uri, b.Dx(), b.Dy())
	if err != nil {
		return err
	}
	defer w.Close()
	w.Draw(render.NewRasterForImage(target))
	return nil
}
