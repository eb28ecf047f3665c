// Package resource loads documents from files or the network into
// windows.
package resource

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	stdnet "hyperflow/std/net"
)

// ErrScheme is returned for URIs no fetcher understands.
var ErrScheme = errors.New("unsupported scheme")

// Document is a fetched resource. Base is what relative references in it
// resolve against: a directory for files, the final URL otherwise.
type Document struct {
	URI         string
	Base        string
	Fragment    string
	Body        []byte
	ContentType string
}

// IsFile reports whether the document came from the local file system.
func (d *Document) IsFile() bool { return !stdnet.IsNetworkURL(d.Base) }

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (*Document, error)
}

// DefaultFetcher reads plain paths, file:// URIs and, unless disabled,
// http and https URLs.
type DefaultFetcher struct {
	base    string
	network bool
}

// NewFetcher returns a fetcher resolving relative URIs against base, which
// is a directory or a URL. An empty base means the working directory.
func NewFetcher(base string, network bool) *DefaultFetcher {
	return &DefaultFetcher{base: base, network: network}
}

// Resolve turns uri into an absolute file path or URL and splits off its
// fragment.
func (f *DefaultFetcher) Resolve(uri string) (target, fragment string) {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		uri, fragment = uri[:i], uri[i+1:]
	}
	switch {
	case stdnet.IsNetworkURL(uri):
		return uri, fragment
	case strings.HasPrefix(uri, "file://"):
		if u, err := url.Parse(uri); err == nil {
			return u.Path, fragment
		}
		return strings.TrimPrefix(uri, "file://"), fragment
	case hasScheme(uri):
		return uri, fragment
	case stdnet.IsNetworkURL(f.base):
		return stdnet.ResolveURL(f.base, uri), fragment
	case filepath.IsAbs(uri) || f.base == "":
		return uri, fragment
	}
	return filepath.Join(f.base, uri), fragment
}

func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) (*Document, error) {
	target, frag := f.Resolve(uri)
	switch {
	case stdnet.IsNetworkURL(target):
		if !f.network {
			return nil, fmt.Errorf("%s: network access disabled: %w", target, ErrScheme)
		}
		resp, err := stdnet.Fetch(ctx, target)
		if err != nil {
			return nil, err
		}
		return &Document{URI: resp.URL, Base: resp.URL, Fragment: frag, Body: resp.Body, ContentType: resp.ContentType}, nil
	case hasScheme(target):
		return nil, fmt.Errorf("%s: %w", target, ErrScheme)
	}

	path, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", target, err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "text/html"
	}
	return &Document{URI: path, Base: filepath.Dir(path), Fragment: frag, Body: body, ContentType: ct}, nil
}

// FetchImage fetches an image and returns its raw bytes. It has the shape
// of images.FetchFunc.
func (f *DefaultFetcher) FetchImage(uri string) ([]byte, error) {
	d, err := f.Fetch(context.Background(), uri)
	if err != nil {
		return nil, err
	}
	if ct := strings.ToLower(d.ContentType); ct != "" && !strings.HasPrefix(ct, "image/") &&
		!strings.HasPrefix(ct, "application/octet-stream") {
		return nil, fmt.Errorf("unexpected content type for image: %s", d.ContentType)
	}
	return d.Body, nil
}

// hasScheme reports a URI scheme other than a Windows drive letter.
func hasScheme(s string) bool {
	i := strings.Index(s, ":")
	if i < 2 {
		return false
	}
	for _, r := range s[:i] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}
