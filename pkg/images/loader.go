package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// ErrUnsupported is returned for sources the loader has no way to read.
var ErrUnsupported = errors.New("unsupported image source")

// FetchFunc retrieves the raw bytes of a non-file image URI.
type FetchFunc func(uri string) ([]byte, error)

// Loader decodes and caches images for one window.
type Loader struct {
	mu      sync.RWMutex
	cache   map[string]image.Image
	baseDir string
	fetch   FetchFunc
}

// NewLoader returns a loader resolving relative paths against baseDir.
// fetch may be nil, in which case only files and data URIs load.
func NewLoader(baseDir string, fetch FetchFunc) *Loader {
	return &Loader{cache: make(map[string]image.Image), baseDir: baseDir, fetch: fetch}
}

// SetBaseDir changes where relative paths are resolved. The cache is kept.
func (l *Loader) SetBaseDir(dir string) {
	l.mu.Lock()
	l.baseDir = dir
	l.mu.Unlock()
}

// Load returns the decoded image for src, which may be a data URI, a
// file:// URI, a plain path, or any URI the fetch function understands.
func (l *Loader) Load(src string) (image.Image, error) {
	l.mu.RLock()
	img, ok := l.cache[src]
	l.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := l.load(src)
	if err != nil {
		return nil, fmt.Errorf("loading image %q: %w", shorten(src), err)
	}

	l.mu.Lock()
	l.cache[src] = img
	l.mu.Unlock()
	return img, nil
}

func (l *Loader) load(src string) (image.Image, error) {
	if IsDataURI(src) {
		return DecodeDataURI(src)
	}
	if path, ok := l.filePath(src); ok {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	}
	if l.fetch == nil {
		return nil, ErrUnsupported
	}
	data, err := l.fetch(src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// filePath reports the local path for src when it names a file.
func (l *Loader) filePath(src string) (string, bool) {
	if strings.HasPrefix(src, "file:") {
		u, err := url.Parse(src)
		if err != nil {
			return "", false
		}
		if u.Path == "" {
			return u.Opaque, true
		}
		return u.Path, true
	}
	if i := strings.Index(src, "://"); i > 0 {
		return "", false
	}
	if filepath.IsAbs(src) || l.baseDir == "" {
		return src, true
	}
	return filepath.Join(l.baseDir, src), true
}

// Dimensions loads src and reports its size.
func (l *Loader) Dimensions(src string) (width, height int, err error) {
	img, err := l.Load(src)
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// Len reports how many images are cached.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURI decodes a base64 data: URI holding an image.
func DecodeDataURI(uri string) (image.Image, error) {
	if !IsDataURI(uri) {
		return nil, ErrUnsupported
	}
	meta, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("data URI without payload: %w", ErrUnsupported)
	}
	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		var err error
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding base64: %w", err)
		}
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, err
		}
		data = []byte(s)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return img, nil
}

// Resize scales img to w by h. A size of zero or less keeps the aspect
// ratio from the other one; both unset returns img unchanged.
func Resize(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	switch {
	case w <= 0 && h <= 0:
		return img
	case w <= 0:
		w = max(b.Dx()*h/max(b.Dy(), 1), 1)
	case h <= 0:
		h = max(b.Dy()*w/max(b.Dx(), 1), 1)
	}
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Placeholder draws the broken image marker: a light gray box crossed
// by an X.
func Placeholder(w, h int) image.Image {
	w, h = max(w, 1), max(h, 1)
	dc := gg.NewContext(w, h)
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.Clear()
	dc.SetRGB(0.5, 0.5, 0.5)
	dc.SetLineWidth(2)
	dc.DrawLine(0, 0, float64(w), float64(h))
	dc.DrawLine(float64(w), 0, 0, float64(h))
	dc.Stroke()
	return dc.Image()
}

func shorten(s string) string {
	if len(s) > 64 {
		return s[:61] + "..."
	}
	return s
}
