package visualtest

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"hyperflow/pkg/resource"
)

// Render paints uri at width by height.
func Render(ctx context.Context, r *resource.PageRenderer, uri string, width, height int) (*image.RGBA, error) {
	target := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := r.Render(ctx, uri, target); err != nil {
		return nil, err
	}
	return target, nil
}

// CheckReference renders uri and compares it with the PNG at refPath.
// With update set, or when the reference does not exist yet, the
// rendering is written as the new reference and reported as a match.
func CheckReference(ctx context.Context, r *resource.PageRenderer, uri, refPath string, width, height int, opts Options, update bool) (Result, error) {
	actual, err := Render(ctx, r, uri, width, height)
	if err != nil {
		return Result{}, err
	}
	expected, err := ReadPNG(refPath)
	if errors.Is(err, fs.ErrNotExist) {
		update = true
	} else if err != nil {
		return Result{}, err
	}
	if update {
		if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
			return Result{}, fmt.Errorf("creating reference directory: %w", err)
		}
		if err := WritePNG(refPath, actual); err != nil {
			return Result{}, err
		}
		return Result{Match: true, Total: width * height}, nil
	}
	return Compare(actual, expected, opts)
}
