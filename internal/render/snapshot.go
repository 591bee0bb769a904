package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"ndlife/pkg/life"
)

func imageFormat(ext string) (string, error) {
	switch f := strings.ToLower(strings.TrimPrefix(ext, ".")); f {
	case "png", "bmp":
		return f, nil
	case "tif", "tiff":
		return "tiff", nil
	}
	return "", fmt.Errorf("%w: unsupported image format %q", life.ErrInvalidArgument, ext)
}

// Encode writes img in the still format named by ext (".png", ".bmp",
// ".tif" or ".tiff").
func Encode(w io.Writer, img image.Image, ext string) error {
	format, err := imageFormat(ext)
	if err != nil {
		return err
	}
	switch format {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	default:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
}

// Save draws state and writes it to path, picking the format from the
// extension.
func Save(path string, state *life.State, p DrawParams) error {
	img, err := Image(state, p)
	if err != nil {
		return err
	}
	ext := filepath.Ext(path)
	if _, err := imageFormat(ext); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, ext); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
