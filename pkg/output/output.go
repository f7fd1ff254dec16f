package output

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-montecarlo-raytracer/pkg/renderer"
)

// ErrUnknownFormat is returned for output paths whose extension names no supported format
var ErrUnknownFormat = errors.New("unknown image format")

// Supported formats, named by file extension
const (
	FormatPPM = "ppm"
	FormatPNG = "png"
)

// EncodePPM writes fb as a plain-text (P3) pixmap, one pixel per line
func EncodePPM(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height)
	for _, c := range fb.Pixels {
		fmt.Fprintf(bw, "%d %d %d\n",
			renderer.QuantizeChannel(c.X),
			renderer.QuantizeChannel(c.Y),
			renderer.QuantizeChannel(c.Z))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing PPM: %w", err)
	}
	return nil
}

// EncodePNG writes fb as an 8-bit PNG
func EncodePNG(w io.Writer, fb *renderer.Framebuffer) error {
	if err := png.Encode(w, fb.ToRGBA()); err != nil {
		return fmt.Errorf("while encoding PNG: %w", err)
	}
	return nil
}

// FormatFromPath returns the image format named by path's extension
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case FormatPPM, FormatPNG:
		return ext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Save writes fb to path in the format named by its extension, creating
// parent directories as needed
func Save(path string, fb *renderer.Framebuffer) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("while creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("while creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("while closing output file: %w", cerr)
		}
	}()

	switch format {
	case FormatPPM:
		return EncodePPM(file, fb)
	default:
		return EncodePNG(file, fb)
	}
}
