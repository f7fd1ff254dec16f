package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
)

// Framebuffer holds display-ready colors, one per pixel, rows top to bottom.
// Every channel is gamma corrected and lies in [0,1].
type Framebuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFramebuffer creates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color of pixel (x, y)
func (f *Framebuffer) At(x, y int) core.Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Set stores a display color at pixel (x, y)
func (f *Framebuffer) Set(x, y int, c core.Vec3) {
	f.Pixels[y*f.Width+x] = c
}

// ToRGBA quantizes the framebuffer to 8 bits per channel
func (f *Framebuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: QuantizeChannel(c.X),
				G: QuantizeChannel(c.Y),
				B: QuantizeChannel(c.Z),
				A: 255,
			})
		}
	}
	return img
}

// AverageLuminance returns the mean luminance over all pixels
func (f *Framebuffer) AverageLuminance() float64 {
	if len(f.Pixels) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range f.Pixels {
		sum += c.Luminance()
	}
	return sum / float64(len(f.Pixels))
}

// QuantizeChannel maps a display value in [0,1] to an 8-bit channel.
// 1.0 maps to 255 and values outside [0,1] are clamped.
func QuantizeChannel(c float64) uint8 {
	return uint8(256 * math.Max(0, math.Min(0.999, c)))
}

// toDisplay converts an averaged linear color to its stored display value.
// NaN channels, which a degenerate sample can produce, become black.
func toDisplay(linear core.Vec3) core.Vec3 {
	if math.IsNaN(linear.X) {
		linear.X = 0
	}
	if math.IsNaN(linear.Y) {
		linear.Y = 0
	}
	if math.IsNaN(linear.Z) {
		linear.Z = 0
	}
	return linear.GammaCorrect(2.0).Clamp(0, 1)
}
