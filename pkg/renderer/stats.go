package renderer

import (
	"math"
	"time"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	RaysTraced     int64         // World intersection queries, including bounces
	Bands          int           // Number of row bands rendered
	Workers        int           // Number of workers used
	MeanVariance   float64       // Mean per-pixel variance of the luminance estimate
	Elapsed        time.Duration // Wall time of the render
}

// merge folds the stats of one band into the running totals
func (rs *RenderStats) merge(band RenderStats) {
	rs.TotalPixels += band.TotalPixels
	rs.TotalSamples += band.TotalSamples
	rs.RaysTraced += band.RaysTraced
	rs.Bands++
}

// finalize derives the averaged fields once all bands have been merged
func (rs *RenderStats) finalize(pixels []PixelStats) {
	if rs.TotalPixels > 0 {
		rs.AverageSamples = float64(rs.TotalSamples) / float64(rs.TotalPixels)
	}

	if len(pixels) == 0 {
		return
	}
	sum := 0.0
	for i := range pixels {
		sum += pixels[i].Variance()
	}
	rs.MeanVariance = sum / float64(len(pixels))
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for noise estimates
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Variance returns the variance of the pixel's mean luminance, which shrinks
// as 1/n with the sample count
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	sampleVariance := math.Max(0, ps.LuminanceSqAccum/n-mean*mean) * n / (n - 1)
	return sampleVariance / n
}
