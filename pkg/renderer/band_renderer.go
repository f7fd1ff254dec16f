package renderer

import (
	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/geometry"
)

// BandRenderer renders row bands into a shared pixel statistics grid.
// Bands never overlap, so concurrent BandRenderers can share the grid.
type BandRenderer struct {
	camera    *Camera
	raytracer *Raytracer
}

// NewBandRenderer creates a band renderer with its own raytracer
func NewBandRenderer(camera *Camera, world geometry.Hittable) *BandRenderer {
	return &BandRenderer{
		camera:    camera,
		raytracer: NewRaytracer(world),
	}
}

// RenderBand takes SamplesPerPixel samples for every pixel of the band,
// drawing all randomness from the band's own seed. pixelStats is indexed
// y*width + x.
func (br *BandRenderer) RenderBand(band RowBand, pixelStats []PixelStats) RenderStats {
	config := br.camera.Config()
	width := br.camera.Width()
	sampler := core.NewSeededSampler(band.Seed)

	raysBefore := br.raytracer.RaysTraced()
	stats := RenderStats{}

	for j := band.MinY; j < band.MaxY; j++ {
		for i := 0; i < width; i++ {
			ps := &pixelStats[j*width+i]
			for s := 0; s < config.SamplesPerPixel; s++ {
				ray := br.camera.GetRay(i, j, sampler)
				ps.AddSample(br.raytracer.RayColor(ray, config.MaxDepth, sampler))
			}
			stats.TotalPixels++
			stats.TotalSamples += config.SamplesPerPixel
		}
	}

	stats.RaysTraced = br.raytracer.RaysTraced() - raysBefore
	return stats
}
