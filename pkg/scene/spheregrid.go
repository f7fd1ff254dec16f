package scene

import (
	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/geometry"
	"github.com/df07/go-montecarlo-raytracer/pkg/material"
	"github.com/df07/go-montecarlo-raytracer/pkg/renderer"
)

const (
	gridExtent      = 11  // Cells run from -gridExtent to gridExtent-1 on both axes
	gridJitter      = 0.9 // Fraction of a cell a small sphere may be offset by
	gridSphereSize  = 0.2
	clearanceRadius = 0.9 // Keep small spheres away from the large metal sphere
)

// NewFinalScene creates the grid of small random spheres around three large
// ones. The same seed always produces the same scene.
func NewFinalScene(seed int64) *Scene {
	sampler := core.NewSeededSampler(seed)

	groundMaterial := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, groundMaterial),
	)

	clearance := core.NewVec3(4, gridSphereSize, 0)

	for a := -gridExtent; a < gridExtent; a++ {
		for b := -gridExtent; b < gridExtent; b++ {
			chooseMaterial := sampler.Get1D()
			center := core.NewVec3(
				float64(a)+gridJitter*sampler.Get1D(),
				gridSphereSize,
				float64(b)+gridJitter*sampler.Get1D(),
			)

			if center.Subtract(clearance).LengthSquared() <= clearanceRadius*clearanceRadius {
				continue
			}

			var sphereMaterial material.Material
			switch {
			case chooseMaterial < 0.8: // diffuse
				sphereMaterial = material.NewLambertian(sampler.Get3D())
			case chooseMaterial < 0.95: // metal
				albedo := sampler.Get3D()
				fuzz := core.RandomFloatRange(sampler, 0, 0.5)
				sphereMaterial = material.NewMetal(albedo, fuzz)
			default: // glass
				sphereMaterial = material.NewDielectric(1.5)
			}
			world.Add(geometry.NewSphere(center, gridSphereSize, sphereMaterial))
		}
	}

	world.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)))
	world.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	world.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)))

	return &Scene{
		Name:   FinalSceneName,
		World:  world,
		Camera: renderer.DefaultCameraConfig(),
	}
}
