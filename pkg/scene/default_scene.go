package scene

import (
	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/geometry"
	"github.com/df07/go-montecarlo-raytracer/pkg/material"
	"github.com/df07/go-montecarlo-raytracer/pkg/renderer"
)

// NewDefaultScene creates a small scene with ground, a diffuse sphere, a
// hollow glass sphere and a fuzzy gold sphere
func NewDefaultScene() *Scene {
	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Center = core.NewVec3(0, 0.75, 2) // Slightly above and in front of the row
	cameraConfig.LookAt = core.NewVec3(0, 0.25, -1)
	cameraConfig.Width = 400
	cameraConfig.VFov = 40.0
	cameraConfig.DefocusAngle = 0.5
	cameraConfig.FocusDistance = cameraConfig.Center.Subtract(cameraConfig.LookAt).Length()
	cameraConfig.SamplesPerPixel = 100
	cameraConfig.MaxDepth = 50

	// Create materials
	lambertianGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	lambertianCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialGlass := material.NewDielectric(1.5)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, lambertianGround),
		geometry.NewSphere(core.NewVec3(0, 0, -1.2), 0.5, lambertianCenter),
		// Hollow glass: the inner sphere's negative radius flips its normals
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, materialGlass),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.4, materialGlass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, metalGold),
	)

	return &Scene{
		Name:   DefaultSceneName,
		World:  world,
		Camera: cameraConfig,
	}
}
