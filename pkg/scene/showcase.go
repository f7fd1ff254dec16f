package scene

import (
	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/geometry"
	"github.com/df07/go-montecarlo-raytracer/pkg/material"
	"github.com/df07/go-montecarlo-raytracer/pkg/renderer"
)

// NewShowcaseScene creates one sphere of every material on a large blue ground sphere
func NewShowcaseScene() *Scene {
	red := material.NewLambertian(core.NewVec3(1.0, 0.2, 0.2))
	blue := material.NewLambertian(core.NewVec3(0.2, 0.2, 1.0))
	chrome := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.2)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.5)
	glass := material.NewDielectric(1.5)
	denseGlass := material.NewDielectric(1.4)

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0.4, 0, 4), 0.5, red),
		geometry.NewSphere(core.NewVec3(0, -100.5, 1), 100, blue),
		geometry.NewSphere(core.NewVec3(-0.6, 0, 1), 0.3, chrome),
		geometry.NewSphere(core.NewVec3(-0.2, 0.6, 1), 0.3, gold),
		geometry.NewSphere(core.NewVec3(0.3, 0, 0.8), 0.3, glass),
		geometry.NewSphere(core.NewVec3(-0.1, 0, 4), 0.2, denseGlass),
	)

	return &Scene{
		Name:   ShowcaseSceneName,
		World:  world,
		Camera: renderer.DefaultCameraConfig(),
	}
}
