package renderer

import (
	"math"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/geometry"
)

// shadowAcneEpsilon is the minimum hit distance for secondary rays
const shadowAcneEpsilon = 0.001

var (
	skyWhite = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue  = core.NewVec3(0.5, 0.7, 1.0)
)

// Raytracer estimates the radiance carried along camera rays through a world.
// A Raytracer is owned by a single worker; it counts the rays it traces.
type Raytracer struct {
	world      geometry.Hittable
	raysTraced int64
}

// NewRaytracer creates a raytracer for the given world
func NewRaytracer(world geometry.Hittable) *Raytracer {
	return &Raytracer{world: world}
}

// RayColor follows r through the world for at most depth bounces and returns
// the collected radiance. Rays that exhaust their depth return black.
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for ; depth > 0; depth-- {
		rt.raysTraced++

		hit, isHit := rt.world.Hit(r, shadowAcneEpsilon, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(BackgroundGradient(r))
		}

		scatter, didScatter := hit.Material.Scatter(r, hit, sampler)
		if !didScatter {
			return core.Vec3{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		r = scatter.Scattered
	}

	return core.Vec3{}
}

// RaysTraced returns the number of world intersection queries issued so far
func (rt *Raytracer) RaysTraced() int64 {
	return rt.raysTraced
}

// BackgroundGradient returns the sky color seen along r: white at the horizon
// blending to light blue straight up
func BackgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return skyWhite.Lerp(skyBlue, t)
}
