package geometry

import (
	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/material"
)

// Hittable is anything a ray can intersect. Hit reports the closest
// intersection with t strictly inside (tMin, tMax).
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}
