package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/geometry"
	"github.com/df07/go-montecarlo-raytracer/pkg/material"
)

// MockMaterial implements material.Material for testing
type MockMaterial struct {
	scatterFn func(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool)
}

func (m MockMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	return m.scatterFn(rayIn, hit, sampler)
}

// MockShape implements geometry.Hittable for testing
type MockShape struct {
	hitFn func(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}

func (m MockShape) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return m.hitFn(ray, tMin, tMax)
}

// bouncingShape hits every query for the first hits calls, then misses.
// Its material scatters straight up with the given attenuation.
func bouncingShape(hits int, attenuation core.Vec3) (MockShape, *int) {
	calls := 0
	mat := MockMaterial{scatterFn: func(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
		return material.ScatterResult{
			Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
			Attenuation: attenuation,
		}, true
	}}
	shape := MockShape{hitFn: func(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
		calls++
		if calls > hits {
			return material.HitRecord{}, false
		}
		return material.HitRecord{
			Point:     ray.At(1),
			Normal:    core.NewVec3(0, 1, 0),
			T:         1,
			FrontFace: true,
			Material:  mat,
		}, true
	}}
	return shape, &calls
}

func TestRaytracer_EmptySceneReturnsBackground(t *testing.T) {
	rt := NewRaytracer(geometry.NewHittableList())
	sampler := core.NewSeededSampler(42)

	for i := 0; i < 100; i++ {
		ray := core.NewRay(core.RandomVec3Range(sampler, -5, 5), core.RandomUnitVector(sampler).Multiply(3))
		got := rt.RayColor(ray, 1+i%5, sampler)
		if want := BackgroundGradient(ray); got != want {
			t.Fatalf("Expected background %v for %v, got %v", want, ray.Direction, got)
		}
	}

	if rt.RaysTraced() != 100 {
		t.Errorf("Expected one traced ray per miss, got %d", rt.RaysTraced())
	}
}

func TestRaytracer_ExhaustedDepthIsBlack(t *testing.T) {
	tests := []struct {
		name  string
		depth int
	}{
		{"zero", 0},
		{"negative", -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRaytracer(geometry.NewHittableList())
			ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))

			if got := rt.RayColor(ray, tt.depth, core.NewSeededSampler(1)); got != (core.Vec3{}) {
				t.Errorf("Expected black, got %v", got)
			}
			if rt.RaysTraced() != 0 {
				t.Errorf("Expected no traced rays, got %d", rt.RaysTraced())
			}
		})
	}
}

func TestRaytracer_RecursionBoundedByDepth(t *testing.T) {
	// A shape that is hit forever: only the depth limit ends the path
	shape, calls := bouncingShape(math.MaxInt, core.NewVec3(1, 1, 1))
	rt := NewRaytracer(shape)

	for _, depth := range []int{1, 2, 7, 50} {
		*calls = 0
		before := rt.RaysTraced()

		got := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), depth, core.NewSeededSampler(1))
		if got != (core.Vec3{}) {
			t.Errorf("depth %d: expected black after exhausting depth, got %v", depth, got)
		}
		if *calls != depth {
			t.Errorf("depth %d: expected %d intersection queries, got %d", depth, depth, *calls)
		}
		if traced := rt.RaysTraced() - before; traced != int64(depth) {
			t.Errorf("depth %d: expected %d traced rays, got %d", depth, depth, traced)
		}
	}
}

func TestRaytracer_AttenuationMultipliesBackground(t *testing.T) {
	attenuation := core.NewVec3(0.5, 0.25, 1.0)

	tests := []struct {
		name     string
		bounces  int
		depth    int
		expected core.Vec3
	}{
		// Scattered rays point straight up, where the sky is (0.5, 0.7, 1.0)
		{"one bounce", 1, 5, core.NewVec3(0.25, 0.175, 1.0)},
		{"two bounces", 2, 5, core.NewVec3(0.125, 0.04375, 1.0)},
		{"bounce limit reached", 2, 2, core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, _ := bouncingShape(tt.bounces, attenuation)
			rt := NewRaytracer(shape)

			got := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), tt.depth, core.NewSeededSampler(1))
			if !vecClose(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRaytracer_AbsorbedRayIsBlack(t *testing.T) {
	absorber := MockMaterial{scatterFn: func(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
		return material.ScatterResult{}, false
	}}
	shape := MockShape{hitFn: func(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
		return material.HitRecord{Point: ray.At(1), Normal: core.NewVec3(0, 0, 1), T: 1, FrontFace: true, Material: absorber}, true
	}}
	rt := NewRaytracer(shape)

	if got := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 10, core.NewSeededSampler(1)); got != (core.Vec3{}) {
		t.Errorf("Expected black for an absorbed ray, got %v", got)
	}
}

func TestRaytracer_QueriesOutsideShadowAcneEpsilon(t *testing.T) {
	shape := MockShape{hitFn: func(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
		if tMin != shadowAcneEpsilon || !math.IsInf(tMax, 1) {
			t.Errorf("Expected query interval (%v, +Inf), got (%v, %v)", shadowAcneEpsilon, tMin, tMax)
		}
		return material.HitRecord{}, false
	}}

	NewRaytracer(shape).RayColor(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), 3, core.NewSeededSampler(1))
}

func TestBackgroundGradient(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(1, 0, 0), core.NewVec3(0.75, 0.85, 1.0)},
		{"length does not matter", core.NewVec3(0, 20, 0), core.NewVec3(0.5, 0.7, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BackgroundGradient(core.NewRay(core.NewVec3(3, -2, 1), tt.direction))
			if !vecClose(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
