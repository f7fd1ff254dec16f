package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/material"
)

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	if _, isHit := list.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Error("Expected empty list to report no hit")
	}
	if list.Len() != 0 {
		t.Errorf("Expected length 0, got %d", list.Len())
	}
}

func TestHittableList_ClosestHitRegardlessOfOrder(t *testing.T) {
	near := material.NewLambertian(core.NewVec3(1, 0, 0))
	far := material.NewLambertian(core.NewVec3(0, 0, 1))

	nearSphere := NewSphere(core.NewVec3(0, 0, -2), 0.5, near)
	farSphere := NewSphere(core.NewVec3(0, 0, -5), 0.5, far)

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	tests := []struct {
		name    string
		objects []Hittable
	}{
		{"near first", []Hittable{nearSphere, farSphere}},
		{"far first", []Hittable{farSphere, nearSphere}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := NewHittableList(tt.objects...)
			hit, isHit := list.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit")
			}
			if math.Abs(hit.T-1.5) > 1e-9 {
				t.Errorf("Expected closest t=1.5, got %f", hit.T)
			}
			if hit.Material != near {
				t.Error("Expected closest hit to carry the near sphere's material")
			}
		})
	}
}

func TestHittableList_AddAndClear(t *testing.T) {
	list := NewHittableList()
	list.Add(NewSphere(core.NewVec3(0, 0, -1), 0.5, nil))
	list.Add(NewSphere(core.NewVec3(0, 0, -3), 0.5, nil))

	if list.Len() != 2 {
		t.Fatalf("Expected 2 objects, got %d", list.Len())
	}

	list.Clear()
	if list.Len() != 0 {
		t.Errorf("Expected cleared list, got %d objects", list.Len())
	}
}

// bruteForceHit queries every object over the full interval and keeps the minimum
func bruteForceHit(objects []Hittable, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var best material.HitRecord
	found := false
	for _, object := range objects {
		if hit, ok := object.Hit(ray, tMin, tMax); ok && (!found || hit.T < best.T) {
			best = hit
			found = true
		}
	}
	return best, found
}

func TestHittableList_PruningMatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sampler := core.NewRandomSampler(random)

	var objects []Hittable
	for i := 0; i < 50; i++ {
		center := core.RandomVec3Range(sampler, -5, 5)
		objects = append(objects, NewSphere(center, core.RandomFloatRange(sampler, 0.2, 1.5), nil))
	}
	list := NewHittableList(objects...)

	hits := 0
	for i := 0; i < 2000; i++ {
		ray := core.NewRay(core.RandomVec3Range(sampler, -8, 8), core.RandomUnitVector(sampler))

		got, gotHit := list.Hit(ray, 0.001, math.Inf(1))
		want, wantHit := bruteForceHit(objects, ray, 0.001, math.Inf(1))

		if gotHit != wantHit {
			t.Fatalf("Ray %d: hit mismatch, list=%t brute=%t", i, gotHit, wantHit)
		}
		if gotHit {
			hits++
			if got.T != want.T || got.Point != want.Point {
				t.Fatalf("Ray %d: list hit t=%f, brute force t=%f", i, got.T, want.T)
			}
		}
	}

	if hits == 0 {
		t.Fatal("Test setup error: no rays hit anything")
	}
}
