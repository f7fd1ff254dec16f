package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/material"
)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "non-unit direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if hit.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 0.5)
	if isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	hit, isHit = sphere.Hit(ray, 3.5, 1000.0)
	if isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// Near root excluded by tMin falls back to the far root
	hit, isHit = sphere.Hit(ray, 1.5, 1000.0)
	if !isHit || math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected far root t=3, got hit=%t t=%f", isHit, hit.T)
	}

	// Interval bounds are exclusive
	if _, isHit = sphere.Hit(ray, 0.001, 1.0); isHit {
		t.Error("Expected root equal to tMax to be rejected")
	}
}

func TestSphere_Hit_NoSelfIntersectionAtOrigin(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)

	// Ray starting on the surface and leaving it must not hit at t≈0
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1))
	if hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Errorf("Expected no self intersection, got t=%g", hit.T)
	}
}

func TestSphere_Hit_CarriesMaterial(t *testing.T) {
	mat := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5, mat)

	hit, isHit := sphere.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.Material != mat {
		t.Error("Expected hit record to reference the sphere's material")
	}
}

func TestSphere_Hit_NegativeRadiusFlipsNormal(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), -1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit")
	}

	// The outward normal points inward, so the ray is treated as exiting
	if hit.FrontFace {
		t.Error("Expected back face hit for a negative radius sphere")
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected normal facing the ray, got %v", hit.Normal)
	}
}

func TestSphere_Hit_FromOutsideProperty(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sampler := core.NewRandomSampler(random)

	for i := 0; i < 1000; i++ {
		center := core.RandomVec3Range(sampler, -10, 10)
		radius := core.RandomFloatRange(sampler, 0.1, 5)
		sphere := NewSphere(center, radius, nil)

		// Start outside and aim at a point inside the sphere
		origin := center.Add(core.RandomUnitVector(sampler).Multiply(radius * core.RandomFloatRange(sampler, 1.5, 10)))
		target := center.Add(core.SamplePointInUnitSphere(sampler.Get3D()).Multiply(radius * 0.9))
		ray := core.NewRay(origin, target.Subtract(origin))

		hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			t.Fatalf("Case %d: expected hit", i)
		}
		if hit.T <= 0 {
			t.Fatalf("Case %d: expected t > 0, got %f", i, hit.T)
		}
		if !hit.FrontFace {
			t.Fatalf("Case %d: expected front face from outside", i)
		}

		// Normal points away from the centre and against the ray
		if hit.Normal.Dot(hit.Point.Subtract(center)) <= 0 {
			t.Fatalf("Case %d: normal %v points toward the centre", i, hit.Normal)
		}
		if hit.Normal.Dot(ray.Direction) >= 0 {
			t.Fatalf("Case %d: normal %v does not face the ray", i, hit.Normal)
		}
		if math.Abs(hit.Normal.Length()-1.0) > 1e-9 {
			t.Fatalf("Case %d: normal is not unit length", i)
		}
	}
}
