package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to set up a camera and sample an image
type CameraConfig struct {
	Center          core.Vec3 // Camera position (eye)
	LookAt          core.Vec3 // Point the camera is looking at
	Up              core.Vec3 // Up hint, need not be orthogonal to the view direction
	Width           int       // Image width in pixels
	AspectRatio     float64   // Width / height ratio
	VFov            float64   // Vertical field of view in degrees
	DefocusAngle    float64   // Cone angle in degrees of rays through each pixel; 0 disables depth of field
	FocusDistance   float64   // Distance from the eye to the plane of perfect focus
	SamplesPerPixel int       // Number of rays per pixel
	MaxDepth        int       // Maximum ray bounce depth
}

// DefaultCameraConfig returns the configuration used for final renders
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:          core.NewVec3(13, 2, -3),
		LookAt:          core.NewVec3(0, 0, 0),
		Up:              core.NewVec3(0, 1, 0),
		Width:           1024,
		AspectRatio:     16.0 / 9.0,
		VFov:            32.0,
		DefocusAngle:    0.6,
		FocusDistance:   10.0,
		SamplesPerPixel: 256,
		MaxDepth:        64,
	}
}

// Validate rejects configurations that cannot produce a well-defined image
func (c CameraConfig) Validate() error {
	switch {
	case !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0):
		return fmt.Errorf("%w: aspect ratio must be positive, got %v", ErrInvalidConfig, c.AspectRatio)
	case c.Width < 1:
		return fmt.Errorf("%w: image width must be at least 1, got %d", ErrInvalidConfig, c.Width)
	case c.SamplesPerPixel < 1:
		return fmt.Errorf("%w: samples per pixel must be at least 1, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical field of view must be in (0, 180) degrees, got %v", ErrInvalidConfig, c.VFov)
	case !(c.DefocusAngle >= 0):
		return fmt.Errorf("%w: defocus angle must not be negative, got %v", ErrInvalidConfig, c.DefocusAngle)
	case !(c.FocusDistance > 0):
		return fmt.Errorf("%w: focus distance must be positive, got %v", ErrInvalidConfig, c.FocusDistance)
	case c.Center.Subtract(c.LookAt).NearZero():
		return fmt.Errorf("%w: camera center and look-at point coincide at %v", ErrInvalidConfig, c.Center)
	case c.Up.Cross(c.Center.Subtract(c.LookAt)).NearZero():
		return fmt.Errorf("%w: up vector %v is parallel to the view direction", ErrInvalidConfig, c.Up)
	}
	return nil
}

// ImageHeight derives the image height from width and aspect ratio, never below 1
func ImageHeight(width int, aspectRatio float64) int {
	return max(1, int(float64(width)/aspectRatio))
}

// Camera generates rays for rendering. It is immutable after construction
// and safe to share between workers.
type Camera struct {
	config CameraConfig

	imageWidth  int
	imageHeight int

	center      core.Vec3 // Eye position
	pixel00     core.Vec3 // Location of pixel (0, 0) center
	pixelDeltaU core.Vec3 // Offset to the pixel to the right
	pixelDeltaV core.Vec3 // Offset to the pixel below

	u, v, w core.Vec3 // Camera frame basis vectors

	defocusDiskU core.Vec3 // Defocus disk horizontal radius
	defocusDiskV core.Vec3 // Defocus disk vertical radius
}

// NewCamera validates the configuration and derives the viewport
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Camera{
		config:      config,
		imageWidth:  config.Width,
		imageHeight: ImageHeight(config.Width, config.AspectRatio),
		center:      config.Center,
	}

	theta := config.VFov * math.Pi / 180
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	// Use the real pixel ratio, which differs from AspectRatio after rounding
	viewportWidth := viewportHeight * float64(c.imageWidth) / float64(c.imageHeight)

	c.w = config.Center.Subtract(config.LookAt).Normalize()
	c.u = config.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	viewportU := c.u.Multiply(viewportWidth)
	viewportV := c.v.Negate().Multiply(viewportHeight) // image rows run top to bottom

	c.pixelDeltaU = viewportU.Divide(float64(c.imageWidth))
	c.pixelDeltaV = viewportV.Divide(float64(c.imageHeight))

	viewportUpperLeft := c.center.
		Subtract(c.w.Multiply(config.FocusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	c.pixel00 = viewportUpperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Multiply(0.5))

	defocusRadius := config.FocusDistance * math.Tan(config.DefocusAngle*math.Pi/180/2)
	c.defocusDiskU = c.u.Multiply(defocusRadius)
	c.defocusDiskV = c.v.Multiply(defocusRadius)

	return c, nil
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.imageWidth }

// Height returns the derived image height in pixels
func (c *Camera) Height() int { return c.imageHeight }

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig { return c.config }

// GetRay generates a jittered ray through pixel (i, j), where j counts rows from the top
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	offset := core.NewVec2(jitter.X-0.5, jitter.Y-0.5)

	var lens core.Vec2
	if c.config.DefocusAngle > 0 {
		lens = sampler.Get2D()
	}
	return c.GetRayWithOffset(i, j, offset, lens)
}

// GetRayWithOffset builds the ray through pixel (i, j) displaced by offset
// (in pixel units, [-0.5, 0.5) covers the footprint) and leaving the lens at
// the disk point mapped from lensSample. lensSample is ignored without defocus.
func (c *Camera) GetRayWithOffset(i, j int, offset, lensSample core.Vec2) core.Ray {
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + offset.X)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offset.Y))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		p := core.SamplePointInUnitDisk(lensSample)
		origin = c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

// GetCameraForward returns the unit view direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}
