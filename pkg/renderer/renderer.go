package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/geometry"
)

const tracerName = "go-montecarlo-raytracer/renderer"

var (
	// ErrInvalidConfig is wrapped by every configuration validation failure
	ErrInvalidConfig = errors.New("invalid render configuration")

	// ErrAlreadyRendered is returned when Render is called a second time
	ErrAlreadyRendered = errors.New("renderer has already rendered")
)

// RenderOptions controls how a render is scheduled. None of the options
// change the image except Seed.
type RenderOptions struct {
	NumWorkers     int   // Number of parallel workers (0 = use CPU count)
	SingleThreaded bool  // Render every band on one worker
	Seed           int64 // Base seed for every band's random stream
	RowsPerBand    int   // Rows per unit of work (0 = 1)
}

// DefaultRenderOptions returns sensible default values
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		NumWorkers:  0,
		Seed:        1,
		RowsPerBand: 1,
	}
}

// BandProgress reports the completion of one band
type BandProgress struct {
	BandID         int
	WorkerID       int
	RowsCompleted  int
	TotalRows      int
	BandsCompleted int
	TotalBands     int
}

// Renderer renders one image of a world through a camera. A Renderer is
// single use: once Render has been called it refuses to render again.
type Renderer struct {
	camera   *Camera
	options  RenderOptions
	logger   core.Logger
	rendered atomic.Bool
}

// NewRenderer validates the configuration and prepares a renderer
func NewRenderer(config CameraConfig, options RenderOptions, logger core.Logger) (*Renderer, error) {
	if options.NumWorkers < 0 {
		return nil, fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidConfig, options.NumWorkers)
	}
	if options.RowsPerBand < 0 {
		return nil, fmt.Errorf("%w: rows per band must not be negative, got %d", ErrInvalidConfig, options.RowsPerBand)
	}

	camera, err := NewCamera(config)
	if err != nil {
		return nil, err
	}

	if options.RowsPerBand == 0 {
		options.RowsPerBand = 1
	}
	if options.SingleThreaded {
		options.NumWorkers = 1
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Renderer{
		camera:  camera,
		options: options,
		logger:  logger,
	}, nil
}

// Camera returns the camera the renderer samples through
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// Render renders the world and returns the finished framebuffer. progress,
// if non-nil, is called once per completed band from the calling goroutine.
// Cancelling ctx stops the render between bands and returns ctx's error.
func (r *Renderer) Render(ctx context.Context, world geometry.Hittable, progress func(BandProgress)) (*Framebuffer, RenderStats, error) {
	if !r.rendered.CompareAndSwap(false, true) {
		return nil, RenderStats{}, ErrAlreadyRendered
	}

	width, height := r.camera.Width(), r.camera.Height()
	config := r.camera.Config()
	pool := NewWorkerPool(r.options.NumWorkers)
	bands := NewRowBands(height, r.options.RowsPerBand, r.options.Seed)

	tracer := otel.Tracer(tracerName)
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Renderer.Render", trace.WithAttributes(
		attribute.Int("width", width),
		attribute.Int("height", height),
		attribute.Int("samples_per_pixel", config.SamplesPerPixel),
		attribute.Int("max_depth", config.MaxDepth),
		attribute.Int("workers", pool.GetNumWorkers()),
		attribute.Int("bands", len(bands)),
	))
	defer span.End()

	r.logger.Printf("Rendering %dx%d at %d samples per pixel, max depth %d (%d bands, %d workers)...\n",
		width, height, config.SamplesPerPixel, config.MaxDepth, len(bands), pool.GetNumWorkers())

	start := time.Now()
	pixelStats := make([]PixelStats, width*height)
	stats := RenderStats{Workers: pool.GetNumWorkers()}
	rowsCompleted := 0

	newWorker := func(workerID int) BandFunc {
		bandRenderer := NewBandRenderer(r.camera, world)
		return func(ctx context.Context, band RowBand) (RenderStats, error) {
			_, bandSpan := tracer.Start(ctx, "Renderer.renderBand", trace.WithAttributes(
				attribute.Int("band", band.ID),
				attribute.Int("worker", workerID),
			))
			defer bandSpan.End()
			return bandRenderer.RenderBand(band, pixelStats), nil
		}
	}

	onResult := func(result BandResult) {
		stats.merge(result.Stats)
		rowsCompleted += result.Band.Rows()
		if glog.V(1) {
			glog.Infof("Band %d (rows %d-%d) done by worker %d", result.Band.ID, result.Band.MinY, result.Band.MaxY-1, result.WorkerID)
		}
		if progress != nil {
			progress(BandProgress{
				BandID:         result.Band.ID,
				WorkerID:       result.WorkerID,
				RowsCompleted:  rowsCompleted,
				TotalRows:      height,
				BandsCompleted: stats.Bands,
				TotalBands:     len(bands),
			})
		}
	}

	err := pool.Run(ctx, bands, newWorker, onResult)
	if err == nil {
		// Cancelled after the last band was handed out
		err = ctx.Err()
	}
	if err != nil {
		err = fmt.Errorf("while rendering: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Printf("Rendering stopped after %d of %d bands: %v\n", stats.Bands, len(bands), err)
		return nil, RenderStats{}, err
	}

	fb := NewFramebuffer(width, height)
	for i := range pixelStats {
		fb.Pixels[i] = toDisplay(pixelStats[i].GetColor())
	}

	stats.Elapsed = time.Since(start)
	stats.finalize(pixelStats)
	span.SetAttributes(attribute.Int64("rays_traced", stats.RaysTraced))
	span.SetStatus(codes.Ok, "")

	r.logger.Printf("Rendered %d pixels in %v (%d samples, %d rays)\n",
		stats.TotalPixels, stats.Elapsed, stats.TotalSamples, stats.RaysTraced)

	return fb, stats, nil
}
