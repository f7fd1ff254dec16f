package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"golang.org/x/term"

	"github.com/df07/go-montecarlo-raytracer/pkg/output"
	"github.com/df07/go-montecarlo-raytracer/pkg/renderer"
	"github.com/df07/go-montecarlo-raytracer/pkg/scene"
)

var (
	sceneName      = flag.String("scene", scene.FinalSceneName, "Scene to render: 'default', 'final', 'showcase' or a path to a .yaml scene file")
	seed           = flag.Int64("seed", 1, "Seed for scene generation and sampling")
	width          = flag.Int("width", 0, "Override the image width (0 = scene default)")
	spp            = flag.Int("spp", 0, "Override samples per pixel (0 = scene default)")
	depth          = flag.Int("depth", -1, "Override the maximum bounce depth (-1 = scene default)")
	workers        = flag.Int("workers", 0, "Number of parallel workers (0 = use CPU count)")
	singleThreaded = flag.Bool("single-threaded", false, "Render on a single worker")
	rowsPerBand    = flag.Int("rows-per-band", 1, "Image rows per unit of parallel work")
	outPath        = flag.String("out", "", "Output file; defaults to output/<scene>/render_<timestamp>.<format>")
	format         = flag.String("format", output.FormatPNG, "Output format when -out is not given: 'png' or 'ppm'")
	list           = flag.Bool("list", false, "List available scenes and exit")
	scenesDir      = flag.String("scenes-dir", "scenes", "Directory searched for scene files by -list")
)

// renderFlags holds the command line settings for one render
type renderFlags struct {
	Scene          string
	Seed           int64
	Width          int
	SPP            int
	Depth          int
	Workers        int
	SingleThreaded bool
	RowsPerBand    int
	Out            string
	Format         string
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if *list {
		if err := listScenes(os.Stdout, *scenesDir); err != nil {
			glog.Exitf("Error listing scenes: %v", err)
		}
		return
	}

	flags := renderFlags{
		Scene:          *sceneName,
		Seed:           *seed,
		Width:          *width,
		SPP:            *spp,
		Depth:          *depth,
		Workers:        *workers,
		SingleThreaded: *singleThreaded,
		RowsPerBand:    *rowsPerBand,
		Out:            *outPath,
		Format:         *format,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	filename, err := run(ctx, flags, newProgressReporter(os.Stderr))
	if err != nil {
		glog.Exitf("Render failed: %v", err)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// run builds the scene, renders it and saves the result, returning the output path
func run(ctx context.Context, flags renderFlags, progress func(renderer.BandProgress)) (string, error) {
	selectedScene, err := scene.Create(flags.Scene, flags.Seed)
	if err != nil {
		return "", fmt.Errorf("while creating scene: %w", err)
	}

	filename := flags.Out
	if filename == "" {
		filename = defaultOutputPath(selectedScene.Name, flags.Format, time.Now())
	}
	// Fail on a bad format before spending time on the render
	if _, err := output.FormatFromPath(filename); err != nil {
		return "", err
	}

	cameraConfig := applyOverrides(selectedScene.Camera, flags)
	options := renderer.RenderOptions{
		NumWorkers:     flags.Workers,
		SingleThreaded: flags.SingleThreaded,
		Seed:           flags.Seed,
		RowsPerBand:    flags.RowsPerBand,
	}

	glog.Infof("Rendering scene %q (%d objects)", selectedScene.Name, selectedScene.World.Len())

	r, err := renderer.NewRenderer(cameraConfig, options, renderer.NewDefaultLogger())
	if err != nil {
		return "", err
	}

	fb, stats, err := r.Render(ctx, selectedScene.World, progress)
	if err != nil {
		return "", err
	}

	glog.Infof("Render completed in %v: %.0f samples per pixel, %d rays, mean pixel variance %.3g",
		stats.Elapsed, stats.AverageSamples, stats.RaysTraced, stats.MeanVariance)

	if err := output.Save(filename, fb); err != nil {
		return "", err
	}
	return filename, nil
}

// applyOverrides replaces scene camera settings given on the command line
func applyOverrides(config renderer.CameraConfig, flags renderFlags) renderer.CameraConfig {
	if flags.Width > 0 {
		config.Width = flags.Width
	}
	if flags.SPP > 0 {
		config.SamplesPerPixel = flags.SPP
	}
	if flags.Depth >= 0 {
		config.MaxDepth = flags.Depth
	}
	return config
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.<format>
func defaultOutputPath(sceneName, format string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.%s", timestamp, format))
}

// newProgressReporter shows a live scanline counter on a terminal and
// otherwise logs every tenth of the image
func newProgressReporter(w *os.File) func(renderer.BandProgress) {
	if term.IsTerminal(int(w.Fd())) {
		return func(p renderer.BandProgress) {
			fmt.Fprintf(w, "\rScanlines remaining: %d ", p.TotalRows-p.RowsCompleted)
			if p.BandsCompleted == p.TotalBands {
				fmt.Fprintln(w, "\rDone.                        ")
			}
		}
	}

	lastDecile := 0
	return func(p renderer.BandProgress) {
		decile := 10 * p.RowsCompleted / p.TotalRows
		if decile > lastDecile {
			lastDecile = decile
			glog.Infof("%d%% of rows rendered (%d/%d)", 10*decile, p.RowsCompleted, p.TotalRows)
		}
	}
}

// listScenes prints every built-in scene and the scene files in dir
func listScenes(w io.Writer, dir string) error {
	scenes, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}

	for _, s := range scenes {
		fmt.Fprintf(w, "  %-30s %s", s.ID, s.Name)
		if s.Description != "" {
			fmt.Fprintf(w, " - %s", s.Description)
		}
		fmt.Fprintln(w)
	}
	return nil
}
