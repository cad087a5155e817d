package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/shlex"

	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// flagsEnvVar holds default flags, split like a shell command line.
// Flags given on the command line win because they are parsed later.
const flagsEnvVar = "RAYTRACER_FLAGS"

// argsWithEnv prepends the flags from env to args
func argsWithEnv(env string, args []string) ([]string, error) {
	if strings.TrimSpace(env) == "" {
		return args, nil
	}
	envArgs, err := shlex.Split(env)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", flagsEnvVar, err)
	}
	return append(envArgs, args...), nil
}

// keepDepth is the -depth value that keeps the scene's bounce limit
const keepDepth = -1

// options holds the parsed command line
type options struct {
	sceneName string
	scenesDir string
	list      bool
	help      bool

	width   int
	height  int
	spp     int
	depth   int
	workers int
	rows    int
	seed    int64
	gamma   bool

	format string
	out    string

	vfov     float64
	aperture float64
	focus    float64
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.sceneName, "scene", "default", "Built-in scene name, scene file base name in -scenes-dir, or path to a .json scene file")
	fs.StringVar(&opts.scenesDir, "scenes-dir", "scenes", "Directory searched for JSON scene files")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.height, "height", 0, "Image height in pixels (0 = keep the scene aspect ratio)")
	fs.IntVar(&opts.spp, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", keepDepth, "Maximum bounces per ray (0 renders black, -1 = scene default)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.IntVar(&opts.rows, "rows", renderer.DefaultRenderConfig().RowsPerTile, "Scanlines per work unit")
	fs.Int64Var(&opts.seed, "seed", renderer.DefaultRenderConfig().Seed, "Random seed; the same seed gives the same image")
	fs.BoolVar(&opts.gamma, "gamma", true, "Apply gamma 2 correction before quantizing")

	fs.StringVar(&opts.format, "format", "", "Output format: ppm or png (default from -out extension, else ppm)")
	fs.StringVar(&opts.out, "out", "", "Output file (default stdout)")

	fs.Float64Var(&opts.vfov, "vfov", 0, "Override the vertical field of view in degrees")
	fs.Float64Var(&opts.aperture, "aperture", -1, "Override the lens aperture (0 = pinhole, negative keeps the scene value)")
	fs.Float64Var(&opts.focus, "focus", -1, "Override the focus distance (0 = focus on look-at, negative keeps the scene value)")

	err := fs.Parse(args)
	return opts, fs, err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args, err := argsWithEnv(os.Getenv(flagsEnvVar), os.Args[1:])
	if err == nil {
		err = run(ctx, args, os.Stdout, os.Stderr)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run renders according to args, writing the image to stdout unless -out is set.
// Diagnostics go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.help {
		printHelp(stderr, fs)
		return nil
	}
	if opts.list {
		return listScenes(stdout, opts.scenesDir)
	}

	format, err := resolveFormat(opts)
	if err != nil {
		return err
	}

	s, err := createScene(opts)
	if err != nil {
		return err
	}
	if err := s.Preprocess(); err != nil {
		return fmt.Errorf("scene %q: %w", opts.sceneName, err)
	}

	logger := renderer.NewDefaultLogger(stderr)
	logger.Printf("Scene %q with %d spheres\n", opts.sceneName, s.GetPrimitiveCount())

	config := renderer.RenderConfig{
		RowsPerTile: opts.rows,
		NumWorkers:  opts.workers,
		Seed:        opts.seed,
	}
	r, err := renderer.NewRenderer(s, s.SamplingConfig, config, logger)
	if err != nil {
		return err
	}

	img, stats, err := r.Render(ctx)
	if err != nil {
		return err
	}
	logger.Printf("Samples per pixel: %.1f, total samples: %d, average luminance: %.3f\n",
		stats.AverageSamples, stats.TotalSamples, renderer.CalculateAverageLuminance(img))

	if opts.out == "" {
		return output.Write(stdout, img, format)
	}
	if err := output.SaveFile(opts.out, img, format); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", opts.out)
	return nil
}

// createScene loads the named scene and applies the command line overrides
func createScene(opts options) (*scene.Scene, error) {
	s, err := scene.Load(opts.sceneName, opts.scenesDir, opts.seed)
	if err != nil {
		return nil, err
	}

	base := s.SamplingConfig
	sampling := renderer.MergeSamplingConfig(base, renderer.SamplingConfig{
		Width:           opts.width,
		Height:          opts.height,
		SamplesPerPixel: opts.spp,
	})
	switch {
	case opts.depth >= 0:
		sampling.MaxDepth = opts.depth
	case opts.depth != keepDepth:
		return nil, fmt.Errorf("invalid options: max depth must be -1 or more, got %d", opts.depth)
	}
	// A width on its own keeps the scene's aspect ratio
	if opts.width > 0 && opts.height == 0 {
		sampling.Height = max(1, opts.width*base.Height/base.Width)
	}
	sampling.Gamma = opts.gamma
	s.SamplingConfig = sampling

	s.CameraConfig = renderer.MergeCameraConfig(s.CameraConfig, renderer.CameraConfig{VFov: opts.vfov})
	if opts.aperture >= 0 {
		s.CameraConfig.Aperture = opts.aperture
	}
	if opts.focus >= 0 {
		s.CameraConfig.FocusDistance = opts.focus
	}

	if err := s.SamplingConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return s, nil
}

// resolveFormat uses -format when given, otherwise the -out extension, otherwise PPM
func resolveFormat(opts options) (output.Format, error) {
	if opts.format != "" {
		return output.ParseFormat(opts.format)
	}
	return output.FormatForPath(opts.out, output.FormatPPM), nil
}

func listScenes(w io.Writer, scenesDir string) error {
	fmt.Fprintln(w, "Built-in scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Fprintf(w, "  %-12s %s\n", info.ID, info.Description)
	}

	files, err := scene.ListSceneFiles(scenesDir)
	if err != nil {
		return err
	}
	if len(files) > 0 {
		fmt.Fprintf(w, "\nScene files in %s:\n", scenesDir)
		for _, info := range files {
			fmt.Fprintf(w, "  %-12s %s\n", info.ID, strings.TrimSpace(info.DisplayName+" "+info.Description))
		}
	}
	return nil
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Sphere Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options] > image.ppm")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Fprintf(w, "  %s - %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The image is written to stdout unless -out is given; progress goes to stderr.")
	fmt.Fprintf(w, "Default flags can be set in %s, e.g. %s='-spp 20 -workers 4'\n", flagsEnvVar, flagsEnvVar)
}
