package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Options are the command line settings that are not part of config.Config
type Options struct {
	Scene          string
	SceneDir       string
	EnvFile        string
	MaxTextureSize uint
	ThumbnailSize  uint
	Upload         bool
	Sequential     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, renders one image and writes it to the output directory
func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, cfg, err := parseArgs(args, stdout)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Starting Whitted Raytracer...")
	logger := renderer.NewDefaultLogger()

	selectedScene, err := createScene(opts.Scene, opts.SceneDir, cfg.Texture, opts.MaxTextureSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Using scene %s with %d shapes and %d lights\n",
		opts.Scene, selectedScene.GetPrimitiveCount(), len(selectedScene.Lights()))

	raytracer, err := renderer.NewRaytracer(selectedScene, cfg.Render, logger)
	if err != nil {
		return err
	}

	surface := output.NewSurface(cfg.Render.Width, cfg.Render.Height)
	surface.OnRow(progressReporter(surface, cfg.Render.Height, stdout))

	var stats renderer.RenderStats
	if opts.Sequential {
		stats, err = raytracer.Render(ctx, surface)
	} else {
		stats, err = raytracer.RenderParallel(ctx, surface)
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	fmt.Fprintf(stdout, "Render completed in %v\n", stats.Elapsed)
	fmt.Fprintf(stdout, "Samples: %d (%d per pixel), skipped samples: %d, skipped lights: %d\n",
		stats.TotalSamples, stats.SamplesPerPixel, stats.SkippedSamples, stats.SkippedLights)
	fmt.Fprintf(stdout, "Average luminance: %.3f\n", renderer.CalculateAverageLuminance(surface.Image()))

	filename := output.RenderPath(cfg.OutputDir, sceneDirName(opts.Scene), time.Now())
	if err := output.SaveImage(surface.Image(), filename); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render saved as %s\n", filename)

	if opts.ThumbnailSize > 0 {
		thumbName := output.ThumbnailPath(filename)
		if err := output.SaveImage(output.Thumbnail(surface.Image(), opts.ThumbnailSize), thumbName); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Thumbnail saved as %s\n", thumbName)
	}

	if opts.Upload {
		if err := upload(ctx, cfg, surface, filename, logger); err != nil {
			return err
		}
	}

	return nil
}

// parseArgs loads the environment configuration and applies flags over it.
// Only flags given explicitly override the environment.
func parseArgs(args []string, stdout io.Writer) (Options, *config.Config, error) {
	opts := Options{}
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stdout)

	fs.StringVar(&opts.Scene, "scene", scene.DefaultSceneID, "Scene: 'default', 'json:<name>' from the scenes directory, or a path to a JSON scene")
	fs.StringVar(&opts.SceneDir, "scenes", "scenes", "Directory of JSON scenes")
	fs.StringVar(&opts.EnvFile, "env", ".env", "Optional .env file with RAYTRACER_* and S3_* settings")
	fs.UintVar(&opts.MaxTextureSize, "max-texture", 1024, "Downscale texture files larger than this (0 = never)")
	fs.UintVar(&opts.ThumbnailSize, "thumb", 0, "Also save a thumbnail of at most this size (0 = off)")
	fs.BoolVar(&opts.Upload, "upload", false, "Upload the render to the configured S3 bucket")
	fs.BoolVar(&opts.Sequential, "sequential", false, "Render on one goroutine with a single dither source")
	width := fs.Int("width", 0, "Image width")
	height := fs.Int("height", 0, "Image height")
	dof := fs.Int("dof", 0, "Lens samples per axis")
	aperture := fs.Float64("aperture", 0, "Lens grid spacing")
	focal := fs.Float64("focal", 0, "Focal distance")
	depth := fs.Int("depth", 0, "Mirror recursion budget")
	workers := fs.Int("workers", 0, "Parallel workers (0 = CPU count)")
	seed := fs.Int64("seed", 0, "Dither seed")
	texture := fs.String("texture", "", "Plane texture: image path or 'checkerboard'")
	out := fs.String("out", "", "Output directory")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}

	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return opts, nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Render.Width = *width
		case "height":
			cfg.Render.Height = *height
		case "dof":
			cfg.Render.DOFX, cfg.Render.DOFY = *dof, *dof
		case "aperture":
			cfg.Render.Aperture = *aperture
		case "focal":
			cfg.Render.FocalDistance = *focal
		case "depth":
			cfg.Render.MaxDepth = *depth
		case "workers":
			cfg.Render.Workers = *workers
		case "seed":
			cfg.Render.Seed = *seed
		case "texture":
			cfg.Texture = *texture
		case "out":
			cfg.OutputDir = *out
		}
	})

	return opts, cfg, nil
}

// createScene opens a built-in or JSON scene
func createScene(sceneType, sceneDir, texture string, maxTextureSize uint) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("no scene given")
	}
	s, err := loaders.OpenScene(sceneType, sceneDir, texture, maxTextureSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", sceneType, err)
	}
	return s, nil
}

// sceneDirName names the output subdirectory of a scene
func sceneDirName(sceneType string) string {
	name := strings.TrimPrefix(sceneType, "json:")
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}

// progressReporter prints a line every tenth of the image
func progressReporter(surface *output.Surface, totalRows int, stdout io.Writer) func(int) error {
	step := totalRows / 10
	if step < 1 {
		step = 1
	}
	return func(y int) error {
		if done := surface.RowsFinished(); done%step == 0 || done == totalRows {
			fmt.Fprintf(stdout, "Rendered %d/%d rows\n", done, totalRows)
		}
		return nil
	}
}

// upload sends the render to the bucket under its path relative to the output directory
func upload(ctx context.Context, cfg *config.Config, surface *output.Surface, filename string, logger core.Logger) error {
	uploader, err := output.NewS3Uploader(cfg.S3, logger)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := surface.EncodePNG(&buf); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	key, err := filepath.Rel(cfg.OutputDir, filename)
	if err != nil {
		key = filepath.Base(filename)
	}
	return uploader.UploadPNG(ctx, filepath.ToSlash(key), buf.Bytes())
}
