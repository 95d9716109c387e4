// Package config assembles the render configuration from an optional
// .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Prefix is prepended to every renderer environment variable
const Prefix = "RAYTRACER_"

// Config is everything the command line and web server need
type Config struct {
	Render    renderer.Config
	Texture   string // Plane texture: image path, "checkerboard", or empty for the scene's own
	OutputDir string
	Port      string
	S3        output.S3Config
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Render:    renderer.DefaultConfig(),
		OutputDir: "output",
		Port:      "8080",
	}
}

// Load reads envFile (if it exists) into the environment, then builds the
// configuration from the environment. Variables already set in the
// environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables over the defaults
func FromEnv() (*Config, error) {
	cfg := Default()
	r := &cfg.Render

	ints := []struct {
		key string
		dst *int
	}{
		{"WIDTH", &r.Width},
		{"HEIGHT", &r.Height},
		{"DOF_X", &r.DOFX},
		{"DOF_Y", &r.DOFY},
		{"MAX_DEPTH", &r.MaxDepth},
		{"WORKERS", &r.Workers},
	}
	for _, v := range ints {
		if err := lookupInt(Prefix+v.key, v.dst); err != nil {
			return nil, err
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"APERTURE", &r.Aperture},
		{"FOCAL_DISTANCE", &r.FocalDistance},
		{"PLANE_HEIGHT", &r.PlaneHeight},
	}
	for _, v := range floats {
		if err := lookupFloat(Prefix+v.key, v.dst); err != nil {
			return nil, err
		}
	}

	if value, ok := os.LookupEnv(Prefix + "SEED"); ok {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %sSEED %q: %w", Prefix, value, err)
		}
		r.Seed = seed
	}

	cfg.Texture = getEnv(Prefix+"TEXTURE", cfg.Texture)
	cfg.OutputDir = getEnv(Prefix+"OUTPUT_DIR", cfg.OutputDir)
	cfg.Port = getEnv(Prefix+"PORT", cfg.Port)

	cfg.S3 = output.S3Config{
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    getEnv("S3_REGION", "us-east-1"),
		Bucket:    os.Getenv("S3_BUCKET"),
	}

	return cfg, nil
}

// getEnv returns the value of key, or fallback when unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func lookupInt(key string, dst *int) error {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = n
	return nil
}

func lookupFloat(key string, dst *float64) error {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = f
	return nil
}
