package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets every variable the loader reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"WIDTH", "HEIGHT", "DOF_X", "DOF_Y", "APERTURE", "FOCAL_DISTANCE", "PLANE_HEIGHT",
		"MAX_DEPTH", "WORKERS", "SEED", "TEXTURE", "OUTPUT_DIR", "PORT",
	}
	for _, k := range keys {
		unsetEnv(t, Prefix+k)
	}
	for _, k := range []string{"S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_ENDPOINT", "S3_REGION", "S3_BUCKET"} {
		unsetEnv(t, k)
	}
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "") // registers restore on cleanup
	os.Unsetenv(key)
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Render != Default().Render {
		t.Errorf("Expected default render config, got %+v", cfg.Render)
	}
	if cfg.OutputDir != "output" || cfg.Port != "8080" || cfg.Texture != "" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.S3.Enabled() {
		t.Error("Expected S3 disabled without settings")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAYTRACER_WIDTH", "320")
	t.Setenv("RAYTRACER_HEIGHT", "240")
	t.Setenv("RAYTRACER_DOF_X", "5")
	t.Setenv("RAYTRACER_APERTURE", "0.1")
	t.Setenv("RAYTRACER_MAX_DEPTH", "0")
	t.Setenv("RAYTRACER_SEED", "-9")
	t.Setenv("RAYTRACER_TEXTURE", "checkerboard")
	t.Setenv("RAYTRACER_PORT", "9000")
	t.Setenv("S3_BUCKET", "renders")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	r := cfg.Render
	if r.Width != 320 || r.Height != 240 || r.DOFX != 5 || r.DOFY != 3 {
		t.Errorf("Unexpected sizes: %+v", r)
	}
	if r.Aperture != 0.1 || r.MaxDepth != 0 || r.Seed != -9 {
		t.Errorf("Unexpected lens/depth/seed: %+v", r)
	}
	if cfg.Texture != "checkerboard" || cfg.Port != "9000" {
		t.Errorf("Unexpected strings: %+v", cfg)
	}
	if !cfg.S3.Enabled() || cfg.S3.Region != "us-east-1" {
		t.Errorf("Unexpected S3 config: %+v", cfg.S3)
	}
}

func TestFromEnv_Malformed(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"RAYTRACER_WIDTH", "wide"},
		{"RAYTRACER_APERTURE", "1,5"},
		{"RAYTRACER_SEED", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAYTRACER_HEIGHT", "64") // environment wins over the file

	path := filepath.Join(t.TempDir(), ".env")
	content := "RAYTRACER_WIDTH=128\nRAYTRACER_HEIGHT=99\nRAYTRACER_OUTPUT_DIR=renders\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets these with os.Setenv; restore afterwards
	unsetEnv(t, "RAYTRACER_WIDTH")
	unsetEnv(t, "RAYTRACER_OUTPUT_DIR")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Render.Width != 128 {
		t.Errorf("Expected width from file 128, got %d", cfg.Render.Width)
	}
	if cfg.Render.Height != 64 {
		t.Errorf("Expected height from environment 64, got %d", cfg.Render.Height)
	}
	if cfg.OutputDir != "renders" {
		t.Errorf("Expected output dir renders, got %s", cfg.OutputDir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Expected missing .env to be ignored, got %v", err)
	}
}
