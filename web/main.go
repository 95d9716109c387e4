package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.String("port", "", "Port to serve on (overrides RAYTRACER_PORT)")
	sceneDir := flag.String("scenes", "scenes", "Directory of JSON scenes")
	envFile := flag.String("env", ".env", "Optional .env file with RAYTRACER_* and S3_* settings")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}

	var uploader *output.Uploader
	if cfg.S3.Enabled() {
		if uploader, err = output.NewS3Uploader(cfg.S3, renderer.NewDefaultLogger()); err != nil {
			log.Printf("Error creating S3 uploader: %v", err)
			os.Exit(1)
		}
		log.Printf("Uploads enabled to bucket %s", cfg.S3.Bucket)
	}

	// Create and start web server
	webServer := server.NewServer(cfg, *sceneDir, uploader)

	log.Printf("Whitted Raytracer Web Server")
	log.Printf("Try http://localhost:%s/api/render?width=400&height=400", cfg.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
