package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/publish"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "JSON config file")
	envFile := flag.String("env", ".env", "Environment file")
	port := flag.Int("port", 0, "Port to serve on (default 8080)")
	flag.Parse()

	cfg, err := config.Build(*configPath, []string{*envFile}, config.Flags{Port: *port})
	if err != nil {
		log.Printf("Error loading config: %v", err)
		os.Exit(1)
	}

	var publisher publish.Publisher
	s3, err := publish.NewFromConfig(cfg.S3)
	if err != nil {
		log.Printf("Error configuring S3: %v", err)
		os.Exit(1)
	}
	if s3 != nil {
		publisher = s3
		log.Printf("Publishing renders to s3://%s", cfg.S3.Bucket)
	}

	// Create and start web server
	webServer := server.NewServer(cfg, publisher)

	log.Printf("Whitted Raytracer Web Server")
	log.Printf("Visit http://localhost:%d/api/scenes to list scenes", cfg.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
