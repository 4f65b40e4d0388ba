package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"score-for-cancer-total/internal/config"
	"score-for-cancer-total/internal/logging"
	"score-for-cancer-total/internal/services"
)

// One-off check: runs a single lookup with debug output, for checking markup drift by hand
func main() {
	configPath := flag.String("config", os.Getenv(config.PathEnv), "path to YAML config")
	mode := flag.String("mode", "", "extraction mode override: largest, scored or rendered")
	timeout := flag.Duration("timeout", 90*time.Second, "overall deadline for the lookup")
	flag.Parse()

	if *mode != "" {
		os.Setenv("EXTRACTION_MODE", *mode)
	}
	os.Setenv("DEBUG", "true")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewWithWriter(logging.Config{Level: cfg.Log.Level, Format: "console"}, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	service, err := services.NewTotalServiceFromConfig(ctx, cfg, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	status, response := service.Resolve(ctx)

	out, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("HTTP %d\n%s\n", status, out)
	if !response.OK {
		os.Exit(2)
	}
}
