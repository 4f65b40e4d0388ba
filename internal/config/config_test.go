package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every override so the host environment cannot leak into a test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"EXTRACTION_MODE", "TARGET_URL", "CHROME_PATH", "DEBUG", "LOG_LEVEL",
		"LOG_FORMAT", "ARCHIVE_BUCKET", "ARCHIVE_REGION", "SERVER_PORT",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected defaults to load, got %v", err)
	}

	if cfg.Extraction.Mode != "scored" {
		t.Errorf("Expected scored mode, got %s", cfg.Extraction.Mode)
	}
	if cfg.Extraction.TargetURL != "https://fundraisemyway.cancer.ca/campaigns/scoreforcancer" {
		t.Errorf("Unexpected target URL %s", cfg.Extraction.TargetURL)
	}
	if cfg.Extraction.Campaign != "Score For Cancer" {
		t.Errorf("Unexpected campaign %s", cfg.Extraction.Campaign)
	}
	if cfg.Extraction.NavigationTimeout != 60*time.Second {
		t.Errorf("Expected 60s navigation timeout, got %v", cfg.Extraction.NavigationTimeout)
	}
	if cfg.Extraction.SettleDelay != 2500*time.Millisecond {
		t.Errorf("Expected 2.5s settle delay, got %v", cfg.Extraction.SettleDelay)
	}
	if cfg.Extraction.Debug {
		t.Error("Debug should be off by default")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Unexpected log defaults %+v", cfg.Log)
	}
	if cfg.Archive.Bucket != "" || cfg.Archive.Prefix != "snapshots" {
		t.Errorf("Unexpected archive defaults %+v", cfg.Archive)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoad_FileValuesKept(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
extraction:
  mode: rendered
  debug: true
  settle_delay: 1s
log:
  level: debug
  format: console
archive:
  bucket: score-snapshots
server:
  port: 9090
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Extraction.Mode != "rendered" {
		t.Errorf("Expected rendered mode, got %s", cfg.Extraction.Mode)
	}
	if !cfg.Extraction.Debug {
		t.Error("Expected debug from file")
	}
	if cfg.Extraction.SettleDelay != time.Second {
		t.Errorf("Expected 1s settle delay, got %v", cfg.Extraction.SettleDelay)
	}
	if cfg.Extraction.NavigationTimeout != 60*time.Second {
		t.Errorf("Unset navigation timeout should default, got %v", cfg.Extraction.NavigationTimeout)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Expected console format, got %s", cfg.Log.Format)
	}
	if cfg.Archive.Bucket != "score-snapshots" {
		t.Errorf("Expected bucket from file, got %s", cfg.Archive.Bucket)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "extraction:\n  mode: largest\n")

	t.Setenv("EXTRACTION_MODE", "Rendered")
	t.Setenv("DEBUG", "true")
	t.Setenv("ARCHIVE_BUCKET", "from-env")
	t.Setenv("SERVER_PORT", "3000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Extraction.Mode != "rendered" {
		t.Errorf("Env mode should win, got %s", cfg.Extraction.Mode)
	}
	if !cfg.Extraction.Debug {
		t.Error("Expected debug from env")
	}
	if cfg.Archive.Bucket != "from-env" {
		t.Errorf("Expected bucket from env, got %s", cfg.Archive.Bucket)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Expected port 3000, got %d", cfg.Server.Port)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		env      map[string]string
		contains string
	}{
		{name: "unknown mode", file: "extraction:\n  mode: guess\n", contains: "validate config"},
		{name: "bad log level", file: "log:\n  level: loud\n", contains: "validate config"},
		{name: "malformed yaml", file: "extraction: [", contains: "parse config"},
		{name: "bad debug flag", env: map[string]string{"DEBUG": "maybe"}, contains: "parse DEBUG"},
		{name: "bad port", env: map[string]string{"SERVER_PORT": "http"}, contains: "parse SERVER_PORT"},
		{name: "port out of range", file: "server:\n  port: 70000\n", contains: "validate config"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range test.env {
				t.Setenv(k, v)
			}

			path := ""
			if test.file != "" {
				path = writeConfig(t, test.file)
			}

			_, err := Load(path)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), test.contains) {
				t.Errorf("Expected error containing %q, got %v", test.contains, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("Expected read error, got %v", err)
	}
}
