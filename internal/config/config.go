package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable holding an optional YAML config path
const PathEnv = "SCORE_TOTAL_CONFIG"

// Config is the full runtime configuration for every entrypoint
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Log        LogConfig        `yaml:"log"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Server     ServerConfig     `yaml:"server"`
}

// ExtractionConfig selects how the amount raised is found
type ExtractionConfig struct {
	Mode              string        `yaml:"mode" default:"scored" validate:"oneof=largest scored rendered"`
	TargetURL         string        `yaml:"target_url" default:"https://fundraisemyway.cancer.ca/campaigns/scoreforcancer" validate:"required,url"`
	Campaign          string        `yaml:"campaign" default:"Score For Cancer" validate:"required"`
	Debug             bool          `yaml:"debug"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" default:"60s" validate:"gt=0"`
	SettleDelay       time.Duration `yaml:"settle_delay" default:"2500ms" validate:"gte=0"`
	ChromePath        string        `yaml:"chrome_path"`
	Sandbox           bool          `yaml:"sandbox"` // off by default; Lambda cannot run the Chrome sandbox
}

// LogConfig controls the zerolog logger
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
}

// ArchiveConfig enables S3 snapshots of pages that fail extraction
type ArchiveConfig struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
	Prefix string `yaml:"prefix" default:"snapshots"`
}

// ServerConfig is used by the local HTTP server only
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

var validate = validator.New()

// Load reads the YAML file at path (skipped when path is empty), fills defaults,
// applies environment overrides and validates the result
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadFromEnv loads the file named by SCORE_TOTAL_CONFIG, if any
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(PathEnv))
}

// Validate checks the struct tags
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("EXTRACTION_MODE"); ok && v != "" {
		c.Extraction.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup("TARGET_URL"); ok && v != "" {
		c.Extraction.TargetURL = v
	}
	if v, ok := lookup("CHROME_PATH"); ok && v != "" {
		c.Extraction.ChromePath = v
	}
	if v, ok := lookup("DEBUG"); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse DEBUG: %w", err)
		}
		c.Extraction.Debug = debug
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("LOG_FORMAT"); ok && v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := lookup("ARCHIVE_BUCKET"); ok {
		c.Archive.Bucket = v
	}
	if v, ok := lookup("ARCHIVE_REGION"); ok && v != "" {
		c.Archive.Region = v
	}
	if v, ok := lookup("SERVER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}
