// Package config loads studio settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/fpang/studio-lens/internal/gemini"
)

// Defaults.
const (
	DefaultPlanModel             = gemini.DefaultPlanModel
	DefaultImageModel            = gemini.DefaultImageModel
	DefaultAspectRatio           = gemini.DefaultAspectRatio
	DefaultMaxReferenceDimension = 1536
	DefaultPort                  = 8080
)

// Config holds every tunable the binaries share.
type Config struct {
	PlanModel             string   `yaml:"plan_model"`
	ImageModel            string   `yaml:"image_model"`
	AspectRatio           string   `yaml:"aspect_ratio"`
	ImageSize             string   `yaml:"image_size"`
	MaxReferenceDimension int      `yaml:"max_reference_dimension"`
	Port                  int      `yaml:"port"`
	AllowedOrigins        []string `yaml:"allowed_origins"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		PlanModel:             DefaultPlanModel,
		ImageModel:            DefaultImageModel,
		AspectRatio:           DefaultAspectRatio,
		MaxReferenceDimension: DefaultMaxReferenceDimension,
		Port:                  DefaultPort,
	}
}

// Load reads the YAML file at path (if path is non-empty), fills unset fields
// with defaults and then applies environment overrides:
//
//	GEMINI_MODEL        plan model
//	STUDIO_IMAGE_MODEL  image model
//	STUDIO_PORT         web server port
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.merge(&fileCfg)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.PlanModel != "" {
		c.PlanModel = o.PlanModel
	}
	if o.ImageModel != "" {
		c.ImageModel = o.ImageModel
	}
	if o.AspectRatio != "" {
		c.AspectRatio = o.AspectRatio
	}
	if o.ImageSize != "" {
		c.ImageSize = o.ImageSize
	}
	if o.MaxReferenceDimension > 0 {
		c.MaxReferenceDimension = o.MaxReferenceDimension
	}
	if o.Port > 0 {
		c.Port = o.Port
	}
	if len(o.AllowedOrigins) > 0 {
		c.AllowedOrigins = o.AllowedOrigins
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.PlanModel = v
	}
	if v := os.Getenv("STUDIO_IMAGE_MODEL"); v != "" {
		c.ImageModel = v
	}
	if v := os.Getenv("STUDIO_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid STUDIO_PORT %q", v)
		}
		c.Port = port
	}
	return nil
}
