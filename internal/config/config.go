package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a billaudit run.
type Config struct {
	DSN          string
	FilePath     string
	HospitalName string
	HospitalCity string
	Pages        string // page spec: "all", "2", or "1,3-5"
	Flavor       string // "lattice" or "stream"
	LogFormat    string // "text" or "json"
	KeepStaging  bool
	DryRun       bool
	OCRLanguages []string `yaml:"ocr_languages"` // Tesseract language codes
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	OCRLanguages []string `yaml:"ocr_languages"`
	Pages        string   `yaml:"pages"`
	Flavor       string   `yaml:"flavor"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if len(yc.OCRLanguages) > 0 {
		c.OCRLanguages = yc.OCRLanguages
	}
	if yc.Pages != "" {
		c.Pages = yc.Pages
	}
	if yc.Flavor != "" {
		c.Flavor = yc.Flavor
	}
	return c.applyDefaults()
}

// applyDefaults fills unset fields and rejects unknown enum values.
func (c *Config) applyDefaults() error {
	if len(c.OCRLanguages) == 0 {
		c.OCRLanguages = []string{"eng"}
	}
	if c.Pages == "" {
		c.Pages = "all"
	}
	if c.Flavor == "" {
		c.Flavor = "lattice"
	}
	if c.Flavor != "lattice" && c.Flavor != "stream" {
		return fmt.Errorf("unknown flavor %q, want lattice or stream", c.Flavor)
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return c.applyDefaults()
}

// ValidateWithDSN checks both file and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}
