// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gradescan/internal/paths"
)

// Config represents the application configuration. Every tuning constant of
// the pipeline is exposed here so thresholds can be adjusted empirically
// without a rebuild.
type Config struct {
	// Default settings
	Defaults struct {
		Format        string `yaml:"format"`
		DocumentType  string `yaml:"document_type"`
		Verbose       bool   `yaml:"verbose"`
		Debug         bool   `yaml:"debug"`
		NoColor       bool   `yaml:"no_color"`
		LanguageHints string `yaml:"language_hints"`
	} `yaml:"defaults"`

	// Recognition service settings
	Recognition struct {
		Endpoint       string `yaml:"endpoint"`
		APIKeyEnv      string `yaml:"api_key_env"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"recognition"`

	// Layout reconstruction tuning
	Layout struct {
		RowTolerance   float64 `yaml:"row_tolerance"`
		HeaderScanRows int     `yaml:"header_scan_rows"`
	} `yaml:"layout"`

	// Statistical correction tuning
	Statistics struct {
		ZScoreThreshold float64 `yaml:"z_score_threshold"`
		MinSamples      int     `yaml:"min_samples"`
	} `yaml:"statistics"`

	// Record linkage tuning
	Linker struct {
		Similarity          float64 `yaml:"similarity"`
		RelaxedSimilarity   float64 `yaml:"relaxed_similarity"`
		ShortNameSimilarity float64 `yaml:"short_name_similarity"`
		ShortNameLength     int     `yaml:"short_name_length"`
		NameColumn          int     `yaml:"name_column"`
	} `yaml:"linker"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	config := &Config{}
	config.Defaults.Format = "text"
	config.Defaults.DocumentType = "handwritten_table"
	config.Defaults.LanguageHints = "ar,fr"
	config.Recognition.APIKeyEnv = "GRADESCAN_API_KEY"
	config.Recognition.TimeoutSeconds = 30
	config.Layout.RowTolerance = 20
	config.Layout.HeaderScanRows = 12
	config.Statistics.ZScoreThreshold = 3
	config.Statistics.MinSamples = 3
	config.Linker.Similarity = 0.82
	config.Linker.RelaxedSimilarity = 0.78
	config.Linker.ShortNameSimilarity = 0.90
	config.Linker.ShortNameLength = 6
	config.Linker.NameColumn = 1
	return config
}

// LoadConfig loads configuration from a YAML file, starting from the
// defaults. An empty path returns the defaults without touching disk.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches
// standard locations when empty), falling back to defaults on any error.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}
	config, err := LoadConfig(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return config
}

// FindConfigFile looks for a configuration file in standard locations.
func FindConfigFile() string {
	candidates := []string{
		"gradescan.yaml",
		"gradescan.yml",
		".gradescan.yaml",
		".gradescan.yml",
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate
		}
	}
	if candidate := paths.GetConfigFile(); fileExists(candidate) {
		return candidate
	}
	return ""
}

// ValidateConfig checks threshold sanity.
func ValidateConfig(config *Config) error {
	if config.Layout.RowTolerance < 0 {
		return fmt.Errorf("layout.row_tolerance must be non-negative")
	}
	if config.Statistics.ZScoreThreshold < 0 {
		return fmt.Errorf("statistics.z_score_threshold must be non-negative")
	}
	for name, v := range map[string]float64{
		"linker.similarity":            config.Linker.Similarity,
		"linker.relaxed_similarity":    config.Linker.RelaxedSimilarity,
		"linker.short_name_similarity": config.Linker.ShortNameSimilarity,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	if config.Recognition.TimeoutSeconds < 0 {
		return fmt.Errorf("recognition.timeout_seconds must be non-negative")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
