// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Defaults.Format != "text" {
		t.Errorf("default format = %q, want text", cfg.Defaults.Format)
	}
	if cfg.Recognition.APIKeyEnv != "GRADESCAN_API_KEY" {
		t.Errorf("api key env = %q", cfg.Recognition.APIKeyEnv)
	}
	if cfg.Linker.Similarity != 0.82 || cfg.Linker.NameColumn != 1 {
		t.Errorf("linker defaults = %+v", cfg.Linker)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "gradescan.yaml")

	content := `
defaults:
  format: json
  language_hints: ar
recognition:
  endpoint: https://recognizer.example/analyze
  timeout_seconds: 10
linker:
  similarity: 0.85
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Defaults.Format != "json" {
		t.Errorf("format = %q, want json", cfg.Defaults.Format)
	}
	if cfg.Recognition.Endpoint != "https://recognizer.example/analyze" {
		t.Errorf("endpoint = %q", cfg.Recognition.Endpoint)
	}
	if cfg.Recognition.TimeoutSeconds != 10 {
		t.Errorf("timeout = %d, want 10", cfg.Recognition.TimeoutSeconds)
	}
	// Untouched keys keep their defaults.
	if cfg.Linker.ShortNameLength != 6 {
		t.Errorf("short name length = %d, want default 6", cfg.Linker.ShortNameLength)
	}
	if cfg.Statistics.MinSamples != 3 {
		t.Errorf("min samples = %d, want default 3", cfg.Statistics.MinSamples)
	}
}

func TestLoadConfigEmptyPathIsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") failed: %v", err)
	}
	if cfg.Defaults.DocumentType != "handwritten_table" {
		t.Errorf("document type = %q", cfg.Defaults.DocumentType)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bad.yaml")
	content := `
linker:
  similarity: 1.5
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(configPath); err == nil {
		t.Error("out-of-range similarity must fail validation")
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg := LoadConfigOrDefault("/nonexistent/gradescan.yaml")
	if cfg == nil || cfg.Defaults.Format != "text" {
		t.Errorf("expected defaults on missing file, got %+v", cfg)
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Statistics.ZScoreThreshold = -1
	if err := ValidateConfig(cfg); err == nil {
		t.Error("negative z-score threshold must fail")
	}

	cfg = DefaultConfig()
	cfg.Recognition.TimeoutSeconds = -5
	if err := ValidateConfig(cfg); err == nil {
		t.Error("negative timeout must fail")
	}
}
