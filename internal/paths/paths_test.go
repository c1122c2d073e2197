// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestConfigDirEnvOverride(t *testing.T) {
	t.Setenv("GRADESCAN_CONFIG_DIR", "/tmp/gradescan-test-config")

	if got := GetConfigDir(); got != "/tmp/gradescan-test-config" {
		t.Errorf("expected env override, got %q", got)
	}
	want := filepath.Join("/tmp/gradescan-test-config", "config.yaml")
	if got := GetConfigFile(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestConfigDirDefault(t *testing.T) {
	t.Setenv("GRADESCAN_CONFIG_DIR", "")

	dir := GetConfigDir()
	if dir == "" {
		t.Fatal("expected a non-empty config dir")
	}
	if !strings.Contains(dir, "gradescan") {
		t.Errorf("expected config dir to mention gradescan, got %q", dir)
	}
}

func TestValidatePath(t *testing.T) {
	if err := ValidatePath(""); err != nil {
		t.Errorf("empty path should be valid: %v", err)
	}
	if err := ValidatePath("/some/ordinary/path.yaml"); err != nil {
		t.Errorf("ordinary path should be valid: %v", err)
	}
	if runtime.GOOS != "windows" {
		if err := ValidatePath("bad\x00path"); err == nil {
			t.Error("expected error for path with null byte")
		}
	}
}

func TestResolvePath(t *testing.T) {
	abs, err := ResolvePath("relative/file.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(abs) {
		t.Errorf("expected absolute path, got %q", abs)
	}

	empty, err := ResolvePath("")
	if err != nil || empty != "" {
		t.Errorf("empty input should resolve to empty, got %q, %v", empty, err)
	}
}
