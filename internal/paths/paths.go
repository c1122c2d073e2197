// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"

	"gradescan/internal/platform"
)

// GetConfigDir returns the gradescan configuration directory.
// Uses platform-specific logic for Windows APPDATA directories and Unix home directories.
func GetConfigDir() string {
	// Check for explicit override first (works on all platforms)
	if dir := os.Getenv("GRADESCAN_CONFIG_DIR"); dir != "" {
		return dir
	}

	p := platform.GetPlatform()
	return p.GetConfigDir()
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// GetTempDir returns the platform-appropriate temporary directory
func GetTempDir() string {
	p := platform.GetPlatform()
	return p.GetTempDir()
}

// NormalizePath normalizes a file path for the current platform
func NormalizePath(path string) string {
	p := platform.GetPlatform()
	return p.NormalizePath(path)
}

// ResolvePath resolves a path to its absolute form
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	normalized := NormalizePath(path)
	return filepath.Abs(normalized)
}

// ValidatePath validates a path for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return nil // Empty path is valid
	}

	if platform.IsWindows() {
		return validateWindowsPath(path)
	}

	return validateUnixPath(path)
}

func validateWindowsPath(path string) error {
	// Windows reserved characters: < > : " | ? *
	invalidChars := []rune{'<', '>', ':', '"', '|', '?', '*'}
	for i, char := range path {
		for _, invalid := range invalidChars {
			if char == invalid {
				// Skip colon if it's part of a drive letter (position 1: C:)
				if char == ':' && i == 1 && len(path) >= 2 {
					continue
				}
				return &PathValidationError{
					Path:   path,
					Reason: "contains invalid character: " + string(char),
				}
			}
		}
	}

	if len(path) > 32767 {
		return &PathValidationError{
			Path:   path,
			Reason: "path exceeds maximum length of 32,767 characters",
		}
	}

	return nil
}

func validateUnixPath(path string) error {
	// Unix paths are generally more permissive; the main restriction is null bytes
	for _, char := range path {
		if char == 0 {
			return &PathValidationError{
				Path:   path,
				Reason: "contains null byte",
			}
		}
	}

	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}
