// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// WindowsPlatform implements Platform interface for Windows systems
type WindowsPlatform struct{}

// GetConfigDir returns the Windows-appropriate configuration directory
func (w *WindowsPlatform) GetConfigDir() string {
	// Check for explicit override first
	if dir := os.Getenv("GRADESCAN_CONFIG_DIR"); dir != "" {
		return dir
	}

	// Try APPDATA first (recommended for Windows applications)
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "gradescan")
	}

	// Fallback to user profile directory
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return filepath.Join(userProfile, ".gradescan")
	}

	// Last resort fallback
	return ".gradescan"
}

// GetTempDir returns the Windows temporary directory
func (w *WindowsPlatform) GetTempDir() string {
	if temp := os.Getenv("TEMP"); temp != "" {
		return temp
	}
	if tmp := os.Getenv("TMP"); tmp != "" {
		return tmp
	}
	return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local", "Temp")
}

// NormalizePath normalizes a path for Windows
func (w *WindowsPlatform) NormalizePath(path string) string {
	// Convert forward slashes to backslashes
	normalized := filepath.Clean(path)

	// Handle UNC paths (\\server\share)
	if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
		normalized = "\\\\" + strings.TrimPrefix(normalized, "\\")
	}

	return normalized
}
