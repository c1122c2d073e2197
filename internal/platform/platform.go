// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"runtime"
)

// Platform defines the interface for platform-specific path operations
type Platform interface {
	GetConfigDir() string
	GetTempDir() string
	NormalizePath(path string) string
}

// GetPlatform returns the appropriate platform implementation for the current OS
func GetPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return &WindowsPlatform{}
	default:
		return &UnixPlatform{}
	}
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// IsUnix returns true if running on Unix-like systems (Linux, macOS, etc.)
func IsUnix() bool {
	return !IsWindows()
}
