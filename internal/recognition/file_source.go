// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognition

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSource replays a captured provider payload from disk. It backs the CLI
// test harness and lets tests substitute the remote service without network
// access.
type FileSource struct {
	Path string
}

// NewFileSource builds a source over a captured payload file.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Recognize implements Client. The image bytes and language hints are
// ignored; the stored payload is decoded and validated exactly like a live
// provider response.
func (s *FileSource) Recognize(_ context.Context, _ []byte, _ []string) (*Result, error) {
	if strings.Contains(s.Path, "..") {
		return nil, fmt.Errorf("path traversal not allowed in payload path")
	}
	data, err := os.ReadFile(filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("%w: reading captured payload: %v", ErrServiceUnavailable, err)
	}
	return DecodePayload(data)
}

// Unconfigured is a Client placeholder for invocations expected to be served
// without the remote service, such as born-digital PDFs read through their
// text layer. It fails with a configuration error if recognition turns out
// to be needed after all.
type Unconfigured struct{}

// NewUnconfigured builds the placeholder client.
func NewUnconfigured() Unconfigured { return Unconfigured{} }

// Recognize implements Client.
func (Unconfigured) Recognize(_ context.Context, _ []byte, _ []string) (*Result, error) {
	return nil, fmt.Errorf("%w: no recognition endpoint configured and the document carries no text layer", ErrServiceUnavailable)
}
