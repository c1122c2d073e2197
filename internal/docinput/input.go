// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package docinput resolves a submitted document into material the
// recognition pipeline can consume: images pass through, PDFs are validated
// and either read through their text layer or rendered to page images.
package docinput

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrUnusableInput marks an input file that cannot be processed at all:
// missing, unreadable, of an unsupported type, or structurally corrupt. It
// is fatal for the invocation, like a service failure.
var ErrUnusableInput = errors.New("unusable input")

// Kind classifies a resolved input.
type Kind int

const (
	KindImage Kind = iota
	KindPDF
)

// Document is a resolved input file.
type Document struct {
	Path string
	Kind Kind
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".tiff": true, ".tif": true, ".bmp": true, ".gif": true,
}

// Resolve checks the input file exists and classifies it. PDFs are validated
// with pdfcpu up front so corrupt files fail before any network call.
func Resolve(path string) (*Document, error) {
	if strings.Contains(path, "..") {
		return nil, fmt.Errorf("%w: path traversal not allowed in input path", ErrUnusableInput)
	}
	clean := filepath.Clean(path)
	if _, err := os.Stat(clean); err != nil {
		return nil, fmt.Errorf("%w: input file not accessible: %v", ErrUnusableInput, err)
	}

	ext := strings.ToLower(filepath.Ext(clean))
	switch {
	case ext == ".pdf":
		if err := api.ValidateFile(clean, model.NewDefaultConfiguration()); err != nil {
			return nil, fmt.Errorf("%w: invalid PDF file: %v", ErrUnusableInput, err)
		}
		return &Document{Path: clean, Kind: KindPDF}, nil
	case imageExtensions[ext]:
		return &Document{Path: clean, Kind: KindImage}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported input type %q", ErrUnusableInput, ext)
	}
}

// ExtractPageImages renders a PDF's embedded page images into outDir and
// returns their paths in page order. Scanned score sheets are single large
// images per page, which is exactly what the recognition service wants. An
// empty list means the PDF carries no raster content (born-digital); the
// caller should use the text layer instead.
func ExtractPageImages(pdfPath, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating extraction dir: %w", err)
	}
	if err := api.ExtractImagesFile(pdfPath, outDir, nil, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("extracting PDF images: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("listing extracted images: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(outDir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
