// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package quality estimates image-quality signals from a score-sheet
// photograph. The scores feed the adaptive confidence engine; they rank
// inputs relative to each other and make no claim to photometric accuracy.
package quality

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"gradescan/internal/confidence"
)

// Pixel sampling cap: larger images are probed on a grid rather than
// exhaustively.
const maxSamplesPerAxis = 512

// Probe computes quality metrics for an image file. Missing EXIF data is
// normal for scans and screenshots and degrades gracefully to defaults.
func Probe(filePath string) (confidence.QualityMetrics, error) {
	metrics := confidence.DefaultQuality()

	img, err := imaging.Open(filePath)
	if err != nil {
		return metrics, fmt.Errorf("opening image: %w", err)
	}
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 3 || height < 3 {
		return metrics, fmt.Errorf("image too small to probe: %dx%d", width, height)
	}

	stepX := maxInt(1, width/maxSamplesPerAxis)
	stepY := maxInt(1, height/maxSamplesPerAxis)

	lum := func(x, y int) float64 {
		i := gray.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
		return float64(gray.Pix[i]) / 255
	}

	// First pass: luminance mean and standard deviation.
	sum, count := 0.0, 0
	for y := 0; y < height; y += stepY {
		for x := 0; x < width; x += stepX {
			sum += lum(x, y)
			count++
		}
	}
	mean := sum / float64(count)

	variance := 0.0
	for y := 0; y < height; y += stepY {
		for x := 0; x < width; x += stepX {
			d := lum(x, y) - mean
			variance += d * d
		}
	}
	stdDev := math.Sqrt(variance / float64(count))

	// Second pass: Laplacian response for sharpness, and the fraction of
	// extreme isolated responses as a noise proxy.
	lapSum, lapCount, spikes := 0.0, 0, 0
	for y := stepY; y < height-stepY; y += stepY {
		for x := stepX; x < width-stepX; x += stepX {
			lap := math.Abs(4*lum(x, y) - lum(x-stepX, y) - lum(x+stepX, y) - lum(x, y-stepY) - lum(x, y+stepY))
			lapSum += lap
			lapCount++
			if lap > 1.2 {
				spikes++
			}
		}
	}

	// Mid-exposure scores best; clipped-dark and blown-out images score low.
	metrics.Brightness = clamp01(1 - math.Abs(mean-0.55)/0.55)
	// Document photos with usable contrast sit around 0.2+ luminance spread.
	metrics.Contrast = clamp01(stdDev / 0.25)
	if lapCount > 0 {
		metrics.Sharpness = clamp01((lapSum / float64(lapCount)) / 0.12)
		metrics.Noise = clamp01(float64(spikes) / float64(lapCount) / 0.05)
	}
	metrics.Resolution = clamp01(float64(minInt(width, height)) / 1600)
	metrics.Skew = skewHint(filePath)

	return metrics, nil
}

// skewHint reads the EXIF orientation tag: a camera held at an angle
// produces rotated captures, a weak but cheap signal that deskew is needed.
// Files without EXIF report a small residual skew.
func skewHint(filePath string) float64 {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".tiff" && ext != ".tif" {
		return 0.1
	}
	f, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return 0.1
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return 0.1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0.1
	}
	orientation, err := strconv.Atoi(strings.TrimSpace(tag.String()))
	if err != nil || orientation == 1 {
		return 0.05
	}
	return 0.4
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
