// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extraction turns recognized text into per-person score records
// through a set of interchangeable strategies arbitrated by confidence.
package extraction

import (
	"gradescan/internal/layout"
	"gradescan/internal/recognition"
	"gradescan/internal/sheet"
)

// Source is the shared input every strategy extracts from. Layout is nil
// when geometric reconstruction failed; geometry-free strategies ignore it.
type Source struct {
	Layout    *layout.Table
	Fragments []recognition.TextFragment
	FullText  string
}

// Strategy is one extraction approach. Priority breaks confidence ties:
// higher priority wins at equal confidence.
type Strategy interface {
	Name() string
	Priority() int
	Extract(src *Source) (*sheet.ExtractionResult, error)
}

// Fixed confidence constants for the geometry-free strategies. Line-by-line
// extraction carries structural uncertainty the table strategy does not;
// aggressive pairing is a last resort and scores accordingly.
const (
	LineConfidence       = 0.70
	AggressiveConfidence = 0.50
)
