// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognition

import (
	"sort"
	"strings"
)

// Point is one corner of a fragment's bounding polygon, in pixel-equivalents.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextFragment is a single recognized text span with its bounding geometry
// and the provider's confidence for it. Fragments are immutable once built.
type TextFragment struct {
	Text       string   `json:"text"`
	Polygon    [4]Point `json:"polygon"`
	Confidence float64  `json:"confidence"`
}

// Top returns the topmost vertical coordinate of the fragment.
func (f *TextFragment) Top() float64 {
	top := f.Polygon[0].Y
	for _, p := range f.Polygon[1:] {
		if p.Y < top {
			top = p.Y
		}
	}
	return top
}

// Bottom returns the bottommost vertical coordinate of the fragment.
func (f *TextFragment) Bottom() float64 {
	bottom := f.Polygon[0].Y
	for _, p := range f.Polygon[1:] {
		if p.Y > bottom {
			bottom = p.Y
		}
	}
	return bottom
}

// Left returns the leftmost horizontal coordinate of the fragment.
func (f *TextFragment) Left() float64 {
	left := f.Polygon[0].X
	for _, p := range f.Polygon[1:] {
		if p.X < left {
			left = p.X
		}
	}
	return left
}

// Right returns the rightmost horizontal coordinate of the fragment.
func (f *TextFragment) Right() float64 {
	right := f.Polygon[0].X
	for _, p := range f.Polygon[1:] {
		if p.X > right {
			right = p.X
		}
	}
	return right
}

// CenterX returns the horizontal center of the fragment.
func (f *TextFragment) CenterX() float64 {
	return (f.Left() + f.Right()) / 2
}

// CenterY returns the vertical center of the fragment.
func (f *TextFragment) CenterY() float64 {
	return (f.Top() + f.Bottom()) / 2
}

// Result is the validated shape every recognition source produces. FullText
// carries the provider's plain-text rendering when available; BuildFullText
// synthesizes one from fragment geometry otherwise.
type Result struct {
	Fragments []TextFragment `json:"fragments"`
	FullText  string         `json:"full_text"`
}

// BuildFullText reconstructs a line-per-row plain text from fragment
// geometry. Fragments whose vertical centers fall within tolerance share a
// line; within a line fragments are ordered left to right.
func (r *Result) BuildFullText(rowTolerance float64) string {
	if len(r.Fragments) == 0 {
		return ""
	}
	frags := make([]TextFragment, len(r.Fragments))
	copy(frags, r.Fragments)
	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].Top() < frags[j].Top()
	})

	var lines [][]TextFragment
	anchor := frags[0].Top()
	current := []TextFragment{frags[0]}
	for _, f := range frags[1:] {
		if f.Top()-anchor <= rowTolerance {
			current = append(current, f)
			continue
		}
		lines = append(lines, current)
		current = []TextFragment{f}
		anchor = f.Top()
	}
	lines = append(lines, current)

	var sb strings.Builder
	for i, line := range lines {
		sort.SliceStable(line, func(a, b int) bool {
			return line[a].CenterX() < line[b].CenterX()
		})
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, f := range line {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(f.Text)
		}
	}
	return sb.String()
}

// MeanConfidence returns the mean fragment confidence, or zero for an empty
// result.
func (r *Result) MeanConfidence() float64 {
	if len(r.Fragments) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range r.Fragments {
		sum += f.Confidence
	}
	return sum / float64(len(r.Fragments))
}
