// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognition

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Born-digital PDFs carry an exact text layer, so fragments synthesized from
// it get a flat near-certain confidence.
const pdfLayerConfidence = 0.99

// pageSpacing separates pages in the synthesized vertical coordinate space
// so later pages always sort strictly below earlier ones.
const pageSpacing = 10000.0

// FragmentsFromPDF synthesizes text fragments from a PDF's text layer,
// bypassing the remote recognition service for born-digital documents. The
// returned result is empty (not an error) when the PDF has no text layer.
func FragmentsFromPDF(filePath string) (*Result, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	result := &Result{}
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}
		content := p.Content()
		frags := fragmentsFromPage(content.Text, float64(pageNum-1)*pageSpacing)
		result.Fragments = append(result.Fragments, frags...)
	}

	result.FullText = result.BuildFullText(5)
	return result, nil
}

// fragmentsFromPage groups per-glyph text items into word fragments. PDF
// coordinates grow upward, so vertical positions are flipped into the
// top-down space the layout reconstructor expects.
func fragmentsFromPage(items []pdf.Text, yOffset float64) []TextFragment {
	if len(items) == 0 {
		return nil
	}

	maxY := items[0].Y
	for _, it := range items[1:] {
		if it.Y > maxY {
			maxY = it.Y
		}
	}

	sorted := make([]pdf.Text, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y-sorted[j].Y) > 2 {
			return sorted[i].Y > sorted[j].Y // higher on page first
		}
		return sorted[i].X < sorted[j].X
	})

	var frags []TextFragment
	var word strings.Builder
	var wordStart, wordEnd, wordY, wordSize float64

	flush := func() {
		text := strings.TrimSpace(word.String())
		if text != "" {
			top := yOffset + maxY - wordY
			height := wordSize
			if height <= 0 {
				height = 10
			}
			frags = append(frags, TextFragment{
				Text: text,
				Polygon: [4]Point{
					{X: wordStart, Y: top},
					{X: wordEnd, Y: top},
					{X: wordEnd, Y: top + height},
					{X: wordStart, Y: top + height},
				},
				Confidence: pdfLayerConfidence,
			})
		}
		word.Reset()
	}

	for _, it := range sorted {
		if it.S == "" {
			continue
		}
		gap := it.X - wordEnd
		sameLine := math.Abs(it.Y-wordY) <= 2
		maxGap := it.FontSize * 0.35
		if maxGap <= 0 {
			maxGap = 2
		}
		if word.Len() == 0 || !sameLine || gap > maxGap {
			flush()
			wordStart = it.X
			wordY = it.Y
			wordSize = it.FontSize
		}
		word.WriteString(it.S)
		wordEnd = it.X + it.W
	}
	flush()

	return frags
}
