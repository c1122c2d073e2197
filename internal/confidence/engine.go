// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package confidence derives context-sensitive acceptance thresholds and
// processing-strategy recommendations from image quality, document type and
// caller-declared criticality, then validates extraction output against
// them. Thresholds are recomputed fresh per call; nothing is persisted.
package confidence

import (
	"fmt"
	"math"
	"strings"

	"gradescan/internal/normalize"
	"gradescan/internal/sheet"
)

// StrategyClass is the recommended processing approach for an invocation.
type StrategyClass string

const (
	ClassStandard     StrategyClass = "standard"
	ClassConservative StrategyClass = "conservative"
	ClassAggressive   StrategyClass = "aggressive"
	ClassMultiPass    StrategyClass = "multi_pass"
)

// Document types with distinct complexity profiles.
const (
	DocPrintedTable     = "printed_table"
	DocPrinted          = "printed"
	DocHandwrittenTable = "handwritten_table"
	DocHandwritten      = "handwritten"
	DocFreeform         = "freeform"
)

// QualityMetrics are the image-quality sub-scores, each in [0,1]. Noise and
// Skew measure the defect itself; the composite uses their inverses.
type QualityMetrics struct {
	Brightness float64
	Contrast   float64
	Sharpness  float64
	Noise      float64
	Skew       float64
	Resolution float64
}

// DefaultQuality is the neutral assumption used when no probe ran.
func DefaultQuality() QualityMetrics {
	return QualityMetrics{
		Brightness: 0.7,
		Contrast:   0.7,
		Sharpness:  0.7,
		Noise:      0.3,
		Skew:       0.1,
		Resolution: 0.7,
	}
}

// Context is the caller-supplied situation for one invocation.
type Context struct {
	DocumentType       string
	Quality            QualityMetrics
	ExpectedComplexity string // "low", "medium", "high"
	CriticalAccuracy   bool
	ExpectedCount      int     // 0 when unknown
	HistoricalAccuracy float64 // 0 when unknown
}

// Thresholds are the four checkpoint thresholds derived per invocation.
type Thresholds struct {
	Overall float64 `json:"overall"`
	Name    float64 `json:"name"`
	Score   float64 `json:"score"`
	Retry   float64 `json:"retry"`
}

// Validation is the engine's verdict on a final extraction result.
// Confidence failures travel as data, never as errors.
type Validation struct {
	IsValid       bool       `json:"is_valid"`
	Issues        []string   `json:"issues,omitempty"`
	RequiresRetry bool       `json:"requires_retry"`
	Thresholds    Thresholds `json:"thresholds"`
}

// Fixed composite weights, summing to 1.
var qualityWeights = struct {
	brightness, contrast, sharpness, noiseInv, skewInv, resolution float64
}{0.15, 0.15, 0.25, 0.15, 0.10, 0.20}

// Base checkpoint constants and per-checkpoint clamp ranges.
var (
	baseThresholds = Thresholds{Overall: 0.75, Name: 0.70, Score: 0.65, Retry: 0.60}

	clampRanges = map[string][2]float64{
		"overall": {0.30, 0.95},
		"name":    {0.30, 0.90},
		"score":   {0.25, 0.90},
		"retry":   {0.20, 0.80},
	}
)

// Engine derives thresholds and strategy recommendations. The zero value is
// usable; fields override the base constants.
type Engine struct {
	Base Thresholds
}

// NewEngine returns an engine using the standard base constants.
func NewEngine() *Engine {
	return &Engine{Base: baseThresholds}
}

// Assess computes the per-invocation thresholds and the recommended
// strategy class from the context's three factors.
func (e *Engine) Assess(ctx Context) (Thresholds, StrategyClass) {
	quality := e.qualityComposite(ctx.Quality)
	complexity := e.complexityFactor(ctx)
	reliability := e.reliabilityFactor(ctx)

	// The multiplier shrinks thresholds for degraded inputs: a blurry
	// handwritten sheet cannot be held to born-digital expectations.
	composite := 0.5*quality + 0.3*complexity + 0.2*reliability
	multiplier := 0.6 + 0.4*composite
	if ctx.CriticalAccuracy {
		multiplier += 0.15
	}

	base := e.base()
	th := Thresholds{
		Overall: clamp(base.Overall*multiplier, clampRanges["overall"]),
		Name:    clamp(base.Name*multiplier, clampRanges["name"]),
		Score:   clamp(base.Score*multiplier, clampRanges["score"]),
		Retry:   clamp(base.Retry*multiplier, clampRanges["retry"]),
	}

	return th, e.strategyClass(ctx, quality, complexity, composite)
}

func (e *Engine) strategyClass(ctx Context, quality, complexity, composite float64) StrategyClass {
	docType := strings.ToLower(ctx.DocumentType)
	handwrittenOrFreeform := docType == DocHandwritten || docType == DocHandwrittenTable || docType == DocFreeform

	switch {
	case composite < 0.5 || handwrittenOrFreeform || complexity < 0.75:
		return ClassMultiPass
	case ctx.CriticalAccuracy || quality < 0.4:
		return ClassConservative
	case composite > 0.8 && (docType == DocPrinted || docType == DocPrintedTable):
		return ClassAggressive
	default:
		return ClassStandard
	}
}

// Validate re-derives thresholds and checks the result against all four
// checkpoints. RequiresRetry is true only when confidence sits below the
// retry threshold and the recommended class is multi-pass.
func (e *Engine) Validate(result *sheet.ExtractionResult, ctx Context) Validation {
	th, class := e.Assess(ctx)
	v := Validation{IsValid: true, Thresholds: th}

	if result == nil || len(result.Records) == 0 {
		v.IsValid = false
		v.Issues = append(v.Issues, "no records extracted")
		v.RequiresRetry = class == ClassMultiPass
		return v
	}

	if result.Confidence < th.Overall {
		v.IsValid = false
		v.Issues = append(v.Issues, fmt.Sprintf(
			"overall confidence %.2f below threshold %.2f", result.Confidence, th.Overall))
	}

	if ctx.ExpectedCount > 0 {
		deviation := math.Abs(float64(len(result.Records)-ctx.ExpectedCount)) / float64(ctx.ExpectedCount)
		if deviation > 0.30 {
			v.IsValid = false
			v.Issues = append(v.Issues, fmt.Sprintf(
				"extracted %d records, expected about %d", len(result.Records), ctx.ExpectedCount))
		}
	}

	if nq := nameQuality(result); nq < th.Name {
		v.IsValid = false
		v.Issues = append(v.Issues, fmt.Sprintf(
			"name quality %.2f below threshold %.2f", nq, th.Name))
	}

	if sq := scoreQuality(result); sq < th.Score {
		v.IsValid = false
		v.Issues = append(v.Issues, fmt.Sprintf(
			"score quality %.2f below threshold %.2f", sq, th.Score))
	}

	v.RequiresRetry = result.Confidence < th.Retry && class == ClassMultiPass
	return v
}

// nameQuality is the mean name-likeness across records.
func nameQuality(result *sheet.ExtractionResult) float64 {
	if len(result.Records) == 0 {
		return 0
	}
	sum := 0.0
	for _, rec := range result.Records {
		sum += normalize.NameQuality(rec.Name)
	}
	return sum / float64(len(result.Records))
}

// scoreQuality combines in-range fraction, detected-kind coverage and
// per-record completeness.
func scoreQuality(result *sheet.ExtractionResult) float64 {
	kinds := result.KindsInOrder()
	if len(kinds) == 0 || len(result.Records) == 0 {
		return 0
	}

	inRange, total, filled := 0, 0, 0
	for _, rec := range result.Records {
		for _, kind := range kinds {
			if value, ok := rec.Score(kind); ok {
				total++
				filled++
				if value >= sheet.ScoreMin && value <= sheet.ScoreMax {
					inRange++
				}
			}
		}
	}
	if total == 0 {
		return 0
	}

	inRangeFrac := float64(inRange) / float64(total)
	coverage := float64(len(kinds)) / float64(len(sheet.KindOrder))
	completeness := float64(filled) / float64(len(result.Records)*len(kinds))
	return inRangeFrac * coverage * completeness
}

func (e *Engine) qualityComposite(q QualityMetrics) float64 {
	w := qualityWeights
	composite := w.brightness*clamp01(q.Brightness) +
		w.contrast*clamp01(q.Contrast) +
		w.sharpness*clamp01(q.Sharpness) +
		w.noiseInv*(1-clamp01(q.Noise)) +
		w.skewInv*(1-clamp01(q.Skew)) +
		w.resolution*clamp01(q.Resolution)
	return clamp01(composite)
}

// complexityFactor keys off document type and declared expected complexity:
// 1.0 means trivially structured, lower means harder.
func (e *Engine) complexityFactor(ctx Context) float64 {
	factor := 0.85
	switch strings.ToLower(ctx.DocumentType) {
	case DocPrintedTable:
		factor = 1.0
	case DocPrinted:
		factor = 0.95
	case DocHandwrittenTable:
		factor = 0.80
	case DocHandwritten:
		factor = 0.70
	case DocFreeform:
		factor = 0.60
	}
	switch strings.ToLower(ctx.ExpectedComplexity) {
	case "low":
		// no penalty
	case "medium":
		factor *= 0.90
	case "high":
		factor *= 0.75
	}
	return clamp01(factor)
}

// reliabilityFactor folds in any historical accuracy hint; criticality makes
// the engine more conservative elsewhere, not here.
func (e *Engine) reliabilityFactor(ctx Context) float64 {
	if ctx.HistoricalAccuracy > 0 {
		return clamp01(ctx.HistoricalAccuracy)
	}
	return 0.75
}

func (e *Engine) base() Thresholds {
	b := e.Base
	if b.Overall == 0 {
		b = baseThresholds
	}
	return b
}

func clamp(v float64, bounds [2]float64) float64 {
	return math.Min(bounds[1], math.Max(bounds[0], v))
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
