// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package statistics flags and corrects statistically implausible score
// values using per-field distributions and domain-guided rewrite rules.
package statistics

import (
	"math"

	"gradescan/internal/sheet"
)

// Defaults, tunable through config. The z-score threshold and direction
// rules approximate observed recognition errors, not physical constants.
const (
	DefaultZScoreThreshold = 3.0
	DefaultMinSamples      = 3
)

// Validator rewrites or flags outlier values. It never removes a record.
type Validator struct {
	ZScoreThreshold float64
	MinSamples      int
}

// NewValidator returns a validator with the default tuning.
func NewValidator() *Validator {
	return &Validator{
		ZScoreThreshold: DefaultZScoreThreshold,
		MinSamples:      DefaultMinSamples,
	}
}

// Validate returns a corrected copy of the records. Fields with fewer than
// MinSamples present values are left untouched: insufficient evidence. For
// each outlier a deterministic directional correction is attempted; values
// with no applicable rule stay as-is but flagged uncertain for manual
// review rather than being discarded.
func (v *Validator) Validate(records []*sheet.PersonRecord) []*sheet.PersonRecord {
	out := cloneRecords(records)
	minSamples := v.MinSamples
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	threshold := v.ZScoreThreshold
	if threshold <= 0 {
		threshold = DefaultZScoreThreshold
	}

	for _, kind := range sheet.KindOrder {
		var values []float64
		for _, rec := range out {
			if value, ok := rec.Score(kind); ok {
				values = append(values, value)
			}
		}
		if len(values) < minSamples {
			continue
		}

		mean, stdDev := meanStdDev(values)
		if stdDev == 0 {
			continue
		}

		for _, rec := range out {
			value, ok := rec.Score(kind)
			if !ok {
				continue
			}
			z := math.Abs(value-mean) / stdDev
			if z <= threshold {
				continue
			}

			if corrected, ok := directionalCorrection(value, mean); ok {
				rec.SetScore(kind, corrected)
			}
			rec.MarkUncertain(kind)
		}
	}
	return out
}

// directionalCorrection proposes a rewrite guided by the anomaly's
// direction: a whole number far below the mean usually lost its decimal
// shift ("1.5" read as "1"); a value far above a small mean grew an extra
// digit ("150" for "15.0").
func directionalCorrection(value, mean float64) (float64, bool) {
	if value < mean && value == math.Trunc(value) {
		return math.Min(value*10, sheet.ScoreMax), true
	}
	if value > mean {
		reduced := value / 10
		if reduced >= sheet.ScoreMin && reduced <= sheet.ScoreMax {
			return math.Round(reduced*100) / 100, true
		}
	}
	return 0, false
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(values []float64) (float64, float64) {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func cloneRecords(records []*sheet.PersonRecord) []*sheet.PersonRecord {
	out := make([]*sheet.PersonRecord, len(records))
	for i, rec := range records {
		clone := &sheet.PersonRecord{
			SequenceNumber: rec.SequenceNumber,
			Name:           rec.Name,
			Scores:         make(map[sheet.ScoreKind]*float64, len(rec.Scores)),
			Uncertain:      make(map[string]bool, len(rec.Uncertain)),
		}
		for kind, value := range rec.Scores {
			if value != nil {
				v := *value
				clone.Scores[kind] = &v
			} else {
				clone.Scores[kind] = nil
			}
		}
		for field, flagged := range rec.Uncertain {
			clone.Uncertain[field] = flagged
		}
		out[i] = clone
	}
	return out
}
