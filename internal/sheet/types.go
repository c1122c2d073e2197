// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sheet

// ScoreKind identifies one of the numeric fields a score sheet may carry.
type ScoreKind string

const (
	KindExam1      ScoreKind = "exam1"
	KindExam2      ScoreKind = "exam2"
	KindExam3      ScoreKind = "exam3"
	KindActivities ScoreKind = "activities"
)

// KindOrder is the declared positional order of score kinds. Strategies that
// assign scores positionally always follow this order.
var KindOrder = []ScoreKind{KindExam1, KindExam2, KindExam3, KindActivities}

// Score domain bounds. Values outside this closed range are rejected, never
// clamped.
const (
	ScoreMin = 0.0
	ScoreMax = 20.0
)

// FieldType classifies a detected table column.
type FieldType int

const (
	FieldUnknown FieldType = iota
	FieldName
	FieldSequence
	FieldScore
)

func (f FieldType) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldSequence:
		return "sequence"
	case FieldScore:
		return "score"
	default:
		return "unknown"
	}
}

// PersonRecord is one extracted per-person row. Scores holds a pointer per
// kind so a missing value is distinguishable from zero. Uncertain marks
// fields that need manual review; the key "name" flags the name itself.
type PersonRecord struct {
	SequenceNumber int                    `json:"sequence_number"`
	Name           string                 `json:"name"`
	Scores         map[ScoreKind]*float64 `json:"scores"`
	Uncertain      map[string]bool        `json:"uncertain,omitempty"`
}

// NewPersonRecord returns a record with initialized maps.
func NewPersonRecord(name string) *PersonRecord {
	return &PersonRecord{
		Name:      name,
		Scores:    make(map[ScoreKind]*float64),
		Uncertain: make(map[string]bool),
	}
}

// SetScore stores a value for a kind.
func (r *PersonRecord) SetScore(kind ScoreKind, value float64) {
	v := value
	r.Scores[kind] = &v
}

// Score returns the value for a kind and whether it is present.
func (r *PersonRecord) Score(kind ScoreKind) (float64, bool) {
	if v, ok := r.Scores[kind]; ok && v != nil {
		return *v, true
	}
	return 0, false
}

// MarkUncertain flags a score field for manual review.
func (r *PersonRecord) MarkUncertain(kind ScoreKind) {
	if r.Uncertain == nil {
		r.Uncertain = make(map[string]bool)
	}
	r.Uncertain[string(kind)] = true
}

// Merge copies the first non-nil value per field from other into r. Used when
// de-duplication judges two records to be the same person.
func (r *PersonRecord) Merge(other *PersonRecord) {
	if r.SequenceNumber == 0 {
		r.SequenceNumber = other.SequenceNumber
	}
	for kind, v := range other.Scores {
		if v == nil {
			continue
		}
		if existing, ok := r.Scores[kind]; !ok || existing == nil {
			r.Scores[kind] = v
		}
	}
	for field, flagged := range other.Uncertain {
		if flagged {
			if r.Uncertain == nil {
				r.Uncertain = make(map[string]bool)
			}
			r.Uncertain[field] = true
		}
	}
}

// ExtractionResult is the outcome of one strategy attempt.
type ExtractionResult struct {
	Records       []*PersonRecord    `json:"records"`
	DetectedKinds map[ScoreKind]bool `json:"detected_kinds"`
	Confidence    float64            `json:"confidence"`
	Warnings      []string           `json:"warnings,omitempty"`
	Strategy      string             `json:"strategy"`
}

// NewExtractionResult returns an empty result for the named strategy.
func NewExtractionResult(strategy string) *ExtractionResult {
	return &ExtractionResult{
		DetectedKinds: make(map[ScoreKind]bool),
		Strategy:      strategy,
	}
}

// Normalize enforces the result invariants: a result with no records reports
// zero confidence, and every kind carried by a record appears in
// DetectedKinds.
func (er *ExtractionResult) Normalize() {
	if len(er.Records) == 0 {
		er.Confidence = 0
	}
	if er.Confidence > 1 {
		er.Confidence = 1
	}
	if er.Confidence < 0 {
		er.Confidence = 0
	}
	if er.DetectedKinds == nil {
		er.DetectedKinds = make(map[ScoreKind]bool)
	}
	for _, rec := range er.Records {
		for kind, v := range rec.Scores {
			if v != nil {
				er.DetectedKinds[kind] = true
			}
		}
	}
}

// KindsInOrder returns the detected kinds in declared order.
func (er *ExtractionResult) KindsInOrder() []ScoreKind {
	var kinds []ScoreKind
	for _, kind := range KindOrder {
		if er.DetectedKinds[kind] {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
