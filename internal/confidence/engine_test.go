// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package confidence

import (
	"testing"

	"gradescan/internal/sheet"
)

func degradedQuality() QualityMetrics {
	return QualityMetrics{
		Brightness: 0.3,
		Contrast:   0.3,
		Sharpness:  0.3,
		Noise:      0.7,
		Skew:       0.7,
		Resolution: 0.3,
	}
}

func pristineQuality() QualityMetrics {
	return QualityMetrics{
		Brightness: 0.95,
		Contrast:   0.95,
		Sharpness:  0.95,
		Noise:      0.05,
		Skew:       0.05,
		Resolution: 0.95,
	}
}

func TestAssessDegradedHandwrittenLowersThresholds(t *testing.T) {
	engine := NewEngine()
	th, class := engine.Assess(Context{
		DocumentType: DocHandwritten,
		Quality:      degradedQuality(),
	})

	if class != ClassMultiPass {
		t.Errorf("strategy class = %q, want %q", class, ClassMultiPass)
	}
	base := baseThresholds
	if th.Overall >= base.Overall || th.Name >= base.Name || th.Score >= base.Score || th.Retry >= base.Retry {
		t.Errorf("degraded input should lower every threshold below base: %+v vs %+v", th, base)
	}
	// Clamps keep thresholds meaningful even for terrible inputs.
	if th.Overall < 0.30 || th.Retry < 0.20 {
		t.Errorf("thresholds fell below clamp floor: %+v", th)
	}
}

func TestAssessCriticalRaisesThresholds(t *testing.T) {
	engine := NewEngine()
	ctx := Context{DocumentType: DocPrintedTable, Quality: DefaultQuality()}

	normal, _ := engine.Assess(ctx)
	ctx.CriticalAccuracy = true
	critical, class := engine.Assess(ctx)

	if critical.Overall <= normal.Overall {
		t.Errorf("critical accuracy should raise the overall threshold: %v <= %v", critical.Overall, normal.Overall)
	}
	if class != ClassConservative {
		t.Errorf("critical context class = %q, want %q", class, ClassConservative)
	}
}

func TestAssessStrategyClasses(t *testing.T) {
	engine := NewEngine()
	tests := []struct {
		name string
		ctx  Context
		want StrategyClass
	}{
		{"clean printed table", Context{DocumentType: DocPrintedTable, Quality: pristineQuality()}, ClassAggressive},
		{"freeform always multi pass", Context{DocumentType: DocFreeform, Quality: pristineQuality()}, ClassMultiPass},
		{"handwritten table multi pass", Context{DocumentType: DocHandwrittenTable, Quality: DefaultQuality()}, ClassMultiPass},
		{"unknown type default quality", Context{DocumentType: "", Quality: DefaultQuality()}, ClassStandard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, class := engine.Assess(tt.ctx); class != tt.want {
				t.Errorf("class = %q, want %q", class, tt.want)
			}
		})
	}
}

func fullRecord(name string, score float64) *sheet.PersonRecord {
	rec := sheet.NewPersonRecord(name)
	for _, kind := range sheet.KindOrder {
		rec.SetScore(kind, score)
	}
	return rec
}

func completeResult(conf float64, names ...string) *sheet.ExtractionResult {
	result := sheet.NewExtractionResult("table_structure")
	for i, name := range names {
		result.Records = append(result.Records, fullRecord(name, float64(10+i)))
	}
	result.Confidence = conf
	result.Normalize()
	return result
}

func TestValidateAcceptsCompleteResult(t *testing.T) {
	engine := NewEngine()
	result := completeResult(0.85, "Ahmed Ben Ali", "Yousra El Amrani", "Karim Idrissi")

	v := engine.Validate(result, Context{DocumentType: DocPrintedTable, Quality: DefaultQuality()})
	if !v.IsValid {
		t.Fatalf("expected valid, got issues: %v", v.Issues)
	}
	if v.RequiresRetry {
		t.Error("high-confidence result should not request a retry")
	}
}

func TestValidateEmptyResult(t *testing.T) {
	engine := NewEngine()
	v := engine.Validate(sheet.NewExtractionResult("line_grouping"), Context{Quality: DefaultQuality()})
	if v.IsValid {
		t.Error("empty result must be invalid")
	}
	if len(v.Issues) == 0 {
		t.Error("empty result must carry an issue")
	}
}

func TestValidateExpectedCountDeviation(t *testing.T) {
	engine := NewEngine()
	result := completeResult(0.9, "Ahmed Ben Ali", "Yousra El Amrani")

	v := engine.Validate(result, Context{
		DocumentType:  DocPrintedTable,
		Quality:       DefaultQuality(),
		ExpectedCount: 10,
	})
	if v.IsValid {
		t.Error("2 records against 10 expected must fail the count check")
	}

	v = engine.Validate(result, Context{
		DocumentType:  DocPrintedTable,
		Quality:       DefaultQuality(),
		ExpectedCount: 2,
	})
	if !v.IsValid {
		t.Errorf("matching count should pass: %v", v.Issues)
	}
}

func TestValidateRetryOnlyForMultiPass(t *testing.T) {
	engine := NewEngine()
	result := completeResult(0.25, "Ahmed Ben Ali")

	multiPass := engine.Validate(result, Context{DocumentType: DocHandwritten, Quality: degradedQuality()})
	if !multiPass.RequiresRetry {
		t.Error("low confidence under multi_pass should request a retry")
	}

	standard := engine.Validate(result, Context{DocumentType: DocPrintedTable, Quality: DefaultQuality()})
	if standard.RequiresRetry {
		t.Error("standard class never requests a retry")
	}
}
