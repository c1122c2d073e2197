// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sheet

import "testing"

func TestPersonRecordScores(t *testing.T) {
	rec := NewPersonRecord("Ahmed Ben Ali")
	if _, ok := rec.Score(KindExam1); ok {
		t.Error("fresh record should carry no scores")
	}

	rec.SetScore(KindExam1, 0) // zero is a value, not absence
	if v, ok := rec.Score(KindExam1); !ok || v != 0 {
		t.Errorf("Score = (%v, %v), want (0, true)", v, ok)
	}
}

func TestPersonRecordMerge(t *testing.T) {
	a := NewPersonRecord("Ahmed Ben Ali")
	a.SetScore(KindExam1, 15.5)

	b := NewPersonRecord("Ahmed Ben Ali")
	b.SequenceNumber = 4
	b.SetScore(KindExam1, 9) // loses: a already has exam1
	b.SetScore(KindExam2, 12)
	b.MarkUncertain(KindExam2)

	a.Merge(b)
	if a.SequenceNumber != 4 {
		t.Errorf("sequence = %d, want absorbed 4", a.SequenceNumber)
	}
	if v, _ := a.Score(KindExam1); v != 15.5 {
		t.Errorf("exam1 = %v, first value must survive", v)
	}
	if v, ok := a.Score(KindExam2); !ok || v != 12 {
		t.Errorf("exam2 = (%v, %v), want (12, true)", v, ok)
	}
	if !a.Uncertain[string(KindExam2)] {
		t.Error("uncertainty flags must propagate through merge")
	}
}

func TestExtractionResultNormalize(t *testing.T) {
	er := NewExtractionResult("table")
	er.Confidence = 0.9
	er.Normalize()
	if er.Confidence != 0 {
		t.Errorf("zero records must force zero confidence, got %v", er.Confidence)
	}

	er = NewExtractionResult("table")
	rec := NewPersonRecord("Ahmed Ben Ali")
	rec.SetScore(KindExam2, 12)
	er.Records = append(er.Records, rec)
	er.Confidence = 1.7
	er.Normalize()
	if er.Confidence != 1 {
		t.Errorf("confidence must clamp to 1, got %v", er.Confidence)
	}
	if !er.DetectedKinds[KindExam2] {
		t.Error("kinds carried by records must be backfilled into DetectedKinds")
	}
}

func TestKindsInOrder(t *testing.T) {
	er := NewExtractionResult("table")
	er.DetectedKinds[KindActivities] = true
	er.DetectedKinds[KindExam1] = true

	kinds := er.KindsInOrder()
	if len(kinds) != 2 || kinds[0] != KindExam1 || kinds[1] != KindActivities {
		t.Errorf("KindsInOrder = %v, want declared order", kinds)
	}
}

func TestMatchHeaderField(t *testing.T) {
	tests := []struct {
		text  string
		field FieldType
		kind  ScoreKind
		ok    bool
	}{
		{"الاسم الكامل", FieldName, "", true},
		{"Nom", FieldName, "", true},
		{"رقم الترتيب", FieldSequence, "", true},
		{"No.", FieldSequence, "", true},
		{"الفرض الأول", FieldScore, KindExam1, true},
		{"Score 2", FieldScore, KindExam2, true},
		{"Devoir 3", FieldScore, KindExam3, true},
		{"الأنشطة المندمجة", FieldScore, KindActivities, true},
		// A header carrying both a sequence and a kind keyword classifies by
		// the more specific kind.
		{"رقم الفرض 1", FieldScore, KindExam1, true},
		{"Geography", FieldUnknown, "", false},
		{"", FieldUnknown, "", false},
	}
	for _, tt := range tests {
		field, kind, ok := MatchHeaderField(tt.text)
		if field != tt.field || kind != tt.kind || ok != tt.ok {
			t.Errorf("MatchHeaderField(%q) = (%v, %q, %v), want (%v, %q, %v)",
				tt.text, field, kind, ok, tt.field, tt.kind, tt.ok)
		}
	}
}

func TestIsSummaryText(t *testing.T) {
	for _, text := range []string{"المجموع", "Moyenne generale", "Total: 245"} {
		if !IsSummaryText(text) {
			t.Errorf("IsSummaryText(%q) = false", text)
		}
	}
	if IsSummaryText("Ahmed Ben Ali 15.5") {
		t.Error("ordinary data row flagged as summary")
	}
}
