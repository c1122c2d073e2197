// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"testing"

	"gradescan/internal/recognition"
	"gradescan/internal/sheet"
)

// frag builds a rectangular fragment for geometry tests.
func frag(text string, x, y, w, h float64) recognition.TextFragment {
	return recognition.TextFragment{
		Text: text,
		Polygon: [4]recognition.Point{
			{X: x, Y: y}, {X: x + w, Y: y},
			{X: x + w, Y: y + h}, {X: x, Y: y + h},
		},
		Confidence: 0.95,
	}
}

// gridFragments lays out a printed sheet: a title line, a 4-column header and
// two data rows, 40 units of vertical spacing.
func gridFragments() []recognition.TextFragment {
	return []recognition.TextFragment{
		frag("Class 6B - Mathematics", 100, 10, 300, 20),

		frag("No.", 20, 50, 40, 20),
		frag("Name", 80, 50, 120, 20),
		frag("Score 1", 220, 50, 80, 20),
		frag("Score 2", 320, 50, 80, 20),

		frag("1", 25, 90, 20, 20),
		frag("Ahmed Ben Ali", 80, 90, 110, 20),
		frag("15.5", 235, 90, 40, 20),
		frag("12.0", 335, 90, 40, 20),

		frag("2", 25, 130, 20, 20),
		frag("Yousra El Amrani", 80, 130, 110, 20),
		frag("18.0", 235, 130, 40, 20),
		frag("16.5", 335, 130, 40, 20),
	}
}

func TestReconstructGrid(t *testing.T) {
	table, err := NewReconstructor().Reconstruct(gridFragments())
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}

	if table.RightToLeft {
		t.Error("latin sheet misdetected as right-to-left")
	}
	if len(table.Columns) != 4 {
		t.Fatalf("expected 4 header columns, got %d", len(table.Columns))
	}
	if len(table.DataRows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(table.DataRows))
	}

	if idx, ok := table.ColumnByField(sheet.FieldName); !ok || idx != 1 {
		t.Errorf("name column = (%d, %v), want (1, true)", idx, ok)
	}
	if idx, ok := table.ColumnByField(sheet.FieldSequence); !ok || idx != 0 {
		t.Errorf("sequence column = (%d, %v), want (0, true)", idx, ok)
	}

	scores := table.ScoreColumns()
	if scores[sheet.KindExam1] != 2 || scores[sheet.KindExam2] != 3 {
		t.Errorf("score columns = %v, want exam1->2 exam2->3", scores)
	}

	// The title row must not survive as data.
	for _, row := range table.DataRows {
		for _, f := range row {
			if f.Text == "Class 6B - Mathematics" {
				t.Error("title fragment leaked into data rows")
			}
		}
	}
}

func TestReconstructNoHeader(t *testing.T) {
	fragments := []recognition.TextFragment{
		frag("Ahmed Ben Ali", 80, 90, 110, 20),
		frag("15.5", 235, 90, 40, 20),
	}
	if _, err := NewReconstructor().Reconstruct(fragments); err != ErrNoStructure {
		t.Fatalf("expected ErrNoStructure, got %v", err)
	}
}

func TestReconstructEmpty(t *testing.T) {
	if _, err := NewReconstructor().Reconstruct(nil); err != ErrNoStructure {
		t.Fatalf("expected ErrNoStructure for empty input, got %v", err)
	}
}

func TestReconstructRightToLeft(t *testing.T) {
	fragments := []recognition.TextFragment{
		frag("رقم", 500, 50, 40, 20),
		frag("الاسم الكامل", 300, 50, 150, 20),
		frag("الفرض 1", 150, 50, 80, 20),

		frag("1", 510, 90, 20, 20),
		frag("أحمد بن علي", 300, 90, 140, 20),
		frag("15.5", 160, 90, 40, 20),
	}

	table, err := NewReconstructor().Reconstruct(fragments)
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	if !table.RightToLeft {
		t.Fatal("arabic sheet not detected as right-to-left")
	}
	// In-row order follows reading order: rightmost fragment first.
	if table.Columns[0].Header != "رقم" {
		t.Errorf("first column = %q, want the rightmost header", table.Columns[0].Header)
	}
	if idx, ok := table.ColumnByField(sheet.FieldName); !ok || idx != 1 {
		t.Errorf("name column = (%d, %v), want (1, true)", idx, ok)
	}
}

func TestAssignColumn(t *testing.T) {
	table, err := NewReconstructor().Reconstruct(gridFragments())
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}

	inside := frag("17.0", 230, 170, 40, 20)
	if got := table.AssignColumn(&inside); got != 2 {
		t.Errorf("AssignColumn(score cell) = %d, want 2", got)
	}

	outside := frag("margin note", 600, 170, 60, 20)
	if got := table.AssignColumn(&outside); got != -1 {
		t.Errorf("AssignColumn(margin fragment) = %d, want -1", got)
	}
}

func TestRowToleranceMergesJitter(t *testing.T) {
	fragments := []recognition.TextFragment{
		frag("No.", 20, 50, 40, 20),
		frag("Name", 80, 58, 120, 20), // jitter within tolerance

		frag("1", 25, 120, 20, 20),
		frag("Karim Idrissi", 80, 126, 110, 20),
	}
	table, err := NewReconstructor().Reconstruct(fragments)
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	if len(table.Columns) != 2 {
		t.Errorf("jittered header split into %d columns, want 2 in one row", len(table.Columns))
	}
	if len(table.DataRows) != 1 || len(table.DataRows[0]) != 2 {
		t.Errorf("jittered data row not merged: %d rows", len(table.DataRows))
	}
}
