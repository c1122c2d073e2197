// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package linker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradescan/internal/sheet"
)

func classSnapshot() *Snapshot {
	return &Snapshot{
		Values: [][]interface{}{
			{float64(1), "Ahmed Ben Ali", float64(15.5)},
			{float64(2), "Yousra El Amrani", float64(18)},
			{float64(3), "Mohamed Alaoui", float64(12)},
			{float64(4), "Fatima Zahra Bennis", float64(14)},
		},
		RowOffset: 5,
	}
}

func TestFindRowExactMatch(t *testing.T) {
	row, ok := NewLinker().FindRow("Ahmed Ben Ali", classSnapshot(), 1)
	require.True(t, ok)
	assert.Equal(t, 0, row)
}

func TestFindRowSwappedTokenOrder(t *testing.T) {
	row, ok := NewLinker().FindRow("Ben Ali Ahmed", classSnapshot(), 1)
	require.True(t, ok, "swapped given/family order must still match")
	assert.Equal(t, 0, row)
}

func TestFindRowFloatingParticle(t *testing.T) {
	// "El" floats freely between variants of the same name.
	row, ok := NewLinker().FindRow("Amrani Yousra", classSnapshot(), 1)
	require.True(t, ok, "particle-only difference must still match")
	assert.Equal(t, 1, row)
}

func TestFindRowTyposWithinThreshold(t *testing.T) {
	row, ok := NewLinker().FindRow("Ahmad Ben Aly", classSnapshot(), 1)
	require.True(t, ok, "two single-letter misreads must still match")
	assert.Equal(t, 0, row)
}

func TestFindRowShortNameDoesNotMatch(t *testing.T) {
	// A lone short token would match half the class; it must stay unmatched.
	_, ok := NewLinker().FindRow("Ali", classSnapshot(), 1)
	assert.False(t, ok)
}

func TestFindRowUnrelatedNameDoesNotMatch(t *testing.T) {
	_, ok := NewLinker().FindRow("Rachid Benkirane", classSnapshot(), 1)
	assert.False(t, ok)
}

func TestFindRowMergesSplitNameCells(t *testing.T) {
	snap := &Snapshot{Values: [][]interface{}{
		{float64(5), "Karim", "Idrissi"},
	}}
	row, ok := NewLinker().FindRow("Karim Idrissi", snap, 1)
	require.True(t, ok, "name split across adjacent cells must be combined")
	assert.Equal(t, 0, row)
}

func TestFindRowWholeRowScan(t *testing.T) {
	snap := &Snapshot{Values: [][]interface{}{
		{float64(1), "Ahmed Ben Ali", float64(15.5)},
		{float64(3), "", "x1", "Hamid Chakiri"},
	}}
	row, ok := NewLinker().FindRow("Hamid Chakiri", snap, 1)
	require.True(t, ok, "a name outside the expected column is found by row scan")
	assert.Equal(t, 1, row)
}

func TestFindRowEmptyInputs(t *testing.T) {
	l := NewLinker()
	_, ok := l.FindRow("", classSnapshot(), 1)
	assert.False(t, ok)
	_, ok = l.FindRow("Ahmed Ben Ali", nil, 1)
	assert.False(t, ok)
	_, ok = l.FindRow("Ahmed Ben Ali", classSnapshot(), 9)
	assert.False(t, ok, "out-of-range name column yields no candidates")
}

func TestLinkAll(t *testing.T) {
	records := []*sheet.PersonRecord{
		sheet.NewPersonRecord("Ahmed Ben Ali"),
		sheet.NewPersonRecord("Amrani Yousra"),
		sheet.NewPersonRecord("Unknown Student"),
	}

	assignments, notFound := NewLinker().LinkAll(records, classSnapshot(), 1)

	// Assignments are absolute: snapshot row plus the used-range offset.
	assert.Equal(t, map[string]int{
		"Ahmed Ben Ali": 5,
		"Amrani Yousra": 6,
	}, assignments)
	assert.Equal(t, []string{"Unknown Student"}, notFound)
}

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	content := `{"values": [[1, "Ahmed Ben Ali", 15.5]], "row_offset": 2, "col_offset": 1}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	snap, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.RowOffset)
	assert.Equal(t, 1, snap.ColOffset)
	require.Len(t, snap.Values, 1)
	assert.Equal(t, "Ahmed Ben Ali", CellString(snap.Values[0][1]))
	assert.Equal(t, "15.5", CellString(snap.Values[0][2]))

	_, err = LoadSnapshot(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = LoadSnapshot("../escape.json")
	assert.Error(t, err)
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "text", CellString("text"))
	assert.Equal(t, "15.5", CellString(float64(15.5)))
	assert.Equal(t, "7", CellString(float64(7)))
	assert.Equal(t, "3", CellString(3))
	assert.Equal(t, "true", CellString(true))
}
