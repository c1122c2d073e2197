// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"gradescan/internal/normalize"
	"gradescan/internal/sheet"
)

// MergeDuplicates collapses records judged to be the same person (equal
// canonicalized names). The first occurrence survives and absorbs the first
// non-null value per field from later duplicates.
func MergeDuplicates(records []*sheet.PersonRecord) []*sheet.PersonRecord {
	if len(records) < 2 {
		return records
	}
	seen := make(map[string]*sheet.PersonRecord, len(records))
	out := records[:0]
	for _, rec := range records {
		key := normalize.Name(rec.Name)
		if existing, ok := seen[key]; ok {
			existing.Merge(rec)
			continue
		}
		seen[key] = rec
		out = append(out, rec)
	}
	return out
}
