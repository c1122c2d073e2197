// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sheet

import "strings"

// Header keyword vocabulary. Score sheets in the wild mix Arabic, French and
// English headers, so every field carries identifiers for all three. Matching
// is substring-based over a lowercased, whitespace-collapsed header cell.
var (
	nameKeywords = []string{
		"الاسم الكامل", "الإسم الكامل", "اسم التلميذ", "الاسم", "الإسم", "اسم",
		"name", "nom", "prenom", "prénom", "élève", "eleve", "student",
	}

	sequenceKeywords = []string{
		"الرقم الترتيبي", "رقم الترتيب", "ر.ت", "ر ت", "الرقم", "رقم",
		"seq", "no.", "n°", "num", "number", "#",
	}

	kindKeywords = map[ScoreKind][]string{
		KindExam1: {
			"الفرض الأول", "الفرض الاول", "الفرض 1", "فرض 1", "الفرض١",
			"exam 1", "exam1", "devoir 1", "score1", "score 1", "note 1", "test 1",
		},
		KindExam2: {
			"الفرض الثاني", "الفرض 2", "فرض 2", "الفرض٢",
			"exam 2", "exam2", "devoir 2", "score2", "score 2", "note 2", "test 2",
		},
		KindExam3: {
			"الفرض الثالث", "الفرض 3", "فرض 3", "الفرض٣",
			"exam 3", "exam3", "devoir 3", "score3", "score 3", "note 3", "test 3",
		},
		KindActivities: {
			"الأنشطة المندمجة", "الأنشطة", "أنشطة", "المراقبة المستمرة",
			"activities", "activites", "activités", "controle continu",
			"contrôle continu", "continuous",
		},
	}

	// summaryKeywords mark total/average rows which every strategy excludes
	// from data extraction.
	summaryKeywords = []string{
		"المجموع", "مجموع", "المعدل", "معدل", "المعدل العام",
		"total", "totale", "moyenne", "average", "avg", "sum", "somme",
	}
)

func normalizeHeaderText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// MatchHeaderField classifies a header cell's text. For score columns the
// matched kind is returned alongside FieldScore. Unrecognized text yields
// (FieldUnknown, "", false).
func MatchHeaderField(text string) (FieldType, ScoreKind, bool) {
	s := normalizeHeaderText(text)
	if s == "" {
		return FieldUnknown, "", false
	}
	// Score kinds first: "رقم الفرض 1" style headers contain both a sequence
	// keyword and a kind keyword, and the kind is the more specific signal.
	for _, kind := range KindOrder {
		if containsAny(s, kindKeywords[kind]) {
			return FieldScore, kind, true
		}
	}
	if containsAny(s, nameKeywords) {
		return FieldName, "", true
	}
	if containsAny(s, sequenceKeywords) {
		return FieldSequence, "", true
	}
	return FieldUnknown, "", false
}

// IsHeaderText reports whether a line or cell looks like a header repetition.
func IsHeaderText(text string) bool {
	_, _, ok := MatchHeaderField(text)
	return ok
}

// IsSummaryText reports whether a line or cell carries total/average
// keywords and must be excluded from data extraction.
func IsSummaryText(text string) bool {
	return containsAny(normalizeHeaderText(text), summaryKeywords)
}
