// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package normalize turns raw recognized tokens into canonical score values
// and comparable person names.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"gradescan/internal/sheet"
)

// ParseScore parses a raw recognized token into a score in [0,20] rounded to
// two decimals. The second return is false when the token cannot yield an
// in-range value; out-of-range values are rejected, never clamped. The
// function is total: any input produces (0,false) at worst.
func ParseScore(token string) (float64, bool) {
	s := TranslateDigits(token)

	// Keep only digits and separators; everything else is recognition noise.
	var sb strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			sb.WriteRune(r)
		}
	}
	s = strings.ReplaceAll(sb.String(), ",", ".")
	if s == "" {
		return 0, false
	}

	// Multiple separators: keep the first, drop the rest.
	if first := strings.Index(s, "."); first >= 0 {
		s = s[:first+1] + strings.ReplaceAll(s[first+1:], ".", "")
	}

	if !strings.Contains(s, ".") {
		s = fixDigitRun(s)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if v < sheet.ScoreMin || v > sheet.ScoreMax {
		return 0, false
	}
	return math.Round(v*100) / 100, true
}

// fixDigitRun applies fixed OCR shape corrections to a separator-free digit
// run. A five-digit run with a '1' in the middle is a decimal point misread
// as a vertical stroke ("07100" -> "07.00"); longer runs whose leading pair
// is a plausible score get a decimal point reinserted after it.
func fixDigitRun(s string) string {
	if len(s) <= 2 {
		return s
	}

	if len(s) == 5 && s[2] == '1' {
		if lead, err := strconv.Atoi(s[:2]); err == nil && lead <= int(sheet.ScoreMax) {
			return s[:2] + "." + s[3:]
		}
	}

	// Try a decimal point after two digits, then after one.
	for _, split := range []int{2, 1} {
		if len(s) <= split {
			continue
		}
		if lead, err := strconv.Atoi(s[:split]); err == nil && lead <= int(sheet.ScoreMax) {
			frac := s[split:]
			if len(frac) > 2 {
				frac = frac[:2]
			}
			return s[:split] + "." + frac
		}
	}
	return s
}

// digitTranslations maps Arabic-Indic and Eastern Arabic-Indic digits to
// ASCII. The Arabic decimal separator U+066B folds to a comma.
var digitTranslations = map[rune]rune{
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
	'۰': '0', '۱': '1', '۲': '2', '۳': '3', '۴': '4',
	'۵': '5', '۶': '6', '۷': '7', '۸': '8', '۹': '9',
	'٫': ',',
}

// TranslateDigits rewrites alternate-numeral-system digits to ASCII digits,
// leaving everything else untouched.
func TranslateDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := digitTranslations[r]; ok {
			return d
		}
		return r
	}, s)
}

// ParseSequence parses a sequence-number token, tolerating alternate
// numerals and stray punctuation.
func ParseSequence(token string) (int, bool) {
	s := TranslateDigits(token)
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 || sb.Len() > 4 {
		return 0, false
	}
	n, err := strconv.Atoi(sb.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatScore renders a score with the canonical two-decimal precision.
func FormatScore(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}
