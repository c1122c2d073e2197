// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// arabicFoldings collapses multiple glyph forms of the same phoneme to one
// representative so names written with different shapes still compare equal.
var arabicFoldings = map[rune]rune{
	'أ': 'ا', 'إ': 'ا', 'آ': 'ا', 'ٱ': 'ا',
	'ى': 'ي', 'ئ': 'ي',
	'ؤ': 'و',
	'ة': 'ه',
	'ـ': -1, // tatweel: pure elongation, dropped
}

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Name canonicalizes a person name for comparison: Unicode decomposition,
// diacritic stripping, Arabic letter-shape folding, lower-casing and
// whitespace collapse. Both sides of every fuzzy comparison go through this.
func Name(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	folded := strings.Map(func(r rune) rune {
		if repl, ok := arabicFoldings[r]; ok {
			return repl
		}
		return r
	}, stripped)
	folded = strings.ToLower(folded)

	var sb strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			sb.WriteRune(r)
		} else if r == '-' || r == '\'' || r == '’' || r == '.' {
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// nameParticles are article tokens that float freely between name variants
// ("Yousra El Amrani" vs "Amrani Yousra") and are excluded from token-set
// comparison.
var nameParticles = map[string]bool{
	"el": true, "al": true, "de": true, "da": true, "du": true,
	"la": true, "le": true,
}

// NameTokens returns the sorted token list of a canonicalized name, used for
// order-agnostic comparison of swapped given/family names. Article particles
// and the Arabic definite-article prefix are dropped so variants that only
// differ in them still compare equal.
func NameTokens(s string) []string {
	var tokens []string
	for _, tok := range strings.Fields(Name(s)) {
		tok = strings.TrimPrefix(tok, "ال")
		if tok == "" || nameParticles[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

// CleanPersonName prepares a raw recognized name cell for use as a record
// name: leading digits and separators are discarded, trailing separators
// stripped, internal whitespace collapsed.
func CleanPersonName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "0123456789٠١٢٣٤٥٦٧٨٩۰۱۲۳۴۵۶۷۸۹ .-:|)(")
	s = strings.TrimRight(s, " .-:|،,؛;")
	return strings.Join(strings.Fields(s), " ")
}

// isNameLetter reports whether a rune belongs to a script names are written
// in on the sheets this pipeline handles.
func isNameLetter(r rune) bool {
	return unicode.In(r, unicode.Arabic, unicode.Latin)
}

// HasNameScript reports whether the text carries at least one plausible name
// token: a run of two or more name-script letters.
func HasNameScript(s string) bool {
	run := 0
	for _, r := range s {
		if isNameLetter(r) {
			run++
			if run >= 2 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// LooksLikeName reports whether a cell's text is plausible as (part of) a
// person name: name-script characters, not a pure number or date, reasonable
// length. Used when deciding whether to merge an adjacent split-name column.
func LooksLikeName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > 60 {
		return false
	}
	if !HasNameScript(s) {
		return false
	}
	digits := 0
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
		}
	}
	// Dates and numbered labels carry more digits than a name ever does.
	return letters > 0 && digits <= letters/2
}

// NameQuality scores how name-like a string is in [0,1]: script presence,
// token count in the plausible range, and absence of stray digits each weigh
// a third.
func NameQuality(s string) float64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	score := 0.0
	if HasNameScript(s) {
		score += 1.0 / 3
	}
	tokens := len(strings.Fields(s))
	if tokens >= 1 && tokens <= 6 {
		score += 1.0 / 3
	}
	if !strings.ContainsFunc(s, unicode.IsDigit) {
		score += 1.0 / 3
	}
	return score
}
