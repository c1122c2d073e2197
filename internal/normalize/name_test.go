// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"reflect"
	"testing"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and collapse", "  Ahmed   Ben Ali ", "ahmed ben ali"},
		{"latin diacritics stripped", "Mohamméd Bénali", "mohammed benali"},
		{"hyphen becomes space", "Jean-Pierre", "jean pierre"},
		{"apostrophe becomes space", "N'Diaye", "n diaye"},
		{"alef forms folded", "أحمد", "احمد"},
		{"alef maqsura folded to ya", "مصطفى", "مصطفي"},
		{"teh marbuta folded to heh", "فاطمة", "فاطمه"},
		{"arabic diacritics stripped", "مُحَمَّد", "محمد"},
		{"punctuation dropped", "Ali, (12)", "ali 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.in); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNameIsStable(t *testing.T) {
	// Canonicalizing twice must not change the result.
	for _, s := range []string{"Yousra El Amrani", "عبد الرحمان", "José-María"} {
		once := Name(s)
		if twice := Name(once); twice != once {
			t.Errorf("Name not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestNameTokens(t *testing.T) {
	a := NameTokens("Yousra El Amrani")
	b := NameTokens("Amrani Yousra")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("token sets differ: %v vs %v", a, b)
	}

	c := NameTokens("Ahmed Ben Ali")
	d := NameTokens("Ben Ali Ahmed")
	if !reflect.DeepEqual(c, d) {
		t.Errorf("token sets differ: %v vs %v", c, d)
	}

	// The Arabic definite article floats between variants too.
	e := NameTokens("الأمراني يسرى")
	f := NameTokens("امراني يسري")
	if !reflect.DeepEqual(e, f) {
		t.Errorf("token sets differ: %v vs %v", e, f)
	}
}

func TestCleanPersonName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12. Ahmed Ben Ali -", "Ahmed Ben Ali"},
		{"  فاطمة الزهراء  ", "فاطمة الزهراء"},
		{"| Karim   Idrissi :", "Karim Idrissi"},
		{"٠٣ سعاد", "سعاد"},
	}
	for _, tt := range tests {
		if got := CleanPersonName(tt.in); got != tt.want {
			t.Errorf("CleanPersonName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasNameScript(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Ahmed", true},
		{"محمد", true},
		{"12 34", false},
		{"A1B2", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasNameScript(tt.in); got != tt.want {
			t.Errorf("HasNameScript(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLooksLikeName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Ben Ali", true},
		{"عبد الرحمان", true},
		{"12/04/2011", false},
		{"15.50", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksLikeName(tt.in); got != tt.want {
			t.Errorf("LooksLikeName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNameQuality(t *testing.T) {
	if q := NameQuality("Ahmed Ben Ali"); q != 1 {
		t.Errorf("NameQuality(full name) = %v, want 1", q)
	}
	if q := NameQuality(""); q != 0 {
		t.Errorf("NameQuality(empty) = %v, want 0", q)
	}
	if full, noisy := NameQuality("Ahmed"), NameQuality("Ahm3d 42"); noisy >= full {
		t.Errorf("digit-laden name should score lower: %v >= %v", noisy, full)
	}
}
