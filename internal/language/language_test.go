package language

import (
	"slices"
	"testing"
)

func TestCodesSorted(t *testing.T) {
	if !slices.IsSorted(Codes) {
		t.Fatal("Codes must stay sorted for binary search")
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"en", true},
		{"EN", true},
		{" zh ", true},
		{"haw", true},
		{"auto", false},
		{"xx", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSupported(tt.code); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
	if !IsSource("auto") || !IsSource("fr") || IsSource("klingon") {
		t.Fatal("unexpected IsSource result")
	}
}

func TestToISO3(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "eng"},
		{"EN", "eng"},
		{"es", "spa"},
		{"de", "deu"},
		{"ja", "jpn"},
		{"zh", "zho"},
		{"auto", "und"},
		{"", "und"},
		{"not-a-code", "und"},
		{"xyz", "und"},
		{"jw", "jav"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToISO3(tt.input); got != tt.expected {
				t.Errorf("ToISO3(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"fr", "French"},
		{"ja", "Japanese"},
		{"auto", "Auto-detect"},
		{"", "Unknown"},
		{"xyz", "XYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFromTag(t *testing.T) {
	tests := map[string]string{
		"eng":   "en",
		"ENG":   "en",
		"zho":   "zh",
		"en-US": "en",
		"jav":   "jw",
		"haw":   "haw",
		"und":   "",
		"":      "",
		"qqq":   "",
	}
	for in, want := range tests {
		if got := FromTag(in); got != want {
			t.Errorf("FromTag(%q) = %q, want %q", in, got, want)
		}
	}
}
