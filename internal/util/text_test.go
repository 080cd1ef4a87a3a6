package util

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "xyz", 3},
		{"kitten", "sitting", 3},
		{"crypto", "krypto", 1},
		{"newsdesk", "newsdeck", 1},
		{"abcd", "dcba", 4},
	}
	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		// Distance is symmetric
		if got := Levenshtein(tt.b, tt.a); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("Crypto", "crypto"); got != 1 {
		t.Errorf("case should not matter, got %v", got)
	}
	if got := Similarity("", ""); got != 1 {
		t.Errorf("empty strings similarity = %v", got)
	}
	if got := Similarity("abcdef", "uvwxyz"); got != 0 {
		t.Errorf("disjoint strings similarity = %v", got)
	}
	closer := Similarity("cryptoNews", "cryptoNewz")
	farther := Similarity("cryptoNews", "cryptoXYZW")
	if closer <= farther {
		t.Errorf("one edit (%v) should beat four (%v)", closer, farther)
	}
}
