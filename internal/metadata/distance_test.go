package metadata

import "testing"

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"firm", "firm", 0},
		{"coase", "coaze", 1},
		{"こんにちは", "こんばんは", 2},
	}
	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTitleDistance(t *testing.T) {
	tests := []struct {
		a, b string
		dist int
		ok   bool
	}{
		{"theproblemofsocialcost", "theproblemofsocalcost", 1, true},
		{"theproblemofsocialcost", "thenatureofthefirmxxxx", 0, false},
		{"short", "shrt", 0, false},
		// 20 runes but 40 bytes: the length limit counts runes.
		{"éééééééééééééééééééé", "éééééééééééééééééééa", 1, true},
		{"ééééééééééé", "éééééééééé", 0, false},
	}
	for _, tt := range tests {
		d, ok := titleDistance(tt.a, tt.b)
		if ok != tt.ok || (ok && d != tt.dist) {
			t.Errorf("titleDistance(%q, %q) = %d, %v, want %d, %v", tt.a, tt.b, d, ok, tt.dist, tt.ok)
		}
	}
}
