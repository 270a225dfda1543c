package textutil

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "5551234", "5551234", 100},
		{"both empty", "", "", 100},
		{"one empty", "abc", "", 0},
		{"kitten sitting", "kitten", "sitting", 100 * 8.0 / 13.0},
		{"single substitution", "5551234", "5551235", 100 * 12.0 / 14.0},
		{"transposed digits", "5551234", "5551243", 100 * 12.0 / 14.0},
		{"length mismatch", "442079460018", "02079460018", 100 * 20.0 / 23.0},
		{"multibyte runes", "zoë", "zoe", 100 * 4.0 / 6.0},
		{"disjoint", "abc", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLCSLength(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 4},
		{"abcde", "ace", 3},
		{"ace", "abcde", 3},
		{"", "abc", 0},
		{"ada", "ada", 3},
	}
	for _, tt := range tests {
		if got := lcsLength([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("lcsLength(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRatioSymmetric(t *testing.T) {
	a, b := "ada@example.com", "ada.l@example.org"
	if Ratio(a, b) != Ratio(b, a) {
		t.Errorf("Ratio not symmetric: (%v, %v)", Ratio(a, b), Ratio(b, a))
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"reordered", "john smith", "smith john", 100},
		{"subset", "john a smith", "john smith", 100},
		{"punctuation", "Smith, John", "john smith", 100},
		{"duplicated tokens", "ada ada lovelace", "lovelace ada", 100},
		{"empty side", "", "john", 0},
		{"no tokens", "---", "john", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenSetRatio(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("TokenSetRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokenSetRatioDisjointIsLow(t *testing.T) {
	got := TokenSetRatio("john smith", "jane doe")
	if got >= 50 {
		t.Errorf("TokenSetRatio(disjoint) = %v, want < 50", got)
	}
}

func TestTokenSetRatioPartialOverlap(t *testing.T) {
	got := TokenSetRatio("john smith", "john smyth")
	if got <= 50 || got >= 100 {
		t.Errorf("TokenSetRatio(partial) = %v, want between 50 and 100", got)
	}
}
