package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "tesco", b: "tesco", want: 0},
		{name: "classic", a: "kitten", b: "sitting", want: 3},
		{name: "empty left", a: "", b: "abc", want: 3},
		{name: "empty right", a: "abc", b: "", want: 3},
		{name: "single substitution", a: "cat", b: "bat", want: 1},
		{name: "suffix added", a: "tesco", b: "tesco stores", want: 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Levenshtein(tc.a, tc.b))
		})
	}
}

func TestSimilarity(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "Tesco", b: "Tesco", want: 1.0},
		{name: "case and whitespace ignored", a: "  TESCO ", b: "tesco", want: 1.0},
		{name: "empty vs non-empty", a: "", b: "tesco", want: 0.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "partial", a: "Tesco", b: "Tesco Stores", want: 1.0 - 7.0/12.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Similarity(tc.a, tc.b), 0.0001)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"tesco stores", "tesco"},
		{"CARD PAYMENT", "card payment to"},
		{"a", "b"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]))
	}
}

func TestWordOverlap(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "subset", a: "TESCO STORES LONDON", b: "tesco stores", want: 2.0 / 3.0},
		{name: "identical", a: "tesco stores", b: "TESCO STORES", want: 1.0},
		{name: "disjoint", a: "netflix", b: "tesco", want: 0.0},
		{name: "empty", a: "", b: "tesco", want: 0.0},
		{name: "duplicate words counted once", a: "tesco tesco", b: "tesco", want: 1.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, WordOverlap(tc.a, tc.b), 0.0001)
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"card", "payment", "to", "tesco", "stores", "1234"},
		Tokenize("CARD PAYMENT TO TESCO-STORES 1234"))
	assert.Empty(t, Tokenize("  ...  "))
}
