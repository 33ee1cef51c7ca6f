package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"US", "\U0001F1FA\U0001F1F8"},
		{"de", "\U0001F1E9\U0001F1EA"},
		{" gb ", "\U0001F1EC\U0001F1E7"},
		{"", ""},
		{"1A", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Flag(tt.in), "Flag(%q)", tt.in)
	}
}

func TestFuzzyMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		needle   string
		haystack string
		want     bool
	}{
		{"", "anything", true},
		{"abc", "aXbXc", true},
		{"ABC", "axbxc", true},
		{"acb", "abc", false},
		{"abc", "abc", true},
		{"abd", "abc", false},
		{"abcd", "abc", false},
		{"ß", "straße", true},
		{"üBN", "ÜberNix", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FuzzyMatch(tt.needle, tt.haystack), "FuzzyMatch(%q, %q)", tt.needle, tt.haystack)
	}
}

func TestRoundToNearestMultiple(t *testing.T) {
	t.Parallel()

	tests := []struct {
		num, multipleOf, want float64
	}{
		{12, 5, 10},
		{12.5, 5, 15},
		{13, 5, 15},
		{-12.5, 5, -10},
		{7, 0.5, 7},
		{0, 10, 0},
		{149, 100, 100},
		{150, 100, 200},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, RoundToNearestMultiple(tt.num, tt.multipleOf), 1e-9,
			"RoundToNearestMultiple(%v, %v)", tt.num, tt.multipleOf)
	}
}
