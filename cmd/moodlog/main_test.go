package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "slept well", 50, "slept well"},
		{"newlines", "line one\nline two", 50, "line one line two"},
		{"ascii", strings.Repeat("a", 60), 10, "aaaaaaa..."},
		{"multibyte", strings.Repeat("a", 46) + "été très long", 50, strings.Repeat("a", 46) + "é..."},
		{"emoji", "😀😀😀😀😀😀", 5, "😀😀..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.max)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3f1c2a9e", shortID("3f1c2a9e-5b7d-4c1e-9a2b-6d8e0f1a2b3c"))
	assert.Equal(t, "abc", shortID("abc"))
}
