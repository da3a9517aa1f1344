package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  name  ", "appIcon  ", "  progress"},
			expected: []string{"name", "appIcon", "progress"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"name", "appIcon", "name", "progress", "appIcon"},
			expected: []string{"name", "appIcon", "progress"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"name", "", "  ", "appIcon"},
			expected: []string{"name", "appIcon"},
		},
		{
			name:     "preserves case",
			input:    []string{"AppIcon", "appIcon"},
			expected: []string{"AppIcon", "appIcon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV([]string{"name, progress", "appIcon,,name"})
	assert.Equal(t, []string{"name", "progress", "appIcon"}, got)
}

func TestSortedUnion(t *testing.T) {
	t.Run("orders and dedupes across sets", func(t *testing.T) {
		got := SortedUnion([]string{"name", "description"}, []string{"progress", "name"})
		assert.Equal(t, []string{"description", "name", "progress"}, got)
	})

	t.Run("same members in different order give same result", func(t *testing.T) {
		a := SortedUnion([]string{"b", "a"}, []string{"c"})
		b := SortedUnion([]string{"c", "a"}, []string{"b"})
		assert.Equal(t, a, b)
	})
}
