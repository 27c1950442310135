package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeFold(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil", input: nil, expected: nil},
		{name: "empty", input: []string{}, expected: []string{}},
		{name: "folds case", input: []string{"Blood", "blood", "BLOOD"}, expected: []string{"blood"}},
		{name: "keeps first-seen order", input: []string{" equipment", "Medicine ", "equipment"}, expected: []string{"equipment", "medicine"}},
		{name: "drops blanks", input: []string{"", "  ", "blood"}, expected: []string{"blood"}},
		{name: "all blank", input: []string{" "}, expected: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeFold(tt.input))
		})
	}
}
