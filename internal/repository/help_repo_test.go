package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPatternEscapesWildcards(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"informe", `%informe%`},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\x`, `%c:\\x%`},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, containsPattern(tc.term), tc.term)
	}
}
