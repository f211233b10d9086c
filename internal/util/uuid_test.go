package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"3f2504e0-4f89-41d3-9a0c-0305e82c3301", true},
		{"3F2504E0-4F89-41D3-9A0C-0305E82C3301", true},
		{"3f2504e0-4f89-11d3-8a0c-0305e82c3301", true},
		{"3f2504e0-4f89-61d3-9a0c-0305e82c3301", false}, // version 6
		{"3f2504e0-4f89-41d3-ca0c-0305e82c3301", false}, // variant
		{"{3f2504e0-4f89-41d3-9a0c-0305e82c3301}", false},
		{"3f2504e04f8941d39a0c0305e82c3301", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsValidUUID(tc.in), tc.in)
	}
}
