package gstin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		gstin string
		want  bool
	}{
		{"valid maharashtra", "27AAPFU0939F1ZV", true},
		{"valid delhi", "07AAPFU0939F1ZX", true},
		{"valid karnataka", "29AAPFU0939F1ZR", true},
		{"wrong check character", "27AAPFU0939F1ZW", false},
		{"transposed digits", "72AAPFU0939F1ZV", false},
		{"too short", "27AAPFU0939F1Z", false},
		{"too long", "27AAPFU0939F1ZV5", false},
		{"empty", "", false},
		{"lowercase rejected", "27aapfu0939f1zv", false},
		{"missing Z at position 14", "27AAPFU0939F1AV", false},
		{"urp sentinel is not a gstin", "URP", false},
		{"structural pass checksum fail", "27AAAAA0000A1Z5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.gstin))
		})
	}
}

func TestValid_Deterministic(t *testing.T) {
	// Re-running the checksum must yield the same verdict.
	for _, g := range []string{"27AAPFU0939F1ZV", "27AAAAA0000A1Z5", "07AAPFU0939F1ZX"} {
		first := Valid(g)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Valid(g), "verdict changed for %s", g)
		}
	}
}

func TestStateCode(t *testing.T) {
	assert.Equal(t, "27", StateCode("27AAPFU0939F1ZV"))
	assert.Equal(t, "", StateCode("2"))
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "Maharashtra", StateName("27"))
	assert.Equal(t, "Delhi", StateName("07"))
	assert.Equal(t, "", StateName("99"))
}

func TestValidStructure(t *testing.T) {
	assert.True(t, ValidStructure("27AAAAA0000A1Z5"), "structure passes even with a wrong check digit")
	assert.True(t, ValidStructure("27AAPFU0939F1ZV"))
	assert.False(t, ValidStructure("27AAPFU0939F1Z"))
	assert.False(t, ValidStructure("27aapfu0939f1zv"))
	assert.False(t, ValidStructure(URP))
}
