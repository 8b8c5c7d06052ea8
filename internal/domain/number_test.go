package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 3.5, 3.5, true},
		{"int", 4, 4, true},
		{"int64", int64(7), 7, true},
		{"numeric string", " 12 ", 12, true},
		{"garbage string", "doce", 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf string", "Inf", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
