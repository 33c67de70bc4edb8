package display

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRials(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567.6, "1,234,568"},
		{2.5, "3"},
		{-2500000, "-2,500,000"},
		{-0.4, "0"},
		{math.NaN(), Placeholder},
		{math.Inf(-1), Placeholder},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rials(tt.in), "Rials(%v)", tt.in)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "75.0%", Percent(75))
	assert.Equal(t, "33.3%", Percent(100.0/3))
	assert.Equal(t, "66.7%", Percent(200.0/3))
	assert.Equal(t, "0.0%", Percent(0))
	assert.Equal(t, Placeholder, Percent(math.NaN()))
}
