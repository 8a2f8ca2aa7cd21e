package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKmhFromMS(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{4, 14},
		{5.0, 18},
		{10, 36},
		{2.5, 9},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Round(KmhFromMS(tc.in)), "speed %v m/s", tc.in)
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 16, Round(16.4))
	assert.Equal(t, 17, Round(16.5))
	assert.Equal(t, 15, Round(15.2))
	assert.Equal(t, 14, Round(14.1))
	assert.Equal(t, 0, Round(-0.4))
	assert.Equal(t, -2, Round(-2.5))
	assert.Equal(t, -3, Round(-2.6))
}
