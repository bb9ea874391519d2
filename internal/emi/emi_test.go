package emi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeZeroRate(t *testing.T) {
	got, err := Compute(100000, 0, 12)
	require.NoError(t, err)
	assert.Equal(t, 8333.33, got)
}

func TestComputePinnedRounding(t *testing.T) {
	// 100000 at 12% over 12 months, rounded half away from zero.
	got, err := Compute(100000, 12, 12)
	require.NoError(t, err)
	assert.Equal(t, 8884.88, got)
}

func TestComputeTotalExceedsPrincipal(t *testing.T) {
	got, err := Compute(1000000, 10, 60)
	require.NoError(t, err)
	assert.Greater(t, got*60, 1000000.0)
}

func TestComputeMonotonicInPrincipal(t *testing.T) {
	prev := 0.0
	for _, principal := range []float64{50000, 100000, 250000, 500000, 1000000} {
		got, err := Compute(principal, 10, 24)
		require.NoError(t, err)
		assert.Greater(t, got, prev, "EMI must grow with principal %f", principal)
		prev = got
	}
}

func TestComputeMonotonicInRate(t *testing.T) {
	prev := 0.0
	for _, rate := range []float64{0, 4, 8, 12, 16, 24} {
		got, err := Compute(200000, rate, 36)
		require.NoError(t, err)
		assert.Greater(t, got, prev, "EMI must grow with rate %f", rate)
		prev = got
	}
}

func TestComputeInvalidInput(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		tenure    int
	}{
		{"zero principal", 0, 10, 12},
		{"negative principal", -100, 10, 12},
		{"zero tenure", 100000, 10, 0},
		{"negative tenure", 100000, 10, -6},
		{"negative rate", 100000, -1, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.principal, tc.rate, tc.tenure)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
