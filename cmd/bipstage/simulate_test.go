package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate(t *testing.T) {
	tests := []struct {
		name     string
		seed     int64
		capacity int
		chunk    int
	}{
		{"tiny", 1, 4, 4},
		{"small chunks", 2, 64, 5},
		{"odd capacity", 3, 37, 37},
		{"single element", 4, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := simulate(20000, tt.seed, tt.capacity, tt.chunk)
			require.NoError(t, err)
			assert.Equal(t, 20000, res.steps)
			assert.LessOrEqual(t, res.consumed, res.produced)
			assert.NotZero(t, res.metrics.Reservations)
		})
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	a, err := simulate(5000, 99, 32, 8)
	require.NoError(t, err)
	b, err := simulate(5000, 99, 32, 8)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
