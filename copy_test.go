package bipbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPush(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		src      []int
		want     int
	}{
		{"empty source", 4, nil, 0},
		{"fits", 4, []int{1, 2, 3}, 3},
		{"exact", 4, []int{1, 2, 3, 4}, 4},
		{"overflow", 4, []int{1, 2, 3, 4, 5, 6}, 4},
		{"zero capacity", 0, []int{1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New[int](tt.capacity)
			assert.Equal(t, tt.want, Push(b, tt.src))
			assert.Equal(t, tt.want, b.CommittedLen())
			assertInvariants(t, b)
		})
	}
}

func TestPushAcrossWrap(t *testing.T) {
	b := New[int](8)
	require.Equal(t, 6, Push(b, []int{1, 2, 3, 4, 5, 6}))
	_, err := b.Decommit(2)
	require.NoError(t, err)

	// two elements fit at the tail, two more at the head
	assert.Equal(t, 4, Push(b, []int{7, 8, 9, 10, 11, 12, 13}))
	assert.True(t, b.Wrapped())
	assertInvariants(t, b)

	dst := make([]int, 10)
	assert.Equal(t, 8, Pop(b, dst))
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10}, dst[:8])
	assert.True(t, b.IsEmpty())
}

func TestPopPartial(t *testing.T) {
	b := New[byte](8)
	Push(b, []byte("abcdef"))

	dst := make([]byte, 4)
	assert.Equal(t, 4, Pop(b, dst))
	assert.Equal(t, "abcd", string(dst))
	assert.Equal(t, 2, b.CommittedLen())

	assert.Equal(t, 0, Pop(b, nil))
	assert.Equal(t, 2, Pop(b, dst))
	assert.Equal(t, "ef", string(dst[:2]))
	assert.Equal(t, 0, Pop(b, dst))
}

func TestPushDropsReservation(t *testing.T) {
	b := New[int](8)
	_, err := b.Reserve(8)
	require.NoError(t, err)

	assert.Equal(t, 3, Push(b, []int{1, 2, 3}))
	_, reserved := b.Reservation()
	assert.False(t, reserved)
}
