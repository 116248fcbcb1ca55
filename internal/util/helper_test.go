package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneSlice(t *testing.T) {
	src := []byte{1, 2, 3}

	c := CloneSlice(src, 0)
	assert.Equal(t, src, c)
	c[0] = 9
	assert.Equal(t, byte(1), src[0], "clone must not alias src")

	assert.Equal(t, []byte{1, 2, 3, 0}, CloneSlice(src, 4))
	assert.Equal(t, []byte{1, 2}, CloneSlice(src, 2))
}

func TestClampLen(t *testing.T) {
	tests := []struct {
		n, limit  int
		want      int
		truncated bool
	}{
		{0, 32, 0, false},
		{32, 32, 32, false},
		{33, 32, 32, true},
		{200, 32, 32, true},
		{-1, 32, 0, false},
	}

	for _, tt := range tests {
		got, truncated := ClampLen(tt.n, tt.limit)
		assert.Equal(t, tt.want, got, "ClampLen(%d, %d)", tt.n, tt.limit)
		assert.Equal(t, tt.truncated, truncated, "ClampLen(%d, %d) truncated", tt.n, tt.limit)
	}
}
