package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeChunks(t *testing.T) {
	chunks := MakeChunks([]int{1, 2, 3, 4, 5}, 2)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunks)
}

func TestMakeChunks_SizeOne(t *testing.T) {
	chunks := MakeChunks([]byte("abc"), 1)
	assert.Equal(t, [][]byte{{'a'}, {'b'}, {'c'}}, chunks)
}
