package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-core/internal/vec"
)

func TestParseObserver(t *testing.T) {
	p, err := parseObserver("1.5,-20,3")
	require.NoError(t, err)
	assert.Equal(t, vec.Vec3Float{X: 1.5, Y: -20, Z: 3}, p)

	_, err = parseObserver("1,2")
	assert.Error(t, err)
}
