package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_OrDefault(t *testing.T) {
	def := (*Config)(nil).OrDefault()
	assert.Equal(t, 16, def.NodeSize)
	assert.NotNil(t, def.Sorter)
	assert.NotNil(t, def.Logger)

	c := (&Config{NodeSize: 4, Madvise: true}).OrDefault()
	assert.Equal(t, 4, c.NodeSize)
	assert.True(t, c.Madvise)
	require.NotNil(t, c.Sorter)
	require.NotNil(t, c.Logger)
}
