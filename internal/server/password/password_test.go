package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndMatches(t *testing.T) {
	hash, err := Hash("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %q", hash)
	assert.True(t, Matches(hash, "correct horse"))
	assert.False(t, Matches(hash, "wrong"))
}

func TestHash_DifferentSalts(t *testing.T) {
	h1, err := Hash("same password")
	require.NoError(t, err)
	h2, err := Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
