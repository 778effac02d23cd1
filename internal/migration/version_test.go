package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestVersion(t *testing.T) {
	version, err := LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestChecksumIsStable(t *testing.T) {
	first, err := Checksum()
	require.NoError(t, err)
	require.Len(t, first, 64)

	second, err := Checksum()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseVersion(t *testing.T) {
	v, ok := parseVersion("0001_core_schema.up.sql")
	require.True(t, ok)
	assert.Equal(t, uint(1), v)

	_, ok = parseVersion("no-underscore.sql")
	assert.False(t, ok)

	_, ok = parseVersion("abc_name.up.sql")
	assert.False(t, ok)
}
