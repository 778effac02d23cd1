package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "12345", CreatedAt: "2026-03-15T12:00:00Z"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "12345", decoded.ID)
	assert.Equal(t, "2026-03-15T12:00:00Z", decoded.CreatedAt)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("!!not-base64!!")
	assert.Error(t, err)

	_, err = DecodeCursor("bm90LWpzb24")
	assert.Error(t, err)
}

func TestBuildCursorPageInfo(t *testing.T) {
	token := func(v int) string { return "t" }

	info := BuildCursorPageInfo([]int{1, 2, 3}, 2, token)
	require.NotNil(t, info)
	assert.True(t, info.HasMore)
	assert.Equal(t, "t", info.NextPageToken)

	info = BuildCursorPageInfo([]int{1, 2}, 2, token)
	require.NotNil(t, info)
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextPageToken)

	assert.Nil(t, BuildCursorPageInfo([]int{1}, 0, token))
}
