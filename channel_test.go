package scpi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParamChannelListSingleEntries(t *testing.T) {
	c := paramTestContext(t, "(@1,3:5)")
	entries, ok := c.ParamChannelList(true)
	require.True(t, ok)
	require.Len(t, entries, 2)

	require.False(t, entries[0].IsRange)
	require.Equal(t, []int32{1}, entries[0].From)

	require.True(t, entries[1].IsRange)
	require.Equal(t, []int32{3}, entries[1].From)
	require.Equal(t, []int32{5}, entries[1].To)
}

func TestParamChannelListMultiDimension(t *testing.T) {
	c := paramTestContext(t, "(@2!1:2!4)")
	entries, ok := c.ParamChannelList(true)
	require.True(t, ok)
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsRange)
	require.Equal(t, 2, entries[0].Dimensions)
	require.Equal(t, []int32{2, 1}, entries[0].From)
	require.Equal(t, []int32{2, 4}, entries[0].To)
}

func TestParamChannelListRejectsBadSyntax(t *testing.T) {
	c := paramTestContext(t, "(1,2)")
	_, ok := c.ParamChannelList(true)
	require.False(t, ok)
	require.Equal(t, ErrInvalidStringData, c.ErrorPop().Code)
}
