package bufpool

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestFrameDirtyRoundTrip(t *testing.T) {
	var frame Frame
	require.False(t, frame.IsDirty())
	frame.MarkDirty()
	require.True(t, frame.IsDirty())
	frame.MarkWrittenBack()
	require.False(t, frame.IsDirty())
}

func TestPageSize(t *testing.T) {
	require.EqualValues(t, PageSize, unsafe.Sizeof(Page{}))
}

func TestFrameSizeIsPageAlignmentMultiple(t *testing.T) {
	require.Zero(t, unsafe.Sizeof(Frame{})%PageAlignment)
}
