package bufpool

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestSwipHasCorrectSize(t *testing.T) {
	require.EqualValues(t, 8, unsafe.Sizeof(Swip{}))
}

func TestSwipDefaultIsEvicted(t *testing.T) {
	swip := NewSwip()
	require.True(t, swip.IsEvicted())
	require.False(t, swip.IsSwizzled())
	require.False(t, swip.IsCooling())
	require.Equal(t, InvalidPageID, swip.PageID())
}

func TestSwipFromPageID(t *testing.T) {
	swip, err := NewSwipFromPageID(PageID(17))
	require.NoError(t, err)
	require.True(t, swip.IsEvicted())
	require.Equal(t, PageID(17), swip.PageID())

	_, err = NewSwipFromPageID(MaxPageID + 1)
	require.ErrorIs(t, err, ErrPageIDOutOfRange)
}

func TestSwipConstructorFrame(t *testing.T) {
	vr := newTestVolatileRegion(t, 4)
	frame := vr.AllocateFrame()

	swip := NewSwipFromFrame(frame)
	require.True(t, swip.IsSwizzled())
	require.False(t, swip.IsCooling())
	require.False(t, swip.IsEvicted())
	require.Same(t, frame, swip.BufferFrame())
}

func TestSwipSwizzleUnswizzleRoundTrip(t *testing.T) {
	vr := newTestVolatileRegion(t, 4)
	frame := vr.AllocateFrame()

	swip := NewSwipFromFrame(frame)
	swip.Unswizzle()
	require.False(t, swip.IsSwizzled())
	require.True(t, swip.IsCooling())
	require.Panics(t, func() { swip.BufferFrame() })
	require.Same(t, frame, swip.BufferFrameIgnoreTags())

	swip.Swizzle()
	require.True(t, swip.IsSwizzled())
	require.False(t, swip.IsCooling())
	require.Same(t, frame, swip.BufferFrame())
}

func TestSwipEvictFromAnyState(t *testing.T) {
	vr := newTestVolatileRegion(t, 4)
	frame := vr.AllocateFrame()

	swizzled := NewSwipFromFrame(frame)
	swizzled.Evict(PageID(9))
	require.True(t, swizzled.IsEvicted())
	require.Equal(t, PageID(9), swizzled.PageID())

	cooling := NewSwipFromFrame(frame)
	cooling.Unswizzle()
	cooling.Evict(PageID(10))
	require.True(t, cooling.IsEvicted())
	require.Equal(t, PageID(10), cooling.PageID())

	evicted, err := NewSwipFromPageID(3)
	require.NoError(t, err)
	evicted.Evict(PageID(11))
	require.True(t, evicted.IsEvicted())
	require.Equal(t, PageID(11), evicted.PageID())
}

func TestSwizzleOnNonCoolingPanics(t *testing.T) {
	vr := newTestVolatileRegion(t, 4)
	frame := vr.AllocateFrame()
	swip := NewSwipFromFrame(frame)
	require.Panics(t, func() { swip.Swizzle() })
}

func TestUnswizzleOnNonSwizzledPanics(t *testing.T) {
	swip, err := NewSwipFromPageID(1)
	require.NoError(t, err)
	require.Panics(t, func() { swip.Unswizzle() })
}
