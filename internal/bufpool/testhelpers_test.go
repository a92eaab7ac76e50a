package bufpool

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestVolatileRegion(t *testing.T, frameCount uint64) *VolatileRegion {
	t.Helper()
	vr, err := NewVolatileRegion(frameCount, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = vr.Close() })
	return vr
}

func newTestSSDRegion(t *testing.T, pageCount uint64) *SSDRegion {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buffer_manager_ssd.data")
	ssd, err := NewSSDRegion(path, pageCount)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ssd.Close() })
	return ssd
}

// newTestManager mirrors the original test harness's create_default_bm
// (256 frames / 512 pages there); here every caller passes both counts.
func newTestManager(t *testing.T, frameCount, pageCount uint64) *Manager {
	t.Helper()
	vr := newTestVolatileRegion(t, frameCount)
	ssd := newTestSSDRegion(t, pageCount)
	return NewManager(vr, ssd)
}

func storeU64(frame *Frame, value uint64) {
	data := frame.Page.Data()
	for i := 0; i < 8; i++ {
		data[i] = byte(value >> (8 * i))
	}
}

func loadU64(frame *Frame) uint64 {
	data := frame.Page.Data()
	var value uint64
	for i := 0; i < 8; i++ {
		value |= uint64(data[i]) << (8 * i)
	}
	return value
}
