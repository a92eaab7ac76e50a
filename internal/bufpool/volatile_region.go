package bufpool

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/unix"
)

const logPrefix = "bufpool: "

// VolatileRegion is the fixed-size in-memory part of the buffer pool: an
// array of frame_count frames, backed by a single hugepage-hinted mmap, plus
// a free list of unused frames. The region owns its backing memory
// exclusively for its lifetime.
type VolatileRegion struct {
	data       []byte
	frames     []Frame
	frameCount uint64

	// freeFrames is a LIFO stack of free frame indices. A slice-based stack
	// gives a deterministic, reproducible allocation order for a given
	// sequence of allocate/free calls, which the random eviction sampler's
	// test suite relies on.
	freeFrames []uint32
}

// NewVolatileRegion allocates frameCount*sizeof(Frame) bytes from the OS and
// default-constructs every frame in place. When hugePages is true, it hints
// the mapping with MADV_HUGEPAGE; the hint is advisory either way —
// transparent hugepages may or may not back the mapping depending on the
// host kernel configuration.
func NewVolatileRegion(frameCount uint64, hugePages bool) (*VolatileRegion, error) {
	if frameCount == 0 {
		return nil, fmt.Errorf("%sframe_count must be > 0", logPrefix)
	}

	size := frameCount * uint64(unsafe.Sizeof(Frame{}))
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("%smmap volatile region: %w", logPrefix, err)
	}
	if hugePages {
		if err := unix.Madvise(data, unix.MADV_HUGEPAGE); err != nil {
			// Hugepages are advisory; a kernel without transparent hugepage
			// support is not fatal.
			slog.Debug(logPrefix+"madvise(MADV_HUGEPAGE) not honored", "error", err)
		}
	}

	framesPtr := (*Frame)(unsafe.Pointer(&data[0]))
	frames := unsafe.Slice(framesPtr, frameCount)

	vr := &VolatileRegion{
		data:       data,
		frames:     frames,
		frameCount: frameCount,
		freeFrames: make([]uint32, 0, frameCount),
	}
	vr.initFreeFrames()
	return vr, nil
}

// initFreeFrames default-constructs every frame and seeds the free list with
// every frame index, descending so that index 0 is handed out first.
func (vr *VolatileRegion) initFreeFrames() {
	for i := vr.frameCount; i > 0; i-- {
		idx := i - 1
		vr.frames[idx] = Frame{PageID: InvalidPageID}
		vr.freeFrames = append(vr.freeFrames, uint32(idx))
	}
}

// Close unmaps the region's backing memory. After Close, the region and any
// frame pointers into it must not be used.
func (vr *VolatileRegion) Close() error {
	if vr.data == nil {
		return nil
	}
	err := unix.Munmap(vr.data)
	vr.data = nil
	vr.frames = nil
	return err
}

// AllocateFrame removes one frame from the free list and returns it.
// Precondition: FreeFrameCount() > 0; the buffer manager is responsible for
// ensuring this before calling AllocateFrame. Calling it on an empty free
// list is a buffer-manager bug and panics.
func (vr *VolatileRegion) AllocateFrame() *Frame {
	n := len(vr.freeFrames)
	if n == 0 {
		panic("bufpool: AllocateFrame() called with no free frames")
	}
	idx := vr.freeFrames[n-1]
	vr.freeFrames = vr.freeFrames[:n-1]
	return &vr.frames[idx]
}

// FreeFrame re-initializes frame in place (resetting its page id to
// InvalidPageID and clearing dirty) and returns it to the free list.
func (vr *VolatileRegion) FreeFrame(frame *Frame) {
	frame.reset()
	idx := vr.indexOf(frame)
	vr.freeFrames = append(vr.freeFrames, idx)
}

// Frames returns the address of the first frame in the region.
func (vr *VolatileRegion) Frames() *Frame {
	if len(vr.frames) == 0 {
		return nil
	}
	return &vr.frames[0]
}

// FrameAt returns the frame at the given index, used by the random eviction
// sampler.
func (vr *VolatileRegion) FrameAt(index uint64) *Frame {
	return &vr.frames[index]
}

// FrameCount returns the total number of frames in the region.
func (vr *VolatileRegion) FrameCount() uint64 { return vr.frameCount }

// FreeFrameCount returns the number of frames currently on the free list.
func (vr *VolatileRegion) FreeFrameCount() uint64 { return uint64(len(vr.freeFrames)) }

// AddressInRange reports whether frame lies within this region's backing
// memory.
func (vr *VolatileRegion) AddressInRange(frame *Frame) bool {
	if len(vr.frames) == 0 {
		return false
	}
	begin := uintptr(unsafe.Pointer(&vr.frames[0]))
	end := begin + uintptr(vr.frameCount)*unsafe.Sizeof(Frame{})
	addr := uintptr(unsafe.Pointer(frame))
	return addr >= begin && addr < end
}

func (vr *VolatileRegion) indexOf(frame *Frame) uint32 {
	begin := uintptr(unsafe.Pointer(&vr.frames[0]))
	addr := uintptr(unsafe.Pointer(frame))
	return uint32((addr - begin) / unsafe.Sizeof(Frame{}))
}
