package bufpool

import (
	"log/slog"
	"math/rand"
)

// Manager orchestrates page allocation, swip resolution, and the
// eviction-candidate maintenance that keeps the cooling stage populated.
// It assumes a single caller: no operation here takes a lock.
type Manager struct {
	volatile *VolatileRegion
	ssd      *SSDRegion

	callbacks     Callbacks
	dataStructure ManagedDataStructure

	candidates *evictionQueue
	rng        *rand.Rand

	frameCountMax              uint64
	framesNeededInCoolingStage uint64
	fiftyPercentFrames         uint64
}

// NewManager builds a Manager over the given regions. The regions' frame
// and page counts are fixed for the manager's lifetime.
func NewManager(volatile *VolatileRegion, ssd *SSDRegion) *Manager {
	frameCountMax := volatile.FrameCount()
	return &Manager{
		volatile:                   volatile,
		ssd:                        ssd,
		candidates:                 newEvictionQueue(),
		rng:                        rand.New(rand.NewSource(rngSeed)),
		frameCountMax:              frameCountMax,
		framesNeededInCoolingStage: uint64(float64(frameCountMax) * shareCoolingPages),
		fiftyPercentFrames:         uint64(float64(frameCountMax) * shareUsedPagesBeforeCooling),
	}
}

// RegisterCallbacks installs the data structure's child-iteration and
// parent-lookup callbacks. Either may be left zero-valued.
func (m *Manager) RegisterCallbacks(cb Callbacks) {
	m.callbacks = cb
}

// RegisterDataStructure registers the opaque data structure passed verbatim
// to GetParent.
func (m *Manager) RegisterDataStructure(ds ManagedDataStructure) {
	m.dataStructure = ds
}

// AllocatePage obtains a fresh page id and a fresh frame, evicting a
// cooling candidate first if no frame is free, and runs cooling-stage
// maintenance afterward.
func (m *Manager) AllocatePage() (*Frame, error) {
	if m.volatile.FreeFrameCount() == 0 {
		if err := m.evictPage(); err != nil {
			return nil, err
		}
	}

	frame := m.volatile.AllocateFrame()
	pageID, err := m.ssd.AllocatePageID()
	if err != nil {
		m.volatile.FreeFrame(frame)
		return nil, err
	}
	frame.PageID = pageID
	m.maintainCoolingStage(frame)

	slog.Debug(logPrefix+"allocate_page", "page_id", pageID)
	return frame, nil
}

// FreePage releases frame's page id back to the SSD pool and the frame
// itself back to the volatile pool. The page id must be freed first: once
// the frame is returned, its PageID field is reset to InvalidPageID.
func (m *Manager) FreePage(frame *Frame) {
	m.ssd.FreePageID(frame.PageID)
	m.volatile.FreeFrame(frame)
}

// GetFrame resolves swip to its frame, materializing the page from disk if
// necessary. A cooling swip is swizzled and removed from the
// eviction-candidate queue; an evicted swip triggers an allocation (and
// possibly an eviction) followed by a disk read.
func (m *Manager) GetFrame(swip *Swip) (*Frame, error) {
	if swip.IsSwizzled() {
		return swip.BufferFrame(), nil
	}

	if swip.IsCooling() {
		swip.Swizzle()
		frame := swip.BufferFrame()
		m.candidates.remove(frame)
		m.maintainCoolingStage(frame)
		return frame, nil
	}

	// Evicted: load the page into a fresh frame.
	if m.volatile.FreeFrameCount() == 0 {
		if err := m.evictPage(); err != nil {
			return nil, err
		}
	}

	frame := m.volatile.AllocateFrame()
	pageID := swip.PageID()
	frame.PageID = pageID
	// Maintenance must run after the frame is taken out of the free list
	// (so the random sampler cannot rediscover it) but before the disk
	// read, so the sampler never sees a frame whose page id is not yet set.
	m.maintainCoolingStage(frame)

	swip.SwizzleFrame(frame)

	if err := m.ssd.ReadPage(frame.Page.Data(), pageID); err != nil {
		return nil, err
	}
	return frame, nil
}

// flush writes frame's page to disk and clears its dirty bit.
func (m *Manager) flush(frame *Frame) error {
	if err := m.ssd.WritePage(frame.Page.Data(), frame.PageID); err != nil {
		return err
	}
	frame.MarkWrittenBack()
	return nil
}

// evictPage dequeues the front eviction candidate, flushes it if dirty,
// transitions its parent swip to evicted, and returns the frame to the
// volatile free pool.
func (m *Manager) evictPage() error {
	frame := m.candidates.pop()
	if frame == nil {
		panic("bufpool: evictPage() called with an empty eviction-candidate queue")
	}

	if frame.IsDirty() {
		if err := m.flush(frame); err != nil {
			return err
		}
	}

	pageID := frame.PageID
	if m.callbacks.GetParent != nil {
		swip := m.callbacks.GetParent(frame, m.dataStructure)
		swip.Evict(pageID)
	}

	m.volatile.FreeFrame(frame)
	slog.Debug(logPrefix+"evict_page", "page_id", pageID)
	return nil
}

// addEvictionCandidate appends frame to the cooling queue and, if a parent
// callback is registered, unswizzles the parent swip. No-op if frame is
// already a candidate.
func (m *Manager) addEvictionCandidate(frame *Frame) {
	if m.candidates.has(frame) {
		return
	}
	m.candidates.add(frame)
	if m.callbacks.GetParent != nil {
		swip := m.callbacks.GetParent(frame, m.dataStructure)
		swip.Unswizzle()
	}
}

// removeEvictionCandidate drops frame from the cooling queue if present.
func (m *Manager) removeEvictionCandidate(frame *Frame) {
	m.candidates.remove(frame)
}

// hasEvictionCandidate reports whether frame is in the cooling queue.
func (m *Manager) hasEvictionCandidate(frame *Frame) bool {
	return m.candidates.has(frame)
}

// popEvictionCandidate removes and returns the front of the cooling queue.
func (m *Manager) popEvictionCandidate() *Frame {
	return m.candidates.pop()
}

// evictionCandidateCount returns the number of frames in the cooling queue.
func (m *Manager) evictionCandidateCount() int {
	return m.candidates.count()
}

// randomFrame draws a uniformly random frame from the volatile region using
// the manager's deterministically-seeded generator. Do not change the
// draw sequence: the concrete test scenarios assume it.
func (m *Manager) randomFrame() *Frame {
	offset := uint64(m.rng.Int63n(int64(m.frameCountMax)))
	return m.volatile.FrameAt(offset)
}

// maintainCoolingStage is triggered after every allocation that consumes a
// free frame. Once at least fiftyPercentFrames are in use, it samples
// random frames, descends each candidate's child-swip graph (if a callback
// is registered) until a frame with no swizzled children is found, and adds
// that frame to the eviction-candidate queue, until the queue reaches
// framesNeededInCoolingStage.
func (m *Manager) maintainCoolingStage(justAllocated *Frame) {
	used := m.frameCountMax - m.volatile.FreeFrameCount()
	if used < m.fiftyPercentFrames {
		return
	}

	for uint64(m.candidates.count()) < m.framesNeededInCoolingStage {
		candidate := m.randomFrame()
		if candidate == justAllocated || candidate.PageID == InvalidPageID {
			continue
		}

		if m.callbacks.IterateChildren == nil {
			m.addEvictionCandidate(candidate)
			continue
		}

		for {
			visitChild := func(child *Swip) bool {
				if child.IsSwizzled() {
					candidate = child.BufferFrame()
					return true
				}
				return false
			}
			if !m.callbacks.IterateChildren(candidate, visitChild) {
				m.addEvictionCandidate(candidate)
				break
			}
		}
	}
}
