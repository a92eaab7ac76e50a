package bufpool

// Page is the fixed-size, 512-byte-aligned on-disk/in-memory payload unit.
// Its size and alignment are required by the SSD region's direct I/O.
type Page struct {
	data [PageSize]byte
}

// Data returns the page's raw byte slice.
func (p *Page) Data() []byte { return p.data[:] }

// reset zeroes the page payload in place.
func (p *Page) reset() {
	for i := range p.data {
		p.data[i] = 0
	}
}

// Frame is the in-memory container for one page plus the metadata the
// buffer manager needs to track it. Frames are carved out of a
// VolatileRegion's backing allocation; the manager never allocates a Frame
// on its own.
type Frame struct {
	// Page holds the frame's payload. It is interleaved with the rest of
	// the frame's metadata so that accessing a hot page only touches one
	// cache line neighborhood.
	Page Page

	// PageID is the identity of the page currently held by this frame.
	// InvalidPageID marks a frame that is on the volatile region's free list.
	PageID PageID

	// dirty marks whether Page has been modified since it was last flushed
	// or read from disk.
	dirty bool

	// ParentFrame is used only by the surrounding data structure; the
	// manager itself never dereferences it. Kept because the algorithm it
	// would support (fast upward traversal) belongs to the data structure,
	// not to the buffer pool, but removing the field invites the data
	// structure to reinvent its own out-of-band parent index.
	ParentFrame *Frame

	// pad rounds sizeof(Frame) up to a multiple of PageAlignment so that
	// every frame's Page field starts at a 512-byte-aligned offset from the
	// volatile region's (page-aligned) mmap base, which direct I/O requires.
	pad [488]byte
}

// MarkDirty marks the frame's page as modified.
func (f *Frame) MarkDirty() { f.dirty = true }

// MarkWrittenBack marks the frame's page as written back / not dirty.
func (f *Frame) MarkWrittenBack() { f.dirty = false }

// IsDirty reports whether the frame's page has been modified since the
// last flush.
func (f *Frame) IsDirty() bool { return f.dirty }

// reset re-initializes the frame as if freshly placed into the volatile
// region: no page id, not dirty, zeroed payload, no parent.
func (f *Frame) reset() {
	f.PageID = InvalidPageID
	f.dirty = false
	f.ParentFrame = nil
	f.Page.reset()
}
