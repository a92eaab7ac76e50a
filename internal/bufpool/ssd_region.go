package bufpool

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"
)

// SSDRegion is the on-disk part of the buffer pool: a page file opened with
// direct I/O, holding page_count fixed-size pages addressed by ascending
// PageID, plus a free-id pool that prefers the most recently freed id.
type SSDRegion struct {
	fd        int
	path      string
	pageCount uint64

	// freePages is a stack of available page ids. allocate_page_id pops
	// from the top, so a freed id is reused before any id that has never
	// been allocated.
	freePages []PageID
}

// NewSSDRegion opens (creating and truncating if necessary) the page file
// at path with direct I/O and sizes it to hold pageCount pages.
func NewSSDRegion(path string, pageCount uint64) (*SSDRegion, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_DIRECT, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%sopen page file %q: %w", logPrefix, path, err)
	}

	size := int64(pageCount) * PageSize
	if err := unix.Ftruncate(fd, size); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%struncate page file %q to %d bytes: %w", logPrefix, path, size, err)
	}

	ssd := &SSDRegion{fd: fd, path: path, pageCount: pageCount}
	ssd.initFreePages()
	return ssd, nil
}

// initFreePages seeds the free pool with every id in [0, pageCount), seeded
// in descending order so the stack's top yields 0, then 1, and so on, until
// freed ids start getting pushed on top.
func (ssd *SSDRegion) initFreePages() {
	ssd.freePages = make([]PageID, 0, ssd.pageCount)
	for i := ssd.pageCount; i > 0; i-- {
		ssd.freePages = append(ssd.freePages, PageID(i-1))
	}
}

// Close closes the backing file descriptor.
func (ssd *SSDRegion) Close() error {
	if ssd.fd < 0 {
		return nil
	}
	err := unix.Close(ssd.fd)
	ssd.fd = -1
	return err
}

// AllocatePageID returns and removes one id from the free pool: the most
// recently freed id, or the next ascending unused id if the free pool was
// never used.
func (ssd *SSDRegion) AllocatePageID() (PageID, error) {
	n := len(ssd.freePages)
	if n == 0 {
		return 0, ErrNoFreePage
	}
	id := ssd.freePages[n-1]
	ssd.freePages = ssd.freePages[:n-1]
	return id, nil
}

// FreePageID returns pageID to the free pool, making it the next id
// AllocatePageID will hand out.
func (ssd *SSDRegion) FreePageID(pageID PageID) {
	ssd.freePages = append(ssd.freePages, pageID)
}

// ReadPage reads PageSize bytes at the offset for pageID into dst. dst must
// be PageSize bytes and, for true direct I/O, 512-byte aligned (frames
// carved out of a VolatileRegion satisfy this).
func (ssd *SSDRegion) ReadPage(dst []byte, pageID PageID) error {
	if len(dst) != PageSize {
		return fmt.Errorf("%sread_page: dst must be %d bytes, got %d", logPrefix, PageSize, len(dst))
	}
	n, err := unix.Pread(ssd.fd, dst, int64(pageID)*PageSize)
	if err != nil {
		slog.Error(logPrefix+"read_page failed", "page_id", pageID, "error", err)
		return fmt.Errorf("%w: read page %d: %v", ErrIO, pageID, err)
	}
	if n != PageSize {
		return fmt.Errorf("%w: short read of page %d (%d of %d bytes)", ErrIO, pageID, n, PageSize)
	}
	return nil
}

// WritePage writes PageSize bytes from src to the offset for pageID and
// forces a durable flush before returning.
func (ssd *SSDRegion) WritePage(src []byte, pageID PageID) error {
	if len(src) != PageSize {
		return fmt.Errorf("%swrite_page: src must be %d bytes, got %d", logPrefix, PageSize, len(src))
	}
	n, err := unix.Pwrite(ssd.fd, src, int64(pageID)*PageSize)
	if err != nil {
		slog.Error(logPrefix+"write_page failed", "page_id", pageID, "error", err)
		return fmt.Errorf("%w: write page %d: %v", ErrIO, pageID, err)
	}
	if n != PageSize {
		return fmt.Errorf("%w: short write of page %d (%d of %d bytes)", ErrIO, pageID, n, PageSize)
	}
	if err := unix.Fsync(ssd.fd); err != nil {
		return fmt.Errorf("%w: fsync after writing page %d: %v", ErrIO, pageID, err)
	}
	return nil
}

// PageCount returns the total number of pages in the region.
func (ssd *SSDRegion) PageCount() uint64 { return ssd.pageCount }

// FreePageCount returns the number of currently unallocated page ids.
func (ssd *SSDRegion) FreePageCount() uint64 { return uint64(len(ssd.freePages)) }
