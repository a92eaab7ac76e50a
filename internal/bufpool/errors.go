package bufpool

import "errors"

var (
	// ErrPageIDOutOfRange is returned when constructing a swip from a page
	// id larger than MaxPageID.
	ErrPageIDOutOfRange = errors.New("bufpool: page id exceeds MaxPageID")

	// ErrNoFreePage is returned by the SSD region's allocator when its
	// page-id pool is exhausted. The manager does not retry or reclaim
	// automatically; callers must surface this as capacity exhaustion.
	ErrNoFreePage = errors.New("bufpool: no free page id available")

	// ErrIO wraps a failed read/write/flush against the page file.
	ErrIO = errors.New("bufpool: page file I/O error")
)
