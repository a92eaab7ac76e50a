package bufpool

import "container/list"

// evictionQueue is the set of frames currently in the cooling stage,
// ordered FIFO so that pop implements second-chance eviction: a frame not
// re-accessed before reaching the front is the next one evicted. A
// list+map pairing gives O(1) membership test and removal alongside the
// FIFO order a slice alone couldn't provide both of at once.
type evictionQueue struct {
	order   *list.List
	byFrame map[*Frame]*list.Element
}

func newEvictionQueue() *evictionQueue {
	return &evictionQueue{
		order:   list.New(),
		byFrame: make(map[*Frame]*list.Element),
	}
}

// has reports whether frame is currently an eviction candidate.
func (q *evictionQueue) has(frame *Frame) bool {
	_, ok := q.byFrame[frame]
	return ok
}

// add appends frame to the back of the queue. No-op if already present.
func (q *evictionQueue) add(frame *Frame) {
	if q.has(frame) {
		return
	}
	q.byFrame[frame] = q.order.PushBack(frame)
}

// remove drops frame from the queue if present.
func (q *evictionQueue) remove(frame *Frame) {
	elem, ok := q.byFrame[frame]
	if !ok {
		return
	}
	q.order.Remove(elem)
	delete(q.byFrame, frame)
}

// pop removes and returns the frame at the front of the queue, or nil if
// the queue is empty.
func (q *evictionQueue) pop() *Frame {
	elem := q.order.Front()
	if elem == nil {
		return nil
	}
	q.order.Remove(elem)
	frame := elem.Value.(*Frame)
	delete(q.byFrame, frame)
	return frame
}

// count returns the number of frames currently in the queue.
func (q *evictionQueue) count() int {
	return q.order.Len()
}
