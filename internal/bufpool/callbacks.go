package bufpool

// ManagedDataStructure is the base type for whatever indexing/tree
// structure owns the pages held in this buffer pool. The manager never
// interprets it beyond passing it through to GetParent.
type ManagedDataStructure interface{}

// ChildVisitor is invoked by IterateChildrenFunc for each child swip of a
// frame. It returns true the first time it wants iteration to stop, after
// mutating its own state to reference that child.
type ChildVisitor func(child *Swip) bool

// IterateChildrenFunc iterates over a page's child swips, calling visitor
// for each one. It returns true as soon as visitor returns true for some
// child, and false if no child made visitor return true (including the
// no-children case).
type IterateChildrenFunc func(frame *Frame, visitor ChildVisitor) bool

// GetParentFunc returns a pointer to the swip (inside the parent page, or a
// root slot owned by the data structure) that currently references frame.
type GetParentFunc func(frame *Frame, ds ManagedDataStructure) *Swip

// Callbacks is the small capability interface a managed data structure
// grants the buffer manager (see LeanStore paper §IV.E). Either callback
// may be left nil; the manager then treats the frame as leafless /
// parentless and adjusts behavior accordingly (see Manager.evictPage and
// Manager.maintainCoolingStage).
type Callbacks struct {
	IterateChildren IterateChildrenFunc
	GetParent       GetParentFunc
}
