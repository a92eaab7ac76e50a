// Package demotree is a minimal fixed-fanout managed data structure used to
// exercise a bufpool.Manager end to end: it is the kind of external index
// structure the buffer manager expects a caller to supply (see DESIGN.md).
package demotree

import (
	"fmt"

	"github.com/tuannm99/leanbuf/internal/bufpool"
)

type node struct {
	children []*bufpool.Swip
}

// Tree is a fixed-fanout tree of pages, each page identified by a swip slot
// that is stable for the tree's lifetime even as its underlying frame is
// evicted and reloaded. It registers itself as the manager's
// ManagedDataStructure and supplies both buffer-manager callbacks.
type Tree struct {
	mgr    *bufpool.Manager
	fanout int

	nodes       map[*bufpool.Swip]*node
	frameToSwip map[*bufpool.Frame]*bufpool.Swip

	root *bufpool.Swip
}

// Build allocates a complete fanout-ary tree of the given depth (depth 0 is
// a single leaf page) and registers it with mgr.
func Build(mgr *bufpool.Manager, fanout, depth int) (*Tree, error) {
	if fanout < 1 {
		return nil, fmt.Errorf("demotree: fanout must be >= 1, got %d", fanout)
	}

	t := &Tree{
		mgr:         mgr,
		fanout:      fanout,
		nodes:       make(map[*bufpool.Swip]*node),
		frameToSwip: make(map[*bufpool.Frame]*bufpool.Swip),
	}
	mgr.RegisterCallbacks(bufpool.Callbacks{
		IterateChildren: t.iterateChildren,
		GetParent:       t.getParent,
	})
	mgr.RegisterDataStructure(t)

	root, err := t.buildNode(depth)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func (t *Tree) buildNode(depth int) (*bufpool.Swip, error) {
	frame, err := t.mgr.AllocatePage()
	if err != nil {
		return nil, fmt.Errorf("demotree: build node: %w", err)
	}

	swip := bufpool.NewSwipFromFrame(frame)
	slot := &swip
	t.nodes[slot] = &node{}
	t.frameToSwip[frame] = slot

	if depth > 0 {
		children := make([]*bufpool.Swip, 0, t.fanout)
		for i := 0; i < t.fanout; i++ {
			child, err := t.buildNode(depth - 1)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		t.nodes[slot].children = children
	}
	return slot, nil
}

// Root returns the swip slot for the tree's root page.
func (t *Tree) Root() *bufpool.Swip { return t.root }

// Resolve fetches swip's frame through the manager, refreshing the
// frame-identity bookkeeping the callbacks rely on. Every traversal of the
// tree must go through Resolve rather than calling Manager.GetFrame
// directly, since a cold read can hand back a different frame than the one
// the node last occupied.
func (t *Tree) Resolve(swip *bufpool.Swip) (*bufpool.Frame, error) {
	frame, err := t.mgr.GetFrame(swip)
	if err != nil {
		return nil, err
	}
	t.frameToSwip[frame] = swip
	return frame, nil
}

// Children returns swip's child slots, or nil for a leaf.
func (t *Tree) Children(swip *bufpool.Swip) []*bufpool.Swip {
	n, ok := t.nodes[swip]
	if !ok {
		return nil
	}
	return n.children
}

func (t *Tree) iterateChildren(frame *bufpool.Frame, visit bufpool.ChildVisitor) bool {
	swip, ok := t.frameToSwip[frame]
	if !ok {
		return false
	}
	for _, child := range t.nodes[swip].children {
		if visit(child) {
			return true
		}
	}
	return false
}

func (t *Tree) getParent(frame *bufpool.Frame, ds bufpool.ManagedDataStructure) *bufpool.Swip {
	swip, ok := t.frameToSwip[frame]
	if !ok {
		panic("demotree: get_parent called for a frame outside the tree")
	}
	return swip
}

// Walk resolves every page in the tree depth-first, touching each one
// through the manager and so driving real hot/cooling/evicted transitions
// across the traversal.
func (t *Tree) Walk() error {
	return t.walk(t.root)
}

func (t *Tree) walk(swip *bufpool.Swip) error {
	frame, err := t.Resolve(swip)
	if err != nil {
		return err
	}
	for _, child := range t.Children(swip) {
		_ = frame
		if err := t.walk(child); err != nil {
			return err
		}
	}
	return nil
}
