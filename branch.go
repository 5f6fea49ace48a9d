package simcore

// branch is a BSP tree interior node (spec §3, "Branch"). Children are
// materialised lazily: a nil slot means no leaf has ever required that
// subspace. Branches are recycled through the tree's free/used intrusive
// lists (poolNext) rather than garbage collected, mirroring the teacher's
// Node pool-free pattern in the willow scene graph.
type branch struct {
	bounds BSPAABB

	children []*branch // len == 2^d
	sorted   LeafList
	unsorted LeafList

	parent *branch
	depth  int

	// aggregate bound of every non-nil child's own aggregate (children +
	// sorted + unsorted), used by the query classifier to shortcut an
	// entire subtree.
	childBounds AABB3

	poolNext *branch // intrusive free/used list link; see bsptree.go
}

func newBranch(d int) *branch {
	return &branch{
		bounds:   newBSPAABB(d),
		children: make([]*branch, 1<<uint(d)),
		sorted:   newLeafList(),
		unsorted: newLeafList(),
	}
}

// reset clears b back to an unlinked, empty state before it is returned to
// the free list.
func (b *branch) reset() {
	for i := range b.children {
		b.children[i] = nil
	}
	b.sorted.Clear()
	b.unsorted.Clear()
	b.parent = nil
	b.depth = 0
	b.childBounds = emptyAABB3
	b.bounds.valid = false
}

// aggregateBounds is the union of everything reachable under b: its own
// sorted/unsorted leaves plus every child's aggregateBounds. This is the
// bound the query classifier (OUTSIDE/INTERSECT/INSIDE) tests against.
func (b *branch) aggregateBounds() AABB3 {
	out := b.sorted.Bounds.Union(b.unsorted.Bounds)
	return out.Union(b.childBounds)
}

// isEmpty reports whether b carries no leaves and no materialised children —
// the pruning precondition of spec §4.1 (root is excluded by the caller).
func (b *branch) isEmpty() bool {
	if b.sorted.Len() != 0 || b.unsorted.Len() != 0 {
		return false
	}
	for _, c := range b.children {
		if c != nil {
			return false
		}
	}
	return true
}

// refreshChildBounds recomputes childBounds from the current child slots.
// Called after a child's own bounds change, bottom-up.
func (b *branch) refreshChildBounds() {
	out := emptyAABB3
	for _, c := range b.children {
		if c != nil {
			out = out.Union(c.aggregateBounds())
		}
	}
	b.childBounds = out
}
