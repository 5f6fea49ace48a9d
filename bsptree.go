package simcore

import "math"

// branchNodeThreshold is BRANCH_NODE_THRESHOLD from spec §4.1: once a
// branch's unsorted list grows past this many leaves, half of it is drained
// one level deeper before the triggering insert returns.
const branchNodeThreshold = 5

// classification is the OUTSIDE/INTERSECT/INSIDE result of comparing a query
// volume against a branch's aggregate bounds (spec §4.1, "Query — AABB").
type classification int

const (
	classOutside classification = iota
	classIntersect
	classInside
)

// BSPTree is the n-dimensional BSP spatial index of spec §4.1. d is fixed at
// construction; 1 <= d <= maxBSPDim, each branch having 2^d child slots.
type BSPTree struct {
	dim      int
	maxDepth int

	root     *branch
	infinite LeafList

	freeHead *branch
	usedHead *branch
	nfree    int
	nused    int

	bounds           AABB3
	observedMaxDepth int

	// logf surfaces CapacityExhausted/InvariantViolation conditions (spec
	// §7) to the owning World's debug-gated stderr log. Left nil (a no-op)
	// for trees constructed outside a World, e.g. in tests.
	logf func(format string, args ...any)
}

// log calls logf if set; safe to call on a tree with no logger wired.
func (t *BSPTree) log(format string, args ...any) {
	if t.logf != nil {
		t.logf(format, args...)
	}
}

// NewBSPTree builds a tree of dimensionality d and maximum depth h, rooted
// on worldBounds, with its branch pool fully preallocated up front (spec
// §4.1, "Construction"). Returns InvalidArgument if d is out of range.
func NewBSPTree(d, maxDepth int, worldBounds AABB3) (*BSPTree, error) {
	if d < 1 || d > maxBSPDim {
		return nil, newSimError(InvalidArgument, "NewBSPTree", "dimensionality out of range [1,63]")
	}
	if maxDepth < 0 {
		return nil, newSimError(InvalidArgument, "NewBSPTree", "maxDepth must be >= 0")
	}

	poolSize, err := poolSizeFor(d, maxDepth)
	if err != nil {
		return nil, err
	}

	t := &BSPTree{
		dim:      d,
		maxDepth: maxDepth,
		infinite: newLeafList(),
		bounds:   emptyAABB3,
	}

	for i := 0; i < poolSize; i++ {
		b := newBranch(d)
		b.poolNext = t.freeHead
		t.freeHead = b
		t.nfree++
	}

	t.root = t.popFree()
	lmin, lmax := aabb3ToAxes(worldBounds, d)
	t.root.bounds.setFromBounds(lmin, lmax)
	return t, nil
}

// poolSizeFor computes ceil((2^(d*(h+1)) - 1) / (2^d - 1)), the number of
// branches a full tree of dimensionality d and depth h could ever need
// (spec §4.1). Capped well below any realistic fixed-point overflow; returns
// CapacityExhausted if the requested tree would need an unreasonable pool.
func poolSizeFor(d, h int) (int, error) {
	const cap = 1 << 20
	branchesPerLevel := 1.0
	total := 0.0
	levelSize := math.Pow(2, float64(d))
	for level := 0; level <= h; level++ {
		total += branchesPerLevel
		branchesPerLevel *= levelSize
		if total > cap {
			return 0, newSimError(CapacityExhausted, "NewBSPTree", "requested tree dimensionality/depth needs too large a branch pool")
		}
	}
	return int(math.Ceil(total)), nil
}

func (t *BSPTree) popFree() *branch {
	if t.freeHead == nil {
		return nil
	}
	b := t.freeHead
	t.freeHead = b.poolNext
	t.nfree--
	b.poolNext = t.usedHead
	t.usedHead = b
	t.nused++
	return b
}

func (t *BSPTree) pushFree(b *branch) {
	b.reset()
	b.poolNext = t.freeHead
	t.freeHead = b
	t.nfree++
}

// Insert adds leaf to the tree (spec §4.1, "Insertion"). If leaf's bounds
// are not contained in the tree's root AABB, leaf is routed to the infinite
// list instead. If the branch pool is exhausted while draining, the
// condition is logged and the leaf that found no free branch is routed to
// the infinite list (see maybeDrain).
func (t *BSPTree) Insert(leaf *Leaf) error {
	if leaf == nil {
		panic("simcore: cannot insert nil leaf")
	}
	lmin, lmax := aabb3ToAxes(leaf.Bounds, t.dim)
	if !t.root.bounds.contains(lmin, lmax) {
		t.infinite.Push(leaf)
		return nil
	}

	exhausted, err := t.insertAtBranch(t.root, leaf)
	if err != nil {
		return err
	}
	if exhausted {
		t.log("branch pool exhausted, routing leaf to infinite list")
	}
	t.bounds = t.bounds.Union(leaf.Bounds)
	if t.root.depth > t.observedMaxDepth {
		t.observedMaxDepth = t.root.depth
	}
	return nil
}

// insertAtBranch is the recursive step of Insert, also used by the unsorted
// drain to push a leaf one level deeper. Returns exhausted=true if a child
// needed to be materialised but the branch pool was empty.
func (t *BSPTree) insertAtBranch(b *branch, leaf *Leaf) (exhausted bool, err error) {
	if b.depth > t.observedMaxDepth {
		t.observedMaxDepth = b.depth
	}
	if b.depth >= t.maxDepth {
		b.sorted.Push(leaf)
		t.bubbleBounds(b)
		return false, nil
	}

	lmin, lmax := aabb3ToAxes(leaf.Bounds, t.dim)
	idx := b.bounds.subspaceIndex(lmin, lmax)
	switch {
	case idx == -1:
		b.sorted.Push(leaf)
		t.bubbleBounds(b)
		return false, nil
	case idx == -2:
		return false, newSimError(EngineLogic, "insert_leaf", "leaf does not fit branch bounds below root")
	default:
		b.unsorted.Push(leaf)
		t.bubbleBounds(b)
		if exh := t.maybeDrain(b); exh {
			return true, nil
		}
		return false, nil
	}
}

// maybeDrain implements the unsorted-list overflow drain of spec §4.1: once
// len(unsorted) exceeds branchNodeThreshold, half of it is pushed one level
// deeper. Returns true if the branch pool ran dry mid-drain: the drained
// leaf that found no free branch is routed to the infinite list (unless it
// already landed in a deeper branch), and the leaves not yet drained stay
// in b.unsorted, so no leaf is lost.
func (t *BSPTree) maybeDrain(b *branch) (exhausted bool) {
	if b.unsorted.Len() <= branchNodeThreshold {
		return false
	}
	target := b.unsorted.Len() / 2
	for b.unsorted.Len() > target {
		drained := b.unsorted.drain(1)
		if len(drained) == 0 {
			break
		}
		leaf := drained[0]
		if exh := t.pushOneLevelDeeper(b, leaf); exh {
			if !leaf.Inserted {
				t.infinite.Push(leaf)
			}
			return true
		}
	}
	return false
}

// pushOneLevelDeeper materialises (or reuses) the child subspace for leaf
// and inserts it there, one level below b.
func (t *BSPTree) pushOneLevelDeeper(b *branch, leaf *Leaf) (exhausted bool) {
	lmin, lmax := aabb3ToAxes(leaf.Bounds, t.dim)
	idx := b.bounds.subspaceIndex(lmin, lmax)
	if idx < 0 {
		b.sorted.Push(leaf)
		t.bubbleBounds(b)
		return false
	}
	child := b.children[idx]
	if child == nil {
		child = t.popFree()
		if child == nil {
			return true
		}
		child.bounds = b.bounds.childBounds(idx)
		child.parent = b
		child.depth = b.depth + 1
		b.children[idx] = child
	}
	exh, err := t.insertAtBranch(child, leaf)
	if err != nil {
		// leaf does not fit below root: treat as unroutable, drop to sorted
		// at the current branch rather than lose it.
		b.sorted.Push(leaf)
		t.bubbleBounds(b)
		return false
	}
	return exh
}

// bubbleBounds recomputes childBounds for every ancestor of b (spec §4.1:
// "update the branch's and its ancestors' aggregate bounds").
func (t *BSPTree) bubbleBounds(b *branch) {
	for p := b.parent; p != nil; p = p.parent {
		p.refreshChildBounds()
	}
}

// Prune walks the used branch list once, returning prunable branches (empty,
// non-root, childless) to the free list (spec §4.1, "Pruning"). Returns the
// number of branches reclaimed.
func (t *BSPTree) Prune() int {
	reclaimed := 0
	var prev *branch
	cur := t.usedHead
	for cur != nil {
		next := cur.poolNext
		if cur != t.root && cur.isEmpty() {
			if prev == nil {
				t.usedHead = next
			} else {
				prev.poolNext = next
			}
			t.nused--
			if parent := cur.parent; parent != nil {
				found := false
				for i, c := range parent.children {
					if c == cur {
						parent.children[i] = nil
						found = true
						break
					}
				}
				if !found {
					t.log("invariant violation: pruned branch not found in parent's child slots")
				}
				parent.refreshChildBounds()
			}
			t.pushFree(cur)
			reclaimed++
		} else {
			prev = cur
		}
		cur = next
	}
	return reclaimed
}

// CollideAABB returns every leaf whose bounds overlap query, subject to
// pred (which may be nil to accept every geometric match). Matches spec
// §4.1, "Query — AABB": the infinite list is tested unconditionally; the
// finite tree is walked with OUTSIDE/INTERSECT/INSIDE shortcuts.
func (t *BSPTree) CollideAABB(query AABB3, pred func(*Leaf) bool) []*Leaf {
	var out []*Leaf
	t.infinite.Each(func(l *Leaf) {
		if l.Bounds.Overlaps(query) && (pred == nil || pred(l)) {
			out = append(out, l)
		}
	})
	t.collideBranchAABB(t.root, query, pred, &out)
	return out
}

func (t *BSPTree) collideBranchAABB(b *branch, query AABB3, pred func(*Leaf) bool, out *[]*Leaf) {
	classifyAndCollect(b.unsorted, query, pred, out)
	classifyAndCollect(b.sorted, query, pred, out)

	switch classifyAABB(query, b.childBounds) {
	case classOutside:
		return
	case classInside:
		collectAllChildren(b, pred, out)
		return
	default:
		for _, c := range b.children {
			if c != nil {
				t.collideBranchAABB(c, query, pred, out)
			}
		}
	}
}

// classifyAndCollect runs the INTERSECT-level per-leaf test against the
// aggregate bound of a single list (unsorted or sorted), using the INSIDE
// shortcut to skip the per-leaf AABB test when the whole list is contained.
func classifyAndCollect(list LeafList, query AABB3, pred func(*Leaf) bool, out *[]*Leaf) {
	switch classifyAABB(query, list.Bounds) {
	case classOutside:
		return
	case classInside:
		list.Each(func(l *Leaf) {
			if pred == nil || pred(l) {
				*out = append(*out, l)
			}
		})
	default:
		list.Each(func(l *Leaf) {
			if l.Bounds.Overlaps(query) && (pred == nil || pred(l)) {
				*out = append(*out, l)
			}
		})
	}
}

func collectAllChildren(b *branch, pred func(*Leaf) bool, out *[]*Leaf) {
	collectList := func(list LeafList) {
		list.Each(func(l *Leaf) {
			if pred == nil || pred(l) {
				*out = append(*out, l)
			}
		})
	}
	collectList(b.unsorted)
	collectList(b.sorted)
	for _, c := range b.children {
		if c != nil {
			collectAllChildren(c, pred, out)
		}
	}
}

// classifyAABB classifies box against query: OUTSIDE (no overlap), INSIDE
// (box wholly contained in query), or INTERSECT (partial overlap).
func classifyAABB(query, box AABB3) classification {
	if box.IsEmpty() || !query.Overlaps(box) {
		return classOutside
	}
	if query.Contains(box) {
		return classInside
	}
	return classIntersect
}

// CollideFrustum is the frustum-query analogue of CollideAABB (spec §4.1,
// "Query — frustum"): identical branch-walking structure, using
// frustum-vs-AABB classification in place of AABB-vs-AABB.
func (t *BSPTree) CollideFrustum(f Frustum, pred func(*Leaf) bool) []*Leaf {
	var out []*Leaf
	t.infinite.Each(func(l *Leaf) {
		if f.Classify(l.Bounds) != classOutside && (pred == nil || pred(l)) {
			out = append(out, l)
		}
	})
	t.collideBranchFrustum(t.root, f, pred, &out)
	return out
}

func (t *BSPTree) collideBranchFrustum(b *branch, f Frustum, pred func(*Leaf) bool, out *[]*Leaf) {
	collectByFrustum := func(list LeafList) {
		switch f.Classify(list.Bounds) {
		case classOutside:
			return
		case classInside:
			list.Each(func(l *Leaf) {
				if pred == nil || pred(l) {
					*out = append(*out, l)
				}
			})
		default:
			list.Each(func(l *Leaf) {
				if f.Classify(l.Bounds) != classOutside && (pred == nil || pred(l)) {
					*out = append(*out, l)
				}
			})
		}
	}
	collectByFrustum(b.unsorted)
	collectByFrustum(b.sorted)

	switch f.Classify(b.childBounds) {
	case classOutside:
		return
	case classInside:
		collectAllChildren(b, pred, out)
		return
	default:
		for _, c := range b.children {
			if c != nil {
				t.collideBranchFrustum(c, f, pred, out)
			}
		}
	}
}

// Stats reports the branch-pool partition invariant of spec §3:
// nfree + nused == total pool size.
func (t *BSPTree) Stats() (nfree, nused, observedMaxDepth int) {
	return t.nfree, t.nused, t.observedMaxDepth
}
