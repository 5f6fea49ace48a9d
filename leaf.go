package simcore

// LeafKind tags what a Leaf's payload refers to.
type LeafKind uint8

const (
	LeafObject LeafKind = iota
	LeafParticle
	LeafTile
)

func (k LeafKind) String() string {
	switch k {
	case LeafObject:
		return "Object"
	case LeafParticle:
		return "Particle"
	case LeafTile:
		return "Tile"
	default:
		return "Unknown"
	}
}

// Leaf is a reference to an external payload plus the bounding volume the
// BSP tree indexes it by (spec §3, "Leaf"). A Leaf may be in at most one
// leaf list at a time; Inserted enforces that invariant and next chains it
// into whichever list currently owns it.
type Leaf struct {
	Kind    LeafKind
	Ref     any
	Bounds  AABB3
	Inserted bool

	next *Leaf
}

// NewLeaf builds a detached Leaf (Inserted is false until a LeafList takes
// it).
func NewLeaf(kind LeafKind, ref any, bounds AABB3) *Leaf {
	return &Leaf{Kind: kind, Ref: ref, Bounds: bounds}
}
