package simcore

// AABB3 is an axis-aligned bounding box in 3D (spec §3).
type AABB3 struct {
	Min, Max Vec3
}

// emptyAABB3 is the canonical "no extent yet" box, used as the identity
// element for Union (mirrors the teacher's leaf-list aggregate-bounds
// pattern in leaflist.go, which starts empty and grows via Union).
var emptyAABB3 = AABB3{
	Min: Vec3{X: maxFloat, Y: maxFloat, Z: maxFloat},
	Max: Vec3{X: -maxFloat, Y: -maxFloat, Z: -maxFloat},
}

const maxFloat = 1e300

// IsEmpty reports whether the box is inverted on some axis (min > max), as
// emptyAABB3 is. The zero value AABB3{} is a point at the origin, not empty.
func (b AABB3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Union returns the smallest AABB3 containing both b and o.
func (b AABB3) Union(o AABB3) AABB3 {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return AABB3{
		Min: Vec3{min3(b.Min.X, o.Min.X), min3(b.Min.Y, o.Min.Y), min3(b.Min.Z, o.Min.Z)},
		Max: Vec3{max3(b.Max.X, o.Max.X), max3(b.Max.Y, o.Max.Y), max3(b.Max.Z, o.Max.Z)},
	}
}

// Translate returns b shifted by d.
func (b AABB3) Translate(d Vec3) AABB3 {
	return AABB3{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Expand returns b grown by r on every axis (used to pad a tight CV into a
// loose one, spec §3 "prt_max_cv").
func (b AABB3) Expand(r float64) AABB3 {
	pad := Vec3{r, r, r}
	return AABB3{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

// Overlaps reports whether b and o share any volume. Touching faces count as
// overlapping (matches willow's Rect.Intersects boundary convention).
func (b AABB3) Overlaps(o AABB3) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Contains reports whether o lies entirely within b.
func (b AABB3) Contains(o AABB3) bool {
	return o.Min.X >= b.Min.X && o.Max.X <= b.Max.X &&
		o.Min.Y >= b.Min.Y && o.Max.Y <= b.Max.Y &&
		o.Min.Z >= b.Min.Z && o.Max.Z <= b.Max.Z
}

// Center returns the midpoint of b.
func (b AABB3) Center() Vec3 {
	return Vec3{
		(b.Min.X + b.Max.X) / 2,
		(b.Min.Y + b.Max.Y) / 2,
		(b.Min.Z + b.Max.Z) / 2,
	}
}

// FromCenterRadius builds an AABB3 centred on c with half-extent r on every
// axis — the common case for a particle or object point-sample volume.
func FromCenterRadius(c Vec3, r float64) AABB3 {
	pad := Vec3{r, r, r}
	return AABB3{Min: c.Sub(pad), Max: c.Add(pad)}
}

func min3(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max3(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
