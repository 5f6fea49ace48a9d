package simcore

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// OBB is the octagonal bounding box of spec §3: an eight-sided prism used as
// a per-frame collision volume. Four axis-aligned bounds plus four diagonal
// bounds (along the XY diagonals u=x+y and v=x-y) approximate a character's
// silhouette more closely than an AABB while remaining cheap to test — the
// corners of an AABB are chopped off by the diagonal planes.
type OBB struct {
	XMin, XMax float64
	YMin, YMax float64
	UMin, UMax float64 // diagonal axis u = x + y
	VMin, VMax float64 // diagonal axis v = x - y
	ZMin, ZMax float64
}

// OBBFromAABB builds a degenerate OBB (no diagonal chopping) from an AABB3,
// used where the source data has no silhouette information to exploit.
func OBBFromAABB(b AABB3) OBB {
	return OBB{
		XMin: b.Min.X, XMax: b.Max.X,
		YMin: b.Min.Y, YMax: b.Max.Y,
		UMin: b.Min.X + b.Min.Y, UMax: b.Max.X + b.Max.Y,
		VMin: b.Min.X - b.Max.Y, VMax: b.Max.X - b.Min.Y,
		ZMin: b.Min.Z, ZMax: b.Max.Z,
	}
}

// AABB returns the tight axis-aligned bounding box enclosing o — used
// wherever a BSP Leaf (which stores only an AABB3) needs to track an
// object's or particle's volume.
func (o OBB) AABB() AABB3 {
	return AABB3{
		Min: Vec3{o.XMin, o.YMin, o.ZMin},
		Max: Vec3{o.XMax, o.YMax, o.ZMax},
	}
}

// Union returns the smallest OBB enclosing both o and other.
func (o OBB) Union(other OBB) OBB {
	return OBB{
		XMin: min3(o.XMin, other.XMin), XMax: max3(o.XMax, other.XMax),
		YMin: min3(o.YMin, other.YMin), YMax: max3(o.YMax, other.YMax),
		UMin: min3(o.UMin, other.UMin), UMax: max3(o.UMax, other.UMax),
		VMin: min3(o.VMin, other.VMin), VMax: max3(o.VMax, other.VMax),
		ZMin: min3(o.ZMin, other.ZMin), ZMax: max3(o.ZMax, other.ZMax),
	}
}

// Translate returns o shifted by d.
func (o OBB) Translate(d Vec3) OBB {
	uv := d.X + d.Y
	vv := d.X - d.Y
	return OBB{
		XMin: o.XMin + d.X, XMax: o.XMax + d.X,
		YMin: o.YMin + d.Y, YMax: o.YMax + d.Y,
		UMin: o.UMin + uv, UMax: o.UMax + uv,
		VMin: o.VMin + vv, VMax: o.VMax + vv,
		ZMin: o.ZMin + d.Z, ZMax: o.ZMax + d.Z,
	}
}

// Interpolate blends o toward other by fraction t in [0,1]. Each bound is
// driven through its own one-shot linear tween rather than hand-rolled lerp,
// the same easing primitive as the billboard fade and grog/daze decay. The
// collision resolver's swept CV expansion (spec §4.4) does not call it: it
// translates both CVs by their velocities instead.
func (o OBB) Interpolate(other OBB, t float64) OBB {
	ft := float32(clamp(t, 0, 1))
	blend := func(a, b float64) float64 {
		v, _ := gween.New(float32(a), float32(b), 1, ease.Linear).Update(ft)
		return float64(v)
	}
	return OBB{
		XMin: blend(o.XMin, other.XMin), XMax: blend(o.XMax, other.XMax),
		YMin: blend(o.YMin, other.YMin), YMax: blend(o.YMax, other.YMax),
		UMin: blend(o.UMin, other.UMin), UMax: blend(o.UMax, other.UMax),
		VMin: blend(o.VMin, other.VMin), VMax: blend(o.VMax, other.VMax),
		ZMin: blend(o.ZMin, other.ZMin), ZMax: blend(o.ZMax, other.ZMax),
	}
}

// Overlaps reports whether o and other share any volume across all four
// axis pairs (axis-aligned X/Y and the two diagonals).
func (o OBB) Overlaps(other OBB) bool {
	return o.XMin <= other.XMax && o.XMax >= other.XMin &&
		o.YMin <= other.YMax && o.YMax >= other.YMin &&
		o.UMin <= other.UMax && o.UMax >= other.UMin &&
		o.VMin <= other.VMax && o.VMax >= other.VMin &&
		o.ZMin <= other.ZMax && o.ZMax >= other.ZMin
}
