package simcore

// plane is ax + by + cz + d = 0, with Normal pointing into the half-space
// the frustum considers "inside".
type plane struct {
	Normal Vec3
	D      float64
}

func (p plane) distance(v Vec3) float64 {
	return p.Normal.Dot(v) + p.D
}

// Frustum is a six-plane view volume (left, right, top, bottom, near, far)
// used for the frustum-query variant of the BSP tree (spec §4.1, "Query —
// frustum").
type Frustum struct {
	planes [6]plane
}

// NewFrustumFromPlanes builds a Frustum from six outward-tested planes, in
// the order left, right, top, bottom, near, far. Each plane's Normal must
// point toward the frustum's interior.
func NewFrustumFromPlanes(left, right, top, bottom, near, far plane) Frustum {
	return Frustum{planes: [6]plane{left, right, top, bottom, near, far}}
}

// Classify compares box against f using the standard positive/negative
// vertex test per plane: for each plane, the box corner most in the normal
// direction (p-vertex) and least in it (n-vertex) bound how the box sits
// relative to that plane. If the p-vertex is outside any plane, the box is
// entirely outside the frustum. If the n-vertex is outside some plane (but
// the p-vertex is not outside any), the box straddles at least one plane:
// INTERSECT. Otherwise the box is INSIDE every plane.
func (f Frustum) Classify(box AABB3) classification {
	if box.IsEmpty() {
		return classOutside
	}
	intersecting := false
	for _, p := range f.planes {
		pVertex := Vec3{
			pick(p.Normal.X >= 0, box.Max.X, box.Min.X),
			pick(p.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			pick(p.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		}
		if p.distance(pVertex) < 0 {
			return classOutside
		}
		nVertex := Vec3{
			pick(p.Normal.X >= 0, box.Min.X, box.Max.X),
			pick(p.Normal.Y >= 0, box.Min.Y, box.Max.Y),
			pick(p.Normal.Z >= 0, box.Min.Z, box.Max.Z),
		}
		if p.distance(nVertex) < 0 {
			intersecting = true
		}
	}
	if intersecting {
		return classIntersect
	}
	return classInside
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
