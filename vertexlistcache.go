package simcore

import "math"

// Model is the skinned-mesh collaborator consumed for vertex skinning, grip
// resolution, and attached-particle placement (spec §4.3, "Vertex list
// update"; spec §3, "attached ... position is derived from the holder's
// skinned vertex"). simcore owns no mesh or keyframe data of its own.
type Model interface {
	FrameVertex(frame, index int) (pos, normal Vec3)
	VertexCount() int
	ActionLastFrame(action int) int
	NextAnimation(action int) int
	IsWalkingFamily(action int) bool
	IsDanceAction(action int) bool
	FreezeAtLastFrame(action int) bool
	LoopAnimation(action int) bool
	// FrameFX returns the bit flags carried by the given frame (spec §4.3,
	// "Frame-FX dispatch").
	FrameFX(frame int) FrameFX
}

// flipTolerance is FLIP_TOLERANCE from spec §3 invariants.
const flipTolerance = 1.0 / 8.0

// VertexListCache records the last animation state for which an object's
// skinned vertex list was computed (spec §3, "Vertex-list cache").
type VertexListCache struct {
	Src, Tgt   int
	Flip       float64
	VMin, VMax int
	valid      bool
}

// NeedsUpdate reports whether a skin refresh is required for the given
// animation state and vertex range (spec §4.3, "Vertex list update"):
// false ("fail", no update needed) only if source/target match, flip is
// within tolerance of the cached value, and [vmin,vmax] is already covered.
func (c *VertexListCache) NeedsUpdate(src, tgt int, flip float64, vmin, vmax int) bool {
	if !c.valid {
		return true
	}
	if c.Src != src || c.Tgt != tgt {
		return true
	}
	if math.Abs(c.Flip-flip) > flipTolerance {
		return true
	}
	if vmin < c.VMin || vmax > c.VMax {
		return true
	}
	return false
}

// Refresh interpolates vertices [vmin,vmax] of model between frames src and
// tgt by flip into out, using the un-blended frame directly at the flip==0
// and flip==1 extremes, and folds the refreshed range into the cache's
// covered bounds (union if the animation state is unchanged, replace on a
// source/target change).
func (c *VertexListCache) Refresh(model Model, src, tgt int, flip float64, vmin, vmax int, out []Vec3) {
	for i := vmin; i <= vmax && i < len(out); i++ {
		switch {
		case flip <= 0:
			p, _ := model.FrameVertex(src, i)
			out[i] = p
		case flip >= 1:
			p, _ := model.FrameVertex(tgt, i)
			out[i] = p
		default:
			p0, _ := model.FrameVertex(src, i)
			p1, _ := model.FrameVertex(tgt, i)
			out[i] = p0.Lerp(p1, flip)
		}
	}

	if c.valid && c.Src == src && c.Tgt == tgt {
		c.VMin = minInt(c.VMin, vmin)
		c.VMax = maxInt(c.VMax, vmax)
	} else {
		c.VMin, c.VMax = vmin, vmax
	}
	c.Src, c.Tgt, c.Flip = src, tgt, flip
	c.valid = true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
