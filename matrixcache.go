package simcore

// MatrixTypeBits unions CHARACTER/WEAPON, selecting which fields of a
// MatrixCache are authoritative (spec §3, "Matrix cache").
type MatrixTypeBits uint8

const (
	MatrixCharacter MatrixTypeBits = 1 << iota
	MatrixWeapon
)

// gripVertCount is GRIP_VERTS from spec §3 ("list of grip vertex indices
// (GRIP_VERTS = 4)").
const gripVertCount = 4

// MatrixCache is the minimum set of inputs from which an object's world
// matrix can be reproduced (spec §3, "Matrix cache"). Equal compares only
// the fields relevant to the active TypeBits, per the spec's equality rule.
type MatrixCache struct {
	TypeBits MatrixTypeBits
	Valid    bool

	// CHARACTER fields
	Angles      FacingAngles
	Translation Vec3

	// WEAPON fields
	Holder      ObjectRef
	GripSlot    int
	GripVerts   [gripVertCount]int
	HolderScale Vec3

	// shared
	Scale Vec3
}

// Equal reports whether a and b describe the same inputs, restricted to the
// fields the active TypeBits makes authoritative.
func (a MatrixCache) Equal(b MatrixCache) bool {
	if a.TypeBits != b.TypeBits {
		return false
	}
	if a.Scale != b.Scale {
		return false
	}
	if a.TypeBits&MatrixWeapon != 0 {
		return a.Holder == b.Holder && a.GripSlot == b.GripSlot &&
			a.GripVerts == b.GripVerts && a.HolderScale == b.HolderScale
	}
	return a.Angles == b.Angles && a.Translation == b.Translation
}

// GripProvider resolves which model vertex indices form the grip for a
// holder's equipment slot (spec §3, "WEAPON fields: ... list of grip vertex
// indices"). Unused entries are -1.
type GripProvider interface {
	GripVertices(holder ObjectRef, slot int) [gripVertCount]int
}

// SampleMatrixCache samples fresh matrix-cache inputs for ref (spec §4.3,
// "chr_get_matrix_cache"): an overlay clones its target's cache; an
// attached object is marked WEAPON; otherwise it is CHARACTER.
func SampleMatrixCache(world *World, ref ObjectRef) (MatrixCache, bool) {
	obj, ok := world.Objects.Get(ref)
	if !ok {
		return MatrixCache{}, false
	}
	if obj.Overlay.IsValid() {
		if target, ok := world.Objects.Get(obj.Overlay); ok {
			return target.Matrix, true
		}
	}
	if obj.Flags.Has(ObjAttached) && obj.Attachment.HeldBy.IsValid() {
		holder, ok := world.Objects.Get(obj.Attachment.HeldBy)
		if !ok {
			return MatrixCache{}, false
		}
		var grips [gripVertCount]int
		if world.Grips != nil {
			grips = world.Grips.GripVertices(obj.Attachment.HeldBy, obj.Attachment.GripSlot)
		} else {
			grips = [gripVertCount]int{-1, -1, -1, -1}
		}
		return MatrixCache{
			TypeBits:    MatrixWeapon,
			Holder:      obj.Attachment.HeldBy,
			GripSlot:    obj.Attachment.GripSlot,
			GripVerts:   grips,
			HolderScale: holder.Scale,
			Scale:       obj.Scale,
		}, true
	}
	return MatrixCache{
		TypeBits:    MatrixCharacter,
		Angles:      obj.Facing,
		Translation: obj.Position,
		Scale:       obj.Scale,
	}, true
}

// MatrixCacheNeedsUpdate reports whether ref's stored matrix cache differs
// from freshly sampled inputs (spec §4.3, "matrix_cache_needs_update").
func MatrixCacheNeedsUpdate(world *World, ref ObjectRef) bool {
	obj, ok := world.Objects.Get(ref)
	if !ok {
		return false
	}
	fresh, ok := SampleMatrixCache(world, ref)
	if !ok {
		return true
	}
	return !obj.Matrix.Valid || !obj.Matrix.Equal(fresh)
}

// UpdateObjectMatrix is chr_update_matrix (spec §4.3): the holder's matrix is
// updated first (recursively); if the holder's matrix comes out invalid,
// ref's matrix is marked invalid too. Otherwise, if the sampled inputs
// differ from the stored cache, the world matrix is recomposed (character
// or four-point weapon construction) and every held child is invalidated so
// the chain re-resolves lazily.
func UpdateObjectMatrix(world *World, ref ObjectRef, updateSize bool) error {
	obj, ok := world.Objects.Get(ref)
	if !ok {
		return newSimError(ExpiredReference, "chr_update_matrix", "object reference no longer valid")
	}

	if obj.Flags.Has(ObjAttached) && obj.Attachment.HeldBy.IsValid() {
		if err := UpdateObjectMatrix(world, obj.Attachment.HeldBy, false); err != nil {
			obj.Matrix.Valid = false
			return nil
		}
		if holder, ok := world.Objects.Get(obj.Attachment.HeldBy); !ok || !holder.Matrix.Valid {
			obj.Matrix.Valid = false
			return nil
		}
	}

	fresh, ok := SampleMatrixCache(world, ref)
	if !ok {
		obj.Matrix.Valid = false
		return nil
	}
	if obj.Matrix.Valid && obj.Matrix.Equal(fresh) {
		return nil
	}

	if fresh.TypeBits&MatrixWeapon != 0 {
		holder, ok := world.Objects.Get(fresh.Holder)
		if !ok || !holder.Matrix.Valid {
			obj.Matrix = fresh
			obj.Matrix.Valid = false
			return nil
		}
		if m, ok := resolveWeaponMatrix(holder, fresh); ok {
			obj.WorldMatrix = m
		} else {
			// fewer than 4 valid grip points: fall back to treating the
			// weapon as an unattached character at the single grip origin
			// (the first grip vertex that resolves, else the holder's origin).
			origin := holder.WorldMatrix.Translation()
			for _, idx := range fresh.GripVerts {
				if idx >= 0 && idx < len(holder.SkinnedVerts) {
					origin = holder.WorldMatrix.TransformPoint(holder.SkinnedVerts[idx])
					break
				}
			}
			obj.WorldMatrix = ComposeCharacterMatrix(obj.Facing, origin, obj.Scale, false)
		}
	} else {
		obj.WorldMatrix = ComposeCharacterMatrix(fresh.Angles, fresh.Translation, fresh.Scale, obj.Flags.Has(ObjStickyButt))
	}

	obj.Matrix = fresh
	obj.Matrix.Valid = true

	invalidateHeldChildren(world, ref)

	if updateSize {
		refreshCollisionSize(obj)
	}
	return nil
}

// resolveWeaponMatrix derives a weapon's matrix from up to four grip
// vertices skinned to world space (spec §4.3, "Weapon matrix"). Returns
// false if fewer than four grip vertex indices resolve to skinned
// positions.
func resolveWeaponMatrix(holder *Object, mc MatrixCache) (Mat4, bool) {
	var pts [gripVertCount]Vec3
	valid := 0
	for i, idx := range mc.GripVerts {
		if idx < 0 || idx >= len(holder.SkinnedVerts) {
			continue
		}
		pts[i] = holder.WorldMatrix.TransformPoint(holder.SkinnedVerts[idx])
		valid++
	}
	if valid < gripVertCount {
		return Mat4{}, false
	}
	return ComposeFourPointMatrix(pts[0], pts[1], pts[2], pts[3]), true
}

// invalidateHeldChildren marks every object held by ref as needing a matrix
// recompute (spec §4.3: "After applying, invalidate every held child so the
// chain re-resolves on demand").
func invalidateHeldChildren(world *World, ref ObjectRef) {
	world.Objects.Each(func(h Handle, o *Object) {
		if o.Flags.Has(ObjAttached) && o.Attachment.HeldBy == ref {
			o.Matrix.Valid = false
		}
	})
}

// refreshCollisionSize recentres an object's collision volumes on its
// current position after a matrix change (spec §4.3: "if update_size is
// requested, the character's collision size is refreshed").
func refreshCollisionSize(obj *Object) {
	delta := obj.Position.Sub(obj.Matrix.Translation)
	obj.MinCV = obj.MinCV.Translate(delta)
	obj.MaxCV = obj.MaxCV.Translate(delta)
}
