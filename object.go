package simcore

// ObjectFlags packs the boolean state bits of spec §3 ("flags (alive,
// hidden, flying, attached, platform, mount, stealthed, invincible, …)").
type ObjectFlags uint32

const (
	ObjAlive ObjectFlags = 1 << iota
	ObjHidden
	ObjFlying
	ObjAttached
	ObjPlatform
	ObjMount
	ObjStealthed
	ObjInvincible
	ObjRidden
	ObjGrounded
	ObjStickyButt
	ObjHoldTheLine  // "Hold The Line" perk: ignores knockback (spec §4.4)
	ObjParryPose    // currently in a parry (P-action) pose
	ObjHoldingShield
	ObjSceneryMount // a mount that is fixed scenery, not an animated rider vehicle
)

// Has reports whether all of bits are set.
func (f ObjectFlags) Has(bits ObjectFlags) bool { return f&bits == bits }

// AttachmentSlots records an object's held-by and held-item references
// (spec §3, "attachment slot info (held-by, holding-left, holding-right)"),
// realised per the design note in §9 as plain index pairs rather than
// cyclic holder<->held pointers.
type AttachmentSlots struct {
	HeldBy      ObjectRef
	GripSlot    int // which of the holder's grip slots this object occupies
	HoldingLeft ObjectRef
	HoldingRight ObjectRef
}

// Object is the authoritative state of a character/actor (spec §3,
// "Object (character/actor)").
type Object struct {
	Position, Velocity         Vec3
	PrevPosition, PrevVelocity Vec3
	Facing                     FacingAngles
	Scale                      Vec3

	Team      int
	HP, Mana  float64
	Money     int // coin carried by this object; credited by bump_money (spec §4.4)

	// DesiredVelocity is the movement input the embedding application wants
	// this tick (e.g. from a control stick), distinct from Velocity's actual
	// physics-integrated result (spec §4.3, "Rate selection": "max(actual XY
	// velocity, desired velocity)"). Left zero if nothing drives it.
	DesiredVelocity Vec3

	Flags ObjectFlags

	Attachment AttachmentSlots

	MinCV, MaxCV OBB // chr_min_cv, chr_max_cv

	Anim   AnimationState
	Matrix MatrixCache

	WorldMatrix Mat4

	Overlay ObjectRef // non-visual overlay objects clone their target's cache

	Skin         VertexListCache
	SkinnedVerts []Vec3

	ReaffirmDamageType DamageType
	HasReaffirmType     bool

	BoredomTimer int
	ShieldBrokenUntilTick int64

	Grog, Daze DecayTimer

	DeflectKind DeflectKind
}

// DeflectKind selects how a bumping particle is deflected when the object
// would otherwise take damage (spec §4.4, "Deflection").
type DeflectKind uint8

const (
	DeflectNone DeflectKind = iota
	DeflectReflectVelocity // "Deflect": reflect velocity about the normal
	DeflectReverseVelocity // "Reflect": reverse velocity and reassign owner/team
)

// IsAlive reports whether the object is alive and not hidden — the gate
// most subsystems check before touching an object (spec §4.2 step 1,
// §4.4 early-out filters).
func (o *Object) IsAlive() bool {
	return o.Flags.Has(ObjAlive) && !o.Flags.Has(ObjHidden)
}

// AncestorMatricesValid walks the holder chain and reports whether every
// ancestor's matrix is valid (spec §3 invariant: "An object matrix is valid
// only if every ancestor holder's matrix is valid"). world resolves holder
// references.
func AncestorMatricesValid(world *World, o *Object) bool {
	for o.Flags.Has(ObjAttached) && o.Attachment.HeldBy.IsValid() {
		holder, ok := world.Objects.Get(o.Attachment.HeldBy)
		if !ok {
			return false
		}
		if !holder.Matrix.Valid {
			return false
		}
		o = holder
	}
	return true
}
