package simcore

// FrameFX packs the per-frame bit flags that trigger gameplay side effects
// when the animation's interpolant crosses ilip==3 (spec §3, GLOSSARY
// "Frame-FX"; spec §4.3, "Frame-FX dispatch").
type FrameFX uint16

const (
	FXActLeft FrameFX = 1 << iota
	FXActRight
	FXGrabLeft
	FXGrabRight
	FXCharLeft
	FXCharRight
	FXDropLeft
	FXDropRight
	FXPoof
	FXFootFall
)

// Locomotion action slots (spec §4.3, "Rate selection"): DA = stand,
// WA = sneak, WB = walk, WC = run, DB/DC/DD = bored idle variants. These
// mirror the original engine's fixed action-table indices for the subset
// the rate-selection rule names explicitly.
const (
	ActionDA = iota
	ActionWA
	ActionWB
	ActionWC
	ActionDB
	ActionDC
	ActionDD
)

// boredomTimerReset is how many ticks of standing still before a new bored
// idle animation is rolled.
const boredomTimerReset = 300

// AnimationState is an object's animation instance (spec §3, "Animation
// state"): two frame indices, an integer and real interpolant satisfying
// flip ~= ilip/4, and a rate multiplier in [0.1, 3.0] (0 holds the pose).
type AnimationState struct {
	Action int
	Src    int
	Tgt    int
	Ilip   int
	Flip   float64
	Rate   float64

	Interruptible bool
}

// quarterBoundary returns the flip value at which ilip advances to ilip+1.
func quarterBoundary(ilip int) float64 { return float64(ilip+1) / 4 }

// TickAnimation advances ref's animation by one tick (spec §4.3, "Tick"):
// flip_diff = 0.25*rate is consumed one quarter at a time, firing frame-FX
// at ilip==3 and advancing the frame pair at ilip==4, then any leftover is
// applied directly to flip and the rate is recomputed for the next tick.
func TickAnimation(world *World, ref ObjectRef, model Model) {
	obj, ok := world.Objects.Get(ref)
	if !ok {
		return
	}
	a := &obj.Anim
	flipDiff := clamp(a.Rate, 0.1, 3.0) * 0.25
	if a.Rate == 0 {
		// a scenery-mounted rider (Rate pinned to 0) holds its pose
		flipDiff = 0
	}

	for {
		toNext := quarterBoundary(a.Ilip) - a.Flip
		if toNext < 0 {
			toNext = 0
		}
		if flipDiff < toNext {
			break
		}
		flipDiff -= toNext
		a.Flip = quarterBoundary(a.Ilip)
		a.Ilip++
		if a.Ilip == 3 {
			dispatchFrameFX(world, ref, obj, model)
		}
		if a.Ilip >= 4 {
			advanceFrame(obj, model)
			a.Ilip = 0
			a.Flip = 0
		}
	}
	a.Flip += flipDiff

	recomputeRate(world, obj, model)
}

// advanceFrame is the frame-increment rule of spec §4.3, "Frame increment".
func advanceFrame(obj *Object, model Model) {
	a := &obj.Anim
	a.Src = a.Tgt
	a.Tgt = a.Tgt + 1
	last := model.ActionLastFrame(a.Action)
	if a.Tgt <= last {
		return
	}

	switch {
	case model.FreezeAtLastFrame(a.Action):
		a.Src, a.Tgt = last, last
		a.Interruptible = true
	case model.LoopAnimation(a.Action):
		if obj.Flags.Has(ObjRidden) {
			a.Action = model.NextAnimation(a.Action) // riding/sitting variant
		}
		a.Src, a.Tgt = 0, 1
	default:
		a.Action = model.NextAnimation(a.Action)
		a.Src, a.Tgt = 0, 1
		a.Interruptible = model.IsWalkingFamily(a.Action) || model.IsDanceAction(a.Action)
	}
}

// dispatchFrameFX fires the side effects carried by the just-reached target
// frame (spec §4.3, "Frame-FX dispatch"). Effects that require other
// subsystems (weapon swipes, pickup/grab attempts, detach) are published as
// a [FrameFXEvent] for the embedding application to subscribe to; POOF and
// FOOTFALL are handled locally since they are fully expressible in core
// state.
func dispatchFrameFX(world *World, ref ObjectRef, obj *Object, model Model) {
	fx := model.FrameFX(obj.Anim.Tgt)
	if fx == 0 {
		return
	}
	world.emitFrameFX(ref, fx)

	if fx&FXPoof != 0 && !obj.Flags.Has(ObjStickyButt) {
		obj.Flags &^= ObjAlive
	}
	if fx&FXFootFall != 0 && world.Audio != nil {
		world.Audio.PlaySound(obj.Position, footstepSoundID)
	}
}

// footstepSoundID is a placeholder sound bank index; the embedding
// application's audio collaborator owns the real sound table.
const footstepSoundID = 0

// recomputeRate selects the animation rate and, for grounded locomotion,
// the locomotion action for the next tick (spec §4.3, "Rate selection").
func recomputeRate(world *World, obj *Object, model Model) {
	a := &obj.Anim
	if !a.Interruptible {
		return
	}

	if obj.Flags.Has(ObjRidden) && obj.Attachment.HeldBy.IsValid() {
		if mount, ok := world.Objects.Get(obj.Attachment.HeldBy); ok {
			if mount.Flags.Has(ObjSceneryMount) {
				a.Rate = 0
			} else {
				a.Rate = mount.Anim.Rate
			}
			return
		}
	}

	if !model.IsWalkingFamily(a.Action) || !obj.Flags.Has(ObjGrounded) {
		return
	}

	var horiz float64
	if obj.Flags.Has(ObjFlying) {
		horiz = obj.Velocity.Length()
	} else {
		actual := obj.Velocity.XY()
		actualHoriz := (Vec3{actual.X, actual.Y, 0}).Length()
		desired := obj.DesiredVelocity.XY()
		desiredHoriz := (Vec3{desired.X, desired.Y, 0}).Length()
		horiz = max(actualHoriz, desiredHoriz)
	}

	if world.Mesh != nil && world.Mesh.TestFX(obj.Position.X, obj.Position.Y, MapFXSlippy) {
		horiz *= 2
	}

	if obj.Scale.Length() > 1e-6 {
		horiz /= obj.Scale.Length()
	}

	want := ActionWC
	switch {
	case horiz <= 0.01:
		want = ActionDA
	case obj.Flags.Has(ObjStealthed):
		want = ActionWA
	case horiz <= 4:
		want = ActionWB
	}
	if obj.Flags.Has(ObjFlying) {
		// flying inverts the stand<->fastest ends of the mapping
		switch want {
		case ActionDA:
			want = ActionWC
		case ActionWC:
			want = ActionDA
		}
	}

	if want == ActionDA {
		obj.BoredomTimer--
		if obj.BoredomTimer <= 0 {
			if !obj.Flags.Has(ObjStealthed) {
				want = ActionDB + world.RNG.IntN(3)
			}
			obj.BoredomTimer = boredomTimerReset
		}
	}

	a.Rate = clamp(horiz/4, 0.1, 3.0)

	if a.Action != want {
		a.Action = want
		a.Src, a.Tgt = 0, 1
		a.Ilip, a.Flip = 0, 0
	}
}
