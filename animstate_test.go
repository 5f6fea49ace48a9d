package simcore

import "testing"

func newAnimTestWorld(t *testing.T) (*World, ObjectRef) {
	w := newTestWorld(t)
	ref := w.Objects.Alloc(Object{Flags: ObjAlive, Anim: AnimationState{Tgt: 1, Rate: 1, Interruptible: true}})
	return w, ref
}

// TickAnimation advances flip by rate*0.25 per tick; four ticks at rate 1
// should cross one full ilip cycle and advance the frame pair (spec §4.3).
func TestTickAnimationAdvancesFrames(t *testing.T) {
	w, ref := newAnimTestWorld(t)
	model := newFakeModel()
	model.lastFrame[0] = 10
	model.walking[0] = false

	for i := 0; i < 4; i++ {
		TickAnimation(w, ref, model)
	}
	obj, _ := w.Objects.Get(ref)
	if obj.Anim.Src != 1 || obj.Anim.Tgt != 2 {
		t.Errorf("after 4 ticks Src/Tgt = %d/%d, want 1/2", obj.Anim.Src, obj.Anim.Tgt)
	}
	if obj.Anim.Ilip != 0 {
		t.Errorf("Ilip = %d, want 0 after a full cycle", obj.Anim.Ilip)
	}
}

// Frame-FX at the just-reached target frame dispatches FXPoof, which clears
// ObjAlive for a non-sticky-butt object (spec §4.3, "Frame-FX dispatch").
func TestDispatchFrameFXPoofKillsObject(t *testing.T) {
	w, ref := newAnimTestWorld(t)
	model := newFakeModel()
	model.lastFrame[0] = 10
	model.fx[1] = FXPoof

	for i := 0; i < 4; i++ {
		TickAnimation(w, ref, model)
	}
	obj, _ := w.Objects.Get(ref)
	if obj.IsAlive() {
		t.Error("object still alive after FXPoof fired on a non-sticky-butt object")
	}
}

func TestDispatchFrameFXPoofSparesStickyButt(t *testing.T) {
	w := newTestWorld(t)
	ref := w.Objects.Alloc(Object{Flags: ObjAlive | ObjStickyButt, Anim: AnimationState{Tgt: 1, Rate: 1, Interruptible: true}})
	model := newFakeModel()
	model.lastFrame[0] = 10
	model.fx[1] = FXPoof

	for i := 0; i < 4; i++ {
		TickAnimation(w, ref, model)
	}
	obj, _ := w.Objects.Get(ref)
	if !obj.IsAlive() {
		t.Error("sticky-butt object died from FXPoof, want it to survive")
	}
}

func TestAdvanceFrameFreezeAtLastFrame(t *testing.T) {
	w, ref := newAnimTestWorld(t)
	model := newFakeModel()
	model.lastFrame[0] = 1
	model.freeze[0] = true

	for i := 0; i < 4; i++ {
		TickAnimation(w, ref, model)
	}
	obj, _ := w.Objects.Get(ref)
	if obj.Anim.Src != 1 || obj.Anim.Tgt != 1 {
		t.Errorf("Src/Tgt = %d/%d, want 1/1 frozen at last frame", obj.Anim.Src, obj.Anim.Tgt)
	}
	if !obj.Anim.Interruptible {
		t.Error("freeze-at-last-frame should leave the animation interruptible")
	}
}

func TestAdvanceFrameLoopSwitchesOnRide(t *testing.T) {
	w := newTestWorld(t)
	ref := w.Objects.Alloc(Object{Flags: ObjAlive | ObjRidden, Anim: AnimationState{Tgt: 1, Rate: 1, Interruptible: true}})
	model := newFakeModel()
	model.lastFrame[0] = 1
	model.loop[0] = true
	model.next[0] = 5

	for i := 0; i < 4; i++ {
		TickAnimation(w, ref, model)
	}
	obj, _ := w.Objects.Get(ref)
	if obj.Anim.Action != 5 {
		t.Errorf("Action = %d, want 5 (ridden loop switches to NextAnimation)", obj.Anim.Action)
	}
}

func TestRecomputeRateStandStillSelectsDA(t *testing.T) {
	w := newTestWorld(t)
	ref := w.Objects.Alloc(Object{
		Flags:        ObjAlive | ObjGrounded,
		Anim:         AnimationState{Action: ActionWB, Rate: 1, Interruptible: true},
		BoredomTimer: 10, // avoid the bored-idle roll so DA survives unchanged
	})
	model := newFakeModel()
	model.walking[ActionWB] = true
	model.walking[ActionDA] = true

	TickAnimation(w, ref, model)
	obj, _ := w.Objects.Get(ref)
	if obj.Anim.Action != ActionDA {
		t.Errorf("Action = %d, want ActionDA when standing still", obj.Anim.Action)
	}
}

func TestRecomputeRateRunningSelectsWC(t *testing.T) {
	w := newTestWorld(t)
	ref := w.Objects.Alloc(Object{
		Position: Vec3{},
		Velocity: Vec3{X: 10},
		Flags:    ObjAlive | ObjGrounded,
		Scale:    Vec3{1, 1, 1},
		Anim:     AnimationState{Action: ActionWB, Rate: 1, Interruptible: true},
	})
	model := newFakeModel()
	model.walking[ActionWB] = true
	model.walking[ActionWC] = true

	TickAnimation(w, ref, model)
	obj, _ := w.Objects.Get(ref)
	if obj.Anim.Action != ActionWC {
		t.Errorf("Action = %d, want ActionWC at horiz speed 10", obj.Anim.Action)
	}
}

func TestRecomputeRateDesiredVelocityBeatsActual(t *testing.T) {
	w := newTestWorld(t)
	ref := w.Objects.Alloc(Object{
		Velocity:        Vec3{}, // no actual motion yet
		DesiredVelocity: Vec3{X: 10},
		Flags:           ObjAlive | ObjGrounded,
		Scale:           Vec3{1, 1, 1},
		Anim:            AnimationState{Action: ActionWB, Rate: 1, Interruptible: true},
	})
	model := newFakeModel()
	model.walking[ActionWB] = true
	model.walking[ActionWC] = true

	TickAnimation(w, ref, model)
	obj, _ := w.Objects.Get(ref)
	if obj.Anim.Action != ActionWC {
		t.Errorf("Action = %d, want ActionWC driven by DesiredVelocity even with zero actual velocity", obj.Anim.Action)
	}
}

func TestRecomputeRateSlippyTerrainDoublesSpeedEstimate(t *testing.T) {
	w := newTestWorld(t)
	w.Mesh = &fakeMesh{slippy: true}
	ref := w.Objects.Alloc(Object{
		Velocity: Vec3{X: 3},
		Flags:    ObjAlive | ObjGrounded,
		Scale:    Vec3{1, 1, 1},
		Anim:     AnimationState{Action: ActionWB, Rate: 1, Interruptible: true},
	})
	model := newFakeModel()
	model.walking[ActionWB] = true
	model.walking[ActionWC] = true

	TickAnimation(w, ref, model)
	obj, _ := w.Objects.Get(ref)
	if obj.Anim.Action != ActionWC {
		t.Errorf("Action = %d, want ActionWC: slippy terrain should double a horiz speed of 3 past the ActionWB threshold of 4", obj.Anim.Action)
	}
}

func TestRecomputeRateSceneryMountForcesZeroRate(t *testing.T) {
	w := newTestWorld(t)
	mount := w.Objects.Alloc(Object{Flags: ObjAlive | ObjMount | ObjSceneryMount, Anim: AnimationState{Rate: 3}})
	ref := w.Objects.Alloc(Object{
		Flags:      ObjAlive | ObjRidden,
		Attachment: AttachmentSlots{HeldBy: mount},
		Anim:       AnimationState{Rate: 1, Interruptible: true},
	})
	model := newFakeModel()

	TickAnimation(w, ref, model)
	obj, _ := w.Objects.Get(ref)
	if obj.Anim.Rate != 0 {
		t.Errorf("Rate = %v, want 0 when riding a scenery mount", obj.Anim.Rate)
	}
}

func TestRecomputeRateNonSceneryMountCopiesMountRate(t *testing.T) {
	w := newTestWorld(t)
	mount := w.Objects.Alloc(Object{Flags: ObjAlive | ObjMount, Anim: AnimationState{Rate: 3}})
	ref := w.Objects.Alloc(Object{
		Flags:      ObjAlive | ObjRidden,
		Attachment: AttachmentSlots{HeldBy: mount},
		Anim:       AnimationState{Rate: 1, Interruptible: true},
	})
	model := newFakeModel()

	TickAnimation(w, ref, model)
	obj, _ := w.Objects.Get(ref)
	if obj.Anim.Rate != 3 {
		t.Errorf("Rate = %v, want 3 copied from the non-scenery mount's own rate", obj.Anim.Rate)
	}
}
