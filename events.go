package simcore

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// FrameFXEvent is published whenever an object's animation crosses a frame
// carrying gameplay side effects the embedding application must react to
// (weapon swipes, grab/drop attempts, attach/detach) that cannot be
// resolved from core state alone (spec §4.3, "Frame-FX dispatch").
type FrameFXEvent struct {
	Object ObjectRef
	FX     FrameFX
}

// FrameFXEventType is the Donburi event type frame-FX is published on
// (mirrors the teacher's ecs package: one package-level events.NewEventType
// per published event, subscribed to with events.Subscribe/ProcessEvents).
var FrameFXEventType = events.NewEventType[FrameFXEvent]()

// ReaffirmEvent is published when a burning/reaffirming object re-ignites an
// attached particle of a matching damage type (spec §4.4, "Damage": "if the
// object's reaffirm damage type matches, spawn a reaffirm particle").
type ReaffirmEvent struct {
	Object ObjectRef
}

var ReaffirmEventType = events.NewEventType[ReaffirmEvent]()

func (w *World) emitFrameFX(ref ObjectRef, fx FrameFX) {
	FrameFXEventType.Publish(w.events, FrameFXEvent{Object: ref, FX: fx})
}

func (w *World) emitReaffirm(ref ObjectRef) {
	ReaffirmEventType.Publish(w.events, ReaffirmEvent{Object: ref})
}

// ProcessEvents drains and dispatches every event published during the last
// [World.Step] to their subscribers (mirrors donburi's per-frame
// events.ProcessEvents convention).
func (w *World) ProcessEvents() {
	events.ProcessEvents(w.events)
}

// newEventWorld allocates the Donburi world solely used to host simcore's
// engine-level event buses; it holds no entities.
func newEventWorld() donburi.World {
	return donburi.NewWorld()
}
