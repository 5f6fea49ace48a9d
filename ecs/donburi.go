// Package ecs bridges simcore's engine-level events onto a Donburi world
// for embedding applications that already run their own Donburi-based ECS
// alongside the simulation core.
package ecs

import (
	"github.com/duskwright/simcore"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// Bridge owns a Donburi world dedicated to relaying simcore events into an
// application's own ECS systems.
type Bridge struct {
	world donburi.World
}

// NewBridge creates a Bridge backed by a fresh Donburi world.
func NewBridge() *Bridge {
	return &Bridge{world: donburi.NewWorld()}
}

// OnFrameFX subscribes fn to every [simcore.FrameFXEvent] processed by a
// subsequent call to [Bridge.Drain].
func (b *Bridge) OnFrameFX(fn func(simcore.FrameFXEvent)) {
	simcore.FrameFXEventType.Subscribe(b.world, fn)
}

// OnReaffirm subscribes fn to every [simcore.ReaffirmEvent].
func (b *Bridge) OnReaffirm(fn func(simcore.ReaffirmEvent)) {
	simcore.ReaffirmEventType.Subscribe(b.world, fn)
}

// PublishFrameFX re-publishes an event simcore already emitted onto this
// bridge's own Donburi world, so application-side systems registered via
// OnFrameFX see it on their next Drain.
func (b *Bridge) PublishFrameFX(e simcore.FrameFXEvent) {
	simcore.FrameFXEventType.Publish(b.world, e)
}

// PublishReaffirm is PublishFrameFX's counterpart for reaffirm events.
func (b *Bridge) PublishReaffirm(e simcore.ReaffirmEvent) {
	simcore.ReaffirmEventType.Publish(b.world, e)
}

// Drain dispatches every event published since the last Drain to their
// subscribers.
func (b *Bridge) Drain() {
	events.ProcessEvents(b.world)
}
