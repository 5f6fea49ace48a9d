// Package simcore is the runtime simulation core of a 3D action-RPG engine:
// the BSP spatial index used for broad-phase collision queries, the particle
// lifecycle and physics pipeline, the object animation/skinning and
// matrix-cache pipeline, and the character-particle interaction resolver.
//
// The engine is single-threaded cooperative with a fixed tick. One call to
// [World.Step] advances every live object and particle by one tick in the
// order: environment sampling, particle physics, object animation, matrix
// cache refresh, spatial index rebuild, collision resolution.
//
// simcore has no renderer, audio mixer, asset loader, or scripting VM of its
// own — those are represented as the collaborator interfaces [Mesh],
// [ObjectDamager], [AudioPlayer], and [BillboardSpawner], supplied by the
// embedding application through [NewWorld].
package simcore
