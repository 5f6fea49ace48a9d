package simcore

import (
	"bytes"
	"os"
	"testing"
)

func TestNewWorldToleratesDegenerateBSPBounds(t *testing.T) {
	_, err := NewWorld(AABB3{}, 1, 2, nil)
	if err == nil {
		t.Log("degenerate bounds accepted; NewBSPTree tolerates zero-volume bounds")
	}
}

func TestNewWorldIndexesProfiles(t *testing.T) {
	profiles := []*ParticleProfile{{ID: 7}, {ID: 9}}
	w, err := NewWorld(AABB3{Min: Vec3{-100, -100, -100}, Max: Vec3{100, 100, 100}}, 1, 1, profiles)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if w.particleProfile(7) == nil || w.particleProfile(9) == nil {
		t.Fatal("expected both profiles to be indexed by ID")
	}
	if w.particleProfile(3) != nil {
		t.Error("unknown profile id should resolve to nil")
	}
}

func TestWorldStepTicksIncrement(t *testing.T) {
	w := newTestWorld(t)
	if w.Tick != 0 {
		t.Fatalf("fresh world Tick = %d, want 0", w.Tick)
	}
	w.Step()
	w.Step()
	if w.Tick != 2 {
		t.Errorf("Tick after two Step() calls = %d, want 2", w.Tick)
	}
}

func TestWorldStepRetiresTerminatedParticles(t *testing.T) {
	w := newTestWorld(t)
	prof := &ParticleProfile{ID: 1, LifetimeTicks: 1}
	w.profiles[prof.ID] = prof
	ref := SpawnParticle(w, SpawnParams{Profile: prof})

	w.Step()
	if _, ok := w.Particles.Get(ref); ok {
		t.Error("a particle whose lifetime expired this tick should be retired by Step")
	}
}

func TestWorldStepSkipsDeadObjects(t *testing.T) {
	w := newTestWorld(t)
	ref := w.Objects.Alloc(Object{Flags: 0}) // not ObjAlive
	w.Step()
	obj, ok := w.Objects.Get(ref)
	if !ok {
		t.Fatal("object should still exist")
	}
	if obj.Matrix.Valid {
		t.Error("a dead object's matrix should never be updated by Step")
	}
}

func TestWorldRebuildIndexInsertsLiveOnly(t *testing.T) {
	w := newTestWorld(t)
	w.Objects.Alloc(Object{Flags: ObjAlive, MaxCV: unitOBB(Vec3{0, 0, 0}, 1)})
	dead := w.Objects.Alloc(Object{Flags: 0, MaxCV: unitOBB(Vec3{0, 0, 0}, 1)})
	_ = dead

	w.rebuildIndex()
	found := w.Index.CollideAABB(AABB3{Min: Vec3{-2, -2, -2}, Max: Vec3{2, 2, 2}}, nil)
	if len(found) != 1 {
		t.Errorf("CollideAABB found %d leaves, want 1 (dead object excluded)", len(found))
	}
}

// Scenario integration: a hated particle colliding with an object resolves a
// bump and applies damage end to end through ResolveCharacterParticleCollision,
// the resolver Step runs for each indexed pair.
func TestWorldResolvesCollisionEndToEnd(t *testing.T) {
	w := newTestWorld(t)
	damager := newFakeDamager()
	w.Damager = damager
	w.Teams = newFakeTeams()
	w.Teams.(*fakeTeams).hate[[2]int{0, 1}] = true

	objRef := w.Objects.Alloc(Object{
		Flags: ObjAlive,
		Team:  1,
		Scale: Vec3{1, 1, 1},
		MinCV: unitOBB(Vec3{}, 1),
		MaxCV: unitOBB(Vec3{}, 2),
	})

	prof := &ParticleProfile{ID: 1, Damage: IPair{Base: 10}}
	w.profiles[prof.ID] = prof
	pref := SpawnParticle(w, SpawnParams{Profile: prof, Team: 0, Position: Vec3{}})
	p, _ := w.Particles.Get(pref)
	p.MinCV = unitOBB(Vec3{}, 1)
	p.MaxCV = unitOBB(Vec3{}, 1)

	ResolveCharacterParticleCollision(w, objRef, pref, 0, 1)
	if damager.lastTarget != objRef {
		t.Error("expected the collision resolver to damage the colliding object")
	}
}

func TestWorldLogfSilentUnlessDebug(t *testing.T) {
	w := newTestWorld(t)

	oldStderr := os.Stderr
	r, wpipe, _ := os.Pipe()
	os.Stderr = wpipe

	w.logf("should not appear")

	wpipe.Close()
	os.Stderr = oldStderr
	var buf bytes.Buffer
	buf.ReadFrom(r)
	if buf.Len() != 0 {
		t.Errorf("logf wrote output with Debug unset: %q", buf.String())
	}
}

func TestWorldLogfWritesWhenDebugSet(t *testing.T) {
	w := newTestWorld(t)
	w.Debug = true

	oldStderr := os.Stderr
	r, wpipe, _ := os.Pipe()
	os.Stderr = wpipe

	w.logf("exhausted %d", 3)

	wpipe.Close()
	os.Stderr = oldStderr
	var buf bytes.Buffer
	buf.ReadFrom(r)
	if !bytes.Contains(buf.Bytes(), []byte("exhausted 3")) {
		t.Errorf("logf output = %q, want it to contain \"exhausted 3\"", buf.String())
	}
}

func TestDisaffirmAttachedParticlesTerminatesOnlyMatching(t *testing.T) {
	w := newTestWorld(t)
	holder := w.Objects.Alloc(Object{Flags: ObjAlive})
	other := w.Objects.Alloc(Object{Flags: ObjAlive})
	prof := &ParticleProfile{ID: 1}
	w.profiles[prof.ID] = prof

	attached := ParticleRef{h: w.Particles.Alloc(Particle{Profile: prof.ID, AttachedTo: holder})}
	unrelated := ParticleRef{h: w.Particles.Alloc(Particle{Profile: prof.ID, AttachedTo: other})}

	w.disaffirmAttachedParticles(holder)

	p, _ := w.Particles.Get(attached)
	q, _ := w.Particles.Get(unrelated)
	if !p.Terminated {
		t.Error("particle attached to the disaffirmed holder should terminate")
	}
	if q.Terminated {
		t.Error("particle attached to a different object should be unaffected")
	}
}

func TestReaffirmAttachedParticlesPublishesEvent(t *testing.T) {
	w := newTestWorld(t)
	ref := w.Objects.Alloc(Object{Flags: ObjAlive})

	var got ObjectRef
	ReaffirmEventType.Subscribe(w.events, func(e ReaffirmEvent) { got = e.Object })

	w.reaffirmAttachedParticles(ref)
	w.ProcessEvents()

	if got != ref {
		t.Errorf("ReaffirmEvent.Object = %v, want %v", got, ref)
	}
}
