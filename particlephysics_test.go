package simcore

import "testing"

func newPhysicsParticle(w *World, prof *ParticleProfile) ParticleRef {
	w.profiles[prof.ID] = prof
	return ParticleRef{h: w.Particles.Alloc(Particle{Profile: prof.ID, Scale: 1, Gravity: prof.Gravity && !prof.NoGravity})}
}

// Scenario 3 of spec §8: a bounced solid particle's post-bounce Z velocity
// should settle below stopBouncingPart once its speed decays under the
// threshold, and should never exceed the pre-bounce magnitude scaled by the
// profile's dampen factor.
func TestStepParticlePhysicsBouncesOffFloor(t *testing.T) {
	w := newTestWorld(t)
	w.Mesh = &fakeMesh{floor: 0}
	prof := &ParticleProfile{ID: 1, Solid: true, Dampen: 0.5, Gravity: true}
	ref := newPhysicsParticle(w, prof)
	p, _ := w.Particles.Get(ref)
	p.Position = Vec3{0, 0, 0.5}
	p.Velocity = Vec3{0, 0, -20}

	StepParticlePhysics(w, ref)
	p, _ = w.Particles.Get(ref)
	if p.Position.Z != 0 {
		t.Errorf("Position.Z = %v, want clamped to floor 0", p.Position.Z)
	}
	if p.Velocity.Z > 0 && p.Velocity.Z > 20 {
		t.Errorf("bounced Z velocity %v exceeds pre-bounce magnitude", p.Velocity.Z)
	}
}

func TestStepParticlePhysicsStopsBouncingBelowThreshold(t *testing.T) {
	w := newTestWorld(t)
	w.Mesh = &fakeMesh{floor: 0}
	prof := &ParticleProfile{ID: 1, Solid: true, Dampen: 0.1}
	ref := newPhysicsParticle(w, prof)
	p, _ := w.Particles.Get(ref)
	p.Position = Vec3{0, 0, -1}
	p.Velocity = Vec3{0, 0, -5} // bounced speed 0.5, below stopBouncingPart

	StepParticlePhysics(w, ref)
	p, _ = w.Particles.Get(ref)
	if p.Velocity.Z != 0 {
		t.Errorf("Velocity.Z = %v, want 0 once below stopBouncingPart", p.Velocity.Z)
	}
}

func TestStepParticlePhysicsGravityAppliesWhenSolidAndNotHoming(t *testing.T) {
	w := newTestWorld(t)
	w.Mesh = &fakeMesh{floor: -1000}
	prof := &ParticleProfile{ID: 1, Solid: true, Gravity: true}
	ref := newPhysicsParticle(w, prof)
	p, _ := w.Particles.Get(ref)
	p.Position = Vec3{0, 0, 100}

	StepParticlePhysics(w, ref)
	p, _ = w.Particles.Get(ref)
	if p.Velocity.Z >= 0 {
		t.Errorf("Velocity.Z = %v, want negative after gravity integration", p.Velocity.Z)
	}
}

func TestStepParticlePhysicsHomingTurnsTowardTarget(t *testing.T) {
	w := newTestWorld(t)
	w.Mesh = &fakeMesh{floor: -1000}
	target := w.Objects.Alloc(Object{Flags: ObjAlive, Position: Vec3{100, 0, 0}})
	prof := &ParticleProfile{ID: 1, Homing: true, HomingAccel: 1, HomingFriction: 1, MinLength: 1}
	ref := newPhysicsParticle(w, prof)
	p, _ := w.Particles.Get(ref)
	p.Position = Vec3{0, 0, 0}
	p.Target = target
	p.Homing = true

	StepParticlePhysics(w, ref)
	p, _ = w.Particles.Get(ref)
	if p.Velocity.X <= 0 {
		t.Errorf("Velocity.X = %v, want positive (steering toward target at +X)", p.Velocity.X)
	}
}

func TestStepParticlePhysicsAttachedSkipsIntegration(t *testing.T) {
	w := newTestWorld(t)
	holder := w.Objects.Alloc(Object{Flags: ObjAlive})
	prof := &ParticleProfile{ID: 1}
	ref := newPhysicsParticle(w, prof)
	p, _ := w.Particles.Get(ref)
	p.AttachedTo = holder
	p.Position = Vec3{1, 2, 3}

	StepParticlePhysics(w, ref)
	p, _ = w.Particles.Get(ref)
	if p.Position != (Vec3{1, 2, 3}) {
		t.Error("attached particle position should not be integrated by physics")
	}
}

func TestApplyGravityPullAttractsHatedObjects(t *testing.T) {
	w := newTestWorld(t)
	w.Teams = newFakeTeams()
	w.Teams.(*fakeTeams).hate[[2]int{0, 1}] = true
	target := w.Objects.Alloc(Object{Flags: ObjAlive, Team: 1, Position: Vec3{10, 0, 0}})
	prof := &ParticleProfile{ID: 1, GravityPull: 100}
	ref := newPhysicsParticle(w, prof)
	p, _ := w.Particles.Get(ref)
	p.Team = 0
	_ = ref

	applyGravityPull(w, p, prof)
	obj, _ := w.Objects.Get(target)
	if obj.Velocity.X >= 0 {
		t.Errorf("Velocity.X = %v, want negative (pulled toward the particle at origin)", obj.Velocity.X)
	}
}
