package simcore

import "math"

// worldGravity is the constant downward acceleration applied to solid,
// gravity-affected particles (spec §4.2 step 5).
const worldGravity = -20.0

// stopBouncingPart is STOPBOUNCINGPART from spec §8's bounce scenario: a
// bounced particle below this Z-speed is considered at rest.
const stopBouncingPart = 10.0

const homingDither = 0.5

// StepParticlePhysics runs the physics sub-steps of spec §4.2, "Physics
// step (ParticlePhysics)", in order: save previous velocity, sample the
// environment, floor friction, homing, gravity (+ profile gravity-pull),
// then movement integration (detached) or crossing detection (attached).
func StepParticlePhysics(world *World, ref ParticleRef) {
	p, ok := world.Particles.Get(ref)
	if !ok || p.Terminated {
		return
	}
	prof := world.particleProfile(p.Profile)
	if prof == nil {
		return
	}

	prevVel := p.Velocity
	if p.AttachedTo.IsValid() {
		p.Velocity = p.Position.Sub(p.PrevPosition)
		p.PrevPosition = p.Position
		p.PrevVelocity = prevVel
		stepAttachedMovement(world, p, prof)
		return
	}
	p.PrevPosition = p.Position
	p.PrevVelocity = prevVel

	if world.Mesh != nil {
		p.Enviro = sampleEnviro(world.Mesh, p.Position, p.AirResistance, p.AirResistance*2)
	}

	if prof.Solid && !p.Homing {
		stepFloorFriction(p)
	}

	if p.Homing && p.Target.IsValid() {
		stepHoming(world, p, prof)
	}

	if prof.Solid && !p.Homing && p.Gravity {
		p.Velocity.Z += worldGravity * (1 - p.Enviro.AirFriction)
	}
	applyGravityPull(world, p, prof)

	stepDetachedMovement(world, p, prof)
}

// stepFloorFriction applies friction proportional to the floor-relative
// horizontal velocity, scaled by traction, when the particle is resting on
// or near the floor (spec §4.2 step 3).
func stepFloorFriction(p *Particle) {
	if p.Position.Z-p.Enviro.FloorLevel > 5 {
		return
	}
	horiz := Vec3{p.Velocity.X, p.Velocity.Y, 0}
	if horiz.IsZero() {
		return
	}
	drag := clamp(p.Enviro.FloorFriction*p.Enviro.Traction, 0, 1)
	friction := horiz.Scale(-drag)
	p.Velocity = p.Velocity.Add(friction)
	if friction.Length() > horiz.Length() {
		p.Enviro.Traction *= 0.5
	}
}

// stepHoming steers the particle toward its target plus half the target's
// height, with bounded random dither (reduced for an intellectually
// sharper owner), then blends the result into velocity by HomingAccel and
// damps by HomingFriction (spec §4.2 step 4).
func stepHoming(world *World, p *Particle, prof *ParticleProfile) {
	target, ok := world.Objects.Get(p.Target)
	if !ok {
		return
	}
	aimPoint := target.Position
	aimPoint.Z += targetHalfHeight(target)
	toTarget := aimPoint.Sub(p.Position)

	dither := world.RNG.Range(-homingDither, homingDither)
	if world.Damager != nil && p.Owner.IsValid() {
		intellect := world.Damager.Attribute(p.Owner, "Intellect")
		dither /= 1 + intellect/10
	}
	toTarget.X += dither
	toTarget.Y += dither

	dir := toTarget.Normalize()
	if dir.IsZero() {
		return
	}
	step := dir.Scale(prof.MinLength)
	p.Velocity = p.Velocity.Add(step.Scale(prof.HomingAccel)).Scale(prof.HomingFriction)
}

func targetHalfHeight(target *Object) float64 {
	h := target.MaxCV.ZMax - target.MaxCV.ZMin
	return h / 2
}

// applyGravityPull pulls hateful collidable objects toward the particle
// with magnitude GravityPull/distance^2 (spec §4.2 step 5).
func applyGravityPull(world *World, p *Particle, prof *ParticleProfile) {
	if prof.GravityPull <= 0 || world.Teams == nil {
		return
	}
	world.Objects.Each(func(h Handle, o *Object) {
		if !o.IsAlive() || !world.Teams.Hates(p.Team, o.Team) {
			return
		}
		d := o.Position.Sub(p.Position)
		distSq := d.LengthSq()
		if distSq < 1e-6 {
			return
		}
		mag := prof.GravityPull / distSq
		o.Velocity = o.Velocity.Sub(d.Normalize().Scale(mag))
	})
}

// stepDetachedMovement integrates an unattached particle's position (spec
// §4.2 step 6): Z then XY, bouncing or clamping at the floor, reflecting
// off walls, facing the direction of travel (or the target if stationary)
// when RotateToFace is set, and clamping Z >= 0 for homing particles.
func stepDetachedMovement(world *World, p *Particle, prof *ParticleProfile) {
	p.Position.Z += p.Velocity.Z
	if p.Position.Z < p.Enviro.FloorLevel {
		p.Position.Z = p.Enviro.FloorLevel
		if prof.Dampen > 0 {
			p.Velocity.Z = -p.Velocity.Z * prof.Dampen
			if math.Abs(p.Velocity.Z) < stopBouncingPart {
				p.Velocity.Z = 0
			}
		} else {
			p.Velocity.Z = 0
		}
		if prof.EndOnGround {
			p.Terminated = true
			return
		}
	}

	p.Position.X += p.Velocity.X
	p.Position.Y += p.Velocity.Y
	if world.Mesh != nil {
		radius := (p.MaxCV.XMax - p.MaxCV.XMin) / 2
		if ok, normal, pressure := world.Mesh.HitWall(p.Position, radius, MapFXWall|MapFXImpass); ok {
			n := Vec3{normal.X, normal.Y, 0}.Normalize()
			vDotN := p.Velocity.Dot(n)
			parallel := p.Velocity.Sub(n.Scale(vDotN))
			p.Velocity = n.Scale(-vDotN).Add(parallel.Scale(prof.Dampen))
			p.Position = p.Position.Add(n.Scale(pressure))
			if prof.EndOnWall {
				p.Terminated = true
				return
			}
		}
	}

	if prof.RotateToFace {
		switch {
		case !p.Velocity.IsZero():
			p.Facing = FacingFromRadians(math.Atan2(p.Velocity.Y, p.Velocity.X))
		case p.Target.IsValid():
			if tgt, ok := world.Objects.Get(p.Target); ok {
				d := tgt.Position.Sub(p.Position)
				p.Facing = FacingFromRadians(math.Atan2(d.Y, d.X))
			}
		}
	}

	if p.Homing && p.Position.Z < 0 {
		p.Position.Z = 0
	}
}

// stepAttachedMovement detects floor/wall crossings that would terminate an
// attached particle per its profile, without integrating its position
// (spec §4.2 step 7: "no integration; only detect floor/wall crossings").
func stepAttachedMovement(world *World, p *Particle, prof *ParticleProfile) {
	if world.Mesh == nil {
		return
	}
	if prof.EndOnGround && p.Position.Z <= world.Mesh.Elevation(p.Position.X, p.Position.Y) {
		p.Terminated = true
		return
	}
	if prof.EndOnWall {
		radius := (p.MaxCV.XMax - p.MaxCV.XMin) / 2
		if ok, _, _ := world.Mesh.HitWall(p.Position, radius, MapFXWall|MapFXImpass); ok {
			p.Terminated = true
		}
	}
}
