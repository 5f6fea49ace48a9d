package simcore

import "math"

// TeamRelations is the team-hate collaborator consumed by target
// acquisition and the collision resolver's bump filter (spec §4.2,
// "newtargetonspawn"; spec §4.4, "Bump filter").
type TeamRelations interface {
	Hates(a, b int) bool
}

// DynamicLight is a particle's contribution to the lighting pass (spec §3,
// "dynamic light state").
type DynamicLight struct {
	Level, LevelAdd     float64
	Falloff, FalloffAdd float64
}

// ParticleAnim is a particle's image animation counters (spec §3,
// "animation state (image start/add/count/offset)").
type ParticleAnim struct {
	ImageStart, ImageAdd, ImageCount, ImageOffset int
}

// Particle is the authoritative state of one simulated particle (spec §3,
// "Particle").
type Particle struct {
	Profile       int
	SpawnerProfile int

	Position, Velocity         Vec3
	PrevPosition, PrevVelocity Vec3
	Facing                     Facing
	Scale                      float64

	Owner  ObjectRef
	Target ObjectRef
	Parent ParticleRef

	AttachedTo           ObjectRef
	AttachedVertexOffset int

	Team int

	Damage     IPair
	DamageType DamageType
	LifeDrain  float64
	ManaDrain  float64

	RemainingTicks      int
	RemainingAnimFrames int
	Eternal             bool
	Terminated          bool

	Anim  ParticleAnim
	Light DynamicLight

	MinCV, MaxCV OBB // prt_min_cv (tight), prt_max_cv (padded)

	Enviro Enviro

	Homing        bool
	Gravity       bool
	Buoyancy      float64
	AirResistance float64

	HitObjects []ObjectRef

	ContinuousSpawnCountdown int
	AttachedDamageTickCount  int

	WasAboveWater  bool
	LastSplashTick int64

	PlatformRef ObjectRef
}

// hasHit reports whether ref is already in the particle's per-lifetime hit
// list (spec §3: "a deque of object references it has already collided
// with, to prevent repeated hits per particle unless marked eternal").
func (p *Particle) hasHit(ref ObjectRef) bool {
	for _, r := range p.HitObjects {
		if r == ref {
			return true
		}
	}
	return false
}

func (p *Particle) recordHit(ref ObjectRef) {
	if p.Eternal {
		return
	}
	p.HitObjects = append(p.HitObjects, ref)
}

// SpawnParams supplies everything [SpawnParticle] needs beyond the profile
// itself (spec §4.2, "Spawn").
type SpawnParams struct {
	Profile        *ParticleProfile
	SpawnerProfile int
	Owner          ObjectRef
	Target         ObjectRef
	Parent         ParticleRef
	Position       Vec3
	Facing         Facing
	AimSkill       float64 // widens/narrows the facing perturbation cone
	Team           int
	AttachedTo     ObjectRef
	AttachedVertex int
	Eternal        bool
}

const (
	spawnPosJitter   = 2.0
	spawnVelAngleJit = 2048.0 // Facing units, ~11 degrees
	spawnVelZJitter  = 2.0
	spawnSoundID     = 0
)

// SpawnParticle creates a new Particle from params (spec §4.2, "Spawn"):
// position/velocity/facing are perturbed, a target is acquired if the
// profile requests it, lifetime and buoyancy/air-resistance are resolved,
// and an attached particle is placed at its holder's vertex.
func SpawnParticle(world *World, params SpawnParams) ParticleRef {
	prof := params.Profile
	pos := params.Position
	pos.X += world.RNG.Range(-spawnPosJitter, spawnPosJitter)
	pos.Y += world.RNG.Range(-spawnPosJitter, spawnPosJitter)

	aimJitter := spawnVelAngleJit / (1 + params.AimSkill)
	facing := Facing(float64(params.Facing) + world.RNG.Range(-aimJitter, aimJitter))

	angle := facing.Radians()
	vel := Vec3{
		X: prof.SpeedLimit * math.Cos(angle),
		Y: prof.SpeedLimit * math.Sin(angle),
		Z: world.RNG.Range(-spawnVelZJitter, spawnVelZJitter),
	}

	target := params.Target
	if prof.NewTargetOnSpawn {
		if acquired, ok := acquireNearestHostile(world, params.Team, pos, facing); ok {
			target = acquired
			if tgtObj, ok := world.Objects.Get(target); ok {
				vel.Z = aimVelocityZ(pos, tgtObj.Position, prof.SpeedLimit)
			}
		}
	}

	buoyancy, airRes := resolveBuoyancyAirResistance(prof)

	pr := Particle{
		Profile:        prof.ID,
		SpawnerProfile: params.SpawnerProfile,
		Position:       pos,
		Velocity:       vel,
		PrevPosition:   pos,
		PrevVelocity:   vel,
		Facing:         facing,
		Scale:          1,
		Owner:          params.Owner,
		Target:         target,
		Parent:         params.Parent,
		AttachedTo:     params.AttachedTo,
		AttachedVertexOffset: params.AttachedVertex,
		Team:           params.Team,
		Damage:         prof.Damage,
		DamageType:     prof.DamageType,
		LifeDrain:      prof.LifeDrain,
		ManaDrain:      prof.ManaDrain,
		RemainingTicks: resolveLifetime(prof),
		Eternal:        prof.Eternal || params.Eternal,
		Homing:         prof.Homing,
		Gravity:        prof.Gravity && !prof.NoGravity,
		Buoyancy:       buoyancy,
		AirResistance:  airRes,
		Anim: ParticleAnim{
			ImageStart: prof.ImageStart,
			ImageAdd:   prof.ImageAdd,
			ImageCount: prof.ImageCount,
		},
		Light: DynamicLight{LevelAdd: prof.DynamicLightAdd, FalloffAdd: prof.DynamicLightFalloffAdd},
	}

	if params.AttachedTo.IsValid() {
		if holder, ok := world.Objects.Get(params.AttachedTo); ok {
			if v, ok := holderSkinnedVertex(holder, params.AttachedVertex); ok {
				pr.Position = v
				pr.PrevPosition = v
			}
			if prof.MissileTreatment&DamFXTurn != 0 {
				pr.Facing = holder.Facing.Yaw
			}
		}
	}

	ref := ParticleRef{h: world.Particles.Alloc(pr)}
	if world.Audio != nil {
		world.Audio.PlaySound(pos, spawnSoundID)
	}
	return ref
}

// resolveLifetime resolves a particle's tick budget (spec §4.2, "Resolve
// lifetime: either end_lastframe ..., an explicit tick count, or
// infinite").
func resolveLifetime(prof *ParticleProfile) int {
	if prof.Eternal {
		return -1
	}
	if prof.EndLastFrame {
		if prof.ImageAdd <= 0 {
			return 1
		}
		return (prof.ImageCount + prof.ImageAdd - 1) / prof.ImageAdd
	}
	if prof.LifetimeTicks <= 0 {
		return -1 // spec §8 boundary: end_time <= 0 is treated as infinite
	}
	return prof.LifetimeTicks
}

// resolveBuoyancyAirResistance picks buoyancy/air-resistance so a particle
// of this profile reaches terminal velocity exactly at SpeedLimit (spec
// §4.2, "Resolve buoyancy and air-resistance ... both quantities are
// clamped to sensible ranges").
func resolveBuoyancyAirResistance(prof *ParticleProfile) (buoyancy, airResistance float64) {
	if prof.SpeedLimit <= 0 {
		return 0, 0
	}
	airResistance = clamp(1.0/prof.SpeedLimit, 0.01, 0.9)
	buoyancy = clamp(prof.SpeedLimit*airResistance, 0, -worldGravity)
	return buoyancy, airResistance
}

// aimVelocityZ picks the Z velocity so a projectile of horizontal speed
// leaving from to arrives level with to's height (spec §4.2, "pre-aim the
// velocity Z so the particle meets the target"). Assumes no gravity
// integration in the estimate, which is adequate for the shallow arcs this
// engine's missiles fly.
func aimVelocityZ(from, to Vec3, speed float64) float64 {
	horizDist := (Vec2{to.X - from.X, to.Y - from.Y})
	dist := math.Hypot(horizDist.X, horizDist.Y)
	if dist < 1e-6 || speed <= 0 {
		return 0
	}
	timeToReach := dist / speed
	if timeToReach <= 0 {
		return 0
	}
	return (to.Z - from.Z) / timeToReach
}

// acquireNearestHostile searches for the nearest object whose team world's
// Teams collaborator reports team hates, within a forward cone of facing
// (spec §4.2: "acquire a target by search (nearest hostile in cone)").
func acquireNearestHostile(world *World, team int, pos Vec3, facing Facing) (ObjectRef, bool) {
	if world.Teams == nil {
		return InvalidObjectRef, false
	}
	const coneHalfAngle = math.Pi / 3 // 60 degrees either side

	best := InvalidObjectRef
	bestDistSq := maxFloat
	aim := facing.Radians()

	world.Objects.Each(func(h Handle, o *Object) {
		if !o.IsAlive() || !world.Teams.Hates(team, o.Team) {
			return
		}
		d := o.Position.Sub(pos)
		distSq := d.LengthSq()
		if distSq < 1e-9 {
			return
		}
		angle := math.Atan2(d.Y, d.X)
		diff := math.Abs(normalizeAngle(angle - aim))
		if diff > coneHalfAngle {
			return
		}
		if distSq < bestDistSq {
			bestDistSq = distSq
			best = ObjectRef{h: h}
		}
	})
	return best, best.IsValid()
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// holderSkinnedVertex returns the world-space position of holder's skinned
// vertex at index, if available.
func holderSkinnedVertex(holder *Object, index int) (Vec3, bool) {
	if index < 0 || index >= len(holder.SkinnedVerts) {
		return Vec3{}, false
	}
	return holder.WorldMatrix.TransformPoint(holder.SkinnedVerts[index]), true
}

// TickParticle runs the per-tick update of spec §4.2, "Per-tick update",
// steps 1-9 (physics integration is [StepParticlePhysics], run separately
// per §2's subsystem ordering).
func TickParticle(world *World, ref ParticleRef, model Model) {
	p, ok := world.Particles.Get(ref)
	if !ok {
		return
	}
	if p.Terminated {
		return
	}

	// 2: attachment re-derivation / detach-on-missing-holder.
	if p.AttachedTo.IsValid() {
		holder, ok := world.Objects.Get(p.AttachedTo)
		if !ok {
			p.AttachedTo = InvalidObjectRef
			p.Terminated = true
			return
		}
		if v, ok := holderSkinnedVertex(holder, p.AttachedVertexOffset); ok {
			p.Position = v
		}
	} else if p.Homing {
		// 3: drop homing iff newly attached or target gone (attachment
		// case is handled above; here we only need the target-gone half).
		if p.Target.IsValid() {
			if _, ok := world.Objects.Get(p.Target); !ok {
				p.Homing = false
			}
		}
	}

	// 4: dynamic light.
	p.Light.Level += p.Light.LevelAdd
	p.Light.Falloff += p.Light.FalloffAdd

	// 5: animation.
	tickParticleAnim(world, p)
	if p.Terminated {
		return
	}

	// 6: water interaction.
	tickParticleWater(world, p)
	if p.Terminated {
		return
	}

	// 7: continuous spawn.
	tickContinuousSpawn(world, ref, p)

	// 8: attached damage tick.
	tickAttachedDamage(world, p)

	// 9: lifetime.
	if p.RemainingTicks > 0 {
		p.RemainingTicks--
		if p.RemainingTicks == 0 {
			p.Terminated = true
		}
	}
}

func tickParticleAnim(world *World, p *Particle) {
	a := &p.Anim
	if a.ImageAdd <= 0 {
		return
	}
	a.ImageOffset += a.ImageAdd
	if a.ImageOffset < a.ImageCount {
		return
	}
	prof := world.particleProfile(p.Profile)
	if prof != nil && prof.EndLastFrame {
		a.ImageOffset = a.ImageCount - 1
		p.Terminated = true
		return
	}
	if a.ImageCount > 0 {
		a.ImageOffset %= a.ImageCount
	}
}

const particleSplashCooldown = 8

// tickParticleWater implements spec §4.2 step 6, "Water interaction": a
// particle whose profile requests end_water either quenches (disaffirms)
// every particle attached to its holder, when it is itself that holder's
// reaffirm source, or simply terminates; otherwise a water-surface crossing
// plays a splash (solid particles, every crossing) or ripple (non-solid,
// cooldown-gated).
func tickParticleWater(world *World, p *Particle) {
	if world.Mesh == nil {
		return
	}
	_, isWater := world.Mesh.Water(p.Position.X, p.Position.Y)
	prof := world.particleProfile(p.Profile)
	aboveWater := !isWater || p.Position.Z > p.Enviro.WaterLevel
	wasAboveWater := p.WasAboveWater
	p.WasAboveWater = aboveWater

	if !isWater || aboveWater || prof == nil {
		return
	}

	if prof.EndWater {
		if holder, ok := isOwnReaffirmSource(world, p); ok {
			world.disaffirmAttachedParticles(holder)
			return
		}
		p.Terminated = true
		return
	}

	if !wasAboveWater || world.Audio == nil {
		return
	}
	if prof.Solid {
		world.Audio.PlaySound(p.Position, splashSoundID)
		return
	}
	if world.Tick-p.LastSplashTick < particleSplashCooldown {
		return
	}
	p.LastSplashTick = world.Tick
	world.Audio.PlaySound(p.Position, rippleSoundID)
}

// isOwnReaffirmSource reports whether p is attached to a holder for whom p's
// damage type is the holder's own reaffirm source (spec §4.2 step 6,
// "when the particle is the holder's own reaffirm source").
func isOwnReaffirmSource(world *World, p *Particle) (ObjectRef, bool) {
	if !p.AttachedTo.IsValid() {
		return InvalidObjectRef, false
	}
	holder, ok := world.Objects.Get(p.AttachedTo)
	if !ok || !holder.HasReaffirmType || holder.ReaffirmDamageType != p.DamageType {
		return InvalidObjectRef, false
	}
	return p.AttachedTo, true
}

const (
	splashSoundID = 1
	rippleSoundID = 2
)

func tickContinuousSpawn(world *World, ref ParticleRef, p *Particle) {
	prof := world.particleProfile(p.Profile)
	if prof == nil || prof.ContinuousSpawn.Amount <= 0 {
		return
	}
	if p.ContinuousSpawnCountdown > 0 {
		p.ContinuousSpawnCountdown--
		return
	}
	p.ContinuousSpawnCountdown = prof.ContinuousSpawn.Delay

	facing := p.Facing
	for i := 0; i < prof.ContinuousSpawn.Amount; i++ {
		SpawnParticle(world, SpawnParams{
			Profile:        prof,
			SpawnerProfile: p.Profile,
			Owner:          p.Owner,
			Team:           p.Team,
			Position:       p.Position,
			Facing:         facing,
		})
		facing += prof.ContinuousSpawn.FacingAdd
	}
}

const attachedDamageTickPeriod = 32

// tickAttachedDamage implements spec §4.2 step 8: every 32 ticks, an
// attached particle bleeds a fraction of its remaining damage into its
// target, with the remaining base adjusted so the running total still
// sums to the original damage.
func tickAttachedDamage(world *World, p *Particle) {
	if !p.AttachedTo.IsValid() {
		return
	}
	p.AttachedDamageTickCount++
	if p.AttachedDamageTickCount < attachedDamageTickPeriod {
		return
	}
	p.AttachedDamageTickCount = 0

	target, ok := world.Objects.Get(p.AttachedTo)
	if !ok || !target.IsAlive() {
		return
	}
	if world.Damager == nil {
		return
	}

	ticksLeft := p.RemainingTicks
	if ticksLeft <= 0 {
		ticksLeft = 1
	}
	share := p.Damage.Base / 2 / float64(ticksLeft)
	if world.Damager.Vulnerability(p.AttachedTo, p.DamageType, p.Owner) {
		share *= 2
	}
	world.Damager.Damage(p.AttachedTo, 0, IPair{Base: share}, p.DamageType, p.Team, p.Owner, false, false)
	p.Damage.Base -= share
	if p.Damage.Base < 0 {
		p.Damage.Base = 0
	}
}
