package simcore

import "math"

// maxKnockbackVelocity is MAX_KNOCKBACK_VELOCITY from spec §4.4.
const maxKnockbackVelocity = 40.0

// NeutralTeam is the sentinel team id the bump filter treats as "no side"
// (spec §4.4, "the particle is neutral and damages A").
const NeutralTeam = -1

// CollisionGeometry is the resolved contact between an object's CV and a
// particle's CV (spec §4.4, "Geometric classification").
type CollisionGeometry struct {
	Normal      Vec3
	Overlap     float64
	IntMin      bool
	IntMax      bool
	IsImpact    bool
	IsPressure  bool
	IsCollision bool
}

// ClassifyCollision resolves the contact geometry between obj and p over
// [tMin, tMax] (spec §4.4, "Geometric classification"): the small CV is
// tried first, widened to the padded CV on failure; a padded-only hit
// forces the normal flat (z=0).
func ClassifyCollision(obj *Object, p *Particle, tMin, tMax float64) (CollisionGeometry, bool) {
	if geo, ok := classifyWithCV(obj.MinCV, p.MinCV, obj.Velocity, p.Velocity, tMin, tMax); ok {
		return geo, true
	}
	geo, ok := classifyWithCV(obj.MinCV, p.MaxCV, obj.Velocity, p.Velocity, tMin, tMax)
	if ok {
		geo.Normal.Z = 0
	}
	return geo, ok
}

func classifyWithCV(objCV, prtCV OBB, velObj, velPrt Vec3, tMin, tMax float64) (CollisionGeometry, bool) {
	var a, b AABB3
	isPressure := tMin <= 0 || tMin > tMax
	if isPressure {
		a, b = objCV.AABB(), prtCV.AABB()
	} else {
		dt := (tMax - tMin) * 0.1
		a = objCV.AABB().Translate(velObj.Scale(dt))
		b = prtCV.AABB().Translate(velPrt.Scale(dt))
	}
	if !a.Overlaps(b) {
		return CollisionGeometry{}, false
	}
	normal, depth, intMin, intMax := penetrationAxis(a, b)
	return CollisionGeometry{
		Normal:      normal,
		Overlap:     depth,
		IntMin:      intMin,
		IntMax:      intMax,
		IsImpact:    !isPressure,
		IsPressure:  isPressure,
		IsCollision: !isPressure,
	}, true
}

// penetrationAxis picks the axis-aligned overlap of least (non-zero) depth
// between a and b, matching spec §4.4 "pick smallest non-zero" overlap.
func penetrationAxis(a, b AABB3) (normal Vec3, depth float64, intMin, intMax bool) {
	type axisPen struct {
		depth  float64
		normal Vec3
	}
	candidates := [6]axisPen{
		{b.Max.X - a.Min.X, Vec3{-1, 0, 0}},
		{a.Max.X - b.Min.X, Vec3{1, 0, 0}},
		{b.Max.Y - a.Min.Y, Vec3{0, -1, 0}},
		{a.Max.Y - b.Min.Y, Vec3{0, 1, 0}},
		{b.Max.Z - a.Min.Z, Vec3{0, 0, -1}},
		{a.Max.Z - b.Min.Z, Vec3{0, 0, 1}},
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.depth > 0 && (best.depth <= 0 || c.depth < best.depth) {
			best = c
		}
	}
	intMin = candidates[0].depth > 0 && candidates[2].depth > 0 && candidates[4].depth > 0
	intMax = candidates[1].depth > 0 && candidates[3].depth > 0 && candidates[5].depth > 0
	return best.normal, best.depth, intMin, intMax
}

// platformSoftenExponent is the "softer distance metric (exponent +2)" used
// for resting-on-platform stability between solid particles and
// platform-flagged objects (spec §4.4, "Geometric classification").
const platformSoftenExponent = 2.0

func softenForPlatform(depth float64, isPlatform bool) float64 {
	if !isPlatform || depth <= 0 {
		return depth
	}
	return math.Pow(depth, 1.0/(1.0+1.0/platformSoftenExponent))
}

// bumps reports whether p bumps obj per the rules of spec §4.4, "Bump
// filter".
func bumps(world *World, objRef ObjectRef, obj *Object, p *Particle, prof *ParticleProfile) bool {
	if p.hasHit(objRef) {
		return false
	}
	doesDamage := prof.Damage.Base > 0 || prof.Damage.Rand > 0
	hates := world.Teams != nil && world.Teams.Hates(p.Team, obj.Team)
	switch {
	case hates && doesDamage:
		return true
	case hates && prof.HateOnly:
		return true
	case p.Team == NeutralTeam && doesDamage:
		return true
	case prof.OnlyDamageFriendly && obj.Team == p.Team:
		return true
	case prof.FriendlyFire && !hates && p.Owner != objRef:
		return true
	default:
		return false
	}
}

// ResolveCharacterParticleCollision runs spec §4.4 end to end for one
// candidate (obj, p) pair produced by a BSP query, over the swept-collision
// interval [tMin, tMax].
func ResolveCharacterParticleCollision(world *World, objRef ObjectRef, pref ParticleRef, tMin, tMax float64) {
	obj, ok := world.Objects.Get(objRef)
	if !ok || !obj.IsAlive() {
		return
	}
	p, ok := world.Particles.Get(pref)
	if !ok || p.Terminated {
		return
	}
	if p.AttachedTo == objRef {
		return
	}
	prof := world.particleProfile(p.Profile)
	if prof == nil {
		return
	}

	geo, ok := ClassifyCollision(obj, p, tMin, tMax)
	if !ok {
		return
	}
	// A solid particle bumping a platform-flagged object is resting contact,
	// not an impact: soften its overlap (spec §4.4, "Geometric
	// classification") and skip the knockback below so it doesn't get
	// launched off its support.
	platformRest := obj.Flags.Has(ObjPlatform) && prof.Solid
	if platformRest {
		geo.Overlap = softenForPlatform(geo.Overlap, true)
	}

	if !bumps(world, objRef, obj, p, prof) {
		detectPlatformAttach(world, objRef, obj, pref, p)
		return
	}

	vdiff := obj.Velocity.Sub(p.Velocity)
	vdiffPara := geo.Normal.Scale(vdiff.Dot(geo.Normal))

	if resolveDeflection(world, objRef, obj, pref, p, prof, vdiff, vdiffPara, geo) {
		p.recordHit(objRef)
		return
	}

	applyDamage(world, objRef, obj, pref, p, prof)
	p.recordHit(objRef)

	if prof.GrogTime > 0 || prof.DazeTime > 0 || prof.MeleeWeapon || prof.RangedWeapon {
		applyGrogDaze(world, obj, p, prof)
	}

	if prof.AllowPush && !platformRest {
		applyKnockback(world, objRef, obj, p, prof, geo)
	}

	if prof.EndOnBump {
		if prof.BumpMoney > 0 {
			target := objRef
			if obj.Flags.Has(ObjMount) {
				if rider, ok := riderOf(world, objRef); ok {
					target = rider
				}
			}
			if t, ok := world.Objects.Get(target); ok {
				t.Money += prof.BumpMoney
			}
		}
		p.Terminated = true
	}

	if obj.HasReaffirmType && obj.ReaffirmDamageType == p.DamageType {
		world.reaffirmAttachedParticles(objRef)
	}

	spawnBumpParticles(world, objRef, obj, p, prof)
}

// riderOf searches for the object riding mount, if any (spec §4.4,
// "bump_money transfers coin to A (or A's rider for mounts)"). A ridden
// object's AttachmentSlots.HeldBy points at its mount, the same way a held
// item's HeldBy points at the hand holding it.
func riderOf(world *World, mount ObjectRef) (ObjectRef, bool) {
	var rider ObjectRef
	found := false
	world.Objects.Each(func(h Handle, o *Object) {
		if found || !o.Flags.Has(ObjRidden) {
			return
		}
		if o.Attachment.HeldBy == mount {
			rider = ObjectRef{h: h}
			found = true
		}
	})
	return rider, found
}

// resolveDeflection implements spec §4.4, "Deflection". Returns true if the
// particle was deflected (damage must not proceed).
func resolveDeflection(world *World, objRef ObjectRef, obj *Object, pref ParticleRef, p *Particle, prof *ParticleProfile, vdiff, vdiffPara Vec3, geo CollisionGeometry) bool {
	wouldDamage := prof.Damage.Base > 0 || prof.Damage.Rand > 0
	if !wouldDamage {
		return false
	}
	hasMissilePerk := world.Damager != nil && world.Damager.HasPerk(objRef, "MissileTreatment")
	if !obj.Flags.Has(ObjInvincible) && !hasMissilePerk {
		return false
	}

	switch obj.DeflectKind {
	case DeflectReverseVelocity:
		p.Velocity = p.Velocity.Sub(vdiff.Scale(2))
		p.Owner = objRef
		p.Team = obj.Team
	default:
		p.Velocity = p.Velocity.Sub(vdiffPara.Scale(2))
		p.Homing = false
	}

	blocked := false
	if obj.Flags.Has(ObjParryPose) && obj.Flags.Has(ObjHoldingShield) && world.Damager != nil {
		attackerMight := world.Damager.Attribute(p.Owner, "Might")
		defenderMight := world.Damager.Attribute(objRef, "Might")
		rating := 20.0 - 4*attackerMight + 2*defenderMight
		if world.Damager.HasPerk(objRef, "Defender") {
			rating += 100
		}
		if world.RNG.Percent() <= int(rating) {
			blocked = true
		} else {
			obj.ShieldBrokenUntilTick = world.Tick + shieldBrokenCooldownTicks
		}
	}

	if world.Billboards != nil {
		text := "Deflected!"
		if blocked {
			text = "Blocked!"
		}
		world.Billboards.MakeBillboard(objRef, text, Color{1, 1, 1, 1}, Color{1, 1, 1, 1}, 3, 0)
	}
	return true
}

const shieldBrokenCooldownTicks = 40

// applyDamage implements spec §4.4, "Damage".
func applyDamage(world *World, objRef ObjectRef, obj *Object, pref ParticleRef, p *Particle, prof *ParticleProfile) {
	if world.Damager == nil {
		return
	}

	if p.LifeDrain > 0 {
		drained := math.Min(p.LifeDrain, obj.HP)
		obj.HP -= drained
		if owner, ok := world.Objects.Get(p.Owner); ok {
			owner.HP += drained
		}
	}
	if p.ManaDrain > 0 {
		drained := math.Min(p.ManaDrain, obj.Mana)
		obj.Mana -= drained
		if owner, ok := world.Objects.Get(p.Owner); ok {
			owner.Mana += drained
		}
	}

	vulnerable := world.Damager.Vulnerability(objRef, p.DamageType, p.Owner)
	amount := p.Damage
	if vulnerable {
		amount.Base *= 2
		amount.Rand *= 2
	}
	amount = applyPerkModifiers(world, objRef, p, amount)

	if dodgeSucceeds(world, objRef, prof) {
		return
	}

	direction := FacingFromRadians(math.Atan2(obj.Position.Y-p.Position.Y, obj.Position.X-p.Position.X))
	armorPiercing := prof.MissileTreatment&DamFXArmor != 0
	timeBypass := prof.MissileTreatment&DamFXTime != 0
	world.Damager.Damage(objRef, direction, amount, p.DamageType, p.Team, p.Owner, armorPiercing, timeBypass)

	applyGrimReaper(world, objRef, direction, p, prof)
}

// applyGrimReaper implements the Grim Reaper perk (spec §4.4, "Damage"): a
// scythe hit has a 5% chance to deal a further 50 points of bonus EVIL
// damage.
func applyGrimReaper(world *World, objRef ObjectRef, direction Facing, p *Particle, prof *ParticleProfile) {
	if !prof.ScytheWeapon || !p.Owner.IsValid() || !world.Damager.HasPerk(p.Owner, "GrimReaper") {
		return
	}
	if world.RNG.Percent() > 5 {
		return
	}
	world.Damager.Damage(objRef, direction, IPair{Base: 50}, DamageEvil, p.Team, p.Owner, false, true)
	if world.Billboards != nil {
		world.Billboards.MakeBillboard(objRef, "Grim Reaper!", Color{1, 1, 1, 1}, Color{1, 0, 0, 1}, 3, 0)
	}
}

// applyPerkModifiers applies the attacker's damage-amount perk bonuses named
// in spec §4.4, "Damage": Sorcery (+10% spells), Dark Arts (+20% evil),
// Deadly Strike, Disintegrate, Critical Hit (max roll), plus the
// Intellect-scaled spell bonus. Brutal Strike, Crack Shot and Grim Reaper
// are weapon-classified rather than damage-type-classified and live in
// applyGrogDaze and applyGrimReaper instead.
func applyPerkModifiers(world *World, objRef ObjectRef, p *Particle, amount IPair) IPair {
	if world.Damager == nil || !p.Owner.IsValid() {
		return amount
	}
	if p.DamageType == DamageZap || p.DamageType == DamageIce || p.DamageType == DamageFire {
		intellect := world.Damager.Attribute(p.Owner, "Intellect")
		amount.Base *= 1 + (intellect-14)*0.02
		if world.Damager.HasPerk(p.Owner, "Sorcery") {
			amount.Base *= 1.1
		}
	}
	if p.DamageType == DamageEvil && world.Damager.HasPerk(p.Owner, "DarkArts") {
		amount.Base *= 1.2
	}
	if world.Damager.HasPerk(p.Owner, "DeadlyStrike") {
		amount.Base *= 1.1
	}
	if world.Damager.HasPerk(p.Owner, "Disintegrate") && world.Teams != nil {
		amount.Base *= 1.5
	}
	if world.Damager.HasPerk(p.Owner, "CriticalHit") {
		if world.RNG.Percent() >= 95 {
			amount.Base += amount.Rand
			amount.Rand = 0
		}
	}
	return amount
}

// dodgeSucceeds rolls the Dodge perk against Agility plus Masterful Dodge
// flat bonus (spec §4.4, "Roll Dodge perk ...").
func dodgeSucceeds(world *World, objRef ObjectRef, prof *ParticleProfile) bool {
	if world.Damager == nil || !world.Damager.HasPerk(objRef, "Dodge") {
		return false
	}
	agility := world.Damager.Attribute(objRef, "Agility")
	chance := agility
	if world.Damager.HasPerk(objRef, "MasterfulDodge") {
		chance += 10
	}
	return float64(world.RNG.Percent()) <= chance
}

// applyGrogDaze increases obj's grog (confusion) and daze timers (spec
// §4.4, "Damage"), plus the Brutal Strike/Crack Shot perk bonuses (melee
// CRUSH hits add extra grog, ranged physical hits add extra daze).
func applyGrogDaze(world *World, obj *Object, p *Particle, prof *ParticleProfile) {
	if prof.GrogTime > 0 {
		obj.Grog.Add(prof.GrogTime)
	}
	if prof.DazeTime > 0 {
		obj.Daze.Add(prof.DazeTime)
	}
	if world.Damager == nil || !p.Owner.IsValid() {
		return
	}
	if prof.MeleeWeapon && p.DamageType == DamageCrush && world.Damager.HasPerk(p.Owner, "BrutalStrike") {
		obj.Grog.Add(2)
	}
	if prof.RangedWeapon && isPhysicalDamage(p.DamageType) && world.Damager.HasPerk(p.Owner, "CrackShot") {
		obj.Daze.Add(3)
	}
}

func isPhysicalDamage(t DamageType) bool {
	return t == DamageSlash || t == DamageCrush || t == DamagePoke
}

// applyKnockback implements spec §4.4, "Knockback".
func applyKnockback(world *World, objRef ObjectRef, obj *Object, p *Particle, prof *ParticleProfile, geo CollisionGeometry) {
	if obj.Flags.Has(ObjHoldTheLine) || world.Damager == nil {
		return
	}
	factor := 1.0
	if p.Owner.IsValid() {
		attackerMight := world.Damager.Attribute(p.Owner, "Might") - 10
		if attackerMight >= 0 {
			factor += attackerMight * 0.02
		} else {
			factor += attackerMight * 0.1
		}
		if world.Damager.HasPerk(p.Owner, "TelekineticStaff") {
			intellect := world.Damager.Attribute(p.Owner, "Intellect")
			targetMight := world.Damager.Attribute(objRef, "Might")
			chance := intellect*0.03 - targetMight*0.01
			if float64(world.RNG.Percent()) <= chance*100 {
				factor += 5.0
			}
		}
	}

	particleMass := 1.0
	targetMight := world.Damager.Attribute(objRef, "Might")
	if targetMight > 0 {
		factor *= clamp(particleMass/targetMight, 0, 1)
	}

	switch p.DamageType {
	case DamageCrush:
		factor *= 1.0
	case DamagePoke:
		factor *= 0.5
	default:
		factor *= 1 / math.Sqrt2
	}

	factor = clamp(factor, 0, 3)
	knockback := p.Velocity.Scale(factor)
	if knockback.Length() > maxKnockbackVelocity {
		knockback = knockback.Normalize().Scale(maxKnockbackVelocity)
	}
	obj.Velocity = obj.Velocity.Add(knockback)
}

// spawnBumpParticles attaches up to bumpspawn._amount child particles to A's
// closest unoccupied skinned vertices (spec §4.4, "Bump particle
// spawning").
func spawnBumpParticles(world *World, objRef ObjectRef, obj *Object, p *Particle, prof *ParticleProfile) {
	if prof.BumpSpawnAmount <= 0 {
		return
	}
	count := prof.BumpSpawnAmount
	if world.Damager != nil {
		resistance := world.Damager.Attribute(objRef, "BumpSpawnResistance")
		count -= int(resistance)
	}
	if count <= 0 {
		return
	}
	occupied := occupiedVertices(world, objRef)
	verts := closestUnoccupiedVertices(obj, p.Position, occupied, count)
	for _, v := range verts {
		SpawnParticle(world, SpawnParams{
			Profile:        prof,
			SpawnerProfile: p.Profile,
			Owner:          p.Owner,
			Team:           p.Team,
			Position:       obj.WorldMatrix.TransformPoint(obj.SkinnedVerts[v]),
			AttachedTo:     objRef,
			AttachedVertex: v,
		})
	}
}

// occupiedVertices collects the skinned vertex indices holder already has a
// live particle attached to, so spawnBumpParticles can spread new ones across
// free vertices instead of stacking.
func occupiedVertices(world *World, holder ObjectRef) map[int]bool {
	occupied := make(map[int]bool)
	world.Particles.Each(func(_ Handle, other *Particle) {
		if !other.Terminated && other.AttachedTo == holder {
			occupied[other.AttachedVertexOffset] = true
		}
	})
	return occupied
}

// closestUnoccupiedVertices returns up to n of obj's skinned vertex indices
// closest to the world-space point from, excluding any already in occupied
// (spec §4.4, "Bump particle spawning": "attaches ... to A's closest
// unoccupied skinned vertices").
func closestUnoccupiedVertices(obj *Object, from Vec3, occupied map[int]bool, n int) []int {
	type cand struct {
		idx  int
		dist float64
	}
	cands := make([]cand, 0, len(obj.SkinnedVerts))
	for i, v := range obj.SkinnedVerts {
		if occupied[i] {
			continue
		}
		worldPos := obj.WorldMatrix.TransformPoint(v)
		cands = append(cands, cand{i, worldPos.Sub(from).LengthSq()})
	}
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			if cands[j].dist < cands[i].dist {
				cands[i], cands[j] = cands[j], cands[i]
			}
		}
	}
	if n > len(cands) {
		n = len(cands)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = cands[i].idx
	}
	return out
}

// platTolerance is PLATTOLERANCE from spec §4.4, "Platform detection".
const platTolerance = 10.0

// detectPlatformAttach implements spec §4.4, "Platform detection": a
// particle whose AABB overlaps a platform-flagged object's top face within
// PLATTOLERANCE attaches to it.
func detectPlatformAttach(world *World, objRef ObjectRef, obj *Object, pref ParticleRef, p *Particle) {
	if !obj.Flags.Has(ObjPlatform) {
		return
	}
	topZ := obj.MaxCV.ZMax
	if !p.MinCV.AABB().Overlaps(obj.MinCV.AABB()) {
		return
	}
	if math.Abs(p.Position.Z-topZ) > platTolerance {
		return
	}
	p.PlatformRef = objRef
	p.Position.Z = topZ
}
