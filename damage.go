package simcore

// DamageType enumerates the source engine's elemental/physical damage kinds
// (spec §4.4, "Damage" — crush/poke scaling, vulnerability matching).
type DamageType uint8

const (
	DamageSlash DamageType = iota
	DamageCrush
	DamagePoke
	DamageFire
	DamageZap
	DamageIce
	DamageEvil
	DamageHoly
)

// IPair is a base+random damage range (spec §3, "Particle ... damage
// fields (IPair base+rand, ...)").
type IPair struct {
	Base float64
	Rand float64
}

// Roll draws a concrete damage amount from p using g.
func (p IPair) Roll(g *RNG) float64 {
	if p.Rand <= 0 {
		return p.Base
	}
	return p.Base + g.Range(0, p.Rand)
}

// Color is an RGBA color in [0,1] per channel, used by billboards and
// dynamic lights (mirrors the teacher's willow.Color).
type Color struct {
	R, G, B, A float64
}

// ObjectDamager is the damage-system collaborator consumed by the collision
// resolver (spec §6, "Damage system"). The embedding application owns the
// object's hitpoint pool and perk/attribute lookups; simcore only calls in
// with the computed damage event.
type ObjectDamager interface {
	// Damage applies actualDamage worth of dmgType damage to target, from
	// direction, dealt by owner on behalf of team, and returns the amount
	// actually subtracted (after any pool-side mitigation the application
	// applies). armorPiercing and timeBypass mirror the source's
	// DAMFX_ARMOR/DAMFX_TIME flags.
	Damage(target ObjectRef, direction Facing, amount IPair, dmgType DamageType, team int, owner ObjectRef, armorPiercing, timeBypass bool) (actualDamage float64)
	// Vulnerability reports whether target is vulnerable to dmgType from
	// spawner (IDSZ_VULNERABILITY match) — doubles damage when true.
	Vulnerability(target ObjectRef, dmgType DamageType, spawner ObjectRef) bool
	// Attribute reads a named attribute (Might, Agility, Intellect, ...)
	// off target for the knockback/dodge/spell-scaling formulas of §4.4.
	Attribute(target ObjectRef, name string) float64
	// HasPerk reports whether target has the named perk.
	HasPerk(target ObjectRef, name string) bool
}

// AudioPlayer is the audio collaborator consumed wherever the simulation
// plays a sound effect (spec §6, "Audio").
type AudioPlayer interface {
	PlaySound(pos Vec3, soundID int)
}

// BillboardSpawner is the billboard collaborator consumed by the collision
// resolver's "Blocked!"/"Deflected!" feedback and by any other subsystem
// that queues floating combat text (spec §6, "Billboards").
type BillboardSpawner interface {
	MakeBillboard(obj ObjectRef, text string, color, tint Color, lifetimeSeconds float64, flags BitField)
}
