package simcore

// SpawnNoCharacterState is SPAWNNOCHARACTER: endspawn_characterstate's
// sentinel meaning "do not spawn a game object on particle death" (spec
// §9 open question: survives into the rewrite as a plain field since
// nothing here depends on scripting).
const SpawnNoCharacterState = -1

// DAMFX packs the source engine's missile-treatment bit flags (spec §3,
// "Particle profile ... missile treatment flags (DAMFX_*)").
type DAMFX uint16

const (
	DamFXArmor DAMFX = 1 << iota // armor-piercing
	DamFXTime                    // bypasses damage-timer invincibility
	DamFXTurn                    // correct facing on attach
)

// SpawnRule is a one-shot spawn fan (spec §4.2, "Retirement": "spawn
// endspawn._amount end particles"; spec §4.4, "bumpspawn._amount").
type SpawnRule struct {
	Amount    int
	FacingAdd Facing
}

// ContinuousSpawnRule is the repeating spawn-while-alive rule (spec §4.2
// step 7, "Continuous spawn").
type ContinuousSpawnRule struct {
	Amount    int
	FacingAdd Facing
	Delay     int // ticks between spawns
}

// ParticleProfile is the immutable template a particle is spawned from
// (spec §3, "Particle profile").
type ParticleProfile struct {
	ID int

	Damage     IPair
	DamageType DamageType

	EndOnWall, EndOnGround, EndOnBump bool
	EndWater                          bool
	Dampen                            float64

	Homing         bool
	HomingAccel    float64
	HomingFriction float64
	MinLength      float64
	RotateToFace   bool

	// GravityPull is the profile's own gravity-well strength (spec §4.2
	// step 5: "Profile gravity-pull pulls nearby collidable objects and
	// particles with magnitude pull/distance^2, hate-filtered"). Zero
	// means the profile has no pull field.
	GravityPull float64

	AllowPush          bool
	FriendlyFire       bool
	OnlyDamageFriendly bool
	HateOnly           bool

	BumpMoney int

	AffirmDamageType    DamageType
	HasAffirmDamageType bool

	MissileTreatment DAMFX

	// MeleeWeapon, RangedWeapon and ScytheWeapon classify the spawning
	// weapon for perk checks (spec §4.4, "Damage": Brutal Strike requires a
	// melee CRUSH hit, Crack Shot requires a ranged physical hit, Grim
	// Reaper requires a scythe).
	MeleeWeapon, RangedWeapon, ScytheWeapon bool

	GrogTime, DazeTime float64

	LifeDrain, ManaDrain float64

	NewTargetOnSpawn bool
	SpeedLimit       float64

	EndLastFrame  bool
	LifetimeTicks int
	Eternal       bool

	Gravity   bool
	NoGravity bool
	Solid     bool

	ContinuousSpawn         ContinuousSpawnRule
	EndSpawn                SpawnRule
	EndSpawnCharacterState  int
	BumpSpawnAmount         int

	ImageStart, ImageAdd, ImageCount int

	DynamicLightAdd, DynamicLightFalloffAdd float64
}
