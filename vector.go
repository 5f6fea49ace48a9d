package simcore

import "math"

// Vec2 is a 2D vector used for tile/grid coordinates and UV-style offsets.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector used for positions, velocities, and facings throughout
// the simulation. All transforms operate on Vec3 in world space.
type Vec3 struct {
	X, Y, Z float64
}

// Zero3 is the zero vector.
var Zero3 = Vec3{}

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale returns a scaled by s.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Negate returns -a.
func (a Vec3) Negate() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

// Dot returns the dot product of a and b.
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns the cross product a x b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// LengthSq returns the squared length of a (cheaper than Length).
func (a Vec3) LengthSq() float64 { return a.Dot(a) }

// Length returns the Euclidean length of a.
func (a Vec3) Length() float64 { return math.Sqrt(a.LengthSq()) }

// Normalize returns a scaled to unit length. Returns the zero vector if a is
// (near) zero-length, matching the "particle with zero velocity does not
// move" boundary behaviour in spec §8.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l < 1e-12 {
		return Zero3
	}
	return a.Scale(1 / l)
}

// Lerp linearly interpolates between a and b by t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		lerp(a.X, b.X, t),
		lerp(a.Y, b.Y, t),
		lerp(a.Z, b.Z, t),
	}
}

// WithZ returns a copy of a with Z replaced.
func (a Vec3) WithZ(z float64) Vec3 { return Vec3{a.X, a.Y, z} }

// XY returns the horizontal (X, Y) components as a Vec2.
func (a Vec3) XY() Vec2 { return Vec2{a.X, a.Y} }

// IsZero reports whether a is the zero vector (exactly, not approximately —
// used for the "no velocity" boundary checks of spec §8).
func (a Vec3) IsZero() bool { return a.X == 0 && a.Y == 0 && a.Z == 0 }

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// lerp32 linearly interpolates between a and b by t (float32).
func lerp32(a, b, t float32) float32 { return a + (b-a)*t }

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampInt restricts v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Facing is a 16-bit "turn" angle, matching the source engine's packed
// angular unit (spec §3, GLOSSARY "Facing"): a full turn is 65536 units. All
// angular storage in Object/Particle uses Facing; conversion to radians
// happens at the trig boundary only (design note in spec §9: "pick one
// angular representation at the core boundary and convert at I/O edges" —
// here the core boundary is the float64-radian math used by Mat4/trig, and
// Facing is the stored/interchanged representation).
type Facing uint16

const facingFullTurn = 65536.0

// Radians converts a Facing to radians in [0, 2*pi).
func (f Facing) Radians() float64 {
	return float64(f) / facingFullTurn * 2 * math.Pi
}

// FacingFromRadians converts radians to the nearest Facing, wrapping.
func FacingFromRadians(r float64) Facing {
	turns := r / (2 * math.Pi)
	v := math.Mod(turns*facingFullTurn, facingFullTurn)
	if v < 0 {
		v += facingFullTurn
	}
	return Facing(v)
}

// FacingAngles holds an object's three Euler-like facing components (spec
// §3: "facing (3 Euler-like angles in 16-bit units)").
type FacingAngles struct {
	Yaw, Pitch, Roll Facing
}
