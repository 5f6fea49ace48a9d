package simcore

import "math"

// Mat4 is a column-major 4x4 matrix: m[col*4+row]. Transforms are applied as
// world = M * local (spec §3), matching [TransformPoint].
type Mat4 [16]float64

// Identity4 is the identity matrix.
var Identity4 = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// at returns element (row, col).
func (m Mat4) at(row, col int) float64 { return m[col*4+row] }

// Multiply returns a * b (a applied after b: a transforms b's result).
func (a Mat4) Multiply(b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a.at(row, k) * b.at(k, col)
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// TransformPoint applies m to a point (implicit w=1), returning the
// projected xyz (no perspective divide — all transforms here are affine).
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	return Vec3{
		m.at(0, 0)*v.X + m.at(0, 1)*v.Y + m.at(0, 2)*v.Z + m.at(0, 3),
		m.at(1, 0)*v.X + m.at(1, 1)*v.Y + m.at(1, 2)*v.Z + m.at(1, 3),
		m.at(2, 0)*v.X + m.at(2, 1)*v.Y + m.at(2, 2)*v.Z + m.at(2, 3),
	}
}

// TransformVector applies only the rotation/scale part of m (no translation).
func (m Mat4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		m.at(0, 0)*v.X + m.at(0, 1)*v.Y + m.at(0, 2)*v.Z,
		m.at(1, 0)*v.X + m.at(1, 1)*v.Y + m.at(1, 2)*v.Z,
		m.at(2, 0)*v.X + m.at(2, 1)*v.Y + m.at(2, 2)*v.Z,
	}
}

// Translation returns the matrix's translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m.at(0, 3), m.at(1, 3), m.at(2, 3)}
}

// MatTranslate returns a pure translation matrix.
func MatTranslate(t Vec3) Mat4 {
	m := Identity4
	m[12], m[13], m[14] = t.X, t.Y, t.Z
	return m
}

// MatScale returns a pure (non-uniform) scale matrix.
func MatScale(s Vec3) Mat4 {
	m := Identity4
	m[0], m[5], m[10] = s.X, s.Y, s.Z
	return m
}

// MatRotateX returns a rotation matrix about the X axis, angle in radians.
func MatRotateX(a float64) Mat4 {
	s, c := math.Sincos(a)
	m := Identity4
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// MatRotateY returns a rotation matrix about the Y axis, angle in radians.
func MatRotateY(a float64) Mat4 {
	s, c := math.Sincos(a)
	m := Identity4
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// MatRotateZ returns a rotation matrix about the Z axis, angle in radians.
func MatRotateZ(a float64) Mat4 {
	s, c := math.Sincos(a)
	m := Identity4
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// ComposeCharacterMatrix builds a character's world matrix from scale,
// rotation (three Facing angles), and translation (spec §4.3, "Character
// matrix": "compose scale x rotateXYZ x translate, using body-fixed axis
// order if the object has stickyButt, else world-fixed").
//
// World-fixed order applies rotations about the fixed world axes (Z, then Y,
// then X, composed right-to-left as RX*RY*RZ applied to scale). Body-fixed
// order instead rotates the scaled body about its own already-rotated axes
// (RZ*RY*RX applied to scale), so yaw turns the body around its own up axis
// regardless of prior pitch/roll — the "sticky butt" behaviour used for
// mounts whose rider should not swing independently of the mount's tilt.
func ComposeCharacterMatrix(angles FacingAngles, translation, scale Vec3, stickyButt bool) Mat4 {
	rx := MatRotateX(angles.Pitch.Radians())
	ry := MatRotateY(angles.Roll.Radians())
	rz := MatRotateZ(angles.Yaw.Radians())
	s := MatScale(scale)

	var rotate Mat4
	if stickyButt {
		rotate = rz.Multiply(ry).Multiply(rx)
	} else {
		rotate = rx.Multiply(ry).Multiply(rz)
	}
	return MatTranslate(translation).Multiply(rotate).Multiply(s)
}

// ComposeFourPointMatrix derives a matrix from an origin and three
// non-collinear points that define its local axes, used to resolve a weapon
// grip from four skinned vertex positions (spec §4.3, "Weapon matrix":
// "derive the matrix from the four-points construction (3 orthogonal
// directions + translation)"). points[0] is the origin/pivot grip vertex;
// points[1..3] give the +X, +Y, +Z directions respectively.
func ComposeFourPointMatrix(origin, px, py, pz Vec3) Mat4 {
	xAxis := px.Sub(origin).Normalize()
	yAxis := py.Sub(origin).Normalize()
	zAxis := pz.Sub(origin).Normalize()

	m := Identity4
	m[0], m[1], m[2] = xAxis.X, xAxis.Y, xAxis.Z
	m[4], m[5], m[6] = yAxis.X, yAxis.Y, yAxis.Z
	m[8], m[9], m[10] = zAxis.X, zAxis.Y, zAxis.Z
	m[12], m[13], m[14] = origin.X, origin.Y, origin.Z
	return m
}

// ReflectionMatrix derives a floor-reflection matrix from m (spec §4.3,
// "Reflection matrix"): negate row 2's XY and map translation-Z to
// 2*floorZ - z.
func ReflectionMatrix(m Mat4, floorZ float64) Mat4 {
	out := m
	out[2] = -out[2]
	out[6] = -out[6]
	z := out[14]
	out[14] = 2*floorZ - z
	return out
}
