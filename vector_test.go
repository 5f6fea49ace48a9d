package simcore

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v, want {5 7 9}", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub = %v, want {3 3 3}", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v, want {2 4 6}", got)
	}
	if got := a.Negate(); got != (Vec3{-1, -2, -3}) {
		t.Errorf("Negate = %v, want {-1 -2 -3}", got)
	}
}

func TestVec3DotCross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	if got := x.Dot(y); got != 0 {
		t.Errorf("Dot = %v, want 0", got)
	}
	if got := x.Cross(y); got != (Vec3{0, 0, 1}) {
		t.Errorf("Cross = %v, want {0 0 1}", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("Normalize length = %v, want 1", n.Length())
	}

	// Zero-length vector normalizes to zero (spec §8: "Particle with zero
	// velocity and no homing does not move").
	if got := Zero3.Normalize(); got != Zero3 {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, 30}
	if got := a.Lerp(b, 0.5); got != (Vec3{5, 10, 15}) {
		t.Errorf("Lerp(0.5) = %v, want {5 10 15}", got)
	}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want a", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want b", got)
	}
}

func TestVec3IsZero(t *testing.T) {
	if !Zero3.IsZero() {
		t.Error("Zero3.IsZero() = false, want true")
	}
	if (Vec3{0, 0, 0.001}).IsZero() {
		t.Error("near-zero vector reported as zero")
	}
}

func TestFacingRadiansRoundTrip(t *testing.T) {
	cases := []Facing{0, 16384, 32768, 49152, 65535}
	for _, f := range cases {
		r := f.Radians()
		back := FacingFromRadians(r)
		// wrap-around tolerance of 1 unit due to integer rounding
		diff := int(back) - int(f)
		if diff > 1 || diff < -1 {
			if !(f == 65535 && back == 0) {
				t.Errorf("Facing(%d).Radians().FacingFromRadians() = %d, want ~%d", f, back, f)
			}
		}
	}
}

func TestFacingFromRadiansWraps(t *testing.T) {
	neg := FacingFromRadians(-math.Pi / 2)
	pos := FacingFromRadians(2*math.Pi - math.Pi/2)
	if neg != pos {
		t.Errorf("FacingFromRadians negative/positive wrap mismatch: %d vs %d", neg, pos)
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(-1, 0, 10); got != 0 {
		t.Errorf("clamp below = %v, want 0", got)
	}
	if got := clamp(11, 0, 10); got != 10 {
		t.Errorf("clamp above = %v, want 10", got)
	}
	if got := clamp(5, 0, 10); got != 5 {
		t.Errorf("clamp inside = %v, want 5", got)
	}
}
