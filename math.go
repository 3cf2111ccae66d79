package slide2d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A 2D column vector. All positions, velocities, normals and displacements
/// in this package are Vec2s.
type Vec2 = mgl64.Vec2

var vec2Zero = Vec2{}

/// This function is used to ensure that a floating point number is not a NaN or infinity.
func IsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func Vec2IsValid(v Vec2) bool {
	return IsValid(v[0]) && IsValid(v[1])
}

/// Perform the cross product on two vectors. In 2D this produces a scalar.
func Vec2Cross(a, b Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

/// Perform the cross product on a vector and a scalar. In 2D this produces
/// a vector.
func Vec2CrossVS(a Vec2, s float64) Vec2 {
	return Vec2{s * a[1], -s * a[0]}
}

/// Perform the cross product on a scalar and a vector. In 2D this produces
/// a vector.
func Vec2CrossSV(s float64, a Vec2) Vec2 {
	return Vec2{-s * a[1], s * a[0]}
}

func vec2Min(a, b Vec2) Vec2 {
	return Vec2{math.Min(a[0], b[0]), math.Min(a[1], b[1])}
}

func vec2Max(a, b Vec2) Vec2 {
	return Vec2{math.Max(a[0], b[0]), math.Max(a[1], b[1])}
}

/// Convert a vector into a unit vector and its length. Returns a zero vector
/// and zero length for vectors too short to normalize.
func Vec2Normalized(v Vec2) (Vec2, float64) {
	length := v.Len()
	if length < epsilon {
		return vec2Zero, 0.0
	}
	invLength := 1.0 / length
	return Vec2{v[0] * invLength, v[1] * invLength}, length
}

/// Rotation, stored as the sine and cosine of an angle in radians.
type Rot struct {
	S, C float64
}

func MakeRot(angle float64) Rot {
	return Rot{
		S: math.Sin(angle),
		C: math.Cos(angle),
	}
}

func MakeRotIdentity() Rot {
	return Rot{S: 0.0, C: 1.0}
}

/// Rotate a vector.
func RotVec2(q Rot, v Vec2) Vec2 {
	return Vec2{
		q.C*v[0] - q.S*v[1],
		q.S*v[0] + q.C*v[1],
	}
}

/// Inverse rotate a vector.
func RotVec2T(q Rot, v Vec2) Vec2 {
	return Vec2{
		q.C*v[0] + q.S*v[1],
		-q.S*v[0] + q.C*v[1],
	}
}

/// A transform contains translation and rotation. It is used to represent
/// the pose of a shape.
type Transform struct {
	P Vec2
	Q Rot
}

func MakeTransform(position Vec2, angle float64) Transform {
	return Transform{
		P: position,
		Q: MakeRot(angle),
	}
}

func MakeTransformIdentity() Transform {
	return Transform{
		P: vec2Zero,
		Q: MakeRotIdentity(),
	}
}

func TransformVec2(t Transform, v Vec2) Vec2 {
	return Vec2{
		(t.Q.C*v[0] - t.Q.S*v[1]) + t.P[0],
		(t.Q.S*v[0] + t.Q.C*v[1]) + t.P[1],
	}
}

func TransformVec2T(t Transform, v Vec2) Vec2 {
	px := v[0] - t.P[0]
	py := v[1] - t.P[1]
	return Vec2{
		t.Q.C*px + t.Q.S*py,
		-t.Q.S*px + t.Q.C*py,
	}
}

/// Transpose multiply two rotations: qT * r
func RotMulT(q, r Rot) Rot {
	return Rot{
		S: q.C*r.S - q.S*r.C,
		C: q.C*r.C + q.S*r.S,
	}
}

/// A^T * B, expressing B in A's frame.
func TransformMulT(a, b Transform) Transform {
	return Transform{
		P: RotVec2T(a.Q, b.P.Sub(a.P)),
		Q: RotMulT(a.Q, b.Q),
	}
}
