package slide2d

/// An axis aligned bounding box.
type AABB struct {
	LowerBound Vec2
	UpperBound Vec2
}

func MakeAABB(lower, upper Vec2) AABB {
	return AABB{LowerBound: lower, UpperBound: upper}
}

/// Get the center of the AABB.
func (bb AABB) Center() Vec2 {
	return bb.LowerBound.Add(bb.UpperBound).Mul(0.5)
}

/// Get the extents of the AABB (half-widths).
func (bb AABB) Extents() Vec2 {
	return bb.UpperBound.Sub(bb.LowerBound).Mul(0.5)
}

/// Get the perimeter length.
func (bb AABB) Perimeter() float64 {
	wx := bb.UpperBound[0] - bb.LowerBound[0]
	wy := bb.UpperBound[1] - bb.LowerBound[1]
	return 2.0 * (wx + wy)
}

/// Combine an AABB into this one.
func (bb *AABB) CombineInPlace(other AABB) {
	bb.LowerBound = vec2Min(bb.LowerBound, other.LowerBound)
	bb.UpperBound = vec2Max(bb.UpperBound, other.UpperBound)
}

/// Combine two AABBs into this one.
func (bb *AABB) CombineTwoInPlace(a, b AABB) {
	bb.LowerBound = vec2Min(a.LowerBound, b.LowerBound)
	bb.UpperBound = vec2Max(a.UpperBound, b.UpperBound)
}

/// Does this AABB contain the provided AABB.
func (bb AABB) Contains(other AABB) bool {
	return bb.LowerBound[0] <= other.LowerBound[0] &&
		bb.LowerBound[1] <= other.LowerBound[1] &&
		other.UpperBound[0] <= bb.UpperBound[0] &&
		other.UpperBound[1] <= bb.UpperBound[1]
}

/// Grow the AABB by a margin on all sides.
func (bb AABB) Grown(margin float64) AABB {
	r := Vec2{margin, margin}
	return AABB{
		LowerBound: bb.LowerBound.Sub(r),
		UpperBound: bb.UpperBound.Add(r),
	}
}

func (bb AABB) IsValid() bool {
	d := bb.UpperBound.Sub(bb.LowerBound)
	valid := d[0] >= 0.0 && d[1] >= 0.0
	return valid && Vec2IsValid(bb.LowerBound) && Vec2IsValid(bb.UpperBound)
}

func TestOverlapBoundingBoxes(a, b AABB) bool {
	d1 := b.LowerBound.Sub(a.UpperBound)
	d2 := a.LowerBound.Sub(b.UpperBound)

	if d1[0] > 0.0 || d1[1] > 0.0 {
		return false
	}
	if d2[0] > 0.0 || d2[1] > 0.0 {
		return false
	}
	return true
}
