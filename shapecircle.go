package slide2d

/// A circle shape.
type CircleShape struct {
	/// Center offset in local coordinates.
	P Vec2

	/// Radius.
	R float64
}

func MakeCircleShape(radius float64) CircleShape {
	return CircleShape{
		P: vec2Zero,
		R: radius,
	}
}

func NewCircleShape(radius float64) *CircleShape {
	res := MakeCircleShape(radius)
	return &res
}

func (shape *CircleShape) Radius() float64 {
	return shape.R
}

func (shape *CircleShape) HullProxy() ([]Vec2, float64) {
	return []Vec2{shape.P}, shape.R
}

func (shape *CircleShape) ComputeAABB(xf Transform) AABB {
	p := TransformVec2(xf, shape.P)
	return AABB{
		LowerBound: Vec2{p[0] - shape.R, p[1] - shape.R},
		UpperBound: Vec2{p[0] + shape.R, p[1] + shape.R},
	}
}

func (shape *CircleShape) TestPoint(xf Transform, p Vec2) bool {
	center := TransformVec2(xf, shape.P)
	d := p.Sub(center)
	return d.Dot(d) <= shape.R*shape.R
}
