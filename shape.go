package slide2d

/// A shape is an immutable convex collider description used for collision
/// queries. Shapes are defined in local coordinates and posed with a
/// Transform at query time; they hold no world state of their own.
type Shape interface {
	/// Get the surface radius of the shape. For polygons this is the
	/// polygon skin radius.
	Radius() float64

	/// Get the convex hull of the shape as local points plus the surface
	/// radius around them. This feeds the GJK distance query.
	HullProxy() ([]Vec2, float64)

	/// Given a transform, compute the associated axis aligned bounding box.
	ComputeAABB(xf Transform) AABB

	/// Test a point given in world coordinates for containment in this shape.
	TestPoint(xf Transform, p Vec2) bool
}
