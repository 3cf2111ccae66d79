package slide2d

/// A convex polygon. It is assumed that the interior of the polygon is to
/// the left of each edge.
/// Polygons have a maximum number of vertices equal to MaxPolygonVertices.
/// In most cases you should not need many vertices for a convex polygon.
type PolygonShape struct {
	Centroid Vec2
	Vertices [MaxPolygonVertices]Vec2
	Normals  [MaxPolygonVertices]Vec2
	Count    int

	/// Polygon skin radius. All query distances are surface distances
	/// including this radius.
	Rad float64
}

func MakePolygonShape() PolygonShape {
	return PolygonShape{
		Rad: polygonRadius,
	}
}

func NewPolygonShape() *PolygonShape {
	res := MakePolygonShape()
	return &res
}

/// Build an axis-aligned box with the given half-widths, centered on the
/// local origin.
func NewBoxShape(hx, hy float64) *PolygonShape {
	poly := NewPolygonShape()
	poly.SetAsBox(hx, hy)
	return poly
}

func (poly *PolygonShape) Radius() float64 {
	return poly.Rad
}

func (poly *PolygonShape) HullProxy() ([]Vec2, float64) {
	return poly.Vertices[:poly.Count], poly.Rad
}

func (poly *PolygonShape) SetAsBox(hx, hy float64) {
	poly.Count = 4
	poly.Vertices[0] = Vec2{-hx, -hy}
	poly.Vertices[1] = Vec2{hx, -hy}
	poly.Vertices[2] = Vec2{hx, hy}
	poly.Vertices[3] = Vec2{-hx, hy}
	poly.Normals[0] = Vec2{0.0, -1.0}
	poly.Normals[1] = Vec2{1.0, 0.0}
	poly.Normals[2] = Vec2{0.0, 1.0}
	poly.Normals[3] = Vec2{-1.0, 0.0}
	poly.Centroid = vec2Zero
}

func (poly *PolygonShape) SetAsBoxFromCenterAndAngle(hx, hy float64, center Vec2, angle float64) {
	poly.SetAsBox(hx, hy)
	poly.Centroid = center

	xf := MakeTransform(center, angle)

	// Transform vertices and normals.
	for i := 0; i < poly.Count; i++ {
		poly.Vertices[i] = TransformVec2(xf, poly.Vertices[i])
		poly.Normals[i] = RotVec2(xf.Q, poly.Normals[i])
	}
}

func computeCentroid(vs []Vec2, count int) Vec2 {
	assert(count >= 3)

	c := vec2Zero
	area := 0.0

	// pRef is the reference point for forming triangles.
	// Its location doesn't change the result (except for rounding error).
	pRef := vec2Zero
	for i := 0; i < count; i++ {
		pRef = pRef.Add(vs[i])
	}
	pRef = pRef.Mul(1.0 / float64(count))

	inv3 := 1.0 / 3.0

	for i := 0; i < count; i++ {
		// Triangle vertices.
		p1 := pRef
		p2 := vs[i]
		p3 := vs[0]
		if i+1 < count {
			p3 = vs[i+1]
		}

		e1 := p2.Sub(p1)
		e2 := p3.Sub(p1)

		triangleArea := 0.5 * Vec2Cross(e1, e2)
		area += triangleArea

		// Area weighted centroid
		c = c.Add(p1.Add(p2).Add(p3).Mul(triangleArea * inv3))
	}

	assert(area > epsilon)
	return c.Mul(1.0 / area)
}

/// Create a convex hull from the given points. The count is clamped to
/// MaxPolygonVertices; collinear and welded points are removed.
func (poly *PolygonShape) Set(vertices []Vec2) {
	n := minInt(len(vertices), MaxPolygonVertices)
	assert(n >= 3)

	// Perform welding and copy vertices into a local buffer.
	var ps [MaxPolygonVertices]Vec2
	tempCount := 0
	for i := 0; i < n; i++ {
		v := vertices[i]

		unique := true
		for j := 0; j < tempCount; j++ {
			if v.Sub(ps[j]).Dot(v.Sub(ps[j])) < ((0.5 * linearSlop) * (0.5 * linearSlop)) {
				unique = false
				break
			}
		}

		if unique {
			ps[tempCount] = v
			tempCount++
		}
	}

	n = tempCount
	if n < 3 {
		// Polygon is degenerate.
		assert(false)
		poly.SetAsBox(1.0, 1.0)
		return
	}

	// Create the convex hull using the gift wrapping algorithm.

	// Find the right-most point on the hull.
	i0 := 0
	x0 := ps[0][0]
	for i := 1; i < n; i++ {
		x := ps[i][0]
		if x > x0 || (x == x0 && ps[i][1] < ps[i0][1]) {
			i0 = i
			x0 = x
		}
	}

	var hull [MaxPolygonVertices]int
	m := 0
	ih := i0

	for {
		assert(m < MaxPolygonVertices)
		hull[m] = ih

		ie := 0
		for j := 1; j < n; j++ {
			if ie == ih {
				ie = j
				continue
			}

			r := ps[ie].Sub(ps[hull[m]])
			v := ps[j].Sub(ps[hull[m]])
			c := Vec2Cross(r, v)
			if c < 0.0 {
				ie = j
			}

			// Collinearity check
			if c == 0.0 && v.Dot(v) > r.Dot(r) {
				ie = j
			}
		}

		m++
		ih = ie

		if ie == i0 {
			break
		}
	}

	if m < 3 {
		// Polygon is degenerate.
		assert(false)
		poly.SetAsBox(1.0, 1.0)
		return
	}

	poly.Count = m

	// Copy vertices.
	for i := 0; i < m; i++ {
		poly.Vertices[i] = ps[hull[i]]
	}

	// Compute normals. Ensure the edges have non-zero length.
	for i := 0; i < m; i++ {
		i1 := i
		i2 := 0
		if i+1 < m {
			i2 = i + 1
		}

		edge := poly.Vertices[i2].Sub(poly.Vertices[i1])
		assert(edge.Dot(edge) > epsilon*epsilon)
		poly.Normals[i], _ = Vec2Normalized(Vec2CrossVS(edge, 1.0))
	}

	poly.Centroid = computeCentroid(poly.Vertices[:], m)
}

func (poly *PolygonShape) TestPoint(xf Transform, p Vec2) bool {
	pLocal := RotVec2T(xf.Q, p.Sub(xf.P))

	for i := 0; i < poly.Count; i++ {
		dot := poly.Normals[i].Dot(pLocal.Sub(poly.Vertices[i]))
		if dot > 0.0 {
			return false
		}
	}
	return true
}

func (poly *PolygonShape) ComputeAABB(xf Transform) AABB {
	lower := TransformVec2(xf, poly.Vertices[0])
	upper := lower

	for i := 1; i < poly.Count; i++ {
		v := TransformVec2(xf, poly.Vertices[i])
		lower = vec2Min(lower, v)
		upper = vec2Max(upper, v)
	}

	r := Vec2{poly.Rad, poly.Rad}
	return AABB{
		LowerBound: lower.Sub(r),
		UpperBound: upper.Add(r),
	}
}

/// Validate convexity. This is a very time consuming operation.
/// Returns true if valid.
func (poly *PolygonShape) Validate() bool {
	for i := 0; i < poly.Count; i++ {
		i1 := i
		i2 := 0
		if i < poly.Count-1 {
			i2 = i1 + 1
		}

		p := poly.Vertices[i1]
		e := poly.Vertices[i2].Sub(p)

		for j := 0; j < poly.Count; j++ {
			if j == i1 || j == i2 {
				continue
			}

			v := poly.Vertices[j].Sub(p)
			if Vec2Cross(e, v) < 0.0 {
				return false
			}
		}
	}
	return true
}
