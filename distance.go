package slide2d

/// A distance proxy is used by the GJK algorithm.
/// It encapsulates any shape.
type DistanceProxy struct {
	Vs  []Vec2
	N   int
	Rad float64
}

func MakeDistanceProxy() DistanceProxy {
	return DistanceProxy{
		Vs:  nil,
		N:   0,
		Rad: 0.0,
	}
}

/// Initialize the proxy using the shape's hull.
func (p *DistanceProxy) SetShape(shape Shape) {
	vertices, radius := shape.HullProxy()
	assert(len(vertices) > 0)
	p.Vs = vertices
	p.N = len(vertices)
	p.Rad = radius
}

func (p DistanceProxy) GetVertexCount() int {
	return p.N
}

func (p DistanceProxy) GetVertex(index int) Vec2 {
	assert(0 <= index && index < p.N)
	return p.Vs[index]
}

func (p DistanceProxy) GetSupport(d Vec2) int {
	bestIndex := 0
	bestValue := p.Vs[0].Dot(d)
	for i := 1; i < p.N; i++ {
		value := p.Vs[i].Dot(d)
		if value > bestValue {
			bestIndex = i
			bestValue = value
		}
	}

	return bestIndex
}

func (p DistanceProxy) GetSupportVertex(d Vec2) Vec2 {
	return p.Vs[p.GetSupport(d)]
}

/// Used to warm start Distance.
/// Set count to zero on first call.
type SimplexCache struct {
	Metric float64 ///< length or area
	Count  int
	IndexA [3]int ///< vertices on shape A
	IndexB [3]int ///< vertices on shape B
}

func MakeSimplexCache() SimplexCache {
	return SimplexCache{}
}

/// Input for Distance.
/// You have the option to use the shape radii in the computation.
type DistanceInput struct {
	ProxyA     DistanceProxy
	ProxyB     DistanceProxy
	TransformA Transform
	TransformB Transform
	UseRadii   bool
}

func MakeDistanceInput() DistanceInput {
	return DistanceInput{
		ProxyA:     MakeDistanceProxy(),
		ProxyB:     MakeDistanceProxy(),
		TransformA: MakeTransformIdentity(),
		TransformB: MakeTransformIdentity(),
		UseRadii:   false,
	}
}

/// Output for Distance.
type DistanceOutput struct {
	PointA     Vec2 ///< closest point on shapeA
	PointB     Vec2 ///< closest point on shapeB
	Distance   float64
	Iterations int ///< number of GJK iterations used
}

// GJK using Voronoi regions (Christer Ericson) and barycentric coordinates.

type simplexVertex struct {
	WA     Vec2    // support point in proxyA
	WB     Vec2    // support point in proxyB
	W      Vec2    // wB - wA
	A      float64 // barycentric coordinate for closest point
	IndexA int     // wA index
	IndexB int     // wB index
}

type simplex struct {
	Vs    [3]simplexVertex
	Count int
}

func (s *simplex) ReadCache(cache *SimplexCache, proxyA *DistanceProxy, transformA Transform, proxyB *DistanceProxy, transformB Transform) {
	assert(cache.Count <= 3)

	// Copy data from cache.
	s.Count = cache.Count
	vertices := &s.Vs
	for i := 0; i < s.Count; i++ {
		v := &vertices[i]
		v.IndexA = cache.IndexA[i]
		v.IndexB = cache.IndexB[i]
		wALocal := proxyA.GetVertex(v.IndexA)
		wBLocal := proxyB.GetVertex(v.IndexB)
		v.WA = TransformVec2(transformA, wALocal)
		v.WB = TransformVec2(transformB, wBLocal)
		v.W = v.WB.Sub(v.WA)
		v.A = 0.0
	}

	// Compute the new simplex metric, if it is substantially different than
	// old metric then flush the simplex.
	if s.Count > 1 {
		metric1 := cache.Metric
		metric2 := s.GetMetric()
		if metric2 < 0.5*metric1 || 2.0*metric1 < metric2 || metric2 < epsilon {
			// Reset the simplex.
			s.Count = 0
		}
	}

	// If the cache is empty or invalid ...
	if s.Count == 0 {
		v := &vertices[0]
		v.IndexA = 0
		v.IndexB = 0
		wALocal := proxyA.GetVertex(0)
		wBLocal := proxyB.GetVertex(0)
		v.WA = TransformVec2(transformA, wALocal)
		v.WB = TransformVec2(transformB, wBLocal)
		v.W = v.WB.Sub(v.WA)
		v.A = 1.0
		s.Count = 1
	}
}

func (s simplex) WriteCache(cache *SimplexCache) {
	cache.Metric = s.GetMetric()
	cache.Count = s.Count
	for i := 0; i < s.Count; i++ {
		cache.IndexA[i] = s.Vs[i].IndexA
		cache.IndexB[i] = s.Vs[i].IndexB
	}
}

func (s simplex) GetSearchDirection() Vec2 {
	switch s.Count {
	case 1:
		return s.Vs[0].W.Mul(-1.0)

	case 2:
		e12 := s.Vs[1].W.Sub(s.Vs[0].W)
		sgn := Vec2Cross(e12, s.Vs[0].W.Mul(-1.0))
		if sgn > 0.0 {
			// Origin is left of e12.
			return Vec2CrossSV(1.0, e12)
		}
		// Origin is right of e12.
		return Vec2CrossVS(e12, 1.0)

	default:
		assert(false)
		return vec2Zero
	}
}

func (s simplex) GetWitnessPoints(pA *Vec2, pB *Vec2) {
	switch s.Count {
	case 1:
		*pA = s.Vs[0].WA
		*pB = s.Vs[0].WB

	case 2:
		*pA = s.Vs[0].WA.Mul(s.Vs[0].A).Add(s.Vs[1].WA.Mul(s.Vs[1].A))
		*pB = s.Vs[0].WB.Mul(s.Vs[0].A).Add(s.Vs[1].WB.Mul(s.Vs[1].A))

	case 3:
		*pA = s.Vs[0].WA.Mul(s.Vs[0].A).
			Add(s.Vs[1].WA.Mul(s.Vs[1].A)).
			Add(s.Vs[2].WA.Mul(s.Vs[2].A))
		*pB = *pA

	default:
		assert(false)
	}
}

func (s simplex) GetMetric() float64 {
	switch s.Count {
	case 1:
		return 0.0

	case 2:
		return s.Vs[0].W.Sub(s.Vs[1].W).Len()

	case 3:
		return Vec2Cross(
			s.Vs[1].W.Sub(s.Vs[0].W),
			s.Vs[2].W.Sub(s.Vs[0].W),
		)

	default:
		assert(false)
		return 0.0
	}
}

// Solve a line segment using barycentric coordinates.
func (s *simplex) Solve2() {
	w1 := s.Vs[0].W
	w2 := s.Vs[1].W
	e12 := w2.Sub(w1)

	// w1 region
	d12_2 := -w1.Dot(e12)
	if d12_2 <= 0.0 {
		// a2 <= 0, so we clamp it to 0
		s.Vs[0].A = 1.0
		s.Count = 1
		return
	}

	// w2 region
	d12_1 := w2.Dot(e12)
	if d12_1 <= 0.0 {
		// a1 <= 0, so we clamp it to 0
		s.Vs[1].A = 1.0
		s.Count = 1
		s.Vs[0] = s.Vs[1]
		return
	}

	// Must be in e12 region.
	inv_d12 := 1.0 / (d12_1 + d12_2)
	s.Vs[0].A = d12_1 * inv_d12
	s.Vs[1].A = d12_2 * inv_d12
	s.Count = 2
}

// Possible regions:
// - points[2]
// - edge points[0]-points[2]
// - edge points[1]-points[2]
// - inside the triangle
func (s *simplex) Solve3() {
	w1 := s.Vs[0].W
	w2 := s.Vs[1].W
	w3 := s.Vs[2].W

	// Edge12
	// [1      1     ][a1] = [1]
	// [w1.e12 w2.e12][a2] = [0]
	// a3 = 0
	e12 := w2.Sub(w1)
	w1e12 := w1.Dot(e12)
	w2e12 := w2.Dot(e12)
	d12_1 := w2e12
	d12_2 := -w1e12

	// Edge13
	// [1      1     ][a1] = [1]
	// [w1.e13 w3.e13][a3] = [0]
	// a2 = 0
	e13 := w3.Sub(w1)
	w1e13 := w1.Dot(e13)
	w3e13 := w3.Dot(e13)
	d13_1 := w3e13
	d13_2 := -w1e13

	// Edge23
	// [1      1     ][a2] = [1]
	// [w2.e23 w3.e23][a3] = [0]
	// a1 = 0
	e23 := w3.Sub(w2)
	w2e23 := w2.Dot(e23)
	w3e23 := w3.Dot(e23)
	d23_1 := w3e23
	d23_2 := -w2e23

	// Triangle123
	n123 := Vec2Cross(e12, e13)

	d123_1 := n123 * Vec2Cross(w2, w3)
	d123_2 := n123 * Vec2Cross(w3, w1)
	d123_3 := n123 * Vec2Cross(w1, w2)

	// w1 region
	if d12_2 <= 0.0 && d13_2 <= 0.0 {
		s.Vs[0].A = 1.0
		s.Count = 1
		return
	}

	// e12
	if d12_1 > 0.0 && d12_2 > 0.0 && d123_3 <= 0.0 {
		inv_d12 := 1.0 / (d12_1 + d12_2)
		s.Vs[0].A = d12_1 * inv_d12
		s.Vs[1].A = d12_2 * inv_d12
		s.Count = 2
		return
	}

	// e13
	if d13_1 > 0.0 && d13_2 > 0.0 && d123_2 <= 0.0 {
		inv_d13 := 1.0 / (d13_1 + d13_2)
		s.Vs[0].A = d13_1 * inv_d13
		s.Vs[2].A = d13_2 * inv_d13
		s.Count = 2
		s.Vs[1] = s.Vs[2]
		return
	}

	// w2 region
	if d12_1 <= 0.0 && d23_2 <= 0.0 {
		s.Vs[1].A = 1.0
		s.Count = 1
		s.Vs[0] = s.Vs[1]
		return
	}

	// w3 region
	if d13_1 <= 0.0 && d23_1 <= 0.0 {
		s.Vs[2].A = 1.0
		s.Count = 1
		s.Vs[0] = s.Vs[2]
		return
	}

	// e23
	if d23_1 > 0.0 && d23_2 > 0.0 && d123_1 <= 0.0 {
		inv_d23 := 1.0 / (d23_1 + d23_2)
		s.Vs[1].A = d23_1 * inv_d23
		s.Vs[2].A = d23_2 * inv_d23
		s.Count = 2
		s.Vs[0] = s.Vs[2]
		return
	}

	// Must be in triangle123
	inv_d123 := 1.0 / (d123_1 + d123_2 + d123_3)
	s.Vs[0].A = d123_1 * inv_d123
	s.Vs[1].A = d123_2 * inv_d123
	s.Vs[2].A = d123_3 * inv_d123
	s.Count = 3
}

/// Compute the closest points between two shape proxies. Supports any
/// combination of hulls. On exit the cache is filled so that repeated
/// calls with small motion are cheap.
func Distance(output *DistanceOutput, cache *SimplexCache, input *DistanceInput) {
	proxyA := &input.ProxyA
	proxyB := &input.ProxyB

	transformA := input.TransformA
	transformB := input.TransformB

	// Initialize the simplex.
	var sx simplex
	sx.ReadCache(cache, proxyA, transformA, proxyB, transformB)

	// Get simplex vertices as an array.
	vertices := &sx.Vs

	// These store the vertices of the last simplex so that we
	// can check for duplicates and prevent cycling.
	var saveA, saveB [3]int
	saveCount := 0

	// Main iteration loop.
	iter := 0
	for iter < maxDistanceIterations {
		// Copy simplex so we can identify duplicates.
		saveCount = sx.Count
		for i := 0; i < saveCount; i++ {
			saveA[i] = vertices[i].IndexA
			saveB[i] = vertices[i].IndexB
		}

		switch sx.Count {
		case 1:
		case 2:
			sx.Solve2()
		case 3:
			sx.Solve3()
		default:
			assert(false)
		}

		// If we have 3 points, then the origin is in the corresponding triangle.
		if sx.Count == 3 {
			break
		}

		// Get search direction.
		d := sx.GetSearchDirection()

		// Ensure the search direction is numerically fit.
		if d.Dot(d) < epsilon*epsilon {
			// The origin is probably contained by a line segment
			// or triangle. Thus the shapes are overlapped.

			// We can't return zero here even though there may be overlap.
			// In case the simplex is a point, segment, or triangle it is difficult
			// to determine if the origin is contained in the CSO or very close to it.
			break
		}

		// Compute a tentative new simplex vertex using support points.
		vertex := &vertices[sx.Count]
		vertex.IndexA = proxyA.GetSupport(RotVec2T(transformA.Q, d.Mul(-1.0)))
		vertex.WA = TransformVec2(transformA, proxyA.GetVertex(vertex.IndexA))
		vertex.IndexB = proxyB.GetSupport(RotVec2T(transformB.Q, d))
		vertex.WB = TransformVec2(transformB, proxyB.GetVertex(vertex.IndexB))
		vertex.W = vertex.WB.Sub(vertex.WA)

		// Iteration count is equated to the number of support point calls.
		iter++

		// Check for duplicate support points. This is the main termination criteria.
		duplicate := false
		for i := 0; i < saveCount; i++ {
			if vertex.IndexA == saveA[i] && vertex.IndexB == saveB[i] {
				duplicate = true
				break
			}
		}

		// If we found a duplicate support point we must exit to avoid cycling.
		if duplicate {
			break
		}

		// New vertex is ok and needed.
		sx.Count++
	}

	// Prepare output.
	sx.GetWitnessPoints(&output.PointA, &output.PointB)
	output.Distance = output.PointA.Sub(output.PointB).Len()
	output.Iterations = iter

	// Cache the simplex.
	sx.WriteCache(cache)

	// Apply radii if requested.
	if input.UseRadii {
		rA := proxyA.Rad
		rB := proxyB.Rad

		if output.Distance > rA+rB && output.Distance > epsilon {
			// Shapes are still not overlapped.
			// Move the witness points to the outer surface.
			output.Distance -= rA + rB
			normal, _ := Vec2Normalized(output.PointB.Sub(output.PointA))
			output.PointA = output.PointA.Add(normal.Mul(rA))
			output.PointB = output.PointB.Sub(normal.Mul(rB))
		} else {
			// Shapes are overlapped when radii are considered.
			// Move the witness points to the middle.
			p := output.PointA.Add(output.PointB).Mul(0.5)
			output.PointA = p
			output.PointB = p
			output.Distance = 0.0
		}
	}
}

/// Compute the surface distance between two posed shapes, including their
/// radii. Returns the closest points on each surface; the distance is zero
/// when the shapes overlap.
func ShapeDistance(a Shape, xfA Transform, b Shape, xfB Transform) DistanceOutput {
	input := MakeDistanceInput()
	input.ProxyA.SetShape(a)
	input.ProxyB.SetShape(b)
	input.TransformA = xfA
	input.TransformB = xfB
	input.UseRadii = true

	cache := MakeSimplexCache()
	var output DistanceOutput
	Distance(&output, &cache, &input)
	return output
}
