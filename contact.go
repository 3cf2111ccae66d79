package slide2d

/// A single contact between two posed shapes.
/// The normal is a unit vector pointing from the other shape toward the
/// queried shape. The point lies on the other shape. Penetration is
/// positive when the surfaces overlap and negative when they are separated
/// by that distance.
type Contact struct {
	Point       Vec2
	Normal      Vec2
	Penetration float64
}

// Find the max separation between poly1 and poly2 using edge normals from poly1.
func findMaxSeparation(poly1 *PolygonShape, xf1 Transform, poly2 *PolygonShape, xf2 Transform) (int, float64) {
	count1 := poly1.Count
	count2 := poly2.Count
	n1s := poly1.Normals
	v1s := poly1.Vertices
	v2s := poly2.Vertices

	xf := TransformMulT(xf2, xf1)

	bestIndex := 0
	maxSeparation := -maxFloat
	for i := 0; i < count1; i++ {
		// Get poly1 normal in frame2.
		n := RotVec2(xf.Q, n1s[i])
		v1 := TransformVec2(xf, v1s[i])

		// Find deepest point for normal i.
		si := maxFloat
		for j := 0; j < count2; j++ {
			sij := n.Dot(v2s[j].Sub(v1))
			if sij < si {
				si = sij
			}
		}

		if si > maxSeparation {
			maxSeparation = si
			bestIndex = i
		}
	}

	return bestIndex, maxSeparation
}

func circleContact(circleA *CircleShape, xfA Transform, circleB *CircleShape, xfB Transform) Contact {
	pA := TransformVec2(xfA, circleA.P)
	pB := TransformVec2(xfB, circleB.P)

	d := pA.Sub(pB)
	n, dist := Vec2Normalized(d)
	if dist <= epsilon {
		// Concentric circles have no preferred direction.
		n = Vec2{0.0, 1.0}
	}

	return Contact{
		Point:       pB.Add(n.Mul(circleB.R)),
		Normal:      n,
		Penetration: circleA.R + circleB.R - dist,
	}
}

// Deepest contact between a polygon and a circle. The returned normal
// points from the polygon toward the circle; the point lies on the
// polygon surface.
func polygonCircleContact(poly *PolygonShape, xfPoly Transform, circle *CircleShape, xfCircle Transform) Contact {
	// Compute circle position in the frame of the polygon.
	c := TransformVec2(xfCircle, circle.P)
	cLocal := TransformVec2T(xfPoly, c)

	// Find the min separating edge.
	normalIndex := 0
	separation := -maxFloat
	radius := poly.Rad + circle.R
	vertexCount := poly.Count
	vertices := poly.Vertices
	normals := poly.Normals

	for i := 0; i < vertexCount; i++ {
		s := normals[i].Dot(cLocal.Sub(vertices[i]))
		if s > separation {
			separation = s
			normalIndex = i
		}
	}

	// Vertices that subtend the incident face.
	vertIndex1 := normalIndex
	vertIndex2 := 0
	if vertIndex1+1 < vertexCount {
		vertIndex2 = vertIndex1 + 1
	}

	v1 := vertices[vertIndex1]
	v2 := vertices[vertIndex2]

	// If the center is inside the polygon, the face normal is the only
	// defensible direction.
	if separation < epsilon {
		nWorld := RotVec2(xfPoly.Q, normals[normalIndex])
		faceCenter := TransformVec2(xfPoly, v1.Add(v2).Mul(0.5))
		return Contact{
			Point:       faceCenter,
			Normal:      nWorld,
			Penetration: radius - separation,
		}
	}

	// Compute barycentric coordinates.
	u1 := cLocal.Sub(v1).Dot(v2.Sub(v1))
	u2 := cLocal.Sub(v2).Dot(v1.Sub(v2))

	if u1 <= 0.0 {
		nLocal, dist := Vec2Normalized(cLocal.Sub(v1))
		if dist <= epsilon {
			nLocal = normals[vertIndex1]
		}
		return Contact{
			Point:       TransformVec2(xfPoly, v1),
			Normal:      RotVec2(xfPoly.Q, nLocal),
			Penetration: radius - dist,
		}
	}

	if u2 <= 0.0 {
		nLocal, dist := Vec2Normalized(cLocal.Sub(v2))
		if dist <= epsilon {
			nLocal = normals[vertIndex1]
		}
		return Contact{
			Point:       TransformVec2(xfPoly, v2),
			Normal:      RotVec2(xfPoly.Q, nLocal),
			Penetration: radius - dist,
		}
	}

	faceCenter := v1.Add(v2).Mul(0.5)
	s := cLocal.Sub(faceCenter).Dot(normals[vertIndex1])
	return Contact{
		Point:       TransformVec2(xfPoly, cLocal.Sub(normals[vertIndex1].Mul(s))),
		Normal:      RotVec2(xfPoly.Q, normals[vertIndex1]),
		Penetration: radius - s,
	}
}

// Deepest contact between two overlapping polygons. The returned normal
// points from b toward a; the point lies on b.
func polygonContact(a *PolygonShape, xfA Transform, b *PolygonShape, xfB Transform) Contact {
	totalRadius := a.Rad + b.Rad

	edgeA, separationA := findMaxSeparation(a, xfA, b, xfB)
	edgeB, separationB := findMaxSeparation(b, xfB, a, xfA)

	k_tol := 0.1 * linearSlop

	if separationB > separationA+k_tol {
		// Reference face on b. Its normal already points toward a.
		nWorld := RotVec2(xfB.Q, b.Normals[edgeB])

		// Deepest point of a against the reference face, projected back
		// onto the face plane so the point lies on b.
		dirLocal := RotVec2T(xfA.Q, nWorld.Mul(-1.0))
		supp := TransformVec2(xfA, a.Vertices[a.getSupport(dirLocal)])
		faceV := TransformVec2(xfB, b.Vertices[edgeB])
		point := supp.Sub(nWorld.Mul(nWorld.Dot(supp.Sub(faceV))))

		return Contact{
			Point:       point,
			Normal:      nWorld,
			Penetration: totalRadius - separationB,
		}
	}

	// Reference face on a. Flip the face normal so it points toward a.
	nWorld := RotVec2(xfA.Q, a.Normals[edgeA])
	dirLocal := RotVec2T(xfB.Q, nWorld.Mul(-1.0))
	point := TransformVec2(xfB, b.Vertices[b.getSupport(dirLocal)])

	return Contact{
		Point:       point,
		Normal:      nWorld.Mul(-1.0),
		Penetration: totalRadius - separationA,
	}
}

func (poly *PolygonShape) getSupport(d Vec2) int {
	bestIndex := 0
	bestValue := poly.Vertices[0].Dot(d)
	for i := 1; i < poly.Count; i++ {
		value := poly.Vertices[i].Dot(d)
		if value > bestValue {
			bestIndex = i
			bestValue = value
		}
	}
	return bestIndex
}

/// Compute the deepest contact between shape a and shape b, when their
/// surfaces are within margin of each other. Returns false when they are
/// further apart than margin.
///
/// The contact normal points from b toward a; the point lies on b. For
/// separated shapes the penetration is the negated surface distance.
func deepestContact(a Shape, xfA Transform, b Shape, xfB Transform, margin float64) (Contact, bool) {
	output := ShapeDistance(a, xfA, b, xfB)

	if output.Distance > margin {
		return Contact{}, false
	}

	if output.Distance > 1e-9 {
		// Separated but within margin. GJK witness points give an exact
		// normal in this regime.
		normal, _ := Vec2Normalized(output.PointA.Sub(output.PointB))
		return Contact{
			Point:       output.PointB,
			Normal:      normal,
			Penetration: -output.Distance,
		}, true
	}

	// Overlapping (or exactly touching): GJK witness points collapse, so
	// fall back to separating-axis tests per shape pair.
	switch sa := a.(type) {
	case *CircleShape:
		switch sb := b.(type) {
		case *CircleShape:
			return circleContact(sa, xfA, sb, xfB), true
		case *PolygonShape:
			c := polygonCircleContact(sb, xfB, sa, xfA)
			// The helper's normal points toward the circle, which is a here,
			// but its point lies on the polygon, which is b. Both match.
			return c, true
		}

	case *PolygonShape:
		switch sb := b.(type) {
		case *CircleShape:
			c := polygonCircleContact(sa, xfA, sb, xfB)
			// Flip: the helper's normal points toward the circle b.
			c.Normal = c.Normal.Mul(-1.0)
			c.Point = TransformVec2(xfB, sb.P).Add(c.Normal.Mul(sb.R))
			return c, true
		case *PolygonShape:
			return polygonContact(sa, xfA, sb, xfB), true
		}
	}

	assert(false)
	return Contact{}, false
}
