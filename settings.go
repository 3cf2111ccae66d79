package slide2d

import "math"

func assert(a bool) {
	if !a {
		panic("slide2d: assert")
	}
}

const maxFloat = math.MaxFloat64

/// Machine epsilon for float64.
const epsilon = 2.220446049250313e-16

// Collision

/// The maximum number of vertices on a convex polygon.
const MaxPolygonVertices = 8

/// This is used to fatten AABBs in the dynamic tree. This allows proxies
/// to move by a small amount without triggering a tree adjustment.
const aabbExtension = 0.1

/// This is used to fatten AABBs in the dynamic tree. This is used to predict
/// the future position based on the current displacement.
/// This is a dimensionless multiplier.
const aabbMultiplier = 2.0

/// A small length used as a collision tolerance. Usually it is chosen to be
/// numerically significant, but visually insignificant.
const linearSlop = 0.005

/// The radius of the polygon shape skin. Making this smaller means polygons
/// will have an insufficient buffer for shape casting.
const polygonRadius = 2.0 * linearSlop

/// Maximum number of GJK support calls per distance query.
const maxDistanceIterations = 20

/// Maximum number of conservative-advancement steps per shape cast.
const maxCastIterations = 20

/// Separation a shape cast tries to stop at, and the band around it that
/// counts as touching.
const castTarget = 0.25 * linearSlop
const castTolerance = 0.05 * linearSlop

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
