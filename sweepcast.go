package slide2d

// Result of casting a shape along a translation. The fraction is in
// [0, 1] of the translation length, the point lies on the hit shape and
// the normal points from the hit shape toward the cast shape.
type castHit struct {
	fraction float64
	point    Vec2
	normal   Vec2
}

/// Cast shape a along translation against the stationary shape b using
/// conservative advancement: repeatedly measure the surface distance,
/// advance by the distance over the closing speed, and stop when the
/// surfaces are within the cast target band.
///
/// Returns false when the translation never brings the shapes closer than
/// the target. A start in overlap reports a hit at fraction zero.
func castShape(a Shape, xfA Transform, translation Vec2, b Shape, xfB Transform) (castHit, bool) {
	input := MakeDistanceInput()
	input.ProxyA.SetShape(a)
	input.ProxyB.SetShape(b)
	input.TransformB = xfB
	input.UseRadii = true

	cache := MakeSimplexCache()

	t := 0.0
	for iter := 0; iter < maxCastIterations; iter++ {
		input.TransformA = Transform{P: xfA.P.Add(translation.Mul(t)), Q: xfA.Q}

		var output DistanceOutput
		Distance(&output, &cache, &input)

		if output.Distance <= 0.0 {
			// Overlapping. The witness points have collapsed so derive the
			// normal from the motion instead.
			normal, length := Vec2Normalized(translation.Mul(-1.0))
			if length <= epsilon {
				normal = Vec2{0.0, 1.0}
			}
			return castHit{
				fraction: t,
				point:    output.PointB,
				normal:   normal,
			}, true
		}

		// Direction from the cast shape toward the obstacle.
		dirAB, sep := Vec2Normalized(output.PointB.Sub(output.PointA))
		if sep <= epsilon {
			dirAB, _ = Vec2Normalized(translation)
		}

		closing := translation.Dot(dirAB)

		if output.Distance < castTarget+castTolerance {
			// Inside the touch band.
			if closing <= 0.0 {
				if t == 0.0 {
					// Resting beside the obstacle and moving away or parallel.
					return castHit{}, false
				}
				// Advanced into the band; report the contact here.
				return castHit{
					fraction: t,
					point:    output.PointB,
					normal:   dirAB.Mul(-1.0),
				}, true
			}

			var fraction float64
			if t == 0.0 && output.Distance < castTarget {
				// Already closer than the target: report the true remaining
				// gap so callers can distinguish a graze from an overlap.
				fraction = output.Distance / closing
			} else {
				fraction = t + maxFloat64(0.0, output.Distance-castTarget)/closing
			}
			if fraction > 1.0 {
				return castHit{}, false
			}
			return castHit{
				fraction: fraction,
				point:    output.PointB,
				normal:   dirAB.Mul(-1.0),
			}, true
		}

		if closing <= epsilon {
			// Separated and not approaching.
			return castHit{}, false
		}

		t += (output.Distance - castTarget) / closing
		if t >= 1.0 {
			return castHit{}, false
		}
	}

	// Iteration budget exhausted; the advancement is conservative so the
	// current parameter is a safe hit.
	input.TransformA = Transform{P: xfA.P.Add(translation.Mul(t)), Q: xfA.Q}
	var output DistanceOutput
	Distance(&output, &cache, &input)
	normal, sep := Vec2Normalized(output.PointB.Sub(output.PointA))
	if sep <= epsilon {
		normal, _ = Vec2Normalized(translation)
	}
	return castHit{
		fraction: t,
		point:    output.PointB,
		normal:   normal.Mul(-1.0),
	}, true
}

func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
