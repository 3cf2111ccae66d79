package slide2d

/// Velocity components this close to pointing into a contact plane are
/// treated as pointing into it. Keeps the slide from jittering along
/// near-perpendicular surfaces.
const dotEpsilon = 0.005

/// Slide movement shorter than this is not worth sweeping.
const minSlideDistance = 1e-4

/// SpatialQuerier answers the two queries sliding movement needs. World
/// implements it; tests and adapters can substitute their own scene.
type SpatialQuerier interface {
	CastShape(shape Shape, position Vec2, angle float64, translation Vec2, filter QueryFilter) (SweepHit, bool)
	Overlaps(shape Shape, position Vec2, angle float64, margin float64, filter QueryFilter, callback func(Entity, Contact) bool)
}

/// A Mover performs collide-and-slide movement for a kinematic character
/// against a scene. LengthUnit scales the tolerances; set it to the number
/// of world units that represent one meter (for example 100 for a
/// pixels-per-meter game).
type Mover struct {
	Scene      SpatialQuerier
	LengthUnit float64
}

func NewMover(scene SpatialQuerier) *Mover {
	return &Mover{
		Scene:      scene,
		LengthUnit: 1.0,
	}
}

/// Configuration for iterative depenetration.
type DepenetrationConfig struct {
	/// Maximum number of relaxation passes over the contact set.
	DepenetrationIterations int

	/// Stop early when the residual penetration corrected in a pass drops
	/// below this, scaled by the length unit.
	MaxDepenetrationError float64

	/// Penetrations deeper than this, scaled by the length unit, are
	/// considered bad contact data and ignored.
	PenetrationRejectionThreshold float64

	/// Colliders within this distance count as touching.
	SkinWidth float64
}

func MakeDepenetrationConfig() DepenetrationConfig {
	return DepenetrationConfig{
		DepenetrationIterations:       16,
		MaxDepenetrationError:         0.0001,
		PenetrationRejectionThreshold: 0.5,
		SkinWidth:                     0.002,
	}
}

/// Configuration for MoveAndSlide.
type MoveAndSlideConfig struct {
	/// Maximum number of sweep-and-slide passes per call.
	MoveAndSlideIterations int

	DepenetrationIterations       int
	MaxDepenetrationError         float64
	PenetrationRejectionThreshold float64

	/// Colliders within this distance count as touching. Larger than the
	/// depenetration default so the character rests at a stable hover
	/// distance.
	SkinWidth float64

	/// Extra contact planes the velocity is clipped against, on top of the
	/// planes collected from the scene. Useful to keep a character off
	/// walkable-angle limits.
	Planes []Vec2

	/// Upper bound on collected contact planes per pass.
	MaxPlanes int
}

func MakeMoveAndSlideConfig() MoveAndSlideConfig {
	return MoveAndSlideConfig{
		MoveAndSlideIterations:        4,
		DepenetrationIterations:       16,
		MaxDepenetrationError:         0.0001,
		PenetrationRejectionThreshold: 0.5,
		SkinWidth:                     0.01,
		MaxPlanes:                     20,
	}
}

func (config MoveAndSlideConfig) depenetration() DepenetrationConfig {
	return DepenetrationConfig{
		DepenetrationIterations:       config.DepenetrationIterations,
		MaxDepenetrationError:         config.MaxDepenetrationError,
		PenetrationRejectionThreshold: config.PenetrationRejectionThreshold,
		SkinWidth:                     config.SkinWidth,
	}
}

/// A single penetration to resolve: the unit normal points toward the
/// character, the depth is how far it must move along the normal to
/// separate.
type Penetration struct {
	Normal Vec2
	Depth  float64
}

/// Depenetrate computes the smallest combined translation that resolves
/// the given penetrations, by Gauss-Seidel relaxation: each pass walks the
/// contacts and pushes along any normal whose residual depth is still
/// positive. Overlaps deeper than the rejection threshold are ignored.
///
/// The result is a translation to add to the character position; it does
/// not touch the scene.
func (m *Mover) Depenetrate(config DepenetrationConfig, penetrations []Penetration) Vec2 {
	fixup := vec2Zero

	maxError := m.LengthUnit * config.MaxDepenetrationError
	rejection := m.LengthUnit * config.PenetrationRejectionThreshold

	for iter := 0; iter < config.DepenetrationIterations; iter++ {
		total := 0.0

		for _, p := range penetrations {
			if p.Depth > rejection {
				continue
			}

			residual := p.Depth - fixup.Dot(p.Normal)
			if residual > 0.0 {
				fixup = fixup.Add(p.Normal.Mul(residual))
				total += residual
			}
		}

		if total < maxError {
			break
		}
	}

	return fixup
}

/// ProjectVelocity clips a velocity against a set of contact plane normals
/// so that it no longer points into any of them.
///
/// A velocity that already satisfies every plane is returned unchanged.
/// Otherwise the plane whose projection stays valid against all the other
/// planes and deviates least from the input is used. When no single plane
/// yields a valid direction the planes form a closed corner and the
/// velocity collapses to zero.
func ProjectVelocity(velocity Vec2, normals []Vec2) Vec2 {
	satisfied := true
	for _, n := range normals {
		if velocity.Dot(n) < -dotEpsilon {
			satisfied = false
			break
		}
	}
	if satisfied {
		return velocity
	}

	found := false
	best := vec2Zero
	bestDeviation := maxFloat

	for i, n := range normals {
		// Only planes the velocity actually points into produce candidates.
		if velocity.Dot(n) >= 0.0 {
			continue
		}

		projected := velocity.Sub(n.Mul(velocity.Dot(n)))

		valid := true
		for j, other := range normals {
			if j == i {
				continue
			}
			if projected.Dot(other) < -dotEpsilon {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}

		d := projected.Sub(velocity)
		deviation := d.Dot(d)
		if !found || deviation < bestDeviation {
			found = true
			best = projected
			bestDeviation = deviation
		}
	}

	if !found {
		return vec2Zero
	}
	return best
}

/// The nearest blocking contact found by CastMove.
type MoveHitData struct {
	Entity Entity

	/// How far the character can move before its surface is skinWidth from
	/// the obstacle. Never negative.
	Distance float64

	/// How far the character can move before the surfaces actually touch.
	CollisionDistance float64

	/// Contact point on the obstacle.
	Point Vec2

	/// Contact normal on the obstacle, pointing toward the character.
	Normal Vec2
}

/// Intersects reports whether the character already overlaps the obstacle
/// at the start of the cast.
func (hit MoveHitData) Intersects() bool {
	return hit.CollisionDistance == 0.0
}

/// CastMove sweeps the shape along movement and reports the nearest
/// blocking contact, with the travel distance pulled back so the surfaces
/// stay skinWidth apart. Returns false when the whole movement is free.
///
/// The pull-back divides the skin by the approach steepness so that a
/// grazing contact reserves as much surface clearance as a head-on one.
func (m *Mover) CastMove(shape Shape, position Vec2, angle float64, movement Vec2, skinWidth float64, filter QueryFilter) (MoveHitData, bool) {
	dir, length := Vec2Normalized(movement)
	if length <= epsilon {
		return MoveHitData{}, false
	}

	hit, ok := m.Scene.CastShape(shape, position, angle, movement, filter)
	if !ok {
		return MoveHitData{}, false
	}

	steepness := maxFloat64(dir.Dot(hit.Normal.Mul(-1.0)), dotEpsilon)
	safe := maxFloat64(hit.Distance-skinWidth/steepness, 0.0)

	return MoveHitData{
		Entity:            hit.Entity,
		Distance:          safe,
		CollisionDistance: hit.Distance,
		Point:             hit.Point,
		Normal:            hit.Normal,
	}, true
}

/// Contact data handed to the MoveAndSlide callback. Normal, Position and
/// Velocity point into the solver state: the callback may overwrite them
/// to steer the slide, for example flattening a normal to make a slope
/// behave like a wall.
type MoveAndSlideHitData struct {
	Entity Entity
	Point  Vec2

	Normal   *Vec2
	Position *Vec2
	Velocity *Vec2

	Distance          float64
	CollisionDistance float64
}

/// Called once per contact plane collected during a slide pass. Return
/// false to refuse the contact and stop collecting planes for the pass;
/// refused contacts never clip the velocity.
type MoveAndSlideCallback func(hit *MoveAndSlideHitData) bool

/// Result of MoveAndSlide.
type MoveAndSlideOutput struct {
	/// Where the character ends up.
	Position Vec2

	/// The input velocity clipped against every surface hit on the way.
	/// Feed it back as the next frame's velocity to glide along walls;
	/// a zero value means the character is cornered or stuck.
	ProjectedVelocity Vec2
}

/// MoveAndSlide moves a character shape through the scene by
/// velocity*deltaTime, sliding along any surfaces in the way.
///
/// Each pass sweeps the remaining movement, advances to the first contact
/// (minus skin), collects every nearby contact plane, pushes out of any
/// overlap and clips the velocity against the planes. Movement continues
/// with the clipped velocity and the unspent time until the movement is
/// spent, the velocity dies, or the pass budget runs out.
///
/// A nil config uses MakeMoveAndSlideConfig. A nil callback accepts every
/// contact.
func (m *Mover) MoveAndSlide(shape Shape, position Vec2, angle float64, velocity Vec2, deltaTime float64, config *MoveAndSlideConfig, filter QueryFilter, onHit MoveAndSlideCallback) MoveAndSlideOutput {
	cfg := MakeMoveAndSlideConfig()
	if config != nil {
		cfg = *config
	}

	skin := cfg.SkinWidth
	depenConfig := cfg.depenetration()
	originalVelocity := velocity

	// Resolve any overlap left over from the previous frame before
	// sweeping, restoring the skin gap.
	position = position.Add(m.DepenetrateAll(shape, position, angle, depenConfig, skin, filter))

	timeLeft := deltaTime

	for iter := 0; iter < cfg.MoveAndSlideIterations; iter++ {
		sweep := velocity.Mul(timeLeft)
		dir, length := Vec2Normalized(sweep)
		if length < minSlideDistance {
			break
		}

		hit, ok := m.CastMove(shape, position, angle, sweep, skin, filter)
		if !ok {
			// Nothing in the way; spend the rest of the movement.
			position = position.Add(sweep)
			break
		}

		if hit.Intersects() {
			// Stuck inside geometry that depenetration could not resolve.
			velocity = vec2Zero
			break
		}

		timeLeft -= timeLeft * (hit.Distance / length)
		position = position.Add(dir.Mul(hit.Distance))

		// Collect every contact plane near the new position, not just the
		// swept one: a character sliding into a corner must see both walls
		// in the same pass.
		planes := append([]Vec2(nil), cfg.Planes...)
		var penetrations []Penetration

		m.Scene.Overlaps(shape, position, angle, 2.0*skin, filter, func(entity Entity, contact Contact) bool {
			if len(planes) >= cfg.MaxPlanes {
				return false
			}

			normal := contact.Normal
			hitData := MoveAndSlideHitData{
				Entity:            hit.Entity,
				Point:             contact.Point,
				Normal:            &normal,
				Position:          &position,
				Velocity:          &velocity,
				Distance:          hit.Distance,
				CollisionDistance: hit.CollisionDistance,
			}
			if onHit != nil && !onHit(&hitData) {
				return false
			}

			planes = append(planes, normal)

			if depth := contact.Penetration + skin; depth > 0.0 {
				penetrations = append(penetrations, Penetration{Normal: normal, Depth: depth})
			}
			return true
		})

		position = position.Add(m.Depenetrate(depenConfig, penetrations))
		velocity = ProjectVelocity(velocity, planes)

		// A clipped velocity that reverses against the requested movement
		// would make the character creep backwards; kill it instead.
		if velocity.Dot(originalVelocity) <= -dotEpsilon {
			velocity = vec2Zero
			break
		}
	}

	return MoveAndSlideOutput{
		Position:          position,
		ProjectedVelocity: velocity,
	}
}

/// Intersections collects a Penetration for every collider whose surface
/// is within margin of the posed shape. Depths include the margin, so a
/// collider exactly margin away yields depth zero.
func (m *Mover) Intersections(shape Shape, position Vec2, angle float64, margin float64, filter QueryFilter) []Penetration {
	var penetrations []Penetration
	m.Scene.Overlaps(shape, position, angle, margin, filter, func(entity Entity, contact Contact) bool {
		if depth := contact.Penetration + margin; depth > 0.0 {
			penetrations = append(penetrations, Penetration{Normal: contact.Normal, Depth: depth})
		}
		return true
	})
	return penetrations
}

/// DepenetrateAll gathers the penetrations around the posed shape and
/// resolves them in one step, returning the position fixup.
func (m *Mover) DepenetrateAll(shape Shape, position Vec2, angle float64, config DepenetrationConfig, margin float64, filter QueryFilter) Vec2 {
	return m.Depenetrate(config, m.Intersections(shape, position, angle, margin, filter))
}
