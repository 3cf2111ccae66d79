package slide2d

/// An Entity identifies a collider registered in a World. Entities are
/// never reused within the lifetime of a World.
type Entity int

type collider struct {
	shape   Shape
	xf      Transform
	layers  Layers
	proxyId int
}

/// A World holds static and kinematic colliders and answers the spatial
/// queries the sliding movement needs: swept shape casts and overlap
/// collection. Colliders are indexed by a dynamic AABB tree.
///
/// A World is not safe for concurrent mutation; concurrent read-only
/// queries are fine.
type World struct {
	tree       dynamicTree
	colliders  map[Entity]*collider
	nextEntity Entity
}

func NewWorld() *World {
	return &World{
		tree:       makeDynamicTree(),
		colliders:  make(map[Entity]*collider),
		nextEntity: 1,
	}
}

/// Add registers a shape at the given pose and returns its entity. The
/// shape is referenced, not copied; do not mutate it while registered.
func (world *World) Add(shape Shape, position Vec2, angle float64, layers Layers) Entity {
	entity := world.nextEntity
	world.nextEntity++

	c := &collider{
		shape:  shape,
		xf:     MakeTransform(position, angle),
		layers: layers,
	}
	c.proxyId = world.tree.CreateProxy(shape.ComputeAABB(c.xf), entity)
	world.colliders[entity] = c

	return entity
}

func (world *World) Remove(entity Entity) {
	c, ok := world.colliders[entity]
	if !ok {
		return
	}
	world.tree.DestroyProxy(c.proxyId)
	delete(world.colliders, entity)
}

/// SetPose moves a collider to a new position and angle.
func (world *World) SetPose(entity Entity, position Vec2, angle float64) {
	c, ok := world.colliders[entity]
	if !ok {
		return
	}
	oldXf := c.xf
	c.xf = MakeTransform(position, angle)
	world.tree.MoveProxy(c.proxyId, c.shape.ComputeAABB(c.xf), c.xf.P.Sub(oldXf.P))
}

func (world *World) Layers(entity Entity) (Layers, bool) {
	c, ok := world.colliders[entity]
	if !ok {
		return Layers{}, false
	}
	return c.layers, true
}

/// A hit returned by CastShape.
type SweepHit struct {
	Entity Entity

	/// Fraction of the translation at which the surfaces come into
	/// contact, in [0, 1].
	Fraction float64

	/// Distance traveled along the translation, Fraction times the
	/// translation length.
	Distance float64

	/// Contact point on the hit collider.
	Point Vec2

	/// Contact normal on the hit collider, pointing toward the cast shape.
	Normal Vec2
}

/// CastShape sweeps a posed shape along translation and returns the
/// nearest hit among colliders accepted by the filter. Returns false when
/// nothing is hit within the translation.
func (world *World) CastShape(shape Shape, position Vec2, angle float64, translation Vec2, filter QueryFilter) (SweepHit, bool) {
	xf := MakeTransform(position, angle)

	// Bound the whole sweep, slightly grown so grazing contacts are not
	// culled by the broad phase.
	sweptAABB := shape.ComputeAABB(xf)
	end := Transform{P: xf.P.Add(translation), Q: xf.Q}
	sweptAABB.CombineInPlace(shape.ComputeAABB(end))
	sweptAABB = sweptAABB.Grown(linearSlop)

	best := SweepHit{Fraction: maxFloat}
	found := false

	world.tree.Query(func(nodeId int) bool {
		entity := world.tree.GetEntity(nodeId)
		c := world.colliders[entity]
		if !filter.Accepts(entity, c.layers) {
			return true
		}

		hit, ok := castShape(shape, xf, translation, c.shape, c.xf)
		if ok && hit.fraction < best.Fraction {
			best = SweepHit{
				Entity:   entity,
				Fraction: hit.fraction,
				Distance: hit.fraction * translation.Len(),
				Point:    hit.point,
				Normal:   hit.normal,
			}
			found = true
		}
		return true
	}, sweptAABB)

	if !found {
		return SweepHit{}, false
	}
	return best, true
}

/// Overlaps reports every collider accepted by the filter whose surface is
/// within margin of the posed shape, deepest contact first per collider.
/// The callback returns false to stop early.
func (world *World) Overlaps(shape Shape, position Vec2, angle float64, margin float64, filter QueryFilter, callback func(Entity, Contact) bool) {
	xf := MakeTransform(position, angle)
	aabb := shape.ComputeAABB(xf).Grown(margin)

	world.tree.Query(func(nodeId int) bool {
		entity := world.tree.GetEntity(nodeId)
		c := world.colliders[entity]
		if !filter.Accepts(entity, c.layers) {
			return true
		}

		contact, ok := deepestContact(shape, xf, c.shape, c.xf, margin)
		if !ok {
			return true
		}
		return callback(entity, contact)
	}, aabb)
}
