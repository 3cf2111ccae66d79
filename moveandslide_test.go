package slide2d_test

import (
	"math"
	"testing"

	"github.com/kinematic/slide2d"
)

func vec2Near(a, b slide2d.Vec2, tolerance float64) bool {
	return math.Abs(a[0]-b[0]) <= tolerance && math.Abs(a[1]-b[1]) <= tolerance
}

// Ground slab with its top surface at y=0, plus the polygon skin radius.
func groundedScene() (*slide2d.World, slide2d.Entity) {
	world := slide2d.NewWorld()
	ground := world.Add(slide2d.NewBoxShape(10.0, 1.0), slide2d.Vec2{0.0, -1.0}, 0.0, slide2d.MakeLayers())
	return world, ground
}

func TestMoveAndSlideFreeMovement(t *testing.T) {
	world := slide2d.NewWorld()
	mover := slide2d.NewMover(world)

	shape := slide2d.NewCircleShape(0.5)
	out := mover.MoveAndSlide(shape, slide2d.Vec2{0.0, 0.0}, 0.0, slide2d.Vec2{3.0, 4.0}, 0.5, nil, slide2d.MakeQueryFilter(), nil)

	if out.Position != (slide2d.Vec2{1.5, 2.0}) {
		t.Fatalf("expected full movement, got position %v", out.Position)
	}
	if out.ProjectedVelocity != (slide2d.Vec2{3.0, 4.0}) {
		t.Fatalf("expected velocity untouched, got %v", out.ProjectedVelocity)
	}
}

func TestMoveAndSlideZeroVelocity(t *testing.T) {
	world, _ := groundedScene()
	mover := slide2d.NewMover(world)

	shape := slide2d.NewCircleShape(0.5)
	start := slide2d.Vec2{0.0, 1.5}
	out := mover.MoveAndSlide(shape, start, 0.0, slide2d.Vec2{}, 1.0/60.0, nil, slide2d.MakeQueryFilter(), nil)

	if out.Position != start {
		t.Fatalf("expected position unchanged, got %v", out.Position)
	}
	if out.ProjectedVelocity != (slide2d.Vec2{}) {
		t.Fatalf("expected zero velocity, got %v", out.ProjectedVelocity)
	}
}

func TestMoveAndSlideSlidesAlongGround(t *testing.T) {
	world, _ := groundedScene()
	mover := slide2d.NewMover(world)

	shape := slide2d.NewCircleShape(0.5)
	out := mover.MoveAndSlide(shape, slide2d.Vec2{0.0, 0.6}, 0.0, slide2d.Vec2{2.0, -1.0}, 1.0, nil, slide2d.MakeQueryFilter(), nil)

	// The downward component dies against the floor, the horizontal one
	// survives.
	if !vec2Near(out.ProjectedVelocity, slide2d.Vec2{2.0, 0.0}, 1e-6) {
		t.Fatalf("expected velocity clipped to the floor plane, got %v", out.ProjectedVelocity)
	}
	if out.Position[0] < 1.5 || out.Position[0] > 2.01 {
		t.Fatalf("expected nearly the full horizontal movement, got position %v", out.Position)
	}
	if out.Position[1] < 0.5 || out.Position[1] > 0.65 {
		t.Fatalf("expected the character to stay on the floor, got position %v", out.Position)
	}
}

func TestMoveAndSlideTrapped(t *testing.T) {
	world := slide2d.NewWorld()
	world.Add(slide2d.NewBoxShape(5.0, 5.0), slide2d.Vec2{0.0, 0.0}, 0.0, slide2d.MakeLayers())
	mover := slide2d.NewMover(world)

	// A circle buried at the center of a large box cannot be depenetrated:
	// the overlap is deeper than the rejection threshold.
	shape := slide2d.NewCircleShape(0.5)
	start := slide2d.Vec2{0.0, 0.0}
	out := mover.MoveAndSlide(shape, start, 0.0, slide2d.Vec2{1.0, 0.0}, 1.0, nil, slide2d.MakeQueryFilter(), nil)

	if out.ProjectedVelocity != (slide2d.Vec2{}) {
		t.Fatalf("expected a trapped character to stop, got velocity %v", out.ProjectedVelocity)
	}
	if out.Position != start {
		t.Fatalf("expected a trapped character to stay put, got position %v", out.Position)
	}
}

func TestMoveAndSlideCorner(t *testing.T) {
	world := slide2d.NewWorld()
	world.Add(slide2d.NewBoxShape(10.0, 1.0), slide2d.Vec2{0.0, -1.0}, 0.0, slide2d.MakeLayers())
	world.Add(slide2d.NewBoxShape(1.0, 10.0), slide2d.Vec2{1.52, 0.0}, 0.0, slide2d.MakeLayers())
	mover := slide2d.NewMover(world)

	// Moving diagonally into the corner between the floor and the wall.
	// No single plane admits the motion, so the velocity must collapse.
	shape := slide2d.NewCircleShape(0.5)
	start := slide2d.Vec2{0.0, 0.52}
	out := mover.MoveAndSlide(shape, start, 0.0, slide2d.Vec2{1.0, -1.0}, 1.0, nil, slide2d.MakeQueryFilter(), nil)

	if out.ProjectedVelocity != (slide2d.Vec2{}) {
		t.Fatalf("expected the corner to stop the character, got velocity %v", out.ProjectedVelocity)
	}
	if !vec2Near(out.Position, start, 0.05) {
		t.Fatalf("expected the character pinned near the corner, got position %v", out.Position)
	}
}

func TestMoveAndSlideCallbackVelocityOverride(t *testing.T) {
	world, ground := groundedScene()
	mover := slide2d.NewMover(world)

	shape := slide2d.NewCircleShape(0.5)
	called := false

	// The callback reverses the velocity against the requested movement;
	// the slide must refuse to creep backwards and stop instead.
	out := mover.MoveAndSlide(shape, slide2d.Vec2{0.0, 0.52}, 0.0, slide2d.Vec2{0.0, -10.0}, 1.0/60.0, nil, slide2d.MakeQueryFilter(),
		func(hit *slide2d.MoveAndSlideHitData) bool {
			called = true
			if hit.Entity != ground {
				t.Fatalf("expected a hit on the ground, got entity %v", hit.Entity)
			}
			*hit.Velocity = slide2d.Vec2{0.0, 9.0}
			return true
		})

	if !called {
		t.Fatal("expected the callback to run")
	}
	if out.ProjectedVelocity != (slide2d.Vec2{}) {
		t.Fatalf("expected the reversed velocity to be dropped, got %v", out.ProjectedVelocity)
	}
}

func TestMoveAndSlideCallbackRefusesAll(t *testing.T) {
	world, _ := groundedScene()
	mover := slide2d.NewMover(world)

	calls := 0
	shape := slide2d.NewCircleShape(0.5)
	out := mover.MoveAndSlide(shape, slide2d.Vec2{0.0, 0.52}, 0.0, slide2d.Vec2{0.0, -10.0}, 1.0/60.0, nil, slide2d.MakeQueryFilter(),
		func(hit *slide2d.MoveAndSlideHitData) bool {
			calls++
			return false
		})

	// Refused contacts never enter the plane set, so the velocity is never
	// clipped. The passes keep sweeping, so the callback sees the floor on
	// every one of them.
	if out.ProjectedVelocity != (slide2d.Vec2{0.0, -10.0}) {
		t.Fatalf("expected the velocity unclipped, got %v", out.ProjectedVelocity)
	}
	if calls < 2 {
		t.Fatalf("expected the slide to keep iterating after a refusal, got %d calls", calls)
	}
}

func TestMoveAndSlideCallbackAcceptsFirstContact(t *testing.T) {
	world := slide2d.NewWorld()
	world.Add(slide2d.NewBoxShape(10.0, 1.0), slide2d.Vec2{0.0, -1.0}, 0.0, slide2d.MakeLayers())
	world.Add(slide2d.NewBoxShape(1.0, 10.0), slide2d.Vec2{1.52, 0.0}, 0.0, slide2d.MakeLayers())
	mover := slide2d.NewMover(world)

	// Accept the first contact in the corner and refuse everything after
	// it. The accepted plane must still clip the velocity.
	var accepted slide2d.Vec2
	calls := 0
	shape := slide2d.NewCircleShape(0.5)
	out := mover.MoveAndSlide(shape, slide2d.Vec2{0.0, 0.52}, 0.0, slide2d.Vec2{1.0, -1.0}, 1.0, nil, slide2d.MakeQueryFilter(),
		func(hit *slide2d.MoveAndSlideHitData) bool {
			calls++
			if calls == 1 {
				accepted = *hit.Normal
				return true
			}
			return false
		})

	if calls < 2 {
		t.Fatalf("expected more than one contact in the corner, got %d calls", calls)
	}
	if out.ProjectedVelocity == (slide2d.Vec2{1.0, -1.0}) {
		t.Fatal("expected the accepted plane to clip the velocity")
	}
	if out.ProjectedVelocity.Dot(accepted) < -0.005 {
		t.Fatalf("velocity %v still points into the accepted plane %v", out.ProjectedVelocity, accepted)
	}
}

func TestMoveAndSlideScaledWorld(t *testing.T) {
	world, _ := groundedScene()
	mover := slide2d.NewMover(world)
	mover.LengthUnit = 100.0

	// The length unit adjusts the depenetration tolerances, not the skin
	// width. A character dropped in a pixels-per-meter world must still
	// come to rest at the configured skin distance from the floor, not a
	// hundred times farther.
	shape := slide2d.NewCircleShape(0.5)
	out := mover.MoveAndSlide(shape, slide2d.Vec2{0.0, 1.5}, 0.0, slide2d.Vec2{0.0, -10.0}, 1.0, nil, slide2d.MakeQueryFilter(), nil)

	gap := slide2d.ShapeDistance(shape, slide2d.MakeTransform(out.Position, 0.0), slide2d.NewBoxShape(10.0, 1.0), slide2d.MakeTransform(slide2d.Vec2{0.0, -1.0}, 0.0)).Distance
	if gap < 0.005 || gap > 0.05 {
		t.Fatalf("expected a clearance near the skin width, got %v", gap)
	}
	if !vec2Near(out.ProjectedVelocity, slide2d.Vec2{}, 1e-9) {
		t.Fatalf("expected the fall clipped by the floor, got %v", out.ProjectedVelocity)
	}
}

func TestCastMovePreservesSkinGap(t *testing.T) {
	world, ground := groundedScene()
	mover := slide2d.NewMover(world)

	shape := slide2d.NewCircleShape(0.5)
	position := slide2d.Vec2{0.0, 1.0}
	skin := 0.01

	hit, ok := mover.CastMove(shape, position, 0.0, slide2d.Vec2{0.0, -1.0}, skin, slide2d.MakeQueryFilter())
	if !ok {
		t.Fatal("expected a hit on the ground")
	}
	if hit.Entity != ground {
		t.Fatalf("expected the ground entity, got %v", hit.Entity)
	}
	if hit.Intersects() {
		t.Fatal("expected a separated start")
	}
	if hit.Distance >= hit.CollisionDistance {
		t.Fatalf("expected the safe distance pulled back from the collision distance, got %v >= %v", hit.Distance, hit.CollisionDistance)
	}
	if !vec2Near(hit.Normal, slide2d.Vec2{0.0, 1.0}, 1e-6) {
		t.Fatalf("expected an upward floor normal, got %v", hit.Normal)
	}

	// Moving the safe distance must leave at least the skin as clearance,
	// and not much more.
	moved := position.Add(slide2d.Vec2{0.0, -1.0}.Mul(hit.Distance))
	gap := slide2d.ShapeDistance(shape, slide2d.MakeTransform(moved, 0.0), slide2d.NewBoxShape(10.0, 1.0), slide2d.MakeTransform(slide2d.Vec2{0.0, -1.0}, 0.0)).Distance
	if gap < skin-1e-6 || gap > skin+0.005 {
		t.Fatalf("expected a clearance near the skin width, got %v", gap)
	}
}

func TestCastMoveMissReturnsFalse(t *testing.T) {
	world, _ := groundedScene()
	mover := slide2d.NewMover(world)

	shape := slide2d.NewCircleShape(0.5)
	if _, ok := mover.CastMove(shape, slide2d.Vec2{0.0, 5.0}, 0.0, slide2d.Vec2{1.0, 0.0}, 0.01, slide2d.MakeQueryFilter()); ok {
		t.Fatal("expected no hit far above the ground")
	}
	if _, ok := mover.CastMove(shape, slide2d.Vec2{0.0, 5.0}, 0.0, slide2d.Vec2{}, 0.01, slide2d.MakeQueryFilter()); ok {
		t.Fatal("expected no hit for a zero movement")
	}
}

func TestProjectVelocity(t *testing.T) {
	// No planes leaves the velocity untouched.
	v := slide2d.Vec2{3.0, -4.0}
	if got := slide2d.ProjectVelocity(v, nil); got != v {
		t.Fatalf("expected %v, got %v", v, got)
	}

	// A satisfied plane leaves the velocity untouched, bit for bit.
	if got := slide2d.ProjectVelocity(slide2d.Vec2{1.0, 1.0}, []slide2d.Vec2{{0.0, 1.0}}); got != (slide2d.Vec2{1.0, 1.0}) {
		t.Fatalf("expected the velocity unchanged, got %v", got)
	}

	// A grazing contact within the epsilon band counts as satisfied and
	// the velocity comes back bit for bit.
	graze := slide2d.Vec2{1.0, -0.001}
	if got := slide2d.ProjectVelocity(graze, []slide2d.Vec2{{0.0, 1.0}}); got != graze {
		t.Fatalf("expected the grazing velocity unchanged, got %v", got)
	}

	// Straight into a floor: all motion dies.
	if got := slide2d.ProjectVelocity(slide2d.Vec2{0.0, -10.0}, []slide2d.Vec2{{0.0, 1.0}}); got != (slide2d.Vec2{0.0, 0.0}) {
		t.Fatalf("expected a dead stop, got %v", got)
	}

	// Oblique into a floor: the tangential part survives.
	if got := slide2d.ProjectVelocity(slide2d.Vec2{2.0, -1.0}, []slide2d.Vec2{{0.0, 1.0}}); got != (slide2d.Vec2{2.0, 0.0}) {
		t.Fatalf("expected a horizontal slide, got %v", got)
	}

	// A closed corner: no single plane admits the motion.
	corner := []slide2d.Vec2{{0.0, 1.0}, {-1.0, 0.0}}
	if got := slide2d.ProjectVelocity(slide2d.Vec2{1.0, -1.0}, corner); got != (slide2d.Vec2{}) {
		t.Fatalf("expected the corner to zero the velocity, got %v", got)
	}
}

func TestProjectVelocityFeasibility(t *testing.T) {
	planeSets := [][]slide2d.Vec2{
		{{0.0, 1.0}},
		{{0.0, 1.0}, {-1.0, 0.0}},
		{{0.0, 1.0}, {1.0, 0.0}},
		{{math.Sqrt2 / 2.0, math.Sqrt2 / 2.0}, {0.0, 1.0}},
		{{-math.Sqrt2 / 2.0, math.Sqrt2 / 2.0}, {math.Sqrt2 / 2.0, math.Sqrt2 / 2.0}},
	}
	velocities := []slide2d.Vec2{
		{1.0, -1.0}, {-3.0, -0.5}, {0.0, -10.0}, {5.0, 0.0}, {-2.0, 4.0},
	}

	// Whatever comes out must never point into any of the planes.
	for _, planes := range planeSets {
		for _, v := range velocities {
			got := slide2d.ProjectVelocity(v, planes)
			for _, n := range planes {
				if got.Dot(n) < -0.005 {
					t.Fatalf("velocity %v projected against %v yields %v, into plane %v", v, planes, got, n)
				}
			}
		}
	}
}

func TestDepenetrateSingleContact(t *testing.T) {
	mover := slide2d.NewMover(nil)
	config := slide2d.MakeDepenetrationConfig()

	fixup := mover.Depenetrate(config, []slide2d.Penetration{
		{Normal: slide2d.Vec2{0.0, 1.0}, Depth: 0.5},
	})
	if fixup != (slide2d.Vec2{0.0, 0.5}) {
		t.Fatalf("expected an exact push along the normal, got %v", fixup)
	}
}

func TestDepenetrateRejectsDeepOverlap(t *testing.T) {
	mover := slide2d.NewMover(nil)
	config := slide2d.MakeDepenetrationConfig()

	fixup := mover.Depenetrate(config, []slide2d.Penetration{
		{Normal: slide2d.Vec2{0.0, 1.0}, Depth: 5.0},
	})
	if fixup != (slide2d.Vec2{}) {
		t.Fatalf("expected a deep overlap to be rejected, got %v", fixup)
	}

	// Scaling the length unit scales the threshold with it.
	mover.LengthUnit = 100.0
	fixup = mover.Depenetrate(config, []slide2d.Penetration{
		{Normal: slide2d.Vec2{0.0, 1.0}, Depth: 5.0},
	})
	if fixup != (slide2d.Vec2{0.0, 5.0}) {
		t.Fatalf("expected the scaled threshold to accept the overlap, got %v", fixup)
	}
}

func TestDepenetrateTwoContacts(t *testing.T) {
	mover := slide2d.NewMover(nil)
	config := slide2d.MakeDepenetrationConfig()

	// Perpendicular contacts resolve in one combined push.
	fixup := mover.Depenetrate(config, []slide2d.Penetration{
		{Normal: slide2d.Vec2{0.0, 1.0}, Depth: 0.25},
		{Normal: slide2d.Vec2{1.0, 0.0}, Depth: 0.125},
	})
	if fixup != (slide2d.Vec2{0.125, 0.25}) {
		t.Fatalf("expected both contacts resolved, got %v", fixup)
	}
}

func TestDepenetrationRestoresSkinGap(t *testing.T) {
	world, _ := groundedScene()
	mover := slide2d.NewMover(world)

	// Start slightly inside the floor; the pre-sweep depenetration must
	// push the character back out before any movement happens.
	shape := slide2d.NewCircleShape(0.5)
	out := mover.MoveAndSlide(shape, slide2d.Vec2{0.0, 0.45}, 0.0, slide2d.Vec2{1.0, 0.0}, 1.0/60.0, nil, slide2d.MakeQueryFilter(), nil)

	gap := slide2d.ShapeDistance(shape, slide2d.MakeTransform(out.Position, 0.0), slide2d.NewBoxShape(10.0, 1.0), slide2d.MakeTransform(slide2d.Vec2{0.0, -1.0}, 0.0)).Distance
	if gap < 0.005 {
		t.Fatalf("expected the character pushed out of the floor, got clearance %v", gap)
	}
	if math.Abs(out.ProjectedVelocity[0]-1.0) > 1e-6 {
		t.Fatalf("expected the horizontal velocity to survive, got %v", out.ProjectedVelocity)
	}
}
