package collision_test

import (
	"testing"

	"github.com/blockrun/game/internal/collision"
	"github.com/blockrun/game/internal/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBoxAt(x, y, z float32) *collision.Box {
	return collision.NewBox(transform.NewAt(mgl32.Vec3{x, y, z}))
}

func TestBoxIntersectsTouchingEdges(t *testing.T) {
	a := unitBoxAt(0, 0, 0)
	b := unitBoxAt(1, 0, 0) // faces meet at x=0.5

	assert.True(t, a.Intersects(b))
	assert.True(t, b.Intersects(a))

	c := unitBoxAt(1.01, 0, 0)
	assert.False(t, a.Intersects(c))
}

func TestProjectedBoxIntersection(t *testing.T) {
	tests := []struct {
		name        string
		gap         float32
		translation mgl32.Vec3
		want        bool
	}{
		{"moves into overlap", 3, mgl32.Vec3{2.5, 0, 0}, true},
		{"moves exactly to touching", 3, mgl32.Vec3{2, 0, 0}, true},
		{"stops short", 3, mgl32.Vec3{1.9, 0, 0}, false},
		{"moves away", 3, mgl32.Vec3{-2, 0, 0}, false},
		{"moves away from overlap", 0.5, mgl32.Vec3{-1.6, 0, 0}, false},
		{"passes on another axis", 3, mgl32.Vec3{2.5, 1.5, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mover := unitBoxAt(0, 0, 0)
			static := unitBoxAt(tt.gap, 0, 0)
			assert.Equal(t, tt.want, mover.IntersectsProjected(static, tt.translation))
		})
	}
}

func TestProjectedTestOnlyMovesSelf(t *testing.T) {
	mover := unitBoxAt(0, 0, 0)
	other := unitBoxAt(3, 0, 0)

	// Projecting the other box toward the mover has no effect when the
	// mover is the one being asked.
	assert.False(t, other.IntersectsProjected(mover, mgl32.Vec3{2.5, 0, 0}))
	assert.True(t, other.IntersectsProjected(mover, mgl32.Vec3{-2.5, 0, 0}))

	// The cached volumes are untouched by projection.
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, mover.Center())
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, other.Center())
}

func TestBoxUpdateRecentersOnTranslation(t *testing.T) {
	tr := transform.New(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{2, 4, 2})
	b := collision.NewBox(tr)

	tr.TranslateBy(mgl32.Vec3{10, 0, 0})
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, b.Center(), "cache only changes on Update")

	b.Update(tr)
	assert.Equal(t, collision.BoundingBox{
		Min: mgl32.Vec3{9, -2, -1},
		Max: mgl32.Vec3{11, 2, 1},
	}, b.Bounds())
}

func TestSphereSphereAndBoxSphere(t *testing.T) {
	s1 := collision.NewSphere(transform.NewAt(mgl32.Vec3{0, 0, 0}), 1)
	s2 := collision.NewSphere(transform.NewAt(mgl32.Vec3{2, 0, 0}), 1)
	s3 := collision.NewSphere(transform.NewAt(mgl32.Vec3{2.1, 0, 0}), 1)

	assert.True(t, s1.Intersects(s2), "touching spheres intersect")
	assert.False(t, s1.Intersects(s3))

	box := unitBoxAt(1.5, 0, 0)
	assert.True(t, s1.Intersects(box))
	assert.True(t, box.Intersects(s1))

	far := unitBoxAt(5, 0, 0)
	assert.False(t, s1.Intersects(far))
	assert.True(t, s1.IntersectsProjected(far, mgl32.Vec3{3.6, 0, 0}))
}

func TestSphereRadiusIsFixedAfterConstruction(t *testing.T) {
	tr := transform.NewAt(mgl32.Vec3{})
	s := collision.NewSphere(tr, 2)
	tr.Scale = mgl32.Vec3{10, 10, 10}
	tr.TranslateBy(mgl32.Vec3{1, 0, 0})
	s.Update(tr)

	assert.Equal(t, float32(2), s.Bounds().Radius)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, s.Bounds().Center)

	s.SetRadius(-3)
	assert.Equal(t, float32(1), s.Radius())
}

func TestRayHits(t *testing.T) {
	box := unitBoxAt(5, 0, 0)
	ray := collision.Ray{Position: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{1, 0, 0}}

	dist, ok := box.IntersectsRay(ray)
	require.True(t, ok)
	assert.InDelta(t, 4.5, dist, 1e-5)

	_, ok = box.IntersectsRay(collision.Ray{Direction: mgl32.Vec3{-1, 0, 0}})
	assert.False(t, ok, "box is behind the ray")

	inside := collision.Ray{Position: mgl32.Vec3{5, 0, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	_, ok = box.IntersectsRay(inside)
	assert.False(t, ok, "non-positive distance is not a hit")

	sphere := collision.NewSphere(transform.NewAt(mgl32.Vec3{0, 0, -10}), 2)
	dist, ok = sphere.IntersectsRay(collision.Ray{Direction: mgl32.Vec3{0, 0, -1}})
	require.True(t, ok)
	assert.InDelta(t, 8, dist, 1e-5)

	_, ok = sphere.IntersectsRay(collision.Ray{Direction: mgl32.Vec3{0, 1, 0}})
	assert.False(t, ok)
}

func TestFrustumContainmentCountsPartial(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := collision.NewFrustum(proj.Mul4(view))

	inside := unitBoxAt(0, 0, -10)
	assert.Equal(t, collision.Contains, f.ContainsBox(inside.Bounds()))
	assert.True(t, inside.IntersectsFrustum(f))

	// Straddles the near plane.
	straddle := unitBoxAt(0, 0, 0)
	assert.Equal(t, collision.Intersecting, f.ContainsBox(straddle.Bounds()))
	assert.True(t, straddle.IntersectsFrustum(f))

	behind := unitBoxAt(0, 0, 10)
	assert.False(t, behind.IntersectsFrustum(f))

	sphere := collision.NewSphere(transform.NewAt(mgl32.Vec3{0, 0, -50}), 1)
	assert.True(t, sphere.IntersectsFrustum(f))
	gone := collision.NewSphere(transform.NewAt(mgl32.Vec3{0, 0, -200}), 1)
	assert.False(t, gone.IntersectsFrustum(f))
}

func TestCloneIsIndependent(t *testing.T) {
	tr := transform.NewAt(mgl32.Vec3{})
	b := collision.NewBox(tr)
	c := b.Clone()

	tr.TranslateBy(mgl32.Vec3{4, 0, 0})
	c.Update(tr)

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, b.Center())
	assert.Equal(t, mgl32.Vec3{4, 0, 0}, c.Center())
}
