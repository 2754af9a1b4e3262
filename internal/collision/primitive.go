package collision

import (
	"github.com/blockrun/game/internal/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// Primitive is a collision volume attached to an actor. Tests between two
// primitives use double dispatch: a primitive hands its own current volume to
// the other primitive's IntersectsBox/IntersectsSphere.
type Primitive interface {
	// Intersects tests the current volumes of both primitives.
	Intersects(other Primitive) bool
	// IntersectsProjected moves only this primitive's volume by translation
	// and tests it against other's current volume.
	IntersectsProjected(other Primitive, translation mgl32.Vec3) bool

	IntersectsBox(b BoundingBox) bool
	IntersectsSphere(s BoundingSphere) bool
	// IntersectsFrustum is true when contained or partially inside.
	IntersectsFrustum(f Frustum) bool
	IntersectsRay(r Ray) (dist float32, ok bool)

	// Update recomputes the cached volume from the transform's translation.
	Update(t *transform.Transform3D)
	Center() mgl32.Vec3
	Clone() Primitive
}

// ── Box ──────────────────────────────────────────────────────────────

// Box is an axis-aligned box sized from its transform's scale.
type Box struct {
	transform *transform.Transform3D
	extents   BoundingBox // relative to the origin
	current   BoundingBox
}

// NewBox sizes the box as ±scale/2 and places it at the transform's
// translation.
func NewBox(t *transform.Transform3D) *Box {
	half := t.Scale.Mul(0.5)
	b := &Box{
		transform: t.Clone(),
		extents:   BoundingBox{Min: half.Mul(-1), Max: half},
	}
	b.Update(t)
	return b
}

// Bounds returns the cached world-space box.
func (b *Box) Bounds() BoundingBox { return b.current }

func (b *Box) Center() mgl32.Vec3 { return b.current.Center() }

func (b *Box) Update(t *transform.Transform3D) {
	b.current = b.extents.Translate(t.Translation)
}

func (b *Box) Intersects(other Primitive) bool {
	return other.IntersectsBox(b.current)
}

func (b *Box) IntersectsProjected(other Primitive, translation mgl32.Vec3) bool {
	return other.IntersectsBox(b.current.Translate(translation))
}

func (b *Box) IntersectsBox(o BoundingBox) bool       { return b.current.Intersects(o) }
func (b *Box) IntersectsSphere(s BoundingSphere) bool { return b.current.IntersectsSphere(s) }

func (b *Box) IntersectsFrustum(f Frustum) bool {
	return f.ContainsBox(b.current) != Disjoint
}

func (b *Box) IntersectsRay(r Ray) (float32, bool) {
	return r.IntersectsBox(b.current)
}

func (b *Box) Clone() Primitive {
	return &Box{
		transform: b.transform.Clone(),
		extents:   b.extents,
		current:   b.current,
	}
}

// ── Sphere ───────────────────────────────────────────────────────────

// Sphere keeps the radius given at construction; later scale changes do not
// resize it.
type Sphere struct {
	transform *transform.Transform3D
	radius    float32
	current   BoundingSphere
}

func NewSphere(t *transform.Transform3D, radius float32) *Sphere {
	s := &Sphere{transform: t.Clone()}
	s.SetRadius(radius)
	s.Update(t)
	return s
}

func (s *Sphere) Radius() float32 { return s.radius }

// SetRadius replaces non-positive values with 1. Takes effect on the next Update.
func (s *Sphere) SetRadius(r float32) {
	if r <= 0 {
		r = 1
	}
	s.radius = r
}

func (s *Sphere) Bounds() BoundingSphere { return s.current }

func (s *Sphere) Center() mgl32.Vec3 { return s.current.Center }

func (s *Sphere) Update(t *transform.Transform3D) {
	s.current = BoundingSphere{Center: t.Translation, Radius: s.radius}
}

func (s *Sphere) Intersects(other Primitive) bool {
	return other.IntersectsSphere(s.current)
}

func (s *Sphere) IntersectsProjected(other Primitive, translation mgl32.Vec3) bool {
	return other.IntersectsSphere(s.current.Translate(translation))
}

func (s *Sphere) IntersectsBox(b BoundingBox) bool       { return s.current.IntersectsBox(b) }
func (s *Sphere) IntersectsSphere(o BoundingSphere) bool { return s.current.Intersects(o) }

func (s *Sphere) IntersectsFrustum(f Frustum) bool {
	return f.ContainsSphere(s.current) != Disjoint
}

func (s *Sphere) IntersectsRay(r Ray) (float32, bool) {
	return r.IntersectsSphere(s.current)
}

func (s *Sphere) Clone() Primitive {
	return &Sphere{
		transform: s.transform.Clone(),
		radius:    s.radius,
		current:   s.current,
	}
}
