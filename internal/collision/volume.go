package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ── Volumes ──────────────────────────────────────────────────────────
// All overlap tests are inclusive: touching counts as intersecting.

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min, Max mgl32.Vec3
}

// Translate returns the box moved by v.
func (b BoundingBox) Translate(v mgl32.Vec3) BoundingBox {
	return BoundingBox{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b BoundingBox) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Intersects tests box-box overlap.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.Max.X() >= o.Min.X() && b.Min.X() <= o.Max.X() &&
		b.Max.Y() >= o.Min.Y() && b.Min.Y() <= o.Max.Y() &&
		b.Max.Z() >= o.Min.Z() && b.Min.Z() <= o.Max.Z()
}

// IntersectsSphere clamps the sphere centre onto the box and compares the
// squared distance against the squared radius.
func (b BoundingBox) IntersectsSphere(s BoundingSphere) bool {
	closest := mgl32.Vec3{
		clamp(s.Center.X(), b.Min.X(), b.Max.X()),
		clamp(s.Center.Y(), b.Min.Y(), b.Max.Y()),
		clamp(s.Center.Z(), b.Min.Z(), b.Max.Z()),
	}
	d := s.Center.Sub(closest)
	return d.Dot(d) <= s.Radius*s.Radius
}

func (b BoundingBox) ContainsPoint(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// BoundingSphere is a centre and radius.
type BoundingSphere struct {
	Center mgl32.Vec3
	Radius float32
}

func (s BoundingSphere) Translate(v mgl32.Vec3) BoundingSphere {
	return BoundingSphere{Center: s.Center.Add(v), Radius: s.Radius}
}

func (s BoundingSphere) Intersects(o BoundingSphere) bool {
	d := s.Center.Sub(o.Center)
	r := s.Radius + o.Radius
	return d.Dot(d) <= r*r
}

func (s BoundingSphere) IntersectsBox(b BoundingBox) bool {
	return b.IntersectsSphere(s)
}

// ── Ray ──────────────────────────────────────────────────────────────

// Ray is a half-line from Position along Direction.
type Ray struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
}

// IntersectsBox returns the distance along the ray to the box (slab method).
// ok is false on a miss or when the distance is not positive.
func (r Ray) IntersectsBox(b BoundingBox) (dist float32, ok bool) {
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))
	for axis := 0; axis < 3; axis++ {
		o, d := r.Position[axis], r.Direction[axis]
		lo, hi := b.Min[axis], b.Max[axis]
		if abs(d) < 1e-8 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax || tmax < 0 {
			return 0, false
		}
	}
	return tmin, tmin > 0
}

// IntersectsSphere returns the distance to the nearest surface hit.
func (r Ray) IntersectsSphere(s BoundingSphere) (dist float32, ok bool) {
	m := r.Position.Sub(s.Center)
	a := r.Direction.Dot(r.Direction)
	if a == 0 {
		return 0, false
	}
	b := m.Dot(r.Direction)
	c := m.Dot(m) - s.Radius*s.Radius
	if c > 0 && b > 0 {
		return 0, false
	}
	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - float32(math.Sqrt(float64(disc)))) / a
	return t, t > 0
}

// ── Frustum ──────────────────────────────────────────────────────────

// Containment classifies a volume against a frustum.
type Containment int

const (
	Disjoint Containment = iota
	Intersecting
	Contains
)

// Plane satisfies Normal·p + D = 0; the positive side is inside.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

func (p Plane) Distance(v mgl32.Vec3) float32 {
	return p.Normal.Dot(v) + p.D
}

// Frustum is six inward-facing planes: left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustum extracts the planes of a view-projection matrix (OpenGL clip space).
func NewFrustum(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)
	raw := [6]mgl32.Vec4{
		r3.Add(r0), r3.Sub(r0),
		r3.Add(r1), r3.Sub(r1),
		r3.Add(r2), r3.Sub(r2),
	}
	var f Frustum
	for i, v := range raw {
		n := v.Vec3()
		l := n.Len()
		if l == 0 {
			continue
		}
		f.Planes[i] = Plane{Normal: n.Mul(1 / l), D: v.W() / l}
	}
	return f
}

func (f Frustum) ContainsBox(b BoundingBox) Containment {
	result := Contains
	for _, p := range f.Planes {
		var pos, neg mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			if p.Normal[axis] >= 0 {
				pos[axis], neg[axis] = b.Max[axis], b.Min[axis]
			} else {
				pos[axis], neg[axis] = b.Min[axis], b.Max[axis]
			}
		}
		if p.Distance(pos) < 0 {
			return Disjoint
		}
		if p.Distance(neg) < 0 {
			result = Intersecting
		}
	}
	return result
}

func (f Frustum) ContainsSphere(s BoundingSphere) Containment {
	result := Contains
	for _, p := range f.Planes {
		d := p.Distance(s.Center)
		if d < -s.Radius {
			return Disjoint
		}
		if d < s.Radius {
			result = Intersecting
		}
	}
	return result
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
