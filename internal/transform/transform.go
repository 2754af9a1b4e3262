package transform

import "github.com/go-gl/mathgl/mgl32"

// Transform3D holds an actor's position, orientation and scale, plus the
// movement staged for the current frame. Staged increments are either applied
// with ApplyIncrements or dropped with ResetIncrements before the frame ends.
type Transform3D struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3 // degrees
	Scale       mgl32.Vec3

	Look mgl32.Vec3
	Up   mgl32.Vec3

	origTranslation mgl32.Vec3
	origRotation    mgl32.Vec3
	origScale       mgl32.Vec3
	origLook        mgl32.Vec3
	origUp          mgl32.Vec3

	// Pending movement, set during input handling.
	TranslateIncrement mgl32.Vec3
	RotateIncrement    float32 // degrees around Up
}

var (
	WorldUp      = mgl32.Vec3{0, 1, 0}
	WorldForward = mgl32.Vec3{0, 0, -1}
)

// New creates a transform looking down -Z with +Y up.
func New(translation, rotation, scale mgl32.Vec3) *Transform3D {
	return NewOriented(translation, rotation, scale, WorldForward, WorldUp)
}

// NewOriented creates a transform with an explicit look/up basis.
func NewOriented(translation, rotation, scale, look, up mgl32.Vec3) *Transform3D {
	t := &Transform3D{
		Translation:     translation,
		Rotation:        rotation,
		Scale:           scale,
		origTranslation: translation,
		origRotation:    rotation,
		origScale:       scale,
		origLook:        normalize(look),
		origUp:          normalize(up),
	}
	t.Look = t.origLook
	t.Up = t.origUp
	if rotation.Y() != 0 {
		t.rebuildBasis()
	}
	return t
}

// NewAt is shorthand for a unit-scale, unrotated transform at p.
func NewAt(p mgl32.Vec3) *Transform3D {
	return New(p, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
}

// Right is the normalized cross product of Look and Up.
func (t *Transform3D) Right() mgl32.Vec3 {
	return normalize(t.Look.Cross(t.Up))
}

// TranslateBy moves the transform immediately.
func (t *Transform3D) TranslateBy(delta mgl32.Vec3) {
	t.Translation = t.Translation.Add(delta)
}

// TranslateTo places the transform at p.
func (t *Transform3D) TranslateTo(p mgl32.Vec3) {
	t.Translation = p
}

// RotateAroundUpBy rotates around the Y axis and re-derives Look/Up from the
// original basis, so repeated rotations do not accumulate drift.
func (t *Transform3D) RotateAroundUpBy(degrees float32) {
	t.Rotation[1] += degrees
	t.rebuildBasis()
}

// RotateBy adds a rotation in degrees on all three axes.
func (t *Transform3D) RotateBy(degrees mgl32.Vec3) {
	t.Rotation = t.Rotation.Add(degrees)
	t.rebuildBasis()
}

func (t *Transform3D) rebuildBasis() {
	rot := t.rotationMatrix()
	t.Look = normalize(rot.Mul4x1(t.origLook.Vec4(0)).Vec3())
	t.Up = normalize(rot.Mul4x1(t.origUp.Vec4(0)).Vec3())
}

func (t *Transform3D) rotationMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotation.X()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotation.Z())))
}

// ApplyIncrements commits the staged movement: translate first, then rotate
// around Up. Increments are reset afterwards.
func (t *Transform3D) ApplyIncrements() {
	t.TranslateBy(t.TranslateIncrement)
	if t.RotateIncrement != 0 {
		t.RotateAroundUpBy(t.RotateIncrement)
	}
	t.ResetIncrements()
}

// ResetIncrements discards any staged movement.
func (t *Transform3D) ResetIncrements() {
	t.TranslateIncrement = mgl32.Vec3{}
	t.RotateIncrement = 0
}

// HasIncrements reports whether any movement is staged.
func (t *Transform3D) HasIncrements() bool {
	return t.TranslateIncrement != (mgl32.Vec3{}) || t.RotateIncrement != 0
}

// Reset restores the construction-time state.
func (t *Transform3D) Reset() {
	t.Translation = t.origTranslation
	t.Rotation = t.origRotation
	t.Scale = t.origScale
	t.Look = t.origLook
	t.Up = t.origUp
	t.ResetIncrements()
}

// World returns the scale * rotation * translation matrix.
func (t *Transform3D) World() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.rotationMatrix()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Clone returns an independent copy, including originals and pending increments.
func (t *Transform3D) Clone() *Transform3D {
	c := *t
	return &c
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}
