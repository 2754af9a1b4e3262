package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func vecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "want %v got %v", want, got)
	}
}

func TestApplyIncrementsTranslatesThenResets(t *testing.T) {
	tr := NewAt(mgl32.Vec3{1, 2, 3})
	tr.TranslateIncrement = mgl32.Vec3{1, 0, -1}

	tr.ApplyIncrements()

	vecNear(t, mgl32.Vec3{2, 2, 2}, tr.Translation)
	assert.False(t, tr.HasIncrements())
}

func TestResetIncrementsLeavesTranslation(t *testing.T) {
	tr := NewAt(mgl32.Vec3{0, 0, 0})
	tr.TranslateIncrement = mgl32.Vec3{5, 5, 5}
	tr.RotateIncrement = 45

	tr.ResetIncrements()

	vecNear(t, mgl32.Vec3{}, tr.Translation)
	assert.Zero(t, tr.Rotation.Y())
	assert.False(t, tr.HasIncrements())
}

func TestRotateAroundUpRebuildsLook(t *testing.T) {
	tr := NewAt(mgl32.Vec3{})
	tr.RotateAroundUpBy(90)

	// -Z rotated 90 degrees counter-clockwise about +Y points down -X.
	vecNear(t, mgl32.Vec3{-1, 0, 0}, tr.Look)
	vecNear(t, WorldUp, tr.Up)

	tr.RotateAroundUpBy(-90)
	vecNear(t, WorldForward, tr.Look)
}

func TestRight(t *testing.T) {
	tr := NewAt(mgl32.Vec3{})
	vecNear(t, mgl32.Vec3{1, 0, 0}, tr.Right())
}

func TestCloneIsIndependent(t *testing.T) {
	tr := New(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, mgl32.Vec3{2, 2, 2})
	c := tr.Clone()
	c.TranslateBy(mgl32.Vec3{10, 0, 0})
	c.Scale = mgl32.Vec3{4, 4, 4}

	vecNear(t, mgl32.Vec3{1, 1, 1}, tr.Translation)
	vecNear(t, mgl32.Vec3{2, 2, 2}, tr.Scale)
}

func TestResetRestoresOriginals(t *testing.T) {
	tr := NewAt(mgl32.Vec3{3, 0, 0})
	tr.TranslateBy(mgl32.Vec3{1, 1, 1})
	tr.RotateAroundUpBy(30)

	tr.Reset()

	vecNear(t, mgl32.Vec3{3, 0, 0}, tr.Translation)
	vecNear(t, WorldForward, tr.Look)
}

func TestWorldMatrixTranslates(t *testing.T) {
	tr := New(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{2, 2, 2})
	p := tr.World().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	vecNear(t, mgl32.Vec3{7, 0, 0}, p)
}
