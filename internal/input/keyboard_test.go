package input_test

import (
	"testing"
	"time"

	"github.com/blockrun/game/internal/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstKeyPressIsEdgeTriggered(t *testing.T) {
	kb := input.NewKeyboard(100 * time.Millisecond)
	t0 := time.Unix(0, 0)

	kb.Press(input.KeyJump, t0)
	kb.Update(t0)
	assert.True(t, kb.IsKeyDown(input.KeyJump))
	assert.True(t, kb.IsFirstKeyPress(input.KeyJump))

	// Auto-repeat keeps it held without another first press.
	kb.Press(input.KeyJump, t0.Add(30*time.Millisecond))
	kb.Update(t0.Add(33 * time.Millisecond))
	assert.True(t, kb.IsKeyDown(input.KeyJump))
	assert.False(t, kb.IsFirstKeyPress(input.KeyJump))

	// Released once the hold window passes.
	kb.Update(t0.Add(200 * time.Millisecond))
	assert.False(t, kb.IsKeyDown(input.KeyJump))
	assert.False(t, kb.IsFirstKeyPress(input.KeyJump))

	kb.Press(input.KeyJump, t0.Add(210*time.Millisecond))
	kb.Update(t0.Add(216 * time.Millisecond))
	assert.True(t, kb.IsFirstKeyPress(input.KeyJump))
}

func TestPressIsSeenEvenIfOlderThanHold(t *testing.T) {
	kb := input.NewKeyboard(10 * time.Millisecond)
	t0 := time.Unix(0, 0)

	kb.Press(input.KeyPause, t0)
	kb.Update(t0.Add(time.Second)) // long frame

	assert.True(t, kb.IsFirstKeyPress(input.KeyPause))
}

func TestReleaseAndReset(t *testing.T) {
	kb := input.NewKeyboard(time.Second)
	t0 := time.Unix(0, 0)
	kb.Press(input.KeyLeft, t0)
	kb.Update(t0)
	kb.Release(input.KeyLeft)
	kb.Update(t0)
	assert.False(t, kb.IsKeyDown(input.KeyLeft))

	kb.Press(input.KeyRight, t0)
	kb.Update(t0)
	kb.Reset()
	assert.False(t, kb.IsKeyDown(input.KeyRight))

	kb.Press(input.KeyNone, t0)
	kb.Update(t0)
	assert.False(t, kb.IsKeyDown(input.KeyNone))
}

func TestBindings(t *testing.T) {
	b, err := input.ParseBindings(map[string]string{"K": "jump", "space": "pause"})
	require.NoError(t, err)

	assert.Equal(t, input.KeyJump, b.Lookup("k"))
	assert.Equal(t, input.KeyPause, b.Lookup("Space"))
	assert.Equal(t, input.KeyLeft, b.Lookup("a"))
	assert.Equal(t, input.KeyNone, b.Lookup("F12"))

	_, err = input.ParseBindings(map[string]string{"x": "fly"})
	assert.Error(t, err)
}

func TestParseKey(t *testing.T) {
	k, err := input.ParseKey("Volume_Up")
	require.NoError(t, err)
	assert.Equal(t, input.KeyVolumeUp, k)
	assert.Equal(t, "volume_up", k.String())
}
