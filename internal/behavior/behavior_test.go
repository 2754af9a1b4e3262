package behavior_test

import (
	"testing"
	"time"

	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/behavior"
	"github.com/blockrun/game/internal/collision"
	"github.com/blockrun/game/internal/core/event"
	"github.com/blockrun/game/internal/input"
	"github.com/blockrun/game/internal/scene"
	"github.com/blockrun/game/internal/scripting"
	"github.com/blockrun/game/internal/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recorder captures every published event in the given categories.
type recorder struct {
	events []event.Data
}

func record(bus *event.Bus, cats ...event.Category) *recorder {
	r := &recorder{}
	for _, c := range cats {
		bus.Subscribe(c, func(d event.Data) { r.events = append(r.events, d) })
	}
	return r
}

func (r *recorder) cues() []string {
	var out []string
	for _, d := range r.events {
		if d.Category == event.CategorySound && d.Action == event.OnPlay2D {
			s, _ := d.StringParam(0)
			out = append(out, s)
		}
	}
	return out
}

func (r *recorder) has(c event.Category, a event.Action) bool {
	for _, d := range r.events {
		if d.Category == c && d.Action == a {
			return true
		}
	}
	return false
}

// keys is a scriptable input.Service.
type keys struct {
	down  map[input.Key]bool
	first map[input.Key]bool
}

func newKeys() *keys {
	return &keys{down: map[input.Key]bool{}, first: map[input.Key]bool{}}
}

func (k *keys) IsKeyDown(key input.Key) bool       { return k.down[key] }
func (k *keys) IsFirstKeyPress(key input.Key) bool { return k.first[key] }

func collidable(id string, typ actor.Type, at mgl32.Vec3, b actor.Behavior) *actor.Actor {
	t := transform.NewAt(at)
	return actor.NewCollidable(id, typ, actor.StatusActive, t, actor.Effect{Alpha: 1}, "cube", collision.NewBox(t), b)
}

func zone(id string, at mgl32.Vec3, params *actor.ZoneParams) *actor.Actor {
	t := transform.NewAt(at)
	return actor.NewZone(id, actor.StatusUpdate, t, collision.NewBox(t), params)
}

const step = 10 * time.Millisecond

type clock struct{ total time.Duration }

func (c *clock) next() actor.Frame {
	c.total += step
	return actor.Frame{Elapsed: step, Total: c.total}
}

func settings() behavior.PlayerSettings {
	return behavior.PlayerSettings{
		JumpSpeed:    0.1, // 1 unit per 10ms frame
		JumpHeight:   4,
		GroundHeight: 0,
		Lives:        3,
		StageStarts:  []mgl32.Vec3{{0, 0, 0}, {100, 0, 0}},
		StrafeSpeed:  0.1,
	}
}

func TestPlayerJumpRisesThenFallsBack(t *testing.T) {
	bus := event.NewBus()
	rec := record(bus, event.CategorySound)
	kb := newKeys()
	p := behavior.NewPlayer(bus, kb, nil, settings())
	player := collidable("player", actor.TypePlayer, mgl32.Vec3{}, p)
	m := scene.NewObjectManager(zap.NewNop())
	m.Add(player)
	var c clock

	kb.first[input.KeyJump] = true
	m.ApplyUpdate(c.next())
	kb.first[input.KeyJump] = false

	heights := []float32{player.Transform.Translation.Y()}
	for i := 0; i < 10; i++ {
		m.ApplyUpdate(c.next())
		heights = append(heights, player.Transform.Translation.Y())
	}

	assert.Equal(t, []float32{1, 2, 3, 4, 3, 2, 1, 0, 0, 0, 0}, heights)
	assert.Equal(t, []string{behavior.CueJump}, rec.cues())
}

func TestPlayerJumpNeverOvershoots(t *testing.T) {
	bus := event.NewBus()
	kb := newKeys()
	cfg := settings()
	cfg.JumpHeight = 2.5
	p := behavior.NewPlayer(bus, kb, nil, cfg)
	player := collidable("player", actor.TypePlayer, mgl32.Vec3{}, p)
	m := scene.NewObjectManager(zap.NewNop())
	m.Add(player)
	var c clock

	kb.first[input.KeyJump] = true
	m.ApplyUpdate(c.next())
	kb.first[input.KeyJump] = false

	var peak float32
	for i := 0; i < 10; i++ {
		m.ApplyUpdate(c.next())
		peak = max(peak, player.Transform.Translation.Y())
	}
	assert.Equal(t, float32(2.5), peak)
	assert.Equal(t, float32(0), player.Transform.Translation.Y())
	assert.False(t, p.Jumping())
}

func TestPlayerRunsAndStrafes(t *testing.T) {
	bus := event.NewBus()
	kb := newKeys()
	cfg := settings()
	cfg.MoveSpeed = 0.2
	p := behavior.NewPlayer(bus, kb, nil, cfg)
	player := collidable("player", actor.TypePlayer, mgl32.Vec3{}, p)
	m := scene.NewObjectManager(zap.NewNop())
	m.Add(player)
	var c clock

	m.ApplyUpdate(c.next())
	assert.True(t, mgl32.Vec3{0, 0, -2}.ApproxEqual(player.Transform.Translation))

	kb.down[input.KeyLeft] = true
	m.ApplyUpdate(c.next())
	assert.True(t, mgl32.Vec3{-1, 0, -4}.ApproxEqual(player.Transform.Translation))

	kb.down[input.KeyLeft] = false
	kb.down[input.KeyRight] = true
	m.ApplyUpdate(c.next())
	assert.True(t, mgl32.Vec3{0, 0, -6}.ApproxEqual(player.Transform.Translation))
}

func TestPlayerStartDelay(t *testing.T) {
	bus := event.NewBus()
	cfg := settings()
	cfg.MoveSpeed = 0.1
	cfg.StartDelay = 25 * time.Millisecond
	p := behavior.NewPlayer(bus, newKeys(), nil, cfg)
	player := collidable("player", actor.TypePlayer, mgl32.Vec3{}, p)
	m := scene.NewObjectManager(zap.NewNop())
	m.Add(player)
	var c clock

	m.ApplyUpdate(c.next()) // 10ms
	m.ApplyUpdate(c.next()) // 20ms
	assert.True(t, p.Paused())
	assert.Equal(t, mgl32.Vec3{}, player.Transform.Translation)

	m.ApplyUpdate(c.next()) // 30ms
	assert.False(t, p.Paused())
	assert.Equal(t, float32(-1), player.Transform.Translation.Z())
}

func TestZonePermeableNPCBlocking(t *testing.T) {
	bus := event.NewBus()
	rec := record(bus, event.CategorySound)
	m := scene.NewObjectManager(zap.NewNop())
	m.Subscribe(bus)

	mover := collidable("mover", actor.TypeNPC, mgl32.Vec3{}, behavior.NewMover(bus, mgl32.Vec3{1, 0, 0}, 0))
	trigger := zone("chime", mgl32.Vec3{1.5, 0, 0}, &actor.ZoneParams{Trigger: actor.TriggerSound, Cue: "chime"})
	enemy := collidable("enemy", actor.TypeNPC, mgl32.Vec3{3.5, 0, 0}, nil)
	m.AddAll([]*actor.Actor{trigger, enemy, mover})
	var c clock

	// Frame 1 overlaps the zone and still moves.
	m.ApplyUpdate(c.next())
	assert.Same(t, (*actor.Actor)(nil), mover.Collidee)
	assert.Equal(t, float32(1), mover.Transform.Translation.X())

	// Frame 2 still overlaps only the zone; frame 3 reaches the enemy.
	m.ApplyUpdate(c.next())
	assert.Equal(t, float32(2), mover.Transform.Translation.X())
	m.ApplyUpdate(c.next())
	assert.Same(t, enemy, mover.Collidee)
	assert.Equal(t, float32(2), mover.Transform.Translation.X())

	// The passive mover does not react to zones.
	assert.Empty(t, rec.cues())
}

func TestPlayerZoneTriggers(t *testing.T) {
	t.Run("sound", func(t *testing.T) {
		bus := event.NewBus()
		rec := record(bus, event.CategorySound)
		p := behavior.NewPlayer(bus, newKeys(), nil, settings())
		player := collidable("player", actor.TypePlayer, mgl32.Vec3{}, p)
		z := zone("z", mgl32.Vec3{}, &actor.ZoneParams{Trigger: actor.TriggerSound, Cue: "chime"})

		got := p.HandleCollision(player, z)

		assert.Nil(t, got, "zones never block")
		assert.Equal(t, []string{"chime"}, rec.cues())
	})

	t.Run("stage end teleports and cools down", func(t *testing.T) {
		bus := event.NewBus()
		rec := record(bus, event.CategorySound, event.CategoryPlayer)
		cfg := settings()
		cfg.MoveSpeed = 0.1
		cfg.StageCooldown = 50 * time.Millisecond
		p := behavior.NewPlayer(bus, newKeys(), nil, cfg)
		player := collidable("player", actor.TypePlayer, mgl32.Vec3{}, p)
		finish := zone("finish line 1", mgl32.Vec3{0, 0, -1}, &actor.ZoneParams{Trigger: actor.TriggerStageEnd, Stage: 2})
		m := scene.NewObjectManager(zap.NewNop())
		m.AddAll([]*actor.Actor{finish, player})
		var c clock

		m.ApplyUpdate(c.next())

		assert.Equal(t, 2, p.Stage())
		assert.True(t, p.Paused())
		// Teleported, then this frame's movement still applied.
		assert.True(t, mgl32.Vec3{100, 0, -1}.ApproxEqual(player.Transform.Translation))
		assert.Equal(t, []string{behavior.CueWin}, rec.cues())
		assert.True(t, rec.has(event.CategoryPlayer, event.OnStageChange))

		for i := 0; i < 5; i++ {
			m.ApplyUpdate(c.next()) // 20..60ms: paused until 60ms
		}
		assert.False(t, p.Paused())
	})

	t.Run("finish wins", func(t *testing.T) {
		bus := event.NewBus()
		rec := record(bus, event.CategoryMenu)
		p := behavior.NewPlayer(bus, newKeys(), nil, settings())
		player := collidable("player", actor.TypePlayer, mgl32.Vec3{100, 0, -250}, p)
		z := zone("finish line 2", mgl32.Vec3{100, 0, -250}, &actor.ZoneParams{Trigger: actor.TriggerFinish})

		p.HandleCollision(player, z)

		assert.True(t, rec.has(event.CategoryMenu, event.OnWin))
		assert.True(t, p.Paused())
		assert.Equal(t, mgl32.Vec3{}, player.Transform.Translation, "back at the origin")
	})

	t.Run("zone without params", func(t *testing.T) {
		bus := event.NewBus()
		p := behavior.NewPlayer(bus, newKeys(), nil, settings())
		player := collidable("player", actor.TypePlayer, mgl32.Vec3{}, p)
		assert.Nil(t, p.HandleCollision(player, zone("z", mgl32.Vec3{}, nil)))
	})
}

type fakeScripts struct {
	ctx     scripting.ZoneContext
	effects []scripting.Effect
	score   float64
	scored  bool
}

func (f *fakeScripts) ZoneEntered(ctx scripting.ZoneContext) []scripting.Effect {
	f.ctx = ctx
	return f.effects
}

func (f *fakeScripts) PickupScore(string, float64) (float64, bool) { return f.score, f.scored }

func TestPlayerScriptZone(t *testing.T) {
	bus := event.NewBus()
	rec := record(bus, event.CategorySound, event.CategoryUI, event.CategoryPlayer, event.CategoryMenu)
	scripts := &fakeScripts{effects: []scripting.Effect{
		{Kind: scripting.EffectSound, Cue: "secret"},
		{Kind: scripting.EffectScore, Amount: 25},
		{Kind: scripting.EffectLives, Amount: 1},
		{Kind: scripting.EffectHealth, Amount: -2},
		{Kind: scripting.EffectMenu, Cue: "pause"},
	}}
	p := behavior.NewPlayer(bus, newKeys(), scripts, settings())
	player := collidable("player", actor.TypePlayer, mgl32.Vec3{1, 2, 3}, p)
	z := zone("cave", mgl32.Vec3{}, &actor.ZoneParams{Trigger: actor.TriggerScript, Script: "bonus"})

	assert.Nil(t, p.HandleCollision(player, z))

	assert.Equal(t, "cave", scripts.ctx.Zone)
	assert.Equal(t, "bonus", scripts.ctx.Script)
	assert.Equal(t, 3, scripts.ctx.Lives)
	assert.Equal(t, 2.0, scripts.ctx.Y)
	assert.Equal(t, float32(25), p.Score())
	assert.Equal(t, 4, p.Lives())
	assert.Equal(t, []string{"secret"}, rec.cues())
	assert.True(t, rec.has(event.CategoryUI, event.OnHealthDelta))
	assert.True(t, rec.has(event.CategoryPlayer, event.OnLivesChanged))
	assert.True(t, rec.has(event.CategoryMenu, event.OnPause))
}

func TestPlayerHitsNPC(t *testing.T) {
	bus := event.NewBus()
	rec := record(bus, event.CategorySound, event.CategoryMenu, event.CategoryPlayer)
	cfg := settings()
	cfg.Lives = 2
	cfg.StageStarts = []mgl32.Vec3{{0, 0, 10}}
	p := behavior.NewPlayer(bus, newKeys(), nil, cfg)
	player := collidable("player", actor.TypePlayer, mgl32.Vec3{5, 0, 0}, p)
	enemy := collidable("enemy", actor.TypeNPC, mgl32.Vec3{6, 0, 0}, nil)

	got := p.HandleCollision(player, enemy)

	assert.Same(t, enemy, got, "enemies block")
	assert.Equal(t, 1, p.Lives())
	assert.Equal(t, mgl32.Vec3{0, 0, 10}, player.Transform.Translation, "respawned at stage start")
	assert.False(t, rec.has(event.CategoryMenu, event.OnLose))

	p.HandleCollision(player, enemy)

	assert.Equal(t, 0, p.Lives())
	assert.Equal(t, mgl32.Vec3{}, player.Transform.Translation)
	assert.True(t, p.Paused())
	assert.True(t, rec.has(event.CategoryMenu, event.OnLose))
	assert.Equal(t, []string{behavior.CueDie, behavior.CueDie}, rec.cues())
}

func TestPausedPlayerComputesNoIntent(t *testing.T) {
	bus := event.NewBus()
	kb := newKeys()
	cfg := settings()
	cfg.MoveSpeed = 1
	p := behavior.NewPlayer(bus, kb, nil, cfg)
	player := collidable("player", actor.TypePlayer, mgl32.Vec3{}, p)
	p.Pause()

	kb.first[input.KeyJump] = true
	p.HandleInput(player, actor.Frame{Elapsed: step, Total: step})

	assert.False(t, player.Transform.HasIncrements())
	assert.False(t, p.Jumping())
}

func TestPickupIsCollectedAndWalkedThrough(t *testing.T) {
	bus := event.NewBus()
	rec := record(bus, event.CategoryPlayer, event.CategorySound)
	m := scene.NewObjectManager(zap.NewNop())
	m.Subscribe(bus)
	cfg := settings()
	cfg.StrafeSpeed = 0.1
	kb := newKeys()
	kb.down[input.KeyRight] = true
	p := behavior.NewPlayer(bus, kb, nil, cfg)
	player := collidable("player", actor.TypePlayer, mgl32.Vec3{}, p)
	gem := collidable("gem", actor.TypePickup, mgl32.Vec3{1, 0, 0}, nil)
	gem.Pickup = actor.NewPickupParams("gem", 5, nil)
	m.AddAll([]*actor.Actor{player, gem})
	var c clock

	m.ApplyUpdate(c.next())

	assert.Equal(t, float32(1), player.Transform.Translation.X(), "not blocked")
	assert.Equal(t, float32(5), p.Score())
	assert.True(t, rec.has(event.CategoryPlayer, event.OnPickup))
	assert.Contains(t, rec.cues(), behavior.CuePickup)
	assert.Equal(t, 2, m.Count(), "removal waits for the next frame")

	m.ApplyUpdate(c.next())
	assert.Nil(t, m.Find(actor.ByID("gem").Predicate()))
}

func TestPickupScoreFromScript(t *testing.T) {
	bus := event.NewBus()
	p := behavior.NewPlayer(bus, newKeys(), &fakeScripts{score: 42, scored: true}, settings())
	player := collidable("player", actor.TypePlayer, mgl32.Vec3{}, p)
	gem := collidable("gem", actor.TypePickup, mgl32.Vec3{}, nil)
	gem.Pickup = actor.NewPickupParams("gem", 5, nil)

	p.HandleCollision(player, gem)
	assert.Equal(t, float32(42), p.Score())
}

func TestEnemyRemovesPickupWithoutCredit(t *testing.T) {
	bus := event.NewBus()
	rec := record(bus, event.CategoryObject, event.CategoryPlayer, event.CategorySound)
	mover := behavior.NewMover(bus, mgl32.Vec3{1, 0, 0}, 0)
	enemy := collidable("enemy", actor.TypeNPC, mgl32.Vec3{}, mover)
	gem := collidable("gem", actor.TypePickup, mgl32.Vec3{}, nil)

	assert.Nil(t, mover.HandleCollision(enemy, gem))
	require.Len(t, rec.events, 1)
	assert.Equal(t, event.CategoryObject, rec.events[0].Category)
	assert.Equal(t, event.OnRemoveActor, rec.events[0].Action)
	assert.False(t, rec.has(event.CategoryPlayer, event.OnPickup))
	assert.Empty(t, rec.cues())
}

func TestPatrolClearsPickupInItsPath(t *testing.T) {
	bus := event.NewBus()
	rec := record(bus, event.CategoryPlayer, event.CategorySound)
	origin := mgl32.Vec3{}
	enemy := collidable("enemy", actor.TypeNPC, origin, behavior.NewPatrol(bus, origin, 10, 0.5, behavior.AxisX))
	gem := collidable("gem", actor.TypePickup, mgl32.Vec3{1.2, 0, 0}, nil)
	m := scene.NewObjectManager(zap.NewNop())
	m.Subscribe(bus)
	defer m.Close()
	m.AddAll([]*actor.Actor{enemy, gem})
	var c clock

	for i := 0; i < 6; i++ {
		m.ApplyUpdate(c.next())
	}

	assert.Nil(t, m.Find(actor.ByID("gem").Predicate()))
	assert.NotNil(t, m.Find(actor.ByID("enemy").Predicate()))
	assert.False(t, rec.has(event.CategoryPlayer, event.OnPickup))
	assert.Empty(t, rec.cues())
}

func TestRespondByCollideeType(t *testing.T) {
	bus := event.NewBus()
	rec := record(bus, event.CategorySound)
	mover := behavior.NewMover(bus, mgl32.Vec3{}, 0)
	self := collidable("self", actor.TypeNPC, mgl32.Vec3{}, mover)

	blocking := map[actor.Type]bool{
		actor.TypeHelper:    true,
		actor.TypeSky:       true,
		actor.TypeGround:    false,
		actor.TypeDecorator: false,
		actor.TypePickup:    false,
		actor.TypeNPC:       true,
		actor.TypePlayer:    true,
		actor.TypeZone:      true,
		actor.TypeCamera:    true,
		actor.TypeUIText:    true,
		actor.TypeUITexture: true,
	}
	for typ, blocks := range blocking {
		other := collidable("other", typ, mgl32.Vec3{}, nil)
		got := mover.HandleCollision(self, other)
		if blocks {
			assert.Same(t, other, got, typ.String())
		} else {
			assert.Nil(t, got, typ.String())
		}
	}
	assert.Equal(t, []string{behavior.CueBump}, rec.cues())

	deco := collidable("vase", actor.TypeDecorator, mgl32.Vec3{}, nil)
	mover.HandleCollision(self, deco)
	assert.Equal(t, behavior.DecoratorHitColor, deco.Effect.Color)

	assert.Nil(t, mover.HandleCollision(self, nil))
}

func TestPatrolBouncesWithinRange(t *testing.T) {
	bus := event.NewBus()
	origin := mgl32.Vec3{10, 5, 0}
	p := behavior.NewPatrol(bus, origin, 3, 1, behavior.AxisX)
	enemy := collidable("pyramid", actor.TypeNPC, origin, p)
	m := scene.NewObjectManager(zap.NewNop())
	m.Add(enemy)
	var c clock

	var xs []float32
	for i := 0; i < 16; i++ {
		m.ApplyUpdate(c.next())
		xs = append(xs, enemy.Transform.Translation.X())
	}

	assert.Equal(t, []float32{11, 12, 13, 13, 12, 11, 10, 9, 8, 7, 7, 8, 9, 10, 11, 12}, xs)
	assert.Equal(t, float32(5), enemy.Transform.Translation.Y(), "X-only patrol")
	lo, hi := p.Bounds()
	assert.Equal(t, float32(7), lo.X())
	assert.Equal(t, float32(13), hi.X())
}

func TestPatrolOvershootIsAtMostOneStep(t *testing.T) {
	bus := event.NewBus()
	origin := mgl32.Vec3{0, 0, 0}
	const rng, speed = 2, 0.75
	p := behavior.NewPatrol(bus, origin, rng, speed, behavior.AxesXY)
	enemy := collidable("sphere", actor.TypeNPC, origin, p)
	m := scene.NewObjectManager(zap.NewNop())
	m.Add(enemy)
	var c clock

	flips := 0
	last := p.Direction(0)
	for i := 0; i < 100; i++ {
		m.ApplyUpdate(c.next())
		pos := enemy.Transform.Translation
		for axis := 0; axis < 2; axis++ {
			require.LessOrEqual(t, pos[axis], float32(rng+speed))
			require.GreaterOrEqual(t, pos[axis], float32(-rng-speed))
		}
		if d := p.Direction(0); d != last {
			flips++
			last = d
		}
	}
	assert.Greater(t, flips, 10)
	assert.Equal(t, enemy.Transform.Translation.X(), enemy.Transform.Translation.Y(), "both axes move in step")
}

func TestPatrolCloneKeepsBounds(t *testing.T) {
	p := behavior.NewPatrol(event.NewBus(), mgl32.Vec3{1, 0, 0}, 2, 1, behavior.AxisX)
	c := p.Clone().(*behavior.Patrol)
	lo, hi := c.Bounds()
	assert.Equal(t, float32(-1), lo.X())
	assert.Equal(t, float32(3), hi.X())
}

func TestMoverRotates(t *testing.T) {
	bus := event.NewBus()
	mv := behavior.NewMover(bus, mgl32.Vec3{}, 90)
	a := collidable("spinner", actor.TypeNPC, mgl32.Vec3{}, mv)
	a.AttachScene(scene.NewObjectManager(zap.NewNop()))

	a.Update(actor.Frame{Elapsed: step})

	assert.InDelta(t, 90, a.Transform.Rotation.Y(), 1e-4)
	want := mgl32.Vec3{-1, 0, 0}
	for i := range want {
		assert.InDelta(t, want[i], a.Transform.Look[i], 1e-4)
	}
}
