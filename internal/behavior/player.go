package behavior

import (
	"time"

	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/core/event"
	"github.com/blockrun/game/internal/input"
	"github.com/blockrun/game/internal/scripting"
	"github.com/go-gl/mathgl/mgl32"
)

// PlayerSettings are the tunables of the player controller. Speeds are in
// units per millisecond.
type PlayerSettings struct {
	MoveSpeed     float32
	StrafeSpeed   float32
	JumpSpeed     float32
	JumpHeight    float32
	GroundHeight  float32
	Lives         int
	StartDelay    time.Duration // before the first stage starts running
	StageCooldown time.Duration // pause after reaching a new stage
	// StageStarts holds the spawn point of each stage, stage 1 first.
	StageStarts []mgl32.Vec3
}

// ZoneScripter runs Lua hooks for script zones and pickups.
type ZoneScripter interface {
	ZoneEntered(ctx scripting.ZoneContext) []scripting.Effect
	PickupScore(description string, value float64) (float64, bool)
}

// Player is the keyboard-driven runner. It always runs forward along Look,
// strafes on left/right, jumps on a fresh jump press and falls back to the
// ground height when not jumping.
type Player struct {
	cfg     PlayerSettings
	bus     *event.Bus
	keys    input.Service
	scripts ZoneScripter

	lives    int
	stage    int // 1-based
	score    float32
	jumping  bool
	paused   bool
	resumeAt time.Duration // 0: stay paused until Resume
	now      time.Duration
}

// NewPlayer creates a player on stage 1. With a StartDelay it begins paused
// and starts running once the delay has passed. scripts may be nil.
func NewPlayer(bus *event.Bus, keys input.Service, scripts ZoneScripter, cfg PlayerSettings) *Player {
	p := &Player{
		cfg:     cfg,
		bus:     bus,
		keys:    keys,
		scripts: scripts,
		lives:   cfg.Lives,
		stage:   1,
	}
	if cfg.StartDelay > 0 {
		p.pauseUntil(cfg.StartDelay)
	}
	return p
}

func (p *Player) Lives() int     { return p.lives }
func (p *Player) Stage() int     { return p.stage }
func (p *Player) Score() float32 { return p.score }
func (p *Player) Jumping() bool  { return p.jumping }
func (p *Player) Paused() bool   { return p.paused }

// Pause stops intent computation until Resume.
func (p *Player) Pause() {
	p.paused = true
	p.resumeAt = 0
}

func (p *Player) Resume() {
	p.paused = false
	p.resumeAt = 0
}

func (p *Player) pauseUntil(t time.Duration) {
	p.paused = true
	p.resumeAt = t
}

// StageStart returns the spawn point of the current stage.
func (p *Player) StageStart() mgl32.Vec3 {
	return p.stageStart(p.stage)
}

func (p *Player) stageStart(stage int) mgl32.Vec3 {
	if stage >= 1 && stage <= len(p.cfg.StageStarts) {
		return p.cfg.StageStarts[stage-1]
	}
	return mgl32.Vec3{}
}

// ── Movement ──

func (p *Player) HandleInput(a *actor.Actor, f actor.Frame) {
	p.now = f.Total
	if p.paused {
		if p.resumeAt == 0 || f.Total < p.resumeAt {
			return
		}
		p.Resume()
	}

	t := a.Transform
	ms := f.ElapsedMs()
	inc := t.Look.Mul(ms * p.cfg.MoveSpeed)

	if p.keys.IsKeyDown(input.KeyLeft) {
		inc = inc.Sub(t.Right().Mul(ms * p.cfg.StrafeSpeed))
	} else if p.keys.IsKeyDown(input.KeyRight) {
		inc = inc.Add(t.Right().Mul(ms * p.cfg.StrafeSpeed))
	}

	if p.keys.IsFirstKeyPress(input.KeyJump) && !p.jumping {
		p.jumping = true
		p.bus.Publish(event.New(event.CategorySound, event.OnPlay2D, CueJump))
	}

	y := t.Translation.Y()
	step := ms * p.cfg.JumpSpeed
	if p.jumping {
		rise := min(step, p.cfg.JumpHeight-y)
		if rise > 0 {
			inc = inc.Add(t.Up.Mul(rise))
		}
		if rise >= p.cfg.JumpHeight-y {
			p.jumping = false
		}
	} else if y > p.cfg.GroundHeight {
		inc = inc.Sub(t.Up.Mul(min(step, y-p.cfg.GroundHeight)))
	}

	t.TranslateIncrement = t.TranslateIncrement.Add(inc)
}

func (p *Player) HandleCollision(a *actor.Actor, collidee *actor.Actor) *actor.Actor {
	return Respond(p.bus, a, collidee, p)
}

func (p *Player) Clone() actor.Behavior {
	cp := *p
	cp.cfg.StageStarts = append([]mgl32.Vec3(nil), p.cfg.StageStarts...)
	return &cp
}

// ── Collision reactions ──

// HitNPC costs a life and respawns the player at the stage start. Running out
// of lives sends the player to the origin, publishes a lose event and
// freezes input.
func (p *Player) HitNPC(mover, _ *actor.Actor) bool {
	p.bus.Publish(event.New(event.CategorySound, event.OnPlay2D, CueDie))
	p.addLives(-1)
	if p.lives < 1 {
		mover.Transform.TranslateTo(mgl32.Vec3{})
		p.jumping = false
		p.Pause()
		p.bus.Publish(event.New(event.CategoryMenu, event.OnLose))
		return true
	}
	mover.Transform.TranslateTo(p.StageStart())
	p.jumping = false
	return true
}

func (p *Player) EnterZone(mover, zone *actor.Actor) {
	z := zone.Zone
	if z == nil {
		return
	}
	switch z.Trigger {
	case actor.TriggerSound:
		p.bus.Publish(event.New(event.CategorySound, event.OnPlay2D, z.Cue))
	case actor.TriggerStageEnd:
		p.bus.Publish(event.New(event.CategorySound, event.OnPlay2D, CueWin))
		p.goToStage(mover, z.Stage)
	case actor.TriggerFinish:
		p.bus.Publish(event.New(event.CategorySound, event.OnPlay2D, CueWin))
		mover.Transform.TranslateTo(mgl32.Vec3{})
		p.Pause()
		p.bus.Publish(event.New(event.CategoryMenu, event.OnWin))
	case actor.TriggerScript:
		p.runScript(mover, zone)
	case actor.TriggerNone:
	}
}

// goToStage teleports to the stage start and pauses for the cooldown.
func (p *Player) goToStage(mover *actor.Actor, stage int) {
	if stage < 1 {
		stage = p.stage + 1
	}
	p.stage = stage
	mover.Transform.TranslateTo(p.stageStart(stage))
	p.jumping = false
	if p.cfg.StageCooldown > 0 {
		p.pauseUntil(p.now + p.cfg.StageCooldown)
	}
	p.bus.Publish(event.New(event.CategoryPlayer, event.OnStageChange, stage))
}

func (p *Player) runScript(mover, zone *actor.Actor) {
	if p.scripts == nil {
		return
	}
	pos := mover.Transform.Translation
	effects := p.scripts.ZoneEntered(scripting.ZoneContext{
		Zone:   zone.ID,
		Script: zone.Zone.Script,
		Mover:  mover.ID,
		Lives:  p.lives,
		Stage:  p.stage,
		Score:  float64(p.score),
		X:      float64(pos.X()),
		Y:      float64(pos.Y()),
		Z:      float64(pos.Z()),
	})
	for _, e := range effects {
		switch e.Kind {
		case scripting.EffectSound:
			p.bus.Publish(event.New(event.CategorySound, event.OnPlay2D, e.Cue))
		case scripting.EffectMenu:
			p.publishMenu(e.Cue)
		case scripting.EffectHealth:
			p.bus.Publish(event.New(event.CategoryUI, event.OnHealthDelta, int(e.Amount)))
		case scripting.EffectLives:
			p.addLives(int(e.Amount))
		case scripting.EffectScore:
			p.addScore(float32(e.Amount))
		case scripting.EffectStage:
			p.goToStage(mover, e.Stage)
		}
	}
}

func (p *Player) publishMenu(cue string) {
	switch cue {
	case "win":
		p.Pause()
		p.bus.Publish(event.New(event.CategoryMenu, event.OnWin))
	case "lose":
		p.Pause()
		p.bus.Publish(event.New(event.CategoryMenu, event.OnLose))
	case "pause":
		p.bus.Publish(event.New(event.CategoryMenu, event.OnPause))
	}
}

func (p *Player) addLives(n int) {
	if n == 0 {
		return
	}
	p.lives += n
	p.bus.Publish(event.New(event.CategoryPlayer, event.OnLivesChanged, p.lives))
}

func (p *Player) addScore(v float32) {
	if v == 0 {
		return
	}
	p.score += v
	p.bus.Publish(event.New(event.CategoryPlayer, event.OnScoreChanged, p.score))
}

// Collect credits a pickup's value, or the value returned by the
// score_pickup script hook when one is loaded.
func (p *Player) Collect(_, pickup *actor.Actor) bool {
	if pickup.Pickup == nil {
		return true
	}
	v := pickup.Pickup.Value
	if p.scripts != nil {
		if s, ok := p.scripts.PickupScore(pickup.Pickup.Description, float64(v)); ok {
			v = float32(s)
		}
	}
	p.addScore(v)
	return true
}
