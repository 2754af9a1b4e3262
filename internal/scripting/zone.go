package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ZoneContext is handed to on_zone_enter.
type ZoneContext struct {
	Zone    string // zone actor ID
	Script  string // script name configured on the zone
	Mover   string
	Lives   int
	Stage   int
	Score   float64
	X, Y, Z float64
}

// EffectKind names a side effect requested by a zone script.
type EffectKind string

const (
	EffectSound  EffectKind = "sound"  // Cue
	EffectMenu   EffectKind = "menu"   // Cue is "win", "lose" or "pause"
	EffectHealth EffectKind = "health" // Amount added to the health bar
	EffectLives  EffectKind = "lives"  // Amount added to lives
	EffectScore  EffectKind = "score"  // Amount added to score
	EffectStage  EffectKind = "stage"  // Stage to move to
)

// Effect is one entry of the list returned by on_zone_enter.
type Effect struct {
	Kind   EffectKind
	Cue    string
	Amount float64
	Stage  int
}

// ZoneEntered calls on_zone_enter(ctx) and converts its array-of-tables
// result. A missing function or a script error yields no effects.
func (e *Engine) ZoneEntered(ctx ZoneContext) []Effect {
	t := e.vm.NewTable()
	t.RawSetString("zone", lua.LString(ctx.Zone))
	t.RawSetString("script", lua.LString(ctx.Script))
	t.RawSetString("mover", lua.LString(ctx.Mover))
	t.RawSetString("lives", lua.LNumber(ctx.Lives))
	t.RawSetString("stage", lua.LNumber(ctx.Stage))
	t.RawSetString("score", lua.LNumber(ctx.Score))

	pos := e.vm.NewTable()
	pos.RawSetString("x", lua.LNumber(ctx.X))
	pos.RawSetString("y", lua.LNumber(ctx.Y))
	pos.RawSetString("z", lua.LNumber(ctx.Z))
	t.RawSetString("pos", pos)

	result := e.call("on_zone_enter", t)
	if result == nil || result == lua.LNil {
		return nil
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua on_zone_enter returned non-table", zap.String("zone", ctx.Zone))
		return nil
	}

	var effects []Effect
	rt.ForEach(func(_, v lua.LValue) {
		et, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		effects = append(effects, Effect{
			Kind:   EffectKind(lua.LVAsString(et.RawGetString("kind"))),
			Cue:    lua.LVAsString(et.RawGetString("cue")),
			Amount: float64(lua.LVAsNumber(et.RawGetString("amount"))),
			Stage:  int(lua.LVAsNumber(et.RawGetString("stage"))),
		})
	})
	return effects
}

// PickupScore calls score_pickup(ctx) and returns its numeric result. ok is
// false when the hook is missing or does not return a number, in which case
// callers use the pickup's own value.
func (e *Engine) PickupScore(description string, value float64) (score float64, ok bool) {
	t := e.vm.NewTable()
	t.RawSetString("description", lua.LString(description))
	t.RawSetString("value", lua.LNumber(value))

	result := e.call("score_pickup", t)
	n, isNum := result.(lua.LNumber)
	if !isNum {
		return 0, false
	}
	return float64(n), true
}
