package game

import (
	"context"
	"fmt"
	"time"

	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/audio"
	"github.com/blockrun/game/internal/behavior"
	"github.com/blockrun/game/internal/config"
	"github.com/blockrun/game/internal/core/event"
	coresys "github.com/blockrun/game/internal/core/system"
	"github.com/blockrun/game/internal/data"
	"github.com/blockrun/game/internal/input"
	"github.com/blockrun/game/internal/scene"
	"github.com/blockrun/game/internal/ui"
	"go.uber.org/zap"
)

// PlayerID is the placement ID the level must give its player.
const PlayerID = "player"

// Options wires a Game. Audio, Scripts and Store are optional.
type Options struct {
	Config     *config.Config
	Archetypes *data.ArchetypeTable
	Level      *data.Level
	Scripts    behavior.ZoneScripter
	Audio      *audio.Manager
	Store      RunStore
	Now        func() time.Time
	Log        *zap.Logger
}

// Game owns one run: the bus, the managers subscribed to it, and the frame
// runner driving them.
type Game struct {
	bus     *event.Bus
	objects *scene.ObjectManager
	ui      *ui.Manager
	menu    *ui.Menu
	audio   *audio.Manager
	keys    *input.Keyboard
	state   *StateManager
	runner  *coresys.Runner
	factory *Factory

	objectSys  *ObjectSystem
	persistSys *PersistenceSystem

	player    *actor.Actor
	playerCtl *behavior.Player
	level     *data.Level
	quit      bool
	log       *zap.Logger
}

// New builds every actor of the level and starts on the main menu with the
// simulation paused.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Archetypes == nil || opts.Level == nil {
		return nil, fmt.Errorf("game needs archetypes and a level")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	g := &Game{
		bus:     event.NewBus(),
		objects: scene.NewObjectManager(log.Named("objects")),
		ui:      ui.NewManager(ui.NewFormatter(cfg.Game.Language), log.Named("ui")),
		menu:    ui.NewMenu(log.Named("menu")),
		audio:   opts.Audio,
		keys:    input.NewKeyboard(cfg.Game.KeyHold),
		state:   NewStateManager(cfg.Player.Lives, now, log.Named("state")),
		runner:  coresys.NewRunner(),
		level:   opts.Level,
		log:     log,
	}
	g.objects.Subscribe(g.bus)
	g.ui.Subscribe(g.bus)
	g.menu.Subscribe(g.bus)
	g.state.Subscribe(g.bus)
	if g.audio != nil {
		g.audio.Subscribe(g.bus)
	}
	g.ui.SetLives(cfg.Player.Lives)

	settings := behavior.PlayerSettings{
		MoveSpeed:     cfg.Player.MoveSpeed,
		StrafeSpeed:   cfg.Player.StrafeSpeed,
		JumpSpeed:     cfg.Player.JumpSpeed,
		JumpHeight:    cfg.Player.JumpHeight,
		GroundHeight:  cfg.Player.GroundHeight,
		Lives:         cfg.Player.Lives,
		StartDelay:    cfg.Game.StartDelay,
		StageCooldown: cfg.Player.StageCooldown,
		StageStarts:   opts.Level.StageStarts(),
	}
	g.factory = NewFactory(opts.Archetypes, g.bus, g.keys, opts.Scripts, settings)
	if err := g.populate(); err != nil {
		g.Close()
		return nil, err
	}

	g.objects.SetPaused(true)
	g.registerSystems(cfg, opts.Store, now)

	log.Info("game ready",
		zap.String("level", opts.Level.Name),
		zap.Int("actors", g.objects.Count()),
		zap.Int("ui", g.ui.Count()))
	return g, nil
}

func (g *Game) populate() error {
	for _, p := range g.level.Placements {
		a, err := g.factory.Build(p)
		if err != nil {
			return err
		}
		if a.Kind == actor.KindUI {
			g.bus.Publish(event.New(event.CategoryUI, event.OnAddActor, a))
			continue
		}
		g.bus.Publish(event.New(event.CategoryObject, event.OnAddActor, a))
		if p.ID == PlayerID {
			ctl, ok := a.Behavior.(*behavior.Player)
			if !ok {
				return fmt.Errorf("placement %s: archetype %s has no player behavior", p.ID, p.Archetype)
			}
			g.player, g.playerCtl = a, ctl
		}
	}
	if g.player == nil {
		return fmt.Errorf("level %s: no %q placement", g.level.Name, PlayerID)
	}
	return nil
}

func (g *Game) registerSystems(cfg *config.Config, store RunStore, now func() time.Time) {
	g.runner.Register(&InputSystem{
		keys: g.keys,
		bus:  g.bus,
		menu: g.menu,
		now:  now,
		restore: restoreColor{
			selector: actor.ByType(actor.TypeDecorator),
			original: g.factory.OriginalColor,
		},
		quit: g.Quit,
	})
	g.objectSys = &ObjectSystem{
		objects: g.objects,
		state:   g.state,
		onFrame: g.followPlayer,
	}
	g.runner.Register(g.objectSys)
	g.runner.Register(&UISystem{ui: g.ui})
	g.persistSys = &PersistenceSystem{
		state:       g.state,
		store:       store,
		player:      cfg.Game.PlayerName,
		levelName:   g.level.Name,
		fingerprint: g.level.Fingerprint,
		timeout:     cfg.Database.WriteTimeout,
		interval:    max(1, int(time.Second/cfg.Game.TickRate)),
		log:         g.log.Named("persist"),
	}
	g.runner.Register(g.persistSys)
}

func (g *Game) followPlayer(actor.Frame) {
	if g.audio != nil {
		g.audio.SetListener(g.player.Transform.Translation)
	}
}

// AddSystem registers an extra per-frame system, such as a renderer in the
// output phase.
func (g *Game) AddSystem(s coresys.System) { g.runner.Register(s) }

// Tick runs one frame.
func (g *Game) Tick(dt time.Duration) {
	g.runner.Tick(dt)
}

// Quit records an unfinished run as quit and asks the loop to stop.
func (g *Game) Quit() {
	if !g.state.Finished() && g.objectSys != nil && g.objectSys.Total() > 0 {
		g.state.Finish(OutcomeQuit)
	}
	g.quit = true
}

func (g *Game) Done() bool { return g.quit }

// Shutdown writes pending results and releases every subscription.
func (g *Game) Shutdown(ctx context.Context) {
	if g.persistSys != nil {
		g.persistSys.SaveAll(ctx)
	}
	g.Close()
}

// Close releases bus subscriptions.
func (g *Game) Close() {
	g.objects.Close()
	g.ui.Close()
	g.menu.Close()
	g.state.Close()
	if g.audio != nil {
		g.audio.Close()
	}
}

func (g *Game) Bus() *event.Bus                    { return g.bus }
func (g *Game) Objects() *scene.ObjectManager      { return g.objects }
func (g *Game) UI() *ui.Manager                    { return g.ui }
func (g *Game) Menu() *ui.Menu                     { return g.menu }
func (g *Game) Keys() *input.Keyboard              { return g.keys }
func (g *Game) State() *StateManager               { return g.state }
func (g *Game) Player() *actor.Actor               { return g.player }
func (g *Game) PlayerController() *behavior.Player { return g.playerCtl }
func (g *Game) Frames() uint64                     { return g.runner.Frames() }
func (g *Game) PendingResults() int                { return g.persistSys.Pending() }
