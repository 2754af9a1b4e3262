package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/blockrun/game/internal/audio"
	"github.com/blockrun/game/internal/behavior"
	"github.com/blockrun/game/internal/config"
	coresys "github.com/blockrun/game/internal/core/system"
	"github.com/blockrun/game/internal/data"
	"github.com/blockrun/game/internal/game"
	"github.com/blockrun/game/internal/input"
	"github.com/blockrun/game/internal/persist"
	"github.com/blockrun/game/internal/scripting"
	"github.com/blockrun/game/internal/term"
	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Console helpers ──

func printSection(title string) {
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", max(3, 44-len(title))))
}

func printStat(label, value string) {
	dots := max(3, 40-len(label)-len(value))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dots), value)
}

// speakerLock exposes the speaker's global lock as a sync.Locker.
type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// ── Main game logic ──

func run() error {
	// 1. Load config; a missing file means defaults.
	cfgPath := "config/blockrun.toml"
	if p := os.Getenv("BLOCKRUN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger. The terminal belongs to the game, so logs go to a file.
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load data
	archetypes, err := data.LoadArchetypeTable(cfg.Data.Archetypes)
	if err != nil {
		return fmt.Errorf("load archetypes: %w", err)
	}
	level, err := data.LoadLevel(cfg.Data.Level, archetypes)
	if err != nil {
		return fmt.Errorf("load level: %w", err)
	}
	bindings, err := input.ParseBindings(cfg.Keys)
	if err != nil {
		return fmt.Errorf("key bindings: %w", err)
	}
	log.Info("data loaded",
		zap.Int("archetypes", archetypes.Count()),
		zap.String("level", level.Name),
		zap.Int("placements", len(level.Placements)),
		zap.String("fingerprint", level.Fingerprint))

	// 4. Lua zone hooks (optional)
	var scripts behavior.ZoneScripter
	if cfg.Data.Scripts != "" {
		engine, err := scripting.NewEngine(cfg.Data.Scripts, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		scripts = engine
	}

	// 5. Audio (optional, non-fatal)
	var sound *audio.Manager
	if cfg.Audio.Enabled {
		rate := beep.SampleRate(cfg.Audio.SampleRate)
		sound = audio.NewManager(rate, nil, cfg.Audio.Volume, log.Named("audio"))
		if err := speaker.Init(rate, rate.N(cfg.Audio.Buffer)); err != nil {
			log.Warn("audio device unavailable, running silent", zap.Error(err))
		} else {
			sound.SetDeviceLocker(speakerLock{})
			speaker.Play(sound.Streamer())
			defer speaker.Close()
		}
	}

	// 6. Run storage (optional)
	var store game.RunStore
	var runs *persist.RunRepo
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log.Named("db"))
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		runs = persist.NewRunRepo(db)
		store = runs
	}

	// 7. Build the game
	g, err := game.New(game.Options{
		Config:     cfg,
		Archetypes: archetypes,
		Level:      level,
		Scripts:    scripts,
		Audio:      sound,
		Store:      store,
		Log:        log,
	})
	if err != nil {
		return fmt.Errorf("build game: %w", err)
	}

	// 8. Terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		g.Close()
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		g.Close()
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()

	renderer := term.NewRenderer(screen, g.Objects(), g.UI(), g.Menu(), g.Player())
	renderer.Subscribe(g.Bus())
	defer renderer.Close()
	g.AddSystem(coresys.Func{P: coresys.PhaseOutput, Fn: func(time.Duration) { renderer.Draw() }})
	keys := term.NewInput(g.Keys(), bindings, time.Now)

	// 9. Game loop
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Game.TickRate)
	defer ticker.Stop()

	log.Info("game loop started", zap.Duration("tick", cfg.Game.TickRate))
	last := time.Now()
loop:
	for !g.Done() {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				keys.HandleKey(ev)
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-ticker.C:
			g.Tick(now.Sub(last))
			last = now

		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			g.Quit()
			break loop
		}
	}

	// 10. Save and report
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Database.WriteTimeout)
	defer cancel()
	g.Shutdown(ctx)
	screen.Fini()

	hud := g.UI().HUD()
	printSection("Run")
	printStat("Level", level.Name)
	printStat("Stage", fmt.Sprint(hud.Stage))
	printStat("Score", fmt.Sprintf("%.0f", hud.Score))
	printStat("Pickups", fmt.Sprint(hud.Pickups))
	printStat("Time", g.State().Elapsed().Round(time.Millisecond).String())
	if runs != nil {
		best, err := runs.Best(ctx, level.Fingerprint, 5)
		if err != nil {
			log.Warn("load best runs", zap.Error(err))
		}
		if len(best) > 0 {
			printSection("Best runs")
			for _, r := range best {
				printStat(r.PlayerName, fmt.Sprintf("%.0f  %s", r.Score, r.Elapsed.Round(time.Millisecond)))
			}
		}
	}
	log.Info("game stopped", zap.Uint64("frames", g.Frames()))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}
