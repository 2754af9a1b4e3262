package game

import (
	"context"
	"sort"
	"time"

	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/core/event"
	coresys "github.com/blockrun/game/internal/core/system"
	"github.com/blockrun/game/internal/input"
	"github.com/blockrun/game/internal/persist"
	"github.com/blockrun/game/internal/scene"
	"github.com/blockrun/game/internal/ui"
	"go.uber.org/zap"
)

// VolumeStep is the change applied by the volume hotkeys.
const VolumeStep = 0.1

// ── Input ──

// InputSystem snapshots the keyboard and turns global hotkeys into events.
// Phase 0 (Input).
type InputSystem struct {
	keys    *input.Keyboard
	bus     *event.Bus
	menu    *ui.Menu
	now     func() time.Time
	restore restoreColor
	quit    func()
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	s.keys.Update(s.now())
	first := s.keys.IsFirstKeyPress

	if first(input.KeyQuit) {
		s.quit()
		return
	}
	if first(input.KeyPause) && !s.menu.Visible() {
		s.bus.Publish(event.New(event.CategoryMenu, event.OnPause))
		s.bus.Publish(event.New(event.CategorySound, event.OnPause))
	}
	if first(input.KeyPlay) && s.menu.Visible() && !s.menu.Terminal() {
		s.bus.Publish(event.New(event.CategoryMenu, event.OnPlay))
		s.bus.Publish(event.New(event.CategorySound, event.OnResume))
	}
	if first(input.KeyRestore) {
		s.bus.Publish(event.NewCommand(event.CategoryObject, event.OnApplyActionToFirstMatchActor, s.restore))
	}
	if first(input.KeyHealthUp) {
		s.bus.Publish(event.New(event.CategoryUI, event.OnHealthDelta, 1))
	}
	if first(input.KeyHealthDown) {
		s.bus.Publish(event.New(event.CategoryUI, event.OnHealthDelta, -1))
	}
	if first(input.KeyMute) {
		s.bus.Publish(event.New(event.CategorySound, event.OnMute))
	}
	if first(input.KeyVolumeUp) {
		s.bus.Publish(event.New(event.CategorySound, event.OnVolumeDelta, VolumeStep))
	}
	if first(input.KeyVolumeDown) {
		s.bus.Publish(event.New(event.CategorySound, event.OnVolumeDelta, -VolumeStep))
	}
	if first(input.KeyCamera) {
		s.bus.Publish(event.New(event.CategoryCamera, event.OnCameraCycle))
	}
}

// ── Simulation ──

// ObjectSystem advances the 3D actors and the run clock. Simulated time only
// moves while the object manager is not paused. Phase 2 (Update).
type ObjectSystem struct {
	objects *scene.ObjectManager
	state   *StateManager
	total   time.Duration
	onFrame func(actor.Frame)
}

func (s *ObjectSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ObjectSystem) Update(dt time.Duration) {
	if s.objects.Paused() {
		s.objects.ApplyUpdate(actor.Frame{Total: s.total})
		return
	}
	s.total += dt
	f := actor.Frame{Elapsed: dt, Total: s.total}
	s.objects.ApplyUpdate(f)
	s.state.Advance(dt)
	if s.onFrame != nil {
		s.onFrame(f)
	}
}

// Total is the simulated time so far.
func (s *ObjectSystem) Total() time.Duration { return s.total }

// UISystem updates UI actors every frame, paused or not. Phase 3 (PostUpdate).
type UISystem struct {
	ui    *ui.Manager
	total time.Duration
}

func (s *UISystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *UISystem) Update(dt time.Duration) {
	s.total += dt
	s.ui.ApplyUpdate(actor.Frame{Elapsed: dt, Total: s.total})
}

// ── Persistence ──

// RunStore saves finished runs.
type RunStore interface {
	Save(ctx context.Context, row *persist.RunRow) error
}

// PersistenceSystem collects finished runs and writes them to the store.
// Failed writes are retried every interval ticks. With no store, results
// are only logged. Phase 5 (Persist).
type PersistenceSystem struct {
	state       *StateManager
	store       RunStore
	player      string
	levelName   string
	fingerprint string
	timeout     time.Duration
	interval    int
	tickCount   int
	pending     []*persist.RunRow
	log         *zap.Logger
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	for _, r := range s.state.Drain() {
		s.pending = append(s.pending, s.toRow(r))
		s.tickCount = s.interval // write new results right away
	}
	if len(s.pending) == 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.flush(context.Background())
}

// Pending is the number of runs not yet written.
func (s *PersistenceSystem) Pending() int { return len(s.pending) }

// SaveAll drains the state manager and writes everything now. Called on
// shutdown.
func (s *PersistenceSystem) SaveAll(ctx context.Context) {
	for _, r := range s.state.Drain() {
		s.pending = append(s.pending, s.toRow(r))
	}
	s.flush(ctx)
}

func (s *PersistenceSystem) flush(parent context.Context) {
	if s.store == nil {
		for _, row := range s.pending {
			s.log.Info("run result (not stored)",
				zap.String("outcome", row.Outcome),
				zap.Float64("score", row.Score),
				zap.Duration("elapsed", row.Elapsed))
		}
		s.pending = s.pending[:0]
		return
	}
	kept := s.pending[:0]
	for _, row := range s.pending {
		ctx, cancel := context.WithTimeout(parent, s.timeout)
		err := s.store.Save(ctx, row)
		cancel()
		if err != nil {
			s.log.Error("save run failed", zap.String("player", row.PlayerName), zap.Error(err))
			kept = append(kept, row)
			continue
		}
		s.log.Info("run saved", zap.Int64("id", row.ID), zap.String("outcome", row.Outcome))
	}
	clear(s.pending[len(kept):])
	s.pending = kept
}

func (s *PersistenceSystem) toRow(r RunResult) *persist.RunRow {
	row := &persist.RunRow{
		PlayerName:  s.player,
		LevelName:   s.levelName,
		Fingerprint: s.fingerprint,
		Outcome:     string(r.Outcome),
		Score:       float64(r.Score),
		Lives:       r.Lives,
		Stage:       r.Stage,
		Pickups:     r.Pickups,
		Elapsed:     r.Elapsed,
		FinishedAt:  r.FinishedAt,
	}
	for stage, at := range r.Splits {
		row.Splits = append(row.Splits, persist.StageSplit{Stage: stage, Elapsed: at})
	}
	sort.Slice(row.Splits, func(i, j int) bool { return row.Splits[i].Stage < row.Splits[j].Stage })
	return row
}
