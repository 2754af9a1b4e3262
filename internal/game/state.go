package game

import (
	"time"

	"github.com/blockrun/game/internal/core/event"
	"go.uber.org/zap"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeQuit Outcome = "quit"
)

// RunResult summarizes one finished run.
type RunResult struct {
	Outcome    Outcome
	Score      float32
	Lives      int
	Stage      int
	Pickups    int
	Elapsed    time.Duration
	Splits     map[int]time.Duration // stage -> run time when first reached
	FinishedAt time.Time
}

// StateManager follows a run through Player and Menu events and produces a
// RunResult when it ends. Play time only advances through Advance, which the
// game calls for unpaused frames.
type StateManager struct {
	lives   int
	stage   int
	score   float32
	pickups int
	elapsed time.Duration
	splits  map[int]time.Duration

	finished bool
	results  []RunResult
	now      func() time.Time

	subs event.Group
	log  *zap.Logger
}

func NewStateManager(lives int, now func() time.Time, log *zap.Logger) *StateManager {
	if now == nil {
		now = time.Now
	}
	return &StateManager{
		lives:  lives,
		stage:  1,
		splits: make(map[int]time.Duration),
		now:    now,
		log:    log,
	}
}

func (s *StateManager) Elapsed() time.Duration { return s.elapsed }
func (s *StateManager) Stage() int             { return s.stage }
func (s *StateManager) Finished() bool         { return s.finished }

// Advance adds play time while the run is live.
func (s *StateManager) Advance(dt time.Duration) {
	if !s.finished {
		s.elapsed += dt
	}
}

// Finish ends the run with outcome. Only the first call records a result.
func (s *StateManager) Finish(o Outcome) {
	if s.finished {
		return
	}
	s.finished = true
	splits := make(map[int]time.Duration, len(s.splits))
	for k, v := range s.splits {
		splits[k] = v
	}
	r := RunResult{
		Outcome:    o,
		Score:      s.score,
		Lives:      s.lives,
		Stage:      s.stage,
		Pickups:    s.pickups,
		Elapsed:    s.elapsed,
		Splits:     splits,
		FinishedAt: s.now(),
	}
	s.results = append(s.results, r)
	s.log.Info("run finished",
		zap.String("outcome", string(o)),
		zap.Float32("score", r.Score),
		zap.Int("stage", r.Stage),
		zap.Duration("elapsed", r.Elapsed))
}

// Drain returns and forgets the finished runs.
func (s *StateManager) Drain() []RunResult {
	out := s.results
	s.results = nil
	return out
}

func (s *StateManager) Subscribe(bus *event.Bus) {
	s.subs.Subscribe(bus, event.CategoryPlayer, s.handlePlayer)
	s.subs.Subscribe(bus, event.CategoryMenu, s.handleMenu)
}

func (s *StateManager) Close() { s.subs.Cancel() }

func (s *StateManager) handlePlayer(d event.Data) {
	switch d.Action {
	case event.OnLivesChanged:
		if n, ok := d.IntParam(0); ok {
			s.lives = n
		}
	case event.OnScoreChanged:
		if v, ok := d.FloatParam(0); ok {
			s.score = v
		}
	case event.OnPickup:
		s.pickups++
	case event.OnStageChange:
		n, ok := d.IntParam(0)
		if !ok {
			return
		}
		s.stage = n
		if _, seen := s.splits[n]; !seen {
			s.splits[n] = s.elapsed
		}
	}
}

func (s *StateManager) handleMenu(d event.Data) {
	switch d.Action {
	case event.OnWin:
		s.Finish(OutcomeWin)
	case event.OnLose:
		s.Finish(OutcomeLose)
	}
}
