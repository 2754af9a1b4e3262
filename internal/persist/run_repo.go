package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// RunRow is one finished run.
type RunRow struct {
	ID          int64
	PlayerName  string
	LevelName   string
	Fingerprint string // blake2b of the level data the run was played on
	Outcome     string // "win", "lose" or "quit"
	Score       float64
	Lives       int
	Stage       int
	Pickups     int
	Elapsed     time.Duration
	FinishedAt  time.Time
	Splits      []StageSplit
}

// StageSplit is the run time at which a stage was reached.
type StageSplit struct {
	Stage   int
	Elapsed time.Duration
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Save writes the run and its splits in one transaction and sets row.ID.
func (r *RunRepo) Save(ctx context.Context, row *RunRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("run begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO runs (player_name, level_name, fingerprint, outcome, score,
		                   lives, stage, pickups, elapsed_ms, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		row.PlayerName, row.LevelName, row.Fingerprint, row.Outcome, row.Score,
		row.Lives, row.Stage, row.Pickups, row.Elapsed.Milliseconds(), row.FinishedAt,
	).Scan(&row.ID); err != nil {
		return fmt.Errorf("run insert: %w", err)
	}

	for _, s := range row.Splits {
		if _, err := tx.Exec(ctx,
			`INSERT INTO run_splits (run_id, stage, elapsed_ms) VALUES ($1, $2, $3)`,
			row.ID, s.Stage, s.Elapsed.Milliseconds(),
		); err != nil {
			return fmt.Errorf("split insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Best returns the highest-scoring winning runs on a level, fastest first
// among equal scores.
func (r *RunRepo) Best(ctx context.Context, fingerprint string, limit int) ([]RunRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, player_name, level_name, fingerprint, outcome, score,
		        lives, stage, pickups, elapsed_ms, finished_at
		 FROM runs
		 WHERE fingerprint = $1 AND outcome = 'win'
		 ORDER BY score DESC, elapsed_ms ASC
		 LIMIT $2`, fingerprint, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunRow
	for rows.Next() {
		row, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *row)
	}
	return result, rows.Err()
}

// Latest returns the player's most recent run, or nil if there is none.
func (r *RunRepo) Latest(ctx context.Context, playerName string) (*RunRow, error) {
	row, err := scanRun(r.db.Pool.QueryRow(ctx,
		`SELECT id, player_name, level_name, fingerprint, outcome, score,
		        lives, stage, pickups, elapsed_ms, finished_at
		 FROM runs WHERE player_name = $1
		 ORDER BY finished_at DESC LIMIT 1`, playerName,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func scanRun(s pgx.Row) (*RunRow, error) {
	row := &RunRow{}
	var elapsedMs int64
	if err := s.Scan(
		&row.ID, &row.PlayerName, &row.LevelName, &row.Fingerprint, &row.Outcome, &row.Score,
		&row.Lives, &row.Stage, &row.Pickups, &elapsedMs, &row.FinishedAt,
	); err != nil {
		return nil, err
	}
	row.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return row, nil
}
