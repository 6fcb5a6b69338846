package report

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/odrik/gauntlet/pkg/engine"
	gerrors "github.com/odrik/gauntlet/pkg/errors"
	"github.com/odrik/gauntlet/pkg/rating"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS evaluations (
	id TEXT PRIMARY KEY,
	params TEXT NOT NULL,
	total_games INTEGER NOT NULL,
	workers INTEGER NOT NULL,
	rounds_per_worker INTEGER NOT NULL,
	time_control TEXT NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	draws INTEGER NOT NULL,
	score REAL NOT NULL,
	score_error REAL NOT NULL,
	elo REAL NOT NULL,
	elo_error REAL NOT NULL,
	los REAL NOT NULL,
	created_at TIMESTAMP NOT NULL,
	completed_at TIMESTAMP
);
`

// Store persists completed evaluations. Only terminal results are written;
// in-flight state never touches the database.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed initializes) the evaluation database.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, gerrors.Wrap(err, gerrors.ErrCodeStorageWrite, "failed to create database directory").
				WithContext("path", path)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, gerrors.Wrap(err, gerrors.ErrCodeStorageRead, "failed to open database").
			WithContext("path", path)
	}

	// SQLite supports one writer at a time; WAL keeps readers unblocked.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, gerrors.Wrap(err, gerrors.ErrCodeStorageWrite, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, gerrors.Wrap(err, gerrors.ErrCodeStorageWrite, "failed to set busy timeout")
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, gerrors.Wrap(err, gerrors.ErrCodeStorageWrite, "failed to initialize schema")
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveEvaluation writes a completed evaluation and its statistics.
func (s *Store) SaveEvaluation(eval *Evaluation, result *rating.Statistics) error {
	if eval.ID == "" {
		eval.ID = ulid.Make().String()
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now()
	}

	params, err := json.Marshal(eval.Params)
	if err != nil {
		return gerrors.Wrap(err, gerrors.ErrCodeStorageWrite, "failed to marshal parameters")
	}

	_, err = s.db.Exec(`
		INSERT INTO evaluations (
			id, params, total_games, workers, rounds_per_worker, time_control,
			wins, losses, draws, score, score_error, elo, elo_error, los,
			created_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		eval.ID,
		string(params),
		eval.TotalGames,
		eval.Workers,
		eval.RoundsPerWorker,
		eval.TimeControl,
		result.Wins,
		result.Losses,
		result.Draws,
		result.Score,
		result.ScoreError,
		result.EloDelta,
		result.EloError,
		result.LOS,
		eval.CreatedAt,
		nullTime(eval.CompletedAt),
	)
	if err != nil {
		return gerrors.Wrap(err, gerrors.ErrCodeStorageWrite, "failed to save evaluation").
			WithContext("id", eval.ID)
	}
	return nil
}

// GetEvaluation loads one evaluation with its statistics.
func (s *Store) GetEvaluation(id string) (*Evaluation, *rating.Statistics, error) {
	row := s.db.QueryRow(`
		SELECT id, params, total_games, workers, rounds_per_worker, time_control,
			wins, losses, draws, score, score_error, elo, elo_error, los,
			created_at, completed_at
		FROM evaluations WHERE id = ?
	`, id)

	eval, result, err := scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, gerrors.Wrap(err, gerrors.ErrCodeStorageRead, "failed to load evaluation").
			WithContext("id", id)
	}
	return eval, result, nil
}

// ListEvaluations returns evaluations in reverse chronological order.
func (s *Store) ListEvaluations(limit int) ([]*Evaluation, []*rating.Statistics, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, params, total_games, workers, rounds_per_worker, time_control,
			wins, losses, draws, score, score_error, elo, elo_error, los,
			created_at, completed_at
		FROM evaluations ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, nil, gerrors.Wrap(err, gerrors.ErrCodeStorageRead, "failed to list evaluations")
	}
	defer rows.Close()

	var evals []*Evaluation
	var results []*rating.Statistics
	for rows.Next() {
		eval, result, err := scanEvaluation(rows)
		if err != nil {
			return nil, nil, gerrors.Wrap(err, gerrors.ErrCodeStorageRead, "failed to scan evaluation")
		}
		evals = append(evals, eval)
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, gerrors.Wrap(err, gerrors.ErrCodeStorageRead, "failed to iterate evaluations")
	}
	return evals, results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row rowScanner) (*Evaluation, *rating.Statistics, error) {
	var (
		eval        Evaluation
		result      rating.Statistics
		paramsJSON  string
		completedAt sql.NullTime
	)
	err := row.Scan(
		&eval.ID, &paramsJSON, &eval.TotalGames, &eval.Workers,
		&eval.RoundsPerWorker, &eval.TimeControl,
		&result.Wins, &result.Losses, &result.Draws,
		&result.Score, &result.ScoreError,
		&result.EloDelta, &result.EloError, &result.LOS,
		&eval.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, nil, err
	}

	eval.Params = engine.Params{}
	if err := json.Unmarshal([]byte(paramsJSON), &eval.Params); err != nil {
		return nil, nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		eval.CompletedAt = &t
	}
	result.Games = result.Wins + result.Losses + result.Draws

	return &eval, &result, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
