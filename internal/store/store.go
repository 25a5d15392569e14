// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typesprint/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for results and the best score.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			duration INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			incorrect_chars INTEGER NOT NULL,
			total_chars INTEGER NOT NULL,
			time_taken REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS result_char_stats (
			result_id TEXT NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			PRIMARY KEY (result_id, char)
		);`,
		`CREATE TABLE IF NOT EXISTS best (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			wpm REAL NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_ended_at ON results(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// BestWPM returns the stored best score, or 0 when none was recorded.
func (s *Store) BestWPM(ctx context.Context) (float64, error) {
	var wpm float64
	err := s.db.QueryRowContext(ctx, `SELECT wpm FROM best WHERE id = 1`).Scan(&wpm)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return wpm, nil
}

// SaveBestWPM stores wpm when it is strictly greater than the current best.
// It reports whether the stored value changed.
func (s *Store) SaveBestWPM(ctx context.Context, wpm float64) (bool, error) {
	if wpm <= 0 {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO best (id, wpm, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET wpm = excluded.wpm, updated_at = excluded.updated_at
		 WHERE excluded.wpm > best.wpm`,
		wpm, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertResult stores a finished test and its per-character tallies and
// returns the generated id.
func (s *Store) InsertResult(ctx context.Context, rec model.ResultRecord, chars []model.CharStats) (id string, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	id = rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	r := rec.Results
	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (id, started_at, ended_at, mode, duration, wpm, accuracy, correct_chars, incorrect_chars, total_chars, time_taken)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		string(rec.Mode),
		rec.Duration,
		r.WPM,
		r.Accuracy,
		r.CorrectChars,
		r.IncorrectChars,
		r.TotalChars,
		r.TimeTaken,
	)
	if err != nil {
		return "", err
	}

	if len(chars) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO result_char_stats (result_id, char, correct, incorrect) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range chars {
			if _, err = stmt.ExecContext(ctx, id, cs.Char, cs.Correct, cs.Incorrect); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// ListResults returns stored results, oldest first, filtered by f.
func (s *Store) ListResults(ctx context.Context, f model.HistoryFilter) ([]model.ResultRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, string(f.Mode))
	}
	if f.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, f.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, mode, duration, wpm, accuracy, correct_chars, incorrect_chars, total_chars, time_taken
		FROM results
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.ResultRecord
	for rows.Next() {
		var rec model.ResultRecord
		var startedAt, endedAt, mode string
		r := &rec.Results
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &mode, &rec.Duration,
			&r.WPM, &r.Accuracy, &r.CorrectChars, &r.IncorrectChars, &r.TotalChars, &r.TimeTaken); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		rec.Mode = model.TestMode(mode)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if f.Last > 0 && len(records) > f.Last {
		records = records[len(records)-f.Last:]
	}
	return records, nil
}

// ListCharAggregates sums per-character tallies across the given results.
func (s *Store) ListCharAggregates(ctx context.Context, resultIDs []string) ([]model.CharAggregate, error) {
	if len(resultIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(resultIDs))
	args := make([]any, len(resultIDs))
	for i, id := range resultIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(correct) AS correct, SUM(incorrect) AS incorrect
		FROM result_char_stats
		WHERE result_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
