package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetLiftState retrieves the lift state for one exercise, including its full
// e1RM history. The second return is false when the exercise has never been
// attempted.
func (db *DB) GetLiftState(ctx context.Context, userID int, exerciseID string) (models.LiftState, bool, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT exercise_id, last_working_load, rolling_e1rm, failure_count,
		        last_deload_date, trend, last_session_date, success_streak
		 FROM lift_states
		 WHERE user_id = $1 AND exercise_id = $2`,
		userID, exerciseID)

	var s models.LiftState
	err := row.Scan(&s.ExerciseID, &s.LastWorkingLoad, &s.RollingE1RM, &s.FailureCount,
		&s.LastDeloadDate, &s.Trend, &s.LastSessionDate, &s.SuccessStreak)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewLiftState(exerciseID), false, nil
		}
		return models.LiftState{}, false, fmt.Errorf("querying lift state: %w", err)
	}

	history, err := db.GetE1RMHistory(ctx, userID, exerciseID, time.Time{})
	if err != nil {
		return models.LiftState{}, false, err
	}
	s.E1RMHistory = history
	return s, true, nil
}

// UpsertLiftState writes the lift state row and appends any e1RM samples not
// yet recorded. The history table is append-only; existing (date, value)
// rows are left untouched.
func (db *DB) UpsertLiftState(ctx context.Context, userID int, s models.LiftState) error {
	return upsertLiftState(ctx, db.Pool, userID, s)
}

func upsertLiftState(ctx context.Context, q executor, userID int, s models.LiftState) error {
	_, err := q.Exec(ctx,
		`INSERT INTO lift_states (user_id, exercise_id, last_working_load, rolling_e1rm,
		        failure_count, last_deload_date, trend, last_session_date, success_streak)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (user_id, exercise_id) DO UPDATE SET
		        last_working_load = EXCLUDED.last_working_load,
		        rolling_e1rm = EXCLUDED.rolling_e1rm,
		        failure_count = EXCLUDED.failure_count,
		        last_deload_date = EXCLUDED.last_deload_date,
		        trend = EXCLUDED.trend,
		        last_session_date = EXCLUDED.last_session_date,
		        success_streak = EXCLUDED.success_streak`,
		userID, s.ExerciseID, s.LastWorkingLoad, s.RollingE1RM,
		s.FailureCount, s.LastDeloadDate, s.Trend, s.LastSessionDate, s.SuccessStreak)
	if err != nil {
		return fmt.Errorf("upserting lift state: %w", err)
	}

	if len(s.E1RMHistory) > 0 {
		if _, err := appendE1RMSamples(ctx, q, userID, s.ExerciseID, s.E1RMHistory); err != nil {
			return err
		}
	}
	return nil
}

// AppendE1RMSamples batch-inserts e1RM samples. Returns count inserted;
// duplicates (same user, exercise, date) are skipped.
func (db *DB) AppendE1RMSamples(ctx context.Context, userID int, exerciseID string, samples []models.E1RMSample) (int64, error) {
	return appendE1RMSamples(ctx, db.Pool, userID, exerciseID, samples)
}

func appendE1RMSamples(ctx context.Context, q executor, userID int, exerciseID string, samples []models.E1RMSample) (int64, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	query := `INSERT INTO e1rm_history (user_id, exercise_id, date, value) VALUES `
	args := make([]any, 0, len(samples)*4)
	valueStrings := make([]string, 0, len(samples))
	for i, s := range samples {
		base := i * 4
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		args = append(args, userID, exerciseID, s.Date, s.Value)
	}
	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting e1rm samples: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetE1RMHistory retrieves e1RM samples for an exercise since the given time
// (zero time for everything), oldest first.
func (db *DB) GetE1RMHistory(ctx context.Context, userID int, exerciseID string, since time.Time) ([]models.E1RMSample, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date, value FROM e1rm_history
		 WHERE user_id = $1 AND exercise_id = $2 AND date >= $3
		 ORDER BY date ASC`,
		userID, exerciseID, since)
	if err != nil {
		return nil, fmt.Errorf("querying e1rm history: %w", err)
	}
	defer rows.Close()

	var samples []models.E1RMSample
	for rows.Next() {
		var s models.E1RMSample
		if err := rows.Scan(&s.Date, &s.Value); err != nil {
			return nil, fmt.Errorf("scanning e1rm sample: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// GetAllLiftStates retrieves every lift state for a user, keyed by exercise,
// with e1RM histories attached.
func (db *DB) GetAllLiftStates(ctx context.Context, userID int) (map[string]models.LiftState, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_id, last_working_load, rolling_e1rm, failure_count,
		        last_deload_date, trend, last_session_date, success_streak
		 FROM lift_states
		 WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying lift states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]models.LiftState)
	for rows.Next() {
		var s models.LiftState
		if err := rows.Scan(&s.ExerciseID, &s.LastWorkingLoad, &s.RollingE1RM, &s.FailureCount,
			&s.LastDeloadDate, &s.Trend, &s.LastSessionDate, &s.SuccessStreak); err != nil {
			return nil, fmt.Errorf("scanning lift state: %w", err)
		}
		states[s.ExerciseID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	histRows, err := db.Pool.Query(ctx,
		`SELECT exercise_id, date, value FROM e1rm_history
		 WHERE user_id = $1
		 ORDER BY exercise_id, date ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying e1rm histories: %w", err)
	}
	defer histRows.Close()

	for histRows.Next() {
		var exerciseID string
		var s models.E1RMSample
		if err := histRows.Scan(&exerciseID, &s.Date, &s.Value); err != nil {
			return nil, fmt.Errorf("scanning e1rm sample: %w", err)
		}
		if state, ok := states[exerciseID]; ok {
			state.E1RMHistory = append(state.E1RMHistory, s)
			states[exerciseID] = state
		}
	}
	return states, histRows.Err()
}
