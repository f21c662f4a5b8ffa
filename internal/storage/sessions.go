package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
	"github.com/google/uuid"
)

// RecordSession inserts a completed session with its exercise results and set
// rows, and writes the updated lift states produced by scoring it, all in one
// transaction. A mid-write failure leaves neither the session nor any state
// behind, so the caller can retry with the same session ID. Returns false
// without writing anything when the session ID already exists. A nil states
// map records the session alone.
func (db *DB) RecordSession(ctx context.Context, userID int, s models.CompletedSession, states map[string]models.LiftState) (bool, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted, err := insertSession(ctx, tx, userID, s)
	if err != nil || !inserted {
		return false, err
	}

	// Sorted for a stable lock order when concurrent sessions share lifts.
	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := upsertLiftState(ctx, tx, userID, states[id]); err != nil {
			return false, fmt.Errorf("persisting lift state for %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing session: %w", err)
	}
	return true, nil
}

func insertSession(ctx context.Context, q executor, userID int, s models.CompletedSession) (bool, error) {
	tag, err := q.Exec(ctx,
		`INSERT INTO sessions (id, user_id, date, template_id, name, started_at, ended_at, is_deload, readiness)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT DO NOTHING`,
		s.ID, userID, s.Date, s.TemplateID, s.Name, s.StartedAt, s.EndedAt, s.IsDeload, s.Readiness)
	if err != nil {
		return false, fmt.Errorf("inserting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	for _, res := range s.Exercises {
		prescription, err := json.Marshal(res.Prescription)
		if err != nil {
			return false, fmt.Errorf("encoding prescription: %w", err)
		}
		var prior []byte
		if snap, ok := s.PriorStates[res.ExerciseID]; ok {
			if prior, err = json.Marshal(snap); err != nil {
				return false, fmt.Errorf("encoding prior state: %w", err)
			}
		}
		_, err = q.Exec(ctx,
			`INSERT INTO session_exercises (session_id, user_id, exercise_id, position, prescription, prior_state)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 ON CONFLICT DO NOTHING`,
			s.ID, userID, res.ExerciseID, res.Position, prescription, prior)
		if err != nil {
			return false, fmt.Errorf("inserting session exercise: %w", err)
		}

		if len(res.Sets) > 0 {
			query := `INSERT INTO session_sets (session_id, user_id, exercise_id, set_index, reps, load, rir, completed) VALUES `
			args := make([]any, 0, len(res.Sets)*8)
			valueStrings := make([]string, 0, len(res.Sets))
			for i, set := range res.Sets {
				base := i * 8
				valueStrings = append(valueStrings, fmt.Sprintf(
					"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
					base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
				))
				args = append(args, s.ID, userID, res.ExerciseID, i, set.Reps, set.Load, set.RIR, set.Completed)
			}
			query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"
			if _, err := q.Exec(ctx, query, args...); err != nil {
				return false, fmt.Errorf("inserting session sets: %w", err)
			}
		}
	}

	if s.Readiness > 0 {
		_, err = q.Exec(ctx,
			`INSERT INTO readiness_log (user_id, date, score) VALUES ($1,$2,$3)
			 ON CONFLICT DO NOTHING`,
			userID, s.Date, s.Readiness)
		if err != nil {
			return false, fmt.Errorf("inserting readiness: %w", err)
		}
	}
	return true, nil
}

type sessionExerciseRow struct {
	SessionID    uuid.UUID
	ExerciseID   string
	Position     int
	Prescription []byte
	PriorState   []byte
}

type sessionSetRow struct {
	SessionID  uuid.UUID
	ExerciseID string
	SetIndex   int
	Set        models.SetResult
}

// QuerySessions retrieves completed sessions in a time range, oldest first,
// with their exercise results and sets attached.
func (db *DB) QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]models.CompletedSession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, template_id, name, started_at, ended_at, is_deload, readiness
		 FROM sessions
		 WHERE date >= $1 AND date < $2 AND user_id = $3
		 ORDER BY date ASC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.CompletedSession
	for rows.Next() {
		var s models.CompletedSession
		if err := rows.Scan(&s.ID, &s.Date, &s.TemplateID, &s.Name, &s.StartedAt, &s.EndedAt, &s.IsDeload, &s.Readiness); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT se.session_id, se.exercise_id, se.position, se.prescription, se.prior_state
		 FROM session_exercises se
		 JOIN sessions s ON s.id = se.session_id
		 WHERE s.date >= $1 AND s.date < $2 AND se.user_id = $3`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying session exercises: %w", err)
	}
	defer exRows.Close()

	var exercises []sessionExerciseRow
	for exRows.Next() {
		var r sessionExerciseRow
		if err := exRows.Scan(&r.SessionID, &r.ExerciseID, &r.Position, &r.Prescription, &r.PriorState); err != nil {
			return nil, fmt.Errorf("scanning session exercise: %w", err)
		}
		exercises = append(exercises, r)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT ss.session_id, ss.exercise_id, ss.set_index, ss.reps, ss.load, ss.rir, ss.completed
		 FROM session_sets ss
		 JOIN sessions s ON s.id = ss.session_id
		 WHERE s.date >= $1 AND s.date < $2 AND ss.user_id = $3
		 ORDER BY ss.set_index ASC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying session sets: %w", err)
	}
	defer setRows.Close()

	var sets []sessionSetRow
	for setRows.Next() {
		var r sessionSetRow
		if err := setRows.Scan(&r.SessionID, &r.ExerciseID, &r.SetIndex, &r.Set.Reps, &r.Set.Load, &r.Set.RIR, &r.Set.Completed); err != nil {
			return nil, fmt.Errorf("scanning session set: %w", err)
		}
		sets = append(sets, r)
	}
	if err := setRows.Err(); err != nil {
		return nil, err
	}

	return stitchSessions(sessions, exercises, sets)
}

// stitchSessions attaches exercise results and set rows to their sessions,
// keeping exercises in session order and sets in set-index order.
func stitchSessions(sessions []models.CompletedSession, exercises []sessionExerciseRow, sets []sessionSetRow) ([]models.CompletedSession, error) {
	type key struct {
		session  uuid.UUID
		exercise string
	}

	setsByExercise := make(map[key][]sessionSetRow)
	for _, r := range sets {
		k := key{r.SessionID, r.ExerciseID}
		setsByExercise[k] = append(setsByExercise[k], r)
	}

	resultsBySession := make(map[uuid.UUID][]models.ExerciseSessionResult)
	priorBySession := make(map[uuid.UUID]map[string]models.LiftState)
	for _, r := range exercises {
		res := models.ExerciseSessionResult{
			ExerciseID: r.ExerciseID,
			Position:   r.Position,
		}
		if err := json.Unmarshal(r.Prescription, &res.Prescription); err != nil {
			return nil, fmt.Errorf("decoding prescription for %s: %w", r.ExerciseID, err)
		}
		if len(r.PriorState) > 0 {
			var prior models.LiftState
			if err := json.Unmarshal(r.PriorState, &prior); err != nil {
				return nil, fmt.Errorf("decoding prior state for %s: %w", r.ExerciseID, err)
			}
			if priorBySession[r.SessionID] == nil {
				priorBySession[r.SessionID] = make(map[string]models.LiftState)
			}
			priorBySession[r.SessionID][r.ExerciseID] = prior
		}
		for _, sr := range setsByExercise[key{r.SessionID, r.ExerciseID}] {
			res.Sets = append(res.Sets, sr.Set)
		}
		resultsBySession[r.SessionID] = append(resultsBySession[r.SessionID], res)
	}

	for i := range sessions {
		results := resultsBySession[sessions[i].ID]
		sort.Slice(results, func(a, b int) bool { return results[a].Position < results[b].Position })
		sessions[i].Exercises = results
		sessions[i].PriorStates = priorBySession[sessions[i].ID]
	}
	return sessions, nil
}
