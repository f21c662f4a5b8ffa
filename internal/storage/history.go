package storage

import (
	"context"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

// historyLookbackDays bounds how much history is assembled for an engine
// evaluation. Six months comfortably covers every trailing window the engine
// looks at.
const historyLookbackDays = 183

// LoadHistory assembles the WorkoutHistory the engine consumes: recent
// sessions oldest-first, every lift state with its e1RM history, the
// readiness log, and daily training volume.
func (db *DB) LoadHistory(ctx context.Context, userID int, now time.Time) (models.WorkoutHistory, error) {
	start := now.AddDate(0, 0, -historyLookbackDays)
	end := now.AddDate(0, 0, 1)

	sessions, err := db.QuerySessions(ctx, start, end, userID)
	if err != nil {
		return models.WorkoutHistory{}, err
	}
	states, err := db.GetAllLiftStates(ctx, userID)
	if err != nil {
		return models.WorkoutHistory{}, err
	}
	readiness, err := db.QueryReadiness(ctx, start, end, userID)
	if err != nil {
		return models.WorkoutHistory{}, err
	}
	volume, err := db.GetDailyVolume(ctx, start, end, userID)
	if err != nil {
		return models.WorkoutHistory{}, err
	}

	return models.WorkoutHistory{
		Sessions:     sessions,
		LiftStates:   states,
		ReadinessLog: readiness,
		DailyVolume:  volume,
	}, nil
}
