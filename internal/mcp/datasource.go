package mcp

import (
	"context"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
	"github.com/Rahulvijayan123/workout-sub002/internal/storage"
)

// DataSource abstracts the data layer for MCP tools so handlers can be
// exercised without a live database.
type DataSource interface {
	GetProfile(ctx context.Context, userID int) (models.UserProfile, error)
	GetExercise(ctx context.Context, id string) (models.Exercise, bool, error)
	GetExercises(ctx context.Context, ids []string) ([]models.Exercise, error)
	GetLiftState(ctx context.Context, userID int, exerciseID string) (models.LiftState, bool, error)
	GetE1RMHistory(ctx context.Context, userID int, exerciseID string, since time.Time) ([]models.E1RMSample, error)
	QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]models.CompletedSession, error)
	LoadHistory(ctx context.Context, userID int, now time.Time) (models.WorkoutHistory, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
