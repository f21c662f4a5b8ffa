package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

// QueryReadiness retrieves readiness scores in a time range, oldest first.
func (db *DB) QueryReadiness(ctx context.Context, start, end time.Time, userID int) ([]models.ReadinessEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date, score FROM readiness_log
		 WHERE user_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date ASC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying readiness: %w", err)
	}
	defer rows.Close()

	var entries []models.ReadinessEntry
	for rows.Next() {
		var e models.ReadinessEntry
		if err := rows.Scan(&e.Date, &e.Score); err != nil {
			return nil, fmt.Errorf("scanning readiness: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetDailyVolume returns total tonnage (load x reps over completed sets) per
// ISO date in the range.
func (db *DB) GetDailyVolume(ctx context.Context, start, end time.Time, userID int) (map[string]float64, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT s.date::date, COALESCE(SUM(ss.load * ss.reps), 0)
		 FROM session_sets ss
		 JOIN sessions s ON s.id = ss.session_id
		 WHERE s.date >= $1 AND s.date < $2 AND ss.user_id = $3 AND ss.completed
		 GROUP BY s.date::date
		 ORDER BY s.date::date ASC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying daily volume: %w", err)
	}
	defer rows.Close()

	volume := make(map[string]float64)
	for rows.Next() {
		var day time.Time
		var tonnage float64
		if err := rows.Scan(&day, &tonnage); err != nil {
			return nil, fmt.Errorf("scanning daily volume: %w", err)
		}
		volume[day.Format("2006-01-02")] = tonnage
	}
	return volume, rows.Err()
}
