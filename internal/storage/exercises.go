package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetExercise retrieves one exercise by ID. The second return is false when
// the exercise is unknown.
func (db *DB) GetExercise(ctx context.Context, id string) (models.Exercise, bool, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, name, equipment, pattern, primary_muscles, secondary_muscles
		 FROM exercises WHERE id = $1`,
		id)

	ex, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Exercise{}, false, nil
		}
		return models.Exercise{}, false, fmt.Errorf("querying exercise: %w", err)
	}
	return ex, true, nil
}

// GetExercises retrieves several exercises by ID, preserving the input order
// and silently skipping unknown IDs.
func (db *DB) GetExercises(ctx context.Context, ids []string) ([]models.Exercise, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, equipment, pattern, primary_muscles, secondary_muscles
		 FROM exercises WHERE id = ANY($1)`,
		ids)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]models.Exercise)
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		byID[ex.ID] = ex
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []models.Exercise
	for _, id := range ids {
		if ex, ok := byID[id]; ok {
			out = append(out, ex)
		}
	}
	return out, nil
}

// UpsertExercise writes exercise reference data.
func (db *DB) UpsertExercise(ctx context.Context, ex models.Exercise) error {
	primary := make([]string, len(ex.PrimaryMuscles))
	for i, m := range ex.PrimaryMuscles {
		primary[i] = string(m)
	}
	secondary := make([]string, len(ex.SecondaryMuscles))
	for i, m := range ex.SecondaryMuscles {
		secondary[i] = string(m)
	}

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercises (id, name, equipment, pattern, primary_muscles, secondary_muscles)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET
		        name = EXCLUDED.name,
		        equipment = EXCLUDED.equipment,
		        pattern = EXCLUDED.pattern,
		        primary_muscles = EXCLUDED.primary_muscles,
		        secondary_muscles = EXCLUDED.secondary_muscles`,
		ex.ID, ex.Name, ex.Equipment, ex.Pattern, primary, secondary)
	if err != nil {
		return fmt.Errorf("upserting exercise: %w", err)
	}
	return nil
}

func scanExercise(row pgx.Row) (models.Exercise, error) {
	var ex models.Exercise
	var primary, secondary []string
	if err := row.Scan(&ex.ID, &ex.Name, &ex.Equipment, &ex.Pattern, &primary, &secondary); err != nil {
		return models.Exercise{}, err
	}
	for _, m := range primary {
		ex.PrimaryMuscles = append(ex.PrimaryMuscles, models.MuscleGroup(m))
	}
	for _, m := range secondary {
		ex.SecondaryMuscles = append(ex.SecondaryMuscles, models.MuscleGroup(m))
	}
	return ex, nil
}
