package storage

import (
	"context"
	"fmt"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

// GetProfile retrieves a user's profile.
func (db *DB) GetProfile(ctx context.Context, userID int) (models.UserProfile, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, sex, experience, goals, days_per_week, equipment, unit,
		        bodyweight, protein_grams, sleep_hours
		 FROM users WHERE id = $1`,
		userID)

	var p models.UserProfile
	var goals, equipment []string
	var protein, sleep *float64
	err := row.Scan(&p.ID, &p.Sex, &p.Experience, &goals, &p.DaysPerWeek, &equipment,
		&p.Unit, &p.Bodyweight, &protein, &sleep)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("querying profile: %w", err)
	}

	for _, g := range goals {
		p.Goals = append(p.Goals, models.Goal(g))
	}
	for _, e := range equipment {
		p.Equipment = append(p.Equipment, models.Equipment(e))
	}
	if protein != nil || sleep != nil {
		p.Recovery = &models.RecoverySignals{ProteinGrams: protein, SleepHours: sleep}
	}
	return p, nil
}

// UpsertProfile writes a user profile row.
func (db *DB) UpsertProfile(ctx context.Context, p models.UserProfile) error {
	goals := make([]string, len(p.Goals))
	for i, g := range p.Goals {
		goals[i] = string(g)
	}
	equipment := make([]string, len(p.Equipment))
	for i, e := range p.Equipment {
		equipment[i] = string(e)
	}
	var protein, sleep *float64
	if p.Recovery != nil {
		protein = p.Recovery.ProteinGrams
		sleep = p.Recovery.SleepHours
	}

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO users (id, sex, experience, goals, days_per_week, equipment, unit,
		        bodyweight, protein_grams, sleep_hours)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (id) DO UPDATE SET
		        sex = EXCLUDED.sex,
		        experience = EXCLUDED.experience,
		        goals = EXCLUDED.goals,
		        days_per_week = EXCLUDED.days_per_week,
		        equipment = EXCLUDED.equipment,
		        unit = EXCLUDED.unit,
		        bodyweight = EXCLUDED.bodyweight,
		        protein_grams = EXCLUDED.protein_grams,
		        sleep_hours = EXCLUDED.sleep_hours`,
		p.ID, p.Sex, p.Experience, goals, p.DaysPerWeek, equipment, p.Unit,
		p.Bodyweight, protein, sleep)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}
