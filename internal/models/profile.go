package models

// ExperienceLevel is a user's training experience tier.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// Goal is a training goal.
type Goal string

const (
	GoalHypertrophy Goal = "hypertrophy"
	GoalStrength    Goal = "strength"
	GoalEndurance   Goal = "endurance"
	GoalGeneral     Goal = "general"
)

// Unit is the user's preferred load unit.
type Unit string

const (
	UnitPounds    Unit = "lb"
	UnitKilograms Unit = "kg"
)

const poundsPerKilogram = 2.2046226218

// RecoverySignals are optional self-reported recovery inputs.
type RecoverySignals struct {
	ProteinGrams *float64 `json:"protein_grams,omitempty"`
	SleepHours   *float64 `json:"sleep_hours,omitempty"`
}

// UserProfile describes the lifter the engine is deciding for.
type UserProfile struct {
	ID          int              `json:"id"`
	Sex         string           `json:"sex,omitempty"`
	Experience  ExperienceLevel  `json:"experience"`
	Goals       []Goal           `json:"goals,omitempty"`
	DaysPerWeek int              `json:"days_per_week"`
	Equipment   []Equipment      `json:"equipment,omitempty"`
	Unit        Unit             `json:"unit"`
	Bodyweight  float64          `json:"bodyweight"`
	Recovery    *RecoverySignals `json:"recovery,omitempty"`
}

// BodyweightKg returns body weight in kilograms regardless of preferred unit.
func (p UserProfile) BodyweightKg() float64 {
	if p.Unit == UnitPounds {
		return p.Bodyweight / poundsPerKilogram
	}
	return p.Bodyweight
}
