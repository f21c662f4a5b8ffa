package models

// Equipment categories for exercises.
type Equipment string

const (
	EquipmentBarbell    Equipment = "barbell"
	EquipmentDumbbell   Equipment = "dumbbell"
	EquipmentMachine    Equipment = "machine"
	EquipmentCable      Equipment = "cable"
	EquipmentKettlebell Equipment = "kettlebell"
	EquipmentBodyweight Equipment = "bodyweight"
)

// MuscleGroup identifies a trained muscle group.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleQuads      MuscleGroup = "quads"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleCore       MuscleGroup = "core"
)

// MovementPattern classifies the basic movement an exercise trains.
type MovementPattern string

const (
	PatternHorizontalPush MovementPattern = "horizontal_push"
	PatternHorizontalPull MovementPattern = "horizontal_pull"
	PatternVerticalPush   MovementPattern = "vertical_push"
	PatternVerticalPull   MovementPattern = "vertical_pull"
	PatternSquat          MovementPattern = "squat"
	PatternHinge          MovementPattern = "hinge"
	PatternLunge          MovementPattern = "lunge"
	PatternCarry          MovementPattern = "carry"
	PatternIsolation      MovementPattern = "isolation"
)

// Exercise is immutable reference data describing one movement.
type Exercise struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Equipment        Equipment       `json:"equipment"`
	PrimaryMuscles   []MuscleGroup   `json:"primary_muscles"`
	SecondaryMuscles []MuscleGroup   `json:"secondary_muscles,omitempty"`
	Pattern          MovementPattern `json:"pattern"`
}
