package program

import (
	"time"

	"github.com/google/uuid"
)

// Exercise phases form a closed enumeration matching the exercise_phase
// database enum.
const (
	PhaseIsometric  = "isometric"
	PhaseConcentric = "concentric"
	PhaseEccentric  = "eccentric"
	PhasePlyometric = "plyometric"
)

// Field bounds enforced on every persisted exercise row.
const (
	MinSets       = 1
	MaxSets       = 10
	MinReps       = 1
	MaxReps       = 50
	MinDifficulty = 1
	MaxDifficulty = 10
	MinPainLevel  = 1
	MaxPainLevel  = 10
)

// Program maps to the programs table: the week-level record tying a patient
// to a date range and optional notes.
type Program struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	ProgramStartDate time.Time `db:"program_start_date" json:"program_start_date"`
	ProgramEndDate   time.Time `db:"program_end_date" json:"program_end_date"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// ProgramExercise maps to the program_exercises table. Every row is owned by
// exactly one Program and satisfies the field bounds above.
type ProgramExercise struct {
	ID              uuid.UUID `db:"id" json:"id"`
	ProgramID       uuid.UUID `db:"program_id" json:"program_id"`
	ExerciseName    string    `db:"exercise_name" json:"exercise_name"`
	Sets            int       `db:"sets" json:"sets"`
	Reps            int       `db:"reps" json:"reps"`
	Phase           string    `db:"phase" json:"phase"`
	DifficultyLevel int       `db:"difficulty_level" json:"difficulty_level"`
	PainLevel       int       `db:"pain_level" json:"pain_level"`
	VideoLink       *string   `db:"video_link" json:"video_link,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ExerciseDraft is an exercise as produced by the generator (or supplied by a
// caller) before sanitization. Its fields carry no guarantees; the persister
// sanitizes every draft into an ExerciseRow before it reaches storage.
type ExerciseDraft struct {
	Name       string  `json:"name"`
	Sets       int     `json:"sets"`
	Reps       int     `json:"reps"`
	Phase      string  `json:"phase"`
	Difficulty int     `json:"difficulty"`
	PainLevel  int     `json:"pain_level"`
	Source     string  `json:"source"`
	VideoLink  *string `json:"video_link,omitempty"`
}

// ExerciseRow is a sanitized exercise guaranteed to satisfy the storage
// constraints. It deliberately carries no storage identifiers so the
// sanitizer stays independent of the persistence schema.
type ExerciseRow struct {
	ExerciseName    string
	Sets            int
	Reps            int
	Phase           string
	DifficultyLevel int
	PainLevel       int
	VideoLink       *string
}

// RehabDay is one day of a generated weekly plan.
type RehabDay struct {
	DayNumber                 int             `json:"day_number"`
	Date                      time.Time       `json:"date"`
	Exercises                 []ExerciseDraft `json:"exercises"`
	HasPhysiotherapistSession bool            `json:"has_physiotherapist_session"`
}

// GeneratedProgram is the in-memory weekly plan returned by the generator.
// It is ephemeral: either fully translated to rows by Save or discarded.
type GeneratedProgram struct {
	Summary     string     `json:"summary"`
	WeeklyGoals []string   `json:"weekly_goals"`
	Days        []RehabDay `json:"days"`
}

// ProgramWithExercises bundles a program header with its exercise rows.
type ProgramWithExercises struct {
	Program   *Program           `json:"program"`
	Exercises []*ProgramExercise `json:"exercises"`
}

// SameCalendarDay reports whether two timestamps fall on the same calendar
// date, ignoring time-of-day and normalizing to UTC.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
