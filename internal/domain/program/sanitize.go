package program

import (
	"fmt"
	"strings"
)

// FallbackExerciseName is substituted when a draft arrives with a blank name.
const FallbackExerciseName = "Γενική άσκηση"

// Fallback constants applied when a draft field is absent or out of range.
const (
	fallbackSets       = 2
	fallbackReps       = 10
	fallbackPhase      = PhaseIsometric
	fallbackDifficulty = 1
	fallbackPainLevel  = 1
)

var validPhases = map[string]bool{
	PhaseIsometric:  true,
	PhaseConcentric: true,
	PhaseEccentric:  true,
	PhasePlyometric: true,
}

// SanitizeExercise transforms a draft into a row guaranteed to satisfy the
// storage constraints. Out-of-range values fall back to defaults rather than
// being rejected; a draft can therefore never fail to sanitize.
func SanitizeExercise(d ExerciseDraft) ExerciseRow {
	row := ExerciseRow{
		ExerciseName:    strings.TrimSpace(d.Name),
		Sets:            d.Sets,
		Reps:            d.Reps,
		Phase:           strings.ToLower(strings.TrimSpace(d.Phase)),
		DifficultyLevel: d.Difficulty,
		PainLevel:       d.PainLevel,
		VideoLink:       d.VideoLink,
	}

	if row.ExerciseName == "" {
		row.ExerciseName = FallbackExerciseName
	}
	if row.Sets < MinSets || row.Sets > MaxSets {
		row.Sets = fallbackSets
	}
	if row.Reps < MinReps || row.Reps > MaxReps {
		row.Reps = fallbackReps
	}
	if !validPhases[row.Phase] {
		row.Phase = fallbackPhase
	}
	if row.DifficultyLevel < MinDifficulty || row.DifficultyLevel > MaxDifficulty {
		row.DifficultyLevel = fallbackDifficulty
	}
	if row.PainLevel < MinPainLevel || row.PainLevel > MaxPainLevel {
		row.PainLevel = fallbackPainLevel
	}
	if row.VideoLink != nil && strings.TrimSpace(*row.VideoLink) == "" {
		row.VideoLink = nil
	}

	return row
}

// ValidateExerciseRow re-checks a sanitized row against the storage bounds.
// A failure here means the sanitizer has a bug, not that the input was bad.
func ValidateExerciseRow(r ExerciseRow) error {
	if strings.TrimSpace(r.ExerciseName) == "" {
		return fmt.Errorf("exercise_name is empty")
	}
	if r.Sets < MinSets || r.Sets > MaxSets {
		return fmt.Errorf("sets %d out of range %d-%d", r.Sets, MinSets, MaxSets)
	}
	if r.Reps < MinReps || r.Reps > MaxReps {
		return fmt.Errorf("reps %d out of range %d-%d", r.Reps, MinReps, MaxReps)
	}
	if !validPhases[r.Phase] {
		return fmt.Errorf("invalid phase: %s", r.Phase)
	}
	if r.DifficultyLevel < MinDifficulty || r.DifficultyLevel > MaxDifficulty {
		return fmt.Errorf("difficulty_level %d out of range %d-%d", r.DifficultyLevel, MinDifficulty, MaxDifficulty)
	}
	if r.PainLevel < MinPainLevel || r.PainLevel > MaxPainLevel {
		return fmt.Errorf("pain_level %d out of range %d-%d", r.PainLevel, MinPainLevel, MaxPainLevel)
	}
	return nil
}
