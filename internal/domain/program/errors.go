package program

import (
	"errors"
	"fmt"
)

// Save proceeds in two storage phases; StorageError records which one failed.
const (
	PhaseHeaderInsert   = "header_insert"
	PhaseExerciseInsert = "exercise_insert"
)

// ErrDuplicateProgram reports that a program already exists for the same
// patient and start date (unique constraint on programs).
var ErrDuplicateProgram = errors.New("a program already exists for this patient and start date")

// ValidationError reports malformed caller input. It is always raised before
// any write, so the caller can correct the input and retry with no partial
// state in the store.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func validationErrf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// UpstreamFetchError reports that the patient lookup failed. NotFound
// distinguishes a missing patient from a failed lookup.
type UpstreamFetchError struct {
	PatientID string
	NotFound  bool
	Err       error
}

func (e *UpstreamFetchError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("patient %s not found", e.PatientID)
	}
	return fmt.Sprintf("fetch patient %s: %v", e.PatientID, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// StorageError reports a failed write. Phase names the step that failed; when
// the exercise insert fails after the header was created, Compensated records
// whether the compensating header delete succeeded. Callers must not assume
// the header was removed unless Compensated is true.
type StorageError struct {
	Phase       string
	Compensated bool
	Err         error
}

func (e *StorageError) Error() string {
	switch e.Phase {
	case PhaseExerciseInsert:
		if e.Compensated {
			return fmt.Sprintf("exercise insert failed (program header rolled back): %v", e.Err)
		}
		return fmt.Sprintf("exercise insert failed (header rollback also failed, orphaned program row may remain): %v", e.Err)
	default:
		return fmt.Sprintf("program insert failed: %v", e.Err)
	}
}

func (e *StorageError) Unwrap() error { return e.Err }
