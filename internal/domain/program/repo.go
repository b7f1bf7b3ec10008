package program

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists program headers and their exercise rows. The operations
// are deliberately independent (no cross-call transaction): the service layers
// a compensating delete on top, mirroring the isolated per-table calls the
// backing data API exposes.
type Repository interface {
	CreateProgram(ctx context.Context, p *Program) error
	AddExercises(ctx context.Context, programID uuid.UUID, rows []ExerciseRow) ([]*ProgramExercise, error)
	DeleteProgram(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Program, error)
	GetExercises(ctx context.Context, programID uuid.UUID) ([]*ProgramExercise, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Program, int, error)
	LatestByPatient(ctx context.Context, patientID uuid.UUID) (*Program, error)
}
