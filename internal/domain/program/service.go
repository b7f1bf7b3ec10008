package program

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Service exposes program generation and persistence to the HTTP layer.
// Save performs two independent writes (header, then exercise batch) and
// compensates by deleting the header when the batch insert fails.
type Service struct {
	generator *Generator
	repo      Repository
	logger    zerolog.Logger
}

func NewService(g *Generator, repo Repository, logger zerolog.Logger) *Service {
	return &Service{generator: g, repo: repo, logger: logger}
}

// Generate builds a weekly plan for the patient without persisting anything.
func (s *Service) Generate(ctx context.Context, patientID, startDate string) (*GeneratedProgram, error) {
	pid, err := parsePatientID(patientID)
	if err != nil {
		return nil, err
	}
	start, err := parseStartDate(startDate)
	if err != nil {
		return nil, err
	}
	return s.generator.Generate(ctx, pid, start)
}

// Save validates and sanitizes a generated plan, then persists it. All input
// validation and sanitization happens before the first write, so a
// ValidationError never leaves partial state behind. A failed exercise batch
// triggers a compensating delete of the already-created header; the error is
// surfaced either way and records whether compensation succeeded.
func (s *Service) Save(ctx context.Context, patientID, startDate, notes string, gp *GeneratedProgram) (*Program, error) {
	pid, err := parsePatientID(patientID)
	if err != nil {
		return nil, err
	}
	start, err := parseStartDate(startDate)
	if err != nil {
		return nil, err
	}
	if gp == nil || len(gp.Days) == 0 {
		return nil, validationErrf("program", "program has no days")
	}

	rows := make([]ExerciseRow, 0, len(gp.Days)*3)
	for _, day := range gp.Days {
		for _, draft := range day.Exercises {
			row := SanitizeExercise(draft)
			// The sanitizer guarantees valid rows; a failure here is a bug
			// and must stop the save before anything is written.
			if err := ValidateExerciseRow(row); err != nil {
				return nil, validationErrf("exercises", "sanitized exercise still invalid: %v", err)
			}
			rows = append(rows, row)
		}
	}

	header := &Program{
		PatientID:        pid,
		ProgramStartDate: start,
		ProgramEndDate:   start.AddDate(0, 0, 6),
	}
	if notes != "" {
		header.Notes = &notes
	}

	if err := s.repo.CreateProgram(ctx, header); err != nil {
		if errors.Is(err, ErrDuplicateProgram) {
			return nil, err
		}
		return nil, &StorageError{Phase: PhaseHeaderInsert, Err: err}
	}

	if _, err := s.repo.AddExercises(ctx, header.ID, rows); err != nil {
		compErr := s.repo.DeleteProgram(ctx, header.ID)
		if compErr != nil {
			s.logger.Error().
				Str("program_id", header.ID.String()).
				AnErr("insert_err", err).
				AnErr("compensation_err", compErr).
				Msg("exercise insert failed and header rollback failed; orphaned program row may remain")
		} else {
			s.logger.Warn().
				Str("program_id", header.ID.String()).
				AnErr("insert_err", err).
				Msg("exercise insert failed; program header rolled back")
		}
		return nil, &StorageError{Phase: PhaseExerciseInsert, Compensated: compErr == nil, Err: err}
	}

	return header, nil
}

// GetProgram returns a program header together with its exercise rows.
func (s *Service) GetProgram(ctx context.Context, id uuid.UUID) (*ProgramWithExercises, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	exercises, err := s.repo.GetExercises(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProgramWithExercises{Program: p, Exercises: exercises}, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Program, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) LatestByPatient(ctx context.Context, patientID uuid.UUID) (*Program, error) {
	return s.repo.LatestByPatient(ctx, patientID)
}

func parsePatientID(patientID string) (uuid.UUID, error) {
	if patientID == "" {
		return uuid.Nil, validationErrf("patient_id", "patient_id is required")
	}
	pid, err := uuid.Parse(patientID)
	if err != nil {
		return uuid.Nil, validationErrf("patient_id", "invalid patient_id: %v", err)
	}
	return pid, nil
}

func parseStartDate(startDate string) (time.Time, error) {
	if !dateOnlyPattern.MatchString(startDate) {
		return time.Time{}, validationErrf("start_date", "start_date must match YYYY-MM-DD, got %q", startDate)
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, validationErrf("start_date", "invalid start_date: %v", err)
	}
	return start, nil
}
