package program

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const programCols = `id, patient_id, program_start_date, program_end_date, notes, created_at`

func scanProgram(row pgx.Row) (*Program, error) {
	var p Program
	err := row.Scan(&p.ID, &p.PatientID, &p.ProgramStartDate, &p.ProgramEndDate,
		&p.Notes, &p.CreatedAt)
	return &p, err
}

func (r *repoPG) CreateProgram(ctx context.Context, p *Program) error {
	p.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO programs (id, patient_id, program_start_date, program_end_date, notes)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		p.ID, p.PatientID, p.ProgramStartDate, p.ProgramEndDate, p.Notes).Scan(&p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateProgram
		}
		return err
	}
	return nil
}

func (r *repoPG) AddExercises(ctx context.Context, programID uuid.UUID, rows []ExerciseRow) ([]*ProgramExercise, error) {
	batch := &pgx.Batch{}
	items := make([]*ProgramExercise, 0, len(rows))
	for _, row := range rows {
		ex := &ProgramExercise{
			ID:              uuid.New(),
			ProgramID:       programID,
			ExerciseName:    row.ExerciseName,
			Sets:            row.Sets,
			Reps:            row.Reps,
			Phase:           row.Phase,
			DifficultyLevel: row.DifficultyLevel,
			PainLevel:       row.PainLevel,
			VideoLink:       row.VideoLink,
		}
		items = append(items, ex)
		batch.Queue(`
			INSERT INTO program_exercises (id, program_id, exercise_name, sets, reps,
				phase, difficulty_level, pain_level, video_link)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			RETURNING created_at`,
			ex.ID, ex.ProgramID, ex.ExerciseName, ex.Sets, ex.Reps,
			ex.Phase, ex.DifficultyLevel, ex.PainLevel, ex.VideoLink)
	}

	// The batch travels as one round trip and pgx runs it in an implicit
	// transaction, so a failing row aborts the whole insert.
	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for _, ex := range items {
		if err := br.QueryRow().Scan(&ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("insert exercise %q: %w", ex.ExerciseName, err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repoPG) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Program, error) {
	return scanProgram(r.pool.QueryRow(ctx, `SELECT `+programCols+` FROM programs WHERE id = $1`, id))
}

func (r *repoPG) GetExercises(ctx context.Context, programID uuid.UUID) ([]*ProgramExercise, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, program_id, exercise_name, sets, reps, phase,
			difficulty_level, pain_level, video_link, created_at
		FROM program_exercises WHERE program_id = $1 ORDER BY created_at, id`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ProgramExercise
	for rows.Next() {
		var ex ProgramExercise
		if err := rows.Scan(&ex.ID, &ex.ProgramID, &ex.ExerciseName, &ex.Sets, &ex.Reps,
			&ex.Phase, &ex.DifficultyLevel, &ex.PainLevel, &ex.VideoLink, &ex.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &ex)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Program, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM programs WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+programCols+` FROM programs WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) LatestByPatient(ctx context.Context, patientID uuid.UUID) (*Program, error) {
	return scanProgram(r.pool.QueryRow(ctx, `SELECT `+programCols+` FROM programs WHERE patient_id = $1 ORDER BY created_at DESC LIMIT 1`, patientID))
}
