package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const patientCols = `id, full_name, email, phone, next_session_date, affected_area,
	symptom_description, pain_level, difficulty_level, aggravating_factors,
	relieving_factors, occupation, activity_level, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.NextSessionDate, &p.AffectedArea,
		&p.SymptomDescription, &p.PainLevel, &p.DifficultyLevel, &p.AggravatingFactors,
		&p.RelievingFactors, &p.Occupation, &p.ActivityLevel, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO patients (
			id, full_name, email, phone, next_session_date, affected_area,
			symptom_description, pain_level, difficulty_level, aggravating_factors,
			relieving_factors, occupation, activity_level
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`,
		p.ID, p.FullName, p.Email, p.Phone, p.NextSessionDate, p.AffectedArea,
		p.SymptomDescription, p.PainLevel, p.DifficultyLevel, p.AggravatingFactors,
		p.RelievingFactors, p.Occupation, p.ActivityLevel,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE patients SET
			full_name = $2, email = $3, phone = $4, next_session_date = $5,
			affected_area = $6, symptom_description = $7, pain_level = $8,
			difficulty_level = $9, aggravating_factors = $10, relieving_factors = $11,
			occupation = $12, activity_level = $13, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.FullName, p.Email, p.Phone, p.NextSessionDate,
		p.AffectedArea, p.SymptomDescription, p.PainLevel,
		p.DifficultyLevel, p.AggravatingFactors, p.RelievingFactors,
		p.Occupation, p.ActivityLevel,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patients ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}
