package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Intake is the self-reported registration form. Clinical fields are optional;
// validation bounds match the storage constraints.
type Intake struct {
	FullName           string  `json:"full_name" validate:"required,min=2,max=255"`
	Email              string  `json:"email" validate:"required,email,max=255"`
	Phone              *string `json:"phone" validate:"omitempty,max=50"`
	NextSessionDate    *string `json:"next_session_date" validate:"omitempty,datetime=2006-01-02"`
	AffectedArea       *string `json:"affected_area" validate:"omitempty,max=50"`
	SymptomDescription *string `json:"symptom_description"`
	PainLevel          *int    `json:"pain_level" validate:"omitempty,gte=0,lte=10"`
	DifficultyLevel    *int    `json:"difficulty_level" validate:"omitempty,gte=0,lte=10"`
	AggravatingFactors *string `json:"aggravating_factors"`
	RelievingFactors   *string `json:"relieving_factors"`
	Occupation         *string `json:"occupation" validate:"omitempty,max=255"`
	ActivityLevel      *string `json:"activity_level" validate:"omitempty,max=50"`
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Register validates an intake form and creates the patient record.
func (s *Service) Register(ctx context.Context, in *Intake) (*Patient, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid intake: %w", err)
	}
	p, err := in.toPatient()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(email))
}

// UpdateIntake replaces a patient's intake fields after revalidation.
func (s *Service) UpdateIntake(ctx context.Context, id uuid.UUID, in *Intake) (*Patient, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid intake: %w", err)
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := in.toPatient()
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (in *Intake) toPatient() (*Patient, error) {
	p := &Patient{
		FullName:           strings.TrimSpace(in.FullName),
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:              in.Phone,
		SymptomDescription: in.SymptomDescription,
		PainLevel:          in.PainLevel,
		DifficultyLevel:    in.DifficultyLevel,
		AggravatingFactors: in.AggravatingFactors,
		RelievingFactors:   in.RelievingFactors,
		Occupation:         in.Occupation,
		ActivityLevel:      in.ActivityLevel,
	}
	if in.AffectedArea != nil {
		area := strings.ToLower(strings.TrimSpace(*in.AffectedArea))
		if area != "" {
			p.AffectedArea = &area
		}
	}
	if in.NextSessionDate != nil && *in.NextSessionDate != "" {
		d, err := time.Parse("2006-01-02", *in.NextSessionDate)
		if err != nil {
			return nil, fmt.Errorf("invalid next_session_date: %w", err)
		}
		p.NextSessionDate = &d
	}
	return p, nil
}
