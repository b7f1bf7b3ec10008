package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table: intake contact details plus the
// clinical fields the program generator consumes. Clinical fields are
// pointers because intake may omit them; downstream consumers apply their
// own defaults.
type Patient struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	FullName           string     `db:"full_name" json:"full_name"`
	Email              string     `db:"email" json:"email"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	NextSessionDate    *time.Time `db:"next_session_date" json:"next_session_date,omitempty"`
	AffectedArea       *string    `db:"affected_area" json:"affected_area,omitempty"`
	SymptomDescription *string    `db:"symptom_description" json:"symptom_description,omitempty"`
	PainLevel          *int       `db:"pain_level" json:"pain_level,omitempty"`
	DifficultyLevel    *int       `db:"difficulty_level" json:"difficulty_level,omitempty"`
	AggravatingFactors *string    `db:"aggravating_factors" json:"aggravating_factors,omitempty"`
	RelievingFactors   *string    `db:"relieving_factors" json:"relieving_factors,omitempty"`
	Occupation         *string    `db:"occupation" json:"occupation,omitempty"`
	ActivityLevel      *string    `db:"activity_level" json:"activity_level,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}
