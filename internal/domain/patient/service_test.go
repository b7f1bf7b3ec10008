package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct{ store map[uuid.UUID]*Patient }

func newMockRepo() *mockRepo { return &mockRepo{store: make(map[uuid.UUID]*Patient)} }
func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New(); p.CreatedAt = time.Now(); p.UpdatedAt = p.CreatedAt; m.store[p.ID] = p; return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; return p, nil
}
func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Patient, error) {
	for _, p := range m.store { if p.Email == email { return p, nil } }; return nil, fmt.Errorf("not found")
}
func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.store[p.ID]; !ok { return fmt.Errorf("not found") }; p.UpdatedAt = time.Now(); m.store[p.ID] = p; return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error { delete(m.store, id); return nil }
func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient; for _, p := range m.store { r = append(r, p) }; return r, len(r), nil
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func TestRegister_Success(t *testing.T) {
	svc := NewService(newMockRepo())
	in := &Intake{
		FullName:        "  Μαρία Παπαδοπούλου ",
		Email:           "Maria@Example.COM",
		AffectedArea:    strPtr(" Knee "),
		PainLevel:       intPtr(6),
		NextSessionDate: strPtr("2025-06-04"),
	}
	p, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Errorf("expected an assigned id")
	}
	if p.FullName != "Μαρία Παπαδοπούλου" {
		t.Errorf("expected trimmed name, got %q", p.FullName)
	}
	if p.Email != "maria@example.com" {
		t.Errorf("expected normalized email, got %q", p.Email)
	}
	if p.AffectedArea == nil || *p.AffectedArea != "knee" {
		t.Errorf("expected normalized area, got %v", p.AffectedArea)
	}
	if p.NextSessionDate == nil || p.NextSessionDate.Format("2006-01-02") != "2025-06-04" {
		t.Errorf("expected parsed session date, got %v", p.NextSessionDate)
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	svc := NewService(newMockRepo())
	cases := []struct {
		name string
		in   *Intake
	}{
		{"missing name", &Intake{Email: "a@b.com"}},
		{"missing email", &Intake{FullName: "Νίκος Ιωάννου"}},
		{"bad email", &Intake{FullName: "Νίκος Ιωάννου", Email: "not-an-email"}},
		{"pain out of range", &Intake{FullName: "Νίκος Ιωάννου", Email: "a@b.com", PainLevel: intPtr(11)}},
		{"bad session date", &Intake{FullName: "Νίκος Ιωάννου", Email: "a@b.com", NextSessionDate: strPtr("04/06/2025")}},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.in); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestRegister_OptionalFieldsStayNil(t *testing.T) {
	svc := NewService(newMockRepo())
	p, err := svc.Register(context.Background(), &Intake{FullName: "Νίκος Ιωάννου", Email: "nikos@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.AffectedArea != nil || p.PainLevel != nil || p.NextSessionDate != nil {
		t.Errorf("expected absent clinical fields to stay nil: %+v", p)
	}
}

func TestUpdateIntake_PreservesIdentity(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p, err := svc.Register(context.Background(), &Intake{FullName: "Ελένη Δήμου", Email: "eleni@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.UpdateIntake(context.Background(), p.ID, &Intake{
		FullName: "Ελένη Δήμου", Email: "eleni@example.com", PainLevel: intPtr(4), AffectedArea: strPtr("back"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != p.ID {
		t.Errorf("expected id preserved, got %s", updated.ID)
	}
	if updated.PainLevel == nil || *updated.PainLevel != 4 {
		t.Errorf("expected pain_level 4, got %v", updated.PainLevel)
	}
}

func TestUpdateIntake_UnknownPatient(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.UpdateIntake(context.Background(), uuid.New(), &Intake{FullName: "Ελένη Δήμου", Email: "eleni@example.com"})
	if err == nil {
		t.Errorf("expected error for unknown patient")
	}
}
