package program

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockProgramRepo struct {
	programs  map[uuid.UUID]*Program
	exercises map[uuid.UUID][]*ProgramExercise

	createCalls int
	addCalls    int
	deleteCalls int

	failCreate error
	failAdd    error
	failDelete error
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{programs: make(map[uuid.UUID]*Program), exercises: make(map[uuid.UUID][]*ProgramExercise)}
}
func (m *mockProgramRepo) CreateProgram(_ context.Context, p *Program) error {
	m.createCalls++
	if m.failCreate != nil { return m.failCreate }
	p.ID = uuid.New(); p.CreatedAt = time.Now(); m.programs[p.ID] = p; return nil
}
func (m *mockProgramRepo) AddExercises(_ context.Context, programID uuid.UUID, rows []ExerciseRow) ([]*ProgramExercise, error) {
	m.addCalls++
	if m.failAdd != nil { return nil, m.failAdd }
	out := make([]*ProgramExercise, 0, len(rows))
	for _, r := range rows {
		ex := &ProgramExercise{
			ID: uuid.New(), ProgramID: programID,
			ExerciseName: r.ExerciseName, Sets: r.Sets, Reps: r.Reps, Phase: r.Phase,
			DifficultyLevel: r.DifficultyLevel, PainLevel: r.PainLevel, VideoLink: r.VideoLink,
		}
		out = append(out, ex)
	}
	m.exercises[programID] = out
	return out, nil
}
func (m *mockProgramRepo) DeleteProgram(_ context.Context, id uuid.UUID) error {
	m.deleteCalls++
	if m.failDelete != nil { return m.failDelete }
	delete(m.programs, id); delete(m.exercises, id); return nil
}
func (m *mockProgramRepo) GetByID(_ context.Context, id uuid.UUID) (*Program, error) {
	p, ok := m.programs[id]; if !ok { return nil, fmt.Errorf("not found") }; return p, nil
}
func (m *mockProgramRepo) GetExercises(_ context.Context, programID uuid.UUID) ([]*ProgramExercise, error) {
	return m.exercises[programID], nil
}
func (m *mockProgramRepo) ListByPatient(_ context.Context, pid uuid.UUID, limit, offset int) ([]*Program, int, error) {
	var r []*Program; for _, p := range m.programs { if p.PatientID == pid { r = append(r, p) } }; return r, len(r), nil
}
func (m *mockProgramRepo) LatestByPatient(_ context.Context, pid uuid.UUID) (*Program, error) {
	var latest *Program
	for _, p := range m.programs {
		if p.PatientID != pid { continue }
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) { latest = p }
	}
	if latest == nil { return nil, fmt.Errorf("not found") }
	return latest, nil
}

func newTestService(repo Repository) *Service {
	src := newMockPatientSource()
	g := NewGenerator(src, GeneratorConfig{})
	return NewService(g, repo, zerolog.Nop())
}

func testPlan() *GeneratedProgram {
	link := "https://example.com/v/7"
	return &GeneratedProgram{
		Summary:     "Εβδομαδιαίο πρόγραμμα",
		WeeklyGoals: []string{"Μείωση πόνου"},
		Days: []RehabDay{
			{DayNumber: 1, Exercises: []ExerciseDraft{
				{Name: "Γέφυρα", Sets: 3, Reps: 10, Phase: PhaseIsometric, Difficulty: 4, PainLevel: 3},
				{Name: "Διατάσεις", Sets: 2, Reps: 8, Phase: PhaseConcentric, Difficulty: 3, PainLevel: 3, VideoLink: &link},
			}},
			{DayNumber: 2, Exercises: []ExerciseDraft{
				{Name: "Σανίδα", Sets: 3, Reps: 12, Phase: PhaseEccentric, Difficulty: 5, PainLevel: 4},
			}},
		},
	}
}

func TestSave_DerivesEndDate(t *testing.T) {
	repo := newMockProgramRepo()
	svc := newTestService(repo)

	p, err := svc.Save(context.Background(), uuid.New().String(), "2025-06-02", "", testPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantEnd := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	if !p.ProgramEndDate.Equal(wantEnd) {
		t.Errorf("expected end date %s, got %s", wantEnd.Format("2006-01-02"), p.ProgramEndDate.Format("2006-01-02"))
	}
	if got := len(repo.exercises[p.ID]); got != 3 {
		t.Errorf("expected 3 exercise rows, got %d", got)
	}
}

func TestSave_SanitizesBeforeInsert(t *testing.T) {
	repo := newMockProgramRepo()
	svc := newTestService(repo)

	plan := testPlan()
	plan.Days[0].Exercises[0] = ExerciseDraft{Name: "  ", Sets: -1, Reps: 999, Phase: "ballistic", Difficulty: 0, PainLevel: 42}

	p, err := svc.Save(context.Background(), uuid.New().String(), "2025-06-02", "", plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := repo.exercises[p.ID][0]
	if first.ExerciseName != FallbackExerciseName {
		t.Errorf("expected fallback name, got %q", first.ExerciseName)
	}
	if err := ValidateExerciseRow(ExerciseRow{
		ExerciseName: first.ExerciseName, Sets: first.Sets, Reps: first.Reps, Phase: first.Phase,
		DifficultyLevel: first.DifficultyLevel, PainLevel: first.PainLevel,
	}); err != nil {
		t.Errorf("persisted row out of bounds: %v", err)
	}
}

func TestSave_CompensatesOnExerciseFailure(t *testing.T) {
	repo := newMockProgramRepo()
	repo.failAdd = fmt.Errorf("batch insert failed")
	svc := newTestService(repo)

	_, err := svc.Save(context.Background(), uuid.New().String(), "2025-06-02", "", testPlan())
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if se.Phase != PhaseExerciseInsert {
		t.Errorf("expected phase %q, got %q", PhaseExerciseInsert, se.Phase)
	}
	if !se.Compensated {
		t.Errorf("expected compensation to be recorded as successful")
	}
	if repo.deleteCalls != 1 {
		t.Errorf("expected 1 compensating delete, got %d", repo.deleteCalls)
	}
	if len(repo.programs) != 0 {
		t.Errorf("expected no program rows left, got %d", len(repo.programs))
	}
}

func TestSave_ReportsFailedCompensation(t *testing.T) {
	repo := newMockProgramRepo()
	repo.failAdd = fmt.Errorf("batch insert failed")
	repo.failDelete = fmt.Errorf("delete failed")
	svc := newTestService(repo)

	_, err := svc.Save(context.Background(), uuid.New().String(), "2025-06-02", "", testPlan())
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if se.Compensated {
		t.Errorf("expected Compensated=false when the rollback delete fails")
	}
	if repo.deleteCalls != 1 {
		t.Errorf("expected a compensating delete attempt, got %d", repo.deleteCalls)
	}
}

func TestSave_HeaderFailureNoCompensation(t *testing.T) {
	repo := newMockProgramRepo()
	repo.failCreate = fmt.Errorf("insert failed")
	svc := newTestService(repo)

	_, err := svc.Save(context.Background(), uuid.New().String(), "2025-06-02", "", testPlan())
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if se.Phase != PhaseHeaderInsert {
		t.Errorf("expected phase %q, got %q", PhaseHeaderInsert, se.Phase)
	}
	if repo.addCalls != 0 || repo.deleteCalls != 0 {
		t.Errorf("no exercise insert or delete expected after header failure")
	}
}

func TestSave_DuplicateProgram(t *testing.T) {
	repo := newMockProgramRepo()
	repo.failCreate = fmt.Errorf("insert program: %w", ErrDuplicateProgram)
	svc := newTestService(repo)

	_, err := svc.Save(context.Background(), uuid.New().String(), "2025-06-02", "", testPlan())
	if !errors.Is(err, ErrDuplicateProgram) {
		t.Fatalf("expected ErrDuplicateProgram, got %v", err)
	}
	var se *StorageError
	if errors.As(err, &se) {
		t.Fatalf("duplicate must not be wrapped as a storage error, got %v", err)
	}
}

func TestSave_FailFastValidation(t *testing.T) {
	cases := []struct {
		name      string
		patientID string
		startDate string
		plan      *GeneratedProgram
	}{
		{"empty patient id", "", "2025-06-02", testPlan()},
		{"malformed patient id", "not-a-uuid", "2025-06-02", testPlan()},
		{"empty date", uuid.New().String(), "", testPlan()},
		{"malformed date", uuid.New().String(), "02/06/2025", testPlan()},
		{"impossible date", uuid.New().String(), "2025-02-30", testPlan()},
		{"nil plan", uuid.New().String(), "2025-06-02", nil},
		{"empty plan", uuid.New().String(), "2025-06-02", &GeneratedProgram{}},
	}
	for _, tc := range cases {
		repo := newMockProgramRepo()
		svc := newTestService(repo)
		_, err := svc.Save(context.Background(), tc.patientID, tc.startDate, "", tc.plan)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
			continue
		}
		if repo.createCalls != 0 || repo.addCalls != 0 || repo.deleteCalls != 0 {
			t.Errorf("%s: validation failure reached storage (create=%d add=%d delete=%d)",
				tc.name, repo.createCalls, repo.addCalls, repo.deleteCalls)
		}
	}
}

func TestSave_NotesStored(t *testing.T) {
	repo := newMockProgramRepo()
	svc := newTestService(repo)

	p, err := svc.Save(context.Background(), uuid.New().String(), "2025-06-02", "Προσοχή στον πόνο", testPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Notes == nil || *p.Notes != "Προσοχή στον πόνο" {
		t.Errorf("expected notes persisted, got %v", p.Notes)
	}

	p2, err := svc.Save(context.Background(), uuid.New().String(), "2025-06-02", "", testPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p2.Notes != nil {
		t.Errorf("expected empty notes stored as NULL, got %q", *p2.Notes)
	}
}

func TestGenerate_ValidatesInput(t *testing.T) {
	svc := newTestService(newMockProgramRepo())
	if _, err := svc.Generate(context.Background(), "", "2025-06-02"); err == nil {
		t.Errorf("expected error for empty patient id")
	}
	if _, err := svc.Generate(context.Background(), uuid.New().String(), "June 2"); err == nil {
		t.Errorf("expected error for malformed date")
	}
}

func TestGetProgram_BundlesExercises(t *testing.T) {
	repo := newMockProgramRepo()
	svc := newTestService(repo)

	p, err := svc.Save(context.Background(), uuid.New().String(), "2025-06-02", "", testPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.GetProgram(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Program.ID != p.ID {
		t.Errorf("expected program %s, got %s", p.ID, got.Program.ID)
	}
	if len(got.Exercises) != 3 {
		t.Errorf("expected 3 exercises, got %d", len(got.Exercises))
	}
}
