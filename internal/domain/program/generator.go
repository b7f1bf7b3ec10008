package program

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultExercisePools maps body-area keys to candidate exercise names. The
// pools are configuration data: callers may supply their own table through
// GeneratorConfig, this one mirrors the practice's standard catalogue.
var DefaultExercisePools = map[string][]string{
	"back":     {"Ασκήσεις σταθεροποίησης κορμού", "Διατάσεις οσφυϊκής μοίρας", "Ενδυνάμωση ραχιαίων μυών"},
	"knee":     {"Ισομετρικές ασκήσεις τετρακεφάλου", "Ασκήσεις εύρους κίνησης γόνατος", "Ενδυνάμωση τετρακεφάλου"},
	"shoulder": {"Ασκήσεις κινητικότητας ώμου", "Ασκήσεις σταθεροποίησης ωμοπλάτης", "Ενδυνάμωση στροφικού πετάλου"},
	"neck":     {"Ισομετρικές ασκήσεις αυχένα", "Διατάσεις αυχενικών μυών", "Ασκήσεις κινητικότητας αυχένα"},
	"ankle":    {"Ασκήσεις κινητικότητας ποδοκνημικής", "Ασκήσεις ιδιοδεκτικότητας", "Ενδυνάμωση περονιαίων"},
	"hip":      {"Ασκήσεις κινητικότητας ισχίου", "Ενδυνάμωση απαγωγών", "Διατάσεις καμπτήρων ισχίου"},
}

// DefaultExerciseList is used for unknown or "general" body areas.
var DefaultExerciseList = []string{
	"Ήπιες διατάσεις",
	"Ασκήσεις αναπνοής και χαλάρωσης",
	"Ασκήσεις κινητικότητας χαμηλής έντασης",
}

// DefaultSources are the attribution tags cycled across generated exercises.
var DefaultSources = []string{"Physiotutors", "Prehab Guys", "Adam Meakins"}

// Defaults substituted for absent patient clinical fields.
const (
	defaultPatientPain       = 5
	defaultPatientDifficulty = 4
	defaultAffectedArea      = "general"
)

// Intensity scaling factors. Rest days run at reduced intensity; higher
// patient pain lowers intensity down to a floor.
const (
	sessionDayFactor = 1.0
	restDayFactor    = 0.8
	minPainFactor    = 0.4
	baseSets         = 3
	baseReps         = 10
)

const programDays = 7

var weeklyGoals = []string{
	"Μείωση του πόνου κατά τουλάχιστον 1-2 μονάδες στην κλίμακα 1-10",
	"Βελτίωση της λειτουργικότητας στις καθημερινές δραστηριότητες",
	"Αύξηση του εύρους κίνησης της προβληματικής περιοχής",
}

// ErrPatientNotFound is returned by PatientSource implementations when no
// patient matches the requested id.
var ErrPatientNotFound = errors.New("patient not found")

// PatientInfo carries the patient attributes the generator consumes. Optional
// clinical fields fall back to fixed defaults when nil.
type PatientInfo struct {
	ID              uuid.UUID
	FullName        string
	AffectedArea    *string
	PainLevel       *int
	DifficultyLevel *int
	NextSessionDate *time.Time
}

// PatientSource fetches patient attributes for program generation.
type PatientSource interface {
	GetPatientInfo(ctx context.Context, id uuid.UUID) (*PatientInfo, error)
}

// GeneratorConfig tunes the shape of generated programs. Zero values fall
// back to the defaults above.
type GeneratorConfig struct {
	Pools       map[string][]string
	DefaultPool []string
	Sources     []string
	// Exercises per day cycle deterministically between these bounds.
	MinExercisesPerDay int
	MaxExercisesPerDay int
	// Attached to every generated exercise when set. Individual drafts may
	// still be edited before saving.
	DefaultVideoLink *string
}

// Generator synthesizes a 7-day exercise plan from patient attributes. It is
// deterministic: the same patient record and start date always yield the same
// plan. The selection logic stands in for a future external content service;
// only the plan shape is contractual.
type Generator struct {
	patients  PatientSource
	pools     map[string][]string
	defPool   []string
	sources   []string
	minPerDay int
	maxPerDay int
	videoLink *string
}

func NewGenerator(patients PatientSource, cfg GeneratorConfig) *Generator {
	g := &Generator{
		patients:  patients,
		pools:     cfg.Pools,
		defPool:   cfg.DefaultPool,
		sources:   cfg.Sources,
		minPerDay: cfg.MinExercisesPerDay,
		maxPerDay: cfg.MaxExercisesPerDay,
		videoLink: cfg.DefaultVideoLink,
	}
	if g.pools == nil {
		g.pools = DefaultExercisePools
	}
	if len(g.defPool) == 0 {
		g.defPool = DefaultExerciseList
	}
	if len(g.sources) == 0 {
		g.sources = DefaultSources
	}
	if g.minPerDay <= 0 {
		g.minPerDay = 2
	}
	if g.maxPerDay < g.minPerDay {
		g.maxPerDay = 3
	}
	return g
}

// Generate fetches the patient and builds a weekly plan starting at start.
// It fails with UpstreamFetchError when the patient is missing or the lookup
// errors; it performs no writes.
func (g *Generator) Generate(ctx context.Context, patientID uuid.UUID, start time.Time) (*GeneratedProgram, error) {
	p, err := g.patients.GetPatientInfo(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, &UpstreamFetchError{PatientID: patientID.String(), NotFound: true, Err: err}
		}
		return nil, &UpstreamFetchError{PatientID: patientID.String(), Err: err}
	}
	return g.build(p, start), nil
}

func (g *Generator) build(p *PatientInfo, start time.Time) *GeneratedProgram {
	pain := defaultPatientPain
	if p.PainLevel != nil {
		pain = *p.PainLevel
	}
	difficulty := defaultPatientDifficulty
	if p.DifficultyLevel != nil {
		difficulty = *p.DifficultyLevel
	}
	area := defaultAffectedArea
	if p.AffectedArea != nil && *p.AffectedArea != "" {
		area = *p.AffectedArea
	}

	pool := g.poolFor(area)

	days := make([]RehabDay, 0, programDays)
	for i := 0; i < programDays; i++ {
		date := start.AddDate(0, 0, i)
		isSessionDay := p.NextSessionDate != nil && SameCalendarDay(date, *p.NextSessionDate)

		count := g.minPerDay + i%(g.maxPerDay-g.minPerDay+1)
		exercises := make([]ExerciseDraft, 0, count)
		for j := 0; j < count; j++ {
			exercises = append(exercises, g.buildExercise(pool, i, j, isSessionDay, pain, difficulty))
		}

		days = append(days, RehabDay{
			DayNumber:                 i + 1,
			Date:                      date,
			Exercises:                 exercises,
			HasPhysiotherapistSession: isSessionDay,
		})
	}

	return &GeneratedProgram{
		Summary:     buildSummary(p.FullName, area, pain),
		WeeklyGoals: append([]string(nil), weeklyGoals...),
		Days:        days,
	}
}

func (g *Generator) poolFor(area string) []string {
	if pool, ok := g.pools[strings.ToLower(area)]; ok && len(pool) > 0 {
		return pool
	}
	return g.defPool
}

func (g *Generator) buildExercise(pool []string, dayIdx, exIdx int, isSessionDay bool, pain, difficulty int) ExerciseDraft {
	dayFactor := restDayFactor
	if isSessionDay {
		dayFactor = sessionDayFactor
	}
	painFactor := math.Max(1-float64(pain)/10, minPainFactor)
	f := dayFactor * painFactor

	phases := []string{PhaseIsometric, PhaseConcentric, PhaseEccentric, PhasePlyometric}

	return ExerciseDraft{
		Name:       pool[(dayIdx+exIdx)%len(pool)],
		Sets:       clampInt(int(math.Round(baseSets*f)), MinSets, MaxSets),
		Reps:       clampInt(int(math.Round(baseReps*f)), MinReps, MaxReps),
		Phase:      phases[(dayIdx+exIdx)%len(phases)],
		Difficulty: clampInt(int(math.Round(float64(difficulty)*f)), MinDifficulty, MaxDifficulty),
		PainLevel:  clampInt(pain-1, MinPainLevel, MaxPainLevel),
		Source:     g.sources[(dayIdx+exIdx)%len(g.sources)],
		VideoLink:  g.videoLink,
	}
}

func buildSummary(name, area string, pain int) string {
	focus := "Εστιάζει σε γενική ενδυνάμωση και κινητικότητα."
	if area != defaultAffectedArea {
		focus = fmt.Sprintf("Εστιάζει στην περιοχή: %s με επίπεδο πόνου %d/10.", area, pain)
	}
	return fmt.Sprintf(
		"Εβδομαδιαίο πρόγραμμα αποκατάστασης για τον/την %s. %s Σχεδιασμένο με βάση την τρέχουσα κατάσταση και τους προσωπικούς στόχους του ασθενή.",
		name, focus)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
