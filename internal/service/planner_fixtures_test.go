package service

import (
	"context"
	"sync"

	"github.com/noah-isme/course-planner-api/internal/conflict"
	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"go.uber.org/zap"
)

var (
	mwDays = models.NewDaySet(models.Monday, models.Wednesday)
	trDays = models.NewDaySet(models.Tuesday, models.Thursday)
)

func fixturePeriod(kind, prof string, days models.DaySet, sh, sm, eh, em int) *models.Period {
	return &models.Period{
		Type:           kind,
		Professor:      prof,
		StartTime:      models.NewTime(sh, sm),
		EndTime:        models.NewTime(eh, em),
		Building:       "Fuller Labs",
		Room:           "FL320",
		Location:       "Fuller Labs FL320",
		Days:           days,
		Seats:          30,
		SeatsAvailable: 5,
	}
}

func fixtureSection(crn int, number, term string, periods ...*models.Period) *models.Section {
	return &models.Section{CRN: crn, Number: number, Term: "2026 Fall", ComputedTerm: term, Seats: 30, SeatsAvailable: 5, Periods: periods}
}

// fixtureCatalog has three courses; CS-1101/AL01 and MA-1021/AL01 overlap on Monday and Wednesday.
func fixtureCatalog() *models.Catalog {
	cs := &models.Department{Abbreviation: "CS", Name: "Computer Science"}
	ma := &models.Department{Abbreviation: "MA", Name: "Mathematical Sciences"}

	intro := &models.Course{ID: "CS-1101", Number: "1101", Name: "Introduction to Program Design", Department: cs,
		MinCredits: 1, MaxCredits: 1,
		Sections: []*models.Section{
			fixtureSection(1001, "AL01", "A", fixturePeriod("Lecture", "Smith", mwDays, 9, 0, 9, 50)),
			fixtureSection(1002, "BL01", "B", fixturePeriod("Lecture", "Jones", trDays, 9, 0, 9, 50)),
		}}
	systems := &models.Course{ID: "CS-2011", Number: "2011", Name: "Machine Organization", Department: cs,
		MinCredits: 1, MaxCredits: 1,
		Sections: []*models.Section{
			fixtureSection(2001, "AL01", "A", fixturePeriod("Lecture", "Walker", trDays, 11, 0, 11, 50)),
		}}
	calculus := &models.Course{ID: "MA-1021", Number: "1021", Name: "Applied Calculus", Department: ma,
		MinCredits: 1, MaxCredits: 1,
		Sections: []*models.Section{
			fixtureSection(3001, "AL01", "A", fixturePeriod("Lecture", "Lovelace", mwDays, 9, 30, 10, 20)),
			fixtureSection(3002, "CL01", "C", fixturePeriod("Lab", "Lovelace", models.NewDaySet(models.Friday), 13, 0, 14, 50)),
		}}
	cs.Courses = []*models.Course{intro, systems}
	ma.Courses = []*models.Course{calculus}

	catalog := models.NewCatalog([]*models.Department{cs, ma})
	catalog.Version = "v1"
	return catalog
}

type staticCatalog struct {
	mu      sync.Mutex
	catalog *models.Catalog
}

func (s *staticCatalog) Catalog() *models.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

func (s *staticCatalog) set(c *models.Catalog) {
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
}

func (s *staticCatalog) Course(id string) (*models.Course, error) {
	catalog := s.Catalog()
	if catalog == nil {
		return nil, appErrors.ErrCatalogUnavailable
	}
	course, ok := catalog.Course(id)
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return course, nil
}

type memorySelectionStore struct {
	mu       sync.Mutex
	records  map[string][]models.SelectionRecord
	replaces int
	err      error
}

func newMemorySelectionStore() *memorySelectionStore {
	return &memorySelectionStore{records: make(map[string][]models.SelectionRecord)}
}

func (m *memorySelectionStore) ListByProfile(_ context.Context, profileID string) ([]models.SelectionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SelectionRecord(nil), m.records[profileID]...), nil
}

func (m *memorySelectionStore) ReplaceAll(_ context.Context, profileID string, records []models.SelectionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.replaces++
	m.records[profileID] = append([]models.SelectionRecord(nil), records...)
	return nil
}

type memoryFilterStore struct {
	mu     sync.Mutex
	states map[string][]byte
}

func newMemoryFilterStore() *memoryFilterStore {
	return &memoryFilterStore{states: make(map[string][]byte)}
}

func (m *memoryFilterStore) Get(_ context.Context, profileID string, scope models.FilterScope) (*models.FilterStateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.states[profileID+"/"+string(scope)]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return &models.FilterStateRecord{ProfileID: profileID, Scope: scope, Payload: data}, nil
}

func (m *memoryFilterStore) Upsert(_ context.Context, record *models.FilterStateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[record.ProfileID+"/"+string(record.Scope)] = []byte(record.Payload)
	return nil
}

func (m *memoryFilterStore) payload(profileID string, scope models.FilterScope) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.states[profileID+"/"+string(scope)])
}

type plannerFixture struct {
	catalog    *staticCatalog
	selections *memorySelectionStore
	filters    *memoryFilterStore
	detector   *conflict.Detector
	workspaces *WorkspaceService
}

func newPlannerFixture() *plannerFixture {
	f := &plannerFixture{
		catalog:    &staticCatalog{catalog: fixtureCatalog()},
		selections: newMemorySelectionStore(),
		filters:    newMemoryFilterStore(),
		detector:   conflict.NewDetector(nil),
	}
	f.workspaces = NewWorkspaceService(f.catalog, f.detector, f.selections, f.filters, nil, 0, zap.NewNop())
	return f
}

func stringPtr(s string) *string { return &s }
