package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/conflict"
	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"github.com/noah-isme/course-planner-api/pkg/term"
)

// SelectionStore persists planner selections.
type SelectionStore interface {
	ListByProfile(ctx context.Context, profileID string) ([]models.SelectionRecord, error)
	ReplaceAll(ctx context.Context, profileID string, records []models.SelectionRecord) error
}

// FilterStateStore persists serialized filter state.
type FilterStateStore interface {
	Get(ctx context.Context, profileID string, scope models.FilterScope) (*models.FilterStateRecord, error)
	Upsert(ctx context.Context, record *models.FilterStateRecord) error
}

// CatalogProvider exposes the current catalog.
type CatalogProvider interface {
	Catalog() *models.Catalog
}

// FilterScopeEngine is the scope independent surface of both filter services.
type FilterScopeEngine interface {
	Add(id string, criteria json.RawMessage) error
	Update(id string, criteria json.RawMessage) error
	Remove(id string) bool
	Clear()
	Toggle(id string, criteria json.RawMessage) (bool, error)
	Has(id string) bool
	Active() []models.ActiveFilter
	Descriptors() []models.FilterDescriptor
	Summary() string
	Count() int
	Serialize(exclude ...string) ([]byte, error)
	Deserialize(data []byte, skip ...string) bool
}

// Workspace is one profile's planner: its selections and both filter scopes. Every method must be
// called from inside WorkspaceService.Do.
type Workspace struct {
	ProfileID string

	mu       sync.Mutex
	selected []*models.SelectedCourse
	courses  *CourseFilterService
	schedule *ScheduleFilterService
	lastSeen time.Time

	pending         map[models.FilterScope][]byte
	selectionsDirty bool
}

// CourseFilters returns the catalog scope.
func (w *Workspace) CourseFilters() *CourseFilterService { return w.courses }

// ScheduleFilters returns the schedule scope.
func (w *Workspace) ScheduleFilters() *ScheduleFilterService { return w.schedule }

// Scope resolves a filter scope by name.
func (w *Workspace) Scope(scope models.FilterScope) (FilterScopeEngine, error) {
	switch scope {
	case models.FilterScopeCatalog:
		return w.courses, nil
	case models.FilterScopeSchedule:
		return w.schedule, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown filter scope %q", scope))
	}
}

// Selected returns the live selections in planner order.
func (w *Workspace) Selected() []*models.SelectedCourse {
	return w.selected
}

// SelectedSnapshot copies the selections so they can leave the workspace lock.
func (w *Workspace) SelectedSnapshot() []*models.SelectedCourse {
	out := make([]*models.SelectedCourse, 0, len(w.selected))
	for _, sc := range w.selected {
		clone := *sc
		out = append(out, &clone)
	}
	return out
}

// Find returns the selection for courseID.
func (w *Workspace) Find(courseID string) (*models.SelectedCourse, bool) {
	for _, sc := range w.selected {
		if sc.Course.ID == courseID {
			return sc, true
		}
	}
	return nil, false
}

// Select adds course unless it is already selected. It reports whether the course was added.
func (w *Workspace) Select(course *models.Course, required bool) (*models.SelectedCourse, bool, error) {
	if existing, ok := w.Find(course.ID); ok {
		return existing, false, nil
	}
	sc, err := models.NewSelectedCourse(course, required)
	if err != nil {
		return nil, false, err
	}
	w.selected = append(w.selected, sc)
	w.selectionsDirty = true
	return sc, true, nil
}

// Unselect removes a course and reports whether it was selected.
func (w *Workspace) Unselect(courseID string) bool {
	for i, sc := range w.selected {
		if sc.Course.ID == courseID {
			w.selected = append(w.selected[:i], w.selected[i+1:]...)
			w.selectionsDirty = true
			return true
		}
	}
	return false
}

// ClearSelections removes every selection.
func (w *Workspace) ClearSelections() {
	w.selected = nil
	w.selectionsDirty = true
}

// ReplaceSelections swaps in a new selection list.
func (w *Workspace) ReplaceSelections(selected []*models.SelectedCourse) {
	w.selected = selected
	w.selectionsDirty = true
}

// MarkSelectionsChanged schedules the selections for persistence.
func (w *Workspace) MarkSelectionsChanged() {
	w.selectionsDirty = true
}

// SelectionRecords renders the selections in their persisted form.
func (w *Workspace) SelectionRecords() []models.SelectionRecord {
	records := make([]models.SelectionRecord, 0, len(w.selected))
	for i, sc := range w.selected {
		record := models.SelectionRecord{
			ProfileID:  w.ProfileID,
			CourseID:   sc.Course.ID,
			IsRequired: sc.IsRequired,
			Position:   i,
		}
		if sc.HasSection() {
			number := sc.SelectedSection.Number
			computed := sc.SelectedSection.ComputedTerm
			record.SectionNumber = &number
			record.ComputedTerm = &computed
		}
		records = append(records, record)
	}
	return records
}

// WorkspaceService keeps one workspace per profile in memory, restoring from and persisting to the
// stores when they are configured.
type WorkspaceService struct {
	catalog    CatalogProvider
	detector   *conflict.Detector
	selections SelectionStore
	filters    FilterStateStore
	metrics    *MetricsService
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewWorkspaceService constructs the service. Nil stores disable persistence.
func NewWorkspaceService(catalog CatalogProvider, detector *conflict.Detector, selections SelectionStore, filters FilterStateStore, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *WorkspaceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &WorkspaceService{
		catalog:    catalog,
		detector:   detector,
		selections: selections,
		filters:    filters,
		metrics:    metrics,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Do runs fn with exclusive access to the profile's workspace, then persists whatever fn changed.
// Persistence failures are logged and retried on the next call.
func (s *WorkspaceService) Do(ctx context.Context, profileID string, fn func(*Workspace) error) error {
	if profileID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "profile id is required")
	}
	if s.currentCatalog() == nil {
		return appErrors.ErrCatalogUnavailable
	}
	ws := s.workspace(ctx, profileID)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.lastSeen = s.now()
	err := fn(ws)
	s.flush(ctx, ws)
	return err
}

// Len returns the number of workspaces in memory.
func (s *WorkspaceService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

// Relink rebinds every workspace to a freshly loaded catalog. Courses that disappeared are dropped;
// sections that disappeared are deselected.
func (s *WorkspaceService) Relink(ctx context.Context, catalog *models.Catalog) {
	s.mu.Lock()
	workspaces := make([]*Workspace, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		workspaces = append(workspaces, ws)
	}
	s.mu.Unlock()

	for _, ws := range workspaces {
		ws.mu.Lock()
		records := ws.SelectionRecords()
		selected, report := linkRecords(catalog, records)
		ws.selected = selected
		if report.dropped > 0 || report.cleared > 0 {
			ws.selectionsDirty = true
			s.logger.Info("workspace relinked",
				zap.String("profile_id", ws.ProfileID),
				zap.Int("dropped_courses", report.dropped),
				zap.Int("cleared_sections", report.cleared))
		}
		s.flush(ctx, ws)
		ws.mu.Unlock()
	}
}

// Sweep evicts workspaces idle for longer than the TTL and returns how many were removed.
func (s *WorkspaceService) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, ws := range s.workspaces {
		ws.mu.Lock()
		idle := ws.lastSeen.Before(cutoff)
		ws.mu.Unlock()
		if idle {
			delete(s.workspaces, id)
			removed++
		}
	}
	s.metrics.SetWorkspaces(len(s.workspaces))
	return removed
}

// Run sweeps idle workspaces every interval until ctx is cancelled.
func (s *WorkspaceService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Info("evicted idle workspaces", zap.Int("count", removed))
			}
		}
	}
}

func (s *WorkspaceService) workspace(ctx context.Context, profileID string) *Workspace {
	s.mu.Lock()
	ws, ok := s.workspaces[profileID]
	s.mu.Unlock()
	if ok {
		return ws
	}

	fresh := s.newWorkspace(ctx, profileID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.workspaces[profileID]; ok {
		return ws
	}
	s.workspaces[profileID] = fresh
	s.metrics.SetWorkspaces(len(s.workspaces))
	return fresh
}

func (s *WorkspaceService) newWorkspace(ctx context.Context, profileID string) *Workspace {
	logger := s.logger.With(zap.String("profile_id", profileID))
	ws := &Workspace{
		ProfileID: profileID,
		courses:   NewCourseFilterService(s.detector, logger),
		schedule:  NewScheduleFilterService(s.detector, logger),
		lastSeen:  s.now(),
		pending:   make(map[models.FilterScope][]byte),
	}
	s.restore(ctx, ws)

	if s.filters != nil {
		ws.courses.AddListener(func(models.FilterEvent) {
			s.capture(ws, models.FilterScopeCatalog, ws.courses, CatalogPersistExclude...)
		})
		ws.schedule.AddListener(func(models.FilterEvent) {
			s.capture(ws, models.FilterScopeSchedule, ws.schedule)
		})
	}
	return ws
}

func (s *WorkspaceService) capture(ws *Workspace, scope models.FilterScope, engine FilterScopeEngine, exclude ...string) {
	data, err := engine.Serialize(exclude...)
	if err != nil {
		s.logger.Warn("filter state not serializable", zap.String("profile_id", ws.ProfileID), zap.String("scope", string(scope)), zap.Error(err))
		return
	}
	ws.pending[scope] = data
}

func (s *WorkspaceService) restore(ctx context.Context, ws *Workspace) {
	if s.selections != nil {
		start := time.Now()
		records, err := s.selections.ListByProfile(ctx, ws.ProfileID)
		s.metrics.ObserveDBQuery("list_selections", time.Since(start))
		if err != nil {
			s.logger.Warn("selections not restored", zap.String("profile_id", ws.ProfileID), zap.Error(err))
		} else if len(records) > 0 {
			selected, report := linkRecords(s.currentCatalog(), records)
			ws.selected = selected
			if report.repaired > 0 {
				s.logger.Info("data migration: repaired sections", zap.String("profile_id", ws.ProfileID), zap.Int("count", report.repaired))
			}
			ws.selectionsDirty = report.repaired > 0 || report.dropped > 0 || report.cleared > 0
		}
	}

	if s.filters == nil {
		return
	}
	for _, scope := range []models.FilterScope{models.FilterScopeCatalog, models.FilterScopeSchedule} {
		start := time.Now()
		record, err := s.filters.Get(ctx, ws.ProfileID, scope)
		s.metrics.ObserveDBQuery("get_filter_state", time.Since(start))
		if err != nil {
			if !errors.Is(err, appErrors.ErrNotFound) {
				s.logger.Warn("filter state not restored", zap.String("profile_id", ws.ProfileID), zap.String("scope", string(scope)), zap.Error(err))
			}
			continue
		}
		engine, _ := ws.Scope(scope)
		var skip []string
		if scope == models.FilterScopeCatalog {
			skip = CatalogPersistExclude
		}
		if !engine.Deserialize(record.Payload, skip...) {
			s.logger.Warn("discarding stored filter state", zap.String("profile_id", ws.ProfileID), zap.String("scope", string(scope)))
		}
	}
}

func (s *WorkspaceService) flush(ctx context.Context, ws *Workspace) {
	if ws.selectionsDirty && s.selections != nil {
		start := time.Now()
		err := s.selections.ReplaceAll(ctx, ws.ProfileID, ws.SelectionRecords())
		s.metrics.ObserveDBQuery("replace_selections", time.Since(start))
		if err != nil {
			s.logger.Warn("selections not persisted", zap.String("profile_id", ws.ProfileID), zap.Error(err))
		} else {
			ws.selectionsDirty = false
		}
	} else if s.selections == nil {
		ws.selectionsDirty = false
	}

	for scope, data := range ws.pending {
		if s.filters == nil {
			delete(ws.pending, scope)
			continue
		}
		start := time.Now()
		err := s.filters.Upsert(ctx, &models.FilterStateRecord{ProfileID: ws.ProfileID, Scope: scope, Payload: types.JSONText(data)})
		s.metrics.ObserveDBQuery("upsert_filter_state", time.Since(start))
		if err != nil {
			s.logger.Warn("filter state not persisted", zap.String("profile_id", ws.ProfileID), zap.String("scope", string(scope)), zap.Error(err))
			continue
		}
		delete(ws.pending, scope)
	}
}

func (s *WorkspaceService) currentCatalog() *models.Catalog {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Catalog()
}

type linkReport struct {
	dropped  int
	cleared  int
	repaired int
}

// linkRecords resolves stored selections against catalog by course id and section number.
func linkRecords(catalog *models.Catalog, records []models.SelectionRecord) ([]*models.SelectedCourse, linkReport) {
	var report linkReport
	selected := make([]*models.SelectedCourse, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if _, dup := seen[record.CourseID]; dup {
			continue
		}
		course, ok := catalog.Course(record.CourseID)
		if !ok {
			report.dropped++
			continue
		}
		seen[record.CourseID] = struct{}{}
		sc, err := models.NewSelectedCourse(course, record.IsRequired)
		if err != nil {
			report.dropped++
			continue
		}
		if record.SectionNumber != nil {
			if err := sc.SelectSection(record.SectionNumber); err != nil {
				report.cleared++
			} else if record.ComputedTerm == nil || term.NeedsRepair(*record.ComputedTerm) {
				report.repaired++
			}
		}
		selected = append(selected, sc)
	}
	return selected, report
}
