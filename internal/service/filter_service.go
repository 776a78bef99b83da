package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/dto"
	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

const defaultCoursePageSize = 25

// FilterService exposes both filter scopes of a profile's workspace and the filtered views they
// produce.
type FilterService struct {
	workspaces *WorkspaceService
	catalog    CatalogProvider
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewFilterService constructs the service. cache and metrics may be nil.
func NewFilterService(workspaces *WorkspaceService, catalog CatalogProvider, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *FilterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterService{workspaces: workspaces, catalog: catalog, cache: cache, metrics: metrics, logger: logger}
}

// State describes the active and registered filters of scope.
func (s *FilterService) State(ctx context.Context, profileID string, scope models.FilterScope) (*dto.FilterStateResponse, error) {
	var out *dto.FilterStateResponse
	err := s.withScope(ctx, profileID, scope, func(_ *Workspace, engine FilterScopeEngine) error {
		out = stateResponse(scope, engine)
		return nil
	})
	return out, err
}

// Add activates a filter.
func (s *FilterService) Add(ctx context.Context, profileID string, scope models.FilterScope, id string, criteria json.RawMessage) (*dto.FilterStateResponse, error) {
	return s.mutate(ctx, profileID, scope, "add", func(engine FilterScopeEngine) error {
		return engine.Add(id, criteria)
	})
}

// Update replaces the criteria of an active filter.
func (s *FilterService) Update(ctx context.Context, profileID string, scope models.FilterScope, id string, criteria json.RawMessage) (*dto.FilterStateResponse, error) {
	return s.mutate(ctx, profileID, scope, "update", func(engine FilterScopeEngine) error {
		return engine.Update(id, criteria)
	})
}

// Remove deactivates a filter.
func (s *FilterService) Remove(ctx context.Context, profileID string, scope models.FilterScope, id string) (*dto.FilterStateResponse, error) {
	return s.mutate(ctx, profileID, scope, "remove", func(engine FilterScopeEngine) error {
		if !engine.Remove(id) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("filter %s is not active", id))
		}
		return nil
	})
}

// Clear deactivates every filter of scope.
func (s *FilterService) Clear(ctx context.Context, profileID string, scope models.FilterScope) (*dto.FilterStateResponse, error) {
	return s.mutate(ctx, profileID, scope, "clear", func(engine FilterScopeEngine) error {
		engine.Clear()
		return nil
	})
}

// Toggle flips a filter on or off.
func (s *FilterService) Toggle(ctx context.Context, profileID string, scope models.FilterScope, id string, criteria json.RawMessage) (*dto.ToggleFilterResponse, error) {
	out := &dto.ToggleFilterResponse{ID: id}
	_, err := s.mutate(ctx, profileID, scope, "toggle", func(engine FilterScopeEngine) error {
		active, err := engine.Toggle(id, criteria)
		out.Active = active
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Options lists the choices for a filter. Catalog options come from the whole catalog, schedule
// options from the selected courses.
func (s *FilterService) Options(ctx context.Context, profileID string, scope models.FilterScope, id string) ([]models.FilterOption, error) {
	var out []models.FilterOption
	err := s.withScope(ctx, profileID, scope, func(ws *Workspace, _ FilterScopeEngine) error {
		var err error
		switch scope {
		case models.FilterScopeCatalog:
			out, err = ws.CourseFilters().Options(id, s.catalog.Catalog().Courses())
		default:
			out, err = ws.ScheduleFilters().Options(id, ws.Selected())
		}
		return err
	})
	return out, err
}

// ExportState returns the serialized state of scope.
func (s *FilterService) ExportState(ctx context.Context, profileID string, scope models.FilterScope) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.withScope(ctx, profileID, scope, func(_ *Workspace, engine FilterScopeEngine) error {
		data, err := engine.Serialize()
		out = data
		return err
	})
	return out, err
}

// ImportState replaces the state of scope with a serialized payload. Malformed payloads leave the
// state untouched.
func (s *FilterService) ImportState(ctx context.Context, profileID string, scope models.FilterScope, data []byte) (*dto.FilterStateResponse, error) {
	return s.mutate(ctx, profileID, scope, "import", func(engine FilterScopeEngine) error {
		if !engine.Deserialize(data) {
			return appErrors.Clone(appErrors.ErrValidation, "malformed filter state")
		}
		return nil
	})
}

// ListCourses returns one page of the catalog filtered by the profile's catalog filters. Pages are
// cached per catalog version and filter fingerprint.
func (s *FilterService) ListCourses(ctx context.Context, profileID string, page, pageSize int) ([]*models.Course, *models.Pagination, bool, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultCoursePageSize
	}
	catalog := s.catalog.Catalog()
	if catalog == nil {
		return nil, nil, false, appErrors.ErrCatalogUnavailable
	}

	var (
		result   CatalogPage
		cacheHit bool
	)
	err := s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		fingerprint, err := catalogFingerprint(ws)
		if err != nil {
			return err
		}
		key := PageKey{Version: catalog.Version, Fingerprint: fingerprint, Page: page, PageSize: pageSize}
		if result, cacheHit = s.cache.Page(ctx, key); cacheHit {
			return nil
		}

		filtered := ws.CourseFilters().FilterCourses(catalog.Courses(), ws.Selected())
		result = CatalogPage{Total: len(filtered), IDs: []string{}}
		// Compare page indexes before multiplying so huge page numbers cannot overflow.
		pages := len(filtered) / pageSize
		if len(filtered)%pageSize != 0 {
			pages++
		}
		if page-1 < pages {
			start := (page - 1) * pageSize
			end := len(filtered)
			if pageSize < end-start {
				end = start + pageSize
			}
			for _, course := range filtered[start:end] {
				result.IDs = append(result.IDs, course.ID)
			}
		}
		s.cache.StorePage(ctx, key, result)
		return nil
	})
	if err != nil {
		return nil, nil, false, err
	}

	courses := make([]*models.Course, 0, len(result.IDs))
	for _, id := range result.IDs {
		if course, ok := catalog.Course(id); ok {
			courses = append(courses, course)
		}
	}
	return courses, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: result.Total}, cacheHit, nil
}

// ScheduleSections returns the sections of the selected courses that pass the schedule filters.
func (s *FilterService) ScheduleSections(ctx context.Context, profileID string) ([]models.SectionContext, error) {
	var out []models.SectionContext
	err := s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		out = ws.ScheduleFilters().FilterSections(ws.SelectedSnapshot())
		return nil
	})
	return out, err
}

// SchedulePeriods returns the periods of the selected courses that pass the schedule filters.
func (s *FilterService) SchedulePeriods(ctx context.Context, profileID string) ([]models.PeriodContext, error) {
	var out []models.PeriodContext
	err := s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		out = ws.ScheduleFilters().FilterPeriods(ws.SelectedSnapshot())
		return nil
	})
	return out, err
}

// ScheduleCourses returns the selected courses that keep at least one period under the schedule
// filters.
func (s *FilterService) ScheduleCourses(ctx context.Context, profileID string) ([]*models.SelectedCourse, error) {
	var out []*models.SelectedCourse
	err := s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		out = ws.ScheduleFilters().FilterSelectedCourses(ws.SelectedSnapshot())
		return nil
	})
	return out, err
}

func (s *FilterService) withScope(ctx context.Context, profileID string, scope models.FilterScope, fn func(*Workspace, FilterScopeEngine) error) error {
	if !scope.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown filter scope %q", scope))
	}
	return s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		engine, err := ws.Scope(scope)
		if err != nil {
			return err
		}
		return fn(ws, engine)
	})
}

func (s *FilterService) mutate(ctx context.Context, profileID string, scope models.FilterScope, operation string, fn func(FilterScopeEngine) error) (*dto.FilterStateResponse, error) {
	var out *dto.FilterStateResponse
	err := s.withScope(ctx, profileID, scope, func(_ *Workspace, engine FilterScopeEngine) error {
		if err := fn(engine); err != nil {
			return err
		}
		out = stateResponse(scope, engine)
		return nil
	})
	s.metrics.RecordFilterOperation(scope, operation, err)
	if err != nil {
		s.logger.Debug("filter operation rejected",
			zap.String("profile_id", profileID),
			zap.String("scope", string(scope)),
			zap.String("operation", operation),
			zap.Error(err))
		return nil, err
	}
	return out, nil
}

func stateResponse(scope models.FilterScope, engine FilterScopeEngine) *dto.FilterStateResponse {
	return &dto.FilterStateResponse{
		Scope:      scope,
		Active:     engine.Active(),
		Registered: engine.Descriptors(),
		Summary:    engine.Summary(),
		Count:      engine.Count(),
	}
}

// catalogFingerprint hashes everything the catalog filters read: their state and the selections
// the availability filter checks against.
func catalogFingerprint(ws *Workspace) (string, error) {
	state, err := ws.CourseFilters().Serialize()
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write(state)
	for _, sc := range ws.Selected() {
		h.Write([]byte{0})
		h.Write([]byte(sc.Course.ID))
		h.Write([]byte{':'})
		h.Write([]byte(sc.SectionNumber()))
		h.Write([]byte(strconv.FormatBool(sc.IsRequired)))
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}
