package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	hits    int
}

func newMemoryCache() *memoryCache { return &memoryCache{entries: make(map[string][]byte)} }

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	data, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	m.hits++
	return json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = data
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, _ string) error {
	m.mu.Lock()
	m.entries = make(map[string][]byte)
	m.mu.Unlock()
	return nil
}

func newFilterServiceForTest() (*FilterService, *SelectionService, *memoryCache, *plannerFixture) {
	f := newPlannerFixture()
	store := newMemoryCache()
	metrics := NewMetricsService()
	cache := NewCacheService(store, metrics, time.Minute, zap.NewNop(), true)
	filters := NewFilterService(f.workspaces, f.catalog, cache, metrics, zap.NewNop())
	selections := NewSelectionService(f.workspaces, f.catalog, f.detector, zap.NewNop())
	return filters, selections, store, f
}

func TestFilterServiceMutations(t *testing.T) {
	svc, _, _, _ := newFilterServiceForTest()
	ctx := context.Background()
	scope := models.FilterScopeCatalog

	state, err := svc.Add(ctx, "p1", scope, "department", json.RawMessage(`{"departments":["CS"]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)
	assert.Equal(t, "1 filter: Department: CS", state.Summary)
	assert.NotEmpty(t, state.Registered)

	_, err = svc.Add(ctx, "p1", scope, "department", json.RawMessage(`{"departments":"CS"}`))
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCriteria))

	_, err = svc.Update(ctx, "p1", scope, "professor", json.RawMessage(`{"professors":["Smith"]}`))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	toggled, err := svc.Toggle(ctx, "p1", scope, "department", nil)
	require.NoError(t, err)
	assert.False(t, toggled.Active)

	_, err = svc.Remove(ctx, "p1", scope, "department")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.State(ctx, "p1", models.FilterScope("elsewhere"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	state, err = svc.Clear(ctx, "p1", models.FilterScopeSchedule)
	require.NoError(t, err)
	assert.Equal(t, "No filters active", state.Summary)
}

func TestFilterServiceStateRoundTrip(t *testing.T) {
	svc, _, _, _ := newFilterServiceForTest()
	ctx := context.Background()
	scope := models.FilterScopeSchedule

	_, err := svc.Add(ctx, "p1", scope, "periodDays", json.RawMessage(`{"days":["fri"]}`))
	require.NoError(t, err)
	blob, err := svc.ExportState(ctx, "p1", scope)
	require.NoError(t, err)

	state, err := svc.ImportState(ctx, "p2", scope, blob)
	require.NoError(t, err)
	require.Len(t, state.Active, 1)
	assert.Equal(t, "periodDays", state.Active[0].ID)

	_, err = svc.ImportState(ctx, "p2", scope, []byte(`{"filters":`))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	state, _ = svc.State(ctx, "p2", scope)
	assert.Equal(t, 1, state.Count)
}

func TestFilterServiceOptions(t *testing.T) {
	svc, selections, _, _ := newFilterServiceForTest()
	ctx := context.Background()

	options, err := svc.Options(ctx, "p1", models.FilterScopeCatalog, "department")
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, models.FilterOption{Value: "CS", Label: "Computer Science", Count: 2}, options[0])

	_, err = selections.SelectCourse(ctx, "p1", "MA-1021", false)
	require.NoError(t, err)
	options, err = svc.Options(ctx, "p1", models.FilterScopeSchedule, "courseSelection")
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "MA1021 - Applied Calculus", options[0].Label)

	_, err = svc.Options(ctx, "p1", models.FilterScopeCatalog, "ghost")
	assert.True(t, errors.Is(err, appErrors.ErrUnknownFilter))
}

func TestListCoursesPaginatesAndCaches(t *testing.T) {
	svc, _, store, _ := newFilterServiceForTest()
	ctx := context.Background()

	courses, page, hit, err := svc.ListCourses(ctx, "p1", 1, 2)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, courses, 2)
	assert.Equal(t, "CS-1101", courses[0].ID)

	courses, _, hit, err = svc.ListCourses(ctx, "p1", 1, 2)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, courses, 2)
	assert.Equal(t, 1, store.hits)

	_, err = svc.Add(ctx, "p1", models.FilterScopeCatalog, "department", json.RawMessage(`{"departments":["MA"]}`))
	require.NoError(t, err)
	courses, page, _, err = svc.ListCourses(ctx, "p1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, courses, 1)
	assert.Equal(t, "MA-1021", courses[0].ID)
	assert.Equal(t, 1, store.hits, "new filter state misses the cache")

	courses, page, _, err = svc.ListCourses(ctx, "p1", 5, 2)
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.Equal(t, 5, page.Page)
}

func TestListCoursesHugePagesReturnEmpty(t *testing.T) {
	svc, _, _, _ := newFilterServiceForTest()
	ctx := context.Background()

	courses, page, _, err := svc.ListCourses(ctx, "p1", (1<<62)+1, 2)
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.Equal(t, 3, page.TotalCount)

	courses, _, _, err = svc.ListCourses(ctx, "p1", 1, math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, courses, 3)

	courses, _, _, err = svc.ListCourses(ctx, "p1", math.MaxInt, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestScheduleViewsApplyScheduleFilters(t *testing.T) {
	svc, selections, _, _ := newFilterServiceForTest()
	ctx := context.Background()

	_, _ = selections.SelectCourse(ctx, "p1", "CS-1101", false)
	_, _ = selections.SelectCourse(ctx, "p1", "MA-1021", false)

	sections, err := svc.ScheduleSections(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, sections, 4)

	_, err = svc.Add(ctx, "p1", models.FilterScopeSchedule, "periodDays", json.RawMessage(`{"days":["mon","tue"]}`))
	require.NoError(t, err)

	sections, err = svc.ScheduleSections(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "CL01", sections[0].Section.Number)

	periods, err := svc.SchedulePeriods(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, periods, 1)

	courses, err := svc.ScheduleCourses(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "MA-1021", courses[0].Course.ID)
}
