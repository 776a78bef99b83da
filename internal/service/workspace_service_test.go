package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/filter"
	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

func TestWorkspaceDoRequiresProfileAndCatalog(t *testing.T) {
	f := newPlannerFixture()
	err := f.workspaces.Do(context.Background(), "", func(*Workspace) error { return nil })
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	f.catalog.set(nil)
	err = f.workspaces.Do(context.Background(), "p1", func(*Workspace) error { return nil })
	assert.True(t, errors.Is(err, appErrors.ErrCatalogUnavailable))
	assert.Zero(t, f.workspaces.Len())
}

func TestWorkspacePersistsSelectionsAndFilterState(t *testing.T) {
	f := newPlannerFixture()
	ctx := context.Background()
	course, _ := f.catalog.Course("CS-1101")

	err := f.workspaces.Do(ctx, "p1", func(ws *Workspace) error {
		sc, added, err := ws.Select(course, true)
		require.NoError(t, err)
		assert.True(t, added)
		require.NoError(t, sc.SelectSection(stringPtr("AL01")))
		require.NoError(t, ws.CourseFilters().Add(filter.SearchTextID, json.RawMessage(`{"query":"intro"}`)))
		require.NoError(t, ws.CourseFilters().Add("term", json.RawMessage(`{"terms":["A"]}`)))
		return ws.ScheduleFilters().Add("periodDays", json.RawMessage(`{"days":["fri"]}`))
	})
	require.NoError(t, err)

	records, _ := f.selections.ListByProfile(ctx, "p1")
	require.Len(t, records, 1)
	assert.Equal(t, "CS-1101", records[0].CourseID)
	assert.Equal(t, "AL01", *records[0].SectionNumber)
	assert.Equal(t, "A", *records[0].ComputedTerm)
	assert.True(t, records[0].IsRequired)

	catalogState := f.filters.payload("p1", models.FilterScopeCatalog)
	assert.Contains(t, catalogState, `"term"`)
	assert.NotContains(t, catalogState, "intro", "search text is not persisted")
	assert.Contains(t, f.filters.payload("p1", models.FilterScopeSchedule), "periodDays")
}

func TestWorkspaceRestoresFromStores(t *testing.T) {
	f := newPlannerFixture()
	ctx := context.Background()
	f.selections.records["p2"] = []models.SelectionRecord{
		{ProfileID: "p2", CourseID: "MA-1021", SectionNumber: stringPtr("CL01"), ComputedTerm: stringPtr("unknown"), Position: 0},
		{ProfileID: "p2", CourseID: "GONE-1", Position: 1},
		{ProfileID: "p2", CourseID: "CS-2011", IsRequired: true, Position: 2},
	}
	f.filters.states["p2/catalog"] = []byte(`{"filters":[
		{"id":"department","name":"Department","criteria":{"departments":["CS"]},"displayValue":""},
		{"id":"professor","name":"Professor","criteria":{"professors":["Walker"]},"displayValue":""}
	]}`)

	var selected []*models.SelectedCourse
	var active []models.ActiveFilter
	require.NoError(t, f.workspaces.Do(ctx, "p2", func(ws *Workspace) error {
		selected = ws.SelectedSnapshot()
		active = ws.CourseFilters().Active()
		return nil
	}))

	require.Len(t, selected, 2)
	assert.Equal(t, "MA-1021", selected[0].Course.ID)
	assert.Equal(t, "CL01", selected[0].SectionNumber())
	assert.Equal(t, "CS-2011", selected[1].Course.ID)
	require.Len(t, active, 1, "department is never restored")
	assert.Equal(t, "professor", active[0].ID)

	records, _ := f.selections.ListByProfile(ctx, "p2")
	require.Len(t, records, 2, "repaired records are written back")
	assert.Equal(t, "C", *records[0].ComputedTerm)
}

func TestWorkspaceRelinkDropsMissingCourses(t *testing.T) {
	f := newPlannerFixture()
	ctx := context.Background()
	intro, _ := f.catalog.Course("CS-1101")
	calc, _ := f.catalog.Course("MA-1021")
	require.NoError(t, f.workspaces.Do(ctx, "p1", func(ws *Workspace) error {
		sc, _, _ := ws.Select(intro, false)
		_ = sc.SelectSection(stringPtr("BL01"))
		_, _, err := ws.Select(calc, false)
		return err
	}))

	next := fixtureCatalog()
	next.Version = "v2"
	cs := next.Departments[0]
	cs.Courses[0].Sections = cs.Courses[0].Sections[:1]
	next = models.NewCatalog([]*models.Department{cs})
	f.catalog.set(next)
	f.workspaces.Relink(ctx, next)

	require.NoError(t, f.workspaces.Do(ctx, "p1", func(ws *Workspace) error {
		require.Len(t, ws.Selected(), 1)
		sc := ws.Selected()[0]
		assert.Same(t, next.Departments[0].Courses[0], sc.Course)
		assert.False(t, sc.HasSection(), "BL01 disappeared")
		return nil
	}))
}

func TestWorkspaceSweepEvictsIdleProfiles(t *testing.T) {
	f := newPlannerFixture()
	svc := NewWorkspaceService(f.catalog, f.detector, nil, nil, nil, time.Minute, zap.NewNop())
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.Do(context.Background(), "old", func(*Workspace) error { return nil }))
	now = now.Add(2 * time.Minute)
	require.NoError(t, svc.Do(context.Background(), "fresh", func(*Workspace) error { return nil }))

	assert.Equal(t, 1, svc.Sweep())
	assert.Equal(t, 1, svc.Len())
}

func TestWorkspaceRetriesFailedPersistence(t *testing.T) {
	f := newPlannerFixture()
	ctx := context.Background()
	course, _ := f.catalog.Course("CS-2011")
	f.selections.err = errors.New("db down")

	require.NoError(t, f.workspaces.Do(ctx, "p1", func(ws *Workspace) error {
		_, _, err := ws.Select(course, false)
		return err
	}))
	assert.Zero(t, f.selections.replaces)

	f.selections.err = nil
	require.NoError(t, f.workspaces.Do(ctx, "p1", func(*Workspace) error { return nil }))
	assert.Equal(t, 1, f.selections.replaces)
}
