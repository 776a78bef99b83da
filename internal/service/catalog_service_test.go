package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

const catalogFeedDoc = `{"generated":"2026-08-01T00:00:00Z","departments":[
{"abbreviation":"CS","name":"Computer Science","courses":[
  {"id":"CS-1101","number":"1101","name":"Intro","description":"<p>Program <b>design</b></p>\n  basics","min_credits":1,"max_credits":1,"sections":[
    {"crn":1001,"number":"B01","seats":30,"seats_available":4,"term":"B Term","computedTerm":"undefined","periods":[
      {"professor":"Ada","start_time":"09:00","end_time":"09:50","days":["mon","Wednesday","xyz"]},
      {"type":"Lab","professor":"Ada","start_time":"TBA","end_time":"25:99","days":["fri"]}]}]},
  {"id":"CS-1101","number":"1101","name":"Duplicate","sections":[]}]}]}`

type stubFeed struct {
	mu   sync.Mutex
	data []byte
	err  error
}

func (f *stubFeed) Fetch(context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data, f.err
}

func (f *stubFeed) Source() string { return "stub://feed" }

type stubSnapshots struct {
	saved []*models.CatalogSnapshot
}

func (s *stubSnapshots) Save(_ context.Context, snapshot *models.CatalogSnapshot) error {
	s.saved = append(s.saved, snapshot)
	return nil
}

func (s *stubSnapshots) Latest(context.Context) (*models.CatalogSnapshot, error) {
	if len(s.saved) == 0 {
		return nil, appErrors.ErrNotFound
	}
	return s.saved[len(s.saved)-1], nil
}

func TestCatalogLoadNormalisesFeed(t *testing.T) {
	snapshots := &stubSnapshots{}
	svc := NewCatalogService(&stubFeed{data: []byte(catalogFeedDoc)}, snapshots, NewMetricsService(), zap.NewNop())
	var reloaded []string
	svc.OnReload(func(_ context.Context, c *models.Catalog) { reloaded = append(reloaded, c.Version) })

	_, err := svc.Courses()
	assert.True(t, errors.Is(err, appErrors.ErrCatalogUnavailable))

	require.NoError(t, svc.Load(context.Background()))
	require.True(t, svc.Ready())
	assert.Len(t, svc.Version(), 12)
	assert.Equal(t, []string{svc.Version()}, reloaded)
	require.Len(t, snapshots.saved, 1)

	courses, err := svc.Courses()
	require.NoError(t, err)
	require.Len(t, courses, 1, "duplicate ids are dropped")
	course := courses[0]
	assert.Equal(t, "Program design basics", course.Description)
	assert.Equal(t, "CS", course.DepartmentAbbreviation())

	section := course.Sections[0]
	assert.Equal(t, "B", section.ComputedTerm)
	lecture, lab := section.Periods[0], section.Periods[1]
	assert.Equal(t, "Lecture", lecture.Type)
	assert.Equal(t, 540, lecture.StartTime.MinuteOfDay())
	assert.Equal(t, "9:00 AM", lecture.StartTime.Label())
	assert.Equal(t, models.NewDaySet(models.Monday, models.Wednesday), lecture.Days)
	assert.Equal(t, "TBD", lab.StartTime.Label())
	assert.Equal(t, "25:99", lab.EndTime.Label())

	_, err = svc.Course("MA-9999")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCatalogLoadFallsBackToSnapshot(t *testing.T) {
	snapshots := &stubSnapshots{}
	feed := &stubFeed{data: []byte(catalogFeedDoc)}
	require.NoError(t, NewCatalogService(feed, snapshots, nil, nil).Load(context.Background()))

	offline := &stubFeed{err: errors.New("connection refused")}
	svc := NewCatalogService(offline, snapshots, nil, zap.NewNop())
	require.NoError(t, svc.Load(context.Background()))
	assert.True(t, svc.Ready())
	assert.Equal(t, snapshots.saved[0].Version, svc.Version())

	err := svc.Load(context.Background())
	require.Error(t, err, "a loaded catalog is kept when the feed fails")
	assert.True(t, errors.Is(err, appErrors.ErrCatalogUnavailable))
	assert.True(t, svc.Ready())
}

func TestCatalogLoadFailsWithoutFeedOrSnapshot(t *testing.T) {
	svc := NewCatalogService(&stubFeed{data: []byte(`{"departments":`)}, &stubSnapshots{}, nil, zap.NewNop())
	err := svc.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCatalogUnavailable))
	assert.False(t, svc.Ready())
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "a b", StripHTML("  a \n b "))
	assert.Equal(t, "Tom & Jerry", StripHTML("Tom &amp; <i>Jerry</i>"))
	assert.Equal(t, "", StripHTML(""))
}
