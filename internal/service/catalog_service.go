package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/dto"
	"github.com/noah-isme/course-planner-api/internal/models"
	"github.com/noah-isme/course-planner-api/internal/repository"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

const defaultPeriodType = "Lecture"

// CatalogFeed fetches the raw course data document.
type CatalogFeed interface {
	Fetch(ctx context.Context) ([]byte, error)
	Source() string
}

// CatalogSnapshotStore keeps the last good feed documents.
type CatalogSnapshotStore interface {
	Save(ctx context.Context, snapshot *models.CatalogSnapshot) error
	Latest(ctx context.Context) (*models.CatalogSnapshot, error)
}

// ReloadHook runs after a new catalog has been published.
type ReloadHook func(ctx context.Context, catalog *models.Catalog)

// CatalogService owns the current catalog snapshot. Readers receive an immutable *models.Catalog;
// reloads swap it atomically.
type CatalogService struct {
	feed      CatalogFeed
	snapshots CatalogSnapshotStore
	metrics   *MetricsService
	logger    *zap.Logger

	mu      sync.RWMutex
	catalog *models.Catalog
	hooks   []ReloadHook
}

// NewCatalogService constructs the service. snapshots and metrics may be nil.
func NewCatalogService(feed CatalogFeed, snapshots CatalogSnapshotStore, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{feed: feed, snapshots: snapshots, metrics: metrics, logger: logger}
}

// OnReload registers a hook that runs after every successful load.
func (s *CatalogService) OnReload(hook ReloadHook) {
	s.mu.Lock()
	s.hooks = append(s.hooks, hook)
	s.mu.Unlock()
}

// Load fetches and publishes the feed. When the feed cannot be used and nothing is loaded yet, the
// newest local snapshot is published instead.
func (s *CatalogService) Load(ctx context.Context) error {
	raw, err := s.fetch(ctx)
	if err == nil {
		var catalog *models.Catalog
		catalog, err = s.build(raw, s.feed.Source(), time.Now().UTC())
		if err == nil {
			s.metrics.RecordCatalogLoad("feed", catalog.Version, len(catalog.Courses()), nil)
			s.storeSnapshot(ctx, catalog, raw)
			s.publish(ctx, catalog)
			return nil
		}
	}
	s.metrics.RecordCatalogLoad("feed", "", 0, err)
	s.logger.Warn("catalog feed unavailable", zap.String("source", s.source()), zap.Error(err))

	if s.Ready() {
		return appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "catalog feed unavailable, keeping current catalog")
	}
	if fallbackErr := s.loadSnapshot(ctx); fallbackErr != nil {
		s.logger.Error("catalog snapshot unavailable", zap.Error(fallbackErr))
		return appErrors.Wrap(errors.Join(err, fallbackErr), appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "catalog unavailable")
	}
	return nil
}

// Ready reports whether a catalog has been published.
func (s *CatalogService) Ready() bool {
	return s.Catalog() != nil
}

// Catalog returns the current snapshot or nil.
func (s *CatalogService) Catalog() *models.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Version returns the current catalog version or an empty string.
func (s *CatalogService) Version() string {
	if catalog := s.Catalog(); catalog != nil {
		return catalog.Version
	}
	return ""
}

// Departments lists departments in feed order.
func (s *CatalogService) Departments() ([]*models.Department, error) {
	catalog, err := s.require()
	if err != nil {
		return nil, err
	}
	return catalog.Departments, nil
}

// Courses lists every course in feed order.
func (s *CatalogService) Courses() ([]*models.Course, error) {
	catalog, err := s.require()
	if err != nil {
		return nil, err
	}
	return catalog.Courses(), nil
}

// Course looks up one course.
func (s *CatalogService) Course(id string) (*models.Course, error) {
	catalog, err := s.require()
	if err != nil {
		return nil, err
	}
	course, ok := catalog.Course(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s not found", id))
	}
	return course, nil
}

func (s *CatalogService) require() (*models.Catalog, error) {
	catalog := s.Catalog()
	if catalog == nil {
		return nil, appErrors.Clone(appErrors.ErrCatalogUnavailable, "catalog not loaded yet")
	}
	return catalog, nil
}

func (s *CatalogService) source() string {
	if s.feed == nil {
		return ""
	}
	return s.feed.Source()
}

func (s *CatalogService) fetch(ctx context.Context) ([]byte, error) {
	if s.feed == nil {
		return nil, fmt.Errorf("catalog feed not configured")
	}
	return s.feed.Fetch(ctx)
}

func (s *CatalogService) build(raw []byte, source string, fetchedAt time.Time) (*models.Catalog, error) {
	feed, err := repository.DecodeFeed(raw)
	if err != nil {
		return nil, err
	}
	catalog, stats := NormalizeFeed(feed, s.logger)
	catalog.Version = repository.FeedVersion(raw)
	catalog.Source = source
	catalog.FetchedAt = fetchedAt
	s.logger.Info("catalog normalised",
		zap.String("version", catalog.Version),
		zap.Int("departments", len(catalog.Departments)),
		zap.Int("courses", stats.Courses),
		zap.Int("sections", stats.Sections),
		zap.Int("repaired_terms", stats.RepairedTerms),
		zap.Int("invalid_times", stats.InvalidTimes),
		zap.Int("duplicate_courses", stats.DuplicateCourses),
	)
	return catalog, nil
}

func (s *CatalogService) storeSnapshot(ctx context.Context, catalog *models.Catalog, raw []byte) {
	if s.snapshots == nil {
		return
	}
	snapshot := &models.CatalogSnapshot{Version: catalog.Version, Source: catalog.Source, FetchedAt: catalog.FetchedAt, Payload: raw}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		s.logger.Warn("catalog snapshot not saved", zap.Error(err))
	}
}

func (s *CatalogService) loadSnapshot(ctx context.Context) error {
	if s.snapshots == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	snapshot, err := s.snapshots.Latest(ctx)
	if err != nil {
		s.metrics.RecordCatalogLoad("snapshot", "", 0, err)
		return err
	}
	catalog, err := s.build(snapshot.Payload, snapshot.Source, snapshot.FetchedAt)
	s.metrics.RecordCatalogLoad("snapshot", snapshot.Version, len(catalog.Courses()), err)
	if err != nil {
		return err
	}
	s.logger.Warn("serving catalog from local snapshot", zap.String("version", catalog.Version), zap.Time("fetched_at", snapshot.FetchedAt))
	s.publish(ctx, catalog)
	return nil
}

func (s *CatalogService) publish(ctx context.Context, catalog *models.Catalog) {
	s.mu.Lock()
	previous := s.catalog
	s.catalog = catalog
	hooks := append([]ReloadHook(nil), s.hooks...)
	s.mu.Unlock()

	if previous != nil && previous.Version == catalog.Version {
		s.logger.Debug("catalog unchanged", zap.String("version", catalog.Version))
	}
	for _, hook := range hooks {
		hook(ctx, catalog)
	}
}

// NormalizeStats counts what normalisation touched.
type NormalizeStats struct {
	Courses          int
	Sections         int
	RepairedTerms    int
	InvalidTimes     int
	DuplicateCourses int
}

// NormalizeFeed converts the wire feed into the catalog model: HTML is stripped from descriptions,
// clock strings are parsed, day codes become day sets and missing computed terms are derived.
func NormalizeFeed(feed *dto.CatalogFeed, logger *zap.Logger) (*models.Catalog, NormalizeStats) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var stats NormalizeStats
	seen := make(map[string]struct{})
	departments := make([]*models.Department, 0, len(feed.Departments))
	for _, fd := range feed.Departments {
		dept := &models.Department{Abbreviation: strings.TrimSpace(fd.Abbreviation), Name: strings.TrimSpace(fd.Name)}
		for _, fc := range fd.Courses {
			if _, dup := seen[fc.ID]; dup || fc.ID == "" {
				stats.DuplicateCourses++
				logger.Warn("skipping duplicate course", zap.String("course_id", fc.ID), zap.String("department", dept.Abbreviation))
				continue
			}
			seen[fc.ID] = struct{}{}
			course := &models.Course{
				ID:          fc.ID,
				Number:      fc.Number,
				Name:        fc.Name,
				Description: StripHTML(fc.Description),
				Department:  dept,
				MinCredits:  fc.MinCredits,
				MaxCredits:  fc.MaxCredits,
				Sections:    make([]*models.Section, 0, len(fc.Sections)),
			}
			for _, fs := range fc.Sections {
				section := normalizeSection(fs, &stats, logger)
				if section.RepairTerm() {
					stats.RepairedTerms++
				}
				course.Sections = append(course.Sections, section)
			}
			stats.Courses++
			stats.Sections += len(course.Sections)
			dept.Courses = append(dept.Courses, course)
		}
		departments = append(departments, dept)
	}

	catalog := models.NewCatalog(departments)
	if generated, err := time.Parse(time.RFC3339, feed.Generated); err == nil {
		catalog.Generated = generated
	} else {
		catalog.Generated = time.Now().UTC()
	}
	return catalog, stats
}

func normalizeSection(fs dto.FeedSection, stats *NormalizeStats, logger *zap.Logger) *models.Section {
	section := &models.Section{
		CRN:            fs.CRN,
		Number:         fs.Number,
		Seats:          fs.Seats,
		SeatsAvailable: fs.SeatsAvailable,
		ActualWaitlist: fs.ActualWaitlist,
		MaxWaitlist:    fs.MaxWaitlist,
		Description:    StripHTML(fs.Description),
		Note:           fs.Note,
		Term:           fs.Term,
		ComputedTerm:   fs.ComputedTerm,
		Periods:        make([]*models.Period, 0, len(fs.Periods)),
	}
	for _, fp := range fs.Periods {
		period := &models.Period{
			Type:            fp.Type,
			Professor:       fp.Professor,
			Building:        fp.Building,
			Room:            fp.Room,
			Location:        fp.Location,
			Seats:           fp.Seats,
			SeatsAvailable:  fp.SeatsAvailable,
			ActualWaitlist:  fp.ActualWaitlist,
			MaxWaitlist:     fp.MaxWaitlist,
			SpecificSection: fp.SpecificSection,
		}
		if period.Type == "" {
			period.Type = defaultPeriodType
		}
		period.StartTime = parseFeedClock(fp.StartTime, section, stats, logger)
		period.EndTime = parseFeedClock(fp.EndTime, section, stats, logger)
		for _, raw := range fp.Days {
			if day, ok := models.ParseDay(raw); ok {
				period.Days = period.Days.With(day)
			}
		}
		section.Periods = append(section.Periods, period)
	}
	return section
}

func parseFeedClock(raw string, section *models.Section, stats *NormalizeStats, logger *zap.Logger) models.Time {
	t, err := models.ParseClock(raw)
	if err != nil {
		stats.InvalidTimes++
		logger.Debug("unparseable period time", zap.Int("crn", section.CRN), zap.String("value", raw), zap.Error(err))
		return models.Time{DisplayTime: strings.TrimSpace(raw)}
	}
	return t
}

// StripHTML returns the visible text of an HTML fragment with whitespace collapsed.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
