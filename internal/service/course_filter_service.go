package service

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/conflict"
	"github.com/noah-isme/course-planner-api/internal/filter"
	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"github.com/noah-isme/course-planner-api/pkg/term"
)

// CatalogPersistExclude lists catalog filters that are never stored between sessions.
var CatalogPersistExclude = []string{filter.SearchTextID, "department"}

// CourseFilterService filters catalog courses through the registered course filters.
type CourseFilterService struct {
	*filter.Engine[filter.CourseFilter]
}

// NewCourseFilterService registers the catalog filters. The detector backs the availability
// filter's conflict checks and may be nil.
func NewCourseFilterService(detector *conflict.Detector, logger *zap.Logger) *CourseFilterService {
	engine := filter.NewEngine[filter.CourseFilter](logger)
	for _, f := range filter.CourseFilters(detector) {
		engine.Register(f)
	}
	return &CourseFilterService{Engine: engine}
}

// FilterCourses applies the active filters, search text first. selections feed the availability
// filter's conflict and term checks.
func (s *CourseFilterService) FilterCourses(courses []*models.Course, selections []*models.SelectedCourse) []*models.Course {
	if s.IsEmpty() {
		return courses
	}
	ordered := s.Ordered()
	ctx := &filter.Context{SelectedCourses: selections, Others: ordered}
	for _, applied := range ordered {
		if scoper, ok := applied.Filter.(filter.TermScoper); ok {
			ctx.ActiveTerms = append(ctx.ActiveTerms, scoper.ActiveTerms(applied.Criteria)...)
		}
	}

	result := courses
	for _, applied := range ordered {
		result = applied.Filter.Apply(result, applied.Criteria, ctx)
	}
	return result
}

// Options lists the values a client can pick for filterID across courses.
func (s *CourseFilterService) Options(filterID string, courses []*models.Course) ([]models.FilterOption, error) {
	if _, ok := s.Lookup(filterID); !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownFilter, fmt.Sprintf("filter %s is not registered", filterID))
	}
	counts := newOptionCounter()
	switch filterID {
	case "department":
		for _, course := range courses {
			counts.add(course.DepartmentAbbreviation(), course.DepartmentName())
		}
	case "professor":
		for _, course := range courses {
			seen := map[string]struct{}{}
			forEachPeriod(course, func(_ *models.Section, p *models.Period) {
				name := strings.TrimSpace(p.Professor)
				if _, dup := seen[name]; dup {
					return
				}
				seen[name] = struct{}{}
				counts.add(name, name)
			})
		}
	case "term":
		for _, course := range courses {
			seen := map[string]struct{}{}
			for _, section := range course.Sections {
				letter := term.Normalize(section.ComputedTerm)
				if _, dup := seen[letter]; dup || letter == "" {
					continue
				}
				seen[letter] = struct{}{}
				counts.add(letter, term.FormatName(letter))
			}
		}
	case "location":
		for _, course := range courses {
			seen := map[string]struct{}{}
			forEachPeriod(course, func(_ *models.Section, p *models.Period) {
				building := strings.TrimSpace(p.Building)
				if _, dup := seen[building]; dup {
					return
				}
				seen[building] = struct{}{}
				counts.add(building, building)
			})
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("filter %s has no option list", filterID))
	}
	return counts.sorted(), nil
}

func forEachPeriod(course *models.Course, fn func(*models.Section, *models.Period)) {
	for _, section := range course.Sections {
		if section == nil {
			continue
		}
		for _, period := range section.Periods {
			if period != nil {
				fn(section, period)
			}
		}
	}
}

// optionCounter accumulates distinct non-empty values with how often they were seen.
type optionCounter struct {
	options map[string]*models.FilterOption
}

func newOptionCounter() *optionCounter {
	return &optionCounter{options: make(map[string]*models.FilterOption)}
}

func (c *optionCounter) add(value, label string) {
	if value == "" {
		return
	}
	if opt, ok := c.options[value]; ok {
		opt.Count++
		return
	}
	if label == "" {
		label = value
	}
	c.options[value] = &models.FilterOption{Value: value, Label: label, Count: 1}
}

func (c *optionCounter) sorted() []models.FilterOption {
	out := make([]models.FilterOption, 0, len(c.options))
	for _, opt := range c.options {
		out = append(out, *opt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
