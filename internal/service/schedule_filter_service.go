package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/conflict"
	"github.com/noah-isme/course-planner-api/internal/filter"
	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

// ScheduleFilterService narrows the sections and periods of the selected courses.
type ScheduleFilterService struct {
	*filter.Engine[filter.SectionFilter]
}

// NewScheduleFilterService registers the schedule filters. A nil detector leaves the conflict
// filter inert.
func NewScheduleFilterService(detector *conflict.Detector, logger *zap.Logger) *ScheduleFilterService {
	engine := filter.NewEngine[filter.SectionFilter](logger)
	for _, f := range filter.ScheduleFilters(detector) {
		engine.Register(f)
	}
	return &ScheduleFilterService{Engine: engine}
}

// SectionsWithContext expands every section of every selected course, in selection order.
func (s *ScheduleFilterService) SectionsWithContext(selected []*models.SelectedCourse) []models.SectionContext {
	items := make([]models.SectionContext, 0)
	for _, sc := range selected {
		if sc == nil || sc.Course == nil {
			continue
		}
		for _, section := range sc.Course.Sections {
			items = append(items, models.SectionContext{Course: sc, Section: section})
		}
	}
	return items
}

// PeriodsWithContext expands every period of every section of every selected course.
func (s *ScheduleFilterService) PeriodsWithContext(selected []*models.SelectedCourse) []models.PeriodContext {
	items := make([]models.PeriodContext, 0)
	for _, sc := range s.SectionsWithContext(selected) {
		if sc.Section == nil {
			continue
		}
		for _, period := range sc.Section.Periods {
			if period == nil {
				continue
			}
			items = append(items, models.PeriodContext{Course: sc.Course, Section: sc.Section, Period: period})
		}
	}
	return items
}

// FilterSections applies the active filters at section granularity.
func (s *ScheduleFilterService) FilterSections(selected []*models.SelectedCourse) []models.SectionContext {
	items := s.SectionsWithContext(selected)
	if s.IsEmpty() {
		return items
	}
	ordered, ctx := s.prepare(selected)
	for _, applied := range ordered {
		items = applied.Filter.ApplySections(items, applied.Criteria, ctx)
	}
	return items
}

// FilterPeriods applies the active filters at period granularity.
func (s *ScheduleFilterService) FilterPeriods(selected []*models.SelectedCourse) []models.PeriodContext {
	items := s.PeriodsWithContext(selected)
	if s.IsEmpty() {
		return items
	}
	ordered, ctx := s.prepare(selected)
	for _, applied := range ordered {
		items = applied.Filter.ApplyPeriods(items, applied.Criteria, ctx)
	}
	return items
}

// FilterSelectedCourses keeps the selections with at least one surviving period, in input order.
func (s *ScheduleFilterService) FilterSelectedCourses(selected []*models.SelectedCourse) []*models.SelectedCourse {
	surviving := make(map[*models.SelectedCourse]struct{})
	for _, item := range s.FilterPeriods(selected) {
		surviving[item.Course] = struct{}{}
	}
	out := make([]*models.SelectedCourse, 0, len(surviving))
	for _, sc := range selected {
		if _, ok := surviving[sc]; ok {
			out = append(out, sc)
		}
	}
	return out
}

// Options lists the values a client can pick for filterID among the selected courses.
func (s *ScheduleFilterService) Options(filterID string, selected []*models.SelectedCourse) ([]models.FilterOption, error) {
	if _, ok := s.Lookup(filterID); !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownFilter, fmt.Sprintf("filter %s is not registered", filterID))
	}
	switch filterID {
	case "courseSelection":
		options := make([]models.FilterOption, 0, len(selected))
		for _, sc := range selected {
			if sc == nil || sc.Course == nil {
				continue
			}
			options = append(options, models.FilterOption{
				Value: sc.Course.ID,
				Label: fmt.Sprintf("%s - %s", sc.Course.Label(), sc.Course.Name),
			})
		}
		return options, nil
	case "periodDays":
		options := make([]models.FilterOption, 0, 5)
		for _, day := range models.Week[:5] {
			options = append(options, models.FilterOption{Value: string(day), Label: day.FullName()})
		}
		return options, nil
	}

	counts := newOptionCounter()
	switch filterID {
	case "periodProfessor":
		for _, item := range s.PeriodsWithContext(selected) {
			name := strings.TrimSpace(item.Period.Professor)
			counts.add(name, name)
		}
	case "periodType":
		for _, item := range s.PeriodsWithContext(selected) {
			counts.add(filter.NormalizePeriodType(item.Period.Type), filter.FormatPeriodType(item.Period.Type))
		}
	case "sectionCode":
		for _, item := range s.SectionsWithContext(selected) {
			if item.Section != nil {
				counts.add(item.Section.Number, item.Section.Number)
			}
		}
	case "periodLocation":
		for _, item := range s.PeriodsWithContext(selected) {
			building := strings.TrimSpace(item.Period.Building)
			counts.add(building, building)
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("filter %s has no option list", filterID))
	}
	return counts.sorted(), nil
}

func (s *ScheduleFilterService) prepare(selected []*models.SelectedCourse) ([]filter.Applied[filter.SectionFilter], *filter.Context) {
	ordered := s.Ordered()
	ctx := &filter.Context{SelectedCourses: selected}
	for _, applied := range ordered {
		if scoper, ok := applied.Filter.(filter.TermScoper); ok {
			ctx.ActiveTerms = append(ctx.ActiveTerms, scoper.ActiveTerms(applied.Criteria)...)
		}
	}
	return ordered, ctx
}
