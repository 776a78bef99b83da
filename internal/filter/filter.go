// Package filter implements pluggable course and schedule filters together with the ordered
// active filter state and the engine that composes them.
package filter

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/course-planner-api/internal/models"
)

// SearchTextID is applied before every other filter in both scopes.
const SearchTextID = "searchText"

// Descriptor is the contract shared by every filter.
type Descriptor interface {
	ID() string
	Name() string
	Description() string
	IsValidCriteria(criteria json.RawMessage) bool
	DisplayValue(criteria json.RawMessage) string
}

// CourseFilter narrows catalog courses.
type CourseFilter interface {
	Descriptor
	Apply(courses []*models.Course, criteria json.RawMessage, ctx *Context) []*models.Course
}

// SectionFilter narrows the sections and periods of selected courses.
type SectionFilter interface {
	Descriptor
	ApplySections(items []models.SectionContext, criteria json.RawMessage, ctx *Context) []models.SectionContext
	ApplyPeriods(items []models.PeriodContext, criteria json.RawMessage, ctx *Context) []models.PeriodContext
}

// TermScoper is implemented by filters that restrict results to academic terms.
type TermScoper interface {
	ActiveTerms(criteria json.RawMessage) []string
}

// Context carries state that some filters need in addition to their own criteria.
// A nil Context is valid everywhere.
type Context struct {
	SelectedCourses []*models.SelectedCourse
	ActiveTerms     []string
	Others          []Applied[CourseFilter]
}

// Applied binds a filter to the criteria it is active with.
type Applied[F Descriptor] struct {
	Filter   F
	Criteria json.RawMessage
}

func (c *Context) selections() []*models.SelectedCourse {
	if c == nil {
		return nil
	}
	return c.SelectedCourses
}

// selectedSectionsExcept returns the selected sections of every course other than courseID.
func (c *Context) selectedSectionsExcept(courseID string) []*models.Section {
	var sections []*models.Section
	for _, sc := range c.selections() {
		if sc == nil || sc.Course == nil || !sc.HasSection() || sc.Course.ID == courseID {
			continue
		}
		sections = append(sections, sc.SelectedSection)
	}
	return sections
}

var criteriaValidator = validator.New()

type checker interface {
	check() bool
}

// decode unmarshals and validates criteria. Criteria types may add cross-field rules by
// implementing check.
func decode[C any](raw json.RawMessage) (C, bool) {
	var criteria C
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return criteria, false
	}
	if err := json.Unmarshal(raw, &criteria); err != nil {
		return criteria, false
	}
	if err := criteriaValidator.Struct(criteria); err != nil {
		return criteria, false
	}
	if c, ok := any(&criteria).(checker); ok && !c.check() {
		return criteria, false
	}
	return criteria, true
}

func keepPeriods(items []models.PeriodContext, keep func(*models.Period) bool) []models.PeriodContext {
	out := make([]models.PeriodContext, 0, len(items))
	for _, item := range items {
		if item.Period != nil && keep(item.Period) {
			out = append(out, item)
		}
	}
	return out
}

// keepSectionsWithAny keeps sections where at least one period passes.
func keepSectionsWithAny(items []models.SectionContext, keep func(*models.Period) bool) []models.SectionContext {
	out := make([]models.SectionContext, 0, len(items))
	for _, item := range items {
		if item.Section == nil {
			continue
		}
		for _, p := range item.Section.Periods {
			if p != nil && keep(p) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// keepSectionsWithAll drops sections where any period fails.
func keepSectionsWithAll(items []models.SectionContext, keep func(*models.Period) bool) []models.SectionContext {
	out := make([]models.SectionContext, 0, len(items))
	for _, item := range items {
		if item.Section == nil {
			continue
		}
		ok := true
		for _, p := range item.Section.Periods {
			if p != nil && !keep(p) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, item)
		}
	}
	return out
}

func keepSections(items []models.SectionContext, keep func(models.SectionContext) bool) []models.SectionContext {
	out := make([]models.SectionContext, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// keepPeriodsBySection applies a section level predicate to each period's owning section.
func keepPeriodsBySection(items []models.PeriodContext, keep func(models.SectionContext) bool) []models.PeriodContext {
	out := make([]models.PeriodContext, 0, len(items))
	for _, item := range items {
		if keep(models.SectionContext{Course: item.Course, Section: item.Section}) {
			out = append(out, item)
		}
	}
	return out
}

func keepCourses(courses []*models.Course, keep func(*models.Course) bool) []*models.Course {
	out := make([]*models.Course, 0, len(courses))
	for _, course := range courses {
		if course != nil && keep(course) {
			out = append(out, course)
		}
	}
	return out
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[toLowerTrim(v)] = struct{}{}
	}
	return set
}
