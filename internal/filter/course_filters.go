package filter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/course-planner-api/internal/conflict"
	"github.com/noah-isme/course-planner-api/internal/models"
	"github.com/noah-isme/course-planner-api/pkg/term"
)

// CourseFilters returns the catalog filter set in registration order.
func CourseFilters(detector *conflict.Detector) []CourseFilter {
	return []CourseFilter{
		SearchText{},
		Department{},
		CreditRange{},
		Professor{},
		Term{},
		NewAvailability(detector),
		Location{},
	}
}

type searchCriteria struct {
	Query *string `json:"query" validate:"required"`
}

// SearchText matches a query against course identity fields with a prefix fallback per word.
type SearchText struct{}

func (SearchText) ID() string          { return SearchTextID }
func (SearchText) Name() string        { return "Search Text" }
func (SearchText) Description() string { return "Filter courses by search text" }

func (SearchText) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[searchCriteria](raw)
	return ok
}

func (SearchText) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[searchCriteria](raw)
	return fmt.Sprintf("%q", strings.TrimSpace(deref(c.Query)))
}

func (SearchText) Apply(courses []*models.Course, raw json.RawMessage, _ *Context) []*models.Course {
	c, ok := decode[searchCriteria](raw)
	query := toLowerTrim(deref(c.Query))
	if !ok || query == "" {
		return courses
	}
	return keepCourses(courses, func(course *models.Course) bool {
		text := strings.ToLower(strings.Join([]string{
			course.ID,
			course.Name,
			course.Description,
			course.DepartmentAbbreviation(),
			course.DepartmentName(),
			course.Number,
		}, " "))
		return strings.Contains(text, query) || fuzzyMatch(text, query)
	})
}

// fuzzyMatch requires every word of query to appear, allowing longer words to match on their
// first 80 percent.
func fuzzyMatch(text, query string) bool {
	if len(query) <= 3 {
		return strings.Contains(text, query)
	}
	for _, word := range strings.Fields(query) {
		if len(word) <= 2 {
			if !strings.Contains(text, word) {
				return false
			}
			continue
		}
		if !strings.Contains(text, word[:len(word)*4/5]) {
			return false
		}
	}
	return true
}

type departmentCriteria struct {
	Departments []string `json:"departments" validate:"required"`
}

// Department keeps courses of the listed departments.
type Department struct{}

func (Department) ID() string          { return "department" }
func (Department) Name() string        { return "Department" }
func (Department) Description() string { return "Filter courses by department(s)" }

func (Department) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[departmentCriteria](raw)
	return ok
}

func (Department) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[departmentCriteria](raw)
	return pluralLabel("Department", "Departments", c.Departments)
}

func (Department) Apply(courses []*models.Course, raw json.RawMessage, _ *Context) []*models.Course {
	c, ok := decode[departmentCriteria](raw)
	if !ok || len(c.Departments) == 0 {
		return courses
	}
	set := lowerSet(c.Departments)
	return keepCourses(courses, func(course *models.Course) bool {
		_, found := set[strings.ToLower(course.DepartmentAbbreviation())]
		return found
	})
}

type creditCriteria struct {
	Min *float64 `json:"min" validate:"required,gte=0"`
	Max *float64 `json:"max" validate:"required"`
}

func (c *creditCriteria) check() bool { return *c.Max >= *c.Min }

// CreditRange keeps courses whose credit interval intersects the requested one.
type CreditRange struct{}

func (CreditRange) ID() string          { return "creditRange" }
func (CreditRange) Name() string        { return "Credit Range" }
func (CreditRange) Description() string { return "Filter courses by credit hours" }

func (CreditRange) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[creditCriteria](raw)
	return ok
}

func (CreditRange) DisplayValue(raw json.RawMessage) string {
	c, ok := decode[creditCriteria](raw)
	if !ok {
		return ""
	}
	if *c.Min == *c.Max {
		if *c.Min == 1 {
			return "1 credit"
		}
		return formatNumber(*c.Min) + " credits"
	}
	return formatNumber(*c.Min) + "-" + formatNumber(*c.Max) + " credits"
}

func (CreditRange) Apply(courses []*models.Course, raw json.RawMessage, _ *Context) []*models.Course {
	c, ok := decode[creditCriteria](raw)
	if !ok {
		return courses
	}
	return keepCourses(courses, func(course *models.Course) bool {
		return course.MaxCredits >= *c.Min && course.MinCredits <= *c.Max
	})
}

type professorCriteria struct {
	Professors []string `json:"professors" validate:"required"`
}

// Professor keeps courses taught, in any period, by one of the listed professors.
type Professor struct{}

func (Professor) ID() string          { return "professor" }
func (Professor) Name() string        { return "Professor" }
func (Professor) Description() string { return "Filter courses by instructor" }

func (Professor) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[professorCriteria](raw)
	return ok
}

func (Professor) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[professorCriteria](raw)
	switch n := len(c.Professors); {
	case n == 1:
		return "Professor: " + c.Professors[0]
	case n <= 3:
		return "Professors: " + strings.Join(c.Professors, ", ")
	default:
		return fmt.Sprintf("Professors: %s, +%d more", strings.Join(c.Professors[:2], ", "), n-2)
	}
}

func (Professor) Apply(courses []*models.Course, raw json.RawMessage, _ *Context) []*models.Course {
	c, ok := decode[professorCriteria](raw)
	if !ok || len(c.Professors) == 0 {
		return courses
	}
	set := lowerSet(c.Professors)
	return keepCourses(courses, func(course *models.Course) bool {
		for _, section := range course.Sections {
			if sectionTaughtBy(section, set) {
				return true
			}
		}
		return false
	})
}

func sectionTaughtBy(section *models.Section, set map[string]struct{}) bool {
	if section == nil {
		return false
	}
	for _, p := range section.Periods {
		if p == nil {
			continue
		}
		if _, ok := set[toLowerTrim(p.Professor)]; ok {
			return true
		}
	}
	return false
}

type termCriteria struct {
	Terms []string `json:"terms" validate:"required"`
}

// Term keeps courses offering a section in one of the listed terms.
type Term struct{}

func (Term) ID() string          { return "term" }
func (Term) Name() string        { return "Term" }
func (Term) Description() string { return "Filter courses by academic term" }

func (Term) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[termCriteria](raw)
	return ok
}

func (Term) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[termCriteria](raw)
	names := make([]string, 0, len(c.Terms))
	for _, t := range c.Terms {
		names = append(names, term.FormatName(t))
	}
	return pluralLabel("Term", "Terms", names)
}

// ActiveTerms returns the normalized term letters selected by criteria.
func (Term) ActiveTerms(raw json.RawMessage) []string {
	c, ok := decode[termCriteria](raw)
	if !ok {
		return nil
	}
	terms := make([]string, 0, len(c.Terms))
	for _, t := range c.Terms {
		if normalized := term.Normalize(t); normalized != "" {
			terms = append(terms, normalized)
		}
	}
	return terms
}

func (t Term) Apply(courses []*models.Course, raw json.RawMessage, _ *Context) []*models.Course {
	terms := t.ActiveTerms(raw)
	if len(terms) == 0 {
		return courses
	}
	return keepCourses(courses, func(course *models.Course) bool {
		for _, section := range course.Sections {
			if inTerms(section, terms) {
				return true
			}
		}
		return false
	})
}

func inTerms(section *models.Section, terms []string) bool {
	if section == nil {
		return false
	}
	computed := term.Normalize(section.ComputedTerm)
	for _, t := range terms {
		if computed == t {
			return true
		}
	}
	return false
}

type availabilityCriteria struct {
	AvailableOnly *bool `json:"availableOnly" validate:"required"`
}

// Availability keeps courses with open seats. When the context carries selections, active terms or
// other active filters, a course only passes if one of its open sections also falls in an active
// term, survives every other active filter on its own and does not clash with the selected section
// of any other course.
type Availability struct {
	detector *conflict.Detector
}

// NewAvailability builds the filter. A nil detector disables the conflict check.
func NewAvailability(detector *conflict.Detector) *Availability {
	return &Availability{detector: detector}
}

func (*Availability) ID() string   { return "availability" }
func (*Availability) Name() string { return "Availability" }
func (*Availability) Description() string {
	return "Show only courses with at least one available section"
}

func (*Availability) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[availabilityCriteria](raw)
	return ok
}

func (*Availability) DisplayValue(raw json.RawMessage) string {
	c, ok := decode[availabilityCriteria](raw)
	if ok && *c.AvailableOnly {
		return "Available seats only"
	}
	return "All courses"
}

func (f *Availability) Apply(courses []*models.Course, raw json.RawMessage, ctx *Context) []*models.Course {
	c, ok := decode[availabilityCriteria](raw)
	if !ok || !*c.AvailableOnly {
		return courses
	}
	if ctx == nil || (len(ctx.SelectedCourses) == 0 && len(ctx.ActiveTerms) == 0 && len(ctx.Others) == 0) {
		return keepCourses(courses, func(course *models.Course) bool {
			for _, section := range course.Sections {
				if section != nil && section.SeatsAvailable > 0 {
					return true
				}
			}
			return false
		})
	}
	return keepCourses(courses, func(course *models.Course) bool {
		selected := ctx.selectedSectionsExcept(course.ID)
		for _, section := range course.Sections {
			if f.sectionQualifies(course, section, selected, ctx) {
				return true
			}
		}
		return false
	})
}

func (f *Availability) sectionQualifies(course *models.Course, section *models.Section, selected []*models.Section, ctx *Context) bool {
	if section == nil || section.SeatsAvailable <= 0 {
		return false
	}
	if len(ctx.ActiveTerms) > 0 && !inTerms(section, ctx.ActiveTerms) {
		return false
	}
	narrowed := []*models.Course{course.WithSections(section)}
	for _, other := range ctx.Others {
		if other.Filter == nil || other.Filter.ID() == f.ID() {
			continue
		}
		if len(other.Filter.Apply(narrowed, other.Criteria, nil)) == 0 {
			return false
		}
	}
	if f.detector != nil && len(selected) > 0 && f.detector.SectionConflictsWith(section, selected) {
		return false
	}
	return true
}

type locationCriteria struct {
	Buildings []string `json:"buildings"`
	Rooms     []string `json:"rooms"`
}

func (c *locationCriteria) check() bool { return c.Buildings != nil || c.Rooms != nil }

// Location keeps courses with a period in one of the listed buildings and rooms.
type Location struct{}

func (Location) ID() string          { return "location" }
func (Location) Name() string        { return "Location" }
func (Location) Description() string { return "Filter courses by building or room" }

func (Location) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[locationCriteria](raw)
	return ok
}

func (Location) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[locationCriteria](raw)
	var parts []string
	if len(c.Buildings) > 0 {
		parts = append(parts, pluralLabel("Building", "Buildings", c.Buildings))
	}
	if len(c.Rooms) > 0 {
		parts = append(parts, pluralLabel("Room", "Rooms", c.Rooms))
	}
	return strings.Join(parts, "; ")
}

func (Location) Apply(courses []*models.Course, raw json.RawMessage, _ *Context) []*models.Course {
	c, ok := decode[locationCriteria](raw)
	if !ok || (len(c.Buildings) == 0 && len(c.Rooms) == 0) {
		return courses
	}
	buildings, rooms := lowerSet(c.Buildings), lowerSet(c.Rooms)
	matches := func(p *models.Period) bool {
		if _, ok := buildings[toLowerTrim(p.Building)]; len(buildings) > 0 && !ok {
			return false
		}
		if _, ok := rooms[toLowerTrim(p.Room)]; len(rooms) > 0 && !ok {
			return false
		}
		return true
	}
	return keepCourses(courses, func(course *models.Course) bool {
		for _, section := range course.Sections {
			if section == nil {
				continue
			}
			for _, p := range section.Periods {
				if p != nil && matches(p) {
					return true
				}
			}
		}
		return false
	})
}

func pluralLabel(singular, plural string, values []string) string {
	if len(values) == 1 {
		return singular + ": " + values[0]
	}
	return plural + ": " + strings.Join(values, ", ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toLowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
