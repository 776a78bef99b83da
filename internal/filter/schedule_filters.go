package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/course-planner-api/internal/conflict"
	"github.com/noah-isme/course-planner-api/internal/models"
	"github.com/noah-isme/course-planner-api/pkg/term"
)

// ScheduleFilters returns the selection-level filter set in registration order.
func ScheduleFilters(detector *conflict.Detector) []SectionFilter {
	return []SectionFilter{
		SectionSearch{},
		CourseSelection{},
		SectionCode{},
		SectionStatus{},
		RequiredStatus{},
		PeriodTerm{},
		PeriodDays{},
		PeriodType{},
		PeriodProfessor{},
		PeriodAvailability{},
		PeriodTime{},
		PeriodLocation{},
		NewPeriodConflict(detector),
	}
}

func courseOf(sc *models.SelectedCourse) *models.Course {
	if sc == nil || sc.Course == nil {
		return &models.Course{}
	}
	return sc.Course
}

// SectionSearch is the selection flavour of searchText. It also looks at section numbers and
// period details.
type SectionSearch struct{}

func (SectionSearch) ID() string          { return SearchTextID }
func (SectionSearch) Name() string        { return "Search Text" }
func (SectionSearch) Description() string { return "Search selected courses, sections and periods" }

func (SectionSearch) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[searchCriteria](raw)
	return ok
}

func (SectionSearch) DisplayValue(raw json.RawMessage) string {
	return SearchText{}.DisplayValue(raw)
}

func (SectionSearch) query(raw json.RawMessage) string {
	c, ok := decode[searchCriteria](raw)
	if !ok {
		return ""
	}
	return toLowerTrim(deref(c.Query))
}

func (s SectionSearch) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	query := s.query(raw)
	if query == "" {
		return items
	}
	return keepSections(items, func(item models.SectionContext) bool {
		if item.Section == nil {
			return false
		}
		if courseMatches(courseOf(item.Course), query) || strings.Contains(strings.ToLower(item.Section.Number), query) {
			return true
		}
		for _, p := range item.Section.Periods {
			if periodMatches(p, query) {
				return true
			}
		}
		return false
	})
}

func (s SectionSearch) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	query := s.query(raw)
	if query == "" {
		return items
	}
	out := make([]models.PeriodContext, 0, len(items))
	for _, item := range items {
		if courseMatches(courseOf(item.Course), query) || periodMatches(item.Period, query) {
			out = append(out, item)
		}
	}
	return out
}

func courseMatches(course *models.Course, query string) bool {
	for _, field := range []string{course.Name, course.Number, course.DepartmentAbbreviation()} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func periodMatches(p *models.Period, query string) bool {
	if p == nil {
		return false
	}
	for _, field := range []string{p.Professor, p.Type, p.Building, p.Room, p.Location} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

type courseSelectionCriteria struct {
	SelectedCourseIDs []string `json:"selectedCourseIds" validate:"required"`
}

// CourseSelection narrows the search to some of the selected courses.
type CourseSelection struct{}

func (CourseSelection) ID() string          { return "courseSelection" }
func (CourseSelection) Name() string        { return "Course Selection" }
func (CourseSelection) Description() string { return "Select which courses to search periods within" }

func (CourseSelection) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[courseSelectionCriteria](raw)
	return ok
}

func (CourseSelection) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[courseSelectionCriteria](raw)
	switch n := len(c.SelectedCourseIDs); n {
	case 0:
		return "All Courses"
	case 1:
		return "1 Course Selected"
	default:
		return fmt.Sprintf("%d Courses Selected", n)
	}
}

func (CourseSelection) predicate(raw json.RawMessage) func(models.SectionContext) bool {
	c, ok := decode[courseSelectionCriteria](raw)
	if !ok || len(c.SelectedCourseIDs) == 0 {
		return nil
	}
	ids := make(map[string]struct{}, len(c.SelectedCourseIDs))
	for _, id := range c.SelectedCourseIDs {
		ids[id] = struct{}{}
	}
	return func(item models.SectionContext) bool {
		_, ok := ids[courseOf(item.Course).ID]
		return ok
	}
}

func (f CourseSelection) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	if keep := f.predicate(raw); keep != nil {
		return keepSections(items, keep)
	}
	return items
}

func (f CourseSelection) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	if keep := f.predicate(raw); keep != nil {
		return keepPeriodsBySection(items, keep)
	}
	return items
}

type sectionCodeCriteria struct {
	Codes []string `json:"codes" validate:"required"`
}

// SectionCode matches section numbers by substring, so "AL01" finds "A01/AL01".
type SectionCode struct{}

func (SectionCode) ID() string          { return "sectionCode" }
func (SectionCode) Name() string        { return "Section Code" }
func (SectionCode) Description() string { return "Filter by section codes (AL01, AX01, A01, etc.)" }

func (SectionCode) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[sectionCodeCriteria](raw)
	return ok
}

func (SectionCode) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[sectionCodeCriteria](raw)
	if len(c.Codes) == 0 {
		return "No section codes"
	}
	return pluralLabel("Section", "Sections", c.Codes)
}

func (SectionCode) predicate(raw json.RawMessage) func(models.SectionContext) bool {
	c, ok := decode[sectionCodeCriteria](raw)
	if !ok {
		return nil
	}
	codes := make([]string, 0, len(c.Codes))
	for _, code := range c.Codes {
		if normalized := toLowerTrim(code); normalized != "" {
			codes = append(codes, normalized)
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return func(item models.SectionContext) bool {
		if item.Section == nil {
			return false
		}
		number := strings.ToLower(item.Section.Number)
		for _, code := range codes {
			if strings.Contains(number, code) {
				return true
			}
		}
		return false
	}
}

func (f SectionCode) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	if keep := f.predicate(raw); keep != nil {
		return keepSections(items, keep)
	}
	return items
}

func (f SectionCode) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	if keep := f.predicate(raw); keep != nil {
		return keepPeriodsBySection(items, keep)
	}
	return items
}

type statusCriteria struct {
	Status string `json:"status" validate:"required"`
}

// SectionStatus keeps selected courses with or without a chosen section.
type SectionStatus struct{}

func (SectionStatus) ID() string          { return "sectionStatus" }
func (SectionStatus) Name() string        { return "Section Status" }
func (SectionStatus) Description() string { return "Filter courses by section selection status" }

func (SectionStatus) IsValidCriteria(raw json.RawMessage) bool {
	c, ok := decode[statusCriteria](raw)
	return ok && (c.Status == "selected" || c.Status == "unselected" || c.Status == "all")
}

func (SectionStatus) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[statusCriteria](raw)
	switch c.Status {
	case "selected":
		return "With Selected Section"
	case "unselected":
		return "Without Selected Section"
	case "all":
		return "All Courses"
	default:
		return "Unknown Status"
	}
}

func (f SectionStatus) predicate(raw json.RawMessage) func(models.SectionContext) bool {
	if !f.IsValidCriteria(raw) {
		return nil
	}
	c, _ := decode[statusCriteria](raw)
	if c.Status == "all" {
		return nil
	}
	want := c.Status == "selected"
	return func(item models.SectionContext) bool {
		return item.Course.HasSection() == want
	}
}

func (f SectionStatus) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	if keep := f.predicate(raw); keep != nil {
		return keepSections(items, keep)
	}
	return items
}

func (f SectionStatus) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	if keep := f.predicate(raw); keep != nil {
		return keepPeriodsBySection(items, keep)
	}
	return items
}

// RequiredStatus keeps required or optional selected courses.
type RequiredStatus struct{}

func (RequiredStatus) ID() string          { return "requiredStatus" }
func (RequiredStatus) Name() string        { return "Required Status" }
func (RequiredStatus) Description() string { return "Filter courses by required/optional status" }

func (RequiredStatus) IsValidCriteria(raw json.RawMessage) bool {
	c, ok := decode[statusCriteria](raw)
	return ok && (c.Status == "required" || c.Status == "optional" || c.Status == "all")
}

func (RequiredStatus) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[statusCriteria](raw)
	switch c.Status {
	case "required":
		return "Required Courses"
	case "optional":
		return "Optional Courses"
	case "all":
		return "All Courses"
	default:
		return "Unknown Status"
	}
}

func (f RequiredStatus) predicate(raw json.RawMessage) func(models.SectionContext) bool {
	if !f.IsValidCriteria(raw) {
		return nil
	}
	c, _ := decode[statusCriteria](raw)
	if c.Status == "all" {
		return nil
	}
	want := c.Status == "required"
	return func(item models.SectionContext) bool {
		return item.Course != nil && item.Course.IsRequired == want
	}
}

func (f RequiredStatus) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	if keep := f.predicate(raw); keep != nil {
		return keepSections(items, keep)
	}
	return items
}

func (f RequiredStatus) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	if keep := f.predicate(raw); keep != nil {
		return keepPeriodsBySection(items, keep)
	}
	return items
}

// PeriodTerm keeps sections whose computed term is selected.
type PeriodTerm struct{}

func (PeriodTerm) ID() string          { return "periodTerm" }
func (PeriodTerm) Name() string        { return "Term" }
func (PeriodTerm) Description() string { return "Show sections from selected academic terms" }

func (PeriodTerm) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[termCriteria](raw)
	return ok
}

func (PeriodTerm) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[termCriteria](raw)
	if len(c.Terms) == 0 {
		return "All terms"
	}
	names := make([]string, 0, len(c.Terms))
	for _, t := range c.Terms {
		if term.IsValidLetter(t) {
			names = append(names, term.FormatName(term.Normalize(t)))
		} else {
			names = append(names, strings.ToUpper(t))
		}
	}
	return pluralLabel("Term", "Terms", names)
}

// ActiveTerms returns the normalized term letters selected by criteria.
func (PeriodTerm) ActiveTerms(raw json.RawMessage) []string {
	return Term{}.ActiveTerms(raw)
}

func (f PeriodTerm) predicate(raw json.RawMessage) func(models.SectionContext) bool {
	terms := f.ActiveTerms(raw)
	if len(terms) == 0 {
		return nil
	}
	return func(item models.SectionContext) bool {
		return inTerms(item.Section, terms)
	}
}

func (f PeriodTerm) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	if keep := f.predicate(raw); keep != nil {
		return keepSections(items, keep)
	}
	return items
}

func (f PeriodTerm) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	if keep := f.predicate(raw); keep != nil {
		return keepPeriodsBySection(items, keep)
	}
	return items
}

type daysCriteria struct {
	Days []string `json:"days" validate:"required"`
}

// PeriodDays excludes periods meeting on any of the listed days. A section is dropped when any of
// its periods meets on an excluded day.
type PeriodDays struct{}

func (PeriodDays) ID() string          { return "periodDays" }
func (PeriodDays) Name() string        { return "Period Days" }
func (PeriodDays) Description() string { return "Exclude sections with classes on selected days" }

func (PeriodDays) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[daysCriteria](raw)
	return ok
}

func (PeriodDays) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[daysCriteria](raw)
	if len(c.Days) == 0 {
		return "No exclusions"
	}
	names := make([]string, 0, len(c.Days))
	for _, d := range c.Days {
		if day, ok := models.ParseDay(d); ok {
			names = append(names, day.FullName())
		} else {
			names = append(names, d)
		}
	}
	return "Exclude: " + strings.Join(names, ", ")
}

func (PeriodDays) excluded(raw json.RawMessage) models.DaySet {
	c, ok := decode[daysCriteria](raw)
	if !ok {
		return 0
	}
	var set models.DaySet
	for _, d := range c.Days {
		if day, ok := models.ParseDay(d); ok {
			set = set.With(day)
		}
	}
	return set
}

func (f PeriodDays) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	excluded := f.excluded(raw)
	if excluded.IsEmpty() {
		return items
	}
	return keepSectionsWithAll(items, func(p *models.Period) bool {
		return p.Days.Intersect(excluded).IsEmpty()
	})
}

func (f PeriodDays) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	excluded := f.excluded(raw)
	if excluded.IsEmpty() {
		return items
	}
	return keepPeriods(items, func(p *models.Period) bool {
		return p.Days.Intersect(excluded).IsEmpty()
	})
}

type typesCriteria struct {
	Types []string `json:"types" validate:"required"`
}

var periodTypeLabels = map[string]string{
	"lecture":    "Lecture",
	"lab":        "Lab",
	"discussion": "Discussion",
	"recitation": "Recitation",
	"seminar":    "Seminar",
	"studio":     "Studio",
	"conference": "Conference",
}

// NormalizePeriodType maps feed spellings such as "LEC" or "Lab Section" to a canonical type.
func NormalizePeriodType(raw string) string {
	lower := toLowerTrim(raw)
	switch {
	case strings.Contains(lower, "lec"):
		return "lecture"
	case strings.Contains(lower, "lab"):
		return "lab"
	case strings.Contains(lower, "dis"):
		return "discussion"
	case strings.Contains(lower, "rec"):
		return "recitation"
	case strings.Contains(lower, "sem"):
		return "seminar"
	case strings.Contains(lower, "studio"):
		return "studio"
	case strings.Contains(lower, "conf"):
		return "conference"
	}
	return lower
}

// FormatPeriodType renders a period type for display.
func FormatPeriodType(raw string) string {
	if label, ok := periodTypeLabels[NormalizePeriodType(raw)]; ok {
		return label
	}
	if raw == "" {
		return raw
	}
	return strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:])
}

// PeriodType excludes periods of the listed types. Sections survive while one period survives.
type PeriodType struct{}

func (PeriodType) ID() string          { return "periodType" }
func (PeriodType) Name() string        { return "Period Type" }
func (PeriodType) Description() string { return "Exclude sections with selected period types" }

func (PeriodType) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[typesCriteria](raw)
	return ok
}

func (PeriodType) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[typesCriteria](raw)
	if len(c.Types) == 0 {
		return "No exclusions"
	}
	labels := make([]string, 0, len(c.Types))
	for _, t := range c.Types {
		labels = append(labels, FormatPeriodType(t))
	}
	return "Exclude: " + strings.Join(labels, ", ")
}

func (PeriodType) keep(raw json.RawMessage) func(*models.Period) bool {
	c, ok := decode[typesCriteria](raw)
	if !ok || len(c.Types) == 0 {
		return nil
	}
	excluded := make(map[string]struct{}, len(c.Types))
	for _, t := range c.Types {
		excluded[NormalizePeriodType(t)] = struct{}{}
	}
	return func(p *models.Period) bool {
		_, drop := excluded[NormalizePeriodType(p.Type)]
		return !drop
	}
}

func (f PeriodType) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	if keep := f.keep(raw); keep != nil {
		return keepSectionsWithAny(items, keep)
	}
	return items
}

func (f PeriodType) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	if keep := f.keep(raw); keep != nil {
		return keepPeriods(items, keep)
	}
	return items
}

// PeriodProfessor keeps periods whose professor partially matches one of the listed names.
type PeriodProfessor struct{}

func (PeriodProfessor) ID() string          { return "periodProfessor" }
func (PeriodProfessor) Name() string        { return "Period Professor" }
func (PeriodProfessor) Description() string { return "Filter periods by professor" }

func (PeriodProfessor) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[professorCriteria](raw)
	return ok
}

func (PeriodProfessor) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[professorCriteria](raw)
	switch n := len(c.Professors); n {
	case 0:
		return "Any Professor"
	case 1:
		return c.Professors[0]
	default:
		return fmt.Sprintf("%d Professors", n)
	}
}

func (PeriodProfessor) keep(raw json.RawMessage) func(*models.Period) bool {
	c, ok := decode[professorCriteria](raw)
	if !ok || len(c.Professors) == 0 {
		return nil
	}
	return partialMatcher(c.Professors, func(p *models.Period) string { return p.Professor })
}

func (f PeriodProfessor) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	if keep := f.keep(raw); keep != nil {
		return keepSectionsWithAny(items, keep)
	}
	return items
}

func (f PeriodProfessor) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	if keep := f.keep(raw); keep != nil {
		return keepPeriods(items, keep)
	}
	return items
}

// partialMatcher matches when the period field and a wanted value contain one another.
func partialMatcher(wanted []string, field func(*models.Period) string) func(*models.Period) bool {
	values := make([]string, 0, len(wanted))
	for _, w := range wanted {
		values = append(values, toLowerTrim(w))
	}
	return func(p *models.Period) bool {
		actual := toLowerTrim(field(p))
		if actual == "" {
			return false
		}
		for _, w := range values {
			if strings.Contains(actual, w) || strings.Contains(w, actual) {
				return true
			}
		}
		return false
	}
}

type periodAvailabilityCriteria struct {
	AvailableOnly *bool    `json:"availableOnly"`
	MinAvailable  *float64 `json:"minAvailable" validate:"omitempty,gte=0"`
}

// PeriodAvailability keeps periods with open seats, optionally at least MinAvailable of them.
type PeriodAvailability struct{}

func (PeriodAvailability) ID() string          { return "periodAvailability" }
func (PeriodAvailability) Name() string        { return "Period Availability" }
func (PeriodAvailability) Description() string { return "Filter periods by seat availability" }

func (PeriodAvailability) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[periodAvailabilityCriteria](raw)
	return ok
}

func (PeriodAvailability) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[periodAvailabilityCriteria](raw)
	var parts []string
	if c.AvailableOnly != nil && *c.AvailableOnly {
		parts = append(parts, "Available Only")
	}
	if c.MinAvailable != nil && *c.MinAvailable > 0 {
		parts = append(parts, fmt.Sprintf("Min %s Seats", formatNumber(*c.MinAvailable)))
	}
	if len(parts) == 0 {
		return "Any Availability"
	}
	return strings.Join(parts, ", ")
}

func (PeriodAvailability) keep(raw json.RawMessage) func(*models.Period) bool {
	c, ok := decode[periodAvailabilityCriteria](raw)
	if !ok {
		return nil
	}
	availableOnly := c.AvailableOnly != nil && *c.AvailableOnly
	var minimum float64
	if c.MinAvailable != nil {
		minimum = *c.MinAvailable
	}
	if !availableOnly && minimum <= 0 {
		return nil
	}
	return func(p *models.Period) bool {
		if availableOnly && p.SeatsAvailable <= 0 {
			return false
		}
		return float64(p.SeatsAvailable) >= minimum
	}
}

func (f PeriodAvailability) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	if keep := f.keep(raw); keep != nil {
		return keepSectionsWithAny(items, keep)
	}
	return items
}

func (f PeriodAvailability) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	if keep := f.keep(raw); keep != nil {
		return keepPeriods(items, keep)
	}
	return items
}

type clockCriteria struct {
	Hours   *int `json:"hours" validate:"required,min=0,max=23"`
	Minutes *int `json:"minutes" validate:"required,min=0,max=59"`
}

func (c *clockCriteria) minutes() int { return *c.Hours*60 + *c.Minutes }

type timeCriteria struct {
	StartTime *clockCriteria `json:"startTime"`
	EndTime   *clockCriteria `json:"endTime"`
}

// PeriodTime keeps periods starting no earlier than StartTime and ending no later than EndTime.
type PeriodTime struct{}

func (PeriodTime) ID() string          { return "periodTime" }
func (PeriodTime) Name() string        { return "Period Time" }
func (PeriodTime) Description() string { return "Filter periods by time range" }

func (PeriodTime) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[timeCriteria](raw)
	return ok
}

func (PeriodTime) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[timeCriteria](raw)
	var parts []string
	if c.StartTime != nil {
		parts = append(parts, "After "+models.FormatClock(*c.StartTime.Hours, *c.StartTime.Minutes))
	}
	if c.EndTime != nil {
		parts = append(parts, "Before "+models.FormatClock(*c.EndTime.Hours, *c.EndTime.Minutes))
	}
	if len(parts) == 0 {
		return "Any Time"
	}
	return strings.Join(parts, ", ")
}

func (PeriodTime) keep(raw json.RawMessage) func(*models.Period) bool {
	c, ok := decode[timeCriteria](raw)
	if !ok || (c.StartTime == nil && c.EndTime == nil) {
		return nil
	}
	return func(p *models.Period) bool {
		if c.StartTime != nil && p.StartTime.MinuteOfDay() < c.StartTime.minutes() {
			return false
		}
		if c.EndTime != nil && p.EndTime.MinuteOfDay() > c.EndTime.minutes() {
			return false
		}
		return true
	}
}

func (f PeriodTime) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	if keep := f.keep(raw); keep != nil {
		return keepSectionsWithAny(items, keep)
	}
	return items
}

func (f PeriodTime) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	if keep := f.keep(raw); keep != nil {
		return keepPeriods(items, keep)
	}
	return items
}

type periodLocationCriteria struct {
	Buildings []string `json:"buildings"`
	Rooms     []string `json:"rooms"`
}

// PeriodLocation keeps periods whose building and room partially match the criteria.
type PeriodLocation struct{}

func (PeriodLocation) ID() string          { return "periodLocation" }
func (PeriodLocation) Name() string        { return "Period Location" }
func (PeriodLocation) Description() string { return "Filter periods by building and room" }

func (PeriodLocation) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[periodLocationCriteria](raw)
	return ok
}

func (PeriodLocation) DisplayValue(raw json.RawMessage) string {
	c, _ := decode[periodLocationCriteria](raw)
	var parts []string
	switch n := len(c.Buildings); {
	case n == 1:
		parts = append(parts, "Building: "+c.Buildings[0])
	case n > 1:
		parts = append(parts, fmt.Sprintf("%d Buildings", n))
	}
	switch n := len(c.Rooms); {
	case n == 1:
		parts = append(parts, "Room: "+c.Rooms[0])
	case n > 1:
		parts = append(parts, fmt.Sprintf("%d Rooms", n))
	}
	if len(parts) == 0 {
		return "Any Location"
	}
	return strings.Join(parts, ", ")
}

func (PeriodLocation) keep(raw json.RawMessage) func(*models.Period) bool {
	c, ok := decode[periodLocationCriteria](raw)
	if !ok || (len(c.Buildings) == 0 && len(c.Rooms) == 0) {
		return nil
	}
	building := partialMatcher(c.Buildings, func(p *models.Period) string { return p.Building })
	room := partialMatcher(c.Rooms, func(p *models.Period) string { return p.Room })
	return func(p *models.Period) bool {
		if len(c.Buildings) > 0 && !building(p) {
			return false
		}
		if len(c.Rooms) > 0 && !room(p) {
			return false
		}
		return true
	}
}

func (f PeriodLocation) ApplySections(items []models.SectionContext, raw json.RawMessage, _ *Context) []models.SectionContext {
	if keep := f.keep(raw); keep != nil {
		return keepSectionsWithAny(items, keep)
	}
	return items
}

func (f PeriodLocation) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, _ *Context) []models.PeriodContext {
	if keep := f.keep(raw); keep != nil {
		return keepPeriods(items, keep)
	}
	return items
}

type conflictCriteria struct {
	AvoidConflicts *bool `json:"avoidConflicts" validate:"required"`
}

// PeriodConflict hides sections that clash with the selected section of another selected course.
// The course being filtered never conflicts with itself.
type PeriodConflict struct {
	detector *conflict.Detector
}

// NewPeriodConflict builds the filter. A nil detector makes it a no-op.
func NewPeriodConflict(detector *conflict.Detector) *PeriodConflict {
	return &PeriodConflict{detector: detector}
}

func (*PeriodConflict) ID() string          { return "periodConflict" }
func (*PeriodConflict) Name() string        { return "Schedule Conflicts" }
func (*PeriodConflict) Description() string { return "Hide periods that conflict with selected sections" }

func (*PeriodConflict) IsValidCriteria(raw json.RawMessage) bool {
	_, ok := decode[conflictCriteria](raw)
	return ok
}

func (*PeriodConflict) DisplayValue(raw json.RawMessage) string {
	c, ok := decode[conflictCriteria](raw)
	if ok && *c.AvoidConflicts {
		return "Avoiding conflicts"
	}
	return "Conflicts allowed"
}

func (f *PeriodConflict) predicate(raw json.RawMessage, ctx *Context) func(models.SectionContext) bool {
	c, ok := decode[conflictCriteria](raw)
	if !ok || !*c.AvoidConflicts || f.detector == nil || len(ctx.selections()) == 0 {
		return nil
	}
	return func(item models.SectionContext) bool {
		if item.Section == nil {
			return false
		}
		others := ctx.selectedSectionsExcept(courseOf(item.Course).ID)
		if len(others) == 0 {
			return true
		}
		for _, p := range item.Section.Periods {
			if f.detector.PeriodConflictsWith(p, others) {
				return false
			}
		}
		return true
	}
}

func (f *PeriodConflict) ApplySections(items []models.SectionContext, raw json.RawMessage, ctx *Context) []models.SectionContext {
	if keep := f.predicate(raw, ctx); keep != nil {
		return keepSections(items, keep)
	}
	return items
}

// ApplyPeriods drops every period of a conflicting section, matching the section view.
func (f *PeriodConflict) ApplyPeriods(items []models.PeriodContext, raw json.RawMessage, ctx *Context) []models.PeriodContext {
	if keep := f.predicate(raw, ctx); keep != nil {
		return keepPeriodsBySection(items, keep)
	}
	return items
}
