package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/noah-isme/course-planner-api/pkg/term"
)

// Period is one weekly recurring meeting block of a section.
type Period struct {
	Type            string `json:"type"`
	Professor       string `json:"professor"`
	StartTime       Time   `json:"startTime"`
	EndTime         Time   `json:"endTime"`
	Building        string `json:"building"`
	Room            string `json:"room"`
	Location        string `json:"location"`
	Seats           int    `json:"seats"`
	SeatsAvailable  int    `json:"seatsAvailable"`
	ActualWaitlist  int    `json:"actualWaitlist"`
	MaxWaitlist     int    `json:"maxWaitlist"`
	Days            DaySet `json:"days"`
	SpecificSection string `json:"specificSection,omitempty"`
}

// Section is one schedulable offering of a course.
type Section struct {
	CRN            int       `json:"crn"`
	Number         string    `json:"number"`
	Seats          int       `json:"seats"`
	SeatsAvailable int       `json:"seatsAvailable"`
	ActualWaitlist int       `json:"actualWaitlist"`
	MaxWaitlist    int       `json:"maxWaitlist"`
	Description    string    `json:"description,omitempty"`
	Note           string    `json:"note,omitempty"`
	Term           string    `json:"term"`
	ComputedTerm   string    `json:"computedTerm"`
	Periods        []*Period `json:"periods"`
}

// RepairTerm recomputes ComputedTerm when it is missing or holds a legacy placeholder.
// It returns true when the value changed.
func (s *Section) RepairTerm() bool {
	if s == nil || !term.NeedsRepair(s.ComputedTerm) {
		return false
	}
	s.ComputedTerm = term.ExtractLetter(s.Term, s.Number)
	return true
}

// Course is a catalog entry. Department is a non-owning back reference.
type Course struct {
	ID          string      `json:"id"`
	Number      string      `json:"number"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Department  *Department `json:"-"`
	Sections    []*Section  `json:"sections"`
	MinCredits  float64     `json:"minCredits"`
	MaxCredits  float64     `json:"maxCredits"`
}

// DepartmentAbbreviation is safe to call on courses detached from a department.
func (c *Course) DepartmentAbbreviation() string {
	if c == nil || c.Department == nil {
		return ""
	}
	return c.Department.Abbreviation
}

// DepartmentName returns the owning department's display name.
func (c *Course) DepartmentName() string {
	if c == nil || c.Department == nil {
		return ""
	}
	return c.Department.Name
}

// Label renders "CS1101" style codes.
func (c *Course) Label() string {
	return c.DepartmentAbbreviation() + c.Number
}

// FindSection returns the section with the given number.
func (c *Course) FindSection(number string) *Section {
	if c == nil {
		return nil
	}
	for _, section := range c.Sections {
		if section != nil && section.Number == number {
			return section
		}
	}
	return nil
}

// HasSection reports whether section belongs to c by identity.
func (c *Course) HasSection(section *Section) bool {
	if c == nil || section == nil {
		return false
	}
	for _, candidate := range c.Sections {
		if candidate == section {
			return true
		}
	}
	return false
}

// WithSections returns a shallow copy restricted to the given sections. The copy keeps the
// department reference and section pointers.
func (c *Course) WithSections(sections ...*Section) *Course {
	clone := *c
	clone.Sections = sections
	return &clone
}

// MarshalJSON adds the department abbreviation in place of the back reference.
func (c *Course) MarshalJSON() ([]byte, error) {
	type course Course
	return json.Marshal(struct {
		*course
		Department string `json:"departmentAbbreviation"`
	}{course: (*course)(c), Department: c.DepartmentAbbreviation()})
}

// Department owns its courses.
type Department struct {
	Abbreviation string    `json:"abbreviation"`
	Name         string    `json:"name"`
	Courses      []*Course `json:"courses"`
}

// Catalog is an immutable snapshot of the feed.
type Catalog struct {
	Departments []*Department `json:"departments"`
	Generated   time.Time     `json:"generated"`
	FetchedAt   time.Time     `json:"fetchedAt"`
	Version     string        `json:"version"`
	Source      string        `json:"source"`

	index map[string]*Course
}

// NewCatalog indexes the departments by course id.
func NewCatalog(departments []*Department) *Catalog {
	c := &Catalog{Departments: departments, index: make(map[string]*Course)}
	for _, dept := range departments {
		for _, course := range dept.Courses {
			c.index[course.ID] = course
		}
	}
	return c
}

// Course looks up a course by id.
func (c *Catalog) Course(id string) (*Course, bool) {
	if c == nil {
		return nil, false
	}
	course, ok := c.index[id]
	return course, ok
}

// Courses flattens every department in feed order.
func (c *Catalog) Courses() []*Course {
	if c == nil {
		return nil
	}
	courses := make([]*Course, 0, len(c.index))
	for _, dept := range c.Departments {
		courses = append(courses, dept.Courses...)
	}
	return courses
}

// Department finds a department by abbreviation, case-insensitively.
func (c *Catalog) Department(abbreviation string) (*Department, bool) {
	if c == nil {
		return nil, false
	}
	for _, dept := range c.Departments {
		if strings.EqualFold(dept.Abbreviation, abbreviation) {
			return dept, true
		}
	}
	return nil, false
}

// SectionCount returns the number of sections across the catalog.
func (c *Catalog) SectionCount() int {
	total := 0
	for _, course := range c.Courses() {
		total += len(course.Sections)
	}
	return total
}

// CatalogSnapshot is a stored copy of a raw feed document.
type CatalogSnapshot struct {
	ID        int64     `db:"id" json:"id"`
	Version   string    `db:"version" json:"version"`
	Source    string    `db:"source" json:"source"`
	FetchedAt time.Time `db:"fetched_at" json:"fetchedAt"`
	Payload   []byte    `db:"payload" json:"-"`
}
