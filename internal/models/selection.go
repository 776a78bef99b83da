package models

import (
	"fmt"
	"time"

	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

// SelectedCourse is a user's choice of a course and, optionally, one of its sections.
// SelectedSection is non-nil exactly when SelectedSectionNumber is non-nil and equal to its number.
type SelectedCourse struct {
	Course                *Course  `json:"course"`
	SelectedSection       *Section `json:"selectedSection"`
	SelectedSectionNumber *string  `json:"selectedSectionNumber"`
	IsRequired            bool     `json:"isRequired"`
}

// NewSelectedCourse validates the course reference and returns an unsectioned selection.
func NewSelectedCourse(course *Course, required bool) (*SelectedCourse, error) {
	if course == nil || course.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "selected course requires a catalog course")
	}
	return &SelectedCourse{Course: course, IsRequired: required}, nil
}

// SelectSection replaces the current section choice. A nil number clears it.
func (s *SelectedCourse) SelectSection(number *string) error {
	if s == nil || s.Course == nil {
		return appErrors.Clone(appErrors.ErrValidation, "selection has no course")
	}
	if number == nil {
		s.SelectedSection = nil
		s.SelectedSectionNumber = nil
		return nil
	}
	section := s.Course.FindSection(*number)
	if section == nil {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("section %s does not belong to course %s", *number, s.Course.ID))
	}
	value := section.Number
	s.SelectedSection = section
	s.SelectedSectionNumber = &value
	return nil
}

// HasSection reports whether a section is chosen.
func (s *SelectedCourse) HasSection() bool {
	return s != nil && s.SelectedSection != nil
}

// SectionNumber returns the selected section number or an empty string.
func (s *SelectedCourse) SectionNumber() string {
	if s == nil || s.SelectedSectionNumber == nil {
		return ""
	}
	return *s.SelectedSectionNumber
}

// SectionContext pairs a section with the selection that owns its course.
type SectionContext struct {
	Course  *SelectedCourse `json:"course"`
	Section *Section        `json:"section"`
}

// PeriodContext pairs a period with its section and owning selection.
type PeriodContext struct {
	Course  *SelectedCourse `json:"course"`
	Section *Section        `json:"section"`
	Period  *Period         `json:"period"`
}

// SelectionRecord is the persisted form of a SelectedCourse.
type SelectionRecord struct {
	ProfileID     string    `db:"profile_id" json:"profileId"`
	CourseID      string    `db:"course_id" json:"courseId"`
	SectionNumber *string   `db:"section_number" json:"sectionNumber"`
	ComputedTerm  *string   `db:"computed_term" json:"computedTerm"`
	IsRequired    bool      `db:"is_required" json:"isRequired"`
	Position      int       `db:"position" json:"position"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// SelectionExport is the portable selections document.
type SelectionExport struct {
	Version         string            `json:"version"`
	Timestamp       time.Time         `json:"timestamp"`
	SelectedCourses []SelectionRecord `json:"selectedCourses"`
}
