package dto

import (
	"encoding/json"

	"github.com/noah-isme/course-planner-api/internal/models"
)

// AddFilterRequest activates a filter in a scope.
type AddFilterRequest struct {
	ID       string          `json:"id" validate:"required"`
	Criteria json.RawMessage `json:"criteria" validate:"required"`
}

// FilterCriteriaRequest carries criteria for update and toggle.
type FilterCriteriaRequest struct {
	Criteria json.RawMessage `json:"criteria"`
}

// FilterStateResponse summarises one filter scope.
type FilterStateResponse struct {
	Scope      models.FilterScope        `json:"scope"`
	Active     []models.ActiveFilter     `json:"active"`
	Registered []models.FilterDescriptor `json:"registered"`
	Summary    string                    `json:"summary"`
	Count      int                       `json:"count"`
}

// ToggleFilterResponse reports the state after a toggle.
type ToggleFilterResponse struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

// SelectCourseRequest adds a course to the planner.
type SelectCourseRequest struct {
	CourseID   string `json:"courseId" validate:"required"`
	IsRequired bool   `json:"isRequired"`
}

// SetSectionRequest chooses a section; a null number clears the choice.
type SetSectionRequest struct {
	SectionNumber *string `json:"sectionNumber"`
}

// SetRequiredRequest flags a selection as required or optional.
type SetRequiredRequest struct {
	IsRequired *bool `json:"isRequired" validate:"required"`
}

// SectionRef names a section of a catalog course.
type SectionRef struct {
	CourseID      string `json:"courseId" validate:"required"`
	SectionNumber string `json:"sectionNumber" validate:"required"`
}

// ConflictCheckRequest lists sections to test against each other.
type ConflictCheckRequest struct {
	Sections []SectionRef `json:"sections" validate:"required,min=1,dive"`
}

// TermExtractResponse is returned by the term utility endpoint.
type TermExtractResponse struct {
	Letter  string `json:"letter"`
	Name    string `json:"name"`
	Matched bool   `json:"matched"`
}

// ExportRequest asks for a rendered schedule.
type ExportRequest struct {
	Format models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// RefreshResponse acknowledges an on-demand catalog refresh.
type RefreshResponse struct {
	JobID   string `json:"jobId"`
	Version string `json:"version"`
}

// CourseListQuery paginates the filtered catalog.
type CourseListQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1,max=100000"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=200"`
}
