package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-planner-api/internal/dto"
	"github.com/noah-isme/course-planner-api/internal/models"
	"github.com/noah-isme/course-planner-api/pkg/response"
)

type scheduleViews interface {
	ScheduleSections(ctx context.Context, profileID string) ([]models.SectionContext, error)
	SchedulePeriods(ctx context.Context, profileID string) ([]models.PeriodContext, error)
	ScheduleCourses(ctx context.Context, profileID string) ([]*models.SelectedCourse, error)
}

type conflictChecker interface {
	ConflictReport(ctx context.Context, profileID string) (*models.ConflictReport, error)
	CheckConflicts(refs []dto.SectionRef) (*models.ConflictReport, error)
}

// ScheduleHandler serves the schedule views of a profile and conflict checks.
type ScheduleHandler struct {
	views     scheduleViews
	conflicts conflictChecker
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(views scheduleViews, conflicts conflictChecker) *ScheduleHandler {
	return &ScheduleHandler{views: views, conflicts: conflicts}
}

// Sections godoc
// @Summary Sections of the selected courses passing the schedule filters
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/sections [get]
func (h *ScheduleHandler) Sections(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	items, err := h.views.ScheduleSections(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil, map[string]interface{}{"count": len(items)})
}

// Periods godoc
// @Summary Periods of the selected courses passing the schedule filters
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/periods [get]
func (h *ScheduleHandler) Periods(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	items, err := h.views.SchedulePeriods(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil, map[string]interface{}{"count": len(items)})
}

// Courses godoc
// @Summary Selected courses keeping at least one period under the schedule filters
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/courses [get]
func (h *ScheduleHandler) Courses(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	items, err := h.views.ScheduleCourses(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil, map[string]interface{}{"count": len(items)})
}

// Conflicts godoc
// @Summary Conflicts among the chosen sections
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/conflicts [get]
func (h *ScheduleHandler) Conflicts(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	report, err := h.conflicts.ConflictReport(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// CheckConflicts godoc
// @Summary Check arbitrary catalog sections for conflicts
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.ConflictCheckRequest true "Sections"
// @Success 200 {object} response.Envelope
// @Router /conflicts/check [post]
func (h *ScheduleHandler) CheckConflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if !bindJSON(c, &req, "invalid conflict check payload") {
		return
	}
	report, err := h.conflicts.CheckConflicts(req.Sections)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
