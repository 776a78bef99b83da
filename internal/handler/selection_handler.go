package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-planner-api/internal/dto"
	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"github.com/noah-isme/course-planner-api/pkg/response"
)

type selectionService interface {
	Selected(ctx context.Context, profileID string) ([]*models.SelectedCourse, error)
	SelectCourse(ctx context.Context, profileID, courseID string, required bool) (*models.SelectedCourse, error)
	UnselectCourse(ctx context.Context, profileID, courseID string) error
	ToggleCourse(ctx context.Context, profileID, courseID string, required bool) (bool, error)
	SetSelectedSection(ctx context.Context, profileID, courseID string, number *string) (*models.SelectedCourse, error)
	SetRequired(ctx context.Context, profileID, courseID string, required bool) (*models.SelectedCourse, error)
	Clear(ctx context.Context, profileID string) error
	ExportSelections(ctx context.Context, profileID string) (*models.SelectionExport, error)
	ImportSelections(ctx context.Context, profileID string, doc *models.SelectionExport) (int, int, error)
}

// SelectionHandler manages the courses a profile has picked.
type SelectionHandler struct {
	service selectionService
}

// NewSelectionHandler constructs a SelectionHandler.
func NewSelectionHandler(service selectionService) *SelectionHandler {
	return &SelectionHandler{service: service}
}

// List godoc
// @Summary List selected courses
// @Tags Selections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /selections [get]
func (h *SelectionHandler) List(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	selected, err := h.service.Selected(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, selected, nil, map[string]interface{}{"count": len(selected)})
}

// Select godoc
// @Summary Select a course
// @Tags Selections
// @Accept json
// @Produce json
// @Param payload body dto.SelectCourseRequest true "Course"
// @Success 201 {object} response.Envelope
// @Router /selections [post]
func (h *SelectionHandler) Select(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	var req dto.SelectCourseRequest
	if !bindJSON(c, &req, "invalid selection payload") {
		return
	}
	sc, err := h.service.SelectCourse(c.Request.Context(), profileID, req.CourseID, req.IsRequired)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sc)
}

// Toggle godoc
// @Summary Select or unselect a course
// @Tags Selections
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /selections/{courseId}/toggle [post]
func (h *SelectionHandler) Toggle(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	courseID := c.Param("courseId")
	selected, err := h.service.ToggleCourse(c.Request.Context(), profileID, courseID, c.Query("required") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"courseId": courseID, "selected": selected}, nil)
}

// Unselect godoc
// @Summary Remove a course from the planner
// @Tags Selections
// @Param courseId path string true "Course ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /selections/{courseId} [delete]
func (h *SelectionHandler) Unselect(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	if err := h.service.UnselectCourse(c.Request.Context(), profileID, c.Param("courseId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Remove every selection
// @Tags Selections
// @Success 204
// @Router /selections [delete]
func (h *SelectionHandler) Clear(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Clear(c.Request.Context(), profileID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetSection godoc
// @Summary Choose the section of a selected course
// @Tags Selections
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body dto.SetSectionRequest true "Section"
// @Success 200 {object} response.Envelope
// @Router /selections/{courseId}/section [put]
func (h *SelectionHandler) SetSection(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	var req dto.SetSectionRequest
	if !bindJSON(c, &req, "invalid section payload") {
		return
	}
	sc, err := h.service.SetSelectedSection(c.Request.Context(), profileID, c.Param("courseId"), req.SectionNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sc, nil)
}

// SetRequired godoc
// @Summary Mark a selected course required or optional
// @Tags Selections
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body dto.SetRequiredRequest true "Flag"
// @Success 200 {object} response.Envelope
// @Router /selections/{courseId}/required [put]
func (h *SelectionHandler) SetRequired(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	var req dto.SetRequiredRequest
	if !bindJSON(c, &req, "invalid required payload") {
		return
	}
	sc, err := h.service.SetRequired(c.Request.Context(), profileID, c.Param("courseId"), *req.IsRequired)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sc, nil)
}

// Export godoc
// @Summary Export selections as a portable document
// @Tags Selections
// @Produce json
// @Success 200 {object} models.SelectionExport
// @Router /selections/export [get]
func (h *SelectionHandler) Export(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	doc, err := h.service.ExportSelections(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="selections.json"`)
	c.JSON(http.StatusOK, doc)
}

// Import godoc
// @Summary Replace selections from an exported document
// @Tags Selections
// @Accept json
// @Produce json
// @Param payload body models.SelectionExport true "Document"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /selections/import [post]
func (h *SelectionHandler) Import(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	var doc models.SelectionExport
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selections document"))
		return
	}
	imported, skipped, err := h.service.ImportSelections(c.Request.Context(), profileID, &doc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"imported": imported, "skipped": skipped}, nil)
}
