package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-planner-api/internal/dto"
	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"github.com/noah-isme/course-planner-api/pkg/response"
)

type filterService interface {
	State(ctx context.Context, profileID string, scope models.FilterScope) (*dto.FilterStateResponse, error)
	Add(ctx context.Context, profileID string, scope models.FilterScope, id string, criteria json.RawMessage) (*dto.FilterStateResponse, error)
	Update(ctx context.Context, profileID string, scope models.FilterScope, id string, criteria json.RawMessage) (*dto.FilterStateResponse, error)
	Remove(ctx context.Context, profileID string, scope models.FilterScope, id string) (*dto.FilterStateResponse, error)
	Clear(ctx context.Context, profileID string, scope models.FilterScope) (*dto.FilterStateResponse, error)
	Toggle(ctx context.Context, profileID string, scope models.FilterScope, id string, criteria json.RawMessage) (*dto.ToggleFilterResponse, error)
	Options(ctx context.Context, profileID string, scope models.FilterScope, id string) ([]models.FilterOption, error)
	ExportState(ctx context.Context, profileID string, scope models.FilterScope) (json.RawMessage, error)
	ImportState(ctx context.Context, profileID string, scope models.FilterScope, data []byte) (*dto.FilterStateResponse, error)
}

// FilterHandler manages the catalog and schedule filter scopes of a profile.
type FilterHandler struct {
	service filterService
}

// NewFilterHandler constructs a FilterHandler.
func NewFilterHandler(service filterService) *FilterHandler {
	return &FilterHandler{service: service}
}

// State godoc
// @Summary Describe a filter scope
// @Tags Filters
// @Produce json
// @Param scope path string true "catalog or schedule"
// @Success 200 {object} response.Envelope
// @Router /filters/{scope} [get]
func (h *FilterHandler) State(c *gin.Context) {
	profileID, scope, ok := h.target(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.service.State(c.Request.Context(), profileID, scope))
}

// Add godoc
// @Summary Activate a filter
// @Tags Filters
// @Accept json
// @Produce json
// @Param scope path string true "catalog or schedule"
// @Param payload body dto.AddFilterRequest true "Filter"
// @Success 200 {object} response.Envelope
// @Router /filters/{scope} [post]
func (h *FilterHandler) Add(c *gin.Context) {
	profileID, scope, ok := h.target(c)
	if !ok {
		return
	}
	var req dto.AddFilterRequest
	if !bindJSON(c, &req, "invalid filter payload") {
		return
	}
	h.respond(c, http.StatusOK)(h.service.Add(c.Request.Context(), profileID, scope, req.ID, req.Criteria))
}

// Update godoc
// @Summary Change the criteria of an active filter
// @Tags Filters
// @Accept json
// @Produce json
// @Param scope path string true "catalog or schedule"
// @Param id path string true "Filter ID"
// @Param payload body dto.FilterCriteriaRequest true "Criteria"
// @Success 200 {object} response.Envelope
// @Router /filters/{scope}/{id} [put]
func (h *FilterHandler) Update(c *gin.Context) {
	profileID, scope, ok := h.target(c)
	if !ok {
		return
	}
	var req dto.FilterCriteriaRequest
	if !bindJSON(c, &req, "invalid filter criteria") {
		return
	}
	h.respond(c, http.StatusOK)(h.service.Update(c.Request.Context(), profileID, scope, c.Param("id"), req.Criteria))
}

// Toggle godoc
// @Summary Toggle a filter
// @Tags Filters
// @Accept json
// @Produce json
// @Param scope path string true "catalog or schedule"
// @Param id path string true "Filter ID"
// @Param payload body dto.FilterCriteriaRequest false "Criteria used when activating"
// @Success 200 {object} response.Envelope
// @Router /filters/{scope}/{id}/toggle [post]
func (h *FilterHandler) Toggle(c *gin.Context) {
	profileID, scope, ok := h.target(c)
	if !ok {
		return
	}
	var req dto.FilterCriteriaRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "invalid filter criteria") {
		return
	}
	resp, err := h.service.Toggle(c.Request.Context(), profileID, scope, c.Param("id"), req.Criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Remove godoc
// @Summary Deactivate a filter
// @Tags Filters
// @Produce json
// @Param scope path string true "catalog or schedule"
// @Param id path string true "Filter ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /filters/{scope}/{id} [delete]
func (h *FilterHandler) Remove(c *gin.Context) {
	profileID, scope, ok := h.target(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.service.Remove(c.Request.Context(), profileID, scope, c.Param("id")))
}

// Clear godoc
// @Summary Deactivate every filter of a scope
// @Tags Filters
// @Produce json
// @Param scope path string true "catalog or schedule"
// @Success 200 {object} response.Envelope
// @Router /filters/{scope} [delete]
func (h *FilterHandler) Clear(c *gin.Context) {
	profileID, scope, ok := h.target(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.service.Clear(c.Request.Context(), profileID, scope))
}

// Options godoc
// @Summary List choices for a filter
// @Tags Filters
// @Produce json
// @Param scope path string true "catalog or schedule"
// @Param id path string true "Filter ID"
// @Success 200 {object} response.Envelope
// @Router /filters/{scope}/options/{id} [get]
func (h *FilterHandler) Options(c *gin.Context) {
	profileID, scope, ok := h.target(c)
	if !ok {
		return
	}
	options, err := h.service.Options(c.Request.Context(), profileID, scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// ExportState godoc
// @Summary Serialize a filter scope
// @Tags Filters
// @Produce json
// @Param scope path string true "catalog or schedule"
// @Success 200 {object} response.Envelope
// @Router /filters/{scope}/state [get]
func (h *FilterHandler) ExportState(c *gin.Context) {
	profileID, scope, ok := h.target(c)
	if !ok {
		return
	}
	blob, err := h.service.ExportState(c.Request.Context(), profileID, scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blob, nil)
}

// ImportState godoc
// @Summary Replace a filter scope from a serialized state
// @Tags Filters
// @Accept json
// @Produce json
// @Param scope path string true "catalog or schedule"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /filters/{scope}/state [put]
func (h *FilterHandler) ImportState(c *gin.Context) {
	profileID, scope, ok := h.target(c)
	if !ok {
		return
	}
	data, err := c.GetRawData()
	if err != nil || len(data) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "filter state body is required"))
		return
	}
	h.respond(c, http.StatusOK)(h.service.ImportState(c.Request.Context(), profileID, scope, data))
}

func (h *FilterHandler) target(c *gin.Context) (string, models.FilterScope, bool) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return "", "", false
	}
	scope, ok := scopeParam(c)
	return profileID, scope, ok
}

func (h *FilterHandler) respond(c *gin.Context, status int) func(*dto.FilterStateResponse, error) {
	return func(state *dto.FilterStateResponse, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, status, state, nil)
	}
}
