package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-planner-api/internal/dto"
	"github.com/noah-isme/course-planner-api/internal/middleware"
	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"github.com/noah-isme/course-planner-api/pkg/response"
)

type catalogReader interface {
	Departments() ([]*models.Department, error)
	Course(id string) (*models.Course, error)
	Version() string
}

type courseLister interface {
	ListCourses(ctx context.Context, profileID string, page, pageSize int) ([]*models.Course, *models.Pagination, bool, error)
}

type catalogRefresher interface {
	Refresh(ctx context.Context) (*dto.RefreshResponse, error)
}

// CatalogHandler serves the course catalog.
type CatalogHandler struct {
	catalog   catalogReader
	courses   courseLister
	refresher catalogRefresher
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog catalogReader, courses courseLister, refresher catalogRefresher) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, courses: courses, refresher: refresher}
}

type departmentSummary struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	Courses      int    `json:"courses"`
}

// Departments godoc
// @Summary List departments
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *CatalogHandler) Departments(c *gin.Context) {
	departments, err := h.catalog.Departments()
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]departmentSummary, 0, len(departments))
	for _, d := range departments {
		out = append(out, departmentSummary{Abbreviation: d.Abbreviation, Name: d.Name, Courses: len(d.Courses)})
	}
	response.JSON(c, http.StatusOK, out, nil, map[string]interface{}{"version": h.catalog.Version()})
}

// Courses godoc
// @Summary List courses matching the profile's catalog filters
// @Tags Catalog
// @Produce json
// @Param X-Profile-ID header string false "Planner profile"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	profileID, ok := profileFromContext(c)
	if !ok {
		return
	}
	var query dto.CourseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pagination"))
		return
	}
	if err := validate.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pagination"))
		return
	}
	courses, pagination, cacheHit, err := h.courses.ListCourses(c.Request.Context(), profileID, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, courses, pagination, middleware.ExtractMeta(c))
}

// Course godoc
// @Summary Get a course
// @Tags Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CatalogHandler) Course(c *gin.Context) {
	course, err := h.catalog.Course(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Refresh godoc
// @Summary Queue a catalog reload
// @Tags Catalog
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /catalog/refresh [post]
func (h *CatalogHandler) Refresh(c *gin.Context) {
	resp, err := h.refresher.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, resp)
}
