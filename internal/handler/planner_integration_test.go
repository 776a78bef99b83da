package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/conflict"
	internalmiddleware "github.com/noah-isme/course-planner-api/internal/middleware"
	"github.com/noah-isme/course-planner-api/internal/models"
	"github.com/noah-isme/course-planner-api/internal/service"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"github.com/noah-isme/course-planner-api/pkg/middleware/profile"
)

type fixedCatalog struct {
	catalog *models.Catalog
}

func (f fixedCatalog) Catalog() *models.Catalog { return f.catalog }

func (f fixedCatalog) Course(id string) (*models.Course, error) {
	course, ok := f.catalog.Course(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return course, nil
}

func integrationCatalog() *models.Catalog {
	mw := models.NewDaySet(models.Monday, models.Wednesday)
	lecture := func(prof string, sh, sm, eh, em int) *models.Period {
		return &models.Period{Type: "Lecture", Professor: prof, StartTime: models.NewTime(sh, sm), EndTime: models.NewTime(eh, em), Days: mw, Seats: 30, SeatsAvailable: 4}
	}
	cs := &models.Department{Abbreviation: "CS", Name: "Computer Science"}
	ma := &models.Department{Abbreviation: "MA", Name: "Mathematical Sciences"}
	intro := &models.Course{ID: "CS-1101", Number: "1101", Name: "Introduction to Program Design", Department: cs, MinCredits: 1, MaxCredits: 1,
		Sections: []*models.Section{{CRN: 1001, Number: "AL01", ComputedTerm: "A", Seats: 30, SeatsAvailable: 4, Periods: []*models.Period{lecture("Smith", 9, 0, 9, 50)}}}}
	calc := &models.Course{ID: "MA-1021", Number: "1021", Name: "Applied Calculus", Department: ma, MinCredits: 1, MaxCredits: 1,
		Sections: []*models.Section{{CRN: 3001, Number: "AL01", ComputedTerm: "A", Seats: 30, SeatsAvailable: 4, Periods: []*models.Period{lecture("Lovelace", 9, 30, 10, 20)}}}}
	cs.Courses = []*models.Course{intro}
	ma.Courses = []*models.Course{calc}
	return models.NewCatalog([]*models.Department{cs, ma})
}

func buildPlannerRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	catalog := fixedCatalog{catalog: integrationCatalog()}
	metrics := service.NewMetricsService()
	detector := conflict.NewDetector(metrics)
	cache := service.NewCacheService(nil, metrics, 0, logger, false)
	workspaces := service.NewWorkspaceService(catalog, detector, nil, nil, metrics, 0, logger)
	selections := service.NewSelectionService(workspaces, catalog, detector, logger)
	filters := service.NewFilterService(workspaces, catalog, cache, metrics, logger)

	filterHandler := NewFilterHandler(filters)
	selectionHandler := NewSelectionHandler(selections)
	scheduleHandler := NewScheduleHandler(filters, selections)

	r := gin.New()
	r.Use(internalmiddleware.WithResponseMeta())
	api := r.Group("/api/v1", profile.Middleware())
	api.GET("/filters/:scope", filterHandler.State)
	api.POST("/filters/:scope", filterHandler.Add)
	api.GET("/filters/:scope/state", filterHandler.ExportState)
	api.DELETE("/filters/:scope/:id", filterHandler.Remove)
	api.POST("/selections", selectionHandler.Select)
	api.PUT("/selections/:courseId/section", selectionHandler.SetSection)
	api.GET("/schedule/conflicts", scheduleHandler.Conflicts)
	api.POST("/conflicts/check", scheduleHandler.CheckConflicts)
	return r
}

func plannerRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(profile.HeaderKey, testProfile)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPlannerRoutesIntegration(t *testing.T) {
	router := buildPlannerRouter()

	t.Run("add filter and read state blob", func(t *testing.T) {
		resp := plannerRequest(router, http.MethodPost, "/api/v1/filters/catalog", `{"id":"department","criteria":{"departments":["CS"]}}`)
		require.Equal(t, http.StatusOK, resp.Code)

		resp = plannerRequest(router, http.MethodGet, "/api/v1/filters/catalog/state", "")
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `department`)
	})

	t.Run("unknown filter is 404", func(t *testing.T) {
		resp := plannerRequest(router, http.MethodPost, "/api/v1/filters/catalog", `{"id":"nope","criteria":{}}`)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("unknown scope is rejected", func(t *testing.T) {
		resp := plannerRequest(router, http.MethodGet, "/api/v1/filters/everything", "")
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("overlapping selections are reported", func(t *testing.T) {
		for _, id := range []string{"CS-1101", "MA-1021"} {
			resp := plannerRequest(router, http.MethodPost, "/api/v1/selections", `{"courseId":"`+id+`"}`)
			require.Equal(t, http.StatusCreated, resp.Code)
			resp = plannerRequest(router, http.MethodPut, "/api/v1/selections/"+id+"/section", `{"sectionNumber":"AL01"}`)
			require.Equal(t, http.StatusOK, resp.Code)
		}
		resp := plannerRequest(router, http.MethodGet, "/api/v1/schedule/conflicts", "")
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"isValid":false`)
	})

	t.Run("ad hoc check", func(t *testing.T) {
		resp := plannerRequest(router, http.MethodPost, "/api/v1/conflicts/check", `{"sections":[{"courseId":"CS-1101","sectionNumber":"AL01"}]}`)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"isValid":true`)

		resp = plannerRequest(router, http.MethodPost, "/api/v1/conflicts/check", `{"sections":[]}`)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})
}
