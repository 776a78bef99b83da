package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

type selectionServiceStub struct {
	selected []*models.SelectedCourse
	doc      *models.SelectionExport
	err      error

	courseID string
	required bool
	section  *string
	imported *models.SelectionExport
	cleared  bool
}

func (s *selectionServiceStub) Selected(ctx context.Context, profileID string) ([]*models.SelectedCourse, error) {
	return s.selected, s.err
}

func (s *selectionServiceStub) SelectCourse(ctx context.Context, profileID, courseID string, required bool) (*models.SelectedCourse, error) {
	s.courseID, s.required = courseID, required
	if s.err != nil {
		return nil, s.err
	}
	return &models.SelectedCourse{Course: &models.Course{ID: courseID}, IsRequired: required}, nil
}

func (s *selectionServiceStub) UnselectCourse(ctx context.Context, profileID, courseID string) error {
	s.courseID = courseID
	return s.err
}

func (s *selectionServiceStub) ToggleCourse(ctx context.Context, profileID, courseID string, required bool) (bool, error) {
	s.courseID, s.required = courseID, required
	return true, s.err
}

func (s *selectionServiceStub) SetSelectedSection(ctx context.Context, profileID, courseID string, number *string) (*models.SelectedCourse, error) {
	s.courseID, s.section = courseID, number
	if s.err != nil {
		return nil, s.err
	}
	return &models.SelectedCourse{Course: &models.Course{ID: courseID}, SelectedSectionNumber: number}, nil
}

func (s *selectionServiceStub) SetRequired(ctx context.Context, profileID, courseID string, required bool) (*models.SelectedCourse, error) {
	s.courseID, s.required = courseID, required
	return &models.SelectedCourse{Course: &models.Course{ID: courseID}, IsRequired: required}, s.err
}

func (s *selectionServiceStub) Clear(ctx context.Context, profileID string) error {
	s.cleared = true
	return s.err
}

func (s *selectionServiceStub) ExportSelections(ctx context.Context, profileID string) (*models.SelectionExport, error) {
	return s.doc, s.err
}

func (s *selectionServiceStub) ImportSelections(ctx context.Context, profileID string, doc *models.SelectionExport) (int, int, error) {
	s.imported = doc
	return len(doc.SelectedCourses) - 1, 1, s.err
}

func TestSelectionHandlerList(t *testing.T) {
	stub := &selectionServiceStub{selected: []*models.SelectedCourse{{Course: &models.Course{ID: "CS-1101"}}}}
	handler := NewSelectionHandler(stub)

	c, w := newProfileContext(http.MethodGet, "/selections", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeEnvelope(t, w).Meta["count"])
}

func TestSelectionHandlerSelect(t *testing.T) {
	stub := &selectionServiceStub{}
	handler := NewSelectionHandler(stub)

	c, w := newProfileContext(http.MethodPost, "/selections", []byte(`{"courseId":"CS-1101","isRequired":true}`))
	handler.Select(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "CS-1101", stub.courseID)
	assert.True(t, stub.required)

	c, w = newProfileContext(http.MethodPost, "/selections", []byte(`{"isRequired":true}`))
	handler.Select(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectionHandlerSelectUnknownCourse(t *testing.T) {
	stub := &selectionServiceStub{err: appErrors.Clone(appErrors.ErrNotFound, "course not found")}
	handler := NewSelectionHandler(stub)

	c, w := newProfileContext(http.MethodPost, "/selections", []byte(`{"courseId":"XX-0000"}`))
	handler.Select(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectionHandlerToggleReadsRequiredQuery(t *testing.T) {
	stub := &selectionServiceStub{}
	handler := NewSelectionHandler(stub)

	c, w := newProfileContext(http.MethodPost, "/selections/MA-1021/toggle?required=true", nil, gin.Param{Key: "courseId", Value: "MA-1021"})
	handler.Toggle(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MA-1021", stub.courseID)
	assert.True(t, stub.required)
}

func TestSelectionHandlerUnselectAndClear(t *testing.T) {
	stub := &selectionServiceStub{}
	handler := NewSelectionHandler(stub)

	c, w := newProfileContext(http.MethodDelete, "/selections/CS-1101", nil, gin.Param{Key: "courseId", Value: "CS-1101"})
	handler.Unselect(c)
	assert.Equal(t, http.StatusNoContent, w.Code)

	c, w = newProfileContext(http.MethodDelete, "/selections", nil)
	handler.Clear(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, stub.cleared)

	stub.err = appErrors.Clone(appErrors.ErrNotFound, "course CS-9999 is not selected")
	c, w = newProfileContext(http.MethodDelete, "/selections/CS-9999", nil, gin.Param{Key: "courseId", Value: "CS-9999"})
	handler.Unselect(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectionHandlerSetSection(t *testing.T) {
	stub := &selectionServiceStub{}
	handler := NewSelectionHandler(stub)

	c, w := newProfileContext(http.MethodPut, "/selections/CS-1101/section", []byte(`{"sectionNumber":"AL01"}`), gin.Param{Key: "courseId", Value: "CS-1101"})
	handler.SetSection(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.section)
	assert.Equal(t, "AL01", *stub.section)

	c, w = newProfileContext(http.MethodPut, "/selections/CS-1101/section", []byte(`{"sectionNumber":null}`), gin.Param{Key: "courseId", Value: "CS-1101"})
	handler.SetSection(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, stub.section)
}

func TestSelectionHandlerSetRequiredNeedsFlag(t *testing.T) {
	stub := &selectionServiceStub{}
	handler := NewSelectionHandler(stub)

	c, w := newProfileContext(http.MethodPut, "/selections/CS-1101/required", []byte(`{}`), gin.Param{Key: "courseId", Value: "CS-1101"})
	handler.SetRequired(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newProfileContext(http.MethodPut, "/selections/CS-1101/required", []byte(`{"isRequired":false}`), gin.Param{Key: "courseId", Value: "CS-1101"})
	handler.SetRequired(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, stub.required)
}

func TestSelectionHandlerExportImport(t *testing.T) {
	section := "AL01"
	doc := &models.SelectionExport{
		Version: "1.0",
		SelectedCourses: []models.SelectionRecord{
			{CourseID: "CS-1101", SectionNumber: &section, IsRequired: true},
			{CourseID: "GONE-1"},
		},
	}
	stub := &selectionServiceStub{doc: doc}
	handler := NewSelectionHandler(stub)

	c, w := newProfileContext(http.MethodGet, "/selections/export", nil)
	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "selections.json")

	c, w = newProfileContext(http.MethodPost, "/selections/import", w.Body.Bytes())
	handler.Import(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.imported)
	assert.Len(t, stub.imported.SelectedCourses, 2)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &counts))
	assert.Equal(t, 1, counts["imported"])
	assert.Equal(t, 1, counts["skipped"])

	c, w = newProfileContext(http.MethodPost, "/selections/import", []byte(`{"selectedCourses":`))
	handler.Import(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
