package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/conflict"
	"github.com/noah-isme/course-planner-api/internal/dto"
	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

// SelectionExportVersion tags documents produced by ExportSelections.
const SelectionExportVersion = "1.0"

// CourseLookup resolves catalog courses.
type CourseLookup interface {
	Course(id string) (*models.Course, error)
}

// SelectionService manages a profile's selected courses and their conflicts.
type SelectionService struct {
	workspaces *WorkspaceService
	catalog    CourseLookup
	detector   *conflict.Detector
	logger     *zap.Logger
	now        func() time.Time
}

// NewSelectionService constructs the service.
func NewSelectionService(workspaces *WorkspaceService, catalog CourseLookup, detector *conflict.Detector, logger *zap.Logger) *SelectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{workspaces: workspaces, catalog: catalog, detector: detector, logger: logger, now: time.Now}
}

// Selected lists the selections in planner order.
func (s *SelectionService) Selected(ctx context.Context, profileID string) ([]*models.SelectedCourse, error) {
	var out []*models.SelectedCourse
	err := s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		out = ws.SelectedSnapshot()
		return nil
	})
	return out, err
}

// SelectCourse adds a catalog course. Selecting an already selected course returns the existing
// selection unchanged.
func (s *SelectionService) SelectCourse(ctx context.Context, profileID, courseID string, required bool) (*models.SelectedCourse, error) {
	course, err := s.catalog.Course(courseID)
	if err != nil {
		return nil, err
	}
	var out models.SelectedCourse
	err = s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		sc, added, err := ws.Select(course, required)
		if err != nil {
			return err
		}
		if added {
			s.logger.Debug("course selected", zap.String("profile_id", profileID), zap.String("course_id", courseID))
		}
		out = *sc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UnselectCourse removes a course from the planner.
func (s *SelectionService) UnselectCourse(ctx context.Context, profileID, courseID string) error {
	return s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		if !ws.Unselect(courseID) {
			return notSelected(courseID)
		}
		return nil
	})
}

// ToggleCourse selects an unselected course or unselects a selected one. It returns whether the
// course is selected afterwards.
func (s *SelectionService) ToggleCourse(ctx context.Context, profileID, courseID string, required bool) (bool, error) {
	course, err := s.catalog.Course(courseID)
	if err != nil {
		return false, err
	}
	var selected bool
	err = s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		if ws.Unselect(courseID) {
			selected = false
			return nil
		}
		if _, _, err := ws.Select(course, required); err != nil {
			return err
		}
		selected = true
		return nil
	})
	return selected, err
}

// SetSelectedSection chooses a section of a selected course. A nil number clears the choice.
func (s *SelectionService) SetSelectedSection(ctx context.Context, profileID, courseID string, number *string) (*models.SelectedCourse, error) {
	var out models.SelectedCourse
	err := s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		sc, ok := ws.Find(courseID)
		if !ok {
			return notSelected(courseID)
		}
		if err := sc.SelectSection(number); err != nil {
			return err
		}
		ws.MarkSelectionsChanged()
		out = *sc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetRequired flags a selected course as required or optional.
func (s *SelectionService) SetRequired(ctx context.Context, profileID, courseID string, required bool) (*models.SelectedCourse, error) {
	var out models.SelectedCourse
	err := s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		sc, ok := ws.Find(courseID)
		if !ok {
			return notSelected(courseID)
		}
		if sc.IsRequired != required {
			sc.IsRequired = required
			ws.MarkSelectionsChanged()
		}
		out = *sc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Clear removes every selection.
func (s *SelectionService) Clear(ctx context.Context, profileID string) error {
	return s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		ws.ClearSelections()
		return nil
	})
}

// ExportSelections renders the selections as a portable document.
func (s *SelectionService) ExportSelections(ctx context.Context, profileID string) (*models.SelectionExport, error) {
	doc := &models.SelectionExport{Version: SelectionExportVersion, Timestamp: s.now().UTC()}
	err := s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		doc.SelectedCourses = ws.SelectionRecords()
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i := range doc.SelectedCourses {
		doc.SelectedCourses[i].ProfileID = ""
	}
	return doc, nil
}

// ImportSelections replaces the selections with doc. Courses missing from the catalog are skipped
// and counted; the import fails without changes when doc carries no selectedCourses array.
func (s *SelectionService) ImportSelections(ctx context.Context, profileID string, doc *models.SelectionExport) (imported, skipped int, err error) {
	if doc == nil || doc.SelectedCourses == nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "import requires a selectedCourses array")
	}
	err = s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		selected, report := linkRecords(s.workspaces.currentCatalog(), doc.SelectedCourses)
		ws.ReplaceSelections(selected)
		imported = len(selected)
		skipped = len(doc.SelectedCourses) - imported
		if report.cleared > 0 {
			s.logger.Info("imported selections lost their sections", zap.String("profile_id", profileID), zap.Int("count", report.cleared))
		}
		return nil
	})
	return imported, skipped, err
}

// ConflictReport checks the sections chosen in the profile's planner against each other.
func (s *SelectionService) ConflictReport(ctx context.Context, profileID string) (*models.ConflictReport, error) {
	var sections []*models.Section
	err := s.workspaces.Do(ctx, profileID, func(ws *Workspace) error {
		for _, sc := range ws.Selected() {
			if sc.HasSection() {
				sections = append(sections, sc.SelectedSection)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.report(sections), nil
}

// CheckConflicts resolves refs against the catalog and checks them against each other.
func (s *SelectionService) CheckConflicts(refs []dto.SectionRef) (*models.ConflictReport, error) {
	sections := make([]*models.Section, 0, len(refs))
	for _, ref := range refs {
		course, err := s.catalog.Course(ref.CourseID)
		if err != nil {
			return nil, err
		}
		section := course.FindSection(ref.SectionNumber)
		if section == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("section %s of course %s not found", ref.SectionNumber, ref.CourseID))
		}
		sections = append(sections, section)
	}
	return s.report(sections), nil
}

func (s *SelectionService) report(sections []*models.Section) *models.ConflictReport {
	return &models.ConflictReport{
		Conflicts: s.detector.DetectConflicts(sections),
		IsValid:   s.detector.IsValidSchedule(sections),
		Checked:   len(sections),
	}
}

func notSelected(courseID string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s is not selected", courseID))
}
