package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"github.com/noah-isme/course-planner-api/pkg/export"
	"github.com/noah-isme/course-planner-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ScheduleSource provides the schedule that gets exported.
type ScheduleSource interface {
	Selected(ctx context.Context, profileID string) ([]*models.SelectedCourse, error)
	ConflictReport(ctx context.Context, profileID string) (*models.ConflictReport, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportDownload is an opened export file.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
}

var exportHeaders = []string{"Course", "Title", "Required", "Section", "CRN", "Term", "Type", "Days", "Start", "End", "Location", "Professor"}

// ExportService renders a profile's schedule to CSV or PDF and hands out signed download links.
type ExportService struct {
	schedule  ScheduleSource
	storage   fileStorage
	renderers map[models.ExportFormat]renderer
	signer    *storage.SignedURLSigner
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(schedule ScheduleSource, store fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		schedule: schedule,
		storage:  store,
		renderers: map[models.ExportFormat]renderer{
			models.ExportFormatCSV: export.NewCSVExporter(),
			models.ExportFormatPDF: export.NewPDFExporter(),
		},
		signer:  signer,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Generate renders the profile's selected schedule and stores it.
func (s *ExportService) Generate(ctx context.Context, profileID string, format models.ExportFormat) (*models.ExportResult, error) {
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	selected, err := s.schedule.Selected(ctx, profileID)
	if err != nil {
		return nil, err
	}
	report, err := s.schedule.ConflictReport(ctx, profileID)
	if err != nil {
		return nil, err
	}

	dataset := s.BuildDataset(selected, report)
	payload, err := r.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule")
	}

	id := uuid.NewString()
	filename := fmt.Sprintf("schedule_%s_%s.%s", s.now().UTC().Format("20060102_150405"), id[:8], r.Extension())
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		_ = s.storage.Delete(relPath)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}

	s.metrics.RecordExport(format)
	s.logger.Info("schedule exported",
		zap.String("profile_id", profileID),
		zap.String("export_id", id),
		zap.String("format", string(format)),
		zap.Int("rows", len(dataset.Rows)))

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return &models.ExportResult{
		ID:        id,
		Format:    format,
		Path:      relPath,
		URL:       fmt.Sprintf("%s/exports/%s", prefix, token),
		Rows:      len(dataset.Rows),
		ExpiresAt: expiresAt,
	}, nil
}

// Open validates a download token and opens the file it points at.
func (s *ExportService) Open(token string) (*ExportDownload, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, appErrors.ErrInvalidToken.Message)
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer exists")
	}
	contentType := "application/octet-stream"
	ext := strings.TrimPrefix(filepath.Ext(relPath), ".")
	for _, r := range s.renderers {
		if r.Extension() == ext {
			contentType = r.ContentType()
		}
	}
	return &ExportDownload{File: file, Filename: filepath.Base(relPath), ContentType: contentType}, nil
}

// Cleanup removes files older than ttl, or the configured ResultTTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// Run cleans up expired exports every interval until ctx is cancelled.
func (s *ExportService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Cleanup(0)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
			}
		}
	}
}

// BuildDataset lays the schedule out one row per meeting period. Courses without a chosen section
// get a single placeholder row; conflicts are listed as notes.
func (s *ExportService) BuildDataset(selected []*models.SelectedCourse, report *models.ConflictReport) export.Dataset {
	rows := make([][]string, 0, len(selected))
	for _, sc := range selected {
		required := "no"
		if sc.IsRequired {
			required = "yes"
		}
		base := []string{sc.Course.Label(), sc.Course.Name, required}
		if !sc.HasSection() {
			rows = append(rows, append(base, "not chosen"))
			continue
		}
		section := sc.SelectedSection
		sectionCols := []string{section.Number, strconv.Itoa(section.CRN), section.ComputedTerm}
		if len(section.Periods) == 0 {
			rows = append(rows, concat(base, sectionCols))
			continue
		}
		for _, p := range section.Periods {
			rows = append(rows, concat(base, sectionCols, []string{
				p.Type, p.Days.String(), p.StartTime.Label(), p.EndTime.Label(), p.Location, p.Professor,
			}))
		}
	}

	var notes []string
	if report != nil {
		for _, c := range report.Conflicts {
			notes = append(notes, "Conflict: "+c.Description)
		}
		if report.IsValid {
			notes = append(notes, "No time conflicts among chosen sections.")
		}
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Course Schedule (%s)", s.now().UTC().Format("2006-01-02")),
		Headers: exportHeaders,
		Rows:    rows,
		Notes:   notes,
	}
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
