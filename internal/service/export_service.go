package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
	"github.com/noah-isme/gig-scheduler-api/pkg/export"
	"github.com/noah-isme/gig-scheduler-api/pkg/storage"
)

var scheduleHeaders = []string{"date", "weekday", "start_time", "artist", "title", "venue", "city", "status", "price", "capacity", "sold"}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(schedule export.MonthSchedule) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportMonthRequest selects the month schedule to export.
type ExportMonthRequest struct {
	Year     int    `json:"year" validate:"required,min=1900,max=9999"`
	Month    int    `json:"month" validate:"required,min=1,max=12"`
	Format   string `json:"format" validate:"required,oneof=csv pdf"`
	ArtistID string `json:"artist_id"`
}

// ExportFile is an opened export ready to stream.
type ExportFile struct {
	File        *os.File
	Name        string
	ContentType string
}

// ExportService renders month schedules and hands out signed download links.
type ExportService struct {
	shows     showRangeReader
	storage   fileStorage
	signer    *storage.SignedURLSigner
	builder   *calendar.Builder
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the pkg/export defaults.
func NewExportService(shows showRangeReader, store fileStorage, signer *storage.SignedURLSigner, builder *calendar.Builder, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if builder == nil {
		builder = calendar.NewBuilder(time.UTC)
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		shows:     shows,
		storage:   store,
		signer:    signer,
		builder:   builder,
		csv:       csv,
		pdf:       pdf,
		validator: validator.New(),
		logger:    logger,
		cfg:       cfg,
	}
}

// ExportMonth renders every show of the month and stores the file.
func (s *ExportService) ExportMonth(ctx context.Context, req ExportMonthRequest) (*models.ScheduleExport, error) {
	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && fieldErrs[0].Field() == "Format" {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "format must be csv or pdf")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	reference := calendar.NewDate(req.Year, time.Month(req.Month), 1)
	shows, err := s.shows.ListByDateRange(ctx, reference.FirstOfMonth(), reference.LastOfMonth(), strings.TrimSpace(req.ArtistID))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shows for export")
	}
	dataset := scheduleDataset(shows)

	format := models.ExportFormat(req.Format)
	var payload []byte
	switch format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(export.MonthSchedule{
			Title:  fmt.Sprintf("%s %d", reference.Month, reference.Year),
			Grid:   s.builder.Build(reference),
			Labels: scheduleLabels(shows),
			Detail: dataset,
		})
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	id := uuid.NewString()
	filename := fmt.Sprintf("%04d/%02d/schedule-%s.%s", reference.Year, int(reference.Month), id, format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}

	s.logger.Info("schedule exported", zap.String("export_id", id), zap.String("format", string(format)), zap.Int("rows", dataset.Len()))
	return &models.ScheduleExport{
		ID:        id,
		Format:    format,
		Year:      reference.Year,
		Month:     int(reference.Month),
		Rows:      dataset.Len(),
		URL:       s.downloadURL(token),
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	}, nil
}

// Open validates a download token and opens the referenced file.
func (s *ExportService) Open(token string) (*ExportFile, error) {
	claims, err := s.signer.Parse(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrInvalidToken, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidToken, "")
	}
	file, err := s.storage.Open(claims.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}
	return &ExportFile{File: file, Name: path.Base(claims.Path), ContentType: contentTypeFor(claims.Path)}, nil
}

// Cleanup removes exports whose download links can no longer be valid.
func (s *ExportService) Cleanup() (int, error) {
	deleted, err := s.storage.CleanupOlderThan(s.signer.TTL())
	if err != nil {
		return 0, err
	}
	if len(deleted) > 0 {
		s.logger.Info("expired exports removed", zap.Int("files", len(deleted)))
	}
	return len(deleted), nil
}

func (s *ExportService) downloadURL(token string) string {
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	return prefix + "/exports/download/" + token
}

func scheduleDataset(shows []models.Show) export.Dataset {
	rows := make([]map[string]string, 0, len(shows))
	for _, show := range shows {
		start := ""
		if show.StartTime != nil {
			start = *show.StartTime
		}
		rows = append(rows, map[string]string{
			"date":       show.Date.String(),
			"weekday":    show.Date.Weekday().String(),
			"start_time": start,
			"artist":     show.ArtistName,
			"title":      show.Title,
			"venue":      show.Venue,
			"city":       show.City,
			"status":     string(show.Status),
			"price":      strconv.FormatFloat(show.Price, 'f', 2, 64),
			"capacity":   strconv.Itoa(show.Capacity),
			"sold":       strconv.Itoa(show.Sold),
		})
	}
	return export.Dataset{Headers: scheduleHeaders, Rows: rows}
}

func scheduleLabels(shows []models.Show) map[calendar.Date][]string {
	index := calendar.NewIndex(shows)
	labels := make(map[calendar.Date][]string, len(index.Dates()))
	for _, date := range index.Dates() {
		for _, show := range index.On(date, calendar.ArtistFilter{}) {
			label := show.ArtistName + " @ " + show.Venue
			if show.StartTime != nil {
				label = *show.StartTime + " " + label
			}
			labels[date] = append(labels[date], label)
		}
	}
	return labels
}

func contentTypeFor(name string) string {
	switch path.Ext(name) {
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
