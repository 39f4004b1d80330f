package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/models"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/export"
)

type reportSedeReader interface {
	GetBySlug(ctx context.Context, slug string) (*models.Sede, error)
}

type reportClubReader interface {
	GetClubByID(ctx context.Context, id string) (*models.ClubSummary, error)
	ListClubsBySede(ctx context.Context, sedeID string) ([]models.ClubSummary, error)
	ListAllClubs(ctx context.Context) ([]models.ClubSummary, error)
}

type reportEnrollmentReader interface {
	ListActive(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, opts export.PDFOptions) ([]byte, error)
}

// ReportFile is a rendered report ready to be served.
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportServiceConfig tunes report building.
type ReportServiceConfig struct {
	QueryTimeout time.Duration
	CacheTTL     time.Duration
}

// ReportService aggregates per-club occupancy views. It takes no locks; a report reflects
// whatever each of its two reads observed.
type ReportService struct {
	sedes       reportSedeReader
	clubs       reportClubReader
	enrollments reportEnrollmentReader
	cache       *CacheService
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
	cfg         ReportServiceConfig
}

// NewReportService constructs a ReportService. cache may be nil.
func NewReportService(
	sedes reportSedeReader,
	clubs reportClubReader,
	enrollments reportEnrollmentReader,
	cache *CacheService,
	csv csvRenderer,
	pdf pdfRenderer,
	logger *zap.Logger,
	cfg ReportServiceConfig,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{sedes: sedes, clubs: clubs, enrollments: enrollments, cache: cache, csv: csv, pdf: pdf, logger: logger, cfg: cfg}
}

// BuildReport lists the selected clubs, each with its active students and occupancy.
// Clubs without enrollments are always present.
func (s *ReportService) BuildReport(ctx context.Context, filter dto.ReportFilter) (*dto.Report, error) {
	filter.SedeSlug = strings.TrimSpace(filter.SedeSlug)
	filter.Group = strings.TrimSpace(filter.Group)
	filter.ClubID = strings.TrimSpace(filter.ClubID)

	cacheKey := reportCacheKey(filter)
	var cached dto.Report
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	ctx, cancel := withTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	report := &dto.Report{Clubs: []dto.ClubReport{}}
	if filter.Group != "" {
		group := filter.Group
		report.Filters.Group = &group
	}
	if filter.ClubID != "" {
		clubID := filter.ClubID
		report.Filters.ClubID = &clubID
	}

	var sedeID string
	if filter.SedeSlug != "" {
		sede, err := s.sedes.GetBySlug(ctx, filter.SedeSlug)
		if err != nil {
			if isNoRows(err) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "sede not found")
			}
			return nil, storeError(err, "failed to load sede")
		}
		sedeID = sede.ID
		report.Filters.Sede = sede
	}

	if filter.ClubID != "" && !validID(filter.ClubID) {
		report.GeneratedAt = time.Now().UTC()
		return report, nil
	}

	var (
		base []models.ClubSummary
		rows []models.EnrollmentDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		base, err = s.baseClubs(gctx, filter.ClubID, sedeID)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.enrollments.ListActive(gctx, models.EnrollmentFilter{SedeID: sedeID, Group: filter.Group, ClubID: filter.ClubID})
		if err != nil {
			return fmt.Errorf("list active enrollments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("build report", zap.Error(err))
		return nil, storeError(err, "failed to build report")
	}

	report.Clubs = foldReport(base, rows)
	report.GeneratedAt = time.Now().UTC()

	if err := s.cache.Set(ctx, cacheKey, report, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache report", zap.Error(err))
	}
	return report, nil
}

func (s *ReportService) baseClubs(ctx context.Context, clubID, sedeID string) ([]models.ClubSummary, error) {
	switch {
	case clubID != "":
		club, err := s.clubs.GetClubByID(ctx, clubID)
		if err != nil {
			if isNoRows(err) {
				return nil, nil
			}
			return nil, err
		}
		return []models.ClubSummary{*club}, nil
	case sedeID != "":
		return s.clubs.ListClubsBySede(ctx, sedeID)
	default:
		return s.clubs.ListAllClubs(ctx)
	}
}

// foldReport merges active rows into the base clubs. Occupancy is recomputed from the folded
// rows so that a group filter shows the filtered count, not the club's real one.
func foldReport(base []models.ClubSummary, rows []models.EnrollmentDetail) []dto.ClubReport {
	byID := make(map[string]*dto.ClubReport, len(base))
	order := make([]string, 0, len(base))
	for _, club := range base {
		if _, seen := byID[club.ID]; seen {
			continue
		}
		byID[club.ID] = &dto.ClubReport{
			ClubID:          club.ID,
			ClubName:        club.Name,
			ClubDescription: club.Description,
			ClubResponsible: club.Responsible,
			Capacity:        club.Capacity,
			SedeID:          club.SedeID,
			SedeName:        club.SedeName,
			SedeSlug:        club.SedeSlug,
			Occupied:        0,
			Available:       club.Available,
			Students:        []dto.ReportStudent{},
		}
		order = append(order, club.ID)
	}

	for _, row := range rows {
		entry, ok := byID[row.ClubID]
		if !ok {
			entry = &dto.ClubReport{
				ClubID:          row.ClubID,
				ClubName:        row.ClubName,
				ClubResponsible: row.ClubResponsible,
				Capacity:        row.ClubCapacity,
				SedeID:          row.SedeID,
				SedeName:        row.SedeName,
				SedeSlug:        row.SedeSlug,
				Students:        []dto.ReportStudent{},
			}
			byID[row.ClubID] = entry
			order = append(order, row.ClubID)
		}
		entry.Students = append(entry.Students, dto.ReportStudent{
			EnrollmentID: row.ID,
			Name:         row.StudentName,
			Document:     row.StudentDocument,
			Group:        row.StudentGroup,
		})
		entry.Occupied = len(entry.Students)
		entry.Available = AvailableSeats(entry.Capacity, entry.Occupied)
	}

	col := collate.New(language.Spanish, collate.Loose)
	clubs := make([]dto.ClubReport, 0, len(order))
	for _, id := range order {
		entry := byID[id]
		sort.SliceStable(entry.Students, func(i, j int) bool {
			return col.CompareString(entry.Students[i].Name, entry.Students[j].Name) < 0
		})
		clubs = append(clubs, *entry)
	}
	sort.SliceStable(clubs, func(i, j int) bool {
		if c := col.CompareString(clubs[i].SedeName, clubs[j].SedeName); c != 0 {
			return c < 0
		}
		return col.CompareString(clubs[i].ClubName, clubs[j].ClubName) < 0
	})
	return clubs
}

var reportHeaders = []string{"Sede", "Club", "Responsible", "Capacity", "Occupied", "Available", "Student", "Document", "Group"}

// Export renders a report as CSV or PDF. Clubs without students produce one row with empty student columns.
func (s *ReportService) Export(ctx context.Context, filter dto.ReportFilter, format dto.ReportFormat) (*ReportFile, error) {
	report, err := s.BuildReport(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := reportDataset(report)
	stamp := report.GeneratedAt.Format("20060102-150405")

	switch format {
	case dto.ReportFormatCSV:
		out, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to render report")
		}
		return &ReportFile{Filename: "enrollments-" + stamp + ".csv", ContentType: "text/csv; charset=utf-8", Data: out}, nil
	case dto.ReportFormatPDF:
		out, err := s.pdf.Render(data, export.PDFOptions{
			Title:     "Club enrollments",
			Subtitle:  reportSubtitle(report),
			Landscape: true,
			Weights:   map[string]float64{"Club": 2, "Student": 2.5, "Responsible": 1.5, "Sede": 1.2},
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to render report")
		}
		return &ReportFile{Filename: "enrollments-" + stamp + ".pdf", ContentType: "application/pdf", Data: out}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
}

func reportDataset(report *dto.Report) export.Dataset {
	data := export.Dataset{Headers: reportHeaders}
	for _, club := range report.Clubs {
		base := map[string]string{
			"Sede":        club.SedeName,
			"Club":        club.ClubName,
			"Responsible": club.ClubResponsible,
			"Capacity":    strconv.Itoa(club.Capacity),
			"Occupied":    strconv.Itoa(club.Occupied),
			"Available":   strconv.Itoa(club.Available),
		}
		if len(club.Students) == 0 {
			data.Rows = append(data.Rows, base)
			continue
		}
		for _, student := range club.Students {
			row := make(map[string]string, len(reportHeaders))
			for k, v := range base {
				row[k] = v
			}
			row["Student"] = student.Name
			row["Document"] = student.Document
			row["Group"] = student.Group
			data.Rows = append(data.Rows, row)
		}
	}
	return data
}

func reportSubtitle(report *dto.Report) string {
	parts := []string{report.GeneratedAt.Format("2006-01-02 15:04 MST")}
	if report.Filters.Sede != nil {
		parts = append(parts, "sede "+report.Filters.Sede.Name)
	}
	if report.Filters.Group != nil {
		parts = append(parts, "group "+*report.Filters.Group)
	}
	return strings.Join(parts, " | ")
}

func reportCacheKey(filter dto.ReportFilter) string {
	return "reports:" + strings.Join([]string{filter.SedeSlug, filter.Group, filter.ClubID}, "|")
}
