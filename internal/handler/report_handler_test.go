package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/service"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
)

type reportServiceMock struct {
	lastFilter dto.ReportFilter
	lastFormat dto.ReportFormat
	err        error
}

func (m *reportServiceMock) BuildReport(ctx context.Context, filter dto.ReportFilter) (*dto.Report, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return &dto.Report{Clubs: []dto.ClubReport{{ClubName: "Ajedrez", Capacity: 2, Available: 2, Students: []dto.ReportStudent{}}}}, nil
}

func (m *reportServiceMock) Export(ctx context.Context, filter dto.ReportFilter, format dto.ReportFormat) (*service.ReportFile, error) {
	m.lastFilter = filter
	m.lastFormat = format
	if format != dto.ReportFormatCSV && format != dto.ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
	return &service.ReportFile{Filename: "enrollments.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("Sede,Club\n")}, nil
}

func TestReportHandlerJSON(t *testing.T) {
	svc := &reportServiceMock{}
	c, w := newGinContext(http.MethodGet, "/reportes/inscripciones?sede=central&group=5A&clubId=c1", nil)
	NewReportHandler(svc).Enrollments(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ReportFilter{SedeSlug: "central", Group: "5A", ClubID: "c1"}, svc.lastFilter)
	var report dto.Report
	decodeEnvelope(t, w, &report)
	require.Len(t, report.Clubs, 1)
	assert.Empty(t, report.Clubs[0].Students)
}

func TestReportHandlerCSVDownload(t *testing.T) {
	svc := &reportServiceMock{}
	c, w := newGinContext(http.MethodGet, "/reportes/inscripciones?format=CSV", nil)
	NewReportHandler(svc).Enrollments(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ReportFormatCSV, svc.lastFormat)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "enrollments.csv")
	assert.Equal(t, "Sede,Club\n", w.Body.String())
}

func TestReportHandlerErrors(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/reportes/inscripciones?format=xml", nil)
	NewReportHandler(&reportServiceMock{}).Enrollments(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/reportes/inscripciones?sede=sur", nil)
	NewReportHandler(&reportServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "sede not found")}).Enrollments(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
