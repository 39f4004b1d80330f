package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/service"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/response"
)

type reportService interface {
	BuildReport(ctx context.Context, filter dto.ReportFilter) (*dto.Report, error)
	Export(ctx context.Context, filter dto.ReportFilter, format dto.ReportFormat) (*service.ReportFile, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Enrollments godoc
// @Summary Enrollment report per club
// @Description Every selected club is listed, including clubs without students.
// @Tags Reports
// @Produce json,text/csv,application/pdf
// @Param sede query string false "Sede slug"
// @Param group query string false "Student group"
// @Param clubId query string false "Club ID"
// @Param format query string false "json, csv or pdf" default(json)
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security AdminAuth
// @Router /reportes/inscripciones [get]
func (h *ReportHandler) Enrollments(c *gin.Context) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid report filters"))
		return
	}
	format := dto.ReportFormat(strings.ToLower(strings.TrimSpace(string(filter.Format))))
	if format == "" || format == dto.ReportFormatJSON {
		report, err := h.reports.BuildReport(c.Request.Context(), filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, report)
		return
	}

	file, err := h.reports.Export(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
