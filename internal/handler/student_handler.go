package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/models"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/response"
)

// ImportFileField is the multipart field holding the roster CSV.
const ImportFileField = "archivo"

type studentService interface {
	ListStudents(ctx context.Context, query dto.StudentListQuery) ([]models.StudentDetail, error)
	ImportStudents(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
}

// StudentHandler manages roster endpoints.
type StudentHandler struct {
	service     studentService
	maxFileSize int64
}

// NewStudentHandler constructs the handler. maxFileSize bounds uploaded CSV files.
func NewStudentHandler(service studentService, maxFileSize int64) *StudentHandler {
	return &StudentHandler{service: service, maxFileSize: maxFileSize}
}

// List godoc
// @Summary List students
// @Tags Admin
// @Produce json
// @Param sede query string false "Sede slug"
// @Param group query string false "Group"
// @Param search query string false "Name or document fragment"
// @Success 200 {object} response.Envelope
// @Security AdminAuth
// @Router /admin/estudiantes [get]
func (h *StudentHandler) List(c *gin.Context) {
	var query dto.StudentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid query"))
		return
	}
	students, err := h.service.ListStudents(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"total": len(students)})
}

// Import godoc
// @Summary Import students from CSV
// @Description Columns: sede, group, name, document. Existing documents are reported as duplicates.
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param archivo formData file true "Roster CSV"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security AdminAuth
// @Router /admin/estudiantes/importar [post]
func (h *StudentHandler) Import(c *gin.Context) {
	if h.maxFileSize > 0 {
		// multipart framing adds a little on top of the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+64*1024)
	}
	fileHeader, err := c.FormFile(ImportFileField)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "a CSV file is required in field "+ImportFileField))
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the upload limit"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal, "failed to open file"))
		return
	}
	defer src.Close()

	result, err := h.service.ImportStudents(c.Request.Context(), src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
