package dto

import (
	"time"

	"github.com/andresdelrio/clubs/internal/models"
)

// ReportFormat selects the report rendering.
type ReportFormat string

// Supported report formats.
const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
)

// ReportFilter captures GET /reportes/inscripciones query parameters.
type ReportFilter struct {
	SedeSlug string       `form:"sede" json:"sede,omitempty"`
	Group    string       `form:"group" json:"group,omitempty"`
	ClubID   string       `form:"clubId" json:"clubId,omitempty"`
	Format   ReportFormat `form:"format" json:"-"`
}

// ReportFilters echoes the applied filters in the report body.
type ReportFilters struct {
	Sede   *models.Sede `json:"sede"`
	Group  *string      `json:"group"`
	ClubID *string      `json:"clubId"`
}

// Report is the occupancy view of the selected clubs.
type Report struct {
	Filters     ReportFilters `json:"filters"`
	Clubs       []ClubReport  `json:"clubs"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// ClubReport is one club with its active enrollments.
type ClubReport struct {
	ClubID          string          `json:"clubId"`
	ClubName        string          `json:"clubName"`
	ClubDescription string          `json:"clubDescription"`
	ClubResponsible string          `json:"clubResponsible"`
	Capacity        int             `json:"capacity"`
	SedeID          string          `json:"sedeId"`
	SedeName        string          `json:"sedeName"`
	SedeSlug        string          `json:"sedeSlug"`
	Occupied        int             `json:"occupied"`
	Available       int             `json:"available"`
	Students        []ReportStudent `json:"students"`
}

// ReportStudent is an enrolled student listed under a club.
type ReportStudent struct {
	EnrollmentID string `json:"enrollmentId"`
	Name         string `json:"name"`
	Document     string `json:"document"`
	Group        string `json:"group"`
}
