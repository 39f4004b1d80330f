package models

import "time"

// EnrollmentState represents the lifecycle of an enrollment.
type EnrollmentState string

// Possible enrollment states.
const (
	EnrollmentStateActive    EnrollmentState = "ACTIVE"
	EnrollmentStateCancelled EnrollmentState = "CANCELLED"
)

// Enrollment links a student to a club. Rows are never deleted; moves and cancellations flip state.
type Enrollment struct {
	ID        string          `db:"id" json:"id"`
	StudentID string          `db:"student_id" json:"student_id"`
	ClubID    string          `db:"club_id" json:"club_id"`
	State     EnrollmentState `db:"state" json:"state"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with student, club and sede info.
type EnrollmentDetail struct {
	Enrollment
	StudentName     string `db:"student_name" json:"student_name"`
	StudentDocument string `db:"student_document" json:"student_document"`
	StudentGroup    string `db:"student_group" json:"student_group"`
	ClubName        string `db:"club_name" json:"club_name"`
	ClubDescription string `db:"club_description" json:"club_description"`
	ClubResponsible string `db:"club_responsible" json:"club_responsible"`
	ClubCapacity    int    `db:"club_capacity" json:"club_capacity"`
	ClubImageURL    string `db:"club_image_url" json:"club_image_url"`
	SedeID          string `db:"sede_id" json:"sede_id"`
	SedeName        string `db:"sede_name" json:"sede_name"`
	SedeSlug        string `db:"sede_slug" json:"sede_slug"`
}

// EnrollmentFilter narrows active enrollment listings. Empty fields are ignored.
type EnrollmentFilter struct {
	SedeID string
	Group  string
	ClubID string
}

// EnrollmentWithSede is an enrollment plus the sede of its club.
type EnrollmentWithSede struct {
	Enrollment
	SedeID string `db:"sede_id" json:"sede_id"`
}
