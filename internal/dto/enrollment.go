package dto

// RegisterEnrollmentRequest is the public self-registration payload.
type RegisterEnrollmentRequest struct {
	Document      string `json:"document" validate:"required"`
	ClubID        string `json:"clubId" validate:"required"`
	AcceptWarning bool   `json:"acceptWarning"`
}

// AssignEnrollmentRequest lets an administrator enroll a student on their behalf.
type AssignEnrollmentRequest struct {
	Document string `json:"document" validate:"required"`
	ClubID   string `json:"clubId" validate:"required"`
}

// MoveEnrollmentRequest carries the destination club of a move.
type MoveEnrollmentRequest struct {
	NewClubID string `json:"newClubId" validate:"required"`
}

// EnrollmentStatusRequest looks up the active enrollment of a document.
type EnrollmentStatusRequest struct {
	Document string `json:"document" validate:"required"`
}

// EnrollmentStatus answers whether a student currently holds an active enrollment.
type EnrollmentStatus struct {
	Enrolled bool           `json:"enrolled"`
	Student  *StatusStudent `json:"student,omitempty"`
	Sede     *StatusSede    `json:"sede,omitempty"`
	Club     *StatusClub    `json:"club,omitempty"`
}

// StatusStudent is the student section of EnrollmentStatus.
type StatusStudent struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Group    string `json:"group"`
}

// StatusSede is the sede section of EnrollmentStatus.
type StatusSede struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// StatusClub is the club section of EnrollmentStatus.
type StatusClub struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Responsible string `json:"responsible"`
	Capacity    int    `json:"capacity"`
	ImageURL    string `json:"imageUrl"`
}
