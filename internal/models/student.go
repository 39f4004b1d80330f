package models

import "time"

// Student is a learner eligible to join one club in their sede.
type Student struct {
	ID        string    `db:"id" json:"id"`
	SedeID    string    `db:"sede_id" json:"sede_id"`
	Group     string    `db:"student_group" json:"group"`
	Name      string    `db:"name" json:"name"`
	Document  string    `db:"document" json:"document"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StudentDetail adds sede display data to a student.
type StudentDetail struct {
	Student
	SedeName string `db:"sede_name" json:"sede_name"`
	SedeSlug string `db:"sede_slug" json:"sede_slug"`
}

// StudentFilter narrows student listings. Empty fields are ignored.
type StudentFilter struct {
	SedeSlug string
	Group    string
	Search   string
}
