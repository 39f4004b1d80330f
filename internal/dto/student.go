package dto

// StudentListQuery captures GET /admin/estudiantes filters.
type StudentListQuery struct {
	SedeSlug string `form:"sede"`
	Group    string `form:"group"`
	Search   string `form:"search"`
}

// ImportedStudent is a row added by an import.
type ImportedStudent struct {
	Document string `json:"document"`
	Name     string `json:"name"`
	Sede     string `json:"sede"`
}

// ImportDuplicate is a row skipped because its document already exists.
type ImportDuplicate struct {
	Document string `json:"document"`
	Reason   string `json:"reason"`
}

// ImportResult summarises a student CSV import.
type ImportResult struct {
	Added      []ImportedStudent `json:"added"`
	Duplicates []ImportDuplicate `json:"duplicates"`
	Errors     []string          `json:"errors"`
}
