package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/models"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/textnorm"
)

type studentSedeLister interface {
	List(ctx context.Context) ([]models.Sede, error)
}

type studentStore interface {
	ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error)
}

const (
	importColumnSede = iota
	importColumnGroup
	importColumnName
	importColumnDocument
	importColumns
)

// StudentService handles the roster: listings and CSV imports.
type StudentService struct {
	tx       txProvider
	sedes    studentSedeLister
	students studentStore
	logger   *zap.Logger
	timeout  time.Duration
}

// NewStudentService constructs the student service.
func NewStudentService(tx txProvider, sedes studentSedeLister, students studentStore, logger *zap.Logger, queryTimeout time.Duration) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{tx: tx, sedes: sedes, students: students, logger: logger, timeout: queryTimeout}
}

// ListStudents returns students matching the query.
func (s *StudentService) ListStudents(ctx context.Context, query dto.StudentListQuery) ([]models.StudentDetail, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	students, err := s.students.List(ctx, models.StudentFilter{
		SedeSlug: strings.TrimSpace(query.SedeSlug),
		Group:    strings.TrimSpace(query.Group),
		Search:   strings.TrimSpace(query.Search),
	})
	if err != nil {
		return nil, storeError(err, "failed to list students")
	}
	if students == nil {
		students = []models.StudentDetail{}
	}
	return students, nil
}

// ImportStudents reads sede,group,name,document rows and inserts unknown documents.
// Row problems are reported in the result; a store failure aborts the whole import.
func (s *StudentService) ImportStudents(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	records, err := readImportRecords(r)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{
		Added:      []dto.ImportedStudent{},
		Duplicates: []dto.ImportDuplicate{},
		Errors:     []string{},
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "file contains no records")
		return result, nil
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sedes, err := s.sedes.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list sedes")
	}
	sedeByKey := make(map[string]models.Sede, len(sedes)*2)
	for _, sede := range sedes {
		sedeByKey[sede.Slug] = sede
		sedeByKey[textnorm.Slug(sede.Name)] = sede
	}

	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		seen := make(map[string]struct{}, len(records))
		for _, rec := range records {
			sedeValue := rec.fields[importColumnSede]
			group := rec.fields[importColumnGroup]
			name := rec.fields[importColumnName]
			document := textnorm.Document(rec.fields[importColumnDocument])

			if sedeValue == "" || group == "" || name == "" || document == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: missing required fields", rec.line))
				continue
			}
			if _, dup := seen[document]; dup {
				result.Duplicates = append(result.Duplicates, dto.ImportDuplicate{Document: document, Reason: "duplicate document in file"})
				continue
			}
			sede, ok := sedeByKey[textnorm.Slug(sedeValue)]
			if !ok {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: unknown sede %q", rec.line, sedeValue))
				continue
			}
			if !textnorm.ValidDocument(document) {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid document %q", rec.line, document))
				continue
			}
			seen[document] = struct{}{}

			exists, err := s.students.ExistsByDocument(ctx, tx, document)
			if err != nil {
				return storeError(err, "failed to check student document")
			}
			if exists {
				result.Duplicates = append(result.Duplicates, dto.ImportDuplicate{Document: document, Reason: "document already registered"})
				continue
			}

			student := &models.Student{SedeID: sede.ID, Group: group, Name: name, Document: document, Enabled: true}
			if err := s.students.Create(ctx, tx, student); err != nil {
				return storeError(err, "failed to save student")
			}
			result.Added = append(result.Added, dto.ImportedStudent{Document: document, Name: name, Sede: sede.Slug})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("student import aborted", zap.Error(err))
		return nil, err
	}

	s.logger.Info("students imported",
		zap.Int("added", len(result.Added)),
		zap.Int("duplicates", len(result.Duplicates)),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

type importRecord struct {
	line   int
	fields [importColumns]string
}

// readImportRecords parses the CSV body. A leading BOM and a header row naming the columns are skipped.
func readImportRecords(r io.Reader) ([]importRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []importRecord
	for first := true; ; first = false {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation, "file is not a valid CSV")
		}
		line, _ := reader.FieldPos(0)
		if first && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], "\ufeff")
			if isImportHeader(row) {
				continue
			}
		}

		rec := importRecord{line: line}
		blank := true
		for i := 0; i < importColumns && i < len(row); i++ {
			rec.fields[i] = strings.TrimSpace(row[i])
			if rec.fields[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func isImportHeader(row []string) bool {
	if len(row) < importColumns {
		return false
	}
	first := textnorm.Slug(row[importColumnSede])
	last := textnorm.Slug(row[importColumnDocument])
	return first == "sede" && (last == "document" || last == "documento")
}
