package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "uq_enrollments_active_student"})
	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "uq_enrollments_active_student"))
	assert.False(t, IsUniqueViolation(err, "students_document_key"))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pq.Error{Code: "40P01"}))
	assert.True(t, IsRetryable(&pq.Error{Code: "55P03"}))
	assert.True(t, IsRetryable(fmt.Errorf("count: %w", context.DeadlineExceeded)))
	assert.False(t, IsRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, IsRetryable(nil))
}
