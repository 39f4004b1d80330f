package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSedeRepositoryList(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewSedeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, slug FROM sedes ORDER BY name ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow("sede-1", "Central", "central").
			AddRow("sede-2", "Norte", "norte"))

	sedes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sedes, 2)
	assert.Equal(t, "norte", sedes[1].Slug)
}

func TestSedeRepositoryGetBySlugMissing(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewSedeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, slug FROM sedes WHERE slug = $1`)).
		WithArgs("sur").
		WillReturnError(sql.ErrNoRows)

	sede, err := repo.GetBySlug(context.Background(), "sur")
	assert.Nil(t, sede)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
