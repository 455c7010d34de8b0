package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsPgDuplicateError(dup))
	assert.False(t, IsPgDuplicateError(fk))
	assert.True(t, IsPgForeignKeyError(fk))
	assert.False(t, IsPgForeignKeyError(errors.New("boom")))
	assert.True(t, IsPgNoRowsError(fmt.Errorf("get: %w", pgx.ErrNoRows)))
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("test_")
	assert.Equal(t, "test_articles", tables.Articles)
	assert.Equal(t, "test_generation_jobs", tables.GenerationJobs)
	assert.Equal(t, []string{"test_generation_jobs", "test_articles"}, tables.All())
}
