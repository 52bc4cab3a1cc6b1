package base

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(fmt.Errorf("get appointment by id: %w", pgx.ErrNoRows)))

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(fmt.Errorf("connection reset")))
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "appointments_slot_unique"}
	assert.True(t, IsUniqueViolation(dup))

	// Stays detectable through the repositories' error wrapping.
	assert.True(t, IsUniqueViolation(fmt.Errorf("create appointment: %w", dup)))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(fmt.Errorf("connection reset")))
	assert.False(t, IsUniqueViolation(nil))
}
