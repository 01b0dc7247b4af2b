package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/surrealdb/surrealdb.go"
)

func TestWrapQueryError(t *testing.T) {
	assert.NoError(t, wrapQueryError(nil))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, wrapQueryError(plain), "non-query errors pass through")

	exists := fmt.Errorf("query: %w", &surrealdb.QueryError{
		Message: "Database index `episode_note_key` already contains ['acme', 'pick_place', 3]",
	})
	assert.ErrorIs(t, wrapQueryError(exists), ErrAlreadyExists)

	conflict := fmt.Errorf("query: %w", &surrealdb.QueryError{
		Message: "Transaction conflict detected, please retry",
	})
	assert.ErrorIs(t, wrapQueryError(conflict), ErrTransactionConflict)
}
