package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Sentinel errors for annotation store operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrAlreadyExists indicates a record with the same composite key
	// already exists. Can occur during concurrent upserts against the
	// unique key indexes.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrTransactionConflict indicates a SurrealDB transaction conflict
	// from concurrent writes to the same records. Callers should retry.
	ErrTransactionConflict = errors.New("transaction conflict")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// wrapQueryError inspects a SurrealDB error and wraps it with the matching
// sentinel. Returns the original error when it is not a QueryError or does
// not match a known pattern.
func wrapQueryError(err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		msg := queryErr.Message
		if strings.Contains(msg, "already exists") {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, msg)
		}
		if strings.Contains(msg, "Transaction conflict") {
			return fmt.Errorf("%w: %s", ErrTransactionConflict, msg)
		}
	}

	return err
}
