//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientConnection(t *testing.T) {
	require.NotNil(t, testDB.DB(), "should have valid DB reference")
}

func TestInitSchemaIdempotent(t *testing.T) {
	ctx := context.Background()

	// Schema was already applied in TestMain; applying again must be safe.
	err := testDB.InitSchema(ctx)
	require.NoError(t, err, "repeated schema init should succeed")
}
