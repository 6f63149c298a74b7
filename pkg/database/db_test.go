package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/pkg/database"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	defer database.Close(db) //nolint:errcheck

	assert.NoError(t, database.Ping(context.Background(), db))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := database.Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestPingNil(t *testing.T) {
	assert.Error(t, database.Ping(context.Background(), nil))
}
