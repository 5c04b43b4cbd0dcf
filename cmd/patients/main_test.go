package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfinding/internal/patients/provider"
)

func TestReady(t *testing.T) {
	ctx := context.Background()

	csv, err := provider.ReadCSV(strings.NewReader("Prontuário,Local/Consultorio\n7,Sala 3\n"))
	require.NoError(t, err)
	assert.NoError(t, ready(ctx, csv))

	db, err := provider.OpenSQLite(filepath.Join(t.TempDir(), "patients.db"))
	require.NoError(t, err)
	sqlite := provider.NewSQLite(db)
	require.NoError(t, sqlite.Init(ctx, "../../migrations/001_init_patients.sql"))
	assert.NoError(t, ready(ctx, sqlite))

	require.NoError(t, db.Close())
	assert.Error(t, ready(ctx, sqlite), "closed database is not ready")
}
