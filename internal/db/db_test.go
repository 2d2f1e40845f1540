package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bracket_engine.db")

	database, err := InitDB(path)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB, "file://../../migrations"))
	// A second run has nothing to apply.
	require.NoError(t, RunMigrations(database.DB, "file://../../migrations"))

	var tables []string
	err = database.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'schema_%' ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"layouts", "matches", "participants", "rounds", "tournaments"}, tables)

	var fk int
	require.NoError(t, database.Get(&fk, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, fk)
}

func TestReadDBDoesNotWaitOnWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bracket_engine.db")

	writer, err := InitDB(path)
	require.NoError(t, err)
	defer writer.Close()
	require.NoError(t, RunMigrations(writer.DB, "file://../../migrations"))

	reader, err := InitReadDB(path)
	require.NoError(t, err)
	defer reader.Close()

	ctx := context.Background()
	_, err = writer.ExecContext(ctx, `INSERT INTO tournaments (id, name, format, game_type, fixing_policy, participant_count, status)
		VALUES ('TMT000000000001', 'Cup', 'knockout', 'team', 'sequential', 4, 'PENDING')`)
	require.NoError(t, err)

	// An open mutation holds the write lock.
	tx, err := writer.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, "UPDATE tournaments SET name = 'Renamed' WHERE id = 'TMT000000000001'")
	require.NoError(t, err)

	readCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	rtx, err := reader.BeginTxx(readCtx, nil)
	require.NoError(t, err)
	defer rtx.Rollback()

	var name string
	require.NoError(t, rtx.GetContext(readCtx, &name, "SELECT name FROM tournaments WHERE id = 'TMT000000000001'"))
	assert.Equal(t, "Cup", name)

	_, err = reader.ExecContext(ctx, "DELETE FROM tournaments")
	assert.Error(t, err)
}
