package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa/config"
	"madrasa/database"
	courseModels "madrasa/models/course"
	"madrasa/testutil"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		d, err := database.Dialector(&config.Config{DBDriver: driver, DBName: "madrasa"})
		require.NoError(t, err)
		assert.Equal(t, driver, d.Name())
	}

	_, err := database.Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestParseRedisURL(t *testing.T) {
	opts, err := database.ParseRedisURL("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	_, err = database.ParseRedisURL("")
	assert.Error(t, err)
	_, err = database.ParseRedisURL("http://localhost")
	assert.Error(t, err)
}

func TestMaxSequencer(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	seq := database.MaxSequencer{}

	next, err := seq.NextOrder(ctx, db, database.OrderScope{Table: "programs"})
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	_, semesters := testutil.Program(t, db, 3)
	programID := semesters[0].ProgramID
	next, err = seq.NextOrder(ctx, db, database.OrderScope{Table: "program_semesters", Column: "program_id", Value: programID})
	require.NoError(t, err)
	assert.Equal(t, 4, next)

	// deleted siblings keep their numbers
	require.NoError(t, db.Delete(&courseModels.ProgramSemester{}, semesters[2].ID).Error)
	next, err = seq.NextOrder(ctx, db, database.OrderScope{Table: "program_semesters", Column: "program_id", Value: programID})
	require.NoError(t, err)
	assert.Equal(t, 4, next)

	next, err = seq.NextOrder(ctx, db, database.OrderScope{Table: "program_semesters", Column: "program_id", Value: programID + 1})
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := testutil.NewDB(t)
	assert.NoError(t, database.Migrate(db))
}
