//go:build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"madrasa/database"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/testutil"
)

func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("madrasa"),
		tcpostgres.WithUsername("madrasa"),
		tcpostgres.WithPassword("madrasa"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(postgres.Open(dsn), 5, 2)
	require.NoError(t, err)
	return db
}

func TestPostgresPendingRetakeIndex(t *testing.T) {
	db := openPostgres(t)

	teacher := testutil.Teacher(t, db, true)
	course := testutil.Course(t, db, teacher)
	exam := testutil.CourseExam(t, db, teacher, course.ID, 40)
	student := testutil.Student(t, db, models.GenderMale)
	result := testutil.Result(t, db, student.ID, exam, 1, 20, true, false)
	testutil.RetakeRequest(t, db, result, courseModels.RetakePending)

	dup := courseModels.RetakeRequest{UserID: student.ID, ExamID: exam.ID, PreviousResultID: result.ID, Reason: "again", Status: courseModels.RetakePending}
	assert.ErrorIs(t, db.Create(&dup).Error, gorm.ErrDuplicatedKey)
}

func TestPostgresMaxSequencer(t *testing.T) {
	db := openPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, semesters := testutil.Program(t, db, 2)
	next, err := database.MaxSequencer{}.NextOrder(ctx, db, database.OrderScope{Table: "program_semesters", Column: "program_id", Value: semesters[0].ProgramID})
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestRedisSequencer(t *testing.T) {
	ctx := context.Background()
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	endpoint, err := ctr.Endpoint(ctx, "redis")
	require.NoError(t, err)
	cache, err := database.ConnectCache(ctx, endpoint)
	require.NoError(t, err)
	defer cache.Close()
	require.NoError(t, cache.HealthCheck(ctx))

	db := testutil.NewDB(t)
	_, semesters := testutil.Program(t, db, 2)
	scope := database.OrderScope{Table: "program_semesters", Column: "program_id", Value: semesters[0].ProgramID}
	seq := database.RedisSequencer{Client: cache.Client}

	// the counter starts from the stored max, then increments without reading the table
	for _, want := range []int{3, 4, 5} {
		next, err := seq.NextOrder(ctx, db, scope)
		require.NoError(t, err)
		assert.Equal(t, want, next)
	}
}
