package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa/apperror"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/testutil"
)

func TestCanManageCourse(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	instructor := testutil.Teacher(t, db, true)
	pending := testutil.Teacher(t, db, false)
	other := testutil.Teacher(t, db, true)
	admin := testutil.Admin(t, db)
	student := testutil.Student(t, db, models.GenderMale)
	course := testutil.Course(t, db, instructor, pending)

	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{"admin", admin, true},
		{"instructor", instructor, true},
		{"unapproved instructor", pending, false},
		{"other teacher", other, false},
		{"student", student, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := CanManageCourse(ctx, db, tt.user, course.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestCanManageSemester(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	male := testutil.Teacher(t, db, true)
	female := testutil.Teacher(t, db, true)
	other := testutil.Teacher(t, db, true)
	_, semesters := testutil.Program(t, db, 1)
	testutil.Subject(t, db, semesters[0].ID, true, &male, &female)

	for _, u := range []models.User{male, female} {
		ok, err := CanManageSemester(ctx, db, u, semesters[0].ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := CanManageSemester(ctx, db, other, semesters[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanManageExam(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	creator := testutil.Teacher(t, db, true)
	instructor := testutil.Teacher(t, db, true)
	outsider := testutil.Teacher(t, db, true)
	course := testutil.Course(t, db, instructor)
	exam := testutil.CourseExam(t, db, creator, course.ID, 40)

	for _, u := range []models.User{creator, instructor} {
		ok, err := CanManageExam(ctx, db, u, exam)
		require.NoError(t, err)
		assert.True(t, ok, u.Name)
	}

	ok, err := CanManageExam(ctx, db, outsider, exam)
	require.NoError(t, err)
	assert.False(t, ok)

	orphan := courseModels.Exam{CreatedBy: creator.ID}
	ok, err = CanManageExam(ctx, db, outsider, orphan)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(true, nil))
	assert.True(t, apperror.Is(Require(false, nil), apperror.KindForbidden))

	boom := apperror.Internal(assert.AnError, apperror.CodeInternal)
	assert.Equal(t, boom, Require(true, boom))
}

func TestCanManageSubject(t *testing.T) {
	male := models.User{Role: models.RoleTeacher, IsApproved: true}
	male.ID = 7
	stranger := models.User{Role: models.RoleTeacher, IsApproved: true}
	stranger.ID = 8
	subject := courseModels.Subject{MaleTeacherID: &male.ID}

	assert.True(t, CanManageSubject(male, subject))
	assert.False(t, CanManageSubject(stranger, subject))
	assert.True(t, CanManageSubject(models.User{Role: models.RoleAdmin}, subject))
}
