package exam

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"madrasa/apperror"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/testutil"
)

type fixture struct {
	db      *gorm.DB
	svc     *Service
	teacher models.User
	course  courseModels.Course
	exam    courseModels.Exam
}

// setup builds a course taught by teacher with a two-question objective exam worth 10 marks.
func setup(t *testing.T) fixture {
	db := testutil.NewDB(t)
	svc := NewService(db).WithClock(testutil.FixedClock())
	teacher := testutil.Teacher(t, db, true)
	course := testutil.Course(t, db, teacher)

	exam, err := svc.CreateExam(context.Background(), teacher, NewExam{
		Title:    "Fiqh midterm",
		CourseID: &course.ID,
		Questions: []courseModels.Question{
			{Text: "Q1", Options: []string{"a", "b"}, CorrectOption: 0, Marks: 5},
			{Text: "Q2", Options: []string{"a", "b"}, CorrectOption: 1, Marks: 5},
		},
		PassMarks:   5,
		IsPublished: true,
	})
	require.NoError(t, err)
	return fixture{db: db, svc: svc, teacher: teacher, course: course, exam: *exam}
}

func (f fixture) enrolledStudent(t *testing.T) models.User {
	student := testutil.Student(t, f.db, models.GenderFemale)
	testutil.EnrollCourse(t, f.db, student.ID, f.course.ID)
	return student
}

func TestCreateExam(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	assert.Equal(t, 10.0, f.exam.TotalMarks)
	assert.Equal(t, f.teacher.ID, f.exam.CreatedBy)

	_, semesters := testutil.Program(t, f.db, 1)
	_, err := f.svc.CreateExam(ctx, f.teacher, NewExam{Title: "x", CourseID: &f.course.ID, SemesterID: &semesters[0].ID, TotalMarks: 10})
	assert.Equal(t, apperror.CodeExamParentMissing, apperror.CodeOf(err))

	_, err = f.svc.CreateExam(ctx, f.teacher, NewExam{Title: "x", TotalMarks: 10})
	assert.Equal(t, apperror.CodeExamParentMissing, apperror.CodeOf(err))

	_, err = f.svc.CreateExam(ctx, f.teacher, NewExam{Title: "x", CourseID: &f.course.ID, TotalMarks: 10, PassMarks: 11})
	assert.Equal(t, apperror.CodeMarksOutOfRange, apperror.CodeOf(err))

	outsider := testutil.Teacher(t, f.db, true)
	_, err = f.svc.CreateExam(ctx, outsider, NewExam{Title: "x", CourseID: &f.course.ID, TotalMarks: 10})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	pending := testutil.Teacher(t, f.db, false)
	_, err = f.svc.CreateExam(ctx, pending, NewExam{Title: "x", CourseID: &f.course.ID, TotalMarks: 10})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	missing := uint(999)
	_, err = f.svc.CreateExam(ctx, f.teacher, NewExam{Title: "x", CourseID: &missing, TotalMarks: 10})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSubmit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	stranger := testutil.Student(t, f.db, models.GenderMale)
	_, err := f.svc.Submit(ctx, stranger, f.exam.ID, []int{0, 1})
	assert.Equal(t, apperror.CodeNotEnrolled, apperror.CodeOf(err))

	student := f.enrolledStudent(t)
	_, err = f.svc.Submit(ctx, student, f.exam.ID, []int{0})
	assert.Equal(t, apperror.CodeExamAnswers, apperror.CodeOf(err))

	result, err := f.svc.Submit(ctx, student, f.exam.ID, []int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AttemptNumber)
	assert.Equal(t, 5.0, result.ObtainedMarks)
	assert.Equal(t, 50.0, result.Percentage)
	assert.Equal(t, courseModels.ResultGraded, result.Status)
	assert.True(t, result.IsLatest)
	assert.False(t, result.IsRetake)

	_, err = f.svc.Submit(ctx, student, f.exam.ID, []int{0, 1})
	assert.Equal(t, apperror.CodeExamAlreadyTaken, apperror.CodeOf(err))

	_, err = f.svc.Submit(ctx, student, 999, []int{0, 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUnpublishedExamIsHidden(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.db.Model(&f.exam).Update("is_published", false).Error)

	_, err := f.svc.Submit(context.Background(), f.enrolledStudent(t), f.exam.ID, []int{0, 1})
	assert.Equal(t, apperror.CodeExamNotFound, apperror.CodeOf(err))
}

func TestGrade(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	essay, err := f.svc.CreateExam(ctx, f.teacher, NewExam{Title: "Essay", CourseID: &f.course.ID, TotalMarks: 50, PassMarks: 20, IsPublished: true})
	require.NoError(t, err)

	student := f.enrolledStudent(t)
	result, err := f.svc.Submit(ctx, student, essay.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, courseModels.ResultSubmitted, result.Status)
	assert.Nil(t, result.GradedAt)

	_, err = f.svc.Grade(ctx, f.teacher, result.ID, 51)
	assert.Equal(t, apperror.CodeMarksOutOfRange, apperror.CodeOf(err))

	_, err = f.svc.Grade(ctx, testutil.Teacher(t, f.db, true), result.ID, 10)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	graded, err := f.svc.Grade(ctx, f.teacher, result.ID, 35)
	require.NoError(t, err)
	assert.Equal(t, courseModels.ResultGraded, graded.Status)
	assert.Equal(t, 70.0, graded.Percentage)
	require.NotNil(t, graded.GradedAt)

	_, err = f.svc.Grade(ctx, f.teacher, 999, 1)
	assert.Equal(t, apperror.CodeResultNotFound, apperror.CodeOf(err))
}

func TestExportResults(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for _, answers := range [][]int{{0, 1}, {1, 0}} {
		_, err := f.svc.Submit(ctx, f.enrolledStudent(t), f.exam.ID, answers)
		require.NoError(t, err)
	}

	data, err := f.svc.ExportResults(ctx, f.teacher, f.exam.ID)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Student", rows[0][0])
	assert.Equal(t, "100", rows[1][5])
	assert.Equal(t, "0", rows[2][5])

	admin := testutil.Admin(t, f.db)
	_, err = f.svc.ExportResults(ctx, admin, f.exam.ID)
	assert.NoError(t, err)

	_, err = f.svc.ExportResults(ctx, testutil.Student(t, f.db, models.GenderMale), f.exam.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}
