package curriculum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"madrasa/apperror"
	"madrasa/database"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/testutil"
)

func TestCheckSectionParent(t *testing.T) {
	one := uint(1)
	tests := []struct {
		name    string
		section NewSection
		wantErr bool
	}{
		{"course only", NewSection{CourseID: &one}, false},
		{"subject only", NewSection{SubjectID: &one}, false},
		{"both", NewSection{CourseID: &one, SubjectID: &one}, true},
		{"neither", NewSection{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSectionParent(tt.section)
			if tt.wantErr {
				assert.Equal(t, apperror.CodeSectionParent, apperror.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateSectionInvalidParentWritesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.Admin(t, db)
	svc := NewService(db, database.MaxSequencer{})
	course := testutil.Course(t, db)
	_, semesters := testutil.Program(t, db, 1)
	subject := testutil.Subject(t, db, semesters[0].ID, false, nil, nil)

	_, err := svc.CreateSection(context.Background(), admin, NewSection{Title: "x", CourseID: &course.ID, SubjectID: &subject.ID})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.CreateSection(context.Background(), admin, NewSection{Title: "x"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	var n int64
	db.Model(&courseModels.Section{}).Count(&n)
	assert.Zero(t, n)
}

func TestOrderIsMaxPlusOneAndNotReused(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	admin := testutil.Admin(t, db)
	svc := NewService(db, database.MaxSequencer{})

	course := testutil.Course(t, db)
	section, err := svc.CreateSection(ctx, admin, NewSection{Title: "Intro", CourseID: &course.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, section.Order)

	var lessons []*courseModels.Lesson
	for i := 0; i < 3; i++ {
		l, err := svc.CreateLesson(ctx, admin, NewLesson{SectionID: section.ID, Title: "L", Duration: 60})
		require.NoError(t, err)
		lessons = append(lessons, l)
	}
	assert.Equal(t, []int{1, 2, 3}, []int{lessons[0].Order, lessons[1].Order, lessons[2].Order})

	require.NoError(t, svc.DeleteLesson(ctx, admin, lessons[2].ID))
	next, err := svc.CreateLesson(ctx, admin, NewLesson{SectionID: section.ID, Title: "L4"})
	require.NoError(t, err)
	assert.Equal(t, 4, next.Order)

	listed, err := svc.SectionLessons(ctx, section.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "L4", listed[2].Title)
}

type fixedSequencer struct{ n int }

func (f fixedSequencer) NextOrder(context.Context, *gorm.DB, database.OrderScope) (int, error) {
	return f.n, nil
}

func TestDuplicateOrderIsTolerated(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	admin := testutil.Admin(t, db)
	svc := NewService(db, fixedSequencer{n: 1})

	course := testutil.Course(t, db)
	section := testutil.CourseSection(t, db, course.ID)
	a, err := svc.CreateLesson(ctx, admin, NewLesson{SectionID: section.ID, Title: "A"})
	require.NoError(t, err)
	b, err := svc.CreateLesson(ctx, admin, NewLesson{SectionID: section.ID, Title: "B"})
	require.NoError(t, err)
	assert.Equal(t, a.Order, b.Order)

	listed, err := svc.SectionLessons(ctx, section.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, []string{listed[0].Title, listed[1].Title})
}

func TestProgramTree(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewService(db, database.MaxSequencer{})

	male := testutil.Teacher(t, db, true)
	female := testutil.Teacher(t, db, true)
	student := testutil.Student(t, db, models.GenderMale)

	program, err := svc.CreateProgram(ctx, NewProgram{Title: "Alim"})
	require.NoError(t, err)
	s1, err := svc.CreateSemester(ctx, program.ID, "One")
	require.NoError(t, err)
	s2, err := svc.CreateSemester(ctx, program.ID, "Two")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int{s1.Order, s2.Order})

	_, err = svc.CreateSemester(ctx, 999, "x")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.CreateSubject(ctx, NewSubject{SemesterID: s1.ID, Title: "Fiqh", MaleTeacherID: &student.ID})
	assert.Equal(t, apperror.CodeNotTeacher, apperror.CodeOf(err))

	subject, err := svc.CreateSubject(ctx, NewSubject{
		SemesterID: s1.ID, Title: "Fiqh", IsGenderSplit: true,
		MaleTeacherID: &male.ID, FemaleTeacherID: &female.ID,
	})
	require.NoError(t, err)

	section, err := svc.CreateSection(ctx, female, NewSection{Title: "Taharah", SubjectID: &subject.ID})
	require.NoError(t, err)
	lesson, err := svc.CreateLesson(ctx, male, NewLesson{SectionID: section.ID, Title: "Wudu", InstructorGender: models.GenderMale})
	require.NoError(t, err)
	require.NotNil(t, lesson.SemesterID)
	assert.Equal(t, s1.ID, *lesson.SemesterID)

	outsider := testutil.Teacher(t, db, true)
	_, err = svc.CreateLesson(ctx, outsider, NewLesson{SectionID: section.ID, Title: "x"})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestCreateCourseAddsTeacherAsInstructor(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewService(db, nil)

	teacher := testutil.Teacher(t, db, true)
	co := testutil.Teacher(t, db, true)
	course, err := svc.CreateCourse(ctx, teacher, NewCourse{Title: "Tajweed", InstructorIDs: []uint{co.ID}})
	require.NoError(t, err)
	assert.Len(t, course.Instructors, 2)

	var n int64
	db.Table("course_instructors").Where("course_id = ?", course.ID).Count(&n)
	assert.Equal(t, int64(2), n)

	student := testutil.Student(t, db, models.GenderFemale)
	_, err = svc.CreateCourse(ctx, teacher, NewCourse{Title: "x", InstructorIDs: []uint{student.ID}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestDeleteSection(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewService(db, nil)

	instructor := testutil.Teacher(t, db, true)
	outsider := testutil.Teacher(t, db, true)
	course := testutil.Course(t, db, instructor)
	section := testutil.CourseSection(t, db, course.ID)
	testutil.Lesson(t, db, section, models.GenderUnset, 10)

	assert.True(t, apperror.Is(svc.DeleteSection(ctx, outsider, section.ID), apperror.KindForbidden))
	require.NoError(t, svc.DeleteSection(ctx, instructor, section.ID))

	_, err := svc.SectionLessons(ctx, section.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	var n int64
	db.Model(&courseModels.Lesson{}).Where("section_id = ?", section.ID).Count(&n)
	assert.Zero(t, n)
}
