// Package testutil builds migrated in-memory databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"madrasa/database"
	"madrasa/models"
	courseModels "madrasa/models/course"
)

// NewDB returns a fresh, fully migrated sqlite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), 1, 1)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// FixedClock returns a clock stuck at a fixed instant.
func FixedClock() func() time.Time {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newUser(t testing.TB, db *gorm.DB, role models.Role, gender models.Gender, approved bool) models.User {
	t.Helper()
	user := models.User{
		Name:         string(role) + "-" + uuid.NewString()[:8],
		Email:        uuid.NewString() + "@example.com",
		Role:         role,
		Gender:       gender,
		IsApproved:   approved,
		GenderChange: models.GenderChangeRequest{Status: models.GenderRequestNone},
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func Student(t testing.TB, db *gorm.DB, gender models.Gender) models.User {
	return newUser(t, db, models.RoleStudent, gender, false)
}

func Teacher(t testing.TB, db *gorm.DB, approved bool) models.User {
	return newUser(t, db, models.RoleTeacher, models.GenderUnset, approved)
}

func Admin(t testing.TB, db *gorm.DB) models.User {
	return newUser(t, db, models.RoleAdmin, models.GenderUnset, false)
}

// Course creates a published course taught by instructors.
func Course(t testing.TB, db *gorm.DB, instructors ...models.User) courseModels.Course {
	t.Helper()
	course := courseModels.Course{Title: "Course " + uuid.NewString()[:8], IsPublished: true, Instructors: instructors}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func CourseSection(t testing.TB, db *gorm.DB, courseID uint) courseModels.Section {
	t.Helper()
	section := courseModels.Section{Title: "Section", CourseID: &courseID}
	require.NoError(t, db.Create(&section).Error)
	return section
}

// Program creates a program with n semesters ordered 1..n.
func Program(t testing.TB, db *gorm.DB, n int) (courseModels.Program, []courseModels.ProgramSemester) {
	t.Helper()
	program := courseModels.Program{Title: "Program " + uuid.NewString()[:8], IsPublished: true}
	require.NoError(t, db.Create(&program).Error)

	semesters := make([]courseModels.ProgramSemester, 0, n)
	for i := 0; i < n; i++ {
		s := courseModels.ProgramSemester{ProgramID: program.ID, Title: fmt.Sprintf("Semester %d", i+1), Order: i + 1}
		require.NoError(t, db.Create(&s).Error)
		semesters = append(semesters, s)
	}
	return program, semesters
}

// Subject creates a subject; the teachers may be nil.
func Subject(t testing.TB, db *gorm.DB, semesterID uint, split bool, maleTeacher, femaleTeacher *models.User) courseModels.Subject {
	t.Helper()
	subject := courseModels.Subject{
		SemesterID:     semesterID,
		Title:          "Subject",
		IsGenderSplit:  split,
		MaleLiveLink:   "https://live.example.com/male",
		FemaleLiveLink: "https://live.example.com/female",
	}
	if maleTeacher != nil {
		subject.MaleTeacherID = &maleTeacher.ID
	}
	if femaleTeacher != nil {
		subject.FemaleTeacherID = &femaleTeacher.ID
	}
	require.NoError(t, db.Create(&subject).Error)
	return subject
}

func SubjectSection(t testing.TB, db *gorm.DB, subjectID uint) courseModels.Section {
	t.Helper()
	section := courseModels.Section{Title: "Section", SubjectID: &subjectID}
	require.NoError(t, db.Create(&section).Error)
	return section
}

// Lesson creates a lesson at the end of section.
func Lesson(t testing.TB, db *gorm.DB, section courseModels.Section, gender models.Gender, duration float64) courseModels.Lesson {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&courseModels.Lesson{}).Where("section_id = ?", section.ID).Count(&count).Error)

	lesson := courseModels.Lesson{
		SectionID:        section.ID,
		Title:            fmt.Sprintf("Lesson %d", count+1),
		Duration:         duration,
		InstructorGender: gender,
		Order:            int(count) + 1,
	}
	if section.SubjectID != nil {
		var subject courseModels.Subject
		require.NoError(t, db.First(&subject, *section.SubjectID).Error)
		lesson.SemesterID = &subject.SemesterID
	}
	require.NoError(t, db.Create(&lesson).Error)
	return lesson
}

func EnrollCourse(t testing.TB, db *gorm.DB, userID, courseID uint) courseModels.Enrollment {
	t.Helper()
	e := courseModels.Enrollment{UserID: userID, TargetType: courseModels.TargetCourse, TargetID: courseID, EnrolledAt: time.Now()}
	require.NoError(t, db.Create(&e).Error)
	return e
}

func EnrollProgram(t testing.TB, db *gorm.DB, userID uint, programID uint, current *uint) courseModels.Enrollment {
	t.Helper()
	e := courseModels.Enrollment{
		UserID:             userID,
		TargetType:         courseModels.TargetProgram,
		TargetID:           programID,
		EnrolledAt:         time.Now(),
		CurrentSemesterID:  current,
		CompletedSemesters: datatypes.JSONSlice[uint]{},
	}
	require.NoError(t, db.Create(&e).Error)
	return e
}

// CourseExam creates a published course exam worth 100 marks.
func CourseExam(t testing.TB, db *gorm.DB, creator models.User, courseID uint, passMarks float64) courseModels.Exam {
	t.Helper()
	exam := courseModels.Exam{
		Title:       "Exam " + uuid.NewString()[:8],
		CourseID:    &courseID,
		CreatedBy:   creator.ID,
		TotalMarks:  100,
		PassMarks:   passMarks,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&exam).Error)
	return exam
}

// Result stores a graded attempt whose obtained marks equal pct (exams are out of 100).
func Result(t testing.TB, db *gorm.DB, userID uint, exam courseModels.Exam, attempt int, pct float64, latest, canRetake bool) courseModels.ExamResult {
	t.Helper()
	now := time.Now()
	r := courseModels.ExamResult{
		UserID:        userID,
		ExamID:        exam.ID,
		AttemptNumber: attempt,
		CourseID:      exam.CourseID,
		SemesterID:    exam.SemesterID,
		ObtainedMarks: pct * exam.TotalMarks / 100,
		TotalMarks:    exam.TotalMarks,
		Percentage:    pct,
		Status:        courseModels.ResultGraded,
		IsLatest:      latest,
		IsRetake:      attempt > 1,
		CanRetake:     canRetake,
		SubmittedAt:   now,
		GradedAt:      &now,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

// RetakeRequest stores a request in the given status.
func RetakeRequest(t testing.TB, db *gorm.DB, result courseModels.ExamResult, status courseModels.RetakeStatus) courseModels.RetakeRequest {
	t.Helper()
	r := courseModels.RetakeRequest{
		UserID:           result.UserID,
		ExamID:           result.ExamID,
		PreviousResultID: result.ID,
		Reason:           "I was ill",
		Status:           status,
		RequestedAt:      time.Now(),
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}
