// Package authz answers ownership questions: who may write a course, a semester or an exam.
// Admins may do everything. Teachers must be approved and attached to the resource.
package authz

import (
	"context"

	"gorm.io/gorm"

	"madrasa/apperror"
	"madrasa/models"
	courseModels "madrasa/models/course"
)

// CanManageCourse reports whether user is an admin or an instructor of the course.
func CanManageCourse(ctx context.Context, db *gorm.DB, user models.User, courseID uint) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}
	if !user.IsActiveTeacher() {
		return false, nil
	}

	var n int64
	err := db.WithContext(ctx).Table("course_instructors").
		Where("course_id = ? AND user_id = ?", courseID, user.ID).
		Count(&n).Error
	if err != nil {
		return false, apperror.Internal(err, apperror.CodeInternal)
	}
	return n > 0, nil
}

// CanManageSubject reports whether user is an admin or one of the subject's two teachers.
func CanManageSubject(user models.User, subject courseModels.Subject) bool {
	if user.IsAdmin() {
		return true
	}
	if !user.IsActiveTeacher() {
		return false
	}
	return teaches(subject, user.ID)
}

// CanManageSemester reports whether user is an admin or teaches any subject of the semester.
func CanManageSemester(ctx context.Context, db *gorm.DB, user models.User, semesterID uint) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}
	if !user.IsActiveTeacher() {
		return false, nil
	}

	var n int64
	err := db.WithContext(ctx).Model(&courseModels.Subject{}).
		Where("semester_id = ? AND (male_teacher_id = ? OR female_teacher_id = ?)", semesterID, user.ID, user.ID).
		Count(&n).Error
	if err != nil {
		return false, apperror.Internal(err, apperror.CodeInternal)
	}
	return n > 0, nil
}

// CanManageExam reports whether user is an admin, the exam's creator, or teaches what the exam belongs to.
func CanManageExam(ctx context.Context, db *gorm.DB, user models.User, exam courseModels.Exam) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}
	if !user.IsActiveTeacher() {
		return false, nil
	}
	if exam.CreatedBy == user.ID {
		return true, nil
	}

	switch {
	case exam.CourseID != nil:
		return CanManageCourse(ctx, db, user, *exam.CourseID)
	case exam.SemesterID != nil:
		return CanManageSemester(ctx, db, user, *exam.SemesterID)
	default:
		return false, nil
	}
}

// Require turns a (bool, error) check into a Forbidden error.
func Require(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Forbidden(apperror.CodeForbidden)
	}
	return nil
}

func teaches(subject courseModels.Subject, userID uint) bool {
	return (subject.MaleTeacherID != nil && *subject.MaleTeacherID == userID) ||
		(subject.FemaleTeacherID != nil && *subject.FemaleTeacherID == userID)
}
