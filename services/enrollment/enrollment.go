// Package enrollment keeps the per-student list of enrolled courses and programs.
package enrollment

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"madrasa/apperror"
	courseModels "madrasa/models/course"
)

type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Enroll adds target to the student's list. An existing entry is a Conflict; a duplicate that
// slips past the check loses against the unique index and the stored entry is returned.
func (l *Ledger) Enroll(ctx context.Context, userID uint, targetType courseModels.TargetType, targetID uint) (*courseModels.Enrollment, error) {
	if !targetType.Valid() || targetID == 0 {
		return nil, apperror.Validation(apperror.CodeInvalidTarget, nil)
	}

	db := l.db.WithContext(ctx)
	e := &courseModels.Enrollment{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		EnrolledAt: l.now(),
	}

	switch targetType {
	case courseModels.TargetCourse:
		var course courseModels.Course
		if err := db.First(&course, targetID).Error; err != nil {
			return nil, notFound(err, apperror.CodeCourseNotFound)
		}
	case courseModels.TargetProgram:
		var program courseModels.Program
		if err := db.First(&program, targetID).Error; err != nil {
			return nil, notFound(err, apperror.CodeProgramNotFound)
		}
		first, err := firstSemester(db, targetID)
		if err != nil {
			return nil, err
		}
		if first != nil {
			e.CurrentSemesterID = &first.ID
		}
		e.CompletedSemesters = datatypes.JSONSlice[uint]{}
	}

	exists, err := isEnrolled(db, userID, targetType, targetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict(apperror.CodeAlreadyEnrolled)
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(e)
	if res.Error != nil {
		return nil, apperror.Internal(res.Error, apperror.CodeInternal)
	}
	if res.RowsAffected == 0 {
		var stored courseModels.Enrollment
		err := db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).First(&stored).Error
		if err != nil {
			return nil, apperror.Internal(err, apperror.CodeInternal)
		}
		return &stored, nil
	}
	return e, nil
}

func firstSemester(db *gorm.DB, programID uint) (*courseModels.ProgramSemester, error) {
	var semesters []courseModels.ProgramSemester
	err := db.Where("program_id = ?", programID).Order("sort_order, id").Limit(1).Find(&semesters).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	if len(semesters) == 0 {
		return nil, nil
	}
	return &semesters[0], nil
}

func isEnrolled(db *gorm.DB, userID uint, targetType courseModels.TargetType, targetID uint) (bool, error) {
	var n int64
	err := db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&n).Error
	if err != nil {
		return false, apperror.Internal(err, apperror.CodeInternal)
	}
	return n > 0, nil
}

// List returns the student's enrollments, newest first.
func (l *Ledger) List(ctx context.Context, userID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	err := l.db.WithContext(ctx).Where("user_id = ?", userID).Order("enrolled_at desc, id desc").Find(&enrollments).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return enrollments, nil
}

// AdvanceSemester records the current semester as completed and moves to the next one by order.
// After the last semester CurrentSemesterID becomes nil.
func (l *Ledger) AdvanceSemester(ctx context.Context, enrollmentID uint) (*courseModels.Enrollment, error) {
	db := l.db.WithContext(ctx)

	var e courseModels.Enrollment
	if err := db.First(&e, enrollmentID).Error; err != nil {
		return nil, notFound(err, apperror.CodeEnrollmentNotFound)
	}
	if e.TargetType != courseModels.TargetProgram {
		return nil, apperror.Validation(apperror.CodeInvalidTarget, nil)
	}
	if e.CurrentSemesterID == nil {
		return &e, nil
	}

	var semesters []courseModels.ProgramSemester
	if err := db.Where("program_id = ?", e.TargetID).Order("sort_order, id").Find(&semesters).Error; err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}

	current := *e.CurrentSemesterID
	var next *uint
	for i, s := range semesters {
		if s.ID == current && i+1 < len(semesters) {
			id := semesters[i+1].ID
			next = &id
			break
		}
	}

	completed := append(datatypes.JSONSlice[uint]{}, e.CompletedSemesters...)
	if !containsID(completed, current) {
		completed = append(completed, current)
	}

	err := db.Model(&e).Updates(map[string]interface{}{
		"current_semester_id": next,
		"completed_semesters": completed,
	}).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	e.CurrentSemesterID = next
	e.CompletedSemesters = completed
	return &e, nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// InCourse reports whether the student is enrolled in the course.
func InCourse(ctx context.Context, db *gorm.DB, userID, courseID uint) (bool, error) {
	return isEnrolled(db.WithContext(ctx), userID, courseModels.TargetCourse, courseID)
}

// InProgram reports whether the student is enrolled in the program.
func InProgram(ctx context.Context, db *gorm.DB, userID, programID uint) (bool, error) {
	return isEnrolled(db.WithContext(ctx), userID, courseModels.TargetProgram, programID)
}

// ProgramOfSemester resolves the program a semester belongs to.
func ProgramOfSemester(ctx context.Context, db *gorm.DB, semesterID uint) (uint, error) {
	var semester courseModels.ProgramSemester
	if err := db.WithContext(ctx).First(&semester, semesterID).Error; err != nil {
		return 0, notFound(err, apperror.CodeSemesterNotFound)
	}
	return semester.ProgramID, nil
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(code)
	}
	return apperror.Internal(err, apperror.CodeInternal)
}
