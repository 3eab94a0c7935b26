package exam

import (
	"context"

	"madrasa/apperror"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/services/enrollment"
)

// PassPercentage is the fixed statistics pass line. Certificate eligibility uses the exam's
// own PassMarks instead.
const PassPercentage = 40

type Statistics struct {
	TotalStudents int     `json:"totalStudents"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	NotTaken      int     `json:"notTaken"`
	AverageScore  float64 `json:"averageScore"`
}

// Summarize aggregates first-attempt percentages against the number of enrolled students.
func Summarize(percentages []float64, enrolled int) Statistics {
	attempted := len(percentages)
	st := Statistics{TotalStudents: enrolled}
	if attempted > st.TotalStudents {
		st.TotalStudents = attempted
	}
	st.NotTaken = st.TotalStudents - attempted

	var sum float64
	for _, p := range percentages {
		if p >= PassPercentage {
			st.Passed++
		} else {
			st.Failed++
		}
		sum += p
	}
	if attempted > 0 {
		st.AverageScore = round(sum/float64(attempted), 1)
	}
	return st
}

// Statistics reports on the exam's first attempts only; retakes are left out.
func (s *Service) Statistics(ctx context.Context, actor models.User, examID uint) (*Statistics, error) {
	exam, err := s.managedExam(ctx, actor, examID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var percentages []float64
	err = db.Model(&courseModels.ExamResult{}).
		Where("exam_id = ? AND is_retake = ?", exam.ID, false).
		Pluck("percentage", &percentages).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}

	target, targetID := courseModels.TargetCourse, uint(0)
	switch {
	case exam.CourseID != nil:
		targetID = *exam.CourseID
	case exam.SemesterID != nil:
		programID, err := enrollment.ProgramOfSemester(ctx, s.db, *exam.SemesterID)
		if err != nil {
			return nil, err
		}
		target, targetID = courseModels.TargetProgram, programID
	}

	var enrolled int64
	err = db.Model(&courseModels.Enrollment{}).
		Where("target_type = ? AND target_id = ?", target, targetID).
		Count(&enrolled).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}

	st := Summarize(percentages, int(enrolled))
	return &st, nil
}
