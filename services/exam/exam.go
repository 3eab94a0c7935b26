// Package exam stores exam definitions and attempts, runs the retake workflow and computes statistics.
package exam

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"madrasa/apperror"
	"madrasa/metrics"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/services/authz"
	"madrasa/services/enrollment"
)

// NewExam must name exactly one of CourseID and SemesterID.
type NewExam struct {
	Title       string
	CourseID    *uint
	SemesterID  *uint
	TotalMarks  float64
	PassMarks   float64
	Questions   []courseModels.Question
	IsPublished bool
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(code)
	}
	return apperror.Internal(err, apperror.CodeInternal)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func percentage(obtained, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return round(obtained/total*100, 2)
}

func (s *Service) exam(ctx context.Context, id uint) (courseModels.Exam, error) {
	var exam courseModels.Exam
	if err := s.db.WithContext(ctx).First(&exam, id).Error; err != nil {
		return exam, notFound(err, apperror.CodeExamNotFound)
	}
	return exam, nil
}

// managedExam loads the exam and checks actor may review it.
func (s *Service) managedExam(ctx context.Context, actor models.User, id uint) (courseModels.Exam, error) {
	exam, err := s.exam(ctx, id)
	if err != nil {
		return exam, err
	}
	return exam, authz.Require(authz.CanManageExam(ctx, s.db, actor, exam))
}

// CreateExam stores an exam under a course or a semester. With questions, TotalMarks is their sum.
func (s *Service) CreateExam(ctx context.Context, actor models.User, ne NewExam) (*courseModels.Exam, error) {
	if (ne.CourseID == nil) == (ne.SemesterID == nil) {
		return nil, apperror.Validation(apperror.CodeExamParentMissing, map[string]string{
			"courseId":   "exactly one of courseId and semesterId",
			"semesterId": "exactly one of courseId and semesterId",
		})
	}

	db := s.db.WithContext(ctx)
	if ne.CourseID != nil {
		var course courseModels.Course
		if err := db.First(&course, *ne.CourseID).Error; err != nil {
			return nil, notFound(err, apperror.CodeCourseNotFound)
		}
		if err := authz.Require(authz.CanManageCourse(ctx, s.db, actor, course.ID)); err != nil {
			return nil, err
		}
	} else {
		var semester courseModels.ProgramSemester
		if err := db.First(&semester, *ne.SemesterID).Error; err != nil {
			return nil, notFound(err, apperror.CodeSemesterNotFound)
		}
		if err := authz.Require(authz.CanManageSemester(ctx, s.db, actor, semester.ID)); err != nil {
			return nil, err
		}
	}

	total := ne.TotalMarks
	if len(ne.Questions) > 0 {
		total = 0
		for i, q := range ne.Questions {
			if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) || q.Marks < 0 {
				return nil, apperror.Validation(apperror.CodeValidationFailed, map[string]string{
					fmt.Sprintf("questions[%d]", i): "correctOption must index options and marks must not be negative",
				})
			}
			total += q.Marks
		}
	}
	if total <= 0 || ne.PassMarks < 0 || ne.PassMarks > total {
		return nil, apperror.Validation(apperror.CodeMarksOutOfRange, map[string]string{"passMarks": "between 0 and totalMarks"})
	}

	exam := &courseModels.Exam{
		Title:       strings.TrimSpace(ne.Title),
		CourseID:    ne.CourseID,
		SemesterID:  ne.SemesterID,
		CreatedBy:   actor.ID,
		TotalMarks:  total,
		PassMarks:   ne.PassMarks,
		Questions:   ne.Questions,
		IsPublished: ne.IsPublished,
	}
	if err := db.Create(exam).Error; err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return exam, nil
}

func (s *Service) enrolledFor(ctx context.Context, userID uint, exam courseModels.Exam) (bool, error) {
	if exam.CourseID != nil {
		return enrollment.InCourse(ctx, s.db, userID, *exam.CourseID)
	}
	if exam.SemesterID != nil {
		programID, err := enrollment.ProgramOfSemester(ctx, s.db, *exam.SemesterID)
		if err != nil {
			return false, err
		}
		return enrollment.InProgram(ctx, s.db, userID, programID)
	}
	return false, nil
}

// score auto-grades objective answers. An exam without questions is left for manual grading.
func score(exam courseModels.Exam, answers []int) (float64, bool, error) {
	if len(exam.Questions) == 0 {
		return 0, false, nil
	}
	if len(answers) != len(exam.Questions) {
		return 0, false, apperror.Validation(apperror.CodeExamAnswers, map[string]string{
			"answers": fmt.Sprintf("expected %d answers", len(exam.Questions)),
		})
	}
	var obtained float64
	for i, q := range exam.Questions {
		if answers[i] == q.CorrectOption {
			obtained += q.Marks
		}
	}
	return obtained, true, nil
}

// Submit stores the student's next attempt. A new attempt after the first needs canRetake on the
// latest result; the previous latest loses both flags in the same transaction.
func (s *Service) Submit(ctx context.Context, student models.User, examID uint, answers []int) (*courseModels.ExamResult, error) {
	exam, err := s.exam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsPublished {
		return nil, apperror.NotFound(apperror.CodeExamNotFound)
	}
	enrolled, err := s.enrolledFor(ctx, student.ID, exam)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperror.Forbidden(apperror.CodeNotEnrolled)
	}
	obtained, graded, err := score(exam, answers)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &courseModels.ExamResult{
		UserID:        student.ID,
		ExamID:        exam.ID,
		CourseID:      exam.CourseID,
		SemesterID:    exam.SemesterID,
		ObtainedMarks: obtained,
		TotalMarks:    exam.TotalMarks,
		Percentage:    percentage(obtained, exam.TotalMarks),
		Status:        courseModels.ResultSubmitted,
		IsLatest:      true,
		Answers:       answers,
		SubmittedAt:   now,
	}
	if graded {
		result.Status = courseModels.ResultGraded
		result.GradedAt = &now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest []courseModels.ExamResult
		if err := tx.Where("user_id = ? AND exam_id = ? AND is_latest = ?", student.ID, exam.ID, true).Find(&latest).Error; err != nil {
			return apperror.Internal(err, apperror.CodeInternal)
		}
		for _, prev := range latest {
			if !prev.CanRetake {
				return apperror.Conflict(apperror.CodeExamAlreadyTaken)
			}
		}
		if len(latest) > 0 {
			err := tx.Model(&courseModels.ExamResult{}).
				Where("user_id = ? AND exam_id = ? AND is_latest = ?", student.ID, exam.ID, true).
				Updates(map[string]interface{}{"is_latest": false, "can_retake": false}).Error
			if err != nil {
				return apperror.Internal(err, apperror.CodeInternal)
			}
		}

		var attempts int64
		err := tx.Unscoped().Model(&courseModels.ExamResult{}).
			Where("user_id = ? AND exam_id = ?", student.ID, exam.ID).
			Select("COALESCE(MAX(attempt_number), 0)").
			Scan(&attempts).Error
		if err != nil {
			return apperror.Internal(err, apperror.CodeInternal)
		}
		result.AttemptNumber = int(attempts) + 1
		result.IsRetake = result.AttemptNumber > 1

		if err := tx.Create(result).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict(apperror.CodeExamAlreadyTaken)
			}
			return apperror.Internal(err, apperror.CodeInternal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ExamSubmissions.WithLabelValues(strconv.FormatBool(result.IsRetake)).Inc()
	log.Printf("[EXAM] user %d submitted exam %d attempt %d", student.ID, exam.ID, result.AttemptNumber)
	return result, nil
}

// Grade records the marks of an attempt.
func (s *Service) Grade(ctx context.Context, actor models.User, resultID uint, obtained float64) (*courseModels.ExamResult, error) {
	db := s.db.WithContext(ctx)
	var result courseModels.ExamResult
	if err := db.First(&result, resultID).Error; err != nil {
		return nil, notFound(err, apperror.CodeResultNotFound)
	}
	if _, err := s.managedExam(ctx, actor, result.ExamID); err != nil {
		return nil, err
	}
	if obtained < 0 || obtained > result.TotalMarks {
		return nil, apperror.Validation(apperror.CodeMarksOutOfRange, map[string]string{"obtainedMarks": "between 0 and totalMarks"})
	}

	now := s.now()
	result.ObtainedMarks = obtained
	result.Percentage = percentage(obtained, result.TotalMarks)
	result.Status = courseModels.ResultGraded
	result.GradedAt = &now
	err := db.Model(&result).Updates(map[string]interface{}{
		"obtained_marks": result.ObtainedMarks,
		"percentage":     result.Percentage,
		"status":         result.Status,
		"graded_at":      result.GradedAt,
	}).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return &result, nil
}

var exportHeader = []interface{}{"Student", "Email", "Attempt", "Obtained", "Total", "Percentage", "Status", "Submitted At"}

const exportSheet = "Results"

// ExportResults renders every student's latest attempt as an XLSX workbook.
func (s *Service) ExportResults(ctx context.Context, actor models.User, examID uint) ([]byte, error) {
	exam, err := s.managedExam(ctx, actor, examID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var results []courseModels.ExamResult
	if err := db.Where("exam_id = ? AND is_latest = ?", exam.ID, true).Order("user_id").Find(&results).Error; err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	userIDs := make([]uint, 0, len(results))
	for _, r := range results {
		userIDs = append(userIDs, r.UserID)
	}
	users := map[uint]models.User{}
	if len(userIDs) > 0 {
		var found []models.User
		if err := db.Where("id IN ?", userIDs).Find(&found).Error; err != nil {
			return nil, apperror.Internal(err, apperror.CodeInternal)
		}
		for _, u := range found {
			users[u.ID] = u
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, apperror.Internal(err, apperror.CodeInternal)
		}
		u := users[r.UserID]
		row := []interface{}{
			u.Name, u.Email, r.AttemptNumber, r.ObtainedMarks, r.TotalMarks, r.Percentage,
			string(r.Status), r.SubmittedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, apperror.Internal(err, apperror.CodeInternal)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return buf.Bytes(), nil
}
