// Package completion owns the manual course/semester completion markers and the certificate gate.
//
// The markers are flags set by staff. They are never derived from Progress, and certificate
// eligibility never reads them.
package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"madrasa/apperror"
	"madrasa/metrics"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/services/authz"
	"madrasa/services/enrollment"
	"madrasa/utils"
)

// DocumentGenerator renders a certificate and returns its URL.
type DocumentGenerator interface {
	Generate(ctx context.Context, doc utils.CertificateDocument) (string, error)
}

type Gate struct {
	db  *gorm.DB
	now func() time.Time

	// Documents is optional; without it certificates are issued without a file URL.
	Documents DocumentGenerator
}

func NewGate(db *gorm.DB) *Gate {
	return &Gate{db: db, now: time.Now}
}

// WithClock replaces the gate's clock.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

type Toggled struct {
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(code)
	}
	return apperror.Internal(err, apperror.CodeInternal)
}

func (g *Gate) flip(ctx context.Context, model interface{}, completed bool) (*Toggled, error) {
	out := &Toggled{IsCompleted: !completed}
	if out.IsCompleted {
		now := g.now()
		out.CompletedAt = &now
	}
	err := g.db.WithContext(ctx).Model(model).Updates(map[string]interface{}{
		"is_completed": out.IsCompleted,
		"completed_at": out.CompletedAt,
	}).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return out, nil
}

// ToggleCourse flips the course's manual completion marker.
func (g *Gate) ToggleCourse(ctx context.Context, actor models.User, courseID uint) (*Toggled, error) {
	var course courseModels.Course
	if err := g.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		return nil, notFound(err, apperror.CodeCourseNotFound)
	}
	if err := authz.Require(authz.CanManageCourse(ctx, g.db, actor, course.ID)); err != nil {
		return nil, err
	}
	return g.flip(ctx, &course, course.IsCompleted)
}

// ToggleSemester flips the semester's manual completion marker.
func (g *Gate) ToggleSemester(ctx context.Context, actor models.User, semesterID uint) (*Toggled, error) {
	var semester courseModels.ProgramSemester
	if err := g.db.WithContext(ctx).First(&semester, semesterID).Error; err != nil {
		return nil, notFound(err, apperror.CodeSemesterNotFound)
	}
	if err := authz.Require(authz.CanManageSemester(ctx, g.db, actor, semester.ID)); err != nil {
		return nil, err
	}
	return g.flip(ctx, &semester, semester.IsCompleted)
}

type ExamStanding struct {
	ExamID        uint     `json:"examId"`
	Title         string   `json:"title"`
	PassMarks     float64  `json:"passMarks"`
	ObtainedMarks *float64 `json:"obtainedMarks"`
	Passed        bool     `json:"passed"`
}

type Eligibility struct {
	TotalLessons     int            `json:"totalLessons"`
	CompletedLessons int            `json:"completedLessons"`
	Exams            []ExamStanding `json:"exams"`
	Eligible         bool           `json:"eligible"`
}

// Eligibility checks every lesson of the course is completed and every course exam's latest
// graded result reaches the exam's passMarks. A course without lessons is never eligible.
func (g *Gate) Eligibility(ctx context.Context, userID, courseID uint) (*Eligibility, error) {
	db := g.db.WithContext(ctx)

	var course courseModels.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return nil, notFound(err, apperror.CodeCourseNotFound)
	}

	var lessonIDs []uint
	err := db.Model(&courseModels.Lesson{}).
		Joins("JOIN sections ON sections.id = lessons.section_id AND sections.deleted_at IS NULL").
		Where("sections.course_id = ?", courseID).
		Pluck("lessons.id", &lessonIDs).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}

	out := &Eligibility{TotalLessons: len(lessonIDs), Exams: []ExamStanding{}}
	if len(lessonIDs) > 0 {
		var completed int64
		err := db.Model(&courseModels.Progress{}).
			Where("user_id = ? AND lesson_id IN ? AND is_completed = ?", userID, lessonIDs, true).
			Count(&completed).Error
		if err != nil {
			return nil, apperror.Internal(err, apperror.CodeInternal)
		}
		out.CompletedLessons = int(completed)
	}

	var exams []courseModels.Exam
	if err := db.Where("course_id = ? AND is_published = ?", courseID, true).Order("id").Find(&exams).Error; err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}

	examsPassed := true
	for _, exam := range exams {
		standing := ExamStanding{ExamID: exam.ID, Title: exam.Title, PassMarks: exam.PassMarks}

		var results []courseModels.ExamResult
		err := db.Where("user_id = ? AND exam_id = ? AND is_latest = ?", userID, exam.ID, true).Limit(1).Find(&results).Error
		if err != nil {
			return nil, apperror.Internal(err, apperror.CodeInternal)
		}
		if len(results) == 1 {
			r := results[0]
			standing.ObtainedMarks = &r.ObtainedMarks
			standing.Passed = r.Status == courseModels.ResultGraded && r.ObtainedMarks >= exam.PassMarks
		}
		examsPassed = examsPassed && standing.Passed
		out.Exams = append(out.Exams, standing)
	}

	out.Eligible = out.TotalLessons > 0 && out.CompletedLessons == out.TotalLessons && examsPassed
	return out, nil
}

// RequestCertificate files a certificate request for an eligible, enrolled student.
func (g *Gate) RequestCertificate(ctx context.Context, student models.User, courseID uint) (*courseModels.CertificateRequest, error) {
	elig, err := g.Eligibility(ctx, student.ID, courseID)
	if err != nil {
		return nil, err
	}
	enrolled, err := enrollment.InCourse(ctx, g.db, student.ID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperror.Forbidden(apperror.CodeNotEnrolled)
	}
	if !elig.Eligible {
		return nil, apperror.Validation(apperror.CodeCertificateNotEligible, nil)
	}

	db := g.db.WithContext(ctx)
	var n int64
	err = db.Model(&courseModels.CertificateRequest{}).
		Where("user_id = ? AND course_id = ? AND status IN ?", student.ID, courseID,
			[]courseModels.CertificateStatus{courseModels.CertificatePending, courseModels.CertificateApproved}).
		Count(&n).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	if n > 0 {
		return nil, apperror.Conflict(apperror.CodeCertificateRequested)
	}

	req := &courseModels.CertificateRequest{
		UserID:      student.ID,
		CourseID:    courseID,
		Status:      courseModels.CertificatePending,
		RequestedAt: g.now(),
	}
	if err := db.Create(req).Error; err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return req, nil
}

// PendingCertificates lists requests awaiting review, oldest first.
func (g *Gate) PendingCertificates(ctx context.Context) ([]courseModels.CertificateRequest, error) {
	var reqs []courseModels.CertificateRequest
	err := g.db.WithContext(ctx).
		Where("status = ?", courseModels.CertificatePending).
		Order("requested_at, id").
		Find(&reqs).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return reqs, nil
}

func certificateNumber(at time.Time) string {
	return fmt.Sprintf("CERT-%d-%s", at.Year(), strings.ToUpper(uuid.NewString()[:8]))
}

// ApproveCertificate issues the certificate. The document is rendered after the approval commits;
// a rendering failure is returned even though the certificate already exists.
func (g *Gate) ApproveCertificate(ctx context.Context, admin models.User, requestID uint) (*courseModels.Certificate, error) {
	var (
		req    courseModels.CertificateRequest
		cert   courseModels.Certificate
		user   models.User
		course courseModels.Course
	)
	now := g.now()

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return notFound(err, apperror.CodeCertificateNotFound)
		}
		if req.Status != courseModels.CertificatePending {
			return apperror.Validation(apperror.CodeCertificateNotPending, nil)
		}
		if err := tx.First(&user, req.UserID).Error; err != nil {
			return notFound(err, apperror.CodeUserNotFound)
		}
		if err := tx.First(&course, req.CourseID).Error; err != nil {
			return notFound(err, apperror.CodeCourseNotFound)
		}

		res := tx.Model(&req).Where("status = ?", courseModels.CertificatePending).Updates(map[string]interface{}{
			"status":      courseModels.CertificateApproved,
			"reviewed_at": now,
			"reviewed_by": admin.ID,
		})
		if res.Error != nil {
			return apperror.Internal(res.Error, apperror.CodeInternal)
		}
		if res.RowsAffected == 0 {
			return apperror.Validation(apperror.CodeCertificateNotPending, nil)
		}

		cert = courseModels.Certificate{
			UserID:            req.UserID,
			CourseID:          req.CourseID,
			RequestID:         req.ID,
			CertificateNumber: certificateNumber(now),
			IssuedAt:          now,
		}
		if err := tx.Create(&cert).Error; err != nil {
			return apperror.Internal(err, apperror.CodeInternal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.CertificatesIssued.Inc()

	if g.Documents != nil {
		url, err := g.Documents.Generate(ctx, utils.CertificateDocument{
			Number:      cert.CertificateNumber,
			StudentName: user.Name,
			CourseTitle: course.Title,
			IssuedAt:    cert.IssuedAt,
		})
		if err != nil {
			return nil, apperror.Internal(err, apperror.CodeInternal)
		}
		if err := g.db.WithContext(ctx).Model(&cert).Update("certificate_url", url).Error; err != nil {
			return nil, apperror.Internal(err, apperror.CodeInternal)
		}
		cert.CertificateURL = url
	}

	go utils.SendCertificateEmail(user.Email, user.Name, course.Title, cert.CertificateNumber, cert.CertificateURL)
	return &cert, nil
}

// RejectCertificate closes a pending request with a reason.
func (g *Gate) RejectCertificate(ctx context.Context, admin models.User, requestID uint, reason string) (*courseModels.CertificateRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.Validation(apperror.CodeCertificateRejectReason, map[string]string{"reason": "required"})
	}

	db := g.db.WithContext(ctx)
	var req courseModels.CertificateRequest
	if err := db.First(&req, requestID).Error; err != nil {
		return nil, notFound(err, apperror.CodeCertificateNotFound)
	}
	if req.Status != courseModels.CertificatePending {
		return nil, apperror.Validation(apperror.CodeCertificateNotPending, nil)
	}

	now := g.now()
	res := db.Model(&req).Where("status = ?", courseModels.CertificatePending).Updates(map[string]interface{}{
		"status":           courseModels.CertificateRejected,
		"reviewed_at":      now,
		"reviewed_by":      admin.ID,
		"rejection_reason": reason,
	})
	if res.Error != nil {
		return nil, apperror.Internal(res.Error, apperror.CodeInternal)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.Validation(apperror.CodeCertificateNotPending, nil)
	}

	req.Status = courseModels.CertificateRejected
	req.ReviewedAt = &now
	req.ReviewedBy = &admin.ID
	req.RejectionReason = reason
	return &req, nil
}
