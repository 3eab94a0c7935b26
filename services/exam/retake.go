package exam

import (
	"context"
	"log"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"madrasa/apperror"
	"madrasa/metrics"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/utils"
)

// SubmitRetake asks for another attempt at examID, citing the student's previous result.
func (s *Service) SubmitRetake(ctx context.Context, student models.User, examID, previousResultID uint, reason string) (*courseModels.RetakeRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.Validation(apperror.CodeRetakeReasonRequired, map[string]string{"reason": "required"})
	}
	exam, err := s.exam(ctx, examID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var previous courseModels.ExamResult
	if err := db.First(&previous, previousResultID).Error; err != nil {
		return nil, notFound(err, apperror.CodeResultNotFound)
	}
	if previous.UserID != student.ID || previous.ExamID != exam.ID {
		return nil, apperror.Validation(apperror.CodeRetakeResultMismatch, map[string]string{"previousResultId": "not your result for this exam"})
	}
	// Only the latest attempt can be reopened.
	if !previous.IsLatest {
		return nil, apperror.Validation(apperror.CodeRetakeResultMismatch, map[string]string{"previousResultId": "not your latest attempt"})
	}

	var pending int64
	err = db.Model(&courseModels.RetakeRequest{}).
		Where("user_id = ? AND exam_id = ? AND status = ?", student.ID, exam.ID, courseModels.RetakePending).
		Count(&pending).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	if pending > 0 {
		return nil, apperror.Conflict(apperror.CodeRetakePending)
	}

	req := &courseModels.RetakeRequest{
		UserID:           student.ID,
		ExamID:           exam.ID,
		PreviousResultID: previous.ID,
		Reason:           reason,
		Status:           courseModels.RetakePending,
		RequestedAt:      s.now(),
	}
	if err := db.Create(req).Error; err != nil {
		// The partial unique index catches a racing second request.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict(apperror.CodeRetakePending)
		}
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	log.Printf("[RETAKE] user %d requested a retake of exam %d", student.ID, exam.ID)
	return req, nil
}

// RetakeRequests lists the pending requests of an exam, oldest first.
func (s *Service) RetakeRequests(ctx context.Context, actor models.User, examID uint) ([]courseModels.RetakeRequest, error) {
	if _, err := s.managedExam(ctx, actor, examID); err != nil {
		return nil, err
	}
	var reqs []courseModels.RetakeRequest
	err := s.db.WithContext(ctx).
		Where("exam_id = ? AND status = ?", examID, courseModels.RetakePending).
		Order("requested_at, id").
		Find(&reqs).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return reqs, nil
}

func (s *Service) reviewable(ctx context.Context, actor models.User, requestID uint) (courseModels.RetakeRequest, courseModels.Exam, error) {
	var req courseModels.RetakeRequest
	if err := s.db.WithContext(ctx).First(&req, requestID).Error; err != nil {
		return req, courseModels.Exam{}, notFound(err, apperror.CodeRetakeNotFound)
	}
	exam, err := s.managedExam(ctx, actor, req.ExamID)
	if err != nil {
		return req, exam, err
	}
	if req.Status != courseModels.RetakePending {
		return req, exam, apperror.Validation(apperror.CodeRetakeNotPending, nil)
	}
	return req, exam, nil
}

func (s *Service) review(actor models.User, status courseModels.RetakeStatus) map[string]interface{} {
	return map[string]interface{}{
		"status":      status,
		"reviewed_by": actor.ID,
		"reviewed_at": s.now(),
	}
}

// ApproveRetake moves a pending request to approved and lets the student retake the exam.
func (s *Service) ApproveRetake(ctx context.Context, actor models.User, requestID uint) (*courseModels.RetakeRequest, error) {
	req, exam, err := s.reviewable(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&req).Where("status = ?", courseModels.RetakePending).Updates(s.review(actor, courseModels.RetakeApproved))
		if res.Error != nil {
			return apperror.Internal(res.Error, apperror.CodeInternal)
		}
		if res.RowsAffected == 0 {
			return apperror.Validation(apperror.CodeRetakeNotPending, nil)
		}
		err := tx.Model(&courseModels.ExamResult{}).Where("id = ?", req.PreviousResultID).Update("can_retake", true).Error
		if err != nil {
			return apperror.Internal(err, apperror.CodeInternal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).First(&req, req.ID).Error; err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	metrics.RetakeTransitions.WithLabelValues(string(courseModels.RetakeApproved)).Inc()
	s.notify(ctx, exam, []courseModels.RetakeRequest{req}, true)
	return &req, nil
}

// RejectRetake closes a pending request. The previous result is left untouched.
func (s *Service) RejectRetake(ctx context.Context, actor models.User, requestID uint) (*courseModels.RetakeRequest, error) {
	req, exam, err := s.reviewable(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	res := db.Model(&req).Where("status = ?", courseModels.RetakePending).Updates(s.review(actor, courseModels.RetakeRejected))
	if res.Error != nil {
		return nil, apperror.Internal(res.Error, apperror.CodeInternal)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.Validation(apperror.CodeRetakeNotPending, nil)
	}

	if err := db.First(&req, req.ID).Error; err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	metrics.RetakeTransitions.WithLabelValues(string(courseModels.RetakeRejected)).Inc()
	s.notify(ctx, exam, []courseModels.RetakeRequest{req}, false)
	return &req, nil
}

// BulkApprove approves every pending request in ids and returns how many moved.
func (s *Service) BulkApprove(ctx context.Context, actor models.User, ids []uint) (int64, error) {
	return s.bulk(ctx, actor, ids, courseModels.RetakeApproved)
}

// BulkReject rejects every pending request in ids and returns how many moved.
func (s *Service) BulkReject(ctx context.Context, actor models.User, ids []uint) (int64, error) {
	return s.bulk(ctx, actor, ids, courseModels.RetakeRejected)
}

// bulk is one multi-row update with no transaction; non-pending and unknown ids are skipped.
// The actor must be able to manage every exam the found requests belong to.
func (s *Service) bulk(ctx context.Context, actor models.User, ids []uint, status courseModels.RetakeStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, apperror.Validation(apperror.CodeValidationFailed, map[string]string{"requestIds": "required"})
	}

	db := s.db.WithContext(ctx)
	var reqs []courseModels.RetakeRequest
	if err := db.Where("id IN ?", ids).Find(&reqs).Error; err != nil {
		return 0, apperror.Internal(err, apperror.CodeInternal)
	}

	exams := map[uint]courseModels.Exam{}
	var pending []courseModels.RetakeRequest
	for _, req := range reqs {
		if _, seen := exams[req.ExamID]; !seen {
			exam, err := s.managedExam(ctx, actor, req.ExamID)
			if err != nil {
				return 0, err
			}
			exams[req.ExamID] = exam
		}
		if req.Status == courseModels.RetakePending {
			pending = append(pending, req)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	pendingIDs := make([]uint, 0, len(pending))
	resultIDs := make([]uint, 0, len(pending))
	for _, req := range pending {
		pendingIDs = append(pendingIDs, req.ID)
		resultIDs = append(resultIDs, req.PreviousResultID)
	}

	res := db.Model(&courseModels.RetakeRequest{}).
		Where("id IN ? AND status = ?", pendingIDs, courseModels.RetakePending).
		Updates(s.review(actor, status))
	if res.Error != nil {
		return 0, apperror.Internal(res.Error, apperror.CodeInternal)
	}

	if status == courseModels.RetakeApproved {
		err := db.Model(&courseModels.ExamResult{}).Where("id IN ?", resultIDs).Update("can_retake", true).Error
		if err != nil {
			return res.RowsAffected, apperror.Internal(err, apperror.CodeInternal)
		}
	}

	metrics.RetakeTransitions.WithLabelValues(string(status)).Add(float64(res.RowsAffected))
	log.Printf("[RETAKE] %s %d of %d requests by user %d", status, res.RowsAffected, len(ids), actor.ID)

	byExam := map[uint][]courseModels.RetakeRequest{}
	for _, req := range pending {
		byExam[req.ExamID] = append(byExam[req.ExamID], req)
	}
	for examID, group := range byExam {
		s.notify(ctx, exams[examID], group, status == courseModels.RetakeApproved)
	}
	return res.RowsAffected, nil
}

// notify mails each student the outcome. Lookup failures are logged, never returned.
func (s *Service) notify(ctx context.Context, exam courseModels.Exam, reqs []courseModels.RetakeRequest, approved bool) {
	userIDs := make([]uint, 0, len(reqs))
	for _, req := range reqs {
		userIDs = append(userIDs, req.UserID)
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		log.Printf("[RETAKE] loading students for notification: %v", err)
		return
	}
	for _, u := range users {
		go utils.SendRetakeReviewedEmail(u.Email, u.Name, exam.Title, approved)
	}
}
