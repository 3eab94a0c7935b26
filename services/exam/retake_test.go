package exam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa/apperror"
	courseModels "madrasa/models/course"
	"madrasa/testutil"
)

func TestRetakeWorkflow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	student := f.enrolledStudent(t)

	first, err := f.svc.Submit(ctx, student, f.exam.ID, []int{1, 0})
	require.NoError(t, err)

	_, err = f.svc.SubmitRetake(ctx, student, f.exam.ID, first.ID, "  ")
	assert.Equal(t, apperror.CodeRetakeReasonRequired, apperror.CodeOf(err))

	other := f.enrolledStudent(t)
	_, err = f.svc.SubmitRetake(ctx, other, f.exam.ID, first.ID, "not mine")
	assert.Equal(t, apperror.CodeRetakeResultMismatch, apperror.CodeOf(err))

	req, err := f.svc.SubmitRetake(ctx, student, f.exam.ID, first.ID, " I was ill ")
	require.NoError(t, err)
	assert.Equal(t, courseModels.RetakePending, req.Status)
	assert.Equal(t, "I was ill", req.Reason)

	_, err = f.svc.SubmitRetake(ctx, student, f.exam.ID, first.ID, "again")
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, apperror.CodeRetakePending, apperror.CodeOf(err))

	listed, err := f.svc.RetakeRequests(ctx, f.teacher, f.exam.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = f.svc.RetakeRequests(ctx, testutil.Teacher(t, f.db, true), f.exam.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	approved, err := f.svc.ApproveRetake(ctx, f.teacher, req.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.RetakeApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, f.teacher.ID, *approved.ReviewedBy)

	var prev courseModels.ExamResult
	require.NoError(t, f.db.First(&prev, first.ID).Error)
	assert.True(t, prev.CanRetake)

	listed, err = f.svc.RetakeRequests(ctx, f.teacher, f.exam.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = f.svc.ApproveRetake(ctx, f.teacher, req.ID)
	assert.Equal(t, apperror.CodeRetakeNotPending, apperror.CodeOf(err))
	_, err = f.svc.RejectRetake(ctx, f.teacher, req.ID)
	assert.Equal(t, apperror.CodeRetakeNotPending, apperror.CodeOf(err))

	second, err := f.svc.Submit(ctx, student, f.exam.ID, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)
	assert.True(t, second.IsRetake)
	assert.True(t, second.IsLatest)

	require.NoError(t, f.db.First(&prev, first.ID).Error)
	assert.False(t, prev.IsLatest)
	assert.False(t, prev.CanRetake)

	var latest int64
	f.db.Model(&courseModels.ExamResult{}).Where("user_id = ? AND exam_id = ? AND is_latest = ?", student.ID, f.exam.ID, true).Count(&latest)
	assert.Equal(t, int64(1), latest)

	_, err = f.svc.Submit(ctx, student, f.exam.ID, []int{0, 1})
	assert.Equal(t, apperror.CodeExamAlreadyTaken, apperror.CodeOf(err))
}

func TestRejectRetakeLeavesResult(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	student := f.enrolledStudent(t)
	result := testutil.Result(t, f.db, student.ID, f.exam, 1, 20, true, false)
	req := testutil.RetakeRequest(t, f.db, result, courseModels.RetakePending)

	rejected, err := f.svc.RejectRetake(ctx, f.teacher, req.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.RetakeRejected, rejected.Status)

	var stored courseModels.ExamResult
	require.NoError(t, f.db.First(&stored, result.ID).Error)
	assert.False(t, stored.CanRetake)

	_, err = f.svc.SubmitRetake(ctx, student, f.exam.ID, result.ID, "second chance")
	assert.NoError(t, err, "a rejected request does not block a new one")

	_, err = f.svc.RejectRetake(ctx, f.teacher, 999)
	assert.Equal(t, apperror.CodeRetakeNotFound, apperror.CodeOf(err))
}

func TestOnePendingRetakeIndex(t *testing.T) {
	f := setup(t)
	student := f.enrolledStudent(t)
	result := testutil.Result(t, f.db, student.ID, f.exam, 1, 20, true, false)
	testutil.RetakeRequest(t, f.db, result, courseModels.RetakePending)

	dup := courseModels.RetakeRequest{UserID: student.ID, ExamID: f.exam.ID, PreviousResultID: result.ID, Reason: "x", Status: courseModels.RetakePending}
	assert.Error(t, f.db.Create(&dup).Error)

	closed := courseModels.RetakeRequest{UserID: student.ID, ExamID: f.exam.ID, PreviousResultID: result.ID, Reason: "x", Status: courseModels.RetakeRejected}
	assert.NoError(t, f.db.Create(&closed).Error)
}

func TestBulkApproveCountsOnlyPending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var reqs []courseModels.RetakeRequest
	var results []courseModels.ExamResult
	statuses := []courseModels.RetakeStatus{courseModels.RetakePending, courseModels.RetakeRejected, courseModels.RetakePending, courseModels.RetakeApproved}
	for _, status := range statuses {
		student := f.enrolledStudent(t)
		result := testutil.Result(t, f.db, student.ID, f.exam, 1, 10, true, false)
		results = append(results, result)
		reqs = append(reqs, testutil.RetakeRequest(t, f.db, result, status))
	}
	ids := []uint{reqs[0].ID, reqs[1].ID, reqs[2].ID, reqs[3].ID, 999}

	_, err := f.svc.BulkApprove(ctx, testutil.Teacher(t, f.db, true), ids)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.svc.BulkApprove(ctx, f.teacher, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	count, err := f.svc.BulkApprove(ctx, f.teacher, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	wantRetake := []bool{true, false, true, false}
	for i, r := range results {
		var stored courseModels.ExamResult
		require.NoError(t, f.db.First(&stored, r.ID).Error)
		assert.Equal(t, wantRetake[i], stored.CanRetake, "result %d", i)
	}

	var rejected courseModels.RetakeRequest
	require.NoError(t, f.db.First(&rejected, reqs[1].ID).Error)
	assert.Equal(t, courseModels.RetakeRejected, rejected.Status)

	count, err = f.svc.BulkApprove(ctx, f.teacher, ids)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBulkReject(t *testing.T) {
	f := setup(t)
	admin := testutil.Admin(t, f.db)
	student := f.enrolledStudent(t)
	result := testutil.Result(t, f.db, student.ID, f.exam, 1, 10, true, false)
	req := testutil.RetakeRequest(t, f.db, result, courseModels.RetakePending)

	count, err := f.svc.BulkReject(context.Background(), admin, []uint{req.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var stored courseModels.ExamResult
	require.NoError(t, f.db.First(&stored, result.ID).Error)
	assert.False(t, stored.CanRetake)
}

func TestRetakeMustCiteLatestAttempt(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	student := f.enrolledStudent(t)

	first, err := f.svc.Submit(ctx, student, f.exam.ID, []int{1, 0})
	require.NoError(t, err)
	req, err := f.svc.SubmitRetake(ctx, student, f.exam.ID, first.ID, "ill")
	require.NoError(t, err)
	_, err = f.svc.ApproveRetake(ctx, f.teacher, req.ID)
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, student, f.exam.ID, []int{1, 0})
	require.NoError(t, err)

	_, err = f.svc.SubmitRetake(ctx, student, f.exam.ID, first.ID, "ill again")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, apperror.CodeRetakeResultMismatch, apperror.CodeOf(err))
	assert.Contains(t, apperror.FieldsOf(err), "previousResultId")

	var pending int64
	f.db.Model(&courseModels.RetakeRequest{}).Where("status = ?", courseModels.RetakePending).Count(&pending)
	assert.Zero(t, pending)

	req, err = f.svc.SubmitRetake(ctx, student, f.exam.ID, second.ID, "ill again")
	require.NoError(t, err)
	_, err = f.svc.ApproveRetake(ctx, f.teacher, req.ID)
	require.NoError(t, err)

	third, err := f.svc.Submit(ctx, student, f.exam.ID, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 3, third.AttemptNumber)
	assert.True(t, third.IsLatest)
}
