package apperror

// Message keys. The locale package holds their Bengali and English text.
const (
	CodeInternal        = "error.internal"
	CodeUnauthenticated = "auth.unauthenticated"
	CodeInvalidToken    = "auth.invalid_token"
	CodeForbidden       = "auth.forbidden"
	CodeTeacherPending  = "auth.teacher_not_approved"

	CodeInvalidBody      = "request.invalid_body"
	CodeValidationFailed = "request.validation_failed"
	CodeInvalidID        = "request.invalid_id"

	CodeUserNotFound = "user.not_found"
	CodeEmailTaken   = "user.email_taken"
	CodeNotTeacher   = "user.not_teacher"
	CodeNotStudent   = "user.not_student"

	CodeGenderAlreadySet        = "gender.already_set"
	CodeGenderNotSet            = "gender.not_set"
	CodeGenderUnchanged         = "gender.unchanged"
	CodeGenderChangePending     = "gender.change_pending"
	CodeGenderChangeNotPending  = "gender.change_not_pending"
	CodeGenderChangeReasonEmpty = "gender.reason_required"

	CodeProgramNotFound  = "program.not_found"
	CodeSemesterNotFound = "semester.not_found"
	CodeSubjectNotFound  = "subject.not_found"
	CodeCourseNotFound   = "course.not_found"
	CodeSectionNotFound  = "section.not_found"
	CodeSectionParent    = "section.parent_invalid"
	CodeLessonNotFound   = "lesson.not_found"

	CodeProgressIDsRequired = "progress.ids_required"
	CodeProgressWrongCourse = "progress.wrong_course"

	CodeAlreadyEnrolled    = "enrollment.exists"
	CodeNotEnrolled        = "enrollment.required"
	CodeEnrollmentNotFound = "enrollment.not_found"
	CodeInvalidTarget      = "enrollment.invalid_target"

	CodeExamNotFound      = "exam.not_found"
	CodeExamAlreadyTaken  = "exam.already_taken"
	CodeExamAnswers       = "exam.answers_invalid"
	CodeResultNotFound    = "exam.result_not_found"
	CodeMarksOutOfRange   = "exam.marks_out_of_range"
	CodeExamParentMissing = "exam.parent_required"

	CodeRetakePending        = "retake.pending_exists"
	CodeRetakeReasonRequired = "retake.reason_required"
	CodeRetakeNotFound       = "retake.not_found"
	CodeRetakeNotPending     = "retake.not_pending"
	CodeRetakeResultMismatch = "retake.result_mismatch"

	CodeCertificateNotEligible  = "certificate.not_eligible"
	CodeCertificateRequested    = "certificate.already_requested"
	CodeCertificateNotFound     = "certificate.request_not_found"
	CodeCertificateNotPending   = "certificate.request_not_pending"
	CodeCertificateRejectReason = "certificate.reason_required"
)
