// Package locale resolves message keys to user-facing text. Bengali is the default language.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"madrasa/apperror"
)

// Success message keys.
const (
	MsgCourseCompleted     = "completion.course_marked"
	MsgCourseReopened      = "completion.course_unmarked"
	MsgSemesterCompleted   = "completion.semester_marked"
	MsgSemesterReopened    = "completion.semester_unmarked"
	MsgDeleted             = "content.deleted"
	MsgRetakeRequested     = "retake.requested"
	MsgCertificateIssued   = "certificate.issued"
	MsgCertificateRejected = "certificate.rejected"
)

var supported = []language.Tag{language.Bengali, language.English}

var matcher = language.NewMatcher(supported)

type entry struct {
	bn string
	en string
}

var catalog = map[string]entry{
	apperror.CodeInternal:        {"সার্ভারে একটি সমস্যা হয়েছে", "Something went wrong on the server"},
	apperror.CodeUnauthenticated: {"অনুগ্রহ করে লগইন করুন", "Authentication required"},
	apperror.CodeInvalidToken:    {"সেশনের মেয়াদ শেষ বা অবৈধ", "Invalid or expired session"},
	apperror.CodeForbidden:       {"এই কাজের অনুমতি আপনার নেই", "You do not have permission for this action"},
	apperror.CodeTeacherPending:  {"আপনার শিক্ষক অ্যাকাউন্ট এখনও অনুমোদিত হয়নি", "Your teacher account is not approved yet"},

	apperror.CodeInvalidBody:      {"অনুরোধের তথ্য সঠিক নয়", "Invalid request body"},
	apperror.CodeValidationFailed: {"প্রদত্ত তথ্য যাচাই করা যায়নি", "Validation failed"},
	apperror.CodeInvalidID:        {"আইডি সঠিক নয়", "Invalid id"},

	apperror.CodeUserNotFound: {"ব্যবহারকারী পাওয়া যায়নি", "User not found"},
	apperror.CodeEmailTaken:   {"এই ইমেইল ইতিমধ্যে নিবন্ধিত", "Email is already registered"},
	apperror.CodeNotTeacher:   {"ব্যবহারকারী শিক্ষক নন", "User is not a teacher"},
	apperror.CodeNotStudent:   {"ব্যবহারকারী শিক্ষার্থী নন", "User is not a student"},

	apperror.CodeGenderAlreadySet:        {"লিঙ্গ ইতিমধ্যে নির্ধারিত, পরিবর্তনের জন্য আবেদন করুন", "Gender is already set; submit a change request"},
	apperror.CodeGenderNotSet:            {"প্রথমে লিঙ্গ নির্ধারণ করুন", "Set your gender first"},
	apperror.CodeGenderUnchanged:         {"অনুরোধকৃত লিঙ্গ বর্তমান লিঙ্গের মতোই", "Requested gender matches the current one"},
	apperror.CodeGenderChangePending:     {"একটি আবেদন ইতিমধ্যে অপেক্ষমাণ", "A gender change request is already pending"},
	apperror.CodeGenderChangeNotPending:  {"কোনো অপেক্ষমাণ আবেদন নেই", "No pending gender change request"},
	apperror.CodeGenderChangeReasonEmpty: {"কারণ লিখুন", "A reason is required"},

	apperror.CodeProgramNotFound:  {"প্রোগ্রাম পাওয়া যায়নি", "Program not found"},
	apperror.CodeSemesterNotFound: {"সেমিস্টার পাওয়া যায়নি", "Semester not found"},
	apperror.CodeSubjectNotFound:  {"বিষয় পাওয়া যায়নি", "Subject not found"},
	apperror.CodeCourseNotFound:   {"কোর্স পাওয়া যায়নি", "Course not found"},
	apperror.CodeSectionNotFound:  {"সেকশন পাওয়া যায়নি", "Section not found"},
	apperror.CodeSectionParent:    {"সেকশন একটি কোর্স অথবা একটি বিষয়ের অধীনে থাকতে হবে", "A section must belong to exactly one course or subject"},
	apperror.CodeLessonNotFound:   {"পাঠ পাওয়া যায়নি", "Lesson not found"},

	apperror.CodeProgressIDsRequired: {"পাঠ ও কোর্সের আইডি প্রয়োজন", "lessonId and courseId are required"},
	apperror.CodeProgressWrongCourse: {"পাঠটি এই কোর্সের অংশ নয়", "The lesson does not belong to this course"},

	apperror.CodeAlreadyEnrolled:    {"আপনি ইতিমধ্যে ভর্তি হয়েছেন", "Already enrolled"},
	apperror.CodeNotEnrolled:        {"আপনি এতে ভর্তি নন", "You are not enrolled"},
	apperror.CodeEnrollmentNotFound: {"ভর্তির তথ্য পাওয়া যায়নি", "Enrollment not found"},
	apperror.CodeInvalidTarget:      {"ভর্তির লক্ষ্য সঠিক নয়", "Invalid enrollment target"},

	apperror.CodeExamNotFound:      {"পরীক্ষা পাওয়া যায়নি", "Exam not found"},
	apperror.CodeExamAlreadyTaken:  {"আপনি ইতিমধ্যে এই পরীক্ষা দিয়েছেন", "You have already taken this exam"},
	apperror.CodeExamAnswers:       {"উত্তরের সংখ্যা প্রশ্নের সাথে মেলে না", "Answers do not match the questions"},
	apperror.CodeResultNotFound:    {"ফলাফল পাওয়া যায়নি", "Result not found"},
	apperror.CodeMarksOutOfRange:   {"প্রাপ্ত নম্বর সীমার বাইরে", "Obtained marks are out of range"},
	apperror.CodeExamParentMissing: {"পরীক্ষা একটি কোর্স অথবা সেমিস্টারের অধীনে থাকতে হবে", "An exam must belong to a course or a semester"},

	apperror.CodeRetakePending:        {"একটি পুনঃপরীক্ষার আবেদন ইতিমধ্যে অপেক্ষমাণ", "A retake request is already pending"},
	apperror.CodeRetakeReasonRequired: {"আবেদনের কারণ লিখুন", "A reason is required"},
	apperror.CodeRetakeNotFound:       {"পুনঃপরীক্ষার আবেদন পাওয়া যায়নি", "Retake request not found"},
	apperror.CodeRetakeNotPending:     {"আবেদনটি অপেক্ষমাণ নয়", "Request is not pending"},
	apperror.CodeRetakeResultMismatch: {"ফলাফলটি এই পরীক্ষার নয়", "Result does not belong to this exam"},

	apperror.CodeCertificateNotEligible:  {"সার্টিফিকেটের জন্য সব পাঠ ও পরীক্ষা সম্পন্ন করুন", "Complete all lessons and exams before requesting a certificate"},
	apperror.CodeCertificateRequested:    {"সার্টিফিকেটের আবেদন ইতিমধ্যে করা হয়েছে", "Certificate already requested"},
	apperror.CodeCertificateNotFound:     {"সার্টিফিকেটের আবেদন পাওয়া যায়নি", "Certificate request not found"},
	apperror.CodeCertificateNotPending:   {"আবেদনটি অপেক্ষমাণ নয়", "Request is not pending"},
	apperror.CodeCertificateRejectReason: {"প্রত্যাখ্যানের কারণ লিখুন", "A rejection reason is required"},

	MsgCourseCompleted:     {"কোর্সটি সম্পন্ন হিসেবে চিহ্নিত হয়েছে", "Course marked as completed"},
	MsgCourseReopened:      {"কোর্সটি অসম্পন্ন হিসেবে চিহ্নিত হয়েছে", "Course marked as not completed"},
	MsgSemesterCompleted:   {"সেমিস্টারটি সম্পন্ন হিসেবে চিহ্নিত হয়েছে", "Semester marked as completed"},
	MsgSemesterReopened:    {"সেমিস্টারটি অসম্পন্ন হিসেবে চিহ্নিত হয়েছে", "Semester marked as not completed"},
	MsgDeleted:             {"সফলভাবে মুছে ফেলা হয়েছে", "Deleted successfully"},
	MsgRetakeRequested:     {"পুনঃপরীক্ষার আবেদন জমা হয়েছে", "Retake request submitted"},
	MsgCertificateIssued:   {"সার্টিফিকেট প্রদান করা হয়েছে", "Certificate issued"},
	MsgCertificateRejected: {"সার্টিফিকেটের আবেদন প্রত্যাখ্যান করা হয়েছে", "Certificate request rejected"},
}

func init() {
	for key, e := range catalog {
		_ = message.SetString(language.Bengali, key, e.bn)
		_ = message.SetString(language.English, key, e.en)
	}
}

// Negotiate picks the supported language for an Accept-Language header value.
func Negotiate(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx]
}

// Translate returns the text for key in the given language.
func Translate(tag language.Tag, key string) string {
	return message.NewPrinter(tag).Sprintf(key)
}
