// Package curriculum builds the content graph: Program -> Semester -> Subject -> Section -> Lesson,
// and Course -> Section -> Lesson.
package curriculum

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"madrasa/apperror"
	"madrasa/database"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/services/authz"
)

type NewProgram struct {
	Title       string
	Description string
	IsPublished bool
}

type NewSubject struct {
	SemesterID      uint
	Title           string
	IsGenderSplit   bool
	MaleTeacherID   *uint
	FemaleTeacherID *uint
	MaleLiveLink    string
	FemaleLiveLink  string
}

type NewCourse struct {
	Title         string
	Description   string
	IsPublished   bool
	InstructorIDs []uint
}

// NewSection must name exactly one parent.
type NewSection struct {
	Title     string
	CourseID  *uint
	SubjectID *uint
}

type NewLesson struct {
	SectionID        uint
	Title            string
	VideoSource      string
	VideoKey         string
	Duration         float64
	IsFree           bool
	InstructorGender models.Gender
}

type Service struct {
	db  *gorm.DB
	seq database.Sequencer
}

// NewService uses seq for order numbers, or database.Orders when seq is nil.
func NewService(db *gorm.DB, seq database.Sequencer) *Service {
	if seq == nil {
		seq = database.Orders
	}
	return &Service{db: db, seq: seq}
}

func (s *Service) next(ctx context.Context, scope database.OrderScope) (int, error) {
	order, err := s.seq.NextOrder(ctx, s.db, scope)
	if err != nil {
		return 0, apperror.Internal(err, apperror.CodeInternal)
	}
	return order, nil
}

func find(ctx context.Context, db *gorm.DB, dst interface{}, id uint, code string) error {
	err := db.WithContext(ctx).First(dst, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(code)
	}
	if err != nil {
		return apperror.Internal(err, apperror.CodeInternal)
	}
	return nil
}

func (s *Service) create(ctx context.Context, v interface{}) error {
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return apperror.Internal(err, apperror.CodeInternal)
	}
	return nil
}

func (s *Service) CreateProgram(ctx context.Context, np NewProgram) (*courseModels.Program, error) {
	order, err := s.next(ctx, database.OrderScope{Table: "programs"})
	if err != nil {
		return nil, err
	}
	p := &courseModels.Program{
		Title:       strings.TrimSpace(np.Title),
		Description: np.Description,
		IsPublished: np.IsPublished,
		Order:       order,
	}
	return p, s.create(ctx, p)
}

func (s *Service) CreateSemester(ctx context.Context, programID uint, title string) (*courseModels.ProgramSemester, error) {
	var program courseModels.Program
	if err := find(ctx, s.db, &program, programID, apperror.CodeProgramNotFound); err != nil {
		return nil, err
	}
	order, err := s.next(ctx, database.OrderScope{Table: "program_semesters", Column: "program_id", Value: programID})
	if err != nil {
		return nil, err
	}
	sem := &courseModels.ProgramSemester{ProgramID: programID, Title: strings.TrimSpace(title), Order: order}
	return sem, s.create(ctx, sem)
}

func (s *Service) requireTeacher(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	var user models.User
	if err := find(ctx, s.db, &user, *id, apperror.CodeUserNotFound); err != nil {
		return err
	}
	if user.Role != models.RoleTeacher {
		return apperror.Validation(apperror.CodeNotTeacher, nil)
	}
	return nil
}

func (s *Service) CreateSubject(ctx context.Context, ns NewSubject) (*courseModels.Subject, error) {
	var semester courseModels.ProgramSemester
	if err := find(ctx, s.db, &semester, ns.SemesterID, apperror.CodeSemesterNotFound); err != nil {
		return nil, err
	}
	if err := s.requireTeacher(ctx, ns.MaleTeacherID); err != nil {
		return nil, err
	}
	if err := s.requireTeacher(ctx, ns.FemaleTeacherID); err != nil {
		return nil, err
	}

	order, err := s.next(ctx, database.OrderScope{Table: "subjects", Column: "semester_id", Value: ns.SemesterID})
	if err != nil {
		return nil, err
	}
	sub := &courseModels.Subject{
		SemesterID:      ns.SemesterID,
		Title:           strings.TrimSpace(ns.Title),
		Order:           order,
		IsGenderSplit:   ns.IsGenderSplit,
		MaleTeacherID:   ns.MaleTeacherID,
		FemaleTeacherID: ns.FemaleTeacherID,
		MaleLiveLink:    ns.MaleLiveLink,
		FemaleLiveLink:  ns.FemaleLiveLink,
	}
	return sub, s.create(ctx, sub)
}

// CreateCourse stores a course. A teacher creating a course becomes one of its instructors.
func (s *Service) CreateCourse(ctx context.Context, actor models.User, nc NewCourse) (*courseModels.Course, error) {
	ids := append([]uint{}, nc.InstructorIDs...)
	if actor.Role == models.RoleTeacher {
		ids = append(ids, actor.ID)
	}

	var instructors []models.User
	if len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ? AND role = ?", ids, models.RoleTeacher).Find(&instructors).Error; err != nil {
			return nil, apperror.Internal(err, apperror.CodeInternal)
		}
		if len(instructors) != len(unique(ids)) {
			return nil, apperror.Validation(apperror.CodeNotTeacher, map[string]string{"instructorIds": "teachers only"})
		}
	}

	order, err := s.next(ctx, database.OrderScope{Table: "courses"})
	if err != nil {
		return nil, err
	}
	c := &courseModels.Course{
		Title:       strings.TrimSpace(nc.Title),
		Description: nc.Description,
		IsPublished: nc.IsPublished,
		Order:       order,
		Instructors: instructors,
	}
	return c, s.create(ctx, c)
}

func unique(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// CheckSectionParent enforces that a section names exactly one of course and subject.
func CheckSectionParent(ns NewSection) error {
	if (ns.CourseID == nil) == (ns.SubjectID == nil) {
		return apperror.Validation(apperror.CodeSectionParent, map[string]string{
			"courseId":  "exactly one of courseId and subjectId",
			"subjectId": "exactly one of courseId and subjectId",
		})
	}
	return nil
}

func (s *Service) authorizeCourse(ctx context.Context, actor models.User, courseID uint) error {
	var course courseModels.Course
	if err := find(ctx, s.db, &course, courseID, apperror.CodeCourseNotFound); err != nil {
		return err
	}
	return authz.Require(authz.CanManageCourse(ctx, s.db, actor, courseID))
}

func (s *Service) authorizeSubject(ctx context.Context, actor models.User, subjectID uint) (*courseModels.Subject, error) {
	var subject courseModels.Subject
	if err := find(ctx, s.db, &subject, subjectID, apperror.CodeSubjectNotFound); err != nil {
		return nil, err
	}
	if !authz.CanManageSubject(actor, subject) {
		return nil, apperror.Forbidden(apperror.CodeForbidden)
	}
	return &subject, nil
}

// authorizeSection checks actor may write under section's parent and returns the parent subject, if any.
func (s *Service) authorizeSection(ctx context.Context, actor models.User, section courseModels.Section) (*courseModels.Subject, error) {
	if section.CourseID != nil {
		return nil, s.authorizeCourse(ctx, actor, *section.CourseID)
	}
	if section.SubjectID != nil {
		return s.authorizeSubject(ctx, actor, *section.SubjectID)
	}
	return nil, apperror.Validation(apperror.CodeSectionParent, nil)
}

func (s *Service) CreateSection(ctx context.Context, actor models.User, ns NewSection) (*courseModels.Section, error) {
	if err := CheckSectionParent(ns); err != nil {
		return nil, err
	}

	section := &courseModels.Section{Title: strings.TrimSpace(ns.Title), CourseID: ns.CourseID, SubjectID: ns.SubjectID}
	if _, err := s.authorizeSection(ctx, actor, *section); err != nil {
		return nil, err
	}

	scope := database.OrderScope{Table: "sections", Column: "course_id"}
	if ns.CourseID != nil {
		scope.Value = *ns.CourseID
	} else {
		scope.Column, scope.Value = "subject_id", *ns.SubjectID
	}
	order, err := s.next(ctx, scope)
	if err != nil {
		return nil, err
	}
	section.Order = order
	return section, s.create(ctx, section)
}

// CreateLesson appends a lesson to a section. Lessons under a subject carry its semester id.
func (s *Service) CreateLesson(ctx context.Context, actor models.User, nl NewLesson) (*courseModels.Lesson, error) {
	if nl.InstructorGender != models.GenderUnset && !nl.InstructorGender.Valid() {
		return nil, apperror.Validation(apperror.CodeValidationFailed, map[string]string{"instructorGender": "oneof male female"})
	}

	var section courseModels.Section
	if err := find(ctx, s.db, &section, nl.SectionID, apperror.CodeSectionNotFound); err != nil {
		return nil, err
	}
	subject, err := s.authorizeSection(ctx, actor, section)
	if err != nil {
		return nil, err
	}

	order, err := s.next(ctx, database.OrderScope{Table: "lessons", Column: "section_id", Value: section.ID})
	if err != nil {
		return nil, err
	}
	lesson := &courseModels.Lesson{
		SectionID:        section.ID,
		Title:            strings.TrimSpace(nl.Title),
		VideoSource:      nl.VideoSource,
		VideoKey:         nl.VideoKey,
		Duration:         nl.Duration,
		IsFree:           nl.IsFree,
		InstructorGender: nl.InstructorGender,
		Order:            order,
	}
	if subject != nil {
		lesson.SemesterID = &subject.SemesterID
	}
	return lesson, s.create(ctx, lesson)
}

// DeleteSection soft-deletes a section and its lessons. Sibling order values are left as they are.
func (s *Service) DeleteSection(ctx context.Context, actor models.User, id uint) error {
	var section courseModels.Section
	if err := find(ctx, s.db, &section, id, apperror.CodeSectionNotFound); err != nil {
		return err
	}
	if _, err := s.authorizeSection(ctx, actor, section); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", section.ID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&section).Error
	})
	if err != nil {
		return apperror.Internal(err, apperror.CodeInternal)
	}
	return nil
}

func (s *Service) DeleteLesson(ctx context.Context, actor models.User, id uint) error {
	var lesson courseModels.Lesson
	if err := find(ctx, s.db, &lesson, id, apperror.CodeLessonNotFound); err != nil {
		return err
	}
	var section courseModels.Section
	if err := find(ctx, s.db, &section, lesson.SectionID, apperror.CodeSectionNotFound); err != nil {
		return err
	}
	if _, err := s.authorizeSection(ctx, actor, section); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&lesson).Error; err != nil {
		return apperror.Internal(err, apperror.CodeInternal)
	}
	return nil
}

// SectionLessons lists a section's lessons by (order, id).
func (s *Service) SectionLessons(ctx context.Context, sectionID uint) ([]courseModels.Lesson, error) {
	var section courseModels.Section
	if err := find(ctx, s.db, &section, sectionID, apperror.CodeSectionNotFound); err != nil {
		return nil, err
	}

	var lessons []courseModels.Lesson
	err := s.db.WithContext(ctx).Where("section_id = ?", sectionID).Order("sort_order, id").Find(&lessons).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return lessons, nil
}
