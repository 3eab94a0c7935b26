// Package access decides which lessons and live-class link a student sees, by gender.
//
// Two rules apply and must not be merged. Lesson lists: in a gender-split subject a male student
// sees only male-tagged lessons, everyone else sees every lesson. Live links: male gets the male
// link, female gets the female link, unset gets none.
package access

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"madrasa/apperror"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/services/enrollment"
)

// FilterLessons applies the lesson-list rule.
func FilterLessons(subject courseModels.Subject, lessons []courseModels.Lesson, gender models.Gender) []courseModels.Lesson {
	if !subject.IsGenderSplit || gender != models.GenderMale {
		return lessons
	}
	visible := make([]courseModels.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l.InstructorGender == models.GenderMale {
			visible = append(visible, l)
		}
	}
	return visible
}

// LiveLink applies the live-link rule. An empty stored link counts as none.
func LiveLink(subject courseModels.Subject, gender models.Gender) *string {
	var link string
	switch gender {
	case models.GenderMale:
		link = subject.MaleLiveLink
	case models.GenderFemale:
		link = subject.FemaleLiveLink
	}
	if link == "" {
		return nil
	}
	return &link
}

type LiveLinkResult struct {
	LiveLink   *string       `json:"liveLink"`
	UserGender models.Gender `json:"userGender"`
}

type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// subject loads a subject and checks the student is enrolled in its program.
func (r *Resolver) subject(ctx context.Context, student models.User, subjectID uint) (courseModels.Subject, error) {
	var subject courseModels.Subject
	err := r.db.WithContext(ctx).First(&subject, subjectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return subject, apperror.NotFound(apperror.CodeSubjectNotFound)
	}
	if err != nil {
		return subject, apperror.Internal(err, apperror.CodeInternal)
	}

	programID, err := enrollment.ProgramOfSemester(ctx, r.db, subject.SemesterID)
	if err != nil {
		return subject, err
	}
	ok, err := enrollment.InProgram(ctx, r.db, student.ID, programID)
	if err != nil {
		return subject, err
	}
	if !ok {
		return subject, apperror.Forbidden(apperror.CodeNotEnrolled)
	}
	return subject, nil
}

// SubjectLessons lists the subject's lessons visible to student, in order.
func (r *Resolver) SubjectLessons(ctx context.Context, student models.User, subjectID uint) ([]courseModels.Lesson, error) {
	subject, err := r.subject(ctx, student, subjectID)
	if err != nil {
		return nil, err
	}

	var lessons []courseModels.Lesson
	err = r.db.WithContext(ctx).
		Joins("JOIN sections ON sections.id = lessons.section_id AND sections.deleted_at IS NULL").
		Where("sections.subject_id = ?", subject.ID).
		Order("sections.sort_order, sections.id, lessons.sort_order, lessons.id").
		Find(&lessons).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}

	return FilterLessons(subject, lessons, student.Gender), nil
}

// StudentLiveLink resolves the live-class link for student in a subject.
func (r *Resolver) StudentLiveLink(ctx context.Context, student models.User, subjectID uint) (*LiveLinkResult, error) {
	subject, err := r.subject(ctx, student, subjectID)
	if err != nil {
		return nil, err
	}
	return &LiveLinkResult{LiveLink: LiveLink(subject, student.Gender), UserGender: student.Gender}, nil
}
