// Package progress records per-lesson watch state and aggregates it per course.
package progress

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"madrasa/apperror"
	"madrasa/metrics"
	courseModels "madrasa/models/course"
)

// Report is one watch-time report. Nil durations keep the stored value.
type Report struct {
	UserID              uint
	LessonID            uint
	CourseID            uint
	WatchedDuration     *float64
	TotalDuration       *float64
	LastWatchedPosition *float64
}

type Stats struct {
	TotalLessons     int `json:"totalLessons"`
	CompletedLessons int `json:"completedLessons"`
	OverallProgress  int `json:"overallProgress"`
}

type CourseProgress struct {
	Progress []courseModels.Progress `json:"progress"`
	Stats    Stats                   `json:"stats"`
}

type Tracker struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{db: db, now: time.Now}
}

// WithClock replaces the tracker's clock.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Percentage is watched/total as a percentage in [0,100]. A non-positive total yields 0.
func Percentage(watched, total float64) float64 {
	if total <= 0 || math.IsNaN(watched) || math.IsNaN(total) {
		return 0
	}
	p := watched / total * 100
	p = math.Max(0, math.Min(100, p))
	return math.Round(p*100) / 100
}

// Summarize derives the aggregate for a student's records in one course.
// TotalLessons counts records, not the lessons the course contains.
func Summarize(records []courseModels.Progress) Stats {
	stats := Stats{TotalLessons: len(records)}
	for _, p := range records {
		if p.IsCompleted {
			stats.CompletedLessons++
		}
	}
	if stats.TotalLessons > 0 {
		stats.OverallProgress = int(math.Round(float64(stats.CompletedLessons) / float64(stats.TotalLessons) * 100))
	}
	return stats
}

func requireIDs(lessonID, courseID uint) error {
	fields := map[string]string{}
	if lessonID == 0 {
		fields["lessonId"] = "required"
	}
	if courseID == 0 {
		fields["courseId"] = "required"
	}
	if len(fields) > 0 {
		return apperror.Validation(apperror.CodeProgressIDsRequired, fields)
	}
	return nil
}

func (t *Tracker) lesson(ctx context.Context, id uint) (courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	err := t.db.WithContext(ctx).First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lesson, apperror.NotFound(apperror.CodeLessonNotFound)
	}
	if err != nil {
		return lesson, apperror.Internal(err, apperror.CodeInternal)
	}
	return lesson, nil
}

// courseLesson loads the lesson and rejects it when its section hangs off a different course.
// Subject lessons carry no course and pass through.
func (t *Tracker) courseLesson(ctx context.Context, lessonID, courseID uint) (courseModels.Lesson, error) {
	lesson, err := t.lesson(ctx, lessonID)
	if err != nil {
		return lesson, err
	}
	var section courseModels.Section
	if err := t.db.WithContext(ctx).First(&section, lesson.SectionID).Error; err != nil {
		return lesson, apperror.Internal(err, apperror.CodeInternal)
	}
	if section.CourseID != nil && *section.CourseID != courseID {
		return lesson, apperror.Validation(apperror.CodeProgressWrongCourse, map[string]string{"courseId": "lesson belongs to another course"})
	}
	return lesson, nil
}

func (t *Tracker) find(ctx context.Context, userID, lessonID uint) (*courseModels.Progress, error) {
	var p courseModels.Progress
	err := t.db.WithContext(ctx).Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return &p, nil
}

// insert creates p unless a row for (user, lesson) appeared in the meantime, in which case it
// returns the existing row and false.
func (t *Tracker) insert(ctx context.Context, p *courseModels.Progress) (*courseModels.Progress, bool, error) {
	res := t.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(p)
	if res.Error != nil {
		return nil, false, apperror.Internal(res.Error, apperror.CodeInternal)
	}
	if res.RowsAffected == 1 {
		return p, true, nil
	}
	existing, err := t.find(ctx, p.UserID, p.LessonID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, apperror.Internal(errors.New("progress row vanished after conflict"), apperror.CodeInternal)
	}
	return existing, false, nil
}

// RecordProgress upserts the watch state of (user, lesson). Reports overwrite the stored values
// (last write wins). Completion is never cleared here and a completed record stays at 100%.
func (t *Tracker) RecordProgress(ctx context.Context, r Report) (*courseModels.Progress, error) {
	if err := requireIDs(r.LessonID, r.CourseID); err != nil {
		return nil, err
	}
	lesson, err := t.courseLesson(ctx, r.LessonID, r.CourseID)
	if err != nil {
		return nil, err
	}

	existing, err := t.find(ctx, r.UserID, r.LessonID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		p := &courseModels.Progress{UserID: r.UserID, LessonID: r.LessonID, CourseID: r.CourseID}
		applyReport(p, r, lesson)
		var created bool
		existing, created, err = t.insert(ctx, p)
		if err != nil {
			return nil, err
		}
		if created {
			t.afterReport(ctx, r, lesson)
			return existing, nil
		}
	}

	applyReport(existing, r, lesson)
	err = t.db.WithContext(ctx).Model(existing).Updates(map[string]interface{}{
		"course_id":             existing.CourseID,
		"watched_duration":      existing.WatchedDuration,
		"total_duration":        existing.TotalDuration,
		"last_watched_position": existing.LastWatchedPosition,
		"progress_percentage":   existing.ProgressPercentage,
	}).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}

	t.afterReport(ctx, r, lesson)
	return existing, nil
}

func applyReport(p *courseModels.Progress, r Report, lesson courseModels.Lesson) {
	p.CourseID = r.CourseID
	if r.WatchedDuration != nil {
		p.WatchedDuration = math.Max(0, *r.WatchedDuration)
	}
	if r.LastWatchedPosition != nil {
		p.LastWatchedPosition = math.Max(0, *r.LastWatchedPosition)
	}
	switch {
	case r.TotalDuration != nil:
		p.TotalDuration = math.Max(0, *r.TotalDuration)
	case p.TotalDuration <= 0:
		p.TotalDuration = lesson.Duration
	}

	if p.IsCompleted {
		p.ProgressPercentage = 100
	} else {
		p.ProgressPercentage = Percentage(p.WatchedDuration, p.TotalDuration)
	}
}

// afterReport moves the enrollment's last-watched pointer. A failure here is logged, not returned.
func (t *Tracker) afterReport(ctx context.Context, r Report, lesson courseModels.Lesson) {
	metrics.ProgressReports.WithLabelValues("watch").Inc()

	db := t.db.WithContext(ctx)
	q := db.Model(&courseModels.Enrollment{}).Where("user_id = ?", r.UserID)
	if lesson.SemesterID != nil {
		sub := db.Model(&courseModels.ProgramSemester{}).Select("program_id").Where("id = ?", *lesson.SemesterID)
		q = q.Where("target_type = ? AND target_id = (?)", courseModels.TargetProgram, sub)
	} else {
		q = q.Where("target_type = ? AND target_id = ?", courseModels.TargetCourse, r.CourseID)
	}
	if err := q.Update("last_watched_lesson_id", r.LessonID).Error; err != nil {
		log.Printf("[PROGRESS] updating last watched lesson for user %d: %v", r.UserID, err)
	}
}

// MarkLessonComplete completes (user, lesson), creating the record if needed. Repeating it is a no-op.
func (t *Tracker) MarkLessonComplete(ctx context.Context, userID, lessonID, courseID uint) (*courseModels.Progress, error) {
	if err := requireIDs(lessonID, courseID); err != nil {
		return nil, err
	}
	lesson, err := t.courseLesson(ctx, lessonID, courseID)
	if err != nil {
		return nil, err
	}

	p, err := t.find(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	if p == nil {
		now := t.now()
		fresh := &courseModels.Progress{
			UserID:             userID,
			LessonID:           lessonID,
			CourseID:           courseID,
			TotalDuration:      lesson.Duration,
			ProgressPercentage: 100,
			IsCompleted:        true,
			CompletedAt:        &now,
		}
		var created bool
		p, created, err = t.insert(ctx, fresh)
		if err != nil {
			return nil, err
		}
		if created {
			metrics.ProgressReports.WithLabelValues("complete").Inc()
			metrics.LessonsCompleted.Inc()
			return p, nil
		}
	}

	if p.IsCompleted {
		return p, nil
	}
	if err := t.complete(ctx, p); err != nil {
		return nil, err
	}
	metrics.ProgressReports.WithLabelValues("complete").Inc()
	return p, nil
}

func (t *Tracker) complete(ctx context.Context, p *courseModels.Progress) error {
	now := t.now()
	err := t.db.WithContext(ctx).Model(p).Updates(map[string]interface{}{
		"is_completed":        true,
		"completed_at":        now,
		"progress_percentage": 100,
	}).Error
	if err != nil {
		return apperror.Internal(err, apperror.CodeInternal)
	}
	p.IsCompleted = true
	p.CompletedAt = &now
	p.ProgressPercentage = 100
	metrics.LessonsCompleted.Inc()
	return nil
}

// ToggleLessonComplete flips completion. It is the only way a completed record becomes incomplete;
// the percentage then falls back to the watched ratio.
func (t *Tracker) ToggleLessonComplete(ctx context.Context, userID, lessonID, courseID uint) (*courseModels.Progress, error) {
	if err := requireIDs(lessonID, courseID); err != nil {
		return nil, err
	}
	if _, err := t.courseLesson(ctx, lessonID, courseID); err != nil {
		return nil, err
	}

	p, err := t.find(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsCompleted {
		p, err = t.MarkLessonComplete(ctx, userID, lessonID, courseID)
		if err != nil {
			return nil, err
		}
		metrics.ProgressReports.WithLabelValues("toggle").Inc()
		return p, nil
	}

	pct := Percentage(p.WatchedDuration, p.TotalDuration)
	err = t.db.WithContext(ctx).Model(p).Updates(map[string]interface{}{
		"is_completed":        false,
		"completed_at":        nil,
		"progress_percentage": pct,
	}).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	p.IsCompleted = false
	p.CompletedAt = nil
	p.ProgressPercentage = pct
	metrics.ProgressReports.WithLabelValues("toggle").Inc()
	return p, nil
}

// CourseProgress returns the student's records for a course with their aggregate.
func (t *Tracker) CourseProgress(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	if courseID == 0 {
		return nil, apperror.Validation(apperror.CodeValidationFailed, map[string]string{"courseId": "required"})
	}

	var records []courseModels.Progress
	err := t.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}

	return &CourseProgress{Progress: records, Stats: Summarize(records)}, nil
}
