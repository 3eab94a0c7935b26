// Package identity manages user accounts, teacher approval and the gender workflow.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"madrasa/apperror"
	"madrasa/models"
)

type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Gender   models.Gender
}

type Store struct {
	db   *gorm.DB
	cost int
	now  func() time.Time
}

// NewStore returns a store hashing passwords with the given bcrypt cost.
func NewStore(db *gorm.DB, cost int) *Store {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Store{db: db, cost: cost, now: time.Now}
}

func (s *Store) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(apperror.CodeUserNotFound)
	}
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return &user, nil
}

// CreateUser stores a new account. Teachers start unapproved.
func (s *Store) CreateUser(ctx context.Context, nu NewUser) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	db := s.db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	if n > 0 {
		return nil, apperror.Conflict(apperror.CodeEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), s.cost)
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}

	user := models.User{
		Name:         strings.TrimSpace(nu.Name),
		Email:        email,
		Password:     string(hash),
		Role:         nu.Role,
		Gender:       nu.Gender,
		GenderChange: models.GenderChangeRequest{Status: models.GenderRequestNone},
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict(apperror.CodeEmailTaken)
		}
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return &user, nil
}

// ToggleTeacherApproval flips a teacher's approval flag.
func (s *Store) ToggleTeacherApproval(ctx context.Context, teacherID uint) (*models.User, error) {
	user, err := s.Get(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleTeacher {
		return nil, apperror.Validation(apperror.CodeNotTeacher, nil)
	}

	user.IsApproved = !user.IsApproved
	if err := s.db.WithContext(ctx).Model(user).Update("is_approved", user.IsApproved).Error; err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return user, nil
}

func (s *Store) student(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsStudent() {
		return nil, apperror.Validation(apperror.CodeNotStudent, nil)
	}
	return user, nil
}

// SetGender sets a student's gender once. Later changes go through SubmitGenderChange.
func (s *Store) SetGender(ctx context.Context, studentID uint, gender models.Gender) (*models.User, error) {
	if !gender.Valid() {
		return nil, apperror.Validation(apperror.CodeValidationFailed, map[string]string{"gender": "oneof male female"})
	}
	user, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if user.Gender != models.GenderUnset {
		return nil, apperror.Conflict(apperror.CodeGenderAlreadySet)
	}

	res := s.db.WithContext(ctx).Model(user).Where("gender = ?", models.GenderUnset).Update("gender", gender)
	if res.Error != nil {
		return nil, apperror.Internal(res.Error, apperror.CodeInternal)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.Conflict(apperror.CodeGenderAlreadySet)
	}
	user.Gender = gender
	return user, nil
}

// SubmitGenderChange opens a change request. Only one may be pending at a time.
func (s *Store) SubmitGenderChange(ctx context.Context, studentID uint, gender models.Gender, reason string) (*models.User, error) {
	if !gender.Valid() {
		return nil, apperror.Validation(apperror.CodeValidationFailed, map[string]string{"gender": "oneof male female"})
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.Validation(apperror.CodeGenderChangeReasonEmpty, map[string]string{"reason": "required"})
	}

	user, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	switch {
	case user.Gender == models.GenderUnset:
		return nil, apperror.Validation(apperror.CodeGenderNotSet, nil)
	case user.Gender == gender:
		return nil, apperror.Validation(apperror.CodeGenderUnchanged, nil)
	case user.GenderChange.Status == models.GenderRequestPending:
		return nil, apperror.Conflict(apperror.CodeGenderChangePending)
	}

	now := s.now()
	change := models.GenderChangeRequest{
		Status:          models.GenderRequestPending,
		RequestedGender: gender,
		Reason:          reason,
		RequestedAt:     &now,
	}
	err = s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"gender_change_status":           change.Status,
		"gender_change_requested_gender": change.RequestedGender,
		"gender_change_reason":           change.Reason,
		"gender_change_requested_at":     change.RequestedAt,
		"gender_change_reviewed_by":      nil,
		"gender_change_reviewed_at":      nil,
	}).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	user.GenderChange = change
	return user, nil
}

// ReviewGenderChange approves or rejects the pending request. Approval applies the requested gender.
func (s *Store) ReviewGenderChange(ctx context.Context, adminID, studentID uint, approve bool) (*models.User, error) {
	user, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if user.GenderChange.Status != models.GenderRequestPending {
		return nil, apperror.Validation(apperror.CodeGenderChangeNotPending, nil)
	}

	now := s.now()
	updates := map[string]interface{}{
		"gender_change_reviewed_by": adminID,
		"gender_change_reviewed_at": now,
	}
	if approve {
		updates["gender_change_status"] = models.GenderRequestApproved
		updates["gender"] = user.GenderChange.RequestedGender
	} else {
		updates["gender_change_status"] = models.GenderRequestRejected
	}

	res := s.db.WithContext(ctx).Model(user).
		Where("gender_change_status = ?", models.GenderRequestPending).
		Updates(updates)
	if res.Error != nil {
		return nil, apperror.Internal(res.Error, apperror.CodeInternal)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.Validation(apperror.CodeGenderChangeNotPending, nil)
	}

	if approve {
		user.Gender = user.GenderChange.RequestedGender
		user.GenderChange.Status = models.GenderRequestApproved
	} else {
		user.GenderChange.Status = models.GenderRequestRejected
	}
	user.GenderChange.ReviewedBy = &adminID
	user.GenderChange.ReviewedAt = &now
	return user, nil
}

// PendingGenderChanges lists students waiting for a review, oldest request first.
func (s *Store) PendingGenderChanges(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("role = ? AND gender_change_status = ?", models.RoleStudent, models.GenderRequestPending).
		Order("gender_change_requested_at").
		Find(&users).Error
	if err != nil {
		return nil, apperror.Internal(err, apperror.CodeInternal)
	}
	return users, nil
}
