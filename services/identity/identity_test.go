package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"madrasa/apperror"
	"madrasa/models"
	"madrasa/testutil"
)

func TestCreateUser(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	store := NewStore(db, bcrypt.MinCost)

	u, err := store.CreateUser(ctx, NewUser{Name: " Amina ", Email: "Amina@Example.com", Password: "secret123", Role: models.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", u.Email)
	assert.Equal(t, "Amina", u.Name)
	assert.False(t, u.IsApproved)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123")))

	_, err = store.CreateUser(ctx, NewUser{Email: "amina@example.com", Password: "x", Role: models.RoleStudent})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestToggleTeacherApproval(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	store := NewStore(db, bcrypt.MinCost)

	teacher := testutil.Teacher(t, db, false)
	u, err := store.ToggleTeacherApproval(ctx, teacher.ID)
	require.NoError(t, err)
	assert.True(t, u.IsApproved)

	u, err = store.ToggleTeacherApproval(ctx, teacher.ID)
	require.NoError(t, err)
	assert.False(t, u.IsApproved)

	student := testutil.Student(t, db, models.GenderMale)
	_, err = store.ToggleTeacherApproval(ctx, student.ID)
	assert.Equal(t, apperror.CodeNotTeacher, apperror.CodeOf(err))
}

func TestSetGenderOnce(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	store := NewStore(db, bcrypt.MinCost)
	student := testutil.Student(t, db, models.GenderUnset)

	_, err := store.SetGender(ctx, student.ID, "other")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	u, err := store.SetGender(ctx, student.ID, models.GenderFemale)
	require.NoError(t, err)
	assert.Equal(t, models.GenderFemale, u.Gender)

	_, err = store.SetGender(ctx, student.ID, models.GenderMale)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestGenderChangeWorkflow(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	store := NewStore(db, bcrypt.MinCost)
	admin := testutil.Admin(t, db)
	student := testutil.Student(t, db, models.GenderMale)

	_, err := store.SubmitGenderChange(ctx, student.ID, models.GenderFemale, "   ")
	assert.Equal(t, apperror.CodeGenderChangeReasonEmpty, apperror.CodeOf(err))

	_, err = store.SubmitGenderChange(ctx, student.ID, models.GenderMale, "typo")
	assert.Equal(t, apperror.CodeGenderUnchanged, apperror.CodeOf(err))

	u, err := store.SubmitGenderChange(ctx, student.ID, models.GenderFemale, "registered wrongly")
	require.NoError(t, err)
	assert.Equal(t, models.GenderRequestPending, u.GenderChange.Status)

	_, err = store.SubmitGenderChange(ctx, student.ID, models.GenderFemale, "again")
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	pending, err := store.PendingGenderChanges(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, student.ID, pending[0].ID)

	u, err = store.ReviewGenderChange(ctx, admin.ID, student.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.GenderFemale, u.Gender)
	assert.Equal(t, models.GenderRequestApproved, u.GenderChange.Status)

	_, err = store.ReviewGenderChange(ctx, admin.ID, student.ID, false)
	assert.Equal(t, apperror.CodeGenderChangeNotPending, apperror.CodeOf(err))

	stored, err := store.Get(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GenderFemale, stored.Gender)
	require.NotNil(t, stored.GenderChange.ReviewedBy)
	assert.Equal(t, admin.ID, *stored.GenderChange.ReviewedBy)
}

func TestRejectedGenderChangeKeepsGender(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	store := NewStore(db, bcrypt.MinCost)
	admin := testutil.Admin(t, db)
	student := testutil.Student(t, db, models.GenderFemale)

	_, err := store.SubmitGenderChange(ctx, student.ID, models.GenderMale, "reason")
	require.NoError(t, err)
	u, err := store.ReviewGenderChange(ctx, admin.ID, student.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.GenderFemale, u.Gender)
	assert.Equal(t, models.GenderRequestRejected, u.GenderChange.Status)

	_, err = store.SubmitGenderChange(ctx, student.ID, models.GenderMale, "second try")
	assert.NoError(t, err, "a new request is allowed after a terminal review")
}
