package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa/apperror"
	"madrasa/models"
	courseModels "madrasa/models/course"
	"madrasa/testutil"
)

func tagged(genders ...models.Gender) []courseModels.Lesson {
	lessons := make([]courseModels.Lesson, len(genders))
	for i, g := range genders {
		lessons[i] = courseModels.Lesson{InstructorGender: g}
	}
	return lessons
}

func TestFilterLessons(t *testing.T) {
	split := courseModels.Subject{IsGenderSplit: true}
	mixed := courseModels.Subject{}
	lessons := tagged(models.GenderMale, models.GenderMale, models.GenderFemale)

	tests := []struct {
		name    string
		subject courseModels.Subject
		gender  models.Gender
		want    int
	}{
		{"male in split subject", split, models.GenderMale, 2},
		{"female in split subject", split, models.GenderFemale, 3},
		{"unset in split subject", split, models.GenderUnset, 3},
		{"male in mixed subject", mixed, models.GenderMale, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterLessons(tt.subject, lessons, tt.gender)
			assert.Len(t, got, tt.want)
			if tt.subject.IsGenderSplit && tt.gender == models.GenderMale {
				for _, l := range got {
					assert.Equal(t, models.GenderMale, l.InstructorGender)
				}
			}
		})
	}
}

func TestLiveLink(t *testing.T) {
	subject := courseModels.Subject{MaleLiveLink: "m", FemaleLiveLink: "f"}

	assert.Equal(t, "m", *LiveLink(subject, models.GenderMale))
	assert.Equal(t, "f", *LiveLink(subject, models.GenderFemale))
	assert.Nil(t, LiveLink(subject, models.GenderUnset))
	assert.Nil(t, LiveLink(courseModels.Subject{}, models.GenderMale))
}

func TestSubjectLessons(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	resolver := NewResolver(db)

	program, semesters := testutil.Program(t, db, 1)
	subject := testutil.Subject(t, db, semesters[0].ID, true, nil, nil)
	section := testutil.SubjectSection(t, db, subject.ID)
	testutil.Lesson(t, db, section, models.GenderMale, 60)
	testutil.Lesson(t, db, section, models.GenderMale, 60)
	testutil.Lesson(t, db, section, models.GenderFemale, 60)

	male := testutil.Student(t, db, models.GenderMale)
	female := testutil.Student(t, db, models.GenderFemale)
	unset := testutil.Student(t, db, models.GenderUnset)
	for _, s := range []models.User{male, female, unset} {
		testutil.EnrollProgram(t, db, s.ID, program.ID, &semesters[0].ID)
	}

	got, err := resolver.SubjectLessons(ctx, male, subject.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = resolver.SubjectLessons(ctx, female, subject.ID)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "Lesson 1", got[0].Title)

	got, err = resolver.SubjectLessons(ctx, unset, subject.ID)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestStudentLiveLink(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	resolver := NewResolver(db)

	program, semesters := testutil.Program(t, db, 1)
	subject := testutil.Subject(t, db, semesters[0].ID, true, nil, nil)
	female := testutil.Student(t, db, models.GenderFemale)
	unset := testutil.Student(t, db, models.GenderUnset)
	stranger := testutil.Student(t, db, models.GenderMale)
	testutil.EnrollProgram(t, db, female.ID, program.ID, nil)
	testutil.EnrollProgram(t, db, unset.ID, program.ID, nil)

	res, err := resolver.StudentLiveLink(ctx, female, subject.ID)
	require.NoError(t, err)
	require.NotNil(t, res.LiveLink)
	assert.Equal(t, subject.FemaleLiveLink, *res.LiveLink)
	assert.Equal(t, models.GenderFemale, res.UserGender)

	res, err = resolver.StudentLiveLink(ctx, unset, subject.ID)
	require.NoError(t, err)
	assert.Nil(t, res.LiveLink)

	_, err = resolver.StudentLiveLink(ctx, stranger, subject.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = resolver.StudentLiveLink(ctx, female, 4040)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
