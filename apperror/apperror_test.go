package apperror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Unauthenticated(CodeUnauthenticated), http.StatusUnauthorized},
		{Forbidden(CodeForbidden), http.StatusForbidden},
		{NotFound(CodeLessonNotFound), http.StatusNotFound},
		{Validation(CodeProgressIDsRequired, nil), http.StatusBadRequest},
		{Conflict(CodeRetakePending), http.StatusBadRequest},
		{Internal(fmt.Errorf("connection refused"), CodeInternal), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err).Status())
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("approve: %w", Conflict(CodeRetakePending))

	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, CodeRetakePending, CodeOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindNotFound))
}

func TestCodeOf_Unclassified(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("boom")))
}

func TestInternal_Nil(t *testing.T) {
	assert.NoError(t, Internal(nil, CodeInternal))
}

func TestFieldsOf(t *testing.T) {
	err := Validation(CodeValidationFailed, map[string]string{"reason": "required"})

	assert.Equal(t, map[string]string{"reason": "required"}, FieldsOf(err))
	assert.Nil(t, FieldsOf(NotFound(CodeExamNotFound)))
}
