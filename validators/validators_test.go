package validators

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa/apperror"
)

type profile struct {
	Name   string `json:"name" validate:"notblank"`
	Gender string `json:"gender" validate:"required,gender"`
	Role   string `json:"role" validate:"omitempty,role"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type lookup struct {
	SubjectID uint `query:"subjectId" validate:"required"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(profile{Name: "Aisha", Gender: "female", Role: "student"}))

	err := Struct(profile{Name: "   ", Gender: "other", Role: "guest", Email: "nope"})
	require.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, apperror.CodeValidationFailed, apperror.CodeOf(err))
	assert.Equal(t, map[string]string{
		"name":   "this field cannot be blank",
		"gender": "must be male or female",
		"role":   "must be student, teacher or admin",
		"email":  "email must be a valid email address",
	}, apperror.FieldsOf(err))
}

func TestValidatedHandlers(t *testing.T) {
	app := fiber.New()
	app.Post("/profile", Validated[profile]("validatedProfile"), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("validatedProfile").(*profile).Name)
	})
	app.Get("/lookup", ValidatedQuery[lookup]("validatedLookup"), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals("validatedLookup"))
	})
	app.Get("/items/:id", ID("id", "itemID"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Locals("itemID")})
	})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"valid body", http.MethodPost, "/profile", `{"name":"Aisha","gender":"female"}`, http.StatusOK},
		{"malformed body", http.MethodPost, "/profile", `{"name":`, http.StatusBadRequest},
		{"invalid body", http.MethodPost, "/profile", `{"name":"Aisha","gender":"x"}`, http.StatusBadRequest},
		{"valid query", http.MethodGet, "/lookup?subjectId=3", "", http.StatusOK},
		{"missing query", http.MethodGet, "/lookup", "", http.StatusBadRequest},
		{"valid id", http.MethodGet, "/items/12", "", http.StatusOK},
		{"zero id", http.MethodGet, "/items/0", "", http.StatusBadRequest},
		{"negative id", http.MethodGet, "/items/-4", "", http.StatusBadRequest},
		{"word id", http.MethodGet, "/items/abc", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
