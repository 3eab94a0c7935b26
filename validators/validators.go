// Package validators holds the shared request validator and helpers used by the per-area
// validator packages.
package validators

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"madrasa/apperror"
	"madrasa/middleware"
	"madrasa/models"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	genderTag   = "gender"
	roleTag     = "role"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = Validate.RegisterValidation(genderTag, func(fl validator.FieldLevel) bool {
		return models.Gender(fl.Field().String()).Valid()
	})
	_ = Validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, genderTag, roleTag} {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case genderTag:
		return "must be male or female"
	case roleTag:
		return "must be student, teacher or admin"
	default:
		return ""
	}
}

// Struct validates v and converts failures into a field-keyed Validation error.
func Struct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Internal(err, apperror.CodeInternal)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(Translator)
	}
	return apperror.Validation(apperror.CodeValidationFailed, fields)
}

// Body parses the JSON body into dst and validates it.
func Body(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.Validation(apperror.CodeInvalidBody, nil)
	}
	return Struct(dst)
}

// Query parses the query string into dst and validates it.
func Query(c *fiber.Ctx, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return apperror.Validation(apperror.CodeInvalidBody, nil)
	}
	return Struct(dst)
}

// ParseID reads a positive integer route parameter.
func ParseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Params(param)), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation(apperror.CodeInvalidID, map[string]string{param: "must be a positive integer"})
	}
	return uint(id), nil
}

// ID stores the route parameter param under the local key.
func ID(param, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := ParseID(c, param)
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}
		c.Locals(key, id)
		return c.Next()
	}
}

// Validated parses the body into a fresh T, validates it and stores it under key.
func Validated[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := Body(c, reqData); err != nil {
			return middleware.ErrorResponse(c, err)
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}

// ValidatedQuery is Validated for query strings.
func ValidatedQuery[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := Query(c, reqData); err != nil {
			return middleware.ErrorResponse(c, err)
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}
