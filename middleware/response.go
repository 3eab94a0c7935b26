package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"madrasa/apperror"
	"madrasa/locale"
	"madrasa/utils"
)

func JsonResponse(c *fiber.Ctx, statusCode int, body interface{}) error {
	return c.Status(statusCode).JSON(body)
}

// ErrorResponse writes {"error": message} in the caller's language. Validation errors add
// "fields". Infrastructure failures are logged and reported; their detail never reaches the client.
func ErrorResponse(c *fiber.Ctx, err error) error {
	kind := apperror.KindOf(err)
	tag := locale.Negotiate(c.Get(fiber.HeaderAcceptLanguage))

	body := fiber.Map{"error": locale.Translate(tag, apperror.CodeOf(err))}
	if kind == apperror.KindInfrastructure {
		body["error"] = locale.Translate(tag, apperror.CodeInternal)
		log.Printf("[HTTP] %s %s: %+v", c.Method(), c.Path(), err)
		utils.ReportError(err, map[string]interface{}{"method": c.Method(), "path": c.Path()})
	}
	if fields := apperror.FieldsOf(err); len(fields) > 0 {
		body["fields"] = fields
	}
	return JsonResponse(c, kind.Status(), body)
}

func ValidationErrorResponse(c *fiber.Ctx, fields map[string]string) error {
	return ErrorResponse(c, apperror.Validation(apperror.CodeValidationFailed, fields))
}

// ErrorHandler is the fiber.Config error handler for errors no route converted itself.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return JsonResponse(c, fe.Code, fiber.Map{"error": fe.Message})
	}
	return ErrorResponse(c, err)
}

// Message translates key into the caller's language.
func Message(c *fiber.Ctx, key string) string {
	return locale.Translate(locale.Negotiate(c.Get(fiber.HeaderAcceptLanguage)), key)
}
